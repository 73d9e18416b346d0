package repository

import "gorm.io/gorm"

type Repository struct {
	DB         *gorm.DB
	Orders     OrderRepo
	OrderItems OrderItemRepo
	Materials  MaterialRepo
	Products   ProductRepo
	Expenses   ExpenseRepo
	Stats      StatsRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:         db,
		Orders:     NewOrderRepo(db),
		OrderItems: NewOrderItemRepo(db),
		Materials:  NewMaterialRepo(db),
		Products:   NewProductRepo(db),
		Expenses:   NewExpenseRepo(db),
		Stats:      NewStatsRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }
