package service

import (
	"context"
	"strings"
	"time"

	"crm-service/internal/models"
	"crm-service/internal/repository"

	"github.com/google/uuid"
)

type ExpenseInput struct {
	Name        string
	ExpenseType string
	Periodicity string
	Description string
	AmountCents int64
	ActualDate  time.Time
}

type ExpensePatch struct {
	Name        *string
	ExpenseType *string
	Periodicity *string
	Description *string
	AmountCents *int64
	ActualDate  *time.Time
}

// ExpenseService — накладные расходы бизнеса (аренда, коммуналка и
// прочее), не привязанные к конкретному заказу.
type ExpenseService interface {
	CreateExpense(ctx context.Context, in ExpenseInput) (*models.Expense, error)
	GetExpense(ctx context.Context, id uuid.UUID) (*models.Expense, error)
	ListExpenses(ctx context.Context, f repository.ExpenseListFilter) ([]models.Expense, int64, error)
	UpdateExpense(ctx context.Context, id uuid.UUID, patch ExpensePatch) (*models.Expense, error)
	DeleteExpense(ctx context.Context, id uuid.UUID) error
}

type expenseService struct {
	repo *repository.Repository
	now  func() time.Time
}

func NewExpenseService(repo *repository.Repository) ExpenseService {
	return &expenseService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *expenseService) CreateExpense(ctx context.Context, in ExpenseInput) (*models.Expense, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.AmountCents < 0 {
		return nil, ErrInvalidAmount
	}
	actualDate := in.ActualDate
	if actualDate.IsZero() {
		actualDate = s.now()
	}

	now := s.now()
	exp := &models.Expense{
		Name:        name,
		ExpenseType: strings.TrimSpace(in.ExpenseType),
		Periodicity: strings.TrimSpace(in.Periodicity),
		Description: strings.TrimSpace(in.Description),
		AmountCents: in.AmountCents,
		ActualDate:  actualDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Expenses.Create(ctx, exp); err != nil {
		return nil, err
	}
	return exp, nil
}

func (s *expenseService) GetExpense(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	exp, err := s.repo.Expenses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, ErrExpenseNotFound
	}
	return exp, nil
}

func (s *expenseService) ListExpenses(ctx context.Context, f repository.ExpenseListFilter) ([]models.Expense, int64, error) {
	return s.repo.Expenses.List(ctx, f)
}

func (s *expenseService) UpdateExpense(ctx context.Context, id uuid.UUID, patch ExpensePatch) (*models.Expense, error) {
	exp, err := s.repo.Expenses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, ErrExpenseNotFound
	}

	fields := map[string]any{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, ErrInvalidAmount
		}
		fields["name"] = name
	}
	if patch.ExpenseType != nil {
		fields["expense_type"] = strings.TrimSpace(*patch.ExpenseType)
	}
	if patch.Periodicity != nil {
		fields["periodicity"] = strings.TrimSpace(*patch.Periodicity)
	}
	if patch.Description != nil {
		fields["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.AmountCents != nil {
		if *patch.AmountCents < 0 {
			return nil, ErrInvalidAmount
		}
		fields["amount_cents"] = *patch.AmountCents
	}
	if patch.ActualDate != nil {
		fields["actual_date"] = *patch.ActualDate
	}

	if len(fields) == 0 {
		return exp, nil
	}
	fields["updated_at"] = s.now()

	if err := s.repo.Expenses.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.Expenses.GetByID(ctx, id)
}

func (s *expenseService) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	ok, err := s.repo.Expenses.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrExpenseNotFound
	}
	return nil
}
