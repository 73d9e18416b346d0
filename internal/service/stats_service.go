package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"crm-service/internal/cache"
	"crm-service/internal/logger"
	"crm-service/internal/repository"

	"go.uber.org/zap"
)

const (
	StatsTypeAll      = "all"
	StatsTypeOrders   = "orders"
	StatsTypeExpenses = "expenses"

	statsCacheTTL = time.Minute
)

// DayStat — одна строка месячной сводки: день и суммы по заказам и
// расходам за него.
type DayStat struct {
	Day           string `json:"day"`
	OrdersCount   int64  `json:"orders_count"`
	OrdersCents   int64  `json:"orders_cents"`
	ExpensesCount int64  `json:"expenses_count"`
	ExpensesCents int64  `json:"expenses_cents"`
}

type MonthStats struct {
	Year               int       `json:"year"`
	Month              int       `json:"month"`
	StatsType          string    `json:"stats_type"`
	Days               []DayStat `json:"days"`
	TotalOrders        int64     `json:"total_orders"`
	TotalOrdersCents   int64     `json:"total_orders_cents"`
	TotalExpenses      int64     `json:"total_expenses"`
	TotalExpensesCents int64     `json:"total_expenses_cents"`
}

type StatsService interface {
	MonthStatistics(ctx context.Context, year, month int, statsType string) (*MonthStats, error)
}

type statsService struct {
	repo  *repository.Repository
	cache *cache.RedisClient
}

// NewStatsService собирает сервис статистики; cache может быть nil,
// тогда каждая сводка считается заново.
func NewStatsService(repo *repository.Repository, c *cache.RedisClient) StatsService {
	return &statsService{
		repo:  repo,
		cache: c,
	}
}

func (s *statsService) MonthStatistics(ctx context.Context, year, month int, statsType string) (*MonthStats, error) {
	switch statsType {
	case StatsTypeAll, StatsTypeOrders, StatsTypeExpenses:
	case "":
		statsType = StatsTypeAll
	default:
		return nil, ErrInvalidAmount
	}
	if year < 2000 || year > 2200 || month < 1 || month > 12 {
		return nil, ErrInvalidAmount
	}

	key := fmt.Sprintf("stats:month:%04d-%02d:%s", year, month, statsType)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var cached MonthStats
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		} else if !s.cache.IsMiss(err) {
			logger.L().Warn("Не удалось прочитать кэш статистики", zap.String("key", key), zap.Error(err))
		}
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	stats := &MonthStats{
		Year:      year,
		Month:     month,
		StatsType: statsType,
		Days:      []DayStat{},
	}

	byDay := map[string]*DayStat{}
	dayOf := func(day string) *DayStat {
		if d, ok := byDay[day]; ok {
			return d
		}
		d := &DayStat{Day: day}
		byDay[day] = d
		return d
	}

	if statsType == StatsTypeAll || statsType == StatsTypeOrders {
		rows, err := s.repo.Stats.OrdersByDay(ctx, from, to)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			d := dayOf(row.Day.Format("2006-01-02"))
			d.OrdersCount = row.OrdersCount
			d.OrdersCents = row.AmountCents
			stats.TotalOrders += row.OrdersCount
			stats.TotalOrdersCents += row.AmountCents
		}
	}

	if statsType == StatsTypeAll || statsType == StatsTypeExpenses {
		rows, err := s.repo.Stats.ExpensesByDay(ctx, from, to)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			d := dayOf(row.Day.Format("2006-01-02"))
			d.ExpensesCount = row.ExpensesCount
			d.ExpensesCents = row.AmountCents
			stats.TotalExpenses += row.ExpensesCount
			stats.TotalExpensesCents += row.AmountCents
		}
	}

	// дни месяца по порядку, дни без активности пропускаются
	for cur := from; cur.Before(to); cur = cur.AddDate(0, 0, 1) {
		if d, ok := byDay[cur.Format("2006-01-02")]; ok {
			stats.Days = append(stats.Days, *d)
		}
	}

	if s.cache != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, key, raw, statsCacheTTL); err != nil {
				logger.L().Warn("Не удалось записать кэш статистики", zap.String("key", key), zap.Error(err))
			}
		}
	}

	return stats, nil
}
