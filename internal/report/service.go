// Package report serves sales aggregates and the cashier dashboard from the
// persisted facts; it never re-derives totals from source orders.
package report

import (
	"context"
	"time"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/repository"
)

type Service struct {
	store repository.Store
	now   func() time.Time
}

func NewService(store repository.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Daily returns today's sales row (zero if no sales landed yet).
func (s *Service) Daily(ctx context.Context) (domain.SalesReport, error) {
	return s.store.GetDay(ctx, s.now().Format("2006-01-02"))
}

// Range aggregates daily rows over a named window: week, month or year.
func (s *Service) Range(ctx context.Context, name string) (domain.SalesRange, error) {
	now := s.now()
	var from time.Time
	switch name {
	case "week":
		from = now.AddDate(0, 0, -7)
	case "month":
		from = now.AddDate(0, -1, 0)
	case "year":
		from = now.AddDate(-1, 0, 0)
	default:
		return domain.SalesRange{}, domain.Ef(domain.KindValidation, "unknown time range %q", name)
	}

	fromDate := from.Format("2006-01-02")
	toDate := now.Format("2006-01-02")
	daily, err := s.store.SalesBetween(ctx, fromDate, toDate)
	if err != nil {
		return domain.SalesRange{}, err
	}
	total := 0.0
	for _, d := range daily {
		total += d.TotalSales
	}
	return domain.SalesRange{
		Range: name, From: fromDate, To: toDate,
		TotalSales: total, Daily: daily,
	}, nil
}

// CashierDashboard bundles what a cashier terminal renders on load: orders
// still in flight, the bill-request queue and today's running total.
func (s *Service) CashierDashboard(ctx context.Context) (domain.CashierDashboard, error) {
	orders, err := s.store.ListOrders(ctx, repository.OrderFilter{})
	if err != nil {
		return domain.CashierDashboard{}, err
	}
	open := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status != domain.OrderCompleted && o.Status != domain.OrderPaid {
			open = append(open, o)
		}
	}

	bills, err := s.store.BillRequests(ctx)
	if err != nil {
		return domain.CashierDashboard{}, err
	}
	today, err := s.store.GetDay(ctx, s.now().Format("2006-01-02"))
	if err != nil {
		return domain.CashierDashboard{}, err
	}
	return domain.CashierDashboard{
		OpenOrders:   open,
		BillRequests: bills,
		TodaySales:   today,
	}, nil
}
