package repository

import (
	"context"

	"restaurant-pos/internal/domain"
)

// AddToDay relies on the row-level atomicity of the upsert: concurrent orders
// completing on the same date each add their contribution without clobbering.
func (p *Postgres) AddToDay(ctx context.Context, date string, amount float64) (domain.SalesReport, error) {
	var r domain.SalesReport
	err := p.pool.QueryRow(ctx, `
		INSERT INTO sales_reports (report_date, total_sales)
		VALUES ($1, $2)
		ON CONFLICT (report_date)
		DO UPDATE SET total_sales = sales_reports.total_sales + EXCLUDED.total_sales
		RETURNING report_date::text, total_sales
	`, date, amount).Scan(&r.Date, &r.TotalSales)
	if err != nil {
		return domain.SalesReport{}, storage(err, "failed to upsert sales report")
	}
	return r, nil
}

// GetDay returns a zero row rather than not_found for dates with no sales.
func (p *Postgres) GetDay(ctx context.Context, date string) (domain.SalesReport, error) {
	var r domain.SalesReport
	err := p.pool.QueryRow(ctx, `
		SELECT report_date::text, total_sales FROM sales_reports WHERE report_date = $1
	`, date).Scan(&r.Date, &r.TotalSales)
	if err != nil {
		if domain.KindOf(notFound(err, "")) == domain.KindNotFound {
			return domain.SalesReport{Date: date}, nil
		}
		return domain.SalesReport{}, storage(err, "failed to get sales report")
	}
	return r, nil
}

func (p *Postgres) SalesBetween(ctx context.Context, from, to string) ([]domain.SalesReport, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT report_date::text, total_sales FROM sales_reports
		WHERE report_date >= $1 AND report_date <= $2
		ORDER BY report_date
	`, from, to)
	if err != nil {
		return nil, storage(err, "failed to query sales range")
	}
	defer rows.Close()

	var reports []domain.SalesReport
	for rows.Next() {
		var r domain.SalesReport
		if err := rows.Scan(&r.Date, &r.TotalSales); err != nil {
			return nil, storage(err, "failed to scan sales report")
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
