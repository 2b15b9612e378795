package repository

import (
	"context"

	"restaurant-pos/internal/domain"
)

const tableColumns = `id, table_number, status, occupants, waiter_id,
	reservation_name, reservation_time, reservation_date, reservation_phone, reservation_notes,
	last_updated`

func scanTable(row interface{ Scan(...any) error }) (domain.Table, error) {
	var t domain.Table
	var resName, resTime, resDate *string
	var resPhone, resNotes *string
	err := row.Scan(&t.ID, &t.Number, &t.Status, &t.Occupants, &t.WaiterID,
		&resName, &resTime, &resDate, &resPhone, &resNotes, &t.LastUpdated)
	if err != nil {
		return domain.Table{}, err
	}
	if resName != nil && resTime != nil && resDate != nil {
		t.Reservation = &domain.Reservation{
			Name: *resName, Time: *resTime, Date: *resDate,
			Phone: resPhone, Notes: resNotes,
		}
	}
	return t, nil
}

func (p *Postgres) ListTables(ctx context.Context) ([]domain.Table, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+tableColumns+` FROM tables ORDER BY table_number`)
	if err != nil {
		return nil, storage(err, "failed to list tables")
	}
	defer rows.Close()

	var tables []domain.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, storage(err, "failed to scan table")
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (p *Postgres) GetTable(ctx context.Context, id int) (domain.Table, error) {
	t, err := scanTable(p.pool.QueryRow(ctx, `SELECT `+tableColumns+` FROM tables WHERE id = $1`, id))
	if err != nil {
		return domain.Table{}, notFound(err, "table not found")
	}
	return t, nil
}

// UpdateTableStatus changes status and occupants in one statement; the waiter
// assignment is only replaced when waiterID is non-nil (waiter actors).
func (p *Postgres) UpdateTableStatus(ctx context.Context, id int, status domain.TableStatus, occupants int, waiterID *int) (domain.Table, error) {
	t, err := scanTable(p.pool.QueryRow(ctx, `
		UPDATE tables
		SET status = $2, occupants = $3,
		    waiter_id = COALESCE($4, waiter_id),
		    last_updated = NOW()
		WHERE id = $1
		RETURNING `+tableColumns+`
	`, id, status, occupants, waiterID))
	if err != nil {
		return domain.Table{}, notFound(err, "table not found")
	}
	return t, nil
}

func (p *Postgres) SetReservation(ctx context.Context, id int, res domain.Reservation) (domain.Table, error) {
	t, err := scanTable(p.pool.QueryRow(ctx, `
		UPDATE tables
		SET status = $2,
		    reservation_name = $3, reservation_time = $4, reservation_date = $5,
		    reservation_phone = $6, reservation_notes = $7,
		    last_updated = NOW()
		WHERE id = $1
		RETURNING `+tableColumns+`
	`, id, domain.TableReserved, res.Name, res.Time, res.Date, res.Phone, res.Notes))
	if err != nil {
		return domain.Table{}, notFound(err, "table not found")
	}
	return t, nil
}

func (p *Postgres) BillRequests(ctx context.Context) ([]domain.Table, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT `+tableColumns+` FROM tables
		WHERE status = $1
		ORDER BY last_updated
	`, domain.TableBillRequested)
	if err != nil {
		return nil, storage(err, "failed to list bill requests")
	}
	defer rows.Close()

	var tables []domain.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, storage(err, "failed to scan table")
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}
