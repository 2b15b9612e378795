package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"restaurant-pos/internal/domain"
)

// Postgres implements Store on a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres { return &Postgres{pool: pool} }

var _ Store = (*Postgres)(nil)

// notFound converts pgx.ErrNoRows into the not_found error kind; everything
// else is a storage failure.
func notFound(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.E(domain.KindNotFound, msg)
	}
	return domain.Wrap(domain.KindStorage, msg, err)
}

func storage(err error, msg string) error {
	return domain.Wrap(domain.KindStorage, msg, err)
}
