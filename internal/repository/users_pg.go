package repository

import (
	"context"

	"restaurant-pos/internal/domain"
)

const userColumns = `id, username, phone_number, role, password_hash, pin_hash, created_at`

func (p *Postgres) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	err := p.pool.QueryRow(ctx, `
		INSERT INTO users (username, phone_number, role, password_hash, pin_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`, u.Username, u.PhoneNumber, u.Role, u.PasswordHash, u.PINHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return domain.User{}, storage(err, "failed to insert user")
	}
	return u, nil
}

func (p *Postgres) GetUser(ctx context.Context, id int) (domain.User, error) {
	var u domain.User
	err := p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.PhoneNumber, &u.Role, &u.PasswordHash, &u.PINHash, &u.CreatedAt)
	if err != nil {
		return domain.User{}, notFound(err, "user not found")
	}
	return u, nil
}

func (p *Postgres) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	var u domain.User
	err := p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username).
		Scan(&u.ID, &u.Username, &u.PhoneNumber, &u.Role, &u.PasswordHash, &u.PINHash, &u.CreatedAt)
	if err != nil {
		return domain.User{}, notFound(err, "user not found")
	}
	return u, nil
}

func (p *Postgres) GetUserByPhone(ctx context.Context, phone string) (domain.User, error) {
	var u domain.User
	err := p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE phone_number = $1`, phone).
		Scan(&u.ID, &u.Username, &u.PhoneNumber, &u.Role, &u.PasswordHash, &u.PINHash, &u.CreatedAt)
	if err != nil {
		return domain.User{}, notFound(err, "user not found")
	}
	return u, nil
}

func (p *Postgres) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, storage(err, "failed to list users")
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PhoneNumber, &u.Role, &u.PasswordHash, &u.PINHash, &u.CreatedAt); err != nil {
			return nil, storage(err, "failed to scan user")
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (p *Postgres) ListPINUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE pin_hash IS NOT NULL ORDER BY id`)
	if err != nil {
		return nil, storage(err, "failed to list pin users")
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PhoneNumber, &u.Role, &u.PasswordHash, &u.PINHash, &u.CreatedAt); err != nil {
			return nil, storage(err, "failed to scan user")
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (p *Postgres) DeleteUser(ctx context.Context, id int) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return storage(err, "failed to delete user")
	}
	if tag.RowsAffected() == 0 {
		return domain.E(domain.KindNotFound, "user not found")
	}
	return nil
}

func (p *Postgres) CountByRole(ctx context.Context, role domain.Role) (int, error) {
	var n int
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&n); err != nil {
		return 0, storage(err, "failed to count users")
	}
	return n, nil
}
