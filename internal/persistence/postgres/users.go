package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/domain"
	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/identity"
)

const userColumns = `id, username, email, password_hash, date_joined`

// UserRepository persists users.
type UserRepository struct {
	db     DB
	hasher identity.Hasher
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.DateJoined)
	return u, err
}

// GetByID looks a user up by id.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (domain.User, bool, error) {
	return queryOne(ctx, r.db, scanUser, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

// GetAll lists every user.
func (r *UserRepository) GetAll(ctx context.Context) ([]domain.User, error) {
	return queryAll(ctx, r.db, scanUser, `SELECT `+userColumns+` FROM users ORDER BY id`)
}

// Add registers a user, storing only the password hash.
func (r *UserRepository) Add(ctx context.Context, in domain.CreateUserInput) (domain.User, bool, error) {
	if err := in.Validate(); err != nil {
		return domain.User{}, false, err
	}
	hash, err := r.hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, false, err
	}

	const stmt = `INSERT INTO users (username, email, password_hash)
        VALUES ($1,$2,$3)
        RETURNING ` + userColumns

	return queryOne(ctx, r.db, scanUser, stmt, in.Username, in.Email, hash)
}
