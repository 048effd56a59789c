// Package postgres implements the fitness repositories on PostgreSQL using pgx.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/domain"
	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/identity"
)

// DB is the subset of pgx shared by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Option configures a Storage.
type Option func(*Storage)

// WithHasher overrides the password hasher used by the user repository.
func WithHasher(h identity.Hasher) Option {
	return func(s *Storage) {
		s.hasher = h
	}
}

// Storage binds every repository to one database handle.
type Storage struct {
	db     DB
	hasher identity.Hasher
}

// NewStorage constructs a Storage over db.
func NewStorage(db DB, opts ...Option) *Storage {
	s := &Storage{db: db, hasher: identity.NewBcryptHasher(0)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Users returns the user repository; passwords are hashed with the storage hasher.
func (s *Storage) Users() domain.UserRepository {
	return &UserRepository{db: s.db, hasher: s.hasher}
}

// Profiles returns the profile repository.
func (s *Storage) Profiles() domain.ProfileRepository {
	return &ProfileRepository{db: s.db}
}

// Activities returns the activity repository.
func (s *Storage) Activities() domain.ActivityRepository {
	return &ActivityRepository{db: s.db}
}

// ActivityPoints returns the telemetry point repository.
func (s *Storage) ActivityPoints() domain.ActivityPointRepository {
	return &ActivityPointRepository{db: s.db}
}

// Comments returns the comment repository.
func (s *Storage) Comments() domain.CommentRepository {
	return &CommentRepository{db: s.db}
}

// Kudos returns the kudos repository.
func (s *Storage) Kudos() domain.KudosRepository {
	return &KudosRepository{db: s.db}
}

// Followers returns the follower repository.
func (s *Storage) Followers() domain.FollowerRepository {
	return &FollowerRepository{db: s.db}
}

// MonthlyStats returns the monthly statistics repository.
func (s *Storage) MonthlyStats() domain.MonthlyStatsRepository {
	return &MonthlyStatsRepository{db: s.db}
}

// Close is a no-op; the pool belongs to the caller that opened it.
func (s *Storage) Close() error {
	return nil
}

// Postgres SQLSTATE codes for integrity violations.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNotNullViolation    = "23502"
)

// translateError wraps integrity violations in a domain.ConstraintError and
// returns every other error untouched.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	var kind domain.ConstraintKind
	switch pgErr.Code {
	case codeUniqueViolation:
		kind = domain.ConstraintUnique
	case codeForeignKeyViolation:
		kind = domain.ConstraintForeignKey
	case codeCheckViolation:
		kind = domain.ConstraintCheck
	case codeNotNullViolation:
		kind = domain.ConstraintNotNull
	default:
		return err
	}
	return &domain.ConstraintError{Kind: kind, Constraint: pgErr.ConstraintName, Err: err}
}

// queryOne runs a single-row query and reports pgx.ErrNoRows as found=false.
func queryOne[T any](ctx context.Context, db DB, scan func(pgx.Row) (T, error), query string, args ...any) (T, bool, error) {
	v, err := scan(db.QueryRow(ctx, query, args...))
	if err != nil {
		var zero T
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, false, nil
		}
		return zero, false, translateError(err)
	}
	return v, true, nil
}

func queryAll[T any](ctx context.Context, db DB, scan func(pgx.Row) (T, error), query string, args ...any) ([]T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
