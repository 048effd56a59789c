package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/domain"
)

const profileColumns = `id, user_id, display_name, COALESCE(city, ''), COALESCE(country, ''), COALESCE(gender, ''),
        weight_kg, height_cm, age, COALESCE(bio, ''), created_at`

// ProfileRepository persists user profiles.
type ProfileRepository struct {
	db DB
}

func scanProfile(row pgx.Row) (domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(&p.ID, &p.UserID, &p.DisplayName, &p.City, &p.Country, &p.Gender,
		&p.WeightKg, &p.HeightCm, &p.Age, &p.Bio, &p.CreatedAt)
	return p, err
}

// GetByID looks a profile up by id.
func (r *ProfileRepository) GetByID(ctx context.Context, id int64) (domain.Profile, bool, error) {
	return queryOne(ctx, r.db, scanProfile, `SELECT `+profileColumns+` FROM profiles WHERE id=$1`, id)
}

// GetAll lists every profile.
func (r *ProfileRepository) GetAll(ctx context.Context) ([]domain.Profile, error) {
	return queryAll(ctx, r.db, scanProfile, `SELECT `+profileColumns+` FROM profiles ORDER BY id`)
}

// Add creates the profile of a user. A second profile for the same user fails
// with a unique ConstraintError.
func (r *ProfileRepository) Add(ctx context.Context, in domain.CreateProfileInput) (domain.Profile, bool, error) {
	if err := in.Validate(); err != nil {
		return domain.Profile{}, false, err
	}

	const stmt = `INSERT INTO profiles (user_id, display_name, city, country, gender, weight_kg, height_cm, age, bio)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING ` + profileColumns

	return queryOne(ctx, r.db, scanProfile, stmt,
		in.UserID,
		in.DisplayName,
		nullIfEmpty(in.City),
		nullIfEmpty(in.Country),
		nullIfEmpty(in.Gender),
		in.WeightKg,
		in.HeightCm,
		in.Age,
		nullIfEmpty(in.Bio),
	)
}
