package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/domain"
)

const activityColumns = `id, user_id, duration_sec, distance_m, elevation_gain_m, height, start_time, end_time, created_at`

// ActivityRepository persists recorded activities.
type ActivityRepository struct {
	db DB
}

func scanActivity(row pgx.Row) (domain.Activity, error) {
	var a domain.Activity
	err := row.Scan(&a.ID, &a.UserID, &a.DurationSec, &a.DistanceM, &a.ElevationGainM, &a.Height,
		&a.StartTime, &a.EndTime, &a.CreatedAt)
	return a, err
}

// GetByID looks an activity up by id.
func (r *ActivityRepository) GetByID(ctx context.Context, id int64) (domain.Activity, bool, error) {
	return queryOne(ctx, r.db, scanActivity, `SELECT `+activityColumns+` FROM activities WHERE id=$1`, id)
}

// GetAll lists every activity.
func (r *ActivityRepository) GetAll(ctx context.Context) ([]domain.Activity, error) {
	return queryAll(ctx, r.db, scanActivity, `SELECT `+activityColumns+` FROM activities ORDER BY id`)
}

// Add validates and records an activity. The end-after-start rule is also
// enforced by the activity_end_time_gte_start_time check constraint.
func (r *ActivityRepository) Add(ctx context.Context, in domain.CreateActivityInput) (domain.Activity, bool, error) {
	if err := in.Validate(); err != nil {
		return domain.Activity{}, false, err
	}

	const stmt = `INSERT INTO activities (user_id, duration_sec, distance_m, elevation_gain_m, height, start_time, end_time)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING ` + activityColumns

	return queryOne(ctx, r.db, scanActivity, stmt,
		in.UserID,
		in.DurationSec,
		in.DistanceM,
		in.ElevationGainM,
		in.Height,
		in.StartTime,
		in.EndTime,
	)
}

const pointColumns = `id, activity_id, lat, lon, recorded_at, ele, speed, cadence`

// ActivityPointRepository persists telemetry samples.
type ActivityPointRepository struct {
	db DB
}

func scanPoint(row pgx.Row) (domain.ActivityPoint, error) {
	var p domain.ActivityPoint
	err := row.Scan(&p.ID, &p.ActivityID, &p.Lat, &p.Lon, &p.RecordedAt, &p.Ele, &p.Speed, &p.Cadence)
	return p, err
}

// GetByID looks a point up by id.
func (r *ActivityPointRepository) GetByID(ctx context.Context, id int64) (domain.ActivityPoint, bool, error) {
	return queryOne(ctx, r.db, scanPoint, `SELECT `+pointColumns+` FROM activity_points WHERE id=$1`, id)
}

// GetAll lists every point.
func (r *ActivityPointRepository) GetAll(ctx context.Context) ([]domain.ActivityPoint, error) {
	return queryAll(ctx, r.db, scanPoint, `SELECT `+pointColumns+` FROM activity_points ORDER BY id`)
}

// Add records a telemetry sample for an existing activity.
func (r *ActivityPointRepository) Add(ctx context.Context, in domain.CreateActivityPointInput) (domain.ActivityPoint, bool, error) {
	if err := in.Validate(); err != nil {
		return domain.ActivityPoint{}, false, err
	}

	const stmt = `INSERT INTO activity_points (activity_id, lat, lon, recorded_at, ele, speed, cadence)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING ` + pointColumns

	return queryOne(ctx, r.db, scanPoint, stmt,
		in.ActivityID,
		in.Lat,
		in.Lon,
		in.RecordedAt,
		in.Ele,
		in.Speed,
		in.Cadence,
	)
}
