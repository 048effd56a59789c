package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/domain"
)

const commentColumns = `id, activity_id, user_id, body, parent_comment_id, created_at`

// CommentRepository persists comments and replies.
type CommentRepository struct {
	db DB
}

func scanComment(row pgx.Row) (domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(&c.ID, &c.ActivityID, &c.UserID, &c.Body, &c.ParentCommentID, &c.CreatedAt)
	return c, err
}

// GetByID looks a comment up by id.
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (domain.Comment, bool, error) {
	return queryOne(ctx, r.db, scanComment, `SELECT `+commentColumns+` FROM comments WHERE id=$1`, id)
}

// GetAll lists every comment.
func (r *CommentRepository) GetAll(ctx context.Context) ([]domain.Comment, error) {
	return queryAll(ctx, r.db, scanComment, `SELECT `+commentColumns+` FROM comments ORDER BY id`)
}

// Replies lists the direct replies to a comment.
func (r *CommentRepository) Replies(ctx context.Context, parentID int64) ([]domain.Comment, error) {
	return queryAll(ctx, r.db, scanComment,
		`SELECT `+commentColumns+` FROM comments WHERE parent_comment_id=$1 ORDER BY id`, parentID)
}

// Add posts a comment. The parent is not required to belong to the same activity.
func (r *CommentRepository) Add(ctx context.Context, in domain.CreateCommentInput) (domain.Comment, bool, error) {
	if err := in.Validate(); err != nil {
		return domain.Comment{}, false, err
	}

	const stmt = `INSERT INTO comments (activity_id, user_id, body, parent_comment_id)
        VALUES ($1,$2,$3,$4)
        RETURNING ` + commentColumns

	return queryOne(ctx, r.db, scanComment, stmt, in.ActivityID, in.UserID, in.Body, in.ParentCommentID)
}

const kudosColumns = `id, activity_id, user_id, created_at`

// KudosRepository persists kudos, at most one per (activity, user).
type KudosRepository struct {
	db DB
}

func scanKudos(row pgx.Row) (domain.Kudos, error) {
	var k domain.Kudos
	err := row.Scan(&k.ID, &k.ActivityID, &k.UserID, &k.CreatedAt)
	return k, err
}

// GetByID looks kudos up by id.
func (r *KudosRepository) GetByID(ctx context.Context, id int64) (domain.Kudos, bool, error) {
	return queryOne(ctx, r.db, scanKudos, `SELECT `+kudosColumns+` FROM kudos WHERE id=$1`, id)
}

// GetAll lists every kudos.
func (r *KudosRepository) GetAll(ctx context.Context) ([]domain.Kudos, error) {
	return queryAll(ctx, r.db, scanKudos, `SELECT `+kudosColumns+` FROM kudos ORDER BY id`)
}

// Add gives kudos. A collision on the (activity, user) constraint inserts
// nothing and returns ok=false; any other violation is returned as an error.
func (r *KudosRepository) Add(ctx context.Context, in domain.GiveKudosInput) (domain.Kudos, bool, error) {
	if err := in.Validate(); err != nil {
		return domain.Kudos{}, false, err
	}

	const stmt = `INSERT INTO kudos (activity_id, user_id)
        VALUES ($1,$2)
        ON CONFLICT ON CONSTRAINT ` + domain.ConstraintKudosActivityUser + ` DO NOTHING
        RETURNING ` + kudosColumns

	return queryOne(ctx, r.db, scanKudos, stmt, in.ActivityID, in.UserID)
}

const followerColumns = `id, follower_id, followee_id, created_at`

// FollowerRepository persists follow edges keyed by (follower, followee).
type FollowerRepository struct {
	db DB
}

func scanFollower(row pgx.Row) (domain.Follower, error) {
	var f domain.Follower
	err := row.Scan(&f.ID, &f.FollowerID, &f.FolloweeID, &f.CreatedAt)
	return f, err
}

// GetByID is not supported; use GetByCompositeKey.
func (r *FollowerRepository) GetByID(context.Context, int64) (domain.Follower, bool, error) {
	return domain.Follower{}, false, domain.ErrCompositeKey
}

// GetByCompositeKey finds the edge from followerID to followeeID.
func (r *FollowerRepository) GetByCompositeKey(ctx context.Context, followerID, followeeID int64) (domain.Follower, bool, error) {
	return queryOne(ctx, r.db, scanFollower,
		`SELECT `+followerColumns+` FROM followers WHERE follower_id=$1 AND followee_id=$2`, followerID, followeeID)
}

// GetAll lists every follow edge.
func (r *FollowerRepository) GetAll(ctx context.Context) ([]domain.Follower, error) {
	return queryAll(ctx, r.db, scanFollower, `SELECT `+followerColumns+` FROM followers ORDER BY id`)
}

// Add creates a follow edge; following the same user twice returns ok=false.
func (r *FollowerRepository) Add(ctx context.Context, in domain.FollowInput) (domain.Follower, bool, error) {
	if err := in.Validate(); err != nil {
		return domain.Follower{}, false, err
	}

	const stmt = `INSERT INTO followers (follower_id, followee_id)
        VALUES ($1,$2)
        ON CONFLICT ON CONSTRAINT ` + domain.ConstraintFollowerPair + ` DO NOTHING
        RETURNING ` + followerColumns

	return queryOne(ctx, r.db, scanFollower, stmt, in.FollowerID, in.FolloweeID)
}

const statsColumns = `id, user_id, year, month, total_distance_m, total_duration_sec`

// MonthlyStatsRepository persists per-month totals keyed by (user, year, month).
type MonthlyStatsRepository struct {
	db DB
}

func scanStats(row pgx.Row) (domain.UserMonthlyStats, error) {
	var s domain.UserMonthlyStats
	err := row.Scan(&s.ID, &s.UserID, &s.Year, &s.Month, &s.TotalDistanceM, &s.TotalDurationSec)
	return s, err
}

// GetByID is not supported; use GetByCompositeKey.
func (r *MonthlyStatsRepository) GetByID(context.Context, int64) (domain.UserMonthlyStats, bool, error) {
	return domain.UserMonthlyStats{}, false, domain.ErrCompositeKey
}

// GetByCompositeKey finds the totals of userID for the given month.
func (r *MonthlyStatsRepository) GetByCompositeKey(ctx context.Context, userID int64, year, month int) (domain.UserMonthlyStats, bool, error) {
	return queryOne(ctx, r.db, scanStats,
		`SELECT `+statsColumns+` FROM user_monthly_stats WHERE user_id=$1 AND year=$2 AND month=$3`, userID, year, month)
}

// GetAll lists every stats row.
func (r *MonthlyStatsRepository) GetAll(ctx context.Context) ([]domain.UserMonthlyStats, error) {
	return queryAll(ctx, r.db, scanStats, `SELECT `+statsColumns+` FROM user_monthly_stats ORDER BY id`)
}

// Add stores the totals for one month. A second row for the same triple fails
// with a unique ConstraintError.
func (r *MonthlyStatsRepository) Add(ctx context.Context, in domain.CreateMonthlyStatsInput) (domain.UserMonthlyStats, bool, error) {
	if err := in.Validate(); err != nil {
		return domain.UserMonthlyStats{}, false, err
	}

	const stmt = `INSERT INTO user_monthly_stats (user_id, year, month, total_distance_m, total_duration_sec)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING ` + statsColumns

	return queryOne(ctx, r.db, scanStats, stmt, in.UserID, in.Year, in.Month, in.TotalDistanceM, in.TotalDurationSec)
}
