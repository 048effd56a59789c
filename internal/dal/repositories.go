package dal

import (
	"context"

	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/domain"
	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/observability"
)

// tracked wraps a backend repository with closed-scope checks, metrics and
// change recording.
type tracked[T any, R any] struct {
	d      *DataAccessLayer
	entity string
	inner  domain.Repository[T, R]
	idOf   func(T) int64
}

func track[T any, R any](d *DataAccessLayer, entity string, inner domain.Repository[T, R], idOf func(T) int64) *tracked[T, R] {
	return &tracked[T, R]{d: d, entity: entity, inner: inner, idOf: idOf}
}

func (r *tracked[T, R]) GetByID(ctx context.Context, id int64) (T, bool, error) {
	var zero T
	if err := r.d.active(); err != nil {
		return zero, false, err
	}
	v, ok, err := r.inner.GetByID(ctx, id)
	r.d.recordLookup(r.entity, ok, err)
	return v, ok, err
}

func (r *tracked[T, R]) GetAll(ctx context.Context) ([]T, error) {
	if err := r.d.active(); err != nil {
		return nil, err
	}
	rows, err := r.inner.GetAll(ctx)
	if err != nil {
		r.d.recordLookup(r.entity, false, err)
		return nil, err
	}
	observability.RecordLookup(r.entity, observability.OutcomeListed)
	return rows, nil
}

func (r *tracked[T, R]) Add(ctx context.Context, req R) (T, bool, error) {
	var zero T
	if err := r.d.active(); err != nil {
		return zero, false, err
	}
	v, ok, err := r.inner.Add(ctx, req)
	r.d.recordAdd(r.entity, r.idOf(v), ok, err)
	return v, ok, err
}

type trackedComments struct {
	*tracked[domain.Comment, domain.CreateCommentInput]
	inner domain.CommentRepository
}

func (r *trackedComments) Replies(ctx context.Context, parentID int64) ([]domain.Comment, error) {
	if err := r.d.active(); err != nil {
		return nil, err
	}
	return r.inner.Replies(ctx, parentID)
}

type trackedFollowers struct {
	*tracked[domain.Follower, domain.FollowInput]
	inner domain.FollowerRepository
}

func (r *trackedFollowers) GetByCompositeKey(ctx context.Context, followerID, followeeID int64) (domain.Follower, bool, error) {
	if err := r.d.active(); err != nil {
		return domain.Follower{}, false, err
	}
	f, ok, err := r.inner.GetByCompositeKey(ctx, followerID, followeeID)
	r.d.recordLookup(r.entity, ok, err)
	return f, ok, err
}

type trackedMonthlyStats struct {
	*tracked[domain.UserMonthlyStats, domain.CreateMonthlyStatsInput]
	inner domain.MonthlyStatsRepository
}

func (r *trackedMonthlyStats) GetByCompositeKey(ctx context.Context, userID int64, year, month int) (domain.UserMonthlyStats, bool, error) {
	if err := r.d.active(); err != nil {
		return domain.UserMonthlyStats{}, false, err
	}
	s, ok, err := r.inner.GetByCompositeKey(ctx, userID, year, month)
	r.d.recordLookup(r.entity, ok, err)
	return s, ok, err
}
