// Package domain defines the fitness data model, its validation rules and the
// repository contracts every storage backend implements.
package domain

import "context"

// Lookup finds a record by its surrogate identifier. A miss is reported as
// found=false with a nil error.
type Lookup[T any] interface {
	GetByID(ctx context.Context, id int64) (T, bool, error)
}

// Lister returns every record of one entity type, ordered by identifier.
type Lister[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
}

// Adder validates and persists a new record. ok=false with a nil error means
// the write was skipped as a duplicate (Kudos, Follower only).
type Adder[T any, R any] interface {
	Add(ctx context.Context, req R) (T, bool, error)
}

// Repository is the capability contract shared by every entity accessor.
type Repository[T any, R any] interface {
	Lookup[T]
	Lister[T]
	Adder[T, R]
}

type (
	UserRepository          = Repository[User, CreateUserInput]
	ProfileRepository       = Repository[Profile, CreateProfileInput]
	ActivityRepository      = Repository[Activity, CreateActivityInput]
	ActivityPointRepository = Repository[ActivityPoint, CreateActivityPointInput]
	KudosRepository         = Repository[Kudos, GiveKudosInput]
)

// CommentRepository adds the reverse lookup of replies to a comment.
type CommentRepository interface {
	Repository[Comment, CreateCommentInput]
	Replies(ctx context.Context, parentID int64) ([]Comment, error)
}

// FollowerRepository is keyed by the (follower, followee) pair. GetByID
// returns ErrCompositeKey.
type FollowerRepository interface {
	Repository[Follower, FollowInput]
	GetByCompositeKey(ctx context.Context, followerID, followeeID int64) (Follower, bool, error)
}

// MonthlyStatsRepository is keyed by (user, year, month). GetByID returns
// ErrCompositeKey.
type MonthlyStatsRepository interface {
	Repository[UserMonthlyStats, CreateMonthlyStatsInput]
	GetByCompositeKey(ctx context.Context, userID int64, year, month int) (UserMonthlyStats, bool, error)
}
