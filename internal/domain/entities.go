package domain

import "time"

// User is the identity that owns profiles, activities and social records.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	DateJoined   time.Time
}

// Profile holds the one-to-one personal details of a User.
type Profile struct {
	ID          int64
	UserID      int64
	DisplayName string
	City        string
	Country     string
	Gender      string
	WeightKg    *float64
	HeightCm    *float64
	Age         *int
	Bio         string
	CreatedAt   time.Time
}

// Activity is a recorded workout.
type Activity struct {
	ID             int64
	UserID         int64
	DurationSec    float64
	DistanceM      float64
	ElevationGainM int
	Height         int
	StartTime      *time.Time
	EndTime        *time.Time
	CreatedAt      time.Time
}

// ActivityPoint is a single GPS/telemetry sample of an Activity.
type ActivityPoint struct {
	ID         int64
	ActivityID int64
	Lat        float64
	Lon        float64
	RecordedAt *time.Time
	Ele        *float64
	Speed      *float64
	Cadence    *int
}

// Comment is a message on an Activity, optionally replying to another comment.
type Comment struct {
	ID              int64
	ActivityID      int64
	UserID          int64
	Body            string
	ParentCommentID *int64
	CreatedAt       time.Time
}

// Kudos records a user's approval of an activity.
type Kudos struct {
	ID         int64
	ActivityID int64
	UserID     int64
	CreatedAt  time.Time
}

// Follower is a directed follow edge between two users.
type Follower struct {
	ID         int64
	FollowerID int64
	FolloweeID int64
	CreatedAt  time.Time
}

// UserMonthlyStats holds aggregated totals for a user and calendar month.
type UserMonthlyStats struct {
	ID               int64
	UserID           int64
	Year             int
	Month            int
	TotalDistanceM   float64
	TotalDurationSec int
}

// Entity names used in metrics labels and change events.
const (
	EntityUser          = "user"
	EntityProfile       = "profile"
	EntityActivity      = "activity"
	EntityActivityPoint = "activity_point"
	EntityComment       = "comment"
	EntityKudos         = "kudos"
	EntityFollower      = "follower"
	EntityMonthlyStats  = "user_monthly_stats"
)
