package domain

import (
	"math"
	"strings"
	"time"
)

// MaxPasswordBytes is the longest password the credential hash accepts.
const MaxPasswordBytes = 72

// CreateUserInput carries the fields accepted when registering a user.
// Password is plain text; repositories hash it through the identity package.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
}

// Validate checks required fields and the password length limit.
func (in CreateUserInput) Validate() error {
	if strings.TrimSpace(in.Username) == "" {
		return &ValidationError{Field: "username", Reason: "is required"}
	}
	if len(in.Password) > MaxPasswordBytes {
		return &ValidationError{Field: "password", Reason: "must be at most 72 bytes"}
	}
	return nil
}

// CreateProfileInput carries the fields accepted when creating a profile.
type CreateProfileInput struct {
	UserID      int64
	DisplayName string
	City        string
	Country     string
	Gender      string
	WeightKg    *float64
	HeightCm    *float64
	Age         *int
	Bio         string
}

// Validate checks required fields and non-negative measurements.
func (in CreateProfileInput) Validate() error {
	if err := requireID("user_id", in.UserID); err != nil {
		return err
	}
	if strings.TrimSpace(in.DisplayName) == "" {
		return &ValidationError{Field: "display_name", Reason: "is required"}
	}
	if err := nonNegativeFloatPtr("weight_kg", in.WeightKg); err != nil {
		return err
	}
	if err := nonNegativeFloatPtr("height_cm", in.HeightCm); err != nil {
		return err
	}
	return nonNegativeIntPtr("age", in.Age)
}

// CreateActivityInput carries the fields accepted when recording an activity.
type CreateActivityInput struct {
	UserID         int64
	DurationSec    float64
	DistanceM      float64
	ElevationGainM int
	Height         int
	StartTime      *time.Time
	EndTime        *time.Time
}

// Validate checks measurements and that the activity does not end before it starts.
func (in CreateActivityInput) Validate() error {
	if err := requireID("user_id", in.UserID); err != nil {
		return err
	}
	if err := nonNegativeFloat("duration_sec", in.DurationSec); err != nil {
		return err
	}
	if err := nonNegativeFloat("distance_m", in.DistanceM); err != nil {
		return err
	}
	if err := nonNegativeInt("elevation_gain_m", in.ElevationGainM); err != nil {
		return err
	}
	if err := nonNegativeInt("height", in.Height); err != nil {
		return err
	}
	return ValidateTimeRange(in.StartTime, in.EndTime)
}

// ValidateTimeRange rejects an end time earlier than the start time. Either
// bound may be unset.
func ValidateTimeRange(start, end *time.Time) error {
	if start == nil || end == nil {
		return nil
	}
	if end.Before(*start) {
		return &ValidationError{Field: "end_time", Reason: "must not be earlier than start_time"}
	}
	return nil
}

// CreateActivityPointInput carries one telemetry sample. Ele may be negative.
type CreateActivityPointInput struct {
	ActivityID int64
	Lat        float64
	Lon        float64
	RecordedAt *time.Time
	Ele        *float64
	Speed      *float64
	Cadence    *int
}

// Validate checks the owning activity and non-negative speed and cadence.
func (in CreateActivityPointInput) Validate() error {
	if err := requireID("activity_id", in.ActivityID); err != nil {
		return err
	}
	if err := nonNegativeFloatPtr("speed", in.Speed); err != nil {
		return err
	}
	return nonNegativeIntPtr("cadence", in.Cadence)
}

// CreateCommentInput carries a comment or, with ParentCommentID set, a reply.
type CreateCommentInput struct {
	ActivityID      int64
	UserID          int64
	Body            string
	ParentCommentID *int64
}

// Validate checks required fields.
func (in CreateCommentInput) Validate() error {
	if err := requireID("activity_id", in.ActivityID); err != nil {
		return err
	}
	if err := requireID("user_id", in.UserID); err != nil {
		return err
	}
	if strings.TrimSpace(in.Body) == "" {
		return &ValidationError{Field: "body", Reason: "is required"}
	}
	if in.ParentCommentID != nil {
		return requireID("parent_comment_id", *in.ParentCommentID)
	}
	return nil
}

// GiveKudosInput identifies the activity and the user giving kudos.
type GiveKudosInput struct {
	ActivityID int64
	UserID     int64
}

// Validate checks required fields.
func (in GiveKudosInput) Validate() error {
	if err := requireID("activity_id", in.ActivityID); err != nil {
		return err
	}
	return requireID("user_id", in.UserID)
}

// FollowInput is a directed follow request. Following oneself is allowed.
type FollowInput struct {
	FollowerID int64
	FolloweeID int64
}

// Validate checks required fields.
func (in FollowInput) Validate() error {
	if err := requireID("follower_id", in.FollowerID); err != nil {
		return err
	}
	return requireID("followee_id", in.FolloweeID)
}

// CreateMonthlyStatsInput carries the totals for one user and month.
type CreateMonthlyStatsInput struct {
	UserID           int64
	Year             int
	Month            int
	TotalDistanceM   float64
	TotalDurationSec int
}

// Validate checks required fields and non-negative totals.
func (in CreateMonthlyStatsInput) Validate() error {
	if err := requireID("user_id", in.UserID); err != nil {
		return err
	}
	if err := nonNegativeFloat("total_distance_m", in.TotalDistanceM); err != nil {
		return err
	}
	return nonNegativeInt("total_duration_sec", in.TotalDurationSec)
}

func requireID(field string, id int64) error {
	if id <= 0 {
		return &ValidationError{Field: field, Reason: "is required"}
	}
	return nil
}

func nonNegativeFloat(field string, v float64) error {
	if math.IsNaN(v) {
		return &ValidationError{Field: field, Reason: "must be a number"}
	}
	if v < 0 {
		return &ValidationError{Field: field, Reason: "must be greater than or equal to 0"}
	}
	return nil
}

func nonNegativeInt(field string, v int) error {
	if v < 0 {
		return &ValidationError{Field: field, Reason: "must be greater than or equal to 0"}
	}
	return nil
}

func nonNegativeFloatPtr(field string, v *float64) error {
	if v == nil {
		return nil
	}
	return nonNegativeFloat(field, *v)
}

func nonNegativeIntPtr(field string, v *int) error {
	if v == nil {
		return nil
	}
	return nonNegativeInt(field, *v)
}
