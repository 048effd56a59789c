// Package fixtures loads demo data from YAML and writes it through the data
// access layer.
package fixtures

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/dal"
	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/domain"
)

//go:embed demo.yaml
var demoSeed []byte

// ErrAlreadySeeded is returned by Apply when a seeded username already exists.
var ErrAlreadySeeded = errors.New("fixtures: seed users already exist")

// Seed is the YAML document layout. Activities and comments carry a key so
// that kudos, comments and replies can refer to them.
type Seed struct {
	Users        []UserYAML    `yaml:"users"`
	Follows      []FollowYAML  `yaml:"follows,omitempty"`
	Kudos        []KudosYAML   `yaml:"kudos,omitempty"`
	Comments     []CommentYAML `yaml:"comments,omitempty"`
	MonthlyStats []MonthlyYAML `yaml:"monthly_stats,omitempty"`
}

// UserYAML is a user with an optional profile and owned activities.
type UserYAML struct {
	Username   string         `yaml:"username"`
	Email      string         `yaml:"email,omitempty"`
	Password   string         `yaml:"password,omitempty"`
	Profile    *ProfileYAML   `yaml:"profile,omitempty"`
	Activities []ActivityYAML `yaml:"activities,omitempty"`
}

type ProfileYAML struct {
	DisplayName string   `yaml:"display_name"`
	City        string   `yaml:"city,omitempty"`
	Country     string   `yaml:"country,omitempty"`
	Gender      string   `yaml:"gender,omitempty"`
	WeightKg    *float64 `yaml:"weight_kg,omitempty"`
	HeightCm    *float64 `yaml:"height_cm,omitempty"`
	Age         *int     `yaml:"age,omitempty"`
	Bio         string   `yaml:"bio,omitempty"`
}

type ActivityYAML struct {
	Key            string      `yaml:"key"`
	DurationSec    float64     `yaml:"duration_sec"`
	DistanceM      float64     `yaml:"distance_m"`
	ElevationGainM int         `yaml:"elevation_gain_m,omitempty"`
	Height         int         `yaml:"height,omitempty"`
	StartTime      *time.Time  `yaml:"start_time,omitempty"`
	EndTime        *time.Time  `yaml:"end_time,omitempty"`
	Points         []PointYAML `yaml:"points,omitempty"`
}

type PointYAML struct {
	Lat        float64    `yaml:"lat"`
	Lon        float64    `yaml:"lon"`
	RecordedAt *time.Time `yaml:"recorded_at,omitempty"`
	Ele        *float64   `yaml:"ele,omitempty"`
	Speed      *float64   `yaml:"speed,omitempty"`
	Cadence    *int       `yaml:"cadence,omitempty"`
}

type FollowYAML struct {
	Follower string `yaml:"follower"`
	Followee string `yaml:"followee"`
}

type KudosYAML struct {
	Activity string `yaml:"activity"`
	User     string `yaml:"user"`
}

type CommentYAML struct {
	Key      string `yaml:"key,omitempty"`
	Activity string `yaml:"activity"`
	User     string `yaml:"user"`
	Body     string `yaml:"body"`
	ReplyTo  string `yaml:"reply_to,omitempty"`
}

type MonthlyYAML struct {
	User             string  `yaml:"user"`
	Year             int     `yaml:"year"`
	Month            int     `yaml:"month"`
	TotalDistanceM   float64 `yaml:"total_distance_m"`
	TotalDurationSec int     `yaml:"total_duration_sec"`
}

// Summary counts the rows Apply wrote.
type Summary struct {
	Users        int
	Profiles     int
	Activities   int
	Points       int
	Follows      int
	Kudos        int
	Comments     int
	MonthlyStats int
}

// Demo returns the built-in demo seed.
func Demo() (*Seed, error) {
	return Parse(demoSeed)
}

// LoadFile reads a seed from disk.
func LoadFile(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a seed document.
func Parse(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed YAML: %w", err)
	}
	if len(seed.Users) == 0 {
		return nil, errors.New("seed has no users")
	}
	return &seed, nil
}

// Apply writes the seed through d. Cross references are resolved by username
// and by activity or comment key; an unknown reference stops the run.
func Apply(ctx context.Context, d *dal.DataAccessLayer, seed *Seed) (Summary, error) {
	var sum Summary

	existing, err := d.Users().GetAll(ctx)
	if err != nil {
		return sum, err
	}
	taken := make(map[string]bool, len(existing))
	for _, u := range existing {
		taken[u.Username] = true
	}
	for _, u := range seed.Users {
		if taken[u.Username] {
			return sum, fmt.Errorf("%w: %s", ErrAlreadySeeded, u.Username)
		}
	}

	users := make(map[string]int64)
	activities := make(map[string]int64)
	comments := make(map[string]int64)

	for _, uy := range seed.Users {
		user, _, err := d.Users().Add(ctx, domain.CreateUserInput{Username: uy.Username, Email: uy.Email, Password: uy.Password})
		if err != nil {
			return sum, fmt.Errorf("user %s: %w", uy.Username, err)
		}
		users[uy.Username] = user.ID
		sum.Users++

		if p := uy.Profile; p != nil {
			_, _, err := d.Profiles().Add(ctx, domain.CreateProfileInput{
				UserID:      user.ID,
				DisplayName: p.DisplayName,
				City:        p.City,
				Country:     p.Country,
				Gender:      p.Gender,
				WeightKg:    p.WeightKg,
				HeightCm:    p.HeightCm,
				Age:         p.Age,
				Bio:         p.Bio,
			})
			if err != nil {
				return sum, fmt.Errorf("profile of %s: %w", uy.Username, err)
			}
			sum.Profiles++
		}

		for _, ay := range uy.Activities {
			activity, _, err := d.Activities().Add(ctx, domain.CreateActivityInput{
				UserID:         user.ID,
				DurationSec:    ay.DurationSec,
				DistanceM:      ay.DistanceM,
				ElevationGainM: ay.ElevationGainM,
				Height:         ay.Height,
				StartTime:      ay.StartTime,
				EndTime:        ay.EndTime,
			})
			if err != nil {
				return sum, fmt.Errorf("activity %s: %w", ay.Key, err)
			}
			if ay.Key != "" {
				activities[ay.Key] = activity.ID
			}
			sum.Activities++

			for _, py := range ay.Points {
				_, _, err := d.ActivityPoints().Add(ctx, domain.CreateActivityPointInput{
					ActivityID: activity.ID,
					Lat:        py.Lat,
					Lon:        py.Lon,
					RecordedAt: py.RecordedAt,
					Ele:        py.Ele,
					Speed:      py.Speed,
					Cadence:    py.Cadence,
				})
				if err != nil {
					return sum, fmt.Errorf("point of %s: %w", ay.Key, err)
				}
				sum.Points++
			}
		}
	}

	for _, f := range seed.Follows {
		follower, err := resolve(users, "user", f.Follower)
		if err != nil {
			return sum, err
		}
		followee, err := resolve(users, "user", f.Followee)
		if err != nil {
			return sum, err
		}
		_, created, err := d.Followers().Add(ctx, domain.FollowInput{FollowerID: follower, FolloweeID: followee})
		if err != nil {
			return sum, fmt.Errorf("follow %s -> %s: %w", f.Follower, f.Followee, err)
		}
		if created {
			sum.Follows++
		}
	}

	for _, k := range seed.Kudos {
		activity, err := resolve(activities, "activity", k.Activity)
		if err != nil {
			return sum, err
		}
		user, err := resolve(users, "user", k.User)
		if err != nil {
			return sum, err
		}
		_, created, err := d.Kudos().Add(ctx, domain.GiveKudosInput{ActivityID: activity, UserID: user})
		if err != nil {
			return sum, fmt.Errorf("kudos %s on %s: %w", k.User, k.Activity, err)
		}
		if created {
			sum.Kudos++
		}
	}

	for _, c := range seed.Comments {
		activity, err := resolve(activities, "activity", c.Activity)
		if err != nil {
			return sum, err
		}
		user, err := resolve(users, "user", c.User)
		if err != nil {
			return sum, err
		}
		in := domain.CreateCommentInput{ActivityID: activity, UserID: user, Body: c.Body}
		if c.ReplyTo != "" {
			parent, err := resolve(comments, "comment", c.ReplyTo)
			if err != nil {
				return sum, err
			}
			in.ParentCommentID = &parent
		}
		comment, _, err := d.Comments().Add(ctx, in)
		if err != nil {
			return sum, fmt.Errorf("comment by %s: %w", c.User, err)
		}
		if c.Key != "" {
			comments[c.Key] = comment.ID
		}
		sum.Comments++
	}

	for _, m := range seed.MonthlyStats {
		user, err := resolve(users, "user", m.User)
		if err != nil {
			return sum, err
		}
		_, _, err = d.MonthlyStats().Add(ctx, domain.CreateMonthlyStatsInput{
			UserID:           user,
			Year:             m.Year,
			Month:            m.Month,
			TotalDistanceM:   m.TotalDistanceM,
			TotalDurationSec: m.TotalDurationSec,
		})
		if err != nil {
			return sum, fmt.Errorf("monthly stats %s %d-%02d: %w", m.User, m.Year, m.Month, err)
		}
		sum.MonthlyStats++
	}

	return sum, nil
}

func resolve(ids map[string]int64, kind, key string) (int64, error) {
	id, ok := ids[key]
	if !ok {
		return 0, fmt.Errorf("unknown %s %q in seed", kind, key)
	}
	return id, nil
}
