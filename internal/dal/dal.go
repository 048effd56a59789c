// Package dal is the single entry point callers use to reach the fitness
// repositories. A DataAccessLayer is opened over a storage backend, hands out
// one repository per entity and is closed exactly once when the unit of work
// ends.
package dal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/domain"
	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/events"
	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/observability"
)

var (
	// ErrNoStorage is returned by Open when no storage backend is supplied, and
	// by repositories of a DataAccessLayer that was not built by Open.
	ErrNoStorage = errors.New("dal: storage is required")
	// ErrClosed is returned by every repository call made after Close.
	ErrClosed = errors.New("dal: data access layer is closed")
)

// Storage is a backend able to build every repository.
type Storage interface {
	Users() domain.UserRepository
	Profiles() domain.ProfileRepository
	Activities() domain.ActivityRepository
	ActivityPoints() domain.ActivityPointRepository
	Comments() domain.CommentRepository
	Kudos() domain.KudosRepository
	Followers() domain.FollowerRepository
	MonthlyStats() domain.MonthlyStatsRepository
	Close() error
}

// Option configures a DataAccessLayer.
type Option func(*DataAccessLayer)

// WithLogger overrides the logger used for lifecycle messages.
func WithLogger(logger *log.Logger) Option {
	return func(d *DataAccessLayer) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithPublisher sets where created-row notifications go when the layer closes.
func WithPublisher(p events.Publisher) Option {
	return func(d *DataAccessLayer) {
		if p != nil {
			d.publisher = p
		}
	}
}

// WithClock overrides the time source used to stamp notifications.
func WithClock(now func() time.Time) Option {
	return func(d *DataAccessLayer) {
		if now != nil {
			d.now = now
		}
	}
}

// DataAccessLayer owns the repositories for one unit of work. Build it with
// Open or Run; repositories of a zero value fail with ErrNoStorage.
type DataAccessLayer struct {
	storage   Storage
	logger    *log.Logger
	publisher events.Publisher
	now       func() time.Time

	mu      sync.Mutex
	closed  bool
	changes []events.Change

	users        domain.UserRepository
	profiles     domain.ProfileRepository
	activities   domain.ActivityRepository
	points       domain.ActivityPointRepository
	comments     domain.CommentRepository
	kudos        domain.KudosRepository
	followers    domain.FollowerRepository
	monthlyStats domain.MonthlyStatsRepository
}

// Open builds every repository from storage. Each storage accessor is called
// exactly once.
func Open(storage Storage, opts ...Option) (*DataAccessLayer, error) {
	if storage == nil {
		return nil, ErrNoStorage
	}

	d := &DataAccessLayer{
		storage:   storage,
		logger:    log.New(log.Writer(), "[dal] ", log.LstdFlags),
		publisher: events.Discard{},
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(d)
	}

	d.users = track(d, domain.EntityUser, storage.Users(), func(u domain.User) int64 { return u.ID })
	d.profiles = track(d, domain.EntityProfile, storage.Profiles(), func(p domain.Profile) int64 { return p.ID })
	d.activities = track(d, domain.EntityActivity, storage.Activities(), func(a domain.Activity) int64 { return a.ID })
	d.points = track(d, domain.EntityActivityPoint, storage.ActivityPoints(), func(p domain.ActivityPoint) int64 { return p.ID })
	d.kudos = track(d, domain.EntityKudos, storage.Kudos(), func(k domain.Kudos) int64 { return k.ID })

	comments := storage.Comments()
	d.comments = &trackedComments{
		tracked: track(d, domain.EntityComment, comments, func(c domain.Comment) int64 { return c.ID }),
		inner:   comments,
	}
	followers := storage.Followers()
	d.followers = &trackedFollowers{
		tracked: track(d, domain.EntityFollower, followers, func(f domain.Follower) int64 { return f.ID }),
		inner:   followers,
	}
	stats := storage.MonthlyStats()
	d.monthlyStats = &trackedMonthlyStats{
		tracked: track(d, domain.EntityMonthlyStats, stats, func(s domain.UserMonthlyStats) int64 { return s.ID }),
		inner:   stats,
	}
	return d, nil
}

func (d *DataAccessLayer) Users() domain.UserRepository {
	if d.users == nil {
		return track[domain.User, domain.CreateUserInput](d, domain.EntityUser, nil, nil)
	}
	return d.users
}

func (d *DataAccessLayer) Profiles() domain.ProfileRepository {
	if d.profiles == nil {
		return track[domain.Profile, domain.CreateProfileInput](d, domain.EntityProfile, nil, nil)
	}
	return d.profiles
}

func (d *DataAccessLayer) Activities() domain.ActivityRepository {
	if d.activities == nil {
		return track[domain.Activity, domain.CreateActivityInput](d, domain.EntityActivity, nil, nil)
	}
	return d.activities
}

func (d *DataAccessLayer) ActivityPoints() domain.ActivityPointRepository {
	if d.points == nil {
		return track[domain.ActivityPoint, domain.CreateActivityPointInput](d, domain.EntityActivityPoint, nil, nil)
	}
	return d.points
}

func (d *DataAccessLayer) Comments() domain.CommentRepository {
	if d.comments == nil {
		return &trackedComments{tracked: track[domain.Comment, domain.CreateCommentInput](d, domain.EntityComment, nil, nil)}
	}
	return d.comments
}

func (d *DataAccessLayer) Kudos() domain.KudosRepository {
	if d.kudos == nil {
		return track[domain.Kudos, domain.GiveKudosInput](d, domain.EntityKudos, nil, nil)
	}
	return d.kudos
}

func (d *DataAccessLayer) Followers() domain.FollowerRepository {
	if d.followers == nil {
		return &trackedFollowers{tracked: track[domain.Follower, domain.FollowInput](d, domain.EntityFollower, nil, nil)}
	}
	return d.followers
}

func (d *DataAccessLayer) MonthlyStats() domain.MonthlyStatsRepository {
	if d.monthlyStats == nil {
		return &trackedMonthlyStats{tracked: track[domain.UserMonthlyStats, domain.CreateMonthlyStatsInput](d, domain.EntityMonthlyStats, nil, nil)}
	}
	return d.monthlyStats
}

// Close ends the unit of work. It logs completion, publishes the changes
// recorded since Open and releases the storage. Calls after the first are
// no-ops.
func (d *DataAccessLayer) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed || d.storage == nil {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	changes := d.changes
	d.changes = nil
	d.mu.Unlock()

	d.logger.Println("data access layer: work finished")
	observability.RecordScopeClosed()

	var errs []error
	if len(changes) > 0 {
		if err := d.publisher.Publish(ctx, changes); err != nil {
			errs = append(errs, fmt.Errorf("publish %d changes: %w", len(changes), err))
		}
	}
	if err := d.storage.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}
	return errors.Join(errs...)
}

// Run opens a DataAccessLayer, passes it to fn and closes it on every exit
// path, including a panic in fn. A close failure is joined with fn's error.
func Run(ctx context.Context, storage Storage, fn func(*DataAccessLayer) error, opts ...Option) (err error) {
	d, err := Open(storage, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := d.Close(ctx); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	return fn(d)
}

func (d *DataAccessLayer) active() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.storage == nil {
		return ErrNoStorage
	}
	if d.closed {
		return ErrClosed
	}
	return nil
}

func (d *DataAccessLayer) recordLookup(entity string, ok bool, err error) {
	switch {
	case err != nil:
		observability.RecordLookup(entity, observability.OutcomeError)
	case ok:
		observability.RecordLookup(entity, observability.OutcomeFound)
	default:
		observability.RecordLookup(entity, observability.OutcomeNotFound)
	}
}

func (d *DataAccessLayer) recordAdd(entity string, id int64, ok bool, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		observability.RecordAdd(entity, observability.OutcomeValidationFailed)
	case errors.Is(err, domain.ErrConstraint):
		observability.RecordAdd(entity, observability.OutcomeConstraintFailed)
	case err != nil:
		observability.RecordAdd(entity, observability.OutcomeError)
	case !ok:
		observability.RecordAdd(entity, observability.OutcomeDuplicateIgnored)
	default:
		now := d.now()
		observability.RecordAdd(entity, observability.OutcomeCreated)
		observability.RecordWrite(entity, now)

		d.mu.Lock()
		d.changes = append(d.changes, events.NewChange(entity, id, now))
		d.mu.Unlock()
	}
}
