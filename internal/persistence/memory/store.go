// Package memory is an in-process storage backend for local development and
// tests. It enforces the same keys, check constraints and cascades as the
// Postgres schema and reports violations with the same constraint names.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/domain"
	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/identity"
)

// Option configures a Store.
type Option func(*Store)

// WithHasher overrides the password hasher used by the user repository.
func WithHasher(h identity.Hasher) Option {
	return func(s *Store) {
		s.hasher = h
	}
}

// WithClock overrides the source of creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store holds every table behind one lock, which plays the part of the
// database's statement-level isolation.
type Store struct {
	mu     sync.RWMutex
	now    func() time.Time
	hasher identity.Hasher

	users      table[domain.User]
	profiles   table[domain.Profile]
	activities table[domain.Activity]
	points     table[domain.ActivityPoint]
	comments   table[domain.Comment]
	kudos      table[domain.Kudos]
	followers  table[domain.Follower]
	stats      table[domain.UserMonthlyStats]
}

// NewStore constructs an empty Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		now:        func() time.Time { return time.Now().UTC() },
		hasher:     identity.NewBcryptHasher(0),
		users:      newTable[domain.User](),
		profiles:   newTable[domain.Profile](),
		activities: newTable[domain.Activity](),
		points:     newTable[domain.ActivityPoint](),
		comments:   newTable[domain.Comment](),
		kudos:      newTable[domain.Kudos](),
		followers:  newTable[domain.Follower](),
		stats:      newTable[domain.UserMonthlyStats](),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Users() domain.UserRepository                   { return &userRepo{s: s} }
func (s *Store) Profiles() domain.ProfileRepository             { return &profileRepo{s: s} }
func (s *Store) Activities() domain.ActivityRepository          { return &activityRepo{s: s} }
func (s *Store) ActivityPoints() domain.ActivityPointRepository { return &pointRepo{s: s} }
func (s *Store) Comments() domain.CommentRepository             { return &commentRepo{s: s} }
func (s *Store) Kudos() domain.KudosRepository                  { return &kudosRepo{s: s} }
func (s *Store) Followers() domain.FollowerRepository           { return &followerRepo{s: s} }
func (s *Store) MonthlyStats() domain.MonthlyStatsRepository    { return &statsRepo{s: s} }

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// DeleteUser removes a user and everything it owns, following the ON DELETE
// CASCADE rules of the schema. It reports whether the user existed.
func (s *Store) DeleteUser(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users.rows[id]; !ok {
		return false
	}
	delete(s.users.rows, id)

	s.profiles.deleteWhere(func(p domain.Profile) bool { return p.UserID == id })
	for _, a := range s.activities.rows {
		if a.UserID == id {
			s.deleteActivityLocked(a.ID)
		}
	}
	for _, c := range s.comments.rows {
		if c.UserID == id {
			s.deleteCommentLocked(c.ID)
		}
	}
	s.kudos.deleteWhere(func(k domain.Kudos) bool { return k.UserID == id })
	s.followers.deleteWhere(func(f domain.Follower) bool { return f.FollowerID == id || f.FolloweeID == id })
	s.stats.deleteWhere(func(st domain.UserMonthlyStats) bool { return st.UserID == id })
	return true
}

// DeleteActivity removes an activity with its points, comments and kudos.
func (s *Store) DeleteActivity(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.activities.rows[id]; !ok {
		return false
	}
	s.deleteActivityLocked(id)
	return true
}

func (s *Store) deleteActivityLocked(id int64) {
	delete(s.activities.rows, id)
	s.points.deleteWhere(func(p domain.ActivityPoint) bool { return p.ActivityID == id })
	for _, c := range s.comments.rows {
		if c.ActivityID == id {
			s.deleteCommentLocked(c.ID)
		}
	}
	s.kudos.deleteWhere(func(k domain.Kudos) bool { return k.ActivityID == id })
}

func (s *Store) deleteCommentLocked(id int64) {
	if _, ok := s.comments.rows[id]; !ok {
		return
	}
	delete(s.comments.rows, id)
	for _, c := range s.comments.rows {
		if c.ParentCommentID != nil && *c.ParentCommentID == id {
			s.deleteCommentLocked(c.ID)
		}
	}
}

// table is an id-keyed row set with its own sequence, like a BIGSERIAL table.
type table[T any] struct {
	seq  int64
	rows map[int64]T
}

func newTable[T any]() table[T] {
	return table[T]{rows: make(map[int64]T)}
}

func (t *table[T]) nextID() int64 {
	t.seq++
	return t.seq
}

func (t *table[T]) sorted() []T {
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.rows[id])
	}
	return out
}

func (t *table[T]) find(match func(T) bool) (T, bool) {
	for _, row := range t.rows {
		if match(row) {
			return row, true
		}
	}
	var zero T
	return zero, false
}

func (t *table[T]) deleteWhere(match func(T) bool) {
	for id, row := range t.rows {
		if match(row) {
			delete(t.rows, id)
		}
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
