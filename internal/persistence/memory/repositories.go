package memory

import (
	"context"

	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/domain"
)

func getByID[T any](s *Store, t *table[T], id int64, clone func(T) T) (T, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false, nil
	}
	return clone(row), true, nil
}

func getAll[T any](s *Store, t *table[T], clone func(T) T) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := t.sorted()
	for i := range rows {
		rows[i] = clone(rows[i])
	}
	return rows, nil
}

func identical[T any](v T) T { return v }

func violation(kind domain.ConstraintKind, name string) error {
	return &domain.ConstraintError{Kind: kind, Constraint: name}
}

func check(ok bool, name string) error {
	if ok {
		return nil
	}
	return violation(domain.ConstraintCheck, name)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

type userRepo struct{ s *Store }

func (r *userRepo) GetByID(_ context.Context, id int64) (domain.User, bool, error) {
	return getByID(r.s, &r.s.users, id, identical[domain.User])
}

func (r *userRepo) GetAll(context.Context) ([]domain.User, error) {
	return getAll(r.s, &r.s.users, identical[domain.User])
}

func (r *userRepo) Add(_ context.Context, in domain.CreateUserInput) (domain.User, bool, error) {
	if err := in.Validate(); err != nil {
		return domain.User{}, false, err
	}
	hash, err := r.s.hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, false, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.users.find(func(u domain.User) bool { return u.Username == in.Username }); taken {
		return domain.User{}, false, violation(domain.ConstraintUnique, domain.ConstraintUserUsernameKey)
	}
	u := domain.User{
		ID:           r.s.users.nextID(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		DateJoined:   r.s.now(),
	}
	r.s.users.rows[u.ID] = u
	return u, true, nil
}

type profileRepo struct{ s *Store }

func cloneProfile(p domain.Profile) domain.Profile {
	p.WeightKg = clonePtr(p.WeightKg)
	p.HeightCm = clonePtr(p.HeightCm)
	p.Age = clonePtr(p.Age)
	return p
}

func (r *profileRepo) GetByID(_ context.Context, id int64) (domain.Profile, bool, error) {
	return getByID(r.s, &r.s.profiles, id, cloneProfile)
}

func (r *profileRepo) GetAll(context.Context) ([]domain.Profile, error) {
	return getAll(r.s, &r.s.profiles, cloneProfile)
}

func (r *profileRepo) Add(_ context.Context, in domain.CreateProfileInput) (domain.Profile, bool, error) {
	if err := in.Validate(); err != nil {
		return domain.Profile{}, false, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p := cloneProfile(domain.Profile{
		UserID:      in.UserID,
		DisplayName: in.DisplayName,
		City:        in.City,
		Country:     in.Country,
		Gender:      in.Gender,
		WeightKg:    in.WeightKg,
		HeightCm:    in.HeightCm,
		Age:         in.Age,
		Bio:         in.Bio,
	})
	if err := r.s.checkProfile(p); err != nil {
		return domain.Profile{}, false, err
	}
	p.ID = r.s.profiles.nextID()
	p.CreatedAt = r.s.now()
	r.s.profiles.rows[p.ID] = p
	return cloneProfile(p), true, nil
}

func (s *Store) checkProfile(p domain.Profile) error {
	if err := firstErr(
		check(p.Age == nil || *p.Age >= 0, domain.ConstraintProfileAge),
		check(p.HeightCm == nil || *p.HeightCm >= 0, domain.ConstraintProfileHeightCm),
		check(p.WeightKg == nil || *p.WeightKg >= 0, domain.ConstraintProfileWeightKg),
	); err != nil {
		return err
	}
	if _, taken := s.profiles.find(func(existing domain.Profile) bool { return existing.UserID == p.UserID }); taken {
		return violation(domain.ConstraintUnique, domain.ConstraintProfileUserKey)
	}
	if _, ok := s.users.rows[p.UserID]; !ok {
		return violation(domain.ConstraintForeignKey, domain.ConstraintProfileUserFK)
	}
	return nil
}

type activityRepo struct{ s *Store }

func cloneActivity(a domain.Activity) domain.Activity {
	a.StartTime = clonePtr(a.StartTime)
	a.EndTime = clonePtr(a.EndTime)
	return a
}

func (r *activityRepo) GetByID(_ context.Context, id int64) (domain.Activity, bool, error) {
	return getByID(r.s, &r.s.activities, id, cloneActivity)
}

func (r *activityRepo) GetAll(context.Context) ([]domain.Activity, error) {
	return getAll(r.s, &r.s.activities, cloneActivity)
}

func (r *activityRepo) Add(_ context.Context, in domain.CreateActivityInput) (domain.Activity, bool, error) {
	if err := in.Validate(); err != nil {
		return domain.Activity{}, false, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a := cloneActivity(domain.Activity{
		UserID:         in.UserID,
		DurationSec:    in.DurationSec,
		DistanceM:      in.DistanceM,
		ElevationGainM: in.ElevationGainM,
		Height:         in.Height,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
	})
	if err := r.s.checkActivity(a); err != nil {
		return domain.Activity{}, false, err
	}
	a.ID = r.s.activities.nextID()
	a.CreatedAt = r.s.now()
	r.s.activities.rows[a.ID] = a
	return cloneActivity(a), true, nil
}

func (s *Store) checkActivity(a domain.Activity) error {
	endAfterStart := a.StartTime == nil || a.EndTime == nil || !a.EndTime.Before(*a.StartTime)
	if err := firstErr(
		check(a.DistanceM >= 0, domain.ConstraintActivityDistance),
		check(a.DurationSec >= 0, domain.ConstraintActivityDuration),
		check(a.ElevationGainM >= 0, domain.ConstraintActivityElevation),
		check(endAfterStart, domain.ConstraintActivityEndAfter),
		check(a.Height >= 0, domain.ConstraintActivityHeight),
	); err != nil {
		return err
	}
	if _, ok := s.users.rows[a.UserID]; !ok {
		return violation(domain.ConstraintForeignKey, domain.ConstraintActivityUserFK)
	}
	return nil
}

type pointRepo struct{ s *Store }

func clonePoint(p domain.ActivityPoint) domain.ActivityPoint {
	p.RecordedAt = clonePtr(p.RecordedAt)
	p.Ele = clonePtr(p.Ele)
	p.Speed = clonePtr(p.Speed)
	p.Cadence = clonePtr(p.Cadence)
	return p
}

func (r *pointRepo) GetByID(_ context.Context, id int64) (domain.ActivityPoint, bool, error) {
	return getByID(r.s, &r.s.points, id, clonePoint)
}

func (r *pointRepo) GetAll(context.Context) ([]domain.ActivityPoint, error) {
	return getAll(r.s, &r.s.points, clonePoint)
}

func (r *pointRepo) Add(_ context.Context, in domain.CreateActivityPointInput) (domain.ActivityPoint, bool, error) {
	if err := in.Validate(); err != nil {
		return domain.ActivityPoint{}, false, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p := clonePoint(domain.ActivityPoint{
		ActivityID: in.ActivityID,
		Lat:        in.Lat,
		Lon:        in.Lon,
		RecordedAt: in.RecordedAt,
		Ele:        in.Ele,
		Speed:      in.Speed,
		Cadence:    in.Cadence,
	})
	if err := r.s.checkPoint(p); err != nil {
		return domain.ActivityPoint{}, false, err
	}
	p.ID = r.s.points.nextID()
	r.s.points.rows[p.ID] = p
	return clonePoint(p), true, nil
}

func (s *Store) checkPoint(p domain.ActivityPoint) error {
	if err := firstErr(
		check(p.Cadence == nil || *p.Cadence >= 0, domain.ConstraintPointCadence),
		check(p.Speed == nil || *p.Speed >= 0, domain.ConstraintPointSpeed),
	); err != nil {
		return err
	}
	if _, ok := s.activities.rows[p.ActivityID]; !ok {
		return violation(domain.ConstraintForeignKey, domain.ConstraintPointActivityFK)
	}
	return nil
}

type commentRepo struct{ s *Store }

func cloneComment(c domain.Comment) domain.Comment {
	c.ParentCommentID = clonePtr(c.ParentCommentID)
	return c
}

func (r *commentRepo) GetByID(_ context.Context, id int64) (domain.Comment, bool, error) {
	return getByID(r.s, &r.s.comments, id, cloneComment)
}

func (r *commentRepo) GetAll(context.Context) ([]domain.Comment, error) {
	return getAll(r.s, &r.s.comments, cloneComment)
}

func (r *commentRepo) Replies(_ context.Context, parentID int64) ([]domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	replies := make([]domain.Comment, 0)
	for _, c := range r.s.comments.sorted() {
		if c.ParentCommentID != nil && *c.ParentCommentID == parentID {
			replies = append(replies, cloneComment(c))
		}
	}
	return replies, nil
}

func (r *commentRepo) Add(_ context.Context, in domain.CreateCommentInput) (domain.Comment, bool, error) {
	if err := in.Validate(); err != nil {
		return domain.Comment{}, false, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.activities.rows[in.ActivityID]; !ok {
		return domain.Comment{}, false, violation(domain.ConstraintForeignKey, domain.ConstraintCommentActivityFK)
	}
	if _, ok := r.s.users.rows[in.UserID]; !ok {
		return domain.Comment{}, false, violation(domain.ConstraintForeignKey, domain.ConstraintCommentUserFK)
	}
	if in.ParentCommentID != nil {
		if _, ok := r.s.comments.rows[*in.ParentCommentID]; !ok {
			return domain.Comment{}, false, violation(domain.ConstraintForeignKey, domain.ConstraintCommentParentFK)
		}
	}

	c := domain.Comment{
		ID:              r.s.comments.nextID(),
		ActivityID:      in.ActivityID,
		UserID:          in.UserID,
		Body:            in.Body,
		ParentCommentID: clonePtr(in.ParentCommentID),
		CreatedAt:       r.s.now(),
	}
	r.s.comments.rows[c.ID] = c
	return cloneComment(c), true, nil
}

type kudosRepo struct{ s *Store }

func (r *kudosRepo) GetByID(_ context.Context, id int64) (domain.Kudos, bool, error) {
	return getByID(r.s, &r.s.kudos, id, identical[domain.Kudos])
}

func (r *kudosRepo) GetAll(context.Context) ([]domain.Kudos, error) {
	return getAll(r.s, &r.s.kudos, identical[domain.Kudos])
}

// Add mirrors INSERT ... ON CONFLICT DO NOTHING on the (activity, user) key.
func (r *kudosRepo) Add(_ context.Context, in domain.GiveKudosInput) (domain.Kudos, bool, error) {
	if err := in.Validate(); err != nil {
		return domain.Kudos{}, false, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, dup := r.s.kudos.find(func(k domain.Kudos) bool {
		return k.ActivityID == in.ActivityID && k.UserID == in.UserID
	}); dup {
		return domain.Kudos{}, false, nil
	}
	if _, ok := r.s.activities.rows[in.ActivityID]; !ok {
		return domain.Kudos{}, false, violation(domain.ConstraintForeignKey, domain.ConstraintKudosActivityFK)
	}
	if _, ok := r.s.users.rows[in.UserID]; !ok {
		return domain.Kudos{}, false, violation(domain.ConstraintForeignKey, domain.ConstraintKudosUserFK)
	}

	k := domain.Kudos{
		ID:         r.s.kudos.nextID(),
		ActivityID: in.ActivityID,
		UserID:     in.UserID,
		CreatedAt:  r.s.now(),
	}
	r.s.kudos.rows[k.ID] = k
	return k, true, nil
}

type followerRepo struct{ s *Store }

func (r *followerRepo) GetByID(context.Context, int64) (domain.Follower, bool, error) {
	return domain.Follower{}, false, domain.ErrCompositeKey
}

func (r *followerRepo) GetByCompositeKey(_ context.Context, followerID, followeeID int64) (domain.Follower, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.followers.find(func(f domain.Follower) bool {
		return f.FollowerID == followerID && f.FolloweeID == followeeID
	})
	return f, ok, nil
}

func (r *followerRepo) GetAll(context.Context) ([]domain.Follower, error) {
	return getAll(r.s, &r.s.followers, identical[domain.Follower])
}

// Add mirrors INSERT ... ON CONFLICT DO NOTHING on the (follower, followee) key.
func (r *followerRepo) Add(_ context.Context, in domain.FollowInput) (domain.Follower, bool, error) {
	if err := in.Validate(); err != nil {
		return domain.Follower{}, false, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, dup := r.s.followers.find(func(f domain.Follower) bool {
		return f.FollowerID == in.FollowerID && f.FolloweeID == in.FolloweeID
	}); dup {
		return domain.Follower{}, false, nil
	}
	if _, ok := r.s.users.rows[in.FollowerID]; !ok {
		return domain.Follower{}, false, violation(domain.ConstraintForeignKey, domain.ConstraintFollowerFollowerFK)
	}
	if _, ok := r.s.users.rows[in.FolloweeID]; !ok {
		return domain.Follower{}, false, violation(domain.ConstraintForeignKey, domain.ConstraintFollowerFolloweeFK)
	}

	f := domain.Follower{
		ID:         r.s.followers.nextID(),
		FollowerID: in.FollowerID,
		FolloweeID: in.FolloweeID,
		CreatedAt:  r.s.now(),
	}
	r.s.followers.rows[f.ID] = f
	return f, true, nil
}

type statsRepo struct{ s *Store }

func (r *statsRepo) GetByID(context.Context, int64) (domain.UserMonthlyStats, bool, error) {
	return domain.UserMonthlyStats{}, false, domain.ErrCompositeKey
}

func (r *statsRepo) GetByCompositeKey(_ context.Context, userID int64, year, month int) (domain.UserMonthlyStats, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st, ok := r.s.stats.find(func(st domain.UserMonthlyStats) bool {
		return st.UserID == userID && st.Year == year && st.Month == month
	})
	return st, ok, nil
}

func (r *statsRepo) GetAll(context.Context) ([]domain.UserMonthlyStats, error) {
	return getAll(r.s, &r.s.stats, identical[domain.UserMonthlyStats])
}

func (r *statsRepo) Add(_ context.Context, in domain.CreateMonthlyStatsInput) (domain.UserMonthlyStats, bool, error) {
	if err := in.Validate(); err != nil {
		return domain.UserMonthlyStats{}, false, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st := domain.UserMonthlyStats{
		UserID:           in.UserID,
		Year:             in.Year,
		Month:            in.Month,
		TotalDistanceM:   in.TotalDistanceM,
		TotalDurationSec: in.TotalDurationSec,
	}
	if err := r.s.checkStats(st); err != nil {
		return domain.UserMonthlyStats{}, false, err
	}
	st.ID = r.s.stats.nextID()
	r.s.stats.rows[st.ID] = st
	return st, true, nil
}

func (s *Store) checkStats(st domain.UserMonthlyStats) error {
	if err := firstErr(
		check(st.TotalDistanceM >= 0, domain.ConstraintStatsDistance),
		check(st.TotalDurationSec >= 0, domain.ConstraintStatsDuration),
	); err != nil {
		return err
	}
	if _, taken := s.stats.find(func(existing domain.UserMonthlyStats) bool {
		return existing.UserID == st.UserID && existing.Year == st.Year && existing.Month == st.Month
	}); taken {
		return violation(domain.ConstraintUnique, domain.ConstraintStatsUserPeriod)
	}
	if _, ok := s.users.rows[st.UserID]; !ok {
		return violation(domain.ConstraintForeignKey, domain.ConstraintStatsUserFK)
	}
	return nil
}
