//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/domain"
	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/identity"
	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/testsupport"
)

func setupStorage(t *testing.T) (*Storage, *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	pool := testsupport.StartPostgres(ctx, t)

	require.NoError(t, Migrate(ctx, pool))
	// Re-running must be harmless.
	require.NoError(t, Migrate(ctx, pool))

	return NewStorage(pool, WithHasher(identity.NewBcryptHasher(bcrypt.MinCost))), pool
}

func countRows(t *testing.T, pool *pgxpool.Pool, table string) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func TestRepositoryEndToEndScenario(t *testing.T) {
	ctx := context.Background()
	storage, _ := setupStorage(t)

	alice, ok, err := storage.Users().Add(ctx, domain.CreateUserInput{Username: "alice", Email: "alice@example.com", Password: "s3cret"})
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEqual(t, "s3cret", alice.PasswordHash)

	age := 30
	profile, ok, err := storage.Profiles().Add(ctx, domain.CreateProfileInput{UserID: alice.ID, DisplayName: "Alice", Age: &age})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 30, *profile.Age)
	require.Empty(t, profile.City)
	require.Nil(t, profile.WeightKg)

	now := time.Now().UTC().Truncate(time.Microsecond)
	activity, ok, err := storage.Activities().Add(ctx, domain.CreateActivityInput{
		UserID:         alice.ID,
		DurationSec:    3600,
		DistanceM:      10500,
		ElevationGainM: 120,
		Height:         150,
		StartTime:      &now,
		EndTime:        &now,
	})
	require.NoError(t, err)
	require.True(t, ok)

	all, err := storage.Activities().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, activity.ID, all[0].ID)

	found, ok, err := storage.Activities().GetByID(ctx, activity.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 10500.0, found.DistanceM)
	require.True(t, found.StartTime.Equal(now))

	_, ok, err = storage.Activities().GetByID(ctx, activity.ID+1000)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRepositoryCheckConstraintsAreLastLineOfDefence(t *testing.T) {
	ctx := context.Background()
	storage, pool := setupStorage(t)

	user, _, err := storage.Users().Add(ctx, domain.CreateUserInput{Username: "bob"})
	require.NoError(t, err)

	start := time.Now().UTC()
	end := start.Add(-time.Hour)
	_, _, err = storage.Activities().Add(ctx, domain.CreateActivityInput{UserID: user.ID, StartTime: &start, EndTime: &end})
	require.ErrorIs(t, err, domain.ErrValidation)
	require.Equal(t, 0, countRows(t, pool, "activities"))

	// Bypass the boundary check to hit the storage constraints directly.
	_, err = pool.Exec(ctx, `INSERT INTO activities (user_id, duration_sec, distance_m, elevation_gain_m, height, start_time, end_time)
        VALUES ($1, 1, 1, 0, 0, $2, $3)`, user.ID, start, end)
	require.Error(t, err)
	require.True(t, domain.IsConstraint(translateError(err), domain.ConstraintCheck))

	_, err = pool.Exec(ctx, `INSERT INTO activities (user_id, duration_sec, distance_m, elevation_gain_m, height)
        VALUES ($1, -1, 1, 0, 0)`, user.ID)
	require.Error(t, err)

	_, err = pool.Exec(ctx, `INSERT INTO user_monthly_stats (user_id, year, month, total_distance_m) VALUES ($1, 2024, 5, -3)`, user.ID)
	require.Error(t, err)
	require.Equal(t, 0, countRows(t, pool, "activities"))
	require.Equal(t, 0, countRows(t, pool, "user_monthly_stats"))
}

func TestRepositoryDuplicateSocialActionsAreIgnored(t *testing.T) {
	ctx := context.Background()
	storage, pool := setupStorage(t)

	a, _, err := storage.Users().Add(ctx, domain.CreateUserInput{Username: "a"})
	require.NoError(t, err)
	b, _, err := storage.Users().Add(ctx, domain.CreateUserInput{Username: "b"})
	require.NoError(t, err)
	act, _, err := storage.Activities().Add(ctx, domain.CreateActivityInput{UserID: a.ID, DurationSec: 60})
	require.NoError(t, err)

	_, ok, err := storage.Kudos().Add(ctx, domain.GiveKudosInput{ActivityID: act.ID, UserID: b.ID})
	require.NoError(t, err)
	require.True(t, ok)
	_, ok, err = storage.Kudos().Add(ctx, domain.GiveKudosInput{ActivityID: act.ID, UserID: b.ID})
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 1, countRows(t, pool, "kudos"))

	_, ok, err = storage.Followers().Add(ctx, domain.FollowInput{FollowerID: a.ID, FolloweeID: b.ID})
	require.NoError(t, err)
	require.True(t, ok)
	_, ok, err = storage.Followers().Add(ctx, domain.FollowInput{FollowerID: a.ID, FolloweeID: b.ID})
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 1, countRows(t, pool, "followers"))

	// Kudos for a missing activity is not a duplicate and must surface.
	_, _, err = storage.Kudos().Add(ctx, domain.GiveKudosInput{ActivityID: act.ID + 99, UserID: b.ID})
	require.True(t, domain.IsConstraint(err, domain.ConstraintForeignKey))

	edge, ok, err := storage.Followers().GetByCompositeKey(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, b.ID, edge.FolloweeID)

	_, ok, err = storage.Followers().GetByCompositeKey(ctx, b.ID, a.ID)
	require.NoError(t, err)
	require.False(t, ok)

	_, _, err = storage.Followers().GetByID(ctx, edge.ID)
	require.ErrorIs(t, err, domain.ErrCompositeKey)
}

func TestRepositoryConcurrentKudosLeavesOneRow(t *testing.T) {
	ctx := context.Background()
	storage, pool := setupStorage(t)

	owner, _, err := storage.Users().Add(ctx, domain.CreateUserInput{Username: "owner"})
	require.NoError(t, err)
	fan, _, err := storage.Users().Add(ctx, domain.CreateUserInput{Username: "fan"})
	require.NoError(t, err)
	act, _, err := storage.Activities().Add(ctx, domain.CreateActivityInput{UserID: owner.ID})
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	type result struct {
		ok  bool
		err error
	}
	results := make(chan result, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := storage.Kudos().Add(ctx, domain.GiveKudosInput{ActivityID: act.ID, UserID: fan.ID})
			results <- result{ok: ok, err: err}
		}()
	}
	wg.Wait()
	close(results)

	created := 0
	for r := range results {
		require.NoError(t, r.err)
		if r.ok {
			created++
		}
	}
	require.Equal(t, 1, created)
	require.Equal(t, 1, countRows(t, pool, "kudos"))
}

func TestRepositoryMonthlyStatsCompositeKey(t *testing.T) {
	ctx := context.Background()
	storage, _ := setupStorage(t)

	u, _, err := storage.Users().Add(ctx, domain.CreateUserInput{Username: "stats"})
	require.NoError(t, err)

	_, ok, err := storage.MonthlyStats().GetByCompositeKey(ctx, u.ID, 2024, 5)
	require.NoError(t, err)
	require.False(t, ok)

	created, ok, err := storage.MonthlyStats().Add(ctx, domain.CreateMonthlyStatsInput{UserID: u.ID, Year: 2024, Month: 5, TotalDistanceM: 42195, TotalDurationSec: 14400})
	require.NoError(t, err)
	require.True(t, ok)

	found, ok, err := storage.MonthlyStats().GetByCompositeKey(ctx, u.ID, 2024, 5)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, created, found)

	_, _, err = storage.MonthlyStats().Add(ctx, domain.CreateMonthlyStatsInput{UserID: u.ID, Year: 2024, Month: 5})
	require.True(t, domain.IsConstraint(err, domain.ConstraintUnique))
}

func TestRepositoryCascadeOnUserDelete(t *testing.T) {
	ctx := context.Background()
	storage, pool := setupStorage(t)

	alice, _, err := storage.Users().Add(ctx, domain.CreateUserInput{Username: "alice"})
	require.NoError(t, err)
	bob, _, err := storage.Users().Add(ctx, domain.CreateUserInput{Username: "bob"})
	require.NoError(t, err)

	_, _, err = storage.Profiles().Add(ctx, domain.CreateProfileInput{UserID: alice.ID, DisplayName: "Alice"})
	require.NoError(t, err)
	act, _, err := storage.Activities().Add(ctx, domain.CreateActivityInput{UserID: alice.ID, DurationSec: 10})
	require.NoError(t, err)
	_, _, err = storage.ActivityPoints().Add(ctx, domain.CreateActivityPointInput{ActivityID: act.ID, Lat: 50.45, Lon: 30.52})
	require.NoError(t, err)
	root, _, err := storage.Comments().Add(ctx, domain.CreateCommentInput{ActivityID: act.ID, UserID: bob.ID, Body: "nice"})
	require.NoError(t, err)
	_, _, err = storage.Comments().Add(ctx, domain.CreateCommentInput{ActivityID: act.ID, UserID: alice.ID, Body: "thanks", ParentCommentID: &root.ID})
	require.NoError(t, err)
	replies, err := storage.Comments().Replies(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, replies, 1)

	_, _, err = storage.Kudos().Add(ctx, domain.GiveKudosInput{ActivityID: act.ID, UserID: bob.ID})
	require.NoError(t, err)
	_, _, err = storage.Followers().Add(ctx, domain.FollowInput{FollowerID: alice.ID, FolloweeID: bob.ID})
	require.NoError(t, err)
	_, _, err = storage.Followers().Add(ctx, domain.FollowInput{FollowerID: bob.ID, FolloweeID: alice.ID})
	require.NoError(t, err)
	_, _, err = storage.MonthlyStats().Add(ctx, domain.CreateMonthlyStatsInput{UserID: alice.ID, Year: 2024, Month: 5, TotalDistanceM: 10})
	require.NoError(t, err)
	require.Equal(t, 1, countRows(t, pool, "user_monthly_stats"))

	_, err = pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, alice.ID)
	require.NoError(t, err)

	for _, table := range []string{"profiles", "activities", "activity_points", "comments", "kudos", "followers", "user_monthly_stats"} {
		require.Equalf(t, 0, countRows(t, pool, table), "table %s", table)
	}
	require.Equal(t, 1, countRows(t, pool, "users"))
}

func TestRepositoryCascadeOnActivityDelete(t *testing.T) {
	ctx := context.Background()
	storage, pool := setupStorage(t)

	owner, _, err := storage.Users().Add(ctx, domain.CreateUserInput{Username: "owner"})
	require.NoError(t, err)
	fan, _, err := storage.Users().Add(ctx, domain.CreateUserInput{Username: "fan"})
	require.NoError(t, err)
	act, _, err := storage.Activities().Add(ctx, domain.CreateActivityInput{UserID: owner.ID, DistanceM: 1000})
	require.NoError(t, err)
	kept, _, err := storage.Activities().Add(ctx, domain.CreateActivityInput{UserID: owner.ID, DistanceM: 2000})
	require.NoError(t, err)

	_, _, err = storage.ActivityPoints().Add(ctx, domain.CreateActivityPointInput{ActivityID: act.ID, Lat: 50.45, Lon: 30.52})
	require.NoError(t, err)
	root, _, err := storage.Comments().Add(ctx, domain.CreateCommentInput{ActivityID: act.ID, UserID: fan.ID, Body: "fast"})
	require.NoError(t, err)
	// A reply filed under another activity still goes with its parent.
	_, _, err = storage.Comments().Add(ctx, domain.CreateCommentInput{ActivityID: kept.ID, UserID: owner.ID, Body: "thanks", ParentCommentID: &root.ID})
	require.NoError(t, err)
	_, _, err = storage.Kudos().Add(ctx, domain.GiveKudosInput{ActivityID: act.ID, UserID: fan.ID})
	require.NoError(t, err)
	_, _, err = storage.Kudos().Add(ctx, domain.GiveKudosInput{ActivityID: kept.ID, UserID: fan.ID})
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `DELETE FROM activities WHERE id=$1`, act.ID)
	require.NoError(t, err)

	require.Equal(t, 0, countRows(t, pool, "activity_points"))
	require.Equal(t, 0, countRows(t, pool, "comments"))
	require.Equal(t, 1, countRows(t, pool, "kudos"))
	require.Equal(t, 1, countRows(t, pool, "activities"))
	require.Equal(t, 2, countRows(t, pool, "users"))

	_, ok, err := storage.Activities().GetByID(ctx, kept.ID)
	require.NoError(t, err)
	require.True(t, ok)
}
