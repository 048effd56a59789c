//go:build integration

package dal

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/domain"
	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/identity"
	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/persistence/postgres"
	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/testsupport"
)

func TestRunOverPostgres(t *testing.T) {
	ctx := context.Background()
	pool := testsupport.StartPostgres(ctx, t)
	require.NoError(t, postgres.Migrate(ctx, pool))

	storage := postgres.NewStorage(pool, postgres.WithHasher(identity.NewBcryptHasher(bcrypt.MinCost)))
	pub := &stubPublisher{}
	var logs bytes.Buffer

	err := Run(ctx, storage, func(d *DataAccessLayer) error {
		owner, _, err := d.Users().Add(ctx, domain.CreateUserInput{Username: "owner"})
		require.NoError(t, err)
		fan, _, err := d.Users().Add(ctx, domain.CreateUserInput{Username: "fan"})
		require.NoError(t, err)
		activity, _, err := d.Activities().Add(ctx, domain.CreateActivityInput{UserID: owner.ID, DistanceM: 5000})
		require.NoError(t, err)

		_, ok, err := d.Kudos().Add(ctx, domain.GiveKudosInput{ActivityID: activity.ID, UserID: fan.ID})
		require.NoError(t, err)
		require.True(t, ok)
		_, ok, err = d.Kudos().Add(ctx, domain.GiveKudosInput{ActivityID: activity.ID, UserID: fan.ID})
		require.NoError(t, err)
		require.False(t, ok)

		_, _, err = d.Users().Add(ctx, domain.CreateUserInput{Username: "owner"})
		require.True(t, domain.IsConstraint(err, domain.ConstraintUnique))
		return nil
	}, quietLogger(&logs), WithPublisher(pub))
	require.NoError(t, err)

	require.Len(t, pub.batches, 1)
	require.Len(t, pub.batches[0], 4)
	require.Contains(t, logs.String(), "data access layer: work finished")
}
