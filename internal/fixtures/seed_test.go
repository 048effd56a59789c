package fixtures

import (
	"bytes"
	"context"
	"log"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/dal"
	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/identity"
	"github.com/taras-ivanyk/Fitness-Tracking-Platform/internal/persistence/memory"
)

func newStore() *memory.Store {
	return memory.NewStore(memory.WithHasher(identity.NewBcryptHasher(bcrypt.MinCost)))
}

func quiet() dal.Option {
	return dal.WithLogger(log.New(&bytes.Buffer{}, "", 0))
}

func TestDemoSeedApplies(t *testing.T) {
	ctx := context.Background()
	seed, err := Demo()
	require.NoError(t, err)

	store := newStore()
	var sum Summary
	err = dal.Run(ctx, store, func(d *dal.DataAccessLayer) error {
		var applyErr error
		sum, applyErr = Apply(ctx, d, seed)
		return applyErr
	}, quiet())
	require.NoError(t, err)

	require.Equal(t, Summary{
		Users:        2,
		Profiles:     2,
		Activities:   2,
		Points:       3,
		Follows:      2,
		Kudos:        2,
		Comments:     2,
		MonthlyStats: 1,
	}, sum)

	comments, err := store.Comments().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.NotNil(t, comments[1].ParentCommentID)
	require.Equal(t, comments[0].ID, *comments[1].ParentCommentID)

	points, err := store.ActivityPoints().GetAll(ctx)
	require.NoError(t, err)
	require.Equal(t, -1.5, *points[2].Ele)
}

func TestApplyTwiceIsRejected(t *testing.T) {
	ctx := context.Background()
	seed, err := Demo()
	require.NoError(t, err)
	store := newStore()

	apply := func(d *dal.DataAccessLayer) error {
		_, err := Apply(ctx, d, seed)
		return err
	}
	require.NoError(t, dal.Run(ctx, store, apply, quiet()))
	require.ErrorIs(t, dal.Run(ctx, store, apply, quiet()), ErrAlreadySeeded)

	users, err := store.Users().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
}

func TestApplyStopsOnUnknownReference(t *testing.T) {
	ctx := context.Background()
	seed, err := Parse([]byte(`
users:
  - username: solo
kudos:
  - activity: missing
    user: solo
`))
	require.NoError(t, err)

	err = dal.Run(ctx, newStore(), func(d *dal.DataAccessLayer) error {
		_, err := Apply(ctx, d, seed)
		return err
	}, quiet())
	require.ErrorContains(t, err, `unknown activity "missing"`)
}

func TestParseRejectsEmptySeed(t *testing.T) {
	_, err := Parse([]byte("follows: []\n"))
	require.Error(t, err)

	_, err = Parse([]byte("users: [unterminated"))
	require.ErrorContains(t, err, "failed to parse seed YAML")
}
