package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/activity-board/internal/model"
)

func newMiniredisRepository(t *testing.T) ActivityRepository {
	t.Helper()
	srv := miniredis.RunT(t)

	repo, err := NewRedisRepository(context.Background(), &redis.Options{Addr: srv.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRedisRepository_Contract(t *testing.T) {
	testRepository(t, newMiniredisRepository)
}

func TestRedisRepository_SeedOnlyWhenEmpty(t *testing.T) {
	ctx := context.Background()
	repo := newMiniredisRepository(t)

	require.NoError(t, repo.Seed(ctx, []model.Activity{{Name: "first", MaxParticipants: 1}}))
	require.NoError(t, repo.Seed(ctx, []model.Activity{{Name: "second", MaxParticipants: 1}}))

	catalog, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, catalog.Names())
}

func TestDecodeActivity(t *testing.T) {
	a, err := decodeActivity("Chess Club", map[string]string{
		"description":      "Learn strategies",
		"schedule":         "Fridays",
		"max_participants": "12",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Chess Club", a.Name)
	assert.Equal(t, 12, a.MaxParticipants)
	assert.NotNil(t, a.Participants, "an empty roster encodes as []")
	assert.Equal(t, 12, a.SpotsLeft())

	_, err = decodeActivity("Broken", map[string]string{"max_participants": "lots"}, nil)
	assert.ErrorContains(t, err, `activity "Broken"`)
}

func TestRedisRepository_Keys(t *testing.T) {
	r := &RedisRepository{prefix: defaultRedisPrefix}

	assert.Equal(t, "activity-board:activities", r.namesKey())
	assert.Equal(t, "activity-board:activity:Chess Club", r.activityKey("Chess Club"))
	assert.Equal(t, "activity-board:activity:Chess Club:roster", r.rosterKey("Chess Club"))
}
