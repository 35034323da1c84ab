package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/activity-board/internal/model"
)

func newSeeded(t *testing.T, activities ...model.Activity) *MemoryRepository {
	t.Helper()
	repo := NewMemoryRepository()
	require.NoError(t, repo.Seed(context.Background(), activities))
	return repo
}

func TestMemoryRepository_AddParticipant(t *testing.T) {
	ctx := context.Background()
	repo := newSeeded(t, model.Activity{Name: "Chess Club", MaxParticipants: 2, Participants: []string{"a@x.com"}})

	require.NoError(t, repo.AddParticipant(ctx, "Chess Club", "b@x.com"))

	a, err := repo.Get(ctx, "Chess Club")
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, a.Participants)

	assert.ErrorIs(t, repo.AddParticipant(ctx, "Chess Club", "a@x.com"), ErrAlreadyRegistered)
	assert.ErrorIs(t, repo.AddParticipant(ctx, "Chess Club", "c@x.com"), ErrActivityFull)
	assert.ErrorIs(t, repo.AddParticipant(ctx, "Nope", "c@x.com"), ErrNotFound)
}

func TestMemoryRepository_RemoveParticipant(t *testing.T) {
	ctx := context.Background()
	repo := newSeeded(t, model.Activity{Name: "Art", MaxParticipants: 5, Participants: []string{"a@x.com", "b@x.com"}})

	require.NoError(t, repo.RemoveParticipant(ctx, "Art", "a@x.com"))
	a, err := repo.Get(ctx, "Art")
	require.NoError(t, err)
	assert.Equal(t, []string{"b@x.com"}, a.Participants)

	assert.ErrorIs(t, repo.RemoveParticipant(ctx, "Art", "a@x.com"), ErrNotRegistered)
	assert.ErrorIs(t, repo.RemoveParticipant(ctx, "Nope", "a@x.com"), ErrNotFound)
}

func TestMemoryRepository_ListIsACopy(t *testing.T) {
	ctx := context.Background()
	repo := newSeeded(t,
		model.Activity{Name: "b", MaxParticipants: 1, Participants: []string{"x@y.z"}},
		model.Activity{Name: "a", MaxParticipants: 1},
	)

	c, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, c.Names())

	b, _ := c.Get("b")
	b.Participants[0] = "mutated"

	stored, err := repo.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "x@y.z", stored.Participants[0])
}

func TestMemoryRepository_SeedOnlyWhenEmpty(t *testing.T) {
	ctx := context.Background()
	repo := newSeeded(t, model.Activity{Name: "first"})

	require.NoError(t, repo.Seed(ctx, []model.Activity{{Name: "second"}}))

	c, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, c.Names())
}

func TestDefaultSeed(t *testing.T) {
	activities, err := DefaultSeed()
	require.NoError(t, err)
	require.NotEmpty(t, activities)

	assert.Equal(t, "Chess Club", activities[0].Name)
	assert.Equal(t, 12, activities[0].MaxParticipants)
	assert.Contains(t, activities[0].Participants, "michael@mergington.edu")
}

func TestParseSeed_RequiresName(t *testing.T) {
	_, err := ParseSeed([]byte("activities:\n  - description: nameless\n"))
	assert.Error(t, err)
}
