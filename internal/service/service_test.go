package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/activity-board/internal/model"
	"github.com/Shivanand-hulikatti/activity-board/internal/repository"
)

func newService(t *testing.T) *ActivityService {
	t.Helper()
	repo := repository.NewMemoryRepository()
	require.NoError(t, repo.Seed(context.Background(), []model.Activity{
		{Name: "Chess Club", MaxParticipants: 3, Participants: []string{"michael@mergington.edu"}},
	}))
	return NewActivityService(repo)
}

func TestSignup(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	tests := []struct {
		name     string
		activity string
		email    string
		wantMsg  string
		wantErr  error
	}{
		{"ok", "Chess Club", "  new@mergington.edu ", "Signed up new@mergington.edu for Chess Club", nil},
		{"duplicate", "Chess Club", "new@mergington.edu", "", repository.ErrAlreadyRegistered},
		{"blank email", "Chess Club", "   ", "", ErrEmailRequired},
		{"unknown activity", "Knitting", "x@mergington.edu", "", repository.ErrNotFound},
		{"no format check", "Chess Club", "not-an-email", "Signed up not-an-email for Chess Club", nil},
		{"full", "Chess Club", "late@mergington.edu", "", repository.ErrActivityFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := svc.Signup(ctx, tt.activity, tt.email)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestUnregister(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	msg, err := svc.Unregister(ctx, "Chess Club", "michael@mergington.edu")
	require.NoError(t, err)
	assert.Equal(t, "Unregistered michael@mergington.edu from Chess Club", msg)

	_, err = svc.Unregister(ctx, "Chess Club", "michael@mergington.edu")
	assert.ErrorIs(t, err, repository.ErrNotRegistered)

	_, err = svc.Unregister(ctx, "Knitting", "michael@mergington.edu")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

type failingRepo struct {
	repository.ActivityRepository
}

func (failingRepo) AddParticipant(context.Context, string, string) error {
	return errors.New("connection reset")
}

func TestSignup_WrapsStorageErrors(t *testing.T) {
	svc := NewActivityService(failingRepo{})

	_, err := svc.Signup(context.Background(), "Chess Club", "a@x.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sign up for activity")
	assert.Contains(t, err.Error(), "connection reset")
}
