// Package service implements the signup rules that sit between the HTTP
// handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/activity-board/internal/model"
	"github.com/Shivanand-hulikatti/activity-board/internal/repository"
)

// ErrEmailRequired is returned when the email is blank after trimming.
var ErrEmailRequired = errors.New("email is required")

// ActivityService orchestrates activity operations.
type ActivityService struct {
	activities repository.ActivityRepository
}

// NewActivityService constructs an ActivityService.
func NewActivityService(activities repository.ActivityRepository) *ActivityService {
	return &ActivityService{activities: activities}
}

// ListActivities returns the whole catalog.
func (s *ActivityService) ListActivities(ctx context.Context) (model.Catalog, error) {
	return s.activities.List(ctx)
}

// Signup adds email to the named activity and returns the confirmation text.
// Email format is not checked; the roster stores what it is given.
func (s *ActivityService) Signup(ctx context.Context, activity, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrEmailRequired
	}

	if err := s.activities.AddParticipant(ctx, activity, email); err != nil {
		if isDomainError(err) {
			return "", err
		}
		return "", fmt.Errorf("sign up for activity: %w", err)
	}
	return fmt.Sprintf("Signed up %s for %s", email, activity), nil
}

// Unregister removes email from the named activity and returns the
// confirmation text.
func (s *ActivityService) Unregister(ctx context.Context, activity, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrEmailRequired
	}

	if err := s.activities.RemoveParticipant(ctx, activity, email); err != nil {
		if isDomainError(err) {
			return "", err
		}
		return "", fmt.Errorf("unregister from activity: %w", err)
	}
	return fmt.Sprintf("Unregistered %s from %s", email, activity), nil
}

func isDomainError(err error) bool {
	return errors.Is(err, repository.ErrNotFound) ||
		errors.Is(err, repository.ErrAlreadyRegistered) ||
		errors.Is(err, repository.ErrNotRegistered) ||
		errors.Is(err, repository.ErrActivityFull)
}
