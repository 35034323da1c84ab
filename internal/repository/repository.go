// Package repository implements storage for activities and their rosters.
// Three backends share one interface: an in-memory store, PostgreSQL via
// pgx, and Redis.
package repository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Shivanand-hulikatti/activity-board/internal/model"
)

// ErrNotFound is returned when a requested activity does not exist.
var ErrNotFound = errors.New("not found")

// ErrActivityFull is returned when an activity has no remaining capacity.
var ErrActivityFull = errors.New("activity is full")

// ErrAlreadyRegistered is returned when the same email signs up twice.
var ErrAlreadyRegistered = errors.New("email already signed up for this activity")

// ErrNotRegistered is returned when removing an email that is not on the roster.
var ErrNotRegistered = errors.New("email not signed up for this activity")

// ActivityRepository persists the catalog.
type ActivityRepository interface {
	// List returns every activity in catalog order.
	List(ctx context.Context) (model.Catalog, error)

	// Get returns a single activity or ErrNotFound.
	Get(ctx context.Context, name string) (*model.Activity, error)

	// AddParticipant appends email to the roster. It returns ErrNotFound,
	// ErrAlreadyRegistered or ErrActivityFull.
	AddParticipant(ctx context.Context, name, email string) error

	// RemoveParticipant drops email from the roster. It returns ErrNotFound
	// or ErrNotRegistered.
	RemoveParticipant(ctx context.Context, name, email string) error

	// Seed inserts activities when the store is empty.
	Seed(ctx context.Context, activities []model.Activity) error

	Close() error
}

//go:embed seed.yaml
var seedYAML []byte

// DefaultSeed returns the built-in starter catalog.
func DefaultSeed() ([]model.Activity, error) {
	return ParseSeed(seedYAML)
}

// ParseSeed decodes a YAML list of activities.
func ParseSeed(data []byte) ([]model.Activity, error) {
	var doc struct {
		Activities []model.Activity `yaml:"activities"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	for i, a := range doc.Activities {
		if a.Name == "" {
			return nil, fmt.Errorf("parse seed: activity %d has no name", i)
		}
	}
	return doc.Activities, nil
}
