package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/Shivanand-hulikatti/activity-board/internal/model"
)

// Key layout:
//
//	<prefix>activities               list of names in catalog order
//	<prefix>activity:<name>          hash: description, schedule, max_participants
//	<prefix>activity:<name>:roster   list of emails in signup order
const defaultRedisPrefix = "activity-board:"

// maxTxRetries bounds optimistic WATCH retries on a contended roster.
const maxTxRetries = 10

// RedisRepository stores activities in Redis.
type RedisRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisRepository constructs a RedisRepository and checks connectivity.
func NewRedisRepository(ctx context.Context, opts *redis.Options) (*RedisRepository, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &RedisRepository{client: client, prefix: defaultRedisPrefix}, nil
}

func (r *RedisRepository) namesKey() string {
	return r.prefix + "activities"
}

func (r *RedisRepository) activityKey(name string) string {
	return r.prefix + "activity:" + name
}

func (r *RedisRepository) rosterKey(name string) string {
	return r.prefix + "activity:" + name + ":roster"
}

// List returns all activities in catalog order.
func (r *RedisRepository) List(ctx context.Context) (model.Catalog, error) {
	names, err := r.client.LRange(ctx, r.namesKey(), 0, -1).Result()
	if err != nil {
		return model.Catalog{}, fmt.Errorf("list activity names: %w", err)
	}

	pipe := r.client.Pipeline()
	fields := make([]*redis.MapStringStringCmd, len(names))
	rosters := make([]*redis.StringSliceCmd, len(names))
	for i, name := range names {
		fields[i] = pipe.HGetAll(ctx, r.activityKey(name))
		rosters[i] = pipe.LRange(ctx, r.rosterKey(name), 0, -1)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return model.Catalog{}, fmt.Errorf("load activities: %w", err)
	}

	var catalog model.Catalog
	for i, name := range names {
		a, err := decodeActivity(name, fields[i].Val(), rosters[i].Val())
		if err != nil {
			return model.Catalog{}, err
		}
		catalog.Add(a)
	}
	return catalog, nil
}

// Get returns a single activity or ErrNotFound.
func (r *RedisRepository) Get(ctx context.Context, name string) (*model.Activity, error) {
	h, err := r.client.HGetAll(ctx, r.activityKey(name)).Result()
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	if len(h) == 0 {
		return nil, ErrNotFound
	}
	roster, err := r.client.LRange(ctx, r.rosterKey(name), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("get roster: %w", err)
	}
	a, err := decodeActivity(name, h, roster)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// AddParticipant appends email inside a WATCH/MULTI transaction on the
// roster key, retrying when another client changes it first.
func (r *RedisRepository) AddParticipant(ctx context.Context, name, email string) error {
	rosterKey := r.rosterKey(name)

	txf := func(tx *redis.Tx) error {
		a, err := r.getTx(ctx, tx, name)
		if err != nil {
			return err
		}
		if a.HasParticipant(email) {
			return ErrAlreadyRegistered
		}
		if a.IsFull() {
			return ErrActivityFull
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.RPush(ctx, rosterKey, email)
			return nil
		})
		return err
	}
	return r.watch(ctx, txf, rosterKey)
}

// RemoveParticipant drops email from the roster.
func (r *RedisRepository) RemoveParticipant(ctx context.Context, name, email string) error {
	rosterKey := r.rosterKey(name)

	txf := func(tx *redis.Tx) error {
		a, err := r.getTx(ctx, tx, name)
		if err != nil {
			return err
		}
		if !a.HasParticipant(email) {
			return ErrNotRegistered
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.LRem(ctx, rosterKey, 0, email)
			return nil
		})
		return err
	}
	return r.watch(ctx, txf, rosterKey)
}

func (r *RedisRepository) watch(ctx context.Context, txf func(*redis.Tx) error, key string) error {
	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("update %s: too many concurrent writers", key)
}

func (r *RedisRepository) getTx(ctx context.Context, tx *redis.Tx, name string) (*model.Activity, error) {
	h, err := tx.HGetAll(ctx, r.activityKey(name)).Result()
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	if len(h) == 0 {
		return nil, ErrNotFound
	}
	roster, err := tx.LRange(ctx, r.rosterKey(name), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("get roster: %w", err)
	}
	a, err := decodeActivity(name, h, roster)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Seed writes activities when no catalog exists yet.
func (r *RedisRepository) Seed(ctx context.Context, activities []model.Activity) error {
	n, err := r.client.LLen(ctx, r.namesKey()).Result()
	if err != nil {
		return fmt.Errorf("count activities: %w", err)
	}
	if n > 0 {
		return nil
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, a := range activities {
			pipe.RPush(ctx, r.namesKey(), a.Name)
			pipe.HSet(ctx, r.activityKey(a.Name),
				"description", a.Description,
				"schedule", a.Schedule,
				"max_participants", a.MaxParticipants,
			)
			for _, email := range a.Participants {
				pipe.RPush(ctx, r.rosterKey(a.Name), email)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed activities: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func decodeActivity(name string, h map[string]string, roster []string) (model.Activity, error) {
	maxParticipants, err := strconv.Atoi(h["max_participants"])
	if err != nil {
		return model.Activity{}, fmt.Errorf("activity %q: bad max_participants %q: %w", name, h["max_participants"], err)
	}
	if roster == nil {
		roster = []string{}
	}
	return model.Activity{
		Name:            name,
		Description:     h["description"],
		Schedule:        h["schedule"],
		MaxParticipants: maxParticipants,
		Participants:    roster,
	}, nil
}
