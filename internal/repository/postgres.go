package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Shivanand-hulikatti/activity-board/internal/model"
)

// PostgresRepository stores activities in PostgreSQL using pgx directly.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns all activities ordered by insertion position, with each
// roster in signup order.
func (r *PostgresRepository) List(ctx context.Context) (model.Catalog, error) {
	rows, err := r.db.Query(ctx,
		`SELECT a.name, a.description, a.schedule, a.max_participants, p.email
		 FROM activities a
		 LEFT JOIN participants p ON p.activity_name = a.name
		 ORDER BY a.position ASC, p.position ASC`,
	)
	if err != nil {
		return model.Catalog{}, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var (
		catalog model.Catalog
		current *model.Activity
	)
	for rows.Next() {
		var (
			a     model.Activity
			email *string
		)
		if err := rows.Scan(&a.Name, &a.Description, &a.Schedule, &a.MaxParticipants, &email); err != nil {
			return model.Catalog{}, fmt.Errorf("scan activity: %w", err)
		}
		if current == nil || current.Name != a.Name {
			if current != nil {
				catalog.Add(*current)
			}
			a.Participants = []string{}
			current = &a
		}
		if email != nil {
			current.Participants = append(current.Participants, *email)
		}
	}
	if current != nil {
		catalog.Add(*current)
	}
	return catalog, rows.Err()
}

// Get returns a single activity or ErrNotFound.
func (r *PostgresRepository) Get(ctx context.Context, name string) (*model.Activity, error) {
	a := model.Activity{Name: name}
	err := r.db.QueryRow(ctx,
		`SELECT description, schedule, max_participants FROM activities WHERE name = $1`,
		name,
	).Scan(&a.Description, &a.Schedule, &a.MaxParticipants)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get activity: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT email FROM participants WHERE activity_name = $1 ORDER BY position ASC`,
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	a.Participants = []string{}
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		a.Participants = append(a.Participants, email)
	}
	return &a, rows.Err()
}

// AddParticipant signs email up inside a transaction that holds a row lock
// on the activity (SELECT … FOR UPDATE), so concurrent signups for the same
// activity are serialised and capacity cannot be overrun.
func (r *PostgresRepository) AddParticipant(ctx context.Context, name, email string) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var maxParticipants int
	err = tx.QueryRow(ctx,
		`SELECT max_participants FROM activities WHERE name = $1 FOR UPDATE`,
		name,
	).Scan(&maxParticipants)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lock activity row: %w", err)
	}

	var dup, count int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE email = $2), COUNT(*)
		 FROM participants WHERE activity_name = $1`,
		name, email,
	).Scan(&dup, &count)
	if err != nil {
		return fmt.Errorf("count participants: %w", err)
	}
	if dup > 0 {
		return ErrAlreadyRegistered
	}
	if count >= maxParticipants {
		return ErrActivityFull
	}

	if _, err = tx.Exec(ctx,
		`INSERT INTO participants (activity_name, email) VALUES ($1, $2)`,
		name, email,
	); err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RemoveParticipant deletes email from the roster.
func (r *PostgresRepository) RemoveParticipant(ctx context.Context, name, email string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM participants WHERE activity_name = $1 AND email = $2`,
		name, email,
	)
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	if _, err := r.Get(ctx, name); err != nil {
		return err
	}
	return ErrNotRegistered
}

// Seed inserts activities in one transaction when the table is empty.
func (r *PostgresRepository) Seed(ctx context.Context, activities []model.Activity) (err error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM activities`).Scan(&n); err != nil {
		return fmt.Errorf("count activities: %w", err)
	}
	if n > 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	batch := &pgx.Batch{}
	for _, a := range activities {
		batch.Queue(
			`INSERT INTO activities (name, description, schedule, max_participants) VALUES ($1, $2, $3, $4)`,
			a.Name, a.Description, a.Schedule, a.MaxParticipants,
		)
		for _, email := range a.Participants {
			batch.Queue(
				`INSERT INTO participants (activity_name, email) VALUES ($1, $2)`,
				a.Name, email,
			)
		}
	}
	if err = tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("seed activities: %w", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (r *PostgresRepository) Close() error {
	r.db.Close()
	return nil
}
