package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

const (
	EventStatusDraft     = "draft"
	EventStatusActive    = "active"
	EventStatusFinalized = "finalized"
)

type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Currency    string    `json:"currency"`
	TotalCents  int64     `json:"total_cents"`
	Status      string    `json:"status"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateEvent inserts an event and enrolls the creator as its first participant.
func (db *DB) CreateEvent(ctx context.Context, title, description, currency string, totalCents, createdBy int64, creatorName string) (*Event, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var ev Event
	if err := tx.QueryRow(ctx,
		`INSERT INTO events (title, description, currency, total_cents, status, created_by)
		 VALUES ($1, $2, $3, $4, 'active', $5)
		 RETURNING id, title, description, currency, total_cents, status, created_by, created_at`,
		title, description, currency, totalCents, createdBy,
	).Scan(&ev.ID, &ev.Title, &ev.Description, &ev.Currency, &ev.TotalCents, &ev.Status, &ev.CreatedBy, &ev.CreatedAt); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO participants (event_id, user_id, display_name) VALUES ($1, $2, $3)`,
		ev.ID, createdBy, creatorName,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &ev, nil
}

// GetEvent returns the event by id, or nil when it does not exist.
func (db *DB) GetEvent(ctx context.Context, id int64) (*Event, error) {
	var ev Event
	err := db.pool.QueryRow(ctx,
		`SELECT id, title, description, currency, total_cents, status, created_by, created_at
		 FROM events WHERE id = $1`,
		id,
	).Scan(&ev.ID, &ev.Title, &ev.Description, &ev.Currency, &ev.TotalCents, &ev.Status, &ev.CreatedBy, &ev.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ev, nil
}

// ListEvents returns all events, newest first.
func (db *DB) ListEvents(ctx context.Context) ([]Event, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, description, currency, total_cents, status, created_by, created_at
		 FROM events ORDER BY id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.Title, &ev.Description, &ev.Currency, &ev.TotalCents, &ev.Status, &ev.CreatedBy, &ev.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// SetEventStatus updates the event lifecycle status.
func (db *DB) SetEventStatus(ctx context.Context, id int64, status string) error {
	ct, err := db.pool.Exec(ctx,
		`UPDATE events SET status = $2 WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("event not found")
	}
	return nil
}
