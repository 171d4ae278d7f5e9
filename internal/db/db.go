package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

func (db *DB) Close() {
	db.pool.Close()
}

// RunMigrations runs database migrations
func (db *DB) RunMigrations(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS events (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			currency TEXT NOT NULL DEFAULT 'AUD',
			total_cents BIGINT NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			created_by BIGINT REFERENCES users(id),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS participants (
			id BIGSERIAL PRIMARY KEY,
			event_id BIGINT NOT NULL REFERENCES events(id),
			user_id BIGINT NOT NULL REFERENCES users(id),
			display_name TEXT NOT NULL DEFAULT '',
			UNIQUE (event_id, user_id)
		);
		CREATE INDEX IF NOT EXISTS idx_participants_event_id ON participants(event_id);

		CREATE TABLE IF NOT EXISTS invites (
			id BIGSERIAL PRIMARY KEY,
			event_id BIGINT NOT NULL REFERENCES events(id),
			email TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'member',
			token TEXT NOT NULL UNIQUE,
			token_expires_at TIMESTAMP NOT NULL,
			accepted_at TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_invites_event_id ON invites(event_id);

		CREATE TABLE IF NOT EXISTS login_tokens (
			token TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			consumed_at TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS pledges (
			id BIGSERIAL PRIMARY KEY,
			event_id BIGINT NOT NULL REFERENCES events(id),
			participant_id BIGINT NOT NULL REFERENCES participants(id),
			type TEXT NOT NULL,
			value_type TEXT NOT NULL,
			value_cents BIGINT NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_pledges_event_id ON pledges(event_id);

		CREATE TABLE IF NOT EXISTS payments (
			id BIGSERIAL PRIMARY KEY,
			event_id BIGINT NOT NULL REFERENCES events(id),
			participant_id BIGINT NOT NULL REFERENCES participants(id),
			amount_cents BIGINT NOT NULL,
			memo TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_payments_event_id ON payments(event_id);

		CREATE TABLE IF NOT EXISTS transfers (
			id BIGSERIAL PRIMARY KEY,
			event_id BIGINT NOT NULL REFERENCES events(id),
			from_participant BIGINT NOT NULL REFERENCES participants(id),
			to_participant BIGINT NOT NULL REFERENCES participants(id),
			amount_cents BIGINT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_transfers_event_id ON transfers(event_id);
	`)
	return err
}
