package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

type Participant struct {
	ID          int64  `json:"id"`
	EventID     int64  `json:"event_id"`
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// AddParticipant enrolls a user in an event. Re-adding an existing participant
// is a no-op that returns the existing row.
func (db *DB) AddParticipant(ctx context.Context, eventID, userID int64, displayName string) (*Participant, error) {
	var p Participant
	err := db.pool.QueryRow(ctx,
		`INSERT INTO participants (event_id, user_id, display_name)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (event_id, user_id) DO UPDATE SET display_name = participants.display_name
		 RETURNING id, event_id, user_id, display_name`,
		eventID, userID, displayName,
	).Scan(&p.ID, &p.EventID, &p.UserID, &p.DisplayName)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Participants returns all participants for an event in join order.
func (db *DB) Participants(ctx context.Context, eventID int64) ([]Participant, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, event_id, user_id, display_name FROM participants WHERE event_id = $1 ORDER BY id`,
		eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Participant
	for rows.Next() {
		var p Participant
		if err := rows.Scan(&p.ID, &p.EventID, &p.UserID, &p.DisplayName); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ParticipantByUser returns the participant row for a user in an event, or nil.
func (db *DB) ParticipantByUser(ctx context.Context, eventID, userID int64) (*Participant, error) {
	var p Participant
	err := db.pool.QueryRow(ctx,
		`SELECT id, event_id, user_id, display_name FROM participants WHERE event_id = $1 AND user_id = $2`,
		eventID, userID,
	).Scan(&p.ID, &p.EventID, &p.UserID, &p.DisplayName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
