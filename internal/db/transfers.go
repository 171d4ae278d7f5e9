package db

import (
	"context"
)

type Transfer struct {
	EventID         int64 `json:"event_id"`
	FromParticipant int64 `json:"from_participant"`
	ToParticipant   int64 `json:"to_participant"`
	AmountCents     int64 `json:"amount_cents"`
}

// SetTransfers replaces the stored settlement plan for an event.
func (db *DB) SetTransfers(ctx context.Context, eventID int64, transfers []Transfer) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM transfers WHERE event_id = $1`, eventID); err != nil {
		return err
	}
	for _, t := range transfers {
		if t.AmountCents <= 0 {
			continue
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO transfers (event_id, from_participant, to_participant, amount_cents)
			 VALUES ($1, $2, $3, $4)`,
			eventID, t.FromParticipant, t.ToParticipant, t.AmountCents,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// Transfers returns the stored settlement plan for an event.
func (db *DB) Transfers(ctx context.Context, eventID int64) ([]Transfer, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT event_id, from_participant, to_participant, amount_cents
		 FROM transfers WHERE event_id = $1 ORDER BY from_participant, to_participant`,
		eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transfer
	for rows.Next() {
		var t Transfer
		if err := rows.Scan(&t.EventID, &t.FromParticipant, &t.ToParticipant, &t.AmountCents); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
