package db

import (
	"context"
	"fmt"
	"time"
)

const (
	PledgeVolunteerOverpay = "volunteer_overpay"
	PledgeUnderpayBid      = "underpay_bid"

	PledgeValuePercent = "percent"
	PledgeValueFixed   = "fixed"
)

type Pledge struct {
	ID            int64     `json:"id"`
	EventID       int64     `json:"event_id"`
	ParticipantID int64     `json:"participant_id"`
	Type          string    `json:"type"`
	ValueType     string    `json:"value_type"`
	// ValueCents holds cents for fixed pledges and hundredths of a percent
	// for percent pledges (e.g. 12.5% is stored as 1250).
	ValueCents int64     `json:"value_cents"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

// AddPledge inserts a pledge for a participant.
func (db *DB) AddPledge(ctx context.Context, eventID, participantID int64, ptype, valueType string, valueCents int64, active bool) (*Pledge, error) {
	var p Pledge
	err := db.pool.QueryRow(ctx,
		`INSERT INTO pledges (event_id, participant_id, type, value_type, value_cents, active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, event_id, participant_id, type, value_type, value_cents, active, created_at`,
		eventID, participantID, ptype, valueType, valueCents, active,
	).Scan(&p.ID, &p.EventID, &p.ParticipantID, &p.Type, &p.ValueType, &p.ValueCents, &p.Active, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Pledges returns all pledges for an event in creation order.
func (db *DB) Pledges(ctx context.Context, eventID int64) ([]Pledge, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, event_id, participant_id, type, value_type, value_cents, active, created_at
		 FROM pledges WHERE event_id = $1 ORDER BY id`,
		eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Pledge
	for rows.Next() {
		var p Pledge
		if err := rows.Scan(&p.ID, &p.EventID, &p.ParticipantID, &p.Type, &p.ValueType, &p.ValueCents, &p.Active, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeactivatePledge retracts a pledge. The row is kept for history.
func (db *DB) DeactivatePledge(ctx context.Context, eventID, pledgeID int64) error {
	ct, err := db.pool.Exec(ctx,
		`UPDATE pledges SET active = FALSE WHERE id = $1 AND event_id = $2`,
		pledgeID, eventID,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("pledge not found")
	}
	return nil
}
