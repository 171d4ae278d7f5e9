package db

import (
	"context"
	"fmt"
	"time"
)

type Payment struct {
	ID            int64     `json:"id"`
	EventID       int64     `json:"event_id"`
	ParticipantID int64     `json:"participant_id"`
	AmountCents   int64     `json:"amount_cents"`
	Memo          string    `json:"memo"`
	CreatedAt     time.Time `json:"created_at"`
}

// AddPayment records an amount a participant actually paid toward the bill.
func (db *DB) AddPayment(ctx context.Context, eventID, participantID, amountCents int64, memo string) (*Payment, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	var p Payment
	err := db.pool.QueryRow(ctx,
		`INSERT INTO payments (event_id, participant_id, amount_cents, memo)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, event_id, participant_id, amount_cents, memo, created_at`,
		eventID, participantID, amountCents, memo,
	).Scan(&p.ID, &p.EventID, &p.ParticipantID, &p.AmountCents, &p.Memo, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Payments returns all payments for an event in creation order.
func (db *DB) Payments(ctx context.Context, eventID int64) ([]Payment, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, event_id, participant_id, amount_cents, COALESCE(memo, ''), created_at
		 FROM payments WHERE event_id = $1 ORDER BY id`,
		eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.EventID, &p.ParticipantID, &p.AmountCents, &p.Memo, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// PaymentSums returns total paid cents per participant for an event.
func (db *DB) PaymentSums(ctx context.Context, eventID int64) (map[int64]int64, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT participant_id, COALESCE(SUM(amount_cents), 0)
		 FROM payments WHERE event_id = $1 GROUP BY participant_id`,
		eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sums := make(map[int64]int64)
	for rows.Next() {
		var pid, sum int64
		if err := rows.Scan(&pid, &sum); err != nil {
			return nil, err
		}
		sums[pid] = sum
	}
	return sums, rows.Err()
}
