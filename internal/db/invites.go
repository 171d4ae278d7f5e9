package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

const (
	InviteRoleAdmin  = "admin"
	InviteRoleMember = "member"
)

type Invite struct {
	ID             int64      `json:"id"`
	EventID        int64      `json:"event_id"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
	Token          string     `json:"token"`
	TokenExpiresAt time.Time  `json:"token_expires_at"`
	AcceptedAt     *time.Time `json:"accepted_at,omitempty"`
}

// CreateInvite stores an invitation token for an email address.
func (db *DB) CreateInvite(ctx context.Context, eventID int64, email, role, token string, expiresAt time.Time) (*Invite, error) {
	var inv Invite
	err := db.pool.QueryRow(ctx,
		`INSERT INTO invites (event_id, email, role, token, token_expires_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, event_id, email, role, token, token_expires_at, accepted_at`,
		eventID, email, role, token, expiresAt,
	).Scan(&inv.ID, &inv.EventID, &inv.Email, &inv.Role, &inv.Token, &inv.TokenExpiresAt, &inv.AcceptedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetInvite returns the invite for an event token, or nil when none matches.
func (db *DB) GetInvite(ctx context.Context, eventID int64, token string) (*Invite, error) {
	var inv Invite
	err := db.pool.QueryRow(ctx,
		`SELECT id, event_id, email, role, token, token_expires_at, accepted_at
		 FROM invites WHERE event_id = $1 AND token = $2`,
		eventID, token,
	).Scan(&inv.ID, &inv.EventID, &inv.Email, &inv.Role, &inv.Token, &inv.TokenExpiresAt, &inv.AcceptedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

// MarkInviteAccepted records the first acceptance time. Later joins with the
// same token keep the original timestamp.
func (db *DB) MarkInviteAccepted(ctx context.Context, inviteID int64, at time.Time) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE invites SET accepted_at = COALESCE(accepted_at, $2) WHERE id = $1`,
		inviteID, at,
	)
	return err
}

// ListInvites returns all invites for an event.
func (db *DB) ListInvites(ctx context.Context, eventID int64) ([]Invite, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, event_id, email, role, token, token_expires_at, accepted_at
		 FROM invites WHERE event_id = $1 ORDER BY id`,
		eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Invite
	for rows.Next() {
		var inv Invite
		if err := rows.Scan(&inv.ID, &inv.EventID, &inv.Email, &inv.Role, &inv.Token, &inv.TokenExpiresAt, &inv.AcceptedAt); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}
