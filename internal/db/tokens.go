package db

import (
	"context"
	"time"
)

// IssueLoginToken stores a magic-link login token for an email address.
func (db *DB) IssueLoginToken(ctx context.Context, token, email string, expiresAt time.Time) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO login_tokens (token, email, expires_at) VALUES ($1, $2, $3)`,
		token, email, expiresAt,
	)
	return err
}

// ConsumeLoginToken marks the token used and returns its email. Returns ""
// when the token is unknown, expired, or already consumed. Single-use: the
// UPDATE only matches unconsumed rows, so a second consume finds nothing.
func (db *DB) ConsumeLoginToken(ctx context.Context, token string, now time.Time) (string, error) {
	rows, err := db.pool.Query(ctx,
		`UPDATE login_tokens
		 SET consumed_at = $2
		 WHERE token = $1 AND consumed_at IS NULL AND expires_at > $2
		 RETURNING email`,
		token, now,
	)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var email string
	for rows.Next() {
		if err := rows.Scan(&email); err != nil {
			return "", err
		}
	}
	return email, rows.Err()
}

// PurgeExpiredLoginTokens deletes tokens past their expiry.
func (db *DB) PurgeExpiredLoginTokens(ctx context.Context, now time.Time) (int64, error) {
	ct, err := db.pool.Exec(ctx,
		`DELETE FROM login_tokens WHERE expires_at <= $1`,
		now,
	)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
