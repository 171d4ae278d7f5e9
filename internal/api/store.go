package api

import (
	"context"
	"time"

	"github.com/ksuda/warikan/internal/db"
)

// Store is the persistence surface the handlers need. *db.DB implements it;
// tests substitute a mock.
type Store interface {
	GetOrCreateUser(ctx context.Context, email string) (*db.User, error)

	CreateEvent(ctx context.Context, title, description, currency string, totalCents, createdBy int64, creatorName string) (*db.Event, error)
	GetEvent(ctx context.Context, id int64) (*db.Event, error)
	ListEvents(ctx context.Context) ([]db.Event, error)
	SetEventStatus(ctx context.Context, id int64, status string) error

	AddParticipant(ctx context.Context, eventID, userID int64, displayName string) (*db.Participant, error)
	Participants(ctx context.Context, eventID int64) ([]db.Participant, error)
	ParticipantByUser(ctx context.Context, eventID, userID int64) (*db.Participant, error)

	CreateInvite(ctx context.Context, eventID int64, email, role, token string, expiresAt time.Time) (*db.Invite, error)
	GetInvite(ctx context.Context, eventID int64, token string) (*db.Invite, error)
	MarkInviteAccepted(ctx context.Context, inviteID int64, at time.Time) error
	ListInvites(ctx context.Context, eventID int64) ([]db.Invite, error)

	IssueLoginToken(ctx context.Context, token, email string, expiresAt time.Time) error
	ConsumeLoginToken(ctx context.Context, token string, now time.Time) (string, error)

	AddPledge(ctx context.Context, eventID, participantID int64, ptype, valueType string, valueCents int64, active bool) (*db.Pledge, error)
	Pledges(ctx context.Context, eventID int64) ([]db.Pledge, error)
	DeactivatePledge(ctx context.Context, eventID, pledgeID int64) error

	AddPayment(ctx context.Context, eventID, participantID, amountCents int64, memo string) (*db.Payment, error)
	Payments(ctx context.Context, eventID int64) ([]db.Payment, error)
	PaymentSums(ctx context.Context, eventID int64) (map[int64]int64, error)

	SetTransfers(ctx context.Context, eventID int64, transfers []db.Transfer) error
	Transfers(ctx context.Context, eventID int64) ([]db.Transfer, error)
}

// Mailer delivers magic-link and invite mail. Implementations must be safe to
// call when mail is not configured.
type Mailer interface {
	Send(ctx context.Context, toEmail, subject, body string) error
}
