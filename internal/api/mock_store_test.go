package api

import (
	"context"
	"time"

	"github.com/ksuda/warikan/internal/db"
	"github.com/stretchr/testify/mock"
)

// MockStore mocks the Store interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetOrCreateUser(ctx context.Context, email string) (*db.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.User), args.Error(1)
}

func (m *MockStore) CreateEvent(ctx context.Context, title, description, currency string, totalCents, createdBy int64, creatorName string) (*db.Event, error) {
	args := m.Called(title, description, currency, totalCents, createdBy, creatorName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Event), args.Error(1)
}

func (m *MockStore) GetEvent(ctx context.Context, id int64) (*db.Event, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Event), args.Error(1)
}

func (m *MockStore) ListEvents(ctx context.Context) ([]db.Event, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.Event), args.Error(1)
}

func (m *MockStore) SetEventStatus(ctx context.Context, id int64, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockStore) AddParticipant(ctx context.Context, eventID, userID int64, displayName string) (*db.Participant, error) {
	args := m.Called(eventID, userID, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Participant), args.Error(1)
}

func (m *MockStore) Participants(ctx context.Context, eventID int64) ([]db.Participant, error) {
	args := m.Called(eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.Participant), args.Error(1)
}

func (m *MockStore) ParticipantByUser(ctx context.Context, eventID, userID int64) (*db.Participant, error) {
	args := m.Called(eventID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Participant), args.Error(1)
}

func (m *MockStore) CreateInvite(ctx context.Context, eventID int64, email, role, token string, expiresAt time.Time) (*db.Invite, error) {
	args := m.Called(eventID, email, role, token, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Invite), args.Error(1)
}

func (m *MockStore) GetInvite(ctx context.Context, eventID int64, token string) (*db.Invite, error) {
	args := m.Called(eventID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Invite), args.Error(1)
}

func (m *MockStore) MarkInviteAccepted(ctx context.Context, inviteID int64, at time.Time) error {
	args := m.Called(inviteID, at)
	return args.Error(0)
}

func (m *MockStore) ListInvites(ctx context.Context, eventID int64) ([]db.Invite, error) {
	args := m.Called(eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.Invite), args.Error(1)
}

func (m *MockStore) IssueLoginToken(ctx context.Context, token, email string, expiresAt time.Time) error {
	args := m.Called(token, email, expiresAt)
	return args.Error(0)
}

func (m *MockStore) ConsumeLoginToken(ctx context.Context, token string, now time.Time) (string, error) {
	args := m.Called(token, now)
	return args.String(0), args.Error(1)
}

func (m *MockStore) AddPledge(ctx context.Context, eventID, participantID int64, ptype, valueType string, valueCents int64, active bool) (*db.Pledge, error) {
	args := m.Called(eventID, participantID, ptype, valueType, valueCents, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Pledge), args.Error(1)
}

func (m *MockStore) Pledges(ctx context.Context, eventID int64) ([]db.Pledge, error) {
	args := m.Called(eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.Pledge), args.Error(1)
}

func (m *MockStore) DeactivatePledge(ctx context.Context, eventID, pledgeID int64) error {
	args := m.Called(eventID, pledgeID)
	return args.Error(0)
}

func (m *MockStore) AddPayment(ctx context.Context, eventID, participantID, amountCents int64, memo string) (*db.Payment, error) {
	args := m.Called(eventID, participantID, amountCents, memo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db.Payment), args.Error(1)
}

func (m *MockStore) Payments(ctx context.Context, eventID int64) ([]db.Payment, error) {
	args := m.Called(eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.Payment), args.Error(1)
}

func (m *MockStore) PaymentSums(ctx context.Context, eventID int64) (map[int64]int64, error) {
	args := m.Called(eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]int64), args.Error(1)
}

func (m *MockStore) SetTransfers(ctx context.Context, eventID int64, transfers []db.Transfer) error {
	args := m.Called(eventID, transfers)
	return args.Error(0)
}

func (m *MockStore) Transfers(ctx context.Context, eventID int64) ([]db.Transfer, error) {
	args := m.Called(eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db.Transfer), args.Error(1)
}

// MockMailer mocks the Mailer interface
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, toEmail, subject, body string) error {
	args := m.Called(toEmail, subject, body)
	return args.Error(0)
}
