package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/ksuda/warikan/internal/db"
	"github.com/ksuda/warikan/internal/split"
	"github.com/shopspring/decimal"
)

type eventJSON struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Currency    string          `json:"currency"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	CreatedBy   int64           `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

type pledgeJSON struct {
	ID            int64           `json:"id"`
	ParticipantID int64           `json:"participant_id"`
	Type          string          `json:"type"`
	ValueType     string          `json:"value_type"`
	Value         decimal.Decimal `json:"value"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
}

type paymentJSON struct {
	ID            int64           `json:"id"`
	ParticipantID int64           `json:"participant_id"`
	Amount        decimal.Decimal `json:"amount"`
	Memo          string          `json:"memo"`
	CreatedAt     time.Time       `json:"created_at"`
}

type transferJSON struct {
	FromParticipant int64           `json:"from_participant"`
	ToParticipant   int64           `json:"to_participant"`
	Amount          decimal.Decimal `json:"amount"`
}

func eventToJSON(ev *db.Event) eventJSON {
	return eventJSON{
		ID:          ev.ID,
		Title:       ev.Title,
		Description: ev.Description,
		Currency:    ev.Currency,
		TotalAmount: fromCents(ev.TotalCents),
		Status:      ev.Status,
		CreatedBy:   ev.CreatedBy,
		CreatedAt:   ev.CreatedAt,
	}
}

func paymentToJSON(p db.Payment) paymentJSON {
	return paymentJSON{
		ID:            p.ID,
		ParticipantID: p.ParticipantID,
		Amount:        fromCents(p.AmountCents),
		Memo:          p.Memo,
		CreatedAt:     p.CreatedAt,
	}
}

func pledgeToJSON(p db.Pledge) pledgeJSON {
	return pledgeJSON{
		ID:            p.ID,
		ParticipantID: p.ParticipantID,
		Type:          p.Type,
		ValueType:     p.ValueType,
		Value:         fromCents(p.ValueCents),
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
	}
}

// Protected handlers

func (a *API) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := a.store.ListEvents(r.Context())
	if err != nil {
		http.Error(w, "failed to list events", http.StatusInternalServerError)
		return
	}

	out := make([]eventJSON, 0, len(events))
	for i := range events {
		out = append(out, eventToJSON(&events[i]))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func (a *API) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value("claims").(*Claims)

	var req struct {
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Currency    string          `json:"currency"`
		TotalAmount decimal.Decimal `json:"total_amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}
	totalCents, err := toCents(req.TotalAmount)
	if err != nil || totalCents <= 0 {
		http.Error(w, "total_amount must be positive", http.StatusBadRequest)
		return
	}
	currency := req.Currency
	if currency == "" {
		currency = a.config.DefaultCurrency
	}

	ev, err := a.store.CreateEvent(r.Context(), req.Title, req.Description, currency, totalCents, claims.UserID, displayNameFor(claims.Email))
	if err != nil {
		http.Error(w, "failed to create event", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(eventToJSON(ev))
}

func (a *API) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	ev, ok := a.eventFromRequest(w, r)
	if !ok {
		return
	}

	participants, err := a.store.Participants(r.Context(), ev.ID)
	if err != nil {
		http.Error(w, "failed to load participants", http.StatusInternalServerError)
		return
	}
	pledges, err := a.store.Pledges(r.Context(), ev.ID)
	if err != nil {
		http.Error(w, "failed to load pledges", http.StatusInternalServerError)
		return
	}
	payments, err := a.store.Payments(r.Context(), ev.ID)
	if err != nil {
		http.Error(w, "failed to load payments", http.StatusInternalServerError)
		return
	}
	invites, err := a.store.ListInvites(r.Context(), ev.ID)
	if err != nil {
		http.Error(w, "failed to load invites", http.StatusInternalServerError)
		return
	}

	allocs := allocate(ev, participants, pledges)
	allocOut := make(map[string]decimal.Decimal, len(allocs))
	for pid, cents := range allocs {
		allocOut[strconv.FormatInt(pid, 10)] = fromCents(cents)
	}
	pledgeOut := make([]pledgeJSON, 0, len(pledges))
	for _, p := range pledges {
		pledgeOut = append(pledgeOut, pledgeToJSON(p))
	}
	paymentOut := make([]paymentJSON, 0, len(payments))
	for _, p := range payments {
		paymentOut = append(paymentOut, paymentToJSON(p))
	}
	if participants == nil {
		participants = []db.Participant{}
	}
	if invites == nil {
		invites = []db.Invite{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"event":        eventToJSON(ev),
		"participants": participants,
		"pledges":      pledgeOut,
		"payments":     paymentOut,
		"invites":      invites,
		"allocations":  allocOut,
	})
}

func (a *API) handleCreateInvite(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value("claims").(*Claims)
	ev, ok := a.eventFromRequest(w, r)
	if !ok {
		return
	}
	if !a.requireParticipant(w, r.Context(), ev.ID, claims.UserID) {
		return
	}

	var req struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	email := normalizeEmail(req.Email)
	if email == "" {
		http.Error(w, "invalid email", http.StatusBadRequest)
		return
	}
	role := req.Role
	if role == "" {
		role = db.InviteRoleMember
	}
	if role != db.InviteRoleMember && role != db.InviteRoleAdmin {
		http.Error(w, "invalid role", http.StatusBadRequest)
		return
	}

	token := uuid.NewString()
	inv, err := a.store.CreateInvite(r.Context(), ev.ID, email, role, token, time.Now().Add(inviteTokenTTL))
	if err != nil {
		http.Error(w, "failed to create invite", http.StatusInternalServerError)
		return
	}

	joinURL := fmt.Sprintf("%s/api/events/%d/join/%s", a.config.BaseURL, ev.ID, token)
	subject := fmt.Sprintf("You are invited to split %q", ev.Title)
	if err := a.mail.Send(r.Context(), email, subject, joinURL); err != nil {
		log.Printf("failed to send invite to %s: %v", email, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"invite":   inv,
		"join_url": joinURL,
	})
}

func (a *API) handleAddPledge(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value("claims").(*Claims)
	ev, ok := a.eventFromRequest(w, r)
	if !ok {
		return
	}
	if ev.Status == db.EventStatusFinalized {
		http.Error(w, "event is finalized", http.StatusConflict)
		return
	}
	if !a.requireParticipant(w, r.Context(), ev.ID, claims.UserID) {
		return
	}

	var req struct {
		ParticipantID int64           `json:"participant_id"`
		Type          string          `json:"type"`
		ValueType     string          `json:"value_type"`
		Value         decimal.Decimal `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Type != db.PledgeVolunteerOverpay && req.Type != db.PledgeUnderpayBid {
		http.Error(w, "invalid pledge type", http.StatusBadRequest)
		return
	}
	if req.ValueType != db.PledgeValuePercent && req.ValueType != db.PledgeValueFixed {
		http.Error(w, "invalid value type", http.StatusBadRequest)
		return
	}

	var valueCents int64
	var err error
	if req.ValueType == db.PledgeValuePercent {
		valueCents, err = toPercentBasis(req.Value)
	} else {
		valueCents, err = toCents(req.Value)
	}
	if err != nil || valueCents <= 0 {
		http.Error(w, "value must be positive", http.StatusBadRequest)
		return
	}

	participants, err := a.store.Participants(r.Context(), ev.ID)
	if err != nil {
		http.Error(w, "failed to load participants", http.StatusInternalServerError)
		return
	}
	found := false
	for _, p := range participants {
		if p.ID == req.ParticipantID {
			found = true
			break
		}
	}
	if !found {
		http.Error(w, "participant not in event", http.StatusBadRequest)
		return
	}

	// Underpay bids would need organizer approval in production; the demo
	// activates them immediately.
	pledge, err := a.store.AddPledge(r.Context(), ev.ID, req.ParticipantID, req.Type, req.ValueType, valueCents, true)
	if err != nil {
		http.Error(w, "failed to add pledge", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(pledgeToJSON(*pledge))
}

func (a *API) handleRetractPledge(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value("claims").(*Claims)
	ev, ok := a.eventFromRequest(w, r)
	if !ok {
		return
	}
	if ev.Status == db.EventStatusFinalized {
		http.Error(w, "event is finalized", http.StatusConflict)
		return
	}
	if !a.requireParticipant(w, r.Context(), ev.ID, claims.UserID) {
		return
	}

	pledgeID, err := strconv.ParseInt(mux.Vars(r)["pledge_id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid pledge_id", http.StatusBadRequest)
		return
	}

	if err := a.store.DeactivatePledge(r.Context(), ev.ID, pledgeID); err != nil {
		http.Error(w, "pledge not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "pledge retracted",
	})
}

func (a *API) handleAddPayment(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value("claims").(*Claims)
	ev, ok := a.eventFromRequest(w, r)
	if !ok {
		return
	}

	self, err := a.store.ParticipantByUser(r.Context(), ev.ID, claims.UserID)
	if err != nil {
		http.Error(w, "failed to load participant", http.StatusInternalServerError)
		return
	}
	if self == nil {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req struct {
		ParticipantID int64           `json:"participant_id"`
		Amount        decimal.Decimal `json:"amount"`
		Memo          string          `json:"memo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ParticipantID == 0 {
		req.ParticipantID = self.ID
	}
	amountCents, err := toCents(req.Amount)
	if err != nil || amountCents <= 0 {
		http.Error(w, "amount must be positive", http.StatusBadRequest)
		return
	}

	// A payment against a participant outside the event would never surface
	// in the settlement plan.
	if req.ParticipantID != self.ID {
		participants, err := a.store.Participants(r.Context(), ev.ID)
		if err != nil {
			http.Error(w, "failed to load participants", http.StatusInternalServerError)
			return
		}
		found := false
		for _, p := range participants {
			if p.ID == req.ParticipantID {
				found = true
				break
			}
		}
		if !found {
			http.Error(w, "participant not in event", http.StatusBadRequest)
			return
		}
	}

	payment, err := a.store.AddPayment(r.Context(), ev.ID, req.ParticipantID, amountCents, req.Memo)
	if err != nil {
		http.Error(w, "failed to add payment", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(payment)
}

func (a *API) handleFinalize(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value("claims").(*Claims)
	ev, ok := a.eventFromRequest(w, r)
	if !ok {
		return
	}
	if ev.CreatedBy != claims.UserID {
		http.Error(w, "only the organizer can finalize", http.StatusForbidden)
		return
	}
	if ev.Status == db.EventStatusFinalized {
		http.Error(w, "event already finalized", http.StatusConflict)
		return
	}

	transfers, err := a.settlementPlan(r.Context(), ev)
	if err != nil {
		http.Error(w, "failed to compute settlement", http.StatusInternalServerError)
		return
	}

	stored := make([]db.Transfer, 0, len(transfers))
	for _, t := range transfers {
		stored = append(stored, db.Transfer{
			EventID:         ev.ID,
			FromParticipant: t.FromParticipant,
			ToParticipant:   t.ToParticipant,
			AmountCents:     t.AmountCents,
		})
	}
	if err := a.store.SetTransfers(r.Context(), ev.ID, stored); err != nil {
		http.Error(w, "failed to store settlement", http.StatusInternalServerError)
		return
	}
	if err := a.store.SetEventStatus(r.Context(), ev.ID, db.EventStatusFinalized); err != nil {
		http.Error(w, "failed to finalize event", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    db.EventStatusFinalized,
		"transfers": transfersToJSON(transfers),
	})
}

func (a *API) handleSettlement(w http.ResponseWriter, r *http.Request) {
	ev, ok := a.eventFromRequest(w, r)
	if !ok {
		return
	}

	var transfers []split.Transfer
	if ev.Status == db.EventStatusFinalized {
		stored, err := a.store.Transfers(r.Context(), ev.ID)
		if err != nil {
			http.Error(w, "failed to load settlement", http.StatusInternalServerError)
			return
		}
		for _, t := range stored {
			transfers = append(transfers, split.Transfer{
				FromParticipant: t.FromParticipant,
				ToParticipant:   t.ToParticipant,
				AmountCents:     t.AmountCents,
			})
		}
	} else {
		var err error
		transfers, err = a.settlementPlan(r.Context(), ev)
		if err != nil {
			http.Error(w, "failed to compute settlement", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    ev.Status,
		"transfers": transfersToJSON(transfers),
	})
}

// Public handlers

func (a *API) handleJoin(w http.ResponseWriter, r *http.Request) {
	ev, ok := a.eventFromRequest(w, r)
	if !ok {
		return
	}
	// The stored transfer plan is frozen at finalize; a late join would
	// desync it from the live allocations.
	if ev.Status == db.EventStatusFinalized {
		http.Error(w, "event is finalized", http.StatusConflict)
		return
	}
	token := mux.Vars(r)["token"]

	inv, err := a.store.GetInvite(r.Context(), ev.ID, token)
	if err != nil {
		http.Error(w, "failed to load invite", http.StatusInternalServerError)
		return
	}
	if inv == nil || inv.TokenExpiresAt.Before(time.Now()) {
		http.Error(w, "invalid or expired invite", http.StatusBadRequest)
		return
	}

	if err := a.store.MarkInviteAccepted(r.Context(), inv.ID, time.Now()); err != nil {
		http.Error(w, "failed to accept invite", http.StatusInternalServerError)
		return
	}

	user, err := a.store.GetOrCreateUser(r.Context(), inv.Email)
	if err != nil {
		http.Error(w, "failed to load user", http.StatusInternalServerError)
		return
	}
	participant, err := a.store.AddParticipant(r.Context(), ev.ID, user.ID, displayNameFor(user.Email))
	if err != nil {
		http.Error(w, "failed to join event", http.StatusInternalServerError)
		return
	}

	tokenString, err := a.issueSession(user)
	if err != nil {
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token":       tokenString,
		"event_id":    ev.ID,
		"participant": participant,
	})
}

func (a *API) handleChart(w http.ResponseWriter, r *http.Request) {
	ev, ok := a.eventFromRequest(w, r)
	if !ok {
		return
	}

	participants, err := a.store.Participants(r.Context(), ev.ID)
	if err != nil {
		http.Error(w, "failed to load participants", http.StatusInternalServerError)
		return
	}
	pledges, err := a.store.Pledges(r.Context(), ev.ID)
	if err != nil {
		http.Error(w, "failed to load pledges", http.StatusInternalServerError)
		return
	}

	allocs := allocate(ev, participants, pledges)
	labels := make([]string, 0, len(participants))
	values := make([]float64, 0, len(participants))
	for _, p := range participants {
		name := p.DisplayName
		if name == "" {
			name = fmt.Sprintf("User %d", p.UserID)
		}
		labels = append(labels, name)
		values = append(values, fromCents(allocs[p.ID]).InexactFloat64())
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"labels": labels,
		"values": values,
	})
}

// Helpers

// eventFromRequest resolves the {event_id} route variable. It writes the
// error response itself when the id is malformed or unknown.
func (a *API) eventFromRequest(w http.ResponseWriter, r *http.Request) (*db.Event, bool) {
	eventID, err := strconv.ParseInt(mux.Vars(r)["event_id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid event_id", http.StatusBadRequest)
		return nil, false
	}
	ev, err := a.store.GetEvent(r.Context(), eventID)
	if err != nil {
		http.Error(w, "failed to load event", http.StatusInternalServerError)
		return nil, false
	}
	if ev == nil {
		http.Error(w, "event not found", http.StatusNotFound)
		return nil, false
	}
	return ev, true
}

func (a *API) requireParticipant(w http.ResponseWriter, ctx context.Context, eventID, userID int64) bool {
	p, err := a.store.ParticipantByUser(ctx, eventID, userID)
	if err != nil {
		http.Error(w, "failed to load participant", http.StatusInternalServerError)
		return false
	}
	if p == nil {
		http.Error(w, "forbidden", http.StatusForbidden)
		return false
	}
	return true
}

// allocate runs the split calculator over storage rows.
func allocate(ev *db.Event, participants []db.Participant, pledges []db.Pledge) map[int64]int64 {
	ids := make([]int64, 0, len(participants))
	for _, p := range participants {
		ids = append(ids, p.ID)
	}
	var active []split.Pledge
	for _, p := range pledges {
		if !p.Active {
			continue
		}
		active = append(active, split.Pledge{
			ParticipantID: p.ParticipantID,
			Type:          p.Type,
			ValueType:     p.ValueType,
			Value:         p.ValueCents,
		})
	}
	return split.Allocate(ev.TotalCents, ids, active)
}

func (a *API) settlementPlan(ctx context.Context, ev *db.Event) ([]split.Transfer, error) {
	participants, err := a.store.Participants(ctx, ev.ID)
	if err != nil {
		return nil, err
	}
	pledges, err := a.store.Pledges(ctx, ev.ID)
	if err != nil {
		return nil, err
	}
	paid, err := a.store.PaymentSums(ctx, ev.ID)
	if err != nil {
		return nil, err
	}
	return split.Plan(allocate(ev, participants, pledges), paid), nil
}

func transfersToJSON(transfers []split.Transfer) []transferJSON {
	out := make([]transferJSON, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, transferJSON{
			FromParticipant: t.FromParticipant,
			ToParticipant:   t.ToParticipant,
			Amount:          fromCents(t.AmountCents),
		})
	}
	return out
}
