package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ksuda/warikan/internal/db"
)

const (
	loginTokenTTL  = 2 * time.Hour
	inviteTokenTTL = 7 * 24 * time.Hour
	sessionTTL     = 24 * time.Hour
)

type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// handleMagicLink issues a demo magic-link login token for an email address.
// The link is returned in the response so the flow works without mail
// delivery; no password, no real identity proof.
func (a *API) handleMagicLink(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
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

	token := uuid.NewString()
	if err := a.store.IssueLoginToken(r.Context(), token, email, time.Now().Add(loginTokenTTL)); err != nil {
		http.Error(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	loginURL := fmt.Sprintf("%s/api/auth/verify?token=%s", a.config.BaseURL, token)
	if err := a.mail.Send(r.Context(), email, "Your warikan login link", loginURL); err != nil {
		log.Printf("failed to send magic link to %s: %v", email, err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"login_url": loginURL,
	})
}

// handleVerify consumes a magic-link token and returns a session JWT.
func (a *API) handleVerify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusBadRequest)
		return
	}

	email, err := a.store.ConsumeLoginToken(r.Context(), token, time.Now())
	if err != nil {
		http.Error(w, "failed to verify token", http.StatusInternalServerError)
		return
	}
	if email == "" {
		http.Error(w, "invalid or expired token", http.StatusUnauthorized)
		return
	}

	user, err := a.store.GetOrCreateUser(r.Context(), email)
	if err != nil {
		http.Error(w, "failed to load user", http.StatusInternalServerError)
		return
	}

	tokenString, err := a.issueSession(user)
	if err != nil {
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token":   tokenString,
		"user_id": user.ID,
		"email":   user.Email,
	})
}

func (a *API) issueSession(user *db.User) (string, error) {
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jwtToken.SignedString(a.jwtSecret)
}

// Middleware
func (a *API) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			http.Error(w, "invalid authorization header", http.StatusUnauthorized)
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return a.jwtSecret, nil
		})

		if err != nil || !token.Valid {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), "claims", claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func normalizeEmail(email string) string {
	email = strings.TrimSpace(strings.ToLower(email))
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t") {
		return ""
	}
	return email
}

// displayNameFor derives a demo display name from an email address.
func displayNameFor(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
