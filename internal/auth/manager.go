// Package auth establishes and validates logged-in identity across requests
// using a signed session cookie.
package auth

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"task-manager-backend/internal/domain"
	"task-manager-backend/internal/repository"
)

const (
	sessionName      = "task_session"
	sessionKeyUserID = "user_id"

	sessionMaxAge = 7 * 24 * 60 * 60 // seconds
)

// ErrInvalidCredentials is returned for both an unknown username and a wrong
// password, so a caller can never tell which one failed.
var ErrInvalidCredentials = errors.New("invalid username or password")

type contextKey struct{}

var userIDKey contextKey

// Manager authenticates users against the user repository and binds their
// identity to a session cookie.
type Manager struct {
	users repository.UserRepository
	store *sessions.CookieStore
}

// NewManager creates a session manager. The secret signs the session cookie.
func NewManager(users repository.UserRepository, secret string) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{users: users, store: store}
}

// Login verifies the credentials and returns the matching user.
func (m *Manager) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := m.users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.Printf("Error looking up user %q: %v", username, err)
		return nil, errors.New("failed to look up user")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Establish stores the user's identity in the session cookie.
func (m *Manager) Establish(w http.ResponseWriter, r *http.Request, userID uint) error {
	session, _ := m.store.Get(r, sessionName)
	session.Values[sessionKeyUserID] = userID
	return session.Save(r, w)
}

// Clear invalidates the session. Clearing an already-cleared session is not
// an error.
func (m *Manager) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, sessionName)
	delete(session.Values, sessionKeyUserID)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// RequireLogin rejects requests without a valid session before any handler
// runs, and puts the authenticated user id on the request context.
func (m *Manager) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.store.Get(r, sessionName)
		if err != nil {
			respondUnauthorized(w)
			return
		}
		userID, ok := session.Values[sessionKeyUserID].(uint)
		if !ok || userID == 0 {
			respondUnauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the authenticated user id placed on the context by
// RequireLogin.
func UserID(ctx context.Context) (uint, bool) {
	userID, ok := ctx.Value(userIDKey).(uint)
	return userID, ok
}

func respondUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
}
