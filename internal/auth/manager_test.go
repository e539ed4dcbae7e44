package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"task-manager-backend/internal/domain"
)

type fakeUserRepository struct {
	users map[string]*domain.User
}

func (r *fakeUserRepository) FindByUsername(username string) (*domain.User, error) {
	user, ok := r.users[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepository) Create(user *domain.User) error {
	r.users[user.Username] = user
	return nil
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)

	alice := &domain.User{Username: "alice", PasswordHash: string(hash)}
	alice.ID = 7

	repo := &fakeUserRepository{users: map[string]*domain.User{"alice": alice}}
	return NewManager(repo, "test-session-secret")
}

func TestLoginSucceedsWithValidCredentials(t *testing.T) {
	m := newTestManager(t)

	user, err := m.Login(context.Background(), "alice", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)
	assert.Equal(t, "alice", user.Username)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Login(context.Background(), "mallory", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginFailureDoesNotRevealWhichFieldWasWrong(t *testing.T) {
	m := newTestManager(t)

	_, badUser := m.Login(context.Background(), "mallory", "correct horse")
	_, badPass := m.Login(context.Background(), "alice", "wrong")
	assert.Equal(t, badUser, badPass)
}

func TestRequireLoginRejectsMissingSession(t *testing.T) {
	m := newTestManager(t)

	handler := m.RequireLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a session")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
}

func TestEstablishedSessionPassesRequireLogin(t *testing.T) {
	m := newTestManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	require.NoError(t, m.Establish(rec, req, 7))

	authed := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	for _, cookie := range rec.Result().Cookies() {
		authed.AddCookie(cookie)
	}

	var gotID uint
	var sawIdentity bool
	handler := m.RequireLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, sawIdentity = UserID(r.Context())
	}))

	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, authed)

	assert.Equal(t, http.StatusOK, rec2.Code)
	require.True(t, sawIdentity)
	assert.Equal(t, uint(7), gotID)
}

func TestClearedSessionFailsRequireLogin(t *testing.T) {
	m := newTestManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	require.NoError(t, m.Establish(rec, req, 7))

	// Log out with the established cookie and capture the replacement
	// cookie the client would store.
	logoutReq := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	for _, cookie := range rec.Result().Cookies() {
		logoutReq.AddCookie(cookie)
	}
	logoutRec := httptest.NewRecorder()
	require.NoError(t, m.Clear(logoutRec, logoutReq))

	after := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	for _, cookie := range logoutRec.Result().Cookies() {
		after.AddCookie(cookie)
	}

	handler := m.RequireLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run after logout")
	}))
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, after)

	assert.Equal(t, http.StatusUnauthorized, rec2.Code)
}

func TestClearIsIdempotent(t *testing.T) {
	m := newTestManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	require.NoError(t, m.Clear(rec, req))
	require.NoError(t, m.Clear(httptest.NewRecorder(), req))
}
