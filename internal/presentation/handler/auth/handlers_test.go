package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmelnic/teamchat/internal/domain"
	"github.com/dmelnic/teamchat/internal/infrastructure/configs"
	"github.com/dmelnic/teamchat/internal/infrastructure/events"
	"github.com/dmelnic/teamchat/internal/infrastructure/logging"
	"github.com/dmelnic/teamchat/internal/infrastructure/metrics"
	"github.com/dmelnic/teamchat/internal/infrastructure/ws"
	"github.com/dmelnic/teamchat/internal/presentation/utils"
)

type stubUsers struct {
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
}

func newStubUsers() *stubUsers {
	return &stubUsers{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[string]*domain.User),
	}
}

func (s *stubUsers) Create(_ context.Context, user *domain.User) error {
	if _, ok := s.byEmail[user.Email]; ok {
		return domain.ErrUserAlreadyExists
	}
	s.byEmail[user.Email] = user
	s.byID[user.ID] = user
	return nil
}

func (s *stubUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *stubUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *stubUsers) GetAll(context.Context) ([]domain.User, error) { return nil, nil }

func (s *stubUsers) UpdateStatus(_ context.Context, id string, status string) error {
	user, ok := s.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.Status = status
	return nil
}

func (s *stubUsers) Delete(_ context.Context, id string) error {
	user, ok := s.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(s.byEmail, user.Email)
	delete(s.byID, id)
	return nil
}

func (s *stubUsers) CountByRole(_ context.Context, role string) (int64, error) {
	var n int64
	for _, user := range s.byID {
		if user.Role == role {
			n++
		}
	}
	return n, nil
}

type stubMessages struct{}

func (stubMessages) Persist(context.Context, *domain.Message) error { return nil }
func (stubMessages) GetByRoomKey(context.Context, string) ([]domain.Message, error) {
	return nil, nil
}

func newTestHandler(t *testing.T) (*Handler, *stubUsers) {
	t.Helper()

	users := newStubUsers()
	hub := ws.NewHub(ws.NewRegistry(4), stubMessages{}, events.NopPublisher{}, metrics.New(), logging.NopLogger{})

	cfg := configs.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}

	return NewHandler(users, hub, cfg, logging.NopLogger{}), users
}

func seedUser(t *testing.T, users *stubUsers, name, email, password, role string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user, err := domain.NewUser(name, email, string(hash), role)
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func postJSON(t *testing.T, body any) *http.Request {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(data))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func TestLoginSuccess(t *testing.T) {
	h, users := newTestHandler(t)
	seedUser(t, users, "Alice", "alice@team.com", "hunter2hunter2", domain.RoleMember)

	w := httptest.NewRecorder()
	h.LoginHandler(w, postJSON(t, loginRequest{Email: "alice@team.com", Password: "hunter2hunter2"}))

	require.Equal(t, http.StatusOK, w.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "alice@team.com", resp.User.Email)

	claims, err := utils.ParseToken("test-secret", resp.Token)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, claims.Subject)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, utils.SessionCookieName, cookies[0].Name)
	require.True(t, cookies[0].HttpOnly)
}

func TestLoginWrongPassword(t *testing.T) {
	h, users := newTestHandler(t)
	seedUser(t, users, "Alice", "alice@team.com", "hunter2hunter2", domain.RoleMember)

	w := httptest.NewRecorder()
	h.LoginHandler(w, postJSON(t, loginRequest{Email: "alice@team.com", Password: "wrong"}))

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	h, _ := newTestHandler(t)

	w := httptest.NewRecorder()
	h.LoginHandler(w, postJSON(t, loginRequest{Email: "nobody@team.com", Password: "whatever"}))

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterRequiresAdmin(t *testing.T) {
	h, users := newTestHandler(t)
	member := seedUser(t, users, "Bob", "bob@team.com", "hunter2hunter2", domain.RoleMember)

	r := postJSON(t, registerRequest{Name: "Carol", Email: "carol@team.com", Password: "longenough", Role: domain.RoleMember})
	claims := &utils.SessionClaims{Role: member.Role}
	claims.Subject = member.ID
	r = r.WithContext(utils.ContextWithClaims(r.Context(), claims))

	w := httptest.NewRecorder()
	h.RegisterHandler(w, r)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRegisterByAdmin(t *testing.T) {
	h, users := newTestHandler(t)
	admin := seedUser(t, users, "Admin", "admin@team.com", "hunter2hunter2", domain.RoleAdmin)

	r := postJSON(t, registerRequest{Name: "Carol", Email: "carol@team.com", Password: "longenough", Role: domain.RoleMember})
	claims := &utils.SessionClaims{Role: admin.Role}
	claims.Subject = admin.ID
	r = r.WithContext(utils.ContextWithClaims(r.Context(), claims))

	w := httptest.NewRecorder()
	h.RegisterHandler(w, r)

	require.Equal(t, http.StatusCreated, w.Code)

	created, err := users.GetByEmail(context.Background(), "carol@team.com")
	require.NoError(t, err)
	require.Equal(t, domain.RoleMember, created.Role)
	require.Equal(t, domain.StatusOffline, created.Status)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, users := newTestHandler(t)
	admin := seedUser(t, users, "Admin", "admin@team.com", "hunter2hunter2", domain.RoleAdmin)
	seedUser(t, users, "Carol", "carol@team.com", "hunter2hunter2", domain.RoleMember)

	r := postJSON(t, registerRequest{Name: "Carol", Email: "carol@team.com", Password: "longenough", Role: domain.RoleMember})
	claims := &utils.SessionClaims{Role: admin.Role}
	claims.Subject = admin.ID
	r = r.WithContext(utils.ContextWithClaims(r.Context(), claims))

	w := httptest.NewRecorder()
	h.RegisterHandler(w, r)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestMeHandler(t *testing.T) {
	h, users := newTestHandler(t)
	user := seedUser(t, users, "Alice", "alice@team.com", "hunter2hunter2", domain.RoleMember)

	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	claims := &utils.SessionClaims{Role: user.Role}
	claims.Subject = user.ID
	r = r.WithContext(utils.ContextWithClaims(r.Context(), claims))

	w := httptest.NewRecorder()
	h.MeHandler(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp userResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, user.ID, resp.ID)
	require.Equal(t, "Alice", resp.Name)
}
