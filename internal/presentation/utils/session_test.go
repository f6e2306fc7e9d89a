package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmelnic/teamchat/internal/domain"
)

func TestIssueAndParseToken(t *testing.T) {
	user := &domain.User{ID: "user-1", Name: "Alice", Role: domain.RoleAdmin}

	token, err := IssueToken("secret", time.Hour, user)
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "Alice", claims.Name)
	require.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestParseTokenWrongSecret(t *testing.T) {
	user := &domain.User{ID: "user-1", Name: "Alice", Role: domain.RoleMember}

	token, err := IssueToken("secret", time.Hour, user)
	require.NoError(t, err)

	_, err = ParseToken("other", token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenExpired(t *testing.T) {
	user := &domain.User{ID: "user-1", Name: "Alice", Role: domain.RoleMember}

	token, err := IssueToken("secret", -time.Minute, user)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenFromRequestPrefersHeader(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer header-token")
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "cookie-token"})

	require.Equal(t, "header-token", TokenFromRequest(r))
}

func TestTokenFromRequestFallsBackToCookie(t *testing.T) {
	w := httptest.NewRecorder()
	SetSessionCookie(w, "cookie-token", time.Hour, false)

	r := httptest.NewRequest("GET", "/", nil)
	for _, cookie := range w.Result().Cookies() {
		r.AddCookie(cookie)
	}

	require.Equal(t, "cookie-token", TokenFromRequest(r))
}
