package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openleadr/openleadr-go/internal/auth"
	"github.com/openleadr/openleadr-go/internal/domain"
)

func seedCredential(t *testing.T, env *testEnv, clientID, secret string, content domain.UserContent) {
	t.Helper()
	manager := auth.Caller{
		Sub:    "seed",
		Kind:   auth.KindUserManager,
		Scopes: auth.NewScopeSet(auth.ScopeWriteUsers),
	}
	user, err := env.svcs.Users.Create(context.Background(), manager, content)
	require.NoError(t, err)
	_, err = env.svcs.Users.AddCredential(context.Background(), manager, user.ID, domain.CredentialRequest{
		ClientID:     clientID,
		ClientSecret: secret,
	})
	require.NoError(t, err)
}

func (e *testEnv) postForm(t *testing.T, path string, form url.Values, basicUser, basicPass string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if basicUser != "" {
		req.SetBasicAuth(basicUser, basicPass)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestTokenEndpoint_GrantAndUse(t *testing.T) {
	env := newEnv(t)
	seedCredential(t, env, "bl-client", "correct-horse-battery", domain.UserContent{
		Reference:   "bl-user",
		BusinessIDs: []string{"business-1"},
	})

	w := env.postForm(t, "/auth/token", url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {"bl-client"},
		"client_secret": {"correct-horse-battery"},
	}, "", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[auth.TokenResponse](t, w)
	require.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Contains(t, resp.Scope, "write_programs")

	// The minted token authorizes per the stored memberships.
	w2 := env.do(t, http.MethodPost, "/programs", resp.AccessToken, domain.ProgramContent{
		ProgramName: "p1",
		BusinessID:  ptr("business-1"),
	})
	assert.Equal(t, http.StatusCreated, w2.Code, w2.Body.String())

	// But not beyond them.
	w2 = env.do(t, http.MethodPost, "/programs", resp.AccessToken, domain.ProgramContent{
		ProgramName: "p2",
		BusinessID:  ptr("business-2"),
	})
	assert.Equal(t, http.StatusForbidden, w2.Code)
}

func TestTokenEndpoint_BasicAuth(t *testing.T) {
	env := newEnv(t)
	seedCredential(t, env, "bl-client", "correct-horse-battery", domain.UserContent{
		Reference:   "bl-user",
		BusinessIDs: []string{"business-1"},
	})

	w := env.postForm(t, "/auth/token", url.Values{
		"grant_type": {"client_credentials"},
	}, "bl-client", "correct-horse-battery")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Credentials in both the header and the body are ambiguous.
	w = env.postForm(t, "/auth/token", url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {"bl-client"},
		"client_secret": {"correct-horse-battery"},
	}, "bl-client", "correct-horse-battery")
	require.Equal(t, http.StatusBadRequest, w.Code)
	oerr := decode[auth.OAuthError](t, w)
	assert.Equal(t, auth.OAuthInvalidRequest, oerr.Code)
}

func TestTokenEndpoint_Rejections(t *testing.T) {
	env := newEnv(t)
	seedCredential(t, env, "bl-client", "correct-horse-battery", domain.UserContent{
		Reference:   "bl-user",
		BusinessIDs: []string{"business-1"},
	})

	w := env.postForm(t, "/auth/token", url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {"bl-client"},
		"client_secret": {"wrong-secret-value"},
	}, "", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Basic")

	w = env.postForm(t, "/auth/token", url.Values{
		"grant_type":    {"password"},
		"client_id":     {"bl-client"},
		"client_secret": {"correct-horse-battery"},
	}, "", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	oerr := decode[auth.OAuthError](t, w)
	assert.Equal(t, auth.OAuthUnsupportedGrantType, oerr.Code)

	// A scope outside the user's ceiling is refused.
	w = env.postForm(t, "/auth/token", url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {"bl-client"},
		"client_secret": {"correct-horse-battery"},
		"scope":         {"write_users"},
	}, "", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	oerr = decode[auth.OAuthError](t, w)
	assert.Equal(t, auth.OAuthInvalidScope, oerr.Code)
}
