package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openleadr/openleadr-go/internal/domain"
	"github.com/openleadr/openleadr-go/internal/pkg/errors"
	"github.com/openleadr/openleadr-go/internal/pkg/worker"
)

type fakeCredentialStore struct {
	creds map[string]*domain.Credential
	users map[string]*domain.User
}

func (s *fakeCredentialStore) CredentialByClientID(_ context.Context, clientID string) (*domain.Credential, *domain.User, error) {
	cred, ok := s.creds[clientID]
	if !ok {
		return nil, nil, errors.NotFound()
	}
	return cred, s.users[cred.UserID], nil
}

func newTestIssuer(t *testing.T) (*Issuer, *Verifier) {
	t.Helper()

	hash, err := HashSecret("correct-horse-battery")
	require.NoError(t, err)

	store := &fakeCredentialStore{
		creds: map[string]*domain.Credential{
			"client-1": {ClientID: "client-1", UserID: "user-1", SecretHash: hash},
		},
		users: map[string]*domain.User{
			"user-1": {
				ID: "user-1",
				UserContent: domain.UserContent{
					Reference:   "bl-user",
					BusinessIDs: []string{"business-1"},
				},
			},
		},
	}

	pools, err := worker.NewPools(context.Background(), worker.DefaultPoolConfig())
	require.NoError(t, err)
	t.Cleanup(pools.Shutdown)

	issuer, err := NewIssuer(testOAuthConfig(), []string{"read_all"}, store, pools)
	require.NoError(t, err)
	verifier, err := NewVerifier(testOAuthConfig())
	require.NoError(t, err)
	return issuer, verifier
}

func TestIssuer_Grant_RoundTrip(t *testing.T) {
	issuer, verifier := newTestIssuer(t)

	resp, oerr := issuer.Grant(context.Background(), TokenRequest{
		GrantType:    "client_credentials",
		ClientID:     "client-1",
		ClientSecret: "correct-horse-battery",
	})
	require.Nil(t, oerr)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Positive(t, resp.ExpiresIn)

	claims, err := verifier.Verify(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "client-1", claims.Subject)
	assert.Equal(t, []string{"business-1"}, claims.BusinessIDs)

	caller := NewResolver(nil).Resolve(claims)
	assert.Equal(t, KindBusinessLogic, caller.Kind)
	assert.True(t, caller.HasScope(ScopeWritePrograms))
	assert.False(t, caller.HasScope(ScopeWriteUsers))
}

func TestIssuer_Grant_ScopeIntersection(t *testing.T) {
	issuer, _ := newTestIssuer(t)

	resp, oerr := issuer.Grant(context.Background(), TokenRequest{
		GrantType:    "client_credentials",
		ClientID:     "client-1",
		ClientSecret: "correct-horse-battery",
		Scope:        "write_programs",
	})
	require.Nil(t, oerr)
	assert.Equal(t, "write_programs", resp.Scope)
}

func TestIssuer_Grant_Failures(t *testing.T) {
	issuer, _ := newTestIssuer(t)

	tests := []struct {
		name     string
		req      TokenRequest
		wantCode string
	}{
		{
			"wrong grant type",
			TokenRequest{GrantType: "password", ClientID: "client-1", ClientSecret: "x"},
			OAuthUnsupportedGrantType,
		},
		{
			"missing credentials",
			TokenRequest{GrantType: "client_credentials"},
			OAuthInvalidRequest,
		},
		{
			"unknown client",
			TokenRequest{GrantType: "client_credentials", ClientID: "nobody", ClientSecret: "x"},
			OAuthInvalidClient,
		},
		{
			"wrong secret",
			TokenRequest{GrantType: "client_credentials", ClientID: "client-1", ClientSecret: "wrong"},
			OAuthInvalidClient,
		},
		{
			"unknown scope",
			TokenRequest{GrantType: "client_credentials", ClientID: "client-1", ClientSecret: "correct-horse-battery", Scope: "fly_to_moon"},
			OAuthInvalidScope,
		},
		{
			"unpermitted scope",
			TokenRequest{GrantType: "client_credentials", ClientID: "client-1", ClientSecret: "correct-horse-battery", Scope: "write_users"},
			OAuthInvalidScope,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, oerr := issuer.Grant(context.Background(), tt.req)
			assert.Nil(t, resp)
			require.NotNil(t, oerr)
			assert.Equal(t, tt.wantCode, oerr.Code)
		})
	}
}

func TestIssuer_Grant_WrongSecretTakesHashTime(t *testing.T) {
	issuer, _ := newTestIssuer(t)

	start := time.Now()
	_, oerr := issuer.Grant(context.Background(), TokenRequest{
		GrantType:    "client_credentials",
		ClientID:     "nobody",
		ClientSecret: "wrong",
	})
	elapsed := time.Since(start)

	require.NotNil(t, oerr)
	assert.Equal(t, OAuthInvalidClient, oerr.Code)
	// Unknown clients still burn a hash verification.
	assert.Greater(t, elapsed, 5*time.Millisecond)
}

func TestHashSecret_VerifyRoundTrip(t *testing.T) {
	hash, err := HashSecret("s3cret")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	ok, err := VerifySecret(hash, "s3cret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifySecret(hash, "other")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifySecret("$bcrypt$whatever", "s3cret")
	assert.Error(t, err)
}

func TestOAuthError_HTTPStatus(t *testing.T) {
	assert.Equal(t, 401, (&OAuthError{Code: OAuthInvalidClient}).HTTPStatus())
	assert.Equal(t, 400, (&OAuthError{Code: OAuthInvalidScope}).HTTPStatus())
	assert.Equal(t, 500, (&OAuthError{Code: OAuthServerError}).HTTPStatus())
}
