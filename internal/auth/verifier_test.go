package auth

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openleadr/openleadr-go/internal/config"
	"github.com/openleadr/openleadr-go/internal/pkg/errors"
)

var testSecret = make([]byte, 32)

func testOAuthConfig() config.OAuthConfig {
	return config.OAuthConfig{
		Type:         config.OAuthInternal,
		KeyType:      config.KeyHMAC,
		Base64Secret: base64.StdEncoding.EncodeToString(testSecret),
		TokenTTL:     time.Hour,
	}
}

func signTestToken(t *testing.T, claims *Claims, secret []byte) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func baseClaims(ttl time.Duration) *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "client-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		Roles:       []string{RoleBusinessLogic},
		Scopes:      []string{"write_programs"},
		BusinessIDs: []string{"business-1"},
	}
}

func TestVerifier_Verify_HMAC(t *testing.T) {
	verifier, err := NewVerifier(testOAuthConfig())
	require.NoError(t, err)

	token := signTestToken(t, baseClaims(time.Hour), testSecret)

	claims, err := verifier.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "client-1", claims.Subject)
	assert.Equal(t, []string{"business-1"}, claims.BusinessIDs)
	assert.Equal(t, []string{"write_programs"}, claims.Scopes)
}

func TestVerifier_Verify_Failures(t *testing.T) {
	verifier, err := NewVerifier(testOAuthConfig())
	require.NoError(t, err)

	otherSecret := make([]byte, 32)
	otherSecret[0] = 1

	noExp := baseClaims(time.Hour)
	noExp.ExpiresAt = nil

	withAud := baseClaims(time.Hour)
	withAud.Audience = jwt.ClaimStrings{"someone-else"}

	tests := []struct {
		name   string
		token  string
		reason string
	}{
		{"malformed", "not-a-token", "malformed"},
		{"expired", signTestToken(t, baseClaims(-time.Hour), testSecret), "expired"},
		{"missing exp", signTestToken(t, noExp, testSecret), "malformed"},
		{"bad signature", signTestToken(t, baseClaims(time.Hour), otherSecret), "bad_signature"},
		{"internal token with audience", signTestToken(t, withAud, testSecret), "bad_audience"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.Verify(context.Background(), tt.token)
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, errors.KindUnauthenticated))
			appErr, ok := errors.AsAppError(err)
			require.True(t, ok)
			assert.Contains(t, appErr.Detail, tt.reason)
		})
	}
}

func TestVerifier_Verify_AudienceAllowList(t *testing.T) {
	cfg := testOAuthConfig()
	cfg.Type = config.OAuthExternal
	cfg.ValidAudiences = "vtn,backup-vtn"
	verifier, err := NewVerifier(cfg)
	require.NoError(t, err)

	matching := baseClaims(time.Hour)
	matching.Audience = jwt.ClaimStrings{"other", "vtn"}
	_, err = verifier.Verify(context.Background(), signTestToken(t, matching, testSecret))
	assert.NoError(t, err)

	mismatched := baseClaims(time.Hour)
	mismatched.Audience = jwt.ClaimStrings{"other"}
	_, err = verifier.Verify(context.Background(), signTestToken(t, mismatched, testSecret))
	assert.True(t, errors.IsKind(err, errors.KindUnauthenticated))

	missing := baseClaims(time.Hour)
	_, err = verifier.Verify(context.Background(), signTestToken(t, missing, testSecret))
	assert.True(t, errors.IsKind(err, errors.KindUnauthenticated))
}

func TestResolver_Resolve(t *testing.T) {
	resolver := NewResolver([]string{"read_all", "write_programs"})

	tests := []struct {
		name       string
		claims     *Claims
		wantKind   Kind
		wantScopes []string
	}{
		{
			"business logic",
			&Claims{Roles: []string{RoleBusinessLogic}, Scopes: []string{"write_programs"}, BusinessIDs: []string{"b1"}},
			KindBusinessLogic,
			[]string{"write_programs"},
		},
		{
			"membership implies business",
			&Claims{BusinessIDs: []string{"b1"}},
			KindBusinessLogic,
			[]string{},
		},
		{
			"ven",
			&Claims{Roles: []string{RoleVEN}, VenIDs: []string{"ven-1"}},
			KindVEN,
			[]string{},
		},
		{
			"any business with implicit scopes",
			&Claims{Roles: []string{RoleAnyBusiness}},
			KindAnyBusiness,
			[]string{"read_all", "write_programs"},
		},
		{
			"any business keeps explicit scopes",
			&Claims{Roles: []string{RoleAnyBusiness}, Scopes: []string{"read_all"}},
			KindAnyBusiness,
			[]string{"read_all"},
		},
		{
			"user manager",
			&Claims{Roles: []string{RoleUserManager}},
			KindUserManager,
			[]string{},
		},
		{
			"ven manager",
			&Claims{Roles: []string{RoleVENManager}},
			KindVENManager,
			[]string{},
		},
		{
			"no roles",
			&Claims{},
			KindUnknown,
			[]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := resolver.Resolve(tt.claims)
			assert.Equal(t, tt.wantKind, caller.Kind)
			assert.ElementsMatch(t, tt.wantScopes, caller.Scopes.Names())
		})
	}
}

func TestCaller_SpeaksForBusiness(t *testing.T) {
	bl := Caller{Kind: KindBusinessLogic, BusinessIDs: []string{"b1"}}
	assert.True(t, bl.SpeaksForBusiness("b1"))
	assert.False(t, bl.SpeaksForBusiness("b2"))

	any := Caller{Kind: KindAnyBusiness}
	assert.True(t, any.SpeaksForBusiness("b2"))
}
