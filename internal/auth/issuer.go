package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/openleadr/openleadr-go/internal/config"
	"github.com/openleadr/openleadr-go/internal/domain"
	"github.com/openleadr/openleadr-go/internal/pkg/errors"
	"github.com/openleadr/openleadr-go/internal/pkg/logger"
	"github.com/openleadr/openleadr-go/internal/pkg/worker"
)

// OAuth error codes per RFC 6749 §5.2.
const (
	OAuthInvalidRequest       = "invalid_request"
	OAuthInvalidClient        = "invalid_client"
	OAuthInvalidScope         = "invalid_scope"
	OAuthUnsupportedGrantType = "unsupported_grant_type"
	OAuthServerError          = "server_error"
)

// OAuthError is the token endpoint's error envelope.
type OAuthError struct {
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func (e *OAuthError) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return e.Code + ": " + e.Description
}

// HTTPStatus follows RFC 6749: invalid_client is 401, other client errors
// are 400.
func (e *OAuthError) HTTPStatus() int {
	switch e.Code {
	case OAuthInvalidClient:
		return 401
	case OAuthServerError:
		return 500
	default:
		return 400
	}
}

// TokenRequest is the parsed client-credentials grant request.
type TokenRequest struct {
	GrantType    string
	ClientID     string
	ClientSecret string
	Scope        string
}

// TokenResponse is the successful grant response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope,omitempty"`
}

// CredentialStore looks up a credential and its owning user by client id.
type CredentialStore interface {
	CredentialByClientID(ctx context.Context, clientID string) (*domain.Credential, *domain.User, error)
}

// dummyHash keeps the secret comparison running for unknown client ids so
// response timing does not reveal whether a client id exists.
var dummyHash, _ = HashSecret("dummy-credential-timing-shield")

// Issuer implements the OAuth2 client-credentials grant. Its tokens
// round-trip through a Verifier configured with the same HMAC secret.
type Issuer struct {
	secret            []byte
	ttl               time.Duration
	anyBusinessScopes ScopeSet
	store             CredentialStore
	pools             *worker.Pools
}

// NewIssuer builds the internal token issuer.
func NewIssuer(cfg config.OAuthConfig, anyBusinessScopes []string, store CredentialStore, pools *worker.Pools) (*Issuer, error) {
	secret, err := cfg.Secret()
	if err != nil {
		return nil, err
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Issuer{
		secret:            secret,
		ttl:               ttl,
		anyBusinessScopes: ParseScopes(anyBusinessScopes),
		store:             store,
		pools:             pools,
	}, nil
}

// Grant runs the client-credentials flow: credential lookup, Argon2
// verification on the hash pool, scope intersection, token mint.
func (i *Issuer) Grant(ctx context.Context, req TokenRequest) (*TokenResponse, *OAuthError) {
	if req.GrantType != "client_credentials" {
		return nil, &OAuthError{Code: OAuthUnsupportedGrantType, Description: "only client_credentials is supported"}
	}
	if req.ClientID == "" || req.ClientSecret == "" {
		return nil, &OAuthError{Code: OAuthInvalidRequest, Description: "client_id and client_secret are required"}
	}

	cred, user, err := i.store.CredentialByClientID(ctx, req.ClientID)
	if err != nil && !errors.IsKind(err, errors.KindNotFound) {
		logger.Error("Credential lookup failed", zap.Error(err))
		return nil, &OAuthError{Code: OAuthServerError}
	}

	hash := dummyHash
	if cred != nil {
		hash = cred.SecretHash
	}
	ok, verifyErr := i.verifyOnPool(ctx, hash, req.ClientSecret)
	if verifyErr != nil {
		if ctx.Err() != nil {
			return nil, &OAuthError{Code: OAuthServerError, Description: "verification timed out"}
		}
		logger.Error("Secret verification failed", zap.Error(verifyErr))
		return nil, &OAuthError{Code: OAuthServerError}
	}
	if cred == nil || user == nil || !ok {
		return nil, &OAuthError{Code: OAuthInvalidClient, Description: "invalid client credentials"}
	}

	granted, oerr := i.grantedScopes(user, req.Scope)
	if oerr != nil {
		return nil, oerr
	}

	token, mintErr := i.mint(req.ClientID, user, granted)
	if mintErr != nil {
		logger.Error("Token mint failed", zap.Error(mintErr))
		return nil, &OAuthError{Code: OAuthServerError}
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(i.ttl.Seconds()),
		Scope:       joinScopes(granted),
	}, nil
}

func (i *Issuer) verifyOnPool(ctx context.Context, hash, secret string) (bool, error) {
	var ok bool
	var err error
	runErr := i.pools.Hash.Run(ctx, func(context.Context) {
		ok, err = VerifySecret(hash, secret)
	})
	if runErr != nil {
		return false, runErr
	}
	return ok, err
}

// grantedScopes intersects the requested scopes with the user-permitted
// set. No request means the full permitted set; an unknown or unpermitted
// scope name is invalid_scope.
func (i *Issuer) grantedScopes(user *domain.User, requested string) (ScopeSet, *OAuthError) {
	permitted := i.permittedScopes(user)
	if requested == "" {
		return permitted, nil
	}
	granted := make(ScopeSet)
	for _, name := range splitScopes(requested) {
		scope, known := ParseScope(name)
		if !known || !permitted.Has(scope) {
			return nil, &OAuthError{Code: OAuthInvalidScope, Description: "scope " + name + " not granted"}
		}
		granted[scope] = struct{}{}
	}
	return granted, nil
}

// permittedScopes derives the scope ceiling from the user's role flags and
// memberships.
func (i *Issuer) permittedScopes(user *domain.User) ScopeSet {
	permitted := make(ScopeSet)
	if user.IsAnyBusinessUser {
		for s := range i.anyBusinessScopes {
			permitted[s] = struct{}{}
		}
	}
	if len(user.BusinessIDs) > 0 {
		for _, s := range []Scope{ScopeReadTargets, ScopeWritePrograms, ScopeWriteEvents, ScopeWriteReports} {
			permitted[s] = struct{}{}
		}
	}
	if len(user.VenIDs) > 0 {
		for _, s := range []Scope{ScopeReadTargets, ScopeReadVenObjects, ScopeWriteReports, ScopeWriteVens} {
			permitted[s] = struct{}{}
		}
	}
	if user.IsUserManager {
		permitted[ScopeWriteUsers] = struct{}{}
	}
	if user.IsVenManager {
		permitted[ScopeReadVenObjects] = struct{}{}
		permitted[ScopeWriteVens] = struct{}{}
	}
	return permitted
}

func (i *Issuer) mint(clientID string, user *domain.User, scopes ScopeSet) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   clientID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Roles:       userRoles(user),
		Scopes:      scopes.Names(),
		BusinessIDs: user.BusinessIDs,
		VenIDs:      user.VenIDs,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

func userRoles(user *domain.User) []string {
	var roles []string
	if user.IsAnyBusinessUser {
		roles = append(roles, RoleAnyBusiness)
	}
	if len(user.BusinessIDs) > 0 {
		roles = append(roles, RoleBusinessLogic)
	}
	if len(user.VenIDs) > 0 {
		roles = append(roles, RoleVEN)
	}
	if user.IsUserManager {
		roles = append(roles, RoleUserManager)
	}
	if user.IsVenManager {
		roles = append(roles, RoleVENManager)
	}
	return roles
}

func splitScopes(s string) []string {
	return strings.Fields(s)
}

func joinScopes(set ScopeSet) string {
	return strings.Join(set.Names(), " ")
}
