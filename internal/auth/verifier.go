package auth

import (
	"context"
	stderrors "errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/openleadr/openleadr-go/internal/config"
	"github.com/openleadr/openleadr-go/internal/pkg/errors"
)

var methodsByKeyType = map[config.KeyType][]string{
	config.KeyHMAC: {"HS256", "HS384", "HS512"},
	config.KeyRSA:  {"RS256", "RS384", "RS512", "PS256", "PS384", "PS512"},
	config.KeyEC:   {"ES256", "ES384", "ES512"},
	config.KeyED:   {"EdDSA"},
}

// Verifier validates bearer tokens against the shared secret or the
// published key set and enforces the audience rule.
type Verifier struct {
	keyType   config.KeyType
	secret    []byte
	jwks      *JWKSCache
	audiences []string
	internal  bool

	parser *jwt.Parser
}

// NewVerifier builds a verifier for the configured OAuth provider.
func NewVerifier(cfg config.OAuthConfig) (*Verifier, error) {
	v := &Verifier{
		keyType:   cfg.KeyType,
		audiences: cfg.Audiences(),
		internal:  cfg.Type == config.OAuthInternal,
		parser: jwt.NewParser(
			jwt.WithValidMethods(methodsByKeyType[cfg.KeyType]),
			jwt.WithExpirationRequired(),
		),
	}
	if cfg.KeyType == config.KeyHMAC {
		secret, err := cfg.Secret()
		if err != nil {
			return nil, err
		}
		v.secret = secret
	} else {
		v.jwks = NewJWKSCache(cfg.JWKSLocation, cfg.KeyType)
	}
	return v, nil
}

// Verify validates the bearer string and returns its claims. All failures
// are Unauthenticated with a reason tag in the detail.
func (v *Verifier) Verify(ctx context.Context, token string) (*Claims, error) {
	keys, err := v.verificationKeys(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindUnauthenticated, "no verification keys")
	}

	claims, parseErr := v.parseWithAny(token, keys)
	if parseErr != nil && v.jwks != nil && isSignatureError(parseErr) {
		// The provider may have rotated keys; refresh once and retry.
		if keys, err = v.jwks.Refresh(ctx); err == nil {
			claims, parseErr = v.parseWithAny(token, keys)
		}
	}
	if parseErr != nil {
		return nil, unauthenticatedReason(parseErr)
	}

	if err := v.checkAudience(claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (v *Verifier) verificationKeys(ctx context.Context) ([]any, error) {
	if v.keyType == config.KeyHMAC {
		return []any{v.secret}, nil
	}
	return v.jwks.Keys(ctx)
}

func (v *Verifier) parseWithAny(token string, keys []any) (*Claims, error) {
	var lastErr error
	for _, key := range keys {
		claims := &Claims{}
		_, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
			return key, nil
		})
		if err == nil {
			return claims, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// checkAudience enforces the audience rule: configured audiences must
// intersect the token aud; with no configured audiences the internal
// issuer's tokens must not carry one.
func (v *Verifier) checkAudience(claims *Claims) error {
	if len(v.audiences) == 0 {
		if v.internal && len(claims.Audience) > 0 {
			return errors.Unauthenticated("bad_audience")
		}
		return nil
	}
	for _, aud := range claims.Audience {
		for _, want := range v.audiences {
			if aud == want {
				return nil
			}
		}
	}
	return errors.Unauthenticated("bad_audience")
}

func isSignatureError(err error) bool {
	return stderrors.Is(err, jwt.ErrTokenSignatureInvalid)
}

func unauthenticatedReason(err error) error {
	switch {
	case stderrors.Is(err, jwt.ErrTokenMalformed),
		stderrors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		// A token without its required claims is structurally broken, not
		// stale.
		return errors.Unauthenticated("malformed")
	case stderrors.Is(err, jwt.ErrTokenExpired),
		stderrors.Is(err, jwt.ErrTokenNotValidYet):
		return errors.Unauthenticated("expired")
	case stderrors.Is(err, jwt.ErrTokenSignatureInvalid):
		return errors.Unauthenticated("bad_signature")
	default:
		return errors.Wrap(err, errors.KindUnauthenticated, "invalid token")
	}
}
