package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// Role names carried in token claims.
const (
	RoleBusinessLogic = "business_logic"
	RoleAnyBusiness   = "any_business"
	RoleVEN           = "ven"
	RoleUserManager   = "user_manager"
	RoleVENManager    = "ven_manager"
)

// Claims is the token payload shared by the internal issuer and the
// verifier. External providers must embed all capability fields; no user
// lookup happens during resolution.
type Claims struct {
	jwt.RegisteredClaims

	Roles       []string `json:"roles,omitempty"`
	Scopes      []string `json:"scopes,omitempty"`
	BusinessIDs []string `json:"business_ids,omitempty"`
	VenIDs      []string `json:"ven_ids,omitempty"`
}

func (c *Claims) hasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Resolver maps verified claims to a Caller. It is pure given the token;
// AnyBusinessScopes fills in the implicit grant for any_business tokens
// minted without explicit scopes.
type Resolver struct {
	AnyBusinessScopes ScopeSet
}

// NewResolver builds a resolver granting the named scopes implicitly to
// any_business tokens that carry none.
func NewResolver(anyBusinessScopes []string) *Resolver {
	return &Resolver{AnyBusinessScopes: ParseScopes(anyBusinessScopes)}
}

// Resolve derives the caller kind from roles, with any_business taking
// precedence over concrete memberships.
func (r *Resolver) Resolve(claims *Claims) Caller {
	kind := KindUnknown
	switch {
	case claims.hasRole(RoleAnyBusiness):
		kind = KindAnyBusiness
	case claims.hasRole(RoleBusinessLogic) || len(claims.BusinessIDs) > 0:
		kind = KindBusinessLogic
	case claims.hasRole(RoleVEN) || len(claims.VenIDs) > 0:
		kind = KindVEN
	case claims.hasRole(RoleUserManager):
		kind = KindUserManager
	case claims.hasRole(RoleVENManager):
		kind = KindVENManager
	}

	scopes := ParseScopes(claims.Scopes)
	if len(scopes) == 0 && kind == KindAnyBusiness {
		scopes = r.AnyBusinessScopes
	}

	return Caller{
		Sub:         claims.Subject,
		Kind:        kind,
		BusinessIDs: claims.BusinessIDs,
		VenIDs:      claims.VenIDs,
		Scopes:      scopes,
	}
}
