package domain

import "time"

// User is an identity principal managed through the user endpoints. Role
// flags and memberships feed the capability claims of tokens minted for the
// user's credentials.
type User struct {
	ID                   string    `json:"id"`
	CreatedDateTime      time.Time `json:"createdDateTime"`
	ModificationDateTime time.Time `json:"modificationDateTime"`

	UserContent

	// ClientIDs lists the credential client ids owned by the user. Secrets
	// are never serialized.
	ClientIDs []string `json:"clientIDs,omitempty"`
}

// UserContent is the client-writable part of a user. At most one of the
// marker roles may be set.
type UserContent struct {
	Reference   string  `json:"reference" validate:"required,min=1,max=128"`
	Description *string `json:"description,omitempty"`

	IsAnyBusinessUser bool `json:"isAnyBusinessUser"`
	IsUserManager     bool `json:"isUserManager"`
	IsVenManager      bool `json:"isVenManager"`

	BusinessIDs []string `json:"businessIds" validate:"dive,identifier"`
	VenIDs      []string `json:"venIds" validate:"dive,identifier"`
}

// MarkerRoleCount returns how many marker roles the user carries; valid
// users have at most one.
func (c UserContent) MarkerRoleCount() int {
	n := 0
	for _, set := range []bool{c.IsAnyBusinessUser, c.IsUserManager, c.IsVenManager} {
		if set {
			n++
		}
	}
	return n
}

// Credential is a client-credentials pair owned by a user. The secret hash
// never leaves the server.
type Credential struct {
	ClientID string `json:"clientID"`
	UserID   string `json:"-"`

	// SecretHash is the PHC-formatted Argon2 hash of the client secret.
	SecretHash string `json:"-"`
}

// CredentialRequest is the body for adding a credential to a user.
type CredentialRequest struct {
	ClientID     string `json:"clientID" validate:"required,min=1,max=128"`
	ClientSecret string `json:"clientSecret" validate:"required,min=8,max=128"`
}
