package auth

// Kind classifies a caller by its dominant role.
type Kind string

const (
	KindBusinessLogic Kind = "BusinessLogic"
	KindVEN           Kind = "VEN"
	KindUserManager   Kind = "UserManager"
	KindVENManager    Kind = "VENManager"
	KindAnyBusiness   Kind = "AnyBusiness"
	KindUnknown       Kind = "Unknown"
)

// Caller is the resolved identity plus capability vector that the policy
// module decides over. BusinessIDs is ignored when the caller is
// AnyBusiness, which speaks for every business.
type Caller struct {
	Sub         string
	Kind        Kind
	BusinessIDs []string
	VenIDs      []string
	Scopes      ScopeSet
}

// HasScope reports whether the caller holds the scope.
func (c Caller) HasScope(scope Scope) bool {
	return c.Scopes.Has(scope)
}

// IsAnyBusiness reports whether the caller speaks for all businesses.
func (c Caller) IsAnyBusiness() bool {
	return c.Kind == KindAnyBusiness
}

// IsBusiness reports whether the caller acts for at least one business.
func (c Caller) IsBusiness() bool {
	return c.Kind == KindAnyBusiness || c.Kind == KindBusinessLogic
}

// IsVen reports whether the caller represents at least one VEN.
func (c Caller) IsVen() bool {
	return c.Kind == KindVEN || len(c.VenIDs) > 0
}

// SpeaksForBusiness reports whether the caller may act for the business.
func (c Caller) SpeaksForBusiness(businessID string) bool {
	if c.IsAnyBusiness() {
		return true
	}
	for _, id := range c.BusinessIDs {
		if id == businessID {
			return true
		}
	}
	return false
}

// RepresentsVen reports whether the caller represents the VEN.
func (c Caller) RepresentsVen(venID string) bool {
	for _, id := range c.VenIDs {
		if id == venID {
			return true
		}
	}
	return false
}
