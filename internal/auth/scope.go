// Package auth implements bearer-token verification, the identity and
// scope resolver, and the optional client-credentials token issuer.
package auth

import "sort"

// Scope is a named capability carried in a token.
type Scope string

const (
	ScopeReadAll            Scope = "read_all"
	ScopeReadTargets        Scope = "read_targets"
	ScopeReadVenObjects     Scope = "read_ven_objects"
	ScopeWritePrograms      Scope = "write_programs"
	ScopeWriteEvents        Scope = "write_events"
	ScopeWriteReports       Scope = "write_reports"
	ScopeWriteSubscriptions Scope = "write_subscriptions"
	ScopeWriteVens          Scope = "write_vens"
	ScopeWriteUsers         Scope = "write_users"
)

var knownScopes = map[Scope]struct{}{
	ScopeReadAll:            {},
	ScopeReadTargets:        {},
	ScopeReadVenObjects:     {},
	ScopeWritePrograms:      {},
	ScopeWriteEvents:        {},
	ScopeWriteReports:       {},
	ScopeWriteSubscriptions: {},
	ScopeWriteVens:          {},
	ScopeWriteUsers:         {},
}

// ParseScope maps a scope name to a Scope, reporting whether it is known.
func ParseScope(s string) (Scope, bool) {
	scope := Scope(s)
	_, ok := knownScopes[scope]
	return scope, ok
}

// ScopeSet is a set of scopes.
type ScopeSet map[Scope]struct{}

// NewScopeSet builds a set from the given scopes.
func NewScopeSet(scopes ...Scope) ScopeSet {
	set := make(ScopeSet, len(scopes))
	for _, s := range scopes {
		set[s] = struct{}{}
	}
	return set
}

// ParseScopes builds a set from scope names, dropping unknown names.
func ParseScopes(names []string) ScopeSet {
	set := make(ScopeSet, len(names))
	for _, n := range names {
		if s, ok := ParseScope(n); ok {
			set[s] = struct{}{}
		}
	}
	return set
}

// Has reports set membership.
func (s ScopeSet) Has(scope Scope) bool {
	_, ok := s[scope]
	return ok
}

// Intersect returns the scopes present in both sets.
func (s ScopeSet) Intersect(other ScopeSet) ScopeSet {
	out := make(ScopeSet)
	for scope := range s {
		if other.Has(scope) {
			out[scope] = struct{}{}
		}
	}
	return out
}

// Names returns the sorted scope names.
func (s ScopeSet) Names() []string {
	names := make([]string, 0, len(s))
	for scope := range s {
		names = append(names, string(scope))
	}
	sort.Strings(names)
	return names
}
