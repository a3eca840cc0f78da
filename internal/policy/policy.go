// Package policy is the pure authorization decision module. For every
// (operation, object, caller) it either denies with Forbidden or allows and
// yields a Visibility to AND into the storage query. No I/O happens here;
// services feed it everything it needs.
package policy

import (
	"github.com/openleadr/openleadr-go/internal/auth"
	"github.com/openleadr/openleadr-go/internal/pkg/errors"
)

// Visibility is the declarative predicate a repository pushes into its
// query. Fields are interpreted per entity; the zero value matches nothing.
type Visibility struct {
	// All disables filtering, used for read_all and privileged kinds.
	All bool

	// BusinessIDs limits programs (and objects under them) to these owners.
	BusinessIDs []string

	// IncludeNullBusiness additionally admits objects without an owner.
	IncludeNullBusiness bool

	// BoundVenIDs admits programs bound to one of these VENs, and objects
	// under such programs.
	BoundVenIDs []string

	// VenIDs admits VEN rows with these ids; for reports it admits rows
	// whose client_name belongs to one of these VENs.
	VenIDs []string
}

// Nothing reports whether the predicate can never match.
func (v Visibility) Nothing() bool {
	return !v.All && !v.IncludeNullBusiness &&
		len(v.BusinessIDs) == 0 && len(v.BoundVenIDs) == 0 && len(v.VenIDs) == 0
}

// ProgramRead yields the program visibility predicate. Business callers see
// programs their businesses own; VEN callers see programs bound to one of
// their VENs; unowned programs are visible to every authenticated caller.
// When a caller holds both memberships the predicate is the disjunction.
func ProgramRead(c auth.Caller) Visibility {
	if c.HasScope(auth.ScopeReadAll) || c.IsAnyBusiness() {
		return Visibility{All: true}
	}
	v := Visibility{IncludeNullBusiness: true}
	if len(c.BusinessIDs) > 0 {
		v.BusinessIDs = c.BusinessIDs
	}
	if len(c.VenIDs) > 0 {
		v.BoundVenIDs = c.VenIDs
	}
	return v
}

// ProgramWrite checks write authority over a program with the given owner.
// Requires write_programs; an unowned program is writable only by
// AnyBusiness or UserManager callers. Callers run this before and after a
// mutation so an update cannot move the object out of their authority.
func ProgramWrite(c auth.Caller, businessID *string) error {
	if !c.HasScope(auth.ScopeWritePrograms) {
		return errors.Forbidden()
	}
	return programAuthority(c, businessID)
}

// programAuthority checks ownership authority without a scope requirement.
func programAuthority(c auth.Caller, businessID *string) error {
	if businessID == nil {
		if c.IsAnyBusiness() || c.Kind == auth.KindUserManager {
			return nil
		}
		return errors.Forbidden()
	}
	if !c.SpeaksForBusiness(*businessID) {
		return errors.Forbidden()
	}
	return nil
}

// EventRead yields the event visibility predicate; events inherit the
// visibility of their parent program.
func EventRead(c auth.Caller) Visibility {
	return ProgramRead(c)
}

// EventWrite checks event write authority: the write_events scope plus
// write authority over the parent program's owner.
func EventWrite(c auth.Caller, programBusinessID *string) error {
	if !c.HasScope(auth.ScopeWriteEvents) {
		return errors.Forbidden()
	}
	return programAuthority(c, programBusinessID)
}

// ReportRead yields the report visibility predicate. Business callers see
// reports under their programs; VEN callers see reports authored under one
// of their VEN names.
func ReportRead(c auth.Caller) Visibility {
	if c.HasScope(auth.ScopeReadAll) || c.IsAnyBusiness() {
		return Visibility{All: true}
	}
	v := Visibility{}
	if len(c.BusinessIDs) > 0 {
		v.BusinessIDs = c.BusinessIDs
	}
	if len(c.VenIDs) > 0 {
		v.VenIDs = c.VenIDs
	}
	return v
}

// ReportWrite checks report write authority. VEN callers may author reports
// under one of their own VEN names; business callers must own the report's
// program. The authorities form a disjunction, mirroring ReportRead: a
// caller holding both memberships qualifies through either.
func ReportWrite(c auth.Caller, clientName string, callerVenNames []string, programBusinessID *string) error {
	if !c.HasScope(auth.ScopeWriteReports) {
		return errors.Forbidden()
	}
	if c.IsAnyBusiness() {
		return nil
	}
	if c.IsVen() {
		for _, name := range callerVenNames {
			if name == clientName {
				return nil
			}
		}
	}
	if c.IsBusiness() && programBusinessID != nil && c.SpeaksForBusiness(*programBusinessID) {
		return nil
	}
	return errors.Forbidden()
}

// VenRead yields the VEN visibility predicate. Business callers and VEN
// managers see every VEN; a VEN caller sees only itself; other kinds are
// denied outright.
func VenRead(c auth.Caller) (Visibility, error) {
	if c.HasScope(auth.ScopeReadAll) {
		return Visibility{All: true}, nil
	}
	switch {
	case c.IsBusiness(), c.Kind == auth.KindVENManager:
		return Visibility{All: true}, nil
	case c.IsVen():
		return Visibility{VenIDs: c.VenIDs}, nil
	default:
		return Visibility{}, errors.Forbidden()
	}
}

// VenWrite checks VEN write authority.
func VenWrite(c auth.Caller) error {
	if !c.HasScope(auth.ScopeWriteVens) {
		return errors.Forbidden()
	}
	return nil
}

// ResourceRead checks access to resources under the given VEN: allowed iff
// the caller could get that VEN.
func ResourceRead(c auth.Caller, venID string) error {
	v, err := VenRead(c)
	if err != nil {
		return err
	}
	if v.All || c.RepresentsVen(venID) {
		return nil
	}
	// The VEN exists outside the caller's visible set.
	return errors.NotFound()
}

// ResourceWrite checks resource write authority: write_vens plus read
// access to the parent VEN.
func ResourceWrite(c auth.Caller, venID string) error {
	if !c.HasScope(auth.ScopeWriteVens) {
		return errors.Forbidden()
	}
	return ResourceRead(c, venID)
}

// UserAccess checks user and credential endpoint access; reads require
// write_users as well.
func UserAccess(c auth.Caller) error {
	if !c.HasScope(auth.ScopeWriteUsers) {
		return errors.Forbidden()
	}
	return nil
}
