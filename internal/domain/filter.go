package domain

import (
	"github.com/openleadr/openleadr-go/internal/pkg/errors"
)

const (
	// DefaultLimit and MaxLimit bound listing page sizes.
	DefaultLimit = 50
	MaxLimit     = 50
)

// TargetFilter narrows a listing to objects carrying a target of the given
// type whose values intersect the given values. Query parameters must supply
// both parts or neither.
type TargetFilter struct {
	Type   string
	Values []string
}

// NewTargetFilter validates the targetType/targetValues query pair. A nil
// result means no target constraint.
func NewTargetFilter(targetType string, targetValues []string) (*TargetFilter, error) {
	if targetType == "" && len(targetValues) == 0 {
		return nil, nil
	}
	if targetType == "" {
		return nil, errors.InvalidRequest("targetValues provided without targetType")
	}
	if len(targetValues) == 0 {
		return nil, errors.InvalidRequest("targetType provided without targetValues")
	}
	return &TargetFilter{Type: targetType, Values: targetValues}, nil
}

// Matches reports whether any of the targets satisfies the filter. Values
// are compared as exact strings.
func (f *TargetFilter) Matches(targets []Target) bool {
	if f == nil {
		return true
	}
	for _, t := range targets {
		if t.Type != f.Type {
			continue
		}
		for _, v := range t.StringValues() {
			for _, want := range f.Values {
				if v == want {
					return true
				}
			}
		}
	}
	return false
}

// Pagination is the skip/limit window of a listing.
type Pagination struct {
	Skip  int64
	Limit int64
}

// NewPagination validates skip and limit. Nil pointers take the defaults
// skip=0, limit=50; out-of-range values are rejected rather than clamped.
func NewPagination(skip, limit *int64) (Pagination, error) {
	p := Pagination{Skip: 0, Limit: DefaultLimit}
	if skip != nil {
		if *skip < 0 {
			return Pagination{}, errors.InvalidRequest("skip must not be negative")
		}
		p.Skip = *skip
	}
	if limit != nil {
		if *limit < 1 || *limit > MaxLimit {
			return Pagination{}, errors.InvalidRequest("limit must be between 1 and 50")
		}
		p.Limit = *limit
	}
	return p, nil
}
