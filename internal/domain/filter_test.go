package domain

import (
	"testing"

	"github.com/openleadr/openleadr-go/internal/pkg/errors"
)

func TestNewTargetFilter(t *testing.T) {
	tests := []struct {
		name       string
		targetType string
		values     []string
		wantNil    bool
		wantErr    bool
	}{
		{"both absent", "", nil, true, false},
		{"both present", "GROUP", []string{"g1"}, false, false},
		{"type without values", "GROUP", nil, false, true},
		{"values without type", "", []string{"g1"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewTargetFilter(tt.targetType, tt.values)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewTargetFilter() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.IsKind(err, errors.KindInvalidRequest) {
					t.Errorf("error kind = %v, want InvalidRequest", err)
				}
				return
			}
			if (f == nil) != tt.wantNil {
				t.Errorf("filter = %v, wantNil %v", f, tt.wantNil)
			}
		})
	}
}

func TestTargetFilter_Matches(t *testing.T) {
	targets := []Target{
		{Type: "GROUP", Values: []any{"g1", "g2"}},
		{Type: "VEN_NAME", Values: []any{"ven-1"}},
	}

	tests := []struct {
		name   string
		filter *TargetFilter
		want   bool
	}{
		{"nil filter matches all", nil, true},
		{"type and value match", &TargetFilter{Type: "GROUP", Values: []string{"g1"}}, true},
		{"second value matches", &TargetFilter{Type: "GROUP", Values: []string{"g0", "g2"}}, true},
		{"type mismatch", &TargetFilter{Type: "SERVICE_AREA", Values: []string{"g1"}}, false},
		{"value mismatch", &TargetFilter{Type: "GROUP", Values: []string{"g3"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(targets); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewPagination(t *testing.T) {
	i := func(v int64) *int64 { return &v }

	tests := []struct {
		name    string
		skip    *int64
		limit   *int64
		want    Pagination
		wantErr bool
	}{
		{"defaults", nil, nil, Pagination{Skip: 0, Limit: 50}, false},
		{"explicit", i(10), i(20), Pagination{Skip: 10, Limit: 20}, false},
		{"limit upper bound", i(0), i(50), Pagination{Skip: 0, Limit: 50}, false},
		{"negative skip", i(-1), nil, Pagination{}, true},
		{"zero limit", nil, i(0), Pagination{}, true},
		{"limit too large", nil, i(51), Pagination{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewPagination(tt.skip, tt.limit)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewPagination() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("NewPagination() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
