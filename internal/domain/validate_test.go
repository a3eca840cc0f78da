package domain

import (
	"strings"
	"testing"

	"github.com/openleadr/openleadr-go/internal/pkg/errors"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"program-1", false},
		{"A_b-9", false},
		{strings.Repeat("x", 128), false},
		{"", true},
		{strings.Repeat("x", 129), true},
		{"has space", true},
		{"slash/id", true},
	}

	for _, tt := range tests {
		if err := ValidateIdentifier(tt.id); (err != nil) != tt.wantErr {
			t.Errorf("ValidateIdentifier(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
		}
	}
}

func TestValidate_ProgramContent(t *testing.T) {
	bad := "no spaces allowed"

	tests := []struct {
		name    string
		content ProgramContent
		wantErr bool
	}{
		{"minimal", ProgramContent{ProgramName: "p1"}, false},
		{"with object type", ProgramContent{ObjectType: "PROGRAM", ProgramName: "p1"}, false},
		{"missing name", ProgramContent{}, true},
		{"wrong object type", ProgramContent{ObjectType: "EVENT", ProgramName: "p1"}, true},
		{"bad business id", ProgramContent{ProgramName: "p1", BusinessID: &bad}, true},
		{"name too long", ProgramContent{ProgramName: strings.Repeat("x", 129)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.content)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.IsKind(err, errors.KindInvalidRequest) {
				t.Errorf("error kind = %v, want InvalidRequest", err)
			}
		})
	}
}

func TestValidate_EventContent(t *testing.T) {
	intervals := []Interval{{ID: 0, Payloads: []ValuesMap{{Type: "PRICE", Values: []any{0.17}}}}}

	tests := []struct {
		name    string
		content EventContent
		wantErr bool
	}{
		{"minimal", EventContent{ProgramID: "p-1", Intervals: intervals}, false},
		{"missing program", EventContent{Intervals: intervals}, true},
		{"missing intervals", EventContent{ProgramID: "p-1"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.content); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUserContent_MarkerRoleCount(t *testing.T) {
	if got := (UserContent{}).MarkerRoleCount(); got != 0 {
		t.Errorf("MarkerRoleCount() = %d, want 0", got)
	}
	c := UserContent{IsAnyBusinessUser: true, IsVenManager: true}
	if got := c.MarkerRoleCount(); got != 2 {
		t.Errorf("MarkerRoleCount() = %d, want 2", got)
	}
}
