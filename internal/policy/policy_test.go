package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openleadr/openleadr-go/internal/auth"
	"github.com/openleadr/openleadr-go/internal/pkg/errors"
)

func strptr(s string) *string { return &s }

func blCaller(scopes ...auth.Scope) auth.Caller {
	return auth.Caller{
		Kind:        auth.KindBusinessLogic,
		BusinessIDs: []string{"business-1"},
		Scopes:      auth.NewScopeSet(scopes...),
	}
}

func venCaller(scopes ...auth.Scope) auth.Caller {
	return auth.Caller{
		Kind:   auth.KindVEN,
		VenIDs: []string{"ven-1"},
		Scopes: auth.NewScopeSet(scopes...),
	}
}

func dualCaller(scopes ...auth.Scope) auth.Caller {
	return auth.Caller{
		Kind:        auth.KindBusinessLogic,
		BusinessIDs: []string{"business-1"},
		VenIDs:      []string{"ven-1"},
		Scopes:      auth.NewScopeSet(scopes...),
	}
}

func TestProgramRead(t *testing.T) {
	tests := []struct {
		name   string
		caller auth.Caller
		want   Visibility
	}{
		{
			"read_all bypasses predicates",
			auth.Caller{Kind: auth.KindUnknown, Scopes: auth.NewScopeSet(auth.ScopeReadAll)},
			Visibility{All: true},
		},
		{
			"any business sees all",
			auth.Caller{Kind: auth.KindAnyBusiness},
			Visibility{All: true},
		},
		{
			"business logic",
			blCaller(),
			Visibility{BusinessIDs: []string{"business-1"}, IncludeNullBusiness: true},
		},
		{
			"ven",
			venCaller(),
			Visibility{BoundVenIDs: []string{"ven-1"}, IncludeNullBusiness: true},
		},
		{
			"dual membership is a disjunction",
			auth.Caller{Kind: auth.KindBusinessLogic, BusinessIDs: []string{"b1"}, VenIDs: []string{"v1"}},
			Visibility{BusinessIDs: []string{"b1"}, BoundVenIDs: []string{"v1"}, IncludeNullBusiness: true},
		},
		{
			"manager sees only unowned",
			auth.Caller{Kind: auth.KindUserManager},
			Visibility{IncludeNullBusiness: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProgramRead(tt.caller))
		})
	}
}

func TestProgramWrite(t *testing.T) {
	tests := []struct {
		name       string
		caller     auth.Caller
		businessID *string
		wantErr    bool
	}{
		{"own business", blCaller(auth.ScopeWritePrograms), strptr("business-1"), false},
		{"missing scope", blCaller(), strptr("business-1"), true},
		{"foreign business", blCaller(auth.ScopeWritePrograms), strptr("business-2"), true},
		{
			"null business denied to business logic",
			blCaller(auth.ScopeWritePrograms), nil, true,
		},
		{
			"null business allowed to any business",
			auth.Caller{Kind: auth.KindAnyBusiness, Scopes: auth.NewScopeSet(auth.ScopeWritePrograms)},
			nil, false,
		},
		{
			"null business allowed to user manager",
			auth.Caller{Kind: auth.KindUserManager, Scopes: auth.NewScopeSet(auth.ScopeWritePrograms)},
			nil, false,
		},
		{
			"ven with scope still lacks authority",
			venCaller(auth.ScopeWritePrograms), strptr("business-1"), true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ProgramWrite(tt.caller, tt.businessID)
			if tt.wantErr {
				assert.True(t, errors.IsKind(err, errors.KindForbidden), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEventWrite(t *testing.T) {
	assert.NoError(t, EventWrite(blCaller(auth.ScopeWriteEvents), strptr("business-1")))
	assert.Error(t, EventWrite(blCaller(), strptr("business-1")))
	assert.Error(t, EventWrite(blCaller(auth.ScopeWriteEvents), strptr("business-2")))
}

func TestReportRead(t *testing.T) {
	assert.Equal(t, Visibility{All: true}, ReportRead(auth.Caller{Kind: auth.KindAnyBusiness}))
	assert.Equal(t,
		Visibility{BusinessIDs: []string{"business-1"}},
		ReportRead(blCaller()),
	)
	assert.Equal(t, Visibility{VenIDs: []string{"ven-1"}}, ReportRead(venCaller()))

	// A manager with no memberships can see no reports at all.
	assert.True(t, ReportRead(auth.Caller{Kind: auth.KindVENManager}).Nothing())
}

func TestReportWrite(t *testing.T) {
	tests := []struct {
		name       string
		caller     auth.Caller
		clientName string
		venNames   []string
		businessID *string
		wantErr    bool
	}{
		{
			"ven writes under own name",
			venCaller(auth.ScopeWriteReports), "ven-one", []string{"ven-one"}, nil, false,
		},
		{
			"ven writes under foreign name",
			venCaller(auth.ScopeWriteReports), "other", []string{"ven-one"}, nil, true,
		},
		{
			"bl writes for owned program",
			blCaller(auth.ScopeWriteReports), "ven-one", nil, strptr("business-1"), false,
		},
		{
			"bl writes for foreign program",
			blCaller(auth.ScopeWriteReports), "ven-one", nil, strptr("business-2"), true,
		},
		{
			"missing scope",
			venCaller(), "ven-one", []string{"ven-one"}, nil, true,
		},
		{
			"dual membership writes via ven name",
			dualCaller(auth.ScopeWriteReports), "ven-one", []string{"ven-one"}, strptr("business-2"), false,
		},
		{
			"dual membership writes via program ownership",
			dualCaller(auth.ScopeWriteReports), "other", []string{"ven-one"}, strptr("business-1"), false,
		},
		{
			"dual membership with neither authority",
			dualCaller(auth.ScopeWriteReports), "other", []string{"ven-one"}, strptr("business-2"), true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ReportWrite(tt.caller, tt.clientName, tt.venNames, tt.businessID)
			if tt.wantErr {
				assert.True(t, errors.IsKind(err, errors.KindForbidden), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVenRead(t *testing.T) {
	v, err := VenRead(blCaller())
	assert.NoError(t, err)
	assert.True(t, v.All)

	v, err = VenRead(venCaller())
	assert.NoError(t, err)
	assert.Equal(t, Visibility{VenIDs: []string{"ven-1"}}, v)

	v, err = VenRead(auth.Caller{Kind: auth.KindVENManager})
	assert.NoError(t, err)
	assert.True(t, v.All)

	_, err = VenRead(auth.Caller{Kind: auth.KindUserManager})
	assert.True(t, errors.IsKind(err, errors.KindForbidden))
}

func TestResourceAccess(t *testing.T) {
	// VEN reaches only its own resources; the foreign VEN looks missing.
	assert.NoError(t, ResourceRead(venCaller(), "ven-1"))
	err := ResourceRead(venCaller(), "ven-2")
	assert.True(t, errors.IsKind(err, errors.KindNotFound), "got %v", err)

	assert.NoError(t, ResourceWrite(venCaller(auth.ScopeWriteVens), "ven-1"))
	assert.True(t, errors.IsKind(ResourceWrite(venCaller(), "ven-1"), errors.KindForbidden))
}

func TestUserAccess(t *testing.T) {
	um := auth.Caller{Kind: auth.KindUserManager, Scopes: auth.NewScopeSet(auth.ScopeWriteUsers)}
	assert.NoError(t, UserAccess(um))
	assert.True(t, errors.IsKind(UserAccess(blCaller()), errors.KindForbidden))
}
