package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openleadr/openleadr-go/internal/auth"
	"github.com/openleadr/openleadr-go/internal/domain"
	"github.com/openleadr/openleadr-go/internal/pkg/errors"
	"github.com/openleadr/openleadr-go/internal/repository/memory"
	"github.com/openleadr/openleadr-go/internal/service"
)

func strptr(s string) *string { return &s }

func newServices(t *testing.T) (*service.Services, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return service.New(store.Stores()), store
}

func blCaller(business string, scopes ...auth.Scope) auth.Caller {
	return auth.Caller{
		Sub:         "bl-" + business,
		Kind:        auth.KindBusinessLogic,
		BusinessIDs: []string{business},
		Scopes:      auth.NewScopeSet(scopes...),
	}
}

func venCaller(venID string, scopes ...auth.Scope) auth.Caller {
	return auth.Caller{
		Sub:    "ven-client",
		Kind:   auth.KindVEN,
		VenIDs: []string{venID},
		Scopes: auth.NewScopeSet(scopes...),
	}
}

func anyBusinessCaller() auth.Caller {
	return auth.Caller{
		Sub:  "admin",
		Kind: auth.KindAnyBusiness,
		Scopes: auth.NewScopeSet(
			auth.ScopeReadAll, auth.ScopeWritePrograms, auth.ScopeWriteEvents,
			auth.ScopeWriteReports, auth.ScopeWriteVens, auth.ScopeWriteUsers,
		),
	}
}

func mustCreateProgram(t *testing.T, svcs *service.Services, caller auth.Caller, content domain.ProgramContent) *domain.Program {
	t.Helper()
	p, err := svcs.Programs.Create(context.Background(), caller, content)
	require.NoError(t, err)
	return p
}

func mustCreateVen(t *testing.T, svcs *service.Services, name string) *domain.Ven {
	t.Helper()
	v, err := svcs.Vens.Create(context.Background(), anyBusinessCaller(), domain.VenContent{VenName: name})
	require.NoError(t, err)
	return v
}

func TestProgramService_RoundTrip(t *testing.T) {
	svcs, _ := newServices(t)
	ctx := context.Background()
	bl := blCaller("business-1", auth.ScopeWritePrograms)

	created := mustCreateProgram(t, svcs, bl, domain.ProgramContent{
		ProgramName: "p1",
		BusinessID:  strptr("business-1"),
	})
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedDateTime.IsZero())

	got, err := svcs.Programs.Get(ctx, bl, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "p1", got.ProgramName)

	updated, err := svcs.Programs.Update(ctx, bl, created.ID, domain.ProgramContent{
		ProgramName: "p1-renamed",
		BusinessID:  strptr("business-1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "p1-renamed", updated.ProgramName)
	assert.Equal(t, created.CreatedDateTime, updated.CreatedDateTime)

	require.NoError(t, svcs.Programs.Delete(ctx, bl, created.ID))

	_, err = svcs.Programs.Get(ctx, bl, created.ID)
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
}

func TestProgramService_ScopeNecessity(t *testing.T) {
	svcs, _ := newServices(t)
	ctx := context.Background()

	content := domain.ProgramContent{ProgramName: "p1", BusinessID: strptr("business-1")}

	_, err := svcs.Programs.Create(ctx, blCaller("business-1"), content)
	assert.True(t, errors.IsKind(err, errors.KindForbidden))

	_, err = svcs.Programs.Create(ctx, blCaller("business-1", auth.ScopeWritePrograms), content)
	assert.NoError(t, err)
}

func TestProgramService_VenSeesOnlyBoundPrograms(t *testing.T) {
	svcs, _ := newServices(t)
	ctx := context.Background()

	ven := mustCreateVen(t, svcs, "ven-one")

	pA := mustCreateProgram(t, svcs, blCaller("business-1", auth.ScopeWritePrograms), domain.ProgramContent{
		ProgramName: "p-A",
		BusinessID:  strptr("business-1"),
		Targets:     []domain.Target{{Type: "VEN_NAME", Values: []any{"ven-one"}}},
	})
	pB := mustCreateProgram(t, svcs, blCaller("business-2", auth.ScopeWritePrograms), domain.ProgramContent{
		ProgramName: "p-B",
		BusinessID:  strptr("business-2"),
	})

	caller := venCaller(ven.ID)
	listed, err := svcs.Programs.List(ctx, caller, nil, domain.Pagination{Limit: 50})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, pA.ID, listed[0].ID)

	// Visibility symmetry: anything listed is gettable, anything hidden
	// looks missing rather than forbidden.
	_, err = svcs.Programs.Get(ctx, caller, pA.ID)
	assert.NoError(t, err)
	_, err = svcs.Programs.Get(ctx, caller, pB.ID)
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
}

func TestProgramService_NullBusinessVisibleButPrivilegedWrite(t *testing.T) {
	svcs, _ := newServices(t)
	ctx := context.Background()

	// Only AnyBusiness (or a user manager) may create an unowned program.
	_, err := svcs.Programs.Create(ctx, blCaller("business-1", auth.ScopeWritePrograms),
		domain.ProgramContent{ProgramName: "shared"})
	assert.True(t, errors.IsKind(err, errors.KindForbidden))

	shared := mustCreateProgram(t, svcs, anyBusinessCaller(), domain.ProgramContent{ProgramName: "shared"})

	// Unowned programs are visible to every authenticated caller.
	_, err = svcs.Programs.Get(ctx, blCaller("business-2"), shared.ID)
	assert.NoError(t, err)
	_, err = svcs.Programs.Get(ctx, venCaller("ven-x"), shared.ID)
	assert.NoError(t, err)
}

func TestProgramService_UpdateCannotMoveOutOfAuthority(t *testing.T) {
	svcs, _ := newServices(t)
	ctx := context.Background()
	bl := blCaller("business-1", auth.ScopeWritePrograms)

	p := mustCreateProgram(t, svcs, bl, domain.ProgramContent{
		ProgramName: "p1", BusinessID: strptr("business-1"),
	})

	// Post-mutation check: handing the program to another business fails.
	_, err := svcs.Programs.Update(ctx, bl, p.ID, domain.ProgramContent{
		ProgramName: "p1", BusinessID: strptr("business-2"),
	})
	assert.True(t, errors.IsKind(err, errors.KindForbidden))
}

func TestProgramService_UnknownVenNameTarget(t *testing.T) {
	svcs, _ := newServices(t)

	_, err := svcs.Programs.Create(context.Background(), anyBusinessCaller(), domain.ProgramContent{
		ProgramName: "p1",
		Targets:     []domain.Target{{Type: "VEN_NAME", Values: []any{"ghost-ven"}}},
	})
	assert.True(t, errors.IsKind(err, errors.KindUnprocessable), "got %v", err)
}

func TestProgramService_PaginationTotality(t *testing.T) {
	svcs, _ := newServices(t)
	ctx := context.Background()
	admin := anyBusinessCaller()

	for i := 0; i < 5; i++ {
		mustCreateProgram(t, svcs, admin, domain.ProgramContent{ProgramName: "p"})
	}

	var all []string
	for skip := int64(0); skip < 5; skip += 2 {
		page, err := svcs.Programs.List(ctx, admin, nil, domain.Pagination{Skip: skip, Limit: 2})
		require.NoError(t, err)
		for _, p := range page {
			all = append(all, p.ID)
		}
	}
	require.Len(t, all, 5)
	seen := map[string]bool{}
	for _, id := range all {
		assert.False(t, seen[id], "id %s repeated across pages", id)
		seen[id] = true
	}
}
