package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openleadr/openleadr-go/internal/auth"
	"github.com/openleadr/openleadr-go/internal/domain"
	"github.com/openleadr/openleadr-go/internal/pkg/errors"
	"github.com/openleadr/openleadr-go/internal/repository"
)

func i64(v int64) *int64 { return &v }

func eventContent(programID string, priority *int64) domain.EventContent {
	return domain.EventContent{
		ProgramID: programID,
		Priority:  priority,
		Intervals: []domain.Interval{
			{ID: 0, Payloads: []domain.ValuesMap{{Type: "PRICE", Values: []any{0.17}}}},
		},
	}
}

func TestEventService_CreateAndList(t *testing.T) {
	svcs, _ := newServices(t)
	ctx := context.Background()
	bl := blCaller("business-1", auth.ScopeWritePrograms, auth.ScopeWriteEvents)

	p := mustCreateProgram(t, svcs, bl, domain.ProgramContent{
		ProgramName: "p1", BusinessID: strptr("business-1"),
	})

	e, err := svcs.Events.Create(ctx, bl, eventContent(p.ID, i64(4)))
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)

	listed, err := svcs.Events.List(ctx, bl, repository.EventFilter{ProgramID: p.ID}, domain.Pagination{Limit: 50})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, e.ID, listed[0].ID)
}

func TestEventService_MissingProgramIsUnprocessable(t *testing.T) {
	svcs, _ := newServices(t)

	_, err := svcs.Events.Create(context.Background(),
		blCaller("business-1", auth.ScopeWriteEvents), eventContent("no-such-program", nil))
	assert.True(t, errors.IsKind(err, errors.KindUnprocessable), "got %v", err)
}

func TestEventService_HiddenProgramLooksMissing(t *testing.T) {
	svcs, _ := newServices(t)
	ctx := context.Background()

	p := mustCreateProgram(t, svcs, blCaller("business-2", auth.ScopeWritePrograms),
		domain.ProgramContent{ProgramName: "p-B", BusinessID: strptr("business-2")})

	// business-1 cannot see business-2's program; referencing it reads the
	// same as referencing a program that does not exist.
	_, err := svcs.Events.Create(ctx, blCaller("business-1", auth.ScopeWriteEvents), eventContent(p.ID, nil))
	assert.True(t, errors.IsKind(err, errors.KindUnprocessable))
}

func TestEventService_WriteNeedsParentAuthority(t *testing.T) {
	svcs, _ := newServices(t)
	ctx := context.Background()

	p := mustCreateProgram(t, svcs, anyBusinessCaller(), domain.ProgramContent{
		ProgramName: "p1", BusinessID: strptr("business-2"),
	})

	// Visible (read_all) but owned by another business.
	intruder := auth.Caller{
		Kind:        auth.KindBusinessLogic,
		BusinessIDs: []string{"business-1"},
		Scopes:      auth.NewScopeSet(auth.ScopeReadAll, auth.ScopeWriteEvents),
	}
	_, err := svcs.Events.Create(ctx, intruder, eventContent(p.ID, nil))
	assert.True(t, errors.IsKind(err, errors.KindForbidden), "got %v", err)
}

func TestEventService_PriorityOrdering(t *testing.T) {
	svcs, _ := newServices(t)
	ctx := context.Background()
	admin := anyBusinessCaller()

	p := mustCreateProgram(t, svcs, admin, domain.ProgramContent{ProgramName: "p1"})

	for _, priority := range []*int64{nil, i64(1), i64(10), i64(5)} {
		_, err := svcs.Events.Create(ctx, admin, eventContent(p.ID, priority))
		require.NoError(t, err)
	}

	listed, err := svcs.Events.List(ctx, admin, repository.EventFilter{}, domain.Pagination{Limit: 50})
	require.NoError(t, err)
	require.Len(t, listed, 4)

	var order []any
	for _, e := range listed {
		if e.Priority == nil {
			order = append(order, nil)
		} else {
			order = append(order, *e.Priority)
		}
	}
	assert.Equal(t, []any{int64(1), int64(5), int64(10), nil}, order)
}

func TestEventService_TargetFilter(t *testing.T) {
	svcs, _ := newServices(t)
	ctx := context.Background()
	admin := anyBusinessCaller()

	p := mustCreateProgram(t, svcs, admin, domain.ProgramContent{ProgramName: "p1"})

	g1 := eventContent(p.ID, nil)
	g1.Targets = []domain.Target{{Type: "GROUP", Values: []any{"g1"}}}
	first, err := svcs.Events.Create(ctx, admin, g1)
	require.NoError(t, err)

	g2 := eventContent(p.ID, nil)
	g2.Targets = []domain.Target{{Type: "GROUP", Values: []any{"g2"}}}
	_, err = svcs.Events.Create(ctx, admin, g2)
	require.NoError(t, err)

	filter, err := domain.NewTargetFilter("GROUP", []string{"g1"})
	require.NoError(t, err)

	listed, err := svcs.Events.List(ctx, admin, repository.EventFilter{Target: filter}, domain.Pagination{Limit: 50})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, first.ID, listed[0].ID)
}
