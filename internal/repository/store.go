// Package repository implements capability-aware PostgreSQL storage. Every
// read takes a policy.Visibility which is compiled into the query itself,
// so listings stay pagination-correct and a hidden object is
// indistinguishable from a missing one.
package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openleadr/openleadr-go/internal/policy"
	"github.com/openleadr/openleadr-go/internal/pkg/errors"
)

// Postgres error codes surfaced as client errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Store bundles the entity repositories over one shared pool.
type Store struct {
	Programs    *ProgramRepo
	Events      *EventRepo
	Reports     *ReportRepo
	Vens        *VenRepo
	Resources   *ResourceRepo
	Users       *UserRepo
	Credentials *CredentialRepo
}

// NewStore builds the repositories over the shared pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Programs:    &ProgramRepo{pool: pool},
		Events:      &EventRepo{pool: pool},
		Reports:     &ReportRepo{pool: pool},
		Vens:        &VenRepo{pool: pool},
		Resources:   &ResourceRepo{pool: pool},
		Users:       &UserRepo{pool: pool},
		Credentials: &CredentialRepo{pool: pool},
	}
}

// newID returns a time-sortable object id.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// mapError translates driver errors into the kind-tagged taxonomy.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, pgx.ErrNoRows):
		return errors.NotFound()
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.GatewayTimeout()
	case stderrors.Is(err, context.Canceled):
		return errors.GatewayTimeout()
	}
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return errors.Conflict("object already exists")
		case pgForeignKeyViolation:
			return errors.Unprocessable("referenced object does not exist")
		}
	}
	return errors.Internal(err)
}

// queryBuilder accumulates positional arguments for a hand-written query.
type queryBuilder struct {
	args []any
}

func (b *queryBuilder) bind(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// programPredicate compiles a program visibility into SQL over the aliased
// program table. The disjunction mirrors the policy: owned businesses OR
// unowned OR bound to one of the caller's VENs.
func (b *queryBuilder) programPredicate(v policy.Visibility, alias string) string {
	if v.All {
		return "TRUE"
	}
	var parts []string
	if len(v.BusinessIDs) > 0 {
		parts = append(parts, fmt.Sprintf("%s.business_id = ANY(%s)", alias, b.bind(v.BusinessIDs)))
	}
	if v.IncludeNullBusiness {
		parts = append(parts, fmt.Sprintf("%s.business_id IS NULL", alias))
	}
	if len(v.BoundVenIDs) > 0 {
		parts = append(parts, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM ven_program vp WHERE vp.program_id = %s.id AND vp.ven_id = ANY(%s))",
			alias, b.bind(v.BoundVenIDs)))
	}
	if len(parts) == 0 {
		return "FALSE"
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// targetPredicate compiles the target filter into a JSONB probe over the
// aliased table's targets column. Nil means no constraint.
func (b *queryBuilder) targetPredicate(filterType string, filterValues []string, alias string) string {
	return fmt.Sprintf(
		"EXISTS (SELECT 1 FROM jsonb_array_elements(%s.targets) tgt WHERE tgt->>'type' = %s AND tgt->'values' ?| %s)",
		alias, b.bind(filterType), b.bind(filterValues))
}

func (b *queryBuilder) page(skip, limit int64) string {
	return fmt.Sprintf("LIMIT %s OFFSET %s", b.bind(limit), b.bind(skip))
}
