package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openleadr/openleadr-go/internal/domain"
	"github.com/openleadr/openleadr-go/internal/policy"
)

// ProgramRepo stores programs and their VEN bindings.
type ProgramRepo struct {
	pool *pgxpool.Pool
}

const programColumns = "p.id, p.created_date_time, p.modification_date_time, p.content"

func scanProgram(row pgx.Row) (*domain.Program, error) {
	var p domain.Program
	if err := row.Scan(&p.ID, &p.CreatedDateTime, &p.ModificationDateTime, &p.ProgramContent); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns the visible programs matching the filter, newest first.
func (r *ProgramRepo) List(ctx context.Context, vis policy.Visibility, filter *domain.TargetFilter, page domain.Pagination) ([]domain.Program, error) {
	b := &queryBuilder{}
	where := b.programPredicate(vis, "p")
	if filter != nil {
		where += " AND " + b.targetPredicate(filter.Type, filter.Values, "p")
	}
	query := "SELECT " + programColumns + " FROM program p WHERE " + where +
		" ORDER BY p.created_date_time DESC, p.id DESC " + b.page(page.Skip, page.Limit)

	rows, err := r.pool.Query(ctx, query, b.args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	programs := []domain.Program{}
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, mapError(err)
		}
		programs = append(programs, *p)
	}
	return programs, mapError(rows.Err())
}

// Get returns a visible program by id; hidden and missing are both NotFound.
func (r *ProgramRepo) Get(ctx context.Context, vis policy.Visibility, id string) (*domain.Program, error) {
	b := &queryBuilder{}
	where := b.programPredicate(vis, "p")
	query := "SELECT " + programColumns + " FROM program p WHERE p.id = " + b.bind(id) + " AND " + where

	p, err := scanProgram(r.pool.QueryRow(ctx, query, b.args...))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

const insertProgramSQL = `
INSERT INTO program (id, created_date_time, modification_date_time, program_name, business_id, targets, content)
VALUES ($1, $2, $2, $3, $4, $5, $6)
RETURNING id, created_date_time, modification_date_time, content;`

// Create inserts a program and its VEN bindings in one transaction.
func (r *ProgramRepo) Create(ctx context.Context, content domain.ProgramContent, boundVenIDs []string) (*domain.Program, error) {
	var created *domain.Program
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		now := time.Now().UTC()
		p, err := scanProgram(tx.QueryRow(ctx, insertProgramSQL,
			newID(), now, content.ProgramName, content.BusinessID, targetsJSON(content.Targets), content))
		if err != nil {
			return err
		}
		if err := replaceBindings(ctx, tx, p.ID, boundVenIDs); err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return created, nil
}

const updateProgramSQL = `
UPDATE program
SET modification_date_time = $2, program_name = $3, business_id = $4, targets = $5, content = $6
WHERE id = $1
RETURNING id, created_date_time, modification_date_time, content;`

// Update rewrites a program's content and bindings; id and creation time
// are immutable.
func (r *ProgramRepo) Update(ctx context.Context, id string, content domain.ProgramContent, boundVenIDs []string) (*domain.Program, error) {
	var updated *domain.Program
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		p, err := scanProgram(tx.QueryRow(ctx, updateProgramSQL,
			id, time.Now().UTC(), content.ProgramName, content.BusinessID, targetsJSON(content.Targets), content))
		if err != nil {
			return err
		}
		if err := replaceBindings(ctx, tx, id, boundVenIDs); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return updated, nil
}

// Delete removes a program; events, reports, and bindings cascade.
func (r *ProgramRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM program WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows)
	}
	return nil
}

func replaceBindings(ctx context.Context, tx pgx.Tx, programID string, venIDs []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM ven_program WHERE program_id = $1`, programID); err != nil {
		return err
	}
	for _, venID := range venIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO ven_program (ven_id, program_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			venID, programID); err != nil {
			return err
		}
	}
	return nil
}

// targetsJSON keeps the filterable targets column a JSON array even when
// the content carries none.
func targetsJSON(targets []domain.Target) []domain.Target {
	if targets == nil {
		return []domain.Target{}
	}
	return targets
}
