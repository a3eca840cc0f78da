package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openleadr/openleadr-go/internal/domain"
	"github.com/openleadr/openleadr-go/internal/policy"
)

// EventRepo stores events. Visibility is inherited from the parent program
// through a join, so one query serves both predicate and pagination.
type EventRepo struct {
	pool *pgxpool.Pool
}

// EventFilter narrows an event listing.
type EventFilter struct {
	ProgramID string
	Target    *domain.TargetFilter
}

const eventColumns = "e.id, e.created_date_time, e.modification_date_time, e.content"

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var e domain.Event
	if err := row.Scan(&e.ID, &e.CreatedDateTime, &e.ModificationDateTime, &e.EventContent); err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns visible events ordered by priority (nulls last), then newest
// first.
func (r *EventRepo) List(ctx context.Context, vis policy.Visibility, filter EventFilter, page domain.Pagination) ([]domain.Event, error) {
	b := &queryBuilder{}
	where := b.programPredicate(vis, "p")
	if filter.ProgramID != "" {
		where += " AND e.program_id = " + b.bind(filter.ProgramID)
	}
	if filter.Target != nil {
		where += " AND " + b.targetPredicate(filter.Target.Type, filter.Target.Values, "e")
	}
	query := "SELECT " + eventColumns +
		" FROM event e JOIN program p ON p.id = e.program_id WHERE " + where +
		" ORDER BY e.priority ASC NULLS LAST, e.created_date_time DESC, e.id DESC " +
		b.page(page.Skip, page.Limit)

	rows, err := r.pool.Query(ctx, query, b.args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, mapError(err)
		}
		events = append(events, *e)
	}
	return events, mapError(rows.Err())
}

// Get returns a visible event by id.
func (r *EventRepo) Get(ctx context.Context, vis policy.Visibility, id string) (*domain.Event, error) {
	b := &queryBuilder{}
	where := b.programPredicate(vis, "p")
	query := "SELECT " + eventColumns +
		" FROM event e JOIN program p ON p.id = e.program_id" +
		" WHERE e.id = " + b.bind(id) + " AND " + where

	e, err := scanEvent(r.pool.QueryRow(ctx, query, b.args...))
	if err != nil {
		return nil, mapError(err)
	}
	return e, nil
}

const insertEventSQL = `
INSERT INTO event (id, created_date_time, modification_date_time, program_id, priority, targets, content)
VALUES ($1, $2, $2, $3, $4, $5, $6)
RETURNING id, created_date_time, modification_date_time, content;`

// Create inserts an event.
func (r *EventRepo) Create(ctx context.Context, content domain.EventContent) (*domain.Event, error) {
	now := time.Now().UTC()
	e, err := scanEvent(r.pool.QueryRow(ctx, insertEventSQL,
		newID(), now, content.ProgramID, content.Priority, targetsJSON(content.Targets), content))
	if err != nil {
		return nil, mapError(err)
	}
	return e, nil
}

const updateEventSQL = `
UPDATE event
SET modification_date_time = $2, program_id = $3, priority = $4, targets = $5, content = $6
WHERE id = $1
RETURNING id, created_date_time, modification_date_time, content;`

// Update rewrites an event's content.
func (r *EventRepo) Update(ctx context.Context, id string, content domain.EventContent) (*domain.Event, error) {
	e, err := scanEvent(r.pool.QueryRow(ctx, updateEventSQL,
		id, time.Now().UTC(), content.ProgramID, content.Priority, targetsJSON(content.Targets), content))
	if err != nil {
		return nil, mapError(err)
	}
	return e, nil
}

// Delete removes an event; its reports cascade.
func (r *EventRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM event WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows)
	}
	return nil
}
