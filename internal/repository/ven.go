package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openleadr/openleadr-go/internal/domain"
	"github.com/openleadr/openleadr-go/internal/policy"
)

// VenRepo stores VENs and resolves names for bindings and report policy.
type VenRepo struct {
	pool *pgxpool.Pool
}

// VenFilter narrows a VEN listing.
type VenFilter struct {
	VenName string
	Target  *domain.TargetFilter
}

const venColumns = "v.id, v.created_date_time, v.modification_date_time, v.content"

func scanVen(row pgx.Row) (*domain.Ven, error) {
	var v domain.Ven
	if err := row.Scan(&v.ID, &v.CreatedDateTime, &v.ModificationDateTime, &v.VenContent); err != nil {
		return nil, err
	}
	return &v, nil
}

func (b *queryBuilder) venPredicate(v policy.Visibility) string {
	if v.All {
		return "TRUE"
	}
	if len(v.VenIDs) == 0 {
		return "FALSE"
	}
	return "v.id = ANY(" + b.bind(v.VenIDs) + ")"
}

// List returns visible VENs, newest first.
func (r *VenRepo) List(ctx context.Context, vis policy.Visibility, filter VenFilter, page domain.Pagination) ([]domain.Ven, error) {
	b := &queryBuilder{}
	where := b.venPredicate(vis)
	if filter.VenName != "" {
		where += " AND v.ven_name = " + b.bind(filter.VenName)
	}
	if filter.Target != nil {
		where += " AND " + b.targetPredicate(filter.Target.Type, filter.Target.Values, "v")
	}
	query := "SELECT " + venColumns + " FROM ven v WHERE " + where +
		" ORDER BY v.created_date_time DESC, v.id DESC " + b.page(page.Skip, page.Limit)

	rows, err := r.pool.Query(ctx, query, b.args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	vens := []domain.Ven{}
	for rows.Next() {
		v, err := scanVen(rows)
		if err != nil {
			return nil, mapError(err)
		}
		vens = append(vens, *v)
	}
	return vens, mapError(rows.Err())
}

// Get returns a visible VEN by id.
func (r *VenRepo) Get(ctx context.Context, vis policy.Visibility, id string) (*domain.Ven, error) {
	b := &queryBuilder{}
	where := b.venPredicate(vis)
	query := "SELECT " + venColumns + " FROM ven v WHERE v.id = " + b.bind(id) + " AND " + where

	v, err := scanVen(r.pool.QueryRow(ctx, query, b.args...))
	if err != nil {
		return nil, mapError(err)
	}
	return v, nil
}

const insertVenSQL = `
INSERT INTO ven (id, created_date_time, modification_date_time, ven_name, targets, content)
VALUES ($1, $2, $2, $3, $4, $5)
RETURNING id, created_date_time, modification_date_time, content;`

// Create inserts a VEN; ven_name is unique.
func (r *VenRepo) Create(ctx context.Context, content domain.VenContent) (*domain.Ven, error) {
	now := time.Now().UTC()
	v, err := scanVen(r.pool.QueryRow(ctx, insertVenSQL,
		newID(), now, content.VenName, targetsJSON(content.Targets), content))
	if err != nil {
		return nil, mapError(err)
	}
	return v, nil
}

const updateVenSQL = `
UPDATE ven
SET modification_date_time = $2, ven_name = $3, targets = $4, content = $5
WHERE id = $1
RETURNING id, created_date_time, modification_date_time, content;`

// Update rewrites a VEN's content.
func (r *VenRepo) Update(ctx context.Context, id string, content domain.VenContent) (*domain.Ven, error) {
	v, err := scanVen(r.pool.QueryRow(ctx, updateVenSQL,
		id, time.Now().UTC(), content.VenName, targetsJSON(content.Targets), content))
	if err != nil {
		return nil, mapError(err)
	}
	return v, nil
}

// Delete removes a VEN; its resources and bindings cascade.
func (r *VenRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM ven WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows)
	}
	return nil
}

// NamesByIDs resolves VEN ids to their names; unknown ids are skipped.
func (r *VenRepo) NamesByIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT ven_name FROM ven WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, mapError(err)
		}
		names = append(names, name)
	}
	return names, mapError(rows.Err())
}

// IDsByNames resolves VEN names to ids, preserving which names were missing
// so VEN_NAME target bindings can be rejected precisely.
func (r *VenRepo) IDsByNames(ctx context.Context, names []string) (ids []string, missing []string, err error) {
	if len(names) == 0 {
		return nil, nil, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT id, ven_name FROM ven WHERE ven_name = ANY($1)`, names)
	if err != nil {
		return nil, nil, mapError(err)
	}
	defer rows.Close()

	found := map[string]struct{}{}
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, nil, mapError(err)
		}
		ids = append(ids, id)
		found[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, mapError(err)
	}
	for _, name := range names {
		if _, ok := found[name]; !ok {
			missing = append(missing, name)
		}
	}
	return ids, missing, nil
}
