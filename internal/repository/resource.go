package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openleadr/openleadr-go/internal/domain"
)

// ResourceRepo stores resources under their owning VEN. Access control on
// the parent VEN happens in policy before these queries run, so the repo
// scopes by ven_id only.
type ResourceRepo struct {
	pool *pgxpool.Pool
}

// ResourceFilter narrows a resource listing.
type ResourceFilter struct {
	ResourceName string
	Target       *domain.TargetFilter
}

const resourceColumns = "r.id, r.ven_id, r.created_date_time, r.modification_date_time, r.content"

func scanResource(row pgx.Row) (*domain.Resource, error) {
	var res domain.Resource
	if err := row.Scan(&res.ID, &res.VenID, &res.CreatedDateTime, &res.ModificationDateTime, &res.ResourceContent); err != nil {
		return nil, err
	}
	return &res, nil
}

// List returns a VEN's resources, oldest first.
func (r *ResourceRepo) List(ctx context.Context, venID string, filter ResourceFilter, page domain.Pagination) ([]domain.Resource, error) {
	b := &queryBuilder{}
	where := "r.ven_id = " + b.bind(venID)
	if filter.ResourceName != "" {
		where += " AND r.resource_name = " + b.bind(filter.ResourceName)
	}
	if filter.Target != nil {
		where += " AND " + b.targetPredicate(filter.Target.Type, filter.Target.Values, "r")
	}
	query := "SELECT " + resourceColumns + " FROM resource r WHERE " + where +
		" ORDER BY r.created_date_time ASC, r.id ASC " + b.page(page.Skip, page.Limit)

	rows, err := r.pool.Query(ctx, query, b.args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	resources := []domain.Resource{}
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, mapError(err)
		}
		resources = append(resources, *res)
	}
	return resources, mapError(rows.Err())
}

// Get returns a resource by id within its VEN.
func (r *ResourceRepo) Get(ctx context.Context, venID, id string) (*domain.Resource, error) {
	query := "SELECT " + resourceColumns + " FROM resource r WHERE r.id = $1 AND r.ven_id = $2"
	res, err := scanResource(r.pool.QueryRow(ctx, query, id, venID))
	if err != nil {
		return nil, mapError(err)
	}
	return res, nil
}

const insertResourceSQL = `
INSERT INTO resource (id, created_date_time, modification_date_time, ven_id, resource_name, targets, content)
VALUES ($1, $2, $2, $3, $4, $5, $6)
RETURNING id, ven_id, created_date_time, modification_date_time, content;`

// Create inserts a resource under the VEN.
func (r *ResourceRepo) Create(ctx context.Context, venID string, content domain.ResourceContent) (*domain.Resource, error) {
	now := time.Now().UTC()
	res, err := scanResource(r.pool.QueryRow(ctx, insertResourceSQL,
		newID(), now, venID, content.ResourceName, targetsJSON(content.Targets), content))
	if err != nil {
		return nil, mapError(err)
	}
	return res, nil
}

const updateResourceSQL = `
UPDATE resource
SET modification_date_time = $3, resource_name = $4, targets = $5, content = $6
WHERE id = $1 AND ven_id = $2
RETURNING id, ven_id, created_date_time, modification_date_time, content;`

// Update rewrites a resource's content.
func (r *ResourceRepo) Update(ctx context.Context, venID, id string, content domain.ResourceContent) (*domain.Resource, error) {
	res, err := scanResource(r.pool.QueryRow(ctx, updateResourceSQL,
		id, venID, time.Now().UTC(), content.ResourceName, targetsJSON(content.Targets), content))
	if err != nil {
		return nil, mapError(err)
	}
	return res, nil
}

// Delete removes a resource from its VEN.
func (r *ResourceRepo) Delete(ctx context.Context, venID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM resource WHERE id = $1 AND ven_id = $2`, id, venID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows)
	}
	return nil
}
