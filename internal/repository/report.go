package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openleadr/openleadr-go/internal/domain"
	"github.com/openleadr/openleadr-go/internal/policy"
)

// ReportRepo stores reports. Business visibility resolves through the
// owning program; VEN visibility matches client_name against the caller's
// VEN names inside the query.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// ReportFilter narrows a report listing.
type ReportFilter struct {
	ProgramID  string
	EventID    string
	ClientName string
}

const reportColumns = "r.id, r.created_date_time, r.modification_date_time, r.content"

func scanReport(row pgx.Row) (*domain.Report, error) {
	var rep domain.Report
	if err := row.Scan(&rep.ID, &rep.CreatedDateTime, &rep.ModificationDateTime, &rep.ReportContent); err != nil {
		return nil, err
	}
	return &rep, nil
}

func (b *queryBuilder) reportPredicate(v policy.Visibility) string {
	if v.All {
		return "TRUE"
	}
	var parts []string
	if len(v.BusinessIDs) > 0 {
		parts = append(parts, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM program p WHERE p.id = r.program_id AND p.business_id = ANY(%s))",
			b.bind(v.BusinessIDs)))
	}
	if len(v.VenIDs) > 0 {
		parts = append(parts, fmt.Sprintf(
			"r.client_name IN (SELECT v.ven_name FROM ven v WHERE v.id = ANY(%s))",
			b.bind(v.VenIDs)))
	}
	if len(parts) == 0 {
		return "FALSE"
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// List returns visible reports, newest first.
func (r *ReportRepo) List(ctx context.Context, vis policy.Visibility, filter ReportFilter, page domain.Pagination) ([]domain.Report, error) {
	b := &queryBuilder{}
	where := b.reportPredicate(vis)
	if filter.ProgramID != "" {
		where += " AND r.program_id = " + b.bind(filter.ProgramID)
	}
	if filter.EventID != "" {
		where += " AND r.event_id = " + b.bind(filter.EventID)
	}
	if filter.ClientName != "" {
		where += " AND r.client_name = " + b.bind(filter.ClientName)
	}
	query := "SELECT " + reportColumns + " FROM report r WHERE " + where +
		" ORDER BY r.created_date_time DESC, r.id DESC " + b.page(page.Skip, page.Limit)

	rows, err := r.pool.Query(ctx, query, b.args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	reports := []domain.Report{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, mapError(err)
		}
		reports = append(reports, *rep)
	}
	return reports, mapError(rows.Err())
}

// Get returns a visible report by id.
func (r *ReportRepo) Get(ctx context.Context, vis policy.Visibility, id string) (*domain.Report, error) {
	b := &queryBuilder{}
	where := b.reportPredicate(vis)
	query := "SELECT " + reportColumns + " FROM report r WHERE r.id = " + b.bind(id) + " AND " + where

	rep, err := scanReport(r.pool.QueryRow(ctx, query, b.args...))
	if err != nil {
		return nil, mapError(err)
	}
	return rep, nil
}

const insertReportSQL = `
INSERT INTO report (id, created_date_time, modification_date_time, program_id, event_id, client_name, content)
VALUES ($1, $2, $2, $3, $4, $5, $6)
RETURNING id, created_date_time, modification_date_time, content;`

// Create inserts a report.
func (r *ReportRepo) Create(ctx context.Context, content domain.ReportContent) (*domain.Report, error) {
	now := time.Now().UTC()
	rep, err := scanReport(r.pool.QueryRow(ctx, insertReportSQL,
		newID(), now, content.ProgramID, content.EventID, content.ClientName, content))
	if err != nil {
		return nil, mapError(err)
	}
	return rep, nil
}

const updateReportSQL = `
UPDATE report
SET modification_date_time = $2, program_id = $3, event_id = $4, client_name = $5, content = $6
WHERE id = $1
RETURNING id, created_date_time, modification_date_time, content;`

// Update rewrites a report's content.
func (r *ReportRepo) Update(ctx context.Context, id string, content domain.ReportContent) (*domain.Report, error) {
	rep, err := scanReport(r.pool.QueryRow(ctx, updateReportSQL,
		id, time.Now().UTC(), content.ProgramID, content.EventID, content.ClientName, content))
	if err != nil {
		return nil, mapError(err)
	}
	return rep, nil
}

// Delete removes a report.
func (r *ReportRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM report WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows)
	}
	return nil
}
