package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openleadr/openleadr-go/internal/domain"
)

// UserRepo stores identity principals. User reads carry the owned
// credential client ids so managers can see what exists; secrets never
// leave the credentials table.
type UserRepo struct {
	pool *pgxpool.Pool
}

const userColumns = `u.id, u.created_date_time, u.modification_date_time, u.reference, u.description,
u.is_any_business_user, u.is_user_manager, u.is_ven_manager, u.business_ids, u.ven_ids,
ARRAY(SELECT c.client_id FROM user_credentials c WHERE c.user_id = u.id ORDER BY c.client_id)`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID, &u.CreatedDateTime, &u.ModificationDateTime, &u.Reference, &u.Description,
		&u.IsAnyBusinessUser, &u.IsUserManager, &u.IsVenManager, &u.BusinessIDs, &u.VenIDs,
		&u.ClientIDs,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns users, newest first.
func (r *UserRepo) List(ctx context.Context, page domain.Pagination) ([]domain.User, error) {
	b := &queryBuilder{}
	query := "SELECT " + userColumns + ` FROM "user" u ORDER BY u.created_date_time DESC, u.id DESC ` +
		b.page(page.Skip, page.Limit)

	rows, err := r.pool.Query(ctx, query, b.args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapError(err)
		}
		users = append(users, *u)
	}
	return users, mapError(rows.Err())
}

// Get returns a user by id.
func (r *UserRepo) Get(ctx context.Context, id string) (*domain.User, error) {
	query := "SELECT " + userColumns + ` FROM "user" u WHERE u.id = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

const insertUserSQL = `
INSERT INTO "user" (id, created_date_time, modification_date_time, reference, description,
	is_any_business_user, is_user_manager, is_ven_manager, business_ids, ven_ids)
VALUES ($1, $2, $2, $3, $4, $5, $6, $7, $8, $9);`

// Create inserts a user.
func (r *UserRepo) Create(ctx context.Context, content domain.UserContent) (*domain.User, error) {
	id := newID()
	now := time.Now().UTC()
	_, err := r.pool.Exec(ctx, insertUserSQL,
		id, now, content.Reference, content.Description,
		content.IsAnyBusinessUser, content.IsUserManager, content.IsVenManager,
		stringArray(content.BusinessIDs), stringArray(content.VenIDs))
	if err != nil {
		return nil, mapError(err)
	}
	return r.Get(ctx, id)
}

const updateUserSQL = `
UPDATE "user"
SET modification_date_time = $2, reference = $3, description = $4,
	is_any_business_user = $5, is_user_manager = $6, is_ven_manager = $7,
	business_ids = $8, ven_ids = $9
WHERE id = $1;`

// Update rewrites a user's content.
func (r *UserRepo) Update(ctx context.Context, id string, content domain.UserContent) (*domain.User, error) {
	tag, err := r.pool.Exec(ctx, updateUserSQL,
		id, time.Now().UTC(), content.Reference, content.Description,
		content.IsAnyBusinessUser, content.IsUserManager, content.IsVenManager,
		stringArray(content.BusinessIDs), stringArray(content.VenIDs))
	if err != nil {
		return nil, mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, mapError(pgx.ErrNoRows)
	}
	return r.Get(ctx, id)
}

// Delete removes a user; their credentials cascade.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM "user" WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows)
	}
	return nil
}

func stringArray(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// CredentialRepo stores client-credential pairs and serves the token
// issuer's lookup.
type CredentialRepo struct {
	pool *pgxpool.Pool
}

// Add inserts a credential for the user; duplicate client ids conflict.
func (r *CredentialRepo) Add(ctx context.Context, userID, clientID, secretHash string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_credentials (client_id, user_id, secret_hash) VALUES ($1, $2, $3)`,
		clientID, userID, secretHash)
	return mapError(err)
}

// Delete removes one of the user's credentials.
func (r *CredentialRepo) Delete(ctx context.Context, userID, clientID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM user_credentials WHERE client_id = $1 AND user_id = $2`, clientID, userID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows)
	}
	return nil
}

const credentialByClientIDSQL = `
SELECT c.client_id, c.user_id, c.secret_hash, ` + userColumns + `
FROM user_credentials c
JOIN "user" u ON u.id = c.user_id
WHERE c.client_id = $1;`

// CredentialByClientID returns a credential and its owning user. Satisfies
// the token issuer's store contract.
func (r *CredentialRepo) CredentialByClientID(ctx context.Context, clientID string) (*domain.Credential, *domain.User, error) {
	row := r.pool.QueryRow(ctx, credentialByClientIDSQL, clientID)

	var cred domain.Credential
	var u domain.User
	if err := row.Scan(
		&cred.ClientID, &cred.UserID, &cred.SecretHash,
		&u.ID, &u.CreatedDateTime, &u.ModificationDateTime, &u.Reference, &u.Description,
		&u.IsAnyBusinessUser, &u.IsUserManager, &u.IsVenManager, &u.BusinessIDs, &u.VenIDs,
		&u.ClientIDs,
	); err != nil {
		return nil, nil, mapError(err)
	}
	return &cred, &u, nil
}
