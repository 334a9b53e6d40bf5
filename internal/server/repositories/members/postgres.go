package members

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/memberportal/internal/common"
	"github.com/dmitrijs2005/memberportal/internal/dbx"
	"github.com/dmitrijs2005/memberportal/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// newID is a seam for tests.
var newID = uuid.NewString

func (r *PostgresRepository) Create(ctx context.Context, m *models.Member) (*models.Member, error) {

	query :=
		`INSERT INTO members (id, email, credential_hash, given_name, family_name, phone)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at
		 `

	id := newID()
	err := r.db.QueryRowContext(ctx, query,
		id, m.Email, m.CredentialHash, m.GivenName, m.FamilyName, m.Phone).Scan(&m.CreatedAt, &m.UpdatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrEmailAlreadyUsed
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	m.ID = id
	return m, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Member, error) {
	query :=
		`SELECT id, email, credential_hash, given_name, family_name, phone, created_at, updated_at
		 FROM members
		 WHERE email = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) Patch(ctx context.Context, id string, p models.ProfilePatch) (*models.Member, error) {
	query :=
		`UPDATE members SET
		   given_name = COALESCE($2::text, given_name),
		   family_name = COALESCE($3::text, family_name),
		   phone = COALESCE($4::text, phone),
		   updated_at = now()
		 WHERE id = $1
		 RETURNING id, email, credential_hash, given_name, family_name, phone, created_at, updated_at
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, id, p.GivenName, p.FamilyName, p.Phone))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Member, error) {
	m := &models.Member{}
	err := row.Scan(&m.ID, &m.Email, &m.CredentialHash, &m.GivenName, &m.FamilyName, &m.Phone, &m.CreatedAt, &m.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}
