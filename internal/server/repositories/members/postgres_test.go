package members

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/memberportal/internal/common"
	"github.com/dmitrijs2005/memberportal/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertQ = `(?s)^INSERT\s+INTO\s+members\s*\(id,\s*email,\s*credential_hash,\s*given_name,\s*family_name,\s*phone\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)\s*RETURNING\s+created_at,\s*updated_at\s*$`
	selectQ = `(?s)^SELECT\s+id,\s*email,\s*credential_hash,\s*given_name,\s*family_name,\s*phone,\s*created_at,\s*updated_at\s+FROM\s+members\s+WHERE\s+email\s*=\s*\$1\s*$`
	updateQ = `(?s)^UPDATE\s+members\s+SET.*given_name\s*=\s*COALESCE\(\$2::text,\s*given_name\).*WHERE\s+id\s*=\s*\$1\s+RETURNING\s+id,.*updated_at\s*$`
)

var memberCols = []string{"id", "email", "credential_hash", "given_name", "family_name", "phone", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func fixedID(t *testing.T, id string) {
	t.Helper()
	orig := newID
	newID = func() string { return id }
	t.Cleanup(func() { newID = orig })
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	fixedID(t, "6f1c1e4e-0000-4000-8000-000000000001")
	now := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(insertQ).
		WithArgs("6f1c1e4e-0000-4000-8000-000000000001", "a@x.com", "$2a$10$hash", "Jean", "Dupont", "").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	got, err := repo.Create(context.Background(), &models.Member{
		Email: "a@x.com", CredentialHash: "$2a$10$hash", GivenName: "Jean", FamilyName: "Dupont",
	})
	require.NoError(t, err)
	assert.Equal(t, "6f1c1e4e-0000-4000-8000-000000000001", got.ID)
	assert.Equal(t, now, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQ).WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "members_email_key"})

	_, err := repo.Create(context.Background(), &models.Member{Email: "a@x.com", CredentialHash: "h"})
	require.ErrorIs(t, err, common.ErrEmailAlreadyUsed)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQ).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Member{Email: "a@x.com"})
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(selectQ).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(memberCols).AddRow("u-1", "a@x.com", "h", "Jean", "Dupont", "06", now, now))

	got, err := repo.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)
	assert.Equal(t, "Dupont", got.FamilyName)
	assert.Equal(t, "h", got.CredentialHash)
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(selectQ).WithArgs("ghost@x.com").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@x.com")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByEmail_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(selectQ).WithArgs("a@x.com").WillReturnError(errors.New("db err"))

	_, err := repo.GetByEmail(context.Background(), "a@x.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
	assert.Contains(t, err.Error(), "db error: db err")
}

func TestPatch_OnlyNamedColumns(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now().UTC()
	phone := "0611111111"

	mock.ExpectQuery(updateQ).
		WithArgs("u-1", nil, nil, "0611111111").
		WillReturnRows(sqlmock.NewRows(memberCols).AddRow("u-1", "a@x.com", "h", "Jean", "Dupont", phone, now, now))

	got, err := repo.Patch(context.Background(), "u-1", models.ProfilePatch{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, got.Phone)
	assert.Equal(t, "Jean", got.GivenName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPatch_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	name := "Jean"

	mock.ExpectQuery(updateQ).WithArgs("missing", "Jean", nil, nil).WillReturnError(sql.ErrNoRows)

	_, err := repo.Patch(context.Background(), "missing", models.ProfilePatch{GivenName: &name})
	require.ErrorIs(t, err, common.ErrorNotFound)
}
