// Package services holds the directory server's business logic on top of
// the repositories.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/memberportal/internal/common"
	"github.com/dmitrijs2005/memberportal/internal/dbx"
	"github.com/dmitrijs2005/memberportal/internal/server/models"
	"github.com/dmitrijs2005/memberportal/internal/server/repositories/repomanager"
)

type MemberService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewMemberService(db *sql.DB, m repomanager.RepositoryManager) *MemberService {
	return &MemberService{db: db, repomanager: m}
}

// FindByEmail returns common.ErrorNotFound when no member has that email.
func (s *MemberService) FindByEmail(ctx context.Context, email string) (*models.Member, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: missing email", common.ErrValidation)
	}
	return s.repomanager.Members(s.db).GetByEmail(ctx, email)
}

// Create checks for an existing email and inserts inside one transaction.
// The unique index on email closes the remaining window between the two.
func (s *MemberService) Create(ctx context.Context, m *models.Member) (*models.Member, error) {
	if strings.TrimSpace(m.Email) == "" || m.CredentialHash == "" {
		return nil, fmt.Errorf("%w: email and credential hash are required", common.ErrValidation)
	}

	var created *models.Member
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Members(tx)

		_, err := repo.GetByEmail(ctx, m.Email)
		switch {
		case err == nil:
			return common.ErrEmailAlreadyUsed
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		created, err = repo.Create(ctx, m)
		return err
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Patch updates the named profile columns of member id.
func (s *MemberService) Patch(ctx context.Context, id string, p models.ProfilePatch) (*models.Member, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: missing id", common.ErrValidation)
	}
	return s.repomanager.Members(s.db).Patch(ctx, id, p)
}

func (s *MemberService) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
