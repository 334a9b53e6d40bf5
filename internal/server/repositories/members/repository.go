package members

import (
	"context"

	"github.com/dmitrijs2005/memberportal/internal/server/models"
)

// Repository persists members.
//
// GetByEmail and Patch return common.ErrorNotFound when no row matches;
// Create returns common.ErrEmailAlreadyUsed on a unique violation.
type Repository interface {
	Create(ctx context.Context, m *models.Member) (*models.Member, error)
	GetByEmail(ctx context.Context, email string) (*models.Member, error)
	Patch(ctx context.Context, id string, p models.ProfilePatch) (*models.Member, error)
}
