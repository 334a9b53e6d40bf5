package directory

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/memberportal/internal/client/config"
)

// Directory is the record store consumed by the session core.
//
// Contract:
//   - FindByEmail returns (nil, nil) when no record matches.
//   - Create allocates the id and persists every supplied field. Uniqueness of
//     the email is the caller's responsibility unless the backend reports
//     common.ErrEmailAlreadyUsed.
//   - Patch writes only the named fields and returns the directory's view of
//     the record afterwards.
//   - Infrastructure failures wrap common.ErrDirectoryUnavailable.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (*UserRecord, error)
	Create(ctx context.Context, u NewUser) (*UserRecord, error)
	Patch(ctx context.Context, id string, p ProfileUpdate) (Fields, error)
	Ping(ctx context.Context) error
	Close() error
}

const (
	BackendMemory   = "memory"
	BackendAirtable = "airtable"
	BackendGRPC     = "grpc"
)

// New builds the directory backend selected in the config.
func New(cfg *config.Config) (Directory, error) {
	switch cfg.DirectoryBackend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendAirtable:
		return NewAirtable(AirtableOptions{
			BaseURL: cfg.AirtableBaseURL,
			BaseID:  cfg.AirtableBaseID,
			Table:   cfg.AirtableTable,
			Token:   cfg.AirtableToken,
			Timeout: cfg.RequestTimeout,
			Columns: Columns{
				Email:          cfg.AirtableColumns.Email,
				CredentialHash: cfg.AirtableColumns.CredentialHash,
				GivenName:      cfg.AirtableColumns.GivenName,
				FamilyName:     cfg.AirtableColumns.FamilyName,
				Phone:          cfg.AirtableColumns.Phone,
			},
		})
	case BackendGRPC:
		return NewGRPC(cfg.DirectoryEndpoint, cfg.DirectoryToken, cfg.RequestTimeout)
	default:
		return nil, fmt.Errorf("unknown directory backend %q", cfg.DirectoryBackend)
	}
}
