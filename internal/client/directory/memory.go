package directory

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/memberportal/internal/common"
	"github.com/google/uuid"
)

// Memory is an in-process Directory. Like the hosted backends it does not
// enforce email uniqueness.
type Memory struct {
	mu      sync.Mutex
	records map[string]UserRecord
	order   []string
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string]UserRecord)}
}

func (m *Memory) FindByEmail(ctx context.Context, email string) (*UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDirectoryUnavailable, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range m.order {
		if r := m.records[id]; r.Email == email {
			return &r, nil
		}
	}
	return nil, nil
}

func (m *Memory) Create(ctx context.Context, u NewUser) (*UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDirectoryUnavailable, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r := *u.Fields().Record("rec" + uuid.NewString())
	m.records[r.ID] = r
	m.order = append(m.order, r.ID)
	return &r, nil
}

func (m *Memory) Patch(ctx context.Context, id string, p ProfileUpdate) (Fields, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDirectoryUnavailable, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: record %s: %v", common.ErrDirectoryUnavailable, id, common.ErrorNotFound)
	}
	r.GivenName = p.GivenName
	r.FamilyName = p.FamilyName
	r.Phone = p.Phone
	m.records[id] = r

	return Fields{
		FieldEmail:          r.Email,
		FieldCredentialHash: r.CredentialHash,
		FieldGivenName:      r.GivenName,
		FieldFamilyName:     r.FamilyName,
		FieldPhone:          r.Phone,
	}, nil
}

func (m *Memory) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrDirectoryUnavailable, err)
	}
	return nil
}

func (m *Memory) Close() error { return nil }

// Len reports the number of stored records.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// Get returns a copy of the record with the given id.
func (m *Memory) Get(id string) (UserRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	return r, ok
}
