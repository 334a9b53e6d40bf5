package grpc

import (
	"context"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/memberportal/internal/common"
	"github.com/dmitrijs2005/memberportal/internal/logging"
	"github.com/dmitrijs2005/memberportal/internal/server/models"
)

// fakeMembers is an in-memory MemberService. The err fields, when set,
// short-circuit the matching method.
type fakeMembers struct {
	mu      sync.Mutex
	byEmail map[string]*models.Member
	seq     int

	findErr   error
	createErr error
	patchErr  error
	pingErr   error

	patchCalls int
	lastPatch  models.ProfilePatch
}

func newFakeMembers() *fakeMembers {
	return &fakeMembers{byEmail: map[string]*models.Member{}}
}

func (f *fakeMembers) FindByEmail(_ context.Context, email string) (*models.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findErr != nil {
		return nil, f.findErr
	}
	m, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *m
	return &c, nil
}

func (f *fakeMembers) Create(_ context.Context, m *models.Member) (*models.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[m.Email]; ok {
		return nil, common.ErrEmailAlreadyUsed
	}
	f.seq++
	c := *m
	c.ID = "m" + strconv.Itoa(f.seq)
	f.byEmail[c.Email] = &c
	out := c
	return &out, nil
}

func (f *fakeMembers) Patch(_ context.Context, id string, p models.ProfilePatch) (*models.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.patchCalls++
	f.lastPatch = p
	if f.patchErr != nil {
		return nil, f.patchErr
	}
	for _, m := range f.byEmail {
		if m.ID != id {
			continue
		}
		if p.GivenName != nil {
			m.GivenName = *p.GivenName
		}
		if p.FamilyName != nil {
			m.FamilyName = *p.FamilyName
		}
		if p.Phone != nil {
			m.Phone = *p.Phone
		}
		c := *m
		return &c, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeMembers) Ping(context.Context) error { return f.pingErr }

func newTestServer(members MemberService) *DirectoryServer {
	return NewDirectoryServer("127.0.0.1:0", "", logging.Nop(), members, "secret")
}
