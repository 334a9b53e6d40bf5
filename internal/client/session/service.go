package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/memberportal/internal/client/directory"
	"github.com/dmitrijs2005/memberportal/internal/client/sideeffects"
	"github.com/dmitrijs2005/memberportal/internal/common"
	"github.com/dmitrijs2005/memberportal/internal/credential"
	"github.com/dmitrijs2005/memberportal/internal/logging"
)

// PostCommitHook receives the side-effect intent after the directory
// confirmed a profile write. It must not fail.
type PostCommitHook interface {
	Dispatch(ctx context.Context, in sideeffects.Intent)
}

type RegisterInput struct {
	Email      string
	Password   string
	GivenName  string
	FamilyName string
	Phone      string
}

type ProfileInput struct {
	GivenName  string
	FamilyName string
	Phone      string
}

type Service struct {
	dir     directory.Directory
	hasher  credential.Hasher
	effects PostCommitHook
	log     logging.Logger

	// registrations through one Service run one at a time so the
	// existence check and the create are not interleaved.
	regMu sync.Mutex
}

func NewService(dir directory.Directory, hasher credential.Hasher, effects PostCommitHook, log logging.Logger) *Service {
	if log == nil {
		log = logging.Nop()
	}
	return &Service{
		dir:     dir,
		hasher:  hasher,
		effects: effects,
		log:     log.With("component", "session"),
	}
}

type field struct {
	name  string
	value string
}

func required(fields ...field) error {
	var missing []string
	for _, f := range fields {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", common.ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

func (s *Service) Login(ctx context.Context, st State, email, password string) (State, error) {
	email = strings.TrimSpace(email)
	if err := required(field{"email", email}, field{"password", password}); err != nil {
		return st, err
	}

	rec, err := s.dir.FindByEmail(ctx, email)
	if err != nil {
		s.log.Warn(ctx, "login lookup failed", "error", err)
		return st, err
	}
	if rec == nil {
		s.log.Info(ctx, "login rejected", "reason", "unknown account")
		return st, common.ErrUnknownAccount
	}
	if !s.hasher.Verify(password, rec.CredentialHash) {
		s.log.Info(ctx, "login rejected", "reason", "invalid credential", "user_id", rec.ID)
		return st, common.ErrInvalidCredential
	}

	s.log.Info(ctx, "login succeeded", "user_id", rec.ID)
	return authenticatedAs(*rec), nil
}

func (s *Service) Register(ctx context.Context, st State, in RegisterInput) (State, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.GivenName = strings.TrimSpace(in.GivenName)
	in.FamilyName = strings.TrimSpace(in.FamilyName)
	in.Phone = strings.TrimSpace(in.Phone)

	if err := required(
		field{"email", in.Email},
		field{"password", in.Password},
		field{"given name", in.GivenName},
		field{"family name", in.FamilyName},
	); err != nil {
		return st, err
	}
	if limit := credential.MaxPasswordBytes(s.hasher); limit > 0 && len(in.Password) > limit {
		return st, fmt.Errorf("%w: password longer than %d bytes", common.ErrValidation, limit)
	}

	s.regMu.Lock()
	defer s.regMu.Unlock()

	existing, err := s.dir.FindByEmail(ctx, in.Email)
	if err != nil {
		s.log.Warn(ctx, "registration lookup failed", "error", err)
		return st, err
	}
	if existing != nil {
		s.log.Info(ctx, "registration rejected", "reason", "email already used")
		return st, common.ErrEmailAlreadyUsed
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.log.Error(ctx, "hashing credential failed", "error", err)
		return st, fmt.Errorf("hash credential: %w", err)
	}

	created, err := s.dir.Create(ctx, directory.NewUser{
		Email:          in.Email,
		CredentialHash: hash,
		GivenName:      in.GivenName,
		FamilyName:     in.FamilyName,
		Phone:          in.Phone,
	})
	if err != nil {
		if errors.Is(err, common.ErrEmailAlreadyUsed) {
			s.log.Info(ctx, "registration rejected by directory", "reason", "email already used")
		} else {
			s.log.Warn(ctx, "registration create failed", "error", err)
		}
		return st, err
	}

	s.log.Info(ctx, "registration succeeded", "user_id", created.ID)
	return authenticatedAs(*created), nil
}

func (s *Service) UpdateProfile(ctx context.Context, st State, in ProfileInput) (State, error) {
	if !st.authenticated {
		return st, common.ErrNotAuthenticated
	}

	view, err := s.dir.Patch(ctx, st.user.ID, directory.ProfileUpdate{
		GivenName:  in.GivenName,
		FamilyName: in.FamilyName,
		Phone:      in.Phone,
	})
	if err != nil {
		s.log.Warn(ctx, "profile update failed", "user_id", st.user.ID, "error", err)
		return st, err
	}

	next := st
	next.user = merge(st.user, view)
	s.log.Info(ctx, "profile updated", "user_id", next.user.ID)

	s.dispatch(ctx, sideeffects.Intent{
		GivenName:  next.user.GivenName,
		FamilyName: next.user.FamilyName,
		Phone:      next.user.Phone,
	})
	return next, nil
}

func (s *Service) dispatch(ctx context.Context, in sideeffects.Intent) {
	if s.effects == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.Error(ctx, "post-commit hook panicked", "panic", fmt.Sprint(r))
		}
	}()
	s.effects.Dispatch(ctx, in)
}

// Logout makes no directory call.
func (s *Service) Logout(ctx context.Context, st State) State {
	if st.authenticated {
		s.log.Info(ctx, "logout", "user_id", st.user.ID)
	}
	return st.Logout()
}
