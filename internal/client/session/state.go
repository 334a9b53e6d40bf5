// Package session holds the member session state machine and the operations
// that move it: login, registration, profile update and navigation.
//
// State is a value. Every operation takes the current State and returns the
// next one; a failed operation returns its input unchanged.
package session

import "github.com/dmitrijs2005/memberportal/internal/client/directory"

type AuthMode int

const (
	AuthModeLogin AuthMode = iota
	AuthModeRegister
)

func (m AuthMode) String() string {
	if m == AuthModeRegister {
		return "register"
	}
	return "login"
}

type Page int

const (
	PageHome Page = iota
	PageSettings
)

func (p Page) String() string {
	if p == PageSettings {
		return "settings"
	}
	return "home"
}

// State is either Anonymous{AuthMode} or Authenticated{user, Page}. The zero
// value is Anonymous{Login}.
type State struct {
	authenticated bool
	mode          AuthMode
	page          Page
	user          directory.UserRecord
}

// Initial returns Anonymous{Login}.
func Initial() State {
	return State{}
}

func authenticatedAs(u directory.UserRecord) State {
	return State{authenticated: true, page: PageHome, user: u}
}

func (s State) Authenticated() bool { return s.authenticated }

// AuthMode is meaningful only while anonymous.
func (s State) AuthMode() AuthMode { return s.mode }

// Page is meaningful only while authenticated.
func (s State) Page() Page { return s.page }

// Profile returns the cached member without the credential hash.
func (s State) Profile() (directory.Profile, bool) {
	if !s.authenticated {
		return directory.Profile{}, false
	}
	return s.user.Profile(), true
}

// Snapshot is a read-only view of a State for presentation.
type Snapshot struct {
	Authenticated bool
	AuthMode      AuthMode
	Page          Page
	Profile       *directory.Profile
}

func (s State) Snapshot() Snapshot {
	snap := Snapshot{Authenticated: s.authenticated}
	if !s.authenticated {
		snap.AuthMode = s.mode
		return snap
	}
	p := s.user.Profile()
	snap.Page = s.page
	snap.Profile = &p
	return snap
}

// Logout discards the session payload. Valid from any state.
func (s State) Logout() State {
	return Initial()
}

func (s State) SwitchToLogin() State {
	if s.authenticated {
		return s
	}
	return State{mode: AuthModeLogin}
}

func (s State) SwitchToRegister() State {
	if s.authenticated {
		return s
	}
	return State{mode: AuthModeRegister}
}

func (s State) OpenHome() State {
	if !s.authenticated {
		return s
	}
	s.page = PageHome
	return s
}

func (s State) OpenSettings() State {
	if !s.authenticated {
		return s
	}
	s.page = PageSettings
	return s
}

// merge applies the fields reported by the directory after a profile write.
// Missing keys keep the cached value; email and credential hash never change
// on this path.
func merge(u directory.UserRecord, f directory.Fields) directory.UserRecord {
	if v, ok := f[directory.FieldGivenName]; ok {
		u.GivenName = v
	}
	if v, ok := f[directory.FieldFamilyName]; ok {
		u.FamilyName = v
	}
	if v, ok := f[directory.FieldPhone]; ok {
		u.Phone = v
	}
	return u
}
