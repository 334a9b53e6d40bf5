package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/memberportal/internal/client/directory"
	"github.com/dmitrijs2005/memberportal/internal/client/session"
	"github.com/dmitrijs2005/memberportal/internal/common"
)

// Greeting is the home page headline.
func Greeting(p directory.Profile) string {
	name := strings.TrimSpace(p.GivenName)
	if name == "" {
		name = "Member"
	}
	return fmt.Sprintf("Hello, %s", name)
}

// renderPage returns the lines shown for a session snapshot.
func renderPage(snap session.Snapshot) []string {
	if !snap.Authenticated {
		if snap.AuthMode == session.AuthModeRegister {
			return []string{
				"== Create your account ==",
				"Type 'register' to sign up or 'switch' to log in instead.",
			}
		}
		return []string{
			"== Member login ==",
			"Type 'login' to sign in or 'switch' to create an account.",
		}
	}

	p := snap.Profile
	if snap.Page == session.PageSettings {
		return []string{
			"== My information ==",
			"Given name:  " + p.GivenName,
			"Family name: " + p.FamilyName,
			"Phone:       " + p.Phone,
			"Email:       " + p.Email + " (read-only)",
			"Type 'profile' to edit, 'home' to go back.",
		}
	}
	return []string{
		"== " + Greeting(*p) + " ==",
		"Type 'settings' to see your information or 'logout' to leave.",
	}
}

// describe turns a session error into a message for the member.
func describe(err error) string {
	switch {
	case errors.Is(err, common.ErrValidation):
		return "please fill in all required fields (" + err.Error() + ")"
	case errors.Is(err, common.ErrUnknownAccount):
		return "unknown email"
	case errors.Is(err, common.ErrInvalidCredential):
		return "incorrect password"
	case errors.Is(err, common.ErrEmailAlreadyUsed):
		return "this email is already registered"
	case errors.Is(err, common.ErrNotAuthenticated):
		return "please log in first"
	case errors.Is(err, common.ErrDirectoryUnavailable):
		return "the member directory is unavailable, please try again"
	default:
		return err.Error()
	}
}
