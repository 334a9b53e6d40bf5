package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/memberportal/internal/client/session"
)

// getSimpleText, getTextWithDefault and getPassword are indirections swapped
// in tests.
var (
	getSimpleText      = GetSimpleText
	getTextWithDefault = GetTextWithDefault
	getPassword        = GetPassword
)

func (a *App) isLoggedIn() bool {
	return a.state.Authenticated()
}

func (a *App) status() string {
	var s string
	if p, ok := a.state.Profile(); ok {
		s = p.Email + " " + a.state.Page().String()
	} else {
		s = a.state.AuthMode().String()
	}
	if m := a.Mode(); m != "" {
		s += " " + string(m)
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) render() {
	for _, line := range renderPage(a.state.Snapshot()) {
		printlnFn(line)
	}
}

// apply installs next as the current state and redraws the page.
func (a *App) apply(next session.State) {
	a.state = next
	a.render()
}

func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		printlnFn("Already logged in; logout first.")
		return nil
	}
	a.apply(a.state.SwitchToLogin())

	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	next, err := a.session.Login(ctx, a.state, email, password)
	if err != nil {
		return err
	}
	printlnFn("Login successful!")
	a.apply(next)
	return nil
}

func (a *App) Register(ctx context.Context) error {
	if a.isLoggedIn() {
		printlnFn("Already logged in; logout first.")
		return nil
	}
	a.apply(a.state.SwitchToRegister())

	var in session.RegisterInput
	var err error
	if in.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}
	if in.Password, err = getPassword(a.out); err != nil {
		return err
	}
	if in.GivenName, err = getSimpleText(a.reader, "Given name", a.out); err != nil {
		return err
	}
	if in.FamilyName, err = getSimpleText(a.reader, "Family name", a.out); err != nil {
		return err
	}
	if in.Phone, err = getSimpleText(a.reader, "Phone (optional)", a.out); err != nil {
		return err
	}

	next, err := a.session.Register(ctx, a.state, in)
	if err != nil {
		return err
	}
	printlnFn("Account created!")
	a.apply(next)
	return nil
}

// Switch toggles between the login and register forms.
func (a *App) Switch(ctx context.Context) error {
	if a.isLoggedIn() {
		return nil
	}
	if a.state.AuthMode() == session.AuthModeLogin {
		a.apply(a.state.SwitchToRegister())
	} else {
		a.apply(a.state.SwitchToLogin())
	}
	return nil
}

func (a *App) Home(ctx context.Context) error {
	a.apply(a.state.OpenHome())
	return nil
}

func (a *App) Settings(ctx context.Context) error {
	a.apply(a.state.OpenSettings())
	return nil
}

func (a *App) UpdateProfile(ctx context.Context) error {
	current, ok := a.state.Profile()
	if !ok {
		_, err := a.session.UpdateProfile(ctx, a.state, session.ProfileInput{})
		return err
	}
	a.apply(a.state.OpenSettings())

	var in session.ProfileInput
	var err error
	if in.GivenName, err = getTextWithDefault(a.reader, "Given name", current.GivenName, a.out); err != nil {
		return err
	}
	if in.FamilyName, err = getTextWithDefault(a.reader, "Family name", current.FamilyName, a.out); err != nil {
		return err
	}
	if in.Phone, err = getTextWithDefault(a.reader, "Phone", current.Phone, a.out); err != nil {
		return err
	}

	next, err := a.session.UpdateProfile(ctx, a.state, in)
	if err != nil {
		return err
	}
	printlnFn("Profile updated!")
	a.apply(next)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.apply(a.session.Logout(ctx, a.state))
	return nil
}
