package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/memberportal/internal/client/config"
	"github.com/dmitrijs2005/memberportal/internal/client/directory"
	"github.com/dmitrijs2005/memberportal/internal/client/session"
	"github.com/dmitrijs2005/memberportal/internal/common"
	"github.com/dmitrijs2005/memberportal/internal/credential"
	"github.com/dmitrijs2005/memberportal/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := getPassword
	t.Cleanup(func() { getPassword = orig })
	getPassword = func(io.Writer) (string, error) {
		require.NotEmpty(t, pws, "unexpected password prompt")
		pw := pws[0]
		pws = pws[1:]
		return pw, nil
	}
}

func newTestApp(t *testing.T, input string) (*App, *directory.Memory) {
	t.Helper()
	dir := directory.NewMemory()
	svc := session.NewService(dir, credential.NewMulti(credential.NewBcrypt(bcrypt.MinCost)), nil, logging.Nop())
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return newApp(cfg, dir, svc, logging.Nop(), strings.NewReader(input), &bytes.Buffer{}), dir
}

func TestApp_RegisterUpdateLogoutLogin(t *testing.T) {
	out := captureOutput(t)
	stubPasswords(t, "secret123", "secret123")

	input := strings.Join([]string{
		"a@x.com", "Jean", "Dupont", "0600000000", // register
		"", "", "0611111111", // profile
		"a@x.com", // login
	}, "\n") + "\n"
	app, dir := newTestApp(t, input)
	ctx := context.Background()

	require.NoError(t, app.Register(ctx))
	require.True(t, app.isLoggedIn())
	assert.Equal(t, 1, dir.Len())
	assert.Contains(t, *out, "== Hello, Jean ==")

	require.NoError(t, app.Settings(ctx))
	assert.Contains(t, *out, "Email:       a@x.com (read-only)")

	require.NoError(t, app.UpdateProfile(ctx))
	p, _ := app.state.Profile()
	assert.Equal(t, "Jean", p.GivenName)
	assert.Equal(t, "Dupont", p.FamilyName)
	assert.Equal(t, "0611111111", p.Phone)
	assert.Equal(t, session.PageSettings, app.state.Page())

	require.NoError(t, app.Logout(ctx))
	assert.False(t, app.isLoggedIn())
	assert.Equal(t, session.Initial(), app.state)

	require.NoError(t, app.Login(ctx))
	p, _ = app.state.Profile()
	assert.Equal(t, "0611111111", p.Phone)
	assert.Equal(t, session.PageHome, app.state.Page())
}

func TestApp_LoginFailureKeepsAnonymous(t *testing.T) {
	captureOutput(t)
	stubPasswords(t, "wrongpw")

	app, dir := newTestApp(t, "a@x.com\n")
	_, err := dir.Create(context.Background(), directory.NewUser{Email: "a@x.com", CredentialHash: "$2a$04$invalid"})
	require.NoError(t, err)

	err = app.Login(context.Background())
	require.ErrorIs(t, err, common.ErrInvalidCredential)
	assert.False(t, app.isLoggedIn())
	assert.Equal(t, session.AuthModeLogin, app.state.AuthMode())
}

func TestApp_RegisterValidationKeepsRegisterForm(t *testing.T) {
	captureOutput(t)
	stubPasswords(t, "secret123")

	app, dir := newTestApp(t, "a@x.com\n\nDupont\n\n")
	err := app.Register(context.Background())
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, session.AuthModeRegister, app.state.AuthMode())
	assert.Zero(t, dir.Len())
}

func TestApp_NavigationAndStatus(t *testing.T) {
	out := captureOutput(t)
	app, _ := newTestApp(t, "")
	ctx := context.Background()

	assert.Equal(t, "(login)", app.status())
	require.NoError(t, app.Switch(ctx))
	assert.Equal(t, "(register)", app.status())
	assert.Contains(t, *out, "== Create your account ==")
	require.NoError(t, app.Switch(ctx))
	assert.Equal(t, "(login)", app.status())

	// navigation while anonymous is ignored
	require.NoError(t, app.Settings(ctx))
	assert.False(t, app.isLoggedIn())

	err := app.UpdateProfile(ctx)
	require.ErrorIs(t, err, common.ErrNotAuthenticated)

	app.setMode(ModeOnline)
	assert.Equal(t, "(login online)", app.status())
}

func TestGreeting(t *testing.T) {
	assert.Equal(t, "Hello, Jean", Greeting(directory.Profile{GivenName: "Jean"}))
	assert.Equal(t, "Hello, Member", Greeting(directory.Profile{GivenName: "  "}))
}

type pingDirectory struct {
	*directory.Memory
	err error
}

func (p *pingDirectory) Ping(context.Context) error { return p.err }

func TestApp_CheckOnline(t *testing.T) {
	dir := &pingDirectory{Memory: directory.NewMemory()}
	app := newApp(&config.Config{}, dir, nil, logging.Nop(), strings.NewReader(""), io.Discard)

	app.checkOnline(context.Background())
	assert.Equal(t, ModeOnline, app.Mode())

	dir.err = common.ErrDirectoryUnavailable
	app.checkOnline(context.Background())
	assert.Equal(t, ModeOffline, app.Mode())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dir.err = nil
	app.checkOnline(ctx)
	assert.Equal(t, ModeOffline, app.Mode())
}

func TestApp_StartOnlineStatusWatcherStopsOnCancel(t *testing.T) {
	dir := &pingDirectory{Memory: directory.NewMemory()}
	app := newApp(&config.Config{}, dir, nil, logging.Nop(), strings.NewReader(""), io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.StartOnlineStatusWatcher(ctx, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return app.Mode() == ModeOnline }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestApp_RunExitsOnQuit(t *testing.T) {
	captureOutput(t)
	app, _ := newTestApp(t, "help\nquit\n")
	app.config.OnlineCheckInterval = 0
	app.Run(context.Background())
}
