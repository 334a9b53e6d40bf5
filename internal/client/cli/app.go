package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/memberportal/internal/client/config"
	"github.com/dmitrijs2005/memberportal/internal/client/directory"
	"github.com/dmitrijs2005/memberportal/internal/client/session"
	"github.com/dmitrijs2005/memberportal/internal/client/sideeffects"
	"github.com/dmitrijs2005/memberportal/internal/credential"
	"github.com/dmitrijs2005/memberportal/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config  *config.Config
	dir     directory.Directory
	session *session.Service
	log     logging.Logger
	reader  *bufio.Reader
	out     io.Writer

	// state is owned by the REPL goroutine.
	state session.State

	mu   sync.Mutex
	mode Mode
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.New(os.Stderr, c.LogLevel, "text")

	dir, err := directory.New(c)
	if err != nil {
		return nil, fmt.Errorf("directory: %w", err)
	}

	hasher, err := credential.New(c.HashAlgorithm)
	if err != nil {
		_ = dir.Close()
		return nil, err
	}

	effects, err := sideeffects.New(ctx, c, log)
	if err != nil {
		_ = dir.Close()
		return nil, fmt.Errorf("side effects: %w", err)
	}

	svc := session.NewService(dir, hasher, effects, log)
	return newApp(c, dir, svc, log, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, dir directory.Directory, svc *session.Service, log logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		config:  c,
		dir:     dir,
		session: svc,
		log:     log,
		reader:  bufio.NewReader(in),
		out:     out,
		state:   session.Initial(),
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(context.Background(), "directory connectivity changed", "mode", string(mode))
	}
}

// Run starts the status watcher and blocks in the REPL until the user exits
// or input ends.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.dir.Close(); err != nil {
			a.log.Warn(ctx, "closing directory", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	printlnFn("Welcome to the member portal (type 'help' for commands)")
	a.render()
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	err := a.dir.Ping(pingCtx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
