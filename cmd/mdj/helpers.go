package main

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/edgarogh/mdj/internal/api"
	"github.com/edgarogh/mdj/internal/cli"
	"github.com/edgarogh/mdj/internal/config"
	"github.com/edgarogh/mdj/internal/session"
	"github.com/edgarogh/mdj/internal/store"
	"github.com/edgarogh/mdj/internal/toast"
)

var (
	errSessionExpired = errors.New("not logged in, run `mdj login` first")
	errReported       = errors.New("the backend reported errors")
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// app is what every command needs to talk to the backend.
type app struct {
	cfg     *config.Config
	client  *api.Client
	root    *store.Root
	queue   *toast.Queue
	printer *cli.ToastPrinter
	expired atomic.Bool
}

// openApp restores the saved session and builds the stores.
func openApp(cmd *cobra.Command, options ...store.Option) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loadConfig() > %w", err)
	}

	client, err := api.NewClient(cfg.Server.BaseURL, api.Options{
		Timeout:       cfg.Timeout(),
		RetryAttempts: cfg.Server.RetryAttempts,
	})
	if err != nil {
		return nil, fmt.Errorf("api.NewClient() > %w", err)
	}
	saved, err := session.Load(cfg.Session.File)
	if err != nil {
		return nil, fmt.Errorf("session.Load() > %w", err)
	}
	client.SetCookies(saved.HTTPCookies(cfg.Server.BaseURL))

	a := &app{
		cfg:    cfg,
		client: client,
		queue:  toast.NewQueue(),
	}
	a.printer = cli.NewToastPrinter(a.queue, cmd.ErrOrStderr(), cfg.Display.Color)

	options = append([]store.Option{
		store.WithLocation(cfg.Location()),
		store.WithToastQueue(a.queue),
		store.WithSessionExpiredHandler(a.sessionExpired),
	}, options...)
	root, err := store.New(cmd.Context(), client, options...)
	if err != nil {
		return nil, fmt.Errorf("store.New() > %w", err)
	}
	a.root = root
	return a, nil
}

func (a *app) sessionExpired() {
	a.expired.Store(true)
	if err := session.Clear(a.cfg.Session.File); err != nil {
		slog.Default().Error("failed to clear the session file", "error", err)
	}
}

// close waits for background calls, prints the toasts they left and
// reports whether anything went wrong.
func (a *app) close() error {
	a.root.Wait()
	a.printer.Flush()
	if err := a.client.Close(); err != nil {
		slog.Default().Debug("failed to close the client", "error", err)
	}

	if a.expired.Load() {
		return errSessionExpired
	}
	for _, t := range a.queue.Pending() {
		if t.Severity == toast.SeverityError {
			return errReported
		}
	}
	return nil
}
