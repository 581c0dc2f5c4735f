// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/olegiv/cmsadmin/internal/apiclient"
	"github.com/olegiv/cmsadmin/internal/catalog"
	"github.com/olegiv/cmsadmin/internal/config"
	"github.com/olegiv/cmsadmin/internal/logging"
	"github.com/olegiv/cmsadmin/internal/manager"
	"github.com/olegiv/cmsadmin/internal/notify"
	"github.com/olegiv/cmsadmin/internal/thumbnail"
	"github.com/olegiv/cmsadmin/internal/upload"
	"github.com/olegiv/cmsadmin/internal/version"
)

// Exit codes. Unreachable backends exit with exitSysError; everything
// else the user can fix exits with exitUserError.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// app holds what every command shares once configuration is loaded.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	version version.Info

	// flags
	flagAPIURL  string
	flagToken   string
	flagRole    string
	flagNoColor bool

	cfg     *config.Config
	logger  *slog.Logger
	center  *notify.Center
	catalog *catalog.Catalog
	client  *apiclient.Client
	role    catalog.Role
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
		catalog: catalog.Default(),
		center:  notify.NewCenter(0),
	}
}

// reportedError marks failures the notification center already showed.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// run executes args and returns the process exit code.
func (a *app) run(ctx context.Context, args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitSuccess
	}

	var re *reportedError
	if !errors.As(err, &re) {
		_, _ = fmt.Fprintln(a.stderr, "Error:", err)
	}

	if apiclient.IsTransport(err) {
		return exitSysError
	}
	return exitUserError
}

// usageError is a mistake in the command line itself.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cmsadmin",
		Short:         "Manage CMS resources",
		Long:          "cmsadmin lists, creates, edits and deletes CMS resources over the REST API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.flagAPIURL, "api-url", "", "API base URL (overrides CMSADMIN_API_BASE_URL)")
	root.PersistentFlags().StringVar(&a.flagToken, "token", "", "bearer token (overrides CMSADMIN_API_TOKEN)")
	root.PersistentFlags().StringVar(&a.flagRole, "role", "", "acting role (overrides CMSADMIN_ROLE)")
	root.PersistentFlags().BoolVar(&a.flagNoColor, "no-color", false, "disable colored output")

	root.AddCommand(
		a.resourcesCmd(),
		a.listCmd(),
		a.getCmd(),
		a.createCmd(),
		a.editCmd(),
		a.deleteCmd(),
		a.uploadCmd(),
		a.sessionCmd(),
		a.versionCmd(),
	)
	return root
}

// setup loads configuration, applies flag overrides and builds the
// logger, notification printer and API client.
func (a *app) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.flagAPIURL != "" {
		cfg.APIBaseURL = a.flagAPIURL
	}
	if a.flagToken != "" {
		cfg.APIToken = a.flagToken
	}
	if a.flagRole != "" {
		cfg.Role = a.flagRole
	}
	if err := cfg.Validate(); err != nil {
		return usagef("%v", err)
	}
	a.cfg = cfg
	a.role = catalog.Role(cfg.Role)

	printer := notify.NewPrinter(a.stderr, a.flagNoColor)
	a.center.Subscribe(printer.Print)

	textHandler := slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	a.logger = slog.New(logging.NewNotifyHandler(textHandler, a.center))

	a.client, err = apiclient.New(apiclient.Options{
		BaseURL:   cfg.APIBaseURL,
		Token:     cfg.APIToken,
		Timeout:   cfg.RequestTimeout,
		RateLimit: cfg.RateLimit,
		Logger:    a.logger,
	})
	if err != nil {
		return err
	}
	a.logger.Debug("configured", "api", cfg.APIBaseURL, "role", cfg.Role)
	return nil
}

// authorize looks up a resource and checks the acting role.
func (a *app) authorize(name string, want catalog.Permission) (catalog.Definition, error) {
	if err := a.catalog.Authorize(a.role, name, want); err != nil {
		var accessErr *catalog.AccessError
		if errors.As(err, &accessErr) {
			return catalog.Definition{}, err
		}
		return catalog.Definition{}, usagef("%v (see 'cmsadmin resources')", err)
	}
	def, _ := a.catalog.Lookup(name)
	return def, nil
}

func (a *app) uploader() *upload.Uploader {
	return upload.NewUploader(a.client, upload.Options{
		Path:    a.cfg.UploadPath,
		MaxSize: a.cfg.MaxUploadSize,
		Logger:  a.logger,
	})
}

// manager builds the Resource Manager for def.
func (a *app) manager(def catalog.Definition, pageSize int) (*manager.Manager[apiclient.Record], error) {
	thumbs, err := thumbnail.New(thumbnail.Options{})
	if err != nil {
		return nil, err
	}
	if pageSize <= 0 {
		pageSize = a.cfg.PageSize
	}
	return manager.New[apiclient.Record](a.client, def, manager.Options{
		PageSize:    pageSize,
		Debounce:    a.cfg.SearchDebounce,
		Resolver:    upload.NewAdapter(a.uploader(), upload.DefaultConcurrency, a.logger),
		Thumbnailer: thumbs,
		Notifier:    a.center,
		Logger:      a.logger,
	}), nil
}
