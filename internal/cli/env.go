// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jeranaias/journey360-tui/internal/api"
	"github.com/jeranaias/journey360-tui/internal/assistant"
	"github.com/jeranaias/journey360-tui/internal/config"
	"github.com/jeranaias/journey360-tui/internal/session"
)

// Credential environment variables, read when the flags are absent.
const (
	EnvEmail    = "JOURNEY360_EMAIL"
	EnvPassword = "JOURNEY360_PASSWORD"
)

// =============================================================================
// ENVIRONMENT
// =============================================================================

// Env is everything a command needs: loaded config, logger and the wired
// services. Commands write results to Out and notices to Err.
type Env struct {
	Config    *config.Config
	Logger    *slog.Logger
	Session   *session.Session
	Client    *api.Client
	Assistant *assistant.Assistant

	Out io.Writer
	Err io.Writer

	// Now is the clock used for trip defaults.
	Now func() time.Time

	// password overrides the prompt; tests set it.
	password func() (string, error)
	closer   io.Closer
}

// LoadConfig loads the config file named by --config, or the default one.
func LoadConfig(args Args) (*config.Config, error) {
	if args.ConfigPath != "" {
		return config.LoadFromPath(args.ConfigPath)
	}
	return config.Load()
}

// NewEnv loads configuration and wires the services for a command.
func NewEnv(args Args) (*Env, error) {
	cfg, err := LoadConfig(args)
	if err != nil {
		return nil, err
	}

	lc := cfg.Log
	if args.Verbose {
		lc.Level = "debug"
	}
	logger, closer, err := config.NewLogger(lc)
	if err != nil {
		return nil, err
	}

	env := NewEnvWithConfig(cfg, logger, os.Stdout, os.Stderr)
	env.closer = closer
	return env, nil
}

// NewEnvWithConfig wires services from an already loaded config.
func NewEnvWithConfig(cfg *config.Config, logger *slog.Logger, out, errOut io.Writer) *Env {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	sess := session.New(session.NewFirebaseProvider(cfg.Identity, nil))
	client := api.NewFromConfig(cfg.Backend, sess, logger)
	model := assistant.NewOpenRouterFromConfig(cfg.AI, logger)

	return &Env{
		Config:    cfg,
		Logger:    logger,
		Session:   sess,
		Client:    client,
		Assistant: assistant.New(model, client).WithLogger(logger),
		Out:       out,
		Err:       errOut,
		Now:       time.Now,
	}
}

// Close releases the log file.
func (e *Env) Close() error {
	if e.closer == nil {
		return nil
	}
	return e.closer.Close()
}

// =============================================================================
// SIGN-IN
// =============================================================================

// Credentials resolves the email and password: flag, then environment, then
// an interactive prompt.
func (e *Env) Credentials(args Args) (email, password string, err error) {
	email = strings.TrimSpace(args.Email)
	if email == "" {
		email = strings.TrimSpace(os.Getenv(EnvEmail))
	}
	if email == "" {
		if err := RequiresTTY("prompt for an email"); err != nil {
			return "", "", ErrMissingArgument("email", "journey360 --email you@example.com trips")
		}
		if email, err = promptInput(e.Err, "Email: "); err != nil {
			return "", "", err
		}
	}

	password = os.Getenv(EnvPassword)
	if password == "" {
		read := e.password
		if read == nil {
			read = func() (string, error) { return promptPassword(e.Err, "Password: ") }
		}
		if password, err = read(); err != nil {
			return "", "", err
		}
	}
	if email == "" || password == "" {
		return "", "", ErrMissingArgument("credentials", "JOURNEY360_EMAIL=you@example.com JOURNEY360_PASSWORD=... journey360 trips")
	}
	return email, password, nil
}

// SignIn signs the process-scoped session in.
func (e *Env) SignIn(ctx context.Context, args Args) error {
	if e.Session.SignedIn() {
		return nil
	}
	email, password, err := e.Credentials(args)
	if err != nil {
		return err
	}
	if err := e.Session.SignIn(ctx, email, password); err != nil {
		return err
	}
	e.Logger.Debug("signed in", "email", email)
	return nil
}

// notice writes a human-readable line to Err unless quiet.
func (e *Env) notice(args Args, format string, a ...any) {
	if args.Quiet {
		return
	}
	fmt.Fprintf(e.Err, format+"\n", a...)
}
