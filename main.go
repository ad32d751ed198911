// journey360 TUI - Plan trips, explore itineraries and check travel safety
// from the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/journey360-tui/internal/cli"
	"github.com/jeranaias/journey360-tui/internal/config"
	"github.com/jeranaias/journey360-tui/internal/ui/app"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	var err error
	if cmd == cli.CmdTUI {
		err = runTUI(ctx, args)
	} else {
		err = cli.Run(ctx, cmd, args, os.Stdout)
	}
	stop()

	if err != nil {
		// JSON errors go to stdout so scripts read one document.
		var out io.Writer = os.Stderr
		if args.JSON {
			out = os.Stdout
		}
		cli.DisplayError(out, cmd.String(), err, args.JSON)
		if cmd == cli.CmdUnknown && !args.JSON {
			fmt.Fprintln(os.Stderr)
			cli.PrintUsage(os.Stderr)
		}
		os.Exit(cli.GetExitCode(err))
	}
}

// runTUI starts the full-screen interface and blocks until it exits.
func runTUI(ctx context.Context, args cli.Args) error {
	if err := cli.RequiresTTY("start the TUI"); err != nil {
		return err
	}
	env, err := cli.NewEnv(args)
	if err != nil {
		return err
	}
	defer env.Close()

	model := app.New(app.Deps{
		Session:   env.Session,
		Backend:   env.Client,
		Assistant: env.Assistant,
		UI:        env.Config.UI,
		Logger:    env.Logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()
	watchConfig(watchCtx, args, p, env.Logger)

	env.Logger.Info("tui started", "version", Version, "backend", env.Client.BaseURL())
	final, err := p.Run()
	if m, ok := final.(app.Model); ok {
		m.Close()
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		// Interrupted by a signal.
		return nil
	}
	return err
}

// watchConfig forwards UI settings to the program whenever the config file
// changes. A missing config directory just disables hot reload.
func watchConfig(ctx context.Context, args cli.Args, p *tea.Program, logger *slog.Logger) {
	path := args.ConfigPath
	if path == "" {
		var err error
		if path, err = config.ConfigPathTOML(); err != nil {
			logger.Warn("config hot reload disabled", "error", err)
			return
		}
	}
	w, err := config.NewWatcher(path, config.DefaultWatchDebounce)
	if err != nil {
		logger.Warn("config hot reload disabled", "path", path, "error", err)
		return
	}
	go w.Run(ctx)
	go func() {
		for u := range w.Updates() {
			if u.Err != nil {
				logger.Warn("config reload failed", "path", path, "error", u.Err)
				continue
			}
			p.Send(app.ConfigChangedMsg{UI: u.Config.UI})
		}
	}()
}
