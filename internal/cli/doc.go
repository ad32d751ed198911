// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-interactive
// commands of journey360.
//
// With no command journey360 starts the TUI; everything else is a
// scriptable subcommand that signs in, calls the backend once and prints
// text or, with --json, a JSONResponse.
//
// # Usage
//
//	cmd, args := cli.Parse()
//	if cmd == cli.CmdTUI {
//	    return runTUI(args)
//	}
//	if err := cli.Run(ctx, cmd, args, os.Stdout); err != nil {
//	    cli.DisplayError(os.Stderr, cmd.String(), err, args.JSON)
//	    os.Exit(cli.GetExitCode(err))
//	}
//
// # Commands
//
//   - login, signup: account checks (sessions are process scoped)
//   - trips, create, itinerary, regenerate, recap: trip planning
//   - export: save an itinerary as Markdown, HTML or JSON
//   - safety: location safety assessment
//   - ask, chat: the AI travel assistant
//   - config: show, set and locate the config file
package cli
