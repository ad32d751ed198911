// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
)

// handler runs one command against a wired Env.
type handler func(ctx context.Context, env *Env, args Args) error

var handlers = map[Command]handler{
	CmdLogin:      HandleLogin,
	CmdSignup:     HandleSignup,
	CmdTrips:      HandleTrips,
	CmdCreate:     HandleCreate,
	CmdItinerary:  HandleItinerary,
	CmdRegenerate: HandleRegenerate,
	CmdRecap:      HandleRecap,
	CmdExport:     HandleExport,
	CmdSafety:     HandleSafety,
	CmdAsk:        HandleAsk,
	CmdChat:       HandleChat,
}

// Run executes every command except the TUI. Commands that need no services
// (help, version, config) run without loading them.
func Run(ctx context.Context, cmd Command, args Args, out io.Writer) error {
	switch cmd {
	case CmdHelp:
		HandleHelp(out)
		return nil
	case CmdVersion:
		return HandleVersion(out, args)
	case CmdConfig:
		return HandleConfig(out, args)
	case CmdUnknown:
		return ErrInvalidValue("command", args.Subcommand, "see journey360 help")
	case CmdTUI:
		return fmt.Errorf("the TUI is started by main")
	}

	if _, ok := handlers[cmd]; !ok {
		return ErrInvalidValue("command", cmd.String(), "see journey360 help")
	}
	env, err := NewEnv(args)
	if err != nil {
		return err
	}
	defer env.Close()
	env.Out = out
	return RunWith(ctx, env, cmd, args)
}

// RunWith executes a service command against an existing Env.
func RunWith(ctx context.Context, env *Env, cmd Command, args Args) error {
	h, ok := handlers[cmd]
	if !ok {
		return ErrInvalidValue("command", cmd.String(), "see journey360 help")
	}
	env.Logger.Debug("command", "name", cmd.String())
	return h(ctx, env, args)
}
