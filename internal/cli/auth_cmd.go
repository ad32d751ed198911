// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - Account commands.
//
// Sessions live only as long as the process, so "login" verifies the
// credentials and reports the account rather than storing a token.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jeranaias/journey360-tui/internal/session"
)

// AccountData is the JSON payload of login and signup.
type AccountData struct {
	UID          string     `json:"uid"`
	Email        string     `json:"email"`
	TokenExpires *time.Time `json:"token_expires,omitempty"`
}

// HandleLogin signs in and shows the account.
func HandleLogin(ctx context.Context, env *Env, args Args) error {
	return OutputJSON(env.Out, args.JSON, "login", func() (interface{}, error) {
		if err := env.SignIn(ctx, args); err != nil {
			return nil, err
		}
		id, _ := env.Session.CurrentUser()
		data := AccountData{UID: id.UID, Email: id.Email}
		if tok, err := env.Session.Token(ctx); err == nil {
			if exp := session.TokenExpiry(tok); !exp.IsZero() {
				data.TokenExpires = &exp
			}
		}
		if !args.JSON {
			fmt.Fprintf(env.Out, "%s Signed in as %s\n", SuccessStyle.Render("[OK]"), id.Email)
		}
		return data, nil
	})
}

// HandleSignup creates an account. The new account is left signed out, as
// the web sign-up form does.
func HandleSignup(ctx context.Context, env *Env, args Args) error {
	return OutputJSON(env.Out, args.JSON, "signup", func() (interface{}, error) {
		email, password, err := env.Credentials(args)
		if err != nil {
			return nil, err
		}
		id, err := env.Session.SignUp(ctx, email, password)
		if err != nil {
			return nil, err
		}
		if !args.JSON {
			fmt.Fprintf(env.Out, "%s Account created for %s. Sign in with: journey360 login\n",
				SuccessStyle.Render("[OK]"), id.Email)
		}
		return AccountData{UID: id.UID, Email: id.Email}, nil
	})
}
