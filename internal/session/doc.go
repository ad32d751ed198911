// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks the signed-in traveller and supplies bearer tokens.
//
// A Session is created once per process and passed explicitly to the API
// client and to every page. It never persists credentials to disk: closing
// the terminal signs the user out, like a browser tab with session storage.
//
// # Key Types
//
//   - Session: current user, token refresh and sign-in/out notifications
//   - Provider: the identity backend (FirebaseProvider talks to Identity Toolkit)
//   - Identity: the public part of a signed-in user
//   - Watch: adapts notifications into Bubble Tea messages
//
// # Usage
//
//	s := session.New(session.NewFirebaseProvider(cfg.Identity, nil))
//	if err := s.SignIn(ctx, email, password); err != nil {
//	    return err
//	}
//	token, err := s.Token(ctx)
package session
