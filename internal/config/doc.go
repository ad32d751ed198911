// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for journey360.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - BackendConfig: Trip API location, timeouts and client-side rate limit
//   - IdentityConfig: Firebase Identity Toolkit endpoints and API key
//   - AIConfig: OpenRouter key and model for the chat assistant
//   - Watcher: fsnotify-based hot reload of the config file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (JOURNEY360_*, VITE_BACKEND_URL)
//   - .env in the working directory
//   - ~/.journey360/config.toml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logger, closer, err := config.NewLogger(cfg.Log)
package config
