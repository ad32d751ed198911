// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - The "config" command.
//
// Examples:
//   journey360 config show
//   journey360 config set backend.url https://api.journey360.example
//   journey360 config set ai.openrouter_key sk-or-...
//   journey360 config path
package cli

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/journey360-tui/internal/config"
)

// HandleConfig handles the "config" command.
func HandleConfig(w io.Writer, args Args) error {
	switch args.Subcommand {
	case "", "show":
		return handleConfigShow(w, args)
	case "set":
		return handleConfigSet(w, args)
	case "path":
		return handleConfigPath(w, args)
	default:
		return ErrInvalidValue("subcommand", args.Subcommand, "want show, set or path")
	}
}

// configPath is --config or the default location.
func configPath(args Args) (string, error) {
	if args.ConfigPath != "" {
		return args.ConfigPath, nil
	}
	return config.ConfigPathTOML()
}

// ConfigEntry is one key of config show.
type ConfigEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ConfigData is the JSON payload of config show.
type ConfigData struct {
	Path    string        `json:"path"`
	Exists  bool          `json:"exists"`
	Entries []ConfigEntry `json:"entries"`
}

func handleConfigShow(w io.Writer, args Args) error {
	return OutputJSON(w, args.JSON, "config show", func() (interface{}, error) {
		cfg, err := LoadConfig(args)
		if err != nil {
			return nil, err
		}
		path, _ := configPath(args)
		_, statErr := os.Stat(path)
		data := ConfigData{Path: path, Exists: statErr == nil}
		for _, key := range config.GetAllKeys() {
			v, err := cfg.Get(key)
			if err != nil {
				continue
			}
			data.Entries = append(data.Entries, ConfigEntry{Key: key, Value: maskIfSecret(key, fmt.Sprint(v))})
		}
		if !args.JSON {
			printConfig(w, data)
		}
		return data, nil
	})
}

func printConfig(w io.Writer, data ConfigData) {
	fmt.Fprintln(w, TitleStyle.Render("journey360 Configuration"))
	section := ""
	for _, e := range data.Entries {
		sec, name, found := strings.Cut(e.Key, ".")
		if !found {
			sec, name = "", e.Key
		}
		if sec != section {
			section = sec
			fmt.Fprintln(w, SectionStyle.Render("["+sec+"]"))
		}
		fmt.Fprintf(w, "  %s%s\n", RenderLabel(name+":", 22), ValueStyle.Render(e.Value))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, RenderSeparator(41))
	note := ""
	if !data.Exists {
		note = DimStyle.Render(" (not created yet)")
	}
	fmt.Fprintf(w, "Config file: %s%s\n", data.Path, note)
}

// handleConfigSet writes one key to the config file. Only the file is
// loaded, so values coming from the environment are never persisted.
func handleConfigSet(w io.Writer, args Args) error {
	if args.ConfigKey == "" {
		return ErrMissingArgument("key", "journey360 config set ui.theme light")
	}
	if args.ConfigVal == "" {
		return ErrMissingArgument("value", "journey360 config set "+args.ConfigKey+" <value>")
	}
	path, err := configPath(args)
	if err != nil {
		return err
	}

	cfg := config.Default()
	if _, err := os.Stat(path); err == nil {
		if err := config.LoadTOML(cfg, path); err != nil {
			return &CommandError{Command: "config", Action: "set", Reason: "could not read " + path, Err: err}
		}
	}
	if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
		return ErrInvalidValue(args.ConfigKey, maskIfSecret(args.ConfigKey, args.ConfigVal), err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := config.SaveTOML(cfg, path); err != nil {
		return err
	}

	shown := maskIfSecret(args.ConfigKey, args.ConfigVal)
	if args.JSON {
		return NewJSONResponse("config set", ConfigEntry{Key: args.ConfigKey, Value: shown}).Write(w)
	}
	fmt.Fprintf(w, "%s %s = %s\n", SuccessStyle.Render("[OK]"), args.ConfigKey, shown)
	return nil
}

func handleConfigPath(w io.Writer, args Args) error {
	path, err := configPath(args)
	if err != nil {
		return err
	}
	_, statErr := os.Stat(path)
	if args.JSON {
		return NewJSONResponse("config path", map[string]interface{}{
			"path":   path,
			"exists": statErr == nil,
		}).Write(w)
	}
	fmt.Fprintln(w, path)
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// maskAPIKey shows a short fingerprint instead of any part of the key.
func maskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("sha256:%x...", hash[:4])
}

// maskIfSecret masks the value if the key holds a credential.
func maskIfSecret(key, value string) string {
	if config.IsSecretKey(strings.ToLower(key)) {
		return maskAPIKey(value)
	}
	return value
}
