// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// export_cmd.go - Save an itinerary to a file.
//
// Examples:
//   journey360 export 6f1c
//   journey360 export 6f1c --format html --out ~/trips --open
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeranaias/journey360-tui/internal/export"
)

// ExportData is the JSON payload of the export command.
type ExportData struct {
	TripID   string `json:"trip_id"`
	Path     string `json:"path"`
	MimeType string `json:"mime_type"`
}

// HandleExport fetches a trip's itinerary and writes it to a file.
func HandleExport(ctx context.Context, env *Env, args Args) error {
	if args.TripID == "" {
		return ErrMissingArgument("trip-id", "journey360 export <trip-id> --format html")
	}
	opts := export.DefaultOptions()
	opts.OutputDir = strings.TrimSpace(args.Options["out"])
	opts.OpenAfterExport = args.Options["open"] != ""
	opts.Theme = env.Config.UI.Theme
	opts.Now = env.Now
	opts.Logger = env.Logger

	exporter, err := export.ForFormat(args.Options["format"], opts)
	if err != nil {
		return ErrInvalidValue("format", args.Options["format"], "want md, html or json")
	}
	if err := env.SignIn(ctx, args); err != nil {
		return err
	}
	return OutputJSON(env.Out, args.JSON, "export", func() (interface{}, error) {
		it, err := env.Client.GetItinerary(ctx, args.TripID)
		if err != nil {
			return nil, err
		}
		path, err := export.ExportToFile(it, exporter, opts)
		if err != nil {
			return nil, &CommandError{Command: "export", Action: "write", Reason: "could not save the itinerary", Err: err}
		}
		if !args.JSON {
			fmt.Fprintf(env.Out, "%s Saved %s\n", SuccessStyle.Render("[OK]"), path)
		}
		return ExportData{TripID: args.TripID, Path: path, MimeType: exporter.MimeType()}, nil
	})
}
