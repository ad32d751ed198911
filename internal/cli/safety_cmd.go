// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeranaias/journey360-tui/internal/trip"
	"github.com/jeranaias/journey360-tui/internal/util"
)

// HandleSafety assesses a location; with no argument it uses the configured
// default location.
func HandleSafety(ctx context.Context, env *Env, args Args) error {
	loc := strings.TrimSpace(args.Query)
	if loc == "" {
		loc = util.FirstNonEmpty(strings.TrimSpace(env.Config.UI.SafetyLocation), trip.DefaultSafetyLocation)
	}
	if err := env.SignIn(ctx, args); err != nil {
		return err
	}
	return OutputJSON(env.Out, args.JSON, "safety", func() (interface{}, error) {
		a, err := env.Client.AssessSafety(ctx, loc)
		if err != nil {
			return nil, err
		}
		if !args.JSON {
			printSafety(env, loc, a)
		}
		return a, nil
	})
}

func printSafety(env *Env, loc string, a *trip.SafetyAssessment) {
	w := env.Out
	fmt.Fprintln(w, TitleStyle.Render("Safety · "+loc))
	level := util.FirstNonEmpty(a.Level, "Unknown")
	fmt.Fprintln(w, RenderLabel("Risk level")+RenderRisk(level))
	if a.Score != nil {
		fmt.Fprintln(w, RenderField("Score", fmt.Sprintf("%.0f/100", float64(*a.Score))))
	}
	fmt.Fprintln(w, RenderLabel("Emergency")+ErrorStyle.Render(a.Emergency()))
	total, critical := a.CountAlerts()
	fmt.Fprintln(w, RenderField("Alerts", fmt.Sprintf("%d (%d critical)", total, critical)))

	if insight := a.InsightText(); insight != "" {
		fmt.Fprintln(w, SectionStyle.Render("AI insight"))
		fmt.Fprintln(w, WrapText(insight, 0))
	}

	if len(a.Alerts) == 0 {
		return
	}
	fmt.Fprintln(w, SectionStyle.Render("Recent alerts"))
	for _, al := range a.Alerts {
		line := RenderAlertKind(string(al.Kind), al.Kind.Label()) + " " + ValueStyle.Render(al.Title)
		meta := []string{}
		for _, s := range []string{al.Time, al.Distance} {
			if s != "" {
				meta = append(meta, s)
			}
		}
		if len(meta) > 0 {
			line += "  " + DimStyle.Render(strings.Join(meta, " · "))
		}
		fmt.Fprintln(w, line)
		if al.Description != "" {
			fmt.Fprintln(w, DimStyle.Render("    "+util.SingleLine(al.Description)))
		}
	}
}
