// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// trips_cmd.go - Trip and itinerary commands.
//
// Examples:
//   journey360 trips kyoto
//   journey360 create "Kyoto, Japan" --budget 120000 --interests culture,food
//   journey360 itinerary <trip-id> --day 2
//   journey360 regenerate <trip-id> "more street food"
//   journey360 recap <trip-id>
package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jeranaias/journey360-tui/internal/trip"
	"github.com/jeranaias/journey360-tui/internal/util"
)

// =============================================================================
// TRIPS
// =============================================================================

// HandleTrips lists the user's trips, filtered by destination.
func HandleTrips(ctx context.Context, env *Env, args Args) error {
	if err := env.SignIn(ctx, args); err != nil {
		return err
	}
	return OutputJSON(env.Out, args.JSON, "trips", func() (interface{}, error) {
		trips, err := env.Client.ListTrips(ctx)
		if err != nil {
			return nil, err
		}
		trips = trip.FilterTrips(trips, args.Query)
		if !args.JSON {
			printTrips(env.Out, trips, args.Query)
		}
		return trips, nil
	})
}

func printTrips(w io.Writer, trips []trip.Trip, query string) {
	if len(trips) == 0 {
		if strings.TrimSpace(query) != "" {
			fmt.Fprintf(w, "No trips match %q.\n", query)
		} else {
			fmt.Fprintln(w, "No trips yet. Create one with: journey360 create <destination>")
		}
		return
	}
	fmt.Fprintln(w, TitleStyle.Render("My Trips"))
	for _, t := range trips {
		fmt.Fprintf(w, "%s  %s\n", DimStyle.Render(t.ID), ValueStyle.Render(t.Destination))
		details := []string{}
		if r := t.DateRange(); r != "" {
			details = append(details, r)
		}
		details = append(details, util.FormatMoney("", float64(t.Budget)))
		if t.Pace != "" {
			details = append(details, string(t.Pace))
		}
		if len(t.Interests) > 0 {
			details = append(details, strings.Join(t.Interests, ", "))
		}
		fmt.Fprintf(w, "    %s\n", DimStyle.Render(strings.Join(details, " · ")))
	}
}

// =============================================================================
// CREATE
// =============================================================================

// draftFromArgs builds the create-trip request the way the dashboard form
// does.
func draftFromArgs(env *Env, args Args) (trip.NewTrip, error) {
	draft := trip.NewTrip{
		Destination: args.Query,
		Budget:      trip.BudgetFromSlider(trip.BudgetSliderDefault),
		StartDate:   args.Options["start"],
		EndDate:     args.Options["end"],
	}
	if strings.TrimSpace(draft.Destination) == "" {
		return draft, ErrMissingArgument("destination", `journey360 create "Kyoto, Japan"`)
	}
	if raw, ok := args.Options["budget"]; ok {
		budget, err := strconv.ParseInt(strings.ReplaceAll(raw, ",", ""), 10, 64)
		if err != nil || budget < 0 {
			return draft, ErrInvalidValue("budget", raw, "must be a whole non-negative number")
		}
		draft.Budget = budget
	}
	if raw := args.Options["interests"]; raw != "" {
		draft.Interests = strings.Split(raw, ",")
	}
	pace, err := trip.ParsePace(args.Options["pace"])
	if err != nil {
		return draft, ErrInvalidValue("pace", args.Options["pace"], "want Relaxed, Balanced or Fast-Paced")
	}
	draft.Pace = pace

	return draft.Normalize(env.Now()), nil
}

// CreateResult is the JSON payload of the create command.
type CreateResult struct {
	Trip      *trip.Trip      `json:"trip"`
	Itinerary *trip.Itinerary `json:"itinerary,omitempty"`
}

// HandleCreate creates a trip and, unless --no-generate, generates its
// itinerary.
func HandleCreate(ctx context.Context, env *Env, args Args) error {
	draft, err := draftFromArgs(env, args)
	if err != nil {
		return err
	}
	if err := env.SignIn(ctx, args); err != nil {
		return err
	}
	return OutputJSON(env.Out, args.JSON, "create", func() (interface{}, error) {
		created, err := env.Client.CreateTrip(ctx, draft)
		if err != nil {
			return nil, err
		}
		env.notice(args, "%s Trip created: %s", SuccessStyle.Render("[OK]"), created.ID)
		res := CreateResult{Trip: created}

		if args.Options["no-generate"] == "" {
			env.notice(args, "Generating itinerary for %s...", created.Destination)
			it, err := env.Client.GenerateItinerary(ctx, created.ID)
			if err != nil {
				return nil, &CommandError{Command: "create", Action: "generate", Reason: "trip " + created.ID + " was created", Err: err}
			}
			res.Itinerary = it
		}

		if !args.JSON {
			if res.Itinerary != nil {
				printItinerary(env.Out, res.Itinerary, 0)
			} else {
				printTrips(env.Out, []trip.Trip{*created}, "")
			}
		}
		return res, nil
	})
}

// =============================================================================
// ITINERARY
// =============================================================================

// HandleItinerary shows a trip's itinerary, optionally a single day.
func HandleItinerary(ctx context.Context, env *Env, args Args) error {
	if args.TripID == "" {
		return ErrMissingArgument("trip-id", "journey360 itinerary <trip-id>")
	}
	day := 0
	if raw, ok := args.Options["day"]; ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return ErrInvalidValue("day", raw, "must be a day number")
		}
		day = n
	}
	if err := env.SignIn(ctx, args); err != nil {
		return err
	}
	return OutputJSON(env.Out, args.JSON, "itinerary", func() (interface{}, error) {
		it, err := env.Client.GetItinerary(ctx, args.TripID)
		if err != nil {
			return nil, err
		}
		if !args.JSON {
			printItinerary(env.Out, it, day)
		}
		return it, nil
	})
}

// HandleRegenerate reworks an itinerary from a free-text instruction.
func HandleRegenerate(ctx context.Context, env *Env, args Args) error {
	if args.TripID == "" {
		return ErrMissingArgument("trip-id", `journey360 regenerate <trip-id> "more street food"`)
	}
	if strings.TrimSpace(args.Query) == "" {
		return ErrMissingArgument("instruction", `journey360 regenerate <trip-id> "more street food"`)
	}
	if err := env.SignIn(ctx, args); err != nil {
		return err
	}
	return OutputJSON(env.Out, args.JSON, "regenerate", func() (interface{}, error) {
		env.notice(args, "Regenerating itinerary...")
		res, err := env.Client.RegenerateItinerary(ctx, args.TripID, args.Query, nil)
		if err != nil {
			return nil, err
		}
		if !args.JSON {
			msg := util.FirstNonEmpty(strings.TrimSpace(res.Message), "Itinerary updated")
			fmt.Fprintf(env.Out, "%s %s\n\n", SuccessStyle.Render("[OK]"), msg)
			printItinerary(env.Out, &res.UpdatedItinerary, 0)
		}
		return res, nil
	})
}

// RecapData is the JSON payload of the recap command.
type RecapData struct {
	TripID  string `json:"trip_id"`
	Summary string `json:"summary"`
}

// HandleRecap prints the AI-written trip summary.
func HandleRecap(ctx context.Context, env *Env, args Args) error {
	if args.TripID == "" {
		return ErrMissingArgument("trip-id", "journey360 recap <trip-id>")
	}
	if err := env.SignIn(ctx, args); err != nil {
		return err
	}
	return OutputJSON(env.Out, args.JSON, "recap", func() (interface{}, error) {
		summary, err := env.Client.TripSummary(ctx, args.TripID)
		if err != nil {
			return nil, err
		}
		if !args.JSON {
			fmt.Fprintln(env.Out, WrapText(summary, 0))
		}
		return RecapData{TripID: args.TripID, Summary: summary}, nil
	})
}

// =============================================================================
// RENDERING
// =============================================================================

// printItinerary writes the itinerary as text. day > 0 limits output to that
// day (falling back to the first) plus the lodging options.
func printItinerary(w io.Writer, it *trip.Itinerary, day int) {
	cur := it.Currency()
	fmt.Fprintln(w, TitleStyle.Render(it.Title()))
	if it.Budget > 0 {
		fmt.Fprintln(w, RenderField("Budget", util.FormatMoney(cur, float64(it.Budget))))
	}
	if it.CostSummary.Total > 0 {
		fmt.Fprintln(w, RenderField("Estimated total", CostStyle.Render(util.FormatMoney(cur, float64(it.CostSummary.Total)))))
	}

	days := it.Days
	if day > 0 {
		if d := it.DayOrFirst(day); d != nil {
			days = []trip.Day{*d}
		}
	}
	for i := range days {
		printDay(w, &days[i], cur)
	}

	if len(it.TopHotels) > 0 {
		fmt.Fprintln(w, SectionStyle.Render("Where to stay"))
		for _, h := range it.TopHotels {
			details := []string{}
			for _, s := range []string{h.Vibe, h.Price.String(), h.Rating.String()} {
				if s != "" {
					details = append(details, s)
				}
			}
			fmt.Fprintf(w, "  %s  %s\n", ValueStyle.Render(h.Name), DimStyle.Render(strings.Join(details, " · ")))
		}
	}
	// A single day shows its stops and where to sleep, nothing trip-wide.
	if day > 0 {
		return
	}
	if it.SafetyAdvisory != "" {
		fmt.Fprintln(w, SectionStyle.Render("Safety"))
		fmt.Fprintln(w, "  "+WrapText(it.SafetyAdvisory, 0))
	}
	if len(it.TravelTips) > 0 {
		fmt.Fprintln(w, SectionStyle.Render("Tips"))
		for _, tip := range it.TravelTips {
			fmt.Fprintf(w, "  • %s\n", tip)
		}
	}
}

func printDay(w io.Writer, d *trip.Day, cur string) {
	head := d.Label()
	if d.Date != "" {
		head += " · " + d.Date
	}
	if d.WeatherNote != "" {
		head += " · " + d.WeatherNote
	}
	fmt.Fprintln(w, SectionStyle.Render(head))
	for _, p := range d.Places {
		line := "  "
		if p.TimeSlot != "" {
			line += SlotStyle.Render(util.PadRight(p.TimeSlot, 10))
		}
		line += ValueStyle.Render(p.Name)
		if p.EstimatedCost > 0 {
			line += "  " + CostStyle.Render(util.FormatMoney(cur, float64(p.EstimatedCost)))
		}
		if p.Duration != "" {
			line += "  " + DimStyle.Render(p.Duration.String())
		}
		fmt.Fprintln(w, line)
		if p.Description != "" {
			fmt.Fprintln(w, DimStyle.Render("    "+util.SingleLine(p.Description)))
		}
	}
	if d.TotalDayCost > 0 {
		fmt.Fprintf(w, "  %s %s\n", DimStyle.Render("Day total"), CostStyle.Render(util.FormatMoney(cur, float64(d.TotalDayCost))))
	}
}
