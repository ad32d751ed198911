// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing for journey360.
package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdSignup
	CmdTrips
	CmdCreate
	CmdItinerary
	CmdRegenerate
	CmdRecap
	CmdExport
	CmdSafety
	CmdAsk
	CmdChat
	CmdConfig
	CmdVersion
	CmdHelp
	CmdUnknown
)

// String returns the command word as typed.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdLogin:
		return "login"
	case CmdSignup:
		return "signup"
	case CmdTrips:
		return "trips"
	case CmdCreate:
		return "create"
	case CmdItinerary:
		return "itinerary"
	case CmdRegenerate:
		return "regenerate"
	case CmdRecap:
		return "recap"
	case CmdExport:
		return "export"
	case CmdSafety:
		return "safety"
	case CmdAsk:
		return "ask"
	case CmdChat:
		return "chat"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	}
	return "unknown"
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	JSON       bool
	Verbose    bool
	Quiet      bool
	Email      string
	ConfigPath string

	// Command-specific
	Query      string
	TripID     string
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw args (remaining after flag parsing)
	Raw []string

	// Options holds command-specific named options (e.g. budget, pace)
	Options map[string]string
}

const usageText = `journey360 - AI travel planner for the terminal

Usage:
  journey360                          Start the TUI (default)
  journey360 login                    Check credentials and show the account
  journey360 signup                   Create an account
  journey360 trips [filter]           List your trips
  journey360 create <destination>     Create a trip and generate its itinerary
  journey360 itinerary <trip-id>      Show a trip's itinerary
  journey360 regenerate <trip-id> "<instruction>"
                                      Rework an itinerary with the AI planner
  journey360 recap <trip-id>          Show the AI trip summary
  journey360 export <trip-id>         Save an itinerary as Markdown, HTML or JSON
  journey360 safety [location]        Assess safety for a location
  journey360 ask "question"           Ask the travel assistant once
  journey360 chat                     Interactive chat with the assistant
  journey360 config [show|set|path]   Configuration
  journey360 version                  Version information

Create Options:
  --budget N                          Budget in rupees (default: slider midpoint)
  --interests a,b,c                   Interests, e.g. culture,food
  --pace NAME                         Relaxed, Balanced or Fast-Paced
  --start YYYY-MM-DD, --end YYYY-MM-DD
                                      Travel dates (default: today)
  --no-generate                       Create the trip only

Itinerary Options:
  --day N                             Show a single day

Export Options:
  --format md|html|json               File format (default: md)
  --out DIR                           Output directory (default: current)
  --open                              Open the file afterwards

Assistant Options:
  --trip ID                           Give the assistant a trip as context

Global Flags:
  --email ADDRESS   Account email (or JOURNEY360_EMAIL)
  --config PATH     Use a config file other than ~/.journey360/config.toml
  -q, --quiet       Minimal output
  -v, --verbose     Debug logging
  --json            Output in JSON format

The password is read from JOURNEY360_PASSWORD or prompted for.
Sessions are not persisted; each command signs in.

Examples:
  journey360 create "Kyoto, Japan" --budget 120000 --interests culture,food --pace Relaxed
  journey360 itinerary 6f1c --day 2
  journey360 regenerate 6f1c "swap the museum for a food tour"
  journey360 export 6f1c --format html --open
  journey360 ask "What should I pack for Kyoto in April?"
  journey360 config set ui.theme light

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "journey360 version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
}

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses command-line arguments and returns the command and args.
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "login", "signin":
		return CmdLogin, parsedArgs

	case "signup", "register":
		return CmdSignup, parsedArgs

	case "trips", "ls":
		parsedArgs.Query = strings.Join(positionals(remaining), " ")
		return CmdTrips, parsedArgs

	case "create", "new":
		parseCreateArgs(&parsedArgs, remaining)
		return CmdCreate, parsedArgs

	case "itinerary", "show":
		parseTripArgs(&parsedArgs, remaining, "day")
		return CmdItinerary, parsedArgs

	case "regenerate", "regen":
		parseTripArgs(&parsedArgs, remaining)
		return CmdRegenerate, parsedArgs

	case "recap", "summary":
		parseTripArgs(&parsedArgs, remaining)
		return CmdRecap, parsedArgs

	case "export":
		pos := parseOptions(&parsedArgs, remaining, []string{"format", "out"}, "open")
		if len(pos) > 0 {
			parsedArgs.TripID = pos[0]
		}
		return CmdExport, parsedArgs

	case "safety":
		parsedArgs.Query = strings.Join(positionals(remaining), " ")
		return CmdSafety, parsedArgs

	case "ask":
		parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs

	case "chat":
		parseAskArgs(&parsedArgs, remaining)
		return CmdChat, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "version", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		parsedArgs.Subcommand = cmd
		return CmdUnknown, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	parsedArgs := Args{
		Options: make(map[string]string),
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--email", "--config":
			if i+1 < len(args) {
				i++
				setGlobalValue(&parsedArgs, arg[2:], args[i])
			}
		default:
			if name, value, ok := splitFlag(arg, "email", "config"); ok {
				setGlobalValue(&parsedArgs, name, value)
			} else {
				remaining = append(remaining, arg)
			}
		}
	}

	return remaining, parsedArgs
}

func setGlobalValue(a *Args, name, value string) {
	switch name {
	case "email":
		a.Email = value
	case "config":
		a.ConfigPath = value
	}
}

// splitFlag matches --name=value for one of names.
func splitFlag(arg string, names ...string) (name, value string, ok bool) {
	for _, n := range names {
		if v, found := strings.CutPrefix(arg, "--"+n+"="); found {
			return n, v, true
		}
	}
	return "", "", false
}

// parseOptions collects --name value and --name=value pairs for the named
// options, treating bools as switches. Everything else is returned as
// positional.
func parseOptions(a *Args, remaining []string, valued []string, bools ...string) []string {
	var pos []string
	isValued := make(map[string]bool, len(valued))
	for _, v := range valued {
		isValued[v] = true
	}
	isBool := make(map[string]bool, len(bools))
	for _, b := range bools {
		isBool[b] = true
	}

	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]
		if !strings.HasPrefix(arg, "--") {
			pos = append(pos, arg)
			continue
		}
		name := strings.TrimPrefix(arg, "--")
		if n, v, ok := splitFlag(arg, valued...); ok {
			a.Options[n] = v
			continue
		}
		switch {
		case isValued[name] && i+1 < len(remaining):
			i++
			a.Options[name] = remaining[i]
		case isBool[name]:
			a.Options[name] = "true"
		default:
			pos = append(pos, arg)
		}
	}
	return pos
}

func positionals(remaining []string) []string {
	var pos []string
	for _, arg := range remaining {
		if !strings.HasPrefix(arg, "-") {
			pos = append(pos, arg)
		}
	}
	return pos
}

// parseCreateArgs parses create command arguments. The destination is the
// positional text.
func parseCreateArgs(args *Args, remaining []string) {
	pos := parseOptions(args, remaining,
		[]string{"budget", "interests", "pace", "start", "end"}, "no-generate")
	args.Query = strings.Join(pos, " ")
}

// parseTripArgs takes the trip ID as the first positional argument and the
// rest as free text.
func parseTripArgs(args *Args, remaining []string, valued ...string) {
	pos := parseOptions(args, remaining, valued)
	if len(pos) > 0 {
		args.TripID = pos[0]
		args.Query = strings.Join(pos[1:], " ")
	}
}

// parseAskArgs parses ask and chat arguments.
func parseAskArgs(args *Args, remaining []string) {
	pos := parseOptions(args, remaining, []string{"trip"})
	args.TripID = args.Options["trip"]
	args.Query = strings.Join(pos, " ")
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
		if len(remaining) > 1 {
			args.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			args.ConfigVal = strings.Join(remaining[2:], " ")
		}
	}
}

// =============================================================================
// VERSION AND HELP
// =============================================================================

// VersionData is the JSON payload of the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// HandleVersion handles the "version" command with JSON output support.
func HandleVersion(w io.Writer, args Args) error {
	if args.JSON {
		return NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}).Write(w)
	}
	PrintVersion(w)
	return nil
}

// HandleHelp handles the "help" command.
func HandleHelp(w io.Writer) {
	PrintUsage(w)
}
