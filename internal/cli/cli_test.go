// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/journey360-tui/internal/api"
	"github.com/jeranaias/journey360-tui/internal/api/apitest"
	"github.com/jeranaias/journey360-tui/internal/config"
	"github.com/jeranaias/journey360-tui/internal/session"
	"github.com/jeranaias/journey360-tui/internal/trip"
)

// =============================================================================
// ARGUMENT PARSING
// =============================================================================

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name     string
		argv     []string
		wantCmd  Command
		validate func(*testing.T, Args)
	}{
		{
			name:    "no args starts the TUI",
			argv:    nil,
			wantCmd: CmdTUI,
		},
		{
			name:    "global flags only",
			argv:    []string{"--verbose", "--config", "/tmp/j.toml"},
			wantCmd: CmdTUI,
			validate: func(t *testing.T, a Args) {
				if !a.Verbose || a.ConfigPath != "/tmp/j.toml" {
					t.Errorf("got Verbose=%v ConfigPath=%q", a.Verbose, a.ConfigPath)
				}
			},
		},
		{
			name:    "trips query",
			argv:    []string{"trips", "new", "york"},
			wantCmd: CmdTrips,
			validate: func(t *testing.T, a Args) {
				if a.Query != "new york" {
					t.Errorf("Query = %q, want %q", a.Query, "new york")
				}
			},
		},
		{
			name:    "create with options",
			argv:    []string{"--json", "create", "Kyoto,", "Japan", "--budget", "120000", "--interests=Culture,Foodie", "--no-generate"},
			wantCmd: CmdCreate,
			validate: func(t *testing.T, a Args) {
				if !a.JSON {
					t.Error("JSON should be set")
				}
				if a.Query != "Kyoto, Japan" {
					t.Errorf("Query = %q", a.Query)
				}
				if a.Options["budget"] != "120000" || a.Options["interests"] != "Culture,Foodie" {
					t.Errorf("Options = %v", a.Options)
				}
				if a.Options["no-generate"] != "true" {
					t.Error("no-generate should be a switch")
				}
			},
		},
		{
			name:    "itinerary with day",
			argv:    []string{"show", "trip-1", "--day", "2"},
			wantCmd: CmdItinerary,
			validate: func(t *testing.T, a Args) {
				if a.TripID != "trip-1" || a.Options["day"] != "2" {
					t.Errorf("TripID=%q day=%q", a.TripID, a.Options["day"])
				}
			},
		},
		{
			name:    "regenerate instruction",
			argv:    []string{"regen", "trip-1", "more", "street", "food"},
			wantCmd: CmdRegenerate,
			validate: func(t *testing.T, a Args) {
				if a.TripID != "trip-1" || a.Query != "more street food" {
					t.Errorf("TripID=%q Query=%q", a.TripID, a.Query)
				}
			},
		},
		{
			name:    "ask with trip and email",
			argv:    []string{"ask", "--trip", "trip-9", "is", "day", "2", "busy?", "--email=a@b.c"},
			wantCmd: CmdAsk,
			validate: func(t *testing.T, a Args) {
				if a.TripID != "trip-9" || a.Query != "is day 2 busy?" || a.Email != "a@b.c" {
					t.Errorf("TripID=%q Query=%q Email=%q", a.TripID, a.Query, a.Email)
				}
			},
		},
		{
			name:    "config set joins the value",
			argv:    []string{"config", "set", "ui.safety_location", "Lisbon,", "Portugal"},
			wantCmd: CmdConfig,
			validate: func(t *testing.T, a Args) {
				if a.Subcommand != "set" || a.ConfigKey != "ui.safety_location" || a.ConfigVal != "Lisbon, Portugal" {
					t.Errorf("got %q %q %q", a.Subcommand, a.ConfigKey, a.ConfigVal)
				}
			},
		},
		{
			name:    "export options",
			argv:    []string{"export", "trip-1", "--format=html", "--open"},
			wantCmd: CmdExport,
			validate: func(t *testing.T, a Args) {
				if a.TripID != "trip-1" || a.Options["format"] != "html" || a.Options["open"] != "true" {
					t.Errorf("TripID=%q Options=%v", a.TripID, a.Options)
				}
			},
		},
		{
			name:    "commands are case insensitive",
			argv:    []string{"SAFETY", "Rome"},
			wantCmd: CmdSafety,
		},
		{
			name:    "help flag",
			argv:    []string{"-h"},
			wantCmd: CmdHelp,
		},
		{
			name:    "unknown command",
			argv:    []string{"teleport"},
			wantCmd: CmdUnknown,
			validate: func(t *testing.T, a Args) {
				if a.Subcommand != "teleport" {
					t.Errorf("Subcommand = %q", a.Subcommand)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := ParseArgs(tt.argv)
			if cmd != tt.wantCmd {
				t.Fatalf("ParseArgs(%v) = %s, want %s", tt.argv, cmd, tt.wantCmd)
			}
			if tt.validate != nil {
				tt.validate(t, args)
			}
		})
	}
}

func TestCommandString(t *testing.T) {
	if CmdRegenerate.String() != "regenerate" {
		t.Errorf("CmdRegenerate.String() = %q", CmdRegenerate.String())
	}
	if CmdTUI.String() != "tui" {
		t.Errorf("CmdTUI.String() = %q", CmdTUI.String())
	}
}

// =============================================================================
// ERRORS AND EXIT CODES
// =============================================================================

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitGeneralError},
		{"missing argument", ErrMissingArgument("trip-id", "journey360 recap <trip-id>"), ExitUsageError},
		{"trip validation", fmt.Errorf("invalid trip: %w", trip.ValidationErrors{{Field: "destination", Message: "required"}}), ExitUsageError},
		{"config validation", config.ValidateErrors{{Field: "ui.theme", Message: "bad"}}, ExitConfigError},
		{"no user", session.ErrNoUser, ExitAuthError},
		{"provider", &session.ProviderError{Op: "sign-in", Code: "INVALID_PASSWORD"}, ExitAuthError},
		{"not found", &api.RequestError{Op: "get itinerary", StatusCode: 404}, ExitNotFoundError},
		{"forbidden", &api.RequestError{Op: "list trips", StatusCode: 403}, ExitAuthError},
		{"transport", &api.RequestError{Op: "list trips", Cause: errors.New("refused")}, ExitNetworkError},
		{"refresh failed while signed in", &api.RequestError{Op: "list trips", Message: "Failed to fetch trips", Cause: &session.ProviderError{Op: "refresh", StatusCode: 503}}, ExitNetworkError},
		{"session ended", fmt.Errorf("%w: token expired", api.ErrUnauthenticated), ExitAuthError},
		{"deadline", fmt.Errorf("chat: %w", context.DeadlineExceeded), ExitTimeoutError},
		{"net timeout", fmt.Errorf("dial: %w", timeoutErr{}), ExitTimeoutError},
		{"malformed", &api.MalformedResponseError{Op: "itinerary", Cause: trip.ValidationErrors{{Field: "days", Message: "bad"}}}, ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestDisplayError_JSON(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, "recap", ErrMissingArgument("trip-id", "journey360 recap <trip-id>"), true)

	var resp struct {
		Success bool                   `json:"success"`
		Error   *string                `json:"error"`
		Command string                 `json:"command"`
		Data    map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if resp.Success || resp.Error == nil || resp.Command != "recap" {
		t.Errorf("unexpected envelope: %+v", resp)
	}
	if resp.Data["error_type"] != "validation_error" || resp.Data["field"] != "trip-id" {
		t.Errorf("unexpected details: %v", resp.Data)
	}
	if resp.Data["exit_code"] != float64(ExitUsageError) {
		t.Errorf("exit_code = %v", resp.Data["exit_code"])
	}
}

func TestDisplayError_FriendlyProviderMessage(t *testing.T) {
	var buf bytes.Buffer
	pe := &session.ProviderError{Op: "sign-in", Code: "INVALID_PASSWORD", StatusCode: 400}
	DisplayError(&buf, "login", pe, false)
	if !strings.Contains(buf.String(), pe.Friendly()) {
		t.Errorf("output %q should contain %q", buf.String(), pe.Friendly())
	}
}

func TestOutputJSON_ErrorIsNotWritten(t *testing.T) {
	var buf bytes.Buffer
	err := OutputJSON(&buf, true, "trips", func() (interface{}, error) {
		return nil, errors.New("backend down")
	})
	if err == nil {
		t.Fatal("expected the handler error")
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be written on error, got %q", buf.String())
	}
}

// =============================================================================
// CONFIG COMMAND
// =============================================================================

func TestHandleConfig_SetThenShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	var out bytes.Buffer
	_, args := ParseArgs([]string{"--config", path, "config", "set", "ui.safety_location", "Lisbon,", "Portugal"})
	if err := HandleConfig(&out, args); err != nil {
		t.Fatalf("config set: %v", err)
	}
	if !strings.Contains(out.String(), "ui.safety_location = Lisbon, Portugal") {
		t.Errorf("unexpected output %q", out.String())
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if info.Mode().Perm()&0077 != 0 {
		t.Errorf("config file mode = %o, want owner-only", info.Mode().Perm())
	}

	out.Reset()
	_, args = ParseArgs([]string{"--json", "--config", path, "config", "show"})
	if err := HandleConfig(&out, args); err != nil {
		t.Fatalf("config show: %v", err)
	}
	var resp struct {
		Data ConfigData `json:"data"`
	}
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !resp.Data.Exists || resp.Data.Path != path {
		t.Errorf("Path=%q Exists=%v", resp.Data.Path, resp.Data.Exists)
	}
	found := false
	for _, e := range resp.Data.Entries {
		if e.Key == "ui.safety_location" {
			found = true
			if e.Value != "Lisbon, Portugal" {
				t.Errorf("ui.safety_location = %q", e.Value)
			}
		}
	}
	if !found {
		t.Error("ui.safety_location missing from config show")
	}
}

func TestHandleConfig_SetRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	tests := []struct {
		name string
		argv []string
		want int
	}{
		{"unknown key", []string{"config", "set", "ui.nope", "x"}, ExitUsageError},
		{"invalid theme", []string{"config", "set", "ui.theme", "neon"}, ExitConfigError},
		{"missing value", []string{"config", "set", "ui.theme"}, ExitUsageError},
		{"bad subcommand", []string{"config", "wipe"}, ExitUsageError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, args := ParseArgs(append([]string{"--config", path}, tt.argv...))
			err := HandleConfig(io.Discard, args)
			if got := GetExitCode(err); got != tt.want {
				t.Errorf("exit code = %d (%v), want %d", got, err, tt.want)
			}
		})
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("a rejected set must not write the file")
	}
}

func TestMaskIfSecret(t *testing.T) {
	masked := maskIfSecret("ai.openrouter_key", "sk-or-v1-abcdef")
	if strings.Contains(masked, "abcdef") || !strings.HasPrefix(masked, "sha256:") {
		t.Errorf("key leaked: %q", masked)
	}
	if got := maskIfSecret("ai.openrouter_key", ""); got != "(not set)" {
		t.Errorf("empty key = %q", got)
	}
	if got := maskIfSecret("ui.theme", "light"); got != "light" {
		t.Errorf("non-secret = %q", got)
	}
}

// =============================================================================
// SERVICE COMMANDS
// =============================================================================

const (
	testEmail    = "traveller@example.com"
	testPassword = "secret1"
)

// newTestEnv wires an Env against a fake backend with credentials in the
// environment.
func newTestEnv(t *testing.T) (*Env, *bytes.Buffer, *apitest.Backend) {
	t.Helper()
	b := apitest.New(t)
	b.AddUser(testEmail, testPassword)
	t.Setenv(EnvEmail, testEmail)
	t.Setenv(EnvPassword, testPassword)

	cfg := config.Default()
	cfg.Backend.URL = b.URL()
	cfg.Identity = b.IdentityConfig()
	cfg.AI.OpenRouterKey = ""

	var out bytes.Buffer
	env := NewEnvWithConfig(cfg, nil, &out, io.Discard)
	env.Now = func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) }
	return env, &out, b
}

func run(t *testing.T, env *Env, argv ...string) error {
	t.Helper()
	cmd, args := ParseArgs(argv)
	return RunWith(context.Background(), env, cmd, args)
}

func TestCreateAndShowItinerary(t *testing.T) {
	env, out, b := newTestEnv(t)

	if err := run(t, env, "--json", "create", "Kyoto, Japan", "--budget", "50,000",
		"--interests", "Culture,Foodie", "--start", "2025-04-01", "--end", "2025-04-03"); err != nil {
		t.Fatalf("create: %v", err)
	}
	var created struct {
		Success bool         `json:"success"`
		Data    CreateResult `json:"data"`
	}
	if err := json.Unmarshal(out.Bytes(), &created); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !created.Success || created.Data.Trip == nil || created.Data.Itinerary == nil {
		t.Fatalf("unexpected result: %+v", created)
	}
	if created.Data.Trip.Budget != 50000 {
		t.Errorf("Budget = %v, want 50000", created.Data.Trip.Budget)
	}
	if len(b.Trips()) != 1 {
		t.Fatalf("backend has %d trips, want 1", len(b.Trips()))
	}

	id := created.Data.Trip.ID
	out.Reset()
	if err := run(t, env, "itinerary", id, "--day", "2"); err != nil {
		t.Fatalf("itinerary: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "Day 2") {
		t.Errorf("expected day 2 in output:\n%s", text)
	}
	if strings.Contains(text, "Day 1") {
		t.Errorf("--day 2 should hide day 1:\n%s", text)
	}
	if !strings.Contains(text, "Kyoto Central Hotel") {
		t.Errorf("lodging applies to every day and should be listed:\n%s", text)
	}
	if strings.Contains(text, "Tips") {
		t.Errorf("--day 2 should leave out trip-wide tips:\n%s", text)
	}
}

func TestCreate_NoGenerate(t *testing.T) {
	env, out, b := newTestEnv(t)
	if err := run(t, env, "create", "Lisbon", "--no-generate"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.Hits("/ai/itinerary/generate") != 0 {
		t.Error("--no-generate must not generate")
	}
	if !strings.Contains(out.String(), "Lisbon") {
		t.Errorf("expected the trip listing, got %q", out.String())
	}
}

func TestCreate_InvalidInput(t *testing.T) {
	env, _, b := newTestEnv(t)
	tests := []struct {
		name string
		argv []string
	}{
		{"missing destination", []string{"create"}},
		{"negative budget", []string{"create", "Rome", "--budget", "-5"}},
		{"unknown pace", []string{"create", "Rome", "--pace", "sprint"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(t, env, tt.argv...)
			if GetExitCode(err) != ExitUsageError {
				t.Errorf("exit code = %d (%v), want usage", GetExitCode(err), err)
			}
		})
	}
	if b.TotalHits() != 0 {
		t.Errorf("invalid input should not reach the network, got %d hits", b.TotalHits())
	}
}

func TestTrips_FilterAndJSON(t *testing.T) {
	env, out, _ := newTestEnv(t)
	for _, dest := range []string{"Kyoto, Japan", "Lisbon, Portugal"} {
		if err := run(t, env, "-q", "create", dest, "--no-generate"); err != nil {
			t.Fatalf("create %s: %v", dest, err)
		}
	}

	out.Reset()
	if err := run(t, env, "--json", "trips", "lisbon"); err != nil {
		t.Fatalf("trips: %v", err)
	}
	var resp struct {
		Data []trip.Trip `json:"data"`
	}
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Destination != "Lisbon, Portugal" {
		t.Errorf("filtered trips = %+v", resp.Data)
	}

	out.Reset()
	if err := run(t, env, "trips", "atlantis"); err != nil {
		t.Fatalf("trips: %v", err)
	}
	if !strings.Contains(out.String(), `No trips match "atlantis"`) {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestExport_WritesFile(t *testing.T) {
	env, out, b := newTestEnv(t)
	if err := run(t, env, "-q", "create", "Lisbon, Portugal"); err != nil {
		t.Fatalf("create: %v", err)
	}
	id := b.Trips()[0].ID

	dir := t.TempDir()
	out.Reset()
	if err := run(t, env, "--json", "export", id, "--format", "html", "--out", dir); err != nil {
		t.Fatalf("export: %v", err)
	}
	var resp struct {
		Data ExportData `json:"data"`
	}
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if filepath.Dir(resp.Data.Path) != dir || filepath.Ext(resp.Data.Path) != ".html" {
		t.Errorf("path = %q", resp.Data.Path)
	}
	page, err := os.ReadFile(resp.Data.Path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(page), "Lisbon Central Hotel") {
		t.Error("export is missing the itinerary")
	}
}

func TestExport_BadFormat(t *testing.T) {
	env, _, b := newTestEnv(t)
	err := run(t, env, "export", "trip-1", "--format", "pdf")
	if GetExitCode(err) != ExitUsageError {
		t.Errorf("exit code = %d (%v), want usage", GetExitCode(err), err)
	}
	if b.TotalHits() != 0 {
		t.Error("a bad format should fail before any request")
	}
}

func TestItinerary_UnknownTrip(t *testing.T) {
	env, _, _ := newTestEnv(t)
	err := run(t, env, "itinerary", "no-such-trip")
	if GetExitCode(err) != ExitNotFoundError {
		t.Errorf("exit code = %d (%v), want not found", GetExitCode(err), err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	env, _, _ := newTestEnv(t)
	t.Setenv(EnvPassword, "wrong")
	err := run(t, env, "login")
	if GetExitCode(err) != ExitAuthError {
		t.Errorf("exit code = %d (%v), want auth", GetExitCode(err), err)
	}
}

func TestLogin_JSON(t *testing.T) {
	env, out, _ := newTestEnv(t)
	if err := run(t, env, "--json", "login"); err != nil {
		t.Fatalf("login: %v", err)
	}
	var resp struct {
		Data AccountData `json:"data"`
	}
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Data.Email != testEmail || resp.Data.UID == "" {
		t.Errorf("account = %+v", resp.Data)
	}
}

func TestSafety_DefaultLocation(t *testing.T) {
	env, out, b := newTestEnv(t)
	env.Config.UI.SafetyLocation = "Rome, Italy"
	if err := run(t, env, "safety"); err != nil {
		t.Fatalf("safety: %v", err)
	}
	text := out.String()
	for _, want := range []string{"Rome, Italy", "MODERATE", "112", "Protest near city hall"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if req := b.LastRequest("/ai/safety/assess"); req == nil || req.URL.Query().Get("location") != "Rome, Italy" {
		t.Error("safety should query the configured location")
	}
}

func TestEnvs_KeepTheirOwnConfig(t *testing.T) {
	first, _, firstBackend := newTestEnv(t)
	first.Config.UI.SafetyLocation = "Rome, Italy"
	second, _, secondBackend := newTestEnv(t)
	second.Config.UI.SafetyLocation = "Lisbon, Portugal"

	if err := run(t, second, "safety"); err != nil {
		t.Fatalf("safety: %v", err)
	}
	if err := run(t, first, "safety"); err != nil {
		t.Fatalf("safety: %v", err)
	}
	for _, tt := range []struct {
		backend *apitest.Backend
		want    string
	}{
		{firstBackend, "Rome, Italy"},
		{secondBackend, "Lisbon, Portugal"},
	} {
		req := tt.backend.LastRequest("/ai/safety/assess")
		if req == nil || req.URL.Query().Get("location") != tt.want {
			t.Errorf("location = %v, want %q", req, tt.want)
		}
	}
}

func TestAsk_Backend(t *testing.T) {
	env, out, _ := newTestEnv(t)
	if err := run(t, env, "--json", "ask", "best", "ramen?"); err != nil {
		t.Fatalf("ask: %v", err)
	}
	var resp struct {
		Data AskData `json:"data"`
	}
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Data.Reply != "You asked: best ramen?" || resp.Data.Source != "backend" {
		t.Errorf("reply = %+v", resp.Data)
	}
}

func TestAsk_MissingQuestion(t *testing.T) {
	env, _, b := newTestEnv(t)
	if err := run(t, env, "ask"); GetExitCode(err) != ExitUsageError {
		t.Errorf("exit code = %d, want usage", GetExitCode(err))
	}
	if b.TotalHits() != 0 {
		t.Error("no request expected")
	}
}

// =============================================================================
// CHAT LOOP
// =============================================================================

// script feeds lines to RunChat, then io.EOF.
func script(lines ...string) func(string) (string, error) {
	return func(string) (string, error) {
		if len(lines) == 0 {
			return "", io.EOF
		}
		line := lines[0]
		lines = lines[1:]
		return line, nil
	}
}

func TestRunChat(t *testing.T) {
	env, out, _ := newTestEnv(t)
	ctx := context.Background()
	if err := env.SignIn(ctx, Args{}); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	err := RunChat(ctx, env, Args{}, script("hello there", "/bogus", "/history", "/trip", "/quit", "never sent"))
	if err != nil {
		t.Fatalf("RunChat: %v", err)
	}
	text := out.String()
	for _, want := range []string{
		greeting,
		"You asked: hello there",
		"unknown command: /bogus",
		"[1] you:",
		"No trip selected.",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "never sent") {
		t.Error("/quit should end the chat")
	}
}

func TestRunChat_EOFEnds(t *testing.T) {
	env, _, b := newTestEnv(t)
	if err := RunChat(context.Background(), env, Args{}, script()); err != nil {
		t.Fatalf("RunChat: %v", err)
	}
	if b.TotalHits() != 0 {
		t.Error("an empty chat makes no requests")
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	cmd, args := ParseArgs([]string{"teleport"})
	err := Run(context.Background(), cmd, args, io.Discard)
	if GetExitCode(err) != ExitUsageError {
		t.Errorf("exit code = %d (%v), want usage", GetExitCode(err), err)
	}
}
