// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat with the travel assistant.
//
// Command: chat
//
// Examples:
//   journey360 chat
//   journey360 chat --trip 6f1c
//
// Interactive Commands (during chat):
//   /help, /h           Show available commands
//   /trip [id]          Show or set the trip the assistant talks about
//   /clear, /c          Clear the transcript
//   /history            Show the transcript
//   /quit, /q           Exit chat
//   Ctrl+C, Ctrl+D      Exit chat
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/journey360-tui/internal/config"
)

// greeting opens every chat, as the assistant page does.
const greeting = "Hello! I'm your AI travel assistant. How can I help you plan your customized trip today?"

// errChatExit ends the loop without an error.
var errChatExit = errors.New("chat exit")

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides line editing and persistent input history.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a line editor with history loaded from the config
// directory.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	c := &ChatCLI{line: line, historyFile: filepath.Join(dir, "chat_history")}
	c.LoadHistory()
	return c
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads one line. Ctrl+C and Ctrl+D both report io.EOF.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION STATE
// =============================================================================

type chatTurn struct {
	question string
	reply    string
	failed   bool
}

// ChatSession is the state of one interactive chat.
type ChatSession struct {
	env    *Env
	args   Args
	tripID string
	turns  []chatTurn
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChat runs the interactive chat on the terminal.
func HandleChat(ctx context.Context, env *Env, args Args) error {
	if args.JSON {
		return ErrInvalidValue("json", "true", "chat is interactive; use ask --json")
	}
	if err := RequiresTTY("chat"); err != nil {
		return err
	}
	if needsSignIn(env, args.TripID) {
		if err := env.SignIn(ctx, args); err != nil {
			return err
		}
	}
	in := NewChatCLI()
	defer in.Close()
	return RunChat(ctx, env, args, in.ReadInput)
}

// RunChat is the chat loop over any line source. read returns io.EOF to end
// the chat.
func RunChat(ctx context.Context, env *Env, args Args, read func(prompt string) (string, error)) error {
	s := &ChatSession{env: env, args: args, tripID: args.TripID}
	s.printWelcome()

	prompt := PromptStyle.Render("you> ")
	for {
		if ctx.Err() != nil {
			return nil
		}
		input, err := read(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(env.Out)
			return nil
		}
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			err := s.handleSlashCommand(input)
			if errors.Is(err, errChatExit) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(env.Out, "%s %v\n", WarningStyle.Render("[!]"), err)
			}
			continue
		}

		s.send(ctx, input)
	}
}

func (s *ChatSession) send(ctx context.Context, question string) {
	r := s.env.Assistant.Ask(ctx, question, s.tripID)
	if r.Failed() {
		s.env.Logger.Warn("assistant reply failed", "source", r.Source.String(), "error", r.Err)
	}
	s.turns = append(s.turns, chatTurn{question: question, reply: r.Text, failed: r.Failed()})

	fmt.Fprintln(s.env.Out)
	fmt.Fprintln(s.env.Out, renderReply(s.env, r))
	fmt.Fprintln(s.env.Out)
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func (s *ChatSession) handleSlashCommand(cmd string) error {
	parts := strings.Fields(cmd)
	command := strings.ToLower(parts[0])
	rest := parts[1:]

	switch command {
	case "/help", "/h", "/?", "/":
		s.printHelp()
	case "/trip":
		if len(rest) == 0 {
			if s.tripID == "" {
				fmt.Fprintln(s.env.Out, DimStyle.Render("No trip selected."))
			} else {
				fmt.Fprintf(s.env.Out, "Trip: %s\n", s.tripID)
			}
			return nil
		}
		s.tripID = rest[0]
		if s.tripID == "none" || s.tripID == "-" {
			s.tripID = ""
		}
		fmt.Fprintf(s.env.Out, "%s Trip context: %s\n", SuccessStyle.Render("[OK]"), tripLabel(s.tripID))
	case "/clear", "/c":
		s.turns = s.turns[:0]
		fmt.Fprintln(s.env.Out, DimStyle.Render("[Transcript cleared]"))
	case "/history":
		s.printHistory()
	case "/quit", "/q", "/exit":
		return errChatExit
	default:
		return fmt.Errorf("unknown command: %s (type /help for commands)", command)
	}
	return nil
}

func tripLabel(id string) string {
	if id == "" {
		return "none"
	}
	return id
}

// =============================================================================
// DISPLAY
// =============================================================================

func (s *ChatSession) printWelcome() {
	w := s.env.Out
	fmt.Fprintln(w, TitleStyle.Render("Journey360 AI assistant"))
	source := "Journey360 backend"
	if s.env.Assistant.UsesModel() {
		source = "OpenRouter · " + s.env.Config.AI.Model
	}
	fmt.Fprintln(w, RenderField("Answers from", source))
	if s.tripID != "" {
		fmt.Fprintln(w, RenderField("Trip", s.tripID))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, greeting)
	if !s.args.Quiet {
		fmt.Fprintln(w, DimStyle.Render("Type a message and press Enter. Commands: /help, /quit"))
	}
	fmt.Fprintln(w)
}

func (s *ChatSession) printHelp() {
	commands := []struct {
		cmd  string
		desc string
	}{
		{"/help, /h", "Show this help"},
		{"/trip [id|none]", "Show or set the trip context"},
		{"/clear, /c", "Clear the transcript"},
		{"/history", "Show the transcript"},
		{"/quit, /q", "Exit chat"},
	}
	fmt.Fprintln(s.env.Out, SectionStyle.Render("Available Commands"))
	for _, c := range commands {
		fmt.Fprintf(s.env.Out, "  %s  %s\n", SlotStyle.Render(fmt.Sprintf("%-16s", c.cmd)), DimStyle.Render(c.desc))
	}
}

func (s *ChatSession) printHistory() {
	if len(s.turns) == 0 {
		fmt.Fprintln(s.env.Out, DimStyle.Render("No messages yet."))
		return
	}
	for i, t := range s.turns {
		fmt.Fprintf(s.env.Out, "%s %s\n", PromptStyle.Render(fmt.Sprintf("[%d] you:", i+1)), t.question)
		label := "assistant:"
		if t.failed {
			label = "assistant (failed):"
		}
		fmt.Fprintf(s.env.Out, "%s %s\n", DimStyle.Render(label), t.reply)
	}
}
