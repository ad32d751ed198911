// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/journey360-tui/internal/session"
	"github.com/jeranaias/journey360-tui/internal/ui/components"
	"github.com/jeranaias/journey360-tui/internal/ui/styles"
)

// =============================================================================
// ENTRY PAGE - sign in / sign up
// =============================================================================

type entryMode int

const (
	modeSignIn entryMode = iota
	modeSignUp
)

const errMissingCredentials = "Please enter your email and password"

var entryKeys = struct {
	Next, Prev, Submit, Toggle key.Binding
}{
	Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("Tab", "next field")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab", "up")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "submit")),
	Toggle: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("C-t", "sign in / sign up")),
}

type authDoneMsg struct {
	pageMsg
	mode entryMode
	user session.Identity
	err  error
}

type entryPage struct {
	base
	email    textinput.Model
	password textinput.Model
	focus    int
	mode     entryMode
	busy     bool
	err      string
	info     string
	spinner  components.Spinner
}

func newEntryPage(sh *shell) *entryPage {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = ""
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'
	password.CharLimit = 128

	return &entryPage{
		base:     sh.newBase(),
		email:    email,
		password: password,
		spinner:  components.NewSpinner(sh.theme, styles.GlobeSpinner),
	}
}

func (p *entryPage) init() tea.Cmd { return textinput.Blink }

func (p *entryPage) capturing() bool { return true }

func (p *entryPage) shortcuts() []components.Shortcut {
	return []components.Shortcut{shortcut(entryKeys.Next), shortcut(entryKeys.Submit), shortcut(entryKeys.Toggle)}
}

func (p *entryPage) setFocus(i int) tea.Cmd {
	p.focus = (i + 2) % 2
	if p.focus == 0 {
		p.password.Blur()
		return p.email.Focus()
	}
	p.email.Blur()
	return p.password.Focus()
}

func (p *entryPage) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case authDoneMsg:
		return p.finish(msg)

	case tea.KeyMsg:
		if p.busy {
			return nil
		}
		switch {
		case key.Matches(msg, entryKeys.Toggle):
			if p.mode == modeSignIn {
				p.mode = modeSignUp
			} else {
				p.mode = modeSignIn
			}
			p.err, p.info = "", ""
			return nil
		case key.Matches(msg, entryKeys.Next):
			return p.setFocus(p.focus + 1)
		case key.Matches(msg, entryKeys.Prev):
			return p.setFocus(p.focus - 1)
		case key.Matches(msg, entryKeys.Submit):
			if p.focus == 0 && p.password.Value() == "" {
				return p.setFocus(1)
			}
			return p.submit()
		}
	}

	var cmd tea.Cmd
	switch {
	case p.busy:
		p.spinner, cmd = p.spinner.Update(msg)
	case p.focus == 0:
		p.email, cmd = p.email.Update(msg)
	default:
		p.password, cmd = p.password.Update(msg)
	}
	return cmd
}

func (p *entryPage) submit() tea.Cmd {
	email := strings.TrimSpace(p.email.Value())
	password := p.password.Value()
	p.info = ""
	if email == "" || password == "" {
		p.err = errMissingCredentials
		return nil
	}
	if p.deps.Session == nil {
		p.err = session.ErrNotConfigured.Error()
		return nil
	}
	p.err = ""
	p.busy = true

	mode, tag, sess := p.mode, p.tag(), p.deps.Session
	ctx, done := p.cancels.begin(context.Background())
	label := "Signing in"
	if mode == modeSignUp {
		label = "Creating account"
	}
	return tea.Batch(p.spinner.Start(label), func() tea.Msg {
		defer done()
		if mode == modeSignUp {
			id, err := sess.SignUp(ctx, email, password)
			return authDoneMsg{pageMsg: tag, mode: mode, user: id, err: err}
		}
		err := sess.SignIn(ctx, email, password)
		id, _ := sess.CurrentUser()
		return authDoneMsg{pageMsg: tag, mode: mode, user: id, err: err}
	})
}

func (p *entryPage) finish(msg authDoneMsg) tea.Cmd {
	p.busy = false
	p.spinner.Stop()
	if msg.err != nil {
		p.err = userMessage(msg.err)
		p.logger.Info("authentication failed", "mode", msg.mode, "error", msg.err)
		return nil
	}
	if msg.mode == modeSignUp {
		// Sign-up leaves the user signed out; they log in explicitly.
		p.mode = modeSignIn
		p.password.SetValue("")
		p.info = "Account created for " + msg.user.Email + ". Please sign in."
		return p.setFocus(1)
	}
	return Navigate(RouteDashboard, "")
}

func (p *entryPage) view(width, height int) string {
	th := p.theme
	title := "Welcome back"
	action := "Sign in"
	toggle := "New here? Press C-t to create an account."
	if p.mode == modeSignUp {
		title = "Create your account"
		action = "Sign up"
		toggle = "Already have an account? Press C-t to sign in."
	}

	field := func(label string, in textinput.Model, focused bool) string {
		style := th.Field
		if focused {
			style = th.FieldFocus
		}
		return th.Label.Render(label) + "\n" + style.Width(36).Render(in.View())
	}

	parts := []string{
		th.HeaderBrand.Render(components.Brand),
		th.Subtitle.Render("Plan smarter trips with AI"),
		"",
		th.PageTitle.Render(title),
		field("Email", p.email, p.focus == 0),
		field("Password", p.password, p.focus == 1),
		"",
		th.ButtonFocus.Render(action),
	}
	if p.busy {
		parts = append(parts, p.spinner.View())
	}
	if p.err != "" {
		parts = append(parts, components.InlineError(th, p.err))
	}
	if p.info != "" {
		parts = append(parts, styles.RenderSuccess(p.info))
	}
	parts = append(parts, "", th.Muted.Render(toggle))

	form := lipgloss.JoinVertical(lipgloss.Left, parts...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, form)
}
