// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/journey360-tui/internal/trip"
	"github.com/jeranaias/journey360-tui/internal/ui/components"
	"github.com/jeranaias/journey360-tui/internal/ui/styles"
	"github.com/jeranaias/journey360-tui/internal/util"
)

// =============================================================================
// SAFETY
// =============================================================================

var safetyKeys = struct {
	Search, Edit, Leave key.Binding
}{
	Search: key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "check location")),
	Edit:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "edit location")),
	Leave:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "done")),
}

type safetyMsg struct {
	pageMsg
	location   string
	assessment *trip.SafetyAssessment
	err        error
}

type safetyPage struct {
	base
	location   textinput.Model
	editing    bool
	checked    string // location of the displayed assessment
	assessment *trip.SafetyAssessment
	loading    bool
	err        string
	spinner    components.Spinner
	viewport   viewport.Model
}

func newSafetyPage(sh *shell) *safetyPage {
	in := textinput.New()
	in.Prompt = "Location: "
	in.Placeholder = trip.DefaultSafetyLocation
	in.CharLimit = 120
	in.SetValue(util.FirstNonEmpty(sh.deps.UI.SafetyLocation, trip.DefaultSafetyLocation))
	return &safetyPage{
		base:     sh.newBase(),
		location: in,
		spinner:  components.NewSpinner(sh.theme, styles.GlobeSpinner),
		viewport: viewport.New(80, 20),
	}
}

// init assesses the default location straight away.
func (p *safetyPage) init() tea.Cmd {
	return p.assess()
}

func (p *safetyPage) capturing() bool { return p.editing }

func (p *safetyPage) shortcuts() []components.Shortcut {
	if p.editing {
		return []components.Shortcut{shortcut(safetyKeys.Search), shortcut(safetyKeys.Leave)}
	}
	return []components.Shortcut{shortcut(safetyKeys.Edit)}
}

func (p *safetyPage) assess() tea.Cmd {
	location := strings.TrimSpace(p.location.Value())
	if location == "" {
		location = trip.DefaultSafetyLocation
		p.location.SetValue(location)
	}
	if p.deps.Backend == nil {
		return nil
	}
	p.loading = true
	p.err = ""
	backend, tag := p.deps.Backend, p.tag()
	ctx, done := p.cancels.begin(context.Background())
	return tea.Batch(p.spinner.Start("Checking "+location), func() tea.Msg {
		defer done()
		a, err := backend.AssessSafety(ctx, location)
		return safetyMsg{pageMsg: tag, location: location, assessment: a, err: err}
	})
}

func (p *safetyPage) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case safetyMsg:
		p.loading = false
		p.spinner.Stop()
		if msg.err != nil {
			p.err = userMessage(msg.err)
			p.logger.Warn("safety assessment failed", "location", msg.location, "error", msg.err)
			return nil
		}
		p.assessment = msg.assessment
		p.checked = msg.location
		return nil

	case tea.KeyMsg:
		if p.editing {
			switch {
			case key.Matches(msg, safetyKeys.Search):
				p.editing = false
				p.location.Blur()
				return p.assess()
			case key.Matches(msg, safetyKeys.Leave):
				p.editing = false
				p.location.Blur()
				return nil
			}
			var cmd tea.Cmd
			p.location, cmd = p.location.Update(msg)
			return cmd
		}
		switch {
		case key.Matches(msg, safetyKeys.Edit):
			p.editing = true
			return p.location.Focus()
		case key.Matches(msg, safetyKeys.Search):
			if !p.loading {
				return p.assess()
			}
			return nil
		}
		var cmd tea.Cmd
		p.viewport, cmd = p.viewport.Update(msg)
		return cmd
	}

	if p.loading {
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (p *safetyPage) view(width, height int) string {
	th := p.theme
	top := th.PageTitle.Render("Safety Alerts") + "\n" + p.location.View()

	var body string
	switch {
	case p.loading:
		body = p.spinner.View()
	case p.err != "":
		body = components.InlineError(th, p.err)
	case p.assessment != nil:
		body = components.SafetyCards(th, p.assessment, p.checked, width) +
			"\n\n" + th.CardTitle.Render("Recent alerts") + "\n" +
			components.AlertList(th, p.assessment.Alerts, width)
	}

	p.viewport.Width = width
	p.viewport.Height = max(height-lipgloss.Height(top)-1, 3)
	p.viewport.SetContent(body)
	return top + "\n" + p.viewport.View()
}
