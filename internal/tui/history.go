package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const historyChromeHeight = 6

// returns a new session history screen
func NewHistoryModel(client *APIClient) *HistoryModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPurple)

	return &HistoryModel{
		client:   client,
		spinner:  sp,
		viewport: viewport.New(80, 20),
	}
}

// fetches the first page of sessions
func (m *HistoryModel) Load() tea.Cmd {
	m.isFetching = true
	m.err = nil

	return tea.Batch(m.client.ListSessionsCmd(), m.spinner.Tick)
}

func (m *HistoryModel) Update(msg tea.Msg) (*HistoryModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.detail != nil {
			switch msg.String() {
			case "esc", "backspace", "q":
				m.detail = nil
				return m, nil
			}

			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}

		case "r":
			return m, m.Load()

		case "enter":
			if m.isFetching || len(m.items) == 0 {
				return m, nil
			}

			m.isFetching = true
			return m, tea.Batch(m.client.GetSessionCmd(m.items[m.cursor].SessionID), m.spinner.Tick)
		}

	case SessionsLoadedMsg:
		m.isFetching = false
		m.items = msg.items
		m.total = msg.total

		if m.cursor >= len(m.items) {
			m.cursor = max(0, len(m.items)-1)
		}

	case SessionLoadedMsg:
		m.isFetching = false
		m.detail = &msg.detail
		m.viewport.SetContent(renderMarkdown(m.glamourRenderer, detailMarkdown(m.detail)))
		m.viewport.GotoTop()

	case APIErrorMsg:
		m.isFetching = false
		m.err = msg.err

	case spinner.TickMsg:
		if m.isFetching {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(10, msg.Width-4)
		m.viewport.Height = max(3, msg.Height-historyChromeHeight)
		m.glamourRenderer = newRenderer(msg.Width)
	}

	return m, nil
}

func (m *HistoryModel) View() string {
	var b strings.Builder

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorWhite).
		Render(fmt.Sprintf("SESSIONS (%d)", m.total))

	helpText := "[↑/↓: Move] [Enter: Open] [R: Reload] [Ctrl+C: Back]"
	if m.detail != nil {
		helpText = "[↑/↓: Scroll] [Esc: Back to list]"
	}

	help := lipgloss.NewStyle().Foreground(colorGray).Render(helpText)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Left,
		header,
		strings.Repeat(" ", max(0, m.width-lipgloss.Width(header)-lipgloss.Width(help)-2)),
		help,
	))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("error: %v", m.err)))
		b.WriteString("\n")

	case m.detail != nil:
		b.WriteString(m.viewport.View())
		return b.String()

	case m.isFetching && len(m.items) == 0:
		b.WriteString(m.spinner.View() + " " + infoStyle.Render("loading sessions..."))
		return b.String()

	case len(m.items) == 0:
		b.WriteString(infoStyle.Render("no sessions yet. start one with the new command."))
		return b.String()
	}

	for i, item := range m.items {
		line := fmt.Sprintf("%s  %-17s  %s",
			item.CreatedAt.Local().Format("2006-01-02 15:04"),
			item.Status,
			truncate(item.Prompt, max(20, m.width-44)),
		)

		if i == m.cursor {
			b.WriteString(menuItemSelectedStyle.Render("› " + line))
		} else {
			b.WriteString(menuItemStyle.Render("  " + line))
		}

		b.WriteString("\n")
	}

	if m.isFetching {
		b.WriteString("\n" + m.spinner.View() + " " + infoStyle.Render("loading..."))
	}

	return b.String()
}

// renders a stored session as markdown: prompt, answers, then the design
func detailMarkdown(d *SessionDetail) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", truncate(d.Prompt, 80))
	fmt.Fprintf(&b, "**status:** %s  \n**created:** %s\n\n", d.Status, d.CreatedAt.Local().Format("2006-01-02 15:04"))

	if len(d.Answers) > 0 {
		b.WriteString("## Clarifications\n\n")

		for _, a := range d.Answers {
			fmt.Fprintf(&b, "- **%s** %s\n", a.Question, a.Answer)
		}

		b.WriteString("\n")
	}

	if pending := len(d.Questions) - len(d.Answers); pending > 0 {
		fmt.Fprintf(&b, "_%d question(s) still unanswered_\n\n", pending)
	}

	if d.FinalDesign != nil {
		b.WriteString(designMarkdown(d.FinalDesign))
	}

	return b.String()
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:max(0, n-1)]) + "…"
}
