package tui

import (
	"fmt"
	"strings"

	"codeberg.org/architai/server/architai/sessions"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// rows reserved around the transcript for header, question, input and status
const sessionChromeHeight = 14

// returns a new design session screen
func NewSessionModel(client *APIClient) *SessionModel {
	ti := textinput.New()
	ti.Placeholder = "describe the system you want to design..."
	ti.Focus()
	ti.CharLimit = 0
	ti.Width = 80
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorLightGray)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorWhite)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPurple)

	return &SessionModel{
		client:  client,
		input:   ti,
		spinner: sp,
		phase:   phasePrompt,
	}
}

func (m *SessionModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *SessionModel) Update(msg tea.Msg) (*SessionModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return m, m.submit()

		case "ctrl+f":
			if m.phase == phaseReady && !m.isFetching {
				return m, m.finalize()
			}

			return m, nil

		case "ctrl+l":
			fresh := NewSessionModel(m.client)
			fresh.resize(m.width, m.height)
			return fresh, fresh.Init()

		case "pgup", "pgdown", "up", "down":
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case SessionCreatedMsg:
		m.isFetching = false
		m.status = ""
		m.sessionID = msg.resp.SessionID
		m.questions = msg.resp.Questions
		m.transcript = msg.resp.Conversation
		m.answered = 0
		m.phase = phaseAnswering

		if len(m.questions) == 0 {
			m.phase = phaseReady
		}

		m.updateInput()
		m.refreshContent()
		return m, nil

	case ReplyMsg:
		m.isFetching = false
		m.status = ""
		m.transcript = msg.resp.Conversation
		m.answered = len(m.questions) - len(msg.resp.NextQuestions)

		if msg.resp.Status != sessions.StatusInProgress {
			m.phase = phaseReady
		}

		m.updateInput()
		m.refreshContent()
		return m, nil

	case DesignMsg:
		m.isFetching = false
		m.status = ""
		m.design = &msg.design
		m.phase = phaseDone
		m.updateInput()
		m.refreshContent()
		m.viewport.GotoTop()
		return m, nil

	case APIErrorMsg:
		m.isFetching = false
		m.status = fmt.Sprintf("error: %v", msg.err)
		m.input.Focus()
		return m, nil

	case spinner.TickMsg:
		if !m.isFetching {
			return m, nil
		}

		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// sends the input for the current phase
func (m *SessionModel) submit() tea.Cmd {
	if m.isFetching {
		return nil
	}

	value := strings.TrimSpace(m.input.Value())

	switch m.phase {
	case phasePrompt:
		if value == "" {
			return nil
		}

		m.prompt = value
		m.input.SetValue("")
		m.startFetching("asking clarifying questions")
		m.refreshContent()

		return tea.Batch(m.client.CreateSessionCmd(value), m.spinner.Tick)

	case phaseAnswering:
		if value == "" {
			return nil
		}

		m.input.SetValue("")
		m.startFetching("sending answer")

		return tea.Batch(m.client.ReplyCmd(m.sessionID, value), m.spinner.Tick)

	case phaseReady:
		return m.finalize()

	default:
		return nil
	}
}

func (m *SessionModel) finalize() tea.Cmd {
	m.input.SetValue("")
	m.startFetching("generating design")

	return tea.Batch(m.client.FinalizeCmd(m.sessionID), m.spinner.Tick)
}

func (m *SessionModel) startFetching(status string) {
	m.isFetching = true
	m.status = status
}

// the question awaiting an answer, empty once all are answered
func (m *SessionModel) currentQuestion() string {
	if m.phase != phaseAnswering || m.answered >= len(m.questions) {
		return ""
	}

	return m.questions[m.answered]
}

func (m *SessionModel) updateInput() {
	switch m.phase {
	case phaseAnswering:
		m.input.Placeholder = "type your answer..."
		m.input.Focus()
	case phaseReady:
		m.input.Placeholder = "press enter to generate the design"
		m.input.Focus()
	case phaseDone:
		m.input.Placeholder = "design complete, ctrl+l starts over"
		m.input.Blur()
	}
}

func (m *SessionModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(10, width-10)

	vpHeight := max(3, height-sessionChromeHeight)

	if !m.ready {
		m.viewport = viewport.New(max(10, width-4), vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = max(10, width-4)
		m.viewport.Height = vpHeight
	}

	m.glamourRenderer = newRenderer(width)
	m.refreshContent()
}

func (m *SessionModel) refreshContent() {
	if !m.ready {
		return
	}

	md := transcriptMarkdown(m.prompt, m.transcript)

	if m.design != nil {
		md = designMarkdown(m.design)
	}

	m.viewport.SetContent(renderMarkdown(m.glamourRenderer, md))
	m.viewport.GotoBottom()
}

func (m *SessionModel) View() string {
	var b strings.Builder

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorWhite).
		Render("DESIGN SESSION")

	help := lipgloss.NewStyle().
		Foreground(colorGray).
		Render("[Enter: Send] [Ctrl+F: Finalize] [Ctrl+L: New] [Ctrl+C: Back]")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Left,
		header,
		strings.Repeat(" ", max(0, m.width-lipgloss.Width(header)-lipgloss.Width(help)-2)),
		help,
	))
	b.WriteString("\n\n")

	content := ""

	switch {
	case m.phase == phasePrompt && m.prompt == "":
		content = infoStyle.Render("describe a system below and press enter. architai will ask a few questions first.")
	case m.ready:
		content = m.viewport.View()
	default:
		content = transcriptMarkdown(m.prompt, m.transcript)
	}

	b.WriteString(borderStyle.Width(max(10, m.width-4)).Padding(0, 1).Render(content))
	b.WriteString("\n")

	if q := m.currentQuestion(); q != "" {
		progress := fmt.Sprintf("question %d of %d", m.answered+1, len(m.questions))

		var qb strings.Builder
		qb.WriteString(lipgloss.NewStyle().Foreground(colorLightGray).Bold(true).Render(progress))
		qb.WriteString("\n")
		qb.WriteString(lipgloss.NewStyle().Foreground(colorWhite).Render(q))

		b.WriteString(borderStyle.Width(max(10, m.width-4)).Padding(0, 1).Render(qb.String()))
		b.WriteString("\n")
	}

	if m.phase == phaseReady && !m.isFetching {
		b.WriteString(successStyle.Render("all questions answered, ready to finalize"))
		b.WriteString("\n")
	}

	b.WriteString(borderStyle.Width(max(10, m.width-4)).Padding(0, 1).Render(m.input.View()))
	b.WriteString("\n")

	switch {
	case m.isFetching:
		b.WriteString(m.spinner.View() + " " + infoStyle.Render(m.status+"..."))
	case m.status != "":
		b.WriteString(errorStyle.Render(m.status))
	}

	return b.String()
}
