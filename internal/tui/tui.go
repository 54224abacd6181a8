package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

func NewApp(mode string) *Model {
	client := NewAPIClient()

	return &Model{
		state:   StateWelcome,
		mode:    mode,
		client:  client,
		welcome: NewWelcome(mode),
		session: NewSessionModel(client),
		history: NewHistoryModel(client),
	}
}

// seeds the terminal size before the first WindowSizeMsg arrives
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.session.resize(width, height)
	m.history, _ = m.history.Update(tea.WindowSizeMsg{Width: width, Height: height})
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			// only quit from welcome screen, other screens go back to it
			if m.state == StateWelcome {
				return m, tea.Quit
			}

			m.state = StateWelcome
			return m, nil
		}

		// any key dismisses an error
		if m.err != nil {
			m.err = nil
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case ErrorMsg:
		m.err = msg.err
		return m, nil

	case EnterSessionMsg:
		m.state = StateSession
		m.session = NewSessionModel(m.client)
		m.session.resize(m.width, m.height)
		return m, m.session.Init()

	case EnterHistoryMsg:
		m.state = StateHistory
		return m, m.history.Load()
	}

	switch m.state {
	case StateWelcome:
		return m.updateWelcome(msg)

	case StateSession:
		return m.updateSession(msg)

	case StateHistory:
		return m.updateHistory(msg)

	default:
		return m, nil
	}
}

func (m *Model) View() string {
	if m.err != nil {
		return errorView(m.err)
	}

	switch m.state {
	case StateWelcome:
		return m.welcome.View()

	case StateSession:
		return m.session.View()

	case StateHistory:
		return m.history.View()

	default:
		return "Unknown state"
	}
}

func (m *Model) updateWelcome(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.welcome, cmd = m.welcome.Update(msg)

	return m, cmd
}

func (m *Model) updateSession(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.session, cmd = m.session.Update(msg)

	return m, cmd
}

func (m *Model) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)

	return m, cmd
}

func errorView(err error) string {
	return fmt.Sprintf("\n  Error: %v\n\n  Press any key to continue, Ctrl+C to go back\n", err)
}
