// Package dashboard renders the realtime operations dashboard as a
// fullscreen bubbletea program fed by the aggregator's snapshot stream.
package dashboard

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/klyve/vodctl/internal/domain"
)

// StateSource is the aggregator surface the TUI consumes.
type StateSource interface {
	Snapshot() domain.DashboardState
	Subscribe() (<-chan domain.DashboardState, func())
	Connected() bool
	FetchInitialData() error
}

type stateMsg domain.DashboardState

type tickMsg time.Time

const connectionPollInterval = time.Second

type model struct {
	source    StateSource
	updates   <-chan domain.DashboardState
	cancel    func()
	state     domain.DashboardState
	connected bool
	styles    styles
}

func newModel(source StateSource) model {
	updates, cancel := source.Subscribe()
	return model{
		source:    source,
		updates:   updates,
		cancel:    cancel,
		state:     source.Snapshot(),
		connected: source.Connected(),
		styles:    newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForState(m.updates), pollConnection())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		}
		return m, nil
	case stateMsg:
		m.state = domain.DashboardState(msg)
		m.connected = m.source.Connected()
		return m, waitForState(m.updates)
	case tickMsg:
		m.connected = m.source.Connected()
		return m, pollConnection()
	default:
		return m, nil
	}
}

func (m model) View() string {
	return renderView(m.state, m.connected, m.styles)
}

func waitForState(updates <-chan domain.DashboardState) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-updates
		if !ok {
			return nil
		}
		return stateMsg(state)
	}
}

// pollConnection keeps the badge honest while no events arrive.
func pollConnection() tea.Cmd {
	return tea.Tick(connectionPollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run blocks until the operator quits the dashboard.
func Run(source StateSource) error {
	// A source whose channels are still dialing re-requests the snapshot by
	// itself once they connect, so only other failures abort.
	if err := source.FetchInitialData(); err != nil && !errors.Is(err, domain.ErrNotConnected) {
		return err
	}

	p := tea.NewProgram(newModel(source), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
