package sync

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/mailpilot/internal/dashboard"
)

// StateMsg is a tea.Msg carrying the latest dashboard snapshot.
type StateMsg struct {
	State dashboard.State
}

// ClosedMsg is a tea.Msg sent once the controller's update channel closes.
type ClosedMsg struct{}

// Source is anything that publishes dashboard snapshots.
type Source interface {
	Updates() <-chan dashboard.State
}

// Subscription relays controller snapshots into the Bubble Tea runtime.
type Subscription struct {
	updates <-chan dashboard.State
}

// Subscribe creates a Subscription over the given source.
func Subscribe(src Source) Subscription {
	return Subscription{updates: src.Updates()}
}

// WaitForNextState returns a tea.Cmd that blocks until the next snapshot
// arrives. It should be called again after every StateMsg to keep
// listening.
func (s Subscription) WaitForNextState() tea.Cmd {
	ch := s.updates
	return func() tea.Msg {
		if ch == nil {
			return ClosedMsg{}
		}
		st, ok := <-ch
		if !ok {
			return ClosedMsg{}
		}
		return StateMsg{State: st}
	}
}
