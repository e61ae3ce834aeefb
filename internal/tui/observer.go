package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/shelf/internal/domain"
)

// ChannelObserver adapts domain.ChangeObserver to a channel for Bubble Tea.
type ChannelObserver struct {
	ch chan<- domain.ChangeEvent
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver(ch chan<- domain.ChangeEvent) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// OnChange sends the event to the channel (non-blocking if full).
// Each event carries a full snapshot, so a dropped one is superseded by the next.
func (o *ChannelObserver) OnChange(event domain.ChangeEvent) {
	select {
	case o.ch <- event:
	default:
	}
}

// WaitForChangeCmd blocks until the next library change arrives.
// Returns nil when ch is nil or closed.
func WaitForChangeCmd(ch <-chan domain.ChangeEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return LibraryChangedMsg{Event: event}
	}
}
