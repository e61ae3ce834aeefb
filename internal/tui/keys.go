package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Home     key.Binding
	End      key.Binding
	NextPane key.Binding
	PrevPane key.Binding
	Enter    key.Binding

	// Search pane
	FocusQuery key.Binding
	FocusGenre key.Binding
	Add        key.Binding

	// Library pane
	Like           key.Binding
	ProgressUp     key.Binding
	ProgressDown   key.Binding
	Complete       key.Binding
	LikedOnly      key.Binding
	CycleGenre     key.Binding
	Filter         key.Binding
	Recommend      key.Binding
	ShowReviews    key.Binding
	OpenLink       key.Binding
	RefreshCurated key.Binding

	// Global
	Quit   key.Binding
	Help   key.Binding
	Escape key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),
		NextPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next pane"),
		),
		PrevPane: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "previous pane"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),

		FocusQuery: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "search"),
		),
		FocusGenre: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "genre"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add to library"),
		),

		Like: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "like/unlike"),
		),
		ProgressUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "progress +10"),
		),
		ProgressDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "progress -10"),
		),
		Complete: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "mark complete"),
		),
		LikedOnly: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "liked only"),
		),
		CycleGenre: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "cycle genre"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Recommend: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "recommendations"),
		),
		ShowReviews: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "reviews"),
		),
		OpenLink: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open preview"),
		),
		RefreshCurated: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "refresh bestsellers"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel/clear"),
		),
	}
}

// HelpBindings returns the bindings shown on the help screen, per pane
func (k KeyMap) HelpBindings(p Pane) []key.Binding {
	common := []key.Binding{k.NextPane, k.Up, k.Down, k.Help, k.Quit}
	switch p {
	case PaneSearch:
		return append([]key.Binding{k.FocusQuery, k.FocusGenre, k.Add, k.OpenLink}, common...)
	case PaneLibrary:
		return append([]key.Binding{
			k.Like, k.ProgressUp, k.ProgressDown, k.Complete,
			k.LikedOnly, k.CycleGenre, k.Filter, k.Recommend, k.ShowReviews, k.OpenLink,
		}, common...)
	case PaneBestsellers:
		return append([]key.Binding{k.Enter, k.RefreshCurated}, common...)
	default:
		return common
	}
}
