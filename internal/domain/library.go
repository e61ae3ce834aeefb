package domain

// ChangeKind identifies which mutation produced a ChangeEvent
type ChangeKind int

const (
	ChangeAdded ChangeKind = iota
	ChangeLikeToggled
	ChangeProgressUpdated
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeLikeToggled:
		return "like-toggled"
	case ChangeProgressUpdated:
		return "progress-updated"
	default:
		return "unknown"
	}
}

// ChangeEvent is emitted after a mutation has been persisted.
type ChangeEvent struct {
	Kind    ChangeKind
	Entry   LibraryEntry   // The entry as it is after the mutation
	Entries []LibraryEntry // Copy of the full list after the mutation
}

// ChangeObserver receives library change notifications.
type ChangeObserver interface {
	OnChange(event ChangeEvent)
}

// ObserverFunc adapts a plain function to ChangeObserver.
type ObserverFunc func(ChangeEvent)

func (f ObserverFunc) OnChange(event ChangeEvent) { f(event) }
