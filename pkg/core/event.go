package core

import "fmt"

// EventType represents the type of change in a store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a stored record.
type Event struct {
	Type      EventType
	Kind      string
	ID        string
	Timestamp int64 // Unix timestamp
}

// String renders the event for logs and generic event sinks.
func (e Event) String() string {
	return fmt.Sprintf("%s %s/%s", e.Type, e.Kind, e.ID)
}
