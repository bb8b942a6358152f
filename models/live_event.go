package models

// EventAction enumerates the kinds of change notifications delivered by
// the realtime channel.
type EventAction string

const (
	// ActionCreate signals that a record was added to the collection.
	ActionCreate EventAction = "create"

	// ActionUpdate signals that an existing record's fields changed.
	ActionUpdate EventAction = "update"

	// ActionDelete signals that a record was removed from the collection.
	ActionDelete EventAction = "delete"
)

// LiveEvent is one server-pushed change notification for a collection.
// Events are best-effort: a reconnect may drop an arbitrary number of
// them, so consumers must treat a full re-fetch as the source of truth.
type LiveEvent struct {
	// Action is the kind of change.
	Action EventAction `json:"action"`

	// Record is the affected record. For deletes only the id is
	// guaranteed to be populated.
	Record Record `json:"record"`
}
