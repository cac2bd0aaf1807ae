package contracts

import "time"

// Outbox event types written alongside product mutations.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"

	OutboxStatusPending = "pending"
)

// OutboxEvent is the application-level representation of an event persisted to the outbox table.
// Repositories write one per product mutation in the same commit as the mutation.
type OutboxEvent struct {
	EventID      string
	EventType    string
	AggregateID  string
	PayloadJSON  string
	Status       string
	CreatedAtUTC time.Time
}
