package repo

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"

	"github.com/murkotick/ecommerce-catalog/internal/app/product/contracts"
	"github.com/murkotick/ecommerce-catalog/internal/app/product/domain"
	"github.com/murkotick/ecommerce-catalog/internal/models/m_outbox"
)

// NewOutboxEvent builds the pending outbox record describing a product mutation.
// The payload is a snapshot of the product after the write; deletes only carry the id.
func NewOutboxEvent(eventType string, p *domain.Product, now time.Time) (*contracts.OutboxEvent, error) {
	payload, err := marshalProductPayload(eventType, p, now)
	if err != nil {
		return nil, err
	}
	return &contracts.OutboxEvent{
		EventID:      uuid.New().String(),
		EventType:    eventType,
		AggregateID:  strconv.FormatInt(p.ID(), 10),
		PayloadJSON:  payload,
		Status:       contracts.OutboxStatusPending,
		CreatedAtUTC: now.UTC(),
	}, nil
}

func outboxInsertMut(e *contracts.OutboxEvent) *spanner.Mutation {
	if e == nil {
		return nil
	}
	return m_outbox.InsertMutation(e.EventID, e.EventType, e.AggregateID, e.PayloadJSON, e.Status, e.CreatedAtUTC)
}

func marshalProductPayload(eventType string, p *domain.Product, now time.Time) (string, error) {
	if p == nil {
		return "{}", nil
	}

	payload := map[string]interface{}{
		"product_id":  p.ID(),
		"occurred_at": now.UTC(),
	}
	if eventType != contracts.EventProductDeleted {
		payload["name"] = p.Name()
		payload["price"] = p.Price().String()
		payload["stock_quantity"] = p.StockQuantity()
		payload["category_id"] = p.CategoryID()
		payload["image_url"] = p.ImageURL()
		payload["version"] = p.Version()
		payload["created_at"] = p.CreatedAt().UTC()
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal outbox payload for %s: %w", eventType, err)
	}
	return string(b), nil
}
