package events

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"edushare/internal/domain"
	"edushare/internal/infrastructure/kafka"
)

const (
	TypeShareCreated       = "share.created"
	TypeShareStatusChanged = "share.status_changed"
)

type ShareEvent struct {
	EventID        string          `json:"eventId"`
	Type           string          `json:"type"`
	ShareID        uint            `json:"shareId"`
	OwnerID        int             `json:"ownerId"`
	Status         string          `json:"status"`
	PreviousStatus string          `json:"previousStatus,omitempty"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	ItemCount      int             `json:"itemCount"`
	OccurredAt     time.Time       `json:"occurredAt"`
}

// KafkaPublisher emits share lifecycle events keyed by share id, so all
// events of one share land on the same partition.
type KafkaPublisher struct {
	writer kafka.MessageWriter
}

func NewKafkaPublisher(writer kafka.MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) PublishCreated(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, newEvent(TypeShareCreated, order, ""))
}

func (p *KafkaPublisher) PublishStatusChanged(ctx context.Context, order *domain.Order, previous domain.OrderStatus) error {
	return p.publish(ctx, newEvent(TypeShareStatusChanged, order, string(previous)))
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func (p *KafkaPublisher) publish(ctx context.Context, event ShareEvent) error {
	return kafka.PublishJSON(ctx, p.writer, strconv.FormatUint(uint64(event.ShareID), 10), event)
}

func newEvent(eventType string, order *domain.Order, previous string) ShareEvent {
	return ShareEvent{
		EventID:        uuid.NewString(),
		Type:           eventType,
		ShareID:        order.ID,
		OwnerID:        order.OwnerID,
		Status:         string(order.Status),
		PreviousStatus: previous,
		TotalAmount:    order.TotalAmount,
		ItemCount:      len(order.Items),
		OccurredAt:     order.UpdatedAt.UTC(),
	}
}

// NopPublisher is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishCreated(context.Context, *domain.Order) error { return nil }

func (NopPublisher) PublishStatusChanged(context.Context, *domain.Order, domain.OrderStatus) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
