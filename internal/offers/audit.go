package offers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
)

const (
	calculationEventType    = "offer_calculation.completed"
	calculationEventVersion = 1
	defaultPublishTimeout   = 5 * time.Second
)

// AuditPublisher ships completed calculations to the receipt/audit trail.
type AuditPublisher interface {
	PublishCalculation(ctx context.Context, event CalculationEvent) error
}

// CalculationEvent is the envelope published for every successful calculation.
type CalculationEvent struct {
	Version          int       `json:"version"`
	EventID          string    `json:"eventId"`
	EventType        string    `json:"eventType"`
	OccurredAt       time.Time `json:"occurredAt"`
	OrganizationID   uuid.UUID `json:"organizationId"`
	RequestID        string    `json:"requestId,omitempty"`
	CustomerCategory string    `json:"customerCategory,omitempty"`
	CouponCode       string    `json:"couponCode,omitempty"`
	Result           *Result   `json:"result"`
}

// NewCalculationEvent wraps result for publishing. OccurredAt is the pricing time.
func NewCalculationEvent(input CalculationInput, result *Result) CalculationEvent {
	return CalculationEvent{
		Version:          calculationEventVersion,
		EventID:          uuid.NewString(),
		EventType:        calculationEventType,
		OccurredAt:       input.AsOf,
		OrganizationID:   input.OrganizationID,
		RequestID:        input.RequestID,
		CustomerCategory: input.CustomerCategory,
		CouponCode:       input.CouponCode,
		Result:           result,
	}
}

type publisher interface {
	Publish(context.Context, *gcppubsub.Message) publishResult
}

type publishResult interface {
	Get(context.Context) (string, error)
}

type pubsubAuditPublisher struct {
	pub     publisher
	timeout time.Duration
}

// NewPubSubAuditPublisher publishes calculation events on a Pub/Sub topic.
func NewPubSubAuditPublisher(p *gcppubsub.Publisher) (AuditPublisher, error) {
	if p == nil {
		return nil, fmt.Errorf("pubsub publisher required")
	}
	return &pubsubAuditPublisher{pub: &gcpPublisher{Publisher: p}, timeout: defaultPublishTimeout}, nil
}

func (p *pubsubAuditPublisher) PublishCalculation(ctx context.Context, event CalculationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal calculation event: %w", err)
	}
	msg := &gcppubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_id":        event.EventID,
			"event_type":      event.EventType,
			"organization_id": event.OrganizationID.String(),
			"occurred_at":     event.OccurredAt.Format(time.RFC3339Nano),
		},
	}
	if event.RequestID != "" {
		msg.Attributes["request_id"] = event.RequestID
	}

	publishCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	result := p.pub.Publish(publishCtx, msg)
	if result == nil {
		return errors.New("publisher returned nil result")
	}
	if _, err := result.Get(publishCtx); err != nil {
		return fmt.Errorf("publish calculation event: %w", err)
	}
	return nil
}

type gcpPublisher struct {
	*gcppubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	if p == nil || p.Publisher == nil {
		return nil
	}
	return &gcpPublishResult{PublishResult: p.Publisher.Publish(ctx, msg)}
}

type gcpPublishResult struct {
	*gcppubsub.PublishResult
}

func (r *gcpPublishResult) Get(ctx context.Context) (string, error) {
	if r == nil || r.PublishResult == nil {
		return "", errors.New("publish result is nil")
	}
	return r.PublishResult.Get(ctx)
}

type noopAuditPublisher struct{}

func (noopAuditPublisher) PublishCalculation(context.Context, CalculationEvent) error { return nil }

// NoopAuditPublisher discards every event.
func NoopAuditPublisher() AuditPublisher {
	return noopAuditPublisher{}
}
