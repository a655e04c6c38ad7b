package offers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
)

type fakeResult struct {
	err error
}

func (r fakeResult) Get(context.Context) (string, error) {
	return "msg-1", r.err
}

type fakePublisher struct {
	msgs   []*gcppubsub.Message
	result publishResult
}

func (p *fakePublisher) Publish(_ context.Context, msg *gcppubsub.Message) publishResult {
	p.msgs = append(p.msgs, msg)
	return p.result
}

func TestPubSubAuditPublisherAttributes(t *testing.T) {
	fake := &fakePublisher{result: fakeResult{}}
	pub := &pubsubAuditPublisher{pub: fake, timeout: time.Second}

	in := baseInput("3000", "1800")
	in.RequestID = "req-9"
	event := NewCalculationEvent(in, &Result{FinalPayable: 4800, AsOf: testNow})

	if err := pub.PublishCalculation(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(fake.msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(fake.msgs))
	}
	attrs := fake.msgs[0].Attributes
	if attrs["event_type"] != calculationEventType || attrs["organization_id"] != testOrg.String() || attrs["request_id"] != "req-9" {
		t.Fatalf("unexpected attributes %v", attrs)
	}

	var decoded CalculationEvent
	if err := json.Unmarshal(fake.msgs[0].Data, &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded.RequestID != "req-9" || decoded.Result.FinalPayable != 4800 || !decoded.OccurredAt.Equal(testNow) {
		t.Fatalf("unexpected payload %+v", decoded)
	}
}

func TestPubSubAuditPublisherErrors(t *testing.T) {
	event := NewCalculationEvent(baseInput("3000", "1800"), &Result{})

	failing := &pubsubAuditPublisher{pub: &fakePublisher{result: fakeResult{err: errors.New("topic deleted")}}, timeout: time.Second}
	if err := failing.PublishCalculation(context.Background(), event); err == nil {
		t.Fatal("expected publish error")
	}

	missing := &pubsubAuditPublisher{pub: &fakePublisher{}, timeout: time.Second}
	if err := missing.PublishCalculation(context.Background(), event); err == nil {
		t.Fatal("expected error for nil publish result")
	}

	if _, err := NewPubSubAuditPublisher(nil); err == nil {
		t.Fatal("expected error for nil topic publisher")
	}
}
