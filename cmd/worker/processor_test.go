package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/imrishuroy/storefront-policies/internal/policies"
)

// --- mock implementations ---

type recordedView struct {
	policy   string
	language string
	at       time.Time
}

type mockRecorder struct {
	views []recordedView
	err   error
}

func (m *mockRecorder) RecordPolicyView(ctx context.Context, policy, language string, at time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.views = append(m.views, recordedView{policy: policy, language: language, at: at})
	return nil
}

func sqsEvent(t *testing.T, evs ...policies.ViewEvent) events.SQSEvent {
	t.Helper()
	var out events.SQSEvent
	for i, ev := range evs {
		body, err := json.Marshal(ev)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		out.Records = append(out.Records, events.SQSMessage{MessageId: string(rune('a' + i)), Body: string(body)})
	}
	return out
}

// --- test cases ---

func TestWorkerProcess_Success(t *testing.T) {
	rec := &mockRecorder{}
	p := NewProcessor(rec, zap.NewNop())

	at := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	ev := sqsEvent(t,
		policies.ViewEvent{Policy: policies.PrivacyPolicy, Handle: "privacy-policy", Language: "EN", ViewedAt: at},
		policies.ViewEvent{Policy: policies.RefundPolicy, Handle: "refund-policy"},
	)

	if err := p.Handle(context.Background(), ev); err != nil {
		t.Fatalf("unexpected worker error: %v", err)
	}
	if len(rec.views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(rec.views))
	}
	if rec.views[0].policy != "privacyPolicy" || rec.views[0].language != "EN" || !rec.views[0].at.Equal(at) {
		t.Fatalf("unexpected first view %+v", rec.views[0])
	}
	if rec.views[1].at.IsZero() {
		t.Fatalf("expected a default view time")
	}
}

func TestWorkerProcess_InvalidBody(t *testing.T) {
	rec := &mockRecorder{}
	p := NewProcessor(rec, zap.NewNop())

	ev := events.SQSEvent{Records: []events.SQSMessage{{MessageId: "bad", Body: "not-json"}}}
	if err := p.Handle(context.Background(), ev); err == nil {
		t.Fatalf("expected error for malformed body")
	}

	ev = events.SQSEvent{Records: []events.SQSMessage{{MessageId: "empty", Body: `{"handle":"x"}`}}}
	if err := p.Handle(context.Background(), ev); err == nil {
		t.Fatalf("expected error for missing policy")
	}
	if len(rec.views) != 0 {
		t.Fatalf("nothing should be recorded")
	}
}

func TestWorkerProcess_RecorderError(t *testing.T) {
	boom := errors.New("throttled")
	p := NewProcessor(&mockRecorder{err: boom}, zap.NewNop())

	err := p.Handle(context.Background(), sqsEvent(t, policies.ViewEvent{Policy: policies.ShippingPolicy}))
	if !errors.Is(err, boom) {
		t.Fatalf("expected recorder error, got %v", err)
	}
}
