package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/imrishuroy/storefront-policies/internal/policies"
)

// ViewRecorder records a single policy view.
type ViewRecorder interface {
	RecordPolicyView(ctx context.Context, policy, language string, at time.Time) error
}

// Processor turns policy view events from SQS into metrics.
type Processor struct {
	recorder ViewRecorder
	logger   *zap.Logger
}

// NewProcessor creates a new worker processor.
func NewProcessor(recorder ViewRecorder, logger *zap.Logger) *Processor {
	return &Processor{recorder: recorder, logger: logger}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	p.logger.Debug("received SQS batch", zap.Int("records", len(ev.Records)))
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			p.logger.Error("worker error", zap.String("message_id", rec.MessageId), zap.Error(err))
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg policies.ViewEvent
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if msg.Policy == "" {
		return fmt.Errorf("message %s has no policy", rec.MessageId)
	}

	at := msg.ViewedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	if err := p.recorder.RecordPolicyView(ctx, string(msg.Policy), msg.Language, at); err != nil {
		return fmt.Errorf("record view of %s: %w", msg.Policy, err)
	}

	p.logger.Debug("recorded policy view",
		zap.String("policy", string(msg.Policy)),
		zap.String("language", msg.Language),
		zap.String("correlation_id", msg.RequestID))
	return nil
}
