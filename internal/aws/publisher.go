package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/imrishuroy/storefront-policies/internal/policies"
)

// Publisher wraps an SQS client and a queue URL.
type Publisher struct {
	SQS      SQSAPI
	QueueURL string
}

// NewPublisher returns a Publisher bound to a queue URL.
func NewPublisher(sqsClient SQSAPI, queueURL string) *Publisher {
	return &Publisher{
		SQS:      sqsClient,
		QueueURL: queueURL,
	}
}

// SendViewEvent publishes ev as a JSON message. The policy, language and
// request id are copied into message attributes so consumers can filter
// without decoding the body.
func (p *Publisher) SendViewEvent(ctx context.Context, ev policies.ViewEvent) error {
	if ev.ViewedAt.IsZero() {
		ev.ViewedAt = time.Now().UTC()
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal view event: %w", err)
	}

	attrs := map[string]string{
		"policy":         string(ev.Policy),
		"language":       ev.Language,
		"correlation_id": ev.RequestID,
	}
	return p.send(ctx, string(body), attrs)
}

func (p *Publisher) send(ctx context.Context, messageBody string, attributes map[string]string) error {
	input := &sqs.SendMessageInput{
		QueueUrl:    &p.QueueURL,
		MessageBody: &messageBody,
	}
	msgAttrs := map[string]sqstypes.MessageAttributeValue{}
	for k, v := range attributes {
		// SQS rejects empty attribute values
		if v == "" {
			continue
		}
		msgAttrs[k] = sqstypes.MessageAttributeValue{
			DataType:    awsString("String"),
			StringValue: awsString(v),
		}
	}
	if len(msgAttrs) > 0 {
		input.MessageAttributes = msgAttrs
	}

	_, err := p.SQS.SendMessage(ctx, input)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// awsString helper
func awsString(s string) *string { return &s }
