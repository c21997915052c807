package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// AWSClients bundles the service clients shared by the binaries:
// DynamoDB backs the policy store, SQS carries view events from the
// Publisher and CloudWatch receives the Metrics recorded by the worker.
type AWSClients struct {
	DynamoDB   DynamoDBAPI
	SQS        SQSAPI
	CloudWatch CloudWatchAPI
}

// NewAWSClients loads the shared AWS config (region, endpoint override)
// and builds every client from it.
func NewAWSClients(ctx context.Context) (*AWSClients, error) {
	cfg, err := LoadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}

	return &AWSClients{
		DynamoDB:   dynamodb.NewFromConfig(cfg),
		SQS:        sqs.NewFromConfig(cfg),
		CloudWatch: cloudwatch.NewFromConfig(cfg),
	}, nil
}

// Recorder returns a Metrics recorder on the CloudWatch client.
func (c *AWSClients) Recorder(namespace string) *Metrics {
	return NewMetrics(c.CloudWatch, namespace)
}

// ViewPublisher returns a Publisher sending view events to queueURL.
func (c *AWSClients) ViewPublisher(queueURL string) *Publisher {
	return NewPublisher(c.SQS, queueURL)
}
