package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/imrishuroy/storefront-policies/internal/aws"
	"github.com/imrishuroy/storefront-policies/internal/config"
	"github.com/imrishuroy/storefront-policies/internal/logging"
)

func main() {
	cfg, err := config.LoadWorker()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		logger.Fatal("failed to init aws clients", zap.Error(err))
	}

	p := NewProcessor(clients.Recorder(cfg.MetricsNamespace), logger)

	// If RUN_LOCAL=true, process a single simulated SQS event and exit.
	if cfg.RunLocal {
		testBody := cfg.LocalSQSBody
		if testBody == "" {
			testBody = `{"policy":"privacyPolicy","handle":"privacy-policy","language":"EN"}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{MessageId: "local-1", Body: testBody},
			},
		}
		if err := p.Handle(context.Background(), event); err != nil {
			logger.Fatal("local handler error", zap.Error(err))
		}
		return
	}

	lambda.Start(p.Handle)
}
