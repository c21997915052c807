package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/storefront-policies/internal/aws"
	"github.com/imrishuroy/storefront-policies/internal/config"
	"github.com/imrishuroy/storefront-policies/internal/handlers"
	"github.com/imrishuroy/storefront-policies/internal/logging"
	"github.com/imrishuroy/storefront-policies/internal/policies"
	"github.com/imrishuroy/storefront-policies/internal/policystore"
	"github.com/imrishuroy/storefront-policies/internal/storefront"
)

func setupRouter(logger *zap.Logger, rateLimitPerMin int, cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handlers.RequestID())
	r.Use(handlers.AccessLog(logger))
	r.Use(handlers.RateLimit(rateLimitPerMin))

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterPolicyRoutes(r, cfg)

	return r
}

// newSource builds the policy backend selected by cfg.PolicySource.
func newSource(cfg config.Config, clients func() (*aws.AWSClients, error)) (policies.Source, error) {
	switch cfg.PolicySource {
	case config.SourceDynamoDB:
		c, err := clients()
		if err != nil {
			return nil, err
		}
		return policystore.NewStore(c.DynamoDB, cfg.PoliciesTable), nil
	case config.SourceStorefront:
		c, err := storefront.NewClient(storefront.Config{
			Domain:     cfg.StorefrontDomain,
			APIVersion: cfg.StorefrontAPIVersion,
			Token:      cfg.StorefrontToken,
			Timeout:    cfg.StorefrontTimeout,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown policy source %q", cfg.PolicySource)
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// AWS clients are only needed for DynamoDB or view events
	var clients *aws.AWSClients
	loadClients := func() (*aws.AWSClients, error) {
		if clients != nil {
			return clients, nil
		}
		c, err := aws.NewAWSClients(context.Background())
		if err != nil {
			return nil, fmt.Errorf("init aws clients: %w", err)
		}
		clients = c
		return c, nil
	}

	source, err := newSource(cfg, loadClients)
	if err != nil {
		logger.Fatal("failed to init policy source", zap.Error(err))
	}

	hcfg := handlers.HandlerConfig{
		Source:          source,
		Brand:           cfg.SiteBrand,
		DefaultLanguage: cfg.DefaultLanguage,
	}
	if cfg.ViewEventsQueueURL != "" {
		c, err := loadClients()
		if err != nil {
			logger.Fatal("failed to init view publisher", zap.Error(err))
		}
		hcfg.Publisher = c.ViewPublisher(cfg.ViewEventsQueueURL)
	}

	r := setupRouter(logger, cfg.RateLimitPerMin, hcfg)

	// if RUN_LOCAL is set, run a local HTTP server for development.
	if cfg.RunLocal {
		addr := ":" + cfg.Port
		logger.Info("running local server", zap.String("addr", addr), zap.String("source", cfg.PolicySource))
		if err := r.Run(addr); err != nil {
			logger.Fatal("failed to run local server", zap.Error(err))
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
