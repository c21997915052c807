package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/storefront-policies/internal/aws"
	"github.com/imrishuroy/storefront-policies/internal/config"
	"github.com/imrishuroy/storefront-policies/internal/handlers"
	"github.com/imrishuroy/storefront-policies/internal/policies"
	"github.com/imrishuroy/storefront-policies/internal/policystore"
	"github.com/imrishuroy/storefront-policies/internal/storefront"
)

type emptySource struct{}

func (emptySource) QueryPolicy(context.Context, policies.Variables) (*policies.Shop, error) {
	return &policies.Shop{}, nil
}

func (emptySource) QueryIndex(context.Context, policies.Locale) (*policies.Shop, error) {
	return &policies.Shop{}, nil
}

func TestSetupRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := setupRouter(zap.NewNop(), 0, handlers.HandlerConfig{Source: emptySource{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || w.Body.String() != `{"status":"ok"}` {
		t.Fatalf("unexpected health response %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get(handlers.RequestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/policies/shipping-policy", nil))
	if w.Code != http.StatusNotFound || w.Body.String() != "Could not find the policy" {
		t.Fatalf("unexpected policy response %d %s", w.Code, w.Body.String())
	}
}

func TestNewSource(t *testing.T) {
	noClients := func() (*aws.AWSClients, error) { return nil, errors.New("no aws") }

	src, err := newSource(config.Config{PolicySource: config.SourceStorefront, StorefrontDomain: "acme.myshopify.com"}, noClients)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := src.(*storefront.Client); !ok {
		t.Fatalf("expected storefront client, got %T", src)
	}

	if _, err := newSource(config.Config{PolicySource: config.SourceDynamoDB, PoliciesTable: "p"}, noClients); err == nil {
		t.Fatalf("expected aws client error")
	}

	withClients := func() (*aws.AWSClients, error) { return &aws.AWSClients{}, nil }
	src, err = newSource(config.Config{PolicySource: config.SourceDynamoDB, PoliciesTable: "p"}, withClients)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := src.(*policystore.Store); !ok {
		t.Fatalf("expected dynamodb store, got %T", src)
	}

	if _, err := newSource(config.Config{PolicySource: "ftp"}, noClients); err == nil {
		t.Fatalf("expected unknown source error")
	}
}
