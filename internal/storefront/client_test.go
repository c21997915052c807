package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/imrishuroy/storefront-policies/internal/policies"
)

type captured struct {
	path        string
	token       string
	contentType string
	payload struct {
		Query     string                 `json:"query"`
		Variables map[string]interface{} `json:"variables"`
	}
}

func newTestServer(t *testing.T, status int, body string, got *captured) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.token = r.Header.Get(TokenHeader)
		got.contentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&got.payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestQueryPolicy_SendsVariablesAndDecodes(t *testing.T) {
	var got captured
	srv := newTestServer(t, http.StatusOK, `{"data":{"shop":{"privacyPolicy":{
		"id":"gid://shopify/ShopPolicy/1","handle":"privacy-policy","title":"Privacy Policy",
		"url":"https://acme.example/policies/privacy-policy","body":"<p>hi</p>"}}}}`, &got)
	defer srv.Close()

	c, err := NewClient(Config{Domain: srv.URL, APIVersion: "2024-01", Token: "tok"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	vars := policies.VariablesFor(policies.PrivacyPolicy, policies.Locale{Language: "EN"})
	shop, err := c.QueryPolicy(context.Background(), vars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.path != "/api/2024-01/graphql.json" {
		t.Fatalf("unexpected path %s", got.path)
	}
	if got.token != "tok" {
		t.Fatalf("token header not sent")
	}
	if !strings.HasPrefix(got.contentType, "application/json") {
		t.Fatalf("unexpected content type %q", got.contentType)
	}
	if !strings.Contains(got.payload.Query, "query Policy(") {
		t.Fatalf("expected the Policy query, got %s", got.payload.Query)
	}

	v := got.payload.Variables
	if v["privacyPolicy"] != true || v["shippingPolicy"] != false || v["termsOfService"] != false || v["refundPolicy"] != false {
		t.Fatalf("unexpected flags: %+v", v)
	}
	if v["language"] != "EN" {
		t.Fatalf("expected language EN, got %v", v["language"])
	}
	if cv, ok := v["country"]; !ok || cv != nil {
		t.Fatalf("expected null country, got %v", cv)
	}

	doc := shop.Policy(policies.PrivacyPolicy)
	if doc == nil || doc.Title != "Privacy Policy" || doc.Body != "<p>hi</p>" {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if shop.RefundPolicy != nil {
		t.Fatalf("expected other fields to be nil")
	}
}

func TestQueryPolicy_MissingPolicy(t *testing.T) {
	var got captured
	srv := newTestServer(t, http.StatusOK, `{"data":{"shop":{}}}`, &got)
	defer srv.Close()

	c, _ := NewClient(Config{Domain: srv.URL})
	shop, err := c.QueryPolicy(context.Background(), policies.VariablesFor(policies.RefundPolicy, policies.Locale{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shop.Policy(policies.RefundPolicy) != nil {
		t.Fatalf("expected no refund policy")
	}
	if !strings.HasPrefix(got.path, "/api/"+DefaultAPIVersion+"/") {
		t.Fatalf("expected default api version, got %s", got.path)
	}
}

func TestQueryPolicy_GraphQLErrors(t *testing.T) {
	var got captured
	srv := newTestServer(t, http.StatusOK, `{"errors":[{"message":"Variable $language is invalid"}]}`, &got)
	defer srv.Close()

	c, _ := NewClient(Config{Domain: srv.URL})
	_, err := c.QueryPolicy(context.Background(), policies.VariablesFor(policies.PrivacyPolicy, policies.Locale{Language: "XX"}))

	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if len(gerr.Messages) != 1 || !strings.Contains(gerr.Messages[0], "$language") {
		t.Fatalf("unexpected messages %+v", gerr.Messages)
	}
}

func TestQueryPolicy_HTTPStatus(t *testing.T) {
	var got captured
	srv := newTestServer(t, http.StatusUnauthorized, `{"errors":"unauthorized"}`, &got)
	defer srv.Close()

	c, _ := NewClient(Config{Domain: srv.URL})
	_, err := c.QueryPolicy(context.Background(), policies.VariablesFor(policies.PrivacyPolicy, policies.Locale{}))
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected status error, got %v", err)
	}
	var gerr *Error
	if errors.As(err, &gerr) {
		t.Fatalf("a failed request must not be reported as GraphQL errors: %v", gerr)
	}
}

func TestQueryPolicy_NoToken(t *testing.T) {
	var got captured
	srv := newTestServer(t, http.StatusOK, `{"data":{"shop":{}}}`, &got)
	defer srv.Close()

	c, _ := NewClient(Config{Domain: srv.URL})
	if _, err := c.QueryIndex(context.Background(), policies.Locale{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.token != "" {
		t.Fatalf("expected no token header, got %q", got.token)
	}
	if v, ok := got.payload.Variables["language"]; !ok || v != nil {
		t.Fatalf("expected null language, got %v", v)
	}
}

func TestQueryIndex(t *testing.T) {
	var got captured
	srv := newTestServer(t, http.StatusOK, `{"data":{"shop":{
		"privacyPolicy":{"id":"p","title":"Privacy Policy","handle":"privacy-policy"},
		"termsOfService":{"id":"t","title":"Terms of Service","handle":"terms-of-service"}}}}`, &got)
	defer srv.Close()

	c, _ := NewClient(Config{Domain: srv.URL})
	shop, err := c.QueryIndex(context.Background(), policies.Locale{Country: "CA"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got.payload.Query, "query PoliciesIndex") {
		t.Fatalf("expected the index query")
	}
	if got.payload.Variables["country"] != "CA" {
		t.Fatalf("expected country CA, got %v", got.payload.Variables["country"])
	}
	if _, ok := got.payload.Variables["privacyPolicy"]; ok {
		t.Fatalf("index query takes no policy flags")
	}
	if shop.TermsOfService == nil || shop.TermsOfService.Handle != "terms-of-service" {
		t.Fatalf("unexpected shop %+v", shop)
	}
}

func TestNewClient(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatalf("expected error without domain")
	}
	c, err := NewClient(Config{Domain: "acme.myshopify.com/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Endpoint() != "https://acme.myshopify.com/api/"+DefaultAPIVersion+"/graphql.json" {
		t.Fatalf("unexpected endpoint %s", c.Endpoint())
	}
}
