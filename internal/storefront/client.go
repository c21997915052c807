package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	graphql "github.com/hasura/go-graphql-client"

	"github.com/imrishuroy/storefront-policies/internal/policies"
)

// TokenHeader carries the public Storefront API access token.
const TokenHeader = "X-Shopify-Storefront-Access-Token"

// DefaultAPIVersion is used when Config.APIVersion is empty.
const DefaultAPIVersion = "2023-10"

// Config configures a Client.
type Config struct {
	Domain     string // shop domain, e.g. "acme.myshopify.com"
	APIVersion string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client // optional; overrides Timeout
}

// Client queries the Storefront GraphQL API. It implements policies.Source.
type Client struct {
	endpoint string
	gql      *graphql.Client
}

// NewClient returns a Client for cfg.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Domain == "" {
		return nil, errors.New("storefront domain is required")
	}
	version := cfg.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	endpoint := fmt.Sprintf("%s/api/%s/graphql.json", baseURL(cfg.Domain), version)
	gql := graphql.NewClient(endpoint, hc).WithRequestModifier(func(r *http.Request) {
		r.Header.Set("Accept", "application/json")
		if cfg.Token != "" {
			r.Header.Set(TokenHeader, cfg.Token)
		}
	})

	return &Client{endpoint: endpoint, gql: gql}, nil
}

// Endpoint returns the GraphQL endpoint the client posts to.
func (c *Client) Endpoint() string { return c.endpoint }

func baseURL(domain string) string {
	domain = strings.TrimRight(domain, "/")
	if strings.HasPrefix(domain, "http://") || strings.HasPrefix(domain, "https://") {
		return domain
	}
	return "https://" + domain
}

type response struct {
	Shop *policies.Shop `json:"shop"`
}

// Error is returned when the API answers with GraphQL errors.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return "storefront: " + strings.Join(e.Messages, "; ")
}

// QueryPolicy runs the Policy query.
func (c *Client) QueryPolicy(ctx context.Context, vars policies.Variables) (*policies.Shop, error) {
	v := localeVariables(vars.Language, vars.Country)
	v["privacyPolicy"] = vars.PrivacyPolicy
	v["shippingPolicy"] = vars.ShippingPolicy
	v["termsOfService"] = vars.TermsOfService
	v["refundPolicy"] = vars.RefundPolicy
	return c.do(ctx, PolicyQuery, v)
}

// QueryIndex runs the PoliciesIndex query.
func (c *Client) QueryIndex(ctx context.Context, loc policies.Locale) (*policies.Shop, error) {
	return c.do(ctx, PoliciesIndexQuery, localeVariables(loc.Language, loc.Country))
}

// localeVariables sends empty codes as null so @inContext falls back to the
// shop defaults.
func localeVariables(language, country string) map[string]interface{} {
	v := map[string]interface{}{
		"language": nil,
		"country":  nil,
	}
	if language != "" {
		v["language"] = language
	}
	if country != "" {
		v["country"] = country
	}
	return v
}

func (c *Client) do(ctx context.Context, query string, vars map[string]interface{}) (*policies.Shop, error) {
	data, err := c.gql.ExecRaw(ctx, query, vars)
	if err != nil {
		var gerrs graphql.Errors
		if errors.As(err, &gerrs) && !isRequestError(gerrs) {
			e := &Error{}
			for _, ge := range gerrs {
				e.Messages = append(e.Messages, ge.Message)
			}
			return nil, e
		}
		return nil, fmt.Errorf("post %s: %w", c.endpoint, err)
	}

	var out response
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out.Shop, nil
}

// isRequestError reports whether errs describe a failed HTTP exchange
// (non-200 status, unreadable body) rather than GraphQL errors.
func isRequestError(errs graphql.Errors) bool {
	for _, e := range errs {
		if code, _ := e.Extensions["code"].(string); code == graphql.ErrRequestError ||
			code == graphql.ErrJsonDecode || code == graphql.ErrJsonEncode {
			return true
		}
	}
	return false
}
