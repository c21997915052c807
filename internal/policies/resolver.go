package policies

import (
	"context"
	"errors"
	"fmt"
)

// Not-found errors. Their messages are shown to the visitor as-is.
var (
	ErrMissingHandle  = errors.New("No handle was passed in")
	ErrPolicyNotFound = errors.New("Could not find the policy")
)

// DefaultBrand is used in page titles when no brand is configured.
const DefaultBrand = "Hydrogen"

// Source runs the policy queries against a backend.
type Source interface {
	// QueryPolicy returns the shop with only the selected field populated,
	// or nil when the backend has no content for it.
	QueryPolicy(ctx context.Context, vars Variables) (*Shop, error)
	// QueryIndex returns the shop with every available policy populated.
	// Bodies may be left empty.
	QueryIndex(ctx context.Context, loc Locale) (*Shop, error)
}

// Resolver looks up policy documents by handle.
type Resolver struct {
	source Source
}

// NewResolver returns a Resolver backed by source.
func NewResolver(source Source) *Resolver {
	return &Resolver{source: source}
}

// Resolve fetches the policy named by handle.
// It returns ErrMissingHandle for an empty handle and ErrPolicyNotFound when
// the handle is unknown or the backend has no content for it.
func (r *Resolver) Resolve(ctx context.Context, handle string, loc Locale) (*Document, error) {
	if handle == "" {
		return nil, ErrMissingHandle
	}

	// unknown handles never reach the backend
	field, ok := FieldFromHandle(handle)
	if !ok {
		return nil, ErrPolicyNotFound
	}

	shop, err := r.source.QueryPolicy(ctx, VariablesFor(field, loc))
	if err != nil {
		return nil, fmt.Errorf("query policy: %w", err)
	}

	doc := shop.Policy(field)
	if doc == nil {
		return nil, ErrPolicyNotFound
	}
	return doc, nil
}

// Index lists the policies the shop has published, in Fields order.
func (r *Resolver) Index(ctx context.Context, loc Locale) ([]Summary, error) {
	shop, err := r.source.QueryIndex(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("query policy index: %w", err)
	}

	out := make([]Summary, 0, len(Fields))
	for _, f := range Fields {
		doc := shop.Policy(f)
		if doc == nil {
			continue
		}
		out = append(out, Summary{
			Field:  f,
			ID:     doc.ID,
			Handle: doc.Handle,
			Title:  doc.Title,
		})
	}
	return out, nil
}

// PageTitle composes the document title shown by the browser.
func PageTitle(brand string, doc *Document) string {
	if brand == "" {
		brand = DefaultBrand
	}
	return fmt.Sprintf("%s | %s", brand, doc.Title)
}
