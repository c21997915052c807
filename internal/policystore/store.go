package policystore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/imrishuroy/storefront-policies/internal/aws"
	"github.com/imrishuroy/storefront-policies/internal/policies"
)

// ErrUnknownField is returned by Put for a field outside policies.Fields.
var ErrUnknownField = errors.New("unknown policy field")

// Store serves shop policies from a DynamoDB table. It implements
// policies.Source.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new policies Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// QueryPolicy returns the shop with the selected field populated.
// A translation missing for vars.Language falls back to the default item.
func (s *Store) QueryPolicy(ctx context.Context, vars policies.Variables) (*policies.Shop, error) {
	field, ok := vars.Selected()
	if !ok {
		return nil, fmt.Errorf("policy query must select exactly one field: %+v", vars)
	}

	shop := &policies.Shop{}
	doc, err := s.Get(ctx, field, vars.Language)
	if err != nil {
		return nil, err
	}
	shop.SetPolicy(field, doc)
	return shop, nil
}

// QueryIndex returns every stored policy for loc.
func (s *Store) QueryIndex(ctx context.Context, loc policies.Locale) (*policies.Shop, error) {
	shop := &policies.Shop{}
	for _, f := range policies.Fields {
		doc, err := s.Get(ctx, f, loc.Language)
		if err != nil {
			return nil, err
		}
		shop.SetPolicy(f, doc)
	}
	return shop, nil
}

// Get fetches field in language, then in the default language.
// Returns (nil, nil) if neither exists.
func (s *Store) Get(ctx context.Context, field policies.Field, language string) (*policies.Document, error) {
	language = strings.ToUpper(language)
	if language != "" {
		it, err := s.getItem(ctx, Key(field, language))
		if err != nil || it != nil {
			return docOf(it), err
		}
	}
	it, err := s.getItem(ctx, Key(field, ""))
	return docOf(it), err
}

func docOf(it *Item) *policies.Document {
	if it == nil {
		return nil
	}
	return it.Document()
}

func (s *Store) getItem(ctx context.Context, key string) (*Item, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"policy_key": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		var ae smithy.APIError
		if errors.As(err, &ae) {
			return nil, fmt.Errorf("get item %s (%s): %w", key, ae.ErrorCode(), err)
		}
		return nil, fmt.Errorf("get item %s: %w", key, err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var it Item
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("unmarshal policy: %w", err)
	}
	return &it, nil
}

// Put writes doc as field in language, replacing any existing item.
// It is used to seed the table and is never called while serving pages.
func (s *Store) Put(ctx context.Context, field policies.Field, language string, doc policies.Document) error {
	if !isKnown(field) {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	language = strings.ToUpper(language)

	item, err := attributevalue.MarshalMap(Item{
		PolicyKey: Key(field, language),
		Policy:    string(field),
		Language:  language,
		ID:        doc.ID,
		Handle:    doc.Handle,
		Title:     doc.Title,
		URL:       doc.URL,
		Body:      doc.Body,
		UpdatedAt: s.nowFunc().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal policy: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

func isKnown(field policies.Field) bool {
	for _, f := range policies.Fields {
		if f == field {
			return true
		}
	}
	return false
}
