package policystore

import (
	"time"

	"github.com/imrishuroy/storefront-policies/internal/policies"
)

// Item represents a policy stored in the policies DynamoDB table.
// PolicyKey is "<field>" for the shop default language and
// "<field>#<LANG>" for a translation.
type Item struct {
	PolicyKey string    `dynamodbav:"policy_key"` // PK
	Policy    string    `dynamodbav:"policy"`
	Language  string    `dynamodbav:"language,omitempty"`
	ID        string    `dynamodbav:"id"`
	Handle    string    `dynamodbav:"handle"`
	Title     string    `dynamodbav:"title"`
	URL       string    `dynamodbav:"url,omitempty"`
	Body      string    `dynamodbav:"body"`
	UpdatedAt time.Time `dynamodbav:"updated_at"`
}

// Document converts the item to a policy document.
func (it Item) Document() *policies.Document {
	return &policies.Document{
		ID:     it.ID,
		Handle: it.Handle,
		Title:  it.Title,
		URL:    it.URL,
		Body:   it.Body,
	}
}

// Key builds the primary key for field in language.
func Key(field policies.Field, language string) string {
	if language == "" {
		return string(field)
	}
	return string(field) + "#" + language
}
