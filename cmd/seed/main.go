// Command seed loads policy documents from a JSON file into the DynamoDB
// policies table used by POLICY_SOURCE=dynamodb.
//
//	seed -table policies -file policies.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/imrishuroy/storefront-policies/internal/aws"
	"github.com/imrishuroy/storefront-policies/internal/policies"
	"github.com/imrishuroy/storefront-policies/internal/policystore"
)

// seedEntry is one element of the seed file.
type seedEntry struct {
	Policy   policies.Field `json:"policy"`
	Language string         `json:"language,omitempty"`
	policies.Document
}

func readEntries(r io.Reader) ([]seedEntry, error) {
	var entries []seedEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return entries, nil
}

func seed(ctx context.Context, store *policystore.Store, entries []seedEntry) error {
	for _, e := range entries {
		if err := store.Put(ctx, e.Policy, e.Language, e.Document); err != nil {
			return fmt.Errorf("seed %s (%s): %w", e.Policy, e.Language, err)
		}
		log.Printf("seeded %s language=%q", e.Policy, e.Language)
	}
	return nil
}

func main() {
	_ = godotenv.Load()

	table := flag.String("table", os.Getenv("POLICIES_TABLE"), "DynamoDB policies table")
	file := flag.String("file", "policies.json", "JSON array of policies to load")
	flag.Parse()

	if *table == "" {
		log.Fatal("a table name is required (-table or POLICIES_TABLE)")
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("open seed file: %v", err)
	}
	defer f.Close()

	entries, err := readEntries(f)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	clients, err := aws.NewAWSClients(ctx)
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	if err := seed(ctx, policystore.NewStore(clients.DynamoDB, *table), entries); err != nil {
		log.Fatal(err)
	}
}
