package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/verdantiq/greenlens"
	"github.com/verdantiq/greenlens/helper"
	"github.com/verdantiq/greenlens/model"
)

// A short sustainability disclosure and some contrasting headlines.
// The disclosure is upbeat while the news is negative, which is exactly
// the gap the risk score measures.
const disclosure = `
We are proud to report outstanding progress on our sustainability journey.
Our carbon reduction program exceeded its targets this year, and our
renewable energy transition is ahead of schedule. We remain deeply
committed to environmental stewardship and transparent reporting. Our
emissions intensity fell for the fifth consecutive year, and we achieved
our goal of zero waste to landfill across all manufacturing sites. The
company was founded in 1987 and has published sustainability reports
since 2005. We expect to reach net zero across our own operations by 2035.
`

var headlines = []string{
	"Regulator opens probe into company's emissions reporting",
	"Leaked documents suggest carbon targets quietly weakened",
	"Environmental group accuses firm of overstating renewable usage",
}

func main() {
	// Start a pgvector-enabled postgres container for the example
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start postgres container: %v", err)
	}
	defer teardown(context.Background())

	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		User:     "postgres",
		Password: "postgres",
		DBName:   "greenlens_test",
		SSLMode:  "disable",
	}

	g, err := greenlens.New(dbConfig, nil)
	if err != nil {
		log.Fatalf("Failed to create greenlens: %v", err)
	}
	defer g.Close()

	// Download and load the FinBERT and MiniLM models
	fmt.Println("Setting up default pipeline (this downloads models on first run)...")
	if err := g.UseDefaultPipeline(); err != nil {
		log.Fatalf("Failed to set up pipeline: %v", err)
	}

	ctx := context.Background()

	// Score greenwashing risk from the disclosure/news contrast
	assessment, err := g.Score(ctx, "ACME", disclosure, headlines)
	if err != nil {
		log.Fatalf("Failed to score risk: %v", err)
	}

	fmt.Printf("\nTicker:               %s\n", assessment.Ticker)
	fmt.Printf("Disclosure sentiment: %+.3f\n", assessment.DisclosureSentiment)
	fmt.Printf("News sentiment:       %+.3f\n", assessment.NewsSentiment)
	fmt.Printf("Risk score:           %.3f (%s)\n", assessment.RiskScore, assessment.RiskTier)
	fmt.Printf("Rationale:            %s\n", assessment.Rationale)

	// Index the disclosure for question answering
	indexed, err := g.Index(ctx, "ACME", strings.Repeat(disclosure, 2), model.Metadata{
		"title":  "ACME Sustainability Report",
		"source": "example",
	})
	if err != nil {
		log.Fatalf("Failed to index disclosure: %v", err)
	}
	fmt.Printf("\nIndexed: %v\n", indexed)

	// Ask a fact question and a descriptive one
	for _, question := range []string{
		"What year was the company founded?",
		"What progress was made on carbon reduction?",
	} {
		result, err := g.Query(ctx, "ACME", question, 0)
		if err != nil {
			log.Fatalf("Failed to query: %v", err)
		}
		fmt.Printf("\nQ: %s\nA: %s\n(%d sources)\n", question, result.Answer, len(result.Sources))
	}
}
