package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/verdantiq/greenlens"
	"github.com/verdantiq/greenlens/core/sentiment"
	"github.com/verdantiq/greenlens/helper"
	"github.com/verdantiq/greenlens/model"
)

// Demonstrates custom configuration, PDF indexing, a Gemini-generated
// rationale and the audit trail. Pass a filing PDF path as the first
// argument; set GEMINI_API_KEY for LLM rationales.
func main() {
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

	// Tighter chunking and stricter tiers than the defaults
	config := helper.DefaultConfig()
	config.Retrieval.ChunkSize = 400
	config.Retrieval.ChunkOverlap = 80
	config.Sentiment.Thresholds = model.RiskThresholds{Low: 0.2, Medium: 0.5}

	g, err := greenlens.New(dbConfig, config)
	if err != nil {
		log.Fatalf("Failed to create greenlens: %v", err)
	}
	defer g.Close()

	if err := g.UseDefaultPipeline(); err != nil {
		log.Fatalf("Failed to set up pipeline: %v", err)
	}

	ctx := context.Background()

	// Swap the template rationale for Gemini when an API key is available
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		generator, err := sentiment.NewGeminiRationale(ctx, apiKey, config.Models.RationaleModel)
		if err != nil {
			log.Printf("Warning: failed to create Gemini rationale, keeping template: %v", err)
		} else {
			if err := g.SetRationaleGenerator(generator); err != nil {
				log.Fatalf("Failed to set rationale generator: %v", err)
			}
			fmt.Println("Using Gemini rationale generation")
		}
	}

	// Index a filing PDF when one is given
	if len(os.Args) > 1 {
		filePath := os.Args[1]
		indexed, err := g.IndexFile(ctx, "DEMO", filePath, model.Metadata{
			"filing_type": "sustainability_report",
		})
		if err != nil {
			log.Fatalf("Failed to index %s: %v", filePath, err)
		}
		fmt.Printf("Indexed %s: %v\n", filePath, indexed)

		stats, err := g.Stats("DEMO")
		if err != nil {
			log.Fatalf("Failed to get stats: %v", err)
		}
		if stats != nil {
			fmt.Printf("Index holds %d chunks for %s\n", stats.ChunkCount, stats.Ticker)
		}

		result, err := g.Query(ctx, "DEMO", "What are the company's climate commitments?", 3)
		if err != nil {
			log.Fatalf("Failed to query: %v", err)
		}
		fmt.Printf("Answer: %s\n", result.Answer)
	}

	// Score twice to show the audit trail accumulating
	disclosure := "Our environmental performance this year was exceptional. We cut emissions substantially, expanded renewable sourcing and strengthened our climate governance."
	for _, headlines := range [][]string{
		{"Company fined over wastewater discharge violations"},
		{"Company praised for transparent climate disclosures"},
	} {
		assessment, err := g.Score(ctx, "DEMO", disclosure, headlines)
		if err != nil {
			log.Fatalf("Failed to score: %v", err)
		}
		fmt.Printf("Risk %.3f (%s): %s\n", assessment.RiskScore, assessment.RiskTier, assessment.Rationale)
	}

	history, err := g.AuditHistory("DEMO", 10)
	if err != nil {
		log.Fatalf("Failed to read audit history: %v", err)
	}
	fmt.Printf("Audit trail holds %d assessments for DEMO\n", len(history))
	for _, a := range history {
		fmt.Printf("  %s  risk=%.3f tier=%s delta=%+.3f\n", a.CreatedAt.Format("2006-01-02 15:04:05"), a.RiskScore, a.RiskTier, a.Delta)
	}
}
