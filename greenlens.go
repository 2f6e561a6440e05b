package greenlens

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/verdantiq/greenlens/core/extract"
	"github.com/verdantiq/greenlens/core/pipeline"
	"github.com/verdantiq/greenlens/core/retrieval"
	"github.com/verdantiq/greenlens/core/sentiment"
	"github.com/verdantiq/greenlens/database"
	"github.com/verdantiq/greenlens/helper"
	"github.com/verdantiq/greenlens/model"
	loadSql "github.com/verdantiq/greenlens/sql"
)

// GreenLens provides a unified interface to the risk scorer, the
// retrieval engine and all database handlers
type GreenLens struct {
	DB        *helper.Database
	Chunks    *database.ChunksDBHandler
	Documents *database.DocumentsDBHandler
	Audits    *database.AuditsDBHandler
	Pipeline  *pipeline.Pipeline     // Chunking and embedding pipeline
	Engine    *retrieval.Engine      // Retrieval engine over indexed filings
	Delta     *sentiment.DeltaEngine // Disclosure vs news sentiment scorer
	Extractor *extract.Extractor
	Config    *helper.Config
	// Logging
	log *slog.Logger
}

// New creates a GreenLens instance with all database handlers initialized.
// A nil config uses the built-in defaults. Model pipelines are not loaded
// here; call UseDefaultPipeline or SetPipeline before indexing, querying
// or scoring.
func New(dbConfig *helper.DatabaseConfiguration, config *helper.Config) (*GreenLens, error) {
	if config == nil {
		config = helper.DefaultConfig()
	}

	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Initialize database
	db := helper.NewDatabase("greenlens", dbConfig, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// Create all handlers
	// force=false to not reload if functions already exist
	documents, err := database.NewDocumentsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create documents handler", err)
	}

	chunks, err := database.NewChunksDBHandler(db, config.Retrieval.EmbeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create chunks handler", err)
	}

	audits, err := database.NewAuditsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create audits handler", err)
	}

	return &GreenLens{
		DB:        db,
		Chunks:    chunks,
		Documents: documents,
		Audits:    audits,
		Extractor: extract.NewExtractor(config.Models.ParseTimeout, logger),
		Config:    config,
		log:       logger,
	}, nil
}

// Close closes the database connection
func (g *GreenLens) Close() error {
	if g.DB != nil && g.DB.Instance != nil {
		return g.DB.Instance.Close()
	}
	return nil
}

// SetPipeline wires a chunking/embedding pipeline and a sentiment
// classifier, then builds the retrieval and delta engines on top of them.
// Use this to supply custom functions; UseDefaultPipeline loads the
// configured ONNX models instead.
func (g *GreenLens) SetPipeline(pipe *pipeline.Pipeline, classify pipeline.ClassifyFunc) {
	g.Pipeline = pipe
	g.Engine = retrieval.NewEngine(g.Chunks, g.Documents, pipe, g.Config.Retrieval, g.log)

	analyzer := sentiment.NewAnalyzer(classify, g.Config.Sentiment.MinTextLength)
	g.Delta = sentiment.NewDeltaEngine(analyzer, g.Config.Sentiment.Thresholds, g.log)
}

// UseDefaultPipeline loads the configured embedding and sentiment models
// and sets up the window chunking pipeline. The embedder produces
// 384-dimension vectors with all-MiniLM-L6-v2, the classifier scores
// financial text with FinBERT.
func (g *GreenLens) UseDefaultPipeline() error {
	chunker := pipeline.WindowChunker(g.Config.Retrieval.ChunkSize, g.Config.Retrieval.ChunkOverlap)

	embedder, err := pipeline.NewEmbedder(g.Config.Models.EmbeddingModel)
	if err != nil {
		return helper.NewError("create embedder", err)
	}

	classifier, err := pipeline.NewClassifier(g.Config.Models.SentimentModel)
	if err != nil {
		return helper.NewError("create classifier", err)
	}

	g.SetPipeline(pipeline.NewPipeline(chunker, embedder), classifier)
	return nil
}

// SetRationaleGenerator replaces the template rationale with a custom
// generator, typically sentiment.NewGeminiRationale
func (g *GreenLens) SetRationaleGenerator(generator sentiment.RationaleGenerator) error {
	if g.Delta == nil {
		return helper.NewError("set rationale generator", fmt.Errorf("delta engine not initialized, use SetPipeline() first"))
	}
	g.Delta.SetRationaleGenerator(generator)
	return nil
}

// Score computes the greenwashing risk for a ticker from its disclosure
// text and recent news headlines, persists the assessment to the audit
// trail and returns it.
func (g *GreenLens) Score(ctx context.Context, ticker string, disclosureText string, headlines []string) (*model.RiskAssessment, error) {
	if g.Delta == nil {
		return nil, helper.NewError("score risk", fmt.Errorf("delta engine not initialized, use SetPipeline() first"))
	}

	assessment, err := g.Delta.Score(ctx, disclosureText, headlines)
	if err != nil {
		return nil, err
	}
	assessment.Ticker = retrieval.NormalizeTicker(ticker)

	err = g.Audits.InsertAudit(assessment)
	if err != nil {
		return nil, helper.NewError("insert audit", err)
	}

	return assessment, nil
}

// Index chunks, embeds and stores filing text under a ticker, replacing
// any previous index for that ticker. Returns false without error when the
// text is too short to index.
func (g *GreenLens) Index(ctx context.Context, ticker string, text string, metadata model.Metadata) (bool, error) {
	if g.Engine == nil {
		return false, helper.NewError("index document", fmt.Errorf("retrieval engine not initialized, use SetPipeline() first"))
	}
	return g.Engine.Index(ctx, ticker, text, metadata)
}

// IndexFile extracts text from a document file (PDF or plain text) and
// indexes it under the ticker
func (g *GreenLens) IndexFile(ctx context.Context, ticker string, filePath string, metadata model.Metadata) (bool, error) {
	if g.Engine == nil {
		return false, helper.NewError("index file", fmt.Errorf("retrieval engine not initialized, use SetPipeline() first"))
	}

	text, err := g.Extractor.ExtractFile(ctx, filePath)
	if err != nil {
		return false, err
	}

	meta := model.Metadata{}
	for k, v := range metadata {
		meta[k] = v
	}
	if _, ok := meta["title"]; !ok {
		meta["title"] = filepath.Base(filePath)
	}
	if _, ok := meta["source"]; !ok {
		meta["source"] = filePath
	}

	return g.Engine.Index(ctx, ticker, text, meta)
}

// Query answers a question against a ticker's indexed filing. k <= 0 uses
// the configured top-k.
func (g *GreenLens) Query(ctx context.Context, ticker string, question string, k int) (*model.QueryResult, error) {
	if g.Engine == nil {
		return nil, helper.NewError("query document", fmt.Errorf("retrieval engine not initialized, use SetPipeline() first"))
	}
	return g.Engine.Query(ctx, ticker, question, k)
}

// Stats returns index statistics for a ticker, or nil when nothing is
// indexed under it
func (g *GreenLens) Stats(ticker string) (*model.IndexStats, error) {
	if g.Engine == nil {
		return nil, helper.NewError("index stats", fmt.Errorf("retrieval engine not initialized, use SetPipeline() first"))
	}
	return g.Engine.Stats(ticker)
}

// ListIndexedTickers returns every ticker with an indexed filing
func (g *GreenLens) ListIndexedTickers() ([]*model.IndexStats, error) {
	return g.Chunks.SelectIndexedTickers()
}

// RemoveIndex deletes a ticker's indexed chunks and registry entry,
// returning the number of chunks removed
func (g *GreenLens) RemoveIndex(ticker string) (int64, error) {
	if g.Engine == nil {
		return 0, helper.NewError("remove index", fmt.Errorf("retrieval engine not initialized, use SetPipeline() first"))
	}
	return g.Engine.Remove(ticker)
}

// AuditHistory returns the stored risk assessments for a ticker, newest
// first
func (g *GreenLens) AuditHistory(ticker string, limit int) ([]*model.RiskAssessment, error) {
	return g.Audits.SelectAuditsByTicker(retrieval.NormalizeTicker(ticker), limit)
}

// LatestAudits returns the most recent risk assessments across all tickers
func (g *GreenLens) LatestAudits(limit int) ([]*model.RiskAssessment, error) {
	return g.Audits.SelectLatestAudits(limit)
}

// ChangeIndexType changes the vector index type between HNSW and IVFFlat
func (g *GreenLens) ChangeIndexType(ctx context.Context, indexType string, params map[string]interface{}) error {
	return g.Chunks.ChangeIndexType(ctx, indexType, params)
}
