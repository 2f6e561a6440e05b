package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/verdantiq/greenlens/core/pipeline"
	"github.com/verdantiq/greenlens/database"
	"github.com/verdantiq/greenlens/helper"
	"github.com/verdantiq/greenlens/model"
)

// maxContextLength caps the context returned with a query result
const maxContextLength = 2000

// Engine indexes filing text per ticker and answers questions over the
// indexed chunks. All chunk state lives in the database, so an engine
// reattaches to collections indexed by earlier runs on first query.
type Engine struct {
	chunks    database.ChunksDBHandlerFunctions
	documents database.DocumentsDBHandlerFunctions
	pipeline  *pipeline.Pipeline
	config    model.RetrievalConfig
	log       *slog.Logger

	mu       sync.Mutex
	attached map[string]bool
	locks    map[string]*sync.Mutex
}

// NewEngine returns an Engine backed by the given handlers and pipeline.
func NewEngine(chunks database.ChunksDBHandlerFunctions, documents database.DocumentsDBHandlerFunctions, pipe *pipeline.Pipeline, config model.RetrievalConfig, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		chunks:    chunks,
		documents: documents,
		pipeline:  pipe,
		config:    config,
		log:       logger,
		attached:  map[string]bool{},
		locks:     map[string]*sync.Mutex{},
	}
}

// NormalizeTicker uppercases and trims a ticker so that "msft", " MSFT "
// and "MSFT" address the same collection.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// tickerLock returns the write lock for a ticker, creating it on first use.
// Indexing different tickers runs concurrently, re-indexing the same ticker
// serializes.
func (e *Engine) tickerLock(ticker string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[ticker]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[ticker] = lock
	}
	return lock
}

func (e *Engine) isAttached(ticker string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.attached[ticker]
}

func (e *Engine) markAttached(ticker string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.attached[ticker] = true
}

// Index chunks, embeds and stores the document text under the ticker,
// replacing any previously indexed chunks for that ticker in one
// transaction. It returns false without error when the text is below the
// minimum document length, so callers can distinguish "too short to be
// worth indexing" from a real failure.
func (e *Engine) Index(ctx context.Context, ticker string, text string, metadata model.Metadata) (bool, error) {
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return false, helper.NewError("index document", fmt.Errorf("ticker must not be empty"))
	}

	if len(text) < e.config.MinDocumentLength {
		e.log.Warn("Document below minimum length, not indexed", "ticker", ticker, "length", len(text), "minimum", e.config.MinDocumentLength)
		return false, nil
	}

	lock := e.tickerLock(ticker)
	lock.Lock()
	defer lock.Unlock()

	meta := model.Metadata{}
	for key, value := range metadata {
		meta[key] = value
	}
	meta["ticker"] = ticker

	chunks, err := e.pipeline.Process(text, meta)
	if err != nil {
		return false, helper.NewError("process document", err)
	}
	if len(chunks) == 0 {
		return false, helper.NewError("index document", model.ErrEmptyDocument)
	}
	for _, chunk := range chunks {
		chunk.Ticker = ticker
	}

	err = e.chunks.ReplaceChunks(ctx, ticker, chunks)
	if err != nil {
		return false, helper.NewError("replace chunks", err)
	}

	if e.documents != nil {
		title, _ := metadata["title"].(string)
		source, _ := metadata["source"].(string)
		document := &model.Document{
			Ticker:     ticker,
			Title:      title,
			Source:     source,
			ChunkCount: len(chunks),
			Metadata:   meta,
		}
		err = e.documents.UpsertDocument(document)
		if err != nil {
			// The registry entry is informational, chunks are already live
			e.log.Warn("Failed to record document registry entry", "ticker", ticker, "error", err)
		}
	}

	e.markAttached(ticker)
	e.log.Info("Indexed document", "ticker", ticker, "chunks", len(chunks), "length", len(text))
	return true, nil
}

// Query answers a question against the ticker's indexed chunks. A ticker
// with no chunks yields a fixed "no indexed document" answer rather than an
// error. k <= 0 falls back to the configured top-k; fact questions narrow
// retrieval to the single closest chunk.
func (e *Engine) Query(ctx context.Context, ticker string, question string, k int) (*model.QueryResult, error) {
	ticker = NormalizeTicker(ticker)
	if k <= 0 {
		k = e.config.TopK
	}

	if !e.isAttached(ticker) {
		count, err := e.chunks.CountChunksByTicker(ticker)
		if err != nil {
			return nil, helper.NewError("count chunks", err)
		}
		if count == 0 {
			return &model.QueryResult{
				Answer:  fmt.Sprintf("No indexed document for %s.", ticker),
				Sources: []model.Source{},
			}, nil
		}
		e.markAttached(ticker)
	}

	if IsFactQuestion(question) {
		k = 1
	}

	embedding, err := e.pipeline.Embedder(question)
	if err != nil {
		return nil, helper.NewError("embed question", fmt.Errorf("%w: %v", model.ErrModelUnavailable, err))
	}

	chunks, err := e.chunks.SelectChunksBySimilarity(ticker, embedding, k)
	if err != nil {
		return nil, helper.NewError("select chunks by similarity", err)
	}
	if len(chunks) == 0 {
		return &model.QueryResult{
			Answer:  NoRelevantInfoFound,
			Sources: []model.Source{},
		}, nil
	}

	best := chunks[0]
	answer := ExtractAnswer(question, best.Content)

	sources := make([]model.Source, 0, len(chunks))
	for _, chunk := range chunks {
		sources = append(sources, model.Source{
			Content:        chunk.Content,
			ChunkIndex:     chunk.ChunkIndex,
			RelevanceScore: chunk.Distance,
		})
	}

	contextText := best.Content
	if len(contextText) > maxContextLength {
		contextText = contextText[:maxContextLength]
	}

	e.log.Info("Answered question", "ticker", ticker, "k", k, "sources", len(sources))
	return &model.QueryResult{
		Answer:  answer,
		Sources: sources,
		Context: contextText,
	}, nil
}

// Stats returns the chunk count for a ticker, or nil when nothing is
// indexed under it.
func (e *Engine) Stats(ticker string) (*model.IndexStats, error) {
	ticker = NormalizeTicker(ticker)
	count, err := e.chunks.CountChunksByTicker(ticker)
	if err != nil {
		return nil, helper.NewError("count chunks", err)
	}
	if count == 0 {
		return nil, nil
	}
	return &model.IndexStats{Ticker: ticker, ChunkCount: int(count)}, nil
}

// ListIndexedTickers returns all tickers with indexed chunks and their
// chunk counts.
func (e *Engine) ListIndexedTickers() ([]*model.IndexStats, error) {
	stats, err := e.chunks.SelectIndexedTickers()
	if err != nil {
		return nil, helper.NewError("select indexed tickers", err)
	}
	return stats, nil
}

// Remove deletes all indexed chunks and the registry entry for a ticker.
func (e *Engine) Remove(ticker string) (int64, error) {
	ticker = NormalizeTicker(ticker)

	lock := e.tickerLock(ticker)
	lock.Lock()
	defer lock.Unlock()

	deleted, err := e.chunks.DeleteChunksByTicker(ticker)
	if err != nil {
		return 0, helper.NewError("delete chunks", err)
	}
	if e.documents != nil {
		err = e.documents.DeleteDocument(ticker)
		if err != nil {
			e.log.Warn("Failed to delete document registry entry", "ticker", ticker, "error", err)
		}
	}

	e.mu.Lock()
	delete(e.attached, ticker)
	e.mu.Unlock()

	e.log.Info("Removed indexed document", "ticker", ticker, "chunks", deleted)
	return deleted, nil
}
