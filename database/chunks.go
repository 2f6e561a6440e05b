package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/verdantiq/greenlens/helper"
	"github.com/verdantiq/greenlens/model"
	loadSql "github.com/verdantiq/greenlens/sql"
)

// ChunksDBHandlerFunctions defines the interface for Chunks database operations.
type ChunksDBHandlerFunctions interface {
	InsertChunk(chunk *model.Chunk) error
	ReplaceChunks(ctx context.Context, ticker string, chunks []*model.Chunk) error
	SelectChunksByTicker(ticker string) ([]*model.Chunk, error)
	SelectChunksBySimilarity(ticker string, embedding []float32, limit int) ([]*model.Chunk, error)
	DeleteChunksByTicker(ticker string) (int64, error)
	CountChunksByTicker(ticker string) (int64, error)
	SelectIndexedTickers() ([]*model.IndexStats, error)
}

// ChunksDBHandler handles chunk-related database operations
type ChunksDBHandler struct {
	db *helper.Database
}

// NewChunksDBHandler creates a new chunks database handler.
// It initializes the database connection and loads chunk-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewChunksDBHandler(db *helper.Database, embeddingDim int, force bool) (*ChunksDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	chunksDbHandler := &ChunksDBHandler{
		db: db,
	}

	err := loadSql.LoadChunksSql(chunksDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load chunks sql", err)
	}

	err = chunksDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized ChunksDBHandler")

	return chunksDbHandler, nil
}

// CreateTable creates the 'chunks' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary indexes.
func (h *ChunksDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_chunks($1);`, embeddingDim)
	if err != nil {
		log.Panicf("error initializing chunks table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table chunks")

	return nil
}

// InsertChunk inserts a new chunk
func (h *ChunksDBHandler) InsertChunk(chunk *model.Chunk) error {
	return h.insertChunk(func(query string, args ...any) rowScanner {
		return h.db.Instance.QueryRow(query, args...)
	}, chunk)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (h *ChunksDBHandler) insertChunk(queryRow func(query string, args ...any) rowScanner, chunk *model.Chunk) error {
	row := queryRow(
		`SELECT * FROM insert_chunk($1, $2, $3, $4, $5, $6)`,
		chunk.Ticker,
		chunk.Content,
		chunk.ChunkIndex,
		chunk.Length,
		pq.Array(chunk.Embedding),
		chunk.Metadata,
	)

	var embedding pgvector.Vector
	err := row.Scan(
		&chunk.ID,
		&chunk.Ticker,
		&chunk.Content,
		&chunk.ChunkIndex,
		&chunk.Length,
		&embedding,
		&chunk.Metadata,
		&chunk.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}
	chunk.Embedding = embedding.Slice()

	return nil
}

// ReplaceChunks atomically replaces all chunks of a ticker with the given set.
// Delete and inserts run in one transaction so a concurrent reader never
// observes a half-replaced collection.
func (h *ChunksDBHandler) ReplaceChunks(ctx context.Context, ticker string, chunks []*model.Chunk) error {
	tx, err := h.db.Instance.BeginTx(ctx, nil)
	if err != nil {
		return helper.NewError("begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `SELECT delete_chunks_by_ticker($1)`, ticker)
	if err != nil {
		return helper.NewError("delete prior chunks", err)
	}

	for i, chunk := range chunks {
		chunk.Ticker = ticker
		err := h.insertChunk(func(query string, args ...any) rowScanner {
			return tx.QueryRowContext(ctx, query, args...)
		}, chunk)
		if err != nil {
			return helper.NewError(fmt.Sprintf("insert chunk %d", i), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return helper.NewError("commit transaction", err)
	}

	return nil
}

// SelectChunksByTicker retrieves all chunks of a ticker in chunk_index order
func (h *ChunksDBHandler) SelectChunksByTicker(ticker string) ([]*model.Chunk, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_chunks_by_ticker($1)`,
		ticker,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var chunks []*model.Chunk
	for rows.Next() {
		chunk := &model.Chunk{}
		var embedding pgvector.Vector

		err := rows.Scan(
			&chunk.ID,
			&chunk.Ticker,
			&chunk.Content,
			&chunk.ChunkIndex,
			&chunk.Length,
			&embedding,
			&chunk.Metadata,
			&chunk.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		chunk.Embedding = embedding.Slice()

		chunks = append(chunks, chunk)
	}

	return chunks, rows.Err()
}

// SelectChunksBySimilarity retrieves the limit closest chunks of a ticker by
// cosine distance to the given embedding. Distance is set on each chunk
// (lower = more similar).
func (h *ChunksDBHandler) SelectChunksBySimilarity(ticker string, embedding []float32, limit int) ([]*model.Chunk, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_chunks_by_similarity($1, $2, $3)`,
		ticker,
		pq.Array(embedding),
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var chunks []*model.Chunk
	for rows.Next() {
		chunk := &model.Chunk{}

		err := rows.Scan(
			&chunk.ID,
			&chunk.Ticker,
			&chunk.Content,
			&chunk.ChunkIndex,
			&chunk.Length,
			&chunk.Metadata,
			&chunk.CreatedAt,
			&chunk.Distance,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		chunks = append(chunks, chunk)
	}

	return chunks, rows.Err()
}

// DeleteChunksByTicker deletes all chunks of a ticker, returning the count
func (h *ChunksDBHandler) DeleteChunksByTicker(ticker string) (int64, error) {
	var deleted int64
	err := h.db.Instance.QueryRow(
		`SELECT delete_chunks_by_ticker($1)`,
		ticker,
	).Scan(&deleted)
	if err != nil {
		return 0, helper.NewError("scan", err)
	}
	return deleted, nil
}

// CountChunksByTicker returns the number of stored chunks for a ticker
func (h *ChunksDBHandler) CountChunksByTicker(ticker string) (int64, error) {
	var count int64
	err := h.db.Instance.QueryRow(
		`SELECT count_chunks_by_ticker($1)`,
		ticker,
	).Scan(&count)
	if err != nil {
		return 0, helper.NewError("scan", err)
	}
	return count, nil
}

// SelectIndexedTickers returns all tickers with stored chunks and their counts
func (h *ChunksDBHandler) SelectIndexedTickers() ([]*model.IndexStats, error) {
	rows, err := h.db.Instance.Query(`SELECT * FROM select_indexed_tickers()`)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var stats []*model.IndexStats
	for rows.Next() {
		s := &model.IndexStats{}
		var count int64
		if err := rows.Scan(&s.Ticker, &count); err != nil {
			return nil, helper.NewError("scan", err)
		}
		s.ChunkCount = int(count)
		stats = append(stats, s)
	}

	return stats, rows.Err()
}
