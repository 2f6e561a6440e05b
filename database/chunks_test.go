package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantiq/greenlens/model"
)

func newTestChunk(ticker string, index int, content string) *model.Chunk {
	return &model.Chunk{
		Ticker:     ticker,
		Content:    content,
		ChunkIndex: index,
		Length:     len(content),
		Embedding:  testEmbedding(index),
		Metadata:   model.Metadata{"chunk_id": index},
	}
}

func TestChunksNewChunksDBHandler(t *testing.T) {
	database := initDB(t)

	t.Run("Valid call NewChunksDBHandler", func(t *testing.T) {
		chunksDbHandler, err := NewChunksDBHandler(database, testEmbeddingDim, true)
		assert.NoError(t, err, "Expected NewChunksDBHandler to not return an error")
		require.NotNil(t, chunksDbHandler, "Expected NewChunksDBHandler to return a non-nil instance")
		require.NotNil(t, chunksDbHandler.db, "Expected NewChunksDBHandler to have a non-nil database instance")
	})

	t.Run("Invalid call NewChunksDBHandler with nil database", func(t *testing.T) {
		_, err := NewChunksDBHandler(nil, testEmbeddingDim, false)
		assert.Error(t, err, "Expected error when creating ChunksDBHandler with nil database")
		assert.Contains(t, err.Error(), "database connection is nil")
	})
}

func TestChunksInsert(t *testing.T) {
	database := initDB(t)

	chunksDbHandler, err := NewChunksDBHandler(database, testEmbeddingDim, true)
	require.NoError(t, err, "Expected NewChunksDBHandler to not return an error")

	t.Run("Insert chunk with embedding", func(t *testing.T) {
		chunk := newTestChunk("ACME", 0, "We reduced scope 1 emissions by 15 percent in fiscal 2024.")

		err := chunksDbHandler.InsertChunk(chunk)
		assert.NoError(t, err, "Expected Insert to not return an error")
		assert.NotEmpty(t, chunk.ID, "Expected inserted chunk to have an ID")
		assert.Equal(t, testEmbeddingDim, len(chunk.Embedding), "Expected embedding to be preserved")
		assert.WithinDuration(t, chunk.CreatedAt, time.Now(), 2*time.Second, "Expected CreatedAt to be set")
	})

	t.Run("Duplicate chunk index for same ticker fails", func(t *testing.T) {
		chunk := newTestChunk("ACME", 0, "A second chunk claiming the same index.")

		err := chunksDbHandler.InsertChunk(chunk)
		assert.Error(t, err, "Expected duplicate (ticker, chunk_index) to be rejected")
	})

	t.Run("Same chunk index under another ticker succeeds", func(t *testing.T) {
		chunk := newTestChunk("OTHER", 0, "Chunk indexes are only unique per ticker.")

		err := chunksDbHandler.InsertChunk(chunk)
		assert.NoError(t, err)
	})

	// Cleanup
	_, err = chunksDbHandler.DeleteChunksByTicker("ACME")
	require.NoError(t, err)
	_, err = chunksDbHandler.DeleteChunksByTicker("OTHER")
	require.NoError(t, err)
}

func TestChunksReplaceChunks(t *testing.T) {
	database := initDB(t)
	ctx := context.Background()

	chunksDbHandler, err := NewChunksDBHandler(database, testEmbeddingDim, true)
	require.NoError(t, err)

	t.Run("Replace populates an empty collection", func(t *testing.T) {
		chunks := []*model.Chunk{
			newTestChunk("MSFT", 0, "First chunk of the sustainability report."),
			newTestChunk("MSFT", 1, "Second chunk covering renewable energy."),
			newTestChunk("MSFT", 2, "Third chunk on supply chain emissions."),
		}

		err := chunksDbHandler.ReplaceChunks(ctx, "MSFT", chunks)
		assert.NoError(t, err)

		count, err := chunksDbHandler.CountChunksByTicker("MSFT")
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("Replace removes all prior chunks", func(t *testing.T) {
		replacement := []*model.Chunk{
			newTestChunk("MSFT", 0, "The only chunk of the re-indexed report."),
		}

		err := chunksDbHandler.ReplaceChunks(ctx, "MSFT", replacement)
		assert.NoError(t, err)

		stored, err := chunksDbHandler.SelectChunksByTicker("MSFT")
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, "The only chunk of the re-indexed report.", stored[0].Content)
	})

	t.Run("Replace leaves other tickers untouched", func(t *testing.T) {
		err := chunksDbHandler.ReplaceChunks(ctx, "AAPL", []*model.Chunk{
			newTestChunk("AAPL", 0, "An unrelated filing for another company."),
		})
		require.NoError(t, err)

		err = chunksDbHandler.ReplaceChunks(ctx, "MSFT", []*model.Chunk{
			newTestChunk("MSFT", 0, "Re-indexed again."),
		})
		assert.NoError(t, err)

		count, err := chunksDbHandler.CountChunksByTicker("AAPL")
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	// Cleanup
	_, err = chunksDbHandler.DeleteChunksByTicker("MSFT")
	require.NoError(t, err)
	_, err = chunksDbHandler.DeleteChunksByTicker("AAPL")
	require.NoError(t, err)
}

func TestChunksSelectBySimilarity(t *testing.T) {
	database := initDB(t)
	ctx := context.Background()

	chunksDbHandler, err := NewChunksDBHandler(database, testEmbeddingDim, true)
	require.NoError(t, err)

	chunks := []*model.Chunk{
		newTestChunk("NVDA", 0, "Emissions fell for the fifth year running."),
		newTestChunk("NVDA", 1, "The company was founded in 1993."),
		newTestChunk("NVDA", 2, "Renewable sourcing reached sixty percent."),
	}
	err = chunksDbHandler.ReplaceChunks(ctx, "NVDA", chunks)
	require.NoError(t, err)

	t.Run("Closest chunk is returned first", func(t *testing.T) {
		results, err := chunksDbHandler.SelectChunksBySimilarity("NVDA", testEmbedding(1), 3)
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, 1, results[0].ChunkIndex, "Expected the matching embedding to rank first")
		assert.LessOrEqual(t, results[0].Distance, results[1].Distance, "Expected ascending distance order")
		assert.LessOrEqual(t, results[1].Distance, results[2].Distance, "Expected ascending distance order")
	})

	t.Run("Limit caps the result count", func(t *testing.T) {
		results, err := chunksDbHandler.SelectChunksBySimilarity("NVDA", testEmbedding(0), 1)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("Unknown ticker returns no chunks", func(t *testing.T) {
		results, err := chunksDbHandler.SelectChunksBySimilarity("UNKNOWN", testEmbedding(0), 5)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	// Cleanup
	_, err = chunksDbHandler.DeleteChunksByTicker("NVDA")
	require.NoError(t, err)
}

func TestChunksDeleteAndCount(t *testing.T) {
	database := initDB(t)
	ctx := context.Background()

	chunksDbHandler, err := NewChunksDBHandler(database, testEmbeddingDim, true)
	require.NoError(t, err)

	err = chunksDbHandler.ReplaceChunks(ctx, "TSLA", []*model.Chunk{
		newTestChunk("TSLA", 0, "Chunk zero."),
		newTestChunk("TSLA", 1, "Chunk one."),
	})
	require.NoError(t, err)

	t.Run("Count returns stored chunk count", func(t *testing.T) {
		count, err := chunksDbHandler.CountChunksByTicker("TSLA")
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("Count of unknown ticker is zero", func(t *testing.T) {
		count, err := chunksDbHandler.CountChunksByTicker("UNKNOWN")
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("Delete returns deleted count", func(t *testing.T) {
		deleted, err := chunksDbHandler.DeleteChunksByTicker("TSLA")
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted)

		count, err := chunksDbHandler.CountChunksByTicker("TSLA")
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("Delete of unknown ticker deletes nothing", func(t *testing.T) {
		deleted, err := chunksDbHandler.DeleteChunksByTicker("UNKNOWN")
		require.NoError(t, err)
		assert.Equal(t, int64(0), deleted)
	})
}

func TestChunksSelectIndexedTickers(t *testing.T) {
	database := initDB(t)
	ctx := context.Background()

	chunksDbHandler, err := NewChunksDBHandler(database, testEmbeddingDim, true)
	require.NoError(t, err)

	err = chunksDbHandler.ReplaceChunks(ctx, "AMZN", []*model.Chunk{
		newTestChunk("AMZN", 0, "Chunk zero."),
		newTestChunk("AMZN", 1, "Chunk one."),
	})
	require.NoError(t, err)
	err = chunksDbHandler.ReplaceChunks(ctx, "GOOG", []*model.Chunk{
		newTestChunk("GOOG", 0, "Chunk zero."),
	})
	require.NoError(t, err)

	t.Run("All indexed tickers are listed with counts", func(t *testing.T) {
		stats, err := chunksDbHandler.SelectIndexedTickers()
		require.NoError(t, err)

		counts := map[string]int{}
		for _, s := range stats {
			counts[s.Ticker] = s.ChunkCount
		}
		assert.Equal(t, 2, counts["AMZN"])
		assert.Equal(t, 1, counts["GOOG"])
	})

	// Cleanup
	_, err = chunksDbHandler.DeleteChunksByTicker("AMZN")
	require.NoError(t, err)
	_, err = chunksDbHandler.DeleteChunksByTicker("GOOG")
	require.NoError(t, err)
}
