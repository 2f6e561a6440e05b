package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/verdantiq/greenlens/helper"
	"github.com/verdantiq/greenlens/model"
	loadSql "github.com/verdantiq/greenlens/sql"
)

// DocumentsDBHandlerFunctions defines the interface for Documents database operations.
type DocumentsDBHandlerFunctions interface {
	UpsertDocument(doc *model.Document) error
	SelectDocument(ticker string) (*model.Document, error)
	SelectAllDocuments() ([]*model.Document, error)
	DeleteDocument(ticker string) error
}

// DocumentsDBHandler handles document-related database operations
type DocumentsDBHandler struct {
	db *helper.Database
}

// NewDocumentsDBHandler creates a new documents database handler.
// It initializes the database connection and loads document-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewDocumentsDBHandler(db *helper.Database, force bool) (*DocumentsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	documentsDbHandler := &DocumentsDBHandler{
		db: db,
	}

	err := loadSql.LoadDocumentsSql(documentsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load documents sql", err)
	}

	err = documentsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized DocumentsDBHandler")

	return documentsDbHandler, nil
}

// CreateTable creates the 'documents' table in the database.
// If the table already exists, it does not create it again.
func (h *DocumentsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_documents();`)
	if err != nil {
		log.Panicf("error initializing documents table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table documents")

	return nil
}

// UpsertDocument inserts the document registry row for a ticker,
// replacing any prior row (re-indexing is last-write-wins).
func (h *DocumentsDBHandler) UpsertDocument(doc *model.Document) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM upsert_document($1, $2, $3, $4, $5)`,
		doc.Ticker,
		doc.Title,
		doc.Source,
		doc.ChunkCount,
		doc.Metadata,
	)

	err := row.Scan(
		&doc.ID,
		&doc.RID,
		&doc.Ticker,
		&doc.Title,
		&doc.Source,
		&doc.ChunkCount,
		&doc.Metadata,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectDocument retrieves the registered document of a ticker.
// Returns nil without error when the ticker has no document.
func (h *DocumentsDBHandler) SelectDocument(ticker string) (*model.Document, error) {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_document($1)`,
		ticker,
	)

	doc := &model.Document{}
	err := row.Scan(
		&doc.ID,
		&doc.RID,
		&doc.Ticker,
		&doc.Title,
		&doc.Source,
		&doc.ChunkCount,
		&doc.Metadata,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return doc, nil
}

// SelectAllDocuments retrieves all registered documents ordered by ticker
func (h *DocumentsDBHandler) SelectAllDocuments() ([]*model.Document, error) {
	rows, err := h.db.Instance.Query(`SELECT * FROM select_all_documents()`)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var docs []*model.Document
	for rows.Next() {
		doc := &model.Document{}
		err := rows.Scan(
			&doc.ID,
			&doc.RID,
			&doc.Ticker,
			&doc.Title,
			&doc.Source,
			&doc.ChunkCount,
			&doc.Metadata,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// DeleteDocument removes the registered document of a ticker
func (h *DocumentsDBHandler) DeleteDocument(ticker string) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_document($1)`,
		ticker,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
