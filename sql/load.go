package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed chunks.sql
var chunksSQL string

//go:embed documents.sql
var documentsSQL string

//go:embed audits.sql
var auditsSQL string

// Function lists for verification
var ChunksFunctions = []string{
	"init_chunks",
	"insert_chunk",
	"select_chunks_by_ticker",
	"select_chunks_by_similarity",
	"delete_chunks_by_ticker",
	"count_chunks_by_ticker",
	"select_indexed_tickers",
}

var DocumentsFunctions = []string{
	"init_documents",
	"upsert_document",
	"select_document",
	"select_all_documents",
	"delete_document",
}

var AuditsFunctions = []string{
	"init_audits",
	"insert_audit",
	"select_audits_by_ticker",
	"select_latest_audits",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadChunksSql loads chunk-related SQL functions
func LoadChunksSql(db *sql.DB, force bool) error {
	return loadFunctions(db, chunksSQL, ChunksFunctions, "chunks", force)
}

// LoadDocumentsSql loads document-related SQL functions
func LoadDocumentsSql(db *sql.DB, force bool) error {
	return loadFunctions(db, documentsSQL, DocumentsFunctions, "documents", force)
}

// LoadAuditsSql loads audit-related SQL functions
func LoadAuditsSql(db *sql.DB, force bool) error {
	return loadFunctions(db, auditsSQL, AuditsFunctions, "audits", force)
}

func loadFunctions(db *sql.DB, functionsSQL string, functions []string, name string, force bool) error {
	if !force {
		exist, err := checkFunctions(db, functions)
		if err != nil {
			return fmt.Errorf("error checking existing %v functions: %w", name, err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(functionsSQL)
	if err != nil {
		return fmt.Errorf("error executing %v SQL: %w", name, err)
	}

	exist, err := checkFunctions(db, functions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Printf("SQL %v functions loaded successfully", name)
	return nil
}

func checkFunctions(db *sql.DB, functions []string) (bool, error) {
	for _, funcName := range functions {
		var exists bool
		err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`, funcName).Scan(&exists)
		if err != nil {
			return false, err
		}
		if !exists {
			return false, nil
		}
	}
	return true, nil
}
