package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/verdantiq/greenlens/helper"
	"github.com/verdantiq/greenlens/model"
	loadSql "github.com/verdantiq/greenlens/sql"
)

// AuditsDBHandlerFunctions defines the interface for Audits database operations.
type AuditsDBHandlerFunctions interface {
	InsertAudit(assessment *model.RiskAssessment) error
	SelectAuditsByTicker(ticker string, limit int) ([]*model.RiskAssessment, error)
	SelectLatestAudits(limit int) ([]*model.RiskAssessment, error)
}

// AuditsDBHandler persists completed risk assessments
type AuditsDBHandler struct {
	db *helper.Database
}

// NewAuditsDBHandler creates a new audits database handler.
// If force is true, it will reload the SQL functions even if they already exist.
func NewAuditsDBHandler(db *helper.Database, force bool) (*AuditsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	auditsDbHandler := &AuditsDBHandler{
		db: db,
	}

	err := loadSql.LoadAuditsSql(auditsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load audits sql", err)
	}

	err = auditsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized AuditsDBHandler")

	return auditsDbHandler, nil
}

// CreateTable creates the 'audits' table in the database.
// If the table already exists, it does not create it again.
func (h *AuditsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_audits();`)
	if err != nil {
		log.Panicf("error initializing audits table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table audits")

	return nil
}

// InsertAudit persists a completed risk assessment
func (h *AuditsDBHandler) InsertAudit(assessment *model.RiskAssessment) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_audit($1, $2, $3, $4, $5, $6, $7, $8)`,
		assessment.Ticker,
		assessment.DisclosureSentiment,
		assessment.NewsSentiment,
		assessment.Delta,
		assessment.RiskScore,
		string(assessment.RiskTier),
		assessment.Rationale,
		assessment.NewsCount,
	)

	err := row.Scan(
		&assessment.ID,
		&assessment.Ticker,
		&assessment.DisclosureSentiment,
		&assessment.NewsSentiment,
		&assessment.Delta,
		&assessment.RiskScore,
		&assessment.RiskTier,
		&assessment.Rationale,
		&assessment.NewsCount,
		&assessment.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectAuditsByTicker retrieves the audit history of a ticker,
// newest first.
func (h *AuditsDBHandler) SelectAuditsByTicker(ticker string, limit int) ([]*model.RiskAssessment, error) {
	return h.selectAudits(`SELECT * FROM select_audits_by_ticker($1, $2)`, ticker, limit)
}

// SelectLatestAudits retrieves the most recent audits across all tickers
func (h *AuditsDBHandler) SelectLatestAudits(limit int) ([]*model.RiskAssessment, error) {
	return h.selectAudits(`SELECT * FROM select_latest_audits($1)`, limit)
}

func (h *AuditsDBHandler) selectAudits(query string, args ...any) ([]*model.RiskAssessment, error) {
	rows, err := h.db.Instance.Query(query, args...)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var audits []*model.RiskAssessment
	for rows.Next() {
		a := &model.RiskAssessment{}
		err := rows.Scan(
			&a.ID,
			&a.Ticker,
			&a.DisclosureSentiment,
			&a.NewsSentiment,
			&a.Delta,
			&a.RiskScore,
			&a.RiskTier,
			&a.Rationale,
			&a.NewsCount,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		audits = append(audits, a)
	}

	return audits, rows.Err()
}
