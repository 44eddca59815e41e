package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/stocksense/internal/model"
)

// SaveAssessments appends assessment rows to the history. Assessments are
// never updated; each prediction run adds new rows.
func (s *SQLiteStorage) SaveAssessments(ctx context.Context, assessments []model.RiskAssessment) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAssessments(assessments); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO assessments (
			product_id, risk_score, risk_prediction, risk_level,
			risk_category, source, predicted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare assessment insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, a := range assessments {
		if _, err := stmt.ExecContext(ctx,
			a.ProductID, a.RiskScore, a.RiskPrediction, string(a.RiskLevel),
			string(a.RiskCategory), string(a.Source), a.PredictedAt.UTC(),
		); err != nil {
			return fmt.Errorf("failed to save assessment for %s: %w", a.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit assessments: %w", err)
	}
	return nil
}

// GetAssessments returns assessment history, newest first. An empty
// productID means all products; limit <= 0 means no limit.
func (s *SQLiteStorage) GetAssessments(ctx context.Context, productID string, limit int) ([]model.RiskAssessment, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT product_id, risk_score, risk_prediction, risk_level,
			risk_category, source, predicted_at
		FROM assessments
	`
	var args []any
	if productID != "" {
		query += ` WHERE product_id = ?`
		args = append(args, productID)
	}
	query += ` ORDER BY predicted_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var assessments []model.RiskAssessment
	for rows.Next() {
		var a model.RiskAssessment
		var level, category, source string
		if err := rows.Scan(
			&a.ProductID, &a.RiskScore, &a.RiskPrediction, &level,
			&category, &source, &a.PredictedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		a.RiskLevel = model.RiskLevel(level)
		a.RiskCategory = model.RiskCategory(category)
		a.Source = model.PredictionSource(source)
		assessments = append(assessments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assessments: %w", err)
	}
	return assessments, nil
}
