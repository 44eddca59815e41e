// Package storage provides the SQLite persistence layer: product catalog,
// sales history, inventory snapshots, and assessment history.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/stocksense/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrEmptySlice     = errors.New("slice cannot be empty")
	ErrInvalidProduct = errors.New("invalid product")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateProducts validates a slice of product records.
func validateProducts(products []model.ProductRecord) error {
	if products == nil {
		return fmt.Errorf("%w: products", ErrNilParameter)
	}
	if len(products) == 0 {
		return fmt.Errorf("%w: products", ErrEmptySlice)
	}

	for i, p := range products {
		if err := validateProduct(&p); err != nil {
			return fmt.Errorf("product at index %d: %w", i, err)
		}
	}
	return nil
}

// validateProduct validates a single product record.
func validateProduct(p *model.ProductRecord) error {
	if p == nil {
		return fmt.Errorf("%w: product", ErrNilParameter)
	}
	if strings.TrimSpace(p.ProductID) == "" {
		return fmt.Errorf("%w: missing product ID", ErrInvalidProduct)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: negative price", ErrInvalidProduct)
	}
	if p.SupplierLeadTime < 0 {
		return fmt.Errorf("%w: negative lead time", ErrInvalidProduct)
	}
	return nil
}

// validateObservations validates a slice of sales observations.
func validateObservations(observations []model.SalesObservation) error {
	if observations == nil {
		return fmt.Errorf("%w: observations", ErrNilParameter)
	}
	if len(observations) == 0 {
		return fmt.Errorf("%w: observations", ErrEmptySlice)
	}

	for i, obs := range observations {
		if strings.TrimSpace(obs.ProductID) == "" {
			return fmt.Errorf("observation at index %d: %w: missing product ID", i, ErrInvalidProduct)
		}
		if obs.Date.IsZero() {
			return fmt.Errorf("observation at index %d: %w: missing date", i, ErrInvalidProduct)
		}
	}
	return nil
}

// validateAssessments validates a slice of risk assessments.
func validateAssessments(assessments []model.RiskAssessment) error {
	if assessments == nil {
		return fmt.Errorf("%w: assessments", ErrNilParameter)
	}
	if len(assessments) == 0 {
		return fmt.Errorf("%w: assessments", ErrEmptySlice)
	}

	for i, a := range assessments {
		if strings.TrimSpace(a.ProductID) == "" {
			return fmt.Errorf("assessment at index %d: %w: missing product ID", i, ErrInvalidProduct)
		}
		if a.RiskScore < 0 || a.RiskScore > 1 {
			return fmt.Errorf("assessment at index %d: %w: risk score must be between 0 and 1", i, ErrInvalidProduct)
		}
	}
	return nil
}
