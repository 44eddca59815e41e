// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/stocksense/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Catalog operations
	SaveProducts(ctx context.Context, products []model.ProductRecord) error
	GetProducts(ctx context.Context) ([]model.ProductRecord, error)
	GetProductByID(ctx context.Context, productID string) (*model.ProductRecord, error)

	// Sales history operations
	SaveSalesObservations(ctx context.Context, observations []model.SalesObservation) error
	GetSalesObservations(ctx context.Context, since *time.Time) ([]model.SalesObservation, error)

	// Inventory operations
	SaveInventory(ctx context.Context, productID string, snapshot model.InventorySnapshot) error
	GetInventory(ctx context.Context) ([]model.Product, error)

	// Assessment history operations
	SaveAssessments(ctx context.Context, assessments []model.RiskAssessment) error
	GetAssessments(ctx context.Context, productID string, limit int) ([]model.RiskAssessment, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for service operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// NarrativeGenerator produces free-text narratives for explanations. It is
// an optional collaborator; a nil generator means templated narratives only.
type NarrativeGenerator interface {
	GenerateNarrative(ctx context.Context, prompt string) (string, error)
}
