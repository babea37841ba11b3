package repository

import (
	"context"

	"github.com/osse101/CaseBot_Go/internal/domain"
)

// Catalog defines read and seed access to item and case definitions.
// Get methods return (nil, nil) when the row does not exist.
type Catalog interface {
	GetCase(ctx context.Context, caseID int64) (*domain.Case, error)
	ListActiveCases(ctx context.Context) ([]domain.Case, error)
	// ListCases includes inactive cases
	ListCases(ctx context.Context) ([]domain.Case, error)
	GetItem(ctx context.Context, itemID int64) (*domain.Item, error)
	ListItems(ctx context.Context) ([]domain.Item, error)
	// UpsertItem inserts or updates by name and sets item.ID
	UpsertItem(ctx context.Context, item *domain.Item) error
	// UpsertCase inserts or updates by name and sets c.ID
	UpsertCase(ctx context.Context, c *domain.Case) error
}
