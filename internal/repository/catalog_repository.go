package repository

import (
	"context"

	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
)

// CatalogRepository owns product persistence. Every query is scoped by
// company; there is deliberately no cross-company listing method.
type CatalogRepository interface {
	AddProduct(ctx context.Context, p *domain.Product) (*domain.Product, error)
	GetProduct(ctx context.Context, companyID, productID int64) (*domain.Product, error)
	GetByInternalName(ctx context.Context, companyID int64, nameInternal string) (*domain.Product, error)
	ListProducts(ctx context.Context, companyID int64) ([]*domain.Product, error)
}
