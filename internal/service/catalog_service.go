package service

import (
	"context"
	"fmt"

	"github.com/coldbrew-labs/franchise-inventory/internal/auth"
	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
	"github.com/coldbrew-labs/franchise-inventory/internal/repository"
)

// CatalogService manages a tenant's product catalog.
type CatalogService struct {
	repo repository.CatalogRepository
}

func NewCatalogService(repo repository.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// ProductInput is the caller-facing shape for a new product. BoxWeight is
// never accepted from the caller; it is derived.
type ProductInput struct {
	NameInternal  string      `json:"name_internal"`
	NameRussian   string      `json:"name_russian"`
	NameChinese   string      `json:"name_chinese"`
	PackageWeight float64     `json:"package_weight"`
	UnitsPerBox   int         `json:"units_per_box"`
	PricePerBox   float64     `json:"price_per_box"`
	Unit          domain.Unit `json:"unit"`
}

func (s *CatalogService) AddProduct(ctx context.Context, actor domain.Actor, companyID int64, in ProductInput) (*domain.Product, error) {
	if err := auth.Authorize(actor, auth.CatalogWrite, companyID); err != nil {
		return nil, err
	}
	if err := validateProductInput(in); err != nil {
		return nil, err
	}

	product := &domain.Product{
		CompanyID:     companyID,
		NameInternal:  in.NameInternal,
		NameRussian:   in.NameRussian,
		NameChinese:   in.NameChinese,
		PackageWeight: in.PackageWeight,
		UnitsPerBox:   in.UnitsPerBox,
		BoxWeight:     in.PackageWeight * float64(in.UnitsPerBox),
		PricePerBox:   in.PricePerBox,
		Unit:          in.Unit,
	}

	return s.repo.AddProduct(ctx, product)
}

func (s *CatalogService) GetProduct(ctx context.Context, actor domain.Actor, companyID, productID int64) (*domain.Product, error) {
	if err := auth.Authorize(actor, auth.CatalogRead, companyID); err != nil {
		return nil, err
	}
	return s.repo.GetProduct(ctx, companyID, productID)
}

func (s *CatalogService) GetByInternalName(ctx context.Context, actor domain.Actor, companyID int64, name string) (*domain.Product, error) {
	if err := auth.Authorize(actor, auth.CatalogRead, companyID); err != nil {
		return nil, err
	}
	return s.repo.GetByInternalName(ctx, companyID, name)
}

func (s *CatalogService) ListProducts(ctx context.Context, actor domain.Actor, companyID int64) ([]*domain.Product, error) {
	if err := auth.Authorize(actor, auth.CatalogRead, companyID); err != nil {
		return nil, err
	}
	return s.repo.ListProducts(ctx, companyID)
}

func validateProductInput(in ProductInput) error {
	if in.NameInternal == "" {
		return &domain.ValidationError{Field: "name_internal", Reason: "must not be empty"}
	}
	if !in.Unit.Valid() {
		return &domain.ValidationError{Field: "unit", Reason: fmt.Sprintf("unknown unit %q", in.Unit)}
	}
	if in.PackageWeight <= 0 {
		return &domain.ValidationError{Field: "package_weight", Reason: "must be positive"}
	}
	if in.UnitsPerBox <= 0 {
		return &domain.ValidationError{Field: "units_per_box", Reason: "must be positive"}
	}
	if in.PricePerBox < 0 {
		return &domain.ValidationError{Field: "price_per_box", Reason: "must not be negative"}
	}
	// Piece-unit products count pieces directly: one package is one piece.
	// Anything else reintroduces the packages-vs-pieces ambiguity the data
	// model has already been migrated away from.
	if in.Unit == domain.UnitPiece && in.PackageWeight != 1 {
		return &domain.ValidationError{Field: "package_weight", Reason: "must be 1 for шт products"}
	}
	return nil
}
