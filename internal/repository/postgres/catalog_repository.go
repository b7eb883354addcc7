package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
)

type catalogRepository struct {
	db *DB
}

func NewCatalogRepository(db *DB) *catalogRepository {
	return &catalogRepository{db: db}
}

const productColumns = `id, company_id, name_internal, name_russian, name_chinese,
	package_weight, units_per_box, box_weight, price_per_box, unit, created_at`

func (r *catalogRepository) AddProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO products (company_id, name_internal, name_russian, name_chinese,
		                      package_weight, units_per_box, box_weight, price_per_box, unit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + productColumns

	var out domain.Product
	err := r.db.GetContext(ctx, &out, query,
		p.CompanyID, p.NameInternal, p.NameRussian, p.NameChinese,
		p.PackageWeight, p.UnitsPerBox, p.BoxWeight, p.PricePerBox, p.Unit)
	if err != nil {
		return nil, fmt.Errorf("failed to add product: %w", mapError(err))
	}

	return &out, nil
}

func (r *catalogRepository) GetProduct(ctx context.Context, companyID, productID int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE company_id = $1 AND id = $2`

	var p domain.Product
	if err := r.db.GetContext(ctx, &p, query, companyID, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "product", ID: productID}
		}
		return nil, fmt.Errorf("failed to get product: %w", mapError(err))
	}

	return &p, nil
}

func (r *catalogRepository) GetByInternalName(ctx context.Context, companyID int64, nameInternal string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE company_id = $1 AND name_internal = $2`

	var p domain.Product
	if err := r.db.GetContext(ctx, &p, query, companyID, nameInternal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Entity: "product", ID: nameInternal}
		}
		return nil, fmt.Errorf("failed to get product by name: %w", mapError(err))
	}

	return &p, nil
}

func (r *catalogRepository) ListProducts(ctx context.Context, companyID int64) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE company_id = $1 ORDER BY name_internal`

	var products []*domain.Product
	if err := r.db.SelectContext(ctx, &products, query, companyID); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", mapError(err))
	}

	return products, nil
}
