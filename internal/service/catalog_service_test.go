package service

import (
	"context"
	"testing"

	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddProductDerivesBoxWeight(t *testing.T) {
	e := newEnv(t)

	product, err := e.catalog.AddProduct(context.Background(), e.manager, e.companyID, ProductInput{
		NameInternal:  "vanilla_base",
		NameRussian:   "Ванильная база",
		PackageWeight: 2.5,
		UnitsPerBox:   4,
		PricePerBox:   12000,
		Unit:          domain.UnitKilogram,
	})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, product.BoxWeight, 1e-9)
	assert.Equal(t, e.companyID, product.CompanyID)
}

func TestAddProductValidation(t *testing.T) {
	e := newEnv(t)
	valid := ProductInput{
		NameInternal: "x", PackageWeight: 1, UnitsPerBox: 1, PricePerBox: 0, Unit: domain.UnitKilogram,
	}

	cases := []struct {
		name   string
		mutate func(*ProductInput)
	}{
		{"empty name", func(in *ProductInput) { in.NameInternal = "" }},
		{"unknown unit", func(in *ProductInput) { in.Unit = "kg" }},
		{"zero package weight", func(in *ProductInput) { in.PackageWeight = 0 }},
		{"negative package weight", func(in *ProductInput) { in.PackageWeight = -1 }},
		{"zero units per box", func(in *ProductInput) { in.UnitsPerBox = 0 }},
		{"negative price", func(in *ProductInput) { in.PricePerBox = -1 }},
		{"piece unit with non-unit package", func(in *ProductInput) { in.Unit = domain.UnitPiece; in.PackageWeight = 2 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			_, err := e.catalog.AddProduct(context.Background(), e.manager, e.companyID, in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestAddProductPieceUnit(t *testing.T) {
	e := newEnv(t)

	product, err := e.catalog.AddProduct(context.Background(), e.manager, e.companyID, ProductInput{
		NameInternal: "cups", PackageWeight: 1, UnitsPerBox: 50, PricePerBox: 4000, Unit: domain.UnitPiece,
	})
	require.NoError(t, err)
	assert.InDelta(t, 50.0, product.BoxWeight, 1e-9)
}

func TestAddProductRequiresManager(t *testing.T) {
	e := newEnv(t)

	_, err := e.catalog.AddProduct(context.Background(), e.employee, e.companyID, ProductInput{
		NameInternal: "x", PackageWeight: 1, UnitsPerBox: 1, Unit: domain.UnitKilogram,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGetByInternalName(t *testing.T) {
	e := newEnv(t)
	e.addProduct("milk", domain.UnitKilogram, 2.5, 4, 8000)

	product, err := e.catalog.GetByInternalName(context.Background(), e.employee, e.companyID, "milk")
	require.NoError(t, err)
	assert.Equal(t, "milk", product.NameInternal)

	_, err = e.catalog.GetByInternalName(context.Background(), e.employee, e.companyID, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogIsolatedPerTenant(t *testing.T) {
	e := newEnv(t)
	e.addProduct("milk", domain.UnitKilogram, 2.5, 4, 8000)
	other, _ := e.store.CreateCompany(context.Background(), "Other", domain.SubscriptionActive)
	otherAdmin := domain.Actor{UserID: 88, CompanyID: other.ID, Role: domain.RoleAdmin}

	products, err := e.catalog.ListProducts(context.Background(), otherAdmin, other.ID)
	require.NoError(t, err)
	assert.Empty(t, products)

	_, err = e.catalog.ListProducts(context.Background(), otherAdmin, e.companyID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
