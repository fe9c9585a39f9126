package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-storefront/internal/domain"
	"go-gin-storefront/internal/testutil"
)

func TestCatalogRepos(t *testing.T) {
	db := testutil.OpenDB(t)
	require.NoError(t, Migrate(db))
	suppliers := NewSupplierRepo(db)
	products := NewProductRepo(db)
	ctx := context.Background()

	s := &domain.Supplier{Nombre: "Acme", Telefono: "555"}
	require.NoError(t, suppliers.Create(ctx, s))

	p := &domain.Product{Nombre: "Cafe", Precio: 12.5, Stock: 3, SupplierID: &s.ID}
	require.NoError(t, products.Create(ctx, p))

	got, err := products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.SupplierID)
	assert.Equal(t, s.ID, *got.SupplierID)

	got.Imagen = "/uploads/x.png"
	require.NoError(t, products.Update(ctx, got))

	items, total, err := products.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "/uploads/x.png", items[0].Imagen)

	ss, total, err := suppliers.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Acme", ss[0].Nombre)

	require.NoError(t, products.Delete(ctx, p.ID))
	assert.ErrorIs(t, products.Delete(ctx, p.ID), domain.ErrNotFound)

	require.NoError(t, suppliers.Delete(ctx, s.ID))
	_, err = suppliers.FindByID(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
