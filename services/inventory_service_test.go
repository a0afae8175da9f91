package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hvacops-backend/models"
)

func intPtr(v int) *int { return &v }

func TestInventoryStockHistory(t *testing.T) {
	db := newTestDB(t)
	svc := NewInventoryService(db, quietLogger())
	ctx := context.Background()

	item, err := svc.Create(ctx, adminCaller, InventoryInput{
		ModelName: "MSY-GS18VF",
		Brand:     models.BrandMitsubishi,
		Tonnage:   "1.5",
		Quantity:  10,
		OurPrice:  dec(32000),
		SalePrice: dec(41000),
	})
	require.NoError(t, err)

	// price-only change leaves no stock movement
	newPrice := dec(42000)
	_, err = svc.Update(ctx, adminCaller, item.ID, InventoryPatch{SalePrice: &newPrice})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, adminCaller, item.ID, InventoryPatch{SoldQuantity: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Available())

	moves, err := svc.History(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, moves, 2)

	byReason := map[models.StockReason]models.StockMovement{}
	for _, m := range moves {
		byReason[m.Reason] = m
	}
	created := byReason[models.StockCreated]
	assert.Equal(t, 10, created.QuantityDelta)
	assert.Equal(t, adminCaller.Email, created.RecordedBy)

	sold := byReason[models.StockUpdated]
	assert.Equal(t, 3, sold.SoldDelta)
	assert.Equal(t, 0, sold.QuantityDelta)
	assert.Equal(t, 3, sold.SoldQuantity)

	var changes map[string]map[string]int
	require.NoError(t, json.Unmarshal(sold.Changes, &changes))
	assert.Equal(t, 0, changes["soldQuantity"]["from"])
	assert.Equal(t, 3, changes["soldQuantity"]["to"])

	require.NoError(t, svc.Delete(ctx, adminCaller, item.ID))
	moves, err = svc.History(ctx, item.ID)
	require.NoError(t, err)
	assert.Len(t, moves, 3)

	_, err = svc.History(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInventoryValidation(t *testing.T) {
	svc := NewInventoryService(newTestDB(t), quietLogger())
	ctx := context.Background()

	cases := []InventoryInput{
		{Brand: models.BrandAkabishi},
		{ModelName: "X", Brand: "Daikin"},
		{ModelName: "X", Brand: models.BrandAkabishi, Quantity: 1, SoldQuantity: 2},
		{ModelName: "X", Brand: models.BrandAkabishi, Quantity: -1},
		{ModelName: "X", Brand: models.BrandAkabishi, OurPrice: dec(-5)},
	}
	for _, in := range cases {
		_, err := svc.Create(ctx, adminCaller, in)
		assert.ErrorIs(t, err, ErrValidation)
	}

	_, err := svc.Update(ctx, adminCaller, uuid.New(), InventoryPatch{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogShowsOnlyStockedItems(t *testing.T) {
	svc := NewInventoryService(newTestDB(t), quietLogger())
	ctx := context.Background()

	inStock, err := svc.Create(ctx, adminCaller, InventoryInput{
		ModelName: "AKB-12", Brand: models.BrandAkabishi, Quantity: 4, SoldQuantity: 1,
		OurPrice: dec(20000), SalePrice: dec(26000),
	})
	require.NoError(t, err)
	soldOut, err := svc.Create(ctx, adminCaller, InventoryInput{
		ModelName: "MSY-09", Brand: models.BrandMitsubishi, Quantity: 2, SoldQuantity: 2,
	})
	require.NoError(t, err)

	catalog, err := svc.Catalog(ctx, "")
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	assert.Equal(t, inStock.ID, catalog[0].ID)
	assert.Equal(t, 3, catalog[0].Available)

	raw, err := json.Marshal(catalog[0])
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "ourPrice")

	_, err = svc.CatalogItem(ctx, soldOut.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	filtered, err := svc.Catalog(ctx, models.BrandMitsubishi)
	require.NoError(t, err)
	assert.Empty(t, filtered)
}
