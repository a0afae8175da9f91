package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hvacops-backend/models"
)

// InventoryService keeps AC unit stock and its movement history in step
type InventoryService struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewInventoryService(db *gorm.DB, log *logrus.Logger) *InventoryService {
	return &InventoryService{db: db, log: log}
}

type InventoryInput struct {
	ModelName    string
	Brand        models.Brand
	Type         string
	Tonnage      string
	StarRating   string
	Quantity     int
	SoldQuantity int
	OurPrice     decimal.Decimal
	SalePrice    decimal.Decimal
}

type InventoryPatch struct {
	ModelName    *string
	Brand        *models.Brand
	Type         *string
	Tonnage      *string
	StarRating   *string
	Quantity     *int
	SoldQuantity *int
	OurPrice     *decimal.Decimal
	SalePrice    *decimal.Decimal
}

// CatalogItem is the public view of an inventory item, without purchase price
type CatalogItem struct {
	ID         uuid.UUID       `json:"id"`
	ModelName  string          `json:"modelName"`
	Brand      models.Brand    `json:"brand"`
	Type       string          `json:"type"`
	Tonnage    string          `json:"tonnage"`
	StarRating string          `json:"starRating"`
	SalePrice  decimal.Decimal `json:"salePrice"`
	Available  int             `json:"available"`
}

type fieldChange struct {
	From any `json:"from"`
	To   any `json:"to"`
}

func (s *InventoryService) List(ctx context.Context, search string, brand models.Brand) ([]models.InventoryItem, error) {
	q := s.db.WithContext(ctx).Model(&models.InventoryItem{})
	if brand != "" {
		q = q.Where("brand = ?", brand)
	}
	if search = strings.TrimSpace(search); search != "" {
		term := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(model_name) LIKE ? OR LOWER(type) LIKE ?", term, term)
	}

	var items []models.InventoryItem
	if err := q.Order("updated_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *InventoryService) Get(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, notFound("inventory item", err)
	}
	return &item, nil
}

func (s *InventoryService) Create(ctx context.Context, caller Caller, in InventoryInput) (*models.InventoryItem, error) {
	item := models.InventoryItem{
		ModelName:    strings.TrimSpace(in.ModelName),
		Brand:        in.Brand,
		Type:         in.Type,
		Tonnage:      in.Tonnage,
		StarRating:   in.StarRating,
		Quantity:     in.Quantity,
		SoldQuantity: in.SoldQuantity,
		OurPrice:     in.OurPrice.Round(2),
		SalePrice:    in.SalePrice.Round(2),
	}
	if err := validateItem(&item); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		return recordMovement(tx, &item, models.StockCreated, item.Quantity, item.SoldQuantity, nil, caller.Email)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Update applies the patch and appends a stock movement when levels change
func (s *InventoryService) Update(ctx context.Context, caller Caller, id uuid.UUID, patch InventoryPatch) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, "id = ?", id).Error; err != nil {
			return notFound("inventory item", err)
		}
		before := item
		changes := map[string]fieldChange{}

		if patch.ModelName != nil {
			item.ModelName = strings.TrimSpace(*patch.ModelName)
		}
		if patch.Brand != nil {
			item.Brand = *patch.Brand
		}
		if patch.Type != nil {
			item.Type = *patch.Type
		}
		if patch.Tonnage != nil {
			item.Tonnage = *patch.Tonnage
		}
		if patch.StarRating != nil {
			item.StarRating = *patch.StarRating
		}
		if patch.Quantity != nil && *patch.Quantity != item.Quantity {
			changes["quantity"] = fieldChange{From: item.Quantity, To: *patch.Quantity}
			item.Quantity = *patch.Quantity
		}
		if patch.SoldQuantity != nil && *patch.SoldQuantity != item.SoldQuantity {
			changes["soldQuantity"] = fieldChange{From: item.SoldQuantity, To: *patch.SoldQuantity}
			item.SoldQuantity = *patch.SoldQuantity
		}
		if patch.OurPrice != nil {
			item.OurPrice = patch.OurPrice.Round(2)
		}
		if patch.SalePrice != nil {
			item.SalePrice = patch.SalePrice.Round(2)
		}
		if err := validateItem(&item); err != nil {
			return err
		}

		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		return recordMovement(tx, &item, models.StockUpdated,
			item.Quantity-before.Quantity, item.SoldQuantity-before.SoldQuantity, changes, caller.Email)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes the item; its history rows stay behind
func (s *InventoryService) Delete(ctx context.Context, caller Caller, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.InventoryItem
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, "id = ?", id).Error; err != nil {
			return notFound("inventory item", err)
		}
		if item.Quantity != 0 || item.SoldQuantity != 0 {
			removed := item
			removed.Quantity, removed.SoldQuantity = 0, 0
			if err := recordMovement(tx, &removed, models.StockDeleted, -item.Quantity, -item.SoldQuantity, nil, caller.Email); err != nil {
				return err
			}
		}
		return tx.Delete(&item).Error
	})
}

// History lists stock movements for an item, newest first
func (s *InventoryService) History(ctx context.Context, id uuid.UUID) ([]models.StockMovement, error) {
	var moves []models.StockMovement
	if err := s.db.WithContext(ctx).Where("item_id = ?", id).Order("created_at DESC").Find(&moves).Error; err != nil {
		return nil, err
	}
	if len(moves) == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return nil, err
		}
	}
	return moves, nil
}

// Catalog lists items with stock available to sell
func (s *InventoryService) Catalog(ctx context.Context, brand models.Brand) ([]CatalogItem, error) {
	q := s.db.WithContext(ctx).Where("quantity - sold_quantity > 0")
	if brand != "" {
		q = q.Where("brand = ?", brand)
	}

	var items []models.InventoryItem
	if err := q.Order("model_name ASC").Find(&items).Error; err != nil {
		return nil, err
	}

	out := make([]CatalogItem, len(items))
	for i := range items {
		out[i] = toCatalogItem(&items[i])
	}
	return out, nil
}

func (s *InventoryService) CatalogItem(ctx context.Context, id uuid.UUID) (*CatalogItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Available() <= 0 {
		return nil, notFound("catalog item", gorm.ErrRecordNotFound)
	}
	c := toCatalogItem(item)
	return &c, nil
}

func toCatalogItem(i *models.InventoryItem) CatalogItem {
	return CatalogItem{
		ID:         i.ID,
		ModelName:  i.ModelName,
		Brand:      i.Brand,
		Type:       i.Type,
		Tonnage:    i.Tonnage,
		StarRating: i.StarRating,
		SalePrice:  i.SalePrice,
		Available:  i.Available(),
	}
}

func validateItem(i *models.InventoryItem) error {
	if i.ModelName == "" {
		return validationError("modelName is required")
	}
	if !i.Brand.Valid() {
		return validationError("brand must be Mitsubishi or Akabishi")
	}
	if i.Quantity < 0 || i.SoldQuantity < 0 {
		return validationError("quantities cannot be negative")
	}
	if i.SoldQuantity > i.Quantity {
		return validationError("soldQuantity cannot exceed quantity")
	}
	if i.OurPrice.IsNegative() || i.SalePrice.IsNegative() {
		return validationError("prices cannot be negative")
	}
	return nil
}

func recordMovement(tx *gorm.DB, item *models.InventoryItem, reason models.StockReason, qtyDelta, soldDelta int, changes map[string]fieldChange, by string) error {
	move := models.StockMovement{
		ItemID:        item.ID,
		ModelName:     item.ModelName,
		Reason:        reason,
		QuantityDelta: qtyDelta,
		SoldDelta:     soldDelta,
		Quantity:      item.Quantity,
		SoldQuantity:  item.SoldQuantity,
		RecordedBy:    by,
	}
	if len(changes) > 0 {
		raw, err := json.Marshal(changes)
		if err != nil {
			return err
		}
		move.Changes = datatypes.JSON(raw)
	}
	return tx.Create(&move).Error
}
