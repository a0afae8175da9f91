package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"hvacops-backend/models"
	"hvacops-backend/services"
	"hvacops-backend/utils"
)

type CreateInventoryInput struct {
	ModelName    string          `json:"modelName" binding:"required"`
	Brand        string          `json:"brand" binding:"required"`
	Type         string          `json:"type"`
	Tonnage      string          `json:"tonnage"`
	StarRating   string          `json:"starRating"`
	Quantity     int             `json:"quantity"`
	SoldQuantity int             `json:"soldQuantity"`
	OurPrice     decimal.Decimal `json:"ourPrice"`
	SalePrice    decimal.Decimal `json:"salePrice"`
}

type UpdateInventoryInput struct {
	ModelName    *string          `json:"modelName"`
	Brand        *string          `json:"brand"`
	Type         *string          `json:"type"`
	Tonnage      *string          `json:"tonnage"`
	StarRating   *string          `json:"starRating"`
	Quantity     *int             `json:"quantity"`
	SoldQuantity *int             `json:"soldQuantity"`
	OurPrice     *decimal.Decimal `json:"ourPrice"`
	SalePrice    *decimal.Decimal `json:"salePrice"`
}

// InventoryController serves admin stock management and the public catalog
type InventoryController struct {
	Inventory *services.InventoryService
	Log       *logrus.Logger
}

func (ic *InventoryController) GetItems(c *gin.Context) {
	items, err := ic.Inventory.List(c.Request.Context(), c.Query("search"), models.Brand(c.Query("brand")))
	if err != nil {
		respondError(c, ic.Log, err, "Failed to retrieve inventory")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (ic *InventoryController) GetItem(c *gin.Context) {
	id, ok := parseID(c, "inventory")
	if !ok {
		return
	}
	item, err := ic.Inventory.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, ic.Log, err, "Database error")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (ic *InventoryController) CreateItem(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var input CreateInventoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	item, err := ic.Inventory.Create(c.Request.Context(), caller, services.InventoryInput{
		ModelName:    input.ModelName,
		Brand:        models.Brand(input.Brand),
		Type:         input.Type,
		Tonnage:      input.Tonnage,
		StarRating:   input.StarRating,
		Quantity:     input.Quantity,
		SoldQuantity: input.SoldQuantity,
		OurPrice:     input.OurPrice,
		SalePrice:    input.SalePrice,
	})
	if err != nil {
		respondError(c, ic.Log, err, "Failed to create inventory item")
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (ic *InventoryController) UpdateItem(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "inventory")
	if !ok {
		return
	}

	var input UpdateInventoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	patch := services.InventoryPatch{
		ModelName:    input.ModelName,
		Type:         input.Type,
		Tonnage:      input.Tonnage,
		StarRating:   input.StarRating,
		Quantity:     input.Quantity,
		SoldQuantity: input.SoldQuantity,
		OurPrice:     input.OurPrice,
		SalePrice:    input.SalePrice,
	}
	if input.Brand != nil {
		brand := models.Brand(*input.Brand)
		patch.Brand = &brand
	}

	item, err := ic.Inventory.Update(c.Request.Context(), caller, id, patch)
	if err != nil {
		respondError(c, ic.Log, err, "Failed to update inventory item")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (ic *InventoryController) DeleteItem(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "inventory")
	if !ok {
		return
	}
	if err := ic.Inventory.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, ic.Log, err, "Failed to delete inventory item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inventory item deleted successfully"})
}

// GetHistory lists stock movements for an item, including deleted items
func (ic *InventoryController) GetHistory(c *gin.Context) {
	id, ok := parseID(c, "inventory")
	if !ok {
		return
	}
	moves, err := ic.Inventory.History(c.Request.Context(), id)
	if err != nil {
		respondError(c, ic.Log, err, "Failed to retrieve stock history")
		return
	}
	c.JSON(http.StatusOK, moves)
}

func (ic *InventoryController) GetCatalog(c *gin.Context) {
	items, err := ic.Inventory.Catalog(c.Request.Context(), models.Brand(c.Query("brand")))
	if err != nil {
		respondError(c, ic.Log, err, "Failed to retrieve catalog")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (ic *InventoryController) GetCatalogItem(c *gin.Context) {
	id, ok := parseID(c, "catalog")
	if !ok {
		return
	}
	item, err := ic.Inventory.CatalogItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, ic.Log, err, "Failed to retrieve catalog item")
		return
	}
	c.JSON(http.StatusOK, item)
}
