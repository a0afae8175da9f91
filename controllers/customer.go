package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hvacops-backend/services"
	"hvacops-backend/utils"
)

// CreateCustomerInput defines the expected JSON structure for creating a customer
type CreateCustomerInput struct {
	Name         string  `json:"name" binding:"required"`
	Email        string  `json:"email" binding:"required,email"`
	Phone        string  `json:"phone"`
	Address      string  `json:"address"`
	DrawingURL   *string `json:"drawingUrl"`
	QuotationURL *string `json:"quotationUrl"`
}

// UpdateCustomerInput defines the expected JSON structure for updating a customer
type UpdateCustomerInput struct {
	Name         *string `json:"name"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	DrawingURL   *string `json:"drawingUrl"`
	QuotationURL *string `json:"quotationUrl"`
}

type CustomerController struct {
	Customers *services.CustomerService
	Log       *logrus.Logger
}

func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	customer, err := cc.Customers.Create(c.Request.Context(), services.CustomerInput{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		Address:      input.Address,
		DrawingURL:   input.DrawingURL,
		QuotationURL: input.QuotationURL,
	})
	if err != nil {
		respondError(c, cc.Log, err, "Failed to create customer")
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// GetCustomers lists customers, optionally filtered by ?search=
func (cc *CustomerController) GetCustomers(c *gin.Context) {
	customers, err := cc.Customers.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, cc.Log, err, "Failed to retrieve customers")
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (cc *CustomerController) GetCustomer(c *gin.Context) {
	id, ok := parseID(c, "customer")
	if !ok {
		return
	}
	customer, err := cc.Customers.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, cc.Log, err, "Database error")
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	id, ok := parseID(c, "customer")
	if !ok {
		return
	}

	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	customer, err := cc.Customers.Update(c.Request.Context(), id, services.CustomerPatch{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		Address:      input.Address,
		DrawingURL:   input.DrawingURL,
		QuotationURL: input.QuotationURL,
	})
	if err != nil {
		respondError(c, cc.Log, err, "Failed to update customer")
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer removes the customer and everything under their jobs
func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c, "customer")
	if !ok {
		return
	}
	if err := cc.Customers.Delete(c.Request.Context(), id); err != nil {
		respondError(c, cc.Log, err, "Failed to delete customer")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}
