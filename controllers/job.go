package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"hvacops-backend/models"
	"hvacops-backend/services"
	"hvacops-backend/utils"
)

type CreateJobInput struct {
	CustomerID    string `json:"customerId" binding:"required"`
	JobType       string `json:"jobType" binding:"required"`
	Technician    string `json:"technician"`
	StartDate     string `json:"startDate"`
	PaymentStatus string `json:"paymentStatus"`

	CopperPipingCost   decimal.Decimal `json:"copperPipingCost"`
	OutdoorFittingCost decimal.Decimal `json:"outdoorFittingCost"`
	CommissioningCost  decimal.Decimal `json:"commissioningCost"`
}

type UpdatePaymentStatusInput struct {
	PaymentStatus string `json:"paymentStatus" binding:"required"`
}

type UpdatePhaseInput struct {
	IsCompleted *bool `json:"isCompleted" binding:"required"`
}

type RecordPaymentInput struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
	Notes         string          `json:"notes"`
}

// JobController serves jobs, their phases and their payments
type JobController struct {
	Jobs     *services.JobService
	Phases   *services.PhaseService
	Payments *services.PaymentService
	Log      *logrus.Logger
}

func (jc *JobController) CreateJob(c *gin.Context) {
	var input CreateJobInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	customerID, err := uuid.Parse(input.CustomerID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
		return
	}
	var startDate time.Time
	if input.StartDate != "" {
		if startDate, err = utils.ParseDate(input.StartDate); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid startDate, use YYYY-MM-DD")
			return
		}
	}

	job, err := jc.Jobs.Create(c.Request.Context(), services.CreateJobInput{
		CustomerID:    customerID,
		JobType:       models.JobType(input.JobType),
		Technician:    input.Technician,
		StartDate:     startDate,
		PaymentStatus: models.PaymentStatus(input.PaymentStatus),
		Costs: services.CostBreakdown{
			CopperPiping:   input.CopperPipingCost,
			OutdoorFitting: input.OutdoorFittingCost,
			Commissioning:  input.CommissioningCost,
		},
	})
	if err != nil {
		respondError(c, jc.Log, err, "Failed to create job")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":      job.ID,
		"success": true,
		"job":     job,
		"phases":  job.Phases,
	})
}

// GetJobs lists the jobs visible to the caller, optionally filtered by ?search=
func (jc *JobController) GetJobs(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	jobs, err := jc.Jobs.List(c.Request.Context(), caller, c.Query("search"))
	if err != nil {
		respondError(c, jc.Log, err, "Failed to retrieve jobs")
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (jc *JobController) GetJob(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "job")
	if !ok {
		return
	}

	detail, err := jc.Jobs.Get(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, jc.Log, err, "Failed to retrieve job")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// UpdatePaymentStatus is the manual paymentStatus overwrite
func (jc *JobController) UpdatePaymentStatus(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "job")
	if !ok {
		return
	}

	var input UpdatePaymentStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	status := models.PaymentStatus(input.PaymentStatus)
	if err := jc.Jobs.UpdatePaymentStatus(c.Request.Context(), caller, id, status); err != nil {
		respondError(c, jc.Log, err, "Failed to update payment status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment status updated", "paymentStatus": status})
}

func (jc *JobController) DeleteJob(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "job")
	if !ok {
		return
	}

	if err := jc.Jobs.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, jc.Log, err, "Failed to delete job")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job deleted successfully"})
}

// UpdatePhase completes a phase. Phases cannot be reopened over HTTP.
func (jc *JobController) UpdatePhase(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "phase")
	if !ok {
		return
	}

	var input UpdatePhaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if !*input.IsCompleted {
		utils.RespondWithError(c, http.StatusBadRequest, "Completed phases cannot be reopened")
		return
	}

	result, err := jc.Phases.CompletePhase(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, jc.Log, err, "Failed to update phase")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Phase updated",
		"jobId":        result.JobID,
		"jobStatus":    result.JobStatus,
		"currentPhase": result.CurrentPhase,
	})
}

func (jc *JobController) GetPayments(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "job")
	if !ok {
		return
	}

	payments, err := jc.Payments.List(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, jc.Log, err, "Failed to retrieve payments")
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (jc *JobController) RecordPayment(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "job")
	if !ok {
		return
	}

	var input RecordPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	payment, err := jc.Payments.Record(c.Request.Context(), caller, id, services.RecordPaymentInput{
		Amount: input.Amount,
		Method: models.PaymentMethod(input.PaymentMethod),
		Notes:  input.Notes,
	})
	if err != nil {
		respondError(c, jc.Log, err, "Failed to record payment")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":      payment.ID,
		"success": true,
		"payment": payment,
	})
}
