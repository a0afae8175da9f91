package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hvacops-backend/models"
	"hvacops-backend/utils"
)

// FinancialsHidden marks a job view whose money fields were stripped
const FinancialsHidden = "hidden"

// Caller is the authenticated identity behind a request, in canonical case
type Caller struct {
	UserID uuid.UUID
	Email  string
	Role   models.Role
}

func NewCaller(userID uuid.UUID, email, role string) Caller {
	r, _ := models.ParseRole(role)
	return Caller{UserID: userID, Email: utils.NormalizeEmail(email), Role: r}
}

func (c Caller) IsTechnician() bool { return c.Role == models.RoleTechnician }
func (c Caller) IsSuperAdmin() bool { return c.Role == models.RoleSuperAdmin }

// IsAdmin is true for admins and superadmins
func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin || c.Role == models.RoleSuperAdmin
}

// AssignedTo reports whether the job's technician is this caller
func (c Caller) AssignedTo(job *models.Job) bool {
	return c.Email != "" && utils.NormalizeEmail(job.Technician) == c.Email
}

// authorizeJob gates any read or write of a job. Only technicians are
// restricted; unknown roles get nothing.
func authorizeJob(c Caller, job *models.Job) error {
	switch {
	case c.IsAdmin():
		return nil
	case c.IsTechnician():
		if c.AssignedTo(job) {
			return nil
		}
		return forbidden("This job is assigned to another technician.")
	}
	return forbidden("unknown role")
}

func authorizeFinances(c Caller, action string) error {
	if c.IsAdmin() {
		return nil
	}
	return forbidden("Only admins can " + action + ".")
}

// JobView is the shared response shape for job list rows and job detail.
// Money fields are pointers so they can be dropped for technicians.
type JobView struct {
	ID         uuid.UUID        `json:"id"`
	CustomerID uuid.UUID        `json:"customerId"`
	JobType    models.JobType   `json:"jobType"`
	StartDate  time.Time        `json:"startDate"`
	Technician string           `json:"technician"`
	Status     models.JobStatus `json:"status"`
	CreatedAt  time.Time        `json:"createdAt"`

	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail,omitempty"`
	CustomerPhone   string `json:"customerPhone,omitempty"`
	CustomerAddress string `json:"customerAddress,omitempty"`

	CurrentPhase *string `json:"currentPhase"`

	PaymentStatus      *models.PaymentStatus `json:"paymentStatus,omitempty"`
	CopperPipingCost   *decimal.Decimal      `json:"copperPipingCost,omitempty"`
	OutdoorFittingCost *decimal.Decimal      `json:"outdoorFittingCost,omitempty"`
	CommissioningCost  *decimal.Decimal      `json:"commissioningCost,omitempty"`
	TotalCost          *decimal.Decimal      `json:"totalCost,omitempty"`
	TotalPaid          *decimal.Decimal      `json:"totalPaid,omitempty"`
	Balance            *decimal.Decimal      `json:"balance,omitempty"`

	// PaymentStatusMatchesLedger is false when the manual status and the
	// ledger disagree about whether the job is paid off.
	PaymentStatusMatchesLedger *bool `json:"paymentStatusMatchesLedger,omitempty"`

	Financials string `json:"financials,omitempty"`
}

// projectJob builds the view a caller is allowed to see
func projectJob(c Caller, job *models.Job, customer *models.Customer, currentPhase *string, paid decimal.Decimal) JobView {
	v := JobView{
		ID:           job.ID,
		CustomerID:   job.CustomerID,
		JobType:      job.JobType,
		StartDate:    job.StartDate,
		Technician:   job.Technician,
		Status:       job.Status,
		CreatedAt:    job.CreatedAt,
		CurrentPhase: currentPhase,
	}
	if customer != nil {
		v.CustomerName = customer.Name
		v.CustomerEmail = customer.Email
		v.CustomerPhone = customer.Phone
		v.CustomerAddress = customer.Address
	}

	if !c.IsAdmin() {
		v.Financials = FinancialsHidden
		return v
	}

	status := job.PaymentStatus
	copper, outdoor, commissioning, total := job.CopperPipingCost, job.OutdoorFittingCost, job.CommissioningCost, job.TotalCost
	due := balance(job.TotalCost, paid)
	matches := due.IsZero() == (status == models.PaymentFullyReceived)

	v.PaymentStatus = &status
	v.CopperPipingCost = &copper
	v.OutdoorFittingCost = &outdoor
	v.CommissioningCost = &commissioning
	v.TotalCost = &total
	v.TotalPaid = &paid
	v.Balance = &due
	v.PaymentStatusMatchesLedger = &matches
	return v
}

// balance is max(0, total - paid)
func balance(total, paid decimal.Decimal) decimal.Decimal {
	due := total.Sub(paid)
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}
