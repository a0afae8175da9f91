package services

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hvacops-backend/models"
)

type NotificationKind string

const (
	KindPhaseProgress    NotificationKind = "phase_progress"
	KindPaymentRequest   NotificationKind = "payment_request"
	KindProjectCompleted NotificationKind = "project_completed"
	KindBalanceReminder  NotificationKind = "balance_reminder"
)

// Notification is everything a channel needs to tell a customer about a job.
type Notification struct {
	Kind          NotificationKind     `json:"kind"`
	JobID         uuid.UUID            `json:"jobId"`
	JobType       models.JobType       `json:"jobType"`
	PhaseName     string               `json:"phaseName,omitempty"`
	Technician    string               `json:"technician"`
	CustomerName  string               `json:"customerName"`
	CustomerEmail string               `json:"customerEmail"`
	CustomerPhone string               `json:"customerPhone,omitempty"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	AmountDue     decimal.Decimal      `json:"amountDue"`
	JobCompleted  bool                 `json:"jobCompleted"`
}

// Notifier accepts a notification for best-effort delivery. Notify must not
// block on network I/O and never reports delivery failures to the caller.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a plain function to Notifier
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// phaseNotification applies the message policy for a completed phase, in
// order: payment milestone, then final phase, then plain progress. The last
// Installation phase is both a milestone and the final phase; it is sent as a
// payment request with JobCompleted set.
func phaseNotification(job *models.Job, customer *models.Customer, phaseName string, jobCompleted bool) Notification {
	n := Notification{
		Kind:          KindPhaseProgress,
		JobID:         job.ID,
		JobType:       job.JobType,
		PhaseName:     phaseName,
		Technician:    job.Technician,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
		PaymentStatus: job.PaymentStatus,
		AmountDue:     decimal.Zero,
		JobCompleted:  jobCompleted,
	}

	if milestone, ok := models.MilestoneFor(job.JobType, phaseName); ok {
		n.Kind = KindPaymentRequest
		n.AmountDue = job.MilestoneAmount(milestone)
	} else if jobCompleted {
		n.Kind = KindProjectCompleted
	}
	return n
}
