package models

import "hvacops-backend/utils"

type JobType string

const (
	JobTypeInstallation JobType = "Installation"
	JobTypeService      JobType = "Service"
)

func (t JobType) Valid() bool {
	return t == JobTypeInstallation || t == JobTypeService
}

type JobStatus string

const (
	JobStatusOngoing   JobStatus = "Ongoing"
	JobStatusCompleted JobStatus = "Completed"
)

// StatusFor derives the job status from a full phase count. A job with no
// phases is never Completed.
func StatusFor(total, completed int64) JobStatus {
	if total > 0 && completed == total {
		return JobStatusCompleted
	}
	return JobStatusOngoing
}

// PaymentStatus is set by hand and is not derived from the payment ledger.
type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "Pending"
	PaymentOneThird      PaymentStatus = "1/3rd Received"
	PaymentTwoThirds     PaymentStatus = "2/3rd Received"
	PaymentFullyReceived PaymentStatus = "Fully Received"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentOneThird, PaymentTwoThirds, PaymentFullyReceived:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "Cash"
	PaymentMethodCard     PaymentMethod = "Card"
	PaymentMethodTransfer PaymentMethod = "Transfer"
	PaymentMethodOther    PaymentMethod = "Other"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodOther:
		return true
	}
	return false
}

type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleTechnician Role = "technician"
)

// ParseRole normalizes the case of r and reports whether it is a known role
func ParseRole(r string) (Role, bool) {
	role := Role(utils.NormalizeRole(r))
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleTechnician:
		return role, true
	}
	return role, false
}

type Brand string

const (
	BrandMitsubishi Brand = "Mitsubishi"
	BrandAkabishi   Brand = "Akabishi"
)

func (b Brand) Valid() bool {
	return b == BrandMitsubishi || b == BrandAkabishi
}
