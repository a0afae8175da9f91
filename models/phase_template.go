package models

import "strings"

var installationPhases = [...]string{
	"Drain pipe",
	"Remote pipe",
	"Wall opening",
	"Supporting",
	"Copper piping (payment)",
	"Leak testing",
	"Dressing",
	"Communication wiring",
	"Ducting",
	"Indoor Unit Installation",
	"Grill fitting",
	"Outdoor fittings (payment)",
	"Pressure stand",
	"Vacuum",
	"Gas charging",
	"Remote fitting",
	"Commissioning (payment)",
}

var servicePhases = [...]string{
	"Initial System Inspection",
	"Filter & Coil Cleaning",
	"Gas Level & Pressure Check",
	"Component Repair/Replacement",
	"Final Testing & Payment",
}

// TemplateFor returns the ordered phase names for a job type, or nil for an
// unknown type. The result is a fresh slice; callers may modify it.
func TemplateFor(t JobType) []string {
	switch t {
	case JobTypeInstallation:
		return append([]string(nil), installationPhases[:]...)
	case JobTypeService:
		return append([]string(nil), servicePhases[:]...)
	}
	return nil
}

// Milestone identifies which cost field a payment phase bills.
type Milestone string

const (
	MilestoneCopperPiping   Milestone = "copper_piping"
	MilestoneOutdoorFitting Milestone = "outdoor_fitting"
	MilestoneCommissioning  Milestone = "commissioning"
)

// MilestoneFor reports whether completing phaseName should request a payment,
// and for which cost. Matching is case-insensitive on the phase name.
func MilestoneFor(t JobType, phaseName string) (Milestone, bool) {
	name := strings.ToLower(phaseName)
	switch {
	case strings.Contains(name, "copper piping (payment)"):
		return MilestoneCopperPiping, true
	case strings.Contains(name, "outdoor fittings (payment)"):
		return MilestoneOutdoorFitting, true
	case strings.Contains(name, "commissioning (payment)"):
		return MilestoneCommissioning, true
	case t == JobTypeService && strings.Contains(name, "final testing & payment"):
		// service jobs bill their final phase against commissioningCost
		return MilestoneCommissioning, true
	}
	return "", false
}
