package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Jobs"

var exportHeaders = []string{
	"Job ID", "Customer", "Type", "Technician", "Start Date", "Status", "Current Phase",
	"Payment Status", "Total Cost", "Total Paid", "Balance", "Created At",
}

// ExportService writes the job list as an Excel workbook
type ExportService struct {
	jobs *JobService
}

func NewExportService(jobs *JobService) *ExportService {
	return &ExportService{jobs: jobs}
}

// WriteJobs streams one row per job the caller can see
func (s *ExportService) WriteJobs(ctx context.Context, caller Caller, w io.Writer) error {
	if err := authorizeFinances(caller, "export jobs"); err != nil {
		return err
	}
	jobs, err := s.jobs.List(ctx, caller, "")
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#2563EB"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(exportSheet, cell, header)
		f.SetCellStyle(exportSheet, cell, cell, headerStyle)
	}
	f.SetColWidth(exportSheet, "A", "L", 20)

	for i, j := range jobs {
		currentPhase := ""
		if j.CurrentPhase != nil {
			currentPhase = *j.CurrentPhase
		}
		row := []any{
			j.ID.String(),
			j.CustomerName,
			string(j.JobType),
			j.Technician,
			j.StartDate.Format("2006-01-02"),
			string(j.Status),
			currentPhase,
			string(*j.PaymentStatus),
			j.TotalCost.InexactFloat64(),
			j.TotalPaid.InexactFloat64(),
			j.Balance.InexactFloat64(),
			j.CreatedAt.Format(time.DateTime),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return f.Write(w)
}
