// controllers/report.go
package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hvacops-backend/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportController handles downloadable reports
type ReportController struct {
	Export *services.ExportService
	Log    *logrus.Logger
}

// ExportJobs returns every job as an .xlsx attachment
func (rc *ReportController) ExportJobs(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := rc.Export.WriteJobs(c.Request.Context(), caller, &buf); err != nil {
		respondError(c, rc.Log, err, "Failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("jobs_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
