package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hvacops-backend/services"
)

type DashboardController struct {
	Stats *services.StatsService
	Log   *logrus.Logger
}

// GetStats returns job counters for the caller; admins also get customer and balance totals
func (dc *DashboardController) GetStats(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	stats, err := dc.Stats.For(c.Request.Context(), caller)
	if err != nil {
		respondError(c, dc.Log, err, "Failed to retrieve stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func Root(c *gin.Context) {
	c.String(http.StatusOK, "HVAC Ops Backend Running")
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "hvacops-api",
		"time":    time.Now(),
	})
}
