package handlers

import (
	"net/http"

	"ibnu-portfolio/pkg/services"

	"github.com/gin-gonic/gin"
)

// dashboardPeriods maps the period query onto hours.
var dashboardPeriods = map[string]int{
	"1h":  1,
	"24h": 24,
	"7d":  24 * 7,
}

// MonitoringHandler serves the request and prediction dashboard.
type MonitoringHandler struct {
	Service *services.MonitoringService
}

// NewMonitoringHandler creates a MonitoringHandler.
func NewMonitoringHandler(service *services.MonitoringService) *MonitoringHandler {
	return &MonitoringHandler{Service: service}
}

// GetLogs returns the aggregated dashboard for period=1h|24h|7d (default 24h).
func (h *MonitoringHandler) GetLogs(c *gin.Context) {
	hours, ok := dashboardPeriods[c.DefaultQuery("period", "24h")]
	if !ok {
		hours = 24
	}
	c.JSON(http.StatusOK, h.Service.GetDashboardData(hours))
}
