package services

import (
	"strings"
	"sync"
	"time"

	"ibnu-portfolio/pkg/models"

	"github.com/gin-gonic/gin"
)

// maxLogEntries bounds the in-memory request log.
const maxLogEntries = 10000

// LogEntry is a single request log.
type LogEntry struct {
	Timestamp    time.Time     `json:"timestamp"`
	Path         string        `json:"path"`
	Method       string        `json:"method"`
	StatusCode   int           `json:"status_code"`
	ResponseTime time.Duration `json:"response_time"`
}

// MonitoringService keeps a rolling request log and prediction tallies for the dashboard.
type MonitoringService struct {
	logs        []LogEntry
	provenance  map[models.Provenance]int
	tiers       map[models.RiskTier]int
	location    *time.Location
	excludePath []string
	mu          sync.RWMutex
}

// NewMonitoringService buckets the dashboard in the given location (UTC when nil).
func NewMonitoringService(location *time.Location) *MonitoringService {
	if location == nil {
		location = time.UTC
	}
	return &MonitoringService{
		logs:        make([]LogEntry, 0),
		provenance:  make(map[models.Provenance]int),
		tiers:       make(map[models.RiskTier]int),
		location:    location,
		excludePath: []string{"/api/v1/admin", "/api/v1/monitoring", "/metrics", "/health"},
	}
}

// LogRequest records a request, dropping the oldest entries beyond maxLogEntries.
func (s *MonitoringService) LogRequest(entry LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
	if over := len(s.logs) - maxLogEntries; over > 0 {
		s.logs = append(s.logs[:0:0], s.logs[over:]...)
	}
}

// RecordPrediction tallies a finished prediction.
func (s *MonitoringService) RecordPrediction(result models.PredictionResult) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provenance[result.Provenance]++
	if result.Tier != "" {
		s.tiers[result.Tier]++
	}
}

// LoggingMiddleware records every request outside the operational endpoints.
func (s *MonitoringService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		for _, prefix := range s.excludePath {
			if strings.HasPrefix(path, prefix) {
				return
			}
		}

		s.LogRequest(LogEntry{
			Timestamp:    start,
			Path:         path,
			Method:       c.Request.Method,
			StatusCode:   c.Writer.Status(),
			ResponseTime: time.Since(start),
		})
	}
}

// DashboardData is the aggregated view for the monitoring page.
type DashboardData struct {
	RequestsOverTime []map[string]interface{} `json:"requestsOverTime"`
	Endpoints        map[string]int           `json:"endpoints"`
	StatusCodes      map[string]int           `json:"statusCodes"`
	AvgResponseTimes map[string]int64         `json:"avgResponseTimes"` // milliseconds
	RecentErrors     []LogEntry               `json:"recentErrors"`
	Predictions      map[string]int           `json:"predictions"` // by provenance
	RiskTiers        map[string]int           `json:"riskTiers"`
}

// GetDashboardData aggregates the last periodHours of logs.
func (s *MonitoringService) GetDashboardData(periodHours int) DashboardData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if periodHours <= 0 {
		periodHours = 24
	}
	now := time.Now().In(s.location)
	since := now.Add(-time.Duration(periodHours) * time.Hour)

	filtered := make([]LogEntry, 0)
	for _, entry := range s.logs {
		if entry.Timestamp.After(since) {
			filtered = append(filtered, entry)
		}
	}

	// hourly buckets, oldest first
	buckets := make([]map[string]interface{}, periodHours)
	index := make(map[string]int, periodHours)
	for i := 0; i < periodHours; i++ {
		t := now.Add(-time.Duration(periodHours-1-i) * time.Hour).Truncate(time.Hour)
		index[t.Format(time.RFC3339)] = i
		buckets[i] = map[string]interface{}{"time": t.Format("15:00"), "requests": 0}
	}

	endpoints := make(map[string]int)
	statusCodes := map[string]int{"2xx Success": 0, "4xx Client Error": 0, "5xx Server Error": 0}
	totals := make(map[string]time.Duration)
	recentErrors := make([]LogEntry, 0)

	for _, entry := range filtered {
		key := entry.Timestamp.In(s.location).Truncate(time.Hour).Format(time.RFC3339)
		if i, ok := index[key]; ok {
			buckets[i]["requests"] = buckets[i]["requests"].(int) + 1
		}
		endpoints[entry.Path]++
		totals[entry.Path] += entry.ResponseTime

		switch {
		case entry.StatusCode >= 500:
			statusCodes["5xx Server Error"]++
		case entry.StatusCode >= 400:
			statusCodes["4xx Client Error"]++
		case entry.StatusCode >= 200 && entry.StatusCode < 300:
			statusCodes["2xx Success"]++
		}
	}

	avg := make(map[string]int64, len(totals))
	for path, total := range totals {
		avg[path] = total.Milliseconds() / int64(endpoints[path])
	}

	for i := len(filtered) - 1; i >= 0 && len(recentErrors) < 10; i-- {
		if filtered[i].StatusCode >= 500 {
			recentErrors = append(recentErrors, filtered[i])
		}
	}

	predictions := make(map[string]int, len(s.provenance))
	for p, n := range s.provenance {
		predictions[string(p)] = n
	}
	tiers := make(map[string]int, len(s.tiers))
	for t, n := range s.tiers {
		tiers[string(t)] = n
	}

	return DashboardData{
		RequestsOverTime: buckets,
		Endpoints:        endpoints,
		StatusCodes:      statusCodes,
		AvgResponseTimes: avg,
		RecentErrors:     recentErrors,
		Predictions:      predictions,
		RiskTiers:        tiers,
	}
}
