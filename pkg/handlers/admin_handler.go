package handlers

import (
	"crypto/subtle"
	"net/http"
	"sync/atomic"
	"time"

	config "ibnu-portfolio/configs"
	"ibnu-portfolio/pkg/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// isMaintenanceMode is read by HealthCheck on every probe.
var isMaintenanceMode atomic.Bool

// ModelArtifact is the admin view of the classifier artifact.
type ModelArtifact interface {
	Diagnostics() services.ArtifactDiagnostics
	Reload() error
}

// AdminHandler handles operator actions.
type AdminHandler struct {
	AdminUsername string
	AdminPassword string
	artifact      ModelArtifact
	logger        *zap.Logger
}

// NewAdminHandler creates an AdminHandler. Without a configured password every admin action is refused.
func NewAdminHandler(cfg config.AdminConfig, artifact ModelArtifact, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{
		AdminUsername: cfg.Username,
		AdminPassword: cfg.Password,
		artifact:      artifact,
		logger:        logger,
	}
}

// AdminCredentials is the request body of admin actions.
type AdminCredentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AdminHandler) authorize(c *gin.Context) bool {
	var input AdminCredentials
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Username and password are required")
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(input.Username), []byte(h.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(input.Password), []byte(h.AdminPassword)) == 1
	if h.AdminPassword == "" || !userOK || !passOK {
		h.logger.Warn("rejected admin credentials", zap.String("path", c.FullPath()), zap.String("client_ip", c.ClientIP()))
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return false
	}
	return true
}

// StartMaintenance turns maintenance mode on.
func (h *AdminHandler) StartMaintenance(c *gin.Context) {
	if !h.authorize(c) {
		return
	}
	isMaintenanceMode.Store(true)
	h.logger.Info("maintenance mode started")
	c.JSON(http.StatusOK, gin.H{"message": "Maintenance mode started"})
}

// StopMaintenance turns maintenance mode off.
func (h *AdminHandler) StopMaintenance(c *gin.Context) {
	if !h.authorize(c) {
		return
	}
	isMaintenanceMode.Store(false)
	h.logger.Info("maintenance mode stopped")
	c.JSON(http.StatusOK, gin.H{"message": "Maintenance mode stopped"})
}

// GetHealthStatus reports whether maintenance mode is on.
func (h *AdminHandler) GetHealthStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"isMaintenanceMode": isMaintenanceMode.Load()})
}

// ModelSummary is the public summary of the classifier artifact. The path and the load
// error are only returned to authorized reloads.
type ModelSummary struct {
	Loaded         bool      `json:"loaded"`
	Usable         bool      `json:"usable"`
	RuntimeVersion string    `json:"runtime_version,omitempty"`
	ExpectedMajor  string    `json:"expected_major"`
	Columns        int       `json:"columns,omitempty"`
	LoadedAt       time.Time `json:"loaded_at,omitempty"`
}

// ModelStatus reports whether the simulator is scoring with the trained model.
func (h *AdminHandler) ModelStatus(c *gin.Context) {
	diag := h.artifact.Diagnostics()
	respondOK(c, ModelSummary{
		Loaded:         diag.Loaded,
		Usable:         diag.Usable,
		RuntimeVersion: diag.RuntimeVersion,
		ExpectedMajor:  diag.ExpectedMajor,
		Columns:        diag.Columns,
		LoadedAt:       diag.LoadedAt,
	})
}

// ReloadModel re-reads the artifact from disk. A failed reload leaves the simulator on the heuristic.
func (h *AdminHandler) ReloadModel(c *gin.Context) {
	if !h.authorize(c) {
		return
	}
	err := h.artifact.Reload()
	diag := h.artifact.Diagnostics()
	if err != nil {
		h.logger.Warn("model reload failed", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error(), "data": diag})
		return
	}
	h.logger.Info("model reloaded", zap.String("runtime_version", diag.RuntimeVersion))
	respondOK(c, diag)
}

// HealthCheck answers load balancer probes; 503 while in maintenance.
func HealthCheck(c *gin.Context) {
	if isMaintenanceMode.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "message": "Server is in maintenance mode"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
