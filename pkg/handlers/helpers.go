package handlers

import (
	"errors"
	"net/http"

	"ibnu-portfolio/pkg/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// respondEstimateError answers an estimator failure. Only configuration defects reach here,
// and they are never the caller's fault.
func respondEstimateError(c *gin.Context, logger *zap.Logger, err error) {
	var defect *services.ConfigurationDefectError
	if errors.As(err, &defect) {
		logger.Error("configuration defect while scoring",
			zap.String("field", defect.Field),
			zap.String("value", defect.Value),
			zap.Error(err),
		)
	} else {
		logger.Error("scoring failed", zap.Error(err))
	}
	respondError(c, http.StatusInternalServerError, "the simulator is misconfigured, please try again later")
}
