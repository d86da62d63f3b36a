package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/patientfunnel/server/config"
	"github.com/patientfunnel/server/dashboards"
	"github.com/patientfunnel/server/security"
)

// Dashboard selects the strategy for the caller's role and returns its
// payload.
func Dashboard(c *gin.Context) {
	strategy, err := dashboards.ForRole(config.DB, c.GetString("role"))
	if err != nil {
		security.SendError(c, http.StatusForbidden, security.CodeInsufficientPermissions,
			"Access denied", "No dashboard is available for your role", nil)
		return
	}

	payload, err := strategy.Build(currentUserID(c))
	if err != nil {
		log.Error("dashboard build failed",
			zap.String("role", c.GetString("role")),
			zap.Int64("user_id", currentUserID(c)),
			zap.Error(err))
		security.SendDatabaseError(c, "Failed to build dashboard")
		return
	}

	c.JSON(http.StatusOK, payload)
}
