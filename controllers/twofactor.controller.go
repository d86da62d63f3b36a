package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/patientfunnel/server/config"
	"github.com/patientfunnel/server/models"
	"github.com/patientfunnel/server/security"
	"github.com/patientfunnel/server/twofactor"
)

type TwoFactorInput struct {
	Action         string `json:"action" binding:"required,oneof=enable disable verify"`
	Token          string `json:"token"`
	DeviceID       string `json:"device_id"`
	RememberDevice bool   `json:"remember_device"`
}

// TwoFactor manages TOTP enrolment for the caller's doctor profile.
func TwoFactor(c *gin.Context) {
	var input TwoFactorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		security.SendValidationError(c, "Invalid input data", err.Error())
		return
	}

	userID := currentUserID(c)

	var email string
	var secret *string
	var devices models.StringList
	err := config.DB.QueryRow(`
		SELECT u.email, m.two_factor_secret, m.trusted_devices
		FROM medicos m JOIN usuarios u ON u.id = m.usuario_id
		WHERE m.usuario_id = $1
	`, userID).Scan(&email, &secret, &devices)
	if err != nil {
		security.SendNotFoundError(c, "doctor")
		return
	}

	switch input.Action {
	case "enable":
		newSecret, err := twofactor.GenerateSecret(email)
		if err != nil {
			security.SendError(c, http.StatusInternalServerError, security.CodeDatabaseError,
				"Two-factor error", "Failed to generate secret", nil)
			return
		}
		if _, err := config.DB.Exec(`
			UPDATE medicos SET two_factor_secret = $1, two_factor_enabled = TRUE WHERE usuario_id = $2
		`, newSecret, userID); err != nil {
			security.SendDatabaseError(c, "Failed to enable two-factor")
			return
		}
		c.JSON(http.StatusOK, gin.H{"secret": newSecret})

	case "disable":
		if _, err := config.DB.Exec(`
			UPDATE medicos SET two_factor_secret = NULL, two_factor_enabled = FALSE, trusted_devices = '[]' WHERE usuario_id = $1
		`, userID); err != nil {
			security.SendDatabaseError(c, "Failed to disable two-factor")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Two-factor disabled"})

	case "verify":
		if secret == nil || !twofactor.Verify(*secret, input.Token) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid token"})
			return
		}
		if input.RememberDevice && input.DeviceID != "" {
			devices = append(devices, input.DeviceID)
			if _, err := config.DB.Exec(`
				UPDATE medicos SET trusted_devices = $1 WHERE usuario_id = $2
			`, devices, userID); err != nil {
				security.SendDatabaseError(c, "Failed to remember device")
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "Token valid"})
	}
}

type TrustedDeviceInput struct {
	DeviceID string `json:"device_id" binding:"required"`
}

// TrustedDevice reports whether a device id was previously remembered.
func TrustedDevice(c *gin.Context) {
	var input TrustedDeviceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		security.SendValidationError(c, "Invalid input data", err.Error())
		return
	}

	var devices models.StringList
	err := config.DB.QueryRow(`SELECT trusted_devices FROM medicos WHERE usuario_id = $1`, currentUserID(c)).Scan(&devices)
	if err != nil {
		security.SendNotFoundError(c, "doctor")
		return
	}

	for _, d := range devices {
		if d == input.DeviceID {
			c.JSON(http.StatusOK, gin.H{"trusted": true})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"trusted": false})
}
