package controllers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/patientfunnel/server/config"
	"github.com/patientfunnel/server/models"
	"github.com/patientfunnel/server/security"
)

// HealthCheck reports service and database health.
func HealthCheck(c *gin.Context) {
	if err := config.DB.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "Database connection failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "patientfunnel-server",
		"timestamp": time.Now().Unix(),
	})
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges email+password for an access/refresh token pair.
func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		security.SendValidationError(c, "Invalid input data", err.Error())
		return
	}

	var user models.Usuario
	err := config.DB.QueryRow(`
		SELECT id, email, password_hash, first_name, last_name, role, is_active, date_joined
		FROM usuarios WHERE email = $1
	`, input.Email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FirstName,
		&user.LastName, &user.Role, &user.IsActive, &user.DateJoined)
	if err == sql.ErrNoRows {
		security.SendUnauthorizedError(c, "Invalid email or password")
		return
	}
	if err != nil {
		security.SendDatabaseError(c, "Failed to look up user")
		return
	}

	if !user.IsActive {
		security.SendUnauthorizedError(c, "Account is deactivated")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		security.SendUnauthorizedError(c, "Invalid email or password")
		return
	}

	accessToken, err := security.SignAccessToken(cfg.JWTSecret, user.ID, user.Role, cfg.AccessTokenTTL)
	if err != nil {
		security.SendError(c, http.StatusInternalServerError, security.CodeAuthVerificationError,
			"Token generation failed", "Failed to generate access token", nil)
		return
	}

	refreshToken, err := security.SignRefreshToken(cfg.JWTSecret, user.ID, cfg.RefreshTokenTTL)
	if err != nil {
		security.SendError(c, http.StatusInternalServerError, security.CodeAuthVerificationError,
			"Token generation failed", "Failed to generate refresh token", nil)
		return
	}

	expiresAt := time.Now().Add(cfg.RefreshTokenTTL)
	if _, err := config.DB.Exec(`INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES ($1, $2, $3)`,
		user.ID, refreshToken, expiresAt); err != nil {
		security.SendDatabaseError(c, "Failed to store refresh token")
		return
	}

	log.Info("user logged in", zap.Int64("user_id", user.ID), zap.String("role", user.Role))

	c.JSON(http.StatusOK, gin.H{
		"access":  accessToken,
		"refresh": refreshToken,
		"user":    user,
		"role":    user.Role,
	})
}

type RefreshInput struct {
	Refresh string `json:"refresh" binding:"required"`
}

// RefreshToken exchanges a stored refresh token for a new access token.
func RefreshToken(c *gin.Context) {
	var input RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		security.SendValidationError(c, "Invalid input data", err.Error())
		return
	}

	claims, err := security.VerifyToken(cfg.JWTSecret, input.Refresh, "refresh")
	if err != nil {
		security.SendError(c, http.StatusUnauthorized, security.CodeInvalidToken,
			"Invalid refresh token", "The refresh token is invalid or expired", nil)
		return
	}

	var stored bool
	err = config.DB.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM refresh_tokens WHERE user_id = $1 AND token = $2 AND expires_at > NOW())
	`, claims.UserID, input.Refresh).Scan(&stored)
	if err != nil {
		security.SendDatabaseError(c, "Failed to verify refresh token")
		return
	}
	if !stored {
		security.SendError(c, http.StatusUnauthorized, security.CodeInvalidToken,
			"Unknown refresh token", "The refresh token is not recognized. Please login again", nil)
		return
	}

	var role string
	if err := config.DB.QueryRow(`SELECT role FROM usuarios WHERE id = $1 AND is_active = TRUE`, claims.UserID).Scan(&role); err != nil {
		security.SendUnauthorizedError(c, "Account is not active")
		return
	}

	accessToken, err := security.SignAccessToken(cfg.JWTSecret, claims.UserID, role, cfg.AccessTokenTTL)
	if err != nil {
		security.SendError(c, http.StatusInternalServerError, security.CodeAuthVerificationError,
			"Token generation failed", "Failed to generate access token", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access": accessToken})
}

type VerifyPasswordInput struct {
	Password string `json:"password" binding:"required"`
}

// VerifyPassword re-checks the caller's password before sensitive
// actions.
func VerifyPassword(c *gin.Context) {
	var input VerifyPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		security.SendValidationError(c, "Invalid input data", err.Error())
		return
	}

	var hash string
	err := config.DB.QueryRow(`SELECT password_hash FROM usuarios WHERE id = $1`, currentUserID(c)).Scan(&hash)
	if err != nil {
		security.SendDatabaseError(c, "Failed to look up user")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(input.Password)) != nil {
		security.SendUnauthorizedError(c, "Password does not match")
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}
