package security

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Database is the subset of *sql.DB the middleware needs, kept as an
// interface for dependency injection in tests.
type Database interface {
	QueryRow(query string, args ...interface{}) *sql.Row
	Query(query string, args ...interface{}) (*sql.Rows, error)
}

// AuthMiddleware verifies the bearer token and loads the caller's role.
func AuthMiddleware(db Database, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.GetHeader("Authorization")
		if tokenStr == "" {
			SendError(c, http.StatusUnauthorized, CodeMissingToken, "Authentication required",
				"Please provide a valid authorization token in the request header", nil)
			c.Abort()
			return
		}

		tokenStr = strings.TrimPrefix(tokenStr, "Bearer ")

		claims, err := VerifyToken(secret, tokenStr, "access")
		if err != nil {
			SendError(c, http.StatusUnauthorized, CodeInvalidToken, "Invalid or expired token",
				"The provided token is invalid, expired, or malformed. Please login again to get a new token", nil)
			c.Abort()
			return
		}

		var role string
		var active bool
		err = db.QueryRow(`SELECT role, is_active FROM usuarios WHERE id = $1`, claims.UserID).Scan(&role, &active)
		if err == sql.ErrNoRows || (err == nil && !active) {
			SendError(c, http.StatusUnauthorized, CodeUserNotFoundOrInactive, "User account not found or inactive",
				"Your account is not found or has been deactivated. Please contact support", nil)
			c.Abort()
			return
		}
		if err != nil {
			SendError(c, http.StatusInternalServerError, CodeAuthVerificationError, "Authentication verification failed",
				"Unable to verify user status. Please try again later", nil)
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", role)
		c.Next()
	}
}

// RequireRole gates a route to the given roles. Super admins pass every
// check.
func RequireRole(expectedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			SendError(c, http.StatusUnauthorized, CodeUserNotAuthenticated, "User not authenticated",
				"User authentication is required to access this resource", nil)
			c.Abort()
			return
		}

		if role == "SA" {
			c.Next()
			return
		}
		for _, expected := range expectedRoles {
			if role == expected {
				c.Next()
				return
			}
		}

		SendError(c, http.StatusForbidden, CodeInsufficientPermissions, "Insufficient permissions",
			"Access denied. This resource requires one of the roles: "+strings.Join(expectedRoles, ", "),
			gin.H{
				"required_roles": expectedRoles,
				"user_role":      role,
			})
		c.Abort()
	}
}

// RequestIDMiddleware tags every request with an id for log correlation.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// CORSMiddleware mirrors the request origin and answers preflights.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Accept, Origin, Cache-Control, X-Webhook-Signature")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
