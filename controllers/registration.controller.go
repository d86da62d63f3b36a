package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/patientfunnel/server/config"
	"github.com/patientfunnel/server/models"
	"github.com/patientfunnel/server/security"
)

type CreateRegistrationInput struct {
	Name             string `json:"name" binding:"required,min=2,max=255"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone" binding:"omitempty,max=20"`
	Address          string `json:"address" binding:"omitempty,max=2000"`
	OwnerName        string `json:"owner_name" binding:"omitempty,max=255"`
	OwnerDocument    string `json:"owner_document" binding:"omitempty,max=20"`
	BusinessDocument string `json:"business_document" binding:"omitempty,max=20"`
}

// CreateRegistration records a prospective clinic's onboarding request.
// Public endpoint.
func CreateRegistration(c *gin.Context) {
	var input CreateRegistrationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		security.SendValidationError(c, "Invalid input data", err.Error())
		return
	}

	var registrationID int64
	err := config.DB.QueryRow(`
		INSERT INTO clinic_registrations (name, email, phone, address, owner_name, owner_document, business_document)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id
	`, input.Name, input.Email, input.Phone, input.Address,
		input.OwnerName, input.OwnerDocument, input.BusinessDocument).Scan(&registrationID)
	if err != nil {
		security.SendDatabaseError(c, "Failed to create registration")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": registrationID, "status": models.RegistrationPending})
}

func GetRegistrations(c *gin.Context) {
	status := c.Query("status")

	query := `
		SELECT id, name, email, phone, address, owner_name, owner_document, business_document,
		       status, created_at, processed_at, processed_by, notes
		FROM clinic_registrations
	`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := config.DB.Query(query, args...)
	if err != nil {
		security.SendDatabaseError(c, "Failed to fetch registrations")
		return
	}
	defer rows.Close()

	var registrations []models.ClinicRegistration
	for rows.Next() {
		var r models.ClinicRegistration
		if err := rows.Scan(&r.ID, &r.Name, &r.Email, &r.Phone, &r.Address,
			&r.OwnerName, &r.OwnerDocument, &r.BusinessDocument, &r.Status,
			&r.CreatedAt, &r.ProcessedAt, &r.ProcessedBy, &r.Notes); err != nil {
			security.SendDatabaseError(c, "Failed to read registrations")
			return
		}
		registrations = append(registrations, r)
	}

	c.JSON(http.StatusOK, registrations)
}

type ApproveRegistrationInput struct {
	AdminPassword string `json:"admin_password" binding:"required,min=8"`
	Notes         string `json:"notes" binding:"omitempty,max=2000"`
}

// ApproveRegistration promotes a pending registration into a clinic with
// its admin account. Clinic, user, and doctor profile rows are created in
// one transaction so a failure leaves nothing behind.
func ApproveRegistration(c *gin.Context) {
	registrationID, ok := parseID(c, "id")
	if !ok {
		security.SendValidationError(c, "Invalid registration id", nil)
		return
	}

	var input ApproveRegistrationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		security.SendValidationError(c, "Invalid input data", err.Error())
		return
	}

	var reg models.ClinicRegistration
	err := config.DB.QueryRow(`
		SELECT id, name, email, status FROM clinic_registrations WHERE id = $1
	`, registrationID).Scan(&reg.ID, &reg.Name, &reg.Email, &reg.Status)
	if err != nil {
		security.SendNotFoundError(c, "registration")
		return
	}
	if reg.Status != models.RegistrationPending {
		security.SendValidationError(c, "Registration has already been processed", nil)
		return
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(input.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		security.SendDatabaseError(c, "Failed to hash password")
		return
	}

	tx, err := config.DB.Begin()
	if err != nil {
		security.SendDatabaseError(c, "Failed to start transaction")
		return
	}
	defer tx.Rollback()

	var clinicaID int64
	if err := tx.QueryRow(`INSERT INTO clinicas (nome) VALUES ($1) RETURNING id`, reg.Name).Scan(&clinicaID); err != nil {
		security.SendDatabaseError(c, "Failed to create clinic")
		return
	}

	var adminID int64
	err = tx.QueryRow(`
		INSERT INTO usuarios (email, password_hash, first_name, role)
		VALUES ($1, $2, $3, $4) RETURNING id
	`, reg.Email, string(passHash), reg.Name, models.RoleClinicAdmin).Scan(&adminID)
	if err != nil {
		security.SendDatabaseError(c, "Failed to create admin account")
		return
	}

	if _, err := tx.Exec(`
		INSERT INTO medicos (usuario_id, especialidade, clinica_id)
		VALUES ($1, '', $2)
	`, adminID, clinicaID); err != nil {
		security.SendDatabaseError(c, "Failed to create admin profile")
		return
	}

	if _, err := tx.Exec(`
		UPDATE clinic_registrations
		SET status = $1, processed_at = $2, processed_by = $3, notes = $4
		WHERE id = $5
	`, models.RegistrationApproved, time.Now(), currentUserID(c), input.Notes, registrationID); err != nil {
		security.SendDatabaseError(c, "Failed to update registration")
		return
	}

	if err := tx.Commit(); err != nil {
		security.SendDatabaseError(c, "Failed to commit transaction")
		return
	}

	log.Info("registration approved",
		zap.Int64("registration_id", registrationID),
		zap.Int64("clinica_id", clinicaID),
		zap.Int64("admin_id", adminID))

	c.JSON(http.StatusOK, gin.H{
		"message":    "Registration approved",
		"clinica_id": clinicaID,
		"admin_id":   adminID,
	})
}

type RejectRegistrationInput struct {
	Notes string `json:"notes" binding:"omitempty,max=2000"`
}

func RejectRegistration(c *gin.Context) {
	registrationID, ok := parseID(c, "id")
	if !ok {
		security.SendValidationError(c, "Invalid registration id", nil)
		return
	}

	var input RejectRegistrationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		security.SendValidationError(c, "Invalid input data", err.Error())
		return
	}

	result, err := config.DB.Exec(`
		UPDATE clinic_registrations
		SET status = $1, processed_at = $2, processed_by = $3, notes = $4
		WHERE id = $5 AND status = $6
	`, models.RegistrationRejected, time.Now(), currentUserID(c), input.Notes,
		registrationID, models.RegistrationPending)
	if err != nil {
		security.SendDatabaseError(c, "Failed to update registration")
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		security.SendNotFoundError(c, "pending registration")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Registration rejected"})
}
