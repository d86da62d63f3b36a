package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/patientfunnel/server/config"
	"github.com/patientfunnel/server/models"
	"github.com/patientfunnel/server/security"
)

type CreateClinicaInput struct {
	Nome              string  `json:"nome" binding:"required,min=2,max=100"`
	LogoURL           *string `json:"logo_url" binding:"omitempty,max=255"`
	PipedriveAPIToken *string `json:"pipedrive_api_token" binding:"omitempty,max=255"`
}

func CreateClinica(c *gin.Context) {
	var input CreateClinicaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		security.SendValidationError(c, "Invalid input data", err.Error())
		return
	}

	var clinicaID int64
	err := config.DB.QueryRow(`
		INSERT INTO clinicas (nome, logo_url, pipedrive_api_token)
		VALUES ($1, $2, $3) RETURNING id
	`, input.Nome, input.LogoURL, input.PipedriveAPIToken).Scan(&clinicaID)
	if err != nil {
		security.SendDatabaseError(c, "Failed to create clinic")
		return
	}

	invalidateCache(c, "/api/clinicas")
	c.JSON(http.StatusCreated, gin.H{"id": clinicaID, "message": "Clinic created successfully"})
}

func GetClinicas(c *gin.Context) {
	rows, err := config.DB.Query(`
		SELECT id, nome, ativa, logo_url, pipedrive_api_token, created_at
		FROM clinicas ORDER BY nome
	`)
	if err != nil {
		security.SendDatabaseError(c, "Failed to fetch clinics")
		return
	}
	defer rows.Close()

	var clinicas []models.Clinica
	for rows.Next() {
		var clinica models.Clinica
		if err := rows.Scan(&clinica.ID, &clinica.Nome, &clinica.Ativa,
			&clinica.LogoURL, &clinica.PipedriveAPIToken, &clinica.CreatedAt); err != nil {
			security.SendDatabaseError(c, "Failed to read clinics")
			return
		}
		clinicas = append(clinicas, clinica)
	}

	c.JSON(http.StatusOK, clinicas)
}

func GetClinica(c *gin.Context) {
	clinicaID, ok := parseID(c, "id")
	if !ok {
		security.SendValidationError(c, "Invalid clinic id", nil)
		return
	}

	var clinica models.Clinica
	err := config.DB.QueryRow(`
		SELECT id, nome, ativa, logo_url, pipedrive_api_token, created_at
		FROM clinicas WHERE id = $1
	`, clinicaID).Scan(&clinica.ID, &clinica.Nome, &clinica.Ativa,
		&clinica.LogoURL, &clinica.PipedriveAPIToken, &clinica.CreatedAt)
	if err != nil {
		security.SendNotFoundError(c, "clinic")
		return
	}

	c.JSON(http.StatusOK, clinica)
}

type UpdateClinicaInput struct {
	Nome              *string `json:"nome" binding:"omitempty,min=2,max=100"`
	Ativa             *bool   `json:"ativa"`
	LogoURL           *string `json:"logo_url" binding:"omitempty,max=255"`
	PipedriveAPIToken *string `json:"pipedrive_api_token" binding:"omitempty,max=255"`
}

func UpdateClinica(c *gin.Context) {
	clinicaID, ok := parseID(c, "id")
	if !ok {
		security.SendValidationError(c, "Invalid clinic id", nil)
		return
	}

	var input UpdateClinicaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		security.SendValidationError(c, "Invalid input data", err.Error())
		return
	}

	// Build dynamic update query
	query := "UPDATE clinicas SET "
	args := []interface{}{}
	argIndex := 1

	if input.Nome != nil {
		query += fmt.Sprintf("nome = $%d, ", argIndex)
		args = append(args, *input.Nome)
		argIndex++
	}
	if input.Ativa != nil {
		query += fmt.Sprintf("ativa = $%d, ", argIndex)
		args = append(args, *input.Ativa)
		argIndex++
	}
	if input.LogoURL != nil {
		query += fmt.Sprintf("logo_url = $%d, ", argIndex)
		args = append(args, *input.LogoURL)
		argIndex++
	}
	if input.PipedriveAPIToken != nil {
		query += fmt.Sprintf("pipedrive_api_token = $%d, ", argIndex)
		args = append(args, *input.PipedriveAPIToken)
		argIndex++
	}

	if len(args) == 0 {
		security.SendValidationError(c, "No fields to update", nil)
		return
	}

	query = query[:len(query)-2] + " WHERE id = $" + strconv.Itoa(argIndex)
	args = append(args, clinicaID)

	result, err := config.DB.Exec(query, args...)
	if err != nil {
		security.SendDatabaseError(c, "Failed to update clinic")
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		security.SendNotFoundError(c, "clinic")
		return
	}

	invalidateCache(c, "/api/clinicas")
	c.JSON(http.StatusOK, gin.H{"message": "Clinic updated successfully"})
}

func DeleteClinica(c *gin.Context) {
	clinicaID, ok := parseID(c, "id")
	if !ok {
		security.SendValidationError(c, "Invalid clinic id", nil)
		return
	}

	result, err := config.DB.Exec(`DELETE FROM clinicas WHERE id = $1`, clinicaID)
	if err != nil {
		security.SendDatabaseError(c, "Failed to delete clinic")
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		security.SendNotFoundError(c, "clinic")
		return
	}

	invalidateCache(c, "/api/clinicas")
	c.JSON(http.StatusOK, gin.H{"message": "Clinic deleted successfully"})
}

// GetClinicaInfo returns the caller's own clinic display fields.
func GetClinicaInfo(c *gin.Context) {
	var nome string
	var logoURL *string
	err := config.DB.QueryRow(`
		SELECT c.nome, c.logo_url
		FROM clinicas c
		JOIN medicos m ON m.clinica_id = c.id
		WHERE m.usuario_id = $1
	`, currentUserID(c)).Scan(&nome, &logoURL)
	if err != nil {
		security.SendNotFoundError(c, "clinic")
		return
	}

	c.JSON(http.StatusOK, gin.H{"nome": nome, "logo": logoURL})
}
