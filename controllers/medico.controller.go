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

func GetMedicos(c *gin.Context) {
	query := `
		SELECT m.usuario_id, m.especialidade, m.clinica_id, m.two_factor_enabled,
		       u.email, u.first_name, u.last_name
		FROM medicos m
		JOIN usuarios u ON u.id = m.usuario_id
	`
	args := []interface{}{}

	// Non-super-admins only see their own clinic's doctors.
	if c.GetString("role") != models.RoleSuperAdmin {
		query += ` WHERE m.clinica_id = (SELECT clinica_id FROM medicos WHERE usuario_id = $1)`
		args = append(args, currentUserID(c))
	}
	query += ` ORDER BY u.first_name, u.last_name`

	rows, err := config.DB.Query(query, args...)
	if err != nil {
		security.SendDatabaseError(c, "Failed to fetch doctors")
		return
	}
	defer rows.Close()

	var medicos []models.Medico
	for rows.Next() {
		var m models.Medico
		if err := rows.Scan(&m.UsuarioID, &m.Especialidade, &m.ClinicaID, &m.TwoFactorEnabled,
			&m.Email, &m.FirstName, &m.LastName); err != nil {
			security.SendDatabaseError(c, "Failed to read doctors")
			return
		}
		medicos = append(medicos, m)
	}

	c.JSON(http.StatusOK, medicos)
}

func GetMedico(c *gin.Context) {
	medicoID, ok := parseID(c, "id")
	if !ok {
		security.SendValidationError(c, "Invalid doctor id", nil)
		return
	}

	var m models.Medico
	err := config.DB.QueryRow(`
		SELECT m.usuario_id, m.especialidade, m.clinica_id, m.two_factor_enabled,
		       u.email, u.first_name, u.last_name
		FROM medicos m
		JOIN usuarios u ON u.id = m.usuario_id
		WHERE m.usuario_id = $1
	`, medicoID).Scan(&m.UsuarioID, &m.Especialidade, &m.ClinicaID, &m.TwoFactorEnabled,
		&m.Email, &m.FirstName, &m.LastName)
	if err != nil {
		security.SendNotFoundError(c, "doctor")
		return
	}

	c.JSON(http.StatusOK, m)
}

type CreateMedicoInput struct {
	Email         string  `json:"email" binding:"required,email"`
	Password      string  `json:"password" binding:"required,min=8"`
	FirstName     string  `json:"first_name" binding:"required,min=2,max=30"`
	LastName      string  `json:"last_name" binding:"omitempty,max=30"`
	Especialidade *string `json:"especialidade" binding:"omitempty,max=100"`
	ClinicaID     *int64  `json:"clinica_id"`
}

// CreateMedico creates a doctor account with its medico profile in one
// transaction. The role is always ME.
func CreateMedico(c *gin.Context) {
	var input CreateMedicoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		security.SendValidationError(c, "Invalid input data", err.Error())
		return
	}

	userID, ok := insertUsuarioAccount(c, CreateUsuarioInput{
		Email:         input.Email,
		Password:      input.Password,
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Role:          models.RoleMedico,
		Especialidade: input.Especialidade,
		ClinicaID:     input.ClinicaID,
	})
	if !ok {
		return
	}

	c.JSON(http.StatusCreated, gin.H{"usuario_id": userID, "message": "Doctor created successfully"})
}

// DeleteMedico removes a doctor account and its profile.
func DeleteMedico(c *gin.Context) {
	medicoID, ok := parseID(c, "id")
	if !ok {
		security.SendValidationError(c, "Invalid doctor id", nil)
		return
	}

	var exists bool
	if err := config.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM medicos WHERE usuario_id = $1)`, medicoID).Scan(&exists); err != nil {
		security.SendDatabaseError(c, "Failed to look up doctor")
		return
	}
	if !exists {
		security.SendNotFoundError(c, "doctor")
		return
	}

	if !removeUsuarioAccount(c, medicoID, "doctor") {
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Doctor deleted successfully"})
}

type UpdateMedicoInput struct {
	Especialidade *string `json:"especialidade" binding:"omitempty,max=100"`
	ClinicaID     *int64  `json:"clinica_id"`
}

func UpdateMedico(c *gin.Context) {
	medicoID, ok := parseID(c, "id")
	if !ok {
		security.SendValidationError(c, "Invalid doctor id", nil)
		return
	}

	var input UpdateMedicoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		security.SendValidationError(c, "Invalid input data", err.Error())
		return
	}

	query := "UPDATE medicos SET "
	args := []interface{}{}
	argIndex := 1

	if input.Especialidade != nil {
		query += fmt.Sprintf("especialidade = $%d, ", argIndex)
		args = append(args, *input.Especialidade)
		argIndex++
	}
	if input.ClinicaID != nil {
		var clinicaExists bool
		if err := config.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM clinicas WHERE id = $1)`, *input.ClinicaID).Scan(&clinicaExists); err != nil || !clinicaExists {
			security.SendNotFoundError(c, "clinic")
			return
		}
		query += fmt.Sprintf("clinica_id = $%d, ", argIndex)
		args = append(args, *input.ClinicaID)
		argIndex++
	}

	if len(args) == 0 {
		security.SendValidationError(c, "No fields to update", nil)
		return
	}

	query = query[:len(query)-2] + " WHERE usuario_id = $" + strconv.Itoa(argIndex)
	args = append(args, medicoID)

	result, err := config.DB.Exec(query, args...)
	if err != nil {
		security.SendDatabaseError(c, "Failed to update doctor")
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		security.SendNotFoundError(c, "doctor")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Doctor updated successfully"})
}

// GetMedicosByClinica lists the doctors assigned to one clinic.
func GetMedicosByClinica(c *gin.Context) {
	clinicaID, ok := parseID(c, "id")
	if !ok {
		security.SendValidationError(c, "Invalid clinic id", nil)
		return
	}

	rows, err := config.DB.Query(`
		SELECT m.usuario_id, m.especialidade, m.clinica_id, m.two_factor_enabled,
		       u.email, u.first_name, u.last_name
		FROM medicos m
		JOIN usuarios u ON u.id = m.usuario_id
		WHERE m.clinica_id = $1
		ORDER BY u.first_name, u.last_name
	`, clinicaID)
	if err != nil {
		security.SendDatabaseError(c, "Failed to fetch doctors")
		return
	}
	defer rows.Close()

	var medicos []models.Medico
	for rows.Next() {
		var m models.Medico
		if err := rows.Scan(&m.UsuarioID, &m.Especialidade, &m.ClinicaID, &m.TwoFactorEnabled,
			&m.Email, &m.FirstName, &m.LastName); err != nil {
			security.SendDatabaseError(c, "Failed to read doctors")
			return
		}
		medicos = append(medicos, m)
	}

	c.JSON(http.StatusOK, medicos)
}

type MedicoServicoInput struct {
	ServicoID int64 `json:"servico_id" binding:"required"`
}

// AttachServico links a service to a doctor.
func AttachServico(c *gin.Context) {
	medicoID, ok := parseID(c, "id")
	if !ok {
		security.SendValidationError(c, "Invalid doctor id", nil)
		return
	}

	var input MedicoServicoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		security.SendValidationError(c, "Invalid input data", err.Error())
		return
	}

	var medicoExists bool
	if err := config.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM medicos WHERE usuario_id = $1)`, medicoID).Scan(&medicoExists); err != nil || !medicoExists {
		security.SendNotFoundError(c, "doctor")
		return
	}

	var servicoExists bool
	if err := config.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM servicos WHERE id = $1)`, input.ServicoID).Scan(&servicoExists); err != nil || !servicoExists {
		security.SendNotFoundError(c, "service")
		return
	}

	_, err := config.DB.Exec(`
		INSERT INTO medico_servicos (medico_id, servico_id)
		VALUES ($1, $2) ON CONFLICT DO NOTHING
	`, medicoID, input.ServicoID)
	if err != nil {
		security.SendDatabaseError(c, "Failed to link service")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Service linked successfully"})
}

// DetachServico unlinks a service from a doctor.
func DetachServico(c *gin.Context) {
	medicoID, ok := parseID(c, "id")
	if !ok {
		security.SendValidationError(c, "Invalid doctor id", nil)
		return
	}
	servicoID, ok := parseID(c, "servico_id")
	if !ok {
		security.SendValidationError(c, "Invalid service id", nil)
		return
	}

	result, err := config.DB.Exec(`
		DELETE FROM medico_servicos WHERE medico_id = $1 AND servico_id = $2
	`, medicoID, servicoID)
	if err != nil {
		security.SendDatabaseError(c, "Failed to unlink service")
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		security.SendNotFoundError(c, "service link")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service unlinked successfully"})
}

// GetMedicoServicos lists a doctor's active services.
func GetMedicoServicos(c *gin.Context) {
	medicoID, ok := parseID(c, "id")
	if !ok {
		security.SendValidationError(c, "Invalid doctor id", nil)
		return
	}

	rows, err := config.DB.Query(`
		SELECT s.id, s.nome, s.descricao, s.ativo
		FROM servicos s
		JOIN medico_servicos ms ON ms.servico_id = s.id
		WHERE ms.medico_id = $1 AND s.ativo = TRUE
		ORDER BY s.nome
	`, medicoID)
	if err != nil {
		security.SendDatabaseError(c, "Failed to fetch doctor services")
		return
	}
	defer rows.Close()

	var servicos []models.Servico
	for rows.Next() {
		var s models.Servico
		if err := rows.Scan(&s.ID, &s.Nome, &s.Descricao, &s.Ativo); err != nil {
			security.SendDatabaseError(c, "Failed to read doctor services")
			return
		}
		servicos = append(servicos, s)
	}

	c.JSON(http.StatusOK, servicos)
}
