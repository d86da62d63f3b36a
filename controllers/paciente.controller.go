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

type CreatePacienteInput struct {
	Nome        string `json:"nome" binding:"required,min=2,max=255"`
	Email       string `json:"email" binding:"omitempty,email"`
	Idade       int    `json:"idade" binding:"omitempty,min=0,max=130"`
	Genero      string `json:"genero" binding:"omitempty,max=50"`
	Ocupacao    string `json:"ocupacao" binding:"omitempty,max=100"`
	Localizacao string `json:"localizacao" binding:"omitempty,max=255"`
	ClinicaID   int64  `json:"clinica_id" binding:"required"`
}

func CreatePaciente(c *gin.Context) {
	var input CreatePacienteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		security.SendValidationError(c, "Invalid input data", err.Error())
		return
	}

	var clinicaExists bool
	if err := config.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM clinicas WHERE id = $1)`, input.ClinicaID).Scan(&clinicaExists); err != nil || !clinicaExists {
		security.SendNotFoundError(c, "clinic")
		return
	}

	var pacienteID int64
	err := config.DB.QueryRow(`
		INSERT INTO pacientes (nome, email, idade, genero, ocupacao, localizacao, clinica_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id
	`, input.Nome, input.Email, input.Idade, input.Genero, input.Ocupacao, input.Localizacao, input.ClinicaID).Scan(&pacienteID)
	if err != nil {
		security.SendDatabaseError(c, "Failed to create patient")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": pacienteID, "message": "Patient created successfully"})
}

func GetPacientes(c *gin.Context) {
	query := `
		SELECT id, pipedrive_id, nome, email, is_novo, idade, genero, ocupacao, localizacao, clinica_id, data_cadastro
		FROM pacientes
	`
	args := []interface{}{}

	if c.GetString("role") != models.RoleSuperAdmin {
		query += ` WHERE clinica_id = (SELECT clinica_id FROM medicos WHERE usuario_id = $1)`
		args = append(args, currentUserID(c))
	}
	query += ` ORDER BY data_cadastro DESC`

	rows, err := config.DB.Query(query, args...)
	if err != nil {
		security.SendDatabaseError(c, "Failed to fetch patients")
		return
	}
	defer rows.Close()

	var pacientes []models.Paciente
	for rows.Next() {
		var p models.Paciente
		if err := rows.Scan(&p.ID, &p.PipedriveID, &p.Nome, &p.Email, &p.IsNovo,
			&p.Idade, &p.Genero, &p.Ocupacao, &p.Localizacao, &p.ClinicaID, &p.DataCadastro); err != nil {
			security.SendDatabaseError(c, "Failed to read patients")
			return
		}
		pacientes = append(pacientes, p)
	}

	c.JSON(http.StatusOK, pacientes)
}

func GetPaciente(c *gin.Context) {
	pacienteID, ok := parseID(c, "id")
	if !ok {
		security.SendValidationError(c, "Invalid patient id", nil)
		return
	}

	var p models.Paciente
	err := config.DB.QueryRow(`
		SELECT id, pipedrive_id, nome, email, is_novo, idade, genero, ocupacao, localizacao, clinica_id, data_cadastro
		FROM pacientes WHERE id = $1
	`, pacienteID).Scan(&p.ID, &p.PipedriveID, &p.Nome, &p.Email, &p.IsNovo,
		&p.Idade, &p.Genero, &p.Ocupacao, &p.Localizacao, &p.ClinicaID, &p.DataCadastro)
	if err != nil {
		security.SendNotFoundError(c, "patient")
		return
	}

	c.JSON(http.StatusOK, p)
}

type UpdatePacienteInput struct {
	Nome        *string `json:"nome" binding:"omitempty,min=2,max=255"`
	Email       *string `json:"email" binding:"omitempty,email"`
	IsNovo      *bool   `json:"is_novo"`
	Idade       *int    `json:"idade" binding:"omitempty,min=0,max=130"`
	Genero      *string `json:"genero" binding:"omitempty,max=50"`
	Ocupacao    *string `json:"ocupacao" binding:"omitempty,max=100"`
	Localizacao *string `json:"localizacao" binding:"omitempty,max=255"`
}

func UpdatePaciente(c *gin.Context) {
	pacienteID, ok := parseID(c, "id")
	if !ok {
		security.SendValidationError(c, "Invalid patient id", nil)
		return
	}

	var input UpdatePacienteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		security.SendValidationError(c, "Invalid input data", err.Error())
		return
	}

	query := "UPDATE pacientes SET "
	args := []interface{}{}
	argIndex := 1

	addField := func(name string, value interface{}) {
		query += fmt.Sprintf("%s = $%d, ", name, argIndex)
		args = append(args, value)
		argIndex++
	}

	if input.Nome != nil {
		addField("nome", *input.Nome)
	}
	if input.Email != nil {
		addField("email", *input.Email)
	}
	if input.IsNovo != nil {
		addField("is_novo", *input.IsNovo)
	}
	if input.Idade != nil {
		addField("idade", *input.Idade)
	}
	if input.Genero != nil {
		addField("genero", *input.Genero)
	}
	if input.Ocupacao != nil {
		addField("ocupacao", *input.Ocupacao)
	}
	if input.Localizacao != nil {
		addField("localizacao", *input.Localizacao)
	}

	if len(args) == 0 {
		security.SendValidationError(c, "No fields to update", nil)
		return
	}

	query = query[:len(query)-2] + " WHERE id = $" + strconv.Itoa(argIndex)
	args = append(args, pacienteID)

	result, err := config.DB.Exec(query, args...)
	if err != nil {
		security.SendDatabaseError(c, "Failed to update patient")
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		security.SendNotFoundError(c, "patient")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Patient updated successfully"})
}

func DeletePaciente(c *gin.Context) {
	pacienteID, ok := parseID(c, "id")
	if !ok {
		security.SendValidationError(c, "Invalid patient id", nil)
		return
	}

	result, err := config.DB.Exec(`DELETE FROM pacientes WHERE id = $1`, pacienteID)
	if err != nil {
		security.SendDatabaseError(c, "Failed to delete patient")
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		security.SendNotFoundError(c, "patient")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Patient deleted successfully"})
}

// GetPacientesByClinica lists one clinic's patients.
func GetPacientesByClinica(c *gin.Context) {
	clinicaID, ok := parseID(c, "id")
	if !ok {
		security.SendValidationError(c, "Invalid clinic id", nil)
		return
	}

	rows, err := config.DB.Query(`
		SELECT id, pipedrive_id, nome, email, is_novo, idade, genero, ocupacao, localizacao, clinica_id, data_cadastro
		FROM pacientes WHERE clinica_id = $1 ORDER BY data_cadastro DESC
	`, clinicaID)
	if err != nil {
		security.SendDatabaseError(c, "Failed to fetch patients")
		return
	}
	defer rows.Close()

	var pacientes []models.Paciente
	for rows.Next() {
		var p models.Paciente
		if err := rows.Scan(&p.ID, &p.PipedriveID, &p.Nome, &p.Email, &p.IsNovo,
			&p.Idade, &p.Genero, &p.Ocupacao, &p.Localizacao, &p.ClinicaID, &p.DataCadastro); err != nil {
			security.SendDatabaseError(c, "Failed to read patients")
			return
		}
		pacientes = append(pacientes, p)
	}

	c.JSON(http.StatusOK, pacientes)
}
