package controllers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/patientfunnel/server/config"
	"github.com/patientfunnel/server/models"
	"github.com/patientfunnel/server/security"
)

type GravarConsultaInput struct {
	MedicoID   int64      `json:"medico_id" binding:"required"`
	PacienteID int64      `json:"paciente_id" binding:"required"`
	ServicoID  int64      `json:"servico_id" binding:"required"`
	Data       *time.Time `json:"data"`
	Duracao    *int       `json:"duracao" binding:"omitempty,min=0"`
	Valor      *float64   `json:"valor" binding:"omitempty,min=0"`
	Satisfacao *int       `json:"satisfacao" binding:"omitempty,min=1,max=5"`
	Comentario *string    `json:"comentario" binding:"omitempty,max=5000"`
}

// GravarConsulta records a consultation. All three referenced entities
// must exist; otherwise nothing is created and the missing one is named.
// Re-posting the same booking creates a second row.
func GravarConsulta(c *gin.Context) {
	var input GravarConsultaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		security.SendValidationError(c, "Invalid input data", err.Error())
		return
	}

	var doctorName, doctorSpecialty string
	var clinicaID *int64
	err := config.DB.QueryRow(`
		SELECT TRIM(u.first_name || ' ' || u.last_name), m.especialidade, m.clinica_id
		FROM medicos m
		JOIN usuarios u ON u.id = m.usuario_id
		WHERE m.usuario_id = $1
	`, input.MedicoID).Scan(&doctorName, &doctorSpecialty, &clinicaID)
	if err == sql.ErrNoRows {
		security.SendNotFoundError(c, "doctor")
		return
	}
	if err != nil {
		security.SendDatabaseError(c, "Failed to look up doctor")
		return
	}

	var pacienteExists bool
	if err := config.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM pacientes WHERE id = $1)`, input.PacienteID).Scan(&pacienteExists); err != nil {
		security.SendDatabaseError(c, "Failed to look up patient")
		return
	}
	if !pacienteExists {
		security.SendNotFoundError(c, "patient")
		return
	}

	var servicoExists bool
	if err := config.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM servicos WHERE id = $1)`, input.ServicoID).Scan(&servicoExists); err != nil {
		security.SendDatabaseError(c, "Failed to look up service")
		return
	}
	if !servicoExists {
		security.SendNotFoundError(c, "service")
		return
	}

	data := time.Now()
	if input.Data != nil {
		data = *input.Data
	}
	duracao := 0
	if input.Duracao != nil {
		duracao = *input.Duracao
	}
	valor := 0.0
	if input.Valor != nil {
		valor = *input.Valor
	}
	satisfacao := 0
	if input.Satisfacao != nil {
		satisfacao = *input.Satisfacao
	}
	comentario := ""
	if input.Comentario != nil {
		comentario = *input.Comentario
	}

	var consultaID int64
	err = config.DB.QueryRow(`
		INSERT INTO consultas (medico_id, paciente_id, servico_id, data, duracao_minutos, valor, satisfacao, comentario, enviado, ai_processed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, FALSE)
		RETURNING id
	`, input.MedicoID, input.PacienteID, input.ServicoID, data, duracao, valor, satisfacao, comentario).Scan(&consultaID)
	if err != nil {
		security.SendDatabaseError(c, "Failed to record consultation")
		return
	}

	clinicPayload := gin.H{}
	if clinicaID != nil {
		var clinicName string
		if err := config.DB.QueryRow(`SELECT nome FROM clinicas WHERE id = $1`, *clinicaID).Scan(&clinicName); err == nil {
			clinicPayload = gin.H{"id": *clinicaID, "name": clinicName}
		}
	}

	log.Info("consultation recorded",
		zap.Int64("consultation_id", consultaID),
		zap.Int64("medico_id", input.MedicoID),
		zap.Int64("paciente_id", input.PacienteID))

	c.JSON(http.StatusCreated, gin.H{
		"message":         "Consultation recorded successfully",
		"consultation_id": consultaID,
		"doctor": gin.H{
			"id":        input.MedicoID,
			"name":      doctorName,
			"specialty": doctorSpecialty,
		},
		"clinic": clinicPayload,
	})
}

const consultaColumns = `
	id, medico_id, paciente_id, servico_id, data, duracao_minutos, satisfacao,
	comentario, enviado, incidente, valor, summary, satisfaction_score,
	quality_index, key_topics, procedimentos_desejados, expectativas_paciente,
	problemas_relatados, experiencias_anteriores, interesse_tratamentos,
	motivacoes, aspectos_emocionais, preocupacoes_saude, produtos_interesse,
	ai_processed, transcription_file, summary_file
`

func scanConsulta(scanner interface {
	Scan(dest ...interface{}) error
}) (models.Consulta, error) {
	var co models.Consulta
	err := scanner.Scan(
		&co.ID, &co.MedicoID, &co.PacienteID, &co.ServicoID, &co.Data,
		&co.DuracaoMinutos, &co.Satisfacao, &co.Comentario, &co.Enviado,
		&co.Incidente, &co.Valor, &co.Summary, &co.SatisfactionScore,
		&co.QualityIndex, &co.KeyTopics, &co.ProcedimentosDesejados,
		&co.ExpectativasPaciente, &co.ProblemasRelatados,
		&co.ExperienciasAnteriores, &co.InteresseTratamentos, &co.Motivacoes,
		&co.AspectosEmocionais, &co.PreocupacoesSaude, &co.ProdutosInteresse,
		&co.AIProcessed, &co.TranscriptionFile, &co.SummaryFile,
	)
	return co, err
}

func GetConsultas(c *gin.Context) {
	query := `SELECT ` + consultaColumns + ` FROM consultas`
	args := []interface{}{}

	if c.GetString("role") != models.RoleSuperAdmin {
		query += `
			WHERE paciente_id IN (
				SELECT p.id FROM pacientes p
				WHERE p.clinica_id = (SELECT clinica_id FROM medicos WHERE usuario_id = $1)
			)`
		args = append(args, currentUserID(c))
	}
	query += ` ORDER BY data DESC`

	rows, err := config.DB.Query(query, args...)
	if err != nil {
		security.SendDatabaseError(c, "Failed to fetch consultations")
		return
	}
	defer rows.Close()

	var consultas []models.Consulta
	for rows.Next() {
		co, err := scanConsulta(rows)
		if err != nil {
			security.SendDatabaseError(c, "Failed to read consultations")
			return
		}
		consultas = append(consultas, co)
	}

	c.JSON(http.StatusOK, consultas)
}

func GetConsulta(c *gin.Context) {
	consultaID, ok := parseID(c, "id")
	if !ok {
		security.SendValidationError(c, "Invalid consultation id", nil)
		return
	}

	row := config.DB.QueryRow(`SELECT `+consultaColumns+` FROM consultas WHERE id = $1`, consultaID)
	co, err := scanConsulta(row)
	if err != nil {
		security.SendNotFoundError(c, "consultation")
		return
	}

	c.JSON(http.StatusOK, co)
}

func DeleteConsulta(c *gin.Context) {
	consultaID, ok := parseID(c, "id")
	if !ok {
		security.SendValidationError(c, "Invalid consultation id", nil)
		return
	}

	result, err := config.DB.Exec(`DELETE FROM consultas WHERE id = $1`, consultaID)
	if err != nil {
		security.SendDatabaseError(c, "Failed to delete consultation")
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		security.SendNotFoundError(c, "consultation")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Consultation deleted successfully"})
}

// GetConsultasByClinica lists one clinic's consultations.
func GetConsultasByClinica(c *gin.Context) {
	clinicaID, ok := parseID(c, "id")
	if !ok {
		security.SendValidationError(c, "Invalid clinic id", nil)
		return
	}

	rows, err := config.DB.Query(`
		SELECT `+consultaColumns+`
		FROM consultas
		WHERE paciente_id IN (SELECT id FROM pacientes WHERE clinica_id = $1)
		ORDER BY data DESC
	`, clinicaID)
	if err != nil {
		security.SendDatabaseError(c, "Failed to fetch consultations")
		return
	}
	defer rows.Close()

	var consultas []models.Consulta
	for rows.Next() {
		co, err := scanConsulta(rows)
		if err != nil {
			security.SendDatabaseError(c, "Failed to read consultations")
			return
		}
		consultas = append(consultas, co)
	}

	c.JSON(http.StatusOK, consultas)
}
