package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/patientfunnel/server/config"
	"github.com/patientfunnel/server/security"
)

type AIMetrics struct {
	QualityIndex      float64  `json:"qualityIndex"`
	SatisfactionScore float64  `json:"satisfactionScore"`
	KeyTopics         []string `json:"keyTopics"`
}

type AIInsights struct {
	Procedimentos      []string `json:"procedimentos"`
	Expectativas       []string `json:"expectativas"`
	Problemas          []string `json:"problemas"`
	Experiencias       []string `json:"experiencias"`
	Interesse          []string `json:"interesse"`
	Motivacoes         []string `json:"motivacoes"`
	AspectosEmocionais []string `json:"aspectos_emocionais"`
	Preocupacoes       []string `json:"preocupacoes"`
	Produtos           []string `json:"produtos"`
}

type AIResultsInput struct {
	ConsultationID int64      `json:"consultationId" binding:"required"`
	Summary        string     `json:"summary"`
	Metrics        AIMetrics  `json:"metrics"`
	Insights       AIInsights `json:"insights"`
}

// ProcessAIResults ingests the asynchronous AI analysis for a recorded
// consultation. All derived fields are overwritten unconditionally
// (last-write-wins) and ai_processed flips to true in the same statement.
// Signature verification happens in middleware before this runs.
func ProcessAIResults(c *gin.Context) {
	var input AIResultsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		security.SendValidationError(c, "Invalid webhook payload", err.Error())
		return
	}

	result, err := config.DB.Exec(`
		UPDATE consultas SET
			summary = $1,
			quality_index = $2,
			satisfaction_score = $3,
			key_topics = $4,
			procedimentos_desejados = $5,
			expectativas_paciente = $6,
			problemas_relatados = $7,
			experiencias_anteriores = $8,
			interesse_tratamentos = $9,
			motivacoes = $10,
			aspectos_emocionais = $11,
			preocupacoes_saude = $12,
			produtos_interesse = $13,
			ai_processed = TRUE
		WHERE id = $14
	`, input.Summary, input.Metrics.QualityIndex, input.Metrics.SatisfactionScore,
		jsonList(input.Metrics.KeyTopics),
		jsonList(input.Insights.Procedimentos),
		jsonList(input.Insights.Expectativas),
		jsonList(input.Insights.Problemas),
		jsonList(input.Insights.Experiencias),
		jsonList(input.Insights.Interesse),
		jsonList(input.Insights.Motivacoes),
		jsonList(input.Insights.AspectosEmocionais),
		jsonList(input.Insights.Preocupacoes),
		jsonList(input.Insights.Produtos),
		input.ConsultationID)
	if err != nil {
		security.SendDatabaseError(c, "Failed to store AI results")
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		security.SendNotFoundError(c, "consultation")
		return
	}

	log.Info("AI results ingested", zap.Int64("consultation_id", input.ConsultationID))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type ConsultationFilesInput struct {
	ConsultationID int64   `json:"consultationId" binding:"required"`
	Transcription  *string `json:"transcription"`
	Summary        *string `json:"summary"`
}

// SaveConsultationFiles materializes transcription/summary text blobs for
// a consultation and records their paths in one UPDATE.
func SaveConsultationFiles(c *gin.Context) {
	var input ConsultationFilesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		security.SendValidationError(c, "Invalid payload", err.Error())
		return
	}

	var exists bool
	if err := config.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM consultas WHERE id = $1)`, input.ConsultationID).Scan(&exists); err != nil {
		security.SendDatabaseError(c, "Failed to look up consultation")
		return
	}
	if !exists {
		security.SendNotFoundError(c, "consultation")
		return
	}

	var transcriptionPath, summaryPath *string

	if input.Transcription != nil {
		path, err := fileStore.SaveTranscription(input.ConsultationID, *input.Transcription)
		if err != nil {
			log.Error("failed to write transcription file", zap.Int64("consultation_id", input.ConsultationID), zap.Error(err))
			security.SendError(c, http.StatusInternalServerError, security.CodeDatabaseError,
				"Storage error", "Failed to store transcription file", nil)
			return
		}
		transcriptionPath = &path
	}

	if input.Summary != nil {
		path, err := fileStore.SaveSummary(input.ConsultationID, *input.Summary)
		if err != nil {
			log.Error("failed to write summary file", zap.Int64("consultation_id", input.ConsultationID), zap.Error(err))
			security.SendError(c, http.StatusInternalServerError, security.CodeDatabaseError,
				"Storage error", "Failed to store summary file", nil)
			return
		}
		summaryPath = &path
	}

	_, err := config.DB.Exec(`
		UPDATE consultas SET
			transcription_file = COALESCE($1, transcription_file),
			summary_file = COALESCE($2, summary_file)
		WHERE id = $3
	`, transcriptionPath, summaryPath, input.ConsultationID)
	if err != nil {
		security.SendDatabaseError(c, "Failed to update consultation files")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func jsonList(values []string) []byte {
	if values == nil {
		values = []string{}
	}
	b, _ := json.Marshal(values)
	return b
}
