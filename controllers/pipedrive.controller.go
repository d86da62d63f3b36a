package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/patientfunnel/server/config"
	"github.com/patientfunnel/server/crm"
	"github.com/patientfunnel/server/models"
	"github.com/patientfunnel/server/security"
)

// SyncPipedrivePatients reconciles the caller's clinic against the CRM's
// persons listing and returns the local patients afterwards. Without a
// configured token the local patients come back untouched and no outbound
// call is made.
func SyncPipedrivePatients(c *gin.Context) {
	var clinicaID int64
	err := config.DB.QueryRow(`
		SELECT clinica_id FROM medicos WHERE usuario_id = $1 AND clinica_id IS NOT NULL
	`, currentUserID(c)).Scan(&clinicaID)
	if err != nil {
		security.SendNotFoundError(c, "clinic")
		return
	}

	var token *string
	if err := config.DB.QueryRow(`SELECT pipedrive_api_token FROM clinicas WHERE id = $1`, clinicaID).Scan(&token); err != nil {
		security.SendDatabaseError(c, "Failed to look up clinic")
		return
	}

	synced := false
	if token != nil && *token != "" {
		records, syncErr := pipedrive.FetchRemotePatients(*token)
		if syncErr != nil {
			log.Warn("pipedrive sync failed",
				zap.Int64("clinica_id", clinicaID),
				zap.String("category", syncErr.Category),
				zap.String("message", syncErr.Message))
			security.SendError(c, upstreamStatus(syncErr.Category), security.CodeUpstreamError,
				"CRM synchronization failed", syncErr.Message, gin.H{"category": syncErr.Category})
			return
		}

		store := &crm.SQLPatientStore{DB: config.DB}
		applied, err := crm.Reconcile(store, clinicaID, records)
		if err != nil {
			log.Error("pipedrive reconcile failed",
				zap.Int64("clinica_id", clinicaID),
				zap.Int("applied", applied),
				zap.Error(err))
			security.SendDatabaseError(c, "Failed to store synchronized patients")
			return
		}
		synced = true
		log.Info("pipedrive sync complete", zap.Int64("clinica_id", clinicaID), zap.Int("records", applied))
	}

	rows, err := config.DB.Query(`
		SELECT id, pipedrive_id, nome, email, is_novo, idade, genero, ocupacao, localizacao, clinica_id, data_cadastro
		FROM pacientes WHERE clinica_id = $1 ORDER BY nome
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

	c.JSON(http.StatusOK, gin.H{
		"synced":   synced,
		"patients": pacientes,
		"count":    len(pacientes),
	})
}

func upstreamStatus(category string) int {
	switch category {
	case crm.CategoryAuthError:
		return http.StatusUnauthorized
	case crm.CategoryPaymentRequired:
		return http.StatusPaymentRequired
	case crm.CategoryRequestError, crm.CategoryAPIError:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
