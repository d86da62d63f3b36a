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

type CreateServicoInput struct {
	Nome      string `json:"nome" binding:"required,min=2,max=255"`
	Descricao string `json:"descricao" binding:"omitempty,max=2000"`
}

func CreateServico(c *gin.Context) {
	var input CreateServicoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		security.SendValidationError(c, "Invalid input data", err.Error())
		return
	}

	var servicoID int64
	err := config.DB.QueryRow(`
		INSERT INTO servicos (nome, descricao) VALUES ($1, $2) RETURNING id
	`, input.Nome, input.Descricao).Scan(&servicoID)
	if err != nil {
		security.SendDatabaseError(c, "Failed to create service")
		return
	}

	invalidateCache(c, "/api/servicos")
	c.JSON(http.StatusCreated, gin.H{"id": servicoID, "message": "Service created successfully"})
}

func GetServicos(c *gin.Context) {
	rows, err := config.DB.Query(`
		SELECT id, nome, descricao, ativo FROM servicos ORDER BY nome
	`)
	if err != nil {
		security.SendDatabaseError(c, "Failed to fetch services")
		return
	}
	defer rows.Close()

	var servicos []models.Servico
	for rows.Next() {
		var s models.Servico
		if err := rows.Scan(&s.ID, &s.Nome, &s.Descricao, &s.Ativo); err != nil {
			security.SendDatabaseError(c, "Failed to read services")
			return
		}
		servicos = append(servicos, s)
	}

	c.JSON(http.StatusOK, servicos)
}

func GetServico(c *gin.Context) {
	servicoID, ok := parseID(c, "id")
	if !ok {
		security.SendValidationError(c, "Invalid service id", nil)
		return
	}

	var s models.Servico
	err := config.DB.QueryRow(`
		SELECT id, nome, descricao, ativo FROM servicos WHERE id = $1
	`, servicoID).Scan(&s.ID, &s.Nome, &s.Descricao, &s.Ativo)
	if err != nil {
		security.SendNotFoundError(c, "service")
		return
	}

	c.JSON(http.StatusOK, s)
}

type UpdateServicoInput struct {
	Nome      *string `json:"nome" binding:"omitempty,min=2,max=255"`
	Descricao *string `json:"descricao" binding:"omitempty,max=2000"`
	Ativo     *bool   `json:"ativo"`
}

func UpdateServico(c *gin.Context) {
	servicoID, ok := parseID(c, "id")
	if !ok {
		security.SendValidationError(c, "Invalid service id", nil)
		return
	}

	var input UpdateServicoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		security.SendValidationError(c, "Invalid input data", err.Error())
		return
	}

	query := "UPDATE servicos SET "
	args := []interface{}{}
	argIndex := 1

	if input.Nome != nil {
		query += fmt.Sprintf("nome = $%d, ", argIndex)
		args = append(args, *input.Nome)
		argIndex++
	}
	if input.Descricao != nil {
		query += fmt.Sprintf("descricao = $%d, ", argIndex)
		args = append(args, *input.Descricao)
		argIndex++
	}
	if input.Ativo != nil {
		query += fmt.Sprintf("ativo = $%d, ", argIndex)
		args = append(args, *input.Ativo)
		argIndex++
	}

	if len(args) == 0 {
		security.SendValidationError(c, "No fields to update", nil)
		return
	}

	query = query[:len(query)-2] + " WHERE id = $" + strconv.Itoa(argIndex)
	args = append(args, servicoID)

	result, err := config.DB.Exec(query, args...)
	if err != nil {
		security.SendDatabaseError(c, "Failed to update service")
		return
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		security.SendNotFoundError(c, "service")
		return
	}

	invalidateCache(c, "/api/servicos")
	c.JSON(http.StatusOK, gin.H{"message": "Service updated successfully"})
}

// DeleteServico removes a service and its doctor links atomically.
func DeleteServico(c *gin.Context) {
	servicoID, ok := parseID(c, "id")
	if !ok {
		security.SendValidationError(c, "Invalid service id", nil)
		return
	}

	tx, err := config.DB.Begin()
	if err != nil {
		security.SendDatabaseError(c, "Failed to start transaction")
		return
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM medico_servicos WHERE servico_id = $1`, servicoID); err != nil {
		security.SendDatabaseError(c, "Failed to remove service links")
		return
	}

	result, err := tx.Exec(`DELETE FROM servicos WHERE id = $1`, servicoID)
	if err != nil {
		security.SendDatabaseError(c, "Failed to delete service")
		return
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		security.SendNotFoundError(c, "service")
		return
	}

	if err := tx.Commit(); err != nil {
		security.SendDatabaseError(c, "Failed to commit transaction")
		return
	}

	invalidateCache(c, "/api/servicos")
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
