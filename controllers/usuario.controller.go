package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/patientfunnel/server/config"
	"github.com/patientfunnel/server/models"
	"github.com/patientfunnel/server/security"
)

func GetUsuarios(c *gin.Context) {
	rows, err := config.DB.Query(`
		SELECT id, email, first_name, last_name, role, is_active, date_joined
		FROM usuarios ORDER BY date_joined DESC
	`)
	if err != nil {
		security.SendDatabaseError(c, "Failed to fetch users")
		return
	}
	defer rows.Close()

	var usuarios []models.Usuario
	for rows.Next() {
		var u models.Usuario
		if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName,
			&u.Role, &u.IsActive, &u.DateJoined); err != nil {
			security.SendDatabaseError(c, "Failed to read users")
			return
		}
		usuarios = append(usuarios, u)
	}

	c.JSON(http.StatusOK, usuarios)
}

type CreateUsuarioInput struct {
	Email         string  `json:"email" binding:"required,email"`
	Password      string  `json:"password" binding:"required,min=8"`
	FirstName     string  `json:"first_name" binding:"required,min=2,max=30"`
	LastName      string  `json:"last_name" binding:"omitempty,max=30"`
	Role          string  `json:"role" binding:"required,oneof=SA AC ME"`
	Especialidade *string `json:"especialidade" binding:"omitempty,max=100"`
	ClinicaID     *int64  `json:"clinica_id"`
}

// CreateUsuario creates an account, plus the medico profile when the role
// requires one, in a single transaction.
func CreateUsuario(c *gin.Context) {
	var input CreateUsuarioInput
	if err := c.ShouldBindJSON(&input); err != nil {
		security.SendValidationError(c, "Invalid input data", err.Error())
		return
	}

	userID, ok := insertUsuarioAccount(c, input)
	if !ok {
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": userID, "message": "User created successfully"})
}

// insertUsuarioAccount runs the account transaction and writes the error
// response itself on failure.
func insertUsuarioAccount(c *gin.Context, input CreateUsuarioInput) (int64, bool) {
	var exists bool
	if err := config.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM usuarios WHERE email = $1)`, input.Email).Scan(&exists); err != nil {
		security.SendDatabaseError(c, "Failed to check existing user")
		return 0, false
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
		return 0, false
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		security.SendDatabaseError(c, "Failed to hash password")
		return 0, false
	}

	tx, err := config.DB.Begin()
	if err != nil {
		security.SendDatabaseError(c, "Failed to start transaction")
		return 0, false
	}
	defer tx.Rollback()

	var userID int64
	err = tx.QueryRow(`
		INSERT INTO usuarios (email, password_hash, first_name, last_name, role)
		VALUES ($1, $2, $3, $4, $5) RETURNING id
	`, input.Email, string(passHash), input.FirstName, input.LastName, input.Role).Scan(&userID)
	if err != nil {
		security.SendDatabaseError(c, "Failed to create user")
		return 0, false
	}

	// Doctors and clinic admins carry a medico profile.
	if input.Role == models.RoleMedico || input.Role == models.RoleClinicAdmin {
		especialidade := ""
		if input.Especialidade != nil {
			especialidade = *input.Especialidade
		}
		_, err = tx.Exec(`
			INSERT INTO medicos (usuario_id, especialidade, clinica_id)
			VALUES ($1, $2, $3)
		`, userID, especialidade, input.ClinicaID)
		if err != nil {
			security.SendDatabaseError(c, "Failed to create doctor profile")
			return 0, false
		}
	}

	if err := tx.Commit(); err != nil {
		security.SendDatabaseError(c, "Failed to commit transaction")
		return 0, false
	}

	return userID, true
}

// DeleteUsuario removes an account; the medico row goes with it through
// the FK cascade, inside the same transaction as the token cleanup.
func DeleteUsuario(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		security.SendValidationError(c, "Invalid user id", nil)
		return
	}

	if !removeUsuarioAccount(c, userID, "user") {
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// removeUsuarioAccount revokes the account's sessions and deletes it in
// one transaction, writing the error response itself on failure. resource
// names what the not-found response reports.
func removeUsuarioAccount(c *gin.Context, userID int64, resource string) bool {
	tx, err := config.DB.Begin()
	if err != nil {
		security.SendDatabaseError(c, "Failed to start transaction")
		return false
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM refresh_tokens WHERE user_id = $1`, userID); err != nil {
		security.SendDatabaseError(c, "Failed to revoke sessions")
		return false
	}

	result, err := tx.Exec(`DELETE FROM usuarios WHERE id = $1`, userID)
	if err != nil {
		security.SendDatabaseError(c, "Failed to delete user")
		return false
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		security.SendNotFoundError(c, resource)
		return false
	}

	if err := tx.Commit(); err != nil {
		security.SendDatabaseError(c, "Failed to commit transaction")
		return false
	}

	return true
}
