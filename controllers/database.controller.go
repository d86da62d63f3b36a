package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/patientfunnel/server/config"
	"github.com/patientfunnel/server/models"
	"github.com/patientfunnel/server/security"
)

// DatabaseOverview dumps every entity for the super admin inspection
// screen.
func DatabaseOverview(c *gin.Context) {
	clinicas, err := collectClinicas()
	if err != nil {
		security.SendDatabaseError(c, "Failed to fetch clinics")
		return
	}
	usuarios, err := collectUsuarios()
	if err != nil {
		security.SendDatabaseError(c, "Failed to fetch users")
		return
	}
	medicos, err := collectMedicos()
	if err != nil {
		security.SendDatabaseError(c, "Failed to fetch doctors")
		return
	}
	pacientes, err := collectPacientes()
	if err != nil {
		security.SendDatabaseError(c, "Failed to fetch patients")
		return
	}
	servicos, err := collectServicos()
	if err != nil {
		security.SendDatabaseError(c, "Failed to fetch services")
		return
	}
	consultas, err := collectConsultas()
	if err != nil {
		security.SendDatabaseError(c, "Failed to fetch consultations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clinicas":  clinicas,
		"usuarios":  usuarios,
		"medicos":   medicos,
		"pacientes": pacientes,
		"servicos":  servicos,
		"consultas": consultas,
	})
}

func collectClinicas() ([]models.Clinica, error) {
	rows, err := config.DB.Query(`SELECT id, nome, ativa, logo_url, pipedrive_api_token, created_at FROM clinicas ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Clinica{}
	for rows.Next() {
		var v models.Clinica
		if err := rows.Scan(&v.ID, &v.Nome, &v.Ativa, &v.LogoURL, &v.PipedriveAPIToken, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func collectUsuarios() ([]models.Usuario, error) {
	rows, err := config.DB.Query(`SELECT id, email, first_name, last_name, role, is_active, date_joined FROM usuarios ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Usuario{}
	for rows.Next() {
		var v models.Usuario
		if err := rows.Scan(&v.ID, &v.Email, &v.FirstName, &v.LastName, &v.Role, &v.IsActive, &v.DateJoined); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func collectMedicos() ([]models.Medico, error) {
	rows, err := config.DB.Query(`
		SELECT m.usuario_id, m.especialidade, m.clinica_id, m.two_factor_enabled, u.email, u.first_name, u.last_name
		FROM medicos m JOIN usuarios u ON u.id = m.usuario_id ORDER BY m.usuario_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Medico{}
	for rows.Next() {
		var v models.Medico
		if err := rows.Scan(&v.UsuarioID, &v.Especialidade, &v.ClinicaID, &v.TwoFactorEnabled, &v.Email, &v.FirstName, &v.LastName); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func collectPacientes() ([]models.Paciente, error) {
	rows, err := config.DB.Query(`
		SELECT id, pipedrive_id, nome, email, is_novo, idade, genero, ocupacao, localizacao, clinica_id, data_cadastro
		FROM pacientes ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Paciente{}
	for rows.Next() {
		var v models.Paciente
		if err := rows.Scan(&v.ID, &v.PipedriveID, &v.Nome, &v.Email, &v.IsNovo,
			&v.Idade, &v.Genero, &v.Ocupacao, &v.Localizacao, &v.ClinicaID, &v.DataCadastro); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func collectServicos() ([]models.Servico, error) {
	rows, err := config.DB.Query(`SELECT id, nome, descricao, ativo FROM servicos ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Servico{}
	for rows.Next() {
		var v models.Servico
		if err := rows.Scan(&v.ID, &v.Nome, &v.Descricao, &v.Ativo); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func collectConsultas() ([]models.Consulta, error) {
	rows, err := config.DB.Query(`SELECT ` + consultaColumns + ` FROM consultas ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Consulta{}
	for rows.Next() {
		v, err := scanConsulta(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
