// Package dashboards builds the role-specific dashboard payloads. One
// strategy per role, selected once at the entry point, replaces the
// role-branching that used to live inside each handler.
package dashboards

import (
	"database/sql"
	"errors"
	"time"
)

// Payload is the dashboard body returned to the client.
type Payload map[string]interface{}

// Strategy builds the dashboard for one role.
type Strategy interface {
	Build(userID int64) (Payload, error)
}

// ErrUnknownRole is returned when no strategy serves the caller's role.
var ErrUnknownRole = errors.New("no dashboard for role")

// ForRole selects the strategy serving the given role.
func ForRole(db *sql.DB, role string) (Strategy, error) {
	switch role {
	case "SA":
		return &superAdminStrategy{db: db}, nil
	case "AC":
		return &clinicAdminStrategy{db: db}, nil
	case "ME":
		return &medicoStrategy{db: db}, nil
	}
	return nil, ErrUnknownRole
}

type superAdminStrategy struct {
	db *sql.DB
}

func (s *superAdminStrategy) Build(userID int64) (Payload, error) {
	var totalClinicas, clinicasAtivas, totalPacientes, totalConsultas int64
	row := s.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM clinicas),
			(SELECT COUNT(*) FROM clinicas WHERE ativa = TRUE),
			(SELECT COUNT(*) FROM pacientes),
			(SELECT COUNT(*) FROM consultas)
	`)
	if err := row.Scan(&totalClinicas, &clinicasAtivas, &totalPacientes, &totalConsultas); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT c.nome,
		       COUNT(DISTINCT p.id) AS total_pacientes,
		       COUNT(co.id) AS total_consultas,
		       AVG(NULLIF(co.satisfacao, 0)) AS media_satisfacao
		FROM clinicas c
		LEFT JOIN pacientes p ON p.clinica_id = c.id
		LEFT JOIN consultas co ON co.paciente_id = p.id
		GROUP BY c.id, c.nome
		ORDER BY c.nome
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clinicasData := []Payload{}
	for rows.Next() {
		var nome string
		var pacientes, consultas int64
		var satisfacao sql.NullFloat64
		if err := rows.Scan(&nome, &pacientes, &consultas, &satisfacao); err != nil {
			return nil, err
		}
		clinicasData = append(clinicasData, Payload{
			"nome":             nome,
			"total_pacientes":  pacientes,
			"total_consultas":  consultas,
			"media_satisfacao": nullFloat(satisfacao),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return Payload{
		"total_clinicas":  totalClinicas,
		"clinicas_ativas": clinicasAtivas,
		"total_pacientes": totalPacientes,
		"total_consultas": totalConsultas,
		"clinicas_data":   clinicasData,
	}, nil
}

type clinicAdminStrategy struct {
	db *sql.DB
}

func (s *clinicAdminStrategy) Build(userID int64) (Payload, error) {
	var clinicaID int64
	err := s.db.QueryRow(`SELECT clinica_id FROM medicos WHERE usuario_id = $1 AND clinica_id IS NOT NULL`, userID).Scan(&clinicaID)
	if err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -30)

	var totalPacientes, pacientesNovos, totalConsultas, consultasMes int64
	var mediaSatisfacao sql.NullFloat64
	row := s.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM pacientes WHERE clinica_id = $1),
			(SELECT COUNT(*) FROM pacientes WHERE clinica_id = $1 AND data_cadastro >= $2),
			(SELECT COUNT(*) FROM consultas co JOIN pacientes p ON p.id = co.paciente_id WHERE p.clinica_id = $1),
			(SELECT COUNT(*) FROM consultas co JOIN pacientes p ON p.id = co.paciente_id WHERE p.clinica_id = $1 AND co.data >= $2),
			(SELECT AVG(NULLIF(co.satisfacao, 0)) FROM consultas co JOIN pacientes p ON p.id = co.paciente_id WHERE p.clinica_id = $1)
	`, clinicaID, since)
	if err := row.Scan(&totalPacientes, &pacientesNovos, &totalConsultas, &consultasMes, &mediaSatisfacao); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT u.first_name, u.last_name, COUNT(co.id) AS total_consultas
		FROM medicos m
		JOIN usuarios u ON u.id = m.usuario_id
		LEFT JOIN consultas co ON co.medico_id = m.usuario_id
		WHERE m.clinica_id = $1
		GROUP BY u.id, u.first_name, u.last_name
		ORDER BY total_consultas DESC
		LIMIT 5
	`, clinicaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	topMedicos := []Payload{}
	for rows.Next() {
		var firstName, lastName string
		var consultas int64
		if err := rows.Scan(&firstName, &lastName, &consultas); err != nil {
			return nil, err
		}
		topMedicos = append(topMedicos, Payload{
			"first_name":      firstName,
			"last_name":       lastName,
			"total_consultas": consultas,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return Payload{
		"total_pacientes":  totalPacientes,
		"pacientes_novos":  pacientesNovos,
		"total_consultas":  totalConsultas,
		"consultas_mes":    consultasMes,
		"media_satisfacao": nullFloat(mediaSatisfacao),
		"top_medicos":      topMedicos,
	}, nil
}

type medicoStrategy struct {
	db *sql.DB
}

func (s *medicoStrategy) Build(userID int64) (Payload, error) {
	var totalConsultas int64
	var mediaSatisfacao sql.NullFloat64
	row := s.db.QueryRow(`
		SELECT COUNT(*), AVG(NULLIF(satisfacao, 0))
		FROM consultas
		WHERE medico_id = $1
	`, userID)
	if err := row.Scan(&totalConsultas, &mediaSatisfacao); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT co.id, p.nome, co.data, co.satisfacao, co.ai_processed
		FROM consultas co
		JOIN pacientes p ON p.id = co.paciente_id
		WHERE co.medico_id = $1
		ORDER BY co.data DESC
		LIMIT 10
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recentes := []Payload{}
	for rows.Next() {
		var id int64
		var paciente string
		var data time.Time
		var satisfacao int
		var aiProcessed bool
		if err := rows.Scan(&id, &paciente, &data, &satisfacao, &aiProcessed); err != nil {
			return nil, err
		}
		recentes = append(recentes, Payload{
			"id":           id,
			"paciente":     paciente,
			"data":         data,
			"satisfacao":   satisfacao,
			"ai_processed": aiProcessed,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return Payload{
		"total_consultas":    totalConsultas,
		"media_satisfacao":   nullFloat(mediaSatisfacao),
		"consultas_recentes": recentes,
	}, nil
}

func nullFloat(v sql.NullFloat64) interface{} {
	if !v.Valid {
		return nil
	}
	return v.Float64
}
