package crm

import (
	"database/sql"
)

// PatientStore upserts patients within a single clinic's namespace.
type PatientStore interface {
	UpsertByPipedriveID(clinicaID int64, record PersonRecord) error
}

// Reconcile upserts every remote record into the clinic's patients.
// Update-if-exists-by-remote-id, else insert; running it twice with the
// same input leaves the store unchanged. Returns the number of records
// applied before the first failure.
func Reconcile(store PatientStore, clinicaID int64, records []PersonRecord) (int, error) {
	for i, record := range records {
		if err := store.UpsertByPipedriveID(clinicaID, record); err != nil {
			return i, err
		}
	}
	return len(records), nil
}

// SQLPatientStore backs PatientStore with the pacientes table.
type SQLPatientStore struct {
	DB *sql.DB
}

func (s *SQLPatientStore) UpsertByPipedriveID(clinicaID int64, record PersonRecord) error {
	_, err := s.DB.Exec(`
		INSERT INTO pacientes (pipedrive_id, nome, email, idade, genero, ocupacao, localizacao, clinica_id, is_novo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
		ON CONFLICT (clinica_id, pipedrive_id) DO UPDATE SET
			nome = EXCLUDED.nome,
			email = EXCLUDED.email,
			idade = EXCLUDED.idade,
			genero = EXCLUDED.genero,
			ocupacao = EXCLUDED.ocupacao,
			localizacao = EXCLUDED.localizacao
	`, record.ID, record.Name, record.Email, record.Age, record.Gender, record.Occupation, record.Location, clinicaID)
	return err
}
