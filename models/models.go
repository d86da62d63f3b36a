package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Role codes carried on usuarios.role.
const (
	RoleSuperAdmin  = "SA"
	RoleClinicAdmin = "AC"
	RoleMedico      = "ME"
)

type Clinica struct {
	ID                int64     `json:"id" db:"id"`
	Nome              string    `json:"nome" db:"nome"`
	Ativa             bool      `json:"ativa" db:"ativa"`
	LogoURL           *string   `json:"logo_url" db:"logo_url"`
	PipedriveAPIToken *string   `json:"-" db:"pipedrive_api_token"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

type Usuario struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Role         string    `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	DateJoined   time.Time `json:"date_joined" db:"date_joined"`
}

func (u Usuario) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Medico is keyed by its usuario id; a doctor may be unassigned from any
// clinic (clinica_id null).
type Medico struct {
	UsuarioID        int64      `json:"usuario_id" db:"usuario_id"`
	Especialidade    string     `json:"especialidade" db:"especialidade"`
	ClinicaID        *int64     `json:"clinica_id" db:"clinica_id"`
	TwoFactorEnabled bool       `json:"two_factor_enabled" db:"two_factor_enabled"`
	TwoFactorSecret  *string    `json:"-" db:"two_factor_secret"`
	TrustedDevices   StringList `json:"-" db:"trusted_devices"`

	// Denormalized from usuarios on reads.
	Email     string `json:"email,omitempty" db:"-"`
	FirstName string `json:"first_name,omitempty" db:"-"`
	LastName  string `json:"last_name,omitempty" db:"-"`
}

// Paciente rows carry an internal surrogate id; pipedrive_id is the
// external CRM identity, unique within a clinic when present.
type Paciente struct {
	ID           int64     `json:"id" db:"id"`
	PipedriveID  *string   `json:"pipedrive_id" db:"pipedrive_id"`
	Nome         string    `json:"nome" db:"nome"`
	Email        string    `json:"email" db:"email"`
	IsNovo       bool      `json:"is_novo" db:"is_novo"`
	Idade        int       `json:"idade" db:"idade"`
	Genero       string    `json:"genero" db:"genero"`
	Ocupacao     string    `json:"ocupacao" db:"ocupacao"`
	Localizacao  string    `json:"localizacao" db:"localizacao"`
	ClinicaID    int64     `json:"clinica_id" db:"clinica_id"`
	DataCadastro time.Time `json:"data_cadastro" db:"data_cadastro"`
}

type Servico struct {
	ID        int64  `json:"id" db:"id"`
	Nome      string `json:"nome" db:"nome"`
	Descricao string `json:"descricao" db:"descricao"`
	Ativo     bool   `json:"ativo" db:"ativo"`
}

type Consulta struct {
	ID             int64     `json:"id" db:"id"`
	MedicoID       int64     `json:"medico_id" db:"medico_id"`
	PacienteID     int64     `json:"paciente_id" db:"paciente_id"`
	ServicoID      int64     `json:"servico_id" db:"servico_id"`
	Data           time.Time `json:"data" db:"data"`
	DuracaoMinutos int       `json:"duracao_minutos" db:"duracao_minutos"`
	Satisfacao     int       `json:"satisfacao" db:"satisfacao"`
	Comentario     string    `json:"comentario" db:"comentario"`
	Enviado        bool      `json:"enviado" db:"enviado"`
	Incidente      bool      `json:"incidente" db:"incidente"`
	Valor          float64   `json:"valor" db:"valor"`

	// Populated asynchronously by the AI webhook.
	Summary                *string    `json:"summary" db:"summary"`
	SatisfactionScore      *float64   `json:"satisfaction_score" db:"satisfaction_score"`
	QualityIndex           *float64   `json:"quality_index" db:"quality_index"`
	KeyTopics              StringList `json:"key_topics" db:"key_topics"`
	ProcedimentosDesejados StringList `json:"procedimentos_desejados" db:"procedimentos_desejados"`
	ExpectativasPaciente   StringList `json:"expectativas_paciente" db:"expectativas_paciente"`
	ProblemasRelatados     StringList `json:"problemas_relatados" db:"problemas_relatados"`
	ExperienciasAnteriores StringList `json:"experiencias_anteriores" db:"experiencias_anteriores"`
	InteresseTratamentos   StringList `json:"interesse_tratamentos" db:"interesse_tratamentos"`
	Motivacoes             StringList `json:"motivacoes" db:"motivacoes"`
	AspectosEmocionais     StringList `json:"aspectos_emocionais" db:"aspectos_emocionais"`
	PreocupacoesSaude      StringList `json:"preocupacoes_saude" db:"preocupacoes_saude"`
	ProdutosInteresse      StringList `json:"produtos_interesse" db:"produtos_interesse"`
	AIProcessed            bool       `json:"ai_processed" db:"ai_processed"`
	TranscriptionFile      *string    `json:"transcription_file" db:"transcription_file"`
	SummaryFile            *string    `json:"summary_file" db:"summary_file"`
}

// Clinic registration statuses.
const (
	RegistrationPending  = "pending"
	RegistrationApproved = "approved"
	RegistrationRejected = "rejected"
)

type ClinicRegistration struct {
	ID               int64      `json:"id" db:"id"`
	Name             string     `json:"name" db:"name"`
	Email            string     `json:"email" db:"email"`
	Phone            string     `json:"phone" db:"phone"`
	Address          string     `json:"address" db:"address"`
	OwnerName        string     `json:"owner_name" db:"owner_name"`
	OwnerDocument    string     `json:"owner_document" db:"owner_document"`
	BusinessDocument string     `json:"business_document" db:"business_document"`
	Status           string     `json:"status" db:"status"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	ProcessedAt      *time.Time `json:"processed_at" db:"processed_at"`
	ProcessedBy      *int64     `json:"processed_by" db:"processed_by"`
	Notes            string     `json:"notes" db:"notes"`
}

// StringList maps a jsonb array of strings.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal([]string(l))
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("unsupported type for StringList")
}

type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = make(map[string]interface{})
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("unsupported type for JSONB")
	}
	return json.Unmarshal(b, j)
}
