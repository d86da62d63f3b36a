package config

import "database/sql"

// MigrateDB creates any missing tables. Statements are idempotent so the
// server can run them unconditionally at startup.
func MigrateDB(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS clinicas (
			id                  BIGSERIAL PRIMARY KEY,
			nome                VARCHAR(100) NOT NULL,
			ativa               BOOLEAN NOT NULL DEFAULT TRUE,
			logo_url            VARCHAR(255),
			pipedrive_api_token VARCHAR(255),
			created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS usuarios (
			id            BIGSERIAL PRIMARY KEY,
			email         VARCHAR(254) NOT NULL UNIQUE,
			password_hash VARCHAR(128) NOT NULL,
			first_name    VARCHAR(30) NOT NULL DEFAULT '',
			last_name     VARCHAR(30) NOT NULL DEFAULT '',
			role          CHAR(2) NOT NULL DEFAULT 'ME' CHECK (role IN ('SA', 'AC', 'ME')),
			is_active     BOOLEAN NOT NULL DEFAULT TRUE,
			date_joined   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_usuarios_email ON usuarios (email)`,
		`CREATE INDEX IF NOT EXISTS idx_usuarios_role ON usuarios (role)`,
		`CREATE TABLE IF NOT EXISTS medicos (
			usuario_id         BIGINT PRIMARY KEY REFERENCES usuarios (id) ON DELETE CASCADE,
			especialidade      VARCHAR(100) NOT NULL,
			clinica_id         BIGINT REFERENCES clinicas (id) ON DELETE SET NULL,
			two_factor_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			two_factor_secret  VARCHAR(64),
			trusted_devices    JSONB NOT NULL DEFAULT '[]'
		)`,
		`CREATE TABLE IF NOT EXISTS pacientes (
			id            BIGSERIAL PRIMARY KEY,
			pipedrive_id  VARCHAR(64),
			nome          VARCHAR(255) NOT NULL,
			email         VARCHAR(254) NOT NULL DEFAULT '',
			is_novo       BOOLEAN NOT NULL DEFAULT TRUE,
			idade         INTEGER NOT NULL DEFAULT 0,
			genero        VARCHAR(50) NOT NULL DEFAULT '',
			ocupacao      VARCHAR(100) NOT NULL DEFAULT '',
			localizacao   VARCHAR(255) NOT NULL DEFAULT '',
			clinica_id    BIGINT NOT NULL REFERENCES clinicas (id) ON DELETE CASCADE,
			data_cadastro TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (clinica_id, pipedrive_id)
		)`,
		`CREATE TABLE IF NOT EXISTS servicos (
			id        BIGSERIAL PRIMARY KEY,
			nome      VARCHAR(255) NOT NULL,
			descricao TEXT NOT NULL DEFAULT '',
			ativo     BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS medico_servicos (
			id         SERIAL PRIMARY KEY,
			medico_id  BIGINT NOT NULL REFERENCES medicos (usuario_id) ON DELETE CASCADE,
			servico_id BIGINT NOT NULL REFERENCES servicos (id) ON DELETE CASCADE,
			UNIQUE (medico_id, servico_id)
		)`,
		`CREATE TABLE IF NOT EXISTS consultas (
			id                      BIGSERIAL PRIMARY KEY,
			medico_id               BIGINT NOT NULL REFERENCES medicos (usuario_id) ON DELETE CASCADE,
			paciente_id             BIGINT NOT NULL REFERENCES pacientes (id) ON DELETE CASCADE,
			servico_id              BIGINT NOT NULL REFERENCES servicos (id) ON DELETE CASCADE,
			data                    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			duracao_minutos         INTEGER NOT NULL DEFAULT 0,
			satisfacao              INTEGER NOT NULL DEFAULT 0 CHECK (satisfacao BETWEEN 0 AND 5),
			comentario              TEXT NOT NULL DEFAULT '',
			enviado                 BOOLEAN NOT NULL DEFAULT FALSE,
			incidente               BOOLEAN NOT NULL DEFAULT FALSE,
			valor                   NUMERIC(10,2) NOT NULL DEFAULT 0,
			summary                 TEXT,
			satisfaction_score      DOUBLE PRECISION,
			quality_index           DOUBLE PRECISION,
			key_topics              JSONB NOT NULL DEFAULT '[]',
			procedimentos_desejados JSONB NOT NULL DEFAULT '[]',
			expectativas_paciente   JSONB NOT NULL DEFAULT '[]',
			problemas_relatados     JSONB NOT NULL DEFAULT '[]',
			experiencias_anteriores JSONB NOT NULL DEFAULT '[]',
			interesse_tratamentos   JSONB NOT NULL DEFAULT '[]',
			motivacoes              JSONB NOT NULL DEFAULT '[]',
			aspectos_emocionais     JSONB NOT NULL DEFAULT '[]',
			preocupacoes_saude      JSONB NOT NULL DEFAULT '[]',
			produtos_interesse      JSONB NOT NULL DEFAULT '[]',
			ai_processed            BOOLEAN NOT NULL DEFAULT FALSE,
			transcription_file      VARCHAR(255),
			summary_file            VARCHAR(255)
		)`,
		`CREATE TABLE IF NOT EXISTS clinic_registrations (
			id                BIGSERIAL PRIMARY KEY,
			name              VARCHAR(255) NOT NULL,
			email             VARCHAR(254) NOT NULL,
			phone             VARCHAR(20) NOT NULL DEFAULT '',
			address           TEXT NOT NULL DEFAULT '',
			owner_name        VARCHAR(255) NOT NULL DEFAULT '',
			owner_document    VARCHAR(20) NOT NULL DEFAULT '',
			business_document VARCHAR(20) NOT NULL DEFAULT '',
			status            VARCHAR(20) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
			created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			processed_at      TIMESTAMPTZ,
			processed_by      BIGINT REFERENCES usuarios (id) ON DELETE SET NULL,
			notes             TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			id         BIGSERIAL PRIMARY KEY,
			user_id    BIGINT NOT NULL REFERENCES usuarios (id) ON DELETE CASCADE,
			token      TEXT NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
