package controllers

import (
	"bytes"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/patientfunnel/server/config"
)

// newMockDB swaps config.DB for a sqlmock connection for the duration of
// one test. Every statement the handler runs must be expected; anything
// unexpected fails the test, so a 404 plus met expectations proves no
// insert happened.
func newMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	prev := config.DB
	config.DB = db
	t.Cleanup(func() {
		config.DB = prev
		db.Close()
	})

	Init(&config.Config{}, zap.NewNop(), nil, nil, nil)
	return mock
}

func postJSON(handler gin.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST(path, handler)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

const gravarBody = `{"medico_id": 5, "paciente_id": 9, "servico_id": 3}`

func TestGravarConsultaUnknownDoctor(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(`FROM medicos m`).WithArgs(int64(5)).WillReturnError(sql.ErrNoRows)

	w := postJSON(GravarConsulta, "/api/consulta/gravar", gravarBody)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "doctor")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGravarConsultaUnknownPatient(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(`FROM medicos m`).WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "especialidade", "clinica_id"}).
			AddRow("Dra Ana Souza", "Dermatologia", int64(2)))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM pacientes`).WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	w := postJSON(GravarConsulta, "/api/consulta/gravar", gravarBody)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "patient")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGravarConsultaUnknownService(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(`FROM medicos m`).WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "especialidade", "clinica_id"}).
			AddRow("Dra Ana Souza", "Dermatologia", int64(2)))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM pacientes`).WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM servicos`).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	w := postJSON(GravarConsulta, "/api/consulta/gravar", gravarBody)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "service")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGravarConsultaDoctorLookupFailure(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(`FROM medicos m`).WithArgs(int64(5)).
		WillReturnError(errors.New("connection refused"))

	w := postJSON(GravarConsulta, "/api/consulta/gravar", gravarBody)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "doctor not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGravarConsultaRecordsConsultation(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(`FROM medicos m`).WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "especialidade", "clinica_id"}).
			AddRow("Dra Ana Souza", "Dermatologia", int64(2)))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM pacientes`).WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM servicos`).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`INSERT INTO consultas`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(77)))
	mock.ExpectQuery(`SELECT nome FROM clinicas`).WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"nome"}).AddRow("Clinica Bela Pele"))

	w := postJSON(GravarConsulta, "/api/consulta/gravar", gravarBody)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"consultation_id":77`)
	assert.Contains(t, w.Body.String(), "Dra Ana Souza")
	assert.Contains(t, w.Body.String(), "Clinica Bela Pele")
	assert.NoError(t, mock.ExpectationsWereMet())
}
