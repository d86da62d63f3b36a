package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deleteRequest(handler gin.HandlerFunc, route, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.DELETE(route, handler)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, path, nil))
	return w
}

func TestCreateMedicoCreatesAccountAndProfile(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM usuarios WHERE email`).WithArgs("ana@clinica.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO usuarios`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(31)))
	mock.ExpectExec(`INSERT INTO medicos`).WithArgs(int64(31), "Dermatologia", int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := postJSON(CreateMedico, "/api/medicos", `{
		"email": "ana@clinica.com",
		"password": "senha-forte",
		"first_name": "Ana",
		"last_name": "Souza",
		"especialidade": "Dermatologia",
		"clinica_id": 2
	}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"usuario_id":31`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMedicoDuplicateEmail(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM usuarios WHERE email`).WithArgs("ana@clinica.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	w := postJSON(CreateMedico, "/api/medicos", `{
		"email": "ana@clinica.com",
		"password": "senha-forte",
		"first_name": "Ana"
	}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMedicoRemovesAccount(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM medicos WHERE usuario_id`).WithArgs(int64(31)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM refresh_tokens`).WithArgs(int64(31)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM usuarios`).WithArgs(int64(31)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := deleteRequest(DeleteMedico, "/api/medicos/:id", "/api/medicos/31")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Doctor deleted")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMedicoUnknownDoctor(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM medicos WHERE usuario_id`).WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	w := deleteRequest(DeleteMedico, "/api/medicos/:id", "/api/medicos/99")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "doctor")
	assert.NoError(t, mock.ExpectationsWereMet())
}
