package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRequest(handler gin.HandlerFunc, route, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET(route, handler)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestGetUsuariosListsAccounts(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(`FROM usuarios`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "first_name", "last_name", "role", "is_active", "date_joined"}).
			AddRow(int64(1), "ana@clinica.com", "Ana", "Souza", "AC", true, time.Now()))

	w := getRequest(GetUsuarios, "/api/usuarios", "/api/usuarios")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ana@clinica.com")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUsuariosFailsOnMalformedRow(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery(`FROM usuarios`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "first_name", "last_name", "role", "is_active", "date_joined"}).
			AddRow(int64(1), "ana@clinica.com", "Ana", "Souza", "AC", "not-a-bool", time.Now()))

	w := getRequest(GetUsuarios, "/api/usuarios", "/api/usuarios")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "ana@clinica.com")
	assert.NoError(t, mock.ExpectationsWereMet())
}
