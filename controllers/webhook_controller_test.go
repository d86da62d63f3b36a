package controllers

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aiResultsBody = `{
	"consultationId": 77,
	"summary": "Paciente interessada em limpeza de pele",
	"metrics": {
		"qualityIndex": 8.5,
		"satisfactionScore": 4.2,
		"keyTopics": ["limpeza de pele"]
	},
	"insights": {
		"procedimentos": ["limpeza de pele"],
		"expectativas": ["pele mais uniforme"],
		"problemas": ["acne"],
		"experiencias": ["peeling anterior"],
		"interesse": ["laser"],
		"motivacoes": ["autoestima"],
		"aspectos_emocionais": ["ansiedade"],
		"preocupacoes": ["manchas"],
		"produtos": ["protetor solar"]
	}
}`

func TestProcessAIResultsPersistsEveryInsightList(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectExec(`UPDATE consultas SET`).
		WithArgs(
			"Paciente interessada em limpeza de pele", 8.5, 4.2,
			[]byte(`["limpeza de pele"]`),
			[]byte(`["limpeza de pele"]`),
			[]byte(`["pele mais uniforme"]`),
			[]byte(`["acne"]`),
			[]byte(`["peeling anterior"]`),
			[]byte(`["laser"]`),
			[]byte(`["autoestima"]`),
			[]byte(`["ansiedade"]`),
			[]byte(`["manchas"]`),
			[]byte(`["protetor solar"]`),
			int64(77),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := postJSON(ProcessAIResults, "/api/webhook/consultation-data", aiResultsBody)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessAIResultsDefaultsMissingListsToEmpty(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectExec(`UPDATE consultas SET`).
		WithArgs(
			"", 0.0, 0.0,
			[]byte(`[]`), []byte(`[]`), []byte(`[]`), []byte(`[]`), []byte(`[]`),
			[]byte(`[]`), []byte(`[]`), []byte(`[]`), []byte(`[]`), []byte(`[]`),
			int64(77),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := postJSON(ProcessAIResults, "/api/webhook/consultation-data", `{"consultationId": 77}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessAIResultsUnknownConsultation(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectExec(`UPDATE consultas SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	w := postJSON(ProcessAIResults, "/api/webhook/consultation-data", aiResultsBody)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "consultation")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessAIResultsRejectsMissingConsultationID(t *testing.T) {
	mock := newMockDB(t)

	w := postJSON(ProcessAIResults, "/api/webhook/consultation-data", `{"summary": "sem id"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
