package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/patientfunnel/server/crm"
)

func TestUpstreamStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, upstreamStatus(crm.CategoryAuthError))
	assert.Equal(t, http.StatusPaymentRequired, upstreamStatus(crm.CategoryPaymentRequired))
	assert.Equal(t, http.StatusBadGateway, upstreamStatus(crm.CategoryRequestError))
	assert.Equal(t, http.StatusBadGateway, upstreamStatus(crm.CategoryAPIError))
	assert.Equal(t, http.StatusInternalServerError, upstreamStatus(crm.CategoryUnknownError))
	assert.Equal(t, http.StatusInternalServerError, upstreamStatus("something-else"))
}
