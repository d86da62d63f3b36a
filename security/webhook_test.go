package security

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidSignature(t *testing.T) {
	body := []byte(`{"consultationId": 7}`)
	sig := ComputeSignature("shared", body)

	assert.True(t, ValidSignature("shared", body, sig))
	assert.False(t, ValidSignature("shared", body, ""))
	assert.False(t, ValidSignature("shared", body, "deadbeef"))
	assert.False(t, ValidSignature("other", body, sig))
	assert.False(t, ValidSignature("shared", []byte(`{"consultationId": 8}`), sig))
}

func newSignatureRouter(secret string, hit *bool, seen *[]byte) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/hook", WebhookSignatureMiddleware(secret), func(c *gin.Context) {
		*hit = true
		body, _ := io.ReadAll(c.Request.Body)
		*seen = body
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r
}

func TestWebhookSignatureMiddlewareRejectsBadSignature(t *testing.T) {
	var hit bool
	var seen []byte
	r := newSignatureRouter("shared", &hit, &seen)

	body := []byte(`{"consultationId": 7}`)

	// Missing header
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/hook", bytes.NewReader(body))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, hit)

	// Wrong signature
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/hook", bytes.NewReader(body))
	req.Header.Set(SignatureHeader, "0000")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, hit)
}

func TestWebhookSignatureMiddlewareRejectsEmptySecret(t *testing.T) {
	var hit bool
	var seen []byte
	r := newSignatureRouter("", &hit, &seen)

	// A signature computed over the empty key must not authenticate:
	// anyone can compute it.
	body := []byte(`{"consultationId": 7}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/hook", bytes.NewReader(body))
	req.Header.Set(SignatureHeader, ComputeSignature("", body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, hit)
}

func TestWebhookSignatureMiddlewarePassesValidSignature(t *testing.T) {
	var hit bool
	var seen []byte
	r := newSignatureRouter("shared", &hit, &seen)

	body := []byte(`{"consultationId": 7}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/hook", bytes.NewReader(body))
	req.Header.Set(SignatureHeader, ComputeSignature("shared", body))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, hit)
	// The body must be restored for downstream binding.
	assert.Equal(t, body, seen)
}
