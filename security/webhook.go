package security

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SignatureHeader carries the HMAC of the raw request body on every
// externally triggered mutation endpoint.
const SignatureHeader = "X-Webhook-Signature"

// ComputeSignature returns the hex HMAC-SHA256 of body under secret.
func ComputeSignature(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// ValidSignature compares signatures in constant time.
func ValidSignature(secret string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	expected := ComputeSignature(secret, body)
	return hmac.Equal([]byte(signature), []byte(expected))
}

// WebhookSignatureMiddleware rejects requests whose body is not signed
// with the shared secret. An empty secret rejects everything: the HMAC of
// the empty key is publicly computable, so it can never authenticate a
// caller. The body is restored for downstream binding.
func WebhookSignatureMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			SendError(c, http.StatusUnauthorized, CodeInvalidSignature, "Webhook secret not configured",
				"WEBHOOK_SECRET is not set; signed endpoints are disabled", nil)
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			SendError(c, http.StatusBadRequest, CodeValidationError, "Unreadable request body",
				"The request body could not be read", nil)
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if !ValidSignature(secret, body, c.GetHeader(SignatureHeader)) {
			SendError(c, http.StatusUnauthorized, CodeInvalidSignature, "Invalid signature",
				"The webhook signature is missing or does not match the request body", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
