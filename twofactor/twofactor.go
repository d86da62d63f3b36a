// Package twofactor wraps TOTP enrolment and verification for doctors.
package twofactor

import (
	"github.com/pquerna/otp/totp"
)

const issuer = "PatientFunnel"

// GenerateSecret creates a new TOTP secret for the given account.
func GenerateSecret(accountName string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: accountName,
	})
	if err != nil {
		return "", err
	}
	return key.Secret(), nil
}

// Verify checks a 6-digit code against the stored secret.
func Verify(secret, code string) bool {
	return totp.Validate(code, secret)
}
