package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/Ash-the-k/uhi-hackathon/internal/domain"
)

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CredentialVerifier checks a supplied secret against an identity record.
// AllowPlaintext enables the legacy plain-text column used by seeded demo
// accounts; it is off unless explicitly configured.
type CredentialVerifier struct {
	AllowPlaintext bool
}

// Verify reports whether the supplied secret matches the record's credential.
// A record with neither a hash nor a legacy secret never verifies. Mismatches
// are a normal outcome, not an error.
func (v CredentialVerifier) Verify(user *domain.User, secret string) bool {
	if user == nil || secret == "" {
		return false
	}
	if user.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(secret)) == nil
	}
	if v.AllowPlaintext && user.Password != "" {
		return subtle.ConstantTimeCompare([]byte(user.Password), []byte(secret)) == 1
	}
	return false
}
