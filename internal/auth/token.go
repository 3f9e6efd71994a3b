package auth

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/Ash-the-k/uhi-hackathon/internal/domain"
)

// TokenManager handles issuing and validating JWT tokens. Secret and TTL are
// injected at construction; nothing here reads the environment.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 720
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// Claims describes the signed token payload: subject, role, and the optional
// actor linkage ids pointing at role-specific profile records.
//
// LegacyUserID and LegacyID exist only as a migration compatibility shim:
// older token builds carried the subject under "userId" or "id" instead of
// the registered "sub". SubjectID consults them in that fixed priority order.
type Claims struct {
	Role      string `json:"role,omitempty"`
	DoctorID  string `json:"doctorId,omitempty"`
	PatientID string `json:"patientId,omitempty"`
	StaffID   string `json:"staffId,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`

	LegacyUserID string `json:"userId,omitempty"`
	LegacyID     string `json:"id,omitempty"`

	jwt.RegisteredClaims
}

// SubjectID returns the canonical subject id, falling back through the
// recognized legacy claim keys.
func (c *Claims) SubjectID() string {
	for _, id := range []string{c.Subject, c.LegacyUserID, c.LegacyID} {
		if id != "" {
			return id
		}
	}
	return ""
}

// Issue builds and signs a token for an authenticated identity record. The
// role is canonicalized to lower-case at issuance; linkage ids and the
// convenience email/name fields are embedded only when present on the record.
func (tm *TokenManager) Issue(user *domain.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)

	claims := &Claims{
		Role:  string(domain.NormalizeRole(string(user.Role))),
		Email: user.Email,
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if user.DoctorID != nil && *user.DoctorID != "" {
		claims.DoctorID = *user.DoctorID
	}
	if user.PatientID != nil && *user.PatientID != "" {
		claims.PatientID = *user.PatientID
	}
	if user.StaffID != nil && *user.StaffID != "" {
		claims.StaffID = *user.StaffID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Parse validates signature and expiry and returns normalized claims. The
// role is lower-cased here as well so tokens minted before issuance-time
// canonicalization keep working. No store access happens at this stage.
func (tm *TokenManager) Parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	claims.Role = strings.ToLower(claims.Role)
	return claims, nil
}
