package auth

import (
	"github.com/Ash-the-k/uhi-hackathon/internal/domain"
)

// Identity is the per-request view of the authenticated caller, built from
// verified claims and optionally enriched from the identity store. It lives
// only for the request; the signed claims it was derived from stay untouched.
type Identity struct {
	ID        string
	Role      string
	DoctorID  string
	PatientID string
	StaffID   string
	Email     string
	Name      string
}

// IdentityFromClaims seeds a request identity from verified token claims.
func IdentityFromClaims(claims *Claims) *Identity {
	return &Identity{
		ID:        claims.SubjectID(),
		Role:      claims.Role,
		DoctorID:  claims.DoctorID,
		PatientID: claims.PatientID,
		StaffID:   claims.StaffID,
		Email:     claims.Email,
		Name:      claims.Name,
	}
}

// Enrich fills fields the token did not carry from the authoritative record.
// Only empty fields are filled; a non-empty claim always wins over the store,
// so the operation is idempotent. A nil record is a no-op.
func (id *Identity) Enrich(user *domain.User) {
	if user == nil {
		return
	}
	if id.DoctorID == "" && user.DoctorID != nil {
		id.DoctorID = *user.DoctorID
	}
	if id.PatientID == "" && user.PatientID != nil {
		id.PatientID = *user.PatientID
	}
	if id.StaffID == "" && user.StaffID != nil {
		id.StaffID = *user.StaffID
	}
	if id.Email == "" {
		id.Email = user.Email
	}
	if id.Name == "" {
		id.Name = user.Name
	}
	if id.Role == "" && user.Role != "" {
		id.Role = string(domain.NormalizeRole(string(user.Role)))
	}
}
