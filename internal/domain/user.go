package domain

import (
	"strings"
	"time"
)

// Role enumerates the actor types a user account can carry.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
	RoleGeneric Role = "generic"
)

// NormalizeRole lower-cases a role value read from an external source.
func NormalizeRole(raw string) Role {
	return Role(strings.ToLower(strings.TrimSpace(raw)))
}

// User is the authoritative identity record.
//
// PasswordHash holds the bcrypt digest. Password is the legacy plain-text
// column kept for seeded demo accounts; the verifier only consults it when
// the insecure-mode flag is enabled. A record may carry more than one
// populated linkage id, but at most one is "the" linkage for its role.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Password     string
	Role         Role
	DoctorID     *string
	PatientID    *string
	StaffID      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
