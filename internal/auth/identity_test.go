package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ash-the-k/uhi-hackathon/internal/domain"
)

func TestEnrichFillsOnlyEmptyFields(t *testing.T) {
	identity := &Identity{ID: "user-1", Role: "doctor", DoctorID: "doctor-from-token"}
	record := &domain.User{
		ID:        "user-1",
		Name:      "Dr. Record",
		Email:     "record@x.com",
		Role:      domain.RoleStaff,
		DoctorID:  strPtr("doctor-from-store"),
		PatientID: strPtr("patient-from-store"),
	}

	identity.Enrich(record)

	// token-carried fields survive, missing ones are filled
	assert.Equal(t, "doctor-from-token", identity.DoctorID)
	assert.Equal(t, "doctor", identity.Role)
	assert.Equal(t, "patient-from-store", identity.PatientID)
	assert.Equal(t, "record@x.com", identity.Email)
	assert.Equal(t, "Dr. Record", identity.Name)
}

func TestEnrichIsIdempotent(t *testing.T) {
	identity := &Identity{
		ID: "user-1", Role: "patient", DoctorID: "d", PatientID: "p",
		StaffID: "s", Email: "e@x.com", Name: "n",
	}
	before := *identity

	identity.Enrich(&domain.User{
		ID: "user-1", Name: "other", Email: "other@x.com", Role: domain.RoleAdmin,
		DoctorID: strPtr("dd"), PatientID: strPtr("pp"), StaffID: strPtr("ss"),
	})

	assert.Equal(t, before, *identity)
}

func TestEnrichNormalizesRoleFallback(t *testing.T) {
	identity := &Identity{ID: "user-1"}
	identity.Enrich(&domain.User{ID: "user-1", Role: domain.Role("DOCTOR")})
	assert.Equal(t, "doctor", identity.Role)
}

func TestEnrichNilRecordIsNoOp(t *testing.T) {
	identity := &Identity{ID: "user-1", Role: "doctor"}
	identity.Enrich(nil)
	assert.Equal(t, &Identity{ID: "user-1", Role: "doctor"}, identity)
}
