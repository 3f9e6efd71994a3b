package dto

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the shape the frontend session mirror persists.
type LoginResponse struct {
	Token  string `json:"token"`
	Role   string `json:"role"`
	UserID string `json:"userId"`
}

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// IdentityResponse mirrors the enriched request identity.
type IdentityResponse struct {
	ID        string `json:"id"`
	Role      string `json:"role,omitempty"`
	DoctorID  string `json:"doctorId,omitempty"`
	PatientID string `json:"patientId,omitempty"`
	StaffID   string `json:"staffId,omitempty"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
}
