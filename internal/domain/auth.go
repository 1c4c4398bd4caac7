package domain

// LoginRequest carries either NationalID (patients, doctors) or Username (admins).
type LoginRequest struct {
	UserType   Role   `json:"userType"`
	NationalID string `json:"nationalId,omitempty"`
	Username   string `json:"username,omitempty"`
	Password   string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	Role      Role   `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (r LoginResponse) DisplayName() string { return joinName(r.FirstName, r.LastName) }

// RegisterRequest is the body of POST /patient/register.
type RegisterRequest struct {
	PatientInfo
	Password string `json:"password"`
}
