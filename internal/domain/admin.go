package domain

// AdminHospital is a hospital row in the admin grid. ID is assigned by the
// backend; create requests send it empty.
type AdminHospital struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city"`
	District string `json:"district"`
}

type AdminDepartment struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	HospitalID string `json:"hospitalId"`
}

type AdminDoctor struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	NationalID   string `json:"nationalId"`
	HospitalID   string `json:"hospitalId"`
	DepartmentID string `json:"departmentId"`
}

func (d AdminDoctor) FullName() string { return joinName(d.FirstName, d.LastName) }

type AdminPatient struct {
	ID         string `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	NationalID string `json:"nationalId"`
	BloodGroup string `json:"bloodGroup"`
	HeightCm   int    `json:"heightCm"`
	WeightKg   int    `json:"weightKg"`
}

func (p AdminPatient) FullName() string { return joinName(p.FirstName, p.LastName) }

// AdminAppointment is one row of the admin appointment log. Backends differ
// in which date field they fill, see When.
type AdminAppointment struct {
	ID                int64             `json:"id"`
	DateTime          string            `json:"dateTime"`
	HospitalName      string            `json:"hospitalName"`
	DepartmentName    string            `json:"departmentName"`
	DoctorName        string            `json:"doctorName"`
	PatientName       string            `json:"patientName"`
	PatientNationalID string            `json:"patientNationalId"`
	Status            AppointmentStatus `json:"status"`
	PrescriptionText  string            `json:"prescriptionText,omitempty"`
	SlotDateTime      string            `json:"slotDateTime,omitempty"`
	Date              string            `json:"date,omitempty"`
}

// When returns the first non-empty of DateTime, SlotDateTime and Date.
func (a AdminAppointment) When() string {
	switch {
	case a.DateTime != "":
		return a.DateTime
	case a.SlotDateTime != "":
		return a.SlotDateTime
	default:
		return a.Date
	}
}

type AdminPrescription struct {
	ID                   string   `json:"id"`
	Date                 string   `json:"date"`
	PrescriptionDateTime string   `json:"prescriptionDateTime,omitempty"`
	PatientName          string   `json:"patientName"`
	DoctorName           string   `json:"doctorName"`
	HospitalName         string   `json:"hospitalName"`
	DepartmentName       string   `json:"departmentName"`
	Medicines            []string `json:"medicines"`
	Drugs                []string `json:"drugs,omitempty"`
}

// When prefers Date and falls back to PrescriptionDateTime.
func (p AdminPrescription) When() string {
	if p.Date != "" {
		return p.Date
	}
	return p.PrescriptionDateTime
}

// AllMedicines merges Medicines and Drugs, dropping duplicates.
func (p AdminPrescription) AllMedicines() []string {
	seen := make(map[string]struct{}, len(p.Medicines)+len(p.Drugs))
	out := make([]string, 0, len(p.Medicines)+len(p.Drugs))
	for _, list := range [][]string{p.Medicines, p.Drugs} {
		for _, m := range list {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	return out
}

type AdminWaitingItem struct {
	ID                string `json:"id"`
	PatientName       string `json:"patientName"`
	PatientNationalID string `json:"patientNationalId"`
	DoctorName        string `json:"doctorName"`
	HospitalName      string `json:"hospitalName"`
	DepartmentName    string `json:"departmentName"`
	RequestedDateTime string `json:"requestedDateTime"`
}

// AdminUser is an administrator account. Only Username is guaranteed.
type AdminUser struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Email      string `json:"email,omitempty"`
	NationalID string `json:"nationalId,omitempty"`
}

// NewAdminUser is the create payload for an admin account.
type NewAdminUser struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Email      string `json:"email,omitempty"`
	NationalID string `json:"nationalId,omitempty"`
}

type DashboardSummary struct {
	TotalHospitals          int `json:"totalHospitals"`
	TotalDepartments        int `json:"totalDepartments"`
	TotalDoctors            int `json:"totalDoctors"`
	TotalPatients           int `json:"totalPatients"`
	TotalAppointments       int `json:"totalAppointments"`
	TotalActiveAppointments int `json:"totalActiveAppointments"`
	TotalWaitingList        int `json:"totalWaitingList"`
}
