package domain

import "strings"

// BloodGroups are the values offered on the registration form.
var BloodGroups = []string{
	"A Rh(+)", "A Rh(-)",
	"B Rh(+)", "B Rh(-)",
	"AB Rh(+)", "AB Rh(-)",
	"0 Rh(+)", "0 Rh(-)",
}

// DefaultBloodGroup is preselected on the registration form.
const DefaultBloodGroup = "A Rh(+)"

// IsBloodGroup reports whether s is one of BloodGroups.
func IsBloodGroup(s string) bool {
	for _, g := range BloodGroups {
		if g == s {
			return true
		}
	}
	return false
}

// PatientInfo is the patient's own profile. Created at registration and
// read-only everywhere else.
type PatientInfo struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	NationalID string `json:"nationalId"`
	BloodGroup string `json:"bloodGroup"`
	HeightCm   int    `json:"heightCm"`
	WeightKg   int    `json:"weightKg"`
}

func (p PatientInfo) FullName() string { return joinName(p.FirstName, p.LastName) }

// DoctorInfo is a denormalized read view of a doctor's current assignment.
type DoctorInfo struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	NationalID     string `json:"nationalId"`
	HospitalName   string `json:"hospitalName"`
	DepartmentName string `json:"departmentName"`
}

func (d DoctorInfo) FullName() string { return joinName(d.FirstName, d.LastName) }

func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
