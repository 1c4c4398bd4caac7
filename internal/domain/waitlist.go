package domain

// WaitingListItem is one waiting-list enrollment, either for a specific
// doctor or for a whole department (Level).
type WaitingListItem struct {
	WaitingID         int64  `json:"waitingId"`
	Level             string `json:"level"`
	DoctorName        string `json:"doctorName"`
	DoctorNationalID  string `json:"doctorNationalId"`
	HospitalName      string `json:"hospitalName"`
	HospitalID        int64  `json:"hospitalId"`
	DepartmentID      string `json:"departmentId,omitempty"`
	DepartmentName    string `json:"departmentName"`
	PatientName       string `json:"patientName"`
	PatientNationalID string `json:"patientNationalId"`
	RequestDateTime   string `json:"requestDateTime"`
}

// Waiting-list levels.
const (
	WaitingLevelDoctor     = "DOCTOR"
	WaitingLevelDepartment = "DEPARTMENT"
)

// DoctorLabel falls back to the national id when no name is known.
func (w WaitingListItem) DoctorLabel() string {
	if w.DoctorName != "" {
		return w.DoctorName
	}
	return w.DoctorNationalID
}

// WaitingListRequest is the body of the join endpoints.
type WaitingListRequest struct {
	PatientNationalID string `json:"patientNationalId"`
}
