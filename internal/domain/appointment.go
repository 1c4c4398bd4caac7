package domain

import "strings"

// AppointmentStatus is the closed set of appointment states. Once cancelled,
// the status records which party cancelled.
type AppointmentStatus string

const (
	StatusBooked             AppointmentStatus = "BOOKED"
	StatusCancelledByDoctor  AppointmentStatus = "CANCELLED_BY_DOCTOR"
	StatusCancelledByPatient AppointmentStatus = "CANCELLED_BY_PATIENT"
	StatusCompleted          AppointmentStatus = "COMPLETED"

	// Admin log buckets.
	StatusPast   AppointmentStatus = "PAST"
	StatusFuture AppointmentStatus = "FUTURE"
)

// Normalize upper-cases the status so "booked" and "BOOKED" compare equal.
func (s AppointmentStatus) Normalize() AppointmentStatus {
	return AppointmentStatus(strings.ToUpper(strings.TrimSpace(string(s))))
}

func (s AppointmentStatus) IsCancelled() bool {
	return strings.HasPrefix(string(s.Normalize()), "CANCELLED")
}

// IsActive reports whether the appointment still occupies its slot.
func (s AppointmentStatus) IsActive() bool {
	n := s.Normalize()
	return !n.IsCancelled() && n != StatusCompleted && n != StatusPast
}

// CancelledBy returns the cancelled variant recorded when role cancels.
func CancelledBy(role Role) AppointmentStatus {
	if role == RoleDoctor {
		return StatusCancelledByDoctor
	}
	return StatusCancelledByPatient
}

// PatientPastAppointment is a completed visit as seen by the patient.
type PatientPastAppointment struct {
	ID               int64   `json:"id"`
	SlotDateTime     string  `json:"slotDateTime"`
	DoctorFirstName  string  `json:"doctorFirstName"`
	DoctorLastName   string  `json:"doctorLastName"`
	HospitalName     string  `json:"hospitalName"`
	DepartmentName   string  `json:"departmentName"`
	PrescriptionText *string `json:"prescriptionText"`
}

// PatientFutureAppointment is an upcoming visit as seen by the patient.
type PatientFutureAppointment struct {
	ID              int64             `json:"id"`
	SlotDateTime    string            `json:"slotDateTime"`
	DoctorFirstName string            `json:"doctorFirstName"`
	DoctorLastName  string            `json:"doctorLastName"`
	HospitalName    string            `json:"hospitalName"`
	DepartmentName  string            `json:"departmentName"`
	Status          AppointmentStatus `json:"status"`
}

// DoctorPastAppointment is a completed visit as seen by the doctor.
type DoctorPastAppointment struct {
	ID               int64  `json:"id"`
	DateTime         string `json:"dateTime"`
	PatientFirstName string `json:"patientFirstName"`
	PatientLastName  string `json:"patientLastName"`
	PrescriptionText string `json:"prescriptionText"`
}

// DoctorFutureAppointment is an upcoming visit as seen by the doctor.
type DoctorFutureAppointment struct {
	ID               int64             `json:"id"`
	DateTime         string            `json:"dateTime"`
	PatientFirstName string            `json:"patientFirstName"`
	PatientLastName  string            `json:"patientLastName"`
	Status           AppointmentStatus `json:"status"`
}
