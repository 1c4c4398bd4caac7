// Package appointments keeps the patient's and the doctor's appointment
// lists and waiting lists, and applies cancellations locally once the
// backend accepted them.
package appointments

import (
	"strings"

	"github.com/wolfman30/mhrs-booking/internal/domain"
)

// Entry is one appointment row, the same shape for patients and doctors.
type Entry struct {
	ID              int64
	When            string
	Counterparty    string
	Hospital        string
	Department      string
	Status          domain.AppointmentStatus
	Prescription    string
	HasPrescription bool
}

// Date is the YYYY-MM-DD part of When.
func (e Entry) Date() string {
	if len(e.When) >= 10 {
		return e.When[:10]
	}
	return e.When
}

// Time is the HH:mm part of When.
func (e Entry) Time() string {
	if len(e.When) >= 16 {
		return e.When[11:16]
	}
	return ""
}

func (e Entry) Cancelled() bool { return e.Status.IsCancelled() }

// CancelMessage is the notice shown on a cancelled row for viewer, or "".
func (e Entry) CancelMessage(viewer domain.Role) string {
	if !e.Cancelled() {
		return ""
	}
	if viewer == domain.RoleDoctor {
		return "Bu randevu iptal edilmiştir."
	}
	switch e.Status.Normalize() {
	case domain.StatusCancelledByDoctor:
		return "Bu randevunuz doktor tarafından iptal edilmiştir."
	case domain.StatusCancelledByPatient:
		return "Bu randevunuz hasta tarafından iptal edilmiştir."
	}
	return "Bu randevunuz iptal edilmiştir."
}

func doctorTitle(first, last string) string {
	name := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
	if name == "" || strings.HasPrefix(name, "Dr.") {
		return name
	}
	return "Dr. " + name
}

func fromPatientFuture(a domain.PatientFutureAppointment) Entry {
	return Entry{
		ID:           a.ID,
		When:         a.SlotDateTime,
		Counterparty: doctorTitle(a.DoctorFirstName, a.DoctorLastName),
		Hospital:     a.HospitalName,
		Department:   a.DepartmentName,
		Status:       a.Status.Normalize(),
	}
}

func fromPatientPast(a domain.PatientPastAppointment) Entry {
	e := Entry{
		ID:           a.ID,
		When:         a.SlotDateTime,
		Counterparty: doctorTitle(a.DoctorFirstName, a.DoctorLastName),
		Hospital:     a.HospitalName,
		Department:   a.DepartmentName,
		Status:       domain.StatusCompleted,
	}
	if a.PrescriptionText != nil {
		e.Prescription = *a.PrescriptionText
		e.HasPrescription = true
	}
	return e
}

func fromDoctorFuture(a domain.DoctorFutureAppointment) Entry {
	return Entry{
		ID:           a.ID,
		When:         a.DateTime,
		Counterparty: strings.TrimSpace(a.PatientFirstName + " " + a.PatientLastName),
		Status:       a.Status.Normalize(),
	}
}

func fromDoctorPast(a domain.DoctorPastAppointment) Entry {
	return Entry{
		ID:              a.ID,
		When:            a.DateTime,
		Counterparty:    strings.TrimSpace(a.PatientFirstName + " " + a.PatientLastName),
		Status:          domain.StatusCompleted,
		Prescription:    a.PrescriptionText,
		HasPrescription: strings.TrimSpace(a.PrescriptionText) != "",
	}
}
