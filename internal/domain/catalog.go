package domain

import "strings"

// HospitalDTO is returned by the hospital search endpoints.
type HospitalDTO struct {
	HospitalID    int64  `json:"hospitalId"`
	Name          string `json:"name"`
	City          string `json:"city"`
	District      string `json:"district"`
	StreetAddress string `json:"streetAddress"`
	PhoneNumber   string `json:"phoneNumber"`
}

// DepartmentDTO is returned by GET /department/byHospital.
type DepartmentDTO struct {
	DepartmentID int64  `json:"departmentId"`
	BranchName   string `json:"branchName"`
	HospitalID   int64  `json:"hospitalId"`
}

// DoctorListDTO is returned by GET /doctor/by-department.
type DoctorListDTO struct {
	DoctorNationalID int64  `json:"doctorNationalId"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	DepartmentID     int64  `json:"departmentId"`
	HospitalID       int64  `json:"hospitalId"`
}

func (d DoctorListDTO) FullName() string { return joinName(d.FirstName, d.LastName) }

// DoctorSlotDTO is one raw slot from GET /doctor/slots.
type DoctorSlotDTO struct {
	AppointmentID int64  `json:"appointmentId"`
	SlotDateTime  string `json:"slotDateTime"`
	Status        string `json:"status"`
}

// SlotStatusBooked marks a taken slot on the wire.
const SlotStatusBooked = "booked"

// Slot is the bookable unit for one doctor on one date.
type Slot struct {
	AppointmentID int64  `json:"appointmentId"`
	Time          string `json:"time"`
	IsBooked      bool   `json:"isBooked"`
}

// ToSlot reduces the wire slot to its time of day and booked flag.
func (d DoctorSlotDTO) ToSlot() Slot {
	return Slot{
		AppointmentID: d.AppointmentID,
		Time:          TimeOfDay(d.SlotDateTime),
		IsBooked:      strings.EqualFold(strings.TrimSpace(d.Status), SlotStatusBooked),
	}
}

// TimeOfDay extracts "HH:mm" from an ISO-like "YYYY-MM-DDTHH:mm[:ss]" value.
// Shorter values are returned unchanged.
func TimeOfDay(dateTime string) string {
	if len(dateTime) >= 16 {
		return dateTime[11:16]
	}
	return dateTime
}
