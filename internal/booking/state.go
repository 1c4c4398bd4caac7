package booking

import (
	"time"

	"github.com/wolfman30/mhrs-booking/internal/domain"
)

// DoctorSlots is one doctor of the selected department with their slots on
// the selected date.
type DoctorSlots struct {
	Doctor domain.DoctorListDTO
	Slots  []domain.Slot
}

// Full reports whether the doctor has slots and every one of them is booked.
// A doctor without slots is not full.
func (d DoctorSlots) Full() bool {
	if len(d.Slots) == 0 {
		return false
	}
	for _, s := range d.Slots {
		if !s.IsBooked {
			return false
		}
	}
	return true
}

// FreeCount is the number of slots still bookable.
func (d DoctorSlots) FreeCount() int {
	n := 0
	for _, s := range d.Slots {
		if !s.IsBooked {
			n++
		}
	}
	return n
}

func (d DoctorSlots) allBooked() bool {
	for _, s := range d.Slots {
		if !s.IsBooked {
			return false
		}
	}
	return true
}

func (d DoctorSlots) clone() DoctorSlots {
	d.Slots = append([]domain.Slot(nil), d.Slots...)
	return d
}

// SelectedSlot is the slot picked for booking.
type SelectedSlot struct {
	DoctorID int64
	Slot     domain.Slot
}

// State is a copy of the wizard's selections and option lists.
type State struct {
	Date       time.Time
	City       string
	Hospital   *domain.HospitalDTO
	Department *domain.DepartmentDTO
	DoctorID   int64
	Slot       *SelectedSlot

	Cities      []string
	Hospitals   []domain.HospitalDTO
	Departments []domain.DepartmentDTO
	Doctors     []DoctorSlots
	SlotsLoaded bool

	Loading map[Stage]bool
}

func (s State) HasDate() bool { return !s.Date.IsZero() }

// Enabled reports whether stage accepts a selection given the earlier ones.
func (s State) Enabled(stage Stage) bool {
	switch stage {
	case StageDate:
		return true
	case StageCity:
		return s.HasDate()
	case StageHospital:
		return s.HasDate() && s.City != ""
	case StageDepartment:
		return s.HasDate() && s.City != "" && s.Hospital != nil
	case StageDoctor, StageSlot:
		return s.HasDate() && s.City != "" && s.Hospital != nil && s.Department != nil
	}
	return false
}

// VisibleDoctors is the doctor list narrowed to DoctorID when one is chosen.
func (s State) VisibleDoctors() []DoctorSlots {
	if s.DoctorID == 0 {
		return s.Doctors
	}
	for _, d := range s.Doctors {
		if d.Doctor.DoctorNationalID == s.DoctorID {
			return []DoctorSlots{d}
		}
	}
	return nil
}

func (s State) doctor(id int64) (DoctorSlots, int, bool) {
	for i, d := range s.Doctors {
		if d.Doctor.DoctorNationalID == id {
			return d, i, true
		}
	}
	return DoctorSlots{}, -1, false
}

// DoctorFull reports whether the doctor has slots on the date and all are booked.
func (s State) DoctorFull(id int64) bool {
	d, _, ok := s.doctor(id)
	return ok && d.Full()
}

// DepartmentFull reports whether the department has at least one doctor and
// no doctor has a free slot on the date. It is false until slots loaded.
func (s State) DepartmentFull() bool {
	return s.SlotsLoaded && DepartmentFull(s.Doctors)
}

// DepartmentFull reports whether a department with these doctors has no free
// slot left. An empty department is not full.
func DepartmentFull(doctors []DoctorSlots) bool {
	if len(doctors) == 0 {
		return false
	}
	for _, d := range doctors {
		if !d.allBooked() {
			return false
		}
	}
	return true
}

func (s State) clone() State {
	out := s
	if s.Hospital != nil {
		h := *s.Hospital
		out.Hospital = &h
	}
	if s.Department != nil {
		d := *s.Department
		out.Department = &d
	}
	if s.Slot != nil {
		sl := *s.Slot
		out.Slot = &sl
	}
	out.Cities = append([]string(nil), s.Cities...)
	out.Hospitals = append([]domain.HospitalDTO(nil), s.Hospitals...)
	out.Departments = append([]domain.DepartmentDTO(nil), s.Departments...)
	out.Doctors = make([]DoctorSlots, 0, len(s.Doctors))
	for _, d := range s.Doctors {
		out.Doctors = append(out.Doctors, d.clone())
	}
	out.Loading = make(map[Stage]bool, len(s.Loading))
	for k, v := range s.Loading {
		out.Loading[k] = v
	}
	return out
}
