package mockapi

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/wolfman30/mhrs-booking/internal/domain"
)

// appointmentView resolves the doctor, hospital and department of a slot.
type appointmentView struct {
	appointmentRec
	doctor     doctorRec
	hospital   string
	department string
}

func (d *dataset) view(a appointmentRec) appointmentView {
	v := appointmentView{appointmentRec: a}
	if doc, ok := d.doctorByNID(a.DoctorNID); ok {
		v.doctor = *doc
		v.hospital = d.hospitalName(doc.HospitalID)
		v.department = d.departmentName(doc.DepartmentID)
	}
	return v
}

// isPast reports whether the visit happened: completed, or booked with its
// time already gone.
func (s *Server) isPast(a appointmentRec) bool {
	if a.Status == domain.StatusCompleted {
		return true
	}
	return a.Status == domain.StatusBooked && a.At.Before(s.now())
}

func (s *Server) isUpcoming(a appointmentRec) bool {
	return a.PatientNID != "" && !a.At.Before(s.now()) && a.Status != domain.StatusCompleted
}

// collect returns the appointments matching keep, newest first when desc.
func (s *Server) collect(keep func(appointmentRec) bool, desc bool) []appointmentView {
	var out []appointmentView
	for _, a := range s.data.appointments {
		if keep(a) {
			out = append(out, s.data.view(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].At.After(out[j].At)
		}
		return out[i].At.Before(out[j].At)
	})
	return out
}

func (s *Server) patientInfo(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data.patientByNID(subject(r))
	if !ok {
		writeError(w, http.StatusNotFound, "patient not found")
		return
	}
	writeJSON(w, http.StatusOK, p.PatientInfo)
}

func (s *Server) patientPast(w http.ResponseWriter, r *http.Request) {
	nid := subject(r)
	s.mu.Lock()
	views := s.collect(func(a appointmentRec) bool { return a.PatientNID == nid && s.isPast(a) }, true)
	s.mu.Unlock()

	out := make([]domain.PatientPastAppointment, 0, len(views))
	for _, v := range views {
		out = append(out, domain.PatientPastAppointment{
			ID:               v.ID,
			SlotDateTime:     v.At.Format(wireLayout),
			DoctorFirstName:  v.doctor.FirstName,
			DoctorLastName:   v.doctor.LastName,
			HospitalName:     v.hospital,
			DepartmentName:   v.department,
			PrescriptionText: v.Prescription,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) patientFuture(w http.ResponseWriter, r *http.Request) {
	nid := subject(r)
	s.mu.Lock()
	views := s.collect(func(a appointmentRec) bool { return a.PatientNID == nid && s.isUpcoming(a) }, false)
	s.mu.Unlock()

	out := make([]domain.PatientFutureAppointment, 0, len(views))
	for _, v := range views {
		out = append(out, domain.PatientFutureAppointment{
			ID:              v.ID,
			SlotDateTime:    v.At.Format(wireLayout),
			DoctorFirstName: v.doctor.FirstName,
			DoctorLastName:  v.doctor.LastName,
			HospitalName:    v.hospital,
			DepartmentName:  v.department,
			Status:          v.Status,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type appointmentResult struct {
	ID     int64                    `json:"id"`
	Status domain.AppointmentStatus `json:"status"`
}

func (s *Server) patientCancel(w http.ResponseWriter, r *http.Request) {
	nid := subject(r)
	s.cancelAppointment(w, r, domain.RolePatient, func(a appointmentRec) bool { return a.PatientNID == nid })
}

// cancelAppointment flips a booked appointment owned by the caller to the
// role's cancelled status. The slot becomes bookable again.
func (s *Server) cancelAppointment(w http.ResponseWriter, r *http.Request, role domain.Role, owns func(appointmentRec) bool) {
	id, ok := pathInt64(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.data.appointment(id)
	if !ok || !owns(*a) {
		writeError(w, http.StatusNotFound, "appointment not found")
		return
	}
	if a.Status != domain.StatusBooked || a.At.Before(s.now()) {
		writeError(w, http.StatusConflict, "appointment cannot be cancelled")
		return
	}
	a.Status = domain.CancelledBy(role)
	s.logger.Info("appointment cancelled", "appointment_id", id, "by", role)
	writeJSON(w, http.StatusOK, appointmentResult{ID: a.ID, Status: a.Status})
}

func (s *Server) patientBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt64(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	nid := subject(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.data.appointment(id)
	if !ok {
		writeError(w, http.StatusNotFound, "appointment not found")
		return
	}
	if a.taken() {
		writeError(w, http.StatusConflict, "slot already booked")
		return
	}
	if a.At.Before(s.now()) {
		writeError(w, http.StatusBadRequest, "slot is in the past")
		return
	}
	a.PatientNID = nid
	a.Status = domain.StatusBooked
	a.Prescription = nil
	s.logger.Info("appointment booked", "appointment_id", id)
	writeJSON(w, http.StatusOK, appointmentResult{ID: a.ID, Status: a.Status})
}

func (d *dataset) waitingItem(rec waitingRec) domain.WaitingListItem {
	item := domain.WaitingListItem{
		WaitingID:         rec.ID,
		Level:             rec.Level,
		PatientName:       d.patientName(rec.PatientNID),
		PatientNationalID: rec.PatientNID,
		RequestDateTime:   rec.RequestedAt.Format(wireLayout),
	}
	departmentID := rec.DepartmentID
	if rec.Level == domain.WaitingLevelDoctor {
		item.DoctorNationalID = strconv.FormatInt(rec.DoctorNID, 10)
		if doc, ok := d.doctorByNID(rec.DoctorNID); ok {
			item.DoctorName = doc.title()
			departmentID = doc.DepartmentID
		}
	}
	if dep, ok := d.department(departmentID); ok {
		item.DepartmentID = strconv.FormatInt(dep.ID, 10)
		item.DepartmentName = dep.Name
		item.HospitalID = dep.HospitalID
		item.HospitalName = d.hospitalName(dep.HospitalID)
	}
	return item
}

func (s *Server) waitingItems(keep func(waitingRec) bool) []domain.WaitingListItem {
	out := make([]domain.WaitingListItem, 0)
	for _, rec := range s.data.waiting {
		if keep(rec) {
			out = append(out, s.data.waitingItem(rec))
		}
	}
	return out
}

func (s *Server) patientWaitingList(w http.ResponseWriter, r *http.Request) {
	nid := subject(r)
	s.mu.Lock()
	out := s.waitingItems(func(rec waitingRec) bool { return rec.PatientNID == nid })
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) patientLeaveWaitingList(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt64(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	nid := subject(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !removeWhere(&s.data.waiting, func(rec waitingRec) bool { return rec.ID == id && rec.PatientNID == nid }) {
		writeError(w, http.StatusNotFound, "waiting entry not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"waitingId": id})
}

func (s *Server) joinDoctorWaitingList(w http.ResponseWriter, r *http.Request) {
	s.joinWaitingList(w, r, domain.WaitingLevelDoctor)
}

func (s *Server) joinDepartmentWaitingList(w http.ResponseWriter, r *http.Request) {
	s.joinWaitingList(w, r, domain.WaitingLevelDepartment)
}

// joinWaitingList enrolls the caller. The {id} is a doctor national id or a
// department id depending on level.
func (s *Server) joinWaitingList(w http.ResponseWriter, r *http.Request, level string) {
	id, ok := pathInt64(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req domain.WaitingListRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	nid := subject(r)
	if req.PatientNationalID != "" && req.PatientNationalID != nid {
		writeError(w, http.StatusForbidden, "cannot enroll another patient")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec := waitingRec{Level: level, PatientNID: nid, RequestedAt: s.now().UTC()}
	switch level {
	case domain.WaitingLevelDoctor:
		doc, ok := s.data.doctorByNID(id)
		if !ok {
			writeError(w, http.StatusNotFound, "doctor not found")
			return
		}
		rec.DoctorNID = doc.NationalID
		rec.DepartmentID = doc.DepartmentID
	default:
		if _, ok := s.data.department(id); !ok {
			writeError(w, http.StatusNotFound, "department not found")
			return
		}
		rec.DepartmentID = id
	}
	for _, existing := range s.data.waiting {
		if existing.PatientNID == nid && existing.Level == level &&
			existing.DoctorNID == rec.DoctorNID && existing.DepartmentID == rec.DepartmentID {
			writeError(w, http.StatusConflict, "already on the waiting list")
			return
		}
	}
	rec.ID = s.data.next(prefixWaiting)
	s.data.waiting = append(s.data.waiting, rec)
	s.logger.Info("waiting list joined", "waiting_id", rec.ID, "level", level)
	writeJSON(w, http.StatusCreated, s.data.waitingItem(rec))
}
