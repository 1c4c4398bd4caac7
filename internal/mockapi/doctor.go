package mockapi

import (
	"net/http"
	"strconv"

	"github.com/wolfman30/mhrs-booking/internal/domain"
)

// callerDoctor resolves the authenticated doctor. Callers hold s.mu.
func (s *Server) callerDoctor(r *http.Request) (*doctorRec, bool) {
	nid, err := strconv.ParseInt(subject(r), 10, 64)
	if err != nil {
		return nil, false
	}
	return s.data.doctorByNID(nid)
}

func (s *Server) doctorInfo(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.callerDoctor(r)
	if !ok {
		writeError(w, http.StatusNotFound, "doctor not found")
		return
	}
	writeJSON(w, http.StatusOK, domain.DoctorInfo{
		FirstName:      doc.FirstName,
		LastName:       doc.LastName,
		NationalID:     strconv.FormatInt(doc.NationalID, 10),
		HospitalName:   s.data.hospitalName(doc.HospitalID),
		DepartmentName: s.data.departmentName(doc.DepartmentID),
	})
}

func (s *Server) doctorPast(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.callerDoctor(r)
	if !ok {
		writeError(w, http.StatusNotFound, "doctor not found")
		return
	}
	views := s.collect(func(a appointmentRec) bool { return a.DoctorNID == doc.NationalID && a.PatientNID != "" && s.isPast(a) }, true)
	out := make([]domain.DoctorPastAppointment, 0, len(views))
	for _, v := range views {
		p, _ := s.data.patientByNID(v.PatientNID)
		item := domain.DoctorPastAppointment{ID: v.ID, DateTime: v.At.Format(wireLayout)}
		if p != nil {
			item.PatientFirstName, item.PatientLastName = p.FirstName, p.LastName
		}
		if v.Prescription != nil {
			item.PrescriptionText = *v.Prescription
		}
		out = append(out, item)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) doctorFuture(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.callerDoctor(r)
	if !ok {
		writeError(w, http.StatusNotFound, "doctor not found")
		return
	}
	views := s.collect(func(a appointmentRec) bool { return a.DoctorNID == doc.NationalID && s.isUpcoming(a) }, false)
	out := make([]domain.DoctorFutureAppointment, 0, len(views))
	for _, v := range views {
		p, _ := s.data.patientByNID(v.PatientNID)
		item := domain.DoctorFutureAppointment{ID: v.ID, DateTime: v.At.Format(wireLayout), Status: v.Status}
		if p != nil {
			item.PatientFirstName, item.PatientLastName = p.FirstName, p.LastName
		}
		out = append(out, item)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) doctorCancel(w http.ResponseWriter, r *http.Request) {
	nid, _ := strconv.ParseInt(subject(r), 10, 64)
	s.cancelAppointment(w, r, domain.RoleDoctor, func(a appointmentRec) bool { return a.DoctorNID == nid })
}

// doctorWaitingList returns entries for the doctor and for the doctor's
// department.
func (s *Server) doctorWaitingList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.callerDoctor(r)
	if !ok {
		writeError(w, http.StatusNotFound, "doctor not found")
		return
	}
	out := s.waitingItems(func(rec waitingRec) bool {
		if rec.Level == domain.WaitingLevelDoctor {
			return rec.DoctorNID == doc.NationalID
		}
		return rec.DepartmentID == doc.DepartmentID
	})
	writeJSON(w, http.StatusOK, out)
}
