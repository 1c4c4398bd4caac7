package mockapi

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/wolfman30/mhrs-booking/internal/domain"
	"github.com/wolfman30/mhrs-booking/internal/textsearch"
)

func (h hospitalRec) dto() domain.HospitalDTO {
	return domain.HospitalDTO{
		HospitalID:    h.ID,
		Name:          h.Name,
		City:          h.City,
		District:      h.District,
		StreetAddress: h.Street,
		PhoneNumber:   h.Phone,
	}
}

func (s *Server) cities(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	seen := map[string]struct{}{}
	cities := make([]string, 0, len(s.data.hospitals))
	for _, h := range s.data.hospitals {
		if _, ok := seen[h.City]; ok {
			continue
		}
		seen[h.City] = struct{}{}
		cities = append(cities, h.City)
	}
	s.mu.Unlock()

	textsearch.Sort(cities, func(c string) string { return c })
	writeJSON(w, http.StatusOK, cities)
}

func (s *Server) searchHospitals(w http.ResponseWriter, r *http.Request) {
	city := textsearch.Fold(strings.TrimSpace(r.URL.Query().Get("city")))
	if city == "" {
		writeError(w, http.StatusBadRequest, "city is required")
		return
	}
	district := textsearch.Fold(strings.TrimSpace(r.URL.Query().Get("district")))

	s.mu.Lock()
	out := make([]domain.HospitalDTO, 0)
	for _, h := range s.data.hospitals {
		if textsearch.Fold(h.City) != city {
			continue
		}
		if district != "" && textsearch.Fold(h.District) != district {
			continue
		}
		out = append(out, h.dto())
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) allHospitals(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]domain.HospitalDTO, 0, len(s.data.hospitals))
	for _, h := range s.data.hospitals {
		out = append(out, h.dto())
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) departmentsByHospital(w http.ResponseWriter, r *http.Request) {
	hospitalID, ok := queryInt64(r, "hospitalId")
	if !ok {
		writeError(w, http.StatusBadRequest, "hospitalId is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.hospital(hospitalID); !ok {
		writeError(w, http.StatusNotFound, "hospital not found")
		return
	}
	out := make([]domain.DepartmentDTO, 0)
	for _, d := range s.data.departments {
		if d.HospitalID == hospitalID {
			out = append(out, domain.DepartmentDTO{DepartmentID: d.ID, BranchName: d.Name, HospitalID: d.HospitalID})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) doctorsByDepartment(w http.ResponseWriter, r *http.Request) {
	departmentID, ok := queryInt64(r, "departmentId")
	if !ok {
		writeError(w, http.StatusBadRequest, "departmentId is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.department(departmentID); !ok {
		writeError(w, http.StatusNotFound, "department not found")
		return
	}
	out := make([]domain.DoctorListDTO, 0)
	for _, d := range s.data.doctors {
		if d.DepartmentID == departmentID {
			out = append(out, domain.DoctorListDTO{
				DoctorNationalID: d.NationalID,
				FirstName:        d.FirstName,
				LastName:         d.LastName,
				DepartmentID:     d.DepartmentID,
				HospitalID:       d.HospitalID,
			})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) doctorSlots(w http.ResponseWriter, r *http.Request) {
	nid, ok := queryInt64(r, "doctorNationalId")
	if !ok {
		writeError(w, http.StatusBadRequest, "doctorNationalId is required")
		return
	}
	date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	day := date.Format("2006-01-02")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.doctorByNID(nid); !ok {
		writeError(w, http.StatusNotFound, "doctor not found")
		return
	}
	var recs []appointmentRec
	for _, a := range s.data.appointments {
		if a.DoctorNID == nid && a.At.Format("2006-01-02") == day && a.Status != domain.StatusCompleted {
			recs = append(recs, a)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].At.Before(recs[j].At) })

	out := make([]domain.DoctorSlotDTO, 0, len(recs))
	for _, a := range recs {
		status := "EMPTY"
		if a.taken() {
			status = strings.ToUpper(domain.SlotStatusBooked)
		}
		out = append(out, domain.DoctorSlotDTO{AppointmentID: a.ID, SlotDateTime: a.At.Format(wireLayout), Status: status})
	}
	writeJSON(w, http.StatusOK, out)
}

// createHospital serves POST /hospital.
func (s *Server) createHospital(w http.ResponseWriter, r *http.Request) {
	var req domain.HospitalDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.City) == "" {
		writeError(w, http.StatusBadRequest, "name and city are required")
		return
	}
	s.mu.Lock()
	rec := hospitalRec{
		ID:       s.data.next(prefixHospital),
		Name:     strings.TrimSpace(req.Name),
		City:     strings.TrimSpace(req.City),
		District: strings.TrimSpace(req.District),
		Street:   req.StreetAddress,
		Phone:    req.PhoneNumber,
	}
	s.data.hospitals = append(s.data.hospitals, rec)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, rec.dto())
}

// createDepartment serves POST /department.
func (s *Server) createDepartment(w http.ResponseWriter, r *http.Request) {
	var req domain.DepartmentDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.BranchName) == "" {
		writeError(w, http.StatusBadRequest, "branchName is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.hospital(req.HospitalID); !ok {
		writeError(w, http.StatusNotFound, "hospital not found")
		return
	}
	rec := departmentRec{ID: s.data.next(prefixDepartment), Name: strings.TrimSpace(req.BranchName), HospitalID: req.HospitalID}
	s.data.departments = append(s.data.departments, rec)
	writeJSON(w, http.StatusCreated, domain.DepartmentDTO{DepartmentID: rec.ID, BranchName: rec.Name, HospitalID: rec.HospitalID})
}

// deleteDepartment serves DELETE /department/{id}.
func (s *Server) deleteDepartment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathInt64(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.data.removeDepartment(id) {
		writeError(w, http.StatusNotFound, "department not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
