package mockapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/mhrs-booking/internal/domain"
	"github.com/wolfman30/mhrs-booking/internal/textsearch"
)

// defaultPassword is assigned to doctors and patients created by an admin.
const defaultPassword = "1234"

const defaultLogPageSize = 10

// adminPathID parses a prefixed {id} ("h3", "doc1").
func adminPathID(r *http.Request, prefix string) (int64, bool) {
	return parseID(prefix, chi.URLParam(r, "id"))
}

func (s *Server) dashboardSummary(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := domain.DashboardSummary{
		TotalHospitals:   len(s.data.hospitals),
		TotalDepartments: len(s.data.departments),
		TotalDoctors:     len(s.data.doctors),
		TotalPatients:    len(s.data.patients),
		TotalWaitingList: len(s.data.waiting),
	}
	for _, a := range s.data.appointments {
		if a.PatientNID == "" {
			continue
		}
		sum.TotalAppointments++
		if a.Status == domain.StatusBooked && !a.At.Before(s.now()) {
			sum.TotalActiveAppointments++
		}
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) adminHospitals(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]domain.AdminHospital, 0, len(s.data.hospitals))
	for _, h := range s.data.hospitals {
		out = append(out, domain.AdminHospital{ID: formatID(prefixHospital, h.ID), Name: h.Name, City: h.City, District: h.District})
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) adminCreateHospital(w http.ResponseWriter, r *http.Request) {
	var req domain.AdminHospital
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
	}
	s.data.hospitals = append(s.data.hospitals, rec)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, domain.AdminHospital{ID: formatID(prefixHospital, rec.ID), Name: rec.Name, City: rec.City, District: rec.District})
}

func (s *Server) adminDeleteHospital(w http.ResponseWriter, r *http.Request) {
	id, ok := adminPathID(r, prefixHospital)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !ok || !s.data.removeHospital(id) {
		writeError(w, http.StatusNotFound, "hospital not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) adminDepartments(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]domain.AdminDepartment, 0, len(s.data.departments))
	for _, d := range s.data.departments {
		out = append(out, domain.AdminDepartment{
			ID:         formatID(prefixDepartment, d.ID),
			Name:       d.Name,
			HospitalID: formatID(prefixHospital, d.HospitalID),
		})
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) adminCreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req domain.AdminDepartment
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	hospitalID, ok := parseID(prefixHospital, req.HospitalID)
	if _, exists := s.data.hospital(hospitalID); !ok || !exists {
		writeError(w, http.StatusBadRequest, "unknown hospital")
		return
	}
	rec := departmentRec{ID: s.data.next(prefixDepartment), Name: strings.TrimSpace(req.Name), HospitalID: hospitalID}
	s.data.departments = append(s.data.departments, rec)
	writeJSON(w, http.StatusCreated, domain.AdminDepartment{
		ID:         formatID(prefixDepartment, rec.ID),
		Name:       rec.Name,
		HospitalID: formatID(prefixHospital, rec.HospitalID),
	})
}

func (s *Server) adminDeleteDepartment(w http.ResponseWriter, r *http.Request) {
	id, ok := adminPathID(r, prefixDepartment)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !ok || !s.data.removeDepartment(id) {
		writeError(w, http.StatusNotFound, "department not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (d doctorRec) admin() domain.AdminDoctor {
	return domain.AdminDoctor{
		ID:           formatID(prefixDoctor, d.ID),
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		NationalID:   strconv.FormatInt(d.NationalID, 10),
		HospitalID:   formatID(prefixHospital, d.HospitalID),
		DepartmentID: formatID(prefixDepartment, d.DepartmentID),
	}
}

func (s *Server) adminDoctors(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]domain.AdminDoctor, 0, len(s.data.doctors))
	for _, d := range s.data.doctors {
		out = append(out, d.admin())
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) adminCreateDoctor(w http.ResponseWriter, r *http.Request) {
	var req domain.AdminDoctor
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if !isNationalID(req.NationalID) {
		writeError(w, http.StatusBadRequest, "national id must be 11 digits")
		return
	}
	nid, _ := strconv.ParseInt(req.NationalID, 10, 64)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data.doctorByNID(nid); exists {
		writeError(w, http.StatusConflict, "doctor already exists")
		return
	}
	hospitalID, _ := parseID(prefixHospital, req.HospitalID)
	departmentID, _ := parseID(prefixDepartment, req.DepartmentID)
	dep, ok := s.data.department(departmentID)
	if !ok || dep.HospitalID != hospitalID {
		writeError(w, http.StatusBadRequest, "department does not belong to hospital")
		return
	}
	rec := doctorRec{
		ID:           s.data.next(prefixDoctor),
		NationalID:   nid,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		HospitalID:   hospitalID,
		DepartmentID: departmentID,
		Password:     defaultPassword,
	}
	s.data.doctors = append(s.data.doctors, rec)
	writeJSON(w, http.StatusCreated, rec.admin())
}

func (s *Server) adminDeleteDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := adminPathID(r, prefixDoctor)
	s.mu.Lock()
	defer s.mu.Unlock()
	var nid int64
	if ok && !removeWhere(&s.data.doctors, func(d doctorRec) bool {
		if d.ID == id {
			nid = d.NationalID
			return true
		}
		return false
	}) {
		ok = false
	}
	if !ok {
		writeError(w, http.StatusNotFound, "doctor not found")
		return
	}
	removeWhere(&s.data.waiting, func(rec waitingRec) bool {
		return rec.Level == domain.WaitingLevelDoctor && rec.DoctorNID == nid
	})
	w.WriteHeader(http.StatusNoContent)
}

func (p patientRec) admin() domain.AdminPatient {
	return domain.AdminPatient{
		ID:         formatID(prefixPatient, p.ID),
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		NationalID: p.NationalID,
		BloodGroup: p.BloodGroup,
		HeightCm:   p.HeightCm,
		WeightKg:   p.WeightKg,
	}
}

func (s *Server) adminPatients(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]domain.AdminPatient, 0, len(s.data.patients))
	for _, p := range s.data.patients {
		out = append(out, p.admin())
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) adminCreatePatient(w http.ResponseWriter, r *http.Request) {
	var req domain.AdminPatient
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if !isNationalID(req.NationalID) {
		writeError(w, http.StatusBadRequest, "national id must be 11 digits")
		return
	}
	if req.BloodGroup == "" {
		req.BloodGroup = domain.DefaultBloodGroup
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data.patientByNID(req.NationalID); exists {
		writeError(w, http.StatusConflict, "patient already exists")
		return
	}
	rec := patientRec{
		ID: s.data.next(prefixPatient),
		PatientInfo: domain.PatientInfo{
			FirstName:  strings.TrimSpace(req.FirstName),
			LastName:   strings.TrimSpace(req.LastName),
			NationalID: req.NationalID,
			BloodGroup: req.BloodGroup,
			HeightCm:   req.HeightCm,
			WeightKg:   req.WeightKg,
		},
		Password: defaultPassword,
	}
	s.data.patients = append(s.data.patients, rec)
	writeJSON(w, http.StatusCreated, rec.admin())
}

func (s *Server) adminDeletePatient(w http.ResponseWriter, r *http.Request) {
	id, ok := adminPathID(r, prefixPatient)
	s.mu.Lock()
	defer s.mu.Unlock()
	var nid string
	if ok && !removeWhere(&s.data.patients, func(p patientRec) bool {
		if p.ID == id {
			nid = p.NationalID
			return true
		}
		return false
	}) {
		ok = false
	}
	if !ok {
		writeError(w, http.StatusNotFound, "patient not found")
		return
	}
	removeWhere(&s.data.waiting, func(rec waitingRec) bool { return rec.PatientNID == nid })
	w.WriteHeader(http.StatusNoContent)
}

// adminAppointments serves the paged appointment log. Filters: dateFrom and
// dateTo (inclusive, YYYY-MM-DD), status (completed|cancelled|booked),
// search over patient, doctor, hospital and department.
func (s *Server) adminAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("dateFrom"), q.Get("dateTo")
	status := strings.ToLower(strings.TrimSpace(q.Get("status")))
	search := q.Get("search")
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(q.Get("size"))
	if err != nil || size <= 0 {
		size = defaultLogPageSize
	}

	s.mu.Lock()
	views := s.collect(func(a appointmentRec) bool {
		if a.PatientNID == "" {
			return false
		}
		day := a.At.Format("2006-01-02")
		if (from != "" && day < from) || (to != "" && day > to) {
			return false
		}
		return matchesLogStatus(a, status, s.isPast(a))
	}, true)
	rows := make([]domain.AdminAppointment, 0, len(views))
	for _, v := range views {
		row := domain.AdminAppointment{
			ID:                v.ID,
			DateTime:          v.At.Format("2006-01-02 15:04"),
			HospitalName:      v.hospital,
			DepartmentName:    v.department,
			DoctorName:        v.doctor.title(),
			PatientName:       s.data.patientName(v.PatientNID),
			PatientNationalID: v.PatientNID,
			Status:            v.Status,
		}
		if v.Prescription != nil {
			row.PrescriptionText = *v.Prescription
		}
		if search != "" && !textsearch.Contains(textsearch.Join(row.PatientName, row.PatientNationalID, row.DoctorName, row.HospitalName, row.DepartmentName), search) {
			continue
		}
		rows = append(rows, row)
	}
	s.mu.Unlock()

	start := min(page*size, len(rows))
	end := min(start+size, len(rows))
	writeJSON(w, http.StatusOK, rows[start:end])
}

func matchesLogStatus(a appointmentRec, status string, past bool) bool {
	switch status {
	case "":
		return true
	case "completed":
		return past
	case "cancelled":
		return a.Status.IsCancelled()
	case "booked":
		return a.Status == domain.StatusBooked && !past
	}
	return false
}

func (s *Server) adminPrescriptions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]domain.AdminPrescription, 0, len(s.data.prescriptions))
	for _, rx := range s.data.prescriptions {
		item := domain.AdminPrescription{
			ID:          formatID(prefixPrescription, rx.ID),
			Date:        rx.Date,
			PatientName: s.data.patientName(rx.PatientNID),
			Medicines:   rx.Medicines,
		}
		if doc, ok := s.data.doctorByNID(rx.DoctorNID); ok {
			item.DoctorName = doc.title()
			item.HospitalName = s.data.hospitalName(doc.HospitalID)
			item.DepartmentName = s.data.departmentName(doc.DepartmentID)
		}
		out = append(out, item)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) adminDeletePrescription(w http.ResponseWriter, r *http.Request) {
	id, ok := adminPathID(r, prefixPrescription)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !ok || !removeWhere(&s.data.prescriptions, func(rx prescriptionRec) bool { return rx.ID == id }) {
		writeError(w, http.StatusNotFound, "prescription not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) adminWaitingList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]domain.AdminWaitingItem, 0, len(s.data.waiting))
	for _, rec := range s.data.waiting {
		item := s.data.waitingItem(rec)
		out = append(out, domain.AdminWaitingItem{
			ID:                formatID(prefixWaiting, rec.ID),
			PatientName:       item.PatientName,
			PatientNationalID: item.PatientNationalID,
			DoctorName:        item.DoctorName,
			HospitalName:      item.HospitalName,
			DepartmentName:    item.DepartmentName,
			RequestedDateTime: rec.RequestedAt.Format("2006-01-02 15:04"),
		})
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) adminDeleteWaitingItem(w http.ResponseWriter, r *http.Request) {
	id, ok := adminPathID(r, prefixWaiting)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !ok || !removeWhere(&s.data.waiting, func(rec waitingRec) bool { return rec.ID == id }) {
		writeError(w, http.StatusNotFound, "waiting entry not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) adminUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]domain.AdminUser, 0, len(s.data.admins))
	for _, a := range s.data.admins {
		out = append(out, a.AdminUser)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) adminCreateUser(w http.ResponseWriter, r *http.Request) {
	var req domain.NewAdminUser
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}
	if req.NationalID != "" && !isNationalID(req.NationalID) {
		writeError(w, http.StatusBadRequest, "national id must be 11 digits")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.data.admins {
		if a.Username == req.Username {
			writeError(w, http.StatusConflict, "username taken")
			return
		}
	}
	rec := adminRec{
		AdminUser: domain.AdminUser{
			ID:         formatID(prefixAdmin, s.data.next(prefixAdmin)),
			Username:   req.Username,
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			Email:      req.Email,
			NationalID: req.NationalID,
		},
		Password: req.Password,
	}
	s.data.admins = append(s.data.admins, rec)
	writeJSON(w, http.StatusCreated, rec.AdminUser)
}

// adminDeleteUser refuses to delete the caller's own account.
func (s *Server) adminDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	caller := subject(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.data.admins {
		if a.ID == id && a.Username == caller {
			writeError(w, http.StatusConflict, "cannot delete own account")
			return
		}
	}
	if !removeWhere(&s.data.admins, func(a adminRec) bool { return a.ID == id }) {
		writeError(w, http.StatusNotFound, "admin not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
