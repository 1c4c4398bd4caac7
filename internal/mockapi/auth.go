package mockapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/wolfman30/mhrs-booking/internal/domain"
	httpmiddleware "github.com/wolfman30/mhrs-booking/internal/http/middleware"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	role, err := domain.ParseRole(string(req.UserType))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown user type")
		return
	}

	var (
		subjectID string
		first     string
		last      string
		ok        bool
	)
	s.mu.Lock()
	switch role {
	case domain.RolePatient:
		var p *patientRec
		if p, ok = s.data.patientByNID(strings.TrimSpace(req.NationalID)); ok && p.Password == req.Password {
			subjectID, first, last = p.NationalID, p.FirstName, p.LastName
		} else {
			ok = false
		}
	case domain.RoleDoctor:
		nid, perr := strconv.ParseInt(strings.TrimSpace(req.NationalID), 10, 64)
		var d *doctorRec
		if d, ok = s.data.doctorByNID(nid); perr == nil && ok && d.Password == req.Password {
			subjectID, first, last = strconv.FormatInt(d.NationalID, 10), d.FirstName, d.LastName
		} else {
			ok = false
		}
	case domain.RoleAdmin:
		for _, a := range s.data.admins {
			if a.Username == strings.TrimSpace(req.Username) && a.Password == req.Password {
				subjectID, first, last, ok = a.Username, a.FirstName, a.LastName, true
				break
			}
		}
	}
	s.mu.Unlock()

	if !ok {
		s.logger.Info("login rejected", "role", role)
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := httpmiddleware.IssueToken(s.secret, role, subjectID, s.ttl, s.now())
	if err != nil {
		s.logger.Error("failed to issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "token unavailable")
		return
	}
	writeJSON(w, http.StatusOK, domain.LoginResponse{Token: token, Role: role, FirstName: first, LastName: last})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch {
	case strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "":
		writeError(w, http.StatusBadRequest, "name is required")
		return
	case !isNationalID(req.NationalID):
		writeError(w, http.StatusBadRequest, "national id must be 11 digits")
		return
	case req.Password == "":
		writeError(w, http.StatusBadRequest, "password is required")
		return
	case !domain.IsBloodGroup(req.BloodGroup):
		writeError(w, http.StatusBadRequest, "unknown blood group")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data.patientByNID(req.NationalID); exists {
		writeError(w, http.StatusConflict, "patient already registered")
		return
	}
	s.data.patients = append(s.data.patients, patientRec{
		ID:          s.data.next(prefixPatient),
		PatientInfo: req.PatientInfo,
		Password:    req.Password,
	})
	s.logger.Info("patient registered", "patient_id", s.data.seq[prefixPatient])
	writeJSON(w, http.StatusCreated, req.PatientInfo)
}
