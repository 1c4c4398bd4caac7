// Package mockapi is an in-memory MHRS backend. It serves the same REST
// contract the client consumes, so the client can be demoed and tested end
// to end without the real hospital system.
package mockapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/mhrs-booking/internal/domain"
	httpmiddleware "github.com/wolfman30/mhrs-booking/internal/http/middleware"
	"github.com/wolfman30/mhrs-booking/internal/observability/metrics"
	"github.com/wolfman30/mhrs-booking/pkg/logging"
)

// Config wires the fixture backend.
type Config struct {
	Logger    *logging.Logger
	JWTSecret string
	TokenTTL  time.Duration
	// Now is the backend clock. Fixture slots start the day after Now().
	Now func() time.Time
	// Registry receives the request metrics and backs /metrics. Nil uses a
	// private registry.
	Registry           *prometheus.Registry
	CORSAllowedOrigins []string
	// LoginRate limits POST /auth/login per client IP (requests/sec).
	// Zero disables the limit.
	LoginRate  float64
	LoginBurst int
}

type Server struct {
	logger   *logging.Logger
	secret   string
	ttl      time.Duration
	now      func() time.Time
	registry *prometheus.Registry
	metrics  *metrics.ServerMetrics
	origins  []string
	limiter  *httpmiddleware.RateLimiter

	mu   sync.Mutex
	data *dataset
}

func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	s := &Server{
		logger:   logger,
		secret:   cfg.JWTSecret,
		ttl:      ttl,
		now:      now,
		registry: reg,
		metrics:  metrics.NewServerMetrics(reg),
		origins:  cfg.CORSAllowedOrigins,
		data:     newDataset(now()),
	}
	if cfg.LoginRate > 0 {
		burst := cfg.LoginBurst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = httpmiddleware.NewRateLimiter(cfg.LoginRate, burst)
	}
	return s
}

// Routes mounts the REST contract under /api next to /health and /metrics.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpmiddleware.RequestLogger(s.logger, s.metrics))
	r.Use(middleware.Recoverer)
	if len(s.origins) > 0 {
		r.Use(httpmiddleware.CORS(s.origins))
	}

	r.Get("/health", s.health)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(api chi.Router) {
		api.Group(func(public chi.Router) {
			if s.limiter != nil {
				public.With(httpmiddleware.RateLimit(s.limiter)).Post("/auth/login", s.login)
			} else {
				public.Post("/auth/login", s.login)
			}
			public.Post("/patient/register", s.register)
		})

		api.Group(func(authed chi.Router) {
			authed.Use(httpmiddleware.RoleJWT(s.secret, s.now))
			authed.Get("/hospital/cities", s.cities)
			authed.Get("/hospital/search", s.searchHospitals)
			authed.Get("/hospital/all", s.allHospitals)
			authed.Get("/department/byHospital", s.departmentsByHospital)
			authed.Get("/doctor/by-department", s.doctorsByDepartment)
			authed.Get("/doctor/slots", s.doctorSlots)
		})

		api.Group(func(patient chi.Router) {
			patient.Use(httpmiddleware.RoleJWT(s.secret, s.now, domain.RolePatient))
			patient.Get("/patient/info", s.patientInfo)
			patient.Get("/patient/past-appointments", s.patientPast)
			patient.Get("/patient/future-appointments", s.patientFuture)
			patient.Post("/patient/appointments/{id}/cancel", s.patientCancel)
			patient.Post("/patient/appointments/{id}/book", s.patientBook)
			patient.Get("/patient/waiting-list", s.patientWaitingList)
			patient.Post("/patient/waiting-lists/{id}/cancel", s.patientLeaveWaitingList)
			patient.Post("/waiting-list/doctor/{id}", s.joinDoctorWaitingList)
			patient.Post("/waiting-list/department/{id}", s.joinDepartmentWaitingList)
		})

		api.Group(func(doctor chi.Router) {
			doctor.Use(httpmiddleware.RoleJWT(s.secret, s.now, domain.RoleDoctor))
			doctor.Get("/doctor/info", s.doctorInfo)
			doctor.Get("/doctor/past-appointments", s.doctorPast)
			doctor.Get("/doctor/future-appointments", s.doctorFuture)
			doctor.Post("/doctor/appointments/{id}/cancel", s.doctorCancel)
			doctor.Get("/doctor/waiting-list", s.doctorWaitingList)
		})

		api.Group(func(admin chi.Router) {
			admin.Use(httpmiddleware.RoleJWT(s.secret, s.now, domain.RoleAdmin))
			admin.Post("/hospital", s.createHospital)
			admin.Post("/department", s.createDepartment)
			admin.Delete("/department/{id}", s.deleteDepartment)
			admin.Route("/admin", func(r chi.Router) {
				r.Get("/dashboardSummary", s.dashboardSummary)
				r.Get("/hospitals", s.adminHospitals)
				r.Post("/hospitals", s.adminCreateHospital)
				r.Delete("/hospitals/{id}", s.adminDeleteHospital)
				r.Get("/departments", s.adminDepartments)
				r.Post("/departments", s.adminCreateDepartment)
				r.Delete("/departments/{id}", s.adminDeleteDepartment)
				r.Get("/doctors", s.adminDoctors)
				r.Post("/doctors", s.adminCreateDoctor)
				r.Delete("/doctors/{id}", s.adminDeleteDoctor)
				r.Get("/patients", s.adminPatients)
				r.Post("/patients", s.adminCreatePatient)
				r.Delete("/patients/{id}", s.adminDeletePatient)
				r.Get("/appointments", s.adminAppointments)
				r.Get("/prescriptions", s.adminPrescriptions)
				r.Delete("/prescriptions/{id}", s.adminDeletePrescription)
				r.Get("/waiting-list", s.adminWaitingList)
				r.Delete("/waiting-list/{id}", s.adminDeleteWaitingItem)
				r.Get("/users", s.adminUsers)
				r.Post("/users", s.adminCreateUser)
				r.Delete("/users/{id}", s.adminDeleteUser)
			})
		})
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	return json.NewDecoder(r.Body).Decode(v)
}

// pathInt64 parses the {id} route parameter.
func pathInt64(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

// queryInt64 parses a required numeric query parameter.
func queryInt64(r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
	return id, err == nil
}

// subject returns the authenticated caller's token subject.
func subject(r *http.Request) string {
	claims, _ := httpmiddleware.ClaimsFromContext(r.Context())
	return claims.Subject
}

func isNationalID(s string) bool {
	if len(s) != 11 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
