// Package admin wraps the /admin endpoints and keeps the client-side state of
// the administrator screens: filterable CRUD grids, the paged appointment log
// and the dashboard counters.
package admin

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/wolfman30/mhrs-booking/internal/apiclient"
	"github.com/wolfman30/mhrs-booking/internal/domain"
	"github.com/wolfman30/mhrs-booking/pkg/logging"
)

const basePath = "/admin"

// Collection paths under /admin.
const (
	pathHospitals     = "hospitals"
	pathDepartments   = "departments"
	pathDoctors       = "doctors"
	pathPatients      = "patients"
	pathAppointments  = "appointments"
	pathPrescriptions = "prescriptions"
	pathWaitingList   = "waiting-list"
	pathUsers         = "users"
)

type Service struct {
	client *apiclient.Client
	logger *logging.Logger
}

func NewService(client *apiclient.Client, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{client: client, logger: logger}
}

func list[T any](ctx context.Context, s *Service, collection string) ([]T, error) {
	var out []T
	if err := s.client.Get(ctx, basePath+"/"+collection, nil, &out); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return out, nil
}

func create[T any](ctx context.Context, s *Service, collection string, body any) (*T, error) {
	var out T
	if err := s.client.Post(ctx, basePath+"/"+collection, body, &out); err != nil {
		return nil, fmt.Errorf("create %s: %w", collection, err)
	}
	s.logger.Info("admin record created", "collection", collection)
	return &out, nil
}

func (s *Service) remove(ctx context.Context, collection, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("delete %s: empty id", collection)
	}
	if err := s.client.Delete(ctx, basePath+"/"+collection+"/"+apiclient.PathID(id)); err != nil {
		return fmt.Errorf("delete %s %s: %w", collection, id, err)
	}
	s.logger.Info("admin record deleted", "collection", collection, "id", id)
	return nil
}

func (s *Service) Hospitals(ctx context.Context) ([]domain.AdminHospital, error) {
	return list[domain.AdminHospital](ctx, s, pathHospitals)
}

// CreateHospital sends h with an empty id; the backend assigns it.
func (s *Service) CreateHospital(ctx context.Context, h domain.AdminHospital) (*domain.AdminHospital, error) {
	h.ID = ""
	return create[domain.AdminHospital](ctx, s, pathHospitals, h)
}

func (s *Service) DeleteHospital(ctx context.Context, id string) error {
	return s.remove(ctx, pathHospitals, id)
}

func (s *Service) Departments(ctx context.Context) ([]domain.AdminDepartment, error) {
	return list[domain.AdminDepartment](ctx, s, pathDepartments)
}

func (s *Service) CreateDepartment(ctx context.Context, d domain.AdminDepartment) (*domain.AdminDepartment, error) {
	d.ID = ""
	return create[domain.AdminDepartment](ctx, s, pathDepartments, d)
}

func (s *Service) DeleteDepartment(ctx context.Context, id string) error {
	return s.remove(ctx, pathDepartments, id)
}

func (s *Service) Doctors(ctx context.Context) ([]domain.AdminDoctor, error) {
	return list[domain.AdminDoctor](ctx, s, pathDoctors)
}

func (s *Service) CreateDoctor(ctx context.Context, d domain.AdminDoctor) (*domain.AdminDoctor, error) {
	d.ID = ""
	return create[domain.AdminDoctor](ctx, s, pathDoctors, d)
}

func (s *Service) DeleteDoctor(ctx context.Context, id string) error {
	return s.remove(ctx, pathDoctors, id)
}

func (s *Service) Patients(ctx context.Context) ([]domain.AdminPatient, error) {
	return list[domain.AdminPatient](ctx, s, pathPatients)
}

func (s *Service) CreatePatient(ctx context.Context, p domain.AdminPatient) (*domain.AdminPatient, error) {
	p.ID = ""
	return create[domain.AdminPatient](ctx, s, pathPatients, p)
}

func (s *Service) DeletePatient(ctx context.Context, id string) error {
	return s.remove(ctx, pathPatients, id)
}

func (s *Service) Prescriptions(ctx context.Context) ([]domain.AdminPrescription, error) {
	return list[domain.AdminPrescription](ctx, s, pathPrescriptions)
}

func (s *Service) DeletePrescription(ctx context.Context, id string) error {
	return s.remove(ctx, pathPrescriptions, id)
}

func (s *Service) WaitingList(ctx context.Context) ([]domain.AdminWaitingItem, error) {
	return list[domain.AdminWaitingItem](ctx, s, pathWaitingList)
}

func (s *Service) DeleteWaitingItem(ctx context.Context, id string) error {
	return s.remove(ctx, pathWaitingList, id)
}

func (s *Service) Users(ctx context.Context) ([]domain.AdminUser, error) {
	return list[domain.AdminUser](ctx, s, pathUsers)
}

func (s *Service) CreateUser(ctx context.Context, u domain.NewAdminUser) (*domain.AdminUser, error) {
	return create[domain.AdminUser](ctx, s, pathUsers, u)
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.remove(ctx, pathUsers, id)
}

// AppointmentFilter is the server-side filter of the appointment log.
// Empty strings are not sent; Page and Size always are.
type AppointmentFilter struct {
	DateFrom string
	DateTo   string
	Status   string
	Search   string
	Page     int
	Size     int
}

func (f AppointmentFilter) query() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v = strings.TrimSpace(v); v != "" {
			q.Set(k, v)
		}
	}
	set("dateFrom", f.DateFrom)
	set("dateTo", f.DateTo)
	set("status", f.Status)
	set("search", f.Search)
	q.Set("page", strconv.Itoa(f.Page))
	if f.Size > 0 {
		q.Set("size", strconv.Itoa(f.Size))
	}
	return q
}

func (s *Service) Appointments(ctx context.Context, f AppointmentFilter) ([]domain.AdminAppointment, error) {
	var out []domain.AdminAppointment
	if err := s.client.Get(ctx, basePath+"/"+pathAppointments, f.query(), &out); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return out, nil
}

func (s *Service) DashboardSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	var out domain.DashboardSummary
	if err := s.client.Get(ctx, basePath+"/dashboardSummary", nil, &out); err != nil {
		return nil, fmt.Errorf("get dashboard summary: %w", err)
	}
	return &out, nil
}
