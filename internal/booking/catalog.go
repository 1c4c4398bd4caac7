package booking

import (
	"context"
	"time"

	"github.com/wolfman30/mhrs-booking/internal/department"
	"github.com/wolfman30/mhrs-booking/internal/doctor"
	"github.com/wolfman30/mhrs-booking/internal/domain"
	"github.com/wolfman30/mhrs-booking/internal/hospital"
)

// Catalog supplies the option lists of each stage.
type Catalog interface {
	Cities(ctx context.Context) ([]string, error)
	Hospitals(ctx context.Context, city string) ([]domain.HospitalDTO, error)
	Departments(ctx context.Context, hospitalID int64) ([]domain.DepartmentDTO, error)
	Doctors(ctx context.Context, departmentID int64) ([]domain.DoctorListDTO, error)
	Slots(ctx context.Context, doctorNationalID int64, date time.Time) ([]domain.Slot, error)
}

// Booker claims a slot for the signed-in patient.
type Booker interface {
	BookAppointment(ctx context.Context, appointmentID int64) error
}

// WaitlistJoiner enrolls a patient on a waiting list.
type WaitlistJoiner interface {
	JoinDoctor(ctx context.Context, doctorID int64, patientNationalID string) (*domain.WaitingListItem, error)
	JoinDepartment(ctx context.Context, departmentID int64, patientNationalID string) (*domain.WaitingListItem, error)
}

// Confirmer asks the patient a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ServiceCatalog adapts the REST resource services to Catalog.
type ServiceCatalog struct {
	hospitals   *hospital.Service
	departments *department.Service
	doctors     *doctor.Service
}

func NewServiceCatalog(h *hospital.Service, d *department.Service, doc *doctor.Service) *ServiceCatalog {
	return &ServiceCatalog{hospitals: h, departments: d, doctors: doc}
}

func (c *ServiceCatalog) Cities(ctx context.Context) ([]string, error) {
	return c.hospitals.Cities(ctx)
}

func (c *ServiceCatalog) Hospitals(ctx context.Context, city string) ([]domain.HospitalDTO, error) {
	return c.hospitals.Search(ctx, city, "")
}

func (c *ServiceCatalog) Departments(ctx context.Context, hospitalID int64) ([]domain.DepartmentDTO, error) {
	return c.departments.ByHospital(ctx, hospitalID)
}

func (c *ServiceCatalog) Doctors(ctx context.Context, departmentID int64) ([]domain.DoctorListDTO, error) {
	return c.doctors.ByDepartment(ctx, departmentID)
}

func (c *ServiceCatalog) Slots(ctx context.Context, doctorNationalID int64, date time.Time) ([]domain.Slot, error) {
	return c.doctors.Slots(ctx, doctorNationalID, date)
}
