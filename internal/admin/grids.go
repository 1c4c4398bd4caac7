package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolfman30/mhrs-booking/internal/domain"
	"github.com/wolfman30/mhrs-booking/internal/textsearch"
	"github.com/wolfman30/mhrs-booking/pkg/logging"
)

// Grids bundles every admin collection screen.
type Grids struct {
	svc *Service

	Hospitals     *Grid[domain.AdminHospital]
	Departments   *Grid[domain.AdminDepartment]
	Doctors       *Grid[domain.AdminDoctor]
	Patients      *Grid[domain.AdminPatient]
	Prescriptions *Grid[domain.AdminPrescription]
	WaitingList   *Grid[domain.AdminWaitingItem]
	Users         *Grid[domain.AdminUser]
}

func NewGrids(svc *Service, confirm Confirmer, logger *logging.Logger) *Grids {
	g := &Grids{svc: svc}

	g.Hospitals = NewGrid(GridSpec[domain.AdminHospital]{
		Name:         "hospitals",
		Key:          func(h domain.AdminHospital) string { return h.ID },
		Text:         func(h domain.AdminHospital) string { return textsearch.Join(h.Name, h.City, h.District) },
		List:         svc.Hospitals,
		Create:       svc.CreateHospital,
		Delete:       svc.DeleteHospital,
		DeletePrompt: "Bu hastaneyi ve bağlı departmanları silmek istediğinize emin misiniz?",
	}, confirm, logger)

	g.Departments = NewGrid(GridSpec[domain.AdminDepartment]{
		Name:         "departments",
		Key:          func(d domain.AdminDepartment) string { return d.ID },
		Text:         func(d domain.AdminDepartment) string { return d.Name },
		List:         svc.Departments,
		Create:       svc.CreateDepartment,
		Delete:       svc.DeleteDepartment,
		DeletePrompt: "Bu departmanı silmek istediğinize emin misiniz?",
	}, confirm, logger)

	g.Doctors = NewGrid(GridSpec[domain.AdminDoctor]{
		Name:         "doctors",
		Key:          func(d domain.AdminDoctor) string { return d.ID },
		Text:         func(d domain.AdminDoctor) string { return textsearch.Join(d.FullName(), d.NationalID) },
		List:         svc.Doctors,
		Create:       svc.CreateDoctor,
		Delete:       svc.DeleteDoctor,
		DeletePrompt: "Bu doktoru silmek istediğinize emin misiniz?",
	}, confirm, logger)

	g.Patients = NewGrid(GridSpec[domain.AdminPatient]{
		Name:         "patients",
		Key:          func(p domain.AdminPatient) string { return p.ID },
		Text:         func(p domain.AdminPatient) string { return textsearch.Join(p.FullName(), p.NationalID) },
		List:         svc.Patients,
		Create:       svc.CreatePatient,
		Delete:       svc.DeletePatient,
		DeletePrompt: "Bu hastayı silmek istediğinize emin misiniz?",
	}, confirm, logger)

	g.Prescriptions = NewGrid(GridSpec[domain.AdminPrescription]{
		Name: "prescriptions",
		Key:  func(p domain.AdminPrescription) string { return p.ID },
		Text: func(p domain.AdminPrescription) string {
			return textsearch.Join(p.PatientName, p.DoctorName, p.HospitalName, p.DepartmentName, strings.Join(p.AllMedicines(), " "))
		},
		List:         svc.Prescriptions,
		Delete:       svc.DeletePrescription,
		DeletePrompt: "Bu reçeteyi silmek istediğinize emin misiniz?",
	}, confirm, logger)

	g.WaitingList = NewGrid(GridSpec[domain.AdminWaitingItem]{
		Name: "waiting-list",
		Key:  func(w domain.AdminWaitingItem) string { return w.ID },
		Text: func(w domain.AdminWaitingItem) string {
			return textsearch.Join(w.PatientName, w.PatientNationalID, w.DoctorName, w.HospitalName, w.DepartmentName)
		},
		List:         svc.WaitingList,
		Delete:       svc.DeleteWaitingItem,
		DeletePrompt: "Bu bekleme kaydını silmek istediğinize emin misiniz?",
	}, confirm, logger)

	g.Users = NewGrid(GridSpec[domain.AdminUser]{
		Name: "users",
		Key:  func(u domain.AdminUser) string { return u.ID },
		Text: func(u domain.AdminUser) string {
			return textsearch.Join(u.Username, u.FirstName, u.LastName, u.Email)
		},
		List:         svc.Users,
		Delete:       svc.DeleteUser,
		DeletePrompt: "Bu yöneticiyi silmek istediğinize emin misiniz?",
	}, confirm, logger)

	// Departments belong to their hospital; the backend deletes them together.
	g.Hospitals.OnDelete(func(h domain.AdminHospital) {
		g.Departments.RemoveWhere(func(d domain.AdminDepartment) bool { return d.HospitalID == h.ID })
	})
	return g
}

// CreateUser creates an admin account. The create payload carries a
// password, so it does not go through the generic grid Create.
func (g *Grids) CreateUser(ctx context.Context, u domain.NewAdminUser) (*domain.AdminUser, error) {
	created, err := g.svc.CreateUser(ctx, u)
	if err != nil {
		return nil, err
	}
	if created.ID == "" {
		return nil, fmt.Errorf("create %s: %w", g.Users.spec.Name, ErrNoID)
	}
	g.Users.Adopt(*created)
	return created, nil
}

// DepartmentsOf lists the loaded departments of one hospital.
func (g *Grids) DepartmentsOf(hospitalID string) []domain.AdminDepartment {
	var out []domain.AdminDepartment
	for _, d := range g.Departments.Items() {
		if d.HospitalID == hospitalID {
			out = append(out, d)
		}
	}
	return out
}
