package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wolfman30/mhrs-booking/internal/admin"
	"github.com/wolfman30/mhrs-booking/internal/domain"
	"github.com/wolfman30/mhrs-booking/internal/views"
)

func (s *Shell) adminHomePage(ctx context.Context, fresh bool) error {
	if fresh {
		summary, err := s.dashboard.Load(ctx)
		if err != nil {
			return err
		}
		s.prompt.Println("\nYönetim Paneli")
		RenderSummary(s.out, summary)
	}
	return s.menu(ctx, "Yönetim",
		s.openAction("Hastaneler ve bölümler", views.ScreenAdminHospitals),
		s.openAction("Doktorlar", views.ScreenAdminDoctors),
		s.openAction("Randevu kayıtları", views.ScreenAdminAppointments),
		s.openAction("Hastalar", views.ScreenAdminPatients),
		s.openAction("Reçeteler", views.ScreenAdminPrescriptions),
		s.openAction("Bekleme listesi", views.ScreenAdminWaitingList),
		s.openAction("Yöneticiler", views.ScreenAdminAdmins),
		s.signOutAction(),
		quitAction(),
	)
}

// gridView describes one admin collection screen.
type gridView[T any] struct {
	title   string
	grid    *admin.Grid[T]
	render  func(io.Writer, []T)
	prepare func(ctx context.Context) error
	add     func(ctx context.Context) error
}

// gridPage lists a collection with client-side filtering, optional create
// and confirmed delete.
func gridPage[T any](s *Shell, v gridView[T]) page {
	return func(ctx context.Context, fresh bool) error {
		if fresh {
			s.filter = ""
			if err := v.grid.Load(ctx); err != nil {
				return err
			}
			if v.prepare != nil {
				if err := v.prepare(ctx); err != nil {
					return err
				}
			}
		}
		s.prompt.Println("\n" + v.title)
		if s.filter != "" {
			s.prompt.Printf("Filtre: %s\n", s.filter)
		}
		v.render(s.out, v.grid.Filter(s.filter))

		actions := []action{s.filterAction()}
		if v.add != nil {
			actions = append(actions, action{"Ekle", v.add})
		}
		actions = append(actions,
			action{"Sil", func(ctx context.Context) error { return deleteFrom(ctx, s, v.grid) }},
			action{"Yenile", func(ctx context.Context) error { return v.grid.Load(ctx) }},
			s.backAction(),
		)
		return s.menu(ctx, "", actions...)
	}
}

func (s *Shell) filterAction() action {
	return action{"Filtrele", func(ctx context.Context) error {
		q, err := s.prompt.Ask(ctx, "Arama (boş: filtreyi temizle)")
		if err != nil {
			return err
		}
		s.filter = q
		return nil
	}}
}

func deleteFrom[T any](ctx context.Context, s *Shell, grid *admin.Grid[T]) error {
	key, err := s.prompt.Ask(ctx, "Silinecek kayıt no")
	if err != nil {
		return err
	}
	err = grid.Delete(ctx, key)
	if errors.Is(err, admin.ErrDeclined) {
		s.prompt.Println("Silme iptal edildi.")
		return nil
	}
	if err != nil {
		return err
	}
	s.prompt.Println("Kayıt silindi.")
	return nil
}

// adminHospitalsPage manages hospitals and their departments on one screen.
func (s *Shell) adminHospitalsPage(ctx context.Context, fresh bool) error {
	hospitals, departments := s.grids.Hospitals, s.grids.Departments
	if fresh {
		s.filter = ""
		if err := hospitals.Load(ctx); err != nil {
			return err
		}
		if err := departments.Load(ctx); err != nil {
			return err
		}
	}
	s.prompt.Println("\nHastaneler")
	if s.filter != "" {
		s.prompt.Printf("Filtre: %s\n", s.filter)
	}
	RenderHospitals(s.out, hospitals.Filter(s.filter))
	s.prompt.Println("Bölümler")
	RenderDepartments(s.out, departments.Filter(s.filter), hospitals.Items())

	return s.menu(ctx, "",
		s.filterAction(),
		action{"Hastane ekle", s.addHospital},
		action{"Hastane sil", func(ctx context.Context) error { return deleteFrom(ctx, s, hospitals) }},
		action{"Bölüm ekle", s.addDepartment},
		action{"Bölüm sil", func(ctx context.Context) error { return deleteFrom(ctx, s, departments) }},
		action{"Yenile", func(ctx context.Context) error {
			if err := hospitals.Load(ctx); err != nil {
				return err
			}
			return departments.Load(ctx)
		}},
		s.backAction(),
	)
}

func (s *Shell) addHospital(ctx context.Context) error {
	var h domain.AdminHospital
	if err := s.askFields(ctx, field{"Hastane adı", &h.Name}, field{"Şehir", &h.City}, field{"İlçe", &h.District}); err != nil {
		return err
	}
	if strings.TrimSpace(h.Name) == "" || strings.TrimSpace(h.City) == "" {
		s.prompt.Println("Hastane adı ve şehir zorunludur.")
		return nil
	}
	created, err := s.grids.Hospitals.Create(ctx, h)
	if err != nil {
		return err
	}
	s.prompt.Printf("Hastane eklendi (no %s).\n", created.ID)
	return nil
}

func (s *Shell) pickHospital(ctx context.Context) (domain.AdminHospital, bool, error) {
	return pick(ctx, s.prompt, "Hastane", s.grids.Hospitals.Items(), func(h domain.AdminHospital) string {
		return h.Name + " (" + h.City + ")"
	})
}

func (s *Shell) addDepartment(ctx context.Context) error {
	h, ok, err := s.pickHospital(ctx)
	if err != nil || !ok {
		return err
	}
	d := domain.AdminDepartment{HospitalID: h.ID}
	if err := s.askFields(ctx, field{"Bölüm adı", &d.Name}); err != nil {
		return err
	}
	if strings.TrimSpace(d.Name) == "" {
		s.prompt.Println("Bölüm adı zorunludur.")
		return nil
	}
	created, err := s.grids.Departments.Create(ctx, d)
	if err != nil {
		return err
	}
	s.prompt.Printf("Bölüm eklendi (no %s).\n", created.ID)
	return nil
}

func (s *Shell) adminDoctorsPage(ctx context.Context, fresh bool) error {
	return gridPage(s, gridView[domain.AdminDoctor]{
		title:  "Doktorlar",
		grid:   s.grids.Doctors,
		render: RenderDoctors,
		prepare: func(ctx context.Context) error {
			if err := s.grids.Hospitals.Load(ctx); err != nil {
				return err
			}
			return s.grids.Departments.Load(ctx)
		},
		add: s.addDoctor,
	})(ctx, fresh)
}

func (s *Shell) addDoctor(ctx context.Context) error {
	var d domain.AdminDoctor
	if err := s.askFields(ctx, field{"Ad", &d.FirstName}, field{"Soyad", &d.LastName}, field{"T.C. Kimlik No", &d.NationalID}); err != nil {
		return err
	}
	h, ok, err := s.pickHospital(ctx)
	if err != nil || !ok {
		return err
	}
	dep, ok, err := pick(ctx, s.prompt, "Bölüm", s.grids.DepartmentsOf(h.ID), func(d domain.AdminDepartment) string { return d.Name })
	if err != nil || !ok {
		return err
	}
	d.HospitalID, d.DepartmentID = h.ID, dep.ID
	created, err := s.grids.Doctors.Create(ctx, d)
	if err != nil {
		return err
	}
	s.prompt.Printf("Doktor eklendi (no %s).\n", created.ID)
	return nil
}

func (s *Shell) adminPatientsPage(ctx context.Context, fresh bool) error {
	return gridPage(s, gridView[domain.AdminPatient]{
		title:  "Hastalar",
		grid:   s.grids.Patients,
		render: RenderPatients,
		add:    s.addPatient,
	})(ctx, fresh)
}

func (s *Shell) addPatient(ctx context.Context) error {
	var p domain.AdminPatient
	if err := s.askFields(ctx, field{"Ad", &p.FirstName}, field{"Soyad", &p.LastName}, field{"T.C. Kimlik No", &p.NationalID}); err != nil {
		return err
	}
	i, err := s.prompt.Choose(ctx, "Kan grubu", domain.BloodGroups)
	if err != nil {
		return err
	}
	p.BloodGroup = domain.BloodGroups[i]
	var height, weight string
	if err := s.askFields(ctx, field{"Boy (cm)", &height}, field{"Kilo (kg)", &weight}); err != nil {
		return err
	}
	if p.HeightCm, err = optionalInt(height); err != nil {
		return err
	}
	if p.WeightKg, err = optionalInt(weight); err != nil {
		return err
	}
	created, err := s.grids.Patients.Create(ctx, p)
	if err != nil {
		return err
	}
	s.prompt.Printf("Hasta eklendi (no %s).\n", created.ID)
	return nil
}

func optionalInt(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("geçersiz sayı %q", raw)
	}
	return n, nil
}

func (s *Shell) adminPrescriptionsPage(ctx context.Context, fresh bool) error {
	return gridPage(s, gridView[domain.AdminPrescription]{
		title:  "Reçeteler",
		grid:   s.grids.Prescriptions,
		render: RenderPrescriptions,
	})(ctx, fresh)
}

func (s *Shell) adminWaitingListPage(ctx context.Context, fresh bool) error {
	return gridPage(s, gridView[domain.AdminWaitingItem]{
		title:  "Bekleme Listesi",
		grid:   s.grids.WaitingList,
		render: RenderAdminWaitingList,
	})(ctx, fresh)
}

func (s *Shell) adminUsersPage(ctx context.Context, fresh bool) error {
	return gridPage(s, gridView[domain.AdminUser]{
		title:  "Yöneticiler",
		grid:   s.grids.Users,
		render: RenderUsers,
		add:    s.addUser,
	})(ctx, fresh)
}

func (s *Shell) addUser(ctx context.Context) error {
	var u domain.NewAdminUser
	err := s.askFields(ctx,
		field{"Kullanıcı adı", &u.Username},
		field{"Şifre", &u.Password},
		field{"Ad", &u.FirstName},
		field{"Soyad", &u.LastName},
		field{"E-posta", &u.Email},
		field{"T.C. Kimlik No", &u.NationalID},
	)
	if err != nil {
		return err
	}
	if strings.TrimSpace(u.Username) == "" || u.Password == "" {
		s.prompt.Println("Kullanıcı adı ve şifre zorunludur.")
		return nil
	}
	created, err := s.grids.CreateUser(ctx, u)
	if err != nil {
		return err
	}
	s.prompt.Printf("Yönetici eklendi (no %s).\n", created.ID)
	return nil
}

var logStatuses = []struct {
	label  string
	status string
}{
	{"Tümü", admin.LogStatusAll},
	{"Tamamlanan", admin.LogStatusCompleted},
	{"İptal edilen", admin.LogStatusCancelled},
	{"Aktif", admin.LogStatusBooked},
}

// adminAppointmentsPage pages through the server-filtered appointment log.
func (s *Shell) adminAppointmentsPage(ctx context.Context, fresh bool) error {
	log := s.log
	if fresh {
		if err := log.Search(ctx, admin.LogCriteria{}); err != nil {
			return err
		}
	}
	s.prompt.Println("\nRandevu Kayıtları")
	RenderAppointmentLog(s.out, log.Rows(), log.Expanded)
	s.prompt.Printf("Sayfa %d\n", log.Page()+1)

	actions := []action{{"Filtrele", func(ctx context.Context) error {
		var c admin.LogCriteria
		if err := s.askFields(ctx, field{"Başlangıç tarihi (YYYY-AA-GG, boş: yok)", &c.DateFrom}, field{"Bitiş tarihi (YYYY-AA-GG, boş: yok)", &c.DateTo}); err != nil {
			return err
		}
		labels := make([]string, len(logStatuses))
		for i, st := range logStatuses {
			labels[i] = st.label
		}
		i, err := s.prompt.Choose(ctx, "Durum", labels)
		if err != nil {
			return err
		}
		c.Status = logStatuses[i].status
		if err := s.askFields(ctx, field{"Arama (boş: yok)", &c.Search}); err != nil {
			return err
		}
		return log.Search(ctx, c)
	}}}
	if log.HasNext() {
		actions = append(actions, action{"Sonraki sayfa", log.Next})
	}
	if log.Page() > 0 {
		actions = append(actions, action{"Önceki sayfa", log.Prev})
	}
	actions = append(actions,
		action{"Detay göster/gizle", func(ctx context.Context) error {
			id, err := s.askID(ctx, "Randevu no")
			if err != nil {
				return err
			}
			log.Toggle(id)
			return nil
		}},
		s.backAction(),
	)
	return s.menu(ctx, "", actions...)
}
