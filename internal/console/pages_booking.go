package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/wolfman30/mhrs-booking/internal/apiclient"
	"github.com/wolfman30/mhrs-booking/internal/booking"
	"github.com/wolfman30/mhrs-booking/internal/domain"
)

// newAppointmentPage drives the booking wizard. Each pass offers only the
// steps whose earlier selections are made.
func (s *Shell) newAppointmentPage(ctx context.Context, fresh bool) error {
	if fresh || s.wizard == nil {
		s.closeWizard()
		s.wizard = booking.New(booking.Config{
			Catalog:           s.catalog,
			Booker:            s.patients,
			Waitlist:          s.waitlist,
			Confirmer:         s.prompt,
			PatientNationalID: s.patientNID,
			Now:               s.now,
			Logger:            s.logger,
		})
		if err := s.wizard.LoadCities(ctx); err != nil {
			return err
		}
	}
	w := s.wizard
	st := w.Snapshot()
	s.renderWizard(st)

	actions := []action{{"Tarih seç", func(ctx context.Context) error {
		raw, err := s.prompt.Ask(ctx, "Tarih (YYYY-AA-GG)")
		if err != nil {
			return err
		}
		d, err := booking.ParseDate(raw)
		if err != nil {
			return fmt.Errorf("geçersiz tarih %q", raw)
		}
		return w.SelectDate(d)
	}}}

	if st.Enabled(booking.StageCity) {
		actions = append(actions, action{"Şehir seç", func(ctx context.Context) error {
			if len(st.Cities) == 0 {
				if err := w.LoadCities(ctx); err != nil {
					return err
				}
				st = w.Snapshot()
			}
			city, ok, err := pick(ctx, s.prompt, "Şehir", st.Cities, booking.CityLabel)
			if err != nil || !ok {
				return err
			}
			return w.SelectCity(ctx, city)
		}})
	}
	if st.Enabled(booking.StageHospital) {
		actions = append(actions, action{"Hastane seç", func(ctx context.Context) error {
			h, ok, err := pick(ctx, s.prompt, "Hastane", st.Hospitals, booking.HospitalLabel)
			if err != nil || !ok {
				return err
			}
			return w.SelectHospital(ctx, h.HospitalID)
		}})
	}
	if st.Enabled(booking.StageDepartment) {
		actions = append(actions, action{"Bölüm seç", func(ctx context.Context) error {
			d, ok, err := pick(ctx, s.prompt, "Bölüm", st.Departments, booking.DepartmentLabel)
			if err != nil || !ok {
				return err
			}
			return w.SelectDepartment(ctx, d.DepartmentID)
		}})
	}
	if st.Enabled(booking.StageDoctor) && len(st.Doctors) > 0 {
		actions = append(actions, s.doctorActions(w, st)...)
	}
	actions = append(actions, s.backAction())
	return s.menu(ctx, "Yeni Randevu", actions...)
}

func (s *Shell) doctorActions(w *booking.Wizard, st booking.State) []action {
	var free, full []booking.DoctorSlots
	for _, d := range st.VisibleDoctors() {
		if d.FreeCount() > 0 {
			free = append(free, d)
		}
		if d.Full() {
			full = append(full, d)
		}
	}

	actions := []action{{"Doktor seç", func(ctx context.Context) error {
		d, ok, err := pick(ctx, s.prompt, "Doktor (boş: tüm doktorlar)", st.Doctors, booking.DoctorLabel)
		if err != nil {
			return err
		}
		if !ok {
			return w.SelectDoctor(0)
		}
		return w.SelectDoctor(d.Doctor.DoctorNationalID)
	}}}

	if len(free) > 0 {
		actions = append(actions, action{"Randevu al", func(ctx context.Context) error {
			return s.bookSlot(ctx, w, free)
		}})
	}
	if len(full) > 0 {
		actions = append(actions, action{"Doktor bekleme listesine katıl", func(ctx context.Context) error {
			d, ok, err := pick(ctx, s.prompt, "Randevusu dolu doktor", full, booking.DoctorLabel)
			if err != nil || !ok {
				return err
			}
			item, err := w.JoinDoctorWaitingList(ctx, d.Doctor.DoctorNationalID)
			return s.reportJoin(item, err)
		}})
	}
	if st.DepartmentFull() {
		actions = append(actions, action{"Bölüm bekleme listesine katıl", func(ctx context.Context) error {
			item, err := w.JoinDepartmentWaitingList(ctx)
			return s.reportJoin(item, err)
		}})
	}
	return actions
}

func (s *Shell) bookSlot(ctx context.Context, w *booking.Wizard, doctors []booking.DoctorSlots) error {
	doc := doctors[0]
	if len(doctors) > 1 {
		labels := make([]string, len(doctors))
		for i, d := range doctors {
			labels[i] = fmt.Sprintf("%s (%d boş)", booking.DoctorLabel(d), d.FreeCount())
		}
		i, err := s.prompt.Choose(ctx, "Doktor", labels)
		if err != nil {
			return err
		}
		doc = doctors[i]
	}

	var open []domain.Slot
	for _, sl := range doc.Slots {
		if !sl.IsBooked {
			open = append(open, sl)
		}
	}
	labels := make([]string, len(open))
	for i, sl := range open {
		labels[i] = sl.Time
	}
	i, err := s.prompt.Choose(ctx, "Saat", labels)
	if err != nil {
		return err
	}

	err = w.BookSlot(ctx, doc.Doctor.DoctorNationalID, open[i].AppointmentID)
	switch {
	case errors.Is(err, booking.ErrDeclined):
		s.prompt.Println("Randevu alınmadı.")
		return nil
	case apiclient.IsConflict(err):
		s.prompt.Println("Seçilen saat artık dolu, lütfen başka bir saat seçin.")
		return nil
	case err != nil:
		return err
	}
	s.prompt.Println("Randevunuz oluşturuldu.")
	return nil
}

func (s *Shell) reportJoin(item *domain.WaitingListItem, err error) error {
	switch {
	case errors.Is(err, booking.ErrDeclined):
		s.prompt.Println("Bekleme listesine katılmadınız.")
		return nil
	case apiclient.IsConflict(err):
		s.prompt.Println("Zaten bu bekleme listesindesiniz.")
		return nil
	case err != nil:
		return err
	}
	s.prompt.Printf("Bekleme listesine eklendiniz (kayıt %d).\n", item.WaitingID)
	return nil
}

func (s *Shell) renderWizard(st booking.State) {
	s.prompt.Println("\nYeni Randevu")
	date := "-"
	if st.HasDate() {
		date = st.Date.Format(booking.DateLayout)
	}
	hospital, department, doctor := "-", "-", "Tümü"
	city := st.City
	if city == "" {
		city = "-"
	}
	if st.Hospital != nil {
		hospital = st.Hospital.Name
	}
	if st.Department != nil {
		department = st.Department.BranchName
	}
	for _, d := range st.Doctors {
		if d.Doctor.DoctorNationalID == st.DoctorID {
			doctor = booking.DoctorLabel(d)
		}
	}
	s.prompt.Printf("Tarih: %s | Şehir: %s | Hastane: %s | Bölüm: %s | Doktor: %s\n", date, city, hospital, department, doctor)

	if st.Department == nil {
		return
	}
	if len(st.Doctors) == 0 {
		s.prompt.Println("Bu bölümde doktor bulunamadı.")
		return
	}
	RenderSlots(s.out, st.VisibleDoctors())
	if st.DepartmentFull() {
		s.prompt.Println("Bu bölümdeki tüm doktorların randevuları dolu.")
	}
}
