package console

import (
	"context"

	"github.com/wolfman30/mhrs-booking/internal/appointments"
	"github.com/wolfman30/mhrs-booking/internal/domain"
	"github.com/wolfman30/mhrs-booking/internal/views"
)

func (s *Shell) patientHomePage(ctx context.Context, fresh bool) error {
	if fresh {
		info, err := s.patients.Info(ctx)
		if err != nil {
			return err
		}
		s.patientNID = info.NationalID
		RenderPatientInfo(s.out, info)
	}
	return s.menu(ctx, "Hasta Paneli",
		s.openAction("Geçmiş randevularım", views.ScreenPatientPastAppointments),
		s.openAction("Gelecek randevularım", views.ScreenPatientFutureAppointments),
		s.openAction("Yeni randevu al", views.ScreenPatientNewAppointment),
		s.openAction("Bekleme listelerim", views.ScreenPatientWaitingLists),
		s.signOutAction(),
		quitAction(),
	)
}

func (s *Shell) doctorHomePage(ctx context.Context, fresh bool) error {
	if fresh {
		info, err := s.doctors.Info(ctx)
		if err != nil {
			return err
		}
		RenderDoctorInfo(s.out, info)
	}
	return s.menu(ctx, "Doktor Paneli",
		s.openAction("Geçmiş randevular", views.ScreenDoctorPastAppointments),
		s.openAction("Gelecek randevular", views.ScreenDoctorFutureAppointments),
		s.openAction("Bekleme listesi", views.ScreenDoctorWaitingLists),
		s.signOutAction(),
		quitAction(),
	)
}

// pastPage lists completed appointments; one row at a time can show its
// prescription.
func (s *Shell) pastPage(list *appointments.Past, viewer domain.Role) page {
	return func(ctx context.Context, fresh bool) error {
		if fresh {
			if err := list.Load(ctx); err != nil {
				return err
			}
		}
		s.prompt.Println("\nGeçmiş Randevular")
		RenderEntries(s.out, viewer, list.Items(), list.Expanded)
		return s.menu(ctx, "",
			action{"Reçeteyi göster/gizle", func(ctx context.Context) error {
				id, err := s.askID(ctx, "Randevu no")
				if err != nil {
					return err
				}
				return list.Toggle(id)
			}},
			action{"Yenile", func(ctx context.Context) error { return list.Load(ctx) }},
			s.backAction(),
		)
	}
}

// futurePage lists upcoming appointments and cancels them after confirmation.
func (s *Shell) futurePage(list *appointments.Future) page {
	return func(ctx context.Context, fresh bool) error {
		if fresh {
			if err := list.Load(ctx); err != nil {
				return err
			}
		}
		s.prompt.Println("\nGelecek Randevular")
		RenderEntries(s.out, list.Role(), list.Items(), nil)
		return s.menu(ctx, "",
			action{"Randevu iptal et", func(ctx context.Context) error {
				if len(list.Active()) == 0 {
					s.prompt.Println("İptal edilebilecek randevu yok.")
					return nil
				}
				id, err := s.askID(ctx, "Randevu no")
				if err != nil {
					return err
				}
				ok, err := s.prompt.Confirm(ctx, "Bu randevuyu iptal etmek istediğinize emin misiniz?")
				if err != nil || !ok {
					return err
				}
				if err := list.Cancel(ctx, id); err != nil {
					return err
				}
				s.prompt.Println("Randevu iptal edildi.")
				return nil
			}},
			action{"Yenile", func(ctx context.Context) error { return list.Load(ctx) }},
			s.backAction(),
		)
	}
}

// waitingPage lists waiting-list enrollments. Patients can withdraw theirs.
func (s *Shell) waitingPage(list *appointments.WaitingList) page {
	return func(ctx context.Context, fresh bool) error {
		if fresh {
			if err := list.Load(ctx); err != nil {
				return err
			}
		}
		s.prompt.Println("\nBekleme Listesi")
		RenderWaitingList(s.out, list.Role(), list.Items())

		actions := make([]action, 0, 3)
		if list.CanCancel() {
			actions = append(actions, action{"Bekleme listesinden çık", func(ctx context.Context) error {
				id, err := s.askID(ctx, "Kayıt no")
				if err != nil {
					return err
				}
				ok, err := s.prompt.Confirm(ctx, "Bu bekleme kaydını silmek istediğinize emin misiniz?")
				if err != nil || !ok {
					return err
				}
				if err := list.Cancel(ctx, id); err != nil {
					return err
				}
				s.prompt.Println("Bekleme listesinden çıkarıldınız.")
				return nil
			}})
		}
		actions = append(actions,
			action{"Yenile", func(ctx context.Context) error { return list.Load(ctx) }},
			s.backAction(),
		)
		return s.menu(ctx, "", actions...)
	}
}
