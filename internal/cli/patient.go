package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wolfman30/mhrs-booking/internal/apiclient"
	"github.com/wolfman30/mhrs-booking/internal/appointments"
	"github.com/wolfman30/mhrs-booking/internal/booking"
	"github.com/wolfman30/mhrs-booking/internal/console"
	"github.com/wolfman30/mhrs-booking/internal/doctor"
	"github.com/wolfman30/mhrs-booking/internal/domain"
	"github.com/wolfman30/mhrs-booking/internal/patient"
	"github.com/wolfman30/mhrs-booking/internal/waitlist"
)

func newPatientCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patient",
		Short: "Patient commands",
	}

	svc := func() *patient.Service { return patient.NewService(a.client, a.logger) }
	role := domain.RolePatient

	cmd.AddCommand(newPatientInfoCommand(a, svc))
	cmd.AddCommand(newPastCommand(a, role, func() *appointments.Past { return appointments.NewPatientPast(svc()) }))
	cmd.AddCommand(newFutureCommand(a, role, func() *appointments.Future { return appointments.NewPatientFuture(svc(), a.logger) }))
	cmd.AddCommand(newCancelCommand(a, role, func() *appointments.Future { return appointments.NewPatientFuture(svc(), a.logger) }))
	cmd.AddCommand(newBookCommand(a, svc))
	cmd.AddCommand(newWaitingListCommand(a, role, func() *appointments.WaitingList { return appointments.NewPatientWaitingList(svc(), a.logger) }))
	cmd.AddCommand(newJoinWaitingListCommand(a, svc))
	cmd.AddCommand(newLeaveWaitingListCommand(a, svc))

	return cmd
}

func newPatientInfoCommand(a *app, svc func() *patient.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show your patient profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := a.requireSession(ctx, domain.RolePatient); err != nil {
				return err
			}
			info, err := svc().Info(ctx)
			if err != nil {
				return err
			}
			console.RenderPatientInfo(a.out(), info)
			return nil
		},
	}
}

// newBookCommand lists one doctor's slots on a date, or books the slot at
// --time.
func newBookCommand(a *app, svc func() *patient.Service) *cobra.Command {
	var (
		doctorID int64
		date     string
		at       string
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Show a doctor's slots or book one",
		Example: `  mhrs patient book --doctor 10000000000 --date 2025-12-01
  mhrs patient book --doctor 10000000000 --date 2025-12-01 --time 09:30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := a.requireSession(ctx, domain.RolePatient); err != nil {
				return err
			}
			day, err := booking.ParseDate(date)
			if err != nil {
				return err
			}
			if day.Before(startOfToday()) {
				return booking.ErrDateInPast
			}

			slots, err := doctor.NewService(a.client, a.logger).Slots(ctx, doctorID, day)
			if err != nil {
				return err
			}
			if strings.TrimSpace(at) == "" {
				console.RenderDaySlots(a.out(), slots)
				return nil
			}

			slot, ok := slotAt(slots, at)
			if !ok {
				return fmt.Errorf("%s saatinde randevu yok", at)
			}
			if slot.IsBooked {
				return booking.ErrSlotBooked
			}
			if err := confirm(ctx, a.confirmer(yes), booking.ConfirmPrompt(day, slot.Time)); err != nil {
				return a.declined(err)
			}
			if err := svc().BookAppointment(ctx, slot.AppointmentID); err != nil {
				if apiclient.IsConflict(err) {
					return fmt.Errorf("%w: %v", booking.ErrSlotBooked, err)
				}
				return err
			}
			a.printf("Randevunuz oluşturuldu (no %d).\n", slot.AppointmentID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&doctorID, "doctor", 0, "doctor's T.C. identity number")
	cmd.Flags().StringVar(&date, "date", "", "appointment date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&at, "time", "", "slot time (HH:MM); lists the slots when empty")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	_ = cmd.MarkFlagRequired("doctor")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func startOfToday() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func slotAt(slots []domain.Slot, hhmm string) (domain.Slot, bool) {
	hhmm = strings.TrimSpace(hhmm)
	for _, s := range slots {
		if s.Time == hhmm {
			return s, true
		}
	}
	return domain.Slot{}, false
}

// newJoinWaitingListCommand enrolls the patient with a doctor or department
// whose slots on --date are all booked.
func newJoinWaitingListCommand(a *app, svc func() *patient.Service) *cobra.Command {
	var (
		doctorID, departmentID int64
		date                   string
		yes                    bool
	)

	cmd := &cobra.Command{
		Use:   "join-waiting-list",
		Short: "Join a fully booked doctor's or department's waiting list",
		Example: `  mhrs patient join-waiting-list --doctor 20000000000 --date 2025-12-01
  mhrs patient join-waiting-list --department 2 --date 2025-12-01 --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if (doctorID == 0) == (departmentID == 0) {
				return errors.New("--doctor veya --department seçeneklerinden birini verin")
			}
			if _, err := a.requireSession(ctx, domain.RolePatient); err != nil {
				return err
			}
			day, err := booking.ParseDate(date)
			if err != nil {
				return err
			}
			if day.Before(startOfToday()) {
				return booking.ErrDateInPast
			}

			full, err := a.fullOn(ctx, doctorID, departmentID, day)
			if err != nil {
				return err
			}
			if !full {
				return booking.ErrNotFull
			}
			question := booking.DepartmentWaitlistPrompt
			if doctorID != 0 {
				question = booking.DoctorWaitlistPrompt
			}
			if err := confirm(ctx, a.confirmer(yes), question); err != nil {
				return a.declined(err)
			}

			info, err := svc().Info(ctx)
			if err != nil {
				return err
			}
			wl := waitlist.NewService(a.client, a.logger)
			var item *domain.WaitingListItem
			if doctorID != 0 {
				item, err = wl.JoinDoctor(ctx, doctorID, info.NationalID)
			} else {
				item, err = wl.JoinDepartment(ctx, departmentID, info.NationalID)
			}
			if err != nil {
				return err
			}
			a.printf("Bekleme listesine eklendiniz (kayıt %d).\n", item.WaitingID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&doctorID, "doctor", 0, "doctor's T.C. identity number")
	cmd.Flags().Int64Var(&departmentID, "department", 0, "department id")
	cmd.Flags().StringVar(&date, "date", "", "date whose slots must all be booked (YYYY-MM-DD)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

// fullOn reports whether the doctor, or every doctor of the department, has
// only booked slots on day.
func (a *app) fullOn(ctx context.Context, doctorID, departmentID int64, day time.Time) (bool, error) {
	docs := doctor.NewService(a.client, a.logger)
	if doctorID != 0 {
		slots, err := docs.Slots(ctx, doctorID, day)
		if err != nil {
			return false, err
		}
		return booking.DoctorSlots{Slots: slots}.Full(), nil
	}

	list, err := docs.ByDepartment(ctx, departmentID)
	if err != nil {
		return false, err
	}
	doctors := make([]booking.DoctorSlots, 0, len(list))
	for _, d := range list {
		slots, err := docs.Slots(ctx, d.DoctorNationalID, day)
		if err != nil {
			return false, err
		}
		doctors = append(doctors, booking.DoctorSlots{Doctor: d, Slots: slots})
	}
	return booking.DepartmentFull(doctors), nil
}

func newLeaveWaitingListCommand(a *app, svc func() *patient.Service) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "leave-waiting-list <waiting-id>",
		Short: "Leave a waiting list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := a.requireSession(ctx, domain.RolePatient); err != nil {
				return err
			}
			wl := appointments.NewPatientWaitingList(svc(), a.logger)
			if err := wl.Load(ctx); err != nil {
				return err
			}
			question := fmt.Sprintf("Bekleme listesi kaydı %d silinsin mi?", id)
			if err := confirm(ctx, a.confirmer(yes), question); err != nil {
				return a.declined(err)
			}
			if err := wl.Cancel(ctx, id); err != nil {
				return err
			}
			a.printf("Bekleme listesinden çıkıldı (kayıt %d).\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}
