package cli

import (
	"github.com/spf13/cobra"

	"github.com/wolfman30/mhrs-booking/internal/appointments"
	"github.com/wolfman30/mhrs-booking/internal/console"
	"github.com/wolfman30/mhrs-booking/internal/doctor"
	"github.com/wolfman30/mhrs-booking/internal/domain"
)

func newDoctorCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Doctor commands",
	}

	svc := func() *doctor.Service { return doctor.NewService(a.client, a.logger) }
	role := domain.RoleDoctor

	cmd.AddCommand(&cobra.Command{
		Use:   "info",
		Short: "Show your doctor profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := a.requireSession(ctx, role); err != nil {
				return err
			}
			info, err := svc().Info(ctx)
			if err != nil {
				return err
			}
			console.RenderDoctorInfo(a.out(), info)
			return nil
		},
	})
	cmd.AddCommand(newPastCommand(a, role, func() *appointments.Past { return appointments.NewDoctorPast(svc()) }))
	cmd.AddCommand(newFutureCommand(a, role, func() *appointments.Future { return appointments.NewDoctorFuture(svc(), a.logger) }))
	cmd.AddCommand(newCancelCommand(a, role, func() *appointments.Future { return appointments.NewDoctorFuture(svc(), a.logger) }))
	cmd.AddCommand(newWaitingListCommand(a, role, func() *appointments.WaitingList { return appointments.NewDoctorWaitingList(svc(), a.logger) }))

	return cmd
}
