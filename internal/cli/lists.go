package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wolfman30/mhrs-booking/internal/admin"
	"github.com/wolfman30/mhrs-booking/internal/appointments"
	"github.com/wolfman30/mhrs-booking/internal/console"
	"github.com/wolfman30/mhrs-booking/internal/domain"
)

func parseID(arg string) (int64, error) {
	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("geçersiz kayıt no %q", arg)
	}
	return n, nil
}

// declined turns a "no" at a confirmation into a notice instead of a failure.
func (a *app) declined(err error) error {
	if errors.Is(err, errDeclined) || errors.Is(err, admin.ErrDeclined) {
		a.printf("İşlem iptal edildi.\n")
		return nil
	}
	return err
}

func newPastCommand(a *app, role domain.Role, list func() *appointments.Past) *cobra.Command {
	var prescriptions bool

	cmd := &cobra.Command{
		Use:   "past",
		Short: "List completed appointments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := a.requireSession(ctx, role); err != nil {
				return err
			}
			past := list()
			if err := past.Load(ctx); err != nil {
				return err
			}
			var expanded func(int64) bool
			if prescriptions {
				expanded = func(int64) bool { return true }
			}
			console.RenderEntries(a.out(), role, past.Items(), expanded)
			return nil
		},
	}
	cmd.Flags().BoolVar(&prescriptions, "prescriptions", false, "print the prescription under each appointment")

	return cmd
}

func newFutureCommand(a *app, role domain.Role, list func() *appointments.Future) *cobra.Command {
	return &cobra.Command{
		Use:   "future",
		Short: "List upcoming appointments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := a.requireSession(ctx, role); err != nil {
				return err
			}
			future := list()
			if err := future.Load(ctx); err != nil {
				return err
			}
			console.RenderEntries(a.out(), role, future.Items(), nil)
			return nil
		},
	}
}

func newCancelCommand(a *app, role domain.Role, list func() *appointments.Future) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "cancel <appointment-id>",
		Short: "Cancel an upcoming appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := a.requireSession(ctx, role); err != nil {
				return err
			}
			future := list()
			if err := future.Load(ctx); err != nil {
				return err
			}
			question := fmt.Sprintf("Randevu %d iptal edilsin mi?", id)
			if err := confirm(ctx, a.confirmer(yes), question); err != nil {
				return a.declined(err)
			}
			if err := future.Cancel(ctx, id); err != nil {
				return err
			}
			a.printf("Randevu %d iptal edildi.\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}

func newWaitingListCommand(a *app, role domain.Role, list func() *appointments.WaitingList) *cobra.Command {
	return &cobra.Command{
		Use:   "waiting-list",
		Short: "List waiting list entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := a.requireSession(ctx, role); err != nil {
				return err
			}
			wl := list()
			if err := wl.Load(ctx); err != nil {
				return err
			}
			console.RenderWaitingList(a.out(), role, wl.Items())
			return nil
		},
	}
}
