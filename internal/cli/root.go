// Package cli is the mhrs command tree: one-shot commands for each role plus
// the interactive shell.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	appconfig "github.com/wolfman30/mhrs-booking/internal/config"
	"github.com/wolfman30/mhrs-booking/internal/session"
)

// Env is what the command tree reads from and writes to.
type Env struct {
	Config *appconfig.Config
	// Store replaces the configured session store when set.
	Store session.Store
	In    io.Reader
	Out   io.Writer
	Err   io.Writer
}

// NewRootCommand builds the mhrs command tree over env.
func NewRootCommand(env Env) *cobra.Command {
	a := &app{env: env}

	cmd := &cobra.Command{
		Use:   "mhrs",
		Short: "MHRS hospital appointment client",
		Long: `mhrs talks to the MHRS backend on behalf of patients, doctors and
administrators. Sign in once with "mhrs login"; the session is kept between
runs until it expires or you run "mhrs logout".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}
	cmd.SetIn(env.In)
	cmd.SetOut(env.Out)
	cmd.SetErr(env.Err)

	cmd.PersistentFlags().StringVar(&a.apiURL, "api", "", "backend API base URL (overrides MHRS_API_BASE_URL)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")

	cmd.AddCommand(newLoginCommand(a))
	cmd.AddCommand(newLogoutCommand(a))
	cmd.AddCommand(newWhoamiCommand(a))
	cmd.AddCommand(newRegisterCommand(a))
	cmd.AddCommand(newShellCommand(a))
	cmd.AddCommand(newPatientCommand(a))
	cmd.AddCommand(newDoctorCommand(a))
	cmd.AddCommand(newAdminCommand(a))

	return cmd
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	root := NewRootCommand(Env{
		Config: appconfig.Load(),
		In:     os.Stdin,
		Out:    os.Stdout,
		Err:    os.Stderr,
	})
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
