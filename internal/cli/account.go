package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wolfman30/mhrs-booking/internal/auth"
	"github.com/wolfman30/mhrs-booking/internal/domain"
)

func newLoginCommand(a *app) *cobra.Command {
	var (
		role       string
		nationalID string
		username   string
		password   string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			r, err := domain.ParseRole(role)
			if err != nil {
				return err
			}

			req := domain.LoginRequest{UserType: r, NationalID: nationalID, Username: username, Password: password}
			if r.UsesUsername() && strings.TrimSpace(req.Username) == "" {
				if req.Username, err = a.prompt.Ask(ctx, "Kullanıcı adı"); err != nil {
					return err
				}
			}
			if !r.UsesUsername() && strings.TrimSpace(req.NationalID) == "" {
				if req.NationalID, err = a.prompt.Ask(ctx, "T.C. Kimlik No"); err != nil {
					return err
				}
			}
			if req.Password == "" {
				if req.Password, err = a.prompt.Ask(ctx, "Şifre"); err != nil {
					return err
				}
			}

			sess, err := a.auth.Login(ctx, req)
			if errors.Is(err, auth.ErrInvalidCredentials) {
				return errors.New("giriş başarısız: bilgilerinizi kontrol edin")
			}
			if err != nil {
				return err
			}
			a.printf("Hoş geldiniz, %s (%s).\n", sess.Name(), sess.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", string(domain.RolePatient), "patient, doctor or admin")
	cmd.Flags().StringVar(&nationalID, "national-id", "", "T.C. identity number (patient, doctor)")
	cmd.Flags().StringVar(&username, "username", "", "username (admin)")
	cmd.Flags().StringVar(&password, "password", "", "password; asked for when empty")

	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			a.printf("Çıkış yapıldı.\n")
			return nil
		},
	}
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.requireSession(cmd.Context(), "")
			if err != nil {
				return err
			}
			a.printf("Ad: %s\nRol: %s\n", sess.Name(), sess.Role)
			if exp, ok := sess.ExpiresAt(); ok {
				a.printf("Oturum bitişi: %s\n", exp.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func newRegisterCommand(a *app) *cobra.Command {
	var form auth.RegistrationForm

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a patient account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if form.Password == "" {
				pw, err := a.prompt.Ask(ctx, "Şifre")
				if err != nil {
					return err
				}
				form.Password = pw
			}
			info, err := a.auth.Register(ctx, form)
			if err != nil {
				return fmt.Errorf("kayıt başarısız: %w", err)
			}
			a.printf("Kayıt başarılı: %s (%s). Artık giriş yapabilirsiniz.\n", info.FullName(), info.NationalID)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&form.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&form.NationalID, "national-id", "", "11-digit T.C. identity number")
	cmd.Flags().StringVar(&form.BloodGroup, "blood-group", domain.DefaultBloodGroup, "blood group, e.g. \"A Rh(+)\"")
	cmd.Flags().StringVar(&form.Height, "height", "", "height in cm")
	cmd.Flags().StringVar(&form.Weight, "weight", "", "weight in kg")
	cmd.Flags().StringVar(&form.Password, "password", "", "password; asked for when empty")

	return cmd
}
