package console

import (
	"context"
	"errors"

	"github.com/wolfman30/mhrs-booking/internal/apiclient"
	"github.com/wolfman30/mhrs-booking/internal/auth"
	"github.com/wolfman30/mhrs-booking/internal/domain"
	"github.com/wolfman30/mhrs-booking/internal/views"
)

func (s *Shell) loginPage(ctx context.Context, _ bool) error {
	return s.menu(ctx, "MHRS - Merkezi Hekim Randevu Sistemi",
		action{"Hasta girişi", s.loginAs(domain.RolePatient)},
		action{"Doktor girişi", s.loginAs(domain.RoleDoctor)},
		action{"Yönetici girişi", s.loginAs(domain.RoleAdmin)},
		s.openAction("Hasta kaydı", views.ScreenRegister),
		quitAction(),
	)
}

func (s *Shell) loginAs(role domain.Role) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		label := "T.C. Kimlik No"
		if role.UsesUsername() {
			label = "Kullanıcı adı"
		}
		ident, err := s.prompt.Ask(ctx, label)
		if err != nil {
			return err
		}
		password, err := s.prompt.Ask(ctx, "Şifre")
		if err != nil {
			return err
		}

		req := domain.LoginRequest{UserType: role, Password: password}
		if role.UsesUsername() {
			req.Username = ident
		} else {
			req.NationalID = ident
		}
		sess, err := s.auth.Login(ctx, req)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.prompt.Println("Giriş başarısız. Bilgilerinizi kontrol edin.")
			return nil
		}
		if err != nil {
			return err
		}
		s.enter(sess)
		return nil
	}
}

// registerPage collects the registration form. An empty first name returns
// to the login screen.
func (s *Shell) registerPage(ctx context.Context, _ bool) error {
	s.prompt.Println("\nHasta Kaydı (geri dönmek için adı boş bırakın)")
	var form auth.RegistrationForm
	if err := s.askFields(ctx, field{"Ad", &form.FirstName}); err != nil {
		return err
	}
	if form.FirstName == "" {
		s.nav.Back()
		return nil
	}
	if err := s.askFields(ctx, field{"Soyad", &form.LastName}, field{"T.C. Kimlik No", &form.NationalID}); err != nil {
		return err
	}
	i, err := s.prompt.Choose(ctx, "Kan grubu", domain.BloodGroups)
	if err != nil {
		return err
	}
	form.BloodGroup = domain.BloodGroups[i]
	if err := s.askFields(ctx, field{"Boy (cm)", &form.Height}, field{"Kilo (kg)", &form.Weight}, field{"Şifre", &form.Password}); err != nil {
		return err
	}

	info, err := s.auth.Register(ctx, form)
	switch {
	case errors.Is(err, auth.ErrInvalidForm):
		s.prompt.Println("Form geçersiz: " + err.Error())
		return nil
	case apiclient.IsConflict(err):
		s.prompt.Println("Bu T.C. kimlik numarası ile kayıtlı bir hasta zaten var.")
		return nil
	case err != nil:
		return err
	}
	s.prompt.Printf("Kayıt başarılı. %s, artık giriş yapabilirsiniz.\n", info.FullName())
	s.nav.Back()
	return nil
}
