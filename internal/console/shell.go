package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/wolfman30/mhrs-booking/internal/admin"
	"github.com/wolfman30/mhrs-booking/internal/apiclient"
	"github.com/wolfman30/mhrs-booking/internal/appointments"
	"github.com/wolfman30/mhrs-booking/internal/auth"
	"github.com/wolfman30/mhrs-booking/internal/booking"
	"github.com/wolfman30/mhrs-booking/internal/department"
	"github.com/wolfman30/mhrs-booking/internal/doctor"
	"github.com/wolfman30/mhrs-booking/internal/domain"
	"github.com/wolfman30/mhrs-booking/internal/hospital"
	"github.com/wolfman30/mhrs-booking/internal/patient"
	"github.com/wolfman30/mhrs-booking/internal/session"
	"github.com/wolfman30/mhrs-booking/internal/views"
	"github.com/wolfman30/mhrs-booking/internal/waitlist"
	"github.com/wolfman30/mhrs-booking/pkg/logging"
)

var errQuit = errors.New("console: quit")

// Deps wires a Shell to the backend.
type Deps struct {
	Client   *apiclient.Client
	Store    session.Store
	PageSize int
	Now      func() time.Time
	Logger   *logging.Logger
}

// page renders one screen and handles one choice. fresh is true when the
// screen was just entered and its data should be loaded.
type page func(ctx context.Context, fresh bool) error

// Shell is the interactive client: one screen at a time, driven by a
// views.Navigator.
type Shell struct {
	prompt *Prompter
	out    io.Writer
	nav    *views.Navigator
	now    func() time.Time
	logger *logging.Logger

	auth     *auth.Service
	patients *patient.Service
	doctors  *doctor.Service
	catalog  *booking.ServiceCatalog
	waitlist *waitlist.Service

	patientPast    *appointments.Past
	patientFuture  *appointments.Future
	patientWaiting *appointments.WaitingList
	doctorPast     *appointments.Past
	doctorFuture   *appointments.Future
	doctorWaiting  *appointments.WaitingList

	grids     *admin.Grids
	log       *admin.AppointmentLog
	dashboard *admin.Dashboard

	pages map[views.Screen]page

	sess       *session.Session
	patientNID string
	wizard     *booking.Wizard
	filter     string
}

func NewShell(deps Deps, in io.Reader, out io.Writer) *Shell {
	if deps.Logger == nil {
		deps.Logger = logging.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	logger := deps.Logger.With("component", "console")
	client := deps.Client

	patients := patient.NewService(client, deps.Logger)
	doctors := doctor.NewService(client, deps.Logger)
	adminSvc := admin.NewService(client, deps.Logger)

	s := &Shell{
		prompt:   NewPrompter(in, out),
		out:      out,
		nav:      views.NewNavigator(),
		now:      deps.Now,
		logger:   logger,
		auth:     auth.NewService(client, deps.Store, deps.Logger),
		patients: patients,
		doctors:  doctors,
		catalog: booking.NewServiceCatalog(
			hospital.NewService(client, deps.Logger),
			department.NewService(client, deps.Logger),
			doctors,
		),
		waitlist: waitlist.NewService(client, deps.Logger),

		patientPast:    appointments.NewPatientPast(patients),
		patientFuture:  appointments.NewPatientFuture(patients, deps.Logger),
		patientWaiting: appointments.NewPatientWaitingList(patients, deps.Logger),
		doctorPast:     appointments.NewDoctorPast(doctors),
		doctorFuture:   appointments.NewDoctorFuture(doctors, deps.Logger),
		doctorWaiting:  appointments.NewDoctorWaitingList(doctors, deps.Logger),
		log:            admin.NewAppointmentLog(adminSvc, deps.PageSize),
		dashboard:      admin.NewDashboard(adminSvc),
	}
	s.grids = admin.NewGrids(adminSvc, s.prompt, deps.Logger)

	s.pages = map[views.Screen]page{
		views.ScreenLogin:    s.loginPage,
		views.ScreenRegister: s.registerPage,

		views.ScreenPatientHome:               s.patientHomePage,
		views.ScreenPatientPastAppointments:   s.pastPage(s.patientPast, domain.RolePatient),
		views.ScreenPatientFutureAppointments: s.futurePage(s.patientFuture),
		views.ScreenPatientNewAppointment:     s.newAppointmentPage,
		views.ScreenPatientWaitingLists:       s.waitingPage(s.patientWaiting),

		views.ScreenDoctorHome:               s.doctorHomePage,
		views.ScreenDoctorPastAppointments:   s.pastPage(s.doctorPast, domain.RoleDoctor),
		views.ScreenDoctorFutureAppointments: s.futurePage(s.doctorFuture),
		views.ScreenDoctorWaitingLists:       s.waitingPage(s.doctorWaiting),

		views.ScreenAdminHome:          s.adminHomePage,
		views.ScreenAdminHospitals:     s.adminHospitalsPage,
		views.ScreenAdminDoctors:       s.adminDoctorsPage,
		views.ScreenAdminAppointments:  s.adminAppointmentsPage,
		views.ScreenAdminPatients:      s.adminPatientsPage,
		views.ScreenAdminPrescriptions: s.adminPrescriptionsPage,
		views.ScreenAdminWaitingList:   s.adminWaitingListPage,
		views.ScreenAdminAdmins:        s.adminUsersPage,
	}
	return s
}

// Route is the screen currently shown.
func (s *Shell) Route() views.Route { return s.nav.Current() }

// Session is the signed-in user's session, or nil.
func (s *Shell) Session() *session.Session { return s.sess }

// Run restores any saved session and then shows pages until the user quits,
// the input ends or ctx is cancelled.
func (s *Shell) Run(ctx context.Context) error {
	s.restore(ctx)
	defer s.closeWizard()

	var last views.Route
	first := true
	for {
		if ctx.Err() != nil {
			return nil
		}
		route := s.nav.Current()
		fresh := first || route != last
		first, last = false, route

		p, ok := s.pages[route.Screen]
		if !ok {
			return fmt.Errorf("no page for %s", route)
		}
		err := p(ctx, fresh)
		switch {
		case err == nil:
		case errors.Is(err, errQuit), errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
			return nil
		default:
			s.report(ctx, err)
		}
	}
}

func (s *Shell) restore(ctx context.Context) {
	sess, err := s.auth.Restore(ctx)
	switch {
	case err == nil:
		s.enter(sess)
	case errors.Is(err, auth.ErrSessionExpired):
		s.prompt.Println("Oturumunuzun süresi doldu, lütfen tekrar giriş yapın.")
	case errors.Is(err, session.ErrNoSession):
	default:
		s.logger.Warn("session restore failed", "error", err)
	}
}

// enter switches to the signed-in user's home screen.
func (s *Shell) enter(sess *session.Session) {
	s.sess = sess
	s.patientNID = ""
	s.nav.SignIn(sess.Role)
	s.prompt.Printf("\nHoş geldiniz, %s.\n", sess.Name())
}

func (s *Shell) signOut(ctx context.Context) error {
	s.closeWizard()
	s.sess = nil
	s.patientNID = ""
	s.nav.SignOut()
	if err := s.auth.Logout(ctx); err != nil {
		return err
	}
	s.prompt.Println("Çıkış yapıldı.")
	return nil
}

func (s *Shell) closeWizard() {
	if s.wizard != nil {
		s.wizard.Close()
		s.wizard = nil
	}
}

// report prints err for the user. A rejected token ends the session.
func (s *Shell) report(ctx context.Context, err error) {
	s.logger.Debug("page error", "route", s.nav.Current().String(), "error", err)
	if s.sess != nil && apiclient.IsUnauthorized(err) {
		s.prompt.Println("Oturumunuz geçersiz, lütfen tekrar giriş yapın.")
		if err := s.signOut(ctx); err != nil {
			s.logger.Warn("sign out failed", "error", err)
		}
		return
	}
	s.prompt.Println("Hata: " + describe(err))
}

func describe(err error) string {
	switch {
	case errors.Is(err, booking.ErrDeclined), errors.Is(err, admin.ErrDeclined):
		return "işlem iptal edildi."
	case errors.Is(err, booking.ErrDateInPast):
		return "geçmiş bir tarih seçilemez."
	case errors.Is(err, booking.ErrStageDisabled):
		return "önce önceki adımları tamamlayın."
	case errors.Is(err, booking.ErrSlotBooked):
		return "seçilen saat dolu."
	case errors.Is(err, booking.ErrNotFull):
		return "boş randevu varken bekleme listesine katılamazsınız."
	case errors.Is(err, appointments.ErrAlreadyCancelled):
		return "randevu zaten iptal edilmiş."
	case errors.Is(err, appointments.ErrNotFound), errors.Is(err, admin.ErrNotFound), apiclient.IsNotFound(err):
		return "kayıt bulunamadı."
	case apiclient.IsConflict(err):
		return "işlem yapılamadı, kayıt zaten mevcut ya da artık uygun değil."
	}
	return err.Error()
}

// action is one menu entry.
type action struct {
	label string
	run   func(ctx context.Context) error
}

func (s *Shell) menu(ctx context.Context, title string, actions ...action) error {
	labels := make([]string, len(actions))
	for i, a := range actions {
		labels[i] = a.label
	}
	i, err := s.prompt.Choose(ctx, title, labels)
	if err != nil {
		return err
	}
	return actions[i].run(ctx)
}

func (s *Shell) openAction(label string, screen views.Screen) action {
	return action{label: label, run: func(context.Context) error {
		_, err := s.nav.Open(screen)
		return err
	}}
}

func (s *Shell) backAction() action {
	return action{label: "Geri", run: func(context.Context) error {
		s.nav.Back()
		return nil
	}}
}

func (s *Shell) signOutAction() action {
	return action{label: "Çıkış yap", run: s.signOut}
}

func quitAction() action {
	return action{label: "Kapat", run: func(context.Context) error { return errQuit }}
}

func (s *Shell) askID(ctx context.Context, label string) (int64, error) {
	raw, err := s.prompt.Ask(ctx, label)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("geçersiz numara %q", raw)
	}
	return n, nil
}

// pick offers items as a numbered list. Typed text narrows the list with
// Turkish-insensitive matching; an empty answer gives up.
func pick[T any](ctx context.Context, p *Prompter, title string, items []T, label func(T) string) (T, bool, error) {
	var zero T
	shown := items
	for {
		labels := make([]string, len(shown))
		for i, it := range shown {
			labels[i] = label(it)
		}
		idx, query, err := p.Select(ctx, title, labels)
		if err != nil {
			return zero, false, err
		}
		if idx >= 0 {
			return shown[idx], true, nil
		}
		if query == "" {
			return zero, false, nil
		}
		shown = booking.FilterOptions(items, query, label)
	}
}

// field is one free-text form input.
type field struct {
	label string
	dst   *string
}

func (s *Shell) askFields(ctx context.Context, fields ...field) error {
	for _, f := range fields {
		v, err := s.prompt.Ask(ctx, f.label)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	return nil
}
