// Package views is the root view-state switch: which role is signed in and
// which single screen is shown.
package views

import (
	"errors"
	"fmt"
	"sync"

	"github.com/wolfman30/mhrs-booking/internal/domain"
)

var ErrScreenNotAllowed = errors.New("views: screen not available for this role")

// Screen names one page of the client.
type Screen string

const (
	ScreenLogin    Screen = "LOGIN"
	ScreenRegister Screen = "REGISTER"

	ScreenPatientHome               Screen = "PATIENT_HOME"
	ScreenPatientPastAppointments   Screen = "PATIENT_PAST_APPOINTMENTS"
	ScreenPatientFutureAppointments Screen = "PATIENT_FUTURE_APPOINTMENTS"
	ScreenPatientNewAppointment     Screen = "PATIENT_NEW_APPOINTMENT"
	ScreenPatientWaitingLists       Screen = "PATIENT_WAITING_LISTS"

	ScreenDoctorHome               Screen = "DOCTOR_HOME"
	ScreenDoctorPastAppointments   Screen = "DOCTOR_PAST_APPOINTMENTS"
	ScreenDoctorFutureAppointments Screen = "DOCTOR_FUTURE_APPOINTMENTS"
	ScreenDoctorWaitingLists       Screen = "DOCTOR_WAITING_LISTS"

	ScreenAdminHome          Screen = "ADMIN_HOME"
	ScreenAdminHospitals     Screen = "ADMIN_HOSPITALS"
	ScreenAdminDoctors       Screen = "ADMIN_DOCTORS"
	ScreenAdminAppointments  Screen = "ADMIN_APPOINTMENTS"
	ScreenAdminPatients      Screen = "ADMIN_PATIENTS"
	ScreenAdminPrescriptions Screen = "ADMIN_PRESCRIPTIONS"
	ScreenAdminWaitingList   Screen = "ADMIN_WAITING_LIST"
	ScreenAdminAdmins        Screen = "ADMIN_ADMINS"
)

var screensByRole = map[domain.Role][]Screen{
	"": {ScreenLogin, ScreenRegister},
	domain.RolePatient: {
		ScreenPatientHome, ScreenPatientPastAppointments, ScreenPatientFutureAppointments,
		ScreenPatientNewAppointment, ScreenPatientWaitingLists,
	},
	domain.RoleDoctor: {
		ScreenDoctorHome, ScreenDoctorPastAppointments, ScreenDoctorFutureAppointments,
		ScreenDoctorWaitingLists,
	},
	domain.RoleAdmin: {
		ScreenAdminHome, ScreenAdminHospitals, ScreenAdminDoctors, ScreenAdminAppointments,
		ScreenAdminPatients, ScreenAdminPrescriptions, ScreenAdminWaitingList, ScreenAdminAdmins,
	},
}

// Screens lists the screens reachable by role; the empty role is anonymous.
// The first entry is the role's home.
func Screens(role domain.Role) []Screen {
	return append([]Screen(nil), screensByRole[role]...)
}

// Home is the landing screen of role.
func Home(role domain.Role) Screen {
	if s := screensByRole[role]; len(s) > 0 {
		return s[0]
	}
	return ScreenLogin
}

// Allowed reports whether role may show screen.
func Allowed(role domain.Role, screen Screen) bool {
	for _, s := range screensByRole[role] {
		if s == screen {
			return true
		}
	}
	return false
}

// Route is the tagged state: an anonymous screen, or a role plus one of its screens.
type Route struct {
	Role   domain.Role
	Screen Screen
}

func (r Route) Anonymous() bool { return r.Role == "" }

func (r Route) String() string {
	if r.Anonymous() {
		return string(r.Screen)
	}
	return fmt.Sprintf("%s/%s", r.Role, r.Screen)
}

// Navigator holds the current route and a back stack.
type Navigator struct {
	mu      sync.Mutex
	current Route
	history []Route
}

// NewNavigator starts on the login screen.
func NewNavigator() *Navigator {
	return &Navigator{current: Route{Screen: ScreenLogin}}
}

func (n *Navigator) Current() Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// SignIn switches to role's home and drops the back stack.
func (n *Navigator) SignIn(role domain.Role) Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = Route{Role: role, Screen: Home(role)}
	n.history = nil
	return n.current
}

// SignOut returns to the login screen.
func (n *Navigator) SignOut() Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = Route{Screen: ScreenLogin}
	n.history = nil
	return n.current
}

// Open shows screen if the current role may see it.
func (n *Navigator) Open(screen Screen) (Route, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !Allowed(n.current.Role, screen) {
		return n.current, fmt.Errorf("%w: %s for %q", ErrScreenNotAllowed, screen, n.current.Role)
	}
	if screen == n.current.Screen {
		return n.current, nil
	}
	n.history = append(n.history, n.current)
	n.current = Route{Role: n.current.Role, Screen: screen}
	return n.current, nil
}

// Back returns to the previous screen, or the role's home when there is none.
func (n *Navigator) Back() Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.history) == 0 {
		n.current = Route{Role: n.current.Role, Screen: Home(n.current.Role)}
		return n.current
	}
	n.current = n.history[len(n.history)-1]
	n.history = n.history[:len(n.history)-1]
	return n.current
}
