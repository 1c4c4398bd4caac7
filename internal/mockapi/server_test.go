package mockapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/mhrs-booking/internal/admin"
	"github.com/wolfman30/mhrs-booking/internal/apiclient"
	"github.com/wolfman30/mhrs-booking/internal/auth"
	"github.com/wolfman30/mhrs-booking/internal/department"
	"github.com/wolfman30/mhrs-booking/internal/doctor"
	"github.com/wolfman30/mhrs-booking/internal/domain"
	"github.com/wolfman30/mhrs-booking/internal/hospital"
	"github.com/wolfman30/mhrs-booking/internal/patient"
	"github.com/wolfman30/mhrs-booking/internal/session"
	"github.com/wolfman30/mhrs-booking/internal/waitlist"
	"github.com/wolfman30/mhrs-booking/pkg/logging"
)

var testNow = time.Date(2025, 11, 30, 10, 0, 0, 0, time.UTC)

var (
	patientLogin = domain.LoginRequest{UserType: domain.RolePatient, NationalID: "22222222222", Password: "1234"}
	doctorLogin  = domain.LoginRequest{UserType: domain.RoleDoctor, NationalID: "10000000000", Password: "1234"}
	adminLogin   = domain.LoginRequest{UserType: domain.RoleAdmin, Username: "admin", Password: "admin"}
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := New(Config{
		Logger:    logging.Discard(),
		JWTSecret: "test-secret",
		Now:       func() time.Time { return testNow },
	})
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func newClient(ts *httptest.Server) *apiclient.Client {
	return apiclient.New(ts.URL+"/api", apiclient.WithLogger(logging.Discard()))
}

func signIn(t *testing.T, ts *httptest.Server, req domain.LoginRequest) *apiclient.Client {
	t.Helper()
	client := newClient(ts)
	_, err := auth.NewService(client, session.NewMemoryStore(), logging.Discard()).Login(context.Background(), req)
	require.NoError(t, err)
	return client
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "mhrs_mockapi_requests_total")
}

func TestLoginIssuesSessionPerRole(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	tests := []struct {
		req  domain.LoginRequest
		name string
	}{
		{patientLogin, "Zeynep Kurt"},
		{doctorLogin, "Ahmet Yılmaz"},
		{adminLogin, "Sistem Yöneticisi"},
	}
	for _, tt := range tests {
		t.Run(string(tt.req.UserType), func(t *testing.T) {
			sess, err := auth.NewService(newClient(ts), session.NewMemoryStore(), logging.Discard()).Login(ctx, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.req.UserType, sess.Role)
			assert.Equal(t, tt.name, sess.Name())
			exp, ok := sess.ExpiresAt()
			require.True(t, ok)
			assert.WithinDuration(t, testNow.Add(12*time.Hour), exp, time.Second)
		})
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ts := newTestServer(t)
	svc := auth.NewService(newClient(ts), session.NewMemoryStore(), logging.Discard())

	_, err := svc.Login(context.Background(), domain.LoginRequest{UserType: domain.RolePatient, NationalID: "22222222222", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), domain.LoginRequest{UserType: domain.RoleDoctor, NationalID: "22222222222", Password: "1234"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestRoleChecks(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	_, err := hospital.NewService(newClient(ts), logging.Discard()).Cities(ctx)
	assert.True(t, apiclient.IsUnauthorized(err), "anonymous: %v", err)

	patientClient := signIn(t, ts, patientLogin)
	_, err = admin.NewService(patientClient, logging.Discard()).Hospitals(ctx)
	assert.True(t, apiclient.IsStatus(err, http.StatusForbidden), "patient on admin: %v", err)

	_, err = doctor.NewService(patientClient, logging.Discard()).Info(ctx)
	assert.True(t, apiclient.IsStatus(err, http.StatusForbidden), "patient on doctor: %v", err)

	cities, err := hospital.NewService(patientClient, logging.Discard()).Cities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ankara", "İstanbul"}, cities)
}

func TestCatalogEndpoints(t *testing.T) {
	ts := newTestServer(t)
	client := signIn(t, ts, patientLogin)
	ctx := context.Background()

	hospitals, err := hospital.NewService(client, logging.Discard()).Search(ctx, "ankara", "")
	require.NoError(t, err)
	assert.Len(t, hospitals, 2)

	hospitals, err = hospital.NewService(client, logging.Discard()).Search(ctx, "Ankara", "Çankaya")
	require.NoError(t, err)
	require.Len(t, hospitals, 1)
	assert.Equal(t, "Ankara Şehir Hastanesi", hospitals[0].Name)

	departments, err := department.NewService(client, logging.Discard()).ByHospital(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, departments, 2)

	_, err = department.NewService(client, logging.Discard()).ByHospital(ctx, 99)
	assert.True(t, apiclient.IsNotFound(err))

	doctors, err := doctor.NewService(client, logging.Discard()).ByDepartment(ctx, 1)
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "Ahmet Yılmaz", doctors[0].FullName())

	slots, err := doctor.NewService(client, logging.Discard()).Slots(ctx, 10000000000, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, slots, 4)
	assert.Equal(t, domain.Slot{AppointmentID: 1, Time: "09:30", IsBooked: false}, slots[0])
	assert.True(t, slots[1].IsBooked)
}

func TestBookConflictAndNotFound(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	svc := patient.NewService(signIn(t, ts, patientLogin), logging.Discard())

	require.NoError(t, svc.BookAppointment(ctx, 1))
	assert.True(t, apiclient.IsConflict(svc.BookAppointment(ctx, 1)))
	assert.True(t, apiclient.IsNotFound(svc.BookAppointment(ctx, 99999)))

	future, err := svc.FutureAppointments(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, future)
	assert.Equal(t, int64(1), future[0].ID)
	assert.Equal(t, "Ahmet", future[0].DoctorFirstName)
	assert.Equal(t, domain.StatusBooked, future[0].Status)
}

func TestCancelReopensSlot(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	client := signIn(t, ts, patientLogin)
	svc := patient.NewService(client, logging.Discard())

	require.NoError(t, svc.BookAppointment(ctx, 1))
	require.NoError(t, svc.CancelAppointment(ctx, 1))
	assert.True(t, apiclient.IsConflict(svc.CancelAppointment(ctx, 1)))

	slots, err := doctor.NewService(client, logging.Discard()).Slots(ctx, 10000000000, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, slots[0].IsBooked)

	future, err := svc.FutureAppointments(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, future)
	assert.Equal(t, domain.StatusCancelledByPatient, future[0].Status)

	// Another patient's appointment is not ours to cancel.
	assert.True(t, apiclient.IsNotFound(svc.CancelAppointment(ctx, 2)))
}

func TestPatientHistory(t *testing.T) {
	ts := newTestServer(t)
	svc := patient.NewService(signIn(t, ts, patientLogin), logging.Discard())

	past, err := svc.PastAppointments(context.Background())
	require.NoError(t, err)
	require.Len(t, past, 3)
	assert.Nil(t, past[0].PrescriptionText)
	require.NotNil(t, past[2].PrescriptionText)
	assert.Equal(t, "Tansiyon ilacı: günde 1 kez.", *past[2].PrescriptionText)

	future, err := svc.FutureAppointments(context.Background())
	require.NoError(t, err)
	require.Len(t, future, 2)
	assert.Equal(t, domain.StatusCancelledByDoctor, future[0].Status)
	assert.Equal(t, domain.StatusBooked, future[1].Status)
}

func TestDoctorEndpoints(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	svc := doctor.NewService(signIn(t, ts, doctorLogin), logging.Discard())

	info, err := svc.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ankara Şehir Hastanesi", info.HospitalName)
	assert.Equal(t, "Kardiyoloji", info.DepartmentName)

	future, err := svc.FutureAppointments(ctx)
	require.NoError(t, err)
	require.Len(t, future, 2)
	assert.Equal(t, "Mehmet", future[0].PatientFirstName)

	past, err := svc.PastAppointments(ctx)
	require.NoError(t, err)
	assert.Len(t, past, 2)

	require.NoError(t, svc.CancelAppointment(ctx, 2))
	assert.True(t, apiclient.IsNotFound(svc.CancelAppointment(ctx, 5)))

	waiting, err := svc.WaitingList(ctx)
	require.NoError(t, err)
	require.Len(t, waiting, 1)
	assert.Equal(t, "Zeynep Kurt", waiting[0].PatientName)
}

func TestWaitingListJoinAndLeave(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	client := signIn(t, ts, patientLogin)
	wl := waitlist.NewService(client, logging.Discard())
	svc := patient.NewService(client, logging.Discard())

	item, err := wl.JoinDepartment(ctx, 2, "22222222222")
	require.NoError(t, err)
	assert.Equal(t, domain.WaitingLevelDepartment, item.Level)
	assert.Equal(t, "Dahiliye", item.DepartmentName)
	assert.Equal(t, "Ankara Şehir Hastanesi", item.HospitalName)

	_, err = wl.JoinDepartment(ctx, 2, "22222222222")
	assert.True(t, apiclient.IsConflict(err))

	_, err = wl.JoinDoctor(ctx, 20000000000, "33333333333")
	assert.True(t, apiclient.IsStatus(err, http.StatusForbidden))

	doc, err := wl.JoinDoctor(ctx, 20000000000, "22222222222")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Elif Demir", doc.DoctorName)

	items, err := svc.WaitingList(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 3)

	require.NoError(t, svc.CancelWaitingList(ctx, item.WaitingID))
	assert.True(t, apiclient.IsNotFound(svc.CancelWaitingList(ctx, item.WaitingID)))
	// w2 belongs to another patient.
	assert.True(t, apiclient.IsNotFound(svc.CancelWaitingList(ctx, 2)))
}

func TestRegisterThenLogin(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	authSvc := auth.NewService(newClient(ts), session.NewMemoryStore(), logging.Discard())

	form := auth.RegistrationForm{
		FirstName:  "Can",
		LastName:   "Öztürk",
		NationalID: "55555555555",
		BloodGroup: "0 Rh(-)",
		Height:     "181",
		Weight:     "77",
		Password:   "secret",
	}
	info, err := authSvc.Register(ctx, form)
	require.NoError(t, err)
	assert.Equal(t, "Can Öztürk", info.FullName())

	_, err = authSvc.Register(ctx, form)
	assert.True(t, apiclient.IsConflict(err))

	sess, err := authSvc.Login(ctx, domain.LoginRequest{UserType: domain.RolePatient, NationalID: "55555555555", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "Can Öztürk", sess.Name())
}

func TestAdminCollections(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	svc := admin.NewService(signIn(t, ts, adminLogin), logging.Discard())

	created, err := svc.CreateHospital(ctx, domain.AdminHospital{Name: "İzmir Şehir Hastanesi", City: "İzmir", District: "Bayraklı"})
	require.NoError(t, err)
	assert.Equal(t, "h4", created.ID)

	dep, err := svc.CreateDepartment(ctx, domain.AdminDepartment{Name: "Nöroloji", HospitalID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, "d5", dep.ID)

	_, err = svc.CreateDepartment(ctx, domain.AdminDepartment{Name: "Nöroloji", HospitalID: "h99"})
	assert.True(t, apiclient.IsStatus(err, http.StatusBadRequest))

	require.NoError(t, svc.DeleteHospital(ctx, created.ID))
	assert.True(t, apiclient.IsNotFound(svc.DeleteHospital(ctx, created.ID)))

	departments, err := svc.Departments(ctx)
	require.NoError(t, err)
	for _, d := range departments {
		assert.NotEqual(t, "d5", d.ID, "department of a deleted hospital must be gone")
	}

	_, err = svc.CreateDoctor(ctx, domain.AdminDoctor{FirstName: "Ali", LastName: "Veli", NationalID: "10000000000", HospitalID: "h1", DepartmentID: "d1"})
	assert.True(t, apiclient.IsConflict(err))

	_, err = svc.CreateDoctor(ctx, domain.AdminDoctor{FirstName: "Ali", LastName: "Veli", NationalID: "40000000000", HospitalID: "h1", DepartmentID: "d3"})
	assert.True(t, apiclient.IsStatus(err, http.StatusBadRequest))

	users, err := svc.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	_, err = svc.CreateUser(ctx, domain.NewAdminUser{Username: "ayse.admin", Password: "x"})
	assert.True(t, apiclient.IsConflict(err))
	assert.True(t, apiclient.IsConflict(svc.DeleteUser(ctx, "a1")))
	require.NoError(t, svc.DeleteUser(ctx, "a2"))

	summary, err := svc.DashboardSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalHospitals)
	assert.Equal(t, 11, summary.TotalAppointments)
	assert.Equal(t, 6, summary.TotalActiveAppointments)
	assert.Equal(t, 3, summary.TotalWaitingList)
}

func TestAdminAppointmentLogFilters(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()
	svc := admin.NewService(signIn(t, ts, adminLogin), logging.Discard())

	page0, err := svc.Appointments(ctx, admin.AppointmentFilter{Status: "booked", Size: 4})
	require.NoError(t, err)
	assert.Len(t, page0, 4)
	page1, err := svc.Appointments(ctx, admin.AppointmentFilter{Status: "booked", Size: 4, Page: 1})
	require.NoError(t, err)
	assert.Len(t, page1, 2)

	cancelled, err := svc.Appointments(ctx, admin.AppointmentFilter{Status: "cancelled"})
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, "Dr. Mehmet Kara", cancelled[0].DoctorName)

	completed, err := svc.Appointments(ctx, admin.AppointmentFilter{Status: "completed", Search: "zeynep"})
	require.NoError(t, err)
	assert.Len(t, completed, 3)

	ranged, err := svc.Appointments(ctx, admin.AppointmentFilter{DateFrom: "2025-12-01", DateTo: "2025-12-01"})
	require.NoError(t, err)
	assert.Len(t, ranged, 5)
	for _, row := range ranged {
		assert.True(t, strings.HasPrefix(row.When(), "2025-12-01"))
	}
}
