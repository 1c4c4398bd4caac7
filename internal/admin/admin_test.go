package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/mhrs-booking/internal/apiclient"
	"github.com/wolfman30/mhrs-booking/internal/domain"
	"github.com/wolfman30/mhrs-booking/pkg/logging"
)

type stubConfirmer struct {
	answer  bool
	prompts []string
}

func (s *stubConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	s.prompts = append(s.prompts, prompt)
	return s.answer, nil
}

// fakeBackend serves a tiny in-memory /admin API and records every request.
type fakeBackend struct {
	mu          sync.Mutex
	calls       []string
	hospitals   []domain.AdminHospital
	departments []domain.AdminDepartment
	failDelete  bool
	emptyCreate bool
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)

	switch {
	case r.Method == http.MethodPost && f.emptyCreate:
		w.WriteHeader(http.StatusCreated)
	case r.Method == http.MethodGet && r.URL.Path == "/admin/hospitals":
		_ = json.NewEncoder(w).Encode(f.hospitals)
	case r.Method == http.MethodGet && r.URL.Path == "/admin/departments":
		_ = json.NewEncoder(w).Encode(f.departments)
	case r.Method == http.MethodPost && r.URL.Path == "/admin/hospitals":
		var h domain.AdminHospital
		_ = json.NewDecoder(r.Body).Decode(&h)
		if h.ID != "" {
			http.Error(w, "id must be empty", http.StatusBadRequest)
			return
		}
		h.ID = "h-new"
		f.hospitals = append(f.hospitals, h)
		_ = json.NewEncoder(w).Encode(h)
	case r.Method == http.MethodPost && r.URL.Path == "/admin/users":
		var u domain.NewAdminUser
		_ = json.NewDecoder(r.Body).Decode(&u)
		if u.Password == "" {
			http.Error(w, "password required", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(domain.AdminUser{ID: "a-new", Username: u.Username})
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/admin/hospitals/"):
		if f.failDelete {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func newFixtureBackend() *fakeBackend {
	return &fakeBackend{
		hospitals: []domain.AdminHospital{
			{ID: "h1", Name: "Ankara Şehir Hastanesi", City: "Ankara", District: "Çankaya"},
			{ID: "h2", Name: "Ankara Eğitim ve Araştırma", City: "Ankara", District: "Altındağ"},
			{ID: "h3", Name: "İstanbul Şehir Hastanesi", City: "İstanbul", District: "Başakşehir"},
		},
		departments: []domain.AdminDepartment{
			{ID: "d1", Name: "Kardiyoloji", HospitalID: "h1"},
			{ID: "d2", Name: "Dahiliye", HospitalID: "h1"},
			{ID: "d3", Name: "Ortopedi", HospitalID: "h2"},
		},
	}
}

func newTestGrids(t *testing.T, backend *fakeBackend, confirm Confirmer) *Grids {
	t.Helper()
	ts := httptest.NewServer(backend)
	t.Cleanup(ts.Close)
	client := apiclient.New(ts.URL, apiclient.WithLogger(logging.Discard()))
	return NewGrids(NewService(client, logging.Discard()), confirm, logging.Discard())
}

func TestGrid_FilterTurkishCaseInsensitive(t *testing.T) {
	grids := newTestGrids(t, newFixtureBackend(), &stubConfirmer{answer: true})
	require.NoError(t, grids.Hospitals.Load(context.Background()))

	for _, q := range []string{"İSTANBUL", "istanbul", "İstanbul"} {
		got := grids.Hospitals.Filter(q)
		require.Len(t, got, 1, q)
		assert.Equal(t, "h3", got[0].ID)
	}
	assert.Len(t, grids.Hospitals.Filter("ankara"), 2)
	assert.Len(t, grids.Hospitals.Filter("çankaya"), 1, "district is searchable")
	assert.Len(t, grids.Hospitals.Filter(""), 3)
}

func TestGrid_DeclinedDeleteMakesNoRequest(t *testing.T) {
	backend := newFixtureBackend()
	confirm := &stubConfirmer{answer: false}
	grids := newTestGrids(t, backend, confirm)
	ctx := context.Background()
	require.NoError(t, grids.Hospitals.Load(ctx))

	err := grids.Hospitals.Delete(ctx, "h1")
	assert.ErrorIs(t, err, ErrDeclined)
	assert.Equal(t, 3, grids.Hospitals.Len())
	assert.Equal(t, []string{"GET /admin/hospitals"}, backend.Calls())
	require.Len(t, confirm.prompts, 1)
	assert.Contains(t, confirm.prompts[0], "hastaneyi")
}

func TestGrid_HospitalDeleteCascadesToDepartments(t *testing.T) {
	backend := newFixtureBackend()
	grids := newTestGrids(t, backend, &stubConfirmer{answer: true})
	ctx := context.Background()
	require.NoError(t, grids.Hospitals.Load(ctx))
	require.NoError(t, grids.Departments.Load(ctx))

	require.NoError(t, grids.Hospitals.Delete(ctx, "h1"))

	_, ok := grids.Hospitals.Find("h1")
	assert.False(t, ok)
	assert.Empty(t, grids.DepartmentsOf("h1"))
	remaining := grids.Departments.Items()
	require.Len(t, remaining, 1)
	assert.Equal(t, "d3", remaining[0].ID)
}

func TestGrid_FailedDeleteKeepsState(t *testing.T) {
	backend := newFixtureBackend()
	backend.failDelete = true
	grids := newTestGrids(t, backend, &stubConfirmer{answer: true})
	ctx := context.Background()
	require.NoError(t, grids.Hospitals.Load(ctx))
	require.NoError(t, grids.Departments.Load(ctx))

	err := grids.Hospitals.Delete(ctx, "h1")
	require.Error(t, err)
	assert.Equal(t, 3, grids.Hospitals.Len())
	assert.Len(t, grids.DepartmentsOf("h1"), 2)
}

func TestGrid_DeleteUnknownKey(t *testing.T) {
	grids := newTestGrids(t, newFixtureBackend(), &stubConfirmer{answer: true})
	err := grids.Hospitals.Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGrid_CreateReconcilesServerRecord(t *testing.T) {
	grids := newTestGrids(t, newFixtureBackend(), nil)
	ctx := context.Background()
	require.NoError(t, grids.Hospitals.Load(ctx))

	created, err := grids.Hospitals.Create(ctx, domain.AdminHospital{ID: "client-made", Name: "Sinop Devlet", City: "Sinop"})
	require.NoError(t, err)
	assert.Equal(t, "h-new", created.ID)
	got, ok := grids.Hospitals.Find("h-new")
	require.True(t, ok)
	assert.Equal(t, "Sinop Devlet", got.Name)
	assert.Equal(t, 4, grids.Hospitals.Len())
}

func TestGrid_CreateWithoutServerIDAddsNoRow(t *testing.T) {
	backend := newFixtureBackend()
	backend.emptyCreate = true
	grids := newTestGrids(t, backend, nil)
	ctx := context.Background()
	require.NoError(t, grids.Hospitals.Load(ctx))

	_, err := grids.Hospitals.Create(ctx, domain.AdminHospital{Name: "Sinop Devlet", City: "Sinop"})
	assert.ErrorIs(t, err, ErrNoID)
	assert.Equal(t, 3, grids.Hospitals.Len())
	_, ok := grids.Hospitals.Find("")
	assert.False(t, ok)

	_, err = grids.CreateUser(ctx, domain.NewAdminUser{Username: "mehmet.admin", Password: "pw"})
	assert.ErrorIs(t, err, ErrNoID)
	assert.Zero(t, grids.Users.Len())
}

func TestGrid_ReadOnlyCollections(t *testing.T) {
	grids := newTestGrids(t, newFixtureBackend(), nil)
	assert.False(t, grids.Prescriptions.CanCreate())
	_, err := grids.Prescriptions.Create(context.Background(), domain.AdminPrescription{})
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestGrids_CreateUserSendsPassword(t *testing.T) {
	grids := newTestGrids(t, newFixtureBackend(), nil)
	u, err := grids.CreateUser(context.Background(), domain.NewAdminUser{Username: "mehmet.admin", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "a-new", u.ID)
	_, ok := grids.Users.Find("a-new")
	assert.True(t, ok)
}

func TestGrid_FailedLoadLeavesEmpty(t *testing.T) {
	grids := newTestGrids(t, newFixtureBackend(), nil)
	grids.Users.Adopt(domain.AdminUser{ID: "stale"})
	err := grids.Users.Load(context.Background())
	require.Error(t, err)
	assert.Zero(t, grids.Users.Len())
}

func TestGrid_FilterOtherCollections(t *testing.T) {
	ctx := context.Background()
	rx := NewGrid(GridSpec[domain.AdminPrescription]{
		Name: "prescriptions",
		Key:  func(p domain.AdminPrescription) string { return p.ID },
		Text: func(p domain.AdminPrescription) string { return strings.Join(p.AllMedicines(), " ") + " " + p.PatientName },
		List: func(context.Context) ([]domain.AdminPrescription, error) {
			return []domain.AdminPrescription{
				{ID: "rx1", PatientName: "Zeynep Kurt", Medicines: []string{"Aspirin 100 mg"}},
				{ID: "rx2", PatientName: "Mehmet Kara", Medicines: []string{"Metformin 850 mg"}, Drugs: []string{"ASPİRİN"}},
			}, nil
		},
	}, nil, logging.Discard())
	require.NoError(t, rx.Load(ctx))

	assert.Len(t, rx.Filter("aspirin"), 2)
	assert.Len(t, rx.Filter("metformin"), 1)
}

type stubLister struct {
	filters []AppointmentFilter
	rows    func(f AppointmentFilter) []domain.AdminAppointment
	err     error
}

func (s *stubLister) Appointments(_ context.Context, f AppointmentFilter) ([]domain.AdminAppointment, error) {
	s.filters = append(s.filters, f)
	if s.err != nil {
		return nil, s.err
	}
	return s.rows(f), nil
}

func rowsOf(n int, start int64) []domain.AdminAppointment {
	out := make([]domain.AdminAppointment, n)
	for i := range out {
		out[i] = domain.AdminAppointment{ID: start + int64(i)}
	}
	return out
}

func TestAppointmentLog_Paging(t *testing.T) {
	ctx := context.Background()
	lister := &stubLister{rows: func(f AppointmentFilter) []domain.AdminAppointment {
		if f.Page == 0 {
			return rowsOf(2, 1)
		}
		return rowsOf(1, 3)
	}}
	log := NewAppointmentLog(lister, 2)

	assert.False(t, log.HasNext(), "nothing loads before the first search")
	require.NoError(t, log.Search(ctx, LogCriteria{DateFrom: "2025-12-01", Status: LogStatusBooked, Search: "Kurt"}))
	assert.Equal(t, 0, log.Page())
	assert.True(t, log.HasNext())

	require.NoError(t, log.Next(ctx))
	assert.Equal(t, 1, log.Page())
	assert.False(t, log.HasNext())
	assert.ErrorIs(t, log.Next(ctx), ErrLastPage)

	require.NoError(t, log.Prev(ctx))
	assert.Equal(t, 0, log.Page())
	assert.ErrorIs(t, log.Prev(ctx), ErrFirstPage)

	require.Len(t, lister.filters, 3)
	assert.Equal(t, "Kurt", lister.filters[1].Search, "criteria stick across pages")
	assert.Equal(t, 2, lister.filters[1].Size)
}

func TestAppointmentLog_SearchResetsPage(t *testing.T) {
	ctx := context.Background()
	lister := &stubLister{rows: func(f AppointmentFilter) []domain.AdminAppointment { return rowsOf(2, int64(f.Page*2+1)) }}
	log := NewAppointmentLog(lister, 2)
	require.NoError(t, log.Search(ctx, LogCriteria{}))
	require.NoError(t, log.Next(ctx))
	require.Equal(t, 1, log.Page())

	require.NoError(t, log.Search(ctx, LogCriteria{Search: "Yılmaz"}))
	assert.Equal(t, 0, log.Page())
}

func TestAppointmentLog_FailureKeepsPage(t *testing.T) {
	ctx := context.Background()
	lister := &stubLister{rows: func(AppointmentFilter) []domain.AdminAppointment { return rowsOf(2, 1) }}
	log := NewAppointmentLog(lister, 2)
	require.NoError(t, log.Search(ctx, LogCriteria{}))

	lister.err = errors.New("down")
	require.Error(t, log.Next(ctx))
	assert.Equal(t, 0, log.Page())
	assert.Len(t, log.Rows(), 2)
}

func TestAppointmentLog_ToggleSingleExpanded(t *testing.T) {
	log := NewAppointmentLog(&stubLister{}, 0)
	assert.Equal(t, 10, log.Size())
	log.Toggle(1)
	assert.True(t, log.Expanded(1))
	log.Toggle(2)
	assert.False(t, log.Expanded(1))
	assert.True(t, log.Expanded(2))
	log.Toggle(2)
	assert.False(t, log.Expanded(2))
}

func TestService_AppointmentsQuery(t *testing.T) {
	var got map[string][]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/appointments", r.URL.Path)
		got = r.URL.Query()
		_, _ = w.Write([]byte(`[{"id":3,"slotDateTime":"2025-12-05T11:15:00","status":"FUTURE"}]`))
	}))
	t.Cleanup(ts.Close)
	svc := NewService(apiclient.New(ts.URL, apiclient.WithLogger(logging.Discard())), logging.Discard())

	rows, err := svc.Appointments(context.Background(), AppointmentFilter{DateTo: "2025-12-31", Page: 0, Size: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2025-12-05T11:15:00", rows[0].When())

	assert.Equal(t, []string{"2025-12-31"}, got["dateTo"])
	assert.Equal(t, []string{"0"}, got["page"])
	assert.Equal(t, []string{"10"}, got["size"])
	for _, k := range []string{"dateFrom", "status", "search"} {
		_, present := got[k]
		assert.False(t, present, k)
	}
}

func TestDashboard_Load(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/dashboardSummary", r.URL.Path)
		_, _ = w.Write([]byte(`{"totalHospitals":3,"totalDoctors":3,"totalWaitingList":3}`))
	}))
	t.Cleanup(ts.Close)
	svc := NewService(apiclient.New(ts.URL, apiclient.WithLogger(logging.Discard())), logging.Discard())
	dash := NewDashboard(svc)

	assert.Nil(t, dash.Summary())
	s, err := dash.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, s.TotalHospitals)
	assert.Equal(t, 3, dash.Summary().TotalWaitingList)
}
