package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/mhrs-booking/internal/domain"
	"github.com/wolfman30/mhrs-booking/pkg/logging"
)

var testNow = time.Date(2025, 11, 30, 10, 0, 0, 0, time.UTC)

type fakeCatalog struct {
	mu          sync.Mutex
	hospitals   map[string][]domain.HospitalDTO
	departments map[int64][]domain.DepartmentDTO
	doctors     map[int64][]domain.DoctorListDTO
	slots       map[int64][]domain.Slot
	slotErr     map[int64]error

	// hospitalsGate, when set for a city, blocks Hospitals until closed.
	hospitalsGate map[string]chan struct{}
	ctxErrs       []error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		hospitals: map[string][]domain.HospitalDTO{
			"Ankara": {
				{HospitalID: 2, Name: "Ankara Eğitim ve Araştırma", City: "Ankara"},
				{HospitalID: 1, Name: "Ankara Şehir Hastanesi", City: "Ankara"},
			},
			"İstanbul": {{HospitalID: 3, Name: "İstanbul Şehir Hastanesi", City: "İstanbul"}},
		},
		departments: map[int64][]domain.DepartmentDTO{
			1: {{DepartmentID: 1, BranchName: "Kardiyoloji", HospitalID: 1}, {DepartmentID: 2, BranchName: "Dahiliye", HospitalID: 1}},
			3: {{DepartmentID: 4, BranchName: "Kardiyoloji", HospitalID: 3}},
		},
		doctors: map[int64][]domain.DoctorListDTO{
			1: {{DoctorNationalID: 10000000000, FirstName: "Ahmet", LastName: "Yılmaz", DepartmentID: 1, HospitalID: 1}},
			2: {
				{DoctorNationalID: 20000000000, FirstName: "Elif", LastName: "Demir", DepartmentID: 2, HospitalID: 1},
				{DoctorNationalID: 21000000000, FirstName: "Can", LastName: "Öztürk", DepartmentID: 2, HospitalID: 1},
			},
		},
		slots: map[int64][]domain.Slot{
			10000000000: {
				{AppointmentID: 1, Time: "09:30", IsBooked: false},
				{AppointmentID: 2, Time: "10:00", IsBooked: true},
				{AppointmentID: 3, Time: "10:30", IsBooked: false},
			},
			20000000000: {{AppointmentID: 20, Time: "09:00", IsBooked: true}},
			21000000000: {{AppointmentID: 21, Time: "09:00", IsBooked: true}, {AppointmentID: 22, Time: "09:30", IsBooked: true}},
		},
		slotErr:       map[int64]error{},
		hospitalsGate: map[string]chan struct{}{},
	}
}

func (f *fakeCatalog) Cities(context.Context) ([]string, error) {
	return []string{"Zonguldak", "İstanbul", "Çorum", "Ankara"}, nil
}

func (f *fakeCatalog) Hospitals(ctx context.Context, city string) ([]domain.HospitalDTO, error) {
	f.mu.Lock()
	gate := f.hospitalsGate[city]
	f.mu.Unlock()
	if gate != nil {
		<-gate
		f.mu.Lock()
		f.ctxErrs = append(f.ctxErrs, ctx.Err())
		f.mu.Unlock()
	}
	return append([]domain.HospitalDTO(nil), f.hospitals[city]...), nil
}

func (f *fakeCatalog) Departments(_ context.Context, hospitalID int64) ([]domain.DepartmentDTO, error) {
	return append([]domain.DepartmentDTO(nil), f.departments[hospitalID]...), nil
}

func (f *fakeCatalog) Doctors(_ context.Context, departmentID int64) ([]domain.DoctorListDTO, error) {
	return append([]domain.DoctorListDTO(nil), f.doctors[departmentID]...), nil
}

func (f *fakeCatalog) Slots(_ context.Context, doctorID int64, _ time.Time) ([]domain.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.slotErr[doctorID]; err != nil {
		return nil, err
	}
	return append([]domain.Slot(nil), f.slots[doctorID]...), nil
}

type fakeBooker struct {
	booked []int64
	err    error
}

func (b *fakeBooker) BookAppointment(_ context.Context, id int64) error {
	if b.err != nil {
		return b.err
	}
	b.booked = append(b.booked, id)
	return nil
}

type fakeWaitlist struct {
	doctors     []int64
	departments []int64
}

func (f *fakeWaitlist) JoinDoctor(_ context.Context, id int64, nid string) (*domain.WaitingListItem, error) {
	f.doctors = append(f.doctors, id)
	return &domain.WaitingListItem{WaitingID: 1, Level: domain.WaitingLevelDoctor, PatientNationalID: nid}, nil
}

func (f *fakeWaitlist) JoinDepartment(_ context.Context, id int64, nid string) (*domain.WaitingListItem, error) {
	f.departments = append(f.departments, id)
	return &domain.WaitingListItem{WaitingID: 2, Level: domain.WaitingLevelDepartment, PatientNationalID: nid}, nil
}

type fakeConfirmer struct {
	answer  bool
	prompts []string
}

func (c *fakeConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	c.prompts = append(c.prompts, prompt)
	return c.answer, nil
}

type harness struct {
	w        *Wizard
	catalog  *fakeCatalog
	booker   *fakeBooker
	waitlist *fakeWaitlist
	confirm  *fakeConfirmer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		catalog:  newFakeCatalog(),
		booker:   &fakeBooker{},
		waitlist: &fakeWaitlist{},
		confirm:  &fakeConfirmer{answer: true},
	}
	h.w = New(Config{
		Catalog:           h.catalog,
		Booker:            h.booker,
		Waitlist:          h.waitlist,
		Confirmer:         h.confirm,
		PatientNationalID: "22222222222",
		Now:               func() time.Time { return testNow },
		Logger:            logging.Discard(),
	})
	t.Cleanup(h.w.Close)
	return h
}

// walk selects date, city, hospital and department.
func (h *harness) walk(t *testing.T, departmentID int64) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, h.w.SelectDate(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, h.w.SelectCity(ctx, "Ankara"))
	require.NoError(t, h.w.SelectHospital(ctx, 1))
	require.NoError(t, h.w.SelectDepartment(ctx, departmentID))
}

func TestWizard_StagesRequireEarlierSelections(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	assert.ErrorIs(t, h.w.SelectCity(ctx, "Ankara"), ErrStageDisabled)
	assert.ErrorIs(t, h.w.SelectHospital(ctx, 1), ErrStageDisabled)
	assert.ErrorIs(t, h.w.SelectDepartment(ctx, 1), ErrStageDisabled)
	assert.ErrorIs(t, h.w.SelectDoctor(10000000000), ErrStageDisabled)
	assert.ErrorIs(t, h.w.SelectSlot(10000000000, 1), ErrStageDisabled)
	assert.ErrorIs(t, h.w.Book(ctx), ErrStageDisabled)

	st := h.w.Snapshot()
	assert.True(t, st.Enabled(StageDate))
	assert.False(t, st.Enabled(StageCity))
}

func TestWizard_PastDateRejected(t *testing.T) {
	h := newHarness(t)
	err := h.w.SelectDate(testNow.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, ErrDateInPast)
	assert.False(t, h.w.Snapshot().HasDate())

	require.NoError(t, h.w.SelectDate(testNow), "today is allowed")
}

func TestWizard_ChangingDateClearsDownstream(t *testing.T) {
	h := newHarness(t)
	h.walk(t, 1)
	require.NoError(t, h.w.LoadCities(context.Background()))
	require.NoError(t, h.w.SelectSlot(10000000000, 1))

	require.NoError(t, h.w.SelectDate(time.Date(2025, 12, 2, 0, 0, 0, 0, time.UTC)))

	st := h.w.Snapshot()
	assert.Equal(t, "2025-12-02", st.Date.Format(DateLayout))
	assert.Empty(t, st.City)
	assert.Nil(t, st.Hospital)
	assert.Nil(t, st.Department)
	assert.Zero(t, st.DoctorID)
	assert.Nil(t, st.Slot)
	assert.Empty(t, st.Hospitals)
	assert.Empty(t, st.Departments)
	assert.Empty(t, st.Doctors)
	assert.NotEmpty(t, st.Cities, "the city list does not depend on the date")
}

func TestWizard_ChangingCityKeepsDate(t *testing.T) {
	h := newHarness(t)
	h.walk(t, 1)

	require.NoError(t, h.w.SelectCity(context.Background(), "İstanbul"))
	st := h.w.Snapshot()
	assert.Equal(t, "2025-12-01", st.Date.Format(DateLayout))
	assert.Equal(t, "İstanbul", st.City)
	assert.Nil(t, st.Hospital)
	assert.Nil(t, st.Department)
	assert.Empty(t, st.Doctors)
	require.Len(t, st.Hospitals, 1)
	assert.Equal(t, int64(3), st.Hospitals[0].HospitalID)
}

func TestWizard_OptionsSortedTurkish(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.w.LoadCities(context.Background()))
	assert.Equal(t, []string{"Ankara", "Çorum", "İstanbul", "Zonguldak"}, h.w.Snapshot().Cities)

	h.walk(t, 2)
	st := h.w.Snapshot()
	assert.Equal(t, "Ankara Eğitim ve Araştırma", st.Hospitals[0].Name)
	assert.Equal(t, "Dahiliye", st.Departments[0].BranchName)
	assert.Equal(t, "Can Öztürk", st.Doctors[0].Doctor.FullName())

	got := FilterOptions(st.Hospitals, "ŞEHİR", HospitalLabel)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].HospitalID)
}

func TestWizard_BookedSlotNotSelectable(t *testing.T) {
	h := newHarness(t)
	h.walk(t, 1)

	assert.ErrorIs(t, h.w.SelectSlot(10000000000, 2), ErrSlotBooked)
	assert.ErrorIs(t, h.w.BookSlot(context.Background(), 10000000000, 2), ErrSlotBooked)
	assert.Empty(t, h.booker.booked)
	assert.ErrorIs(t, h.w.SelectSlot(10000000000, 99), ErrUnknownOption)
}

func TestWizard_BookFlipsExactlyThatSlot(t *testing.T) {
	h := newHarness(t)
	h.walk(t, 1)

	require.NoError(t, h.w.BookSlot(context.Background(), 10000000000, 1))

	assert.Equal(t, []int64{1}, h.booker.booked)
	require.Len(t, h.confirm.prompts, 1)
	assert.Equal(t, "2025-12-01 tarihli, saat 09:30 için randevu almak istiyor musunuz?", h.confirm.prompts[0])

	st := h.w.Snapshot()
	require.Len(t, st.Doctors, 1)
	assert.Equal(t, []domain.Slot{
		{AppointmentID: 1, Time: "09:30", IsBooked: true},
		{AppointmentID: 2, Time: "10:00", IsBooked: true},
		{AppointmentID: 3, Time: "10:30", IsBooked: false},
	}, st.Doctors[0].Slots)
	assert.Nil(t, st.Slot)
}

func TestWizard_DeclinedBookingMakesNoCall(t *testing.T) {
	h := newHarness(t)
	h.confirm.answer = false
	h.walk(t, 1)

	err := h.w.BookSlot(context.Background(), 10000000000, 1)
	assert.ErrorIs(t, err, ErrDeclined)
	assert.Empty(t, h.booker.booked)
	assert.False(t, h.w.Snapshot().Doctors[0].Slots[0].IsBooked)
}

func TestWizard_WithoutConfirmerRefusesToBook(t *testing.T) {
	h := newHarness(t)
	h.w.confirm = nil
	h.walk(t, 1)

	err := h.w.BookSlot(context.Background(), 10000000000, 1)
	assert.ErrorIs(t, err, ErrNoConfirmer)
	assert.Empty(t, h.booker.booked)

	require.NoError(t, h.w.SelectDepartment(context.Background(), 2))
	_, err = h.w.JoinDepartmentWaitingList(context.Background())
	assert.ErrorIs(t, err, ErrNoConfirmer)
	assert.Empty(t, h.waitlist.departments)
}

func TestWizard_FailedBookingLeavesStateUnchanged(t *testing.T) {
	h := newHarness(t)
	h.booker.err = errors.New("409 conflict")
	h.walk(t, 1)
	before := h.w.Snapshot()

	err := h.w.BookSlot(context.Background(), 10000000000, 1)
	require.Error(t, err)
	after := h.w.Snapshot()
	assert.Equal(t, before.Doctors, after.Doctors)
	require.NotNil(t, after.Slot, "selection survives a failed booking")
}

func TestWizard_FullnessDerivation(t *testing.T) {
	h := newHarness(t)
	h.walk(t, 1)
	st := h.w.Snapshot()
	assert.False(t, st.DoctorFull(10000000000))
	assert.False(t, st.DepartmentFull())
	_, err := h.w.JoinDepartmentWaitingList(context.Background())
	assert.ErrorIs(t, err, ErrNotFull)
	_, err = h.w.JoinDoctorWaitingList(context.Background(), 10000000000)
	assert.ErrorIs(t, err, ErrNotFull)

	require.NoError(t, h.w.SelectDepartment(context.Background(), 2))
	st = h.w.Snapshot()
	assert.True(t, st.DoctorFull(20000000000))
	assert.True(t, st.DoctorFull(21000000000))
	assert.True(t, st.DepartmentFull())
}

func TestWizard_DoctorWithoutSlotsIsNotFull(t *testing.T) {
	assert.False(t, DoctorSlots{}.Full())
	assert.True(t, DoctorSlots{Slots: []domain.Slot{{IsBooked: true}}}.Full())
}

func TestWizard_JoinWaitingLists(t *testing.T) {
	h := newHarness(t)
	h.walk(t, 2)
	ctx := context.Background()

	item, err := h.w.JoinDoctorWaitingList(ctx, 20000000000)
	require.NoError(t, err)
	assert.Equal(t, "22222222222", item.PatientNationalID)
	assert.Equal(t, []int64{20000000000}, h.waitlist.doctors)

	_, err = h.w.JoinDepartmentWaitingList(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, h.waitlist.departments)
	assert.Len(t, h.confirm.prompts, 2)

	assert.ErrorIs(t, h.w.SelectSlot(20000000000, 20), ErrSlotBooked)
}

func TestWizard_SlotFailureAbortsGroup(t *testing.T) {
	h := newHarness(t)
	h.catalog.slotErr[21000000000] = errors.New("slot service down")

	ctx := context.Background()
	require.NoError(t, h.w.SelectDate(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, h.w.SelectCity(ctx, "Ankara"))
	require.NoError(t, h.w.SelectHospital(ctx, 1))
	err := h.w.SelectDepartment(ctx, 2)
	require.Error(t, err)

	st := h.w.Snapshot()
	require.Len(t, st.Doctors, 2, "doctors stay listed")
	for _, d := range st.Doctors {
		assert.Empty(t, d.Slots)
	}
	assert.False(t, st.SlotsLoaded)
	assert.False(t, st.DepartmentFull(), "no waiting-list offer without slot data")
}

func TestWizard_SelectDoctorNarrowsView(t *testing.T) {
	h := newHarness(t)
	h.walk(t, 2)

	require.NoError(t, h.w.SelectDoctor(20000000000))
	st := h.w.Snapshot()
	require.Len(t, st.VisibleDoctors(), 1)
	assert.Equal(t, "Elif Demir", st.VisibleDoctors()[0].Doctor.FullName())

	require.NoError(t, h.w.SelectDoctor(0))
	assert.Len(t, h.w.Snapshot().VisibleDoctors(), 2)
	assert.ErrorIs(t, h.w.SelectDoctor(1), ErrUnknownOption)
}

func TestWizard_StaleResultDiscarded(t *testing.T) {
	h := newHarness(t)
	gate := make(chan struct{})
	h.catalog.hospitalsGate["Ankara"] = gate
	require.NoError(t, h.w.SelectDate(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)))

	firstErr := make(chan error, 1)
	go func() { firstErr <- h.w.SelectCity(context.Background(), "Ankara") }()

	require.Eventually(t, func() bool { return h.w.Snapshot().Loading[StageHospital] }, time.Second, 5*time.Millisecond)

	require.NoError(t, h.w.SelectCity(context.Background(), "İstanbul"))
	close(gate)

	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(2 * time.Second):
		t.Fatal("first selection never returned")
	}

	st := h.w.Snapshot()
	assert.Equal(t, "İstanbul", st.City)
	require.Len(t, st.Hospitals, 1)
	assert.Equal(t, "İstanbul Şehir Hastanesi", st.Hospitals[0].Name)
	assert.False(t, st.Loading[StageHospital])

	h.catalog.mu.Lock()
	defer h.catalog.mu.Unlock()
	require.Len(t, h.catalog.ctxErrs, 1)
	assert.ErrorIs(t, h.catalog.ctxErrs[0], context.Canceled, "the superseded request is cancelled")
}

func TestWizard_UnknownOptions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.w.SelectDate(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)))
	assert.ErrorIs(t, h.w.SelectCity(ctx, "  "), ErrUnknownOption)
	require.NoError(t, h.w.SelectCity(ctx, "Ankara"))
	assert.ErrorIs(t, h.w.SelectHospital(ctx, 3), ErrUnknownOption, "hospital from another city")
}

func TestParseDateAndPrompt(t *testing.T) {
	d, err := ParseDate("2025-12-01")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-01 tarihli, saat 09:30 için randevu almak istiyor musunuz?", ConfirmPrompt(d, "09:30"))

	_, err = ParseDate("01.12.2025")
	assert.Error(t, err)
}

func TestStageNames(t *testing.T) {
	var names []string
	for _, s := range Stages() {
		names = append(names, s.String())
	}
	assert.Equal(t, []string{"date", "city", "hospital", "department", "doctor", "slot"}, names)
	assert.Equal(t, "unknown", Stage(42).String())
}
