package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wolfman30/mhrs-booking/internal/domain"
	"github.com/wolfman30/mhrs-booking/internal/textsearch"
	"github.com/wolfman30/mhrs-booking/pkg/logging"
)

var (
	ErrDateInPast    = errors.New("booking: date is in the past")
	ErrStageDisabled = errors.New("booking: earlier selection missing")
	ErrUnknownOption = errors.New("booking: unknown option")
	ErrSlotBooked    = errors.New("booking: slot is already booked")
	ErrSuperseded    = errors.New("booking: superseded by a newer selection")
	ErrDeclined      = errors.New("booking: declined")
	ErrNotFull       = errors.New("booking: free slots remain")
	ErrNoConfirmer   = errors.New("booking: no confirmer configured")
)

// DateLayout is the wire and display format of appointment dates.
const DateLayout = "2006-01-02"

// Questions asked before joining a waiting list.
const (
	DoctorWaitlistPrompt     = "Bu doktor için tüm randevular dolu. Bekleme listesine katılmak istiyor musunuz?"
	DepartmentWaitlistPrompt = "Bu departmandaki tüm doktorların randevuları dolu. Departman bekleme listesine katılmak istiyor musunuz?"
)

const slotFetchLimit = 8

// Config wires a Wizard.
type Config struct {
	Catalog           Catalog
	Booker            Booker
	Waitlist          WaitlistJoiner
	// Confirmer is asked before every booking and waiting-list join.
	// Without one those calls fail with ErrNoConfirmer.
	Confirmer         Confirmer
	PatientNationalID string
	Now               func() time.Time
	Logger            *logging.Logger
}

// Wizard holds the new-appointment flow state. Each option fetch is tagged
// with a per-stage generation; a result whose generation is no longer
// current is dropped and ErrSuperseded returned, so the last selection wins.
type Wizard struct {
	catalog   Catalog
	booker    Booker
	waitlist  WaitlistJoiner
	confirm   Confirmer
	patientID string
	now       func() time.Time
	logger    *logging.Logger

	mu      sync.Mutex
	st      State
	gen     [stageCount]uint64
	cancels [stageCount]context.CancelFunc
	loading [stageCount]bool
}

func New(cfg Config) *Wizard {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Wizard{
		catalog:   cfg.Catalog,
		booker:    cfg.Booker,
		waitlist:  cfg.Waitlist,
		confirm:   cfg.Confirmer,
		patientID: cfg.PatientNationalID,
		now:       cfg.Now,
		logger:    cfg.Logger.With("component", "booking_wizard"),
	}
}

// ParseDate reads a YYYY-MM-DD date in the local time zone.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d, nil
}

// ConfirmPrompt is the question asked before a slot is booked.
func ConfirmPrompt(date time.Time, hhmm string) string {
	return fmt.Sprintf("%s tarihli, saat %s için randevu almak istiyor musunuz?", date.Format(DateLayout), hhmm)
}

// Snapshot returns a copy of the current state.
func (w *Wizard) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	st := w.st
	st.Loading = make(map[Stage]bool)
	for s := StageDate; s < stageCount; s++ {
		if w.loading[s] {
			st.Loading[s] = true
		}
	}
	return st.clone()
}

// Close cancels every in-flight fetch.
func (w *Wizard) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for s := StageDate; s < stageCount; s++ {
		w.invalidate(s)
	}
}

// invalidate drops any in-flight fetch for stage. Caller holds mu.
func (w *Wizard) invalidate(s Stage) {
	w.gen[s]++
	if w.cancels[s] != nil {
		w.cancels[s]()
		w.cancels[s] = nil
	}
	w.loading[s] = false
}

// begin starts a fetch for stage and returns its context and generation.
// Caller holds mu.
func (w *Wizard) begin(ctx context.Context, s Stage) (context.Context, uint64) {
	w.invalidate(s)
	fctx, cancel := context.WithCancel(ctx)
	w.cancels[s] = cancel
	w.loading[s] = true
	return fctx, w.gen[s]
}

// finish reports whether gen is still current for stage and, if so, ends
// the fetch. Caller holds mu.
func (w *Wizard) finish(s Stage, gen uint64) bool {
	if w.gen[s] != gen {
		w.logger.Debug("discarding stale result", "stage", s.String())
		return false
	}
	w.loading[s] = false
	if w.cancels[s] != nil {
		w.cancels[s]()
		w.cancels[s] = nil
	}
	return true
}

// resetAfter clears every selection and option list that depends on stage
// and drops in-flight fetches for them. The city list never depends on
// anything. Caller holds mu.
func (w *Wizard) resetAfter(stage Stage) {
	if stage < StageCity {
		w.st.City = ""
	}
	if stage < StageHospital {
		w.st.Hospital = nil
		w.st.Hospitals = nil
		w.invalidate(StageHospital)
	}
	if stage < StageDepartment {
		w.st.Department = nil
		w.st.Departments = nil
		w.invalidate(StageDepartment)
	}
	if stage < StageDoctor {
		w.st.DoctorID = 0
		w.st.Doctors = nil
		w.st.SlotsLoaded = false
		w.invalidate(StageDoctor)
	}
	w.st.Slot = nil
}

// LoadCities fetches the city list.
func (w *Wizard) LoadCities(ctx context.Context) error {
	w.mu.Lock()
	fctx, gen := w.begin(ctx, StageCity)
	w.mu.Unlock()

	cities, err := w.catalog.Cities(fctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.finish(StageCity, gen) {
		return ErrSuperseded
	}
	if err != nil {
		w.st.Cities = nil
		return fmt.Errorf("load cities: %w", err)
	}
	textsearch.Sort(cities, func(c string) string { return c })
	w.st.Cities = cities
	return nil
}

// SelectDate sets the appointment date and clears every later selection.
// Dates before today are rejected and leave the state unchanged.
func (w *Wizard) SelectDate(d time.Time) error {
	if d.IsZero() {
		return fmt.Errorf("%w: empty date", ErrUnknownOption)
	}
	now := w.now()
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return ErrDateInPast
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.st.Date = day
	w.resetAfter(StageDate)
	return nil
}

// SelectCity chooses a city and loads its hospitals.
func (w *Wizard) SelectCity(ctx context.Context, city string) error {
	city = strings.TrimSpace(city)

	w.mu.Lock()
	if !w.st.Enabled(StageCity) {
		w.mu.Unlock()
		return ErrStageDisabled
	}
	if city == "" {
		w.mu.Unlock()
		return fmt.Errorf("%w: empty city", ErrUnknownOption)
	}
	w.st.City = city
	w.resetAfter(StageCity)
	fctx, gen := w.begin(ctx, StageHospital)
	w.mu.Unlock()

	hospitals, err := w.catalog.Hospitals(fctx, city)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.finish(StageHospital, gen) {
		return ErrSuperseded
	}
	if err != nil {
		return fmt.Errorf("load hospitals for %s: %w", city, err)
	}
	textsearch.Sort(hospitals, func(h domain.HospitalDTO) string { return h.Name })
	w.st.Hospitals = hospitals
	return nil
}

// SelectHospital chooses a hospital from the loaded list and loads its departments.
func (w *Wizard) SelectHospital(ctx context.Context, hospitalID int64) error {
	w.mu.Lock()
	if !w.st.Enabled(StageHospital) {
		w.mu.Unlock()
		return ErrStageDisabled
	}
	var picked *domain.HospitalDTO
	for _, h := range w.st.Hospitals {
		if h.HospitalID == hospitalID {
			picked = &h
			break
		}
	}
	if picked == nil {
		w.mu.Unlock()
		return fmt.Errorf("%w: hospital %d", ErrUnknownOption, hospitalID)
	}
	w.st.Hospital = picked
	w.resetAfter(StageHospital)
	fctx, gen := w.begin(ctx, StageDepartment)
	w.mu.Unlock()

	departments, err := w.catalog.Departments(fctx, hospitalID)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.finish(StageDepartment, gen) {
		return ErrSuperseded
	}
	if err != nil {
		return fmt.Errorf("load departments for hospital %d: %w", hospitalID, err)
	}
	textsearch.Sort(departments, func(d domain.DepartmentDTO) string { return d.BranchName })
	w.st.Departments = departments
	return nil
}

// SelectDepartment chooses a department, loads its doctors and then every
// doctor's slots on the selected date concurrently. If any slot fetch fails
// the doctors are kept with empty slot lists and the error is returned.
func (w *Wizard) SelectDepartment(ctx context.Context, departmentID int64) error {
	w.mu.Lock()
	if !w.st.Enabled(StageDepartment) {
		w.mu.Unlock()
		return ErrStageDisabled
	}
	var picked *domain.DepartmentDTO
	for _, d := range w.st.Departments {
		if d.DepartmentID == departmentID {
			picked = &d
			break
		}
	}
	if picked == nil {
		w.mu.Unlock()
		return fmt.Errorf("%w: department %d", ErrUnknownOption, departmentID)
	}
	w.st.Department = picked
	w.resetAfter(StageDepartment)
	date := w.st.Date
	fctx, gen := w.begin(ctx, StageDoctor)
	w.mu.Unlock()

	doctors, err := w.catalog.Doctors(fctx, departmentID)
	var slots [][]domain.Slot
	var slotErr error
	if err == nil {
		textsearch.Sort(doctors, func(d domain.DoctorListDTO) string { return d.FullName() })
		slots, slotErr = w.fetchSlots(fctx, doctors, date)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.finish(StageDoctor, gen) {
		return ErrSuperseded
	}
	if err != nil {
		return fmt.Errorf("load doctors for department %d: %w", departmentID, err)
	}

	joined := make([]DoctorSlots, len(doctors))
	for i, d := range doctors {
		joined[i] = DoctorSlots{Doctor: d}
		if slotErr == nil {
			joined[i].Slots = slots[i]
		}
	}
	w.st.Doctors = joined
	if slotErr != nil {
		w.logger.Warn("slot fetch failed", "department_id", departmentID, "error", slotErr)
		return fmt.Errorf("load slots: %w", slotErr)
	}
	w.st.SlotsLoaded = true
	return nil
}

// fetchSlots loads every doctor's slots in parallel. The first failure
// cancels the rest.
func (w *Wizard) fetchSlots(ctx context.Context, doctors []domain.DoctorListDTO, date time.Time) ([][]domain.Slot, error) {
	out := make([][]domain.Slot, len(doctors))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(slotFetchLimit)
	for i, d := range doctors {
		i, d := i, d
		g.Go(func() error {
			slots, err := w.catalog.Slots(gctx, d.DoctorNationalID, date)
			if err != nil {
				return fmt.Errorf("doctor %d: %w", d.DoctorNationalID, err)
			}
			out[i] = slots
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// SelectDoctor narrows the slot view to one doctor. Zero shows every doctor.
func (w *Wizard) SelectDoctor(doctorID int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.st.Enabled(StageDoctor) {
		return ErrStageDisabled
	}
	if doctorID != 0 {
		if _, _, ok := w.st.doctor(doctorID); !ok {
			return fmt.Errorf("%w: doctor %d", ErrUnknownOption, doctorID)
		}
	}
	w.st.DoctorID = doctorID
	w.resetAfter(StageDoctor)
	return nil
}

// SelectSlot picks a free slot. Booked slots are never selectable.
func (w *Wizard) SelectSlot(doctorID, appointmentID int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.st.Enabled(StageSlot) {
		return ErrStageDisabled
	}
	doc, _, ok := w.st.doctor(doctorID)
	if !ok {
		return fmt.Errorf("%w: doctor %d", ErrUnknownOption, doctorID)
	}
	for _, s := range doc.Slots {
		if s.AppointmentID != appointmentID {
			continue
		}
		if s.IsBooked || doc.Full() {
			return ErrSlotBooked
		}
		w.st.Slot = &SelectedSlot{DoctorID: doctorID, Slot: s}
		return nil
	}
	return fmt.Errorf("%w: appointment %d", ErrUnknownOption, appointmentID)
}

// BookSlot selects and books a slot in one step.
func (w *Wizard) BookSlot(ctx context.Context, doctorID, appointmentID int64) error {
	if err := w.SelectSlot(doctorID, appointmentID); err != nil {
		return err
	}
	return w.Book(ctx)
}

// Book confirms and books the selected slot. On success exactly that slot is
// marked booked locally; on failure nothing changes.
func (w *Wizard) Book(ctx context.Context) error {
	w.mu.Lock()
	if w.st.Slot == nil {
		w.mu.Unlock()
		return ErrStageDisabled
	}
	sel := *w.st.Slot
	date := w.st.Date
	gen := w.gen[StageDoctor]
	w.mu.Unlock()

	if err := w.ask(ctx, ConfirmPrompt(date, sel.Slot.Time)); err != nil {
		return err
	}
	if err := w.booker.BookAppointment(ctx, sel.Slot.AppointmentID); err != nil {
		w.logger.Warn("booking failed", "appointment_id", sel.Slot.AppointmentID, "error", err)
		return fmt.Errorf("book appointment %d: %w", sel.Slot.AppointmentID, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gen[StageDoctor] == gen {
		if _, i, ok := w.st.doctor(sel.DoctorID); ok {
			for j := range w.st.Doctors[i].Slots {
				if w.st.Doctors[i].Slots[j].AppointmentID == sel.Slot.AppointmentID {
					w.st.Doctors[i].Slots[j].IsBooked = true
				}
			}
		}
		if w.st.Slot != nil && w.st.Slot.Slot.AppointmentID == sel.Slot.AppointmentID {
			w.st.Slot = nil
		}
	}
	w.logger.Info("appointment booked", "appointment_id", sel.Slot.AppointmentID, "date", date.Format(DateLayout), "time", sel.Slot.Time)
	return nil
}

// JoinDoctorWaitingList enrolls the patient with a doctor whose slots are all booked.
func (w *Wizard) JoinDoctorWaitingList(ctx context.Context, doctorID int64) (*domain.WaitingListItem, error) {
	w.mu.Lock()
	if !w.st.Enabled(StageDoctor) {
		w.mu.Unlock()
		return nil, ErrStageDisabled
	}
	doc, _, ok := w.st.doctor(doctorID)
	w.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: doctor %d", ErrUnknownOption, doctorID)
	}
	if !doc.Full() {
		return nil, ErrNotFull
	}

	if err := w.ask(ctx, DoctorWaitlistPrompt); err != nil {
		return nil, err
	}
	item, err := w.waitlist.JoinDoctor(ctx, doctorID, w.patientID)
	if err != nil {
		return nil, err
	}
	w.logger.Info("joined doctor waiting list", "doctor_id", doctorID)
	return item, nil
}

// JoinDepartmentWaitingList enrolls the patient with the selected department
// when every doctor there is fully booked.
func (w *Wizard) JoinDepartmentWaitingList(ctx context.Context) (*domain.WaitingListItem, error) {
	w.mu.Lock()
	if !w.st.Enabled(StageDoctor) {
		w.mu.Unlock()
		return nil, ErrStageDisabled
	}
	full := w.st.DepartmentFull()
	departmentID := w.st.Department.DepartmentID
	w.mu.Unlock()
	if !full {
		return nil, ErrNotFull
	}

	if err := w.ask(ctx, DepartmentWaitlistPrompt); err != nil {
		return nil, err
	}
	item, err := w.waitlist.JoinDepartment(ctx, departmentID, w.patientID)
	if err != nil {
		return nil, err
	}
	w.logger.Info("joined department waiting list", "department_id", departmentID)
	return item, nil
}

func (w *Wizard) ask(ctx context.Context, prompt string) error {
	if w.confirm == nil {
		return ErrNoConfirmer
	}
	ok, err := w.confirm.Confirm(ctx, prompt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrDeclined
	}
	return nil
}
