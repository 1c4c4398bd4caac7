package appointments

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wolfman30/mhrs-booking/internal/domain"
	"github.com/wolfman30/mhrs-booking/pkg/logging"
)

var (
	ErrNotFound         = errors.New("appointments: not found")
	ErrAlreadyCancelled = errors.New("appointments: already cancelled")
	ErrCannotCancel     = errors.New("appointments: entries cannot be cancelled here")
)

// PatientAPI is the subset of the patient service these lists use.
type PatientAPI interface {
	PastAppointments(ctx context.Context) ([]domain.PatientPastAppointment, error)
	FutureAppointments(ctx context.Context) ([]domain.PatientFutureAppointment, error)
	CancelAppointment(ctx context.Context, appointmentID int64) error
	WaitingList(ctx context.Context) ([]domain.WaitingListItem, error)
	CancelWaitingList(ctx context.Context, waitingID int64) error
}

// DoctorAPI is the subset of the doctor service these lists use.
type DoctorAPI interface {
	PastAppointments(ctx context.Context) ([]domain.DoctorPastAppointment, error)
	FutureAppointments(ctx context.Context) ([]domain.DoctorFutureAppointment, error)
	CancelAppointment(ctx context.Context, appointmentID int64) error
	WaitingList(ctx context.Context) ([]domain.WaitingListItem, error)
}

type loadFunc func(ctx context.Context) ([]Entry, error)

// Future is the list of upcoming appointments for one role.
type Future struct {
	role   domain.Role
	load   loadFunc
	cancel func(ctx context.Context, id int64) error
	logger *logging.Logger

	mu    sync.RWMutex
	items []Entry
}

func NewPatientFuture(api PatientAPI, logger *logging.Logger) *Future {
	return newFuture(domain.RolePatient, func(ctx context.Context) ([]Entry, error) {
		raw, err := api.FutureAppointments(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]Entry, 0, len(raw))
		for _, a := range raw {
			out = append(out, fromPatientFuture(a))
		}
		return out, nil
	}, api.CancelAppointment, logger)
}

func NewDoctorFuture(api DoctorAPI, logger *logging.Logger) *Future {
	return newFuture(domain.RoleDoctor, func(ctx context.Context) ([]Entry, error) {
		raw, err := api.FutureAppointments(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]Entry, 0, len(raw))
		for _, a := range raw {
			out = append(out, fromDoctorFuture(a))
		}
		return out, nil
	}, api.CancelAppointment, logger)
}

func newFuture(role domain.Role, load loadFunc, cancel func(context.Context, int64) error, logger *logging.Logger) *Future {
	if logger == nil {
		logger = logging.Default()
	}
	return &Future{role: role, load: load, cancel: cancel, logger: logger}
}

func (f *Future) Role() domain.Role { return f.role }

// Load replaces the list. On failure the list is left empty.
func (f *Future) Load(ctx context.Context) error {
	items, err := f.load(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.items = nil
		return fmt.Errorf("load future appointments: %w", err)
	}
	f.items = items
	return nil
}

func (f *Future) Items() []Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]Entry(nil), f.items...)
}

// Active lists the entries that can still be cancelled.
func (f *Future) Active() []Entry {
	var out []Entry
	for _, e := range f.Items() {
		if e.Status.IsActive() {
			out = append(out, e)
		}
	}
	return out
}

// Cancel cancels the appointment on the server and then records which party
// cancelled it. A failed call leaves the list untouched.
func (f *Future) Cancel(ctx context.Context, id int64) error {
	f.mu.RLock()
	idx := f.indexOf(id)
	var status domain.AppointmentStatus
	if idx >= 0 {
		status = f.items[idx].Status
	}
	f.mu.RUnlock()
	if idx < 0 {
		return fmt.Errorf("%w: appointment %d", ErrNotFound, id)
	}
	if status.IsCancelled() {
		return ErrAlreadyCancelled
	}

	if err := f.cancel(ctx, id); err != nil {
		f.logger.Warn("cancel failed", "appointment_id", id, "role", f.role, "error", err)
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.indexOf(id); i >= 0 {
		f.items[i].Status = domain.CancelledBy(f.role)
	}
	return nil
}

func (f *Future) indexOf(id int64) int {
	for i, e := range f.items {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Past is the list of completed appointments. At most one row is expanded
// to show its prescription.
type Past struct {
	role domain.Role
	load loadFunc

	mu       sync.RWMutex
	items    []Entry
	expanded int64
}

func NewPatientPast(api PatientAPI) *Past {
	return &Past{role: domain.RolePatient, load: func(ctx context.Context) ([]Entry, error) {
		raw, err := api.PastAppointments(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]Entry, 0, len(raw))
		for _, a := range raw {
			out = append(out, fromPatientPast(a))
		}
		return out, nil
	}}
}

func NewDoctorPast(api DoctorAPI) *Past {
	return &Past{role: domain.RoleDoctor, load: func(ctx context.Context) ([]Entry, error) {
		raw, err := api.PastAppointments(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]Entry, 0, len(raw))
		for _, a := range raw {
			out = append(out, fromDoctorPast(a))
		}
		return out, nil
	}}
}

func (p *Past) Role() domain.Role { return p.role }

func (p *Past) Load(ctx context.Context) error {
	items, err := p.load(ctx)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.expanded = 0
	if err != nil {
		p.items = nil
		return fmt.Errorf("load past appointments: %w", err)
	}
	p.items = items
	return nil
}

func (p *Past) Items() []Entry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]Entry(nil), p.items...)
}

// Toggle expands id, collapsing any other row, or collapses it if expanded.
func (p *Past) Toggle(id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	found := false
	for _, e := range p.items {
		if e.ID == id {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: appointment %d", ErrNotFound, id)
	}
	if p.expanded == id {
		p.expanded = 0
	} else {
		p.expanded = id
	}
	return nil
}

func (p *Past) Expanded(id int64) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return id != 0 && p.expanded == id
}

// WaitingList is the role's waiting-list enrollments. Only patients may
// withdraw entries.
type WaitingList struct {
	role   domain.Role
	load   func(ctx context.Context) ([]domain.WaitingListItem, error)
	cancel func(ctx context.Context, id int64) error
	logger *logging.Logger

	mu    sync.RWMutex
	items []domain.WaitingListItem
}

func NewPatientWaitingList(api PatientAPI, logger *logging.Logger) *WaitingList {
	if logger == nil {
		logger = logging.Default()
	}
	return &WaitingList{role: domain.RolePatient, load: api.WaitingList, cancel: api.CancelWaitingList, logger: logger}
}

func NewDoctorWaitingList(api DoctorAPI, logger *logging.Logger) *WaitingList {
	if logger == nil {
		logger = logging.Default()
	}
	return &WaitingList{role: domain.RoleDoctor, load: api.WaitingList, logger: logger}
}

func (w *WaitingList) Role() domain.Role { return w.role }

func (w *WaitingList) CanCancel() bool { return w.cancel != nil }

func (w *WaitingList) Load(ctx context.Context) error {
	items, err := w.load(ctx)
	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.items = nil
		return fmt.Errorf("load waiting list: %w", err)
	}
	w.items = items
	return nil
}

func (w *WaitingList) Items() []domain.WaitingListItem {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]domain.WaitingListItem(nil), w.items...)
}

// Cancel withdraws the enrollment and drops it from the list on success.
func (w *WaitingList) Cancel(ctx context.Context, waitingID int64) error {
	if w.cancel == nil {
		return ErrCannotCancel
	}
	w.mu.RLock()
	found := false
	for _, it := range w.items {
		if it.WaitingID == waitingID {
			found = true
			break
		}
	}
	w.mu.RUnlock()
	if !found {
		return fmt.Errorf("%w: waiting list entry %d", ErrNotFound, waitingID)
	}

	if err := w.cancel(ctx, waitingID); err != nil {
		w.logger.Warn("waiting list cancel failed", "waiting_id", waitingID, "error", err)
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	kept := w.items[:0:0]
	for _, it := range w.items {
		if it.WaitingID != waitingID {
			kept = append(kept, it)
		}
	}
	w.items = kept
	return nil
}
