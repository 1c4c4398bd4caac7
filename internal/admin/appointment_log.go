package admin

import (
	"context"
	"errors"
	"sync"

	"github.com/wolfman30/mhrs-booking/internal/domain"
)

// Status filter values accepted by the appointment log endpoint.
const (
	LogStatusAll       = ""
	LogStatusCompleted = "completed"
	LogStatusCancelled = "cancelled"
	LogStatusBooked    = "booked"
)

const defaultLogPageSize = 10

var (
	ErrFirstPage = errors.New("admin: already on the first page")
	ErrLastPage  = errors.New("admin: no further pages")
)

// AppointmentLister is the subset of Service the log needs.
type AppointmentLister interface {
	Appointments(ctx context.Context, f AppointmentFilter) ([]domain.AdminAppointment, error)
}

// LogCriteria is what the operator types into the log's filter bar.
type LogCriteria struct {
	DateFrom string
	DateTo   string
	Status   string
	Search   string
}

// AppointmentLog pages through the server-filtered appointment log.
// Nothing loads until Search is called.
type AppointmentLog struct {
	lister AppointmentLister
	size   int

	mu       sync.Mutex
	criteria LogCriteria
	page     int
	rows     []domain.AdminAppointment
	expanded int64
	searched bool
}

func NewAppointmentLog(lister AppointmentLister, size int) *AppointmentLog {
	if size <= 0 {
		size = defaultLogPageSize
	}
	return &AppointmentLog{lister: lister, size: size}
}

// Search applies new criteria and loads the first page.
func (l *AppointmentLog) Search(ctx context.Context, c LogCriteria) error {
	l.mu.Lock()
	l.criteria = c
	l.mu.Unlock()
	return l.fetch(ctx, 0)
}

// Next loads the following page when the current one was full.
func (l *AppointmentLog) Next(ctx context.Context) error {
	if !l.HasNext() {
		return ErrLastPage
	}
	return l.fetch(ctx, l.Page()+1)
}

func (l *AppointmentLog) Prev(ctx context.Context) error {
	page := l.Page()
	if page <= 0 {
		return ErrFirstPage
	}
	return l.fetch(ctx, page-1)
}

// fetch loads page. On failure page and rows keep their previous values.
func (l *AppointmentLog) fetch(ctx context.Context, page int) error {
	l.mu.Lock()
	f := AppointmentFilter{
		DateFrom: l.criteria.DateFrom,
		DateTo:   l.criteria.DateTo,
		Status:   l.criteria.Status,
		Search:   l.criteria.Search,
		Page:     page,
		Size:     l.size,
	}
	l.mu.Unlock()

	rows, err := l.lister.Appointments(ctx, f)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.page = page
	l.rows = rows
	l.expanded = 0
	l.searched = true
	return nil
}

func (l *AppointmentLog) Page() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

func (l *AppointmentLog) Size() int { return l.size }

func (l *AppointmentLog) Rows() []domain.AdminAppointment {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.AdminAppointment(nil), l.rows...)
}

// HasNext reports whether the last page came back full.
func (l *AppointmentLog) HasNext() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.searched && len(l.rows) == l.size
}

// Toggle expands the row, or collapses it when it is already expanded.
// At most one row is expanded.
func (l *AppointmentLog) Toggle(id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.expanded == id {
		l.expanded = 0
		return
	}
	l.expanded = id
}

func (l *AppointmentLog) Expanded(id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return id != 0 && l.expanded == id
}
