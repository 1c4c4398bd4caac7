// Package doctor wraps the /doctor endpoints: the doctor's own panel and the
// doctor/slot lookups the booking flow needs.
package doctor

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/wolfman30/mhrs-booking/internal/apiclient"
	"github.com/wolfman30/mhrs-booking/internal/domain"
	"github.com/wolfman30/mhrs-booking/pkg/logging"
)

const (
	basePath   = "/doctor"
	dateLayout = "2006-01-02"
)

type Service struct {
	client *apiclient.Client
	logger *logging.Logger
}

func NewService(client *apiclient.Client, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{client: client, logger: logger}
}

// Info returns the signed-in doctor's profile.
func (s *Service) Info(ctx context.Context) (*domain.DoctorInfo, error) {
	var info domain.DoctorInfo
	if err := s.client.Get(ctx, basePath+"/info", nil, &info); err != nil {
		return nil, fmt.Errorf("get doctor info: %w", err)
	}
	return &info, nil
}

func (s *Service) PastAppointments(ctx context.Context) ([]domain.DoctorPastAppointment, error) {
	var out []domain.DoctorPastAppointment
	if err := s.client.Get(ctx, basePath+"/past-appointments", nil, &out); err != nil {
		return nil, fmt.Errorf("get doctor past appointments: %w", err)
	}
	return out, nil
}

func (s *Service) FutureAppointments(ctx context.Context) ([]domain.DoctorFutureAppointment, error) {
	var out []domain.DoctorFutureAppointment
	if err := s.client.Get(ctx, basePath+"/future-appointments", nil, &out); err != nil {
		return nil, fmt.Errorf("get doctor future appointments: %w", err)
	}
	return out, nil
}

// CancelAppointment cancels one of the doctor's upcoming appointments.
func (s *Service) CancelAppointment(ctx context.Context, appointmentID int64) error {
	path := fmt.Sprintf("%s/appointments/%s/cancel", basePath, apiclient.PathID(appointmentID))
	if err := s.client.Post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("cancel appointment %d: %w", appointmentID, err)
	}
	s.logger.Info("appointment cancelled by doctor", "appointment_id", appointmentID)
	return nil
}

// ByDepartment lists the doctors working in a department.
func (s *Service) ByDepartment(ctx context.Context, departmentID int64) ([]domain.DoctorListDTO, error) {
	q := url.Values{}
	q.Set("departmentId", strconv.FormatInt(departmentID, 10))
	var doctors []domain.DoctorListDTO
	if err := s.client.Get(ctx, basePath+"/by-department", q, &doctors); err != nil {
		return nil, fmt.Errorf("get doctors for department %d: %w", departmentID, err)
	}
	return doctors, nil
}

// Slots returns a doctor's slots on date, reduced to time of day and booked flag.
func (s *Service) Slots(ctx context.Context, doctorNationalID int64, date time.Time) ([]domain.Slot, error) {
	q := url.Values{}
	q.Set("doctorNationalId", strconv.FormatInt(doctorNationalID, 10))
	q.Set("date", date.Format(dateLayout))
	var raw []domain.DoctorSlotDTO
	if err := s.client.Get(ctx, basePath+"/slots", q, &raw); err != nil {
		return nil, fmt.Errorf("get slots for doctor %d: %w", doctorNationalID, err)
	}
	slots := make([]domain.Slot, 0, len(raw))
	for _, r := range raw {
		slots = append(slots, r.ToSlot())
	}
	return slots, nil
}

// WaitingList returns the patients waiting for this doctor.
func (s *Service) WaitingList(ctx context.Context) ([]domain.WaitingListItem, error) {
	var items []domain.WaitingListItem
	if err := s.client.Get(ctx, basePath+"/waiting-list", nil, &items); err != nil {
		return nil, fmt.Errorf("get doctor waiting list: %w", err)
	}
	return items, nil
}
