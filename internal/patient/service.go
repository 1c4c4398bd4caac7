// Package patient wraps the /patient endpoints.
package patient

import (
	"context"
	"fmt"

	"github.com/wolfman30/mhrs-booking/internal/apiclient"
	"github.com/wolfman30/mhrs-booking/internal/domain"
	"github.com/wolfman30/mhrs-booking/pkg/logging"
)

const basePath = "/patient"

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

// Register creates a patient account. No token is required.
func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.PatientInfo, error) {
	var created domain.PatientInfo
	if err := s.client.Post(ctx, basePath+"/register", req, &created); err != nil {
		return nil, fmt.Errorf("register patient: %w", err)
	}
	if created.NationalID == "" {
		created = req.PatientInfo
	}
	s.logger.Info("patient registered", "national_id", created.NationalID)
	return &created, nil
}

func (s *Service) Info(ctx context.Context) (*domain.PatientInfo, error) {
	var info domain.PatientInfo
	if err := s.client.Get(ctx, basePath+"/info", nil, &info); err != nil {
		return nil, fmt.Errorf("get patient info: %w", err)
	}
	return &info, nil
}

func (s *Service) PastAppointments(ctx context.Context) ([]domain.PatientPastAppointment, error) {
	var out []domain.PatientPastAppointment
	if err := s.client.Get(ctx, basePath+"/past-appointments", nil, &out); err != nil {
		return nil, fmt.Errorf("get patient past appointments: %w", err)
	}
	return out, nil
}

func (s *Service) FutureAppointments(ctx context.Context) ([]domain.PatientFutureAppointment, error) {
	var out []domain.PatientFutureAppointment
	if err := s.client.Get(ctx, basePath+"/future-appointments", nil, &out); err != nil {
		return nil, fmt.Errorf("get patient future appointments: %w", err)
	}
	return out, nil
}

func (s *Service) CancelAppointment(ctx context.Context, appointmentID int64) error {
	path := fmt.Sprintf("%s/appointments/%s/cancel", basePath, apiclient.PathID(appointmentID))
	if err := s.client.Post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("cancel appointment %d: %w", appointmentID, err)
	}
	s.logger.Info("appointment cancelled by patient", "appointment_id", appointmentID)
	return nil
}

// BookAppointment claims the slot identified by appointmentID.
func (s *Service) BookAppointment(ctx context.Context, appointmentID int64) error {
	path := fmt.Sprintf("%s/appointments/%s/book", basePath, apiclient.PathID(appointmentID))
	if err := s.client.Post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("book appointment %d: %w", appointmentID, err)
	}
	s.logger.Info("appointment booked", "appointment_id", appointmentID)
	return nil
}

func (s *Service) WaitingList(ctx context.Context) ([]domain.WaitingListItem, error) {
	var items []domain.WaitingListItem
	if err := s.client.Get(ctx, basePath+"/waiting-list", nil, &items); err != nil {
		return nil, fmt.Errorf("get patient waiting list: %w", err)
	}
	return items, nil
}

// CancelWaitingList withdraws one waiting-list enrollment.
func (s *Service) CancelWaitingList(ctx context.Context, waitingID int64) error {
	path := fmt.Sprintf("%s/waiting-lists/%s/cancel", basePath, apiclient.PathID(waitingID))
	if err := s.client.Post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("cancel waiting list %d: %w", waitingID, err)
	}
	s.logger.Info("waiting list entry cancelled", "waiting_id", waitingID)
	return nil
}
