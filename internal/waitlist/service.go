// Package waitlist enrolls a patient on a doctor's or a department's waiting
// list when no slot is free.
package waitlist

import (
	"context"
	"fmt"

	"github.com/wolfman30/mhrs-booking/internal/apiclient"
	"github.com/wolfman30/mhrs-booking/internal/domain"
	"github.com/wolfman30/mhrs-booking/pkg/logging"
)

const basePath = "/waiting-list"

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

// JoinDoctor enrolls the patient on one doctor's waiting list.
func (s *Service) JoinDoctor(ctx context.Context, doctorID int64, patientNationalID string) (*domain.WaitingListItem, error) {
	return s.join(ctx, "doctor", doctorID, patientNationalID)
}

// JoinDepartment enrolls the patient on a department-wide waiting list.
func (s *Service) JoinDepartment(ctx context.Context, departmentID int64, patientNationalID string) (*domain.WaitingListItem, error) {
	return s.join(ctx, "department", departmentID, patientNationalID)
}

func (s *Service) join(ctx context.Context, level string, id int64, patientNationalID string) (*domain.WaitingListItem, error) {
	path := fmt.Sprintf("%s/%s/%s", basePath, level, apiclient.PathID(id))
	var item domain.WaitingListItem
	body := domain.WaitingListRequest{PatientNationalID: patientNationalID}
	if err := s.client.Post(ctx, path, body, &item); err != nil {
		return nil, fmt.Errorf("join %s waiting list %d: %w", level, id, err)
	}
	s.logger.Info("joined waiting list", "level", level, "target_id", id)
	return &item, nil
}
