// Package department wraps the /department endpoints.
package department

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/wolfman30/mhrs-booking/internal/apiclient"
	"github.com/wolfman30/mhrs-booking/internal/domain"
	"github.com/wolfman30/mhrs-booking/pkg/logging"
)

const basePath = "/department"

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

// ByHospital lists the departments of one hospital.
func (s *Service) ByHospital(ctx context.Context, hospitalID int64) ([]domain.DepartmentDTO, error) {
	q := url.Values{}
	q.Set("hospitalId", strconv.FormatInt(hospitalID, 10))
	var departments []domain.DepartmentDTO
	if err := s.client.Get(ctx, basePath+"/byHospital", q, &departments); err != nil {
		return nil, fmt.Errorf("get departments for hospital %d: %w", hospitalID, err)
	}
	return departments, nil
}

func (s *Service) Create(ctx context.Context, d domain.DepartmentDTO) (*domain.DepartmentDTO, error) {
	var created domain.DepartmentDTO
	if err := s.client.Post(ctx, basePath, d, &created); err != nil {
		return nil, fmt.Errorf("create department: %w", err)
	}
	s.logger.Info("department created", "department_id", created.DepartmentID, "hospital_id", created.HospitalID)
	return &created, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, basePath+"/"+apiclient.PathID(id)); err != nil {
		return fmt.Errorf("delete department %d: %w", id, err)
	}
	s.logger.Info("department deleted", "department_id", id)
	return nil
}
