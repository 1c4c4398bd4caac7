// Package hospital wraps the /hospital endpoints used by the booking flow and
// the admin hospital screen.
package hospital

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/wolfman30/mhrs-booking/internal/apiclient"
	"github.com/wolfman30/mhrs-booking/internal/domain"
	"github.com/wolfman30/mhrs-booking/pkg/logging"
)

const basePath = "/hospital"

// Service lists and creates hospitals.
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

// Cities returns every city that has at least one hospital.
func (s *Service) Cities(ctx context.Context) ([]string, error) {
	var cities []string
	if err := s.client.Get(ctx, basePath+"/cities", nil, &cities); err != nil {
		return nil, fmt.Errorf("get cities: %w", err)
	}
	return cities, nil
}

// Search lists hospitals in city, optionally narrowed to a district.
func (s *Service) Search(ctx context.Context, city, district string) ([]domain.HospitalDTO, error) {
	q := url.Values{}
	q.Set("city", city)
	if d := strings.TrimSpace(district); d != "" {
		q.Set("district", d)
	}
	var hospitals []domain.HospitalDTO
	if err := s.client.Get(ctx, basePath+"/search", q, &hospitals); err != nil {
		return nil, fmt.Errorf("search hospitals: %w", err)
	}
	return hospitals, nil
}

func (s *Service) All(ctx context.Context) ([]domain.HospitalDTO, error) {
	var hospitals []domain.HospitalDTO
	if err := s.client.Get(ctx, basePath+"/all", nil, &hospitals); err != nil {
		return nil, fmt.Errorf("list hospitals: %w", err)
	}
	return hospitals, nil
}

// Create posts a new hospital and returns the stored record with its assigned id.
func (s *Service) Create(ctx context.Context, h domain.HospitalDTO) (*domain.HospitalDTO, error) {
	var created domain.HospitalDTO
	if err := s.client.Post(ctx, basePath, h, &created); err != nil {
		return nil, fmt.Errorf("create hospital: %w", err)
	}
	s.logger.Info("hospital created", "hospital_id", created.HospitalID, "name", created.Name)
	return &created, nil
}
