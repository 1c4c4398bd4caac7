// Package auth signs users in and out, restores the persisted session on
// start and registers new patients.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/mhrs-booking/internal/apiclient"
	"github.com/wolfman30/mhrs-booking/internal/domain"
	"github.com/wolfman30/mhrs-booking/internal/patient"
	"github.com/wolfman30/mhrs-booking/internal/session"
	"github.com/wolfman30/mhrs-booking/pkg/logging"
)

var (
	// ErrInvalidCredentials is the only error Login surfaces; the cause is logged.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrSessionExpired     = errors.New("auth: session expired")
)

// Registrar creates patient accounts.
type Registrar interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.PatientInfo, error)
}

type Service struct {
	client    *apiclient.Client
	store     session.Store
	registrar Registrar
	logger    *logging.Logger
	now       func() time.Time
}

func NewService(client *apiclient.Client, store session.Store, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if store == nil {
		store = session.NewMemoryStore()
	}
	return &Service{
		client:    client,
		store:     store,
		registrar: patient.NewService(client, logger),
		logger:    logger,
		now:       time.Now,
	}
}

// Login exchanges credentials for a token, installs it on the client and
// persists the session.
func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*session.Session, error) {
	req.NationalID = strings.TrimSpace(req.NationalID)
	req.Username = strings.TrimSpace(req.Username)
	if req.UserType.UsesUsername() {
		req.NationalID = ""
	} else {
		req.Username = ""
	}
	if req.UserType == "" || (req.NationalID == "" && req.Username == "") || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	var resp domain.LoginResponse
	if err := s.client.Post(ctx, "/auth/login", req, &resp); err != nil {
		s.logger.Warn("login failed", "user_type", req.UserType, "status", apiclient.StatusCode(err), "error", err)
		return nil, ErrInvalidCredentials
	}
	if resp.Token == "" {
		s.logger.Warn("login response without token", "user_type", req.UserType)
		return nil, ErrInvalidCredentials
	}
	if resp.Role == "" {
		resp.Role = req.UserType
	}

	s.client.SetAuthToken(resp.Token)
	sess := &session.Session{
		Token:     resp.Token,
		Role:      resp.Role,
		FirstName: resp.FirstName,
		LastName:  resp.LastName,
		SavedAt:   s.now().UTC(),
	}
	if err := s.store.Save(ctx, sess); err != nil {
		s.logger.Warn("failed to persist session", "error", err)
	}
	s.logger.Info("signed in", "role", sess.Role)
	return sess, nil
}

// Logout drops the token from the client and the store.
func (s *Service) Logout(ctx context.Context) error {
	s.client.SetAuthToken("")
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Restore reinstalls a previously saved token. An expired session is
// cleared and ErrSessionExpired returned.
func (s *Service) Restore(ctx context.Context) (*session.Session, error) {
	sess, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if sess.Expired(s.now()) {
		if err := s.store.Clear(ctx); err != nil {
			s.logger.Warn("failed to clear expired session", "error", err)
		}
		return nil, ErrSessionExpired
	}
	s.client.SetAuthToken(sess.Token)
	return sess, nil
}

// Register validates the form and creates the patient account.
func (s *Service) Register(ctx context.Context, form RegistrationForm) (*domain.PatientInfo, error) {
	req, err := form.Validate()
	if err != nil {
		return nil, err
	}
	return s.registrar.Register(ctx, req)
}
