package location

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/example/mangiaebasta/internal/config"
	"github.com/example/mangiaebasta/internal/models"
)

// ErrPermissionDenied is returned when the position is requested without
// permission.
var ErrPermissionDenied = errors.New("location permission denied")

// Provider is the host location service.
type Provider interface {
	RequestPermission(ctx context.Context) (bool, error)
	CurrentPosition(ctx context.Context) (models.Location, error)
}

// Service wraps a Provider with the client's fallback policy: failures
// become false or nil and are only logged.
type Service struct {
	provider Provider
	log      *logrus.Entry
}

// NewService wraps provider.
func NewService(provider Provider, logger *logrus.Logger) *Service {
	return &Service{provider: provider, log: logger.WithField("component", "location")}
}

// Permission asks for location permission; errors count as denied.
func (s *Service) Permission(ctx context.Context) bool {
	granted, err := s.provider.RequestPermission(ctx)
	if err != nil {
		s.log.WithError(err).Warn("location permission request failed")
		return false
	}
	return granted
}

// Current returns the current position, or nil when it is unavailable.
func (s *Service) Current(ctx context.Context, canUseLocation bool) *models.Location {
	if !canUseLocation {
		s.log.Warn("location permission not granted")
		return nil
	}
	pos, err := s.provider.CurrentPosition(ctx)
	if err != nil {
		s.log.WithError(err).Warn("could not read current position")
		return nil
	}
	return &pos
}

// Static is a Provider that reports a fixed, configured position.
type Static struct {
	Enabled  bool
	Position models.Location
}

// FromConfig builds the static provider from configuration.
func FromConfig(cfg config.LocationConfig) *Static {
	return &Static{
		Enabled:  cfg.Enabled,
		Position: models.Location{Lat: cfg.Latitude, Lng: cfg.Longitude},
	}
}

// RequestPermission grants permission iff the provider is enabled.
func (s *Static) RequestPermission(ctx context.Context) (bool, error) {
	return s.Enabled, nil
}

// CurrentPosition returns the configured position.
func (s *Static) CurrentPosition(ctx context.Context) (models.Location, error) {
	if !s.Enabled {
		return models.Location{}, ErrPermissionDenied
	}
	return s.Position, nil
}
