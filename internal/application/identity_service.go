package application

import (
	"context"
	"strings"

	"github.com/Lumina-Wellness/service-billing/internal/domain"
	identityDomain "github.com/Lumina-Wellness/service-billing/internal/domain/identity"
	"go.uber.org/zap"
)

// IdentityService resolves device installations to user identities. A device
// without an account gets a temporary user identifier, minted once and
// reused for every later request from that device.
type IdentityService struct {
	repo   identityDomain.DeviceRepository
	logger *zap.Logger
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(repo identityDomain.DeviceRepository, logger *zap.Logger) *IdentityService {
	return &IdentityService{repo: repo, logger: logger}
}

// Resolve returns the user identifier bound to the device, creating the
// binding on first sight.
func (s *IdentityService) Resolve(ctx context.Context, deviceID string) (string, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return "", domain.NewInvalidArgumentError("device id is required")
	}

	d, err := s.repo.GetOrCreate(ctx, deviceID)
	if err != nil {
		s.logger.Error("failed to resolve device identity",
			zap.String("device_id", deviceID),
			zap.Error(err),
		)
		return "", err
	}
	return d.UserID, nil
}
