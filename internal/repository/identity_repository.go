package repository

import (
	"context"
	"time"

	identityDomain "github.com/Lumina-Wellness/service-billing/internal/domain/identity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeviceIdentityModel is the GORM model for the device_identities table.
type DeviceIdentityModel struct {
	DeviceID  string    `gorm:"type:varchar(128);primaryKey"`
	UserID    string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (DeviceIdentityModel) TableName() string { return "device_identities" }

// GormDeviceRepository implements identity.DeviceRepository using GORM.
type GormDeviceRepository struct {
	db *gorm.DB
}

// NewGormDeviceRepository creates a new GormDeviceRepository.
func NewGormDeviceRepository(db *gorm.DB) *GormDeviceRepository {
	return &GormDeviceRepository{db: db}
}

// GetOrCreate returns the binding for deviceID, minting a temporary user ID
// in a conflict-ignoring insert so the mint happens at most once per device
// even under racing requests.
func (r *GormDeviceRepository) GetOrCreate(ctx context.Context, deviceID string) (*identityDomain.Device, error) {
	candidate := DeviceIdentityModel{
		DeviceID:  deviceID,
		UserID:    identityDomain.NewTempUserID(),
		CreatedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "device_id"}}, DoNothing: true}).
		Create(&candidate).Error; err != nil {
		return nil, err
	}

	var model DeviceIdentityModel
	if err := r.db.WithContext(ctx).Where("device_id = ?", deviceID).First(&model).Error; err != nil {
		return nil, err
	}
	return &identityDomain.Device{
		DeviceID:  model.DeviceID,
		UserID:    model.UserID,
		CreatedAt: model.CreatedAt,
	}, nil
}
