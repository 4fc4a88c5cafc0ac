package identity

import "context"

// DeviceRepository defines persistence for device-to-user bindings.
type DeviceRepository interface {
	// GetOrCreate returns the binding for deviceID, minting and persisting a
	// temporary user identifier as a single logical step if none exists. The
	// mint happens at most once per device.
	GetOrCreate(ctx context.Context, deviceID string) (*Device, error)
}
