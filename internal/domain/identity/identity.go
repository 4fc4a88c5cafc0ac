package identity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TempUserPrefix marks locally minted stand-in identities used before a
// device has an authenticated account.
const TempUserPrefix = "temp_user_"

// NewTempUserID mints a temporary user identifier from the creation time.
// The random suffix keeps two devices minting in the same millisecond from
// colliding on the unique user index.
func NewTempUserID() string {
	return fmt.Sprintf("%s%d_%s", TempUserPrefix, time.Now().UTC().UnixMilli(), uuid.New().String()[:8])
}

// Device binds a client installation to its temporary user identifier.
// One device resolves to the same temporary user for its whole lifetime.
type Device struct {
	DeviceID  string
	UserID    string
	CreatedAt time.Time
}
