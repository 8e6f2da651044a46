package delivery

import (
	"strings"

	"logitrack/internal/models"

	"github.com/google/uuid"
)

// statusOrdinal maps each delivery status to its position in the forward-only
// Pending -> InTransit -> Delivered progression.
var statusOrdinal = map[string]int{
	models.StatusPending:   0,
	models.StatusInTransit: 1,
	models.StatusDelivered: 2,
}

// CheckTransition reports whether a delivery may move from current to
// requested status. Forward moves and same-status no-ops are allowed;
// anything backwards is rejected.
func CheckTransition(current, requested string) error {
	if statusOrdinal[requested] < statusOrdinal[current] {
		return models.ErrBackwardTransition
	}
	return nil
}

// newTrackingNumber generates a public tracking number: the fixed TRK prefix
// followed by 12 uppercase hex characters of v4 UUID entropy. Uniqueness is
// enforced by the database index; callers retry on collision.
func newTrackingNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:12]
	return models.TrackingPrefix + suffix
}
