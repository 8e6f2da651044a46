package delivery

import (
	"regexp"
	"testing"

	"logitrack/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCheckTransition(t *testing.T) {
	cases := []struct {
		name      string
		current   string
		requested string
		wantErr   error
	}{
		{"pending to in transit", models.StatusPending, models.StatusInTransit, nil},
		{"pending to delivered", models.StatusPending, models.StatusDelivered, nil},
		{"in transit to delivered", models.StatusInTransit, models.StatusDelivered, nil},
		{"same status no-op", models.StatusInTransit, models.StatusInTransit, nil},
		{"delivered stays delivered", models.StatusDelivered, models.StatusDelivered, nil},
		{"in transit back to pending", models.StatusInTransit, models.StatusPending, models.ErrBackwardTransition},
		{"delivered back to in transit", models.StatusDelivered, models.StatusInTransit, models.ErrBackwardTransition},
		{"delivered back to pending", models.StatusDelivered, models.StatusPending, models.ErrBackwardTransition},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckTransition(tc.current, tc.requested)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestNewTrackingNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^TRK[0-9A-F]{12}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tn := newTrackingNumber()
		assert.Regexp(t, pattern, tn)
		assert.False(t, seen[tn], "tracking number repeated: %s", tn)
		seen[tn] = true
	}
}
