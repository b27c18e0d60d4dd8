package board

import (
	"testing"

	"postroom-backend/internal/forwarding/domain"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.Status
	}{
		{"requested", domain.StatusRequested},
		{"Requested", domain.StatusRequested},
		{"PENDING", domain.StatusRequested},
		{"new", domain.StatusRequested},
		{"in_progress", domain.StatusInProgress},
		{"In Progress", domain.StatusInProgress},
		{"in-progress", domain.StatusInProgress},
		{"inprogress", domain.StatusInProgress},
		{"Processing", domain.StatusInProgress},
		{"reviewed", domain.StatusInProgress},
		{"done", domain.StatusDone},
		{"Done", domain.StatusDone},
		{"completed", domain.StatusDone},
		{"complete", domain.StatusDone},
		{"DISPATCHED", domain.StatusDone},
		{"delivered", domain.StatusDone},
		{"shipped", domain.StatusDone},
		{" done ", domain.StatusDone},
		// Unrecognized vocabulary surfaces as unknown, never a silent default
		{"", StatusUnknown},
		{"cancelled", StatusUnknown},
		{"donezo", StatusUnknown},
		{"in progress!!", StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeStatus(tt.raw))
		})
	}
}

func TestStatusNextIsStrictlyLinear(t *testing.T) {
	next, ok := domain.StatusRequested.Next()
	assert.True(t, ok)
	assert.Equal(t, domain.StatusInProgress, next)

	next, ok = domain.StatusInProgress.Next()
	assert.True(t, ok)
	assert.Equal(t, domain.StatusDone, next)

	_, ok = domain.StatusDone.Next()
	assert.False(t, ok)
	assert.True(t, domain.StatusDone.Terminal())
}
