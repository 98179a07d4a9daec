package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	all := []ApplicationStatus{ApplicationPending, ApplicationViewed, ApplicationAccepted, ApplicationRejected}

	allowed := map[[2]ApplicationStatus]bool{
		{ApplicationPending, ApplicationViewed}:   true,
		{ApplicationPending, ApplicationAccepted}: true,
		{ApplicationPending, ApplicationRejected}: true,
		{ApplicationViewed, ApplicationAccepted}:  true,
		{ApplicationViewed, ApplicationRejected}:  true,
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]ApplicationStatus{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, ApplicationAccepted.Terminal())
	assert.True(t, ApplicationRejected.Terminal())
	assert.False(t, ApplicationPending.Terminal())
	assert.False(t, ApplicationViewed.Terminal())
}
