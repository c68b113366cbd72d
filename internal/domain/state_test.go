package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aaronHenao/backend-tailorflow/internal/domain"
)

func TestStatus_IsValid(t *testing.T) {
	valid := []domain.Status{
		domain.StatusPending,
		domain.StatusInProcess,
		domain.StatusFinished,
		domain.StatusDelayed,
	}
	for _, s := range valid {
		assert.True(t, s.IsValid(), "expected %s to be valid", s)
	}

	assert.False(t, domain.Status("").IsValid())
	assert.False(t, domain.Status("DONE").IsValid())
	assert.False(t, domain.Status("pending").IsValid())
}

func TestStatus_Ordering(t *testing.T) {
	assert.True(t, domain.StatusPending.Before(domain.StatusInProcess))
	assert.True(t, domain.StatusInProcess.Before(domain.StatusFinished))
	assert.True(t, domain.StatusPending.Before(domain.StatusFinished))

	// DELAYED ranks with IN_PROCESS: mid-flow, not terminal.
	assert.Equal(t, domain.StatusInProcess.Rank(), domain.StatusDelayed.Rank())
	assert.True(t, domain.StatusPending.Before(domain.StatusDelayed))
	assert.True(t, domain.StatusDelayed.Before(domain.StatusFinished))

	assert.False(t, domain.StatusFinished.Before(domain.StatusPending))
	assert.False(t, domain.StatusInProcess.Before(domain.StatusInProcess))
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, domain.StatusFinished.IsTerminal())
	assert.False(t, domain.StatusPending.IsTerminal())
	assert.False(t, domain.StatusInProcess.IsTerminal())
	assert.False(t, domain.StatusDelayed.IsTerminal())
}

func TestStatus_InFlight(t *testing.T) {
	assert.False(t, domain.StatusPending.InFlight())
	assert.True(t, domain.StatusInProcess.InFlight())
	assert.True(t, domain.StatusDelayed.InFlight())
	assert.True(t, domain.StatusFinished.InFlight())
}
