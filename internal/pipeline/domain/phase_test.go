package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePhases(t *testing.T) {
	phases, err := ParsePhases(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultPhases, phases)

	phases, err = ParsePhases([]string{" Status", "facts"})
	require.NoError(t, err)
	assert.Equal(t, []Phase{PhaseStatus, PhaseFacts}, phases)

	_, err = ParsePhases([]string{"status", "load"})
	assert.ErrorIs(t, err, ErrUnknownPhase)

	_, err = ParsePhases([]string{"status", "status"})
	assert.ErrorIs(t, err, ErrDuplicatePhase)
}

func TestParsePhasesReturnsCopyOfDefaults(t *testing.T) {
	phases, err := ParsePhases(nil)
	require.NoError(t, err)
	phases[0] = PhaseFacts
	assert.Equal(t, PhaseExtract, DefaultPhases[0])
}

func TestParsePhasesRestoresRunOrder(t *testing.T) {
	phases, err := ParsePhases([]string{"facts", "product", "customer", "calendar", "status"})
	require.NoError(t, err)
	assert.Equal(t, []Phase{PhaseStatus, PhaseCalendar, PhaseCustomer, PhaseProduct, PhaseFacts}, phases)

	phases, err = ParsePhases([]string{"facts", "extract"})
	require.NoError(t, err)
	assert.Equal(t, []Phase{PhaseExtract, PhaseFacts}, phases)
}

func TestOrderedDoesNotModifyInput(t *testing.T) {
	in := []Phase{PhaseFacts, PhaseStatus}
	assert.Equal(t, []Phase{PhaseStatus, PhaseFacts}, Ordered(in))
	assert.Equal(t, []Phase{PhaseFacts, PhaseStatus}, in)
}
