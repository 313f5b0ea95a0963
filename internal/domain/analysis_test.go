package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysisMode(t *testing.T) {
	t.Parallel()

	mode, err := ParseAnalysisMode("MEDICINE_SCAN")
	require.NoError(t, err)
	assert.Equal(t, AnalysisModeMedicineScan, mode)

	mode, err = ParseAnalysisMode("PRESCRIPTION_READ")
	require.NoError(t, err)
	assert.Equal(t, AnalysisModePrescriptionRead, mode)

	_, err = ParseAnalysisMode("medicine_scan")
	assert.ErrorIs(t, err, ErrInvalidAnalysisMode)

	_, err = ParseAnalysisMode("")
	assert.ErrorIs(t, err, ErrInvalidAnalysisMode)
}

func TestAuthenticityStatusIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, AuthenticityLikelyAuthentic.IsValid())
	assert.True(t, AuthenticitySuspicious.IsValid())
	assert.True(t, AuthenticityUnableToDetermine.IsValid())
	assert.False(t, AuthenticityStatus("LikelyAuthentic").IsValid())
	assert.False(t, AuthenticityStatus("").IsValid())
}
