package lro

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusSucceeded, ParseStatus("Succeeded"))
	assert.Equal(t, StatusSucceeded, ParseStatus("succeeded"))
	assert.Equal(t, StatusInProgress, ParseStatus("InProgress"))
	assert.Equal(t, StatusCanceled, ParseStatus("Cancelled"))
	assert.Equal(t, StatusInvalid, ParseStatus("INVALID"))
	assert.Equal(t, StatusNone, ParseStatus("  "))
	assert.Equal(t, Status("Paused"), ParseStatus("Paused"))
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		status   Status
		terminal bool
		known    bool
		failed   bool
	}{
		{StatusNone, false, true, false},
		{StatusInProgress, false, true, false},
		{StatusSucceeded, true, true, false},
		{StatusFailed, true, true, true},
		{StatusCanceled, true, true, true},
		{StatusInvalid, true, true, true},
		{Status("Paused"), true, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
			assert.Equal(t, tt.known, tt.status.Known())
			if tt.failed {
				assert.Error(t, tt.status.Err())
			} else {
				assert.NoError(t, tt.status.Err())
			}
		})
	}
}

func TestUnknownStatusIsReported(t *testing.T) {
	s := ParseStatus("Paused")
	assert.ErrorIs(t, s.Err(), ErrUnrecognizedStatus)
	assert.Equal(t, "Unknown(Paused)", s.String())
	assert.NotErrorIs(t, StatusFailed.Err(), ErrUnrecognizedStatus)
}
