package patch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerdictTransitions(t *testing.T) {
	tests := []struct {
		name string
		from verdict
		on   bool
		want verdict
	}{
		{"unset sees on", verdictUnset, true, verdictOn},
		{"unset sees off", verdictUnset, false, verdictOff},
		{"on stays on", verdictOn, true, verdictOn},
		{"off stays off", verdictOff, false, verdictOff},
		{"on sees off", verdictOn, false, verdictConflict},
		{"off sees on", verdictOff, true, verdictConflict},
		{"conflict is terminal (on)", verdictConflict, true, verdictConflict},
		{"conflict is terminal (off)", verdictConflict, false, verdictConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.from.observe(tt.on))
		})
	}
}

func TestVerdictState(t *testing.T) {
	require.Equal(t, StateOn, verdictOn.state())
	require.Equal(t, StateOff, verdictOff.state())
	require.Equal(t, StateUnknown, verdictUnset.state())
	require.Equal(t, StateUnknown, verdictConflict.state())
}

func TestStateString(t *testing.T) {
	require.Equal(t, "enabled", StateOn.String())
	require.Equal(t, "disabled", StateOff.String())
	require.Equal(t, "has 720p", Matched("720p").String())
	require.Equal(t, "not found", StateUnknown.String())
	require.False(t, StateUnknown.Known())
	require.True(t, Matched("x").Known())
}
