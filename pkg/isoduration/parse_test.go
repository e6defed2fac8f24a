package isoduration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		wantErr  bool
	}{
		{name: "hours minutes fractional seconds", input: "PT1H2M3.5S", expected: 3723.5},
		{name: "seconds only", input: "PT45S", expected: 45},
		{name: "minutes only", input: "PT4M", expected: 240},
		{name: "hours and seconds", input: "PT2H5S", expected: 7205},
		{name: "typical song", input: "PT3M33S", expected: 213},
		{name: "bare PT is zero", input: "PT", expected: 0},
		{name: "empty", input: "", wantErr: true},
		{name: "not a duration", input: "three minutes", wantErr: true},
		{name: "day component unsupported", input: "P1DT2H", wantErr: true},
		{name: "trailing garbage", input: "PT3M33Sxyz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestSeconds(t *testing.T) {
	got, ok := Seconds("PT1M")
	assert.True(t, ok)
	assert.Equal(t, 60.0, got)

	_, ok = Seconds("PT")
	assert.False(t, ok, "zero duration is unknown")

	_, ok = Seconds("garbage")
	assert.False(t, ok)
}
