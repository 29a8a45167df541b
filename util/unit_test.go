package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMBToGB(t *testing.T) {
	tests := []struct {
		name string
		mb   float64
		want float64
	}{
		{"zero", 0, 0},
		{"one gb", 1024, 1},
		{"two gb", 2048, 2},
		{"fraction", 512, 0.5},
		{"negative", -1024, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MBToGB(tt.mb), 1e-9)
		})
	}
}

func TestMillisToHours(t *testing.T) {
	assert.InDelta(t, 1.0, MillisToHours(3_600_000), 1e-9)
	assert.InDelta(t, 0.25, MillisToHours(900_000), 1e-9)
}

func TestMBMillisToGBHours(t *testing.T) {
	// 2 GB held for 30 minutes
	assert.InDelta(t, 1.0, MBMillisToGBHours(2048*1_800_000), 1e-9)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "37.50%", FormatPercent(37.5))
	assert.Equal(t, "0.00%", FormatPercent(0))
	assert.Equal(t, "4.00GB", FormatGB(4))
	assert.Equal(t, "4.00GB", FormatMBAsGB(4096))
	assert.Equal(t, "1.50GB", FormatMBAsGB(1536))
	assert.Equal(t, "12.50GB·h", FormatGBHours(12.5))
	assert.Equal(t, "3.25h", FormatHours(3.25))
}

func TestPercent(t *testing.T) {
	assert.InDelta(t, 25.0, Percent(1, 4), 1e-9)
	assert.Zero(t, Percent(1, 0))
	assert.Zero(t, Percent(1, -3))
}

func TestRemaining(t *testing.T) {
	assert.Equal(t, 3.0, Remaining(4, 1))
	assert.Zero(t, Remaining(4, 5))
}
