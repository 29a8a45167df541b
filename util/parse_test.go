package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeyValueLines(t *testing.T) {
	got := ParseKeyValueLines([]string{
		"# comment",
		"",
		"mr_memory_waste.map_threshold=30",
		"memory_waste.threshold: 40",
		"cpu_waste.driver_threshold 90",
		"bare",
	})

	assert.Equal(t, map[string]string{
		"mr_memory_waste.map_threshold": "30",
		"memory_waste.threshold":        "40",
		"cpu_waste.driver_threshold":    "90",
		"bare":                          "",
	}, got)
}

func TestParseFloat64(t *testing.T) {
	v, err := ParseFloat64(" 37.5% ")
	require.NoError(t, err)
	assert.Equal(t, 37.5, v)

	_, err = ParseFloat64("abc")
	assert.Error(t, err)
}
