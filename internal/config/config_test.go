package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_CheckPowerOfTwo(t *testing.T) {
	assert := assert.New(t)

	suite := []struct {
		actual   int
		expected int
	}{
		{16, 16},
		{1, 1},
		{1024, 1024},
		{0, 16},
		{-4, 16},
		{3, 4},
		{17, 32},
		{1000, 1024},
	}

	for _, tCase := range suite {
		ac := newAnomalyCollector()

		val := tCase.actual
		CheckPowerOfTwo(ac, "Depth", &val, 16)
		assert.Equal(tCase.expected, val, "actual=%d", tCase.actual)

		if tCase.actual == tCase.expected {
			assert.Empty(ac.anomalies)
		} else {
			assert.Len(ac.anomalies, 1)
		}
	}
}

func Test_CheckInRange(t *testing.T) {
	assert := assert.New(t)

	ac := newAnomalyCollector()

	val := 8
	CheckInRange(ac, "DataWidth", &val, 1, 64, 8)
	assert.Equal(8, val)
	assert.Empty(ac.anomalies)

	val = 65
	CheckInRange(ac, "DataWidth", &val, 1, 64, 8)
	assert.Equal(8, val)
	assert.Len(ac.anomalies, 1)

	val = 0
	CheckInRange(ac, "DataWidth", &val, 1, 64, 8)
	assert.Equal(8, val)
	assert.Len(ac.anomalies, 2)
}

func Test_AnomalyCollectorDrain(t *testing.T) {
	assert := assert.New(t)

	ac := newAnomalyCollector()

	val := 0
	CheckNotZero(ac, "BufferSize", &val, 4096)

	anomalies := ac.drain()
	assert.Len(anomalies, 1)
	assert.Equal("BufferSize", anomalies[0].field)
	assert.Equal([]any{
		"field", "BufferSize", "reason", "cannot be zero",
		"actual", 0, "fallback", 4096,
	}, anomalies[0].logArgs())

	// Draining resets the collector for the next validation.
	assert.Empty(ac.drain())
}
