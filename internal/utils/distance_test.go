package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateDistance(t *testing.T) {
	// Lagos Island to Ikeja, roughly 16 km as the crow flies.
	distance := CalculateDistance(6.4541, 3.3947, 6.6018, 3.3515)
	assert.InDelta(t, 17, distance, 2)

	// Same point, zero distance.
	assert.InDelta(t, 0, CalculateDistance(6.5244, 3.3792, 6.5244, 3.3792), 0.001)

	// Lagos to Abuja, around 520 km.
	distance = CalculateDistance(6.5244, 3.3792, 9.0765, 7.3986)
	assert.InDelta(t, 520, distance, 20)
}

func TestEstimateDurationHours(t *testing.T) {
	assert.InDelta(t, 0.5, EstimateDurationHours(15, 30), 0.001)
	// Zero or negative speed falls back to the city default.
	assert.InDelta(t, 1, EstimateDurationHours(30, 0), 0.001)
	assert.InDelta(t, 1, EstimateDurationHours(30, -10), 0.001)
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 9001.0, RoundMoney(9000.9))
	assert.Equal(t, 9000.0, RoundMoney(9000.4))
	assert.Equal(t, 9001.0, RoundMoney(9000.5))
	assert.Equal(t, 0.0, RoundMoney(0))
}
