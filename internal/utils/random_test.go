package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateBookingNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^BK-\d{8}-\d{6}$`)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		number := GenerateBookingNumber()
		assert.Regexp(t, pattern, number)
		seen[number] = true
	}
	// Collisions in 50 draws of a six digit suffix would be suspicious.
	assert.Greater(t, len(seen), 45)
}

func TestGenerateDisputeNumber(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^DSP-\d{8}-\d{4}$`), GenerateDisputeNumber())
}

func TestGenerateRandomString(t *testing.T) {
	value := GenerateRandomString(16)
	assert.Len(t, value, 16)
	assert.Regexp(t, regexp.MustCompile(`^[a-zA-Z0-9]+$`), value)

	numeric := GenerateRandomNumericString(6)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), numeric)
}
