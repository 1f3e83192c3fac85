package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusHelpers(t *testing.T) {
	tests := []struct {
		status   BookingStatus
		terminal bool
		active   bool
	}{
		{BookingStatusPending, false, false},
		{BookingStatusAccepted, false, true},
		{BookingStatusOngoing, false, true},
		{BookingStatusCompleted, true, false},
		{BookingStatusCancelled, true, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			booking := &Booking{Status: tt.status}
			assert.Equal(t, tt.terminal, booking.IsTerminal())
			assert.Equal(t, tt.active, booking.IsActive())
		})
	}
}

func TestDisputeCanTransitionTo(t *testing.T) {
	tests := []struct {
		from    DisputeStatus
		to      DisputeStatus
		allowed bool
	}{
		{DisputeStatusOpen, DisputeStatusInvestigating, true},
		{DisputeStatusOpen, DisputeStatusClosed, true},
		{DisputeStatusOpen, DisputeStatusResolved, false},
		{DisputeStatusInvestigating, DisputeStatusResolved, true},
		{DisputeStatusInvestigating, DisputeStatusClosed, true},
		{DisputeStatusInvestigating, DisputeStatusOpen, false},
		{DisputeStatusResolved, DisputeStatusClosed, true},
		{DisputeStatusResolved, DisputeStatusInvestigating, false},
		{DisputeStatusClosed, DisputeStatusOpen, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			dispute := &Dispute{Status: tt.from}
			assert.Equal(t, tt.allowed, dispute.CanTransitionTo(tt.to))
		})
	}
}

func TestNewPointStoresGeoJSONOrder(t *testing.T) {
	point := NewPoint(6.5244, 3.3792)
	assert.Equal(t, "Point", point.Type)
	// GeoJSON stores longitude first.
	assert.Equal(t, []float64{3.3792, 6.5244}, point.Coordinates)
	assert.Equal(t, 6.5244, point.Latitude())
	assert.Equal(t, 3.3792, point.Longitude())
	assert.True(t, point.HasCoordinates())
}

func TestHasFreshLocation(t *testing.T) {
	now := time.Now()
	location := NewPoint(6.5244, 3.3792)

	driver := &Driver{}
	assert.False(t, driver.HasFreshLocation(2*time.Minute, now))

	recent := now.Add(-time.Minute)
	driver.CurrentLocation = &location
	driver.LastLocationUpdate = &recent
	assert.True(t, driver.HasFreshLocation(2*time.Minute, now))

	stale := now.Add(-3 * time.Minute)
	driver.LastLocationUpdate = &stale
	assert.False(t, driver.HasFreshLocation(2*time.Minute, now))
}

func TestAttemptsRemaining(t *testing.T) {
	verification := &ClientVerification{AttemptsCount: 0}
	assert.Equal(t, 3, verification.AttemptsRemaining())

	verification.AttemptsCount = 2
	assert.Equal(t, 1, verification.AttemptsRemaining())

	verification.AttemptsCount = 5
	assert.Equal(t, 0, verification.AttemptsRemaining())
}
