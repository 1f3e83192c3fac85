package utils

import "time"

// Application Constants
const (
	AppName    = "DriveHire"
	AppVersion = "1.0.0"

	// Default values
	DefaultCurrency = "NGN"
	DefaultTimeZone = "Africa/Lagos"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Booking Constants
	MinOverrideReasonLength = 10
	MaxBookingDistance      = 500.0 // kilometers
	MaxCompletionDeclines   = 3     // auto-escalates to a dispute after this

	// Presence Constants
	LocationStalenessWindow   = 2 * time.Minute
	LocationRefreshInterval   = 30 * time.Second
	LocationAcquireTimeout    = 10 * time.Second
	PresenceLeaseTTL          = 15 * time.Second

	// Verification Constants
	NINLength                     = 11
	DefaultConfidenceThreshold    = 80.0
	VerificationAttemptsPerClient = 3

	// Settlement Constants
	DefaultCommissionPercentage = 10.0
	DefaultPerKMRate            = 100.0 // naira per kilometer

	// Geo
	EarthRadiusKM = 6371.0
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrInvalidInput       = "invalid input"
	ErrInternalServer     = "internal server error"
	ErrUnauthorized       = "unauthorized"
	ErrForbidden          = "forbidden"
	ErrValidationFailed   = "validation failed"
	ErrExternalService    = "external service unavailable"
	ErrBookingNotFound    = "booking not found"
	ErrDriverNotFound     = "driver not found"
	ErrClientNotFound     = "client not found"
	ErrDisputeNotFound    = "dispute not found"
	ErrSettlementNotFound = "settlement not found"
)
