package services

import (
	"context"
	"fmt"
	"time"

	"drivehire/internal/models"
	"drivehire/internal/repositories/interfaces"
	"drivehire/internal/utils"
	"drivehire/pkg/logger"
	"drivehire/pkg/maps"
	"drivehire/pkg/payment"
	"drivehire/pkg/realtime"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RealtimePublisher fans booking events out to connected websocket clients.
type RealtimePublisher interface {
	Publish(event realtime.Event, userIDs ...primitive.ObjectID)
}

// BookingService owns the booking lifecycle:
// pending -> accepted -> ongoing -> completed, with cancellation reachable
// from every non-terminal status. Completed and cancelled are terminal.
type BookingService interface {
	CreateBooking(ctx context.Context, actor models.Actor, req *CreateBookingRequest) (*models.Booking, error)
	AcceptBooking(ctx context.Context, actor models.Actor, bookingID primitive.ObjectID) (*models.Booking, error)
	RejectBooking(ctx context.Context, actor models.Actor, bookingID primitive.ObjectID, reason string) (*models.Booking, error)
	StartBooking(ctx context.Context, actor models.Actor, bookingID primitive.ObjectID) (*models.Booking, error)
	CancelBooking(ctx context.Context, actor models.Actor, bookingID primitive.ObjectID, reason string) (*models.Booking, error)

	// Completion handshake. Both parties must confirm; the call that
	// observes both flags set wins the transition to completed and
	// triggers settlement exactly once.
	ConfirmCompletion(ctx context.Context, actor models.Actor, bookingID primitive.ObjectID) (*models.Booking, error)
	DeclineCompletion(ctx context.Context, actor models.Actor, bookingID primitive.ObjectID, reason string) (*models.Booking, error)

	// Admin overrides. Reason is mandatory and audited.
	ForceComplete(ctx context.Context, actor models.Actor, bookingID primitive.ObjectID, reason string) (*models.Booking, error)
	ForceCancel(ctx context.Context, actor models.Actor, bookingID primitive.ObjectID, reason string, refund bool) (*models.Booking, error)

	GetBooking(ctx context.Context, actor models.Actor, bookingID primitive.ObjectID) (*models.Booking, error)
	GetClientBookings(ctx context.Context, clientID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	GetDriverBookings(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error)
	GetBookingsByStatus(ctx context.Context, status models.BookingStatus, params *utils.PaginationParams) ([]*models.Booking, int64, error)
}

type CreateBookingRequest struct {
	DriverID       primitive.ObjectID `json:"driver_id" binding:"required"`
	StartLatitude  float64            `json:"start_latitude" binding:"required"`
	StartLongitude float64            `json:"start_longitude" binding:"required"`
	DestLatitude   float64            `json:"dest_latitude" binding:"required"`
	DestLongitude  float64            `json:"dest_longitude" binding:"required"`
	ScheduledTime  *time.Time         `json:"scheduled_time"`
}

type bookingService struct {
	bookingRepo      interfaces.BookingRepository
	driverRepo       interfaces.DriverRepository
	clientRepo       interfaces.ClientRepository
	verificationRepo interfaces.VerificationRepository
	settingsRepo     interfaces.PlatformSettingsRepository
	disputeRepo      interfaces.DisputeRepository
	auditRepo        interfaces.AuditLogRepository
	paymentSvc       payment.PaymentProvider
	routeSvc         maps.RouteProvider
	settlementSvc    SettlementService
	notificationSvc  NotificationService
	publisher        RealtimePublisher
	logger           *logger.Logger
	stalenessWindow  time.Duration
}

func NewBookingService(
	bookingRepo interfaces.BookingRepository,
	driverRepo interfaces.DriverRepository,
	clientRepo interfaces.ClientRepository,
	verificationRepo interfaces.VerificationRepository,
	settingsRepo interfaces.PlatformSettingsRepository,
	disputeRepo interfaces.DisputeRepository,
	auditRepo interfaces.AuditLogRepository,
	paymentSvc payment.PaymentProvider,
	routeSvc maps.RouteProvider,
	settlementSvc SettlementService,
	notificationSvc NotificationService,
	publisher RealtimePublisher,
	logger *logger.Logger,
) BookingService {
	return &bookingService{
		bookingRepo:      bookingRepo,
		driverRepo:       driverRepo,
		clientRepo:       clientRepo,
		verificationRepo: verificationRepo,
		settingsRepo:     settingsRepo,
		disputeRepo:      disputeRepo,
		auditRepo:        auditRepo,
		paymentSvc:       paymentSvc,
		routeSvc:         routeSvc,
		settlementSvc:    settlementSvc,
		notificationSvc:  notificationSvc,
		publisher:        publisher,
		logger:           logger,
		stalenessWindow:  utils.LocationStalenessWindow,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, actor models.Actor, req *CreateBookingRequest) (*models.Booking, error) {
	if !actor.IsClient() {
		return nil, utils.NewUnauthorizedError("only clients can create bookings")
	}

	client, err := s.clientRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if err := s.requireVerifiedClient(ctx, client.ID); err != nil {
		return nil, err
	}

	driver, err := s.driverRepo.GetByID(ctx, req.DriverID)
	if err != nil {
		return nil, err
	}
	if err := s.checkDriverEligibility(driver); err != nil {
		return nil, err
	}

	distanceKM, durationHours, err := s.estimateRoute(ctx, req)
	if err != nil {
		return nil, err
	}
	if distanceKM > utils.MaxBookingDistance {
		return nil, utils.NewValidationError("trip distance %.0f km exceeds the %v km limit", distanceKM, utils.MaxBookingDistance)
	}

	perKMRate := utils.DefaultPerKMRate
	if settings, serr := s.settingsRepo.Current(ctx); serr == nil {
		perKMRate = settings.PerKMRate
	} else if !utils.IsKind(serr, utils.ErrorKindNotFound) {
		return nil, serr
	}

	// Rates are snapshotted here. Later rate changes never touch this
	// booking's cost.
	totalCost := utils.RoundMoney(driver.HourlyRate*durationHours + perKMRate*distanceKM)

	booking := &models.Booking{
		BookingNumber: utils.GenerateBookingNumber(),
		ClientID:      client.ID,
		DriverID:      driver.ID,
		StartLocation: models.NewPoint(req.StartLatitude, req.StartLongitude),
		Destination:   models.NewPoint(req.DestLatitude, req.DestLongitude),
		DistanceKM:    distanceKM,
		DurationHours: durationHours,
		HourlyRate:    driver.HourlyRate,
		TotalCost:     totalCost,
		Currency:      utils.DefaultCurrency,
		Status:        models.BookingStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		ScheduledTime: req.ScheduledTime,
	}

	authResp, err := s.paymentSvc.Authorize(ctx, &payment.AuthorizeRequest{
		Amount:      totalCost,
		Currency:    booking.Currency,
		CustomerRef: client.PaymentCustomerRef,
		Description: fmt.Sprintf("Booking %s", booking.BookingNumber),
		Metadata:    map[string]interface{}{"booking_number": booking.BookingNumber},
	})
	if err != nil {
		return nil, utils.NewExternalError("payment authorization failed", err)
	}
	booking.PaymentStatus = models.PaymentStatusAuthorized
	booking.PaymentHoldRef = authResp.HoldRef

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		// The hold is orphaned if we cannot persist the booking.
		if relErr := s.paymentSvc.ReleaseHold(ctx, booking.PaymentHoldRef); relErr != nil {
			s.logger.WithError(relErr).Error("Failed to release hold after booking create failure")
		}
		return nil, err
	}

	s.logger.LogBookingEvent(booking.ID, "booking_created", map[string]interface{}{
		"client_id":  client.ID.Hex(),
		"driver_id":  driver.ID.Hex(),
		"total_cost": totalCost,
	})

	s.notificationSvc.NotifyBookingEvent(ctx, booking, "booking_created")
	s.publishBookingEvent(booking, "booking_created")

	return booking, nil
}

func (s *bookingService) AcceptBooking(ctx context.Context, actor models.Actor, bookingID primitive.ObjectID) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsDriver() || booking.DriverID != actor.ID {
		return nil, utils.NewUnauthorizedError("only the assigned driver can accept this booking")
	}

	// One active booking per driver. The check races with a concurrent
	// accept on another booking, but the status transition below is the
	// authoritative guard for this booking.
	hasActive, err := s.bookingRepo.HasActiveBooking(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if hasActive {
		return nil, utils.NewConflictError("driver already has an active booking")
	}

	now := time.Now()
	won, err := s.bookingRepo.TransitionStatus(ctx, bookingID,
		[]models.BookingStatus{models.BookingStatusPending},
		models.BookingStatusAccepted,
		map[string]interface{}{"accepted_at": now},
	)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, utils.NewConflictError("booking is no longer pending")
	}

	booking.Status = models.BookingStatusAccepted
	booking.AcceptedAt = &now

	s.logger.LogBookingEvent(bookingID, "booking_accepted", nil)
	s.notificationSvc.NotifyBookingEvent(ctx, booking, "booking_accepted")
	s.publishBookingEvent(booking, "booking_accepted")

	return booking, nil
}

func (s *bookingService) RejectBooking(ctx context.Context, actor models.Actor, bookingID primitive.ObjectID, reason string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsDriver() || booking.DriverID != actor.ID {
		return nil, utils.NewUnauthorizedError("only the assigned driver can reject this booking")
	}

	return s.cancelFrom(ctx, booking,
		[]models.BookingStatus{models.BookingStatusPending},
		string(models.RoleDriver), reason, "booking_rejected")
}

func (s *bookingService) StartBooking(ctx context.Context, actor models.Actor, bookingID primitive.ObjectID) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsDriver() || booking.DriverID != actor.ID {
		return nil, utils.NewUnauthorizedError("only the assigned driver can start this booking")
	}

	now := time.Now()
	won, err := s.bookingRepo.TransitionStatus(ctx, bookingID,
		[]models.BookingStatus{models.BookingStatusAccepted},
		models.BookingStatusOngoing,
		map[string]interface{}{"started_at": now},
	)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, utils.NewConflictError("booking cannot be started from its current status")
	}

	booking.Status = models.BookingStatusOngoing
	booking.StartedAt = &now

	s.logger.LogBookingEvent(bookingID, "booking_started", nil)
	s.notificationSvc.NotifyBookingEvent(ctx, booking, "booking_started")
	s.publishBookingEvent(booking, "booking_started")

	return booking, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, actor models.Actor, bookingID primitive.ObjectID, reason string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsClient() || booking.ClientID != actor.ID {
		return nil, utils.NewUnauthorizedError("only the booking's client can cancel it")
	}

	return s.cancelFrom(ctx, booking,
		[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusAccepted},
		string(models.RoleClient), reason, "booking_cancelled")
}

func (s *bookingService) ConfirmCompletion(ctx context.Context, actor models.Actor, bookingID primitive.ObjectID) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.requireParty(actor, booking); err != nil {
		return nil, err
	}
	if booking.Status == models.BookingStatusCompleted {
		// Re-confirming a completed booking is a no-op.
		return booking, nil
	}
	if booking.Status != models.BookingStatusOngoing {
		return nil, utils.NewConflictError("completion can only be confirmed on an ongoing booking")
	}

	updated, err := s.bookingRepo.SetConfirmation(ctx, bookingID, actor.Role)
	if err != nil {
		return nil, err
	}

	if !(updated.DriverConfirmed && updated.ClientConfirmed) {
		s.logger.LogBookingEvent(bookingID, "completion_confirmed", map[string]interface{}{
			"role": string(actor.Role),
		})
		return updated, nil
	}

	// Both parties have confirmed. Whoever wins the conditional
	// transition owns settlement; a loser re-reads, since the booking
	// may have been completed or force-cancelled underneath it.
	now := time.Now()
	won, err := s.bookingRepo.TransitionStatus(ctx, bookingID,
		[]models.BookingStatus{models.BookingStatusOngoing},
		models.BookingStatusCompleted,
		map[string]interface{}{
			"completed_at": now,
			"archived":     true,
		},
	)
	if err != nil {
		return nil, err
	}
	if !won {
		return s.bookingRepo.GetByID(ctx, bookingID)
	}

	updated.Status = models.BookingStatusCompleted
	updated.CompletedAt = &now
	updated.Archived = true

	s.logger.LogBookingEvent(bookingID, "booking_completed", nil)

	if _, err := s.settlementSvc.SettleBooking(ctx, updated); err != nil {
		// Settlement is recoverable via the retry worker; the
		// completed status stands.
		s.logger.WithError(err).WithBookingID(bookingID).Error("Settlement failed after completion")
	}

	if err := s.driverRepo.Update(ctx, updated.DriverID, map[string]interface{}{
		"total_trips": s.nextTripCount(ctx, updated.DriverID),
	}); err != nil {
		s.logger.WithError(err).WithDriverID(updated.DriverID).Warn("Failed to update driver trip count")
	}

	s.notificationSvc.NotifyBookingEvent(ctx, updated, "booking_completed")
	s.publishBookingEvent(updated, "booking_completed")

	return updated, nil
}

func (s *bookingService) DeclineCompletion(ctx context.Context, actor models.Actor, bookingID primitive.ObjectID, reason string) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsClient() || booking.ClientID != actor.ID {
		return nil, utils.NewUnauthorizedError("only the booking's client can decline completion")
	}
	if booking.Status != models.BookingStatusOngoing {
		return nil, utils.NewConflictError("completion can only be declined on an ongoing booking")
	}

	declines, err := s.bookingRepo.IncrementCompletionDeclines(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// Each confirmation flag belongs to its own party. A decline only
	// records the objection; the driver's confirmation stands.
	booking.CompletionDeclines = declines

	s.logger.LogBookingEvent(bookingID, "completion_declined", map[string]interface{}{
		"declines": declines,
		"reason":   reason,
	})

	if declines >= utils.MaxCompletionDeclines {
		s.escalateToDispute(ctx, booking, reason)
	}

	s.notificationSvc.NotifyBookingEvent(ctx, booking, "completion_declined")
	s.publishBookingEvent(booking, "completion_declined")

	return booking, nil
}

func (s *bookingService) ForceComplete(ctx context.Context, actor models.Actor, bookingID primitive.ObjectID, reason string) (*models.Booking, error) {
	booking, err := s.requireOverride(ctx, actor, bookingID, reason)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	won, err := s.bookingRepo.TransitionStatus(ctx, bookingID,
		[]models.BookingStatus{models.BookingStatusAccepted, models.BookingStatusOngoing},
		models.BookingStatusCompleted,
		map[string]interface{}{
			"completed_at":     now,
			"driver_confirmed": true,
			"client_confirmed": true,
			"archived":         true,
		},
	)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, utils.NewConflictError("booking cannot be force completed from its current status")
	}

	booking.Status = models.BookingStatusCompleted
	booking.CompletedAt = &now
	booking.Archived = true

	s.audit(ctx, actor, models.AuditActionForceComplete, bookingID, reason)

	if _, err := s.settlementSvc.SettleBooking(ctx, booking); err != nil {
		s.logger.WithError(err).WithBookingID(bookingID).Error("Settlement failed after forced completion")
	}

	s.notificationSvc.NotifyBookingEvent(ctx, booking, "booking_completed")
	s.publishBookingEvent(booking, "booking_completed")

	return booking, nil
}

func (s *bookingService) ForceCancel(ctx context.Context, actor models.Actor, bookingID primitive.ObjectID, reason string, refund bool) (*models.Booking, error) {
	booking, err := s.requireOverride(ctx, actor, bookingID, reason)
	if err != nil {
		return nil, err
	}

	cancelled, err := s.cancelVia(ctx, booking,
		[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusAccepted, models.BookingStatusOngoing},
		string(models.RoleAdmin), reason, "booking_cancelled", refund)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, models.AuditActionForceCancel, bookingID, reason)

	return cancelled, nil
}

func (s *bookingService) GetBooking(ctx context.Context, actor models.Actor, bookingID primitive.ObjectID) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		if err := s.requireParty(actor, booking); err != nil {
			return nil, err
		}
	}
	return booking, nil
}

func (s *bookingService) GetClientBookings(ctx context.Context, clientID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	return s.bookingRepo.GetByClient(ctx, clientID, params)
}

func (s *bookingService) GetDriverBookings(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	return s.bookingRepo.GetByDriver(ctx, driverID, params)
}

func (s *bookingService) GetBookingsByStatus(ctx context.Context, status models.BookingStatus, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	return s.bookingRepo.GetByStatus(ctx, status, params)
}

// cancelFrom performs the guarded transition to cancelled and always
// unwinds the payment: an authorized hold is released, a captured
// payment is refunded in full.
func (s *bookingService) cancelFrom(ctx context.Context, booking *models.Booking, from []models.BookingStatus, cancelledBy, reason, event string) (*models.Booking, error) {
	return s.cancelVia(ctx, booking, from, cancelledBy, reason, event, true)
}

// cancelVia is cancelFrom with the refund decision exposed. Admin
// overrides may cancel while keeping the captured payment in place.
func (s *bookingService) cancelVia(ctx context.Context, booking *models.Booking, from []models.BookingStatus, cancelledBy, reason, event string, refund bool) (*models.Booking, error) {
	now := time.Now()
	won, err := s.bookingRepo.TransitionStatus(ctx, booking.ID, from, models.BookingStatusCancelled,
		map[string]interface{}{
			"cancelled_at":        now,
			"cancelled_by":        cancelledBy,
			"cancellation_reason": reason,
			"archived":            true,
		},
	)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, utils.NewConflictError("booking cannot be cancelled from its current status")
	}

	booking.Status = models.BookingStatusCancelled
	booking.CancelledAt = &now
	booking.CancelledBy = cancelledBy
	booking.CancellationReason = reason
	booking.Archived = true

	if refund {
		s.unwindPayment(ctx, booking, reason)
	}

	s.logger.LogBookingEvent(booking.ID, event, map[string]interface{}{
		"cancelled_by": cancelledBy,
		"reason":       reason,
	})
	s.notificationSvc.NotifyBookingEvent(ctx, booking, event)
	s.publishBookingEvent(booking, event)

	return booking, nil
}

func (s *bookingService) unwindPayment(ctx context.Context, booking *models.Booking, reason string) {
	switch booking.PaymentStatus {
	case models.PaymentStatusAuthorized:
		if err := s.paymentSvc.ReleaseHold(ctx, booking.PaymentHoldRef); err != nil {
			s.logger.WithError(err).WithBookingID(booking.ID).Error("Failed to release payment hold")
			return
		}
		s.setPaymentStatus(ctx, booking, models.PaymentStatusRefunded)
	case models.PaymentStatusPaid:
		if _, err := s.paymentSvc.Refund(ctx, &payment.RefundRequest{
			HoldRef: booking.PaymentHoldRef,
			Amount:  booking.TotalCost,
			Reason:  reason,
		}); err != nil {
			s.logger.WithError(err).WithBookingID(booking.ID).Error("Failed to refund payment")
			return
		}
		s.setPaymentStatus(ctx, booking, models.PaymentStatusRefunded)
	}
}

func (s *bookingService) setPaymentStatus(ctx context.Context, booking *models.Booking, status models.PaymentStatus) {
	if err := s.bookingRepo.Update(ctx, booking.ID, map[string]interface{}{"payment_status": status}); err != nil {
		s.logger.WithError(err).WithBookingID(booking.ID).Error("Failed to update payment status")
		return
	}
	booking.PaymentStatus = status
	s.logger.LogPaymentEvent(booking.ID, string(status), booking.TotalCost, booking.Currency)
}

func (s *bookingService) requireVerifiedClient(ctx context.Context, clientID primitive.ObjectID) error {
	verification, err := s.verificationRepo.GetByClientID(ctx, clientID)
	if err != nil {
		if utils.IsKind(err, utils.ErrorKindNotFound) {
			return utils.NewValidationError("client identity is not verified")
		}
		return err
	}

	switch verification.State {
	case models.VerificationStateVerified:
		return nil
	case models.VerificationStateLocked:
		return utils.NewLockedError("client verification is locked pending manual review")
	default:
		return utils.NewValidationError("client identity is not verified")
	}
}

func (s *bookingService) checkDriverEligibility(driver *models.Driver) error {
	if !driver.Verified {
		return utils.NewValidationError("driver is not verified")
	}
	if driver.OnlineStatus != models.OnlineStatusOnline {
		return utils.NewValidationError("driver is not online")
	}
	if !driver.HasFreshLocation(s.stalenessWindow, time.Now()) {
		return utils.NewValidationError("driver location is stale")
	}
	return nil
}

func (s *bookingService) estimateRoute(ctx context.Context, req *CreateBookingRequest) (float64, float64, error) {
	estimate, err := s.routeSvc.EstimateRoute(ctx, &maps.RouteRequest{
		Origin:      maps.Location{Latitude: req.StartLatitude, Longitude: req.StartLongitude},
		Destination: maps.Location{Latitude: req.DestLatitude, Longitude: req.DestLongitude},
		Mode:        "driving",
	})
	if err == nil {
		return estimate.DistanceKM, estimate.DurationHours, nil
	}

	s.logger.WithError(err).Warn("Route estimate failed, falling back to straight-line distance")

	distance := utils.CalculateDistance(req.StartLatitude, req.StartLongitude, req.DestLatitude, req.DestLongitude)
	return distance, utils.EstimateDurationHours(distance, 0), nil
}

func (s *bookingService) requireParty(actor models.Actor, booking *models.Booking) error {
	switch {
	case actor.IsDriver() && booking.DriverID == actor.ID:
		return nil
	case actor.IsClient() && booking.ClientID == actor.ID:
		return nil
	default:
		return utils.NewUnauthorizedError("actor is not a party to this booking")
	}
}

func (s *bookingService) requireOverride(ctx context.Context, actor models.Actor, bookingID primitive.ObjectID, reason string) (*models.Booking, error) {
	if !actor.IsAdmin() {
		return nil, utils.NewUnauthorizedError("admin role required")
	}
	if len(reason) < utils.MinOverrideReasonLength {
		return nil, utils.NewValidationError("override reason must be at least %d characters", utils.MinOverrideReasonLength)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.IsTerminal() {
		return nil, utils.NewConflictError("booking is already %s", booking.Status)
	}

	return booking, nil
}

func (s *bookingService) escalateToDispute(ctx context.Context, booking *models.Booking, reason string) {
	dispute := &models.Dispute{
		DisputeNumber: utils.GenerateDisputeNumber(),
		BookingID:     booking.ID,
		ReporterID:    booking.ClientID,
		ReporterRole:  models.RoleClient,
		Status:        models.DisputeStatusOpen,
		Priority:      models.DisputePriorityHigh,
		Subject:       "Completion declined repeatedly",
		Description:   fmt.Sprintf("Booking %s reached %d completion declines. Last reason: %s", booking.BookingNumber, booking.CompletionDeclines, reason),
	}

	if err := s.disputeRepo.Create(ctx, dispute); err != nil {
		s.logger.WithError(err).WithBookingID(booking.ID).Error("Failed to auto-open dispute after repeated declines")
		return
	}

	s.logger.WithBookingID(booking.ID).WithField("dispute_number", dispute.DisputeNumber).Warn("Dispute auto-opened after repeated completion declines")
}

func (s *bookingService) audit(ctx context.Context, actor models.Actor, action models.AuditAction, bookingID primitive.ObjectID, reason string) {
	entry := &models.AuditLog{
		AdminID:    actor.ID,
		Action:     action,
		Resource:   "booking",
		ResourceID: bookingID.Hex(),
		Reason:     reason,
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.WithError(err).WithBookingID(bookingID).Error("Failed to write audit log entry")
	}
	s.logger.LogAuditEvent(actor.ID, string(action), "booking", map[string]interface{}{
		"booking_id": bookingID.Hex(),
		"reason":     reason,
	})
}

func (s *bookingService) nextTripCount(ctx context.Context, driverID primitive.ObjectID) int64 {
	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return 0
	}
	return driver.TotalTrips + 1
}

func (s *bookingService) publishBookingEvent(booking *models.Booking, event string) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(realtime.Event{
		Type:       event,
		Resource:   "booking",
		ResourceID: booking.ID.Hex(),
		Timestamp:  time.Now().Unix(),
		Data: map[string]interface{}{
			"status":         string(booking.Status),
			"booking_number": booking.BookingNumber,
		},
	}, booking.ClientID, booking.DriverID)
}
