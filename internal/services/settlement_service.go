package services

import (
	"context"
	"time"

	"drivehire/internal/models"
	"drivehire/internal/repositories/interfaces"
	"drivehire/internal/utils"
	"drivehire/pkg/logger"
	"drivehire/pkg/payment"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SettlementService computes and records the commission split when a
// booking completes, then pays the driver share out asynchronously.
type SettlementService interface {
	// SettleBooking is idempotent per booking: the first caller creates
	// the settlement and triggers capture + payout, every later caller
	// gets the existing record back untouched.
	SettleBooking(ctx context.Context, booking *models.Booking) (*models.Settlement, error)

	GetByBookingID(ctx context.Context, bookingID primitive.ObjectID) (*models.Settlement, error)
	GetDriverSettlements(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Settlement, int64, error)

	// RetryPendingPayouts re-attempts payout for settlements whose
	// previous attempts failed. Returns how many were settled.
	RetryPendingPayouts(ctx context.Context, limit int) (int, error)
}

type settlementService struct {
	settlementRepo interfaces.SettlementRepository
	bookingRepo    interfaces.BookingRepository
	driverRepo     interfaces.DriverRepository
	settingsRepo   interfaces.PlatformSettingsRepository
	paymentSvc     payment.PaymentProvider
	logger         *logger.Logger
	asyncPayout    bool
}

func NewSettlementService(
	settlementRepo interfaces.SettlementRepository,
	bookingRepo interfaces.BookingRepository,
	driverRepo interfaces.DriverRepository,
	settingsRepo interfaces.PlatformSettingsRepository,
	paymentSvc payment.PaymentProvider,
	logger *logger.Logger,
) SettlementService {
	return &settlementService{
		settlementRepo: settlementRepo,
		bookingRepo:    bookingRepo,
		driverRepo:     driverRepo,
		settingsRepo:   settingsRepo,
		paymentSvc:     paymentSvc,
		logger:         logger,
		asyncPayout:    true,
	}
}

// ComputeShares splits the fare using the commission in effect. The driver
// share is rounded and the platform share is the exact remainder, so the
// two always sum to the total fare.
func ComputeShares(totalFare, commissionPercentage float64) (driverShare, platformShare float64) {
	driverShare = utils.RoundMoney(totalFare * (100 - commissionPercentage) / 100)
	platformShare = totalFare - driverShare
	return driverShare, platformShare
}

func (s *settlementService) SettleBooking(ctx context.Context, booking *models.Booking) (*models.Settlement, error) {
	commission := utils.DefaultCommissionPercentage
	commissionVersion := 0
	if settings, err := s.settingsRepo.Current(ctx); err == nil {
		commission = settings.CommissionPercentage
		commissionVersion = settings.Version
	} else if !utils.IsKind(err, utils.ErrorKindNotFound) {
		return nil, err
	}

	driverShare, platformShare := ComputeShares(booking.TotalCost, commission)

	settlement := &models.Settlement{
		BookingID:            booking.ID,
		DriverID:             booking.DriverID,
		TotalFare:            booking.TotalCost,
		CommissionPercentage: commission,
		CommissionVersion:    commissionVersion,
		PlatformShare:        platformShare,
		DriverShare:          driverShare,
		Currency:             booking.Currency,
		Settled:              false,
	}

	record, created, err := s.settlementRepo.CreateIfAbsent(ctx, settlement)
	if err != nil {
		return nil, err
	}
	if !created {
		return record, nil
	}

	s.logger.WithBookingID(booking.ID).WithFields(map[string]interface{}{
		"total_fare":    record.TotalFare,
		"driver_share":  record.DriverShare,
		"commission":    record.CommissionPercentage,
		"commission_v":  record.CommissionVersion,
	}).Info("Settlement created")

	s.captureHold(ctx, booking)

	if s.asyncPayout {
		go s.attemptPayout(context.WithoutCancel(ctx), record)
	} else {
		s.attemptPayout(ctx, record)
	}

	return record, nil
}

func (s *settlementService) captureHold(ctx context.Context, booking *models.Booking) {
	if booking.PaymentHoldRef == "" || booking.PaymentStatus == models.PaymentStatusPaid {
		return
	}

	_, err := s.paymentSvc.Capture(ctx, booking.PaymentHoldRef, booking.TotalCost)
	if err != nil {
		s.logger.WithError(err).WithBookingID(booking.ID).Error("Payment capture failed")
		if updErr := s.bookingRepo.Update(ctx, booking.ID, map[string]interface{}{
			"payment_status": models.PaymentStatusFailed,
		}); updErr != nil {
			s.logger.WithError(updErr).WithBookingID(booking.ID).Error("Failed to record payment failure")
		}
		return
	}

	if err := s.bookingRepo.Update(ctx, booking.ID, map[string]interface{}{
		"payment_status": models.PaymentStatusPaid,
	}); err != nil {
		s.logger.WithError(err).WithBookingID(booking.ID).Error("Failed to record payment capture")
	}

	s.logger.LogPaymentEvent(booking.ID, "payment_captured", booking.TotalCost, booking.Currency)
}

// attemptPayout pushes the driver share to the driver's payout account. A
// failure leaves settled=false so RetryPendingPayouts picks the row up
// later; the settlement row itself is never rolled back.
func (s *settlementService) attemptPayout(ctx context.Context, settlement *models.Settlement) bool {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	driver, err := s.driverRepo.GetByID(ctx, settlement.DriverID)
	if err != nil {
		s.recordPayoutFailure(ctx, settlement, "driver lookup failed: "+err.Error())
		return false
	}
	if driver.PayoutAccount == nil || driver.PayoutAccount.ProviderRef == "" {
		s.recordPayoutFailure(ctx, settlement, "driver has no payout account")
		return false
	}

	resp, err := s.paymentSvc.Payout(ctx, &payment.PayoutRequest{
		BookingID:  settlement.BookingID.Hex(),
		Amount:     settlement.DriverShare,
		Currency:   settlement.Currency,
		AccountRef: driver.PayoutAccount.ProviderRef,
	})
	if err != nil {
		s.recordPayoutFailure(ctx, settlement, err.Error())
		return false
	}

	marked, err := s.settlementRepo.MarkSettled(ctx, settlement.ID, resp.PayoutRef)
	if err != nil {
		s.logger.WithError(err).WithBookingID(settlement.BookingID).Error("Failed to mark settlement settled")
		return false
	}
	if !marked {
		// Another retry worker already settled this row.
		return true
	}

	if err := s.driverRepo.Update(ctx, settlement.DriverID, map[string]interface{}{
		"total_earnings": driver.TotalEarnings + settlement.DriverShare,
	}); err != nil {
		s.logger.WithError(err).WithDriverID(settlement.DriverID).Warn("Failed to update driver earnings total")
	}

	s.logger.LogPaymentEvent(settlement.BookingID, "driver_payout", settlement.DriverShare, settlement.Currency)
	return true
}

func (s *settlementService) recordPayoutFailure(ctx context.Context, settlement *models.Settlement, reason string) {
	s.logger.WithBookingID(settlement.BookingID).WithField("reason", reason).Warn("Driver payout failed")
	if err := s.settlementRepo.RecordPayoutFailure(ctx, settlement.ID, reason); err != nil {
		s.logger.WithError(err).WithBookingID(settlement.BookingID).Error("Failed to record payout failure")
	}
}

func (s *settlementService) GetByBookingID(ctx context.Context, bookingID primitive.ObjectID) (*models.Settlement, error) {
	return s.settlementRepo.GetByBookingID(ctx, bookingID)
}

func (s *settlementService) GetDriverSettlements(ctx context.Context, driverID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Settlement, int64, error) {
	return s.settlementRepo.GetByDriver(ctx, driverID, params)
}

func (s *settlementService) RetryPendingPayouts(ctx context.Context, limit int) (int, error) {
	pending, err := s.settlementRepo.GetUnsettled(ctx, limit)
	if err != nil {
		return 0, err
	}

	settled := 0
	for _, settlement := range pending {
		if s.attemptPayout(ctx, settlement) {
			settled++
		}
	}

	return settled, nil
}
