package services

import (
	"context"
	"fmt"
	"time"

	"drivehire/internal/models"
	"drivehire/internal/repositories/interfaces"
	"drivehire/pkg/logger"
	"drivehire/pkg/push"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationService delivers push notifications on a best-effort basis.
// A delivery failure never fails the operation that triggered it.
type NotificationService interface {
	NotifyDriver(ctx context.Context, driverID primitive.ObjectID, title, body string, data map[string]string)
	NotifyClient(ctx context.Context, clientID primitive.ObjectID, title, body string, data map[string]string)
	NotifyBookingEvent(ctx context.Context, booking *models.Booking, event string)
}

type notificationService struct {
	driverRepo interfaces.DriverRepository
	clientRepo interfaces.ClientRepository
	fcm        push.PushProvider
	apns       push.PushProvider
	logger     *logger.Logger
}

func NewNotificationService(
	driverRepo interfaces.DriverRepository,
	clientRepo interfaces.ClientRepository,
	fcm push.PushProvider,
	apns push.PushProvider,
	logger *logger.Logger,
) NotificationService {
	return &notificationService{
		driverRepo: driverRepo,
		clientRepo: clientRepo,
		fcm:        fcm,
		apns:       apns,
		logger:     logger,
	}
}

func (s *notificationService) NotifyDriver(ctx context.Context, driverID primitive.ObjectID, title, body string, data map[string]string) {
	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		s.logger.WithError(err).WithDriverID(driverID).Warn("Skipping driver notification, driver lookup failed")
		return
	}

	s.send(ctx, driver.DeviceToken, driver.DevicePlatform, title, body, data)
}

func (s *notificationService) NotifyClient(ctx context.Context, clientID primitive.ObjectID, title, body string, data map[string]string) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		s.logger.WithError(err).WithClientID(clientID).Warn("Skipping client notification, client lookup failed")
		return
	}

	s.send(ctx, client.DeviceToken, client.DevicePlatform, title, body, data)
}

func (s *notificationService) NotifyBookingEvent(ctx context.Context, booking *models.Booking, event string) {
	data := map[string]string{
		"booking_id":     booking.ID.Hex(),
		"booking_number": booking.BookingNumber,
		"event":          event,
		"status":         string(booking.Status),
	}

	var clientTitle, clientBody, driverTitle, driverBody string
	switch event {
	case "booking_created":
		driverTitle = "New booking request"
		driverBody = fmt.Sprintf("Booking %s is waiting for your response", booking.BookingNumber)
	case "booking_accepted":
		clientTitle = "Driver assigned"
		clientBody = fmt.Sprintf("Your driver accepted booking %s", booking.BookingNumber)
	case "booking_rejected":
		clientTitle = "Booking declined"
		clientBody = fmt.Sprintf("The driver declined booking %s, your hold was released", booking.BookingNumber)
	case "booking_started":
		clientTitle = "Trip started"
		clientBody = fmt.Sprintf("Booking %s is now in progress", booking.BookingNumber)
	case "booking_completed":
		clientTitle = "Trip completed"
		clientBody = fmt.Sprintf("Booking %s is complete, thanks for riding with us", booking.BookingNumber)
		driverTitle = "Trip completed"
		driverBody = fmt.Sprintf("Booking %s settled, your earnings are on the way", booking.BookingNumber)
	case "booking_cancelled":
		clientTitle = "Booking cancelled"
		clientBody = fmt.Sprintf("Booking %s was cancelled", booking.BookingNumber)
		driverTitle = "Booking cancelled"
		driverBody = fmt.Sprintf("Booking %s was cancelled", booking.BookingNumber)
	case "completion_declined":
		driverTitle = "Completion declined"
		driverBody = fmt.Sprintf("The client declined completion of booking %s", booking.BookingNumber)
	default:
		return
	}

	if clientTitle != "" {
		s.NotifyClient(ctx, booking.ClientID, clientTitle, clientBody, data)
	}
	if driverTitle != "" && !booking.DriverID.IsZero() {
		s.NotifyDriver(ctx, booking.DriverID, driverTitle, driverBody, data)
	}
}

func (s *notificationService) send(ctx context.Context, token, platform, title, body string, data map[string]string) {
	if token == "" {
		return
	}

	provider := s.fcm
	if platform == "ios" && s.apns != nil {
		provider = s.apns
	}
	if provider == nil {
		return
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	resp, err := provider.SendNotification(sendCtx, &push.NotificationRequest{
		Token: token,
		Title: title,
		Body:  body,
		Data:  data,
	})
	if err != nil {
		s.logger.WithError(err).WithField("platform", platform).Warn("Push notification delivery failed")
		return
	}
	if resp != nil && !resp.Success {
		s.logger.WithFields(map[string]interface{}{
			"platform": platform,
			"error":    resp.Error,
		}).Warn("Push notification rejected by provider")
	}
}
