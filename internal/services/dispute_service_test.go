package services

import (
	"context"
	"testing"

	"drivehire/internal/models"
	"drivehire/internal/utils"
	"drivehire/pkg/logger"
	"drivehire/pkg/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type disputeEnv struct {
	svc         *disputeService
	disputeRepo *fakeDisputeRepo
	bookingRepo *fakeBookingRepo
	auditRepo   *fakeAuditRepo
	publisher   *fakePublisher
}

func newDisputeEnv() *disputeEnv {
	env := &disputeEnv{
		disputeRepo: newFakeDisputeRepo(),
		bookingRepo: newFakeBookingRepo(),
		auditRepo:   newFakeAuditRepo(),
		publisher:   &fakePublisher{},
	}
	env.svc = &disputeService{
		disputeRepo: env.disputeRepo,
		bookingRepo: env.bookingRepo,
		auditRepo:   env.auditRepo,
		publisher:   env.publisher,
		logger:      logger.NewNop(),
	}
	return env
}

func (e *disputeEnv) seedBooking(t *testing.T) *models.Booking {
	t.Helper()
	booking := &models.Booking{
		BookingNumber: "BK-20260830-000002",
		ClientID:      primitive.NewObjectID(),
		DriverID:      primitive.NewObjectID(),
		Status:        models.BookingStatusOngoing,
		Currency:      "NGN",
	}
	require.NoError(t, e.bookingRepo.Create(context.Background(), booking))
	return booking
}

func TestOpenDisputePartiesOnly(t *testing.T) {
	env := newDisputeEnv()
	ctx := context.Background()
	booking := env.seedBooking(t)

	req := &OpenDisputeRequest{
		BookingID: booking.ID,
		Subject:   "Driver took a longer route",
	}

	stranger := models.Actor{ID: primitive.NewObjectID(), Role: models.RoleClient}
	_, err := env.svc.OpenDispute(ctx, stranger, req)
	assert.True(t, utils.IsKind(err, utils.ErrorKindUnauthorized))

	client := models.Actor{ID: booking.ClientID, Role: models.RoleClient}
	dispute, err := env.svc.OpenDispute(ctx, client, req)
	require.NoError(t, err)
	assert.Equal(t, models.DisputeStatusOpen, dispute.Status)
	assert.Equal(t, models.DisputePriorityMedium, dispute.Priority)
	assert.Equal(t, booking.ClientID, dispute.ReporterID)
	assert.NotEmpty(t, dispute.DisputeNumber)

	driver := models.Actor{ID: booking.DriverID, Role: models.RoleDriver}
	_, err = env.svc.OpenDispute(ctx, driver, req)
	require.NoError(t, err)
}

func TestOpenDisputeRequiresSubject(t *testing.T) {
	env := newDisputeEnv()
	booking := env.seedBooking(t)

	client := models.Actor{ID: booking.ClientID, Role: models.RoleClient}
	_, err := env.svc.OpenDispute(context.Background(), client, &OpenDisputeRequest{BookingID: booking.ID})
	assert.True(t, utils.IsKind(err, utils.ErrorKindValidation))
}

func TestOpenDisputeNotifiesAdminRoom(t *testing.T) {
	env := newDisputeEnv()
	booking := env.seedBooking(t)

	client := models.Actor{ID: booking.ClientID, Role: models.RoleClient}
	_, err := env.svc.OpenDispute(context.Background(), client, &OpenDisputeRequest{
		BookingID: booking.ID,
		Subject:   "Overcharged at drop-off",
		Priority:  models.DisputePriorityHigh,
	})
	require.NoError(t, err)

	require.Len(t, env.publisher.events, 1)
	assert.Equal(t, "dispute_opened", env.publisher.events[0].Type)
	assert.Equal(t, realtime.AdminRoom, env.publisher.events[0].RoomID)
}

func TestUpdateDisputeStatusMachine(t *testing.T) {
	env := newDisputeEnv()
	ctx := context.Background()
	booking := env.seedBooking(t)
	admin := models.Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

	client := models.Actor{ID: booking.ClientID, Role: models.RoleClient}
	dispute, err := env.svc.OpenDispute(ctx, client, &OpenDisputeRequest{
		BookingID: booking.ID,
		Subject:   "Driver took a longer route",
	})
	require.NoError(t, err)

	// open -> resolved skips investigating and is rejected.
	_, err = env.svc.UpdateDispute(ctx, admin, dispute.ID, &UpdateDisputeRequest{
		Status:     models.DisputeStatusResolved,
		Resolution: "premature",
	})
	assert.True(t, utils.IsKind(err, utils.ErrorKindConflict))

	investigating, err := env.svc.UpdateDispute(ctx, admin, dispute.ID, &UpdateDisputeRequest{
		Status:     models.DisputeStatusInvestigating,
		AssignedTo: &admin.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.DisputeStatusInvestigating, investigating.Status)
	require.NotNil(t, investigating.AssignedTo)
	assert.Equal(t, admin.ID, *investigating.AssignedTo)

	// Resolving without a resolution text is invalid.
	_, err = env.svc.UpdateDispute(ctx, admin, dispute.ID, &UpdateDisputeRequest{
		Status: models.DisputeStatusResolved,
	})
	assert.True(t, utils.IsKind(err, utils.ErrorKindValidation))

	resolved, err := env.svc.UpdateDispute(ctx, admin, dispute.ID, &UpdateDisputeRequest{
		Status:     models.DisputeStatusResolved,
		Resolution: "Partial refund issued to the client",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DisputeStatusResolved, resolved.Status)
	assert.NotNil(t, resolved.ResolvedAt)

	// resolved -> investigating is not a legal move.
	_, err = env.svc.UpdateDispute(ctx, admin, dispute.ID, &UpdateDisputeRequest{
		Status: models.DisputeStatusInvestigating,
	})
	assert.True(t, utils.IsKind(err, utils.ErrorKindConflict))

	closed, err := env.svc.UpdateDispute(ctx, admin, dispute.ID, &UpdateDisputeRequest{
		Status: models.DisputeStatusClosed,
	})
	require.NoError(t, err)
	assert.Equal(t, models.DisputeStatusClosed, closed.Status)

	// Each transition left an audit entry.
	entries, _, err := env.auditRepo.GetByResource(ctx, "dispute", dispute.ID, nil)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestUpdateDisputeAdminOnly(t *testing.T) {
	env := newDisputeEnv()
	ctx := context.Background()
	booking := env.seedBooking(t)

	client := models.Actor{ID: booking.ClientID, Role: models.RoleClient}
	dispute, err := env.svc.OpenDispute(ctx, client, &OpenDisputeRequest{
		BookingID: booking.ID,
		Subject:   "Driver took a longer route",
	})
	require.NoError(t, err)

	_, err = env.svc.UpdateDispute(ctx, client, dispute.ID, &UpdateDisputeRequest{
		Status: models.DisputeStatusClosed,
	})
	assert.True(t, utils.IsKind(err, utils.ErrorKindUnauthorized))
}

func TestUpdateDisputeFieldsWithoutTransition(t *testing.T) {
	env := newDisputeEnv()
	ctx := context.Background()
	booking := env.seedBooking(t)
	admin := models.Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

	client := models.Actor{ID: booking.ClientID, Role: models.RoleClient}
	dispute, err := env.svc.OpenDispute(ctx, client, &OpenDisputeRequest{
		BookingID: booking.ID,
		Subject:   "Driver took a longer route",
	})
	require.NoError(t, err)

	updated, err := env.svc.UpdateDispute(ctx, admin, dispute.ID, &UpdateDisputeRequest{
		AdminNotes: "Requested trip telemetry from the driver app",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DisputeStatusOpen, updated.Status)
	assert.Equal(t, "Requested trip telemetry from the driver app", updated.AdminNotes)

	// A notes-only update is not a status transition and is not audited.
	entries, _, err := env.auditRepo.GetByResource(ctx, "dispute", dispute.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGetDisputeVisibility(t *testing.T) {
	env := newDisputeEnv()
	ctx := context.Background()
	booking := env.seedBooking(t)

	client := models.Actor{ID: booking.ClientID, Role: models.RoleClient}
	dispute, err := env.svc.OpenDispute(ctx, client, &OpenDisputeRequest{
		BookingID: booking.ID,
		Subject:   "Driver took a longer route",
	})
	require.NoError(t, err)

	_, err = env.svc.GetDispute(ctx, client, dispute.ID)
	require.NoError(t, err)

	driver := models.Actor{ID: booking.DriverID, Role: models.RoleDriver}
	_, err = env.svc.GetDispute(ctx, driver, dispute.ID)
	assert.True(t, utils.IsKind(err, utils.ErrorKindUnauthorized))

	admin := models.Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
	_, err = env.svc.GetDispute(ctx, admin, dispute.ID)
	require.NoError(t, err)
}

func TestListOpenHighPriority(t *testing.T) {
	env := newDisputeEnv()
	ctx := context.Background()
	booking := env.seedBooking(t)
	admin := models.Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
	client := models.Actor{ID: booking.ClientID, Role: models.RoleClient}

	_, err := env.svc.OpenDispute(ctx, client, &OpenDisputeRequest{
		BookingID: booking.ID,
		Subject:   "Minor complaint",
		Priority:  models.DisputePriorityLow,
	})
	require.NoError(t, err)
	_, err = env.svc.OpenDispute(ctx, client, &OpenDisputeRequest{
		BookingID: booking.ID,
		Subject:   "Driver abandoned the trip",
		Priority:  models.DisputePriorityHigh,
	})
	require.NoError(t, err)

	high, total, err := env.svc.ListOpenHighPriority(ctx, admin, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, high, 1)
	assert.Equal(t, "Driver abandoned the trip", high[0].Subject)

	_, _, err = env.svc.ListOpenHighPriority(ctx, client, nil)
	assert.True(t, utils.IsKind(err, utils.ErrorKindUnauthorized))
}
