package services

import (
	"context"
	"testing"
	"time"

	"drivehire/internal/models"
	"drivehire/internal/utils"
	"drivehire/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type presenceEnv struct {
	svc         *presenceService
	driverRepo  *fakeDriverRepo
	bookingRepo *fakeBookingRepo
	store       *fakePresenceStore
}

func newPresenceEnv() *presenceEnv {
	env := &presenceEnv{
		driverRepo:  newFakeDriverRepo(),
		bookingRepo: newFakeBookingRepo(),
		store:       newFakePresenceStore(),
	}
	env.svc = &presenceService{
		driverRepo:      env.driverRepo,
		bookingRepo:     env.bookingRepo,
		store:           env.store,
		logger:          logger.NewNop(),
		stalenessWindow: utils.LocationStalenessWindow,
		acquireTimeout:  100 * time.Millisecond,
		refreshInterval: 10 * time.Millisecond,
		leaseTTL:        time.Second,
		intents:         make(map[primitive.ObjectID]*driverIntent),
	}
	return env
}

func (e *presenceEnv) seedDriver(t *testing.T, withFreshLocation bool) *models.Driver {
	t.Helper()
	ctx := context.Background()
	driver := &models.Driver{
		UserID:       primitive.NewObjectID(),
		FullName:     "Emeka Obi",
		Verified:     true,
		OnlineStatus: models.OnlineStatusOffline,
	}
	require.NoError(t, e.driverRepo.Create(ctx, driver))
	if withFreshLocation {
		location := models.NewPoint(6.5244, 3.3792)
		require.NoError(t, e.driverRepo.UpdateLocation(ctx, driver.ID, &location, time.Now()))
	}
	return driver
}

func TestGoOnlineWithFreshLocation(t *testing.T) {
	env := newPresenceEnv()
	defer env.svc.Shutdown()
	ctx := context.Background()

	driver := env.seedDriver(t, true)

	require.NoError(t, env.svc.GoOnline(ctx, driver.ID))

	stored, err := env.driverRepo.GetByID(ctx, driver.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OnlineStatusOnline, stored.OnlineStatus)
	assert.True(t, env.store.hasLease(leaseKey(driver.ID)))

	// Going online again is a no-op, not an error.
	require.NoError(t, env.svc.GoOnline(ctx, driver.ID))
}

func TestGoOnlineRequiresVerifiedDriver(t *testing.T) {
	env := newPresenceEnv()
	ctx := context.Background()

	driver := &models.Driver{UserID: primitive.NewObjectID(), FullName: "Tunde Bello"}
	require.NoError(t, env.driverRepo.Create(ctx, driver))

	err := env.svc.GoOnline(ctx, driver.ID)
	assert.True(t, utils.IsKind(err, utils.ErrorKindValidation))
}

func TestGoOnlineTimesOutWithoutLocationFix(t *testing.T) {
	env := newPresenceEnv()
	ctx := context.Background()

	driver := env.seedDriver(t, false)

	err := env.svc.GoOnline(ctx, driver.ID)
	assert.True(t, utils.IsKind(err, utils.ErrorKindValidation))

	stored, getErr := env.driverRepo.GetByID(ctx, driver.ID)
	require.NoError(t, getErr)
	assert.Equal(t, models.OnlineStatusOffline, stored.OnlineStatus)
	assert.False(t, env.store.hasLease(leaseKey(driver.ID)))

	// The failed chain left no intent behind; a retry starts clean
	// instead of reporting a conflict.
	err = env.svc.GoOnline(ctx, driver.ID)
	assert.True(t, utils.IsKind(err, utils.ErrorKindValidation))
}

func TestGoOnlineFedByLocationReport(t *testing.T) {
	env := newPresenceEnv()
	defer env.svc.Shutdown()
	ctx := context.Background()

	driver := env.seedDriver(t, false)

	done := make(chan error, 1)
	go func() {
		done <- env.svc.GoOnline(ctx, driver.ID)
	}()

	// Feed reports until the activation picks one up.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case err := <-done:
			require.NoError(t, err)
			stored, getErr := env.driverRepo.GetByID(ctx, driver.ID)
			require.NoError(t, getErr)
			assert.Equal(t, models.OnlineStatusOnline, stored.OnlineStatus)
			require.NotNil(t, stored.CurrentLocation)
			assert.InDelta(t, 6.5244, stored.CurrentLocation.Latitude(), 0.0001)
			return
		case <-deadline:
			t.Fatal("activation never completed")
		default:
			_ = env.svc.ReportLocation(ctx, driver.ID, 6.5244, 3.3792)
			time.Sleep(2 * time.Millisecond)
		}
	}
}

func TestGoOfflineAbortsActivation(t *testing.T) {
	env := newPresenceEnv()
	ctx := context.Background()

	driver := env.seedDriver(t, false)

	done := make(chan error, 1)
	go func() {
		done <- env.svc.GoOnline(ctx, driver.ID)
	}()

	// Wait for the chain to register its intent, then abort it.
	require.Eventually(t, func() bool {
		return env.svc.intentStill(driver.ID, intentPending)
	}, time.Second, time.Millisecond)
	require.NoError(t, env.svc.GoOffline(ctx, driver.ID))

	// A report arriving now belongs to no session and is dropped.
	require.NoError(t, env.svc.ReportLocation(ctx, driver.ID, 6.5244, 3.3792))

	err := <-done
	assert.Error(t, err)

	stored, getErr := env.driverRepo.GetByID(ctx, driver.ID)
	require.NoError(t, getErr)
	assert.Equal(t, models.OnlineStatusOffline, stored.OnlineStatus)
	assert.False(t, env.store.hasLease(leaseKey(driver.ID)))
}

func TestGoOfflineIdempotent(t *testing.T) {
	env := newPresenceEnv()
	ctx := context.Background()

	driver := env.seedDriver(t, true)

	require.NoError(t, env.svc.GoOffline(ctx, driver.ID))
	require.NoError(t, env.svc.GoOffline(ctx, driver.ID))
}

func TestGoOnlineLeaseHeldElsewhere(t *testing.T) {
	env := newPresenceEnv()
	ctx := context.Background()

	driver := env.seedDriver(t, true)

	// Another instance already holds this driver's presence lease.
	claimed, err := env.store.SetNX(ctx, leaseKey(driver.ID), time.Now().Unix(), time.Minute)
	require.NoError(t, err)
	require.True(t, claimed)

	err = env.svc.GoOnline(ctx, driver.ID)
	assert.True(t, utils.IsKind(err, utils.ErrorKindConflict))

	stored, getErr := env.driverRepo.GetByID(ctx, driver.ID)
	require.NoError(t, getErr)
	assert.Equal(t, models.OnlineStatusOffline, stored.OnlineStatus)
}

func TestReportLocationWhileOnline(t *testing.T) {
	env := newPresenceEnv()
	defer env.svc.Shutdown()
	ctx := context.Background()

	driver := env.seedDriver(t, true)
	require.NoError(t, env.svc.GoOnline(ctx, driver.ID))

	require.NoError(t, env.svc.ReportLocation(ctx, driver.ID, 6.4281, 3.4219))

	stored, err := env.driverRepo.GetByID(ctx, driver.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CurrentLocation)
	assert.InDelta(t, 6.4281, stored.CurrentLocation.Latitude(), 0.0001)
	assert.InDelta(t, 3.4219, stored.CurrentLocation.Longitude(), 0.0001)
}

func TestReportLocationForOfflineDriverDropped(t *testing.T) {
	env := newPresenceEnv()
	ctx := context.Background()

	driver := env.seedDriver(t, false)

	require.NoError(t, env.svc.ReportLocation(ctx, driver.ID, 6.5244, 3.3792))

	// The stale callback must not have persisted anything.
	stored, err := env.driverRepo.GetByID(ctx, driver.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.CurrentLocation)
	assert.Equal(t, models.OnlineStatusOffline, stored.OnlineStatus)
}

func TestIsEligible(t *testing.T) {
	env := newPresenceEnv()
	defer env.svc.Shutdown()
	ctx := context.Background()

	driver := env.seedDriver(t, true)
	require.NoError(t, env.svc.GoOnline(ctx, driver.ID))

	eligible, reason, err := env.svc.IsEligible(ctx, driver.ID)
	require.NoError(t, err)
	assert.True(t, eligible)
	assert.Empty(t, reason)

	// An active booking blocks further assignments.
	booking := &models.Booking{
		ClientID: primitive.NewObjectID(),
		DriverID: driver.ID,
		Status:   models.BookingStatusOngoing,
	}
	require.NoError(t, env.bookingRepo.Create(ctx, booking))

	eligible, reason, err = env.svc.IsEligible(ctx, driver.ID)
	require.NoError(t, err)
	assert.False(t, eligible)
	assert.Equal(t, "driver has an active booking", reason)
}

func TestIsEligibleStaleLocationBlocksWithoutFlippingOffline(t *testing.T) {
	env := newPresenceEnv()
	defer env.svc.Shutdown()
	ctx := context.Background()

	driver := env.seedDriver(t, true)
	require.NoError(t, env.svc.GoOnline(ctx, driver.ID))

	location := models.NewPoint(6.5244, 3.3792)
	require.NoError(t, env.driverRepo.UpdateLocation(ctx, driver.ID, &location, time.Now().Add(-10*time.Minute)))

	eligible, reason, err := env.svc.IsEligible(ctx, driver.ID)
	require.NoError(t, err)
	assert.False(t, eligible)
	assert.Equal(t, "driver location is stale", reason)

	// Staleness gates eligibility only; the driver stays online until an
	// explicit GoOffline or lease expiry.
	stored, err := env.driverRepo.GetByID(ctx, driver.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OnlineStatusOnline, stored.OnlineStatus)
}
