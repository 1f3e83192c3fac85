package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"drivehire/internal/models"
	"drivehire/internal/repositories/interfaces"
	"drivehire/internal/utils"
	"drivehire/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const driverGeoKey = "drivers:geo"

// PresenceStore is the slice of the Redis cache presence needs. The lease
// key makes a driver's online claim visible across instances and expires
// on its own if the process dies.
type PresenceStore interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	SetExpire(ctx context.Context, key string, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	GeoAdd(ctx context.Context, key string, geoLocation *redis.GeoLocation) error
	GeoRemove(ctx context.Context, key string, member string) error
}

// PresenceService tracks driver availability. Going online is a chain:
// wait for a location fix, claim the presence lease, then flip the status.
// A GoOffline arriving mid-chain aborts it, and location reports arriving
// after the driver went offline are dropped.
type PresenceService interface {
	GoOnline(ctx context.Context, driverID primitive.ObjectID) error
	GoOffline(ctx context.Context, driverID primitive.ObjectID) error
	ReportLocation(ctx context.Context, driverID primitive.ObjectID, latitude, longitude float64) error
	IsEligible(ctx context.Context, driverID primitive.ObjectID) (bool, string, error)
	Shutdown()
}

type intentState int

const (
	intentIdle intentState = iota
	intentPending
	intentCommitted
)

type driverIntent struct {
	state       intentState
	locationCh  chan models.Location
	stopRefresh chan struct{}
}

type presenceService struct {
	driverRepo      interfaces.DriverRepository
	bookingRepo     interfaces.BookingRepository
	store           PresenceStore
	logger          *logger.Logger
	stalenessWindow time.Duration
	acquireTimeout  time.Duration
	refreshInterval time.Duration
	leaseTTL        time.Duration

	mu      sync.Mutex
	intents map[primitive.ObjectID]*driverIntent
	wg      sync.WaitGroup
}

func NewPresenceService(
	driverRepo interfaces.DriverRepository,
	bookingRepo interfaces.BookingRepository,
	store PresenceStore,
	logger *logger.Logger,
) PresenceService {
	return &presenceService{
		driverRepo:      driverRepo,
		bookingRepo:     bookingRepo,
		store:           store,
		logger:          logger,
		stalenessWindow: utils.LocationStalenessWindow,
		acquireTimeout:  utils.LocationAcquireTimeout,
		refreshInterval: utils.LocationRefreshInterval,
		leaseTTL:        utils.PresenceLeaseTTL,
		intents:         make(map[primitive.ObjectID]*driverIntent),
	}
}

func leaseKey(driverID primitive.ObjectID) string {
	return "presence:lease:" + driverID.Hex()
}

func (s *presenceService) GoOnline(ctx context.Context, driverID primitive.ObjectID) error {
	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return err
	}
	if !driver.Verified {
		return utils.NewValidationError("driver is not verified")
	}

	s.mu.Lock()
	intent := s.intents[driverID]
	if intent != nil {
		switch intent.state {
		case intentCommitted:
			s.mu.Unlock()
			return nil // already online
		case intentPending:
			s.mu.Unlock()
			return utils.NewConflictError("driver is already going online")
		}
	}
	intent = &driverIntent{
		state:      intentPending,
		locationCh: make(chan models.Location, 1),
	}
	s.intents[driverID] = intent
	locationCh := intent.locationCh
	s.mu.Unlock()

	location, err := s.acquireLocation(ctx, driver, locationCh)
	if err != nil {
		s.resetIntent(driverID)
		return err
	}

	// The chain is abortable: a GoOffline while we waited flips the
	// intent back to idle and this activation must not complete.
	if !s.intentStill(driverID, intentPending) {
		return utils.NewConflictError("driver went offline during activation")
	}

	acquired, err := s.store.SetNX(ctx, leaseKey(driverID), time.Now().Unix(), s.leaseTTL)
	if err != nil {
		s.resetIntent(driverID)
		return utils.NewExternalError("presence store unavailable", err)
	}
	if !acquired {
		s.resetIntent(driverID)
		return utils.NewConflictError("driver presence is claimed by another session")
	}

	now := time.Now()
	if err := s.driverRepo.UpdateLocation(ctx, driverID, &location, now); err != nil {
		s.releaseLease(ctx, driverID)
		s.resetIntent(driverID)
		return err
	}

	flipped, err := s.driverRepo.SetOnlineStatus(ctx, driverID,
		[]models.OnlineStatus{models.OnlineStatusOffline}, models.OnlineStatusOnline)
	if err != nil {
		s.releaseLease(ctx, driverID)
		s.resetIntent(driverID)
		return err
	}
	if !flipped {
		// Already online in the database; adopt the session.
		s.logger.WithDriverID(driverID).Debug("Driver already online, adopting presence session")
	}

	s.addToGeoIndex(ctx, driverID, location)

	stop := make(chan struct{})
	s.mu.Lock()
	if s.intents[driverID] != intent || intent.state != intentPending {
		s.mu.Unlock()
		s.releaseLease(ctx, driverID)
		return utils.NewConflictError("driver went offline during activation")
	}
	intent.state = intentCommitted
	intent.stopRefresh = stop
	s.mu.Unlock()

	s.wg.Add(1)
	go s.refreshLoop(driverID, stop)

	s.logger.WithDriverID(driverID).Info("Driver online")
	return nil
}

// GoOffline is idempotent. It aborts any in-flight activation, stops the
// lease refresh, and clears the presence footprint.
func (s *presenceService) GoOffline(ctx context.Context, driverID primitive.ObjectID) error {
	s.mu.Lock()
	intent := s.intents[driverID]
	var stop chan struct{}
	if intent != nil {
		stop = intent.stopRefresh
		delete(s.intents, driverID)
	}
	s.mu.Unlock()

	if stop != nil {
		close(stop)
	}

	s.releaseLease(ctx, driverID)
	if err := s.store.GeoRemove(ctx, driverGeoKey, driverID.Hex()); err != nil {
		s.logger.WithError(err).WithDriverID(driverID).Warn("Failed to remove driver from geo index")
	}

	if _, err := s.driverRepo.SetOnlineStatus(ctx, driverID,
		[]models.OnlineStatus{models.OnlineStatusOnline}, models.OnlineStatusOffline); err != nil {
		return err
	}

	s.logger.WithDriverID(driverID).Info("Driver offline")
	return nil
}

// ReportLocation feeds the activation chain while it waits for a fix, and
// keeps the stored position current once the driver is committed online.
// Reports for offline drivers are dropped; a stale callback must never
// resurrect presence.
func (s *presenceService) ReportLocation(ctx context.Context, driverID primitive.ObjectID, latitude, longitude float64) error {
	location := models.NewPoint(latitude, longitude)

	s.mu.Lock()
	intent := s.intents[driverID]
	var state intentState
	var locationCh chan models.Location
	if intent != nil {
		state = intent.state
		locationCh = intent.locationCh
	}
	s.mu.Unlock()

	switch state {
	case intentPending:
		select {
		case locationCh <- location:
		default:
		}
		return nil
	case intentCommitted:
		now := time.Now()
		if err := s.driverRepo.UpdateLocation(ctx, driverID, &location, now); err != nil {
			return err
		}
		s.addToGeoIndex(ctx, driverID, location)
		if err := s.store.SetExpire(ctx, leaseKey(driverID), s.leaseTTL); err != nil {
			s.logger.WithError(err).WithDriverID(driverID).Warn("Failed to refresh presence lease")
		}
		return nil
	default:
		s.logger.WithDriverID(driverID).Debug("Dropping location report for offline driver")
		return nil
	}
}

func (s *presenceService) IsEligible(ctx context.Context, driverID primitive.ObjectID) (bool, string, error) {
	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return false, "", err
	}

	if !driver.Verified {
		return false, "driver is not verified", nil
	}
	if driver.OnlineStatus != models.OnlineStatusOnline {
		return false, "driver is offline", nil
	}
	if !driver.HasFreshLocation(s.stalenessWindow, time.Now()) {
		// Staleness blocks eligibility but never flips the driver
		// offline; only an explicit GoOffline or lease expiry does.
		return false, "driver location is stale", nil
	}

	hasActive, err := s.bookingRepo.HasActiveBooking(ctx, driverID)
	if err != nil {
		return false, "", err
	}
	if hasActive {
		return false, "driver has an active booking", nil
	}

	return true, "", nil
}

// Shutdown stops every refresh loop and waits for them to exit.
func (s *presenceService) Shutdown() {
	s.mu.Lock()
	for id, intent := range s.intents {
		if intent.stopRefresh != nil {
			close(intent.stopRefresh)
		}
		delete(s.intents, id)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *presenceService) acquireLocation(ctx context.Context, driver *models.Driver, locationCh chan models.Location) (models.Location, error) {
	// A fresh persisted location satisfies the fix requirement without
	// waiting for a new report.
	if driver.HasFreshLocation(s.stalenessWindow, time.Now()) {
		return *driver.CurrentLocation, nil
	}

	timer := time.NewTimer(s.acquireTimeout)
	defer timer.Stop()

	select {
	case location := <-locationCh:
		return location, nil
	case <-timer.C:
		return models.Location{}, utils.NewValidationError("no location fix within %s", s.acquireTimeout)
	case <-ctx.Done():
		return models.Location{}, ctx.Err()
	}
}

func (s *presenceService) refreshLoop(driverID primitive.ObjectID, stop chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := s.store.SetExpire(ctx, leaseKey(driverID), s.leaseTTL)
			cancel()
			if err != nil {
				s.logger.WithError(err).WithDriverID(driverID).Warn("Presence lease refresh failed")
			}
		case <-stop:
			return
		}
	}
}

func (s *presenceService) intentStill(driverID primitive.ObjectID, state intentState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	intent := s.intents[driverID]
	return intent != nil && intent.state == state
}

func (s *presenceService) resetIntent(driverID primitive.ObjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.intents, driverID)
}

func (s *presenceService) releaseLease(ctx context.Context, driverID primitive.ObjectID) {
	if err := s.store.Delete(ctx, leaseKey(driverID)); err != nil {
		s.logger.WithError(err).WithDriverID(driverID).Warn("Failed to release presence lease")
	}
}

func (s *presenceService) addToGeoIndex(ctx context.Context, driverID primitive.ObjectID, location models.Location) {
	err := s.store.GeoAdd(ctx, driverGeoKey, &redis.GeoLocation{
		Name:      driverID.Hex(),
		Longitude: location.Longitude(),
		Latitude:  location.Latitude(),
	})
	if err != nil {
		s.logger.WithError(err).WithDriverID(driverID).Warn(fmt.Sprintf("Failed to index driver position in %s", driverGeoKey))
	}
}
