package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"drivehire/internal/models"
	"drivehire/internal/utils"
	"drivehire/pkg/identity"
	"drivehire/pkg/maps"
	"drivehire/pkg/payment"
	"drivehire/pkg/push"
	"drivehire/pkg/realtime"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They reproduce the conditional-update
// semantics the Mongo implementations rely on, under a single mutex.

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[primitive.ObjectID]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[primitive.ObjectID]*models.Booking)}
}

func (r *fakeBookingRepo) Create(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking.ID = primitive.NewObjectID()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	copy := *booking
	r.bookings[booking.ID] = &copy
	return nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, utils.NewNotFoundError("booking")
	}
	copy := *booking
	return &copy, nil
}

func (r *fakeBookingRepo) GetByBookingNumber(_ context.Context, number string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, booking := range r.bookings {
		if booking.BookingNumber == number {
			copy := *booking
			return &copy, nil
		}
	}
	return nil, utils.NewNotFoundError("booking")
}

func (r *fakeBookingRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return utils.NewNotFoundError("booking")
	}
	applyBookingUpdates(booking, updates)
	return nil
}

func (r *fakeBookingRepo) TransitionStatus(_ context.Context, id primitive.ObjectID, from []models.BookingStatus, to models.BookingStatus, extra map[string]interface{}) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return false, nil
	}
	matched := false
	for _, status := range from {
		if booking.Status == status {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}
	booking.Status = to
	applyBookingUpdates(booking, extra)
	return true, nil
}

func (r *fakeBookingRepo) SetConfirmation(_ context.Context, id primitive.ObjectID, role models.Role) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, utils.NewNotFoundError("booking")
	}
	switch role {
	case models.RoleDriver:
		booking.DriverConfirmed = true
	case models.RoleClient:
		booking.ClientConfirmed = true
	default:
		return nil, fmt.Errorf("role %s cannot confirm completion", role)
	}
	copy := *booking
	return &copy, nil
}

func (r *fakeBookingRepo) IncrementCompletionDeclines(_ context.Context, id primitive.ObjectID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return 0, utils.NewNotFoundError("booking")
	}
	booking.CompletionDeclines++
	return booking.CompletionDeclines, nil
}

func (r *fakeBookingRepo) HasActiveBooking(_ context.Context, driverID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, booking := range r.bookings {
		if booking.DriverID == driverID && booking.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) GetByClient(_ context.Context, clientID primitive.ObjectID, _ *utils.PaginationParams) ([]*models.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Booking
	for _, booking := range r.bookings {
		if booking.ClientID == clientID {
			copy := *booking
			out = append(out, &copy)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) GetByDriver(_ context.Context, driverID primitive.ObjectID, _ *utils.PaginationParams) ([]*models.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Booking
	for _, booking := range r.bookings {
		if booking.DriverID == driverID {
			copy := *booking
			out = append(out, &copy)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) GetByStatus(_ context.Context, status models.BookingStatus, _ *utils.PaginationParams) ([]*models.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Booking
	for _, booking := range r.bookings {
		if booking.Status == status {
			copy := *booking
			out = append(out, &copy)
		}
	}
	return out, int64(len(out)), nil
}

func applyBookingUpdates(booking *models.Booking, updates map[string]interface{}) {
	for key, value := range updates {
		switch key {
		case "driver_confirmed":
			booking.DriverConfirmed = value.(bool)
		case "client_confirmed":
			booking.ClientConfirmed = value.(bool)
		case "payment_status":
			booking.PaymentStatus = value.(models.PaymentStatus)
		case "archived":
			booking.Archived = value.(bool)
		case "cancelled_by":
			booking.CancelledBy = value.(string)
		case "cancellation_reason":
			booking.CancellationReason = value.(string)
		case "accepted_at":
			t := value.(time.Time)
			booking.AcceptedAt = &t
		case "started_at":
			t := value.(time.Time)
			booking.StartedAt = &t
		case "completed_at":
			t := value.(time.Time)
			booking.CompletedAt = &t
		case "cancelled_at":
			t := value.(time.Time)
			booking.CancelledAt = &t
		}
	}
	booking.UpdatedAt = time.Now()
}

type fakeDriverRepo struct {
	mu      sync.Mutex
	drivers map[primitive.ObjectID]*models.Driver
}

func newFakeDriverRepo() *fakeDriverRepo {
	return &fakeDriverRepo{drivers: make(map[primitive.ObjectID]*models.Driver)}
}

func (r *fakeDriverRepo) put(driver *models.Driver) *models.Driver {
	r.mu.Lock()
	defer r.mu.Unlock()
	if driver.ID.IsZero() {
		driver.ID = primitive.NewObjectID()
	}
	copy := *driver
	r.drivers[driver.ID] = &copy
	return driver
}

func (r *fakeDriverRepo) Create(_ context.Context, driver *models.Driver) error {
	r.put(driver)
	return nil
}

func (r *fakeDriverRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	driver, ok := r.drivers[id]
	if !ok {
		return nil, utils.NewNotFoundError("driver")
	}
	copy := *driver
	return &copy, nil
}

func (r *fakeDriverRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*models.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, driver := range r.drivers {
		if driver.UserID == userID {
			copy := *driver
			return &copy, nil
		}
	}
	return nil, utils.NewNotFoundError("driver")
}

func (r *fakeDriverRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	driver, ok := r.drivers[id]
	if !ok {
		return utils.NewNotFoundError("driver")
	}
	for key, value := range updates {
		switch key {
		case "total_trips":
			driver.TotalTrips = value.(int64)
		case "total_earnings":
			driver.TotalEarnings = value.(float64)
		case "verified":
			driver.Verified = value.(bool)
		case "hourly_rate":
			driver.HourlyRate = value.(float64)
		}
	}
	return nil
}

func (r *fakeDriverRepo) SetOnlineStatus(_ context.Context, id primitive.ObjectID, from []models.OnlineStatus, to models.OnlineStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	driver, ok := r.drivers[id]
	if !ok {
		return false, utils.NewNotFoundError("driver")
	}
	for _, status := range from {
		if driver.OnlineStatus == status {
			driver.OnlineStatus = to
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeDriverRepo) UpdateLocation(_ context.Context, id primitive.ObjectID, location *models.Location, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	driver, ok := r.drivers[id]
	if !ok {
		return utils.NewNotFoundError("driver")
	}
	driver.CurrentLocation = location
	driver.LastLocationUpdate = &at
	return nil
}

func (r *fakeDriverRepo) GetOnline(_ context.Context, _ *utils.PaginationParams) ([]*models.Driver, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Driver
	for _, driver := range r.drivers {
		if driver.OnlineStatus == models.OnlineStatusOnline {
			copy := *driver
			out = append(out, &copy)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeDriverRepo) GetNearby(_ context.Context, _ *models.Location, _ float64, _ int) ([]*models.Driver, error) {
	return nil, nil
}

type fakeClientRepo struct {
	mu      sync.Mutex
	clients map[primitive.ObjectID]*models.Client
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: make(map[primitive.ObjectID]*models.Client)}
}

func (r *fakeClientRepo) put(client *models.Client) *models.Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	if client.ID.IsZero() {
		client.ID = primitive.NewObjectID()
	}
	copy := *client
	r.clients[client.ID] = &copy
	return client
}

func (r *fakeClientRepo) Create(_ context.Context, client *models.Client) error {
	r.put(client)
	return nil
}

func (r *fakeClientRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	client, ok := r.clients[id]
	if !ok {
		return nil, utils.NewNotFoundError("client")
	}
	copy := *client
	return &copy, nil
}

func (r *fakeClientRepo) GetByEmail(_ context.Context, email string) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, client := range r.clients {
		if client.Email == email {
			copy := *client
			return &copy, nil
		}
	}
	return nil, utils.NewNotFoundError("client")
}

func (r *fakeClientRepo) Update(_ context.Context, id primitive.ObjectID, _ map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[id]; !ok {
		return utils.NewNotFoundError("client")
	}
	return nil
}

type fakeSettlementRepo struct {
	mu          sync.Mutex
	settlements map[primitive.ObjectID]*models.Settlement
	byBooking   map[primitive.ObjectID]primitive.ObjectID
}

func newFakeSettlementRepo() *fakeSettlementRepo {
	return &fakeSettlementRepo{
		settlements: make(map[primitive.ObjectID]*models.Settlement),
		byBooking:   make(map[primitive.ObjectID]primitive.ObjectID),
	}
}

func (r *fakeSettlementRepo) CreateIfAbsent(_ context.Context, settlement *models.Settlement) (*models.Settlement, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existingID, ok := r.byBooking[settlement.BookingID]; ok {
		copy := *r.settlements[existingID]
		return &copy, false, nil
	}
	settlement.ID = primitive.NewObjectID()
	settlement.CreatedAt = time.Now()
	stored := *settlement
	r.settlements[settlement.ID] = &stored
	r.byBooking[settlement.BookingID] = settlement.ID
	copy := stored
	return &copy, true, nil
}

func (r *fakeSettlementRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Settlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	settlement, ok := r.settlements[id]
	if !ok {
		return nil, utils.NewNotFoundError("settlement")
	}
	copy := *settlement
	return &copy, nil
}

func (r *fakeSettlementRepo) GetByBookingID(_ context.Context, bookingID primitive.ObjectID) (*models.Settlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byBooking[bookingID]
	if !ok {
		return nil, utils.NewNotFoundError("settlement")
	}
	copy := *r.settlements[id]
	return &copy, nil
}

func (r *fakeSettlementRepo) MarkSettled(_ context.Context, id primitive.ObjectID, payoutReference string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	settlement, ok := r.settlements[id]
	if !ok || settlement.Settled {
		return false, nil
	}
	now := time.Now()
	settlement.Settled = true
	settlement.PayoutReference = payoutReference
	settlement.SettledAt = &now
	return true, nil
}

func (r *fakeSettlementRepo) RecordPayoutFailure(_ context.Context, id primitive.ObjectID, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	settlement, ok := r.settlements[id]
	if !ok {
		return utils.NewNotFoundError("settlement")
	}
	settlement.PayoutAttempts++
	settlement.LastPayoutError = reason
	return nil
}

func (r *fakeSettlementRepo) GetUnsettled(_ context.Context, limit int) ([]*models.Settlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Settlement
	for _, settlement := range r.settlements {
		if !settlement.Settled && len(out) < limit {
			copy := *settlement
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *fakeSettlementRepo) GetByDriver(_ context.Context, driverID primitive.ObjectID, _ *utils.PaginationParams) ([]*models.Settlement, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Settlement
	for _, settlement := range r.settlements {
		if settlement.DriverID == driverID {
			copy := *settlement
			out = append(out, &copy)
		}
	}
	return out, int64(len(out)), nil
}

type fakeVerificationRepo struct {
	mu       sync.Mutex
	records  map[primitive.ObjectID]*models.ClientVerification
	attempts []*models.VerificationAttempt
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{records: make(map[primitive.ObjectID]*models.ClientVerification)}
}

func (r *fakeVerificationRepo) GetByClientID(_ context.Context, clientID primitive.ObjectID) (*models.ClientVerification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[clientID]
	if !ok {
		return nil, utils.NewNotFoundError("verification record")
	}
	copy := *record
	return &copy, nil
}

func (r *fakeVerificationRepo) Create(_ context.Context, verification *models.ClientVerification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[verification.ClientID]; ok {
		return utils.NewConflictError("verification record already exists")
	}
	verification.ID = primitive.NewObjectID()
	copy := *verification
	r.records[verification.ClientID] = &copy
	return nil
}

func (r *fakeVerificationRepo) ConsumeAttempt(_ context.Context, clientID primitive.ObjectID, cap int) (*models.ClientVerification, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[clientID]
	if !ok || record.AttemptsCount >= cap ||
		(record.State != models.VerificationStateUnverified && record.State != models.VerificationStatePendingManual) {
		return nil, false, nil
	}
	now := time.Now()
	record.AttemptsCount++
	record.LastAttemptAt = &now
	copy := *record
	return &copy, true, nil
}

func (r *fakeVerificationRepo) SetState(_ context.Context, clientID primitive.ObjectID, state models.VerificationState, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[clientID]
	if !ok {
		return utils.NewNotFoundError("verification record")
	}
	record.State = state
	for key, value := range updates {
		switch key {
		case "last_confidence_score":
			record.LastConfidenceScore = value.(float64)
		case "review_notes":
			record.ReviewNotes = value.(string)
		case "reviewed_by":
			id := value.(primitive.ObjectID)
			record.ReviewedBy = &id
		case "reviewed_at":
			t := value.(time.Time)
			record.ReviewedAt = &t
		}
	}
	return nil
}

func (r *fakeVerificationRepo) ResetAttempts(_ context.Context, clientID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[clientID]
	if !ok {
		return utils.NewNotFoundError("verification record")
	}
	record.AttemptsCount = 0
	record.State = models.VerificationStateUnverified
	return nil
}

func (r *fakeVerificationRepo) CreateAttempt(_ context.Context, attempt *models.VerificationAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	attempt.ID = primitive.NewObjectID()
	attempt.CreatedAt = time.Now()
	copy := *attempt
	r.attempts = append(r.attempts, &copy)
	return nil
}

func (r *fakeVerificationRepo) GetAttemptsByClient(_ context.Context, clientID primitive.ObjectID, _ *utils.PaginationParams) ([]*models.VerificationAttempt, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.VerificationAttempt
	for _, attempt := range r.attempts {
		if attempt.ClientID == clientID {
			copy := *attempt
			out = append(out, &copy)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeVerificationRepo) GetPendingReview(_ context.Context, _ *utils.PaginationParams) ([]*models.ClientVerification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ClientVerification
	for _, record := range r.records {
		if record.State == models.VerificationStatePendingManual || record.State == models.VerificationStateLocked {
			copy := *record
			out = append(out, &copy)
		}
	}
	return out, int64(len(out)), nil
}

type fakeDisputeRepo struct {
	mu       sync.Mutex
	disputes map[primitive.ObjectID]*models.Dispute
}

func newFakeDisputeRepo() *fakeDisputeRepo {
	return &fakeDisputeRepo{disputes: make(map[primitive.ObjectID]*models.Dispute)}
}

func (r *fakeDisputeRepo) Create(_ context.Context, dispute *models.Dispute) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	dispute.ID = primitive.NewObjectID()
	dispute.CreatedAt = time.Now()
	if dispute.Status == "" {
		dispute.Status = models.DisputeStatusOpen
	}
	copy := *dispute
	r.disputes[dispute.ID] = &copy
	return nil
}

func (r *fakeDisputeRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Dispute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dispute, ok := r.disputes[id]
	if !ok {
		return nil, utils.NewNotFoundError("dispute")
	}
	copy := *dispute
	return &copy, nil
}

func (r *fakeDisputeRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	dispute, ok := r.disputes[id]
	if !ok {
		return utils.NewNotFoundError("dispute")
	}
	applyDisputeUpdates(dispute, updates)
	return nil
}

func (r *fakeDisputeRepo) TransitionStatus(_ context.Context, id primitive.ObjectID, from, to models.DisputeStatus, extra map[string]interface{}) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dispute, ok := r.disputes[id]
	if !ok || dispute.Status != from {
		return false, nil
	}
	dispute.Status = to
	applyDisputeUpdates(dispute, extra)
	return true, nil
}

func applyDisputeUpdates(dispute *models.Dispute, updates map[string]interface{}) {
	for key, value := range updates {
		switch key {
		case "resolution":
			dispute.Resolution = value.(string)
		case "admin_notes":
			dispute.AdminNotes = value.(string)
		case "assigned_to":
			id := value.(primitive.ObjectID)
			dispute.AssignedTo = &id
		case "resolved_at":
			t := value.(time.Time)
			dispute.ResolvedAt = &t
		}
	}
}

func (r *fakeDisputeRepo) GetByBooking(_ context.Context, bookingID primitive.ObjectID) ([]*models.Dispute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Dispute
	for _, dispute := range r.disputes {
		if dispute.BookingID == bookingID {
			copy := *dispute
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *fakeDisputeRepo) GetByStatus(_ context.Context, status models.DisputeStatus, _ *utils.PaginationParams) ([]*models.Dispute, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Dispute
	for _, dispute := range r.disputes {
		if dispute.Status == status {
			copy := *dispute
			out = append(out, &copy)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeDisputeRepo) GetOpenHighPriority(_ context.Context, _ *utils.PaginationParams) ([]*models.Dispute, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Dispute
	for _, dispute := range r.disputes {
		if dispute.Priority == models.DisputePriorityHigh &&
			(dispute.Status == models.DisputeStatusOpen || dispute.Status == models.DisputeStatusInvestigating) {
			copy := *dispute
			out = append(out, &copy)
		}
	}
	return out, int64(len(out)), nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*models.AuditLog
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{}
}

func (r *fakeAuditRepo) Create(_ context.Context, entry *models.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = primitive.NewObjectID()
	copy := *entry
	r.entries = append(r.entries, &copy)
	return nil
}

func (r *fakeAuditRepo) GetByResource(_ context.Context, resourceType string, resourceID primitive.ObjectID, _ *utils.PaginationParams) ([]*models.AuditLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.AuditLog
	for _, entry := range r.entries {
		if entry.Resource == resourceType && entry.ResourceID == resourceID.Hex() {
			copy := *entry
			out = append(out, &copy)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeAuditRepo) GetByActor(_ context.Context, actorID primitive.ObjectID, _ *utils.PaginationParams) ([]*models.AuditLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.AuditLog
	for _, entry := range r.entries {
		if entry.AdminID == actorID {
			copy := *entry
			out = append(out, &copy)
		}
	}
	return out, int64(len(out)), nil
}

type fakeSettingsRepo struct {
	mu       sync.Mutex
	versions []*models.PlatformSettings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{}
}

func (r *fakeSettingsRepo) Current(_ context.Context) (*models.PlatformSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.versions) == 0 {
		return nil, utils.NewNotFoundError("platform settings")
	}
	copy := *r.versions[len(r.versions)-1]
	return &copy, nil
}

func (r *fakeSettingsRepo) GetByVersion(_ context.Context, version int) (*models.PlatformSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, settings := range r.versions {
		if settings.Version == version {
			copy := *settings
			return &copy, nil
		}
	}
	return nil, utils.NewNotFoundError("platform settings version")
}

func (r *fakeSettingsRepo) Create(_ context.Context, settings *models.PlatformSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.versions {
		if existing.Version == settings.Version {
			return utils.NewConflictError("platform settings version already exists")
		}
	}
	settings.ID = primitive.NewObjectID()
	copy := *settings
	r.versions = append(r.versions, &copy)
	return nil
}

// Provider fakes

type fakePayment struct {
	mu            sync.Mutex
	authorizes    int
	captures      int
	releases      int
	refunds       int
	payouts       int
	failAuthorize bool
	failPayout    bool
}

func (p *fakePayment) Authorize(_ context.Context, request *payment.AuthorizeRequest) (*payment.AuthorizeResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failAuthorize {
		return nil, fmt.Errorf("card declined")
	}
	p.authorizes++
	return &payment.AuthorizeResponse{
		HoldRef:  fmt.Sprintf("hold_%d", p.authorizes),
		Status:   "requires_capture",
		Amount:   request.Amount,
		Currency: request.Currency,
	}, nil
}

func (p *fakePayment) Capture(_ context.Context, holdRef string, amount float64) (*payment.CaptureResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.captures++
	return &payment.CaptureResponse{TransactionID: "txn_" + holdRef, Status: "succeeded", Amount: amount}, nil
}

func (p *fakePayment) ReleaseHold(_ context.Context, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releases++
	return nil
}

func (p *fakePayment) Refund(_ context.Context, request *payment.RefundRequest) (*payment.RefundResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refunds++
	return &payment.RefundResponse{RefundID: "rf_1", Status: "succeeded", Amount: request.Amount}, nil
}

func (p *fakePayment) Payout(_ context.Context, request *payment.PayoutRequest) (*payment.PayoutResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failPayout {
		return nil, fmt.Errorf("payout channel unavailable")
	}
	p.payouts++
	return &payment.PayoutResponse{
		PayoutRef: fmt.Sprintf("po_%d", p.payouts),
		Status:    "processed",
		Amount:    request.Amount,
	}, nil
}

func (p *fakePayment) counts() (authorizes, captures, releases, refunds, payouts int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.authorizes, p.captures, p.releases, p.refunds, p.payouts
}

type fakeIdentity struct {
	mu        sync.Mutex
	responses []float64
	err       error
	calls     int
}

func (p *fakeIdentity) Verify(_ context.Context, _ *identity.VerifyRequest) (*identity.VerifyResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	confidence := 0.0
	if len(p.responses) > 0 {
		confidence = p.responses[0]
		p.responses = p.responses[1:]
	}
	return &identity.VerifyResponse{
		Confidence:  confidence,
		ReferenceID: fmt.Sprintf("ref_%d", p.calls),
	}, nil
}

type fakeRoute struct {
	distanceKM    float64
	durationHours float64
	err           error
}

func (p *fakeRoute) EstimateRoute(_ context.Context, _ *maps.RouteRequest) (*maps.RouteEstimate, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &maps.RouteEstimate{DistanceKM: p.distanceKM, DurationHours: p.durationHours}, nil
}

type fakePush struct {
	mu   sync.Mutex
	sent []*push.NotificationRequest
}

func (p *fakePush) SendNotification(_ context.Context, request *push.NotificationRequest) (*push.NotificationResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, request)
	return &push.NotificationResponse{MessageID: "m1", Success: true}, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (p *fakePublisher) Publish(event realtime.Event, _ ...primitive.ObjectID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

type fakePresenceStore struct {
	mu   sync.Mutex
	keys map[string]time.Time
	geo  map[string]bool
}

func newFakePresenceStore() *fakePresenceStore {
	return &fakePresenceStore{keys: make(map[string]time.Time), geo: make(map[string]bool)}
}

func (s *fakePresenceStore) SetNX(_ context.Context, key string, _ interface{}, expiration time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if expiry, ok := s.keys[key]; ok && time.Now().Before(expiry) {
		return false, nil
	}
	s.keys[key] = time.Now().Add(expiration)
	return true, nil
}

func (s *fakePresenceStore) SetExpire(_ context.Context, key string, expiration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[key]; ok {
		s.keys[key] = time.Now().Add(expiration)
	}
	return nil
}

func (s *fakePresenceStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.keys, key)
	}
	return nil
}

func (s *fakePresenceStore) GeoAdd(_ context.Context, _ string, geoLocation *redis.GeoLocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.geo[geoLocation.Name] = true
	return nil
}

func (s *fakePresenceStore) GeoRemove(_ context.Context, _ string, member string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.geo, member)
	return nil
}

func (s *fakePresenceStore) hasLease(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.keys[key]
	return ok && time.Now().Before(expiry)
}
