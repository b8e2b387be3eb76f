package reservations

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"antesala/internal/catalog"
	"antesala/internal/pricing"
	"antesala/internal/storage"
	"antesala/pkg/logger"
)

// SyncState tells callers whether the durable copy is known to match memory
type SyncState struct {
	Stale        bool       `json:"stale"`
	LastError    string     `json:"last_error,omitempty"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
}

// Manager owns the reservation list. Every mutation persists the whole list.
type Manager struct {
	mu        sync.Mutex
	list      []Reservation
	gateway   Gateway
	engine    *pricing.Engine
	validator *Validator

	now          func() time.Time
	newID        func() (string, error)
	startupDelay time.Duration
	log          *logger.Logger
	listeners    []func()

	sync SyncState
}

// Option configures a Manager
type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithIDGenerator(newID func() (string, error)) Option {
	return func(m *Manager) { m.newID = newID }
}

// WithStartupDelay gives a remote backend time to settle before the first load
func WithStartupDelay(d time.Duration) Option {
	return func(m *Manager) { m.startupDelay = d }
}

func WithLogger(log *logger.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// OnChange registers a callback run after every change to the list
func OnChange(fn func()) Option {
	return func(m *Manager) { m.listeners = append(m.listeners, fn) }
}

func NewManager(gateway Gateway, engine *pricing.Engine, opts ...Option) *Manager {
	m := &Manager{
		gateway:   gateway,
		engine:    engine,
		validator: NewValidator(engine.Catalog()),
		now:       time.Now,
		newID:     newReservationID,
		log:       logger.GetDefault(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// newReservationID returns a time-ordered uuid
func newReservationID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate reservation id: %w", err)
	}
	return id.String(), nil
}

// Catalog returns the catalog used for pricing and validation
func (m *Manager) Catalog() *catalog.Catalog {
	return m.engine.Catalog()
}

// Policy returns the pricing policy
func (m *Manager) Policy() pricing.Policy {
	return m.engine.Policy()
}

// Validator returns the draft validator
func (m *Manager) Validator() *Validator {
	return m.validator
}

// Load replaces the list with the gateway's contents. A stale load still
// installs whatever the local fallback returned.
func (m *Manager) Load(ctx context.Context) error {
	if m.startupDelay > 0 {
		timer := time.NewTimer(m.startupDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	items, err := m.gateway.LoadAll(ctx)
	if err != nil && !errors.Is(err, storage.ErrSyncStale) {
		m.mu.Lock()
		m.recordSync(err)
		m.mu.Unlock()
		return fmt.Errorf("failed to load reservations: %w", err)
	}

	m.mu.Lock()
	m.list = cloneAll(items)
	m.recordSync(err)
	m.mu.Unlock()

	if err != nil {
		m.log.WithError(err).Warn("reservations loaded from local fallback", "count", len(items))
	} else {
		m.log.Info("reservations loaded", "count", len(items))
	}
	m.notify()
	return nil
}

// Validate checks a draft without touching the list
func (m *Manager) Validate(d Draft) ValidationResult {
	return m.validator.Validate(d)
}

// Quote prices a draft without validating it
func (m *Manager) Quote(d Draft) pricing.Breakdown {
	return m.engine.Calculate(d.PricingRequest(m.engine.Catalog(), m.engine.Policy()))
}

// Save validates, prices and appends a draft. A draft carrying ReplacesID
// swaps out that reservation in the same persist.
func (m *Manager) Save(ctx context.Context, d Draft) (Reservation, error) {
	result := m.validator.Validate(d)
	if !result.OK {
		return Reservation{}, &ValidationError{Result: result}
	}

	id, err := m.newID()
	if err != nil {
		return Reservation{}, err
	}

	policy := m.engine.Policy()
	r := buildReservation(d, m.Quote(d), policy)
	r.ID = id
	r.CreatedAt = m.now().UTC()

	m.mu.Lock()
	if d.ReplacesID != "" {
		if i := m.indexLocked(d.ReplacesID); i >= 0 {
			m.list = append(m.list[:i], m.list[i+1:]...)
			m.log.LogReservationRemoved(ctx, d.ReplacesID, "replaced")
		}
	}
	m.list = append(m.list, r)
	m.persistLocked(ctx)
	m.mu.Unlock()

	m.log.LogReservationSaved(ctx, r.ID, r.EventDate, r.Pricing.TotalCost.StringFixed(2))
	m.notify()
	return r.clone(), nil
}

// List returns a copy of the list in the requested order
func (m *Manager) List(order SortOrder) []Reservation {
	m.mu.Lock()
	out := cloneAll(m.list)
	m.mu.Unlock()

	switch order {
	case SortByEventDate:
		sort.SliceStable(out, func(i, j int) bool { return out[i].EventDate < out[j].EventDate })
	case SortByCreatedDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out
}

func (m *Manager) Get(id string) (Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(id)
	if i < 0 {
		return Reservation{}, ErrNotFound
	}
	return m.list[i].clone(), nil
}

// Index returns the 0-based list position of a reservation, or -1
func (m *Manager) Index(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexLocked(id)
}

// Recent returns the n most recently created reservations
func (m *Manager) Recent(n int) []Reservation {
	return limit(m.List(SortByCreatedDesc), n)
}

// Upcoming returns the next n reservations on or after today
func (m *Manager) Upcoming(today time.Time, n int) []Reservation {
	return limit(FilterUpcoming(m.List(SortByEventDate), today), n)
}

// FilterUpcoming keeps reservations whose event date is today or later
func FilterUpcoming(list []Reservation, today time.Time) []Reservation {
	cutoff := today.Format(DateLayout)
	out := make([]Reservation, 0, len(list))
	for _, r := range list {
		if r.EventDate >= cutoff {
			out = append(out, r)
		}
	}
	return out
}

func limit(list []Reservation, n int) []Reservation {
	if n >= 0 && len(list) > n {
		return list[:n]
	}
	return list
}

// Edit removes the reservation and returns it as a draft. The removal is
// persisted immediately, so abandoning the draft loses the reservation.
func (m *Manager) Edit(ctx context.Context, id string) (Draft, error) {
	m.mu.Lock()
	i := m.indexLocked(id)
	if i < 0 {
		m.mu.Unlock()
		return Draft{}, ErrNotFound
	}
	r := m.list[i]
	m.list = append(m.list[:i], m.list[i+1:]...)
	m.persistLocked(ctx)
	m.mu.Unlock()

	m.log.LogReservationRemoved(ctx, id, "edit")
	m.notify()
	return DraftFromReservation(r), nil
}

// BeginEdit returns the reservation as a draft and leaves it stored until
// the draft is saved.
func (m *Manager) BeginEdit(id string) (Draft, error) {
	r, err := m.Get(id)
	if err != nil {
		return Draft{}, err
	}
	d := DraftFromReservation(r)
	d.ReplacesID = id
	return d, nil
}

// Delete removes a reservation. Deleting an unknown id is not an error.
func (m *Manager) Delete(ctx context.Context, id string) {
	m.mu.Lock()
	i := m.indexLocked(id)
	if i < 0 {
		m.mu.Unlock()
		return
	}
	m.list = append(m.list[:i], m.list[i+1:]...)
	m.persistLocked(ctx)
	m.mu.Unlock()

	m.log.LogReservationRemoved(ctx, id, "delete")
	m.notify()
}

// ToggleDeposit flips the deposit state. An unknown id changes nothing.
func (m *Manager) ToggleDeposit(ctx context.Context, id string) (Reservation, error) {
	m.mu.Lock()
	i := m.indexLocked(id)
	if i < 0 {
		m.mu.Unlock()
		return Reservation{}, ErrNotFound
	}
	m.list[i].DepositPaid = !m.list[i].DepositPaid
	r := m.list[i].clone()
	m.persistLocked(ctx)
	m.mu.Unlock()

	m.log.LogDepositToggled(ctx, id, r.DepositPaid)
	m.notify()
	return r, nil
}

// Replace installs a list pushed by another writer. Nothing is persisted.
func (m *Manager) Replace(list []Reservation) {
	m.mu.Lock()
	m.list = cloneAll(list)
	now := m.now().UTC()
	m.sync = SyncState{LastSyncedAt: &now}
	m.mu.Unlock()
	m.notify()
}

// StartSync subscribes to remote changes. The returned func stops the subscription.
func (m *Manager) StartSync(ctx context.Context, sub Subscriber) (func(), error) {
	unsubscribe, err := sub.Subscribe(ctx, m.Replace)
	if err != nil {
		return nil, fmt.Errorf("failed to start reservation sync: %w", err)
	}
	return unsubscribe, nil
}

// SyncState reports the outcome of the last persistence attempt
func (m *Manager) SyncState() SyncState {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.sync
	if s.LastSyncedAt != nil {
		t := *s.LastSyncedAt
		s.LastSyncedAt = &t
	}
	return s
}

func (m *Manager) indexLocked(id string) int {
	for i := range m.list {
		if m.list[i].ID == id {
			return i
		}
	}
	return -1
}

// persistLocked mirrors the list. Failures are recorded, never returned.
func (m *Manager) persistLocked(ctx context.Context) {
	err := m.gateway.SaveAll(ctx, cloneAll(m.list))
	m.recordSync(err)
	if err != nil {
		m.log.ErrorWithContext(ctx, "failed to persist reservations", err, map[string]interface{}{
			"count": len(m.list),
			"stale": errors.Is(err, storage.ErrSyncStale),
		})
	}
}

func (m *Manager) recordSync(err error) {
	if err != nil {
		m.sync.Stale = true
		m.sync.LastError = err.Error()
		return
	}
	now := m.now().UTC()
	m.sync = SyncState{LastSyncedAt: &now}
}

func (m *Manager) notify() {
	for _, fn := range m.listeners {
		fn()
	}
}
