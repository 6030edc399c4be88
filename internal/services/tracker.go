package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/mangiaebasta/internal/mapper"
	"github.com/example/mangiaebasta/internal/models"
)

// TrackerState is the state of the order status screen.
type TrackerState int

const (
	StateLoading TrackerState = iota
	StateNoOrder
	StateError
	StateOnDelivery
	StateCompleted
)

func (s TrackerState) String() string {
	switch s {
	case StateLoading:
		return "LOADING"
	case StateNoOrder:
		return "NO_ORDER"
	case StateError:
		return "ERROR"
	case StateOnDelivery:
		return "ON_DELIVERY"
	case StateCompleted:
		return "COMPLETED"
	default:
		return fmt.Sprintf("TrackerState(%d)", int(s))
	}
}

// trackerTransitions is the full transition table; anything not listed is
// rejected.
var trackerTransitions = map[TrackerState][]TrackerState{
	StateLoading:    {StateNoOrder, StateError, StateOnDelivery, StateCompleted},
	StateOnDelivery: {StateCompleted},
}

// CanTransition reports whether to is reachable from s in one step.
func (s TrackerState) CanTransition(to TrackerState) bool {
	for _, next := range trackerTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the state ends the tracker run.
func (s TrackerState) Terminal() bool {
	switch s {
	case StateNoOrder, StateError, StateCompleted:
		return true
	default:
		return false
	}
}

// TrackerSnapshot is what the order status screen renders.
type TrackerSnapshot struct {
	State           TrackerState
	Order           *models.Order
	CourierPosition *models.Location
	// Menu is the ordered menu, loaded once the order is completed.
	Menu *models.MenuDetail
}

// OrderTracker follows the user's last order. While the order is on
// delivery it polls its status every interval; it stops after the poll
// that observes COMPLETED or when ctx is cancelled. Failed polls are
// logged and the next tick proceeds.
type OrderTracker struct {
	app      *AppContext
	backend  Backend
	interval time.Duration
	log      *logrus.Entry

	mu       sync.Mutex
	snap     TrackerSnapshot
	onChange func(TrackerSnapshot)
}

func newOrderTracker(app *AppContext, backend Backend, interval time.Duration, logger *logrus.Logger) *OrderTracker {
	return &OrderTracker{
		app:      app,
		backend:  backend,
		interval: interval,
		log:      logger.WithField("component", "tracker"),
		snap:     TrackerSnapshot{State: StateLoading},
	}
}

// OnChange registers a callback invoked after every update. It runs on
// the goroutine calling Run.
func (t *OrderTracker) OnChange(fn func(TrackerSnapshot)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = fn
}

// Snapshot returns the current state.
func (t *OrderTracker) Snapshot() TrackerSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap
}

// Run blocks until a terminal state is reached or ctx is done, and
// returns the last snapshot.
func (t *OrderTracker) Run(ctx context.Context) TrackerSnapshot {
	creds := t.app.Credentials()

	user, err := t.backend.GetUser(ctx, creds.UID, creds.SID)
	if err != nil {
		if ctx.Err() != nil {
			return t.Snapshot()
		}
		t.log.WithError(err).Error("could not fetch user")
		return t.fail()
	}
	if user.LastOID == nil {
		t.update(func(s *TrackerSnapshot) { t.transition(s, StateNoOrder) })
		return t.Snapshot()
	}

	oid := *user.LastOID
	payload, err := t.backend.OrderStatus(ctx, oid, creds.SID)
	if err != nil {
		if ctx.Err() != nil {
			return t.Snapshot()
		}
		t.log.WithError(err).WithField("oid", oid).Error("could not fetch order")
		return t.fail()
	}
	order := mapper.ToOrder(payload)

	switch order.Status {
	case models.OrderOnDelivery:
		t.update(func(s *TrackerSnapshot) {
			s.Order = &order
			s.CourierPosition = order.CurrentPosition
			t.transition(s, StateOnDelivery)
		})
		t.poll(ctx, oid)
	case models.OrderCompleted:
		t.complete(ctx, order)
	default:
		t.log.WithField("status", order.Status).Error("unknown order status")
		return t.fail()
	}
	return t.Snapshot()
}

func (t *OrderTracker) poll(ctx context.Context, oid int) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		if t.tick(ctx, oid) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// tick fetches the order once and reports whether polling is over.
func (t *OrderTracker) tick(ctx context.Context, oid int) bool {
	payload, err := t.backend.OrderStatus(ctx, oid, t.app.Credentials().SID)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		t.log.WithError(err).WithField("oid", oid).Warn("order poll failed")
		return false
	}
	order := mapper.ToOrder(payload)

	if order.Status == models.OrderCompleted {
		t.complete(ctx, order)
		return true
	}
	t.update(func(s *TrackerSnapshot) {
		s.Order = &order
		s.CourierPosition = order.CurrentPosition
	})
	return false
}

func (t *OrderTracker) complete(ctx context.Context, order models.Order) {
	t.update(func(s *TrackerSnapshot) {
		s.Order = &order
		if order.CurrentPosition != nil {
			s.CourierPosition = order.CurrentPosition
		}
		t.transition(s, StateCompleted)
	})

	loc := order.DeliveryLocation
	payload, err := t.backend.MenuDetail(ctx, order.MID, t.app.Credentials().SID, loc.Lat, loc.Lng)
	if err != nil {
		t.log.WithError(err).WithField("mid", order.MID).Warn("could not fetch ordered menu")
		return
	}
	detail := mapper.ToMenuDetail(payload)
	t.update(func(s *TrackerSnapshot) { s.Menu = &detail })
}

func (t *OrderTracker) fail() TrackerSnapshot {
	t.update(func(s *TrackerSnapshot) { t.transition(s, StateError) })
	return t.Snapshot()
}

// transition applies to if the table allows it. Must be called under mu.
func (t *OrderTracker) transition(s *TrackerSnapshot, to TrackerState) {
	if !s.State.CanTransition(to) {
		t.log.WithFields(logrus.Fields{"from": s.State, "to": to}).Error("illegal tracker transition")
		return
	}
	s.State = to
}

func (t *OrderTracker) update(fn func(*TrackerSnapshot)) {
	t.mu.Lock()
	fn(&t.snap)
	snap := t.snap
	onChange := t.onChange
	t.mu.Unlock()

	if onChange != nil {
		onChange(snap)
	}
}
