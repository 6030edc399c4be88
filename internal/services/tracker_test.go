package services

import (
	"context"
	"testing"
	"time"

	"github.com/example/mangiaebasta/internal/api"
	"github.com/example/mangiaebasta/internal/models"
)

func onDelivery(pos models.Location) api.OrderPayload {
	return api.OrderPayload{OID: 4, MID: 11, UID: 7, Status: "ON_DELIVERY", DeliveryLocation: milan, CurrentPosition: &pos}
}

func completed() api.OrderPayload {
	return api.OrderPayload{OID: 4, MID: 11, UID: 7, Status: "COMPLETED", DeliveryLocation: milan, CurrentPosition: &milan}
}

func TestTrackerTerminalStates(t *testing.T) {
	tests := []struct {
		name  string
		setup func(b *fakeBackend)
		want  TrackerState
	}{
		{
			name:  "no order",
			setup: func(b *fakeBackend) { b.user = registeredUser("", nil) },
			want:  StateNoOrder,
		},
		{
			name:  "user fetch fails",
			setup: func(b *fakeBackend) { b.userErr = errBackend },
			want:  StateError,
		},
		{
			name: "order fetch fails",
			setup: func(b *fakeBackend) {
				b.user = registeredUser(models.OrderOnDelivery, intPtr(4))
				b.orderErr = []error{errBackend}
			},
			want: StateError,
		},
		{
			name: "unknown status",
			setup: func(b *fakeBackend) {
				b.user = registeredUser(models.OrderOnDelivery, intPtr(4))
				b.orders = []api.OrderPayload{{OID: 4, Status: "LOST"}}
			},
			want: StateError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			app := env.bootstrap(t)
			tt.setup(env.backend)

			snap := app.Tracker().Run(context.Background())
			if snap.State != tt.want {
				t.Fatalf("state = %v, want %v", snap.State, tt.want)
			}
			if !snap.State.Terminal() {
				t.Fatalf("%v is not terminal", snap.State)
			}
		})
	}
}

func TestTrackerAlreadyCompleted(t *testing.T) {
	env := newTestEnv(t)
	app := env.bootstrap(t)
	env.backend.user = registeredUser(models.OrderCompleted, intPtr(4))
	env.backend.orders = []api.OrderPayload{completed()}
	env.backend.detail = api.MenuPayload{MID: 11, Name: "Pizza", LongDescription: "Margherita"}

	snap := app.Tracker().Run(context.Background())

	if snap.State != StateCompleted {
		t.Fatalf("state = %v, want COMPLETED", snap.State)
	}
	if got := env.backend.Calls("OrderStatus"); got != 1 {
		t.Fatalf("OrderStatus called %d times, want 1", got)
	}
	if snap.Menu == nil || snap.Menu.LongDescription != "Margherita" {
		t.Fatalf("menu = %+v", snap.Menu)
	}
}

func TestTrackerPollsUntilCompleted(t *testing.T) {
	env := newTestEnv(t)
	app := env.bootstrap(t)
	env.backend.user = registeredUser(models.OrderOnDelivery, intPtr(4))
	env.backend.orders = []api.OrderPayload{
		onDelivery(models.Location{Lat: 45.40, Lng: 9.10}),
		onDelivery(models.Location{Lat: 45.42, Lng: 9.12}),
		onDelivery(models.Location{Lat: 45.44, Lng: 9.15}),
		completed(),
		completed(),
	}
	// The third poll fails; tracking continues.
	env.backend.orderErr = []error{nil, nil, errBackend}

	tracker := app.Tracker()
	var states []TrackerState
	tracker.OnChange(func(s TrackerSnapshot) { states = append(states, s.State) })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	snap := tracker.Run(ctx)

	if snap.State != StateCompleted {
		t.Fatalf("state = %v, want COMPLETED", snap.State)
	}
	// Initial fetch plus polls 1..3; polling stops at the first COMPLETED.
	if got := env.backend.Calls("OrderStatus"); got != 4 {
		t.Fatalf("OrderStatus called %d times, want 4", got)
	}
	if snap.CourierPosition == nil || *snap.CourierPosition != milan {
		t.Fatalf("courier = %v, want %v", snap.CourierPosition, milan)
	}
	if states[0] != StateOnDelivery || states[len(states)-1] != StateCompleted {
		t.Fatalf("states = %v", states)
	}
	for i := 1; i < len(states); i++ {
		if states[i] != states[i-1] && !states[i-1].CanTransition(states[i]) {
			t.Fatalf("illegal transition %v -> %v", states[i-1], states[i])
		}
	}
	if got := env.backend.Calls("MenuDetail"); got != 1 {
		t.Fatalf("MenuDetail called %d times, want 1", got)
	}
}

func TestTrackerStopsOnCancel(t *testing.T) {
	env := newTestEnv(t)
	app := env.bootstrap(t)
	env.backend.user = registeredUser(models.OrderOnDelivery, intPtr(4))
	env.backend.orders = []api.OrderPayload{onDelivery(models.Location{Lat: 45.40, Lng: 9.10})}

	tracker := app.Tracker()
	ctx, cancel := context.WithCancel(context.Background())
	tracker.OnChange(func(s TrackerSnapshot) {
		if env.backend.Calls("OrderStatus") >= 3 {
			cancel()
		}
	})

	done := make(chan TrackerSnapshot, 1)
	go func() { done <- tracker.Run(ctx) }()

	select {
	case snap := <-done:
		if snap.State != StateOnDelivery {
			t.Fatalf("state = %v, want ON_DELIVERY", snap.State)
		}
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("tracker did not stop after cancellation")
	}
}

func TestTrackerTransitions(t *testing.T) {
	tests := []struct {
		from, to TrackerState
		want     bool
	}{
		{StateLoading, StateOnDelivery, true},
		{StateLoading, StateCompleted, true},
		{StateLoading, StateNoOrder, true},
		{StateLoading, StateError, true},
		{StateOnDelivery, StateCompleted, true},
		{StateOnDelivery, StateError, false},
		{StateCompleted, StateOnDelivery, false},
		{StateNoOrder, StateLoading, false},
		{StateError, StateCompleted, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("%v -> %v = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
	if StateOnDelivery.Terminal() || StateLoading.Terminal() {
		t.Error("non-terminal state reported terminal")
	}
}
