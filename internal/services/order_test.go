package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/mangiaebasta/internal/api"
	"github.com/example/mangiaebasta/internal/models"
)

var testMenu = models.Menu{MID: 11, Name: "Pizza", Price: 8.5}

func TestPlaceGuards(t *testing.T) {
	tests := []struct {
		name       string
		user       api.UserPayload
		confirm    bool
		buyErr     error
		wantErr    error
		wantBuys   int
		wantScreen Screen
		wantAlerts []string
	}{
		{
			name:       "not registered",
			user:       api.UserPayload{UID: 7},
			confirm:    true,
			wantErr:    ErrNotRegistered,
			wantScreen: ScreenProfile,
		},
		{
			name:       "active order",
			user:       registeredUser(models.OrderOnDelivery, intPtr(4)),
			confirm:    true,
			wantErr:    ErrActiveOrder,
			wantScreen: ScreenMenus,
			wantAlerts: []string{alertActiveOrder.Title},
		},
		{
			name:       "declined",
			user:       registeredUser(models.OrderCompleted, intPtr(4)),
			confirm:    false,
			wantErr:    ErrOrderDeclined,
			wantScreen: ScreenMenus,
		},
		{
			name:       "payment refused",
			user:       registeredUser("", nil),
			confirm:    true,
			buyErr:     &api.HTTPError{StatusCode: 409, Body: "invalid card"},
			wantBuys:   1,
			wantScreen: ScreenMenus,
			wantAlerts: []string{alertPaymentProblem.Title},
		},
		{
			name:       "placed",
			user:       registeredUser(models.OrderCompleted, intPtr(4)),
			confirm:    true,
			wantBuys:   1,
			wantScreen: ScreenOrderStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.backend.user = tt.user
			env.backend.buyErr = tt.buyErr
			env.backend.buy = api.OrderPayload{OID: 5, MID: testMenu.MID, UID: 7, Status: "ON_DELIVERY", DeliveryLocation: milan}
			env.confirm = tt.confirm
			app := env.bootstrap(t)

			order, err := app.Orders().Place(context.Background(), testMenu, nil)

			switch {
			case tt.buyErr != nil:
				if !api.IsStatus(err, 409) {
					t.Fatalf("Place error = %v, want HTTP 409", err)
				}
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Place error = %v, want %v", err, tt.wantErr)
				}
			default:
				if err != nil {
					t.Fatalf("Place: %v", err)
				}
				if order == nil || order.OID != 5 || order.Status != models.OrderOnDelivery {
					t.Fatalf("order = %+v", order)
				}
			}

			if got := env.backend.Calls("BuyMenu"); got != tt.wantBuys {
				t.Errorf("BuyMenu called %d times, want %d", got, tt.wantBuys)
			}
			if got := app.Context.Screen(); got != tt.wantScreen {
				t.Errorf("screen = %v, want %v", got, tt.wantScreen)
			}
			if got := env.notifier.Titles(); strings.Join(got, ",") != strings.Join(tt.wantAlerts, ",") {
				t.Errorf("alerts = %v, want %v", got, tt.wantAlerts)
			}
		})
	}
}

func TestPlaceUsesCurrentPosition(t *testing.T) {
	env := newTestEnv(t)
	env.backend.user = registeredUser("", nil)
	app := env.bootstrap(t)

	if _, err := app.Orders().Place(context.Background(), testMenu, nil); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if len(env.backend.bought) != 1 || env.backend.bought[0] != milan {
		t.Fatalf("delivery locations = %v, want [%v]", env.backend.bought, milan)
	}
	if len(env.prompts) != 1 || !strings.Contains(env.prompts[0], "Pizza") || !strings.Contains(env.prompts[0], "€8.50") {
		t.Fatalf("prompts = %q", env.prompts)
	}

	other := models.Location{Lat: 45.47, Lng: 9.2}
	env.backend.bought = nil
	if _, err := app.Orders().Place(context.Background(), testMenu, &other); err != nil {
		t.Fatalf("Place at explicit position: %v", err)
	}
	if env.backend.bought[0] != other {
		t.Fatalf("delivery location = %v, want %v", env.backend.bought[0], other)
	}
}

func TestPlaceWithoutLocation(t *testing.T) {
	env := newTestEnv(t)
	env.backend.user = registeredUser("", nil)
	env.provider.Enabled = false
	app := env.bootstrap(t)

	_, err := app.Orders().Place(context.Background(), testMenu, nil)
	if !errors.Is(err, ErrNoLocation) {
		t.Fatalf("Place error = %v, want ErrNoLocation", err)
	}
	if got := env.backend.Calls("BuyMenu"); got != 0 {
		t.Fatalf("BuyMenu called %d times", got)
	}
}

func TestPlaceGuardFailure(t *testing.T) {
	env := newTestEnv(t)
	app := env.bootstrap(t)
	env.backend.userErr = errBackend

	_, err := app.Orders().Place(context.Background(), testMenu, nil)
	if !errors.Is(err, errBackend) {
		t.Fatalf("Place error = %v, want backend error", err)
	}
	if got := env.backend.Calls("BuyMenu"); got != 0 {
		t.Fatalf("BuyMenu called %d times", got)
	}
}
