package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/example/mangiaebasta/internal/location"
	"github.com/example/mangiaebasta/internal/mapper"
	"github.com/example/mangiaebasta/internal/models"
)

var (
	// ErrNotRegistered means the profile must be completed before ordering.
	ErrNotRegistered = errors.New("user is not registered")
	// ErrActiveOrder means another order is still on delivery.
	ErrActiveOrder = errors.New("an order is already on delivery")
	// ErrOrderDeclined means the user did not confirm the purchase.
	ErrOrderDeclined = errors.New("order not confirmed")
	// ErrNoLocation means there is no delivery position to order to.
	ErrNoLocation = errors.New("delivery location unavailable")
)

// Confirmer asks the user to confirm an action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// OrderController places orders.
type OrderController struct {
	app       *AppContext
	backend   Backend
	location  *location.Service
	notifier  Notifier
	confirmer Confirmer
	log       *logrus.Entry
}

// Place runs the purchase guards against fresh server state and, if they
// all pass, buys menu mid for delivery at pos (the current position when
// pos is nil). On success the active screen becomes the order status.
func (c *OrderController) Place(ctx context.Context, menu models.Menu, pos *models.Location) (*models.Order, error) {
	creds := c.app.Credentials()
	entry := c.log.WithField("mid", menu.MID)

	registered, err := c.backend.IsRegistered(ctx, creds.UID, creds.SID)
	if err != nil {
		entry.WithError(err).Error("registration check failed")
		return nil, fmt.Errorf("check registration: %w", err)
	}
	if !registered {
		c.app.Navigate(ScreenProfile)
		return nil, ErrNotRegistered
	}

	active, err := c.backend.HasActiveOrder(ctx, creds.UID, creds.SID)
	if err != nil {
		entry.WithError(err).Error("active order check failed")
		return nil, fmt.Errorf("check active order: %w", err)
	}
	if active {
		c.notify(ctx, alertActiveOrder)
		return nil, ErrActiveOrder
	}

	if pos == nil {
		pos = c.location.Current(ctx, c.app.CanUseLocation())
	}
	if pos == nil {
		return nil, ErrNoLocation
	}

	if !c.confirm(ctx, fmt.Sprintf("Buy %q for €%.2f?", menu.Name, menu.Price)) {
		return nil, ErrOrderDeclined
	}

	payload, err := c.backend.BuyMenu(ctx, menu.MID, creds.SID, *pos)
	if err != nil {
		entry.WithError(err).Error("order creation failed")
		c.notify(ctx, alertPaymentProblem)
		return nil, fmt.Errorf("buy menu %d: %w", menu.MID, err)
	}

	order := mapper.ToOrder(payload)
	entry.WithField("oid", order.OID).Info("order placed")
	c.app.Navigate(ScreenOrderStatus)
	return &order, nil
}

func (c *OrderController) confirm(ctx context.Context, prompt string) bool {
	if c.confirmer == nil {
		return false
	}
	ok, err := c.confirmer.Confirm(ctx, prompt)
	if err != nil {
		c.log.WithError(err).Warn("confirmation failed")
		return false
	}
	return ok
}

func (c *OrderController) notify(ctx context.Context, alert Alert) {
	if err := c.notifier.Notify(ctx, alert); err != nil {
		c.log.WithError(err).Warn("could not deliver alert")
	}
}
