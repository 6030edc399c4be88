package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/mangiaebasta/internal/api"
	"github.com/example/mangiaebasta/internal/location"
	"github.com/example/mangiaebasta/internal/models"
)

// Backend is the part of the remote API the screens use. *api.Client
// implements it.
type Backend interface {
	RegisterUser(ctx context.Context) (api.RegisterResponse, error)
	GetUser(ctx context.Context, uid int, sid string) (api.UserPayload, error)
	ModifyUser(ctx context.Context, uid int, sid string, profile models.Profile) error
	NearbyMenus(ctx context.Context, lat, lng float64, sid string) ([]api.MenuPayload, error)
	MenuDetail(ctx context.Context, mid int, sid string, lat, lng float64) (api.MenuPayload, error)
	MenuImage(ctx context.Context, mid int, sid string) (string, error)
	BuyMenu(ctx context.Context, mid int, sid string, loc models.Location) (api.OrderPayload, error)
	OrderStatus(ctx context.Context, oid int, sid string) (api.OrderPayload, error)
	HasActiveOrder(ctx context.Context, uid int, sid string) (bool, error)
	IsRegistered(ctx context.Context, uid int, sid string) (bool, error)
}

// Cache is the local store. *storage.Store implements it.
type Cache interface {
	SaveSID(ctx context.Context, sid string) error
	SaveUID(ctx context.Context, uid int) error
	SID(ctx context.Context) (string, bool, error)
	UID(ctx context.Context) (int, bool, error)
	SaveMenuImage(ctx context.Context, mid int, version, base64 string) error
	IsImageUpToDate(ctx context.Context, mid int, version string) (bool, error)
	MenuImage(ctx context.Context, mid int) (string, bool, error)
	DeleteAll(ctx context.Context) error
	Close() error
}

// Screen is the active top-level screen.
type Screen int

const (
	ScreenMenus Screen = iota
	ScreenOrderStatus
	ScreenProfile
)

func (s Screen) String() string {
	switch s {
	case ScreenMenus:
		return "menus"
	case ScreenOrderStatus:
		return "order status"
	case ScreenProfile:
		return "profile"
	default:
		return fmt.Sprintf("screen(%d)", int(s))
	}
}

// AppContext holds the identity and navigation state shared by every
// screen controller. It is built once by Bootstrap.
type AppContext struct {
	mu             sync.RWMutex
	creds          models.Credentials
	canUseLocation bool
	screen         Screen
}

// Credentials returns the session pair.
func (c *AppContext) Credentials() models.Credentials {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.creds
}

// CanUseLocation reports whether location permission was granted.
func (c *AppContext) CanUseLocation() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.canUseLocation
}

// Screen returns the active screen.
func (c *AppContext) Screen() Screen {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.screen
}

// Navigate switches the active screen.
func (c *AppContext) Navigate(s Screen) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screen = s
}

// Deps are the handles shared by the controllers. One Cache handle lives
// as long as the App.
type Deps struct {
	Backend      Backend
	Cache        Cache
	Location     *location.Service
	Notifier     Notifier
	Confirmer    Confirmer
	Logger       *logrus.Logger
	PollInterval time.Duration
}

// App is the application flow controller.
type App struct {
	Context *AppContext
	deps    Deps
	log     *logrus.Entry
}

// Bootstrap resolves the installation identity (from the cache, or by
// registering when no complete pair is stored) and asks for location
// permission once.
func Bootstrap(ctx context.Context, deps Deps) (*App, error) {
	if deps.Backend == nil || deps.Cache == nil || deps.Location == nil {
		return nil, errors.New("bootstrap: backend, cache and location are required")
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if deps.Notifier == nil {
		deps.Notifier = NopNotifier{}
	}
	if deps.PollInterval <= 0 {
		deps.PollInterval = time.Second
	}

	app := &App{
		Context: &AppContext{screen: ScreenMenus},
		deps:    deps,
		log:     deps.Logger.WithField("component", "app"),
	}

	creds, err := app.resolveCredentials(ctx)
	if err != nil {
		return nil, err
	}

	granted := deps.Location.Permission(ctx)
	if !granted {
		app.notify(ctx, alertLocationDenied)
	}

	app.Context.mu.Lock()
	app.Context.creds = creds
	app.Context.canUseLocation = granted
	app.Context.mu.Unlock()

	return app, nil
}

func (a *App) resolveCredentials(ctx context.Context) (models.Credentials, error) {
	sid, hasSID, err := a.deps.Cache.SID(ctx)
	if err != nil {
		a.log.WithError(err).Warn("could not read stored session id")
	}
	uid, hasUID, err := a.deps.Cache.UID(ctx)
	if err != nil {
		a.log.WithError(err).Warn("could not read stored user id")
	}

	if hasSID && hasUID {
		a.log.WithField("uid", uid).Info("session restored from cache")
		return models.Credentials{SID: sid, UID: uid}, nil
	}

	resp, err := a.deps.Backend.RegisterUser(ctx)
	if err != nil {
		return models.Credentials{}, fmt.Errorf("register installation: %w", err)
	}
	creds := models.Credentials{SID: resp.SID, UID: resp.UID}
	if !creds.Valid() {
		return models.Credentials{}, errors.New("register installation: server returned incomplete credentials")
	}
	a.log.WithField("uid", creds.UID).Info("registered new installation")

	// The two stores are independent; a failed write is logged, not rolled back.
	if err := a.deps.Cache.SaveSID(ctx, creds.SID); err != nil {
		a.log.WithError(err).Error("could not persist session id")
	}
	if err := a.deps.Cache.SaveUID(ctx, creds.UID); err != nil {
		a.log.WithError(err).Error("could not persist user id")
	}
	return creds, nil
}

func (a *App) notify(ctx context.Context, alert Alert) {
	if err := a.deps.Notifier.Notify(ctx, alert); err != nil {
		a.log.WithError(err).Warn("could not deliver alert")
	}
}

// Menus returns the controller of the menu list and detail screens.
func (a *App) Menus() *MenuController {
	return &MenuController{app: a.Context, backend: a.deps.Backend, cache: a.deps.Cache, location: a.deps.Location, log: a.deps.Logger.WithField("component", "menus")}
}

// Profile returns the controller of the profile and registration screens.
func (a *App) Profile() *ProfileController {
	return &ProfileController{app: a.Context, backend: a.deps.Backend, log: a.deps.Logger.WithField("component", "profile")}
}

// Orders returns the controller that places orders.
func (a *App) Orders() *OrderController {
	return &OrderController{
		app:       a.Context,
		backend:   a.deps.Backend,
		location:  a.deps.Location,
		notifier:  a.deps.Notifier,
		confirmer: a.deps.Confirmer,
		log:       a.deps.Logger.WithField("component", "orders"),
	}
}

// Tracker returns a fresh order status tracker; each mount gets its own.
func (a *App) Tracker() *OrderTracker {
	return newOrderTracker(a.Context, a.deps.Backend, a.deps.PollInterval, a.deps.Logger)
}

// Reset wipes the local cache. The current session stays valid until the
// process exits.
func (a *App) Reset(ctx context.Context) error {
	return a.deps.Cache.DeleteAll(ctx)
}

// Close releases the cache handle.
func (a *App) Close() error {
	return a.deps.Cache.Close()
}
