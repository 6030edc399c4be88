package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/example/mangiaebasta/internal/api"
	"github.com/example/mangiaebasta/internal/location"
	"github.com/example/mangiaebasta/internal/logging"
	"github.com/example/mangiaebasta/internal/models"
	"github.com/example/mangiaebasta/internal/storage"
)

var errBackend = errors.New("backend unavailable")

// fakeBackend serves canned payloads and counts calls.
type fakeBackend struct {
	mu sync.Mutex

	register    api.RegisterResponse
	registerErr error
	user        api.UserPayload
	userErr     error
	modifyErr   error
	menus       []api.MenuPayload
	menusErr    error
	detail      api.MenuPayload
	detailErr   error
	images      map[int]string
	imageErr    error
	buy         api.OrderPayload
	buyErr      error
	// orders is consumed one entry per OrderStatus call; the last entry repeats.
	orders   []api.OrderPayload
	orderErr []error

	calls    map[string]int
	modified []models.Profile
	bought   []models.Location
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		register: api.RegisterResponse{SID: "sid-new", UID: 7},
		user:     api.UserPayload{UID: 7},
		images:   map[int]string{},
		calls:    map[string]int{},
	}
}

func (f *fakeBackend) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeBackend) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) RegisterUser(ctx context.Context) (api.RegisterResponse, error) {
	f.count("RegisterUser")
	return f.register, f.registerErr
}

func (f *fakeBackend) GetUser(ctx context.Context, uid int, sid string) (api.UserPayload, error) {
	f.count("GetUser")
	return f.user, f.userErr
}

func (f *fakeBackend) ModifyUser(ctx context.Context, uid int, sid string, profile models.Profile) error {
	f.count("ModifyUser")
	if f.modifyErr != nil {
		return f.modifyErr
	}
	f.mu.Lock()
	f.modified = append(f.modified, profile)
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) NearbyMenus(ctx context.Context, lat, lng float64, sid string) ([]api.MenuPayload, error) {
	f.count("NearbyMenus")
	return f.menus, f.menusErr
}

func (f *fakeBackend) MenuDetail(ctx context.Context, mid int, sid string, lat, lng float64) (api.MenuPayload, error) {
	f.count("MenuDetail")
	return f.detail, f.detailErr
}

func (f *fakeBackend) MenuImage(ctx context.Context, mid int, sid string) (string, error) {
	f.count("MenuImage")
	if f.imageErr != nil {
		return "", f.imageErr
	}
	return f.images[mid], nil
}

func (f *fakeBackend) BuyMenu(ctx context.Context, mid int, sid string, loc models.Location) (api.OrderPayload, error) {
	f.count("BuyMenu")
	f.mu.Lock()
	f.bought = append(f.bought, loc)
	f.mu.Unlock()
	return f.buy, f.buyErr
}

func (f *fakeBackend) OrderStatus(ctx context.Context, oid int, sid string) (api.OrderPayload, error) {
	f.mu.Lock()
	n := f.calls["OrderStatus"]
	f.calls["OrderStatus"]++
	f.mu.Unlock()

	var err error
	if n < len(f.orderErr) {
		err = f.orderErr[n]
	}
	if err != nil {
		return api.OrderPayload{}, err
	}
	if len(f.orders) == 0 {
		return api.OrderPayload{}, errBackend
	}
	if n >= len(f.orders) {
		n = len(f.orders) - 1
	}
	return f.orders[n], nil
}

func (f *fakeBackend) HasActiveOrder(ctx context.Context, uid int, sid string) (bool, error) {
	f.count("HasActiveOrder")
	if f.userErr != nil {
		return false, f.userErr
	}
	return f.user.OrderStatus != nil && *f.user.OrderStatus == string(models.OrderOnDelivery), nil
}

func (f *fakeBackend) IsRegistered(ctx context.Context, uid int, sid string) (bool, error) {
	f.count("IsRegistered")
	if f.userErr != nil {
		return false, f.userErr
	}
	return f.user.Registered(), nil
}

// recordingNotifier keeps every alert it receives.
type recordingNotifier struct {
	mu     sync.Mutex
	alerts []Alert
}

func (n *recordingNotifier) Notify(_ context.Context, alert Alert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert)
	return nil
}

func (n *recordingNotifier) Titles() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	titles := make([]string, 0, len(n.alerts))
	for _, a := range n.alerts {
		titles = append(titles, a.Title)
	}
	return titles
}

var milan = models.Location{Lat: 45.4642, Lng: 9.19}

type testEnv struct {
	backend  *fakeBackend
	cache    *storage.Store
	notifier *recordingNotifier
	provider *location.Static
	confirm  bool
	prompts  []string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cache, err := storage.Open(filepath.Join(t.TempDir(), "cache.db"), "silent", logging.Discard())
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })
	return &testEnv{
		backend:  newFakeBackend(),
		cache:    cache,
		notifier: &recordingNotifier{},
		provider: &location.Static{Enabled: true, Position: milan},
		confirm:  true,
	}
}

func (e *testEnv) deps() Deps {
	return Deps{
		Backend:  e.backend,
		Cache:    e.cache,
		Location: location.NewService(e.provider, logging.Discard()),
		Notifier: e.notifier,
		Confirmer: ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
			e.prompts = append(e.prompts, prompt)
			return e.confirm, nil
		}),
		Logger:       logging.Discard(),
		PollInterval: time.Millisecond,
	}
}

func (e *testEnv) bootstrap(t *testing.T) *App {
	t.Helper()
	app, err := Bootstrap(context.Background(), e.deps())
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	return app
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func registeredUser(status models.OrderStatus, lastOID *int) api.UserPayload {
	u := api.UserPayload{
		UID:             7,
		FirstName:       strPtr("Mario"),
		LastName:        strPtr("Rossi"),
		CardFullName:    strPtr("Mario Rossi"),
		CardNumber:      strPtr("1234567812345678"),
		CardExpireMonth: intPtr(12),
		CardExpireYear:  intPtr(2030),
		CardCVV:         strPtr("123"),
		LastOID:         lastOID,
	}
	if status != "" {
		u.OrderStatus = strPtr(string(status))
	}
	return u
}
