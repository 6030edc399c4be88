package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/example/mangiaebasta/internal/export"
	"github.com/example/mangiaebasta/internal/mapper"
	"github.com/example/mangiaebasta/internal/models"
	"github.com/example/mangiaebasta/internal/services"
)

var errQuit = errors.New("input closed")

type terminal struct {
	out   io.Writer
	lines <-chan string
	menus services.MenuList
}

func newTerminal(out io.Writer, lines <-chan string) *terminal {
	return &terminal{out: out, lines: lines}
}

func (t *terminal) printf(format string, args ...any) {
	fmt.Fprintf(t.out, format, args...)
}

// ask prints prompt and waits for one line of input.
func (t *terminal) ask(ctx context.Context, prompt string) (string, error) {
	t.printf("%s", prompt)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-t.lines:
		if !ok {
			return "", errQuit
		}
		return strings.TrimSpace(line), nil
	}
}

func (t *terminal) confirm(ctx context.Context, prompt string) (bool, error) {
	answer, err := t.ask(ctx, prompt+" [y/N] ")
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes"), nil
}

func (t *terminal) run(ctx context.Context, app *services.App) {
	t.printf("=== Mangia e Basta ===\n")
	for {
		t.printf("\n1. Menus nearby\n2. Order status\n3. Profile\n4. Export menus to Excel\n5. Reset local data\nq. Quit\n")
		choice, err := t.ask(ctx, "\nEnter your choice: ")
		if err != nil {
			return
		}

		switch choice {
		case "1":
			err = t.menuScreen(ctx, app)
		case "2":
			app.Context.Navigate(services.ScreenOrderStatus)
		case "3":
			app.Context.Navigate(services.ScreenProfile)
		case "4":
			err = t.exportScreen(ctx, app)
		case "5":
			err = t.resetScreen(ctx, app)
		case "q", "Q", "quit", "exit":
			t.printf("Goodbye!\n")
			return
		default:
			t.printf("Invalid choice. Please try again.\n")
		}
		if err == nil {
			err = t.follow(ctx, app)
		}
		if err != nil {
			return
		}
	}
}

// follow shows the screen the last action navigated to, then returns to
// the menu list.
func (t *terminal) follow(ctx context.Context, app *services.App) error {
	defer app.Context.Navigate(services.ScreenMenus)
	switch app.Context.Screen() {
	case services.ScreenOrderStatus:
		return t.orderScreen(ctx, app)
	case services.ScreenProfile:
		return t.profileScreen(ctx, app)
	}
	return nil
}

func (t *terminal) menuScreen(ctx context.Context, app *services.App) error {
	menus := app.Menus()
	t.menus = menus.Load(ctx)
	if t.menus.Empty() {
		t.printf("No menus available here.\n")
		return nil
	}

	for {
		t.printf("\n")
		for i, m := range t.menus.Menus {
			view := mapper.ToView(m)
			t.printf("%2d. %-24s %8s  %s\n    %s\n", i+1, view.Name, view.PriceLabel(), view.DeliveryLabel(), view.ShortDescription)
		}
		input, err := t.ask(ctx, "\nNumber to open, b<number> to buy, Enter to go back: ")
		if err != nil || input == "" {
			return err
		}

		buy := strings.HasPrefix(input, "b")
		n, convErr := strconv.Atoi(strings.TrimPrefix(input, "b"))
		if convErr != nil || n < 1 || n > len(t.menus.Menus) {
			t.printf("Invalid choice.\n")
			continue
		}
		menu := t.menus.Menus[n-1]

		if !buy {
			detail := menus.Detail(ctx, menu, *t.menus.Location)
			if detail == nil {
				t.printf("Could not load the menu.\n")
				continue
			}
			t.printDetail(*detail)
			answer, err := t.ask(ctx, "Buy it? [y/N] ")
			if err != nil {
				return err
			}
			if !strings.EqualFold(answer, "y") {
				continue
			}
		}

		if done, err := t.place(ctx, app, menu); done || err != nil {
			return err
		}
	}
}

// place reports true when the flow moved to another screen.
func (t *terminal) place(ctx context.Context, app *services.App, menu models.Menu) (bool, error) {
	_, err := app.Orders().Place(ctx, menu, t.menus.Location)
	switch {
	case err == nil:
		t.printf("Order placed.\n")
		return true, nil
	case errors.Is(err, services.ErrNotRegistered):
		t.printf("Complete your profile before ordering.\n")
		return true, nil
	case errors.Is(err, services.ErrNoLocation):
		t.printf("Your position is unavailable.\n")
	case errors.Is(err, context.Canceled):
		return false, err
	}
	// Other failures were already reported through the notifier.
	return false, nil
}

func (t *terminal) printDetail(d models.MenuDetail) {
	view := mapper.DetailView(d)
	t.printf("\n%s  %s  %s\n%s\n", view.Name, view.PriceLabel(), view.DeliveryLabel(), view.LongDescription)
	if d.HasImage() {
		t.printf("[image, %d bytes]\n", len(d.Image)-len(mapper.ImageURIPrefix))
	}
}

func (t *terminal) orderScreen(ctx context.Context, app *services.App) error {
	tracker := app.Tracker()
	tracker.OnChange(t.printSnapshot)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan services.TrackerSnapshot, 1)
	go func() { done <- tracker.Run(runCtx) }()

	t.printf("\nTracking your order, press Enter to go back.\n")
	select {
	case <-done:
		return nil
	case _, ok := <-t.lines:
		cancel()
		<-done
		if !ok {
			return errQuit
		}
		return nil
	case <-ctx.Done():
		<-done
		return ctx.Err()
	}
}

func (t *terminal) printSnapshot(s services.TrackerSnapshot) {
	switch s.State {
	case services.StateNoOrder:
		t.printf("You have not ordered anything yet.\n")
	case services.StateError:
		t.printf("Could not load your order.\n")
	case services.StateOnDelivery:
		t.printf("Order #%d on its way", s.Order.OID)
		if s.CourierPosition != nil {
			t.printf(", courier at %.5f, %.5f", s.CourierPosition.Lat, s.CourierPosition.Lng)
		}
		if s.Order.ExpectedDeliveryAt != nil {
			t.printf(", expected at %s", s.Order.ExpectedDeliveryAt.Local().Format(time.Kitchen))
		}
		t.printf("\n")
	case services.StateCompleted:
		if s.Menu != nil {
			view := mapper.DetailView(*s.Menu)
			t.printf("Delivered: %s (%s) %s\n", view.Name, view.ShortDescription, view.PriceLabel())
			return
		}
		t.printf("Order #%d delivered", s.Order.OID)
		if s.Order.DeliveredAt != nil {
			t.printf(" at %s", s.Order.DeliveredAt.Local().Format(time.Kitchen))
		}
		t.printf("\n")
	}
}

func (t *terminal) profileScreen(ctx context.Context, app *services.App) error {
	profiles := app.Profile()
	user := profiles.Load(ctx)
	if user == nil {
		t.printf("Could not load your profile.\n")
		return nil
	}

	if user.Registered {
		t.printf("\n%s\nCard: %s **** %s  %02d/%d\n", user.FullName(), user.CardFullName, lastDigits(user.CardNumber), user.CardExpireMonth, user.CardExpireYear)
		answer, err := t.ask(ctx, "Edit? [y/N] ")
		if err != nil || !strings.EqualFold(answer, "y") {
			return err
		}
	} else {
		t.printf("\nRegister to start ordering.\n")
	}

	for {
		profile, err := t.profileForm(ctx, models.ProfileOf(*user))
		if err != nil {
			return err
		}
		saved, err := profiles.Save(ctx, profile)
		if err == nil {
			t.printf("Saved. Welcome, %s!\n", saved.FirstName)
			return nil
		}
		t.printf("%v\n", err)
		again, err := t.confirm(ctx, "Try again?")
		if err != nil || !again {
			return err
		}
	}
}

func (t *terminal) profileForm(ctx context.Context, p models.Profile) (models.Profile, error) {
	fields := []struct {
		label string
		str   *string
		num   *int
	}{
		{label: "First name", str: &p.FirstName},
		{label: "Last name", str: &p.LastName},
		{label: "Card holder", str: &p.CardFullName},
		{label: "Card number", str: &p.CardNumber},
		{label: "Expiry month", num: &p.CardExpireMonth},
		{label: "Expiry year", num: &p.CardExpireYear},
		{label: "CVV", str: &p.CardCVV},
	}

	for _, f := range fields {
		current := ""
		if f.str != nil {
			current = *f.str
		} else if *f.num != 0 {
			current = strconv.Itoa(*f.num)
		}
		input, err := t.ask(ctx, fmt.Sprintf("%s [%s]: ", f.label, current))
		if err != nil {
			return p, err
		}
		if input == "" {
			continue
		}
		if f.str != nil {
			*f.str = input
			continue
		}
		n, err := strconv.Atoi(input)
		if err != nil {
			t.printf("%s must be a number, keeping %s.\n", f.label, current)
			continue
		}
		*f.num = n
	}
	return p, nil
}

func lastDigits(card string) string {
	if len(card) <= 4 {
		return card
	}
	return card[len(card)-4:]
}

func (t *terminal) exportScreen(ctx context.Context, app *services.App) error {
	if t.menus.Empty() {
		t.menus = app.Menus().Load(ctx)
	}
	if t.menus.Empty() {
		t.printf("No menus to export.\n")
		return nil
	}

	path, err := t.ask(ctx, "File name [menus.xlsx]: ")
	if err != nil {
		return err
	}
	if path == "" {
		path = "menus.xlsx"
	}

	f, err := os.Create(path)
	if err != nil {
		t.printf("Could not create %s: %v\n", path, err)
		return nil
	}
	defer f.Close()

	if err := export.WriteMenus(f, t.menus.Menus, t.menus.Location); err != nil {
		t.printf("Export failed: %v\n", err)
		return nil
	}
	t.printf("Exported %d menus to %s.\n", len(t.menus.Menus), path)
	return nil
}

func (t *terminal) resetScreen(ctx context.Context, app *services.App) error {
	ok, err := t.confirm(ctx, "Delete the local session and image cache?")
	if err != nil || !ok {
		return err
	}
	if err := app.Reset(ctx); err != nil {
		t.printf("Reset failed: %v\n", err)
		return nil
	}
	t.menus = services.MenuList{}
	t.printf("Local data deleted; a new session is created on next start.\n")
	return nil
}
