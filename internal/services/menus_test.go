package services

import (
	"context"
	"testing"

	"github.com/example/mangiaebasta/internal/api"
	"github.com/example/mangiaebasta/internal/mapper"
)

func TestLoadMenusResolvesImages(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	app := env.bootstrap(t)

	env.backend.menus = []api.MenuPayload{
		{MID: 1, Name: "Pizza", Price: 8.5, ImageVersion: 2, DeliveryTime: 15},
		{MID: 2, Name: "Sushi", Price: 14, ImageVersion: 1, DeliveryTime: 25},
	}
	env.backend.images = map[int]string{1: "fresh-pizza", 2: "fresh-sushi"}

	// Menu 1 is cached at an older version, menu 2 is current.
	if err := env.cache.SaveMenuImage(ctx, 1, "1", "stale-pizza"); err != nil {
		t.Fatalf("SaveMenuImage: %v", err)
	}
	if err := env.cache.SaveMenuImage(ctx, 2, "1", "cached-sushi"); err != nil {
		t.Fatalf("SaveMenuImage: %v", err)
	}

	list := app.Menus().Load(ctx)

	if list.Empty() || len(list.Menus) != 2 {
		t.Fatalf("menus = %+v", list.Menus)
	}
	if list.Location == nil || *list.Location != milan {
		t.Fatalf("location = %v", list.Location)
	}
	if got := list.Menus[0].Image; got != mapper.ImageURIPrefix+"fresh-pizza" {
		t.Errorf("menu 1 image = %q", got)
	}
	if got := list.Menus[1].Image; got != mapper.ImageURIPrefix+"cached-sushi" {
		t.Errorf("menu 2 image = %q", got)
	}
	if got := env.backend.Calls("MenuImage"); got != 1 {
		t.Errorf("MenuImage called %d times, want 1", got)
	}

	upToDate, err := env.cache.IsImageUpToDate(ctx, 1, "2")
	if err != nil || !upToDate {
		t.Fatalf("menu 1 cache not refreshed: %v, %v", upToDate, err)
	}
	payload, _, _ := env.cache.MenuImage(ctx, 1)
	if payload != "fresh-pizza" {
		t.Fatalf("cached payload = %q", payload)
	}
}

func TestLoadMenusFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(env *testEnv)
	}{
		{"location denied", func(env *testEnv) { env.provider.Enabled = false }},
		{"fetch fails", func(env *testEnv) { env.backend.menusErr = errBackend }},
		{"nothing nearby", func(env *testEnv) { env.backend.menus = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			tt.setup(env)
			app := env.bootstrap(t)

			list := app.Menus().Load(context.Background())
			if !list.Empty() {
				t.Fatalf("menus = %+v, want none", list.Menus)
			}
		})
	}
}

func TestLoadMenusImageFailureKeepsMenu(t *testing.T) {
	env := newTestEnv(t)
	app := env.bootstrap(t)
	env.backend.menus = []api.MenuPayload{{MID: 1, Name: "Pizza", ImageVersion: 1}}
	env.backend.imageErr = errBackend

	list := app.Menus().Load(context.Background())
	if len(list.Menus) != 1 {
		t.Fatalf("menus = %+v", list.Menus)
	}
	if list.Menus[0].HasImage() {
		t.Fatalf("image = %q, want none", list.Menus[0].Image)
	}
}

func TestMenuDetailKeepsImage(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	app := env.bootstrap(t)
	env.backend.menus = []api.MenuPayload{{MID: 1, Name: "Pizza", ImageVersion: 1}}
	env.backend.images = map[int]string{1: "pizza"}
	env.backend.detail = api.MenuPayload{MID: 1, Name: "Pizza", LongDescription: "Tomato and mozzarella"}

	menus := app.Menus()
	list := menus.Load(ctx)
	detail := menus.Detail(ctx, list.Menus[0], *list.Location)
	if detail == nil {
		t.Fatal("Detail returned nil")
	}
	if detail.LongDescription != "Tomato and mozzarella" || detail.Image != list.Menus[0].Image {
		t.Fatalf("detail = %+v", detail)
	}

	env.backend.detailErr = errBackend
	if menus.Detail(ctx, list.Menus[0], milan) != nil {
		t.Fatal("Detail on failure should be nil")
	}
}
