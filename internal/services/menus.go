package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/example/mangiaebasta/internal/location"
	"github.com/example/mangiaebasta/internal/mapper"
	"github.com/example/mangiaebasta/internal/models"
)

// MenuList is what the menu screen renders.
type MenuList struct {
	Location *models.Location
	Menus    []models.Menu
}

// Empty reports whether there is nothing to show.
func (l MenuList) Empty() bool {
	return len(l.Menus) == 0
}

// MenuController drives the menu list and detail screens.
type MenuController struct {
	app      *AppContext
	backend  Backend
	cache    Cache
	location *location.Service
	log      *logrus.Entry
}

// Load fetches the menus near the current position and resolves their
// images through the cache. Every failure yields an empty list.
func (c *MenuController) Load(ctx context.Context) MenuList {
	pos := c.location.Current(ctx, c.app.CanUseLocation())
	if pos == nil {
		return MenuList{}
	}

	menus := c.fetch(ctx, *pos)
	c.attachImages(ctx, menus)
	return MenuList{Location: pos, Menus: menus}
}

func (c *MenuController) fetch(ctx context.Context, pos models.Location) []models.Menu {
	payloads, err := c.backend.NearbyMenus(ctx, pos.Lat, pos.Lng, c.app.Credentials().SID)
	if err != nil {
		c.log.WithError(err).Error("could not fetch nearby menus")
		return []models.Menu{}
	}
	return mapper.ToMenus(payloads)
}

// attachImages fills Menu.Image. A stale or missing cache entry is
// downloaded and overwritten; one failing menu does not stop the rest.
func (c *MenuController) attachImages(ctx context.Context, menus []models.Menu) {
	sid := c.app.Credentials().SID
	for i := range menus {
		menu := &menus[i]
		entry := c.log.WithField("mid", menu.MID)

		payload, err := c.cachedImage(ctx, menu)
		if err != nil {
			entry.WithError(err).Warn("image cache lookup failed")
		}
		if payload == "" {
			payload, err = c.backend.MenuImage(ctx, menu.MID, sid)
			if err != nil {
				entry.WithError(err).Error("could not download menu image")
				continue
			}
			if err := c.cache.SaveMenuImage(ctx, menu.MID, menu.ImageVersion, payload); err != nil {
				entry.WithError(err).Warn("could not cache menu image")
			}
		}
		menu.Image = mapper.ImageURIPrefix + payload
	}
}

func (c *MenuController) cachedImage(ctx context.Context, menu *models.Menu) (string, error) {
	upToDate, err := c.cache.IsImageUpToDate(ctx, menu.MID, menu.ImageVersion)
	if err != nil || !upToDate {
		return "", err
	}
	payload, ok, err := c.cache.MenuImage(ctx, menu.MID)
	if err != nil || !ok {
		return "", err
	}
	return payload, nil
}

// Detail fetches the long description of menu, keeping the image already
// resolved for the list. It returns nil on failure.
func (c *MenuController) Detail(ctx context.Context, menu models.Menu, pos models.Location) *models.MenuDetail {
	payload, err := c.backend.MenuDetail(ctx, menu.MID, c.app.Credentials().SID, pos.Lat, pos.Lng)
	if err != nil {
		c.log.WithError(err).WithField("mid", menu.MID).Error("could not fetch menu detail")
		return nil
	}
	detail := mapper.ToMenuDetail(payload)
	detail.Image = menu.Image
	return &detail
}
