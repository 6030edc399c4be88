package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/mangiaebasta/internal/mapper"
	"github.com/example/mangiaebasta/internal/models"
)

// ProfileController drives the profile, registration and edit screens.
type ProfileController struct {
	app     *AppContext
	backend Backend
	log     *logrus.Entry
}

// Load re-fetches the user. A nil result means the screen should show its
// error state. Callers show the registration form when Registered is false.
func (c *ProfileController) Load(ctx context.Context) *models.User {
	creds := c.app.Credentials()
	payload, err := c.backend.GetUser(ctx, creds.UID, creds.SID)
	if err != nil {
		c.log.WithError(err).Error("could not fetch user")
		return nil
	}
	user := mapper.ToUser(payload)
	return &user
}

// Save validates and submits the profile form, used both to register and
// to edit, and returns the user as the server now reports it.
func (c *ProfileController) Save(ctx context.Context, profile models.Profile) (*models.User, error) {
	if err := profile.Validate(time.Now()); err != nil {
		return nil, err
	}
	creds := c.app.Credentials()
	if err := c.backend.ModifyUser(ctx, creds.UID, creds.SID, profile); err != nil {
		c.log.WithError(err).Error("could not save profile")
		return nil, fmt.Errorf("save profile: %w", err)
	}
	if user := c.Load(ctx); user != nil {
		return user, nil
	}
	// The save went through; fall back to what was submitted.
	return &models.User{
		UID:             creds.UID,
		FirstName:       profile.FirstName,
		LastName:        profile.LastName,
		CardFullName:    profile.CardFullName,
		CardNumber:      profile.CardNumber,
		CardExpireMonth: profile.CardExpireMonth,
		CardExpireYear:  profile.CardExpireYear,
		CardCVV:         profile.CardCVV,
		Registered:      true,
	}, nil
}
