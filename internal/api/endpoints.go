package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/example/mangiaebasta/internal/models"
)

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RegisterUser creates a new installation and returns its credentials.
func (c *Client) RegisterUser(ctx context.Context) (RegisterResponse, error) {
	var out RegisterResponse
	err := requirePayload(c.post(ctx, "user", nil, &out))
	return out, err
}

// GetUser fetches the user record.
func (c *Client) GetUser(ctx context.Context, uid int, sid string) (UserPayload, error) {
	var out UserPayload
	err := requirePayload(c.get(ctx, fmt.Sprintf("user/%d", uid), map[string]string{"sid": sid}, &out))
	return out, err
}

// ModifyUser replaces the profile fields of the user.
func (c *Client) ModifyUser(ctx context.Context, uid int, sid string, profile models.Profile) error {
	c.log.WithField("uid", uid).Debug("modifying user")
	_, err := c.put(ctx, fmt.Sprintf("user/%d", uid), modifyUserRequest{Profile: profile, SID: sid}, nil)
	return err
}

// NearbyMenus lists the menus deliverable to the given position.
func (c *Client) NearbyMenus(ctx context.Context, lat, lng float64, sid string) ([]MenuPayload, error) {
	var out []MenuPayload
	query := map[string]string{"lat": formatCoord(lat), "lng": formatCoord(lng), "sid": sid}
	if _, err := c.get(ctx, "menu", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MenuDetail fetches one menu including its long description.
func (c *Client) MenuDetail(ctx context.Context, mid int, sid string, lat, lng float64) (MenuPayload, error) {
	var out MenuPayload
	query := map[string]string{"sid": sid, "lat": formatCoord(lat), "lng": formatCoord(lng)}
	err := requirePayload(c.get(ctx, fmt.Sprintf("menu/%d", mid), query, &out))
	return out, err
}

// MenuImage downloads the base64 image of a menu.
func (c *Client) MenuImage(ctx context.Context, mid int, sid string) (string, error) {
	var out ImagePayload
	if err := requirePayload(c.get(ctx, fmt.Sprintf("menu/%d/image", mid), map[string]string{"sid": sid}, &out)); err != nil {
		return "", err
	}
	c.log.WithFields(logrus.Fields{"mid": mid, "bytes": len(out.Base64)}).Debug("menu image received")
	return out.Base64, nil
}

// BuyMenu places an order of mid delivered to loc.
func (c *Client) BuyMenu(ctx context.Context, mid int, sid string, loc models.Location) (OrderPayload, error) {
	var out OrderPayload
	c.log.WithField("mid", mid).Info("placing order")
	err := requirePayload(c.post(ctx, fmt.Sprintf("menu/%d/buy", mid), buyRequest{SID: sid, DeliveryLocation: loc}, &out))
	return out, err
}

// OrderStatus fetches the current state of an order.
func (c *Client) OrderStatus(ctx context.Context, oid int, sid string) (OrderPayload, error) {
	var out OrderPayload
	err := requirePayload(c.get(ctx, fmt.Sprintf("order/%d", oid), map[string]string{"sid": sid}, &out))
	return out, err
}

// HasActiveOrder re-fetches the user and reports whether their last order
// is still on delivery.
func (c *Client) HasActiveOrder(ctx context.Context, uid int, sid string) (bool, error) {
	user, err := c.GetUser(ctx, uid, sid)
	if err != nil {
		return false, err
	}
	return user.OrderStatus != nil && models.OrderStatus(*user.OrderStatus) == models.OrderOnDelivery, nil
}

// IsRegistered re-fetches the user and reports whether a first name is set.
func (c *Client) IsRegistered(ctx context.Context, uid int, sid string) (bool, error) {
	user, err := c.GetUser(ctx, uid, sid)
	if err != nil {
		return false, err
	}
	return user.Registered(), nil
}

// Registered is the canonical registration predicate: the server only
// stores a first name once the profile form has been submitted.
func (u UserPayload) Registered() bool {
	return u.FirstName != nil
}
