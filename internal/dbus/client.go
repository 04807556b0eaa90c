package dbus

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Client calls a running anchortipd over the session bus.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// Connect opens a private session bus connection. Close releases it.
func Connect() (*Client, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Client{conn: conn, obj: conn.Object(BusName, Path)}, nil
}

// Running reports whether the daemon owns its bus name.
func (c *Client) Running(ctx context.Context) (bool, error) {
	var owned bool
	err := c.conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.NameHasOwner", 0, BusName).Store(&owned)
	if err != nil {
		return false, fmt.Errorf("failed to query bus name: %w", err)
	}
	return owned, nil
}

// ShowAt shows a tooltip pointing at (x, y) and returns its ID.
func (c *Client) ShowAt(ctx context.Context, x, y int, text string, opts Options) (string, error) {
	var id string
	err := c.obj.CallWithContext(ctx, Interface+".ShowAt", 0,
		int32(x), int32(y), text, opts.Variants(),
	).Store(&id)
	if err != nil {
		return "", fmt.Errorf("ShowAt failed: %w", err)
	}
	return id, nil
}

// ShowRect shows a tooltip anchored to a rectangle and returns its ID.
func (c *Client) ShowRect(ctx context.Context, x, y, width, height int, text string, opts Options) (string, error) {
	var id string
	err := c.obj.CallWithContext(ctx, Interface+".ShowRect", 0,
		int32(x), int32(y), int32(width), int32(height), text, opts.Variants(),
	).Store(&id)
	if err != nil {
		return "", fmt.Errorf("ShowRect failed: %w", err)
	}
	return id, nil
}

// Dismiss closes a tooltip. It returns false when the ID is unknown.
func (c *Client) Dismiss(ctx context.Context, id string) (bool, error) {
	var found bool
	if err := c.obj.CallWithContext(ctx, Interface+".Dismiss", 0, id).Store(&found); err != nil {
		return false, fmt.Errorf("Dismiss failed: %w", err)
	}
	return found, nil
}

// List returns the active tooltips, oldest first.
func (c *Client) List(ctx context.Context) ([]TooltipInfo, error) {
	var list []TooltipInfo
	if err := c.obj.CallWithContext(ctx, Interface+".List", 0).Store(&list); err != nil {
		return nil, fmt.Errorf("List failed: %w", err)
	}
	return list, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
