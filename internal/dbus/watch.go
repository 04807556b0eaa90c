package dbus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
)

// EventKind distinguishes the signals of the tooltip interface.
type EventKind string

const (
	EventShown     EventKind = "shown"
	EventDismissed EventKind = "dismissed"
)

// Event is a Shown or Dismissed signal.
type Event struct {
	Kind   EventKind   `json:"kind" yaml:"kind"`
	ID     string      `json:"id" yaml:"id"`
	Reason CloseReason `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Subscription receives the daemon's signals from the moment it was
// created.
type Subscription struct {
	conn   *dbus.Conn
	opts   []dbus.MatchOption
	ch     chan *dbus.Signal
	logger *slog.Logger
}

// Subscribe adds a match rule for the daemon's signals. Signals sent
// after Subscribe returns are buffered until Next reads them.
func (c *Client) Subscribe(ctx context.Context, logger *slog.Logger) (*Subscription, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := []dbus.MatchOption{
		dbus.WithMatchObjectPath(Path),
		dbus.WithMatchInterface(Interface),
	}
	if err := c.conn.AddMatchSignalContext(ctx, opts...); err != nil {
		return nil, fmt.Errorf("failed to add match rule: %w", err)
	}

	ch := make(chan *dbus.Signal, 100)
	c.conn.Signal(ch)

	logger.Debug("watching tooltip signals", "interface", Interface)
	return &Subscription{conn: c.conn, opts: opts, ch: ch, logger: logger}, nil
}

// Next blocks until the next tooltip event. ok is false once ctx is done
// or the connection is closed.
func (s *Subscription) Next(ctx context.Context) (ev Event, ok bool) {
	for {
		select {
		case <-ctx.Done():
			return Event{}, false
		case sig, open := <-s.ch:
			if !open {
				return Event{}, false
			}
			ev, ok := parseSignal(sig)
			if !ok {
				s.logger.Debug("ignoring signal", "name", sig.Name, "body_len", len(sig.Body))
				continue
			}
			return ev, true
		}
	}
}

// Close removes the match rule.
func (s *Subscription) Close() error {
	s.conn.RemoveSignal(s.ch)
	return s.conn.RemoveMatchSignal(s.opts...)
}

// Watch delivers the daemon's signals to fn until ctx is done.
func (c *Client) Watch(ctx context.Context, logger *slog.Logger, fn func(Event)) error {
	sub, err := c.Subscribe(ctx, logger)
	if err != nil {
		return err
	}
	defer func() { _ = sub.Close() }()

	for {
		ev, ok := sub.Next(ctx)
		if !ok {
			return nil
		}
		fn(ev)
	}
}

// parseSignal decodes a Shown(s) or Dismissed(su) signal.
func parseSignal(sig *dbus.Signal) (Event, bool) {
	if sig == nil || sig.Path != Path || len(sig.Body) == 0 {
		return Event{}, false
	}
	id, ok := sig.Body[0].(string)
	if !ok {
		return Event{}, false
	}

	switch sig.Name {
	case Interface + ".Shown":
		return Event{Kind: EventShown, ID: id}, true
	case Interface + ".Dismissed":
		if len(sig.Body) < 2 {
			return Event{}, false
		}
		reason, ok := sig.Body[1].(uint32)
		if !ok {
			return Event{}, false
		}
		return Event{Kind: EventDismissed, ID: id, Reason: CloseReason(reason)}, true
	}
	return Event{}, false
}
