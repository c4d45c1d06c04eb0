// Package notify posts best-effort desktop notifications over the
// session bus.
package notify

import (
	"context"
	"fmt"

	"github.com/genricoloni/muro/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const (
	notifyService   = "org.freedesktop.Notifications"
	notifyPath      = "/org/freedesktop/Notifications"
	notifyMethod    = "org.freedesktop.Notifications.Notify"
	notifyTimeoutMs = int32(5000)
)

// DesktopNotifier posts notifications via org.freedesktop.Notifications
type DesktopNotifier struct {
	logger *zap.Logger
	conn   *dbus.Conn
}

// New connects to the session bus. Sessions without a bus (headless,
// non-Linux) fall back to a no-op notifier instead of failing startup.
func New(logger *zap.Logger) domain.Notifier {
	conn, err := dbus.SessionBus()
	if err != nil {
		logger.Debug("Session bus unavailable, notifications disabled", zap.Error(err))
		return NopNotifier{}
	}
	return &DesktopNotifier{logger: logger, conn: conn}
}

// Notify posts a transient desktop notification
func (n *DesktopNotifier) Notify(ctx context.Context, summary, body string) error {
	obj := n.conn.Object(notifyService, dbus.ObjectPath(notifyPath))
	call := obj.CallWithContext(ctx, notifyMethod, 0,
		"muro",                   // app_name
		uint32(0),                // replaces_id
		"",                       // app_icon
		summary,                  // summary
		body,                     // body
		[]string{},               // actions
		map[string]dbus.Variant{}, // hints
		notifyTimeoutMs,
	)
	if call.Err != nil {
		return fmt.Errorf("post notification: %w", call.Err)
	}
	return nil
}

// NopNotifier silently drops notifications
type NopNotifier struct{}

// Notify does nothing
func (NopNotifier) Notify(ctx context.Context, summary, body string) error {
	return nil
}
