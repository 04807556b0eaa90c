package dbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

// Handler carries out the calls received by the server. Methods are called
// from D-Bus goroutines.
type Handler interface {
	Show(req ShowRequest) (string, error)
	Dismiss(id string) bool
	List() []TooltipInfo
}

// errorName is the D-Bus error returned for failed calls.
const errorName = Interface + ".Error"

// TooltipServer implements the io.github.jmylchreest.Anchortip interface.
type TooltipServer struct {
	conn   *dbus.Conn
	logger *slog.Logger

	handler Handler

	mu         sync.RWMutex
	serverInfo ServerInfo
	running    bool
}

// NewTooltipServer creates a new TooltipServer.
func NewTooltipServer(handler Handler, logger *slog.Logger) *TooltipServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &TooltipServer{
		logger:     logger,
		handler:    handler,
		serverInfo: DefaultServerInfo(),
	}
}

// SetServerInfo sets the server information returned by GetServerInformation.
func (s *TooltipServer) SetServerInfo(info ServerInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serverInfo = info
}

// Start connects to the session bus and exports the tooltip service.
func (s *TooltipServer) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.mu.Unlock()

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	s.conn = conn

	if err := conn.Export(s, Path, Interface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: string(Path),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    Interface,
				Methods: tooltipMethods(),
				Signals: tooltipSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), Path,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", BusName)
	}

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	s.logger.Info("D-Bus tooltip server started", "interface", Interface, "path", Path)
	return nil
}

// Stop releases the bus name.
func (s *TooltipServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.conn != nil {
		if _, err := s.conn.ReleaseName(BusName); err != nil {
			s.logger.Warn("failed to release bus name", "error", err)
		}
		// The session bus connection is shared.
	}

	s.logger.Info("D-Bus tooltip server stopped")
	return nil
}

// GetServerInformation returns information about the tooltip server.
// D-Bus method: GetServerInformation() -> (sss)
func (s *TooltipServer) GetServerInformation() (string, string, string, *dbus.Error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.serverInfo.Name, s.serverInfo.Vendor, s.serverInfo.Version, nil
}

// ShowAt shows a tooltip pointing at a screen point.
// D-Bus method: ShowAt(iisa{sv}) -> s
func (s *TooltipServer) ShowAt(x, y int32, text string, options map[string]dbus.Variant) (string, *dbus.Error) {
	s.logger.Debug("ShowAt called", "x", x, "y", y)
	return s.show(ShowRequest{X: int(x), Y: int(y), Point: true, Text: text}, options)
}

// ShowRect shows a tooltip anchored to a screen rectangle.
// D-Bus method: ShowRect(iiiisa{sv}) -> s
func (s *TooltipServer) ShowRect(x, y, width, height int32, text string, options map[string]dbus.Variant) (string, *dbus.Error) {
	s.logger.Debug("ShowRect called", "x", x, "y", y, "width", width, "height", height)
	if width < 0 || height < 0 {
		return "", dbus.NewError(errorName, []any{"rectangle size must not be negative"})
	}
	return s.show(ShowRequest{X: int(x), Y: int(y), Width: int(width), Height: int(height), Text: text}, options)
}

func (s *TooltipServer) show(req ShowRequest, options map[string]dbus.Variant) (string, *dbus.Error) {
	if s.handler == nil {
		return "", dbus.NewError(errorName, []any{"no handler"})
	}
	opts, err := ParseOptions(options)
	if err != nil {
		return "", dbus.NewError(errorName, []any{err.Error()})
	}
	req.Options = opts

	id, err := s.handler.Show(req)
	if err != nil {
		s.logger.Warn("show failed", "error", err)
		return "", dbus.NewError(errorName, []any{err.Error()})
	}
	return id, nil
}

// Dismiss closes a tooltip. It returns false for unknown IDs.
// D-Bus method: Dismiss(s) -> b
func (s *TooltipServer) Dismiss(id string) (bool, *dbus.Error) {
	s.logger.Debug("Dismiss called", "tooltip_id", id)
	if s.handler == nil {
		return false, dbus.NewError(errorName, []any{"no handler"})
	}
	return s.handler.Dismiss(id), nil
}

// List returns the active tooltips, oldest first.
// D-Bus method: List() -> a(ssiix)
func (s *TooltipServer) List() ([]TooltipInfo, *dbus.Error) {
	if s.handler == nil {
		return nil, dbus.NewError(errorName, []any{"no handler"})
	}
	list := s.handler.List()
	if list == nil {
		list = []TooltipInfo{}
	}
	return list, nil
}

// tooltipMethods returns the D-Bus method introspection data.
func tooltipMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "GetServerInformation",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "out"},
				{Name: "vendor", Type: "s", Direction: "out"},
				{Name: "version", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "ShowAt",
			Args: []introspect.Arg{
				{Name: "x", Type: "i", Direction: "in"},
				{Name: "y", Type: "i", Direction: "in"},
				{Name: "text", Type: "s", Direction: "in"},
				{Name: "options", Type: "a{sv}", Direction: "in"},
				{Name: "id", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "ShowRect",
			Args: []introspect.Arg{
				{Name: "x", Type: "i", Direction: "in"},
				{Name: "y", Type: "i", Direction: "in"},
				{Name: "width", Type: "i", Direction: "in"},
				{Name: "height", Type: "i", Direction: "in"},
				{Name: "text", Type: "s", Direction: "in"},
				{Name: "options", Type: "a{sv}", Direction: "in"},
				{Name: "id", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "Dismiss",
			Args: []introspect.Arg{
				{Name: "id", Type: "s", Direction: "in"},
				{Name: "found", Type: "b", Direction: "out"},
			},
		},
		{
			Name: "List",
			Args: []introspect.Arg{
				{Name: "tooltips", Type: "a(ssiix)", Direction: "out"},
			},
		},
	}
}

// tooltipSignals returns the D-Bus signal introspection data.
func tooltipSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "Shown",
			Args: []introspect.Arg{
				{Name: "id", Type: "s"},
			},
		},
		{
			Name: "Dismissed",
			Args: []introspect.Arg{
				{Name: "id", Type: "s"},
				{Name: "reason", Type: "u"},
			},
		},
	}
}
