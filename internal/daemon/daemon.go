package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmylchreest/anchortip/internal/config"
	"github.com/jmylchreest/anchortip/internal/dbus"
	"github.com/jmylchreest/anchortip/internal/display"
	"github.com/jmylchreest/anchortip/internal/theme"
	"github.com/jmylchreest/anchortip/internal/tooltip"
)

// Styler loads the rendered theme stylesheet into the host toolkit.
type Styler interface {
	ApplyCSS(css string)
}

// monitorSetter is implemented by hosts that can move to another output.
type monitorSetter interface {
	SetMonitor(monitor int)
}

// Options configure a Daemon.
type Options struct {
	Config     *config.Config
	ConfigPath string // empty uses config.ConfigPath()
	ThemesDir  string // empty uses theme.ThemesDir()

	Host   tooltip.Host
	Styler Styler // nil when the host needs no stylesheet
	Post   Poster
	// Dark reports whether the desktop prefers a dark scheme. Only
	// consulted when the configured color scheme is "system".
	Dark func() bool
	// Metrics converts the configured style to host units. Defaults to
	// tooltip.MetricsFromStyle.
	Metrics func(config.StyleConfig) tooltip.Metrics

	Version string
	Logger  *slog.Logger
}

// Daemon owns the display manager, the D-Bus server and the reloaders.
// Unless noted otherwise its methods must run on the UI loop.
type Daemon struct {
	ctx        context.Context
	logger     *slog.Logger
	cfg        *config.Config
	configPath string

	host    tooltip.Host
	styler  Styler
	post    Poster
	dark    func() bool
	metrics func(config.StyleConfig) tooltip.Metrics

	manager  *display.Manager
	themes   *theme.Loader
	notifier *InternalNotifier
	bridge   *bridge
	server   *dbus.TooltipServer
	watcher  *config.Watcher
}

// New wires the daemon's components. Nothing is started.
func New(opts Options) *Daemon {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	post := opts.Post
	if post == nil {
		post = func(fn func()) { fn() }
	}
	dark := opts.Dark
	if dark == nil {
		dark = func() bool { return false }
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = tooltip.MetricsFromStyle
	}

	d := &Daemon{
		ctx:        context.Background(),
		logger:     logger,
		cfg:        cfg,
		configPath: opts.ConfigPath,
		host:       opts.Host,
		styler:     opts.Styler,
		post:       post,
		dark:       dark,
		metrics:    metrics,
		themes:     theme.NewLoader(opts.ThemesDir, logger),
		notifier:   NewInternalNotifier(logger),
	}

	d.manager = display.NewManager(opts.Host, metrics(cfg.Style), cfg, logger)
	d.manager.SetPoster(post)

	d.bridge = &bridge{manager: d.manager, post: post, timeout: 5 * time.Second}

	d.server = dbus.NewTooltipServer(d.bridge, logger)
	info := dbus.DefaultServerInfo()
	if opts.Version != "" {
		info.Version = opts.Version
	}
	d.server.SetServerInfo(info)

	d.manager.SetShowCallback(func(id string) {
		if err := d.server.EmitShown(id); err != nil {
			logger.Debug("failed to emit shown signal", "tooltip_id", id, "error", err)
		}
	})
	d.manager.SetCloseCallback(func(id string, reason dbus.CloseReason) {
		if err := d.server.EmitDismissed(id, reason); err != nil {
			logger.Debug("failed to emit dismissed signal", "tooltip_id", id, "error", err)
		}
	})

	d.notifier.SetShowHandler(d.manager.Show)
	d.notifier.SetAnchor(d.topCenter)

	return d
}

// topCenter is the anchor of internal notifications.
func (d *Daemon) topCenter() tooltip.Target {
	vp, err := d.host.Viewport()
	if err != nil {
		return tooltip.PointTarget{}
	}
	return tooltip.PointTarget{X: vp.Width / 2, Y: 0}
}

// Manager returns the display manager.
func (d *Daemon) Manager() *display.Manager { return d.manager }

// Notifier returns the internal notifier.
func (d *Daemon) Notifier() *InternalNotifier { return d.notifier }

// Handler returns the D-Bus handler. Its methods may be called from any
// goroutine except the UI loop.
func (d *Daemon) Handler() dbus.Handler { return d.bridge }

// Config returns the current configuration.
func (d *Daemon) Config() *config.Config { return d.cfg }

// Start applies the theme, starts the hot reloaders and claims the bus
// name.
func (d *Daemon) Start(ctx context.Context) error {
	d.ctx = ctx
	d.ApplyTheme(d.themes.LoadTheme(d.cfg.Theme.Name))

	d.themes.SetChangeCallback(func(th *theme.Theme) {
		d.post(func() {
			d.ApplyTheme(th)
			d.notifier.NotifyThemeReloaded(th.Name)
		})
	})
	d.themes.StartHotReload(ctx)

	watcher, err := config.NewWatcher(d.configPath, d.cfg, d.logger)
	if err != nil {
		d.logger.Warn("failed to create config watcher", "error", err)
	} else {
		watcher.SetReloadCallback(func(cfg *config.Config) {
			d.post(func() { d.ApplyConfig(cfg) })
		})
		watcher.SetErrorCallback(func(err error) {
			d.post(func() { d.notifier.NotifyConfigError(err) })
		})
		if err := watcher.Start(); err != nil {
			d.logger.Warn("failed to start config watcher", "error", err)
		} else {
			d.watcher = watcher
		}
	}

	if err := d.server.Start(); err != nil {
		return err
	}

	d.logger.Info("anchortipd ready", "dbus_interface", dbus.Interface)
	return nil
}

// isDark resolves the configured color scheme.
func (d *Daemon) isDark() bool {
	switch config.ColorScheme(d.cfg.Theme.ColorScheme) {
	case config.ColorSchemeDark:
		return true
	case config.ColorSchemeLight:
		return false
	default:
		return d.dark()
	}
}

// ApplyTheme hands th to the display manager and loads its stylesheet.
func (d *Daemon) ApplyTheme(th *theme.Theme) {
	dark := d.isDark()
	d.manager.SetTheme(th, dark)

	if d.styler == nil {
		return
	}
	css, err := renderCSS(th, d.cfg.Style, d.metrics(d.cfg.Style), dark)
	if err != nil {
		d.logger.Warn("failed to render theme", "theme", th.Name, "error", err)
		d.notifier.NotifyThemeError(err)
		return
	}
	d.styler.ApplyCSS(css)
	d.logger.Debug("applied theme", "theme", th.Name, "dark", dark)
}

func renderCSS(th *theme.Theme, style config.StyleConfig, m tooltip.Metrics, dark bool) (string, error) {
	balloon, text, err := th.Colors(style, dark)
	if err != nil {
		return "", err
	}
	return th.RenderCSS(theme.CSSOptions{
		Balloon:           balloon,
		Text:              text,
		Border:            th.Palette(dark).BorderColor(balloon),
		CornerRadius:      m.CornerRadius,
		PaddingVertical:   m.PaddingVertical,
		PaddingHorizontal: m.PaddingHorizontal,
		TextSize:          m.TextSize,
		Bold:              style.Bold,
	})
}

// SchemeChanged re-applies the theme after the desktop switched between
// light and dark.
func (d *Daemon) SchemeChanged() {
	d.ApplyTheme(d.themes.Theme())
}

// ApplyConfig switches to a reloaded configuration.
func (d *Daemon) ApplyConfig(cfg *config.Config) {
	old := d.cfg
	d.cfg = cfg

	d.manager.UpdateConfig(cfg)
	d.manager.SetMetrics(d.metrics(cfg.Style))

	if cfg.Daemon.Monitor != old.Daemon.Monitor {
		if ms, ok := d.host.(monitorSetter); ok {
			ms.SetMonitor(cfg.Daemon.Monitor)
		}
	}

	th := d.themes.Theme()
	if cfg.Theme.Name != old.Theme.Name {
		d.themes.StopHotReload()
		th = d.themes.LoadTheme(cfg.Theme.Name)
		d.themes.StartHotReload(d.ctx)
		d.notifier.NotifyThemeReloaded(th.Name)
	}
	d.ApplyTheme(th)

	d.notifier.NotifyConfigReloaded()
}

// Stop closes every tooltip and releases the bus name.
func (d *Daemon) Stop() {
	d.themes.StopHotReload()
	if d.watcher != nil {
		if err := d.watcher.Stop(); err != nil {
			d.logger.Debug("config watcher stop", "error", err)
		}
		d.watcher = nil
	}
	d.manager.Stop()
	if err := d.server.Stop(); err != nil {
		d.logger.Warn("error stopping D-Bus server", "error", err)
	}
}
