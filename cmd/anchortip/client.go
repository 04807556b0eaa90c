package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/anchortip/internal/dbus"
	"github.com/jmylchreest/anchortip/internal/tour"
)

const callTimeout = 10 * time.Second

var showOpts struct {
	color     string
	textColor string
	bold      bool
	noBold    bool
	keepOnTap bool
	timeout   time.Duration
	wait      bool
}

var listOpts struct {
	format string
}

var watchOpts struct {
	format string
}

var showCmd = &cobra.Command{
	Use:   "show <target> <text>",
	Short: "Show a tooltip through anchortipd",
	Long: `Ask a running anchortipd to show a tooltip and print its ID.

The target is point:x,y or rect:x,y,w,h in monitor coordinates.

Examples:
  anchortip show point:960,0 "Updates are ready"
  anchortip show rect:100,40,32,32 "Click to pair" --color '#1e66f5' --timeout 5s

  # Block until the tooltip goes away; Ctrl-C dismisses it
  anchortip show point:960,0 "Press any key" --wait`,
	Args: cobra.ExactArgs(2),
	RunE: runShow,
}

var dismissCmd = &cobra.Command{
	Use:   "dismiss <id>...",
	Short: "Dismiss tooltips shown by anchortipd",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDismiss,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tooltips anchortipd is showing",
	RunE:  runList,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print tooltip events as they happen",
	Long: `Print a line for every tooltip anchortipd shows or dismisses until
interrupted.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(showCmd, dismissCmd, listCmd, watchCmd)

	showCmd.Flags().StringVar(&showOpts.color, "color", "",
		"Balloon color as #rrggbb (default: theme)")
	showCmd.Flags().StringVar(&showOpts.textColor, "text-color", "",
		"Text color as #rrggbb (default: theme, or contrasting with --color)")
	showCmd.Flags().BoolVar(&showOpts.bold, "bold", false,
		"Bold text")
	showCmd.Flags().BoolVar(&showOpts.noBold, "no-bold", false,
		"Regular weight text")
	showCmd.Flags().BoolVar(&showOpts.keepOnTap, "keep-on-tap", false,
		"Do not dismiss the tooltip when it is tapped")
	showCmd.Flags().DurationVar(&showOpts.timeout, "timeout", -1,
		"Auto-dismiss after this long (0 = never, default: config)")
	showCmd.Flags().BoolVar(&showOpts.wait, "wait", false,
		"Wait until the tooltip is dismissed")
	showCmd.MarkFlagsMutuallyExclusive("bold", "no-bold")

	listCmd.Flags().StringVarP(&listOpts.format, "format", "f", formatPlain,
		"Output format (plain, json, yaml)")
	watchCmd.Flags().StringVarP(&watchOpts.format, "format", "f", formatPlain,
		"Output format (plain, json)")
}

func connect() (*dbus.Client, error) {
	client, err := dbus.Connect()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	running, err := client.Running(ctx)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	if !running {
		_ = client.Close()
		return nil, errors.New("anchortipd is not running")
	}
	return client, nil
}

func showOptions() dbus.Options {
	opts := dbus.DefaultOptions()
	opts.Color = showOpts.color
	opts.TextColor = showOpts.textColor
	switch {
	case showOpts.bold:
		opts.Bold = &showOpts.bold
	case showOpts.noBold:
		regular := false
		opts.Bold = &regular
	}
	if showOpts.keepOnTap {
		keep := false
		opts.DismissOnTap = &keep
	}
	if showOpts.timeout >= 0 {
		opts.Timeout = showOpts.timeout
	}
	return opts
}

// showTarget sends a show call for a point or rect target.
func showTarget(ctx context.Context, client *dbus.Client, target, text string, opts dbus.Options) (string, error) {
	spec, err := tour.ParseTarget(target)
	if err != nil {
		return "", err
	}
	switch spec.Kind {
	case tour.TargetPoint:
		if spec.Width != 0 || spec.Height != 0 {
			x, y := spec.X-spec.Width/2, spec.Y-spec.Height/2
			return client.ShowRect(ctx, x, y, spec.Width, spec.Height, text, opts)
		}
		return client.ShowAt(ctx, spec.X, spec.Y, text, opts)
	case tour.TargetRect:
		return client.ShowRect(ctx, spec.X, spec.Y, spec.Width, spec.Height, text, opts)
	}
	return "", fmt.Errorf("target %s: anchortipd only takes point and rect targets", spec)
}

func runShow(cmd *cobra.Command, args []string) error {
	client, err := connect()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if !showOpts.wait {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		id, err := showTarget(ctx, client, args[0], args[1], showOptions())
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Subscribe first so the dismissal of a short-lived tooltip is not missed.
	sub, err := client.Subscribe(ctx, logger)
	if err != nil {
		return err
	}
	defer func() { _ = sub.Close() }()

	id, err := showTarget(ctx, client, args[0], args[1], showOptions())
	if err != nil {
		return err
	}
	fmt.Println(id)

	done := make(chan dbus.CloseReason, 1)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			ev, ok := sub.Next(gctx)
			if !ok {
				if ctx.Err() == nil && gctx.Err() == nil {
					return errors.New("lost connection to anchortipd")
				}
				return nil
			}
			if ev.Kind == dbus.EventDismissed && ev.ID == id {
				done <- ev.Reason
				return nil
			}
		}
	})
	g.Go(func() error {
		select {
		case reason := <-done:
			logger.Debug("tooltip closed", "tooltip_id", id, "reason", reason.String())
			return nil
		case <-gctx.Done():
		}
		// Interrupted: take the tooltip down with us.
		dctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		_, err := client.Dismiss(dctx, id)
		return err
	})
	return g.Wait()
}

func runDismiss(cmd *cobra.Command, args []string) error {
	client, err := connect()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	var missing []string
	for _, id := range args {
		found, err := client.Dismiss(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("no such tooltip: %v", missing)
	}
	return nil
}

// listEntry is a List reply entry for JSON and YAML output.
type listEntry struct {
	ID        string    `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	X         int32     `json:"x" yaml:"x"`
	Y         int32     `json:"y" yaml:"y"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

func runList(cmd *cobra.Command, args []string) error {
	client, err := connect()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	infos, err := client.List(ctx)
	if err != nil {
		return err
	}

	entries := make([]listEntry, len(infos))
	for i, info := range infos {
		entries[i] = listEntry{
			ID:        info.ID,
			Text:      info.Text,
			X:         info.X,
			Y:         info.Y,
			CreatedAt: info.CreatedAt(),
		}
	}

	return writeFormatted(os.Stdout, listOpts.format, entries, func(w io.Writer) error {
		return printList(w, infos)
	})
}

func printList(w io.Writer, infos []dbus.TooltipInfo) error {
	if len(infos) == 0 {
		_, err := fmt.Fprintln(w, "No tooltips")
		return err
	}
	for _, info := range infos {
		_, err := fmt.Fprintf(w, "%s  %5d,%-5d  %-14s  %s\n",
			info.ID, info.X, info.Y, humanize.Time(info.CreatedAt()), info.Text)
		if err != nil {
			return err
		}
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchOpts.format == formatYAML {
		return fmt.Errorf("watch prints one event per line: use plain or json")
	}

	client, err := dbus.Connect()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return client.Watch(ctx, logger, func(ev dbus.Event) {
		err := writeFormatted(os.Stdout, watchOpts.format, ev, func(w io.Writer) error {
			return printEvent(w, ev)
		})
		if err != nil {
			logger.Warn("failed to print event", "error", err)
		}
	})
}

func printEvent(w io.Writer, ev dbus.Event) error {
	line := fmt.Sprintf("%s %s %s", time.Now().Format(time.TimeOnly), ev.Kind, ev.ID)
	if ev.Kind == dbus.EventDismissed {
		line += " (" + ev.Reason.String() + ")"
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
