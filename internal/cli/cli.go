package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/campus-events/internal/classify"
	"github.com/pfrederiksen/campus-events/internal/event"
	"github.com/pfrederiksen/campus-events/internal/logger"
	"github.com/pfrederiksen/campus-events/internal/notifier"
	"github.com/pfrederiksen/campus-events/internal/scraper"
	"github.com/pfrederiksen/campus-events/internal/storage"
)

const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitNewEvents = 2
)

// app carries the streams and outcome of one invocation.
type app struct {
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	now      func() time.Time
	exitCode int
}

// NewRootCmd creates the root command writing to the given streams.
func NewRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	return newApp(stdin, stdout, stderr).rootCmd()
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		now:    time.Now,
	}
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campus-events",
		Short: "Find newly-posted campus events with free food",
		Long: `A CLI tool that processes event listings captured from the campus
events platform. It cleans each event's description, flags free food and
residents-only events, and reports only events that are new since the
last run.

Examples:
  # Report new free-food events open to everyone
  campus-events -i listings.json

  # Every event this week, as JSON
  campus-events -i listings.json --all --free-food-only=false --dates week --format json

  # Subscribe-able calendar of free food, residents-only events included
  campus-events -i listings.json --all --include-housing --format ics > food.ics`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return a.run(cmd.Context(), cfg)
		},
	}
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	defineFlags(cmd)

	return cmd
}

// run is the main command logic
func (a *app) run(ctx context.Context, cfg *Config) error {
	log := a.newLogger(cfg)
	metrics := logger.NewMetrics()
	now := a.now()

	eventFilter, err := cfg.Filter(now)
	if err != nil {
		return err
	}

	classifier := classify.Default()
	if cfg.Rules != "" {
		rules, err := classify.LoadRules(cfg.Rules)
		if err != nil {
			return fmt.Errorf("loading rules: %w", err)
		}
		classifier = classify.New(rules)
		log.Debug("loaded classifier rules", logger.Fields{"path": cfg.Rules})
	}

	listings, err := a.readListings(cfg.Input)
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	log.Debug("using data directory", logger.Fields{"data_dir": store.Dir(), "feed": cfg.Feed})

	processor := scraper.New(classifier,
		scraper.WithConcurrency(cfg.Concurrency),
		scraper.WithLogger(log),
		scraper.WithMetrics(metrics),
	)

	events, err := processor.ProcessAll(ctx, listings)
	if err != nil {
		return err
	}

	previous, err := store.LoadSnapshot(cfg.Feed)
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}
	log.Debug("loaded previous snapshot", logger.Fields{"events": len(previous.Events)})

	diff := event.Diff(previous, events)
	newMatches := eventFilter.Apply(diff.NewEvents)

	// Notify before saving so a failed post is retried on the next run.
	if !cfg.Refresh && len(newMatches) > 0 {
		if err := a.notify(ctx, cfg, newMatches); err != nil {
			return err
		}
	}

	changes, err := store.CreateSnapshotFromEvents(events, previous, cfg.Feed)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	log.Info("processed listings", logger.Fields{
		"listings":    len(listings),
		"new_events":  len(diff.NewEvents),
		"new_matches": len(newMatches),
		"changes":     len(changes),
	})
	log.Debug("metrics", metrics.Snapshot().Fields())

	// In refresh mode, don't output new events
	if cfg.Refresh {
		a.exitCode = ExitSuccess
		if cfg.Format == FormatText {
			fmt.Fprintln(a.stdout, "Snapshot refreshed successfully.")
			return nil
		}
		return WriteOutput(a.stdout, newOutputResult(now, cfg, nil), cfg.Format, cfg.Verbose)
	}

	reported := newMatches
	if cfg.All {
		reported = eventFilter.Apply(events)
	}
	// Apply hands back its input when the filter is empty.
	reported = append([]*event.Event(nil), reported...)
	sortEvents(reported, cfg.Sort)

	result := newOutputResult(now, cfg, reported)
	result.Filter = eventFilter.String()

	if err := WriteOutput(a.stdout, result, cfg.Format, cfg.Verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if len(newMatches) > 0 {
		a.exitCode = ExitNewEvents
	} else {
		a.exitCode = ExitSuccess
	}
	return nil
}

func (a *app) notify(ctx context.Context, cfg *Config, events []*event.Event) error {
	var n notifier.Notifier
	switch {
	case cfg.NotifyDryRun:
		n = notifier.NewDryRunNotifier(a.stderr)
	case cfg.NotifyWebhook != "":
		wh, err := notifier.NewWebhookNotifier(cfg.NotifyWebhook)
		if err != nil {
			return fmt.Errorf("configuring webhook: %w", err)
		}
		n = wh
	default:
		return nil
	}

	if err := n.Notify(ctx, events); err != nil {
		return fmt.Errorf("notifying: %w", err)
	}
	return nil
}

func (a *app) newLogger(cfg *Config) *logger.Logger {
	level := logger.LevelWarn
	if cfg.Verbose {
		level = logger.LevelDebug
	}
	if cfg.Pretty {
		return logger.NewConsole(level, a.stderr)
	}
	return logger.New(level, a.stderr)
}

func (a *app) readListings(path string) ([]scraper.RawListing, error) {
	in := a.stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening listings: %w", err)
		}
		defer f.Close()
		in = f
	}

	listings, err := scraper.ReadListings(in)
	if err != nil {
		if errors.Is(err, scraper.ErrNoListings) {
			return nil, fmt.Errorf("%w (pass --input or pipe JSON on stdin)", err)
		}
		return nil, err
	}
	return listings, nil
}

// Run executes the command with args and returns the process exit code.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := newApp(stdin, stdout, stderr)
	cmd := a.rootCmd()
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}
	return a.exitCode
}

// Execute runs the CLI against the process's arguments and streams. An
// interrupt cancels processing.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}
