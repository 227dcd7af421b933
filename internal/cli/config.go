package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pfrederiksen/campus-events/internal/filter"
	"github.com/pfrederiksen/campus-events/internal/scraper"
)

const (
	envPrefix      = "CAMPUS_EVENTS"
	configName     = ".campus-events"
	defaultDataDir = "~/.local/share/campus-events"
)

// Config holds the resolved settings for one run.
type Config struct {
	Input          string
	DataDir        string
	Feed           string
	Format         OutputFormat
	Sort           SortOrder
	Rules          string
	Concurrency    int
	FreeFoodOnly   bool
	IncludeHousing bool
	Categories     []string
	Search         string
	Dates          string
	WeekendsOnly   bool
	All            bool
	Refresh        bool
	NotifyWebhook  string
	NotifyDryRun   bool
	Pretty         bool
	Verbose        bool
}

func defineFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("config", "", "config file (default $HOME/.campus-events.yaml)")
	f.StringP("input", "i", "", "listings JSON file (default stdin)")
	f.String("data-dir", defaultDataDir, "Data directory for snapshots")
	f.String("feed", "all", "Snapshot name, for tracking several listing sources separately")
	f.String("format", string(FormatText), "Output format: text, json or ics")
	f.String("sort", string(SortByDate), "Sort order: date, title or category")
	f.String("rules", "", "YAML file overriding the classifier keyword rules")
	f.Int("concurrency", scraper.DefaultConcurrency, "Listings processed in parallel")
	f.Bool("free-food-only", true, "Only report events with free food")
	f.Bool("include-housing", false, "Include events restricted to residents")
	f.StringSlice("category", nil, "Only report events whose category contains one of these")
	f.String("search", "", "Only report events whose title or description contains this text")
	f.String("dates", "", "Date range, e.g. 'Oct 1-15', 'October', 'week'")
	f.Bool("weekends-only", false, "Only report events on Saturday or Sunday")
	f.Bool("all", false, "Report every matching event, not only new ones")
	f.Bool("refresh", false, "Refresh snapshot without showing new events")
	f.String("notify-webhook", "", "Post new matching events to this incoming webhook URL")
	f.Bool("notify-dry-run", false, "Print notifications to stderr instead of posting them")
	f.Bool("pretty", false, "Human-readable log output instead of JSON")
	f.BoolP("verbose", "v", false, "Enable verbose logging")
}

// loadConfig resolves flags, environment and config file into a Config.
func loadConfig(cmd *cobra.Command) (*Config, error) {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", cfgFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	cfg := &Config{
		Input:          v.GetString("input"),
		DataDir:        v.GetString("data-dir"),
		Feed:           v.GetString("feed"),
		Format:         OutputFormat(strings.ToLower(v.GetString("format"))),
		Sort:           SortOrder(strings.ToLower(v.GetString("sort"))),
		Rules:          v.GetString("rules"),
		Concurrency:    v.GetInt("concurrency"),
		FreeFoodOnly:   v.GetBool("free-food-only"),
		IncludeHousing: v.GetBool("include-housing"),
		Categories:     v.GetStringSlice("category"),
		Search:         v.GetString("search"),
		Dates:          v.GetString("dates"),
		WeekendsOnly:   v.GetBool("weekends-only"),
		All:            v.GetBool("all"),
		Refresh:        v.GetBool("refresh"),
		NotifyWebhook:  v.GetString("notify-webhook"),
		NotifyDryRun:   v.GetBool("notify-dry-run"),
		Pretty:         v.GetBool("pretty"),
		Verbose:        v.GetBool("verbose"),
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.Format {
	case FormatText, FormatJSON, FormatICS:
	default:
		return fmt.Errorf("invalid format: %s (must be 'text', 'json' or 'ics')", c.Format)
	}

	switch c.Sort {
	case SortByDate, SortByTitle, SortByCategory:
	default:
		return fmt.Errorf("invalid sort: %s (must be 'date', 'title' or 'category')", c.Sort)
	}

	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}

	return nil
}

// Filter builds the event filter the settings describe.
func (c *Config) Filter(now time.Time) (*filter.Filter, error) {
	f := filter.NewFilter()
	f.FreeFoodOnly = c.FreeFoodOnly
	f.ExcludeHousing = !c.IncludeHousing
	f.Search = c.Search
	f.WeekendsOnly = c.WeekendsOnly

	for _, cat := range c.Categories {
		if cat = strings.TrimSpace(cat); cat != "" {
			f.Categories = append(f.Categories, cat)
		}
	}

	if c.Dates != "" {
		from, to, err := filter.ParseDateRange(c.Dates, now)
		if err != nil {
			return nil, fmt.Errorf("parsing --dates: %w", err)
		}
		f.DateFrom, f.DateTo = from, to
	}

	return f, nil
}
