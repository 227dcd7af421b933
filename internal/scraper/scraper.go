package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pfrederiksen/campus-events/internal/category"
	"github.com/pfrederiksen/campus-events/internal/classify"
	"github.com/pfrederiksen/campus-events/internal/detail"
	"github.com/pfrederiksen/campus-events/internal/dom"
	"github.com/pfrederiksen/campus-events/internal/entity"
	"github.com/pfrederiksen/campus-events/internal/event"
	"github.com/pfrederiksen/campus-events/internal/logger"
)

const (
	// UnavailableDescription replaces a description whose markup failed to parse.
	UnavailableDescription = "Description unavailable."

	// DefaultConcurrency bounds ProcessAll when no option overrides it.
	DefaultConcurrency = 8
)

// ErrNoListings is returned by ReadListings when the input holds no listings.
var ErrNoListings = errors.New("no listings in input")

var titleWhitespace = regexp.MustCompile(`\s+`)

// RawListing is one event exactly as captured from the platform.
type RawListing struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	CategoryHTML string `json:"category_html"`
	DateHTML     string `json:"date_html"`
	DetailHTML   string `json:"detail_html"`
}

// Processor converts RawListings into events. It is safe for concurrent use.
type Processor struct {
	parser      dom.Parser
	detailOpts  detail.Options
	describer   *detail.Describer
	concurrency int
	log         *logger.Logger
	metrics     *logger.Metrics
}

// Option configures a Processor.
type Option func(*Processor)

// WithConcurrency sets the maximum number of listings processed at once.
func WithConcurrency(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithLogger sets the logger used for per-listing failures.
func WithLogger(l *logger.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.log = l
		}
	}
}

// WithMetrics sets the metrics tracker.
func WithMetrics(m *logger.Metrics) Option {
	return func(p *Processor) {
		if m != nil {
			p.metrics = m
		}
	}
}

// WithParser replaces the HTML parser used for all three fragments.
func WithParser(parser dom.Parser) Option {
	return func(p *Processor) {
		if parser != nil {
			p.parser = parser
		}
	}
}

// WithDetailOptions overrides the detail-card selectors.
func WithDetailOptions(opts detail.Options) Option {
	return func(p *Processor) {
		p.detailOpts = opts
	}
}

// New creates a Processor that classifies with classifier (classify.Default
// when nil).
func New(classifier *classify.Classifier, opts ...Option) *Processor {
	p := &Processor{
		parser:      dom.HTMLParser{},
		detailOpts:  detail.DefaultOptions(),
		concurrency: DefaultConcurrency,
		log:         logger.Default(),
		metrics:     logger.DefaultMetrics(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.describer = detail.NewDescriber(p.parser, classifier, p.detailOpts)
	return p
}

// Process converts one listing. The returned event is never nil: a fragment
// that fails to parse degrades that field (an empty category or date, or
// UnavailableDescription) and the failures are returned joined in err.
func (p *Processor) Process(l RawListing) (*event.Event, error) {
	start := time.Now()
	defer func() { p.metrics.RecordTiming("scraper.listing", time.Since(start)) }()

	title := strings.TrimSpace(titleWhitespace.ReplaceAllString(entity.Decode(l.Title), " "))
	evt := event.NewEvent(l.ID, title, strings.TrimSpace(l.URL))

	var errs []error

	cat, err := category.ExtractWith(p.parser, l.CategoryHTML)
	if err != nil {
		errs = append(errs, fmt.Errorf("extracting category: %w", err))
	}
	evt.Category = cat

	date, err := event.ParseDateInfoWith(p.parser, l.DateHTML)
	if err != nil {
		errs = append(errs, fmt.Errorf("parsing date: %w", err))
	}
	evt.SetDate(date)

	desc, err := p.describer.Describe(l.DetailHTML, evt.Category)
	if err != nil {
		errs = append(errs, fmt.Errorf("extracting description: %w", err))
		desc = &detail.Description{Text: UnavailableDescription}
	}
	evt.Description = desc.Text
	evt.HasFreeFood = desc.HasFreeFood
	evt.IsHousingOnly = desc.IsHousingOnly
	evt.FoodMatches = desc.FoodMatches

	p.metrics.IncrCounter("scraper.listings")
	if evt.HasFreeFood {
		p.metrics.IncrCounter("scraper.free_food")
	}
	if evt.IsHousingOnly {
		p.metrics.IncrCounter("scraper.housing_only")
	}

	if len(errs) > 0 {
		p.metrics.IncrCounter("scraper.failures")
		return evt, errors.Join(errs...)
	}
	return evt, nil
}

// ProcessAll converts listings concurrently and returns events in input
// order. A failing listing is logged and kept in degraded form rather than
// aborting the batch; only context cancellation is returned as an error.
func (p *Processor) ProcessAll(ctx context.Context, listings []RawListing) ([]*event.Event, error) {
	start := time.Now()
	events := make([]*event.Event, len(listings))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, l := range listings {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			evt, err := p.Process(l)
			if err != nil {
				p.log.Warn("listing processed with errors", logger.Fields{
					"event_id": evt.ID,
					"title":    evt.Title,
					"error":    err.Error(),
				})
			}
			events[i] = evt
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("processing listings: %w", err)
	}

	elapsed := time.Since(start)
	p.metrics.RecordTiming("scraper.batch", elapsed)
	p.log.Debug("processed listings", logger.Fields{
		"count":       len(events),
		"concurrency": p.concurrency,
		"elapsed":     elapsed.String(),
	})

	return events, nil
}

// ReadListings decodes a JSON array of listings. An object with a
// "listings" array is accepted too.
func ReadListings(r io.Reader) ([]RawListing, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading listings: %w", err)
	}

	var listings []RawListing
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, ErrNoListings
	}
	if strings.HasPrefix(trimmed, "{") {
		var wrapper struct {
			Listings []RawListing `json:"listings"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("parsing listings: %w", err)
		}
		listings = wrapper.Listings
	} else if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("parsing listings: %w", err)
	}

	if len(listings) == 0 {
		return nil, ErrNoListings
	}
	return listings, nil
}
