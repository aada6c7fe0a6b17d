// Package runner wires one check of the recent-decisions page: load, decode,
// filter, diff against the stored state, notify, save.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wavewatch/wavewatch/pkg/decisions"
	"github.com/wavewatch/wavewatch/pkg/grid"
	"github.com/wavewatch/wavewatch/pkg/loader"
	"github.com/wavewatch/wavewatch/pkg/notify"
	"github.com/wavewatch/wavewatch/pkg/storage"
)

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// nopLogger silently discards all messages.
type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// FilterConfig is the watch-list part of the configuration.
type FilterConfig struct {
	Schools []string
	Enabled bool
}

// Config holds everything Run needs for a single check.
type Config struct {
	Loader   loader.Loader
	Notifier notify.Notifier
	Store    storage.Store
	Filter   FilterConfig

	SourceURL string

	// Notification fields; Body is filled in from the changes.
	Topic    string
	Title    string
	Priority notify.Priority
	Tags     string

	// DryRun skips both the notification and the state save.
	DryRun bool

	Now func() time.Time // optional; defaults to time.Now
	Log Logger           // optional; nil = no logging
}

// Result holds the outcome of one check.
type Result struct {
	Summary   map[string]int
	TotalRows int
	Matched   int
	Changes   []decisions.ChangeEvent
	Message   string
	Notified  bool
	NotifyErr error // delivery failure; not fatal
	Saved     bool
}

// Run performs one check. Errors from loading, decoding or reading the state
// abort the run before anything is written. A failed notification is
// reported in Result.NotifyErr and the state is saved anyway.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	log := cfg.Log
	if log == nil {
		log = nopLogger{}
	}
	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}
	if cfg.Loader == nil || cfg.Store == nil {
		return nil, errors.New("runner: loader and store are required")
	}
	started := now()

	log.Infof("Loading %s ...", cfg.SourceURL)
	page, err := cfg.Loader.Load(ctx, cfg.SourceURL)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, fmt.Errorf("%w: loader returned no page", loader.ErrPageLoad)
	}

	records, err := grid.Decode(page.RawGrid)
	if err != nil {
		return nil, err
	}

	result := &Result{Summary: page.Summary, TotalRows: len(records)}
	log.Infof("Today's summary: %v (total: %d)", page.Summary, summaryTotal(page.Summary))
	log.Infof("Aggregated rows in grid: %d", len(records))

	filtered := decisions.Filter(records, cfg.Filter.Schools, cfg.Filter.Enabled)
	result.Matched = len(filtered)
	if cfg.Filter.Enabled {
		log.Infof("Rows matching watched schools: %d", len(filtered))
	}

	prev, err := cfg.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}

	result.Changes = decisions.Diff(filtered, prev.Decisions)
	if len(result.Changes) == 0 {
		log.Infof("No new waves. All quiet.")
	} else {
		result.Message = decisions.Format(result.Changes)
		log.Infof("%d new/updated wave(s) detected", len(result.Changes))
		for _, c := range result.Changes {
			log.Debugf("change: %+v", c)
		}

		switch {
		case cfg.DryRun:
			log.Infof("Dry run, not sending:\n%s", result.Message)
		case cfg.Notifier == nil:
			log.Warnf("No notifier configured, not sending:\n%s", result.Message)
		default:
			err := cfg.Notifier.Send(ctx, notify.Message{
				Topic:    cfg.Topic,
				Title:    cfg.Title,
				Priority: cfg.Priority,
				Tags:     cfg.Tags,
				ClickURL: cfg.SourceURL,
				Body:     result.Message,
			})
			if err != nil {
				log.Errorf("Sending notification: %v", err)
				result.NotifyErr = err
			} else {
				log.Infof("Notification sent to topic %s", cfg.Topic)
				result.Notified = true
			}
		}
	}

	if cfg.DryRun {
		return result, nil
	}

	if err := cfg.Store.Save(storage.NewRunState(started, page.Summary, filtered)); err != nil {
		return result, fmt.Errorf("saving state: %w", err)
	}
	result.Saved = true
	return result, nil
}

func summaryTotal(summary map[string]int) int {
	total := 0
	for _, v := range summary {
		total += v
	}
	return total
}
