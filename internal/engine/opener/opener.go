// Package opener opens generated URLs in the browser, one at a time, with a
// fixed delay between opens.
package opener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/rendis/skintap/internal/engine/batch"
	"github.com/rendis/skintap/internal/model"
)

const DefaultDelay = 250 * time.Millisecond

// ErrNoURL is returned by OpenOne for an entry its market skipped.
var ErrNoURL = errors.New("market produced no URL")

// Browser opens a single URL.
type Browser interface {
	Open(ctx context.Context, url string) error
}

// SystemBrowser hands URLs to the OS default browser.
type SystemBrowser struct{}

func (SystemBrowser) Open(ctx context.Context, url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", url)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", cmd.Path, err)
	}
	// Reap the launcher without blocking the next open.
	go cmd.Wait() //nolint:errcheck
	return nil
}

type Stats struct {
	Total   int
	Opened  atomic.Int64
	Failed  atomic.Int64
	Skipped atomic.Int64
}

// Event reports the outcome of one entry.
type Event struct {
	Index   int
	Market  model.MarketID
	URL     string
	Skipped bool
	Err     error
}

type Opener struct {
	browser Browser
	delay   time.Duration
	logger  *slog.Logger
}

func New(b Browser, delay time.Duration, logger *slog.Logger) *Opener {
	if b == nil {
		b = SystemBrowser{}
	}
	if delay < 0 {
		delay = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Opener{browser: b, delay: delay, logger: logger.With("component", "opener")}
}

// Open opens every entry with a URL in order. An open failure is logged and
// counted; the remaining entries are still opened. onEach may be nil.
// The returned error is non-nil only when ctx was cancelled.
func (o *Opener) Open(ctx context.Context, entries []batch.Entry, onEach func(Event)) (*Stats, error) {
	stats := &Stats{Total: len(entries)}

	limit := rate.Inf
	if o.delay > 0 {
		limit = rate.Every(o.delay)
	}
	limiter := rate.NewLimiter(limit, 1)

	notify := func(ev Event) {
		if onEach != nil {
			onEach(ev)
		}
	}

	for i, e := range entries {
		if !e.OK() {
			stats.Skipped.Add(1)
			notify(Event{Index: i, Market: e.Market, Skipped: true, Err: e.Err})
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			o.logger.Info("opening stopped", "opened", stats.Opened.Load(), "remaining", len(entries)-i)
			return stats, ctx.Err()
		}

		err := o.browser.Open(ctx, e.URL)
		if err != nil {
			stats.Failed.Add(1)
			o.logger.Error("opening tab failed", "market", e.Market, "err", err)
		} else {
			stats.Opened.Add(1)
			o.logger.Debug("tab opened", "market", e.Market)
		}
		notify(Event{Index: i, Market: e.Market, URL: e.URL, Err: err})
	}
	return stats, nil
}

// OpenOne opens a single entry immediately, outside any pacing.
func (o *Opener) OpenOne(ctx context.Context, e batch.Entry) error {
	if !e.OK() {
		return ErrNoURL
	}
	if err := o.browser.Open(ctx, e.URL); err != nil {
		o.logger.Error("opening tab failed", "market", e.Market, "err", err)
		return err
	}
	o.logger.Debug("tab opened", "market", e.Market)
	return nil
}
