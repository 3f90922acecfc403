// Package scancache keeps the latest WiFi scan available to readers that
// must not block on a scan in progress.
package scancache

import (
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wifimgr/wifimgr/wifi"
)

const (
	DefaultInterval = 5 * time.Second
	MinInterval     = time.Second
)

// Scanner performs one blocking scan.
type Scanner interface {
	Scan() ([]wifi.ScanResult, error)
}

// Observer is called with every successful scan, from the scanning goroutine.
type Observer func(results []wifi.ScanResult)

// MetricsView is a read-only snapshot safe to copy.
type MetricsView struct {
	Scans          uint64
	Failures       uint64
	LastDurationMS int64
	LastScan       time.Time
}

// Cache runs at most one background scanning goroutine and holds the most
// recent result in a single slot that every scan replaces.
type Cache struct {
	scanner   Scanner
	logger    *slog.Logger
	observers []Observer

	interval atomic.Int64 // nanoseconds
	running  atomic.Bool
	slot     atomic.Pointer[[]wifi.ScanResult]

	mu        sync.Mutex
	stopCh    chan struct{}
	doneCh    chan struct{}
	autoStop  *time.Timer
	idleStop  time.Duration // overrides the idle timeout when set
	scans     uint64
	failures  uint64
	lastDurMS int64
	lastScan  time.Time
}

// New constructs but does not start a Cache.
func New(scanner Scanner, interval time.Duration, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{
		scanner: scanner,
		logger:  logger.With("component", "scancache"),
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	c.SetInterval(interval)
	return c
}

// Observe registers fn for every completed scan. Call before Start.
func (c *Cache) Observe(fn Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Interval returns the pause between scans.
func (c *Cache) Interval() time.Duration {
	return time.Duration(c.interval.Load())
}

// SetInterval changes the pause between scans, clamped to at least MinInterval.
func (c *Cache) SetInterval(d time.Duration) {
	if d < MinInterval {
		d = MinInterval
	}
	c.interval.Store(int64(d))
}

// Running reports whether the scanning goroutine is active.
func (c *Cache) Running() bool { return c.running.Load() }

// Start launches the scanning goroutine. It does nothing if one is running,
// except that a cache woken by Latest now runs until Stop.
func (c *Cache) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.autoStop != nil {
		c.autoStop.Stop()
		c.autoStop = nil
	}
	c.start()
}

// start launches the goroutine if none is running. c.mu must be held.
func (c *Cache) start() bool {
	if !c.running.CompareAndSwap(false, true) {
		return false
	}
	c.stopCh = make(chan struct{})
	c.doneCh = make(chan struct{})
	go c.loop(c.stopCh, c.doneCh)
	c.logger.Debug("scanning started", "interval", c.Interval())
	return true
}

// Stop asks the scanning goroutine to exit and waits for it. A scan in
// progress completes first. Stop on a stopped Cache does nothing.
func (c *Cache) Stop() { c.stop(nil) }

// stop halts the goroutine. A non-nil timer only stops the cache while it
// is still the pending idle timer.
func (c *Cache) stop(timer *time.Timer) {
	c.mu.Lock()
	if timer != nil && c.autoStop != timer {
		c.mu.Unlock()
		return
	}
	if c.autoStop != nil {
		c.autoStop.Stop()
		c.autoStop = nil
	}
	if !c.running.CompareAndSwap(true, false) {
		c.mu.Unlock()
		return
	}
	stopCh, doneCh := c.stopCh, c.doneCh
	close(stopCh)
	c.mu.Unlock()

	<-doneCh
	c.logger.Debug("scanning stopped")
}

// Latest returns a copy of the most recent scan without waiting. If the
// cache is idle it starts scanning and stops again after ten and a half
// intervals unless Start is called in the meantime.
func (c *Cache) Latest() []wifi.ScanResult {
	if !c.Running() {
		c.mu.Lock()
		if c.start() {
			c.armAutoStop()
		}
		c.mu.Unlock()
	}
	p := c.slot.Load()
	if p == nil {
		return []wifi.ScanResult{}
	}
	return slices.Clone(*p)
}

// Peek returns the most recent scan without starting the goroutine.
func (c *Cache) Peek() []wifi.ScanResult {
	p := c.slot.Load()
	if p == nil {
		return []wifi.ScanResult{}
	}
	return slices.Clone(*p)
}

// armAutoStop schedules the idle stop. c.mu must be held.
func (c *Cache) armAutoStop() {
	d := c.Interval()*10 + c.Interval()/2
	if c.idleStop > 0 {
		d = c.idleStop
	}
	if c.autoStop != nil {
		c.autoStop.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(d, func() {
		c.mu.Lock()
		t := timer
		c.mu.Unlock()
		c.logger.Debug("idle scan timeout reached", "after", d)
		c.stop(t)
	})
	c.autoStop = timer
}

// MetricsSnapshot returns a copy of current counters.
func (c *Cache) MetricsSnapshot() MetricsView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return MetricsView{
		Scans:          c.scans,
		Failures:       c.failures,
		LastDurationMS: c.lastDurMS,
		LastScan:       c.lastScan,
	}
}

func (c *Cache) loop(stopCh, doneCh chan struct{}) {
	defer close(doneCh)
	for {
		c.scanOnce()

		select {
		case <-stopCh:
			return
		case <-time.After(c.Interval()):
		}
	}
}

func (c *Cache) scanOnce() {
	start := time.Now()
	results, err := c.scanner.Scan()
	dur := time.Since(start)

	if err != nil && !errors.Is(err, wifi.ErrNoAccessPoints) {
		c.mu.Lock()
		c.failures++
		c.mu.Unlock()
		c.logger.Warn("scan failed", "error", err)
		return
	}
	if results == nil {
		results = []wifi.ScanResult{}
	}
	wifi.FillQuality(results)
	wifi.SortScanResults(results)
	c.slot.Store(&results)

	c.mu.Lock()
	c.scans++
	c.lastDurMS = dur.Milliseconds()
	c.lastScan = start
	observers := slices.Clone(c.observers)
	c.mu.Unlock()

	c.logger.Debug("scan complete", "networks", len(results), "duration", dur)
	for _, fn := range observers {
		fn(slices.Clone(results))
	}
}
