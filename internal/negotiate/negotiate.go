// Package negotiate joins the first reachable network from an ordered list
// of saved credentials.
package negotiate

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wifimgr/wifimgr/internal/credstore"
	"github.com/wifimgr/wifimgr/wifi"
)

const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultSettleDelay  = 250 * time.Millisecond
)

var (
	// ErrTimeout is returned when no candidate connected within its timeout.
	ErrTimeout = errors.New("no network connected before timeout")
	// ErrAdapterFault is returned when the adapter fails while joining.
	ErrAdapterFault = errors.New("adapter failure during connect")
	// ErrNoCandidates is returned when there is nothing to try.
	ErrNoCandidates = errors.New("no candidate networks")
)

// Candidate is a network to attempt.
type Candidate = credstore.NetworkCredential

// CandidatesFrom normalizes single or list credentials to an ordered slice.
func CandidatesFrom(c credstore.Credentials) []Candidate {
	return c.List()
}

// Attempt is the outcome of Connect.
type Attempt struct {
	Connected bool
	// Index of the candidate that connected, or -1 when the station was
	// already connected and left alone.
	Index int
	SSID  string
}

// Clock is the time source used for timeouts.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Negotiator runs the connection algorithm against an Adapter.
type Negotiator struct {
	Adapter      wifi.Adapter
	Clock        Clock
	PollInterval time.Duration
	SettleDelay  time.Duration
	Logger       *slog.Logger
}

// New returns a Negotiator with default timing.
func New(adapter wifi.Adapter, logger *slog.Logger) *Negotiator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Negotiator{
		Adapter:      adapter,
		Clock:        realClock{},
		PollInterval: DefaultPollInterval,
		SettleDelay:  DefaultSettleDelay,
		Logger:       logger.With("component", "negotiate"),
	}
}

func (n *Negotiator) clock() Clock {
	if n.Clock == nil {
		return realClock{}
	}
	return n.Clock
}

func (n *Negotiator) logger() *slog.Logger {
	if n.Logger == nil {
		return slog.Default()
	}
	return n.Logger
}

// Connect tries each candidate in order, giving each up to timeout to
// associate, and stops at the first success. If the station is already
// connected and reconnect is false, nothing is changed.
//
// An adapter error while joining aborts the whole run with ErrAdapterFault.
// Exhausting every candidate returns ErrTimeout.
func (n *Negotiator) Connect(candidates []Candidate, timeout time.Duration, reconnect bool) (Attempt, error) {
	log := n.logger()
	clock := n.clock()

	if len(candidates) == 0 {
		return Attempt{Index: -1}, ErrNoCandidates
	}

	active, err := n.Adapter.IsActive()
	if err != nil {
		return Attempt{Index: -1}, fmt.Errorf("query station: %w: %w", ErrAdapterFault, err)
	}
	if !active {
		log.Debug("activating station")
		if err := n.Adapter.SetActive(true); err != nil {
			return Attempt{Index: -1}, fmt.Errorf("activate station: %w: %w", ErrAdapterFault, err)
		}
	}

	if connected, _ := n.Adapter.IsConnected(); connected {
		if !reconnect {
			log.Info("already connected")
			return Attempt{Connected: true, Index: -1}, nil
		}
		log.Info("reconnecting")
		if err := n.Adapter.Disconnect(); err != nil {
			return Attempt{Index: -1}, fmt.Errorf("disconnect: %w: %w", ErrAdapterFault, err)
		}
	}

	for i, c := range candidates {
		log.Info("connecting", "ssid", c.SSID, "timeout", timeout)
		if err := n.Adapter.Disconnect(); err != nil {
			return Attempt{Index: -1}, fmt.Errorf("disconnect before %q: %w: %w", c.SSID, ErrAdapterFault, err)
		}
		clock.Sleep(n.SettleDelay)
		if err := n.Adapter.Connect(c.SSID, c.Password); err != nil {
			return Attempt{Index: -1}, fmt.Errorf("connect %q: %w: %w", c.SSID, ErrAdapterFault, err)
		}

		if n.waitConnected(clock, timeout) {
			cfg, err := n.Adapter.InterfaceConfig()
			if err == nil {
				log.Info("connected", "ssid", c.SSID, "ip", cfg.IP, "gateway", cfg.Gateway)
			} else {
				log.Info("connected", "ssid", c.SSID)
			}
			return Attempt{Connected: true, Index: i, SSID: c.SSID}, nil
		}
		log.Warn("connection timed out", "ssid", c.SSID)
	}

	return Attempt{Index: -1}, ErrTimeout
}

func (n *Negotiator) waitConnected(clock Clock, timeout time.Duration) bool {
	deadline := clock.Now().Add(timeout)
	for {
		if ok, err := n.Adapter.IsConnected(); err == nil && ok {
			return true
		}
		if !clock.Now().Before(deadline) {
			return false
		}
		clock.Sleep(n.PollInterval)
	}
}
