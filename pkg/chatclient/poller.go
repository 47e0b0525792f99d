package chatclient

import (
	"context"
	"sync"
	"time"
)

// State is the poller's delivery state for one open conversation view.
type State int

const (
	// StateIdle: last fetch succeeded, waiting for the next tick.
	StateIdle State = iota
	// StateFetching: a fetch is in flight.
	StateFetching
	// StateErrored: last fetch failed; the previous confirmed list is
	// kept and a bounded auto-retry is pending or exhausted.
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateErrored:
		return "errored"
	}
	return "unknown"
}

// Poll intervals matching the web client's timers.
const (
	DefaultDirectInterval = 3 * time.Second
	DefaultGroupInterval  = 10 * time.Second
	DefaultMaxRetries     = 3
	DefaultBackoff        = time.Second
)

// FetchFunc retrieves the current server state for a conversation.
type FetchFunc func(ctx context.Context) ([]Message, error)

// PollerConfig tunes one poller. Zero values take the defaults above.
type PollerConfig struct {
	Interval   time.Duration
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
	OnUpdate   func([]Message)
}

// Poller keeps a local view of a conversation approximately fresh by
// periodic re-fetch. A tick never overlaps an in-flight fetch; a manual
// Refresh may supersede one, and a superseded result never overwrites
// state produced by a fresher fetch (fetches carry sequence numbers and
// stale responses are discarded).
type Poller struct {
	fetch FetchFunc
	cfg   PollerConfig

	mu         sync.Mutex
	state      State
	lastErr    error
	confirmed  []Message
	nextSeq    uint64
	appliedSeq uint64
	visible    bool
	retries    int
	closed     bool

	done      chan struct{}
	closeOnce sync.Once
}

// NewPoller creates a poller for one conversation view. The view starts
// visible; call SetVisible(false) when backgrounded.
func NewPoller(fetch FetchFunc, cfg PollerConfig) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultDirectInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoff
	}

	return &Poller{
		fetch:   fetch,
		cfg:     cfg,
		state:   StateIdle,
		visible: true,
		done:    make(chan struct{}),
	}
}

// Run drives the poll loop until ctx is cancelled or Stop is called.
// An initial fetch is issued immediately (the "on mount" fetch).
func (p *Poller) Run(ctx context.Context) {
	p.tryFetch(ctx, false)

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.done:
			return
		case <-ticker.C:
			p.tryFetch(ctx, false)
		}
	}
}

// Refresh issues a fetch immediately, superseding any in flight.
func (p *Poller) Refresh(ctx context.Context) {
	p.tryFetch(ctx, true)
}

// SetVisible gates polling: ticks are skipped while backgrounded.
func (p *Poller) SetVisible(visible bool) {
	p.mu.Lock()
	p.visible = visible
	p.mu.Unlock()
}

// Stop tears the view down. Terminal: no further fetches are issued.
func (p *Poller) Stop() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
		close(p.done)
	})
}

// Snapshot returns the confirmed message list, the delivery state, and
// the last fetch error (nil unless Errored).
func (p *Poller) Snapshot() ([]Message, State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	msgs := make([]Message, len(p.confirmed))
	copy(msgs, p.confirmed)
	return msgs, p.state, p.lastErr
}

func (p *Poller) tryFetch(ctx context.Context, manual bool) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	if !manual && (!p.visible || p.state == StateFetching) {
		p.mu.Unlock()
		return
	}
	p.nextSeq++
	seq := p.nextSeq
	p.state = StateFetching
	p.mu.Unlock()

	go p.doFetch(ctx, seq)
}

func (p *Poller) doFetch(ctx context.Context, seq uint64) {
	fctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	msgs, err := p.fetch(fctx)

	var onUpdate func([]Message)
	var updated []Message

	p.mu.Lock()
	switch {
	case p.closed || seq <= p.appliedSeq:
		// Stale: a fresher fetch already applied, or view torn down.
	case err != nil:
		if seq < p.nextSeq {
			// Superseded while in flight; let the fresher fetch decide.
			break
		}
		p.lastErr = err
		p.state = StateErrored
		if p.retries < p.cfg.MaxRetries {
			p.retries++
			delay := p.cfg.Backoff << (p.retries - 1)
			go p.retryAfter(ctx, delay)
		}
	default:
		p.appliedSeq = seq
		p.confirmed = msgs
		p.state = StateIdle
		p.lastErr = nil
		p.retries = 0
		if p.cfg.OnUpdate != nil {
			onUpdate = p.cfg.OnUpdate
			updated = make([]Message, len(msgs))
			copy(updated, msgs)
		}
	}
	p.mu.Unlock()

	if onUpdate != nil {
		onUpdate(updated)
	}
}

func (p *Poller) retryAfter(ctx context.Context, delay time.Duration) {
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return
	case <-p.done:
		return
	}

	p.mu.Lock()
	if p.state != StateErrored || !p.visible {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.tryFetch(ctx, true)
}
