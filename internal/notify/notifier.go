package notify

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"aquatrack/internal/metrics"
	"aquatrack/internal/scheduler"
)

// Sink receives notifications when they come due. The daemon uses a
// logging sink; the presentation layer plugs in the platform surface.
type Sink interface {
	Deliver(ctx context.Context, n scheduler.Notification) error
}

// Config holds notifier tuning.
type Config struct {
	// CheckInterval is how often pending notifications are checked.
	CheckInterval time.Duration
	// Rate is deliveries per second allowed through to the sink.
	Rate float64
	// Burst is the delivery burst size.
	Burst int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		CheckInterval: 30 * time.Second,
		Rate:          5,
		Burst:         10,
	}
}

// entry tracks one scheduled notification and its next due instant.
type entry struct {
	n    scheduler.Notification
	next time.Time
	// idx points at the next element of n.FireTimes for interval kinds.
	idx int
}

// Notifier is the in-process notification subsystem. It implements the
// scheduler's capability interface: uuid identifiers, a pending set, and
// a ticker-driven loop that delivers due notifications through a
// rate-limited sink.
type Notifier struct {
	config  Config
	sink    Sink
	limiter *rate.Limiter
	logger  zerolog.Logger
	granted bool
	now     func() time.Time

	mu      sync.Mutex
	pending map[string]*entry
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// New creates a notifier delivering to sink. granted mirrors the
// platform permission state the user chose.
func New(config Config, sink Sink, granted bool, logger zerolog.Logger) *Notifier {
	if config.CheckInterval <= 0 {
		config.CheckInterval = 30 * time.Second
	}
	if config.Rate <= 0 {
		config.Rate = 5
	}
	if config.Burst <= 0 {
		config.Burst = 10
	}

	return &Notifier{
		config:  config,
		sink:    sink,
		limiter: rate.NewLimiter(rate.Limit(config.Rate), config.Burst),
		logger:  logger,
		granted: granted,
		now:     time.Now,
		pending: make(map[string]*entry),
		stopCh:  make(chan struct{}),
	}
}

// RequestPermission implements scheduler.Notifier.
func (n *Notifier) RequestPermission(_ context.Context) (bool, error) {
	return n.granted, nil
}

// Schedule implements scheduler.Notifier.
func (n *Notifier) Schedule(_ context.Context, notif scheduler.Notification) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := uuid.NewString()
	e := &entry{n: notif, next: notif.FireAt}
	if len(notif.FireTimes) > 0 {
		e.next = notif.FireTimes[0]
	}
	n.pending[id] = e
	return id, nil
}

// Cancel implements scheduler.Notifier.
func (n *Notifier) Cancel(_ context.Context, id string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.pending, id)
	return nil
}

// CancelAll implements scheduler.Notifier.
func (n *Notifier) CancelAll(_ context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending = make(map[string]*entry)
	return nil
}

// Pending returns the number of tracked notifications.
func (n *Notifier) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.pending)
}

// PendingIDs returns the tracked identifiers, sorted for stable output.
func (n *Notifier) PendingIDs() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	ids := make([]string, 0, len(n.pending))
	for id := range n.pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Start begins the delivery loop. The notifier can be started again
// after Stop.
func (n *Notifier) Start(ctx context.Context) {
	n.mu.Lock()
	if n.running {
		n.mu.Unlock()
		return
	}
	n.running = true
	n.stopCh = make(chan struct{})
	stopCh := n.stopCh
	n.mu.Unlock()

	n.wg.Add(1)
	go n.loop(ctx, stopCh)

	n.logger.Info().
		Dur("check_interval", n.config.CheckInterval).
		Msg("notification delivery loop started")
}

// Stop stops the delivery loop.
func (n *Notifier) Stop() {
	n.mu.Lock()
	if !n.running {
		n.mu.Unlock()
		return
	}
	n.running = false
	close(n.stopCh)
	n.mu.Unlock()

	n.wg.Wait()
}

func (n *Notifier) loop(ctx context.Context, stopCh <-chan struct{}) {
	defer n.wg.Done()

	ticker := time.NewTicker(n.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			n.deliverDue(ctx)
		}
	}
}

// deliverDue sends every notification whose next instant has passed and
// advances or retires it.
func (n *Notifier) deliverDue(ctx context.Context) {
	now := n.now()

	n.mu.Lock()
	type due struct {
		id string
		n  scheduler.Notification
	}
	var dues []due
	for id, e := range n.pending {
		if e.next.After(now) {
			continue
		}
		dues = append(dues, due{id: id, n: e.n})
		if !n.advance(e) {
			delete(n.pending, id)
		}
	}
	n.mu.Unlock()

	for _, d := range dues {
		if err := n.limiter.Wait(ctx); err != nil {
			return
		}
		if err := n.sink.Deliver(ctx, d.n); err != nil {
			n.logger.Error().Err(err).
				Str("kind", string(d.n.Kind)).
				Str("id", d.id).
				Msg("notification delivery failed")
			continue
		}
		metrics.IncDelivered(string(d.n.Kind))
	}
}

// advance moves an entry to its next instant. Returns false when the
// entry has no further occurrences.
func (n *Notifier) advance(e *entry) bool {
	switch e.n.Recurrence {
	case scheduler.RecurrenceDaily:
		e.next = e.next.AddDate(0, 0, 1)
		return true
	case scheduler.RecurrenceWeekly:
		e.next = e.next.AddDate(0, 0, 7)
		return true
	default:
		e.idx++
		if e.idx < len(e.n.FireTimes) {
			e.next = e.n.FireTimes[e.idx]
			return true
		}
		return false
	}
}
