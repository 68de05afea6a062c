package reliability

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/roombooking/internal/logger"
)

const (
	OpRoomSearch          = "room-search"
	OpReservationCreation = "reservation-creation"
	OpPricingCalculation  = "pricing-calculation"
	OpExternalService     = "external-service"
)

// OperationSettings override the defaults for one operation name. A nil
// field keeps the default.
type OperationSettings struct {
	Timeout        *time.Duration
	MaxRetries     *int
	CircuitBreaker bool
}

type Config struct {
	Retry          RetryPolicy
	DefaultTimeout time.Duration
	Breaker        BreakerSettings
	Operations     map[string]OperationSettings
}

func DefaultConfig() Config {
	return Config{
		Retry:          DefaultRetryPolicy(),
		DefaultTimeout: 30 * time.Second,
		Breaker:        DefaultBreakerSettings(),
		Operations: map[string]OperationSettings{
			OpRoomSearch:          {Timeout: ptr(10 * time.Second), MaxRetries: ptr(2)},
			OpReservationCreation: {Timeout: ptr(15 * time.Second), MaxRetries: ptr(1)},
			OpPricingCalculation:  {Timeout: ptr(5 * time.Second), MaxRetries: ptr(3)},
			OpExternalService:     {CircuitBreaker: true},
		},
	}
}

func ptr[T any](v T) *T { return &v }

type Metrics struct {
	Operation      string        `json:"operation"`
	TotalAttempts  int64         `json:"totalAttempts"`
	SuccessCount   int64         `json:"successCount"`
	FailureCount   int64         `json:"failureCount"`
	AverageLatency time.Duration `json:"averageLatency"`
	LastExecuted   time.Time     `json:"lastExecuted"`
}

type execOptions struct {
	timeout    time.Duration
	maxRetries int
	breaker    bool
}

type Option func(*execOptions)

func WithTimeout(d time.Duration) Option {
	return func(o *execOptions) { o.timeout = d }
}

func WithMaxRetries(n int) Option {
	return func(o *execOptions) { o.maxRetries = n }
}

func WithCircuitBreaker(enabled bool) Option {
	return func(o *execOptions) { o.breaker = enabled }
}

// Manager owns the breakers and metrics of one process. Breakers are created
// on first use and keyed by operation name.
type Manager struct {
	cfg Config
	log *logger.Logger
	now func() time.Time

	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
	metrics  map[string]*Metrics
}

type ManagerOption func(*Manager)

func WithLogger(l *logger.Logger) ManagerOption {
	return func(m *Manager) { m.log = l }
}

func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

func NewManager(cfg Config, opts ...ManagerOption) *Manager {
	m := &Manager{
		cfg:      cfg,
		log:      logger.Default(),
		now:      time.Now,
		breakers: make(map[string]*CircuitBreaker),
		metrics:  make(map[string]*Metrics),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// settings resolves the operation by exact name, then by the part before ':'
// so that "external-service:kafka" picks up the external-service preset.
func (m *Manager) settings(name string) execOptions {
	o := execOptions{timeout: m.cfg.DefaultTimeout, maxRetries: m.cfg.Retry.MaxRetries}
	s, ok := m.cfg.Operations[name]
	if !ok {
		if prefix, _, found := strings.Cut(name, ":"); found {
			s, ok = m.cfg.Operations[prefix]
		}
	}
	if ok {
		if s.Timeout != nil {
			o.timeout = *s.Timeout
		}
		if s.MaxRetries != nil {
			o.maxRetries = *s.MaxRetries
		}
		o.breaker = s.CircuitBreaker
	}
	return o
}

func (m *Manager) Breaker(name string) *CircuitBreaker {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.breakers[name]
	if !ok {
		b = NewCircuitBreaker(name, m.cfg.Breaker, m.log)
		m.breakers[name] = b
	}
	return b
}

func (m *Manager) record(name string, started time.Time, err error) {
	latency := m.now().Sub(started)

	m.mu.Lock()
	defer m.mu.Unlock()
	mt, ok := m.metrics[name]
	if !ok {
		mt = &Metrics{Operation: name}
		m.metrics[name] = mt
	}
	mt.TotalAttempts++
	if err == nil {
		mt.SuccessCount++
	} else {
		mt.FailureCount++
	}
	mt.AverageLatency += (latency - mt.AverageLatency) / time.Duration(mt.TotalAttempts)
	mt.LastExecuted = started
}

func (m *Manager) Metrics() []Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Metrics, 0, len(m.metrics))
	for _, mt := range m.metrics {
		out = append(out, *mt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Operation < out[j].Operation })
	return out
}

func (m *Manager) CircuitBreakers() []BreakerSnapshot {
	m.mu.Lock()
	breakers := make([]*CircuitBreaker, 0, len(m.breakers))
	for _, b := range m.breakers {
		breakers = append(breakers, b)
	}
	m.mu.Unlock()

	out := make([]BreakerSnapshot, 0, len(breakers))
	for _, b := range breakers {
		out = append(out, b.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Execute runs op as the named operation: breaker (when enabled) around
// retries around a per-attempt timeout. Attempts never overlap: after a
// timeout the next attempt starts only once the abandoned one has returned.
func Execute[T any](ctx context.Context, m *Manager, name string, op func(context.Context) (T, error), opts ...Option) (T, error) {
	o := m.settings(name)
	for _, opt := range opts {
		opt(&o)
	}
	policy := m.cfg.Retry
	policy.MaxRetries = o.maxRetries

	var (
		pending <-chan struct{}
		n       int
	)
	attempt := func(ctx context.Context) (T, error) {
		if pending != nil {
			select {
			case <-pending:
			case <-ctx.Done():
				var zero T
				return zero, ctx.Err()
			}
			pending = nil
		}
		v, settled, err := timeout(ctx, o.timeout, op)
		if errors.Is(err, ErrTimeout) {
			pending = settled
		}
		return v, err
	}
	notify := func(err error, delay time.Duration) {
		n++
		m.log.Warnf("%s: attempt %d failed, retrying in %s: %v", name, n, delay, err)
	}
	withRetry := func(ctx context.Context) (T, error) {
		return retry(ctx, policy, notify, attempt)
	}

	started := m.now()
	var (
		v   T
		err error
	)
	if o.breaker {
		v, err = Guard(ctx, m.Breaker(name), withRetry)
	} else {
		v, err = withRetry(ctx)
	}
	m.record(name, started, err)
	return v, err
}
