package inference

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"

	pkgerrors "github.com/matzehuels/repoinsight/pkg/errors"
	"github.com/matzehuels/repoinsight/pkg/observability"
)

// DefaultPoolSize is the number of models kept loaded when unset.
const DefaultPoolSize = 4

// PoolOptions configures a [Pool].
type PoolOptions struct {
	Size   int
	Logger *log.Logger
}

// WithDefaults returns a copy with zero fields replaced by defaults.
func (o PoolOptions) WithDefaults() PoolOptions {
	if o.Size <= 0 {
		o.Size = DefaultPoolSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o
}

type entry struct {
	id      string
	handle  Handle
	leases  int
	evicted bool
}

// Pool caches loaded handles by model id with least-recently-used eviction.
// It is safe for concurrent use.
type Pool struct {
	mu     sync.Mutex
	cache  *lru.Cache[string, *entry]
	loader Loader
	logger *log.Logger
	closed bool
}

// NewPool returns a pool loading models through loader.
func NewPool(loader Loader, opts PoolOptions) (*Pool, error) {
	opts = opts.WithDefaults()
	p := &Pool{loader: loader, logger: opts.Logger}
	cache, err := lru.NewWithEvict(opts.Size, p.onEvict)
	if err != nil {
		return nil, err
	}
	p.cache = cache
	return p, nil
}

// onEvict runs with p.mu held.
func (p *Pool) onEvict(id string, e *entry) {
	e.evicted = true
	if e.leases == 0 {
		p.close(e)
	}
}

func (p *Pool) close(e *entry) {
	if err := e.handle.Close(); err != nil {
		p.logger.Warn("close model", "model", e.id, "err", err)
		return
	}
	p.logger.Debug("closed model", "model", e.id)
}

// Checkout returns a lease on the model, loading it if needed. Load
// failures carry ErrCodeInferenceUnavailable.
func (p *Pool) Checkout(ctx context.Context, modelID string) (*Lease, error) {
	if l, ok := p.lease(modelID); ok {
		return l, nil
	}

	start := time.Now()
	h, err := p.loader.Load(ctx, modelID)
	observability.Inference().OnModelLoad(ctx, modelID, time.Since(start), err)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeInferenceUnavailable, err, "load model %s", modelID)
	}
	p.logger.Debug("loaded model", "model", modelID)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		_ = h.Close()
		return nil, pkgerrors.New(pkgerrors.ErrCodeInferenceUnavailable, "pool closed")
	}
	// Another caller may have loaded the same model meanwhile.
	if e, ok := p.cache.Get(modelID); ok {
		_ = h.Close()
		e.leases++
		return &Lease{pool: p, entry: e}, nil
	}
	e := &entry{id: modelID, handle: h, leases: 1}
	p.cache.Add(modelID, e)
	return &Lease{pool: p, entry: e}, nil
}

func (p *Pool) lease(modelID string) (*Lease, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.cache.Get(modelID)
	if !ok {
		return nil, false
	}
	e.leases++
	return &Lease{pool: p, entry: e}, true
}

func (p *Pool) release(e *entry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e.leases--
	if e.evicted && e.leases == 0 {
		p.close(e)
	}
}

// Len returns the number of cached models.
func (p *Pool) Len() int {
	return p.cache.Len()
}

// Close evicts every model. Models still leased are closed on release.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.cache.Purge()
	return nil
}

// Lease is a checked-out model. Release must be called exactly once; extra
// calls are ignored.
type Lease struct {
	pool  *Pool
	entry *entry
	once  sync.Once
}

// ModelID returns the leased model's id.
func (l *Lease) ModelID() string { return l.entry.id }

// Generate calls the leased handle.
func (l *Lease) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	start := time.Now()
	text, err := l.entry.handle.Generate(ctx, prompt, opts)
	observability.Inference().OnGenerate(ctx, l.entry.id, time.Since(start), err)
	return text, err
}

// Release returns the lease to the pool.
func (l *Lease) Release() {
	l.once.Do(func() { l.pool.release(l.entry) })
}
