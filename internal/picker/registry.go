package picker

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/quickpick/internal/config"
	"github.com/dshills/quickpick/internal/picker/match"
	"github.com/dshills/quickpick/internal/picker/stream"
)

// DefaultCacheSize is the default resume cache capacity.
const DefaultCacheSize = 8

// Registry tracks named picker specs and retains recently dispatched
// instances for resume. Specs register once at startup; the resume
// cache is mutated only from the consumer goroutine.
type Registry struct {
	mu     sync.RWMutex
	specs  map[string]*Spec
	ranker *stream.Ranker

	// cached holds retained instances most-recent-first, bounded by
	// cacheSize. Evicted instances are cancelled.
	cached    []*Instance
	cacheSize int
}

// NewRegistry creates a registry with the given resume cache capacity.
// A non-positive size uses DefaultCacheSize.
func NewRegistry(cacheSize int) *Registry {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	return &Registry{
		specs:     make(map[string]*Spec),
		ranker:    stream.NewRanker(match.NewMatcher()),
		cacheSize: cacheSize,
	}
}

// Register adds a picker spec. Registering a name twice fails with
// ErrDuplicateName.
func (r *Registry) Register(s *Spec) error {
	if err := s.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.specs[s.Name]; exists {
		return fmt.Errorf("picker %q: %w", s.Name, ErrDuplicateName)
	}
	r.specs[s.Name] = s
	return nil
}

// Get returns the spec registered under name.
func (r *Registry) Get(name string) (*Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.specs[name]
	return s, ok
}

// Names returns all registered picker names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke creates a fresh instance of the named picker and starts its
// producer without blocking. Concurrent invocations of the same name
// are independent; Invoke never deduplicates.
func (r *Registry) Invoke(ctx context.Context, name string, opts config.Options, attach AttachFunc) (*Instance, error) {
	spec, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("picker %q: %w", name, ErrUnknownPicker)
	}

	prod, err := spec.New(opts)
	if err != nil {
		return nil, fmt.Errorf("picker %q: %w", name, err)
	}

	in := newInstance(name, opts, r.ranker, attach)
	in.start(ctx, prod)

	if opts.CachePicker {
		r.retain(in)
	}
	return in, nil
}

// retain pushes an instance to the front of the resume cache,
// cancelling the oldest entry when capacity is exceeded.
func (r *Registry) retain(in *Instance) {
	r.mu.Lock()
	r.cached = append([]*Instance{in}, r.cached...)
	var evicted *Instance
	if len(r.cached) > r.cacheSize {
		evicted = r.cached[len(r.cached)-1]
		r.cached = r.cached[:len(r.cached)-1]
	}
	r.mu.Unlock()

	if evicted != nil {
		evicted.Cancel()
	}
}

// Resume returns the cached instance at the given index,
// most-recent-first: index 0 is the last retained picker. The instance
// comes back with its full stream, query, and selection state intact.
// Fails with ErrCacheMiss when the index exceeds the cache size.
func (r *Registry) Resume(index int) (*Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index < 0 || index >= len(r.cached) {
		return nil, fmt.Errorf("resume index %d: %w (cache holds %d)", index, ErrCacheMiss, len(r.cached))
	}
	return r.cached[index], nil
}

// Cached returns the retained instances most-recent-first.
func (r *Registry) Cached() []*Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Instance, len(r.cached))
	copy(out, r.cached)
	return out
}

// Evict removes the cached instance at the given index and cancels it.
func (r *Registry) Evict(index int) error {
	r.mu.Lock()
	if index < 0 || index >= len(r.cached) {
		n := len(r.cached)
		r.mu.Unlock()
		return fmt.Errorf("evict index %d: %w (cache holds %d)", index, ErrCacheMiss, n)
	}
	in := r.cached[index]
	r.cached = append(r.cached[:index], r.cached[index+1:]...)
	r.mu.Unlock()

	in.Cancel()
	return nil
}
