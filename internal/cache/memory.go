package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	page     []byte
	cachedAt time.Time
}

type routeViews struct {
	gen   int64
	pages map[string]entry
}

// Memory is a process-local Views implementation.
type Memory struct {
	mu     sync.RWMutex
	routes map[string]*routeViews
	ttl    time.Duration
	now    func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		routes: make(map[string]*routeViews),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *Memory) Generation(_ context.Context, route string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rv, ok := m.routes[normalize(route)]
	if !ok {
		return 0, nil
	}

	return rv.gen, nil
}

func (m *Memory) Get(_ context.Context, route, key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rv, ok := m.routes[normalize(route)]
	if !ok {
		return nil, false
	}

	e, ok := rv.pages[key]
	if !ok || m.now().Sub(e.cachedAt) > m.ttl {
		return nil, false
	}

	return e.page, true
}

// Set stores page unless route was invalidated after gen was read.
func (m *Memory) Set(_ context.Context, route, key string, gen int64, page []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rv := m.route(normalize(route))
	if rv.gen != gen {
		return
	}

	rv.pages[key] = entry{page: page, cachedAt: m.now()}
}

func (m *Memory) Invalidate(_ context.Context, route string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rv := m.route(normalize(route))
	rv.gen++
	rv.pages = make(map[string]entry)

	return nil
}

// route returns the views of r, creating them. Callers hold mu.
func (m *Memory) route(r string) *routeViews {
	rv, ok := m.routes[r]
	if !ok {
		rv = &routeViews{pages: make(map[string]entry)}
		m.routes[r] = rv
	}

	return rv
}
