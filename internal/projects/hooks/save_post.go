// Package hooks runs save-time handlers for a post in priority order.
package hooks

import (
	"context"
	"net/url"
	"sort"
	"sync"

	"github.com/orbis-25/orbis-projects-backend/internal/auth"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/domain"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/form"
)

// Default priorities of the project handlers. Lower runs first.
const (
	PriorityDefault = 10
	PriorityLate    = 500
)

// SaveContext is everything a save handler may look at. It replaces ambient
// request state so handlers can run outside an HTTP request.
type SaveContext struct {
	Post     *domain.Post
	Form     url.Values
	User     auth.User
	Locale   form.Locale
	Autosave bool
}

// Handler is a save-time handler. Handlers report nothing: guard failures and
// storage errors are handled inside.
type Handler func(ctx context.Context, sc *SaveContext)

type entry struct {
	name     string
	priority int
	seq      int
	fn       Handler
}

// Registry holds save handlers for one post type.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
	seq     int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers fn under name at priority. Handlers with equal priority run in
// registration order.
func (r *Registry) Add(name string, priority int, fn Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry{name: name, priority: priority, seq: r.seq, fn: fn})
	r.seq++
	sort.SliceStable(r.entries, func(i, j int) bool {
		if r.entries[i].priority != r.entries[j].priority {
			return r.entries[i].priority < r.entries[j].priority
		}
		return r.entries[i].seq < r.entries[j].seq
	})
}

// Names lists the registered handlers in execution order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.name
	}
	return out
}

// Run calls every handler synchronously, in order, with the same context.
func (r *Registry) Run(ctx context.Context, sc *SaveContext) {
	r.mu.RLock()
	entries := make([]entry, len(r.entries))
	copy(entries, r.entries)
	r.mu.RUnlock()

	for _, e := range entries {
		e.fn(ctx, sc)
	}
}
