// Package provider keeps the current list of discoverable repositories:
// cache-first, one network fetch when stale, stale-cache fallback when the
// API rate-limits us.
package provider

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/remvze/gitscovery/internal/utils"
	"github.com/remvze/gitscovery/pkg/cache"
	"github.com/remvze/gitscovery/pkg/github"
)

type Provider struct {
	mu         sync.Mutex
	store      cache.Store
	client     *github.Client
	choices    []int
	pick       func(n int) int
	now        func() time.Time
	loading    bool
	repos      []string
	generation int
}

// Option tweaks a Provider. Tests inject deterministic randomness and
// clocks through these.
type Option func(*Provider)

func WithPick(pick func(n int) int) Option {
	return func(p *Provider) { p.pick = pick }
}

func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// WithStarChoices overrides the star floors queries pick from. An empty
// slice keeps the defaults.
func WithStarChoices(choices []int) Option {
	return func(p *Provider) { p.choices = choices }
}

func New(store cache.Store, client *github.Client, opts ...Option) *Provider {
	p := &Provider{
		store:  store,
		client: client,
		pick:   rand.Intn,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Loading reports whether a fetch is in flight.
func (p *Provider) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Repos returns a copy of the current candidate list.
func (p *Provider) Repos() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.repos))
	copy(out, p.repos)
	return out
}

// Ensure makes the candidate list available: the cached list if it is still
// within TTL, otherwise one fetch from the search API. Failures never
// propagate; they end in the log and an unchanged (typically empty) list.
func (p *Provider) Ensure() {
	p.fetch(false)
}

// Refresh forces a network fetch regardless of cache freshness.
func (p *Provider) Refresh() {
	p.fetch(true)
}

func (p *Provider) fetch(force bool) {
	p.mu.Lock()

	entry, cached := cache.ReadEntry(p.store)
	if !force && cached && entry.Valid(p.now()) {
		utils.Log.Debug("cache hit, skipping network fetch")
		p.repos = entry.Repos
		p.mu.Unlock()
		return
	}

	p.loading = true
	p.generation++
	gen := p.generation
	query := github.NewQueryFrom(p.choices, p.pick, p.now())
	p.mu.Unlock()

	utils.Log.Debug("searching repositories: ", query.Clauses(), " page ", query.Page)
	repos, err := p.client.Search(query)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		// A newer fetch superseded this one; it owns the state now.
		return
	}
	p.loading = false

	if err != nil {
		if errors.Is(err, github.ErrRateLimited) && cached {
			// Stale data beats no data while the API has us throttled.
			utils.Log.Warn("rate limited, falling back to cached repositories: ", err)
			p.repos = entry.Repos
			return
		}
		utils.Log.Error("could not fetch repositories: ", err)
		return
	}

	p.repos = repos
	if err := cache.WriteEntry(p.store, repos, p.now()); err != nil {
		utils.Log.Warn("could not persist repository cache: ", err)
	}
}
