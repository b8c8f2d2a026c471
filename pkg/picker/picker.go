// Package picker implements the selection control: enabled only when
// candidates exist and nothing is loading, activation opens one candidate
// picked uniformly at random.
package picker

import (
	"errors"
	"math/rand"

	"github.com/pkg/browser"
)

const (
	LabelLoading = "Finding repositories..."
	LabelReady   = "Discover a repository"
)

// ErrNoCandidates is returned when Activate runs with an empty list. The
// control is disabled in that state, so reaching this means the caller
// skipped the Disabled check.
var ErrNoCandidates = errors.New("no repositories available")

// Source exposes the provider state the control reads.
type Source interface {
	Loading() bool
	Repos() []string
}

type Control struct {
	src  Source
	pick func(n int) int
	open func(url string) error
}

type Option func(*Control)

// WithPick injects the uniform random picker, for determinism in tests.
func WithPick(pick func(n int) int) Option {
	return func(c *Control) { c.pick = pick }
}

// WithOpener replaces the browser-opening function.
func WithOpener(open func(url string) error) Option {
	return func(c *Control) { c.open = open }
}

func New(src Source, opts ...Option) *Control {
	c := &Control{
		src:  src,
		pick: rand.Intn,
		open: browser.OpenURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Disabled is true while a fetch is in progress or no candidate exists.
func (c *Control) Disabled() bool {
	return c.src.Loading() || len(c.src.Repos()) == 0
}

// Label is the text the control shows for its current state.
func (c *Control) Label() string {
	if c.src.Loading() {
		return LabelLoading
	}
	return LabelReady
}

// Pick selects one candidate uniformly at random without opening it.
func (c *Control) Pick() (string, error) {
	repos := c.src.Repos()
	if len(repos) == 0 {
		return "", ErrNoCandidates
	}
	return repos[c.pick(len(repos))], nil
}

// Activate picks a random candidate and opens it in a new browsing context.
// Opening is best-effort; the URL is returned either way.
func (c *Control) Activate() (string, error) {
	url, err := c.Pick()
	if err != nil {
		return "", err
	}
	if err := c.open(url); err != nil {
		return url, err
	}
	return url, nil
}
