package navigation

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nextcore/choreo/pkg/errors"
	"github.com/nextcore/choreo/pkg/scheduler"
	"github.com/nextcore/choreo/pkg/transition"
)

// DefaultExitTimeout bounds how long a navigation waits for the active page
// to finish exiting before committing anyway.
const DefaultExitTimeout = 3 * time.Second

// Page is the handle a navigator exits before leaving it. Pages that also
// implement [transition.Enterer] are entered after they are committed.
type Page interface {
	transition.Exiter
}

// Router performs the actual route change. The navigator never decides what
// a page is, it only sequences around the router.
type Router interface {
	// Commit switches to the page for href and returns it.
	Commit(href string) (Page, error)
	// Open hands an external href to whatever opens it (a new tab, the OS).
	Open(href string) error
}

// ScrollContainer is the primary scrolling region, reset after each commit.
type ScrollContainer interface {
	ScrollToTop()
}

// Options configures a [Navigator].
type Options struct {
	// BaseURL is the site's own origin. Links to another host are external.
	BaseURL string
	// ExitTimeout bounds the wait for the active page. Zero means
	// DefaultExitTimeout.
	ExitTimeout time.Duration
	Bus         *Bus
	Router      Router
	// Scroll is optional.
	Scroll ScrollContainer
	Logger *zap.Logger
}

// Navigator sequences exit, commit and enter around every navigation.
//
// Only the most recent navigation is live: starting a new one while an older
// one is still waiting for the page to exit abandons the older one, which
// then never commits.
type Navigator struct {
	sched  scheduler.Scheduler
	base   *url.URL
	opts   Options
	bus    *Bus
	log    *zap.Logger
	active Page

	generation uint64
	pending    *pending
}

type pending struct {
	id    uuid.UUID
	href  string
	gen   uint64
	timer scheduler.Timer
	done  bool
}

// New creates a navigator. It fails if BaseURL cannot be parsed or no
// router is given.
func New(sched scheduler.Scheduler, opts Options) (*Navigator, error) {
	if opts.Router == nil {
		return nil, fmt.Errorf("navigation: router is required")
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("navigation: parse base url: %w", err)
	}
	if opts.ExitTimeout <= 0 {
		opts.ExitTimeout = DefaultExitTimeout
	}
	if opts.Bus == nil {
		opts.Bus = NewBus()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Navigator{
		sched: sched,
		base:  base,
		opts:  opts,
		bus:   opts.Bus,
		log:   log.Named("navigation"),
	}, nil
}

// Bus returns the bus the navigator publishes on.
func (n *Navigator) Bus() *Bus { return n.bus }

// SetActivePage sets the page the next navigation exits.
func (n *Navigator) SetActivePage(p Page) { n.active = p }

// ActivePage returns the page currently shown.
func (n *Navigator) ActivePage() Page { return n.active }

// Pending reports whether a navigation is waiting for the page to exit.
func (n *Navigator) Pending() bool {
	return n.pending != nil && !n.pending.done
}

// IsInternal reports whether href stays on the site: relative links and
// links to the base host are internal, other hosts and non-web schemes are
// not.
func (n *Navigator) IsInternal(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Host == "" {
		return true
	}
	return strings.EqualFold(u.Hostname(), n.base.Hostname())
}

// Navigate starts a navigation to href and returns its ID. An internal
// navigation supersedes any pending one; an external link is handed to the
// router and leaves pending navigations running.
func (n *Navigator) Navigate(href string) uuid.UUID {
	id := uuid.New()
	internal := n.IsInternal(href)

	n.log.Info("navigation starting", zap.Stringer("id", id), zap.String("href", href), zap.Bool("internal", internal))
	if !internal {
		// External links leave the site as it is, including any pending
		// internal navigation.
		n.bus.PublishStarting(StartingEvent{ID: id, IsInternal: false, Href: href})
		if err := n.opts.Router.Open(href); err != nil {
			n.report("navigation.Navigator.Open", href, err)
		}
		return id
	}

	n.supersede()
	n.generation++
	gen := n.generation
	n.bus.PublishStarting(StartingEvent{ID: id, IsInternal: true, Href: href})
	if n.generation != gen {
		// A starting handler navigated elsewhere.
		return id
	}

	p := &pending{id: id, href: href, gen: gen}
	n.pending = p
	page := n.active
	if page == nil {
		n.commit(p)
		return id
	}

	timeout := n.opts.ExitTimeout
	p.timer = n.sched.AfterFunc(timeout, func() {
		if p.done || p.gen != n.generation {
			return
		}
		n.log.Warn("page exit timed out", zap.Stringer("id", id), zap.Duration("timeout", timeout))
		n.report("navigation.Navigator.Exit", href, fmt.Errorf("page did not finish exiting within %s", timeout))
		n.commit(p)
	})
	page.Exit(func() {
		if p.done || p.gen != n.generation {
			return
		}
		n.commit(p)
	})
	return id
}

func (n *Navigator) supersede() {
	if p := n.pending; p != nil && !p.done {
		n.log.Debug("navigation superseded", zap.Stringer("id", p.id), zap.String("href", p.href))
		p.done = true
		if p.timer != nil {
			p.timer.Stop()
		}
	}
	n.pending = nil
}

func (n *Navigator) commit(p *pending) {
	p.done = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	page, err := n.opts.Router.Commit(p.href)
	if err != nil {
		n.report("navigation.Navigator.Commit", p.href, err)
		return
	}
	n.active = page
	if n.opts.Scroll != nil {
		n.opts.Scroll.ScrollToTop()
	}
	n.log.Info("navigation committed", zap.Stringer("id", p.id), zap.String("href", p.href))
	n.bus.PublishCommitted(CommittedEvent{ID: p.id, Href: p.href})

	// A committed handler may already have navigated elsewhere.
	if n.generation != p.gen {
		return
	}
	if e, ok := page.(transition.Enterer); ok {
		e.Enter(nil)
	}
}

func (n *Navigator) report(op, href string, err error) {
	errors.Report(&errors.Error{
		Op:    op,
		Kind:  errors.KindNavigation,
		Scope: href,
		Err:   err,
	})
}
