// Package site is the festival website the simulator drives: a persistent
// header, a handful of staggered pages and the router that swaps them.
package site

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nextcore/choreo/pkg/config"
	"github.com/nextcore/choreo/pkg/navigation"
	"github.com/nextcore/choreo/pkg/scheduler"
	"github.com/nextcore/choreo/pkg/sound"
	"github.com/nextcore/choreo/pkg/timeline"
	"github.com/nextcore/choreo/pkg/transition"
	"github.com/nextcore/choreo/pkg/views"
)

// Options configures a [Site].
type Options struct {
	Sched  scheduler.Scheduler
	Config *config.Config
	// Recorder receives every transition. Nil creates one.
	Recorder *timeline.Recorder
	// Backend plays cue sources when sound is enabled. Nil plays them on a
	// simulated player in scheduler time.
	Backend sound.Backend
	Logger  *zap.Logger
}

// Site wires header, router and navigator together.
type Site struct {
	sched  scheduler.Scheduler
	cfg    *config.Config
	rec    *timeline.Recorder
	log    *zap.Logger
	sounds *sound.Sounds
	env    views.Env

	header *Header
	router *Router
	scroll *Scroll
	nav    *navigation.Navigator
}

// cueSources maps each cue to the file a real backend would play.
var cueSources = map[string]string{
	sound.Deploy:      "sounds/deploy.mp3",
	sound.Typing:      "sounds/typing.mp3",
	sound.Click:       "sounds/click.mp3",
	sound.Information: "sounds/information.mp3",
}

// clipLengths are the lengths of the cue files.
var clipLengths = map[string]time.Duration{
	"sounds/deploy.mp3":      600 * time.Millisecond,
	"sounds/typing.mp3":      400 * time.Millisecond,
	"sounds/click.mp3":       80 * time.Millisecond,
	"sounds/information.mp3": 350 * time.Millisecond,
}

// New builds the site. Nothing transitions until Start.
func New(opts Options) (*Site, error) {
	if opts.Sched == nil {
		return nil, fmt.Errorf("site: scheduler is required")
	}
	cfg := opts.Config
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	rec := opts.Recorder
	if rec == nil {
		rec = timeline.New(opts.Sched)
	}
	backend := opts.Backend
	if backend == nil {
		backend = sound.NewPlayer(opts.Sched, clipLengths, log.Named("sound"))
	}

	s := &Site{
		sched:  opts.Sched,
		cfg:    cfg,
		rec:    rec,
		log:    log,
		sounds: sound.New(log.Named("sound")),
	}
	for name, source := range cueSources {
		var out sound.Cue
		if cfg.Sound.Enabled {
			out = &sound.SourceCue{Name: name, Source: source, Volume: cfg.Sound.Volume, Backend: backend, Logger: log}
		}
		s.sounds.Register(name, rec.Cue(name, out))
	}
	s.env = views.Env{Sched: s.sched, Sounds: s.sounds}

	s.header = newHeader(s)
	s.router = newRouter(s)
	s.scroll = &Scroll{rec: rec}

	nav, err := navigation.New(s.sched, navigation.Options{
		BaseURL:     cfg.Site.BaseURL,
		ExitTimeout: cfg.Navigation.ExitTimeout.Std(),
		Router:      s.router,
		Scroll:      s.scroll,
		Logger:      log,
	})
	if err != nil {
		return nil, err
	}
	s.nav = nav
	rec.WatchBus(nav.Bus())
	return s, nil
}

// Start mounts the header and navigates to href.
func (s *Site) Start(href string) {
	s.header.Mount()
	s.nav.Navigate(href)
}

// Navigate follows a link.
func (s *Site) Navigate(href string) uuid.UUID {
	return s.nav.Navigate(href)
}

// Header returns the persistent header.
func (s *Site) Header() *Header { return s.header }

// Router returns the site's router.
func (s *Site) Router() *Router { return s.router }

// Scroll returns the primary scroll container.
func (s *Site) Scroll() *Scroll { return s.scroll }

// Navigator returns the navigator.
func (s *Site) Navigator() *navigation.Navigator { return s.nav }

// Recorder returns the timeline recorder.
func (s *Site) Recorder() *timeline.Recorder { return s.rec }

// Sounds returns the cue registry.
func (s *Site) Sounds() *sound.Sounds { return s.sounds }

// Idle reports whether nothing is transitioning.
func (s *Site) Idle() bool {
	if s.nav.Pending() || !s.header.Status().Settled() {
		return false
	}
	if page := s.router.Current(); page != nil && !page.Status().Settled() {
		return false
	}
	return true
}

// Render draws the header and current page as text.
func (s *Site) Render() string {
	var b strings.Builder
	b.WriteString(s.header.Render())
	if page := s.router.Current(); page != nil {
		b.WriteString("\n")
		b.WriteString(page.Render())
	}
	return b.String()
}

func (s *Site) durations() transition.DurationPatch {
	d := s.cfg.Transitions.Durations()
	return transition.DurationPatch{Enter: transition.Ptr(d.Enter), Exit: transition.Ptr(d.Exit), Stagger: transition.Ptr(d.Stagger)}
}

// Scroll is the primary scroll container.
type Scroll struct {
	Y      int
	resets int
	rec    *timeline.Recorder
}

// ScrollTo moves the viewport.
func (c *Scroll) ScrollTo(y int) { c.Y = y }

// ScrollToTop implements navigation.ScrollContainer.
func (c *Scroll) ScrollToTop() {
	c.rec.Note("scroll", "reset from %d", c.Y)
	c.Y = 0
	c.resets++
}

// Resets counts scroll resets.
func (c *Scroll) Resets() int { return c.resets }
