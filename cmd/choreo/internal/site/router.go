package site

import (
	"fmt"
	"net/url"
	"path"
	"sort"

	"go.uber.org/zap"

	"github.com/nextcore/choreo/pkg/navigation"
)

// route is a page the router can build.
type route struct {
	sections []layout
	// badge is shown in the header while the page is active.
	badge string
}

// Router maps paths to freshly built pages and unmounts the previous one.
type Router struct {
	site    *Site
	routes  map[string]route
	current *Page
	opened  []string
}

func newRouter(s *Site) *Router {
	title := s.cfg.Site.Title
	return &Router{
		site: s,
		routes: map[string]route{
			"/": {sections: []layout{
				frame("hero-frame", 32),
				text("hero-title", title),
				text("hero-tagline", "Three days of code, circuits and caffeine."),
				text("hero-cta", "Scroll down for the line-up."),
			}},
			"/events": {sections: []layout{
				frame("events-frame", 32),
				text("events-title", "Events"),
				text("event-hackathon", "Hackathon / 36 hours / Hall A"),
				text("event-robotics", "Robotics arena / Day 2 / Court"),
				text("event-ctf", "Capture the flag / online"),
			}},
			"/register": {sections: []layout{
				frame("register-frame", 32),
				text("register-title", "Register"),
				text("register-intro", "Pick your events and claim a pass."),
			}, badge: "REGISTRATION OPEN"},
		},
	}
}

// Commit implements navigation.Router.
func (r *Router) Commit(href string) (navigation.Page, error) {
	u, err := url.Parse(href)
	if err != nil {
		return nil, fmt.Errorf("parse href: %w", err)
	}
	p := path.Clean("/" + u.Path)
	rt, ok := r.routes[p]
	if !ok {
		return nil, fmt.Errorf("no page for %q", p)
	}
	if r.current != nil {
		r.current.Destroy()
	}
	r.current = r.site.newPage(p, rt.sections)
	if rt.badge != "" {
		r.site.header.ShowBadge(rt.badge)
	} else {
		r.site.header.HideBadge()
	}
	return r.current, nil
}

// Open implements navigation.Router. External links are only recorded.
func (r *Router) Open(href string) error {
	r.opened = append(r.opened, href)
	r.site.log.Info("opening external link", zap.String("href", href))
	r.site.rec.Note("router", "open %s", href)
	return nil
}

// Current returns the active page.
func (r *Router) Current() *Page { return r.current }

// Opened lists the external links handed off so far.
func (r *Router) Opened() []string { return append([]string(nil), r.opened...) }

// Paths returns the routable paths.
func (r *Router) Paths() []string {
	out := make([]string, 0, len(r.routes))
	for p := range r.routes {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
