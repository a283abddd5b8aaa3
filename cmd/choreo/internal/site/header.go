package site

import (
	"strings"

	"github.com/nextcore/choreo/pkg/transition"
	"github.com/nextcore/choreo/pkg/views"
)

// Header is the region that stays on screen across navigations. Its scope
// enters once; leaves attached later catch up with it immediately.
type Header struct {
	site     *Site
	provider *transition.Provider
	brand    *views.BrandMark
	menu     *views.NavMenu
	badge    *views.Text
	badgeBr  *transition.Bridge
}

func newHeader(s *Site) *Header {
	h := &Header{site: s}
	h.provider = transition.NewProvider(s.sched, transition.ProviderOptions{
		Name:      "header",
		Durations: s.durations(),
		Logger:    s.log,
	})
	scope := h.provider.Scope()
	s.rec.WatchScope(scope)

	h.brand = views.NewBrandMark(s.env, scope, s.cfg.Site.Title)
	h.menu = views.NewNavMenu(s.env, scope, "Home", "Events", "Register")
	for _, leaf := range []views.View{h.brand, h.menu} {
		transition.Attach(scope, leaf, transition.BridgeOptions{
			Flow:     true,
			Name:     leaf.Name(),
			OnSettle: s.rec.Settled(leaf.Name()),
			Logger:   s.log,
		})
	}
	return h
}

// Mount starts the header's entrance.
func (h *Header) Mount() { h.provider.Mount() }

// Status returns the header scope's status.
func (h *Header) Status() transition.Status { return h.provider.Status() }

// Scope returns the header scope.
func (h *Header) Scope() *transition.Scope { return h.provider.Scope() }

// ShowBadge attaches a text badge to the live header. Replacing an existing
// badge detaches the old one first.
func (h *Header) ShowBadge(text string) {
	h.HideBadge()
	scope := h.provider.Scope()
	h.badge = views.NewText(h.site.env, scope, "badge", text)
	h.badgeBr = transition.Attach(scope, h.badge, transition.BridgeOptions{
		Flow:     true,
		Name:     "badge",
		OnSettle: h.site.rec.Settled("badge"),
		Logger:   h.site.log,
	})
}

// HideBadge removes the badge, if any.
func (h *Header) HideBadge() {
	if h.badgeBr == nil {
		return
	}
	h.badgeBr.Detach()
	h.badge.Exit(nil)
	h.badge, h.badgeBr = nil, nil
}

// Badge returns the current badge leaf, or nil.
func (h *Header) Badge() *views.Text { return h.badge }

// Render draws the brand, menu and badge.
func (h *Header) Render() string {
	parts := []string{h.brand.Render(), h.menu.Render()}
	if h.badge != nil {
		parts = append(parts, h.badge.Render())
	}
	return strings.Join(parts, "  ")
}
