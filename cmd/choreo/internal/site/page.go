package site

import (
	"strings"

	"github.com/nextcore/choreo/pkg/transition"
	"github.com/nextcore/choreo/pkg/views"
)

// layout describes one section of a page.
type layout struct {
	name string
	make func(env views.Env, scope *transition.Scope) views.View
}

func frame(name string, width int) layout {
	return layout{name: name, make: func(env views.Env, scope *transition.Scope) views.View {
		return views.NewFrame(env, scope, name, width)
	}}
}

func text(name, content string) layout {
	return layout{name: name, make: func(env views.Env, scope *transition.Scope) views.View {
		return views.NewText(env, scope, name, content)
	}}
}

// Page is one routed page. Each section has its own independent provider;
// the page's coordinator staggers them in order and gathers their exits.
type Page struct {
	Href string

	root     *transition.Provider
	coord    *transition.Coordinator
	sections []section
}

type section struct {
	provider *transition.Provider
	view     views.View
}

func (s *Site) newPage(href string, secs []layout) *Page {
	p := &Page{Href: href}
	p.root = transition.NewProvider(s.sched, transition.ProviderOptions{
		Name:        "page " + href,
		Durations:   s.durations(),
		Independent: true,
		Logger:      s.log,
	})

	handles := make([]transition.Handle, 0, len(secs))
	for _, sec := range secs {
		prov := transition.NewProvider(s.sched, transition.ProviderOptions{
			Name:        sec.name,
			Parent:      p.root.Scope(),
			Independent: true,
			Logger:      s.log,
		})
		view := sec.make(s.env, prov.Scope())
		s.rec.WatchScope(prov.Scope())
		transition.Attach(prov.Scope(), view, transition.BridgeOptions{
			Flow:     true,
			Name:     sec.name,
			OnSettle: s.rec.Settled(sec.name),
			Logger:   s.log,
		})
		p.sections = append(p.sections, section{provider: prov, view: view})
		handles = append(handles, prov)
	}

	p.coord = transition.NewCoordinator(s.sched, p.root.Scope(), transition.StaggerOptions{
		Name:         "page " + href,
		Stagger:      true,
		ExitFallback: s.cfg.Transitions.ExitFallback.Std(),
		Logger:       s.log,
	}, handles...)
	s.rec.WatchCoordinator("page "+href, p.coord)
	return p
}

// Enter staggers the sections in.
func (p *Page) Enter(done func()) {
	p.root.Enter(nil)
	p.coord.Enter(done)
}

// Exit exits every section and calls done when all have finished.
func (p *Page) Exit(done func()) {
	p.root.Exit(nil)
	p.coord.Exit(done)
}

// Status is the aggregate status of the sections.
func (p *Page) Status() transition.Status { return p.coord.Status() }

// Sections returns the page's views in order.
func (p *Page) Sections() []views.View {
	out := make([]views.View, len(p.sections))
	for i, sec := range p.sections {
		out[i] = sec.view
	}
	return out
}

// Destroy unmounts the page.
func (p *Page) Destroy() {
	for _, sec := range p.sections {
		sec.provider.Destroy()
	}
	p.root.Destroy()
}

// Render draws every section that is at least partly visible.
func (p *Page) Render() string {
	var lines []string
	for _, sec := range p.sections {
		if out := sec.view.Render(); out != "" {
			lines = append(lines, out)
		}
	}
	return strings.Join(lines, "\n")
}
