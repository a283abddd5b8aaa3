package site

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/nextcore/choreo/pkg/config"
	"github.com/nextcore/choreo/pkg/scheduler"
)

//go:embed default_script.yaml
var defaultScript []byte

// DefaultSettle bounds how long a script waits for the site to go idle.
const DefaultSettle = 30 * time.Second

// idlePoll is how often realtime playback checks whether the site is idle.
const idlePoll = 20 * time.Millisecond

// Step is one scripted user action. Wait is how long to let the site run
// before acting; zero waits until nothing is transitioning.
type Step struct {
	Wait     config.Duration `yaml:"wait"`
	Navigate string          `yaml:"navigate"`
	Scroll   *int            `yaml:"scroll"`
}

// Script is a sequence of visits.
type Script struct {
	Name   string          `yaml:"name"`
	Start  string          `yaml:"start"`
	Settle config.Duration `yaml:"settle"`
	Steps  []Step          `yaml:"steps"`
}

// ParseScript decodes and checks a YAML script.
func ParseScript(data []byte) (*Script, error) {
	var sc Script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if sc.Start == "" {
		sc.Start = "/"
	}
	if sc.Settle <= 0 {
		sc.Settle = config.Duration(DefaultSettle)
	}
	for i, step := range sc.Steps {
		if step.Wait < 0 {
			return nil, fmt.Errorf("step %d: wait must not be negative", i+1)
		}
		if step.Navigate == "" && step.Scroll == nil {
			return nil, fmt.Errorf("step %d: nothing to do (set navigate or scroll)", i+1)
		}
	}
	return &sc, nil
}

// LoadScript reads a script file. An empty path returns the built-in tour.
func LoadScript(path string) (*Script, error) {
	if path == "" {
		return DefaultScript()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return ParseScript(data)
}

// DefaultScript is the built-in tour of the site.
func DefaultScript() (*Script, error) {
	return ParseScript(defaultScript)
}

func (s *Site) apply(step Step) {
	if step.Scroll != nil {
		s.scroll.ScrollTo(*step.Scroll)
		s.rec.Note("scroll", "to %d", *step.Scroll)
	}
	if step.Navigate != "" {
		s.Navigate(step.Navigate)
	}
}

// Play runs sc against a manual scheduler in virtual time.
func (s *Site) Play(sched *scheduler.Manual, sc *Script) error {
	settle := sc.Settle.Std()
	s.Start(sc.Start)
	for i, step := range sc.Steps {
		if step.Wait > 0 {
			sched.Advance(step.Wait.Std())
		} else if err := sched.Settle(settle); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		s.apply(step)
	}
	return sched.Settle(settle)
}

// PlayRealtime runs sc on a real-time loop, driving it from a second
// goroutine. It returns once the last step has settled.
func (s *Site) PlayRealtime(ctx context.Context, loop *scheduler.Loop, sc *Script) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := loop.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		defer cancel()
		settle := sc.Settle.Std()
		if err := loop.Do(gctx, func() { s.Start(sc.Start) }); err != nil {
			return err
		}
		for i, step := range sc.Steps {
			if step.Wait > 0 {
				if err := sleep(gctx, step.Wait.Std()); err != nil {
					return err
				}
			} else if err := s.waitIdle(gctx, loop, settle); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
			if err := loop.Do(gctx, func() { s.apply(step) }); err != nil {
				return err
			}
		}
		return s.waitIdle(gctx, loop, settle)
	})

	return g.Wait()
}

func (s *Site) waitIdle(ctx context.Context, loop *scheduler.Loop, bound time.Duration) error {
	deadline := time.Now().Add(bound)
	for {
		var idle bool
		if err := loop.Do(ctx, func() { idle = s.Idle() }); err != nil {
			return err
		}
		if idle {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("site still transitioning after %v", bound)
		}
		if err := sleep(ctx, idlePoll); err != nil {
			return err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
