// Package sound provides the named, fire-and-forget audio cues leaf views
// play while they transition.
//
// Cues are independent: playing one never waits for or cancels another, and
// the same cue may overlap itself when transitions toggle quickly.
package sound

import (
	"sort"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/nextcore/choreo/pkg/errors"
)

// Standard cue names used by the site's leaf views.
const (
	Deploy      = "deploy"
	Typing      = "typing"
	Click       = "click"
	Information = "information"
)

// Cue is a playable sound.
type Cue interface {
	Play()
}

// CueFunc adapts a function to Cue.
type CueFunc func()

// Play implements Cue.
func (f CueFunc) Play() { f() }

// Backend starts playback of an audio source. Implementations must return
// promptly; playback continues in the background.
type Backend interface {
	Start(source string, volume float64) error
}

// Sounds is the registry of named cues handed to leaf views.
type Sounds struct {
	cues     map[string]Cue
	log      *zap.Logger
	failures atomic.Int64
}

// New returns an empty registry.
func New(log *zap.Logger) *Sounds {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sounds{cues: make(map[string]Cue), log: log}
}

// Register binds name to cue, replacing any previous binding.
func (s *Sounds) Register(name string, cue Cue) {
	s.cues[name] = cue
}

// Cue returns the cue registered under name. Unknown names return a silent
// cue so views never need to nil-check.
func (s *Sounds) Cue(name string) Cue {
	cue, ok := s.cues[name]
	if !ok {
		return CueFunc(func() {
			s.log.Debug("unknown sound cue", zap.String("cue", name))
		})
	}
	return guarded{sounds: s, name: name, cue: cue}
}

// Play plays the named cue.
func (s *Sounds) Play(name string) {
	s.Cue(name).Play()
}

// Names returns the registered cue names in sorted order.
func (s *Sounds) Names() []string {
	names := make([]string, 0, len(s.cues))
	for name := range s.cues {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Failures returns how many cue plays panicked.
func (s *Sounds) Failures() int64 {
	return s.failures.Load()
}

// guarded keeps a misbehaving cue from unwinding a transition.
type guarded struct {
	sounds *Sounds
	name   string
	cue    Cue
}

func (g guarded) Play() {
	defer errors.RecoverWithCallback("sound.Cue.Play:"+g.name, func(r any) {
		g.sounds.failures.Inc()
		g.sounds.log.Warn("sound cue panicked", zap.String("cue", g.name), zap.Any("panic", r))
	})
	g.cue.Play()
}

// SourceCue plays an audio source through a Backend.
type SourceCue struct {
	Name    string
	Source  string
	Volume  float64
	Backend Backend
	Logger  *zap.Logger
}

// Play starts playback and returns immediately.
func (c *SourceCue) Play() {
	if c.Backend == nil {
		return
	}
	if err := c.Backend.Start(c.Source, c.Volume); err != nil && c.Logger != nil {
		c.Logger.Warn("sound cue failed", zap.String("cue", c.Name), zap.String("source", c.Source), zap.Error(err))
	}
}

// Recorder is a Cue that counts plays and forwards them to OnPlay. The
// simulator and tests use it in place of real audio.
type Recorder struct {
	Name   string
	OnPlay func(name string)
	plays  atomic.Int64
}

// Play implements Cue.
func (r *Recorder) Play() {
	r.plays.Inc()
	if r.OnPlay != nil {
		r.OnPlay(r.Name)
	}
}

// Plays returns how many times the cue was played.
func (r *Recorder) Plays() int64 {
	return r.plays.Load()
}

// LogBackend is a Backend that only logs what it would play.
type LogBackend struct {
	Logger *zap.Logger
	starts atomic.Int64
}

// Start implements Backend.
func (b *LogBackend) Start(source string, volume float64) error {
	b.starts.Inc()
	if b.Logger != nil {
		b.Logger.Debug("play", zap.String("source", source), zap.Float64("volume", volume))
	}
	return nil
}

// Starts returns how many playbacks were started.
func (b *LogBackend) Starts() int64 {
	return b.starts.Load()
}
