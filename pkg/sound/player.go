package sound

import (
	"fmt"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/nextcore/choreo/pkg/scheduler"
)

// PlaybackState is the state of one playback started by a [Player].
type PlaybackState int

const (
	// PlaybackIdle means the playback was created but has not started.
	PlaybackIdle PlaybackState = iota
	// PlaybackPlaying means the clip is audible.
	PlaybackPlaying
	// PlaybackCompleted means the clip reached its end.
	PlaybackCompleted
	// PlaybackStopped means the playback was cut short.
	PlaybackStopped
)

// String returns a human-readable label for the playback state.
func (s PlaybackState) String() string {
	switch s {
	case PlaybackIdle:
		return "idle"
	case PlaybackPlaying:
		return "playing"
	case PlaybackCompleted:
		return "completed"
	case PlaybackStopped:
		return "stopped"
	default:
		return fmt.Sprintf("PlaybackState(%d)", int(s))
	}
}

// DefaultClipLength is used for sources without a registered length.
const DefaultClipLength = 250 * time.Millisecond

// Playback is one clip in flight.
type Playback struct {
	ID     int64
	Source string
	Volume float64
	Length time.Duration

	player *Player
	state  PlaybackState
	timer  scheduler.Timer
}

// State returns the playback state.
func (p *Playback) State() PlaybackState { return p.state }

// Stop cuts the playback short. Stopping a finished playback does nothing.
func (p *Playback) Stop() {
	if p.state != PlaybackPlaying {
		return
	}
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.player.finish(p, PlaybackStopped)
}

// Player is a [Backend] that plays clips in scheduler time. Every Start
// creates an independent playback, so the same clip can overlap itself.
type Player struct {
	sched   scheduler.Scheduler
	log     *zap.Logger
	lengths map[string]time.Duration
	active  map[int64]*Playback
	nextID  atomic.Int64
	started atomic.Int64

	// OnStateChanged is called whenever a playback changes state.
	OnStateChanged func(p *Playback, state PlaybackState)
}

// NewPlayer creates a player on sched. lengths gives the clip length per
// source; unknown sources last DefaultClipLength.
func NewPlayer(sched scheduler.Scheduler, lengths map[string]time.Duration, log *zap.Logger) *Player {
	if log == nil {
		log = zap.NewNop()
	}
	return &Player{
		sched:   sched,
		log:     log,
		lengths: lengths,
		active:  make(map[int64]*Playback),
	}
}

// Start implements Backend.
func (pl *Player) Start(source string, volume float64) error {
	if source == "" {
		return fmt.Errorf("sound: empty source")
	}
	if volume < 0 || volume > 1 {
		return fmt.Errorf("sound: volume %v out of range [0, 1]", volume)
	}
	length, ok := pl.lengths[source]
	if !ok {
		length = DefaultClipLength
	}
	p := &Playback{
		ID:     pl.nextID.Inc(),
		Source: source,
		Volume: volume,
		Length: length,
		player: pl,
	}
	pl.active[p.ID] = p
	pl.started.Inc()
	pl.setState(p, PlaybackPlaying)
	p.timer = pl.sched.AfterFunc(length, func() {
		p.timer = nil
		pl.finish(p, PlaybackCompleted)
	})
	pl.log.Debug("playback started", zap.Int64("id", p.ID), zap.String("source", source), zap.Duration("length", length))
	return nil
}

func (pl *Player) finish(p *Playback, state PlaybackState) {
	if p.state != PlaybackPlaying {
		return
	}
	delete(pl.active, p.ID)
	pl.setState(p, state)
}

func (pl *Player) setState(p *Playback, state PlaybackState) {
	p.state = state
	if pl.OnStateChanged != nil {
		pl.OnStateChanged(p, state)
	}
}

// Active returns the number of clips currently playing.
func (pl *Player) Active() int { return len(pl.active) }

// Started returns how many playbacks were started in total.
func (pl *Player) Started() int64 { return pl.started.Load() }

// StopAll stops every active playback.
func (pl *Player) StopAll() {
	for _, p := range pl.active {
		p.Stop()
	}
}
