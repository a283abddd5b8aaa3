package transition

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/nextcore/choreo/pkg/errors"
)

// ScopeConfigurer is implemented by leaves that adjust their scope's timing
// before the first transition, e.g. a text leaf sizing its entrance to its
// length.
type ScopeConfigurer interface {
	ConfigureScope(scope *Scope)
}

// BridgeOptions configures a [Bridge].
type BridgeOptions struct {
	// Flow enables dispatch. A bridge with Flow false never calls the leaf.
	Flow bool
	// Name identifies the leaf in logs.
	Name string
	// OnSettle runs when the leaf reports completion, with the status the
	// leaf reached (Entered or Exited).
	OnSettle func(Status)
	Logger   *zap.Logger
}

// Bridge translates status edges of a scope into Enter/Exit calls on a leaf.
//
// Dispatch is edge-triggered: the leaf sees one Enter per move into
// Entering and one Exit per move into Exiting, never a repeat while the
// scope sits in or settles from that status. A leaf that has not been
// entered is not asked to exit.
type Bridge struct {
	scope  *Scope
	leaf   any
	opts   BridgeOptions
	log    *zap.Logger
	remove []func()

	dispatched Status
	leafStatus Status
	edge       uint64
}

// Attach wires leaf to scope. The leaf is expected to implement [Handle];
// this is checked the first time a call is dispatched, and a leaf lacking
// Enter or Exit panics with *errors.ContractError.
//
// If the scope is already entering or entered when the bridge attaches, for
// instance under a region that stayed on screen across a navigation, the
// leaf is entered immediately so it catches up.
func Attach(scope *Scope, leaf any, opts BridgeOptions) *Bridge {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	b := &Bridge{
		scope: scope,
		leaf:  leaf,
		opts:  opts,
		log:   log.With(zap.String("scope", scope.Name()), zap.String("leaf", opts.Name)),
	}
	if !opts.Flow {
		return b
	}
	if cfg, ok := leaf.(ScopeConfigurer); ok && scope.Status() == Idle {
		cfg.ConfigureScope(scope)
	}
	b.remove = append(b.remove,
		scope.AddStatusListener(b.onStatus),
		scope.AddDestroyListener(b.Detach),
	)
	if scope.Status().Active() {
		b.dispatchEnter()
	}
	return b
}

// LeafStatus reports how far the leaf itself has progressed: Entering or
// Exiting after a dispatch, Entered or Exited once the leaf signalled
// completion, Idle before anything was dispatched.
func (b *Bridge) LeafStatus() Status { return b.leafStatus }

// Detach stops dispatching and ignores any outstanding leaf completion.
func (b *Bridge) Detach() {
	for _, fn := range b.remove {
		fn()
	}
	b.remove = nil
	b.edge++
}

func (b *Bridge) onStatus(_, to Status) {
	switch to {
	case Entering, Entered:
		if b.dispatched != Entering {
			b.dispatchEnter()
		}
	case Exiting, Exited:
		if b.dispatched == Entering {
			b.dispatchExit()
		}
	}
}

func (b *Bridge) contract() Handle {
	h, ok := b.leaf.(Handle)
	if ok {
		return h
	}
	var missing []string
	if _, ok := b.leaf.(Enterer); !ok {
		missing = append(missing, "Enter")
	}
	if _, ok := b.leaf.(Exiter); !ok {
		missing = append(missing, "Exit")
	}
	panic(&errors.ContractError{Leaf: fmt.Sprintf("%T", b.leaf), Missing: missing})
}

func (b *Bridge) dispatchEnter() {
	h := b.contract()
	b.dispatched = Entering
	b.leafStatus = Entering
	b.edge++
	b.log.Debug("leaf enter")
	h.Enter(b.completion(b.edge, Entered))
}

func (b *Bridge) dispatchExit() {
	h := b.contract()
	b.dispatched = Exiting
	b.leafStatus = Exiting
	b.edge++
	b.log.Debug("leaf exit")
	h.Exit(b.completion(b.edge, Exited))
}

func (b *Bridge) completion(edge uint64, reached Status) func() {
	return func() {
		if edge != b.edge {
			return
		}
		b.edge++
		b.leafStatus = reached
		if b.opts.OnSettle != nil {
			b.opts.OnSettle(reached)
		}
	}
}
