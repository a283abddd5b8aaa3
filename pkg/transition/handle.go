package transition

// Enterer is the entering half of the lifecycle contract.
type Enterer interface {
	Enter(done func())
}

// Exiter is the exiting half of the lifecycle contract. Every top-level page
// exposes at least an Exiter so a navigating ancestor can tear it down.
type Exiter interface {
	Exit(done func())
}

// Handle is anything an orchestrator can enter and exit.
type Handle interface {
	Enterer
	Exiter
}

// HandleFuncs adapts a pair of functions to Handle. A nil function completes
// immediately.
type HandleFuncs struct {
	EnterFunc func(done func())
	ExitFunc  func(done func())
}

// Enter implements Handle.
func (h HandleFuncs) Enter(done func()) {
	if h.EnterFunc == nil {
		call(done)
		return
	}
	h.EnterFunc(done)
}

// Exit implements Handle.
func (h HandleFuncs) Exit(done func()) {
	if h.ExitFunc == nil {
		call(done)
		return
	}
	h.ExitFunc(done)
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

func callAll(fns []func()) {
	for _, fn := range fns {
		call(fn)
	}
}
