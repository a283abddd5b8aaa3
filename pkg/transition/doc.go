// Package transition coordinates entering and exiting animations across a
// tree of independently implemented views.
//
// # Core Components
//
//   - [Scope]: the status, timing and generation record of one animated
//     subtree. Descendants receive it explicitly and may read it or subscribe
//     to it; only its [Provider] changes its status.
//
//   - [Provider]: drives a Scope through idle → entering → entered →
//     exiting → exited with timers on a [scheduler.Scheduler]. A request for
//     the opposite direction pre-empts a pending timer by bumping the scope's
//     generation; timer callbacks from older generations are discarded.
//
//   - [Coordinator]: enters an ordered list of [Handle] values with
//     index-based stagger delays and aggregates their exits, with a bounded
//     fallback so one broken child cannot hold up navigation.
//
//   - [Bridge]: watches a Scope and calls a leaf view's Enter/Exit exactly
//     once per status edge.
//
// # Handle contract
//
// Everything an orchestrator drives implements [Handle]:
//
//	Enter(done func())
//	Exit(done func())
//
// done is called when the transition finished. Completions belonging to a
// superseded request are dropped, never delivered late.
//
// # Threading
//
// Types in this package are not safe for concurrent use. All calls must come
// from the scheduler that drives them.
package transition
