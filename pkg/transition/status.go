package transition

import (
	"fmt"
	"strings"
)

// Status is the lifecycle position of a scope.
type Status int

const (
	// Idle is the status of a scope that has not transitioned yet.
	Idle Status = iota
	// Entering means the enter timer is pending.
	Entering
	// Entered means the subtree is fully shown.
	Entered
	// Exiting means the exit timer is pending.
	Exiting
	// Exited means the subtree is fully hidden.
	Exited
)

var statusNames = [...]string{"idle", "entering", "entered", "exiting", "exited"}

func (s Status) String() string {
	if s < Idle || s > Exited {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// Active reports whether s is Entering or Entered.
func (s Status) Active() bool {
	return s == Entering || s == Entered
}

// Settled reports whether no timer is pending in s.
func (s Status) Settled() bool {
	return s != Entering && s != Exiting
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	if name == "" {
		*s = Idle
		return nil
	}
	for i, n := range statusNames {
		if n == name {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("transition: unknown status %q", string(text))
}
