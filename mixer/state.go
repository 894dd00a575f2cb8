// SPDX-License-Identifier: EPL-2.0

package mixer

// State is the lifecycle stage of an Engine.
type State int32

const (
	// StateStopped is terminal. A stopped engine is never restarted.
	StateStopped State = iota
	StateRunning
	// StateDraining lasts from Stop, or a fatal sink failure, until the
	// sink is closed.
	StateDraining
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	default:
		return "stopped"
	}
}
