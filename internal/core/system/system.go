package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput   Phase = iota // 0: queue proposals for this tick
	PhaseDecide               // 1: stage actions, run rules, commit or discard
	PhaseEffects              // 2: effect pipeline over committed state
	PhaseOutput               // 3: debug printing, read-only
	PhaseCleanup              // 4: flush queued entity clears
	PhaseClock                // 5: advance world time
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseDecide:
		return "decide"
	case PhaseEffects:
		return "effects"
	case PhaseOutput:
		return "output"
	case PhaseCleanup:
		return "cleanup"
	case PhaseClock:
		return "clock"
	default:
		return "unknown"
	}
}

// System is the interface every tick-driven system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
