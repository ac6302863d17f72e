package playback

// Phase is the lifecycle phase of a playback session.
type Phase int

const (
	Idle Phase = iota
	Loading
	Playing
	Paused
	Completed
	Error
)

var phaseNames = [...]string{"idle", "loading", "playing", "paused", "completed", "error"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Terminal reports whether only Replay can leave the phase.
func (p Phase) Terminal() bool { return p == Completed || p == Error }

// transitions lists the legal successors of each phase. Replay reaches Idle
// from everywhere.
var transitions = map[Phase][]Phase{
	Idle:      {Loading, Idle},
	Loading:   {Playing, Completed, Error, Idle},
	Playing:   {Paused, Completed, Idle},
	Paused:    {Playing, Idle},
	Completed: {Idle},
	Error:     {Idle},
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to Phase) bool {
	for _, p := range transitions[from] {
		if p == to {
			return true
		}
	}
	return false
}

// Event names what caused an [Update].
type Event int

const (
	EventLoading Event = iota
	EventFrame
	EventPaused
	EventResumed
	EventCompleted
	EventError
	EventReset
)

var eventNames = [...]string{"loading", "frame", "paused", "resumed", "completed", "error", "reset"}

func (e Event) String() string {
	if e < 0 || int(e) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[e]
}

// MarshalText encodes the event by name.
func (e Event) MarshalText() ([]byte, error) { return []byte(e.String()), nil }
