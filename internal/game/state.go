package game

// State is the phase of a game session
type State string

const (
	StateNotStarted    State = "not_started"
	StateGenerating    State = "generating"
	StateAwaitingGuess State = "awaiting_guess"
	StateFeedback      State = "feedback"
	StateFinished      State = "finished"
)

type commandKind int

const (
	cmdStart commandKind = iota
	cmdGuess
	cmdSkip
	cmdRetry
	cmdTick
	cmdDispose
)

func (k commandKind) String() string {
	switch k {
	case cmdStart:
		return "start"
	case cmdGuess:
		return "guess"
	case cmdSkip:
		return "skip"
	case cmdRetry:
		return "retry"
	case cmdTick:
		return "tick"
	case cmdDispose:
		return "dispose"
	default:
		return "unknown"
	}
}

type command struct {
	kind  commandKind
	guess bool
	reply chan error
}
