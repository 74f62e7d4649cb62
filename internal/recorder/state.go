package recorder

import "errors"

// State is the recorder's lifecycle phase.
type State int

const (
	NoActiveSession          State = iota // Waiting for a climber to start
	SessionInProgress                     // Accepting climbs
	AwaitingSaveConfirmation              // Finish requested, waiting for confirm or cancel
)

func (s State) String() string {
	switch s {
	case NoActiveSession:
		return "no active session"
	case SessionInProgress:
		return "in progress"
	case AwaitingSaveConfirmation:
		return "awaiting save confirmation"
	default:
		return "unknown"
	}
}

var (
	ErrNoActiveSession = errors.New("no active session")
	ErrSessionActive   = errors.New("a session is already in progress")
	ErrNotInProgress   = errors.New("session is awaiting save confirmation")
	ErrNotConfirming   = errors.New("session is not awaiting save confirmation")
	ErrNothingToSave   = errors.New("no climbs to save")
	ErrSaveInFlight    = errors.New("the session is being saved")
)
