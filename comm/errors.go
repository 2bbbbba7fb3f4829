package comm

import (
	"errors"
	"fmt"
)

// ErrStreamClosed reports that the inbound stream reached EOF, which
// normally means the game process went away.
var ErrStreamClosed = errors.New("comm: inbound stream closed")

// ActionFault is returned when an action fails validation against the
// current snapshot. No command line is written for a faulted action.
type ActionFault struct {
	Action string
	Reason string
}

func (e *ActionFault) Error() string {
	return fmt.Sprintf("action fault in %s: %s", e.Action, e.Reason)
}

func faultf(action, format string, args ...interface{}) error {
	return &ActionFault{Action: action, Reason: fmt.Sprintf(format, args...)}
}
