package sims

import "fmt"

type State uint8

const (
	Idle State = iota
	Running
	Paused
	Finished
	Errored
)

var stateNames = [...]string{
	Idle:     "idle",
	Running:  "running",
	Paused:   "paused",
	Finished: "finished",
	Errored:  "errored",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", s)
}

// Done reports whether the state is terminal until Reset.
func (s State) Done() bool {
	return s == Finished || s == Errored
}
