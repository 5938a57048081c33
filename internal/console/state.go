// Package console holds the operator-facing state of the twin console: the
// current parameters, the rolling update log and the slider descriptors used
// to edit them. Transitions are pure; the UI owns one State value and replaces
// it on every change.
package console

import "twinconsole/internal/frame"

// LogCapacity is the number of log lines retained.
const LogCapacity = 8

// State is the console's view of the instrument.
type State struct {
	Params frame.Params
	Logs   []string

	line string
}

// NewState returns the state the console starts in.
func NewState() State {
	s := State{
		Logs: []string{
			"Console initialized.",
			"Ready. Adjust parameters to update frame and twin.",
		},
	}
	return s.apply(frame.DefaultParams())
}

// Line is the formatted status line for the current params.
func (s State) Line() string {
	return s.line
}

// WithParams returns the state after the operator moved to p. An update line
// is logged only when the formatted status line changes, so sub-step jitter
// that rounds to the same text stays out of the log.
func (s State) WithParams(p frame.Params) State {
	return s.apply(p)
}

func (s State) apply(p frame.Params) State {
	line := p.String()
	next := State{Params: p, line: line, Logs: s.Logs}
	if line != s.line {
		next.Logs = appendCapped(s.Logs, "Update: "+line)
	}
	return next
}

// appendCapped returns a fresh slice holding the last LogCapacity entries of
// logs followed by line; logs itself is never modified.
func appendCapped(logs []string, line string) []string {
	out := make([]string, 0, LogCapacity)
	start := len(logs) + 1 - LogCapacity
	if start < 0 {
		start = 0
	}
	out = append(out, logs[start:]...)
	return append(out, line)
}
