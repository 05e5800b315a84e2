// Package flow implements the static state-flow graph and the agent
// that drives it: the per-tick latch/inference dispatch and transition
// matching described in spec.md §4.8. Command throttling is not done
// here; it lives in bridge.Throttler.
package flow

import (
	"fmt"
	"regexp"

	"github.com/m-marini/wheellyj-sub009/internal/proc"
	"github.com/m-marini/wheellyj-sub009/internal/statenode"
)

// Transition is one labeled edge of the flow graph: it fires when the
// current state (FromID) returns an exit key whose string matches
// Trigger, running OnTransition (if any) on the way to ToID.
type Transition struct {
	FromID       string
	Trigger      *regexp.Regexp
	ToID         string
	OnTransition proc.Sequence
}

// NewTransition compiles triggerRegex and builds a Transition, or
// returns an error if the regex is malformed — a configuration error
// per spec.md §7, caught at flow construction rather than at match
// time.
func NewTransition(fromID, triggerRegex, toID string, onTransition proc.Sequence) (Transition, error) {
	re, err := regexp.Compile(triggerRegex)
	if err != nil {
		return Transition{}, fmt.Errorf("flow: bad trigger regex %q for %s: %w", triggerRegex, fromID, err)
	}
	return Transition{FromID: fromID, Trigger: re, ToID: toID, OnTransition: onTransition}, nil
}

// Flow is the static graph: an entry state, the states keyed by id,
// and an ordered list of transitions where the first matching entry
// wins.
type Flow struct {
	EntryID     string
	States      map[string]statenode.StateNode
	Transitions []Transition
	OnInit      proc.Sequence
}

// NewFlow validates and builds a Flow. Validation failures (unknown
// entry id, a transition referencing an undefined from/to state) are
// configuration errors, fatal at construction per spec.md §7.
func NewFlow(entryID string, states map[string]statenode.StateNode, transitions []Transition, onInit proc.Sequence) (*Flow, error) {
	if _, ok := states[entryID]; !ok {
		return nil, fmt.Errorf("flow: entry state %q is not defined", entryID)
	}
	for _, t := range transitions {
		if _, ok := states[t.FromID]; !ok {
			return nil, fmt.Errorf("flow: transition references undefined from-state %q", t.FromID)
		}
		if _, ok := states[t.ToID]; !ok {
			return nil, fmt.Errorf("flow: transition references undefined to-state %q", t.ToID)
		}
	}
	return &Flow{EntryID: entryID, States: states, Transitions: transitions, OnInit: onInit}, nil
}

// match returns the first transition from fromID whose trigger matches
// exit, in declaration order.
func (f *Flow) match(fromID, exit string) (Transition, bool) {
	for _, t := range f.Transitions {
		if t.FromID == fromID && t.Trigger.MatchString(exit) {
			return t, true
		}
	}
	return Transition{}, false
}
