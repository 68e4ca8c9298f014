package models

import (
	"encoding"
	"encoding/json"
	"fmt"
)

// State represents the scheduling stage of a card for one learner.
type State int

const (
	StateNew        State = iota + 1 // Never reviewed.
	StateLearning                    // Working through the initial learning steps.
	StateRelearning                  // Lapsed from Review, relearning.
	StateReview                      // In the long-term review cycle.
)

var (
	stateNames = [...]string{
		StateNew:        "new",
		StateLearning:   "learning",
		StateRelearning: "relearning",
		StateReview:     "review",
	}
	stateByName = map[string]State{
		"new":        StateNew,
		"learning":   StateLearning,
		"relearning": StateRelearning,
		"review":     StateReview,
	}
)

var (
	_ fmt.Stringer             = State(0)
	_ json.Marshaler           = State(0)
	_ json.Unmarshaler         = (*State)(nil)
	_ encoding.TextMarshaler   = State(0)
	_ encoding.TextUnmarshaler = (*State)(nil)
)

// IsValid reports whether s is one of the four recognized states.
func (s State) IsValid() bool {
	return s >= StateNew && s <= StateReview
}

// String returns the persisted name of the state. For invalid values it
// returns "State(n)".
func (s State) String() string {
	if s.IsValid() {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ParseState converts a persisted state name back into a State.
func ParseState(name string) (State, error) {
	if s, ok := stateByName[name]; ok {
		return s, nil
	}
	return 0, fmt.Errorf("unknown card state: %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid card state: %d", int(s))
	}
	return []byte(stateNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	v, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// MarshalJSON implements json.Marshaler. State serializes as a JSON string.
func (s State) MarshalJSON() ([]byte, error) {
	text, err := s.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *State) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("invalid card state: %s", data)
	}
	return s.UnmarshalText([]byte(str))
}
