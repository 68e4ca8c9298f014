package models

import (
	"encoding"
	"encoding/json"
	"fmt"
)

// Response is the learner's self-reported recall quality for a review.
type Response int

const (
	ResponseAgain Response = iota + 1 // Failed to recall.
	ResponseHard                      // Recalled with difficulty.
	ResponseGood                      // Recalled with some effort.
	ResponseEasy                      // Recalled effortlessly.
)

var (
	responseNames = [...]string{
		ResponseAgain: "again",
		ResponseHard:  "hard",
		ResponseGood:  "good",
		ResponseEasy:  "easy",
	}
	responseByName = map[string]Response{
		"again": ResponseAgain,
		"hard":  ResponseHard,
		"good":  ResponseGood,
		"easy":  ResponseEasy,
	}
)

var (
	_ fmt.Stringer             = Response(0)
	_ json.Marshaler           = Response(0)
	_ json.Unmarshaler         = (*Response)(nil)
	_ encoding.TextMarshaler   = Response(0)
	_ encoding.TextUnmarshaler = (*Response)(nil)
)

// IsValid reports whether r is one of the four recognized responses.
func (r Response) IsValid() bool {
	return r >= ResponseAgain && r <= ResponseEasy
}

// String returns the wire name of the response. For invalid values it
// returns "Response(n)".
func (r Response) String() string {
	if r.IsValid() {
		return responseNames[r]
	}
	return fmt.Sprintf("Response(%d)", int(r))
}

// ParseResponse converts a wire name back into a Response.
func ParseResponse(name string) (Response, error) {
	if r, ok := responseByName[name]; ok {
		return r, nil
	}
	return 0, fmt.Errorf("unknown response: %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (r Response) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("invalid response: %d", int(r))
	}
	return []byte(responseNames[r]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Response) UnmarshalText(text []byte) error {
	v, err := ParseResponse(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// MarshalJSON implements json.Marshaler. Response serializes as a JSON string.
func (r Response) MarshalJSON() ([]byte, error) {
	text, err := r.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Response) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid response: %s", data)
	}
	return r.UnmarshalText([]byte(s))
}
