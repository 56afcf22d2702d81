package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// TransmissionState is the CoCoTangki sub-state of a document, independent of
// its approval workflow. The zero value is StateNotSent and is stored as NULL.
type TransmissionState uint8

const (
	StateNotSent TransmissionState = iota
	StateSent
	StateError
)

// String returns the wire name of the state
func (s TransmissionState) String() string {
	switch s {
	case StateSent:
		return "sent"
	case StateError:
		return "error"
	default:
		return "not_sent"
	}
}

// ParseTransmissionState converts a stored or wire name back into a state
func ParseTransmissionState(v string) (TransmissionState, error) {
	switch v {
	case "", "not_sent":
		return StateNotSent, nil
	case "sent":
		return StateSent, nil
	case "error":
		return StateError, nil
	}
	return StateNotSent, fmt.Errorf("unknown transmission state %q", v)
}

// CanTransition reports whether a send attempt may move the document from s to next.
// sent is terminal; error may be retried into sent or error again.
func (s TransmissionState) CanTransition(next TransmissionState) bool {
	if next == StateNotSent {
		return false
	}
	return s != StateSent
}

// Value implements driver.Valuer
func (s TransmissionState) Value() (driver.Value, error) {
	if s == StateNotSent {
		return nil, nil
	}
	return s.String(), nil
}

// Scan implements sql.Scanner
func (s *TransmissionState) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = StateNotSent
		return nil
	case string:
		parsed, err := ParseTransmissionState(v)
		*s = parsed
		return err
	case []byte:
		parsed, err := ParseTransmissionState(string(v))
		*s = parsed
		return err
	}
	return fmt.Errorf("cannot scan %T into TransmissionState", value)
}

// MarshalJSON renders the state by name
func (s TransmissionState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the names produced by MarshalJSON
func (s *TransmissionState) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseTransmissionState(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
