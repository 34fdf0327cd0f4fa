// Package values contains immutable value objects for the lintcfg domain model.
package values

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity represents how the lint engine reports a rule.
// Enforces valid severity values and provides ordering.
type Severity struct {
	value SeverityLevel
}

// SeverityLevel is the internal representation
type SeverityLevel int

const (
	SeverityUnknown SeverityLevel = 0
	SeverityOff     SeverityLevel = 1
	SeverityWarn    SeverityLevel = 2
	SeverityError   SeverityLevel = 3
)

// Predefined severity values
var (
	SevUnknown = Severity{SeverityUnknown}
	SevOff     = Severity{SeverityOff}
	SevWarn    = Severity{SeverityWarn}
	SevError   = Severity{SeverityError}
)

// NewSeverity creates a Severity from its string form.
// Both the named ("off", "warn", "error") and numeric ("0", "1", "2") forms are accepted.
func NewSeverity(s string) (Severity, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	switch s {
	case "off", "0":
		return SevOff, nil
	case "warn", "1":
		return SevWarn, nil
	case "error", "2":
		return SevError, nil
	default:
		return SevUnknown, fmt.Errorf("invalid severity: %q (must be off, warn, or error)", s)
	}
}

// SeverityFromLevel creates a Severity from the numeric form used by lint engines.
func SeverityFromLevel(level int) (Severity, error) {
	switch level {
	case 0:
		return SevOff, nil
	case 1:
		return SevWarn, nil
	case 2:
		return SevError, nil
	default:
		return SevUnknown, fmt.Errorf("invalid severity level: %d (must be 0, 1, or 2)", level)
	}
}

// MustNewSeverity creates a Severity or panics
func MustNewSeverity(s string) Severity {
	sev, err := NewSeverity(s)
	if err != nil {
		panic(err)
	}
	return sev
}

// String returns the string representation
func (s Severity) String() string {
	switch s.value {
	case SeverityOff:
		return "off"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Level returns the numeric form understood by lint engines (0, 1, 2).
// Unknown severities return -1.
func (s Severity) Level() int {
	return int(s.value) - 1
}

// IsValid reports whether the severity is one of off, warn, or error.
// The zero value is unknown and therefore invalid.
func (s Severity) IsValid() bool {
	return s.value >= SeverityOff && s.value <= SeverityError
}

// IsEnabled returns true for warn and error.
func (s Severity) IsEnabled() bool {
	return s.value == SeverityWarn || s.value == SeverityError
}

// IsHigherThan returns true if this severity is higher than the other
func (s Severity) IsHigherThan(other Severity) bool {
	return s.value > other.value
}

// Equals checks if two severities are equal
func (s Severity) Equals(other Severity) bool {
	return s.value == other.value
}

// MarshalJSON implements json.Marshaler
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
// Accepts both "warn" and 1.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid severity JSON: %w", err)
	}

	sev, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// MarshalYAML implements the go-yaml InterfaceMarshaler.
func (s Severity) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// ParseSeverity converts a decoded YAML/JSON scalar into a Severity.
func ParseSeverity(raw interface{}) (Severity, error) {
	switch v := raw.(type) {
	case string:
		return NewSeverity(v)
	case int:
		return SeverityFromLevel(v)
	case int64:
		return SeverityFromLevel(int(v))
	case uint64:
		return SeverityFromLevel(int(v))
	case float64:
		if v != float64(int(v)) {
			return SevUnknown, fmt.Errorf("invalid severity level: %v", v)
		}
		return SeverityFromLevel(int(v))
	case Severity:
		return v, nil
	default:
		return SevUnknown, fmt.Errorf("cannot use %T as severity", raw)
	}
}
