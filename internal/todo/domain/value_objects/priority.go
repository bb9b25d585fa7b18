package value_objects

import (
	"errors"
	"fmt"
	"strings"
)

// Priority represents task urgency level.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

var (
	ErrInvalidPriority = errors.New("invalid priority value")
)

var priorityNames = map[Priority]string{
	PriorityLow:      "LOW",
	PriorityMedium:   "MEDIUM",
	PriorityHigh:     "HIGH",
	PriorityCritical: "CRITICAL",
}

var priorityValues = map[string]Priority{
	"LOW":      PriorityLow,
	"MEDIUM":   PriorityMedium,
	"HIGH":     PriorityHigh,
	"CRITICAL": PriorityCritical,
}

// Priorities lists every priority from lowest to highest rank.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
}

// ParsePriority creates a Priority from a string, ignoring case.
func ParsePriority(s string) (Priority, error) {
	p, ok := priorityValues[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return p, nil
}

// String returns the canonical name of the priority.
func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsValid returns true if the priority is a valid value.
func (p Priority) IsValid() bool {
	_, ok := priorityNames[p]
	return ok
}

// Rank returns the position in the total order CRITICAL > HIGH > MEDIUM > LOW.
// Invalid priorities rank 0.
func (p Priority) Rank() int {
	if !p.IsValid() {
		return 0
	}
	return int(p)
}

// MarshalText encodes the priority as its canonical name.
func (p Priority) MarshalText() ([]byte, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPriority, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText decodes a priority name.
func (p *Priority) UnmarshalText(text []byte) error {
	parsed, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
