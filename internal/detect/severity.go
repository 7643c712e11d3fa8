package detect

import (
	"encoding/json"
	"fmt"
)

// Severity classifies how urgent a detected issue is. The ordering is
// explicit: Critical > High > Medium > Low.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// String returns the canonical upper-case name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityHigh:
		return "HIGH"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityLow:
		return "LOW"
	default:
		return "UNKNOWN"
	}
}

// MarshalJSON encodes the severity as its canonical name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a canonical severity name.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	sev, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// ParseSeverity maps a canonical name to a Severity.
func ParseSeverity(name string) (Severity, error) {
	switch name {
	case "CRITICAL":
		return SeverityCritical, nil
	case "HIGH":
		return SeverityHigh, nil
	case "MEDIUM":
		return SeverityMedium, nil
	case "LOW":
		return SeverityLow, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", name)
	}
}

// hoursToFix is the fixed remediation estimate per severity, in hours.
func (s Severity) hoursToFix() float64 {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0.5
	}
}

// scorePenalty is the fixed maintainability penalty per severity.
func (s Severity) scorePenalty() int {
	switch s {
	case SeverityCritical:
		return 10
	case SeverityHigh:
		return 5
	case SeverityMedium:
		return 2
	default:
		return 1
	}
}
