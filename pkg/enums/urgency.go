package enums

import "fmt"

// Urgency maps to the request_urgency enum in Postgres.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
)

var validUrgencies = []Urgency{UrgencyLow, UrgencyNormal, UrgencyHigh}

// IsValid checks whether the given urgency matches the canonical enum.
func (u Urgency) IsValid() bool {
	for _, candidate := range validUrgencies {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUrgency converts raw strings into Urgency.
func ParseUrgency(value string) (Urgency, error) {
	for _, candidate := range validUrgencies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid urgency %q", value)
}
