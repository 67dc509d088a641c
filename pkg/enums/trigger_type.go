package enums

import "fmt"

// TriggerType maps to the request_trigger_type enum in Postgres.
type TriggerType string

const (
	TriggerTypeOutOfStock     TriggerType = "out_of_stock"
	TriggerTypeBelowThreshold TriggerType = "below_threshold"
	TriggerTypeManual         TriggerType = "manual"
)

var validTriggerTypes = []TriggerType{
	TriggerTypeOutOfStock,
	TriggerTypeBelowThreshold,
	TriggerTypeManual,
}

// IsValid checks whether the given trigger matches the canonical enum.
func (t TriggerType) IsValid() bool {
	for _, candidate := range validTriggerTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTriggerType converts raw strings into TriggerType.
func ParseTriggerType(value string) (TriggerType, error) {
	for _, candidate := range validTriggerTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trigger type %q", value)
}
