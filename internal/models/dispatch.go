package models

import (
	"fmt"
	"strings"
)

// Priority ranks an occurrence assignment.
type Priority string

const (
	PriorityVeryHigh Priority = "VeryHigh"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
	PriorityVeryLow  Priority = "VeryLow"
)

// Priorities returns all priorities from most to least urgent.
func Priorities() []Priority {
	return []Priority{PriorityVeryHigh, PriorityHigh, PriorityMedium, PriorityLow, PriorityVeryLow}
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	for _, q := range Priorities() {
		if p == q {
			return true
		}
	}
	return false
}

// ParsePriority matches s against the known priorities, ignoring case.
func ParsePriority(s string) (Priority, error) {
	for _, p := range Priorities() {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("models: unknown priority %q", s)
}

// StartOccurrenceRequest assigns a pending request to a driver shift.
type StartOccurrenceRequest struct {
	DriverShiftID string   `json:"driverShiftId"`
	Priority      Priority `json:"priority"`
}
