package model

type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

const (
	highPriorityBelow   = 10
	mediumPriorityBelow = 50
)

// DerivePriority: fewer committed units means more urgent.
func DerivePriority(quantityCommitted int) Priority {
	switch {
	case quantityCommitted < highPriorityBelow:
		return PriorityHigh
	case quantityCommitted < mediumPriorityBelow:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Rank orders priorities HIGH < MEDIUM < LOW; unknown values sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}
