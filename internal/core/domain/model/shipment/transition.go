package shipment

import "time"

// Transition describes one status change made by a Shipment method.
type Transition struct {
	From Status
	To   Status
	Note string
	At   time.Time
}

// IsChange is false for idempotent no-op calls such as failing an already failed shipment.
func (t Transition) IsChange() bool {
	return t.From != t.To
}
