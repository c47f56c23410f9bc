package ports

import "path-route-service/internal/domain"

// Notifications emitted by the engine to whatever presents its state.
// Calls arrive on the engine's logic loop and must return promptly.
type Notifier interface {
	EntryUpdated(id domain.EntryID)
	AggregateUpdated(totals domain.Totals)
	Warn(message string)
	InputLockRequested()
	InputLockReleased()
}
