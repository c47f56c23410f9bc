package engine

import (
	"path-route-service/internal/domain"
	"path-route-service/internal/ports"
)

// NopNotifier discards every notification.
type NopNotifier struct{}

func (NopNotifier) EntryUpdated(domain.EntryID)    {}
func (NopNotifier) AggregateUpdated(domain.Totals) {}
func (NopNotifier) Warn(string)                    {}
func (NopNotifier) InputLockRequested()            {}
func (NopNotifier) InputLockReleased()             {}

// FanOut delivers each notification to every notifier in order.
type FanOut []ports.Notifier

func (f FanOut) EntryUpdated(id domain.EntryID) {
	for _, n := range f {
		n.EntryUpdated(id)
	}
}

func (f FanOut) AggregateUpdated(t domain.Totals) {
	for _, n := range f {
		n.AggregateUpdated(t)
	}
}

func (f FanOut) Warn(message string) {
	for _, n := range f {
		n.Warn(message)
	}
}

func (f FanOut) InputLockRequested() {
	for _, n := range f {
		n.InputLockRequested()
	}
}

func (f FanOut) InputLockReleased() {
	for _, n := range f {
		n.InputLockReleased()
	}
}
