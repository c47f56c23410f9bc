// Package engine correlates asynchronous route results with the path entries
// that requested them and keeps the aggregate distance and duration current.
//
// An Engine is not safe for concurrent use. All calls, user actions and
// provider callbacks alike, must be made from one goroutine; Loop provides one.
package engine

import (
	"context"
	"fmt"
	"path-route-service/internal/domain"
	"path-route-service/internal/ports"
	"regexp"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Separator used between waypoint labels when none is configured.
const DefaultSeparator = ","

var lineBreaks = regexp.MustCompile(`[\r\n]+`)

type Option func(*Engine)

// WithSeparator sets the waypoint delimiter used when splitting paths for a query.
func WithSeparator(sep string) Option {
	return func(e *Engine) {
		if sep != "" {
			e.separator = sep
		}
	}
}

// WithTokenSource replaces the correlation token generator.
func WithTokenSource(ts TokenSource) Option {
	return func(e *Engine) {
		if ts != nil {
			e.dispatcher.tokens = ts
		}
	}
}

// Engine owns the path list, the correlation registry and the aggregate.
type Engine struct {
	store      *Store
	registry   *Registry
	dispatcher *Dispatcher
	notifier   ports.Notifier
	separator  string
	totals     domain.Totals
}

func New(bridge ports.RouteBridge, notifier ports.Notifier, opts ...Option) *Engine {
	if notifier == nil {
		notifier = NopNotifier{}
	}

	e := &Engine{
		store:     NewStore(),
		registry:  NewRegistry(),
		notifier:  notifier,
		separator: DefaultSeparator,
	}
	e.dispatcher = &Dispatcher{
		store:     e.store,
		registry:  e.registry,
		bridge:    bridge,
		notifier:  notifier,
		tokens:    NewTokenSource(),
		recompute: e.recompute,
	}

	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Separator() string { return e.separator }

// Add appends a path entry in Idle state. Blank input is ignored.
func (e *Engine) Add(raw string) (domain.EntryID, bool) {
	id, ok := e.store.Add(raw)
	if ok {
		log.WithFields(logrus.Fields{"entry": id, "path": strings.TrimSpace(raw)}).Debug("path added")
		e.notifier.EntryUpdated(id)
	}
	return id, ok
}

// AddDraft adds multi-line draft text as one path, joining lines with the
// separator, and optionally submits it right away.
func (e *Engine) AddDraft(ctx context.Context, text string, query bool) (domain.EntryID, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, ErrEmptyInput
	}
	text = lineBreaks.ReplaceAllString(text, e.separator)

	id, ok := e.Add(text)
	if !ok {
		return 0, ErrEmptyInput
	}
	if query {
		if _, err := e.Submit(ctx, id); err != nil {
			return id, fmt.Errorf("add draft: %w", err)
		}
	}
	return id, nil
}

// Remove deletes an entry. Late results for its pending query are dropped.
// Unknown ids are a no-op.
func (e *Engine) Remove(id domain.EntryID) bool {
	entry, ok := e.store.Remove(id)
	if !ok {
		return false
	}
	e.dispatcher.Supersede(entry)
	log.WithField("entry", id).Debug("path removed")
	e.recompute()
	return true
}

// Submit queries the provider for the entry's route.
func (e *Engine) Submit(ctx context.Context, id domain.EntryID) (domain.Token, error) {
	return e.dispatcher.Submit(ctx, id, e.separator)
}

// Import replaces the whole list with the given raw paths, all Idle.
func (e *Engine) Import(paths []string) []domain.EntryID {
	for _, old := range e.store.Clear() {
		e.dispatcher.Supersede(old)
	}

	ids := make([]domain.EntryID, 0, len(paths))
	for _, p := range paths {
		if id, ok := e.Add(p); ok {
			ids = append(ids, id)
		}
	}

	log.WithFields(logrus.Fields{"offered": len(paths), "imported": len(ids)}).Info("path list imported")
	e.recompute()
	return ids
}

// Export returns the raw path strings in list order.
func (e *Engine) Export() []string {
	return lo.Map(e.store.Entries(), func(p *domain.PathEntry, _ int) string {
		return p.Raw
	})
}

// Entries returns snapshots of every entry in list order.
func (e *Engine) Entries() []domain.PathEntry {
	return lo.Map(e.store.Entries(), func(p *domain.PathEntry, _ int) domain.PathEntry {
		return p.Clone()
	})
}

func (e *Engine) Entry(id domain.EntryID) (domain.PathEntry, bool) {
	p, ok := e.store.Get(id)
	if !ok {
		return domain.PathEntry{}, false
	}
	return p.Clone(), true
}

func (e *Engine) Len() int { return e.store.Len() }

// Number of queries awaiting a total result.
func (e *Engine) InFlight() int { return e.registry.Len() }

func (e *Engine) Totals() domain.Totals { return e.totals }

// Summary is the copyable totals line.
func (e *Engine) Summary() string { return e.totals.Summary() }

// OnLegResult is the inbound callback for one leg of a submitted path.
func (e *Engine) OnLegResult(token domain.Token, origin, destination string, success bool, distanceMeters, durationSeconds string) {
	e.dispatcher.OnLegResult(token, origin, destination, success, distanceMeters, durationSeconds)
}

// OnTotalResult is the inbound callback completing a submitted path.
func (e *Engine) OnTotalResult(token domain.Token, success bool, totalDistanceMeters, totalDurationSeconds string) {
	e.dispatcher.OnTotalResult(token, success, totalDistanceMeters, totalDurationSeconds)
}

func (e *Engine) recompute() {
	e.totals = Aggregate(e.store.Entries())
	e.notifier.AggregateUpdated(e.totals)
}
