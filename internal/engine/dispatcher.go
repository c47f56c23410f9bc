package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path-route-service/internal/domain"
	"path-route-service/internal/ports"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Prefix of every correlation token issued by NewTokenSource.
const TokenPrefix = "path:"

// TokenSource yields a fresh correlation token per submission.
type TokenSource func() domain.Token

// NewTokenSource returns a source of process-unique tokens.
func NewTokenSource() TokenSource {
	return func() domain.Token {
		return domain.Token(TokenPrefix + uuid.NewString())
	}
}

// Dispatcher issues route queries and applies the provider's results.
//
// It is the only writer of an entry's status, legs, totals and token.
// Not safe for concurrent use; run it on the engine's logic loop.
type Dispatcher struct {
	store    *Store
	registry *Registry
	bridge   ports.RouteBridge
	notifier ports.Notifier
	tokens   TokenSource

	// Called after every terminal result.
	recompute func()
}

// Submit sends the entry's waypoints to the provider and marks it Pending.
// Any earlier submission for the entry is superseded. Returns ErrEmptyInput
// when the entry has fewer than two waypoints.
func (d *Dispatcher) Submit(ctx context.Context, id domain.EntryID, separator string) (domain.Token, error) {
	e, ok := d.store.Get(id)
	if !ok {
		return "", fmt.Errorf("submit entry %d: %w", id, ErrEntryNotFound)
	}

	waypoints := e.Waypoints(separator)
	if len(waypoints) < 2 {
		return "", fmt.Errorf("submit entry %d: need at least 2 waypoints, got %d: %w", id, len(waypoints), ErrEmptyInput)
	}

	d.Supersede(e)

	token := d.tokens()
	if err := d.registry.Register(token, id); err != nil {
		log.WithFields(logrus.Fields{"entry": id, "token": token}).WithError(err).Error("token generation produced a duplicate")
		return "", fmt.Errorf("submit entry %d: %w", id, err)
	}

	e.Status = domain.StatusPending
	e.Legs = nil
	e.TotalDistanceMeters = nil
	e.TotalDurationSeconds = nil
	e.Token = token

	log.WithFields(logrus.Fields{"entry": id, "token": token, "waypoints": len(waypoints)}).Debug("route query submitted")

	d.notifier.InputLockRequested()
	d.notifier.EntryUpdated(id)
	d.bridge.RequestRoute(ctx, token, waypoints, separator)

	return token, nil
}

// Supersede drops the entry's in-flight token, if any, so late results for it
// are ignored. The input lock taken by that submission is handed back.
func (d *Dispatcher) Supersede(e *domain.PathEntry) {
	if e.Token == "" {
		return
	}
	d.registry.Release(e.Token)
	log.WithFields(logrus.Fields{"entry": e.ID, "token": e.Token}).Debug("token superseded")
	e.Token = ""
	d.notifier.InputLockReleased()
}

// OnLegResult appends one leg to the entry the token resolves to. Results for
// unknown tokens are dropped.
func (d *Dispatcher) OnLegResult(token domain.Token, origin, destination string, success bool, distanceMeters, durationSeconds string) {
	e, ok := d.resolve(token)
	if !ok {
		return
	}

	leg := domain.Leg{Origin: origin, Destination: destination, Success: success}
	if success {
		dist, dErr := parseMetric(distanceMeters)
		dur, tErr := parseMetric(durationSeconds)
		if err := errors.Join(dErr, tErr); err != nil {
			log.WithFields(logrus.Fields{"entry": e.ID, "token": token}).WithError(err).Warn("malformed leg metrics, leg marked failed")
			leg.Success = false
		} else {
			leg.DistanceMeters = dist
			leg.DurationSeconds = dur
		}
	}

	e.Legs = append(e.Legs, leg)
	d.notifier.EntryUpdated(e.ID)
}

// OnTotalResult completes the submission the token belongs to. It is terminal:
// the token is released whatever the outcome.
func (d *Dispatcher) OnTotalResult(token domain.Token, success bool, totalDistanceMeters, totalDurationSeconds string) {
	e, ok := d.resolve(token)
	if !ok {
		return
	}
	d.registry.Release(token)
	e.Token = ""

	fields := logrus.Fields{"entry": e.ID, "token": token}

	var reason string
	if success {
		dist, dErr := parseMetric(totalDistanceMeters)
		dur, tErr := parseMetric(totalDurationSeconds)
		if err := errors.Join(dErr, tErr); err != nil {
			reason = fmt.Sprintf("malformed totals: %v", err)
		} else {
			e.Status = domain.StatusSucceeded
			e.TotalDistanceMeters = &dist
			e.TotalDurationSeconds = &dur
			log.WithFields(fields).WithFields(logrus.Fields{"meters": dist, "seconds": dur}).Info("route query succeeded")
		}
	} else {
		reason = "provider reported failure"
	}

	if reason != "" {
		e.Status = domain.StatusFailed
		e.TotalDistanceMeters = nil
		e.TotalDurationSeconds = nil
		log.WithFields(fields).Warn("route query failed: " + reason)
	}

	d.notifier.EntryUpdated(e.ID)
	d.recompute()
	if reason != "" {
		d.notifier.Warn(fmt.Sprintf("route planning failed for path %d (%s): %s", e.ID, e.Raw, reason))
	}
	d.notifier.InputLockReleased()
}

func (d *Dispatcher) resolve(token domain.Token) (*domain.PathEntry, bool) {
	id, err := d.registry.Resolve(token)
	if err != nil {
		log.WithField("token", token).Debug("dropping result for stale token")
		return nil, false
	}
	e, ok := d.store.Get(id)
	if !ok {
		// Store and registry disagree; drop the dangling mapping.
		d.registry.Release(token)
		return nil, false
	}
	return e, true
}

// parseMetric parses a provider numeric string. Malformed input yields 0 and an error.
func parseMetric(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parse metric %q: %w", s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("parse metric %q: not a finite number", s)
	}
	return v, nil
}
