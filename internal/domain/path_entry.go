package domain

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Identity of a path entry. Assigned by the store and never reused.
type EntryID int64

func (id EntryID) String() string { return strconv.FormatInt(int64(id), 10) }

// Opaque correlation token tying an outbound route query to its inbound results.
type Token string

// Lifecycle state of a path entry's route query.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Represents one point-to-point segment of a multi-waypoint path, as computed by the provider.
// Failed legs carry zero metrics and are displayed as unknown.
type Leg struct {
	Origin          string
	Destination     string
	Success         bool
	DistanceMeters  float64
	DurationSeconds float64
}

// Represents one user-submitted multi-waypoint path.
//
// Raw holds the path text exactly as stored (trimmed); waypoints are derived from it
// on demand using the caller's separator. Totals are non-nil only when Status is
// StatusSucceeded, and Token is set only while StatusPending.
type PathEntry struct {
	ID                   EntryID
	Raw                  string
	Status               Status
	Legs                 []Leg
	TotalDistanceMeters  *float64
	TotalDurationSeconds *float64
	Token                Token
}

// Split the raw path into trimmed, non-empty waypoint labels.
func (e *PathEntry) Waypoints(separator string) []string {
	return SplitWaypoints(e.Raw, separator)
}

// Return a deep copy safe to hand to readers outside the logic loop.
func (e *PathEntry) Clone() PathEntry {
	out := *e
	out.Legs = append([]Leg(nil), e.Legs...)
	if e.TotalDistanceMeters != nil {
		v := *e.TotalDistanceMeters
		out.TotalDistanceMeters = &v
	}
	if e.TotalDurationSeconds != nil {
		v := *e.TotalDurationSeconds
		out.TotalDurationSeconds = &v
	}
	return out
}

// Sum of distance and duration across successfully resolved entries.
type Totals struct {
	DistanceMeters  float64
	DurationSeconds float64
}

// SplitWaypoints splits s on separator, trimming labels and dropping empty ones.
func SplitWaypoints(s, separator string) []string {
	if separator == "" {
		separator = ","
	}
	parts := lo.Map(strings.Split(s, separator), func(p string, _ int) string {
		return strings.TrimSpace(p)
	})
	return lo.Compact(parts)
}
