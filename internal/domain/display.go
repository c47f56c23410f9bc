package domain

import "fmt"

// Rendered in place of a metric the provider could not compute.
const UnknownDisplay = "-"

// Format meters as kilometers with two decimals.
func FormatDistance(meters float64) string {
	return fmt.Sprintf("%.2f km", meters/1000.0)
}

// Format seconds as hours with two decimals.
func FormatDuration(seconds float64) string {
	return fmt.Sprintf("%.2f h", seconds/3600.0)
}

func (l Leg) DistanceDisplay() string {
	if !l.Success {
		return UnknownDisplay
	}
	return FormatDistance(l.DistanceMeters)
}

func (l Leg) DurationDisplay() string {
	if !l.Success {
		return UnknownDisplay
	}
	return FormatDuration(l.DurationSeconds)
}

// Label shown for a leg row: "origin , destination".
func (l Leg) Label() string {
	return l.Origin + " , " + l.Destination
}

// Idle and pending entries render empty; failed entries render the unknown sentinel
// so a failure is never confused with a zero-length trip.
func (e *PathEntry) DistanceDisplay() string {
	switch {
	case e.Status == StatusFailed:
		return UnknownDisplay
	case e.Status == StatusSucceeded && e.TotalDistanceMeters != nil:
		return FormatDistance(*e.TotalDistanceMeters)
	default:
		return ""
	}
}

func (e *PathEntry) DurationDisplay() string {
	switch {
	case e.Status == StatusFailed:
		return UnknownDisplay
	case e.Status == StatusSucceeded && e.TotalDurationSeconds != nil:
		return FormatDuration(*e.TotalDurationSeconds)
	default:
		return ""
	}
}

// Summary renders the totals line users copy out of the application.
func (t Totals) Summary() string {
	return fmt.Sprintf("Total: %s,%s", FormatDistance(t.DistanceMeters), FormatDuration(t.DurationSeconds))
}
