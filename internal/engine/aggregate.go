package engine

import (
	"path-route-service/internal/domain"

	"github.com/samber/lo"
)

// Aggregate folds totals over succeeded entries. Idle, pending and failed
// entries contribute nothing. Always a full refold, never incremental.
func Aggregate(entries []*domain.PathEntry) domain.Totals {
	done := lo.Filter(entries, func(e *domain.PathEntry, _ int) bool {
		return e.Status == domain.StatusSucceeded && e.TotalDistanceMeters != nil && e.TotalDurationSeconds != nil
	})

	return domain.Totals{
		DistanceMeters: lo.SumBy(done, func(e *domain.PathEntry) float64 {
			return *e.TotalDistanceMeters
		}),
		DurationSeconds: lo.SumBy(done, func(e *domain.PathEntry) float64 {
			return *e.TotalDurationSeconds
		}),
	}
}
