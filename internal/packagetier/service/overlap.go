package service

import (
	"time"

	domain "github.com/billforgelabs/billforge/internal/packagetier/domain"
)

// FindConflict returns the first active tier whose numeric range and validity
// window both intersect the candidate's, or nil. A tier sharing the
// candidate's ID is skipped so updates do not conflict with themselves.
func FindConflict(candidate domain.PackageTier, existing []domain.PackageTier) *domain.PackageTier {
	for i := range existing {
		other := &existing[i]
		if other.ID != 0 && other.ID == candidate.ID {
			continue
		}
		if !rangesIntersect(candidate.MinValue, candidate.MaxValue, other.MinValue, other.MaxValue) {
			continue
		}
		if !windowsIntersect(candidate.StartDate, candidate.EndDate, other.StartDate, other.EndDate) {
			continue
		}
		return other
	}
	return nil
}

func rangesIntersect(aMin, aMax, bMin, bMax float64) bool {
	return !(aMax < bMin || bMax < aMin)
}

func windowsIntersect(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !(aEnd.Before(bStart) || bEnd.Before(aStart))
}
