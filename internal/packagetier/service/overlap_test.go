package service

import (
	"testing"
	"time"

	domain "github.com/billforgelabs/billforge/internal/packagetier/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snowflakeID(v int64) snowflake.ID { return snowflake.ID(v) }

func date(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func tier(id int64, minValue, maxValue float64, start, end string) domain.PackageTier {
	return domain.PackageTier{
		ID:        snowflakeID(id),
		MinValue:  minValue,
		MaxValue:  maxValue,
		StartDate: date(start),
		EndDate:   date(end),
	}
}

func TestFindConflictBothDimensionsIntersect(t *testing.T) {
	existing := tier(1, 100000, 500000, "2025-01-01", "2025-06-30")
	candidate := tier(2, 300000, 700000, "2025-03-01", "2025-12-31")

	conflict := FindConflict(candidate, []domain.PackageTier{existing})
	require.NotNil(t, conflict)
	assert.Equal(t, existing.ID, conflict.ID)
}

func TestFindConflictDisjointRangesNeverConflict(t *testing.T) {
	existing := tier(1, 100000, 200000, "2025-01-01", "2025-12-31")

	// Identical window, disjoint value range.
	candidate := tier(2, 300000, 400000, "2025-01-01", "2025-12-31")
	assert.Nil(t, FindConflict(candidate, []domain.PackageTier{existing}))
}

func TestFindConflictIdenticalRangesDisjointWindows(t *testing.T) {
	existing := tier(1, 100000, 500000, "2025-01-01", "2025-06-30")
	candidate := tier(2, 100000, 500000, "2025-07-01", "2025-12-31")

	assert.Nil(t, FindConflict(candidate, []domain.PackageTier{existing}))
}

func TestFindConflictTouchingBoundariesConflict(t *testing.T) {
	// Shared endpoint counts as intersecting on both axes.
	existing := tier(1, 100000, 200000, "2025-01-01", "2025-06-30")
	candidate := tier(2, 200000, 300000, "2025-06-30", "2025-12-31")

	conflict := FindConflict(candidate, []domain.PackageTier{existing})
	require.NotNil(t, conflict)
}

func TestFindConflictSkipsSelfOnUpdate(t *testing.T) {
	existing := tier(1, 100000, 500000, "2025-01-01", "2025-06-30")
	candidate := tier(1, 100000, 500000, "2025-01-01", "2025-06-30")

	assert.Nil(t, FindConflict(candidate, []domain.PackageTier{existing}))
}

func TestFindConflictReturnsFirstConflictingTier(t *testing.T) {
	first := tier(1, 100000, 500000, "2025-01-01", "2025-12-31")
	second := tier(2, 400000, 800000, "2025-01-01", "2025-12-31")
	candidate := tier(3, 450000, 460000, "2025-03-01", "2025-04-01")

	conflict := FindConflict(candidate, []domain.PackageTier{first, second})
	require.NotNil(t, conflict)
	assert.Equal(t, first.ID, conflict.ID)
}
