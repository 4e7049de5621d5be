package server

import (
	"errors"
	"net/http"

	tierdomain "github.com/billforgelabs/billforge/internal/packagetier/domain"
	ruledomain "github.com/billforgelabs/billforge/internal/revenuerule/domain"
	"github.com/gin-gonic/gin"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInternal       = errors.New("internal error")
)

func invalidRequestError() error { return ErrInvalidRequest }

// AbortWithError maps domain errors onto HTTP statuses. Validation failures
// and overlap conflicts are structured reports, not opaque errors.
func AbortWithError(c *gin.Context, err error) {
	var validationErr *ruledomain.ValidationError
	if errors.As(err, &validationErr) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "validation_failed",
			"fields": validationErr.Fields,
		})
		return
	}

	var conflictErr *tierdomain.ConflictError
	if errors.As(err, &conflictErr) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":   "tier_overlap",
			"message": conflictErr.Error(),
			"conflicting_tier": gin.H{
				"id":         conflictErr.Tier.ID.String(),
				"min_value":  conflictErr.Tier.MinValue,
				"max_value":  conflictErr.Tier.MaxValue,
				"start_date": conflictErr.Tier.StartDate.Format("2006-01-02"),
				"end_date":   conflictErr.Tier.EndDate.Format("2006-01-02"),
			},
		})
		return
	}

	switch {
	case errors.Is(err, ruledomain.ErrNotFound), errors.Is(err, tierdomain.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ruledomain.ErrInvalidAccount),
		errors.Is(err, tierdomain.ErrInvalidID),
		errors.Is(err, tierdomain.ErrInvalidRange),
		errors.Is(err, tierdomain.ErrInvalidWindow),
		errors.Is(err, tierdomain.ErrInvalidAmount),
		errors.Is(err, tierdomain.ErrInvalidPercentage),
		errors.Is(err, tierdomain.ErrInvalidDate):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
