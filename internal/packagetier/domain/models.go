// Package domain defines the independently managed pricing bands that are
// synchronized to the external billing system.
package domain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/billforgelabs/billforge/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrInvalidID         = errors.New("packagetier: invalid tier id")
	ErrNotFound          = errors.New("packagetier: tier not found")
	ErrInvalidRange      = errors.New("packagetier: min_value must be less than max_value")
	ErrInvalidWindow     = errors.New("packagetier: start_date must be before end_date")
	ErrInvalidAmount     = errors.New("packagetier: amount must not be negative")
	ErrInvalidPercentage = errors.New("packagetier: percentage must be between 0 and 100")
	ErrInvalidDate       = errors.New("packagetier: invalid date format")
)

// PackageTier is one pricing band with a validity window. ExternalID is set
// once the reconciler has created the tier in the external billing system.
type PackageTier struct {
	ID         snowflake.ID   `gorm:"primaryKey"`
	MinValue   float64        `gorm:"not null"`
	MaxValue   float64        `gorm:"not null"`
	Amount     float64        `gorm:"not null"`
	Percentage *float64       `gorm:""`
	StartDate  time.Time      `gorm:"not null;index"`
	EndDate    time.Time      `gorm:"not null;index"`
	ExternalID *string        `gorm:"type:text;index"`
	CreatedAt  time.Time      `gorm:"not null"`
	UpdatedAt  time.Time      `gorm:"not null"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (PackageTier) TableName() string { return "package_tiers" }

// Synced reports whether the tier is known to the external billing system.
func (t *PackageTier) Synced() bool {
	return t.ExternalID != nil && *t.ExternalID != ""
}

// ConflictError reports a candidate tier colliding with an existing active
// tier on both the numeric range and the validity window.
type ConflictError struct {
	Tier PackageTier
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf(
		"packagetier: overlaps with existing tier %s (%g–%g valid %s to %s)",
		e.Tier.ID,
		e.Tier.MinValue, e.Tier.MaxValue,
		e.Tier.StartDate.Format("2006-01-02"), e.Tier.EndDate.Format("2006-01-02"),
	)
}

type CreateRequest struct {
	MinValue   float64  `json:"min_value"`
	MaxValue   float64  `json:"max_value"`
	Amount     float64  `json:"amount"`
	Percentage *float64 `json:"percentage,omitempty"`
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date"`
}

type UpdateRequest struct {
	MinValue   float64  `json:"min_value"`
	MaxValue   float64  `json:"max_value"`
	Amount     float64  `json:"amount"`
	Percentage *float64 `json:"percentage,omitempty"`
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date"`
}

type ListRequest struct {
	PageToken string
	PageSize  int
}

type Response struct {
	ID         string   `json:"id"`
	MinValue   float64  `json:"min_value"`
	MaxValue   float64  `json:"max_value"`
	Amount     float64  `json:"amount"`
	Percentage *float64 `json:"percentage,omitempty"`
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date"`
	ExternalID string   `json:"external_id,omitempty"`
	Synced     bool     `json:"synced"`
}

type ListResponse struct {
	Tiers    []Response          `json:"tiers"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

// ImportRowError names one rejected CSV row.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResult struct {
	Created int              `json:"created"`
	Errors  []ImportRowError `json:"errors,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	Delete(ctx context.Context, id string) error
	Import(ctx context.Context, r io.Reader) (ImportResult, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, tier *PackageTier) error
	Update(ctx context.Context, db *gorm.DB, tier *PackageTier) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*PackageTier, error)
	ListActive(ctx context.Context, db *gorm.DB) ([]PackageTier, error)
	List(ctx context.Context, db *gorm.DB, page pagination.Pagination) ([]*PackageTier, error)
	SetExternalID(ctx context.Context, db *gorm.DB, id snowflake.ID, externalID string) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
