// Package domain contains the audit trail of calls made to the external
// billing system.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// CallLog is one record per outbound call. Request and response bodies are
// stored as truncated summaries, not full payloads.
type CallLog struct {
	ID              snowflake.ID `gorm:"primaryKey"`
	Method          string       `gorm:"type:text;not null"`
	URL             string       `gorm:"type:text;not null"`
	Endpoint        string       `gorm:"type:text;not null;index"`
	RequestSummary  string       `gorm:"type:text"`
	ResponseSummary string       `gorm:"type:text"`
	StatusCode      int          `gorm:"not null"`
	DurationMS      int64        `gorm:"not null"`
	CreatedAt       time.Time    `gorm:"not null;index"`
}

func (CallLog) TableName() string { return "audit_call_logs" }

// Entry is the write-side shape handed to the Recorder.
type Entry struct {
	Method          string
	URL             string
	Endpoint        string
	RequestSummary  string
	ResponseSummary string
	StatusCode      int
	Duration        time.Duration
	OccurredAt      time.Time
}

// Recorder writes audit entries best-effort: a failed write must never fail
// the operation being audited.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, log *CallLog) error
	ListBetween(ctx context.Context, db *gorm.DB, start, end time.Time, endpoints []string) ([]CallLog, error)
}
