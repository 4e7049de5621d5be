package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/billforgelabs/billforge/internal/audit/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const summaryLimit = 4096

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  auditdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  auditdomain.Repository
}

func NewService(p Params) auditdomain.Recorder {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

// Record persists one call log entry. Failures are swallowed: auditing is
// best-effort and must never fail the audited operation.
func (s *Service) Record(ctx context.Context, entry auditdomain.Entry) {
	occurredAt := entry.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	log := &auditdomain.CallLog{
		ID:              s.genID.Generate(),
		Method:          entry.Method,
		URL:             entry.URL,
		Endpoint:        entry.Endpoint,
		RequestSummary:  truncate(entry.RequestSummary),
		ResponseSummary: truncate(entry.ResponseSummary),
		StatusCode:      entry.StatusCode,
		DurationMS:      entry.Duration.Milliseconds(),
		CreatedAt:       occurredAt,
	}

	if err := s.repo.Insert(ctx, s.db, log); err != nil {
		s.log.Warn("audit write failed",
			zap.String("method", entry.Method),
			zap.String("endpoint", entry.Endpoint),
			zap.Error(err),
		)
	}
}

func truncate(s string) string {
	if len(s) > summaryLimit {
		return s[:summaryLimit]
	}
	return s
}
