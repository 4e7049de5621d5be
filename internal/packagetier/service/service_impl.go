package service

import (
	"context"
	"strings"
	"time"

	"github.com/billforgelabs/billforge/internal/metrics"
	domain "github.com/billforgelabs/billforge/internal/packagetier/domain"
	"github.com/billforgelabs/billforge/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var dateLayouts = []string{"2006-01-02", time.RFC3339}

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("packagetier.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	candidate, err := s.buildCandidate(req.MinValue, req.MaxValue, req.Amount, req.Percentage, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	if err := s.rejectConflicts(ctx, *candidate); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	candidate.ID = s.genID.Generate()
	candidate.CreatedAt = now
	candidate.UpdatedAt = now

	if err := s.repo.Insert(ctx, s.db, candidate); err != nil {
		return nil, err
	}
	return toResponse(candidate), nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	tierID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	existing, err := s.repo.FindByID(ctx, s.db, tierID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}

	candidate, err := s.buildCandidate(req.MinValue, req.MaxValue, req.Amount, req.Percentage, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	candidate.ID = existing.ID

	if err := s.rejectConflicts(ctx, *candidate); err != nil {
		return nil, err
	}

	existing.MinValue = candidate.MinValue
	existing.MaxValue = candidate.MaxValue
	existing.Amount = candidate.Amount
	existing.Percentage = candidate.Percentage
	existing.StartDate = candidate.StartDate
	existing.EndDate = candidate.EndDate
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, existing); err != nil {
		return nil, err
	}
	return toResponse(existing), nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	tierID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	tier, err := s.repo.FindByID(ctx, s.db, tierID)
	if err != nil {
		return nil, err
	}
	if tier == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(tier), nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	pageSize := req.PageSize
	if pageSize < 0 {
		pageSize = 0
	} else if pageSize == 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(item *domain.PackageTier) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        item.ID.String(),
			CreatedAt: item.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	resp := make([]domain.Response, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		resp = append(resp, *toResponse(item))
	}

	out := domain.ListResponse{Tiers: resp}
	if pageInfo != nil {
		out.PageInfo = *pageInfo
	}
	return out, nil
}

// Delete soft-deletes the local record only; the external billing system is
// not contacted.
func (s *Service) Delete(ctx context.Context, id string) error {
	tierID, err := parseID(id)
	if err != nil {
		return domain.ErrInvalidID
	}
	return s.repo.Delete(ctx, s.db, tierID)
}

func (s *Service) buildCandidate(minValue, maxValue, amount float64, percentage *float64, startDate, endDate string) (*domain.PackageTier, error) {
	if minValue < 0 || maxValue < 0 || minValue >= maxValue {
		return nil, domain.ErrInvalidRange
	}
	if amount < 0 {
		return nil, domain.ErrInvalidAmount
	}
	if percentage != nil && (*percentage < 0 || *percentage > 100) {
		return nil, domain.ErrInvalidPercentage
	}

	start, err := parseDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(endDate)
	if err != nil {
		return nil, err
	}
	if !start.Before(end) {
		return nil, domain.ErrInvalidWindow
	}

	return &domain.PackageTier{
		MinValue:   minValue,
		MaxValue:   maxValue,
		Amount:     amount,
		Percentage: percentage,
		StartDate:  start,
		EndDate:    end,
	}, nil
}

// rejectConflicts runs the overlap detector against all active tiers before
// any write.
func (s *Service) rejectConflicts(ctx context.Context, candidate domain.PackageTier) error {
	active, err := s.repo.ListActive(ctx, s.db)
	if err != nil {
		return err
	}
	if conflict := FindConflict(candidate, active); conflict != nil {
		if s.metrics != nil {
			s.metrics.OverlapRejects.Inc()
		}
		return &domain.ConflictError{Tier: *conflict}
	}
	return nil
}

func toResponse(t *domain.PackageTier) *domain.Response {
	resp := &domain.Response{
		ID:         t.ID.String(),
		MinValue:   t.MinValue,
		MaxValue:   t.MaxValue,
		Amount:     t.Amount,
		Percentage: t.Percentage,
		StartDate:  t.StartDate.Format("2006-01-02"),
		EndDate:    t.EndDate.Format("2006-01-02"),
		Synced:     t.Synced(),
	}
	if t.ExternalID != nil {
		resp.ExternalID = *t.ExternalID
	}
	return resp
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.ErrInvalidDate
}
