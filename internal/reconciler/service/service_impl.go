package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/billforgelabs/billforge/internal/billing"
	"github.com/billforgelabs/billforge/internal/metrics"
	tierdomain "github.com/billforgelabs/billforge/internal/packagetier/domain"
	domain "github.com/billforgelabs/billforge/internal/reconciler/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    tierdomain.Repository
	Client  *billing.Client
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    tierdomain.Repository
	client  *billing.Client
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("reconciler.service"),
		repo:    p.Repo,
		client:  p.Client,
		metrics: p.Metrics,
	}
}

// Sync partitions the selected tiers into unsynced and already-known sets,
// submits each as one bulk call, and back-fills external identifiers from
// the create response. The two batches are independent failure domains: a
// failed create batch does not stop the update batch.
func (s *Service) Sync(ctx context.Context, req domain.SyncRequest) (domain.SyncResult, error) {
	tiers, err := s.selectTiers(ctx, req)
	if err != nil {
		return domain.SyncResult{}, err
	}

	var newTiers, knownTiers []tierdomain.PackageTier
	for _, tier := range tiers {
		if tier.Synced() {
			knownTiers = append(knownTiers, tier)
		} else {
			newTiers = append(newTiers, tier)
		}
	}

	var result domain.SyncResult
	s.createBatch(ctx, newTiers, &result)
	s.updateBatch(ctx, knownTiers, &result)
	return result, nil
}

func (s *Service) selectTiers(ctx context.Context, req domain.SyncRequest) ([]tierdomain.PackageTier, error) {
	if len(req.TierIDs) == 0 {
		return s.repo.ListActive(ctx, s.db)
	}

	tiers := make([]tierdomain.PackageTier, 0, len(req.TierIDs))
	for _, raw := range req.TierIDs {
		id, err := snowflake.ParseString(strings.TrimSpace(raw))
		if err != nil {
			return nil, tierdomain.ErrInvalidID
		}
		tier, err := s.repo.FindByID(ctx, s.db, id)
		if err != nil {
			return nil, err
		}
		if tier == nil {
			return nil, tierdomain.ErrNotFound
		}
		tiers = append(tiers, *tier)
	}
	return tiers, nil
}

func (s *Service) createBatch(ctx context.Context, tiers []tierdomain.PackageTier, result *domain.SyncResult) {
	if len(tiers) == 0 {
		return
	}

	payload := make([]billing.ExternalTier, 0, len(tiers))
	for _, tier := range tiers {
		payload = append(payload, toExternal(tier))
	}

	resp, err := s.client.BulkCreateTiers(ctx, payload)
	if err != nil {
		s.failBatch(result, domain.BatchCreate, len(tiers), err)
		return
	}

	// Results are correlated to local tiers purely by the echoed index; the
	// billing API contract requires index to match the submitted array.
	// Sorting keeps back-fills in submission order even if the remote
	// reorders its result list.
	results := append([]billing.ItemResult(nil), resp.Results...)
	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })

	var successes, failures, backfillFailures int
	var failureMsgs []string
	for _, item := range results {
		if item.Index < 0 || item.Index >= len(tiers) {
			failures++
			failureMsgs = append(failureMsgs, fmt.Sprintf("result index %d out of range", item.Index))
			continue
		}
		if item.Status != billing.ItemStatusSuccess {
			failures++
			if item.Message != "" {
				failureMsgs = append(failureMsgs, item.Message)
			}
			continue
		}

		successes++
		tier := tiers[item.Index]
		if err := s.repo.SetExternalID(ctx, s.db, tier.ID, item.Data.ID); err != nil {
			// A lost back-fill does not roll back the remote create; the
			// tier resurfaces as "new" on the next sync.
			backfillFailures++
			s.log.Warn("external id back-fill failed",
				zap.String("tier_id", tier.ID.String()),
				zap.String("external_id", item.Data.ID),
				zap.Error(err),
			)
		}
	}

	s.recordBatch(result, domain.BatchCreate, successes, failures, strings.Join(failureMsgs, "; "))
	if backfillFailures > 0 {
		result.Details = append(result.Details, domain.Detail{
			Type:    domain.BatchCreate,
			Count:   backfillFailures,
			Status:  domain.StatusFailed,
			Message: "external id back-fill failed; tiers will be retried as new on the next sync",
		})
	}
}

func (s *Service) updateBatch(ctx context.Context, tiers []tierdomain.PackageTier, result *domain.SyncResult) {
	if len(tiers) == 0 {
		return
	}

	payload := make([]billing.UpdateItem, 0, len(tiers))
	for _, tier := range tiers {
		payload = append(payload, billing.UpdateItem{
			TierID:     *tier.ExternalID,
			UpdateData: toExternal(tier),
		})
	}

	resp, err := s.client.BulkUpdateTiers(ctx, payload)
	if err != nil {
		s.failBatch(result, domain.BatchUpdate, len(tiers), err)
		return
	}

	if len(resp.Results) == 0 {
		s.recordBatch(result, domain.BatchUpdate, len(tiers), 0, "")
		return
	}

	var successes, failures int
	var failureMsgs []string
	for _, item := range resp.Results {
		if item.Status == billing.ItemStatusSuccess {
			successes++
			continue
		}
		failures++
		if item.Message != "" {
			failureMsgs = append(failureMsgs, item.Message)
		}
	}
	s.recordBatch(result, domain.BatchUpdate, successes, failures, strings.Join(failureMsgs, "; "))
}

func (s *Service) failBatch(result *domain.SyncResult, batch domain.BatchType, count int, err error) {
	result.FailureCount += count
	result.Details = append(result.Details, domain.Detail{
		Type:    batch,
		Count:   count,
		Status:  domain.StatusFailed,
		Message: err.Error(),
	})
	if s.metrics != nil {
		s.metrics.SyncItems.WithLabelValues("failure").Add(float64(count))
		s.metrics.SyncBatches.WithLabelValues(string(batch), "failed").Inc()
	}
}

func (s *Service) recordBatch(result *domain.SyncResult, batch domain.BatchType, successes, failures int, failureMsg string) {
	result.SuccessCount += successes
	result.FailureCount += failures

	if successes > 0 {
		result.Details = append(result.Details, domain.Detail{
			Type:   batch,
			Count:  successes,
			Status: domain.StatusSuccess,
		})
	}
	if failures > 0 {
		result.Details = append(result.Details, domain.Detail{
			Type:    batch,
			Count:   failures,
			Status:  domain.StatusFailed,
			Message: failureMsg,
		})
	}

	if s.metrics != nil {
		s.metrics.SyncItems.WithLabelValues("success").Add(float64(successes))
		s.metrics.SyncItems.WithLabelValues("failure").Add(float64(failures))
		status := "success"
		if failures > 0 {
			status = "partial"
		}
		s.metrics.SyncBatches.WithLabelValues(string(batch), status).Inc()
	}
}

// toExternal maps a local tier to the billing system's wire shape. A truthy
// percentage marks the tier percentage-typed; otherwise it is nominal and
// the monetary fee is taken from amount.
func toExternal(tier tierdomain.PackageTier) billing.ExternalTier {
	tierType := billing.TierTypeNominal
	if tier.Percentage != nil && *tier.Percentage > 0 {
		tierType = billing.TierTypePercentage
	}
	return billing.ExternalTier{
		TierType:     tierType,
		TierCategory: billing.TierCategoryRegular,
		MinAmount:    tier.MinValue,
		MaxAmount:    tier.MaxValue,
		Fee:          tier.Amount,
		ValidFrom:    tier.StartDate.Format("2006-01-02"),
		ValidTo:      tier.EndDate.Format("2006-01-02"),
	}
}
