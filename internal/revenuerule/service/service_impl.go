package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/billforgelabs/billforge/internal/metrics"
	domain "github.com/billforgelabs/billforge/internal/revenuerule/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

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
		log:     p.Log.Named("revenuerule.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) Get(ctx context.Context, accountID, accountServiceID string) (*domain.Response, error) {
	accountID, accountServiceID, err := normalizeKeys(accountID, accountServiceID)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.FindByAccountService(ctx, s.db, accountID, accountServiceID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}

	var raw domain.RawRevenueRule
	if err := json.Unmarshal(record.Document, &raw); err != nil {
		return nil, err
	}

	return &domain.Response{
		AccountID:        record.AccountID,
		AccountServiceID: record.AccountServiceID,
		Document:         ToCanonical(raw),
		UpdatedAt:        record.UpdatedAt,
	}, nil
}

// Save validates the candidate document and persists its storage form.
// Validation failures never cause partial persistence: the full violation
// list is returned and nothing is written.
func (s *Service) Save(ctx context.Context, req domain.SaveRequest) (*domain.Response, error) {
	accountID, accountServiceID, err := normalizeKeys(req.AccountID, req.AccountServiceID)
	if err != nil {
		return nil, err
	}

	canonical := ToCanonical(req.Document)
	if fields := Validate(canonical); len(fields) > 0 {
		if s.metrics != nil {
			s.metrics.ValidationFails.Inc()
		}
		return nil, &domain.ValidationError{Fields: fields}
	}

	raw := ToPersisted(canonical)
	doc, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := &domain.RuleRecord{
		ID:               s.genID.Generate(),
		AccountID:        accountID,
		AccountServiceID: accountServiceID,
		Document:         datatypes.JSON(doc),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Upsert(ctx, s.db, record); err != nil {
		return nil, err
	}

	return &domain.Response{
		AccountID:        accountID,
		AccountServiceID: accountServiceID,
		Document:         canonical,
		UpdatedAt:        record.UpdatedAt,
	}, nil
}

// Validate runs the validator against a raw candidate without persisting.
func (s *Service) Validate(doc domain.RawRevenueRule) []domain.FieldError {
	return Validate(ToCanonical(doc))
}

func (s *Service) Delete(ctx context.Context, accountID, accountServiceID string) error {
	accountID, accountServiceID, err := normalizeKeys(accountID, accountServiceID)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, accountID, accountServiceID)
}

func normalizeKeys(accountID, accountServiceID string) (string, string, error) {
	accountID = strings.TrimSpace(accountID)
	accountServiceID = strings.TrimSpace(accountServiceID)
	if accountID == "" || accountServiceID == "" {
		return "", "", domain.ErrInvalidAccount
	}
	return accountID, accountServiceID, nil
}
