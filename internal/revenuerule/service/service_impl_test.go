package service_test

import (
	"context"
	"fmt"
	"testing"

	domain "github.com/billforgelabs/billforge/internal/revenuerule/domain"
	"github.com/billforgelabs/billforge/internal/revenuerule/repository"
	"github.com/billforgelabs/billforge/internal/revenuerule/service"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testNode = func() *snowflake.Node {
	node, err := snowflake.NewNode(3)
	if err != nil {
		panic(err)
	}
	return node
}()

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.RuleRecord{}))
	return db
}

func newService(t *testing.T) domain.Service {
	t.Helper()
	return service.New(service.Params{
		DB:    newTestDB(t),
		Log:   zap.NewNop(),
		GenID: testNode,
		Repo:  repository.Provide(),
	})
}

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }

func validDocument() domain.RawRevenueRule {
	return domain.RawRevenueRule{
		ChargingMetric: &domain.RawChargingMetric{
			Type: "dedicated",
			Dedicated: &domain.RawDedicated{
				Tiers: []domain.RawDedicatedTier{
					{
						Type: "package",
						PackageTiers: []domain.RawPackageBand{
							{Min: f(0), Max: f(1000), Amount: f(150)},
						},
					},
				},
			},
		},
		BillingRules: &domain.RawBillingRules{
			BillingMethod: &domain.RawBillingMethod{
				Methods: []domain.RawMethod{
					{Type: "auto_deduct", AutoDeduct: &domain.RawAutoDeduct{IsEnabled: true}},
				},
			},
			TaxRules:      &domain.RawTaxRules{Type: "include", Rate: f(11)},
			TermOfPayment: &domain.RawTermOfPayment{Days: i(30)},
		},
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	saved, err := svc.Save(ctx, domain.SaveRequest{
		AccountID:        "acct-1",
		AccountServiceID: "svc-1",
		Document:         validDocument(),
	})
	require.NoError(t, err)
	assert.Equal(t, "acct-1", saved.AccountID)

	got, err := svc.Get(ctx, "acct-1", "svc-1")
	require.NoError(t, err)
	assert.Equal(t, saved.Document, got.Document)

	// Canonical form is structurally complete on the way out.
	require.Len(t, got.Document.ChargingMetric.Dedicated.Tiers, 1)
	assert.NotNil(t, got.Document.ChargingMetric.NonDedicated.Tiers)
	assert.Equal(t, 30, got.Document.BillingRules.TermOfPayment.Days)
}

func TestSaveRejectsInvalidDocumentWithoutPersisting(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	doc := validDocument()
	doc.BillingRules.TermOfPayment.Days = i(7)
	doc.ChargingMetric.Dedicated.Tiers[0].PackageTiers[0].Amount = f(-1)

	_, err := svc.Save(ctx, domain.SaveRequest{
		AccountID:        "acct-1",
		AccountServiceID: "svc-1",
		Document:         doc,
	})

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Fields, 2)

	_, err = svc.Get(ctx, "acct-1", "svc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaveUpsertsExistingRule(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, domain.SaveRequest{
		AccountID: "acct-1", AccountServiceID: "svc-1", Document: validDocument(),
	})
	require.NoError(t, err)

	updated := validDocument()
	updated.BillingRules.TaxRules = &domain.RawTaxRules{Type: "exclude", Rate: f(10)}
	_, err = svc.Save(ctx, domain.SaveRequest{
		AccountID: "acct-1", AccountServiceID: "svc-1", Document: updated,
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, "acct-1", "svc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TaxExclude, got.Document.BillingRules.TaxRules.Type)
	assert.Equal(t, 10.0, got.Document.BillingRules.TaxRules.Rate)
}

func TestRulesAreScopedPerAccountService(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, domain.SaveRequest{
		AccountID: "acct-1", AccountServiceID: "svc-1", Document: validDocument(),
	})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "acct-1", "svc-2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Get(ctx, "acct-2", "svc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteRemovesRule(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, domain.SaveRequest{
		AccountID: "acct-1", AccountServiceID: "svc-1", Document: validDocument(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "acct-1", "svc-1"))

	_, err = svc.Get(ctx, "acct-1", "svc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBlankKeysRejected(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, " ", "svc-1")
	assert.ErrorIs(t, err, domain.ErrInvalidAccount)

	_, err = svc.Save(ctx, domain.SaveRequest{AccountServiceID: "svc-1", Document: validDocument()})
	assert.ErrorIs(t, err, domain.ErrInvalidAccount)
}

func TestDryRunValidateDoesNotPersist(t *testing.T) {
	svc := newService(t)

	fields := svc.Validate(domain.RawRevenueRule{})
	assert.NotEmpty(t, fields)

	fields = svc.Validate(validDocument())
	assert.Empty(t, fields)
}
