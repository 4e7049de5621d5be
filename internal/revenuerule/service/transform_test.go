package service

import (
	"reflect"
	"testing"

	domain "github.com/billforgelabs/billforge/internal/revenuerule/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatP(v float64) *float64 { return &v }
func boolP(v bool) *bool        { return &v }
func intP(v int) *int           { return &v }

func sampleRaw() domain.RawRevenueRule {
	return domain.RawRevenueRule{
		ChargingMetric: &domain.RawChargingMetric{
			Type: "dedicated",
			Dedicated: &domain.RawDedicated{
				Tiers: []domain.RawDedicatedTier{
					{
						Type: "package",
						PackageTiers: []domain.RawPackageBand{
							{Min: floatP(0), Max: floatP(1000), Amount: floatP(150)},
							{Min: floatP(1000), Max: floatP(5000), Amount: floatP(120)},
						},
					},
					{
						Type:           "non_package",
						NonPackageType: "machine_only",
						Amount:         floatP(900),
						HasAddOns:      boolP(true),
						AddOns: []domain.RawAddOn{
							{Type: "infrastructure", BillingType: "monthly", Amount: floatP(50)},
						},
					},
				},
			},
		},
		BillingRules: &domain.RawBillingRules{
			BillingMethod: &domain.RawBillingMethod{
				Methods: []domain.RawMethod{
					{Type: "auto_deduct", AutoDeduct: &domain.RawAutoDeduct{IsEnabled: true}},
					{Type: "post_paid", PostPaid: &domain.RawPostPaid{Type: "transaction", Schedule: "weekly", CustomFee: floatP(10)}},
				},
			},
			TaxRules:      &domain.RawTaxRules{Type: "include", Rate: floatP(11)},
			TermOfPayment: &domain.RawTermOfPayment{Days: intP(14)},
		},
	}
}

func TestToCanonicalFillsBothBranches(t *testing.T) {
	rule := ToCanonical(domain.RawRevenueRule{})

	// Both union branches are structurally present even for an empty input.
	assert.NotNil(t, rule.ChargingMetric.Dedicated.Tiers)
	assert.NotNil(t, rule.ChargingMetric.NonDedicated.Tiers)
	assert.NotNil(t, rule.BillingRules.BillingMethod.Methods)
	assert.Empty(t, rule.ChargingMetric.Type)
}

func TestToCanonicalNeverPanicsOnSparseInput(t *testing.T) {
	sparse := domain.RawRevenueRule{
		ChargingMetric: &domain.RawChargingMetric{
			Type: "non_dedicated",
			NonDedicated: &domain.RawNonDedicated{
				Tiers: []domain.RawNonDedicatedTier{
					{Type: "transaction_fee"},
					{Type: "subscription"},
					{Type: "add_ons"},
				},
			},
		},
	}

	rule := ToCanonical(sparse)
	require.Len(t, rule.ChargingMetric.NonDedicated.Tiers, 3)
	for _, tier := range rule.ChargingMetric.NonDedicated.Tiers {
		assert.NotNil(t, tier.AddOns)
	}
}

func TestToPersistedDropsInactiveBranch(t *testing.T) {
	rule := ToCanonical(sampleRaw())
	raw := ToPersisted(rule)

	require.NotNil(t, raw.ChargingMetric)
	assert.Nil(t, raw.ChargingMetric.NonDedicated)
	require.NotNil(t, raw.ChargingMetric.Dedicated)
	require.Len(t, raw.ChargingMetric.Dedicated.Tiers, 2)

	// The package tier carries no non-package fields and vice versa.
	pkg := raw.ChargingMetric.Dedicated.Tiers[0]
	assert.Empty(t, pkg.NonPackageType)
	assert.Nil(t, pkg.Amount)

	nonPkg := raw.ChargingMetric.Dedicated.Tiers[1]
	assert.Empty(t, nonPkg.PackageTiers)
	require.NotNil(t, nonPkg.Amount)
	assert.Equal(t, 900.0, *nonPkg.Amount)
}

func TestToPersistedDropsAddOnsWithoutFlag(t *testing.T) {
	raw := sampleRaw()
	raw.ChargingMetric.Dedicated.Tiers[1].HasAddOns = boolP(false)

	out := ToPersisted(ToCanonical(raw))
	tier := out.ChargingMetric.Dedicated.Tiers[1]
	assert.Nil(t, tier.HasAddOns)
	assert.Empty(t, tier.AddOns)
}

func TestRoundTripIdempotence(t *testing.T) {
	inputs := []domain.RawRevenueRule{
		{},
		sampleRaw(),
		{
			ChargingMetric: &domain.RawChargingMetric{
				Type: "non_dedicated",
				NonDedicated: &domain.RawNonDedicated{
					Tiers: []domain.RawNonDedicatedTier{
						{
							Type:           "transaction_fee",
							TransactionFee: &domain.RawTransactionFee{Type: "percentage", Percentage: floatP(2.5)},
						},
						{
							Type:         "subscription",
							Subscription: &domain.RawSubscriptionFee{MonthlyAmount: floatP(100), YearlyAmount: floatP(1000), YearlyDiscount: floatP(15)},
						},
					},
				},
			},
			BillingRules: &domain.RawBillingRules{
				TaxRules: &domain.RawTaxRules{Type: "exclude", Rate: floatP(0)},
			},
		},
		{
			// Spurious inactive-branch content must be dropped once and stay dropped.
			ChargingMetric: &domain.RawChargingMetric{
				Type: "dedicated",
				Dedicated: &domain.RawDedicated{
					Tiers: []domain.RawDedicatedTier{{Type: "package", PackageTiers: []domain.RawPackageBand{{Min: floatP(0), Max: floatP(10), Amount: floatP(1)}}}},
				},
				NonDedicated: &domain.RawNonDedicated{
					Tiers: []domain.RawNonDedicatedTier{{Type: "subscription"}},
				},
			},
		},
	}

	for i, input := range inputs {
		once := ToPersisted(ToCanonical(input))
		twice := ToPersisted(ToCanonical(once))
		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("round trip %d not idempotent:\nonce:  %#v\ntwice: %#v", i, once, twice)
		}
	}
}

func TestTransformedDocumentIsStructurallyComplete(t *testing.T) {
	// A persisted-then-canonicalized document never trips structural checks:
	// any validator findings are semantic, not missing-substructure panics.
	rule := ToCanonical(ToPersisted(ToCanonical(sampleRaw())))
	errs := Validate(rule)
	assert.Empty(t, errs)
}
