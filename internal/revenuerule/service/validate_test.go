package service

import (
	"testing"

	domain "github.com/billforgelabs/billforge/internal/revenuerule/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(errs []domain.FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestValidateAcceptsCompleteDocument(t *testing.T) {
	rule := ToCanonical(sampleRaw())
	assert.Empty(t, Validate(rule))
}

func TestValidateEmptyDocumentReportsRequiredFields(t *testing.T) {
	errs := Validate(ToCanonical(domain.RawRevenueRule{}))

	got := fields(errs)
	assert.Contains(t, got, "charging_metric.type")
	assert.Contains(t, got, "billing_rules.billing_method.methods")
	assert.Contains(t, got, "billing_rules.tax_rules.type")
	assert.Contains(t, got, "billing_rules.term_of_payment.days")
}

func TestValidateReportsAllViolationsInOnePass(t *testing.T) {
	raw := sampleRaw()
	// Break several independent places at once.
	raw.ChargingMetric.Dedicated.Tiers[0].PackageTiers[0] = domain.RawPackageBand{
		Min: floatP(500), Max: floatP(100), Amount: floatP(-1),
	}
	raw.ChargingMetric.Dedicated.Tiers[1].NonPackageType = "hardware"
	raw.BillingRules.TaxRules.Rate = floatP(150)
	raw.BillingRules.TermOfPayment.Days = intP(7)

	errs := Validate(ToCanonical(raw))
	got := fields(errs)

	assert.Contains(t, got, "charging_metric.dedicated.tiers[0].package_tiers[0].min")
	assert.Contains(t, got, "charging_metric.dedicated.tiers[0].package_tiers[0].amount")
	assert.Contains(t, got, "charging_metric.dedicated.tiers[1].non_package_type")
	assert.Contains(t, got, "billing_rules.tax_rules.rate")
	assert.Contains(t, got, "billing_rules.term_of_payment.days")
	assert.Len(t, errs, 5)
}

func TestValidateUnknownMetricType(t *testing.T) {
	raw := sampleRaw()
	raw.ChargingMetric.Type = "hybrid"

	errs := Validate(ToCanonical(raw))
	require.Len(t, errs, 1)
	assert.Equal(t, "charging_metric.type", errs[0].Field)
	assert.Contains(t, errs[0].Message, "hybrid")
}

func TestValidateEmptyTierList(t *testing.T) {
	raw := sampleRaw()
	raw.ChargingMetric.Dedicated.Tiers = nil

	errs := Validate(ToCanonical(raw))
	require.Len(t, errs, 1)
	assert.Equal(t, "charging_metric.dedicated.tiers", errs[0].Field)
}

func TestValidateHasAddOnsRequiresAddOns(t *testing.T) {
	raw := sampleRaw()
	raw.ChargingMetric.Dedicated.Tiers[1].AddOns = nil

	errs := Validate(ToCanonical(raw))
	require.Len(t, errs, 1)
	assert.Equal(t, "charging_metric.dedicated.tiers[1].add_ons", errs[0].Field)
}

func TestValidateTransactionFee(t *testing.T) {
	cases := []struct {
		name  string
		fee   domain.RawTransactionFee
		field string
	}{
		{"negative fixed rate", domain.RawTransactionFee{Type: "fixed_rate", Amount: floatP(-5)}, ".amount"},
		{"percentage above 100", domain.RawTransactionFee{Type: "percentage", Percentage: floatP(101)}, ".percentage"},
		{"missing type", domain.RawTransactionFee{}, ".type"},
		{"unknown type", domain.RawTransactionFee{Type: "flat"}, ".type"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := domain.RawRevenueRule{
				ChargingMetric: &domain.RawChargingMetric{
					Type: "non_dedicated",
					NonDedicated: &domain.RawNonDedicated{
						Tiers: []domain.RawNonDedicatedTier{{Type: "transaction_fee", TransactionFee: &tc.fee}},
					},
				},
				BillingRules: sampleRaw().BillingRules,
			}

			errs := Validate(ToCanonical(raw))
			require.Len(t, errs, 1)
			assert.Equal(t, "charging_metric.non_dedicated.tiers[0].transaction_fee"+tc.field, errs[0].Field)
		})
	}
}

func TestValidatePostPaidSchedule(t *testing.T) {
	cases := []struct {
		name     string
		ppType   string
		schedule string
		wantErr  bool
	}{
		{"transaction weekly", "transaction", "weekly", false},
		{"transaction monthly", "transaction", "monthly", false},
		{"transaction yearly", "transaction", "yearly", true},
		{"subscription monthly", "subscription", "monthly", false},
		{"subscription yearly", "subscription", "yearly", false},
		{"subscription weekly", "subscription", "weekly", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := sampleRaw()
			raw.BillingRules.BillingMethod.Methods[1].PostPaid = &domain.RawPostPaid{
				Type: tc.ppType, Schedule: tc.schedule,
			}

			errs := Validate(ToCanonical(raw))
			if tc.wantErr {
				require.Len(t, errs, 1)
				assert.Equal(t, "billing_rules.billing_method.methods[1].post_paid.schedule", errs[0].Field)
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestValidateSubscriptionDiscountRange(t *testing.T) {
	raw := sampleRaw()
	raw.ChargingMetric = &domain.RawChargingMetric{
		Type: "non_dedicated",
		NonDedicated: &domain.RawNonDedicated{
			Tiers: []domain.RawNonDedicatedTier{{
				Type:         "subscription",
				Subscription: &domain.RawSubscriptionFee{MonthlyAmount: floatP(100), YearlyAmount: floatP(1000), YearlyDiscount: floatP(120)},
			}},
		},
	}

	errs := Validate(ToCanonical(raw))
	require.Len(t, errs, 1)
	assert.Equal(t, "charging_metric.non_dedicated.tiers[0].subscription.yearly_discount", errs[0].Field)
}
