package service

import (
	domain "github.com/billforgelabs/billforge/internal/revenuerule/domain"
)

// ToCanonical converts the storage representation into the canonical form.
// It never fails: missing substructures become empty slices and zero values,
// so consumers can traverse the result without nil checks. Semantic validity
// is the validator's job.
func ToCanonical(raw domain.RawRevenueRule) domain.RevenueRule {
	var rule domain.RevenueRule

	rule.ChargingMetric = canonicalChargingMetric(raw.ChargingMetric)
	rule.BillingRules = canonicalBillingRules(raw.BillingRules)
	return rule
}

func canonicalChargingMetric(raw *domain.RawChargingMetric) domain.ChargingMetric {
	cm := domain.ChargingMetric{
		Dedicated:    domain.DedicatedMetric{Tiers: []domain.DedicatedTier{}},
		NonDedicated: domain.NonDedicatedMetric{Tiers: []domain.NonDedicatedTier{}},
	}
	if raw == nil {
		return cm
	}
	cm.Type = domain.MetricType(raw.Type)

	if raw.Dedicated != nil {
		for _, t := range raw.Dedicated.Tiers {
			cm.Dedicated.Tiers = append(cm.Dedicated.Tiers, canonicalDedicatedTier(t))
		}
	}
	if raw.NonDedicated != nil {
		for _, t := range raw.NonDedicated.Tiers {
			cm.NonDedicated.Tiers = append(cm.NonDedicated.Tiers, canonicalNonDedicatedTier(t))
		}
	}
	return cm
}

func canonicalDedicatedTier(raw domain.RawDedicatedTier) domain.DedicatedTier {
	tier := domain.DedicatedTier{
		Type:         domain.DedicatedTierType(raw.Type),
		PackageBands: []domain.PackageBand{},
		AddOns:       []domain.AddOn{},
	}
	for _, band := range raw.PackageTiers {
		tier.PackageBands = append(tier.PackageBands, domain.PackageBand{
			Min:    floatValue(band.Min),
			Max:    floatValue(band.Max),
			Amount: floatValue(band.Amount),
		})
	}
	tier.NonPackage = domain.NonPackageFee{
		Type:   domain.NonPackageType(raw.NonPackageType),
		Amount: floatValue(raw.Amount),
	}
	if raw.HasAddOns != nil {
		tier.HasAddOns = *raw.HasAddOns
	}
	for _, a := range raw.AddOns {
		tier.AddOns = append(tier.AddOns, canonicalAddOn(a))
	}
	return tier
}

func canonicalNonDedicatedTier(raw domain.RawNonDedicatedTier) domain.NonDedicatedTier {
	tier := domain.NonDedicatedTier{
		Type:   domain.NonDedicatedTierType(raw.Type),
		AddOns: []domain.AddOn{},
	}
	if raw.TransactionFee != nil {
		tier.TransactionFee = domain.TransactionFee{
			Type:       domain.TransactionFeeType(raw.TransactionFee.Type),
			Amount:     floatValue(raw.TransactionFee.Amount),
			Percentage: floatValue(raw.TransactionFee.Percentage),
		}
	}
	if raw.Subscription != nil {
		tier.Subscription = domain.SubscriptionFee{
			MonthlyAmount:  floatValue(raw.Subscription.MonthlyAmount),
			YearlyAmount:   floatValue(raw.Subscription.YearlyAmount),
			YearlyDiscount: floatValue(raw.Subscription.YearlyDiscount),
		}
	}
	for _, a := range raw.AddOns {
		tier.AddOns = append(tier.AddOns, canonicalAddOn(a))
	}
	return tier
}

func canonicalAddOn(raw domain.RawAddOn) domain.AddOn {
	return domain.AddOn{
		Type:        domain.AddOnType(raw.Type),
		BillingType: domain.AddOnBillingType(raw.BillingType),
		Amount:      floatValue(raw.Amount),
	}
}

func canonicalBillingRules(raw *domain.RawBillingRules) domain.BillingRules {
	br := domain.BillingRules{
		BillingMethod: domain.BillingMethod{Methods: []domain.Method{}},
	}
	if raw == nil {
		return br
	}
	if raw.BillingMethod != nil {
		for _, m := range raw.BillingMethod.Methods {
			method := domain.Method{Type: domain.BillingMethodType(m.Type)}
			if m.AutoDeduct != nil {
				method.AutoDeduct = domain.AutoDeduct{IsEnabled: m.AutoDeduct.IsEnabled}
			}
			if m.PostPaid != nil {
				method.PostPaid = domain.PostPaid{
					Type:      domain.PostPaidType(m.PostPaid.Type),
					Schedule:  domain.Schedule(m.PostPaid.Schedule),
					CustomFee: floatValue(m.PostPaid.CustomFee),
				}
			}
			br.BillingMethod.Methods = append(br.BillingMethod.Methods, method)
		}
	}
	if raw.TaxRules != nil {
		br.TaxRules = domain.TaxRules{
			Type: domain.TaxRuleType(raw.TaxRules.Type),
			Rate: floatValue(raw.TaxRules.Rate),
		}
	}
	if raw.TermOfPayment != nil && raw.TermOfPayment.Days != nil {
		br.TermOfPayment = domain.TermOfPayment{Days: *raw.TermOfPayment.Days}
	}
	return br
}

// ToPersisted converts a canonical document back to its storage shape,
// dropping the inactive union branches and empty placeholder values so a
// round trip never introduces spurious fields. It is idempotent when composed
// with ToCanonical.
func ToPersisted(rule domain.RevenueRule) domain.RawRevenueRule {
	var raw domain.RawRevenueRule
	raw.ChargingMetric = persistedChargingMetric(rule.ChargingMetric)
	raw.BillingRules = persistedBillingRules(rule.BillingRules)
	return raw
}

func persistedChargingMetric(cm domain.ChargingMetric) *domain.RawChargingMetric {
	if cm.Type == "" {
		return nil
	}
	out := &domain.RawChargingMetric{Type: string(cm.Type)}

	switch cm.Type {
	case domain.MetricDedicated:
		if len(cm.Dedicated.Tiers) > 0 {
			ded := &domain.RawDedicated{}
			for _, t := range cm.Dedicated.Tiers {
				ded.Tiers = append(ded.Tiers, persistedDedicatedTier(t))
			}
			out.Dedicated = ded
		}
	case domain.MetricNonDedicated:
		if len(cm.NonDedicated.Tiers) > 0 {
			nd := &domain.RawNonDedicated{}
			for _, t := range cm.NonDedicated.Tiers {
				nd.Tiers = append(nd.Tiers, persistedNonDedicatedTier(t))
			}
			out.NonDedicated = nd
		}
	}
	return out
}

func persistedDedicatedTier(tier domain.DedicatedTier) domain.RawDedicatedTier {
	out := domain.RawDedicatedTier{Type: string(tier.Type)}

	switch tier.Type {
	case domain.DedicatedTierPackage:
		for _, band := range tier.PackageBands {
			out.PackageTiers = append(out.PackageTiers, domain.RawPackageBand{
				Min:    floatPtr(band.Min),
				Max:    floatPtr(band.Max),
				Amount: floatPtr(band.Amount),
			})
		}
	case domain.DedicatedTierNonPackage:
		out.NonPackageType = string(tier.NonPackage.Type)
		out.Amount = floatPtr(tier.NonPackage.Amount)
	}

	if tier.HasAddOns {
		hasAddOns := true
		out.HasAddOns = &hasAddOns
		for _, a := range tier.AddOns {
			out.AddOns = append(out.AddOns, persistedAddOn(a))
		}
	}
	return out
}

func persistedNonDedicatedTier(tier domain.NonDedicatedTier) domain.RawNonDedicatedTier {
	out := domain.RawNonDedicatedTier{Type: string(tier.Type)}

	switch tier.Type {
	case domain.NonDedicatedTransactionFee:
		fee := &domain.RawTransactionFee{Type: string(tier.TransactionFee.Type)}
		switch tier.TransactionFee.Type {
		case domain.TransactionFeePercentage:
			fee.Percentage = floatPtr(tier.TransactionFee.Percentage)
		default:
			fee.Amount = floatPtr(tier.TransactionFee.Amount)
		}
		out.TransactionFee = fee
	case domain.NonDedicatedSubscription:
		out.Subscription = &domain.RawSubscriptionFee{
			MonthlyAmount:  floatPtr(tier.Subscription.MonthlyAmount),
			YearlyAmount:   floatPtr(tier.Subscription.YearlyAmount),
			YearlyDiscount: floatPtr(tier.Subscription.YearlyDiscount),
		}
	case domain.NonDedicatedAddOns:
		for _, a := range tier.AddOns {
			out.AddOns = append(out.AddOns, persistedAddOn(a))
		}
	}
	return out
}

func persistedAddOn(a domain.AddOn) domain.RawAddOn {
	return domain.RawAddOn{
		Type:        string(a.Type),
		BillingType: string(a.BillingType),
		Amount:      floatPtr(a.Amount),
	}
}

func persistedBillingRules(br domain.BillingRules) *domain.RawBillingRules {
	out := &domain.RawBillingRules{}
	empty := true

	if len(br.BillingMethod.Methods) > 0 {
		method := &domain.RawBillingMethod{}
		for _, m := range br.BillingMethod.Methods {
			raw := domain.RawMethod{Type: string(m.Type)}
			switch m.Type {
			case domain.BillingMethodAutoDeduct:
				raw.AutoDeduct = &domain.RawAutoDeduct{IsEnabled: m.AutoDeduct.IsEnabled}
			case domain.BillingMethodPostPaid:
				raw.PostPaid = &domain.RawPostPaid{
					Type:      string(m.PostPaid.Type),
					Schedule:  string(m.PostPaid.Schedule),
					CustomFee: floatPtr(m.PostPaid.CustomFee),
				}
			}
			method.Methods = append(method.Methods, raw)
		}
		out.BillingMethod = method
		empty = false
	}

	if br.TaxRules.Type != "" {
		out.TaxRules = &domain.RawTaxRules{
			Type: string(br.TaxRules.Type),
			Rate: floatPtr(br.TaxRules.Rate),
		}
		empty = false
	}

	if br.TermOfPayment.Days != 0 {
		days := br.TermOfPayment.Days
		out.TermOfPayment = &domain.RawTermOfPayment{Days: &days}
		empty = false
	}

	if empty {
		return nil
	}
	return out
}

func floatValue(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func floatPtr(v float64) *float64 {
	return &v
}
