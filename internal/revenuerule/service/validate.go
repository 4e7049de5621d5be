package service

import (
	"fmt"

	domain "github.com/billforgelabs/billforge/internal/revenuerule/domain"
)

// Validate checks a canonical document against the schema's structural and
// enumeration constraints. It is pure, performs no I/O, and reports every
// violation found in one pass so an operator can be shown the complete list.
func Validate(rule domain.RevenueRule) []domain.FieldError {
	var errs []domain.FieldError
	errs = append(errs, validateChargingMetric(rule.ChargingMetric)...)
	errs = append(errs, validateBillingRules(rule.BillingRules)...)
	return errs
}

func validateChargingMetric(cm domain.ChargingMetric) []domain.FieldError {
	var errs []domain.FieldError

	switch cm.Type {
	case domain.MetricDedicated:
		if len(cm.Dedicated.Tiers) == 0 {
			errs = append(errs, fieldError("charging_metric.dedicated.tiers", "must contain at least one tier"))
			break
		}
		for i, tier := range cm.Dedicated.Tiers {
			errs = append(errs, validateDedicatedTier(fmt.Sprintf("charging_metric.dedicated.tiers[%d]", i), tier)...)
		}
	case domain.MetricNonDedicated:
		if len(cm.NonDedicated.Tiers) == 0 {
			errs = append(errs, fieldError("charging_metric.non_dedicated.tiers", "must contain at least one tier"))
			break
		}
		for i, tier := range cm.NonDedicated.Tiers {
			errs = append(errs, validateNonDedicatedTier(fmt.Sprintf("charging_metric.non_dedicated.tiers[%d]", i), tier)...)
		}
	case "":
		errs = append(errs, fieldError("charging_metric.type", "is required"))
	default:
		errs = append(errs, fieldError("charging_metric.type", fmt.Sprintf("unknown value %q", cm.Type)))
	}
	return errs
}

func validateDedicatedTier(path string, tier domain.DedicatedTier) []domain.FieldError {
	var errs []domain.FieldError

	switch tier.Type {
	case domain.DedicatedTierPackage:
		if len(tier.PackageBands) == 0 {
			errs = append(errs, fieldError(path+".package_tiers", "must contain at least one band"))
		}
		for i, band := range tier.PackageBands {
			errs = append(errs, validatePackageBand(fmt.Sprintf("%s.package_tiers[%d]", path, i), band)...)
		}
	case domain.DedicatedTierNonPackage:
		switch tier.NonPackage.Type {
		case domain.NonPackageMachineOnly, domain.NonPackageServiceOnly:
		case "":
			errs = append(errs, fieldError(path+".non_package_type", "is required"))
		default:
			errs = append(errs, fieldError(path+".non_package_type", fmt.Sprintf("unknown value %q", tier.NonPackage.Type)))
		}
		if tier.NonPackage.Amount < 0 {
			errs = append(errs, fieldError(path+".amount", "must not be negative"))
		}
	case "":
		errs = append(errs, fieldError(path+".type", "is required"))
	default:
		errs = append(errs, fieldError(path+".type", fmt.Sprintf("unknown value %q", tier.Type)))
	}

	if tier.HasAddOns {
		if len(tier.AddOns) == 0 {
			errs = append(errs, fieldError(path+".add_ons", "must contain at least one add-on when has_add_ons is set"))
		}
		for i, addOn := range tier.AddOns {
			errs = append(errs, validateAddOn(fmt.Sprintf("%s.add_ons[%d]", path, i), addOn)...)
		}
	}
	return errs
}

func validatePackageBand(path string, band domain.PackageBand) []domain.FieldError {
	var errs []domain.FieldError
	if band.Min < 0 {
		errs = append(errs, fieldError(path+".min", "must not be negative"))
	}
	if band.Max < 0 {
		errs = append(errs, fieldError(path+".max", "must not be negative"))
	}
	if band.Min >= band.Max {
		errs = append(errs, fieldError(path+".min", "must be less than max"))
	}
	if band.Amount < 0 {
		errs = append(errs, fieldError(path+".amount", "must not be negative"))
	}
	return errs
}

func validateNonDedicatedTier(path string, tier domain.NonDedicatedTier) []domain.FieldError {
	var errs []domain.FieldError

	switch tier.Type {
	case domain.NonDedicatedTransactionFee:
		errs = append(errs, validateTransactionFee(path+".transaction_fee", tier.TransactionFee)...)
	case domain.NonDedicatedSubscription:
		sub := tier.Subscription
		if sub.MonthlyAmount < 0 {
			errs = append(errs, fieldError(path+".subscription.monthly_amount", "must not be negative"))
		}
		if sub.YearlyAmount < 0 {
			errs = append(errs, fieldError(path+".subscription.yearly_amount", "must not be negative"))
		}
		if sub.YearlyDiscount < 0 || sub.YearlyDiscount > 100 {
			errs = append(errs, fieldError(path+".subscription.yearly_discount", "must be between 0 and 100"))
		}
	case domain.NonDedicatedAddOns:
		if len(tier.AddOns) == 0 {
			errs = append(errs, fieldError(path+".add_ons", "must contain at least one add-on"))
		}
		for i, addOn := range tier.AddOns {
			errs = append(errs, validateAddOn(fmt.Sprintf("%s.add_ons[%d]", path, i), addOn)...)
		}
	case "":
		errs = append(errs, fieldError(path+".type", "is required"))
	default:
		errs = append(errs, fieldError(path+".type", fmt.Sprintf("unknown value %q", tier.Type)))
	}
	return errs
}

func validateTransactionFee(path string, fee domain.TransactionFee) []domain.FieldError {
	var errs []domain.FieldError
	switch fee.Type {
	case domain.TransactionFeeFixedRate:
		if fee.Amount < 0 {
			errs = append(errs, fieldError(path+".amount", "must not be negative"))
		}
	case domain.TransactionFeePercentage:
		if fee.Percentage < 0 || fee.Percentage > 100 {
			errs = append(errs, fieldError(path+".percentage", "must be between 0 and 100"))
		}
	case "":
		errs = append(errs, fieldError(path+".type", "is required"))
	default:
		errs = append(errs, fieldError(path+".type", fmt.Sprintf("unknown value %q", fee.Type)))
	}
	return errs
}

func validateAddOn(path string, addOn domain.AddOn) []domain.FieldError {
	var errs []domain.FieldError
	switch addOn.Type {
	case domain.AddOnSystemIntegration, domain.AddOnInfrastructure:
	case "":
		errs = append(errs, fieldError(path+".type", "is required"))
	default:
		errs = append(errs, fieldError(path+".type", fmt.Sprintf("unknown value %q", addOn.Type)))
	}
	switch addOn.BillingType {
	case domain.AddOnBillingOTC, domain.AddOnBillingMonthly:
	case "":
		errs = append(errs, fieldError(path+".billing_type", "is required"))
	default:
		errs = append(errs, fieldError(path+".billing_type", fmt.Sprintf("unknown value %q", addOn.BillingType)))
	}
	if addOn.Amount < 0 {
		errs = append(errs, fieldError(path+".amount", "must not be negative"))
	}
	return errs
}

func validateBillingRules(br domain.BillingRules) []domain.FieldError {
	var errs []domain.FieldError

	if len(br.BillingMethod.Methods) == 0 {
		errs = append(errs, fieldError("billing_rules.billing_method.methods", "must contain at least one method"))
	}
	for i, method := range br.BillingMethod.Methods {
		errs = append(errs, validateMethod(fmt.Sprintf("billing_rules.billing_method.methods[%d]", i), method)...)
	}

	switch br.TaxRules.Type {
	case domain.TaxInclude, domain.TaxExclude:
	case "":
		errs = append(errs, fieldError("billing_rules.tax_rules.type", "is required"))
	default:
		errs = append(errs, fieldError("billing_rules.tax_rules.type", fmt.Sprintf("unknown value %q", br.TaxRules.Type)))
	}
	if br.TaxRules.Rate < 0 || br.TaxRules.Rate > 100 {
		errs = append(errs, fieldError("billing_rules.tax_rules.rate", "must be between 0 and 100"))
	}

	if br.TermOfPayment.Days != 14 && br.TermOfPayment.Days != 30 {
		errs = append(errs, fieldError("billing_rules.term_of_payment.days", "must be 14 or 30"))
	}
	return errs
}

func validateMethod(path string, method domain.Method) []domain.FieldError {
	var errs []domain.FieldError

	switch method.Type {
	case domain.BillingMethodAutoDeduct:
	case domain.BillingMethodPostPaid:
		errs = append(errs, validatePostPaid(path+".post_paid", method.PostPaid)...)
	case "":
		errs = append(errs, fieldError(path+".type", "is required"))
	default:
		errs = append(errs, fieldError(path+".type", fmt.Sprintf("unknown value %q", method.Type)))
	}
	return errs
}

func validatePostPaid(path string, pp domain.PostPaid) []domain.FieldError {
	var errs []domain.FieldError

	switch pp.Type {
	case domain.PostPaidTransaction:
		if pp.Schedule != domain.ScheduleWeekly && pp.Schedule != domain.ScheduleMonthly {
			errs = append(errs, fieldError(path+".schedule", "must be weekly or monthly for transaction post-paid"))
		}
	case domain.PostPaidSubscription:
		if pp.Schedule != domain.ScheduleMonthly && pp.Schedule != domain.ScheduleYearly {
			errs = append(errs, fieldError(path+".schedule", "must be monthly or yearly for subscription post-paid"))
		}
	case "":
		errs = append(errs, fieldError(path+".type", "is required"))
	default:
		errs = append(errs, fieldError(path+".type", fmt.Sprintf("unknown value %q", pp.Type)))
	}

	if pp.CustomFee < 0 {
		errs = append(errs, fieldError(path+".custom_fee", "must not be negative"))
	}
	return errs
}

func fieldError(field, message string) domain.FieldError {
	return domain.FieldError{Field: field, Message: message}
}
