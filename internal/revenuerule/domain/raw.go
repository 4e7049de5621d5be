package domain

// Raw types mirror the storage/API representation of a rule document. Every
// substructure is optional; the transformer is responsible for filling
// defaults on the way in and dropping empty placeholders on the way out.

type RawRevenueRule struct {
	ChargingMetric *RawChargingMetric `json:"charging_metric,omitempty"`
	BillingRules   *RawBillingRules   `json:"billing_rules,omitempty"`
}

type RawChargingMetric struct {
	Type         string           `json:"type,omitempty"`
	Dedicated    *RawDedicated    `json:"dedicated,omitempty"`
	NonDedicated *RawNonDedicated `json:"non_dedicated,omitempty"`
}

type RawDedicated struct {
	Tiers []RawDedicatedTier `json:"tiers,omitempty"`
}

type RawDedicatedTier struct {
	Type           string           `json:"type,omitempty"`
	PackageTiers   []RawPackageBand `json:"package_tiers,omitempty"`
	NonPackageType string           `json:"non_package_type,omitempty"`
	Amount         *float64         `json:"amount,omitempty"`
	HasAddOns      *bool            `json:"has_add_ons,omitempty"`
	AddOns         []RawAddOn       `json:"add_ons,omitempty"`
}

type RawPackageBand struct {
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Amount *float64 `json:"amount,omitempty"`
}

type RawAddOn struct {
	Type        string   `json:"type,omitempty"`
	BillingType string   `json:"billing_type,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
}

type RawNonDedicated struct {
	Tiers []RawNonDedicatedTier `json:"tiers,omitempty"`
}

type RawNonDedicatedTier struct {
	Type           string              `json:"type,omitempty"`
	TransactionFee *RawTransactionFee  `json:"transaction_fee,omitempty"`
	Subscription   *RawSubscriptionFee `json:"subscription,omitempty"`
	AddOns         []RawAddOn          `json:"add_ons,omitempty"`
}

type RawTransactionFee struct {
	Type       string   `json:"type,omitempty"`
	Amount     *float64 `json:"amount,omitempty"`
	Percentage *float64 `json:"percentage,omitempty"`
}

type RawSubscriptionFee struct {
	MonthlyAmount  *float64 `json:"monthly_amount,omitempty"`
	YearlyAmount   *float64 `json:"yearly_amount,omitempty"`
	YearlyDiscount *float64 `json:"yearly_discount,omitempty"`
}

type RawBillingRules struct {
	BillingMethod *RawBillingMethod `json:"billing_method,omitempty"`
	TaxRules      *RawTaxRules      `json:"tax_rules,omitempty"`
	TermOfPayment *RawTermOfPayment `json:"term_of_payment,omitempty"`
}

type RawBillingMethod struct {
	Methods []RawMethod `json:"methods,omitempty"`
}

type RawMethod struct {
	Type       string         `json:"type,omitempty"`
	AutoDeduct *RawAutoDeduct `json:"auto_deduct,omitempty"`
	PostPaid   *RawPostPaid   `json:"post_paid,omitempty"`
}

type RawAutoDeduct struct {
	IsEnabled bool `json:"is_enabled"`
}

type RawPostPaid struct {
	Type      string   `json:"type,omitempty"`
	Schedule  string   `json:"schedule,omitempty"`
	CustomFee *float64 `json:"custom_fee,omitempty"`
}

type RawTaxRules struct {
	Type string   `json:"type,omitempty"`
	Rate *float64 `json:"rate,omitempty"`
}

type RawTermOfPayment struct {
	Days *int `json:"days,omitempty"`
}
