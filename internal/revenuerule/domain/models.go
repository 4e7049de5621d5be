// Package domain defines the canonical revenue rule document attached to an
// account-service relationship.
package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrInvalidAccount = errors.New("revenuerule: invalid account reference")
	ErrNotFound       = errors.New("revenuerule: rule document not found")
)

type MetricType string

const (
	MetricDedicated    MetricType = "dedicated"
	MetricNonDedicated MetricType = "non_dedicated"
)

type DedicatedTierType string

const (
	DedicatedTierPackage    DedicatedTierType = "package"
	DedicatedTierNonPackage DedicatedTierType = "non_package"
)

type NonPackageType string

const (
	NonPackageMachineOnly NonPackageType = "machine_only"
	NonPackageServiceOnly NonPackageType = "service_only"
)

type AddOnType string

const (
	AddOnSystemIntegration AddOnType = "system_integration"
	AddOnInfrastructure    AddOnType = "infrastructure"
)

type AddOnBillingType string

const (
	AddOnBillingOTC     AddOnBillingType = "otc"
	AddOnBillingMonthly AddOnBillingType = "monthly"
)

type NonDedicatedTierType string

const (
	NonDedicatedTransactionFee NonDedicatedTierType = "transaction_fee"
	NonDedicatedSubscription   NonDedicatedTierType = "subscription"
	NonDedicatedAddOns         NonDedicatedTierType = "add_ons"
)

type TransactionFeeType string

const (
	TransactionFeeFixedRate  TransactionFeeType = "fixed_rate"
	TransactionFeePercentage TransactionFeeType = "percentage"
)

type BillingMethodType string

const (
	BillingMethodAutoDeduct BillingMethodType = "auto_deduct"
	BillingMethodPostPaid   BillingMethodType = "post_paid"
)

type PostPaidType string

const (
	PostPaidTransaction  PostPaidType = "transaction"
	PostPaidSubscription PostPaidType = "subscription"
)

type Schedule string

const (
	ScheduleWeekly  Schedule = "weekly"
	ScheduleMonthly Schedule = "monthly"
	ScheduleYearly  Schedule = "yearly"
)

type TaxRuleType string

const (
	TaxInclude TaxRuleType = "include"
	TaxExclude TaxRuleType = "exclude"
)

// RevenueRule is the canonical in-memory form. Both charging metric branches
// are always structurally present (empty slices, zero values); only the branch
// matching Type is semantically meaningful.
type RevenueRule struct {
	ChargingMetric ChargingMetric `json:"charging_metric"`
	BillingRules   BillingRules   `json:"billing_rules"`
}

type ChargingMetric struct {
	Type         MetricType         `json:"type"`
	Dedicated    DedicatedMetric    `json:"dedicated"`
	NonDedicated NonDedicatedMetric `json:"non_dedicated"`
}

type DedicatedMetric struct {
	Tiers []DedicatedTier `json:"tiers"`
}

type DedicatedTier struct {
	Type         DedicatedTierType `json:"type"`
	PackageBands []PackageBand     `json:"package_bands"`
	NonPackage   NonPackageFee     `json:"non_package"`
	HasAddOns    bool              `json:"has_add_ons"`
	AddOns       []AddOn           `json:"add_ons"`
}

type PackageBand struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Amount float64 `json:"amount"`
}

type NonPackageFee struct {
	Type   NonPackageType `json:"type"`
	Amount float64        `json:"amount"`
}

type AddOn struct {
	Type        AddOnType        `json:"type"`
	BillingType AddOnBillingType `json:"billing_type"`
	Amount      float64          `json:"amount"`
}

type NonDedicatedMetric struct {
	Tiers []NonDedicatedTier `json:"tiers"`
}

type NonDedicatedTier struct {
	Type           NonDedicatedTierType `json:"type"`
	TransactionFee TransactionFee       `json:"transaction_fee"`
	Subscription   SubscriptionFee      `json:"subscription"`
	AddOns         []AddOn              `json:"add_ons"`
}

type TransactionFee struct {
	Type       TransactionFeeType `json:"type"`
	Amount     float64            `json:"amount"`
	Percentage float64            `json:"percentage"`
}

type SubscriptionFee struct {
	MonthlyAmount   float64 `json:"monthly_amount"`
	YearlyAmount    float64 `json:"yearly_amount"`
	YearlyDiscount  float64 `json:"yearly_discount"`
}

type BillingRules struct {
	BillingMethod BillingMethod `json:"billing_method"`
	TaxRules      TaxRules      `json:"tax_rules"`
	TermOfPayment TermOfPayment `json:"term_of_payment"`
}

type BillingMethod struct {
	Methods []Method `json:"methods"`
}

type Method struct {
	Type       BillingMethodType `json:"type"`
	AutoDeduct AutoDeduct        `json:"auto_deduct"`
	PostPaid   PostPaid          `json:"post_paid"`
}

type AutoDeduct struct {
	IsEnabled bool `json:"is_enabled"`
}

type PostPaid struct {
	Type      PostPaidType `json:"type"`
	Schedule  Schedule     `json:"schedule"`
	CustomFee float64      `json:"custom_fee"`
}

type TaxRules struct {
	Type TaxRuleType `json:"type"`
	Rate float64     `json:"rate"`
}

type TermOfPayment struct {
	Days int `json:"days"`
}

// FieldError names one violated constraint by field path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the full list of violations for one document.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("revenuerule: document failed validation with %d error(s)", len(e.Fields))
}

// RuleRecord is the persisted form: the raw document stored as JSON keyed by
// the account-service relationship.
type RuleRecord struct {
	ID               snowflake.ID   `gorm:"primaryKey"`
	AccountID        string         `gorm:"type:text;not null;uniqueIndex:idx_rule_account_service"`
	AccountServiceID string         `gorm:"type:text;not null;uniqueIndex:idx_rule_account_service"`
	Document         datatypes.JSON `gorm:"not null"`
	CreatedAt        time.Time      `gorm:"not null"`
	UpdatedAt        time.Time      `gorm:"not null"`
}

func (RuleRecord) TableName() string { return "revenue_rules" }

type SaveRequest struct {
	AccountID        string         `json:"account_id"`
	AccountServiceID string         `json:"account_service_id"`
	Document         RawRevenueRule `json:"document"`
}

type Response struct {
	AccountID        string      `json:"account_id"`
	AccountServiceID string      `json:"account_service_id"`
	Document         RevenueRule `json:"document"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

type Service interface {
	Get(ctx context.Context, accountID, accountServiceID string) (*Response, error)
	Save(ctx context.Context, req SaveRequest) (*Response, error)
	Validate(doc RawRevenueRule) []FieldError
	Delete(ctx context.Context, accountID, accountServiceID string) error
}

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, record *RuleRecord) error
	FindByAccountService(ctx context.Context, db *gorm.DB, accountID, accountServiceID string) (*RuleRecord, error)
	Delete(ctx context.Context, db *gorm.DB, accountID, accountServiceID string) error
}
