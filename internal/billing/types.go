// Package billing is the HTTP client for the external billing system's bulk
// tier API.
package billing

const (
	TierTypeNominal    = "nominal"
	TierTypePercentage = "percentage"

	TierCategoryRegular = "regular"

	ItemStatusSuccess = "success"
	ItemStatusFailed  = "failed"
)

// ExternalTier is the wire shape the billing system accepts for one tier.
type ExternalTier struct {
	TierType     string  `json:"tier_type"`
	TierCategory string  `json:"tier_category"`
	MinAmount    float64 `json:"min_amount"`
	MaxAmount    float64 `json:"max_amount"`
	Fee          float64 `json:"fee"`
	ValidFrom    string  `json:"valid_from"`
	ValidTo      string  `json:"valid_to"`
}

// UpdateItem addresses an already-created external tier.
type UpdateItem struct {
	TierID     string       `json:"tier_id"`
	UpdateData ExternalTier `json:"update_data"`
}

// ItemResult is one per-item outcome in a bulk response. Index refers back to
// the position in the submitted array; the API contract requires it to be
// echoed unchanged.
type ItemResult struct {
	Index   int    `json:"index"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    struct {
		ID string `json:"id"`
	} `json:"data"`
}

// BulkResponse wraps the per-item results of a bulk call.
type BulkResponse struct {
	Results []ItemResult `json:"results"`
}
