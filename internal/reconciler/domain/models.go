// Package domain defines the reconciliation contract between local package
// tiers and the external billing system.
package domain

import "context"

type BatchType string

const (
	BatchCreate BatchType = "POST"
	BatchUpdate BatchType = "PUT"
)

type BatchStatus string

const (
	StatusSuccess BatchStatus = "success"
	StatusFailed  BatchStatus = "failed"
)

// Detail reports one slice of a sync outcome: how many items of a batch
// ended in the given status.
type Detail struct {
	Type    BatchType   `json:"type"`
	Count   int         `json:"count"`
	Status  BatchStatus `json:"status"`
	Message string      `json:"message,omitempty"`
}

// SyncResult is the aggregate outcome of one sync invocation. Partial
// failure is the expected steady state for large batches and is modeled
// here as data, not as an error.
type SyncResult struct {
	SuccessCount int      `json:"success_count"`
	FailureCount int      `json:"failure_count"`
	Details      []Detail `json:"details"`
}

// SyncRequest selects the tiers to reconcile. An empty TierIDs list means
// every active tier.
type SyncRequest struct {
	TierIDs []string `json:"tier_ids,omitempty"`
}

type Service interface {
	Sync(ctx context.Context, req SyncRequest) (SyncResult, error)
}
