// Package metrics registers the engine's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
)

var Module = fx.Module("metrics",
	fx.Provide(NewRegistry),
	fx.Provide(New),
)

type Metrics struct {
	SyncItems        *prometheus.CounterVec
	SyncBatches      *prometheus.CounterVec
	TokenFallbacks   prometheus.Counter
	OverlapRejects   prometheus.Counter
	ValidationFails  prometheus.Counter
}

func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		SyncItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "billforge_sync_items_total",
			Help: "Package tier sync items by outcome.",
		}, []string{"result"}),
		SyncBatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "billforge_sync_batches_total",
			Help: "Bulk sync batches by method and outcome.",
		}, []string{"method", "result"}),
		TokenFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "billforge_token_fallbacks_total",
			Help: "Times the credential cache fell back to an ephemeral token.",
		}),
		OverlapRejects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "billforge_tier_overlap_rejects_total",
			Help: "Package tier writes rejected by the overlap detector.",
		}),
		ValidationFails: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "billforge_rule_validation_failures_total",
			Help: "Revenue rule documents rejected by the validator.",
		}),
	}
	reg.MustRegister(m.SyncItems, m.SyncBatches, m.TokenFallbacks, m.OverlapRejects, m.ValidationFails)
	return m
}
