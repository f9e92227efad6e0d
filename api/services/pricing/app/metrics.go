package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pricingResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pricing",
			Name:      "resolutions_total",
			Help:      "Pricing resolutions by entry point and whether a gateway fallback currency was used.",
		},
		[]string{"entry", "fallback"},
	)

	orchestrationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pricing",
			Name:      "orchestration_failures_total",
			Help:      "Pipeline failures recovered into the default pricing result.",
		},
		[]string{"entry"},
	)
)
