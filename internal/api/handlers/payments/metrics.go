package payments

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// checkoutOutcomes counts checkout attempts per boundary phase. The outcome
// label is "ok" or the failing step name.
var checkoutOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "storefront_checkout_outcomes_total",
	Help: "Checkout attempts by phase and outcome.",
}, []string{"phase", "outcome"})
