// Package metrics defines and registers all custom Prometheus metrics for
// the storefront API. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry at
// package load; the /metrics route is mounted by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// CheckoutsTotal counts checkout submissions that reached the pipeline.
// Label:
//   - result: "success", "no_valid_items", "invalid_cart", "empty_cart"
var CheckoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Total number of checkout attempts, by result.",
	},
	[]string{"result"},
)

// CheckoutLinesSkippedTotal counts cart lines excluded from an order.
// Label:
//   - reason: "product_not_found", "price_changed", "insufficient_stock"
var CheckoutLinesSkippedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_lines_skipped_total",
		Help:      "Total number of cart lines skipped during checkout, by reason.",
	},
	[]string{"reason"},
)

// OrdersCreatedTotal counts successfully created orders.
var OrdersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders created.",
	},
)

// OrderTotal observes the grand total of each created order, in currency
// units.
var OrderTotal = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_total",
		Help:      "Grand total of created orders.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
	},
)
