package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arigopay_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arigopay_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	WebhookDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arigopay_webhook_deliveries_total",
			Help: "Webhook deliveries by event type and settlement outcome",
		},
		[]string{"event", "outcome"},
	)

	WebhookSignatureFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "arigopay_webhook_signature_failures_total",
			Help: "Webhook deliveries rejected for a bad or missing signature",
		},
	)

	SettledAmountMinorTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arigopay_settled_amount_minor_total",
			Help: "Sum of applied settlement amounts in minor currency units",
		},
		[]string{"direction"},
	)

	NegativeBalancesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "arigopay_negative_balances_total",
			Help: "Debit settlements that left a user balance below zero",
		},
	)

	SettlementCacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "arigopay_settlement_cache_hits_total",
			Help: "Redeliveries short-circuited by the settlement cache",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordWebhookDelivery(event, outcome string) {
	WebhookDeliveriesTotal.WithLabelValues(event, outcome).Inc()
}

func RecordSignatureFailure() {
	WebhookSignatureFailuresTotal.Inc()
}

func RecordSettledAmount(direction string, amountMinor int64) {
	SettledAmountMinorTotal.WithLabelValues(direction).Add(float64(amountMinor))
}

func RecordNegativeBalance() {
	NegativeBalancesTotal.Inc()
}

func RecordCacheHit() {
	SettlementCacheHitsTotal.Inc()
}
