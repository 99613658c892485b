package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordWebhookDelivery(t *testing.T) {
	before := testutil.ToFloat64(WebhookDeliveriesTotal.WithLabelValues("charge.success", "applied"))

	RecordWebhookDelivery("charge.success", "applied")
	RecordWebhookDelivery("charge.success", "applied")

	after := testutil.ToFloat64(WebhookDeliveriesTotal.WithLabelValues("charge.success", "applied"))
	assert.Equal(t, before+2, after)
}

func TestRecordSettledAmount(t *testing.T) {
	before := testutil.ToFloat64(SettledAmountMinorTotal.WithLabelValues("credit"))

	RecordSettledAmount("credit", 150000)

	assert.Equal(t, before+150000, testutil.ToFloat64(SettledAmountMinorTotal.WithLabelValues("credit")))
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/webhook", "200"))

	RecordHTTPRequest("POST", "/webhook", "200", 0.012)

	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/webhook", "200")))
	assert.GreaterOrEqual(t, testutil.CollectAndCount(HTTPRequestDuration), 1)
}

func TestCounters(t *testing.T) {
	sig := testutil.ToFloat64(WebhookSignatureFailuresTotal)
	neg := testutil.ToFloat64(NegativeBalancesTotal)
	hit := testutil.ToFloat64(SettlementCacheHitsTotal)

	RecordSignatureFailure()
	RecordNegativeBalance()
	RecordCacheHit()

	assert.Equal(t, sig+1, testutil.ToFloat64(WebhookSignatureFailuresTotal))
	assert.Equal(t, neg+1, testutil.ToFloat64(NegativeBalancesTotal))
	assert.Equal(t, hit+1, testutil.ToFloat64(SettlementCacheHitsTotal))
}
