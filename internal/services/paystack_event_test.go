package services

import (
	"testing"

	"github.com/arigopay/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaystackEvent(t *testing.T) {
	t.Run("charge with reusable authorization", func(t *testing.T) {
		ev, err := ParsePaystackEvent([]byte(`{
			"event": "charge.success",
			"data": {
				"reference": "ref-1",
				"amount": 150000,
				"currency": "NGN",
				"authorization": {"authorization_code": "AUTH_abc", "reusable": true}
			}
		}`))
		require.NoError(t, err)
		require.NoError(t, ev.Validate())

		s, ok := ev.Settlement()
		require.True(t, ok)
		assert.Equal(t, models.Settlement{
			Reference:         "ref-1",
			Direction:         models.DirectionCredit,
			AmountMinor:       150000,
			AuthorizationCode: "AUTH_abc",
		}, s)
	})

	t.Run("non reusable authorization is not stored", func(t *testing.T) {
		ev, err := ParsePaystackEvent([]byte(`{"event":"charge.success","data":{"reference":"ref-2","amount":100,"authorization":{"authorization_code":"AUTH_x","reusable":false}}}`))
		require.NoError(t, err)

		s, ok := ev.Settlement()
		require.True(t, ok)
		assert.Empty(t, s.AuthorizationCode)
	})

	t.Run("transfer debits and ignores authorization", func(t *testing.T) {
		ev, err := ParsePaystackEvent([]byte(`{"event":"transfer.success","data":{"reference":"trf-1","amount":5000,"authorization":{"authorization_code":"AUTH_y","reusable":true}}}`))
		require.NoError(t, err)

		s, ok := ev.Settlement()
		require.True(t, ok)
		assert.Equal(t, models.DirectionDebit, s.Direction)
		assert.Empty(t, s.AuthorizationCode)
		assert.Equal(t, -50.0, s.SignedAmountMajor())
	})

	t.Run("unknown event", func(t *testing.T) {
		ev, err := ParsePaystackEvent([]byte(`{"event":"subscription.create","data":{}}`))
		require.NoError(t, err)
		assert.False(t, ev.Recognized())

		_, ok := ev.Settlement()
		assert.False(t, ok)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := ParsePaystackEvent([]byte(`{"event":`))
		assert.ErrorIs(t, err, ErrMalformedEvent)
	})

	t.Run("missing reference and amount", func(t *testing.T) {
		ev, err := ParsePaystackEvent([]byte(`{"event":"charge.success","data":{}}`))
		require.NoError(t, err)
		assert.ErrorIs(t, ev.Validate(), ErrInvalidEvent)
	})
}
