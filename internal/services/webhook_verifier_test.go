package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWebhookVerifier(t *testing.T) {
	_, err := NewWebhookVerifier("")
	assert.ErrorIs(t, err, ErrMissingWebhookSecret)

	v, err := NewWebhookVerifier("sk_test_secret")
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestWebhookVerifier_Verify(t *testing.T) {
	v, err := NewWebhookVerifier("sk_test_secret")
	require.NoError(t, err)

	body := []byte(`{"event":"charge.success","data":{"reference":"ref-1","amount":150000}}`)
	sig := v.Sign(body)
	assert.Len(t, sig, 128)

	t.Run("valid signature", func(t *testing.T) {
		assert.NoError(t, v.Verify(body, sig))
	})

	t.Run("uppercase hex and whitespace accepted", func(t *testing.T) {
		assert.NoError(t, v.Verify(body, "  "+strings.ToUpper(sig)+"\n"))
	})

	t.Run("tampered body", func(t *testing.T) {
		tampered := []byte(strings.Replace(string(body), "150000", "950000", 1))
		assert.ErrorIs(t, v.Verify(tampered, sig), ErrInvalidSignature)
	})

	t.Run("re-encoded body is not the signed body", func(t *testing.T) {
		reencoded := []byte(`{"data":{"amount":150000,"reference":"ref-1"},"event":"charge.success"}`)
		assert.ErrorIs(t, v.Verify(reencoded, sig), ErrInvalidSignature)
	})

	t.Run("missing signature", func(t *testing.T) {
		assert.ErrorIs(t, v.Verify(body, ""), ErrInvalidSignature)
	})

	t.Run("non-hex signature", func(t *testing.T) {
		assert.ErrorIs(t, v.Verify(body, "not-hex"), ErrInvalidSignature)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewWebhookVerifier("sk_test_other")
		require.NoError(t, err)
		assert.ErrorIs(t, v.Verify(body, other.Sign(body)), ErrInvalidSignature)
	})
}
