package services

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"strings"
)

var (
	ErrMissingWebhookSecret = errors.New("webhook secret is required")
	ErrInvalidSignature     = errors.New("invalid signature")
)

// WebhookVerifier authenticates provider callbacks. The digest is always
// computed over the raw request bytes, never over a re-encoded payload.
type WebhookVerifier struct {
	secret []byte
}

func NewWebhookVerifier(secret string) (*WebhookVerifier, error) {
	if secret == "" {
		return nil, ErrMissingWebhookSecret
	}
	return &WebhookVerifier{secret: []byte(secret)}, nil
}

// Sign returns the lowercase hex HMAC-SHA512 of body.
func (v *WebhookVerifier) Sign(body []byte) string {
	return hex.EncodeToString(v.digest(body))
}

// Verify checks signature (hex, case-insensitive) against body.
func (v *WebhookVerifier) Verify(body []byte, signature string) error {
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return ErrInvalidSignature
	}

	provided, err := hex.DecodeString(strings.ToLower(signature))
	if err != nil {
		return ErrInvalidSignature
	}

	if !hmac.Equal(provided, v.digest(body)) {
		return ErrInvalidSignature
	}
	return nil
}

func (v *WebhookVerifier) digest(body []byte) []byte {
	h := hmac.New(sha512.New, v.secret)
	h.Write(body)
	return h.Sum(nil)
}
