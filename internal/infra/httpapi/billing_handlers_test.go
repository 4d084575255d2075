package httpapi

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func signPayload(secret string, ts int64, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	secret := "whsec_test"
	payload := []byte(`{"type":"checkout.session.completed"}`)
	now := time.Unix(1700000000, 0)

	valid := fmt.Sprintf("t=%d,v1=%s", now.Unix(), signPayload(secret, now.Unix(), payload))
	assert.NoError(t, verifyWebhookSignature(payload, valid, secret, now))

	t.Run("rejects tampered payload", func(t *testing.T) {
		err := verifyWebhookSignature([]byte(`{"type":"other"}`), valid, secret, now)
		assert.Error(t, err)
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		err := verifyWebhookSignature(payload, valid, "whsec_other", now)
		assert.Error(t, err)
	})

	t.Run("rejects stale timestamp", func(t *testing.T) {
		old := now.Add(-6 * time.Minute).Unix()
		header := fmt.Sprintf("t=%d,v1=%s", old, signPayload(secret, old, payload))
		err := verifyWebhookSignature(payload, header, secret, now)
		assert.Error(t, err)
	})

	t.Run("accepts within tolerance", func(t *testing.T) {
		recent := now.Add(-4 * time.Minute).Unix()
		header := fmt.Sprintf("t=%d,v1=%s", recent, signPayload(secret, recent, payload))
		assert.NoError(t, verifyWebhookSignature(payload, header, secret, now))
	})

	t.Run("accepts second v1 entry", func(t *testing.T) {
		header := fmt.Sprintf("t=%d,v1=deadbeef,v1=%s", now.Unix(), signPayload(secret, now.Unix(), payload))
		assert.NoError(t, verifyWebhookSignature(payload, header, secret, now))
	})

	t.Run("rejects malformed header", func(t *testing.T) {
		assert.Error(t, verifyWebhookSignature(payload, "v1=abc", secret, now))
		assert.Error(t, verifyWebhookSignature(payload, "t=notanumber,v1=abc", secret, now))
		assert.Error(t, verifyWebhookSignature(payload, "", secret, now))
	})
}
