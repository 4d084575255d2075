package httpapi

import (
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aqsa08/training-mvp-backend/internal/app"
	idb "github.com/aqsa08/training-mvp-backend/internal/infra/database"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const signatureTolerance = 5 * time.Minute

type BillingHandler struct {
	billingService *app.BillingService
	webhookSecret  string
	logger         *logrus.Logger
}

func NewBillingHandler(bs *app.BillingService, webhookSecret string, logger *logrus.Logger) *BillingHandler {
	return &BillingHandler{billingService: bs, webhookSecret: webhookSecret, logger: logger}
}

// Status handles GET /api/billing/status.
func (h *BillingHandler) Status(c *gin.Context) {
	orgID, ok := orgIDFrom(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"isPaid": false})
		return
	}

	status, err := h.billingService.Status(c.Request.Context(), orgID)
	if err != nil {
		if err == idb.ErrOrganizationNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Org not found"})
			return
		}
		h.logger.Errorf("Failed to load billing status for org %d: %v", orgID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load billing status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"isPaid": status.IsPaid,
		"plan":   nullableString(status.Plan),
	})
}

// webhookEvent is the provider-agnostic slice of a status-change event this
// system cares about.
type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID                string            `json:"id"`
			ClientReferenceID string            `json:"client_reference_id"`
			Customer          string            `json:"customer"`
			Subscription      string            `json:"subscription"`
			Status            string            `json:"status"`
			Metadata          map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// Webhook handles POST /billing/webhook. The raw body is read before any
// JSON parsing because the signature covers the exact bytes.
func (h *BillingHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, "cannot read body")
		return
	}

	if h.webhookSecret != "" {
		sig := c.GetHeader("Stripe-Signature")
		if sig == "" {
			c.String(http.StatusBadRequest, "Missing stripe-signature header")
			return
		}
		if err := verifyWebhookSignature(payload, sig, h.webhookSecret, time.Now()); err != nil {
			c.String(http.StatusBadRequest, "Webhook Error: %s", err.Error())
			return
		}
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		c.String(http.StatusBadRequest, "Webhook Error: invalid JSON")
		return
	}

	ctx := c.Request.Context()
	obj := event.Data.Object

	switch event.Type {
	case "checkout.session.completed":
		orgIDStr := obj.ClientReferenceID
		if orgIDStr == "" {
			orgIDStr = obj.Metadata["organization_id"]
		}
		if orgIDStr == "" {
			break // nothing to correlate the event to
		}
		orgID, err := strconv.ParseInt(orgIDStr, 10, 64)
		if err != nil {
			c.String(http.StatusBadRequest, "Webhook Error: bad organization reference")
			return
		}

		var plan, customerID, subscriptionID sql.NullString
		if p := obj.Metadata["plan"]; p != "" {
			plan = sql.NullString{String: p, Valid: true}
		}
		if obj.Customer != "" {
			customerID = sql.NullString{String: obj.Customer, Valid: true}
		}
		if obj.Subscription != "" {
			subscriptionID = sql.NullString{String: obj.Subscription, Valid: true}
		}

		if err := h.billingService.ApplyCheckoutCompleted(ctx, orgID, plan, customerID, subscriptionID); err != nil {
			h.logger.Errorf("Billing webhook handler failed: %v", err)
			c.String(http.StatusInternalServerError, "Webhook handler failed")
			return
		}

	case "customer.subscription.updated", "customer.subscription.deleted":
		if err := h.billingService.ApplySubscriptionStatus(ctx, obj.ID, obj.Status); err != nil {
			h.logger.Errorf("Billing webhook handler failed: %v", err)
			c.String(http.StatusInternalServerError, "Webhook handler failed")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// verifyWebhookSignature checks a "t=<unix>,v1=<hex>" header: HMAC-SHA256
// over "<t>.<payload>" with the endpoint secret, constant-time compare, and
// a freshness window against replays.
func verifyWebhookSignature(payload []byte, header, secret string, now time.Time) error {
	var timestamp string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return fmt.Errorf("malformed signature header")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("malformed signature timestamp")
	}
	age := now.Sub(time.Unix(ts, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return fmt.Errorf("signature timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, sig := range signatures {
		got, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(expected, got) {
			return nil
		}
	}
	return fmt.Errorf("no matching signature")
}
