package webhooks

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"
)

const testSigningSecret = "whsec_test_secret"

type stubService struct {
	events []stripe.Event
	err    error
}

func (s *stubService) HandleEvent(_ context.Context, event stripe.Event) error {
	s.events = append(s.events, event)
	return s.err
}

type stubGuard struct {
	seen    map[string]bool
	deleted []string
}

func newStubGuard() *stubGuard {
	return &stubGuard{seen: map[string]bool{}}
}

func (g *stubGuard) CheckAndMark(_ context.Context, eventID string) (bool, error) {
	if g.seen[eventID] {
		return true, nil
	}
	g.seen[eventID] = true
	return false, nil
}

func (g *stubGuard) Delete(_ context.Context, eventID string) error {
	delete(g.seen, eventID)
	g.deleted = append(g.deleted, eventID)
	return nil
}

type stubClient struct{}

func (stubClient) SigningSecret() string { return testSigningSecret }

func signPayload(t *testing.T, payload []byte) string {
	t.Helper()

	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(testSigningSecret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func eventPayload(t *testing.T, id string) []byte {
	t.Helper()

	raw, err := json.Marshal(&stripe.PaymentIntent{ID: "pi_123", Amount: 4600})
	require.NoError(t, err)

	payload, err := json.Marshal(&stripe.Event{
		ID:         id,
		Object:     "event",
		Type:       "payment_intent.succeeded",
		APIVersion: stripe.APIVersion,
		Data:       &stripe.EventData{Raw: raw},
	})
	require.NoError(t, err)
	return payload
}

func postWebhook(handler http.HandlerFunc, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", bytes.NewReader(payload))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestStripeWebhookDispatchesVerifiedEvent(t *testing.T) {
	t.Parallel()

	svc := &stubService{}
	guard := newStubGuard()
	handler := StripeWebhook(svc, stubClient{}, guard, nil)

	payload := eventPayload(t, "evt_1")
	rec := postWebhook(handler, payload, signPayload(t, payload))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.events, 1)
	assert.Equal(t, "evt_1", svc.events[0].ID)
}

func TestStripeWebhookRejectsMissingSignature(t *testing.T) {
	t.Parallel()

	svc := &stubService{}
	handler := StripeWebhook(svc, stubClient{}, newStubGuard(), nil)

	rec := postWebhook(handler, eventPayload(t, "evt_2"), "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.events)
}

func TestStripeWebhookRejectsBadSignature(t *testing.T) {
	t.Parallel()

	svc := &stubService{}
	handler := StripeWebhook(svc, stubClient{}, newStubGuard(), nil)

	rec := postWebhook(handler, eventPayload(t, "evt_3"), "t=123,v1=deadbeef")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, svc.events)
}

func TestStripeWebhookDeduplicatesRedelivery(t *testing.T) {
	t.Parallel()

	svc := &stubService{}
	guard := newStubGuard()
	handler := StripeWebhook(svc, stubClient{}, guard, nil)

	payload := eventPayload(t, "evt_4")
	first := postWebhook(handler, payload, signPayload(t, payload))
	second := postWebhook(handler, payload, signPayload(t, payload))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Len(t, svc.events, 1)
}

func TestStripeWebhookReleasesMarkOnFailure(t *testing.T) {
	t.Parallel()

	svc := &stubService{err: context.DeadlineExceeded}
	guard := newStubGuard()
	handler := StripeWebhook(svc, stubClient{}, guard, nil)

	payload := eventPayload(t, "evt_5")
	rec := postWebhook(handler, payload, signPayload(t, payload))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, guard.deleted, "evt_5")

	// The retry is processed because the mark was released.
	retry := postWebhook(handler, payload, signPayload(t, payload))
	assert.Equal(t, http.StatusInternalServerError, retry.Code)
	assert.Len(t, svc.events, 2)
}
