package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWebhookSecret_AcceptsMatchingHeader(t *testing.T) {
	handler := WebhookSecret("top-secret", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/quotes", strings.NewReader(`{}`))
	req.Header.Set("X-Webhook-Secret", "top-secret")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestWebhookSecret_RejectsWrongOrMissingHeader(t *testing.T) {
	handler := WebhookSecret("top-secret", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for unauthorized requests")
	}))

	for _, secret := range []string{"", "wrong", "TOP-SECRET"} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/quotes", strings.NewReader(`{}`))
		if secret != "" {
			req.Header.Set("X-Webhook-Secret", secret)
		}
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("secret %q: expected 401, got %d", secret, rec.Code)
		}
		var payload struct {
			OK    bool   `json:"ok"`
			Error string `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode error: %v", err)
		}
		if payload.OK {
			t.Fatalf("ok should be false on auth failure")
		}
	}
}

func TestWebhookSecret_FailsClosedWithoutConfiguredSecret(t *testing.T) {
	handler := WebhookSecret("", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run when no secret is configured")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/quotes", strings.NewReader(`{}`))
	req.Header.Set("X-Webhook-Secret", "anything")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
