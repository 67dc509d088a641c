package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/surtidoapp/procurement-backend/pkg/config"
)

func TestSendSolicitation(t *testing.T) {
	var gotAuth string
	var gotMsg SolicitationMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotMsg); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client, err := NewClient(config.RelayConfig{BaseURL: server.URL, Token: "relay-token"}, nil)
	if err != nil {
		t.Fatalf("unexpected client error: %v", err)
	}

	msg := SolicitationMessage{
		SupplierID:  "sup-1",
		Phone:       "+5215550100",
		ProductName: "Harina 20kg",
		Quantity:    12,
		Urgency:     "high",
	}
	if err := client.SendSolicitation(context.Background(), msg); err != nil {
		t.Fatalf("unexpected send error: %v", err)
	}
	if gotAuth != "Bearer relay-token" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotMsg.ProductName != msg.ProductName || gotMsg.Quantity != msg.Quantity {
		t.Fatalf("unexpected relayed message %+v", gotMsg)
	}
}

func TestSendSolicitationServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewClient(config.RelayConfig{BaseURL: server.URL}, nil)
	if err != nil {
		t.Fatalf("unexpected client error: %v", err)
	}
	if err := client.SendSolicitation(context.Background(), SolicitationMessage{}); err == nil {
		t.Fatal("expected error for 5xx relay response")
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient(config.RelayConfig{}, nil); err == nil {
		t.Fatal("expected error without base url")
	}
}
