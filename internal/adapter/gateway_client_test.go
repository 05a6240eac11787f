package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/treasury-reporter/internal/config"
)

func TestGatewayClient_Send(t *testing.T) {
	var got sendMessageRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("path = %q, want /messages", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewGatewayClient(&config.GatewayConfig{
		BaseURL: server.URL,
		Token:   "test-token",
		Timeout: 2 * time.Second,
	})

	if err := client.Send(context.Background(), "chat-1", "hola"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got.ChatID != "chat-1" || got.Text != "hola" {
		t.Errorf("request body = %+v", got)
	}
}

func TestGatewayClient_SendRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewGatewayClient(&config.GatewayConfig{BaseURL: server.URL, Timeout: 2 * time.Second})

	if err := client.Send(context.Background(), "chat-1", "hola"); err == nil {
		t.Fatal("Send() expected error on non-2xx response")
	}
}
