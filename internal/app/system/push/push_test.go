package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestFCMSender_Send(t *testing.T) {
	var got fcmMessage
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewFCMSender(srv.URL, "test-key", zap.NewNop())
	err := s.Send(context.Background(), "device-token-1", Notification{
		Title: "Account Approved",
		Body:  "Your contractor account is approved.",
		Data:  map[string]string{"type": "contractor_approved"},
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if auth != "key=test-key" {
		t.Errorf("authorization: got %q", auth)
	}
	if got.To != "device-token-1" {
		t.Errorf("to: got %q", got.To)
	}
	if got.Notification.Title != "Account Approved" {
		t.Errorf("title: got %q", got.Notification.Title)
	}
	if got.Data["type"] != "contractor_approved" {
		t.Errorf("data.type: got %q", got.Data["type"])
	}
}

func TestFCMSender_Send_EmptyToken(t *testing.T) {
	s := NewFCMSender("http://unused", "key", zap.NewNop())
	if err := s.Send(context.Background(), "", Notification{}); err != ErrNoToken {
		t.Errorf("expected ErrNoToken, got %v", err)
	}
}

func TestFCMSender_Send_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := NewFCMSender(srv.URL, "key", zap.NewNop())
	if err := s.Send(context.Background(), "tok", Notification{}); err == nil {
		t.Error("expected error for non-2xx response")
	}
}
