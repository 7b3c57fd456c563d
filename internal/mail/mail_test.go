package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPMailer_Send(t *testing.T) {
	var got Message
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := New(srv.URL, "test-key", "orders@shop.test")
	err := m.Send(context.Background(), "u@x.com", "Your order", "Thanks!")
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if got.From != "orders@shop.test" || got.To != "u@x.com" || got.Subject != "Your order" {
		t.Errorf("message = %+v", got)
	}
}

func TestHTTPMailer_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid recipient"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	m := New(srv.URL, "k", "orders@shop.test")
	if err := m.Send(context.Background(), "bad", "s", "t"); err == nil {
		t.Fatal("Send should fail on provider error")
	}
}

func TestNew_DisabledWithoutEndpoint(t *testing.T) {
	m := New("", "", "orders@shop.test")
	if err := m.Send(context.Background(), "u@x.com", "s", "t"); err != nil {
		t.Fatalf("disabled mailer should silently succeed, got %v", err)
	}
}
