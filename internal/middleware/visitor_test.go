package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type fakeRecorder struct {
	mu  sync.Mutex
	ips []string
}

func (f *fakeRecorder) Record(ip, location string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ips = append(f.ips, ip)
	return nil
}

func (f *fakeRecorder) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ips...)
}

func TestTrackVisitors(t *testing.T) {
	rec := &fakeRecorder{}
	handler := TrackVisitors(rec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:55123"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}

	// Recording happens off the request path; give the goroutine a moment.
	deadline := time.Now().Add(time.Second)
	for {
		if ips := rec.recorded(); len(ips) == 1 {
			if ips[0] != "203.0.113.7" {
				t.Errorf("recorded ip = %q, want 203.0.113.7", ips[0])
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("visitor was never recorded")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestTrackVisitorsPrefersForwardedFor(t *testing.T) {
	rec := &fakeRecorder{}
	handler := TrackVisitors(rec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1000"
	req.Header.Set("X-Forwarded-For", "198.51.100.4, 10.0.0.1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	deadline := time.Now().Add(time.Second)
	for {
		if ips := rec.recorded(); len(ips) == 1 {
			if ips[0] != "198.51.100.4" {
				t.Errorf("recorded ip = %q, want 198.51.100.4", ips[0])
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("visitor was never recorded")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
