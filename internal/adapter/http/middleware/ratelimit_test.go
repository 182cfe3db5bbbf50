package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type countingObserver struct {
	routes []string
}

func (o *countingObserver) ObserveRateLimited(route string) {
	o.routes = append(o.routes, route)
}

func TestRateLimiter_PerIP(t *testing.T) {
	obs := &countingObserver{}
	rl := NewRateLimiter(0.001, 2, obs)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/session/login", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := 0; i < 2; i++ {
		if code := send("10.0.0.1:1234"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, code)
		}
	}
	if code := send("10.0.0.1:5678"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once burst is spent, got %d", code)
	}
	if code := send("10.0.0.2:1234"); code != http.StatusOK {
		t.Fatalf("expected other client to pass, got %d", code)
	}
	if len(obs.routes) != 1 || obs.routes[0] != "/api/v1/session/login" {
		t.Fatalf("expected one observed rejection, got %v", obs.routes)
	}
}

func TestRateLimiter_Cleanup(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1, nil)
	rl.now = func() time.Time { return now }

	rl.getLimiter("a")
	now = now.Add(30 * time.Minute)
	rl.getLimiter("b")
	now = now.Add(40 * time.Minute)

	if removed := rl.Cleanup(time.Hour); removed != 1 {
		t.Fatalf("expected 1 idle visitor removed, got %d", removed)
	}
	if _, ok := rl.visitors["b"]; !ok {
		t.Fatalf("expected recent visitor to be kept")
	}
}
