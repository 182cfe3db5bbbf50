package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/restoledger/internal/domain"
)

type recordedCall struct {
	method   string
	endpoint string
	status   int
}

type recordingObserver struct {
	calls []recordedCall
}

func (o *recordingObserver) ObserveBackendRequest(method, endpoint string, status int, _ time.Duration) {
	o.calls = append(o.calls, recordedCall{method, endpoint, status})
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *recordingObserver) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	obs := &recordingObserver{}
	client, err := NewClient(Config{BaseURL: srv.URL + "/", Timeout: 2 * time.Second, MaxRetries: 2}, zerolog.Nop(), obs)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	client.retrier.initialInterval = time.Millisecond
	client.retrier.maxInterval = 5 * time.Millisecond
	return client, obs
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		forceHTTPS bool
		expected   string
		wantErr    bool
	}{
		{"trims and strips slash", "  https://api.resto.pe/ ", false, "https://api.resto.pe", false},
		{"scheme relative", "//api.resto.pe", false, "https://api.resto.pe", false},
		{"bare host", "api.resto.pe/v1//", false, "https://api.resto.pe/v1", false},
		{"keeps http", "http://localhost:8000", false, "http://localhost:8000", false},
		{"forces https", "http://api.resto.pe", true, "https://api.resto.pe", false},
		{"empty", "   ", false, "", true},
		{"no host", "https://", false, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeBaseURL(tt.raw, tt.forceHTTPS)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Fatalf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestClient_GetRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	client, obs := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[]`))
	}))

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", hits.Load())
	}
	if len(obs.calls) != 3 || obs.calls[0].status != http.StatusBadGateway || obs.calls[2].status != http.StatusOK {
		t.Fatalf("unexpected observed calls: %+v", obs.calls)
	}
}

func TestClient_GetGivesUpAfterMaxRetries(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	err := client.Ping(context.Background())
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
	if hits.Load() != 3 {
		t.Fatalf("expected 1 attempt plus 2 retries, got %d", hits.Load())
	}
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))

	err := client.get(context.Background(), "/menu", nil, nil)
	if !errors.Is(err, errNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusNotFound {
		t.Fatalf("expected StatusError 404, got %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", hits.Load())
	}
}

func TestClient_WritesAreNotRetried(t *testing.T) {
	var hits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	err := client.send(context.Background(), http.MethodPost, "/gastos", map[string]string{"concepto": "x"}, nil)
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", hits.Load())
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := client.Ping(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEndpoint(t *testing.T) {
	tests := map[string]string{
		"/menu":                     "/menu",
		"/menu/12":                  "/menu/{id}",
		"/pedidos/7":                "/pedidos/{id}",
		"/contabilidad/movimientos": "/contabilidad/movimientos",
	}
	for in, want := range tests {
		if got := endpoint(in); got != want {
			t.Errorf("endpoint(%q) = %q, want %q", in, got, want)
		}
	}
}
