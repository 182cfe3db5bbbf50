package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/iho/restoledger/internal/infrastructure/config"
)

func newFakeBackend(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/menu":
			w.Write([]byte(`[{"id":1,"nombre":"Ceviche","precio":"25.00","categoria":"ENTRADAS"}]`))
		case "/pedidos", "/pedidos_historial":
			w.Write([]byte(`[{"id":10,"mesa_id":2,"estado":"entregado","fecha_hora":"2024-03-10T13:00:00","items":[{"plato_id":1,"cantidad":2}]}]`))
		case "/gastos", "/contabilidad/movimientos":
			w.Write([]byte(`[]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(backendURL string) *config.Config {
	return &config.Config{
		BackendURL:        backendURL,
		BackendTimeout:    2 * time.Second,
		BackendMaxRetries: 0,
		CacheTTL:          time.Minute,
		IdempotencyTTL:    time.Hour,
		Timezone:          "UTC",
		SessionTTL:        time.Hour,
		LoginRate:         1,
		LoginBurst:        5,
	}
}

func TestNewApp_ServesWithoutRedis(t *testing.T) {
	backendSrv := newFakeBackend(t)

	a, err := newApp(context.Background(), testConfig(backendSrv.URL), zerolog.Nop(), prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer a.Close()

	for _, path := range []string{"/health", "/ready", "/api/v1/menu", "/api/v1/ledger", "/api/v1/kds/board", "/metrics"} {
		rec := httptest.NewRecorder()
		a.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", path, rec.Code, rec.Body.String())
		}
	}
}

func TestNewApp_WithRedisAndAuth(t *testing.T) {
	backendSrv := newFakeBackend(t)
	mr := miniredis.RunT(t)

	cfg := testConfig(backendSrv.URL)
	cfg.RedisURL = "redis://" + mr.Addr()
	cfg.AuthEnabled = true
	cfg.SessionSecret = "secret"

	a, err := newApp(context.Background(), cfg, zerolog.Nop(), prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer a.Close()

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"redis":"ok"`) {
		t.Fatalf("expected redis in readiness, got %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	a.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/menu", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected guarded API, got %d", rec.Code)
	}
}

func TestNewApp_RejectsBadBackendURL(t *testing.T) {
	cfg := testConfig("http://")
	if _, err := newApp(context.Background(), cfg, zerolog.Nop(), prometheus.NewRegistry()); err == nil {
		t.Fatalf("expected error for a backend URL without host")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	backendSrv := newFakeBackend(t)
	cfg := testConfig(backendSrv.URL)
	cfg.HTTPPort = "0"
	cfg.HTTPShutdownTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, zerolog.Nop()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not return after cancel")
	}
}
