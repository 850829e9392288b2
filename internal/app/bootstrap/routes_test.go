package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/waffle/config"

	"github.com/dissyboard/dissyboard/internal/testutil"
)

// Runs the hook sequence WAFFLE uses at launch (Startup, then BuildHandler)
// and serves real requests through the resulting router. The template engine
// refuses to boot unless the shared set has been registered, so this fails
// fast if Startup ever stops doing that.
func TestBuildHandler_BootsAndServes(t *testing.T) {
	ctx, cancel := testutil.TestContext()
	defer cancel()

	coreCfg := &config.CoreConfig{Env: "test"}
	cfg := validAppConfig(t)
	deps, err := ConnectDB(ctx, coreCfg, cfg, testLogger())
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	if err := Startup(ctx, coreCfg, cfg, deps, testLogger()); err != nil {
		t.Fatalf("Startup: %v", err)
	}

	handler, err := BuildHandler(coreCfg, cfg, deps, testLogger())
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /health status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET / status = %d, want %d", rec.Code, http.StatusOK)
	}
}
