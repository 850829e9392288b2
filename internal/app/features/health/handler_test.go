package health_test

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/dissyboard/dissyboard/internal/app/features/health"
	"github.com/dissyboard/dissyboard/internal/app/store/listings"
	"github.com/dissyboard/dissyboard/internal/testutil"
)

func TestServe_StoreReadable(t *testing.T) {
	store := listings.New(filepath.Join(t.TempDir(), "servers.json"))
	h := health.NewHandler(store, zap.NewNop())

	rec := testutil.NewRecorder()
	h.Serve(rec, testutil.NewRequest("GET", "/health"))

	rec.AssertStatus(t, http.StatusOK)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf(`status = %v, want "ok"`, body["status"])
	}
	if body["store"] != "readable" {
		t.Errorf(`store = %v, want "readable"`, body["store"])
	}
}

func TestServe_CorruptStoreIsUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "servers.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}
	h := health.NewHandler(listings.New(path), zap.NewNop())

	rec := testutil.NewRecorder()
	h.Serve(rec, testutil.NewRequest("GET", "/health"))

	rec.AssertStatus(t, http.StatusServiceUnavailable)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body["status"] != "error" {
		t.Errorf(`status = %v, want "error"`, body["status"])
	}
	if body["store"] != "unreadable" {
		t.Errorf(`store = %v, want "unreadable"`, body["store"])
	}
}

func TestRoutes(t *testing.T) {
	store := listings.New(filepath.Join(t.TempDir(), "servers.json"))
	h := health.NewHandler(store, zap.NewNop())
	if health.Routes(h) == nil {
		t.Fatal("Routes() returned nil")
	}
}
