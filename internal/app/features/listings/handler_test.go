package listings_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	uierrors "github.com/dissyboard/dissyboard/internal/app/features/errors"
	feature "github.com/dissyboard/dissyboard/internal/app/features/listings"
	"github.com/dissyboard/dissyboard/internal/app/moderation"
	"github.com/dissyboard/dissyboard/internal/app/store/listings"
	"github.com/dissyboard/dissyboard/internal/app/store/uploads"
	"github.com/dissyboard/dissyboard/internal/domain/models"
	"github.com/dissyboard/dissyboard/internal/testutil"
)

func newTestHandler(t *testing.T) (*feature.Handler, *listings.Store) {
	t.Helper()
	logger := zap.NewNop()
	dir := t.TempDir()
	store := listings.New(filepath.Join(dir, "servers.json"))
	engine := moderation.New(store, logger)
	uploadStore := uploads.New(filepath.Join(dir, "uploads"), "/files/servers")
	h := feature.NewHandler(engine, uploadStore, uierrors.NewErrorLogger(logger), testutil.AdminID, logger)
	return h, store
}

func seedListings(t *testing.T, store *listings.Store, items ...models.Listing) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := store.ReplaceAll(ctx, items); err != nil {
		t.Fatalf("seeding store: %v", err)
	}
}

func decodeListings(t *testing.T, rec *testutil.ResponseRecorder) []models.Listing {
	t.Helper()
	var got []models.Listing
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return got
}

func TestServeAPI_AnonymousSeesOnlyApproved(t *testing.T) {
	h, store := newTestHandler(t)
	seedListings(t, store,
		testutil.ApprovedListing("Alpha"),
		testutil.PendingListing("Bravo"),
		testutil.ApprovedListing("Charlie"),
	)

	rec := testutil.NewRecorder()
	h.ServeAPI(rec, testutil.NewRequest("GET", "/api/servers"))

	rec.AssertStatus(t, http.StatusOK)
	got := decodeListings(t, rec)
	if len(got) != 2 {
		t.Fatalf("got %d listings, want 2", len(got))
	}
	if got[0].ServerName != "Alpha" || got[1].ServerName != "Charlie" {
		t.Errorf("got %q, %q; want Alpha, Charlie", got[0].ServerName, got[1].ServerName)
	}
}

func TestServeAPI_SignedInNonAdminSeesOnlyApproved(t *testing.T) {
	h, store := newTestHandler(t)
	seedListings(t, store,
		testutil.ApprovedListing("Alpha"),
		testutil.PendingListing("Bravo"),
	)

	rec := testutil.NewRecorder()
	h.ServeAPI(rec, testutil.NewAuthenticatedRequest("GET", "/api/servers", testutil.MemberUser()))

	rec.AssertStatus(t, http.StatusOK)
	got := decodeListings(t, rec)
	if len(got) != 1 {
		t.Fatalf("got %d listings, want 1", len(got))
	}
}

func TestServeAPI_AdminSeesEverything(t *testing.T) {
	h, store := newTestHandler(t)
	seedListings(t, store,
		testutil.ApprovedListing("Alpha"),
		testutil.PendingListing("Bravo"),
	)

	rec := testutil.NewRecorder()
	h.ServeAPI(rec, testutil.NewAuthenticatedRequest("GET", "/api/servers", testutil.AdminUser()))

	rec.AssertStatus(t, http.StatusOK)
	got := decodeListings(t, rec)
	if len(got) != 2 {
		t.Fatalf("got %d listings, want 2", len(got))
	}
}

func TestServeAPI_EmptyStoreReturnsEmptyArray(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := testutil.NewRecorder()
	h.ServeAPI(rec, testutil.NewRequest("GET", "/api/servers"))

	rec.AssertStatus(t, http.StatusOK)
	if got := decodeListings(t, rec); len(got) != 0 {
		t.Errorf("got %d listings, want 0", len(got))
	}
}

func submitForm(t *testing.T, fields map[string]string) (string, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("writing form field %q: %v", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing form writer: %v", err)
	}
	return mw.FormDataContentType(), &buf
}

func TestHandleSubmit_CreatesPendingListing(t *testing.T) {
	h, store := newTestHandler(t)

	contentType, body := submitForm(t, map[string]string{
		"serverName":  "My Server",
		"inviteLink":  "https://discord.gg/myserver",
		"description": "A cozy place.",
	})
	req := testutil.NewRequestWithBody("POST", "/submit-server", contentType, body)
	req = testutil.WithUser(req, testutil.MemberUser())

	rec := testutil.NewRecorder()
	h.HandleSubmit(rec, req)

	rec.AssertRedirect(t, "/")

	ctx, cancel := testutil.TestContext()
	defer cancel()
	all, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("got %d listings, want 1", len(all))
	}
	if all[0].Status != models.StatusPending {
		t.Errorf("status = %q, want %q", all[0].Status, models.StatusPending)
	}
	if all[0].ServerName != "My Server" {
		t.Errorf("serverName = %q, want %q", all[0].ServerName, "My Server")
	}
	if all[0].ImageURL != "" {
		t.Errorf("imageUrl = %q, want empty for submission without image", all[0].ImageURL)
	}
}

func TestHandleSubmit_SanitizesDescription(t *testing.T) {
	h, store := newTestHandler(t)

	contentType, body := submitForm(t, map[string]string{
		"serverName":  "Evil",
		"inviteLink":  "https://discord.gg/evil",
		"description": `hi<script>alert("x")</script>`,
	})
	req := testutil.NewRequestWithBody("POST", "/submit-server", contentType, body)
	req = testutil.WithUser(req, testutil.MemberUser())

	rec := testutil.NewRecorder()
	h.HandleSubmit(rec, req)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	all, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("got %d listings, want 1", len(all))
	}
	if all[0].Description != "hi" {
		t.Errorf("description = %q, want script stripped", all[0].Description)
	}
}

func TestHandleSubmit_WithImageStoresImageURL(t *testing.T) {
	h, store := newTestHandler(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("serverName", "Pics")
	_ = mw.WriteField("inviteLink", "https://discord.gg/pics")
	_ = mw.WriteField("description", "Images welcome.")
	fw, err := mw.CreateFormFile("image", "banner.png")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write([]byte("png-bytes")); err != nil {
		t.Fatalf("writing image part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing form writer: %v", err)
	}

	req := testutil.NewRequestWithBody("POST", "/submit-server", mw.FormDataContentType(), &buf)
	req = testutil.WithUser(req, testutil.MemberUser())

	rec := testutil.NewRecorder()
	h.HandleSubmit(rec, req)

	rec.AssertRedirect(t, "/")

	ctx, cancel := testutil.TestContext()
	defer cancel()
	all, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("got %d listings, want 1", len(all))
	}
	if all[0].ImageURL == "" {
		t.Error("imageUrl empty, want stored upload URL")
	}
}

func TestHandleSubmit_Anonymous(t *testing.T) {
	h, store := newTestHandler(t)

	contentType, body := submitForm(t, map[string]string{
		"serverName": "Sneaky",
		"inviteLink": "https://discord.gg/sneaky",
	})
	req := testutil.NewRequestWithBody("POST", "/submit-server", contentType, body)

	rec := testutil.NewRecorder()
	// The unauthorized page render may panic without initialized templates,
	// but the status header is written first.
	func() {
		defer func() { _ = recover() }()
		h.HandleSubmit(rec, req)
	}()

	rec.AssertStatus(t, http.StatusUnauthorized)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	all, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("got %d listings, want 0 for anonymous submission", len(all))
	}
}
