package listings_test

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dissyboard/dissyboard/internal/app/store/listings"
	"github.com/dissyboard/dissyboard/internal/domain/models"
	"github.com/dissyboard/dissyboard/internal/testutil"
)

func tempStore(t *testing.T) *listings.Store {
	t.Helper()
	return listings.New(filepath.Join(t.TempDir(), "servers.json"))
}

func TestStore_LoadAll_BootstrapsMissingFile(t *testing.T) {
	store := tempStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	all, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("bootstrap collection: got %d listings, want 0", len(all))
	}

	// The backing file must now exist and hold an empty collection.
	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("backing file not created: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("bootstrap file contents: got %q, want %q", string(data), "[]")
	}
}

func TestStore_LoadAll_BootstrapDoesNotResetExistingData(t *testing.T) {
	store := tempStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	want := []models.Listing{testutil.ApprovedListing("Foo")}
	if err := store.ReplaceAll(ctx, want); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	// A second LoadAll must not re-run the bootstrap over real data.
	for i := 0; i < 2; i++ {
		all, err := store.LoadAll(ctx)
		if err != nil {
			t.Fatalf("LoadAll #%d failed: %v", i+1, err)
		}
		if len(all) != 1 || all[0].ServerName != "Foo" {
			t.Fatalf("LoadAll #%d: got %+v, want the stored listing", i+1, all)
		}
	}
}

func TestStore_LoadAll_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "servers.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	store := listings.New(path)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.LoadAll(ctx)
	if !errors.Is(err, listings.ErrCorrupt) {
		t.Fatalf("LoadAll on corrupt file: got err %v, want ErrCorrupt", err)
	}
}

func TestStore_ReplaceAll_ReplacesWholeCollection(t *testing.T) {
	store := tempStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first := []models.Listing{testutil.PendingListing("One"), testutil.PendingListing("Two")}
	if err := store.ReplaceAll(ctx, first); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	second := []models.Listing{testutil.ApprovedListing("Three")}
	if err := store.ReplaceAll(ctx, second); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	all, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(all) != 1 || all[0].ServerName != "Three" {
		t.Errorf("collection after replace: got %+v, want only %q", all, "Three")
	}
}

func TestStore_Mutate_FailureLeavesFileUntouched(t *testing.T) {
	store := tempStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	seed := []models.Listing{testutil.PendingListing("Keep")}
	if err := store.ReplaceAll(ctx, seed); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	wantErr := errors.New("boom")
	err := store.Mutate(ctx, func(all []models.Listing) ([]models.Listing, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Mutate: got err %v, want %v", err, wantErr)
	}

	all, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(all) != 1 || all[0].ServerName != "Keep" {
		t.Errorf("collection after failed mutate: got %+v, want original", all)
	}
}

func TestStore_Mutate_SerializesConcurrentWriters(t *testing.T) {
	store := tempStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	const writers = 20
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			err := store.Mutate(ctx, func(all []models.Listing) ([]models.Listing, error) {
				return append(all, testutil.PendingListing("srv")), nil
			})
			if err != nil {
				t.Errorf("Mutate failed: %v", err)
			}
		}()
	}
	wg.Wait()

	all, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(all) != writers {
		t.Errorf("serialized writers: got %d listings, want %d (no lost updates)", len(all), writers)
	}
}
