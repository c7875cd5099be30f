package resultstore

import (
	"context"
	"testing"
)

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	type payload struct {
		Findings int `json:"findings"`
	}

	if err := store.Save(ctx, "scan-1", payload{Findings: 3}, 3, 2); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw, err := store.Load(ctx, "scan-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if raw == "" {
		t.Fatal("expected non-empty result")
	}

	summaries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ScanID != "scan-1" || summaries[0].FindingsCount != 3 {
		t.Fatalf("unexpected summaries: %+v", summaries)
	}
}

func TestStore_LoadMissingReturnsEmpty(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	raw, err := store.Load(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if raw != "" {
		t.Fatalf("expected empty result for missing scan, got %q", raw)
	}
}
