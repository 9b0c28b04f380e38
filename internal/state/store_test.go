package state

import "testing"

func red() RGB   { return RGB{R: 255} }
func green() RGB { return RGB{G: 255} }

func TestAddSelectedBoundsAndLastWriteWins(t *testing.T) {
	s := NewPixelStore(100, 100)

	added := s.AddSelected([]Pixel{
		NewPixel(5, 5, red()),
		NewPixel(-1, 5, red()),
		NewPixel(5, 100, red()),
		NewPixel(5, 5, green()), // overwrites the first entry
	})
	if added != 2 {
		t.Fatalf("AddSelected changed %d keys, want 2", added)
	}

	p, ok := s.SelectedAt(5, 5)
	if !ok {
		t.Fatal("pixel (5,5) not selected")
	}
	if p.Color() != green() {
		t.Errorf("selected color = %+v, want green (last write wins)", p.Color())
	}
	if _, _, pending := s.Counts(); pending != 0 {
		t.Errorf("pending count = %d, want 0", pending)
	}
}

func TestToggleSelected(t *testing.T) {
	s := NewPixelStore(10, 10)
	p := NewPixel(3, 4, red())

	if !s.ToggleSelected(p) {
		t.Fatal("first toggle should select the pixel")
	}
	if s.ToggleSelected(p) {
		t.Fatal("second toggle should deselect the pixel")
	}
	if _, ok := s.SelectedAt(3, 4); ok {
		t.Error("pixel still selected after second toggle")
	}
	if s.ToggleSelected(NewPixel(50, 50, red())) {
		t.Error("out-of-bounds toggle must be a no-op")
	}
}

func TestCommitMovesSelectedToPending(t *testing.T) {
	s := NewPixelStore(10, 10)
	s.AddSelected([]Pixel{
		NewPixel(1, 2, red()),
		NewPixel(0, 0, green()),
		NewPixel(2, 2, red()),
	})

	batch := s.Commit()
	if batch == nil {
		t.Fatal("Commit returned nil with a non-empty selection")
	}
	if batch.ID == "" {
		t.Error("commit batch has no ID")
	}
	if len(batch.Pixels) != 3 {
		t.Fatalf("batch has %d pixels, want 3", len(batch.Pixels))
	}

	// Row-major order.
	want := []string{"0,0", "1,2", "2,2"}
	for i, p := range batch.Pixels {
		if p.Key() != want[i] {
			t.Errorf("batch pixel %d = %s, want %s", i, p.Key(), want[i])
		}
	}

	indexed, selected, pending := s.Counts()
	if indexed != 0 || selected != 0 || pending != 3 {
		t.Errorf("counts after commit = (%d,%d,%d), want (0,0,3)", indexed, selected, pending)
	}

	if s.Commit() != nil {
		t.Error("Commit with empty selection should return nil")
	}
}

func TestReconcileRemovesOnlyMatchingColors(t *testing.T) {
	s := NewPixelStore(10, 10)
	s.AddSelected([]Pixel{
		NewPixel(1, 1, red()),
		NewPixel(2, 2, green()),
	})
	s.Commit()

	// Snapshot confirms (1,1) exactly, shows (2,2) with a different color.
	s.ApplySnapshot(map[string]Pixel{
		"1,1": NewPixel(1, 1, red()),
		"2,2": NewPixel(2, 2, red()),
	})

	if _, ok := s.PendingAt(1, 1); ok {
		t.Error("confirmed pixel (1,1) still pending after reconciliation")
	}
	if _, ok := s.PendingAt(2, 2); !ok {
		t.Error("pixel (2,2) with mismatched color must stay pending")
	}

	// A later matching snapshot clears the rest.
	s.ApplySnapshot(map[string]Pixel{
		"2,2": NewPixel(2, 2, green()),
	})
	if _, _, pending := s.Counts(); pending != 0 {
		t.Errorf("pending count = %d, want 0 after full reconciliation", pending)
	}
}

func TestApplySnapshotReplacesWholesale(t *testing.T) {
	s := NewPixelStore(10, 10)
	s.ApplySnapshot(map[string]Pixel{"1,1": NewPixel(1, 1, red())})
	s.ApplySnapshot(map[string]Pixel{
		"2,2":   NewPixel(2, 2, green()),
		"20,20": NewPixel(20, 20, green()), // out of bounds, dropped
	})

	if _, ok := s.IndexedAt(1, 1); ok {
		t.Error("old snapshot entry survived the replace")
	}
	if _, ok := s.IndexedAt(2, 2); !ok {
		t.Error("new snapshot entry missing")
	}
	if _, ok := s.IndexedAt(20, 20); ok {
		t.Error("out-of-bounds snapshot entry was not dropped")
	}

	// Empty snapshots are fine too.
	s.ApplySnapshot(nil)
	if indexed, _, _ := s.Counts(); indexed != 0 {
		t.Errorf("indexed count = %d after empty snapshot, want 0", indexed)
	}
}

func TestRefreshDoesNotTouchSelected(t *testing.T) {
	s := NewPixelStore(10, 10)
	s.AddSelected([]Pixel{NewPixel(4, 4, red())})
	s.ApplySnapshot(map[string]Pixel{"4,4": NewPixel(4, 4, green())})

	p, ok := s.SelectedAt(4, 4)
	if !ok || p.Color() != red() {
		t.Error("refresh must leave the selected layer untouched")
	}
}

func TestMergedPixelsPendingWins(t *testing.T) {
	s := NewPixelStore(10, 10)
	s.ApplySnapshot(map[string]Pixel{"1,1": NewPixel(1, 1, red())})
	s.AddSelected([]Pixel{NewPixel(1, 1, green())})
	s.Commit()

	merged := s.MergedPixels()
	if len(merged) != 1 {
		t.Fatalf("merged has %d pixels, want 1", len(merged))
	}
	if merged[0].Color() != green() {
		t.Error("pending pixel should overlay the indexed one in the merged view")
	}
}
