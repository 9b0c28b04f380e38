package state

import (
	"log"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// CommitBatch is the set of selected pixels handed to the submit collaborator
// when the user commits. The ID ties a later acknowledgement back to the batch.
type CommitBatch struct {
	ID     string  `json:"id"`
	Pixels []Pixel `json:"pixels"`
}

// PixelStore holds the three pixel layers of one board:
//
//   - indexed:  the authoritative snapshot, replaced wholesale on every refresh
//   - selected: local uncommitted edits
//   - pending:  committed edits waiting to show up in an indexed snapshot
//
// A refresh never touches selected or pending; the only way a pending pixel
// leaves is a later snapshot containing the same coordinate with the same
// color.
type PixelStore struct {
	width  int
	height int

	mu       sync.RWMutex
	indexed  map[string]Pixel
	selected map[string]Pixel
	pending  map[string]Pixel
}

// NewPixelStore creates an empty store for a width x height board.
func NewPixelStore(width, height int) *PixelStore {
	return &PixelStore{
		width:    width,
		height:   height,
		indexed:  make(map[string]Pixel),
		selected: make(map[string]Pixel),
		pending:  make(map[string]Pixel),
	}
}

// InBounds reports whether (x, y) lies on the board.
func (s *PixelStore) InBounds(x, y int) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

// Size returns the board dimensions.
func (s *PixelStore) Size() (int, int) {
	return s.width, s.height
}

// ApplySnapshot replaces the indexed layer with a fresh snapshot and
// reconciles pending pixels against it. Out-of-bounds entries in the snapshot
// are dropped. Selected pixels are never touched.
func (s *PixelStore) ApplySnapshot(pixels map[string]Pixel) {
	s.mu.Lock()
	defer s.mu.Unlock()

	indexed := make(map[string]Pixel, len(pixels))
	for _, p := range pixels {
		if !s.InBounds(p.X, p.Y) {
			continue
		}
		indexed[p.Key()] = p
	}
	s.indexed = indexed

	confirmed := 0
	for k, p := range s.pending {
		ip, ok := s.indexed[k]
		if ok && SameColor(ip, p) {
			delete(s.pending, k)
			confirmed++
		}
	}
	if confirmed > 0 {
		log.Printf("[STORE] Snapshot confirmed %d pending pixel(s), %d still pending", confirmed, len(s.pending))
	}
}

// AddSelected merges pixels into the selected layer, last write wins per
// coordinate. Out-of-bounds pixels are dropped. Returns how many keys changed.
func (s *PixelStore) AddSelected(pixels []Pixel) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for _, p := range pixels {
		if !s.InBounds(p.X, p.Y) {
			continue
		}
		k := p.Key()
		if old, ok := s.selected[k]; ok && SameColor(old, p) {
			continue
		}
		s.selected[k] = p
		changed++
	}
	return changed
}

// RemoveSelected deletes the given coordinates from the selected layer.
// Returns how many keys were actually present.
func (s *PixelStore) RemoveSelected(pixels []Pixel) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, p := range pixels {
		k := p.Key()
		if _, ok := s.selected[k]; ok {
			delete(s.selected, k)
			removed++
		}
	}
	return removed
}

// ToggleSelected adds the pixel to the selected layer, or removes the
// coordinate if it is already selected. Returns true if the pixel is selected
// afterwards.
func (s *PixelStore) ToggleSelected(p Pixel) bool {
	if !s.InBounds(p.X, p.Y) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	k := p.Key()
	if _, ok := s.selected[k]; ok {
		delete(s.selected, k)
		return false
	}
	s.selected[k] = p
	return true
}

// ClearSelected drops all uncommitted edits.
func (s *PixelStore) ClearSelected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]Pixel)
}

// Commit moves the current selected layer into pending and returns the moved
// set as a batch, sorted row-major for a stable wire order. A nil batch means
// there was nothing to commit.
func (s *PixelStore) Commit() *CommitBatch {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.selected) == 0 {
		return nil
	}

	batch := &CommitBatch{
		ID:     uuid.NewString(),
		Pixels: make([]Pixel, 0, len(s.selected)),
	}
	for k, p := range s.selected {
		batch.Pixels = append(batch.Pixels, p)
		s.pending[k] = p
	}
	s.selected = make(map[string]Pixel)

	sort.Slice(batch.Pixels, func(i, j int) bool {
		a, b := batch.Pixels[i], batch.Pixels[j]
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})

	log.Printf("[STORE] Committed batch %s with %d pixel(s)", batch.ID, len(batch.Pixels))
	return batch
}

// IndexedAt looks up a pixel in the authoritative layer.
func (s *PixelStore) IndexedAt(x, y int) (Pixel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.indexed[Key(x, y)]
	return p, ok
}

// SelectedAt looks up a pixel in the selected layer.
func (s *PixelStore) SelectedAt(x, y int) (Pixel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.selected[Key(x, y)]
	return p, ok
}

// PendingAt looks up a pixel in the pending layer.
func (s *PixelStore) PendingAt(x, y int) (Pixel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pending[Key(x, y)]
	return p, ok
}

// ForEachIndexed calls fn for every indexed pixel while holding the read lock.
// fn must not call back into the store.
func (s *PixelStore) ForEachIndexed(fn func(Pixel)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.indexed {
		fn(p)
	}
}

// ForEachSelected calls fn for every selected pixel while holding the read lock.
func (s *PixelStore) ForEachSelected(fn func(Pixel)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.selected {
		fn(p)
	}
}

// ForEachPending calls fn for every pending pixel while holding the read lock.
func (s *PixelStore) ForEachPending(fn func(Pixel)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.pending {
		fn(p)
	}
}

// Counts returns the sizes of the indexed, selected and pending layers.
func (s *PixelStore) Counts() (indexed, selected, pending int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.indexed), len(s.selected), len(s.pending)
}

// SelectedPixels returns a copy of the selected layer as a slice.
func (s *PixelStore) SelectedPixels() []Pixel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Pixel, 0, len(s.selected))
	for _, p := range s.selected {
		out = append(out, p)
	}
	return out
}

// MergedPixels returns indexed pixels overlaid with pending ones, for export.
func (s *PixelStore) MergedPixels() []Pixel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	merged := make(map[string]Pixel, len(s.indexed)+len(s.pending))
	for k, p := range s.indexed {
		merged[k] = p
	}
	for k, p := range s.pending {
		merged[k] = p
	}
	out := make([]Pixel, 0, len(merged))
	for _, p := range merged {
		out = append(out, p)
	}
	return out
}
