// Package roi manages the rectangular search regions text recognition runs
// over.
package roi

import (
	"fmt"
	"image"
	"sync"

	"markfind/internal/services"
)

// ROI is a rectangular pixel region within a frame designated for text
// recognition.
type ROI struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Validate checks the region's coordinates and dimensions.
func (r ROI) Validate() error {
	if r.X < 0 || r.Y < 0 {
		return services.Wrap(services.ErrValidation, "roi", "validate", "x and y must be non-negative", nil)
	}
	if r.Width <= 0 || r.Height <= 0 {
		return services.Wrap(services.ErrValidation, "roi", "validate", "width and height must be positive", nil)
	}
	return nil
}

// Bounds returns the region as an image rectangle.
func (r ROI) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

func (r ROI) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

// Store owns the ordered list of regions used during recognition.
type Store struct {
	mu      sync.Mutex
	regions []ROI
}

// NewStore builds a store seeded with the provided regions. Invalid seeds are
// rejected the same way Add rejects them.
func NewStore(initial ...ROI) (*Store, error) {
	store := &Store{}
	for _, region := range initial {
		if err := store.Add(region); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// Add appends a region after validation.
func (s *Store) Add(region ROI) error {
	if err := region.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regions = append(s.regions, region)
	return nil
}

// Remove deletes the region at index, failing when the index is out of range.
func (s *Store) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.regions) {
		return services.Wrap(services.ErrValidation, "roi", "remove", fmt.Sprintf("index %d out of range", index), nil)
	}
	s.regions = append(s.regions[:index], s.regions[index+1:]...)
	return nil
}

// List returns an independent copy of the current regions in insertion order.
func (s *Store) List() []ROI {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ROI(nil), s.regions...)
}
