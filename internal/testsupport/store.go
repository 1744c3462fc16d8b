package testsupport

import (
	"context"
	"testing"

	"markfind/internal/config"
	"markfind/internal/media"
	"markfind/internal/store"
)

// MustOpenStore opens a store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	db, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

// NewVideo persists a minimal video record for tests and returns it with its
// assigned identity.
func NewVideo(t testing.TB, db *store.Store, path string) media.Video {
	t.Helper()

	video, err := db.SaveVideo(context.Background(), media.Video{
		Source:   media.SourceFile,
		Path:     path,
		Duration: 60,
		Width:    1280,
		Height:   720,
	})
	if err != nil {
		t.Fatalf("store.SaveVideo: %v", err)
	}
	return video
}
