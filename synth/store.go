package synth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/linekit-go/linekit/catalog"
)

// snapshotFile is the artifact name inside the cache directory.
const snapshotFile = "surface.json"

// Snapshot is the persisted form of a synthesized surface: the
// generation manifest plus the descriptors the table was bound from.
type Snapshot struct {
	Manifest  Manifest             `json:"manifest"`
	Endpoints []catalog.Descriptor `json:"endpoints"`
}

// SnapshotOf captures a table for persistence.
func SnapshotOf(t *Table) *Snapshot {
	snap := &Snapshot{
		Manifest:  t.manifest,
		Endpoints: make([]catalog.Descriptor, 0, len(t.order)),
	}
	for _, name := range t.order {
		snap.Endpoints = append(snap.Endpoints, t.ops[name].desc)
	}

	return snap
}

// FromSnapshot rebinds a method table from a persisted snapshot. The
// descriptors pass through the same catalog validation as a fresh load,
// so a corrupted artifact fails the same way a malformed catalog does.
func FromSnapshot(snap *Snapshot) (*Table, error) {
	cat, err := catalog.New(snap.Manifest.SourceVersion, snap.Endpoints)
	if err != nil {
		return nil, err
	}

	t, err := Synthesize(cat)
	if err != nil {
		return nil, err
	}
	t.manifest = snap.Manifest

	return t, nil
}

// Store persists synthesis snapshots so steady-state startup can skip
// regeneration. The cached artifact is invalidated solely by the
// manifest version check.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on
// first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Load reads the cached snapshot. A missing artifact returns
// os.ErrNotExist via the wrapped error.
func (s *Store) Load() (*Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, snapshotFile))
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	return &snap, nil
}

// Save writes the snapshot atomically: a temp file in the cache
// directory renamed over the artifact, so readers never observe a
// partial write.
func (s *Store) Save(snap *Snapshot) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	file, err := os.CreateTemp(s.dir, ".surface-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(file.Name())
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return fmt.Errorf("flushing snapshot: %w", err)
	}

	if err := os.Rename(file.Name(), filepath.Join(s.dir, snapshotFile)); err != nil {
		os.Remove(file.Name())
		return fmt.Errorf("installing snapshot: %w", err)
	}

	return nil
}
