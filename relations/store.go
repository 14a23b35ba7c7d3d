package relations

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Store persists a dictionary snapshot as an opaque blob.
// Read must return ErrDictionaryMissing (possibly wrapped) when nothing was written.
type Store interface {
	Write(ctx context.Context, snap map[Key][]string) error
	Read(ctx context.Context) (map[Key][]string, error)
	String() string
}

// Save writes d to store. It is called once at the end of training.
func Save(ctx context.Context, d *Dictionary, store Store) error {
	snap := d.Snapshot()
	if err := store.Write(ctx, snap); err != nil {
		return fmt.Errorf("relations: save to %s: %w", store, err)
	}
	log.Info().
		Int("keys", len(snap)).
		Str("store", store.String()).
		Msg("relation dictionary saved")

	return nil
}

// Load reads a frozen dictionary from store. It is called once at the start
// of an inference session; a missing blob yields ErrDictionaryMissing.
func Load(ctx context.Context, store Store) (*Dictionary, error) {
	snap, err := store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("relations: load from %s: %w", store, err)
	}
	log.Info().
		Int("keys", len(snap)).
		Str("store", store.String()).
		Msg("relation dictionary loaded")

	return FromSnapshot(snap), nil
}

// gobEntry is the on-disk record; a slice of these keeps the blob independent of map ordering.
type gobEntry struct {
	Head   string
	Dep    string
	Labels []string
}

// FileStore keeps the dictionary as a gob file at Path.
type FileStore struct {
	Path string
}

var _ Store = FileStore{}

func (s FileStore) String() string { return "file:" + s.Path }

// Write replaces the file atomically (temp file + rename).
func (s FileStore) Write(_ context.Context, snap map[Key][]string) error {
	keys := make([]Key, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sortKeys(keys)
	entries := make([]gobEntry, len(keys))
	for i, k := range keys {
		entries[i] = gobEntry{Head: k.Head, Dep: k.Dep, Labels: snap[k]}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".reldict-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := gob.NewEncoder(tmp).Encode(entries); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.Path)
}

// Read decodes the file written by Write.
func (s FileStore) Read(_ context.Context) (map[Key][]string, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrDictionaryMissing, s.Path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []gobEntry
	if err := gob.NewDecoder(f).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.Path, err)
	}
	snap := make(map[Key][]string, len(entries))
	for _, e := range entries {
		snap[Key{Head: e.Head, Dep: e.Dep}] = e.Labels
	}

	return snap, nil
}
