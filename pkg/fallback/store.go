// Package fallback keeps JSON snapshots of the public collections on disk and
// serves reads from them when the database cannot.
package fallback

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
)

const (
	CollectionChapters   = "chapters"
	CollectionCharacters = "characters"
	CollectionLocations  = "locations"
	CollectionCodex      = "codex"
	CollectionBlog       = "blog"
)

// ErrNoSnapshot is returned when a collection has never been exported.
var ErrNoSnapshot = errors.New("no snapshot for collection")

// Store reads and writes one JSON file per collection under dir. Snapshots
// are written wholesale and never merged with database writes, so the two
// may drift apart until the next export.
type Store struct {
	dir string
	mu  sync.RWMutex
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

// Load decodes the snapshot of collection into dst.
func (s *Store) Load(collection string, dst interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(collection))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNoSnapshot
		}
		return errors.WithStack(err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return errors.Wrapf(err, "failed to decode %s snapshot", collection)
	}
	return nil
}

// Save replaces the snapshot of collection with v. The file is written to a
// temporary name and renamed so readers never see a partial file.
func (s *Store) Save(collection string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return errors.WithStack(err)
	}
	tmp, err := os.CreateTemp(s.dir, collection+".*.tmp")
	if err != nil {
		return errors.WithStack(err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.WithStack(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.WithStack(err)
	}
	if err := os.Rename(tmpName, s.path(collection)); err != nil {
		os.Remove(tmpName)
		return errors.WithStack(err)
	}
	return nil
}

// LoadList is a typed helper around Load for list snapshots.
func LoadList[T any](s *Store, collection string) ([]*T, error) {
	var items []*T
	if err := s.Load(collection, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Exporter writes the current database contents of one collection to the
// store.
type Exporter interface {
	ExportSnapshot(ctx context.Context, store *Store) error
}

// ExportAll runs every exporter and keeps going past failures so that one
// broken collection doesn't leave the others stale.
func ExportAll(ctx context.Context, store *Store, exporters ...Exporter) error {
	log := logger.FromContext(ctx)
	var firstErr error
	for _, exp := range exporters {
		if err := exp.ExportSnapshot(ctx, store); err != nil {
			log.Err(err).Error("snapshot export failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
