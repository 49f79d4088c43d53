package disk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/kvolkow/go-image-cache/model"
)

const catalogFile = "metadata.json"

// loadCatalog restores the catalog from the previous run. A missing or
// corrupt catalog starts the tier empty; records whose payload file vanished
// are dropped on the spot so the catalog never references a file that does
// not exist.
func (s *Store) loadCatalog() {
	data, err := os.ReadFile(s.catalogPath())
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err != nil {
		log.Warn().Err(err).Msg("catalog read failed, starting empty")
		return
	}

	catalog := make(map[string]*model.Entry)
	if err := json.Unmarshal(data, &catalog); err != nil {
		log.Warn().Err(err).Msg("catalog decode failed, starting empty")
		return
	}

	var dropped int
	for key, e := range catalog {
		if _, err := os.Stat(s.payloadPath(key)); err != nil {
			dropped++
			continue
		}
		s.catalog[key] = e
		s.mem += e.SizeBytes
	}

	if dropped > 0 {
		log.Warn().Int("dropped", dropped).Msg("catalog records without payload files dropped")
	}
	if len(s.catalog) > 0 {
		log.Info().Int("entries", len(s.catalog)).Int64("bytes", s.mem).Msg("disk catalog restored")
	}
}

// flushCatalogLocked rewrites the catalog wholesale via a temp file and
// rename, so a crash mid-write never leaves a truncated catalog behind.
// Callers hold the write lock.
func (s *Store) flushCatalogLocked() error {
	data, err := json.MarshalIndent(s.catalog, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := writeFileAtomic(s.catalogPath(), data); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

func (s *Store) catalogPath() string { return filepath.Join(s.dir, catalogFile) }

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
