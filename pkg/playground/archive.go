package playground

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/vibegpt/playground/pkg/logging"
)

// Archive mirrors history sequences to durable storage: one JSON file per
// (variant, character id) pair. Keying on the character id rather than the
// display name keeps two characters with the same name from colliding.
type Archive struct {
	dir string
	log *logrus.Entry
}

// NewArchive creates an archive rooted at dir. The directory is created on
// first save.
func NewArchive(dir string) *Archive {
	return &Archive{
		dir: dir,
		log: logging.NewLogger("archive"),
	}
}

// Save serializes the full ordered sequence for the (variant, character) key.
func (a *Archive) Save(variant Variant, characterID string, msgs []Message) error {
	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}
	data, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := os.WriteFile(a.path(variant, characterID), data, 0644); err != nil {
		return fmt.Errorf("write history file: %w", err)
	}
	return nil
}

// Load reads the persisted sequence for the (variant, character) key. A
// missing or unparseable file yields an empty sequence; a corrupt transcript
// must never keep the playground from starting.
func (a *Archive) Load(variant Variant, characterID string) []Message {
	data, err := os.ReadFile(a.path(variant, characterID))
	if err != nil {
		if !os.IsNotExist(err) {
			a.log.WithError(err).WithField("variant", variant).Warn("Failed to read history file")
		}
		return nil
	}
	var msgs []Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		a.log.WithError(err).WithFields(logrus.Fields{
			"variant":   variant,
			"character": characterID,
		}).Warn("Discarding malformed history file")
		return nil
	}
	return msgs
}

// Purge deletes the persisted sequence for the (variant, character) key.
func (a *Archive) Purge(variant Variant, characterID string) error {
	if err := os.Remove(a.path(variant, characterID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove history file: %w", err)
	}
	return nil
}

// Attach wires the archive to a store so every committed change is mirrored to
// disk: non-empty sequences are saved, a cleared sequence removes its file.
// Persistence failures are logged and swallowed; they never interrupt a
// stream.
func (a *Archive) Attach(s *Store) {
	variant := s.Variant()
	s.Subscribe(func(characterID string) {
		msgs := s.Snapshot(characterID)
		var err error
		if len(msgs) == 0 {
			err = a.Purge(variant, characterID)
		} else {
			err = a.Save(variant, characterID, msgs)
		}
		if err != nil {
			a.log.WithError(err).WithFields(logrus.Fields{
				"variant":   variant,
				"character": characterID,
			}).Warn("Failed to persist history")
		}
	})
}

// Characters lists the character ids that have a persisted sequence for the
// given variant.
func (a *Archive) Characters(variant Variant) []string {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil
	}
	prefix := string(variant) + "_"
	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		base := name[:len(name)-len(".json")]
		if len(base) > len(prefix) && base[:len(prefix)] == prefix {
			ids = append(ids, base[len(prefix):])
		}
	}
	return ids
}

func (a *Archive) path(variant Variant, characterID string) string {
	return filepath.Join(a.dir, fmt.Sprintf("%s_%s.json", variant, characterID))
}
