// Package catalog persists the processed card list so later runs can skip the
// expensive download and transform stages.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arcanaland/gatherer/internal/card"
	"github.com/arcanaland/gatherer/internal/errors"
	"github.com/arcanaland/gatherer/internal/fsx"
)

// Save writes cards to path as one JSON document. A file already at path is never
// overwritten: Save then returns nil without touching it.
func Save(cards []card.Card, path string) error {
	exists, err := fsx.Exists(path)
	if err != nil {
		return errors.IO("stat "+path, err)
	}
	if exists {
		return nil
	}

	if cards == nil {
		cards = []card.Card{}
	}
	b, err := json.Marshal(cards)
	if err != nil {
		return errors.Decode("encode processed catalog", err)
	}

	err = fsx.WriteFileAtomicNoOverwrite(filepath.Dir(path), filepath.Base(path), b)
	if err != nil && !errors.Is(err, os.ErrExist) {
		return errors.IO("write "+path, err)
	}
	return nil
}

// Load reads the processed catalog at path.
func Load(path string) ([]card.Card, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("processed catalog "+path, err)
		}
		return nil, errors.IO("read "+path, err)
	}

	var cards []card.Card
	if err := json.Unmarshal(b, &cards); err != nil {
		return nil, errors.Decode("decode "+path, err)
	}
	if cards == nil {
		return nil, errors.Decode("decode "+path, errors.New("expected a JSON array"))
	}
	for i, c := range cards {
		if c.ID == "" || c.ImageURI == "" {
			return nil, errors.Decode(fmt.Sprintf("decode %s: record %d", path, i),
				errors.New("id and image_uri must not be empty"))
		}
	}
	return cards, nil
}
