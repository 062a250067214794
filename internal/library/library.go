// Package library answers lookups against a synchronized mirror.
package library

import (
	"fmt"
	"strings"

	"github.com/arcanaland/gatherer/internal/assets"
	"github.com/arcanaland/gatherer/internal/card"
	"github.com/arcanaland/gatherer/internal/catalog"
	"github.com/arcanaland/gatherer/internal/config"
	"github.com/arcanaland/gatherer/internal/errors"
	"github.com/arcanaland/gatherer/internal/fsx"
)

// Library is the processed catalog of a mirror, indexed for lookup.
type Library struct {
	Path     string
	AssetDir string
	Cards    []card.Card

	byID map[string]int
}

// Load opens the mirror described by p. The processed catalog must exist,
// which means sync has run at least once.
func Load(p config.Paths) (*Library, error) {
	cards, err := catalog.Load(p.ProcessedFile)
	if err != nil {
		return nil, err
	}
	l := New(cards)
	l.Path = p.ProcessedFile
	l.AssetDir = p.AssetDir
	return l, nil
}

// New indexes cards. The first card wins when ids repeat.
func New(cards []card.Card) *Library {
	l := &Library{
		Cards: cards,
		byID:  make(map[string]int, len(cards)),
	}
	for i, c := range cards {
		if _, ok := l.byID[c.ID]; !ok {
			l.byID[c.ID] = i
		}
	}
	return l
}

// Len returns the number of cards.
func (l *Library) Len() int {
	return len(l.Cards)
}

// GetCard gets a card by its id
func (l *Library) GetCard(id string) (*card.Card, error) {
	i, ok := l.byID[id]
	if !ok {
		return nil, errors.NotFound(fmt.Sprintf("card not found: %s", id), nil)
	}
	return &l.Cards[i], nil
}

// Find looks a card up by id, then by exact name ignoring case, then by the first
// name containing query.
func (l *Library) Find(query string) (*card.Card, error) {
	if c, err := l.GetCard(query); err == nil {
		return c, nil
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, errors.NotFound("empty card query", nil)
	}

	for i := range l.Cards {
		if strings.ToLower(l.Cards[i].Name) == q {
			return &l.Cards[i], nil
		}
	}
	for i := range l.Cards {
		if strings.Contains(strings.ToLower(l.Cards[i].Name), q) {
			return &l.Cards[i], nil
		}
	}
	return nil, errors.NotFound(fmt.Sprintf("no card matches %q", query), nil)
}

// ImagePath returns the asset file of c and whether it has been downloaded.
func (l *Library) ImagePath(c *card.Card) (string, bool, error) {
	path := assets.Path(l.AssetDir, c.ID)
	ok, err := fsx.Exists(path)
	if err != nil {
		return path, false, errors.IO("stat "+path, err)
	}
	return path, ok, nil
}
