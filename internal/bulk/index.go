// Package bulk finds a bulk dataset upstream and mirrors its payload on disk.
//
// Bulk data API: https://scryfall.com/docs/api/bulk-data
package bulk

import (
	"context"
	"fmt"

	"github.com/arcanaland/gatherer/internal/errors"
	"github.com/arcanaland/gatherer/internal/scryfall"
)

// Bulk dataset types offered upstream.
const (
	UniqueArtwork = "unique_artwork"
	DefaultCards  = "default_cards"
	OracleCards   = "oracle_cards"
	AllCards      = "all_cards"
	Rulings       = "rulings"
)

// Descriptor describes one bulk dataset.
type Descriptor struct {
	Object          string `json:"object,omitempty"`
	ID              string `json:"id,omitempty"`
	Type            string `json:"type"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	DownloadURI     string `json:"download_uri"`
	UpdatedAt       string `json:"updated_at,omitempty"`
	Size            int64  `json:"size,omitempty"`
	ContentType     string `json:"content_type,omitempty"`
	ContentEncoding string `json:"content_encoding,omitempty"`
}

// Index is the list returned by the bulk-data endpoint, in source order.
type Index struct {
	Object  string       `json:"object"`
	HasMore bool         `json:"has_more"`
	Data    []Descriptor `json:"data"`
}

// FetchIndex downloads the bulk dataset list.
func FetchIndex(ctx context.Context, t scryfall.Transport, url string) (*Index, error) {
	var idx Index
	if err := t.FetchJSON(ctx, url, &idx); err != nil {
		return nil, err
	}
	return &idx, nil
}

// Resolve returns the first descriptor whose type equals key.
// Types are not guaranteed unique upstream, so source order breaks ties.
func (idx *Index) Resolve(key string) (Descriptor, error) {
	for _, d := range idx.Data {
		if d.Type == key {
			return d, nil
		}
	}
	return Descriptor{}, errors.NotFound(fmt.Sprintf("bulk dataset %q not offered upstream", key), nil)
}
