package card

// Card is the compact form of one catalog entry kept by the mirror.
// ImageURI is never empty.
type Card struct {
	ID       string `json:"id"`        // Scryfall id, also the asset file name
	Name     string `json:"name"`      // Printed name
	ImageURI string `json:"image_uri"` // "normal" image of the card
}

// RawCard is a bulk record as delivered upstream, reduced to the fields we read.
// Card objects: https://scryfall.com/docs/api/cards
type RawCard struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	ImageURIs *ImageURIs `json:"image_uris"`
}

// ImageURIs is the image group of a card; absent on multi-faced cards and some tokens.
type ImageURIs struct {
	Small      string `json:"small,omitempty"`
	Normal     string `json:"normal"`
	Large      string `json:"large,omitempty"`
	PNG        string `json:"png,omitempty"`
	ArtCrop    string `json:"art_crop,omitempty"`
	BorderCrop string `json:"border_crop,omitempty"`
}

// Canonical projects r into a Card. ok is false when r has no usable image.
func (r RawCard) Canonical() (Card, bool) {
	if r.ImageURIs == nil || r.ImageURIs.Normal == "" {
		return Card{}, false
	}
	return Card{
		ID:       r.ID,
		Name:     r.Name,
		ImageURI: r.ImageURIs.Normal,
	}, true
}
