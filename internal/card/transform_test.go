package card

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/gatherer/internal/errors"
)

func TestDecode_DropsCardsWithoutImages(t *testing.T) {
	raw := `[
		{"id":"a","name":"Delver of Secrets // Insectile Aberration","image_uris":null},
		{"id":"b","name":"Lightning Bolt","layout":"normal","image_uris":{"small":"s1","normal":"u1"}},
		{"id":"c","name":"Counterspell","image_uris":{"normal":"u2","png":"p2"}},
		{"id":"d","name":"Treasure"}
	]`

	cards, err := Decode(strings.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, []Card{
		{ID: "b", Name: "Lightning Bolt", ImageURI: "u1"},
		{ID: "c", Name: "Counterspell", ImageURI: "u2"},
	}, cards)
}

func TestDecode_EmptyArray(t *testing.T) {
	cards, err := Decode(strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestDecode_TrailingWhitespace(t *testing.T) {
	cards, err := Decode(strings.NewReader("[]\n\t \n"))
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"object instead of array", `{"id":"a"}`},
		{"truncated array", `[{"id":"a","image_uris":{"normal":"u"}},`},
		{"wrong element type", `[1, 2]`},
		{"empty input", ``},
		{"field of wrong type", `[{"id":"a","image_uris":"u"}]`},
		{"value after array", `[{"id":"b","name":"x","image_uris":{"normal":"u"}}] {"id":"junk"} garbage`},
		{"garbage after array", `[] garbage`},
		{"second array", `[][]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrDecode), "got %v", err)
		})
	}
}

func TestTransform(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bulk-data.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"x","name":"Island","image_uris":{"normal":"n"}}]`), 0o644))

	cards, err := Transform(path)
	require.NoError(t, err)
	assert.Equal(t, []Card{{ID: "x", Name: "Island", ImageURI: "n"}}, cards)
}

func TestTransform_MissingFile(t *testing.T) {
	_, err := Transform(filepath.Join(t.TempDir(), "nope.json"))
	assert.True(t, errors.Is(err, errors.ErrIO))
}

func TestRawCard_Canonical(t *testing.T) {
	_, ok := RawCard{ID: "a", ImageURIs: &ImageURIs{}}.Canonical()
	assert.False(t, ok, "an empty normal uri must not produce a card")

	c, ok := RawCard{ID: "a", Name: "n", ImageURIs: &ImageURIs{Normal: "u"}}.Canonical()
	assert.True(t, ok)
	assert.Equal(t, Card{ID: "a", Name: "n", ImageURI: "u"}, c)
}
