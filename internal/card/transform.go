package card

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/arcanaland/gatherer/internal/errors"
)

const readBufferSize = 1 << 20

// Transform reads a raw bulk file and returns its cards that carry an image.
func Transform(rawPath string) ([]Card, error) {
	file, err := os.Open(rawPath)
	if err != nil {
		return nil, errors.IO("open "+rawPath, err)
	}
	defer file.Close()

	cards, err := Decode(bufio.NewReaderSize(file, readBufferSize))
	if err != nil {
		return nil, fmt.Errorf("transform %s: %w", rawPath, err)
	}
	return cards, nil
}

// Decode streams a JSON array of raw cards, one element at a time, and keeps the
// ones with an image group. Input order is preserved.
func Decode(r io.Reader) ([]Card, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Decode("read array start", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, errors.Decode(fmt.Sprintf("expected a JSON array, got %v", tok), nil)
	}

	cards := []Card{}
	for i := 0; dec.More(); i++ {
		var raw RawCard
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Decode(fmt.Sprintf("record %d", i), err)
		}
		if c, ok := raw.Canonical(); ok {
			cards = append(cards, c)
		}
	}

	if _, err := dec.Token(); err != nil {
		return nil, errors.Decode("read array end", err)
	}
	if tok, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = fmt.Errorf("unexpected %v", tok)
		}
		return nil, errors.Decode("trailing data after array", err)
	}
	return cards, nil
}
