// Package render turns card images into ANSI art for the terminal.
package render

import (
	"crypto/md5"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"

	"github.com/arcanaland/gatherer/internal/errors"
	"github.com/arcanaland/gatherer/internal/fsx"
)

// Options sizes the art in terminal cells.
type Options struct {
	Width  int
	Height int
	// TrueColor emits 24-bit escapes; otherwise the 256-colour palette is used.
	TrueColor bool
}

// DefaultOptions fit a card next to its details on an 80 column terminal.
var DefaultOptions = Options{Width: 36, Height: 25, TrueColor: true}

// FromImage converts an image to ANSI art. Every cell is an upper half block:
// the top pixel pair is the foreground, the bottom pair the background.
func FromImage(img image.Image, opts Options) string {
	resized := resize.Resize(uint(opts.Width*2), uint(opts.Height*2), img, resize.Lanczos3)

	var buffer strings.Builder
	for y := 0; y < opts.Height*2; y += 2 {
		for x := 0; x < opts.Width*2; x += 2 {
			c1, _ := colorful.MakeColor(getColorAt(resized, x, y))
			c2, _ := colorful.MakeColor(getColorAt(resized, x+1, y))
			c3, _ := colorful.MakeColor(getColorAt(resized, x, y+1))
			c4, _ := colorful.MakeColor(getColorAt(resized, x+1, y+1))

			fg := averageColor(c1, c2)
			bg := averageColor(c3, c4)

			buffer.WriteString(cell('▀', fg, bg, opts.TrueColor))
		}
		buffer.WriteString("\n")
	}
	return buffer.String()
}

// FromFile decodes the image at path and converts it.
func FromFile(path string, opts Options) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", errors.IO("open "+path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return "", errors.Decode("decode image "+path, err)
	}
	return FromImage(img, opts), nil
}

// Cached is FromFile backed by a cache directory. Entries are keyed by the image's
// path, size and modification time, so a re-downloaded image gets fresh art.
func Cached(cacheDir, path string, opts Options) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", errors.IO("stat "+path, err)
	}

	key := fmt.Sprintf("%s|%d|%d|%d|%d|%t", path, info.Size(), info.ModTime().UnixNano(),
		opts.Width, opts.Height, opts.TrueColor)
	name := fmt.Sprintf("%x.ansi", md5.Sum([]byte(key)))

	if data, err := os.ReadFile(filepath.Join(cacheDir, name)); err == nil {
		return string(data), nil
	}

	art, err := FromFile(path, opts)
	if err != nil {
		return "", err
	}

	// A failed cache write only costs a re-render next time.
	_ = fsx.WriteFileAtomicNoOverwrite(cacheDir, name, []byte(art))
	return art, nil
}

// StripANSI removes SGR escape sequences from s.
func StripANSI(s string) string {
	var result strings.Builder
	inEscape := false
	for _, c := range s {
		if inEscape {
			if c == 'm' {
				inEscape = false
			}
		} else if c == '\033' {
			inEscape = true
		} else {
			result.WriteRune(c)
		}
	}
	return result.String()
}

// VisibleWidth returns the number of cells s occupies once escapes are removed.
func VisibleWidth(s string) int {
	return len([]rune(StripANSI(s)))
}

// getColorAt returns the color at a specific coordinate
func getColorAt(img image.Image, x, y int) color.Color {
	bounds := img.Bounds()
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		return img.At(x, y)
	}
	return color.RGBA{0, 0, 0, 255}
}

func averageColor(colors ...colorful.Color) colorful.Color {
	var r, g, b float64
	for _, c := range colors {
		r += c.R
		g += c.G
		b += c.B
	}
	count := float64(len(colors))
	return colorful.Color{R: r / count, G: g / count, B: b / count}
}

func cell(char rune, fg, bg colorful.Color, trueColor bool) string {
	if trueColor {
		r1, g1, b1 := fg.Clamped().RGB255()
		r2, g2, b2 := bg.Clamped().RGB255()
		return fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm%c\x1b[0m",
			r1, g1, b1, r2, g2, b2, char)
	}
	return fmt.Sprintf("\x1b[38;5;%dm\x1b[48;5;%dm%c\x1b[0m", palette256(fg), palette256(bg), char)
}

// palette256 maps c onto the 6x6x6 colour cube of the 256-colour palette.
func palette256(c colorful.Color) int {
	r, g, b := c.Clamped().RGB255()
	q := func(v uint8) int { return (int(v)*5 + 127) / 255 }
	return 16 + 36*q(r) + 6*q(g) + q(b)
}
