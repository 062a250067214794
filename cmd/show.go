package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arcanaland/gatherer/internal/card"
	"github.com/arcanaland/gatherer/internal/config"
	"github.com/arcanaland/gatherer/internal/library"
	"github.com/arcanaland/gatherer/internal/render"
)

var (
	showWidth  int
	showHeight int
)

var showCmd = &cobra.Command{
	Use:   "show [card_id|name]",
	Short: "Display a mirrored card with ANSI art",
	Long: `Show looks a card up in the processed catalog and prints its details next to
ANSI terminal art rendered from its downloaded image.

The argument is matched against card ids first, then against card names
(exact match ignoring case, then the first name containing it).

Examples:
  gatherer show "Lightning Bolt"
  gatherer show counterspell
  gatherer show 0000579f-7b35-4ed3-b44c-db2a538066fe`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}

		lib, err := library.Load(s.paths)
		if err != nil {
			return fmt.Errorf("error loading catalog: %w", err)
		}

		c, err := lib.Find(strings.Join(args, " "))
		if err != nil {
			return err
		}

		imagePath, ok, err := lib.ImagePath(c)
		if err != nil {
			return err
		}

		var ansiArt string
		if ok {
			opts := render.Options{Width: showWidth, Height: showHeight, TrueColor: trueColorTerminal()}
			ansiArt, err = render.Cached(filepath.Join(config.GetCacheDir(), "ansi_cache"), imagePath, opts)
			if err != nil {
				return fmt.Errorf("error rendering ANSI art: %w", err)
			}
		} else {
			imagePath = ""
			s.log.Warn("image not downloaded yet, run sync", "id", c.ID)
		}

		displayCard(c, ansiArt, imagePath)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(showCmd)

	showCmd.Flags().IntVar(&showWidth, "width", render.DefaultOptions.Width, "art width in terminal cells")
	showCmd.Flags().IntVar(&showHeight, "height", render.DefaultOptions.Height, "art height in terminal rows")
}

// trueColorTerminal reports whether the terminal advertises 24-bit colour
func trueColorTerminal() bool {
	ct := strings.ToLower(os.Getenv("COLORTERM"))
	return ct == "truecolor" || ct == "24bit"
}

// wrapText wraps text to a specified width
func wrapText(text string, width int) []string {
	if width < 10 {
		width = 40
	}

	var result []string
	var currentLine string
	words := strings.Fields(text)

	if len(words) == 0 {
		return []string{""}
	}

	for _, word := range words {
		if len(currentLine) == 0 {
			currentLine = word
		} else if len(currentLine)+1+len(word) <= width {
			currentLine += " " + word
		} else {
			result = append(result, currentLine)
			currentLine = word
		}
	}

	if currentLine != "" {
		result = append(result, currentLine)
	}

	return result
}

// displayCard prints the ANSI art on the left and the card details on the right
func displayCard(c *card.Card, ansiArt, imagePath string) {
	ansiLines := strings.Split(strings.TrimRight(ansiArt, "\n"), "\n")
	maxAnsiWidth := 0
	for _, line := range ansiLines {
		if w := render.VisibleWidth(line); w > maxAnsiWidth {
			maxAnsiWidth = w
		}
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}

	spacing := 4
	infoStartCol := maxAnsiWidth + spacing
	infoWidth := max(width-infoStartCol-2, 20)

	var infoLines []string
	infoLines = append(infoLines, colorize.CyanString("Card:  ")+colorize.HiWhiteString("%s", c.Name))
	infoLines = append(infoLines, colorize.CyanString("ID:    ")+colorize.HiWhiteString(c.ID))

	infoLines = append(infoLines, "")
	infoLines = append(infoLines, colorize.CyanString("Image:"))
	infoLines = append(infoLines, wrapText(c.ImageURI, infoWidth)...)

	if imagePath != "" {
		infoLines = append(infoLines, "")
		infoLines = append(infoLines, colorize.CyanString("File:"))
		infoLines = append(infoLines, wrapText(imagePath, infoWidth)...)
	} else {
		infoLines = append(infoLines, "")
		infoLines = append(infoLines, colorize.YellowString("Image not downloaded yet."))
	}

	fmt.Println()

	maxLines := max(len(ansiLines), len(infoLines))
	for i := 0; i < maxLines; i++ {
		fmt.Print("  ")
		if i < len(ansiLines) {
			fmt.Print(ansiLines[i])
			fmt.Print(strings.Repeat(" ", infoStartCol-render.VisibleWidth(ansiLines[i])))
		} else {
			fmt.Print(strings.Repeat(" ", infoStartCol))
		}

		if i < len(infoLines) {
			fmt.Print(infoLines[i])
		}

		fmt.Println()
	}

	fmt.Println()
}
