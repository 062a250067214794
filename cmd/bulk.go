package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/gatherer/internal/bulk"
	"github.com/arcanaland/gatherer/internal/scryfall"
)

// bulkCmd represents the bulk command group
var bulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Inspect the bulk datasets offered upstream",
}

// bulkListCmd represents the bulk ls command
var bulkListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the bulk datasets and mark the one sync mirrors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}

		idx, err := bulk.FetchIndex(cmd.Context(), scryfall.NewClient(s.cfg.UserAgent), s.cfg.APIURL)
		if err != nil {
			return err
		}

		if len(idx.Data) == 0 {
			fmt.Println("No bulk datasets offered.")
			return nil
		}

		selected := false
		for _, d := range idx.Data {
			// Only the first dataset of a type is ever resolved.
			if d.Type == s.cfg.BulkType && !selected {
				selected = true
				fmt.Printf("* %-16s %-24s %9s  %s %s\n", d.Type, d.Name, formatSize(d.Size), d.UpdatedAt,
					color.GreenString("[SELECTED]"))
			} else {
				fmt.Printf("  %-16s %-24s %9s  %s\n", d.Type, d.Name, formatSize(d.Size), d.UpdatedAt)
			}
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(bulkCmd)
	bulkCmd.AddCommand(bulkListCmd)
}

// formatSize renders a byte count with a binary unit
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
