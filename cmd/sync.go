package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/gatherer/internal/card"
	"github.com/arcanaland/gatherer/internal/pipeline"
	"github.com/arcanaland/gatherer/internal/scryfall"
)

var bulkTypeFlag string

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Bring the local mirror up to date",
	Long: `Sync fetches the bulk data index, downloads the selected bulk dataset, builds the
processed catalog and downloads the image of every card that does not have one yet.

Files that already exist are never downloaded again. Delete a file to force it
to be fetched on the next run.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	RootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringVarP(&bulkTypeFlag, "type", "t", "", "bulk dataset to mirror (default from config)")
}

func runSync(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	interval, err := s.cfg.Interval()
	if err != nil {
		return err
	}

	bulkType := s.cfg.BulkType
	if bulkTypeFlag != "" {
		bulkType = bulkTypeFlag
	}

	done := color.New(color.FgGreen).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	res, err := pipeline.Run(cmd.Context(), pipeline.Options{
		Paths:     s.paths,
		Transport: scryfall.NewClient(s.cfg.UserAgent, scryfall.WithRequestInterval(interval)),
		IndexURL:  s.cfg.APIURL,
		BulkType:  bulkType,
		Interval:  interval,
		Logger:    s.log,
		Progress: func(n, total int, c card.Card, skipped bool) {
			if skipped {
				return
			}
			fmt.Printf("%s %s %s\n", faint(fmt.Sprintf("[%d/%d]", n, total)), done("✓"), c.Name)
		},
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n%s %d cards, %d images downloaded, %d already present\n",
		done("Mirror up to date:"), res.Cards, res.Assets.Downloaded, res.Assets.Skipped)
	fmt.Println(faint("Mirror location: " + s.paths.WorkDir))
	return nil
}
