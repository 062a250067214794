package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcanaland/gatherer/internal/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the mirror directories and the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Loading creates the config file when it is missing
		s, err := newSession()
		if err != nil {
			return err
		}

		if err := s.paths.EnsureDirs(); err != nil {
			return fmt.Errorf("error creating mirror directories: %w", err)
		}

		fmt.Println("Mirror initialized at:", s.paths.WorkDir)
		fmt.Println("Config file initialized at:", config.GetConfigFilePath())
		fmt.Println("Run 'gatherer sync' to download the catalog.")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(initCmd)
}
