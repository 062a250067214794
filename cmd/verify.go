package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/gatherer/internal/validator"
)

var (
	verifyDeep   bool
	verifyRepair bool
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the mirror for missing or broken images",
	Long: `Verify checks that every card in the processed catalog has a usable image file.

Missing images are reported as warnings: the next sync downloads them. Empty
images are errors. With --deep every image is decoded, which also catches
downloads that were cut short. With --repair broken files are deleted so the
next sync fetches them again.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}

		v := validator.NewValidator(s.paths, validator.Options{Deep: verifyDeep, Repair: verifyRepair})
		results, err := v.Validate()
		if err != nil {
			return fmt.Errorf("verification error: %w", err)
		}

		fmt.Println("Verification Results:")
		fmt.Println("---------------------")

		if len(results.Warnings) > 0 {
			fmt.Println(color.YellowString("Warnings:"))
			for i, warn := range results.Warnings {
				fmt.Printf("%d. %s\n", i+1, warn)
			}
			fmt.Println()
		}

		if len(results.Repaired) > 0 {
			fmt.Println(color.CyanString("Removed, run sync to fetch them again:"))
			for _, path := range results.Repaired {
				fmt.Println("  " + path)
			}
			fmt.Println()
		}

		if len(results.Errors) == 0 {
			fmt.Printf("✅ %d cards checked in '%s', no broken images.\n", results.Checked, s.paths.WorkDir)
			return nil
		}

		fmt.Printf("❌ %d cards checked in '%s', %d problems:\n", results.Checked, s.paths.WorkDir, len(results.Errors))
		for i, e := range results.Errors {
			fmt.Printf("%d. %s\n", i+1, color.RedString(e))
		}
		if results.Passed() {
			return nil
		}
		return fmt.Errorf("verification failed: %d problems left", results.Unresolved)
	},
}

func init() {
	RootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().BoolVar(&verifyDeep, "deep", false, "decode every image")
	verifyCmd.Flags().BoolVar(&verifyRepair, "repair", false, "delete broken images so sync fetches them again")
}
