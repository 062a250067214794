package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/arcanaland/gatherer/internal/config"
	"github.com/arcanaland/gatherer/internal/logger"
)

var (
	workDirFlag string
	verboseFlag bool
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "gatherer",
	Short: "Mirror the Scryfall card catalog and card images locally",
	Long: `Gatherer keeps a local mirror of the Magic: The Gathering card catalog published
by Scryfall: the raw bulk data file, a processed catalog of every card that has an
image, and one image per card.

Every stage is skipped when its output already exists, so an interrupted run
resumes where it stopped. Running gatherer without a subcommand runs sync.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSync,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&workDirFlag, "work-dir", "",
		"directory holding the mirror (overrides work_dir and $"+config.WorkDirEnv+")")
	RootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "log every card")

	RootCmd.Flags().StringVarP(&bulkTypeFlag, "type", "t", "", "bulk dataset to mirror (default from config)")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) error {
	return RootCmd.ExecuteContext(ctx)
}

// session is what every command needs: the loaded config, the mirror layout and a logger.
type session struct {
	cfg   *config.Config
	paths config.Paths
	log   *slog.Logger
}

func newSession() (*session, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	paths := cfg.Paths()
	if workDirFlag != "" {
		paths = config.NewPaths(workDirFlag)
	}

	level := logger.ParseLevel(cfg.LogLevel)
	if verboseFlag {
		level = slog.LevelDebug
	}

	return &session{
		cfg:   cfg,
		paths: paths,
		log:   logger.New(logger.Config{Level: level}),
	}, nil
}
