package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/StevenJWChen/layout-automation/pkg/utils"
)

var (
	// Global flags
	verbose bool
	logger  utils.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "layoutctl",
	Short: "A constraint-based layout solver for IC physical design",
	Long: `layoutctl builds and solves hierarchical cell/geometry trees under
linear-arithmetic placement constraints, and translates them to and from
GDSII streams.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel := utils.LevelInfo
		if verbose {
			logLevel = utils.LevelDebug
		}
		logger = utils.NewDefaultLogger(logLevel, os.Stdout)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	binName := BinName()
	rootCmd.Example = `  # Solve a job document
  ` + binName + ` solve --in job.json --out result.json

  # Import a GDSII stream through a tech file
  ` + binName + ` import --gds cell.gds --tech tech.yaml --out tree.json

  # Export a solved tree to GDSII
  ` + binName + ` export --in tree.json --gds cell.gds --tech tech.yaml

  # Run the job service
  ` + binName + ` serve --config config.yaml`
}

// GetLogger returns the configured logger.
func GetLogger() utils.Logger {
	return logger
}

// BinName returns the base name of the current executable.
func BinName() string {
	return filepath.Base(os.Args[0])
}
