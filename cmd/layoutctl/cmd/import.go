package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/StevenJWChen/layout-automation/pkg/gdsii"
	"github.com/StevenJWChen/layout-automation/pkg/model"
	"github.com/StevenJWChen/layout-automation/pkg/techfile"
)

var (
	importGDS  string
	importTech string
	importOut  string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a GDSII stream into a fixed cell tree",
	Long: `Parses a GDSII stream through the tech file's layer map and dumps
the resulting tree (fixed in its imported geometry) as a job document.`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importGDS, "gds", "", "Input GDSII file (required)")
	importCmd.Flags().StringVar(&importTech, "tech", "", "Tech file with layer table (required)")
	importCmd.Flags().StringVar(&importOut, "out", "", "Output path for the imported tree (required)")

	importCmd.MarkFlagRequired("gds")
	importCmd.MarkFlagRequired("tech")
	importCmd.MarkFlagRequired("out")
}

func runImport(cmd *cobra.Command, args []string) error {
	log := GetLogger()

	lm, err := techfile.Load(importTech)
	if err != nil {
		return fmt.Errorf("failed to load tech file: %w", err)
	}

	log.Info("Importing %s...", importGDS)
	root, err := gdsii.FromGDS(importGDS, lm, gdsii.Options{Logger: log})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	cellCount, _ := model.CountTree(root)
	log.Info("Imported %d cells", cellCount)

	doc := model.DumpCellTree(root)
	data, err := json.MarshalIndent(&model.JobDocument{Root: doc}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tree: %w", err)
	}

	if err := os.WriteFile(importOut, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", importOut, err)
	}

	log.Info("Wrote imported tree to %s", importOut)
	return nil
}
