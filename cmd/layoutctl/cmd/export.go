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
	exportIn   string
	exportGDS  string
	exportTech string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a solved cell tree to a GDSII stream",
	Long: `Loads a job document whose tree has already been solved and writes
it out as a GDSII stream through the tech file's layer map.`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportIn, "in", "", "Input solved tree document (required)")
	exportCmd.Flags().StringVar(&exportGDS, "gds", "", "Output GDSII file (required)")
	exportCmd.Flags().StringVar(&exportTech, "tech", "", "Tech file with layer table (required)")

	exportCmd.MarkFlagRequired("in")
	exportCmd.MarkFlagRequired("gds")
	exportCmd.MarkFlagRequired("tech")
}

func runExport(cmd *cobra.Command, args []string) error {
	log := GetLogger()

	data, err := os.ReadFile(exportIn)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", exportIn, err)
	}

	var doc model.JobDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse tree document: %w", err)
	}

	root, err := model.BuildCellTree(doc.Root)
	if err != nil {
		return fmt.Errorf("failed to build cell tree: %w", err)
	}

	lm, err := techfile.Load(exportTech)
	if err != nil {
		return fmt.Errorf("failed to load tech file: %w", err)
	}

	log.Info("Exporting to %s...", exportGDS)
	if err := gdsii.ExportGDS(root, exportGDS, lm, gdsii.Options{Logger: log}); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	log.Info("Wrote GDSII stream to %s", exportGDS)
	return nil
}
