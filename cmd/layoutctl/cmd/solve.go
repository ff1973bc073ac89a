package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/StevenJWChen/layout-automation/pkg/model"
	"github.com/StevenJWChen/layout-automation/pkg/solver"
)

var (
	solveIn      string
	solveOut     string
	solveTimeout string
	solveCoordMax int64
	solveCenterW  int64
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a job document's cell tree under its constraints",
	Long: `Loads a JSON-encoded cell tree plus constraints (a job document),
runs the constraint solver, and writes the solved geometry as JSON.`,
	RunE: runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)

	solveCmd.Flags().StringVar(&solveIn, "in", "", "Input job document (required)")
	solveCmd.Flags().StringVar(&solveOut, "out", "", "Output path for the solved result (required)")
	solveCmd.Flags().StringVar(&solveTimeout, "timeout", "30s", "Solve timeout")
	solveCmd.Flags().Int64Var(&solveCoordMax, "coord-max", solver.DefaultCoordMax, "Maximum absolute coordinate value")
	solveCmd.Flags().Int64Var(&solveCenterW, "center-weight", solver.DefaultCenterWeight, "Centering objective weight")

	solveCmd.MarkFlagRequired("in")
	solveCmd.MarkFlagRequired("out")
}

func runSolve(cmd *cobra.Command, args []string) error {
	log := GetLogger()

	data, err := os.ReadFile(solveIn)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", solveIn, err)
	}

	var doc model.JobDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse job document: %w", err)
	}

	root, err := model.BuildCellTree(doc.Root)
	if err != nil {
		return fmt.Errorf("failed to build cell tree: %w", err)
	}

	cellCount, constraintCount := model.CountTree(root)
	log.Info("Loaded tree: %d cells, %d constraints", cellCount, constraintCount)

	timeout, err := time.ParseDuration(solveTimeout)
	if err != nil {
		return fmt.Errorf("invalid timeout %q: %w", solveTimeout, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	opts := solver.Options{CoordMax: solveCoordMax, CenterWeight: solveCenterW}

	log.Info("Solving...")
	start := time.Now()
	if err := solver.Solve(ctx, root, opts); err != nil {
		return fmt.Errorf("solve failed: %w", err)
	}
	log.Info("Solved in %s", time.Since(start))

	result := model.DumpCellTree(root)
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := os.WriteFile(solveOut, out, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", solveOut, err)
	}

	log.Info("Wrote solved geometry to %s", solveOut)
	return nil
}
