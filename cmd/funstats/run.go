package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/funstats/pkg/funstats"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Analyze the articles and write the snapshot, word cloud and page",
	Args:  cobra.NoArgs,
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	engine, err := funstats.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open engine: %w", err)
	}
	defer engine.Close()

	snap, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Stats generated: %d articles, %d words, longest %s\n",
		snap.DocumentCount, snap.TotalWordCount, snap.LongestDocument)
	return nil
}
