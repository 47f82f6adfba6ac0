package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cognicore/funstats/pkg/funstats/store"
	"github.com/cognicore/funstats/pkg/funstats/store/sqlite"
)

var (
	historyDB       string
	historyLimit    int
	historyDocument string
	historyJSON     bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs",
	Long: `Lists previous runs from the history database, newest first.
With --document, lists the recorded statistics of one article instead.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyDB, "db", "", "history database (defaults to history.path from the config)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", store.DefaultLimit, "maximum number of entries")
	historyCmd.Flags().StringVar(&historyDocument, "document", "", "show the history of one article")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := historyDB
	if path == "" {
		path = cfg.History.Path
	}
	if path == "" {
		return errors.New("no history database: set history.path or pass --db")
	}

	ctx := cmd.Context()
	st, err := sqlite.OpenSQLite(ctx, path)
	if err != nil {
		return err
	}
	defer st.Close()

	if historyDocument != "" {
		records, err := st.DocumentHistory(ctx, historyDocument, historyLimit)
		if err != nil {
			return fmt.Errorf("document history: %w", err)
		}
		if historyJSON {
			return printJSON(cmd, records)
		}
		if len(records) == 0 {
			cmd.Println("No runs recorded for", historyDocument)
			return nil
		}
		for _, r := range records {
			flag := ""
			if r.Degraded {
				flag = " (degraded)"
			}
			cmd.Printf("%s  %6d bytes  %6d words%s\n", r.RunID, r.Size, r.AlphaTokens, flag)
		}
		return nil
	}

	runs, err := st.Runs(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if historyJSON {
		return printJSON(cmd, runs)
	}
	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}
	for _, r := range runs {
		cmd.Printf("%s  %s  %4d articles  %8d words  longest %s\n",
			r.ID, r.GeneratedAt.UTC().Format(time.RFC3339), r.DocumentCount, r.TotalWordCount, r.LongestDocument)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
