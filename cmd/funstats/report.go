package main

import (
	"github.com/spf13/cobra"

	"github.com/cognicore/funstats/pkg/funstats/report"
	"github.com/cognicore/funstats/pkg/funstats/snapshot"
)

var (
	reportSnapshot  string
	reportOut       string
	reportWordCloud string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the stats page from an existing snapshot",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportSnapshot, "snapshot", "stats.json", "snapshot file to render")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "stats.html", "page to write")
	reportCmd.Flags().StringVar(&reportWordCloud, "wordcloud", "", "word cloud image link, relative to the page")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	snap, err := snapshot.Read(reportSnapshot)
	if err != nil {
		return err
	}
	if err := report.WriteFile(reportOut, snap, report.Options{WordCloud: reportWordCloud}); err != nil {
		return err
	}
	cmd.Printf("Wrote %s\n", reportOut)
	return nil
}
