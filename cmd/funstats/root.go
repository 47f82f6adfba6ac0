package main

import (
	"github.com/spf13/cobra"

	"github.com/cognicore/funstats/internal/logging"
	"github.com/cognicore/funstats/pkg/funstats/config"
)

var (
	configPath string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "funstats",
	Short: "Corpus statistics for a static site",
	Long: `Scans a directory of HTML articles, computes word, part-of-speech,
readability, sentiment, entity and keyword statistics, and writes a JSON
snapshot, a word cloud and a stats page.`,
	SilenceUsage: true,
	RunE:         runRun,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (defaults apply when empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: pretty or json")
}

// loadConfig reads the config file, applies flag overrides and sets up logging.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if err := logging.Setup(cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}
