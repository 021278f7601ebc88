// Command tradelog parses broker order-log lines into structured option trades.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/eddiefleurent/tradelog/internal/config"
	"github.com/eddiefleurent/tradelog/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "config.yaml"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tradelog",
		Short:         "Parse broker order-log lines into option trades",
		Long:          `tradelog turns thinkorswim-style order lines into trades with per-leg quantities, expirations and strikes.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().String("config", "", "Path to configuration file (default config.yaml when present)")

	root.AddCommand(newParseCmd(), newServeCmd())
	return root
}

// setup loads the configuration named by --config and builds the logger.
func setup(cmd *cobra.Command) (*config.Config, *logrus.Logger, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("reading --config: %w", err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(cfg.Environment)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat(defaultConfigPath); errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return config.Load(defaultConfigPath)
}
