package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ivlev/sketch2html/internal/config"
	"github.com/ivlev/sketch2html/internal/system"
)

var (
	configPath string
	logLevel   string
)

// RootCmd is the sketch2html entry point.
var RootCmd = &cobra.Command{
	Use:           "sketch2html",
	Short:         "Turn UI mockup images into HTML layouts",
	Long:          "sketch2html recognizes the text of a mockup image, segments it into dark regions and emits an HTML page with one container per region.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
}

// loadConfig reads the config file (if any), applies environment overrides
// and validates the result.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv()
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, cfg.Validate()
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		logrus.Errorf("[-] %v", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config, json bool) (*logrus.Logger, error) {
	return system.NewLogger(cfg.LogLevel, json)
}
