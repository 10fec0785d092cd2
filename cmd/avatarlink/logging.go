package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/srg/avatarlink/pkg/config"
)

// configureLogger creates the logger for cfg, with --log-level overriding
// the configured level when set.
// Returns an error if the resolved level is invalid.
func configureLogger(cmd *cobra.Command, cfg *config.Config) (*logrus.Logger, error) {
	resolved := *cfg
	if levelStr, _ := cmd.Flags().GetString("log-level"); levelStr != "" {
		resolved.LogLevel = levelStr
	}
	if resolved.LogLevel == "" {
		resolved.LogLevel = logrus.InfoLevel.String()
	}

	if _, err := logrus.ParseLevel(resolved.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid log level: %s", resolved.LogLevel)
	}
	return resolved.NewLogger(), nil
}
