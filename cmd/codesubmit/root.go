// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taibuivan/codesubmit/internal/platform/config"
	"github.com/taibuivan/codesubmit/internal/platform/constants"
)

// commandContext carries what every subcommand needs once the root has run.
type commandContext struct {
	envFile string
	output  io.Writer

	level *slog.LevelVar
	log   *slog.Logger
	cfg   *config.Config
}

func newRootCommand() *cobra.Command {
	cc := &commandContext{output: os.Stdout}

	rootCmd := &cobra.Command{
		Use:           constants.AppName,
		Short:         "Code submission web service",
		Version:       constants.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cc.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cc.envFile, "env-file", ".env", "Path to an optional .env file")

	rootCmd.AddCommand(newServeCommand(cc))
	rootCmd.AddCommand(newMigrateCommand(cc))
	rootCmd.AddCommand(newRelayCommand(cc))

	return rootCmd
}

// load initializes the logger first so configuration errors are structured,
// then reads the configuration.
func (cc *commandContext) load() error {
	cc.level = new(slog.LevelVar)
	cc.level.Set(slog.LevelInfo)

	rawLog := slog.New(slog.NewJSONHandler(cc.output, &slog.HandlerOptions{Level: cc.level}))
	cc.log = rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(cc.log)

	cfg, err := config.Load(cc.envFile)
	if err != nil {
		cc.log.Error("startup failure", slog.String("context", "load configuration"), slog.Any("error", err))
		return err
	}
	cc.cfg = cfg

	if cfg.Debug {
		cc.level.Set(slog.LevelDebug)
		cc.log.Debug("debug_logging_enabled")
	}

	cc.log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("delivery_mode", cfg.DeliveryMode),
		slog.String("queue_backend", cfg.Queue.Backend),
	)
	return nil
}
