// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
)

func newRelayCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "relay",
		Short: "Publish staged outbox messages until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if isMemoryDSN(cc.cfg.DatabaseURL) {
				return errors.New("relay: the in-memory store cannot be shared with a separate process")
			}

			a, err := openApp(cmd.Context(), cc.cfg, cc.log, appOptions{})
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					cc.log.Error("shutdown error", slog.Any("error", err))
				}
			}()

			return newRelay(cc.cfg, a, cc.log).Run(cmd.Context())
		},
	}
}
