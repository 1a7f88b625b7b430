// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/taibuivan/codesubmit/internal/platform/migration"
)

func newMigrateCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if isMemoryDSN(cc.cfg.DatabaseURL) {
				return errors.New("migrate: the in-memory store has no schema to migrate")
			}
			return migration.RunUp(cc.cfg.DatabaseURL, cc.log)
		},
	}
}
