// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cmd

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/twstock/stockwatch/config"
	"github.com/twstock/stockwatch/db"
)

// initCmd applies the schema migrations against the database named in
// configuration, the one-time setup step before `serve` can run.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Apply database schema migrations",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("could not load configuration")
		}

		log.Info().Msg("applying schema migrations")

		// golang-migrate's pgx/v5 driver registers under the pgx5 scheme,
		// not postgres.
		migrateURL := strings.Replace(cfg.DatabaseURL(), "postgres://", "pgx5://", 1)
		if err := db.Migrate(migrateURL); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		log.Info().Msg("schema up to date")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
