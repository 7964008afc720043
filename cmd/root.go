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
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "stockwatch",
	Short: "stockwatch collects and serves Taiwan-listed stock market data",
	Long: `stockwatch is a command line utility for building and maintaining a
database of Taiwan-listed stock price, dividend, fundamental, and ownership
data. It runs the scheduled collection jobs described in its cron table
(quote closing, dividend backfill, financial statements, NAV, revenue,
QFII holdings, index weights, and a handful of notification reminders),
persists everything to PostgreSQL, and exposes live quotes over RPC to
the sibling chat-bot service.

Configuration is resolved from app.json (if present) overlaid with
environment variables; see config.Load for the full key list.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
