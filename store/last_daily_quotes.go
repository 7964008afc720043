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
package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// RebuildLastDailyQuotes implements a rebuild-by-truncate: TRUNCATE,
// then INSERT...SELECT the latest row per symbol within the last 30
// days, all inside one transaction, rolling back on any error.
func (s *Store) RebuildLastDailyQuotes(ctx context.Context) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `TRUNCATE TABLE last_daily_quotes;`); err != nil {
			return err
		}

		const sql = `INSERT INTO last_daily_quotes (stock_symbol, date, closing, change, change_range, price_earning)
			SELECT DISTINCT ON (stock_symbol) stock_symbol, date, closing, change, change_range, price_earning
			FROM daily_quotes
			WHERE date >= now() - INTERVAL '30 days'
			ORDER BY stock_symbol, date DESC;`
		_, err := tx.Exec(ctx, sql)
		return err
	})
}
