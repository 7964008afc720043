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
	"time"

	"github.com/jackc/pgx/v5"
)

// RebuildYieldRank implements closing pipeline step 9: delete today's
// rank rows, then insert the percentile rank of each symbol's dividend
// yield for the day, all in one transaction.
func (s *Store) RebuildYieldRank(ctx context.Context, date time.Time) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM yield_ranks WHERE date = $1;`, date); err != nil {
			return err
		}

		const sql = `INSERT INTO yield_ranks (date, stock_symbol, dividend_yield, percentile_rank)
			SELECT $1, dq.stock_symbol,
				COALESCE(d.sum / NULLIF(dq.closing, 0), 0) AS dividend_yield,
				PERCENT_RANK() OVER (ORDER BY COALESCE(d.sum / NULLIF(dq.closing, 0), 0)) AS percentile_rank
			FROM daily_quotes dq
			LEFT JOIN dividends d ON d.security_code = dq.stock_symbol AND d.quarter = ''
			WHERE dq.date = $1;`
		_, err := tx.Exec(ctx, sql, date)
		return err
	})
}
