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
	"github.com/twstock/stockwatch/model"
)

// RebuildDailyMoneyHistory replaces the day's whole money-history tree
// (totals, per-symbol detail, per-lot detail-more) in one transaction, per
// closing pipeline step 10 and its rollback-on-partial-failure invariant.
func (s *Store) RebuildDailyMoneyHistory(ctx context.Context, date time.Time,
	totals []model.DailyMoneyHistory, details []model.DailyMoneyHistoryDetail,
	more []model.DailyMoneyHistoryDetailMore, stats model.DailyStockPriceStats) error {

	return s.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM daily_money_history WHERE date = $1;`, date); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM daily_money_history_detail WHERE date = $1;`, date); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM daily_money_history_detail_more WHERE date = $1;`, date); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM daily_stock_price_stats WHERE date = $1;`, date); err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for _, t := range totals {
			batch.Queue(`INSERT INTO daily_money_history (date, member_id, market_value, cost, profit)
				VALUES ($1,$2,$3,$4,$5);`, t.Date, t.MemberID, t.MarketValue, t.Cost, t.Profit)
		}
		for _, d := range details {
			batch.Queue(`INSERT INTO daily_money_history_detail (date, member_id, stock_symbol, market_value, cost)
				VALUES ($1,$2,$3,$4,$5);`, d.Date, d.MemberID, d.StockSymbol, d.MarketValue, d.Cost)
		}
		for _, m := range more {
			batch.Queue(`INSERT INTO daily_money_history_detail_more (
				date, member_id, stock_symbol, transaction_date, market_value, cost
			) VALUES ($1,$2,$3,$4,$5,$6);`, m.Date, m.MemberID, m.StockSymbol, m.TransactionDate, m.MarketValue, m.Cost)
		}
		batch.Queue(`INSERT INTO daily_stock_price_stats (
			date, avg_price_earning, avg_price_to_book, advancing_count, declining_count, unchanged_count
		) VALUES ($1,$2,$3,$4,$5,$6);`, stats.Date, stats.AvgPriceEarning, stats.AvgPriceToBook,
			stats.AdvancingCount, stats.DecliningCount, stats.UnchangedCount)

		br := tx.SendBatch(ctx, batch)
		defer br.Close()
		for i := 0; i < batch.Len(); i++ {
			if _, err := br.Exec(); err != nil {
				return err
			}
		}
		return nil
	})
}
