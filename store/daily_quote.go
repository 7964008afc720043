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
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/twstock/stockwatch/model"
)

// UpsertDailyQuote is the per-symbol upsert used by closing pipeline
// step 2 and the gap-fill step 3. Grounded directly on data/eod.go's
// Eod.SaveDB.
func (s *Store) UpsertDailyQuote(ctx context.Context, dq model.DailyQuote) error {
	const sql = `INSERT INTO daily_quotes (
		stock_symbol, date, opening, highest, lowest, closing, volume,
		trade_value, transaction_count, change, change_range,
		best_bid_price, best_bid_count, best_ask_price, best_ask_count,
		price_earning, price_to_book_ratio
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	ON CONFLICT (stock_symbol, date) DO UPDATE SET
		opening = EXCLUDED.opening,
		highest = EXCLUDED.highest,
		lowest = EXCLUDED.lowest,
		closing = EXCLUDED.closing,
		volume = EXCLUDED.volume,
		trade_value = EXCLUDED.trade_value,
		transaction_count = EXCLUDED.transaction_count,
		change = EXCLUDED.change,
		change_range = EXCLUDED.change_range,
		best_bid_price = EXCLUDED.best_bid_price,
		best_bid_count = EXCLUDED.best_bid_count,
		best_ask_price = EXCLUDED.best_ask_price,
		best_ask_count = EXCLUDED.best_ask_count,
		price_earning = EXCLUDED.price_earning,
		price_to_book_ratio = EXCLUDED.price_to_book_ratio;`

	_, err := s.Pool.Exec(ctx, sql, dq.StockSymbol, dq.Date, dq.Opening, dq.Highest, dq.Lowest, dq.Closing,
		dq.Volume, dq.TradeValue, dq.Transaction, dq.Change, dq.ChangeRange, dq.BestBidPrice,
		dq.BestBidCount, dq.BestAskPrice, dq.BestAskCount, dq.PriceEarning, dq.PriceToBookRatio)
	if err != nil {
		log.Error().Err(err).Object("quote", &dq).Msg("error upserting daily quote")
	}
	return err
}

// MostRecentPriorQuote returns the most recent DailyQuote for symbol
// strictly before date, within the last 30 days — the source row the
// closing pipeline gap-fills missing sessions from.
func (s *Store) MostRecentPriorQuote(ctx context.Context, symbol string, before time.Time) (model.DailyQuote, bool, error) {
	const sql = `SELECT * FROM daily_quotes
		WHERE stock_symbol = $1 AND date < $2 AND date >= $2 - INTERVAL '30 days'
		ORDER BY date DESC LIMIT 1;`
	var out model.DailyQuote
	err := pgxscan.Get(ctx, s.Pool, &out, sql, symbol, before)
	if err != nil {
		if pgxscan.NotFound(err) {
			return model.DailyQuote{}, false, nil
		}
		return model.DailyQuote{}, false, err
	}
	return out, true, nil
}

// ClosingPriceWindow returns up to 240 rows of (highest, lowest, closing,
// date) for symbol over the last 400 days, most recent first.
func (s *Store) ClosingPriceWindow(ctx context.Context, symbol string, asOf time.Time) ([]model.DailyQuote, error) {
	const sql = `SELECT * FROM daily_quotes
		WHERE stock_symbol = $1 AND date <= $2 AND date >= $2 - INTERVAL '400 days'
		ORDER BY date DESC LIMIT 240;`
	var out []model.DailyQuote
	if err := pgxscan.Select(ctx, s.Pool, &out, sql, symbol, asOf); err != nil {
		return nil, err
	}
	return out, nil
}

// BatchUpdateMovingAverage bulk-updates the moving-average and
// price-to-book columns for today's quotes in one round-trip (one row
// per traded symbol per day, so per-row updates would serialize badly).
func (s *Store) BatchUpdateMovingAverage(ctx context.Context, quotes []model.DailyQuote) error {
	if len(quotes) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	const sql = `UPDATE daily_quotes SET
		moving_average_5 = $3, moving_average_10 = $4, moving_average_20 = $5,
		moving_average_60 = $6, moving_average_120 = $7, moving_average_240 = $8,
		max_price_in_year = $9, max_price_in_year_date = $10,
		min_price_in_year = $11, min_price_in_year_date = $12,
		price_to_book_ratio = $13
		WHERE stock_symbol = $1 AND date = $2;`

	for _, dq := range quotes {
		batch.Queue(sql, dq.StockSymbol, dq.Date, dq.MovingAverage5, dq.MovingAverage10, dq.MovingAverage20,
			dq.MovingAverage60, dq.MovingAverage120, dq.MovingAverage240, dq.MaxPriceInYear,
			dq.MaxPriceInYearDate, dq.MinPriceInYear, dq.MinPriceInYearDate, dq.PriceToBookRatio)
	}

	br := s.Pool.SendBatch(ctx, batch)
	defer br.Close()

	for range quotes {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch update moving average: %w", err)
		}
	}
	return nil
}
