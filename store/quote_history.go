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

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/rs/zerolog/log"
	"github.com/twstock/stockwatch/model"
)

// QuoteHistory returns the current rolling-extreme record for a symbol,
// used to seed the reference cache's quote_history_records map on
// startup.
func (s *Store) QuoteHistory(ctx context.Context, symbol string) (model.QuoteHistoryRecord, bool, error) {
	const sql = `SELECT * FROM quote_history_records WHERE security_code = $1;`
	var out model.QuoteHistoryRecord
	if err := pgxscan.Get(ctx, s.Pool, &out, sql, symbol); err != nil {
		if pgxscan.NotFound(err) {
			return model.QuoteHistoryRecord{}, false, nil
		}
		return model.QuoteHistoryRecord{}, false, err
	}
	return out, true, nil
}

// AllQuoteHistory loads every rolling-extreme record, used by
// Reference.Load on startup.
func (s *Store) AllQuoteHistory(ctx context.Context) ([]model.QuoteHistoryRecord, error) {
	var out []model.QuoteHistoryRecord
	if err := pgxscan.Select(ctx, s.Pool, &out, `SELECT * FROM quote_history_records;`); err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertQuoteHistory persists a single rolling-extreme record, adapted
// from data/holiday.go's single-row upsert-in-its-own-transaction idiom.
func (s *Store) UpsertQuoteHistory(ctx context.Context, r model.QuoteHistoryRecord) error {
	const sql = `INSERT INTO quote_history_records (
		security_code, max_price, max_price_date, min_price, min_price_date,
		max_pbr, max_pbr_date, min_pbr, min_pbr_date
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	ON CONFLICT (security_code) DO UPDATE SET
		max_price = EXCLUDED.max_price, max_price_date = EXCLUDED.max_price_date,
		min_price = EXCLUDED.min_price, min_price_date = EXCLUDED.min_price_date,
		max_pbr = EXCLUDED.max_pbr, max_pbr_date = EXCLUDED.max_pbr_date,
		min_pbr = EXCLUDED.min_pbr, min_pbr_date = EXCLUDED.min_pbr_date;`

	_, err := s.Pool.Exec(ctx, sql, r.SecurityCode, r.MaxPrice, r.MaxPriceDate, r.MinPrice, r.MinPriceDate,
		r.MaxPbr, r.MaxPbrDate, r.MinPbr, r.MinPbrDate)
	if err != nil {
		log.Error().Err(err).Str("symbol", r.SecurityCode).Msg("error upserting quote history record")
	}
	return err
}
