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

// UpsertRevenue persists one symbol's monthly revenue figure.
func (s *Store) UpsertRevenue(ctx context.Context, r model.Revenue) error {
	const sql = `INSERT INTO revenues (stock_symbol, year_month, income) VALUES ($1,$2,$3)
		ON CONFLICT (stock_symbol, year_month) DO UPDATE SET income = EXCLUDED.income;`

	_, err := s.Pool.Exec(ctx, sql, r.StockSymbol, r.YearMonth, r.Income)
	if err != nil {
		log.Error().Err(err).Str("symbol", r.StockSymbol).Msg("error upserting revenue")
	}
	return err
}

// RecentRevenues returns every revenue row for the two most recent
// yearMonth keys, used to seed the reference cache's two-month window on
// startup.
func (s *Store) RecentRevenues(ctx context.Context) ([]model.Revenue, error) {
	const sql = `SELECT * FROM revenues WHERE year_month IN (
		SELECT DISTINCT year_month FROM revenues ORDER BY year_month DESC LIMIT 2
	);`
	var out []model.Revenue
	if err := pgxscan.Select(ctx, s.Pool, &out, sql); err != nil {
		return nil, err
	}
	return out, nil
}
