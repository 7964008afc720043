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

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/twstock/stockwatch/model"
)

// UpsertPublic persists a new-listing subscription window.
func (s *Store) UpsertPublic(ctx context.Context, p model.Public) error {
	const sql = `INSERT INTO publics (
		stock_symbol, subscription_start, subscription_end, drawing_date, offering_price, issue_date
	) VALUES ($1,$2,$3,$4,$5,$6)
	ON CONFLICT (stock_symbol) DO UPDATE SET
		subscription_start = EXCLUDED.subscription_start, subscription_end = EXCLUDED.subscription_end,
		drawing_date = EXCLUDED.drawing_date, offering_price = EXCLUDED.offering_price,
		issue_date = EXCLUDED.issue_date;`

	_, err := s.Pool.Exec(ctx, sql, p.StockSymbol, p.SubscriptionStart, p.SubscriptionEnd, p.DrawingDate,
		p.OfferingPrice, p.IssueDate)
	return err
}

// OpenWindows returns subscription windows still open as of now, used by
// the public-offering reminder job.
func (s *Store) OpenWindows(ctx context.Context, asOf time.Time) ([]model.Public, error) {
	const sql = `SELECT * FROM publics WHERE subscription_end >= $1 ORDER BY subscription_start;`
	var out []model.Public
	if err := pgxscan.Select(ctx, s.Pool, &out, sql, asOf); err != nil {
		return nil, err
	}
	return out, nil
}
