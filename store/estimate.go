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

	"github.com/rs/zerolog/log"
	"github.com/twstock/stockwatch/model"
)

// UpsertEstimate persists the valuation-band row computed by closing
// pipeline step 8.
func (s *Store) UpsertEstimate(ctx context.Context, e model.Estimate) error {
	const sql = `INSERT INTO estimates (
		date, security_code, cheap_price, fair_price, expensive_price,
		price_percentile_cheap, price_percentile_fair, price_percentile_expensive,
		dividend_cheap, dividend_fair, dividend_expensive,
		eps_payout_cheap, eps_payout_fair, eps_payout_expensive,
		pbr_cheap, pbr_fair, pbr_expensive,
		per_cheap, per_fair, per_expensive, year_count
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
	ON CONFLICT (date, security_code) DO UPDATE SET
		cheap_price = EXCLUDED.cheap_price, fair_price = EXCLUDED.fair_price,
		expensive_price = EXCLUDED.expensive_price,
		price_percentile_cheap = EXCLUDED.price_percentile_cheap,
		price_percentile_fair = EXCLUDED.price_percentile_fair,
		price_percentile_expensive = EXCLUDED.price_percentile_expensive,
		dividend_cheap = EXCLUDED.dividend_cheap, dividend_fair = EXCLUDED.dividend_fair,
		dividend_expensive = EXCLUDED.dividend_expensive,
		eps_payout_cheap = EXCLUDED.eps_payout_cheap, eps_payout_fair = EXCLUDED.eps_payout_fair,
		eps_payout_expensive = EXCLUDED.eps_payout_expensive,
		pbr_cheap = EXCLUDED.pbr_cheap, pbr_fair = EXCLUDED.pbr_fair, pbr_expensive = EXCLUDED.pbr_expensive,
		per_cheap = EXCLUDED.per_cheap, per_fair = EXCLUDED.per_fair, per_expensive = EXCLUDED.per_expensive,
		year_count = EXCLUDED.year_count;`

	_, err := s.Pool.Exec(ctx, sql, e.Date, e.SecurityCode, e.CheapPrice, e.FairPrice, e.ExpensivePrice,
		e.PricePercentileCheap, e.PricePercentileFair, e.PricePercentileExpensive,
		e.DividendCheap, e.DividendFair, e.DividendExpensive,
		e.EpsPayoutCheap, e.EpsPayoutFair, e.EpsPayoutExpensive,
		e.PbrCheap, e.PbrFair, e.PbrExpensive, e.PerCheap, e.PerFair, e.PerExpensive, e.YearCount)
	if err != nil {
		log.Error().Err(err).Str("symbol", e.SecurityCode).Msg("error upserting estimate")
	}
	return err
}
