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
	"github.com/shopspring/decimal"
	"github.com/twstock/stockwatch/model"
)

// UpsertStock inserts or updates the Stock master record, using the
// same ON CONFLICT DO UPDATE idiom every repository file in this
// package uses, applied here to a fixed table name instead of a
// dynamically-named partition table.
func (s *Store) UpsertStock(ctx context.Context, stock model.Stock) error {
	const sql = `INSERT INTO stocks (
		stock_symbol, name, suspended, market, industry_id,
		net_asset_value_per_share, eps_last_four_quarters, eps_last_quarter,
		return_on_equity, index_weight, issued_shares,
		foreign_hold_shares, foreign_hold_percent
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	ON CONFLICT (stock_symbol) DO UPDATE SET
		name = EXCLUDED.name,
		suspended = EXCLUDED.suspended,
		market = EXCLUDED.market,
		industry_id = EXCLUDED.industry_id,
		net_asset_value_per_share = EXCLUDED.net_asset_value_per_share,
		eps_last_four_quarters = EXCLUDED.eps_last_four_quarters,
		eps_last_quarter = EXCLUDED.eps_last_quarter,
		return_on_equity = EXCLUDED.return_on_equity,
		index_weight = EXCLUDED.index_weight,
		issued_shares = EXCLUDED.issued_shares,
		foreign_hold_shares = EXCLUDED.foreign_hold_shares,
		foreign_hold_percent = EXCLUDED.foreign_hold_percent;`

	_, err := s.Pool.Exec(ctx, sql, stock.StockSymbol, stock.Name, stock.Suspended, int(stock.Market),
		stock.IndustryID, stock.NetAssetValuePerShare, stock.EpsLastFourQuarters, stock.EpsLastQuarter,
		stock.ReturnOnEquity, stock.IndexWeight, stock.IssuedShares, stock.ForeignHoldShares,
		stock.ForeignHoldPercent)
	if err != nil {
		log.Error().Err(err).Object("stock", &stock).Msg("error upserting stock")
	}
	return err
}

// Stocks returns every stock row not excluded by a suspended filter.
func (s *Store) Stocks(ctx context.Context, includeSuspended bool) ([]model.Stock, error) {
	sql := "SELECT * FROM stocks"
	if !includeSuspended {
		sql += " WHERE suspended = false"
	}
	var out []model.Stock
	if err := pgxscan.Select(ctx, s.Pool, &out, sql); err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertListing inserts a newly-listed symbol or refreshes an existing
// one's name/market/industry, without touching the financial columns a
// listings refresh has no data for — unlike UpsertStock, which is only
// safe to call once every column is already populated.
func (s *Store) UpsertListing(ctx context.Context, symbol, name string, market model.Market, industryID int) error {
	const sql = `INSERT INTO stocks (stock_symbol, name, suspended, market, industry_id)
		VALUES ($1,$2,false,$3,$4)
		ON CONFLICT (stock_symbol) DO UPDATE SET
			name = EXCLUDED.name, market = EXCLUDED.market, industry_id = EXCLUDED.industry_id;`
	_, err := s.Pool.Exec(ctx, sql, symbol, name, int(market), industryID)
	return err
}

// StockBySymbol returns one Stock row, or false if the symbol is unknown.
func (s *Store) StockBySymbol(ctx context.Context, symbol string) (model.Stock, bool, error) {
	const sql = `SELECT * FROM stocks WHERE stock_symbol = $1;`
	var out model.Stock
	if err := pgxscan.Get(ctx, s.Pool, &out, sql, symbol); err != nil {
		if pgxscan.NotFound(err) {
			return model.Stock{}, false, nil
		}
		return model.Stock{}, false, err
	}
	return out, true, nil
}

// SetSuspended marks the given symbols suspended, used by the delisting
// sweep backfill job.
func (s *Store) SetSuspended(ctx context.Context, symbols []string) error {
	const sql = `UPDATE stocks SET suspended = true WHERE stock_symbol = ANY($1);`
	_, err := s.Pool.Exec(ctx, sql, symbols)
	return err
}

// EmergingSymbols returns every non-suspended emerging-market symbol, the
// candidate set for the NAV backfill job.
func (s *Store) EmergingSymbols(ctx context.Context) ([]string, error) {
	const sql = `SELECT stock_symbol FROM stocks WHERE market = $1 AND suspended = false;`
	var out []string
	if err := pgxscan.Select(ctx, s.Pool, &out, sql, int(model.MarketEmerging)); err != nil {
		return nil, err
	}
	return out, nil
}

// ZeroNavSymbols returns every non-suspended symbol still carrying a zero
// net-asset-value-per-share, the candidate set for the 21:00 zero-NAV
// rescan.
func (s *Store) ZeroNavSymbols(ctx context.Context) ([]string, error) {
	const sql = `SELECT stock_symbol FROM stocks WHERE suspended = false AND net_asset_value_per_share = 0;`
	var out []string
	if err := pgxscan.Select(ctx, s.Pool, &out, sql); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateNav applies a freshly-fetched net-asset-value-per-share to one
// symbol, leaving every other Stock field untouched.
func (s *Store) UpdateNav(ctx context.Context, symbol string, nav decimal.Decimal) error {
	const sql = `UPDATE stocks SET net_asset_value_per_share = $2 WHERE stock_symbol = $1;`
	_, err := s.Pool.Exec(ctx, sql, symbol, nav)
	return err
}

// UpdateEps applies a freshly-fetched trailing-four-quarter EPS figure to
// one symbol. The per-quarter EPS backfill only ever knows the rolling
// four-quarter figure, not the single most-recent quarter, so
// eps_last_quarter is left untouched here.
func (s *Store) UpdateEps(ctx context.Context, symbol string, epsLastFourQuarters decimal.Decimal) error {
	const sql = `UPDATE stocks SET eps_last_four_quarters = $2 WHERE stock_symbol = $1;`
	_, err := s.Pool.Exec(ctx, sql, symbol, epsLastFourQuarters)
	return err
}

// UpdateIndexWeight applies a freshly-fetched index weight to one symbol.
func (s *Store) UpdateIndexWeight(ctx context.Context, symbol string, weight decimal.Decimal) error {
	const sql = `UPDATE stocks SET index_weight = $2 WHERE stock_symbol = $1;`
	_, err := s.Pool.Exec(ctx, sql, symbol, weight)
	return err
}

// UpdateForeignHolding applies freshly-fetched QFII holdings to one
// symbol.
func (s *Store) UpdateForeignHolding(ctx context.Context, symbol string, shares int64, percent decimal.Decimal) error {
	const sql = `UPDATE stocks SET foreign_hold_shares = $2, foreign_hold_percent = $3 WHERE stock_symbol = $1;`
	_, err := s.Pool.Exec(ctx, sql, symbol, shares, percent)
	return err
}
