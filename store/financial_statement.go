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

// UpsertFinancialStatement persists one quarterly or annual financial
// statement row.
func (s *Store) UpsertFinancialStatement(ctx context.Context, fs model.FinancialStatement) error {
	const sql = `INSERT INTO financial_statements (
		security_code, year, quarter,
		gross_profit, operating_profit_margin, pre_tax_income, net_income,
		net_asset_value_per_share, sales_per_share, earnings_per_share,
		profit_before_tax, return_on_equity, return_on_assets
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	ON CONFLICT (security_code, year, quarter) DO UPDATE SET
		gross_profit = EXCLUDED.gross_profit,
		operating_profit_margin = EXCLUDED.operating_profit_margin,
		pre_tax_income = EXCLUDED.pre_tax_income, net_income = EXCLUDED.net_income,
		net_asset_value_per_share = EXCLUDED.net_asset_value_per_share,
		sales_per_share = EXCLUDED.sales_per_share, earnings_per_share = EXCLUDED.earnings_per_share,
		profit_before_tax = EXCLUDED.profit_before_tax, return_on_equity = EXCLUDED.return_on_equity,
		return_on_assets = EXCLUDED.return_on_assets;`

	_, err := s.Pool.Exec(ctx, sql, fs.SecurityCode, fs.Year, string(fs.Quarter),
		fs.GrossProfit, fs.OperatingProfitMargin, fs.PreTaxIncome, fs.NetIncome,
		fs.NetAssetValuePerShare, fs.SalesPerShare, fs.EarningsPerShare,
		fs.ProfitBeforeTax, fs.ReturnOnEquity, fs.ReturnOnAssets)
	if err != nil {
		log.Error().Err(err).Str("symbol", fs.SecurityCode).Msg("error upserting financial statement")
	}
	return err
}

// FinancialStatementsForPeriod returns every row already persisted for
// (year, quarter), used to skip symbols the backfill has already covered
// this run.
func (s *Store) FinancialStatementsForPeriod(ctx context.Context, year int, quarter model.Quarter) ([]model.FinancialStatement, error) {
	const sql = `SELECT * FROM financial_statements WHERE year = $1 AND quarter = $2;`
	var out []model.FinancialStatement
	if err := pgxscan.Select(ctx, s.Pool, &out, sql, year, string(quarter)); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateReturnOnEquity mirrors the latest return-on-equity figure onto
// the Stock master record, which carries its own denormalized copy for
// the estimate/valuation steps that never need the full statement.
func (s *Store) UpdateReturnOnEquity(ctx context.Context, symbol string, roe decimal.Decimal) error {
	const sql = `UPDATE stocks SET return_on_equity = $2 WHERE stock_symbol = $1;`
	_, err := s.Pool.Exec(ctx, sql, symbol, roe)
	return err
}
