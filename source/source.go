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

// Package source defines the per-site adapter capabilities and the
// multiplexer/limiter that sit on top of them. Adapters are
// schema-specific but share one rule: they use only httpfabric, never
// touch the database, and surface either strongly typed domain records
// or a *SourceError. The single Provider/Dataset-style interface this
// grew from is split here into narrower single-purpose capability
// interfaces, one per data kind a site can serve.
package source

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/twstock/stockwatch/model"
)

// Reason enumerates the SourceError taxonomy shared by every adapter.
type Reason string

const (
	ReasonUnavailable Reason = "unavailable"
	ReasonRateLimited Reason = "rate_limited"
	ReasonParseFailed Reason = "parse_failed"
)

// SourceError is returned by every adapter method instead of a bare error,
// so callers can distinguish transient, rate-limit, and parse failures.
type SourceError struct {
	Reason Reason
	Detail string
	Err    error
}

func (e *SourceError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("source error (%s): %s", e.Reason, e.Detail)
	}
	return fmt.Sprintf("source error (%s)", e.Reason)
}

func (e *SourceError) Unwrap() error { return e.Err }

func unavailable(err error) *SourceError {
	return &SourceError{Reason: ReasonUnavailable, Err: err, Detail: errString(err)}
}

func rateLimited(detail string) *SourceError {
	return &SourceError{Reason: ReasonRateLimited, Detail: detail}
}

func parseFailed(detail string) *SourceError {
	return &SourceError{Reason: ReasonParseFailed, Detail: detail}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Quote is the normalized real-time quote shape.
type Quote struct {
	Symbol       string
	Price        decimal.Decimal
	Change       decimal.Decimal
	ChangeRange  decimal.Decimal
}

// QuoteSource is implemented by any adapter that can answer live price
// and quote requests. The multiplexer fans out over a list of these.
type QuoteSource interface {
	Name() string
	GetStockPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	GetStockQuote(ctx context.Context, symbol string) (Quote, error)
}

// ListingsSource lists all tradeable instruments for a market.
type ListingsSource interface {
	List(ctx context.Context, market model.Market) ([]model.Listing, error)
}

// DailyQuoteSource fetches the full day's closing quotes for one exchange.
type DailyQuoteSource interface {
	FetchClosing(ctx context.Context, date time.Time) ([]model.DailyQuote, error)
}

// DividendSource fetches all known dividend detail rows for one symbol.
type DividendSource interface {
	Dividends(ctx context.Context, symbol string) ([]model.DividendDetail, error)
}

// RevenueSource fetches monthly revenue observations for a year-month.
type RevenueSource interface {
	Revenue(ctx context.Context, yearMonth string) ([]model.Revenue, error)
}

// WeightsSource fetches per-symbol index weights.
type WeightsSource interface {
	Weights(ctx context.Context) (map[string]decimal.Decimal, error)
}

// EpsSource fetches per-symbol EPS observations for a quarter.
type EpsSource interface {
	Eps(ctx context.Context, year int, quarter string) (map[string]decimal.Decimal, error)
}

// HolidaySource fetches the market holiday calendar for a year.
type HolidaySource interface {
	Holidays(ctx context.Context, year int) ([]time.Time, error)
}

// SuspendListingSource fetches the set of currently suspended symbols.
type SuspendListingSource interface {
	SuspendedSymbols(ctx context.Context) (map[string]bool, error)
}

// NavSource fetches net-asset-value-per-share for emerging-market symbols.
type NavSource interface {
	NetAssetValue(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// QfiiSource fetches qualified-foreign-institutional-investor holdings.
type QfiiSource interface {
	Holdings(ctx context.Context, symbol string) (shares int64, percent decimal.Decimal, err error)
}

// PublicOfferingSource fetches open new-listing subscription windows.
type PublicOfferingSource interface {
	OpenWindows(ctx context.Context) ([]model.Public, error)
}

// AnnualProfitSource fetches annual EPS/profit rows, supplemented from
// crawler/fbs/annual_profit.rs.
type AnnualProfitSource interface {
	AnnualProfit(ctx context.Context, year int) (map[string]decimal.Decimal, error)
}

// FinancialStatementSource fetches full quarterly (or, with quarter set
// to the empty string, annual) financial-statement rows, supplemented
// from original_source's database/table/financial_statement.rs.
type FinancialStatementSource interface {
	FinancialStatements(ctx context.Context, year int, quarter string) ([]model.FinancialStatement, error)
}
