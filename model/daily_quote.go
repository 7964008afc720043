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
package model

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DailyQuote is keyed by (StockSymbol, Date). Upserted daily by the closing
// pipeline; mutated only by the moving-average fill and gap-fill steps.
type DailyQuote struct {
	StockSymbol string
	Date        time.Time

	Opening      decimal.Decimal
	Highest      decimal.Decimal
	Lowest       decimal.Decimal
	Closing      decimal.Decimal
	Volume       int64
	TradeValue   decimal.Decimal
	Transaction  int64
	Change       decimal.Decimal
	ChangeRange  decimal.Decimal
	BestBidPrice decimal.Decimal
	BestBidCount int64
	BestAskPrice decimal.Decimal
	BestAskCount int64
	PriceEarning decimal.Decimal

	MovingAverage5   decimal.Decimal
	MovingAverage10  decimal.Decimal
	MovingAverage20  decimal.Decimal
	MovingAverage60  decimal.Decimal
	MovingAverage120 decimal.Decimal
	MovingAverage240 decimal.Decimal

	MaxPriceInYear     decimal.Decimal
	MaxPriceInYearDate time.Time
	MinPriceInYear     decimal.Decimal
	MinPriceInYearDate time.Time
	AvgPriceInYear     decimal.Decimal

	PriceToBookRatio decimal.Decimal
}

// MarshalZerologObject lets a DailyQuote be logged as one structured field.
func (dq *DailyQuote) MarshalZerologObject(e *zerolog.Event) {
	e.Str("symbol", dq.StockSymbol).
		Time("date", dq.Date).
		Str("closing", dq.Closing.String())
}

// LastDailyQuote is the materialized most-recent DailyQuote row per symbol,
// rebuilt atomically by TRUNCATE+INSERT.
type LastDailyQuote struct {
	StockSymbol  string
	Date         time.Time
	Closing      decimal.Decimal
	Change       decimal.Decimal
	ChangeRange  decimal.Decimal
	PriceEarning decimal.Decimal
}
