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

	"github.com/shopspring/decimal"
)

// DailyMoneyHistory is the daily portfolio market-value total, one row per
// (Date, Member).
type DailyMoneyHistory struct {
	Date     time.Time
	MemberID string
	MarketValue decimal.Decimal
	Cost        decimal.Decimal
	Profit      decimal.Decimal
}

// DailyMoneyHistoryDetail is the per-symbol breakdown of a
// DailyMoneyHistory row.
type DailyMoneyHistoryDetail struct {
	Date        time.Time
	MemberID    string
	StockSymbol string
	MarketValue decimal.Decimal
	Cost        decimal.Decimal
}

// DailyMoneyHistoryDetailMore is the per-transaction-lot breakdown of a
// DailyMoneyHistoryDetail row.
type DailyMoneyHistoryDetailMore struct {
	Date            time.Time
	MemberID        string
	StockSymbol     string
	TransactionDate time.Time
	MarketValue     decimal.Decimal
	Cost            decimal.Decimal
}

// DailyStockPriceStats is the market-wide valuation/moving-average
// statistics row for a trading day.
type DailyStockPriceStats struct {
	Date             time.Time
	AvgPriceEarning  decimal.Decimal
	AvgPriceToBook   decimal.Decimal
	AdvancingCount   int
	DecliningCount   int
	UnchangedCount   int
}
