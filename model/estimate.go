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

// Estimate is the valuation-band row keyed by (Date, SecurityCode),
// recomputed by the closing pipeline.
type Estimate struct {
	Date         time.Time
	SecurityCode string

	CheapPrice     decimal.Decimal
	FairPrice      decimal.Decimal
	ExpensivePrice decimal.Decimal

	PricePercentileCheap     decimal.Decimal
	PricePercentileFair      decimal.Decimal
	PricePercentileExpensive decimal.Decimal

	DividendCheap     decimal.Decimal
	DividendFair      decimal.Decimal
	DividendExpensive decimal.Decimal

	EpsPayoutCheap     decimal.Decimal
	EpsPayoutFair      decimal.Decimal
	EpsPayoutExpensive decimal.Decimal

	PbrCheap     decimal.Decimal
	PbrFair      decimal.Decimal
	PbrExpensive decimal.Decimal

	PerCheap     decimal.Decimal
	PerFair      decimal.Decimal
	PerExpensive decimal.Decimal

	YearCount int
}

// YieldRank is the per-symbol dividend-yield percentile rank for a trading
// day, rebuilt by the closing pipeline's "rebuild YieldRank" step.
type YieldRank struct {
	Date            time.Time
	StockSymbol     string
	DividendYield   decimal.Decimal
	PercentileRank  decimal.Decimal
}
