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
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Stock is the master record for a tradeable symbol. Created by the
// listings backfill; mutated by listings, NAV, EPS/ROE, and delisting
// jobs; never deleted.
type Stock struct {
	StockSymbol string
	Name        string
	Suspended   bool
	Market      Market
	IndustryID  int

	NetAssetValuePerShare decimal.Decimal
	EpsLastFourQuarters   decimal.Decimal
	EpsLastQuarter        decimal.Decimal
	ReturnOnEquity        decimal.Decimal
	IndexWeight           decimal.Decimal

	IssuedShares       int64
	ForeignHoldShares  int64
	ForeignHoldPercent decimal.Decimal
}

// MarshalZerologObject lets a Stock be logged as a single structured field.
func (s *Stock) MarshalZerologObject(e *zerolog.Event) {
	e.Str("symbol", s.StockSymbol).
		Str("name", s.Name).
		Bool("suspended", s.Suspended).
		Str("market", s.Market.String())
}

// Listing is the normalized shape returned by a ListingsSource adapter.
type Listing struct {
	Symbol   string
	Name     string
	ISIN     string
	Industry string
	Exchange Exchange
	Market   Market
}
