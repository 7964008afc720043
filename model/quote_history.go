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

// QuoteHistoryRecord is the rolling all-time-extreme record for a symbol,
// keyed by SecurityCode. Updated only when a new observation strictly
// breaks the prior extreme.
type QuoteHistoryRecord struct {
	SecurityCode string

	MaxPrice     decimal.Decimal
	MaxPriceDate time.Time
	MinPrice     decimal.Decimal
	MinPriceDate time.Time

	MaxPbr     decimal.Decimal
	MaxPbrDate time.Time
	MinPbr     decimal.Decimal
	MinPbrDate time.Time
}

// NeedsUpdate reports whether observing (highest, lowest, pbr) would
// break one of this record's extremes, or whether the record's price
// minimum or PBR minimum/maximum is still zero. Comparisons round to 4
// decimal places, matching the source's own rounding.
func (r *QuoteHistoryRecord) NeedsUpdate(highest, lowest, pbr decimal.Decimal) bool {
	const places = 4
	h := highest.Round(places)
	l := lowest.Round(places)
	p := pbr.Round(places)

	if r.MaxPrice.IsZero() && r.MinPrice.IsZero() {
		return true
	}
	if h.GreaterThan(r.MaxPrice.Round(places)) {
		return true
	}
	if r.MinPrice.Round(places).IsZero() || l.LessThan(r.MinPrice.Round(places)) {
		return true
	}
	if r.MaxPbr.Round(places).IsZero() || p.GreaterThan(r.MaxPbr.Round(places)) {
		return true
	}
	if r.MinPbr.Round(places).IsZero() || p.LessThan(r.MinPbr.Round(places)) {
		return true
	}
	return false
}
