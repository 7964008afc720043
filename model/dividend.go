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

import "github.com/shopspring/decimal"

// Quarter enumerates the dividend period granularity. Empty means the
// annual-total row.
type Quarter string

const (
	QuarterAnnual Quarter = ""
	QuarterQ1     Quarter = "Q1"
	QuarterQ2     Quarter = "Q2"
	QuarterQ3     Quarter = "Q3"
	QuarterQ4     Quarter = "Q4"
	QuarterH1     Quarter = "H1"
	QuarterH2     Quarter = "H2"
)

// NotYetAnnounced is the literal sentinel the source publishes for unknown
// ex-dividend/payable dates.
const NotYetAnnounced = "尚未公布"

// Dividend is keyed by (SecurityCode, Year, Quarter).
type Dividend struct {
	SecurityCode  string
	Year          int
	YearOfDividend int
	Quarter       Quarter

	CashEarnings       decimal.Decimal
	CashCapitalReserve decimal.Decimal
	CashTotal          decimal.Decimal
	StockEarnings      decimal.Decimal
	StockCapitalReserve decimal.Decimal
	StockTotal         decimal.Decimal
	Sum                decimal.Decimal

	CashPayoutRatio  decimal.Decimal
	StockPayoutRatio decimal.Decimal

	ExDividendDate1  string
	ExDividendDate2  string
	PayableDate1     string
	PayableDate2     string
}

// IsUnannounced reports whether any of the four date fields still carries
// the "not yet announced" sentinel.
func (d *Dividend) IsUnannounced() bool {
	return d.ExDividendDate1 == NotYetAnnounced || d.ExDividendDate2 == NotYetAnnounced ||
		d.PayableDate1 == NotYetAnnounced || d.PayableDate2 == NotYetAnnounced
}

// Key identifies a dividend row for dedup purposes.
type DividendKey struct {
	SecurityCode   string
	YearOfDividend int
	Quarter        Quarter
}

func (d *Dividend) Key() DividendKey {
	return DividendKey{SecurityCode: d.SecurityCode, YearOfDividend: d.YearOfDividend, Quarter: d.Quarter}
}

// DividendDetail is the normalized shape a DividendSource adapter returns,
// prior to being matched against existing rows and upserted.
type DividendDetail struct {
	Dividend
}
