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

// StockOwnershipDetail is a private-portfolio lot.
type StockOwnershipDetail struct {
	SecurityCode    string
	MemberID        string
	TransactionDate time.Time
	ShareQuantity   int64
	HoldingCost     decimal.Decimal
}

// DividendRecordDetail is a per-lot, per-year accrued dividend record.
type DividendRecordDetail struct {
	SecurityCode    string
	MemberID        string
	TransactionDate time.Time
	Year            int
	CashDividend    decimal.Decimal
	StockDividend   decimal.Decimal
}

// DividendRecordDetailMore carries per-source-dividend-row attribution for
// audit, one row per (DividendRecordDetail, source Dividend row) pair.
type DividendRecordDetailMore struct {
	SecurityCode    string
	MemberID        string
	TransactionDate time.Time
	Year            int
	Quarter         Quarter
	CashDividend    decimal.Decimal
	StockDividend   decimal.Decimal
}
