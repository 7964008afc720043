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

// FinancialStatement is keyed by (SecurityCode, Year, Quarter). Quarter is
// empty for the annual roll-up row, matching Dividend's convention.
// Ported from original_source's database/table/financial_statement.rs to
// back the 20:00/21:00 backfill cron entries.
type FinancialStatement struct {
	SecurityCode string
	Year         int
	Quarter      Quarter

	GrossProfit           decimal.Decimal
	OperatingProfitMargin decimal.Decimal
	PreTaxIncome          decimal.Decimal
	NetIncome             decimal.Decimal
	NetAssetValuePerShare decimal.Decimal
	SalesPerShare         decimal.Decimal
	EarningsPerShare      decimal.Decimal
	ProfitBeforeTax       decimal.Decimal
	ReturnOnEquity        decimal.Decimal
	ReturnOnAssets        decimal.Decimal
}
