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

// Index is keyed by (Date, Category). Appended each trading day.
type Index struct {
	Date        time.Time
	Category    string
	Value       decimal.Decimal
	Change      decimal.Decimal
	TradeValue  decimal.Decimal
	TradeVolume int64
	Transaction int64
}

// Revenue is a monthly revenue observation, mirrored into the reference
// cache for the two most recent months only.
type Revenue struct {
	StockSymbol string
	YearMonth   string // "yyyyMM"
	Income      decimal.Decimal
}
