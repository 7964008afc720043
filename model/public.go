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

// Public is the new-listing subscription window, keyed by StockSymbol.
// Supplemented from crawler/twse/public.rs; consumed once per window by
// the 00:00 public-offering-window reminder job.
type Public struct {
	StockSymbol       string
	SubscriptionStart time.Time
	SubscriptionEnd   time.Time
	DrawingDate       time.Time
	OfferingPrice     decimal.Decimal
	IssueDate         time.Time
}
