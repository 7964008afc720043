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
package source

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/twstock/stockwatch/httpfabric"
)

// Taifex adapts the Taiwan Futures Exchange's index-weight publication.
// Implements WeightsSource, supplemented from taifex/stock_weight.rs and
// wired to the daily 21:00 weights-refresh backfill job.
type Taifex struct {
	BaseURL string
}

func NewTaifex() *Taifex {
	return &Taifex{BaseURL: "https://www.taifex.com.tw"}
}

type taifexWeightRow struct {
	Symbol string `json:"Symbol"`
	Weight string `json:"Weight"`
}

// Weights implements WeightsSource.
func (t *Taifex) Weights(ctx context.Context) (map[string]decimal.Decimal, error) {
	url := t.BaseURL + "/cht/3/futContractsWeight"
	var rows []taifexWeightRow
	if err := httpfabric.Get().GetJSON(ctx, url, nil, &rows); err != nil {
		return nil, unavailable(err)
	}

	out := make(map[string]decimal.Decimal, len(rows))
	for _, r := range rows {
		w, err := decimal.NewFromString(r.Weight)
		if err != nil {
			continue
		}
		out[r.Symbol] = w
	}
	return out, nil
}
