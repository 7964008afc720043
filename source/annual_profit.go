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
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/twstock/stockwatch/httpfabric"
)

// FBS adapts the FBS securities annual-profit publication. Implements
// AnnualProfitSource, supplemented from crawler/fbs/annual_profit.rs and
// wired into the 21:00 annual-EPS backfill.
type FBS struct {
	BaseURL string
}

func NewFBS() *FBS {
	return &FBS{BaseURL: "https://www.fbs.com.tw"}
}

type fbsAnnualProfitRow struct {
	Symbol string `json:"Symbol"`
	Eps    string `json:"EPS"`
}

// AnnualProfit implements AnnualProfitSource.
func (f *FBS) AnnualProfit(ctx context.Context, year int) (map[string]decimal.Decimal, error) {
	url := fmt.Sprintf("%s/z/zc/zca/zca_%d.djhtm", f.BaseURL, year)
	var rows []fbsAnnualProfitRow
	if err := httpfabric.Get().GetJSON(ctx, url, nil, &rows); err != nil {
		return nil, unavailable(err)
	}

	out := make(map[string]decimal.Decimal, len(rows))
	for _, r := range rows {
		eps, err := decimal.NewFromString(r.Eps)
		if err != nil {
			continue
		}
		out[r.Symbol] = eps
	}
	return out, nil
}
