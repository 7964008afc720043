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
	"github.com/twstock/stockwatch/model"
)

// CMoney adapts the CMoney financial-data site. Implements EpsSource,
// RevenueSource, and QfiiSource — the primary source for quarterly EPS
// backfill and monthly revenue backfill.
type CMoney struct {
	BaseURL string
}

func NewCMoney() *CMoney {
	return &CMoney{BaseURL: "https://www.cmoney.tw"}
}

type cmoneyEpsRow struct {
	Symbol string `json:"SYMBOL"`
	Eps    string `json:"EPS"`
}

// Eps implements EpsSource.
func (c *CMoney) Eps(ctx context.Context, year int, quarter string) (map[string]decimal.Decimal, error) {
	url := fmt.Sprintf("%s/finance/f00025/%d/%s", c.BaseURL, year, quarter)
	var rows []cmoneyEpsRow
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

type cmoneyRevenueRow struct {
	Symbol string `json:"SYMBOL"`
	Income string `json:"REVENUE"`
}

// Revenue implements RevenueSource.
func (c *CMoney) Revenue(ctx context.Context, yearMonth string) ([]model.Revenue, error) {
	url := fmt.Sprintf("%s/finance/f00026/%s", c.BaseURL, yearMonth)
	var rows []cmoneyRevenueRow
	if err := httpfabric.Get().GetJSON(ctx, url, nil, &rows); err != nil {
		return nil, unavailable(err)
	}
	out := make([]model.Revenue, 0, len(rows))
	for _, r := range rows {
		income, err := decimal.NewFromString(r.Income)
		if err != nil {
			continue
		}
		out = append(out, model.Revenue{StockSymbol: r.Symbol, YearMonth: yearMonth, Income: income})
	}
	return out, nil
}

// Holdings implements QfiiSource.
func (c *CMoney) Holdings(ctx context.Context, symbol string) (int64, decimal.Decimal, error) {
	url := fmt.Sprintf("%s/finance/f00027/%s", c.BaseURL, symbol)
	var resp struct {
		Shares  int64  `json:"QFII_SHARES"`
		Percent string `json:"QFII_PERCENT"`
	}
	if err := httpfabric.Get().GetJSON(ctx, url, nil, &resp); err != nil {
		return 0, decimal.Zero, unavailable(err)
	}
	pct, err := decimal.NewFromString(resp.Percent)
	if err != nil {
		return 0, decimal.Zero, parseFailed("qfii percent: " + err.Error())
	}
	return resp.Shares, pct, nil
}
