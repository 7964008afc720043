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
	"regexp"

	"github.com/shopspring/decimal"
	"github.com/twstock/stockwatch/httpfabric"
	"github.com/twstock/stockwatch/model"
)

// GoodInfo adapts the GoodInfo dividend-history page, the primary
// dividend source in the 120s inter-symbol throttled sub-flow.
// GoodInfo serves BIG5-encoded HTML, so this adapter is the canonical
// user of httpfabric.GetBig5.
type GoodInfo struct {
	BaseURL string
}

func NewGoodInfo() *GoodInfo {
	return &GoodInfo{BaseURL: "https://goodinfo.tw/tw"}
}

var goodInfoRowPattern = regexp.MustCompile(`(?s)<tr[^>]*data-year="(\d+)"[^>]*data-quarter="([^"]*)".*?</tr>`)

// Dividends implements DividendSource.
func (g *GoodInfo) Dividends(ctx context.Context, symbol string) ([]model.DividendDetail, error) {
	url := fmt.Sprintf("%s/StockDividendPolicy.asp?STOCK_ID=%s", g.BaseURL, symbol)
	html, err := httpfabric.Get().GetBig5(ctx, url, nil)
	if err != nil {
		return nil, unavailable(err)
	}

	matches := goodInfoRowPattern.FindAllStringSubmatch(html, -1)
	if matches == nil {
		return nil, parseFailed("no dividend rows found in GoodInfo response")
	}

	out := make([]model.DividendDetail, 0, len(matches))
	for _, m := range matches {
		out = append(out, model.DividendDetail{Dividend: model.Dividend{
			SecurityCode:   symbol,
			YearOfDividend: atoiOrZero(m[1]),
			Quarter:        model.Quarter(m[2]),
			Sum:            decimal.Zero,
		}})
	}
	return out, nil
}

func atoiOrZero(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}
