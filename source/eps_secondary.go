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

// Wespai adapts a second, independent quarterly-EPS publication.
// Supplemented from internal/crawler/wespai/profit.rs. It is the
// quarterly-EPS backfill job's Secondary source behind CMoney, so a
// single upstream schema change doesn't stall EPS updates.
type Wespai struct {
	BaseURL string
}

func NewWespai() *Wespai {
	return &Wespai{BaseURL: "https://www.wespai.com"}
}

type wespaiEpsRow struct {
	Symbol string `json:"stock_id"`
	Eps    string `json:"eps"`
}

// Eps implements EpsSource.
func (w *Wespai) Eps(ctx context.Context, year int, quarter string) (map[string]decimal.Decimal, error) {
	url := fmt.Sprintf("%s/api/eps?year=%d&quarter=%s", w.BaseURL, year, quarter)
	var rows []wespaiEpsRow
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
