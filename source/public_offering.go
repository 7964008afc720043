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
	"github.com/twstock/stockwatch/model"
)

// OpenWindows implements PublicOfferingSource for TWSE, supplemented from
// crawler/twse/public.rs, feeding the Public table and the 00:00
// public-offering-window reminder job.
func (t *TWSE) OpenWindows(ctx context.Context) ([]model.Public, error) {
	url := t.BaseURL + "/announcement/publicOffering"
	var rows []struct {
		Symbol        string `json:"Code"`
		SubStart      string `json:"SubStart"`
		SubEnd        string `json:"SubEnd"`
		DrawingDate   string `json:"DrawingDate"`
		IssueDate     string `json:"IssueDate"`
		OfferingPrice string `json:"OfferingPrice"`
	}
	if err := httpfabric.Get().GetJSON(ctx, url, nil, &rows); err != nil {
		return nil, unavailable(err)
	}

	out := make([]model.Public, 0, len(rows))
	for _, r := range rows {
		price, err := decimal.NewFromString(r.OfferingPrice)
		if err != nil {
			continue
		}
		start, err1 := parseTwseDate(r.SubStart)
		end, err2 := parseTwseDate(r.SubEnd)
		drawing, err3 := parseTwseDate(r.DrawingDate)
		issue, err4 := parseTwseDate(r.IssueDate)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		out = append(out, model.Public{
			StockSymbol:       r.Symbol,
			SubscriptionStart: start,
			SubscriptionEnd:   end,
			DrawingDate:       drawing,
			OfferingPrice:     price,
			IssueDate:         issue,
		})
	}
	return out, nil
}
