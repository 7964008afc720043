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

type twseFinancialStatementRow struct {
	Symbol                string `json:"Code"`
	GrossProfit           string `json:"GrossProfit"`
	OperatingProfitMargin string `json:"OperatingProfitMargin"`
	PreTaxIncome          string `json:"PreTaxIncome"`
	NetIncome             string `json:"NetIncome"`
	NetAssetValuePerShare string `json:"NetValue"`
	SalesPerShare         string `json:"SalesPerShare"`
	EarningsPerShare      string `json:"EPS"`
	ProfitBeforeTax       string `json:"ProfitBeforeTax"`
	ReturnOnEquity        string `json:"ROE"`
	ReturnOnAssets        string `json:"ROA"`
}

// FinancialStatements implements FinancialStatementSource for TWSE. An
// empty quarter requests the annual roll-up report; any other value
// ("Q1".."Q4") requests that quarter's report.
func (t *TWSE) FinancialStatements(ctx context.Context, year int, quarter string) ([]model.FinancialStatement, error) {
	url := fmt.Sprintf("%s/financialReport/%d/%s", t.BaseURL, year, quarter)
	var rows []twseFinancialStatementRow
	if err := httpfabric.Get().GetJSON(ctx, url, nil, &rows); err != nil {
		return nil, unavailable(err)
	}

	out := make([]model.FinancialStatement, 0, len(rows))
	for _, r := range rows {
		fs := model.FinancialStatement{
			SecurityCode:          r.Symbol,
			Year:                  year,
			Quarter:               model.Quarter(quarter),
			GrossProfit:           decimalOrZero(r.GrossProfit),
			OperatingProfitMargin: decimalOrZero(r.OperatingProfitMargin),
			PreTaxIncome:          decimalOrZero(r.PreTaxIncome),
			NetIncome:             decimalOrZero(r.NetIncome),
			NetAssetValuePerShare: decimalOrZero(r.NetAssetValuePerShare),
			SalesPerShare:         decimalOrZero(r.SalesPerShare),
			EarningsPerShare:      decimalOrZero(r.EarningsPerShare),
			ProfitBeforeTax:       decimalOrZero(r.ProfitBeforeTax),
			ReturnOnEquity:        decimalOrZero(r.ReturnOnEquity),
			ReturnOnAssets:        decimalOrZero(r.ReturnOnAssets),
		}
		out = append(out, fs)
	}
	return out, nil
}

func decimalOrZero(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
