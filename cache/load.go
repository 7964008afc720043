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
package cache

import (
	"context"
	"fmt"

	"github.com/twstock/stockwatch/model"
	"github.com/twstock/stockwatch/store"
)

// Load pulls mutable state from the store on process startup: every
// stock, every rolling quote-history record, and revenue rows for the
// two most recent year-months. Dictionaries (industries/markets) are
// seeded separately via LoadDictionaries; the industry dictionary is
// also grown at runtime by RegisterIndustry.
func (r *Reference) Load(ctx context.Context, s *store.Store) error {
	stocks, err := s.Stocks(ctx, true)
	if err != nil {
		return fmt.Errorf("cache: load stocks: %w", err)
	}
	for _, stock := range stocks {
		r.SetStock(stock)
	}

	history, err := s.AllQuoteHistory(ctx)
	if err != nil {
		return fmt.Errorf("cache: load quote history: %w", err)
	}
	for _, h := range history {
		r.SetQuoteHistory(h)
	}

	revenues, err := s.RecentRevenues(ctx)
	if err != nil {
		return fmt.Errorf("cache: load revenues: %w", err)
	}

	byMonth := make(map[string]map[string]model.Revenue)
	for _, rev := range revenues {
		month, ok := byMonth[rev.YearMonth]
		if !ok {
			month = make(map[string]model.Revenue)
			byMonth[rev.YearMonth] = month
		}
		month[rev.StockSymbol] = rev
	}
	for yearMonth, month := range byMonth {
		r.SetRevenues(yearMonth, month)
	}

	return nil
}
