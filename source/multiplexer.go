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
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// Multiplexer rotates across an ordered list of QuoteSource
// implementations to distribute load and tolerate single-source
// outages. The rotating cursor must be a true atomic with total
// ordering — each caller gets a distinct slot index, not merely an
// absolute monotonic guarantee.
type Multiplexer struct {
	sites []QuoteSource
	index atomic.Uint64
}

// NewMultiplexer builds a Multiplexer over the given ordered sites.
func NewMultiplexer(sites ...QuoteSource) *Multiplexer {
	return &Multiplexer{sites: sites}
}

// AllSourcesExhausted is returned when every registered source failed for
// one fetch attempt.
type AllSourcesExhausted struct {
	Symbol string
}

func (e *AllSourcesExhausted) Error() string {
	return fmt.Sprintf("all sources exhausted for %s", e.Symbol)
}

// FetchQuote tries each registered source once, starting from the next
// slot of the shared rotating counter, and returns the first success.
func (m *Multiplexer) FetchQuote(ctx context.Context, symbol string) (Quote, error) {
	n := len(m.sites)
	if n == 0 {
		return Quote{}, &AllSourcesExhausted{Symbol: symbol}
	}
	for i := 0; i < n; i++ {
		slot := int(m.index.Add(1)-1) % n
		site := m.sites[slot]
		q, err := site.GetStockQuote(ctx, symbol)
		if err == nil {
			return q, nil
		}
		log.Debug().Err(err).Str("source", site.Name()).Str("symbol", symbol).Msg("quote source failed, advancing multiplexer")
	}
	return Quote{}, &AllSourcesExhausted{Symbol: symbol}
}
