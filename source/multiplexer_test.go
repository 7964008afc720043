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
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	name    string
	fail    bool
	price   decimal.Decimal
	calls   *int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) GetStockPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	return s.price, nil
}

func (s *stubSource) GetStockQuote(ctx context.Context, symbol string) (Quote, error) {
	*s.calls++
	if s.fail {
		return Quote{}, errors.New("permanently down")
	}
	return Quote{Symbol: symbol, Price: s.price}, nil
}

// Scenario C — multiplexer failover.
func TestMultiplexerFailoverScenarioC(t *testing.T) {
	var callsA, callsB, callsC int
	a := &stubSource{name: "A", fail: true, calls: &callsA}
	b := &stubSource{name: "B", fail: true, calls: &callsB}
	c := &stubSource{name: "C", fail: false, price: decimal.NewFromFloat(42.5), calls: &callsC}

	mux := NewMultiplexer(a, b, c)

	q, err := mux.FetchQuote(context.Background(), "2330")
	require.NoError(t, err)
	assert.True(t, q.Price.Equal(decimal.NewFromFloat(42.5)))
	assert.Equal(t, 1, callsA)
	assert.Equal(t, 1, callsB)
	assert.Equal(t, 1, callsC)

	// second call: the counter stands at 3, so slot 0 (A) is tried first
	// again, then B, then C.
	q2, err := mux.FetchQuote(context.Background(), "2330")
	require.NoError(t, err)
	assert.True(t, q2.Price.Equal(decimal.NewFromFloat(42.5)))
	assert.Equal(t, 2, callsA)
	assert.Equal(t, 2, callsB)
	assert.Equal(t, 2, callsC)
}

// Invariant 6 — round-robin slot assignment.
func TestMultiplexerRoundRobinSlots(t *testing.T) {
	var seen []int
	n := 3
	mux := &Multiplexer{}
	for i := 0; i < n*4; i++ {
		slot := int(mux.index.Add(1)-1) % n
		seen = append(seen, slot)
	}
	assert.Equal(t, []int{0, 1, 2, 0, 1, 2, 0, 1, 2, 0, 1, 2}, seen)
}

func TestMultiplexerAllSourcesExhausted(t *testing.T) {
	var calls int
	a := &stubSource{name: "A", fail: true, calls: &calls}
	mux := NewMultiplexer(a)
	_, err := mux.FetchQuote(context.Background(), "2330")
	require.Error(t, err)
	var exhausted *AllSourcesExhausted
	assert.ErrorAs(t, err, &exhausted)
}
