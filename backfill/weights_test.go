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
package backfill

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWeightsSource struct {
	rows map[string]decimal.Decimal
	err  error
}

func (f *fakeWeightsSource) Weights(ctx context.Context) (map[string]decimal.Decimal, error) {
	return f.rows, f.err
}

type fakeWeightsStore struct {
	updated map[string]decimal.Decimal
	failFor map[string]bool
}

func newFakeWeightsStore() *fakeWeightsStore {
	return &fakeWeightsStore{updated: map[string]decimal.Decimal{}}
}

func (f *fakeWeightsStore) UpdateIndexWeight(ctx context.Context, symbol string, weight decimal.Decimal) error {
	if f.failFor[symbol] {
		return errors.New("update failed")
	}
	f.updated[symbol] = weight
	return nil
}

func TestWeightsRunUpdatesEverySymbol(t *testing.T) {
	src := &fakeWeightsSource{rows: map[string]decimal.Decimal{"2330": decimal.NewFromFloat(0.28)}}
	st := newFakeWeightsStore()

	w := &Weights{Store: st, Source: src, Log: zerolog.Nop()}
	require.NoError(t, w.Run(context.Background()))

	assert.True(t, st.updated["2330"].Equal(decimal.NewFromFloat(0.28)))
}

func TestWeightsRunReturnsErrorOnFetchFailure(t *testing.T) {
	src := &fakeWeightsSource{err: errors.New("fetch failed")}
	st := newFakeWeightsStore()

	w := &Weights{Store: st, Source: src, Log: zerolog.Nop()}
	err := w.Run(context.Background())

	assert.Error(t, err)
}

func TestWeightsRunCollectsPerSymbolUpdateFailures(t *testing.T) {
	src := &fakeWeightsSource{rows: map[string]decimal.Decimal{
		"2330": decimal.NewFromFloat(0.28), "1101": decimal.NewFromFloat(0.02),
	}}
	st := newFakeWeightsStore()
	st.failFor = map[string]bool{"1101": true}

	w := &Weights{Store: st, Source: src, Log: zerolog.Nop()}
	err := w.Run(context.Background())

	require.Error(t, err)
	assert.True(t, st.updated["2330"].Equal(decimal.NewFromFloat(0.28)))
	assert.NotContains(t, st.updated, "1101")
}
