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

type fakeNavSource struct {
	values map[string]decimal.Decimal
	fail   map[string]bool
	calls  []string
}

func (f *fakeNavSource) NetAssetValue(ctx context.Context, symbol string) (decimal.Decimal, error) {
	f.calls = append(f.calls, symbol)
	if f.fail[symbol] {
		return decimal.Zero, errors.New("fetch failed")
	}
	return f.values[symbol], nil
}

type fakeNavStore struct {
	emerging []string
	zeroNav  []string
	updated  map[string]decimal.Decimal
	failSave map[string]bool
}

func newFakeNavStore() *fakeNavStore {
	return &fakeNavStore{updated: make(map[string]decimal.Decimal)}
}

func (f *fakeNavStore) EmergingSymbols(ctx context.Context) ([]string, error) { return f.emerging, nil }
func (f *fakeNavStore) ZeroNavSymbols(ctx context.Context) ([]string, error)  { return f.zeroNav, nil }

func (f *fakeNavStore) UpdateNav(ctx context.Context, symbol string, nav decimal.Decimal) error {
	if f.failSave[symbol] {
		return errors.New("save failed")
	}
	f.updated[symbol] = nav
	return nil
}

func TestNavRunUpdatesAllEmergingSymbolsAndCollectsFailures(t *testing.T) {
	src := &fakeNavSource{
		values: map[string]decimal.Decimal{"6598": decimal.NewFromInt(15)},
		fail:   map[string]bool{"1565": true},
	}
	st := newFakeNavStore()
	st.emerging = []string{"6598", "1565"}

	n := &Nav{Store: st, Source: src, Log: zerolog.Nop()}
	err := n.Run(context.Background())

	require.Error(t, err, "one symbol failed so the batch reports an error")
	assert.True(t, st.updated["6598"].Equal(decimal.NewFromInt(15)))
	assert.NotContains(t, st.updated, "1565")
}

func TestNavRunSucceedsWhenNoSymbolsFail(t *testing.T) {
	src := &fakeNavSource{values: map[string]decimal.Decimal{"6598": decimal.NewFromInt(15)}}
	st := newFakeNavStore()
	st.emerging = []string{"6598"}

	n := &Nav{Store: st, Source: src, Log: zerolog.Nop()}
	err := n.Run(context.Background())

	require.NoError(t, err)
}

func TestZeroNavRescanOnlySavesNonZeroResults(t *testing.T) {
	src := &fakeNavSource{values: map[string]decimal.Decimal{
		"2330": decimal.NewFromInt(0),
		"2317": decimal.NewFromInt(12),
	}}
	st := newFakeNavStore()
	st.zeroNav = []string{"2330", "2317"}

	z := &ZeroNavRescan{Store: st, Source: src, Log: zerolog.Nop()}
	err := z.Run(context.Background())

	require.NoError(t, err)
	assert.NotContains(t, st.updated, "2330", "still-zero results must not overwrite the row")
	assert.True(t, st.updated["2317"].Equal(decimal.NewFromInt(12)))
}

func TestZeroNavRescanCollectsFetchFailures(t *testing.T) {
	src := &fakeNavSource{fail: map[string]bool{"2330": true}}
	st := newFakeNavStore()
	st.zeroNav = []string{"2330"}

	z := &ZeroNavRescan{Store: st, Source: src, Log: zerolog.Nop()}
	err := z.Run(context.Background())

	assert.Error(t, err)
}
