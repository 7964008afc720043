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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSuspendListingSource struct {
	suspended map[string]bool
	err       error
}

func (f *fakeSuspendListingSource) SuspendedSymbols(ctx context.Context) (map[string]bool, error) {
	return f.suspended, f.err
}

type fakeDelistingStore struct {
	calledWith []string
	called     bool
}

func (f *fakeDelistingStore) SetSuspended(ctx context.Context, symbols []string) error {
	f.called = true
	f.calledWith = symbols
	return nil
}

func TestDelistingSweepSetsSuspendedSymbols(t *testing.T) {
	src := &fakeSuspendListingSource{suspended: map[string]bool{"1234": true}}
	st := &fakeDelistingStore{}

	d := &Delisting{Store: st, Source: src, Log: zerolog.Nop()}
	err := d.Run(context.Background())

	require.NoError(t, err)
	require.True(t, st.called)
	assert.Equal(t, []string{"1234"}, st.calledWith)
}

func TestDelistingSweepSkipsStoreCallWhenNothingSuspended(t *testing.T) {
	src := &fakeSuspendListingSource{suspended: map[string]bool{}}
	st := &fakeDelistingStore{}

	d := &Delisting{Store: st, Source: src, Log: zerolog.Nop()}
	require.NoError(t, d.Run(context.Background()))

	assert.False(t, st.called, "an empty suspended set should not touch the store")
}

func TestDelistingSweepReturnsErrorOnFetchFailure(t *testing.T) {
	src := &fakeSuspendListingSource{err: errors.New("fetch failed")}
	st := &fakeDelistingStore{}

	d := &Delisting{Store: st, Source: src, Log: zerolog.Nop()}
	err := d.Run(context.Background())

	assert.Error(t, err)
}
