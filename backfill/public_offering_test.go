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
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twstock/stockwatch/model"
)

type fakePublicOfferingSource struct {
	windows []model.Public
}

func (f *fakePublicOfferingSource) OpenWindows(ctx context.Context) ([]model.Public, error) {
	return f.windows, nil
}

type fakePublicOfferingStore struct {
	upserted []model.Public
	open     []model.Public
}

func (f *fakePublicOfferingStore) UpsertPublic(ctx context.Context, p model.Public) error {
	f.upserted = append(f.upserted, p)
	return nil
}

func (f *fakePublicOfferingStore) OpenWindows(ctx context.Context, asOf time.Time) ([]model.Public, error) {
	return f.open, nil
}

func TestPublicOfferingReminderReportsOnlyWindowsOpeningToday(t *testing.T) {
	now := time.Now().UTC()
	src := &fakePublicOfferingSource{windows: []model.Public{{StockSymbol: "2330"}}}
	st := &fakePublicOfferingStore{open: []model.Public{
		{StockSymbol: "2330", SubscriptionStart: now, SubscriptionEnd: now.AddDate(0, 0, 5), OfferingPrice: decimal.NewFromInt(50)},
		{StockSymbol: "1101", SubscriptionStart: now.AddDate(0, 0, -3)},
	}}
	notifier := &fakeTraceNotifier{}

	p := &PublicOfferingReminder{Store: st, Source: src, Notifier: notifier, Log: zerolog.Nop()}
	require.NoError(t, p.Run(context.Background()))

	require.Len(t, st.upserted, 1, "every fetched window is upserted regardless of start date")
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "2330")
	assert.NotContains(t, notifier.messages[0], "1101")
}

func TestPublicOfferingReminderSendsNothingWhenNoWindowOpensToday(t *testing.T) {
	src := &fakePublicOfferingSource{}
	st := &fakePublicOfferingStore{open: []model.Public{
		{StockSymbol: "1101", SubscriptionStart: time.Now().UTC().AddDate(0, 0, -3)},
	}}
	notifier := &fakeTraceNotifier{}

	p := &PublicOfferingReminder{Store: st, Source: src, Notifier: notifier, Log: zerolog.Nop()}
	require.NoError(t, p.Run(context.Background()))

	assert.Empty(t, notifier.messages)
}
