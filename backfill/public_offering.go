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
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/twstock/stockwatch/model"
)

// publicOfferingSource is the subset of source.PublicOfferingSource the
// reminder needs.
type publicOfferingSource interface {
	OpenWindows(ctx context.Context) ([]model.Public, error)
}

// publicOfferingStore is the subset of *store.Store the reminder needs.
type publicOfferingStore interface {
	UpsertPublic(ctx context.Context, p model.Public) error
	OpenWindows(ctx context.Context, asOf time.Time) ([]model.Public, error)
}

// PublicOfferingReminder runs the 00:00 public-offering-window reminder
// refreshes the open-window table from TWSE, then reports
// every window whose subscription period opens today.
type PublicOfferingReminder struct {
	Store    publicOfferingStore
	Source   publicOfferingSource
	Notifier traceNotifier
	Log      zerolog.Logger
}

func (p *PublicOfferingReminder) Name() string { return "public_offering_window_reminder" }

func (p *PublicOfferingReminder) Run(ctx context.Context) error {
	windows, err := p.Source.OpenWindows(ctx)
	if err != nil {
		return fmt.Errorf("public offering reminder: fetch: %w", err)
	}

	var errs *multierror.Error
	for _, w := range windows {
		if err := p.Store.UpsertPublic(ctx, w); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", w.StockSymbol, err))
		}
	}

	now := time.Now().UTC()
	open, err := p.Store.OpenWindows(ctx, now)
	if err != nil {
		errs = multierror.Append(errs, fmt.Errorf("open windows: %w", err))
		return errs.ErrorOrNil()
	}

	today := now.Format("2006-01-02")
	var msg string
	for _, w := range open {
		if w.SubscriptionStart.Format("2006-01-02") == today {
			msg += fmt.Sprintf("%s: subscription opens today, ends %s, offering price %s\n",
				w.StockSymbol, w.SubscriptionEnd.Format("2006-01-02"), w.OfferingPrice.String())
		}
	}
	if msg != "" && p.Notifier != nil {
		if err := p.Notifier.Send("public offering windows opening today:\n" + msg); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	return errs.ErrorOrNil()
}
