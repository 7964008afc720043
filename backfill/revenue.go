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

// revenueSource is the subset of source.RevenueSource the revenue
// backfill needs.
type revenueSource interface {
	Revenue(ctx context.Context, yearMonth string) ([]model.Revenue, error)
}

// revenueStore is the subset of *store.Store the revenue backfill needs.
type revenueStore interface {
	UpsertRevenue(ctx context.Context, r model.Revenue) error
}

// Revenue is one of the seven 21:00 parallel backfill jobs:
// the current month's monthly revenue figures, published a few days
// into the following month, so the backfill always targets the prior
// calendar month.
type Revenue struct {
	Store  revenueStore
	Source revenueSource
	Log    zerolog.Logger
}

func (r *Revenue) Name() string { return "monthly_revenue_backfill" }

func (r *Revenue) Run(ctx context.Context) error {
	yearMonth := time.Now().UTC().AddDate(0, -1, 0).Format("200601")

	rows, err := r.Source.Revenue(ctx, yearMonth)
	if err != nil {
		return fmt.Errorf("revenue backfill: fetch %s: %w", yearMonth, err)
	}

	var errs *multierror.Error
	for _, row := range rows {
		if err := r.Store.UpsertRevenue(ctx, row); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", row.StockSymbol, err))
		}
	}
	return errs.ErrorOrNil()
}
