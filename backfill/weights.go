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

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// weightsSource is the subset of source.WeightsSource the weights
// refresh needs.
type weightsSource interface {
	Weights(ctx context.Context) (map[string]decimal.Decimal, error)
}

// weightsStore is the subset of *store.Store the weights refresh needs.
type weightsStore interface {
	UpdateIndexWeight(ctx context.Context, symbol string, weight decimal.Decimal) error
}

// Weights is one of the seven 21:00 parallel backfill jobs:
// refreshes every symbol's index weight from Taifex's published futures
// contract weighting table.
type Weights struct {
	Store  weightsStore
	Source weightsSource
	Log    zerolog.Logger
}

func (w *Weights) Name() string { return "weights_refresh_backfill" }

func (w *Weights) Run(ctx context.Context) error {
	weights, err := w.Source.Weights(ctx)
	if err != nil {
		return fmt.Errorf("weights refresh: fetch: %w", err)
	}

	var errs *multierror.Error
	for symbol, weight := range weights {
		if err := w.Store.UpdateIndexWeight(ctx, symbol, weight); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", symbol, err))
		}
	}
	return errs.ErrorOrNil()
}
