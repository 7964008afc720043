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

	"github.com/rs/zerolog"
)

// suspendListingSource is the subset of source.SuspendListingSource the
// delisting sweep needs.
type suspendListingSource interface {
	SuspendedSymbols(ctx context.Context) (map[string]bool, error)
}

// delistingStore is the subset of *store.Store the delisting sweep
// needs.
type delistingStore interface {
	SetSuspended(ctx context.Context, symbols []string) error
}

// Delisting is one of the seven 21:00 parallel backfill jobs:
// marks every symbol the exchange currently reports suspended, a
// one-directional sweep — a symbol resuming trading is re-added by the
// next listings refresh, not by this job.
type Delisting struct {
	Store  delistingStore
	Source suspendListingSource
	Log    zerolog.Logger
}

func (d *Delisting) Name() string { return "delisting_sweep_backfill" }

func (d *Delisting) Run(ctx context.Context) error {
	suspended, err := d.Source.SuspendedSymbols(ctx)
	if err != nil {
		return fmt.Errorf("delisting sweep: fetch: %w", err)
	}
	if len(suspended) == 0 {
		return nil
	}

	symbols := make([]string, 0, len(suspended))
	for symbol := range suspended {
		symbols = append(symbols, symbol)
	}
	return d.Store.SetSuspended(ctx, symbols)
}
