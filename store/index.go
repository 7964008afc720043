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
package store

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/twstock/stockwatch/model"
)

// UpsertIndex appends (or updates, if re-run) an Index row.
func (s *Store) UpsertIndex(ctx context.Context, idx model.Index) error {
	const sql = `INSERT INTO indices (date, category, value, change, trade_value, trade_volume, transaction_count)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (date, category) DO UPDATE SET
			value = EXCLUDED.value, change = EXCLUDED.change,
			trade_value = EXCLUDED.trade_value, trade_volume = EXCLUDED.trade_volume,
			transaction_count = EXCLUDED.transaction_count;`

	_, err := s.Pool.Exec(ctx, sql, idx.Date, idx.Category, idx.Value, idx.Change, idx.TradeValue,
		idx.TradeVolume, idx.Transaction)
	if err != nil {
		log.Error().Err(err).Str("category", idx.Category).Msg("error upserting index")
	}
	return err
}
