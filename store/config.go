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
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/twstock/stockwatch/model"
)

// Config reads a watermark by key. A missing key returns the zero-value
// Config with no error, matching the "unset" state model.Config.ParseDate
// already treats as the zero time.
func (s *Store) Config(ctx context.Context, key string) (model.Config, error) {
	const sql = `SELECT * FROM configs WHERE key = $1;`
	var out model.Config
	if err := pgxscan.Get(ctx, s.Pool, &out, sql, key); err != nil {
		if pgxscan.NotFound(err) {
			return model.Config{Key: key}, nil
		}
		return model.Config{}, err
	}
	return out, nil
}

// SetDateIfNewer applies the monotonic-update rule before writing: the
// stored watermark only moves forward, never back.
func (s *Store) SetDateIfNewer(ctx context.Context, key string, newDate time.Time) error {
	current, err := s.Config(ctx, key)
	if err != nil {
		return err
	}
	if !current.ShouldSetDate(newDate) {
		return nil
	}

	const sql = `INSERT INTO configs (key, value) VALUES ($1,$2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value;`
	_, err = s.Pool.Exec(ctx, sql, key, model.FormatDate(newDate))
	return err
}
