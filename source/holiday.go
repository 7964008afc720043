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
package source

import (
	"context"
	"fmt"
	"time"

	"github.com/twstock/stockwatch/httpfabric"
)

// Holidays implements HolidaySource for TWSE, ported from
// twse/holiday_schedule.rs — every backfill job that reasons about
// "is today a trading day" needs it.
func (t *TWSE) Holidays(ctx context.Context, year int) ([]time.Time, error) {
	url := fmt.Sprintf("%s/holidaySchedule/holidaySchedule?year=%d", t.BaseURL, year)
	var rows []struct {
		Date string `json:"Date"`
	}
	if err := httpfabric.Get().GetJSON(ctx, url, nil, &rows); err != nil {
		return nil, unavailable(err)
	}

	out := make([]time.Time, 0, len(rows))
	for _, r := range rows {
		d, err := time.Parse("20060102", r.Date)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}
