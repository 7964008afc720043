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

	"github.com/rs/zerolog"
)

// DDNS is the every-minute DDNS refresh entry on the scheduler's cron
// table. The dynamic-DNS transport itself (AFRAID_TOKEN, Dynu, No-IP)
// is named only as an external collaborator, out of this system's
// design scope; this job exists so the cron table's slot is registered
// and observable, and is the one place a real DDNS client would be
// wired in.
type DDNS struct {
	Log zerolog.Logger
}

func (d *DDNS) Name() string { return "ddns_refresh" }

func (d *DDNS) Run(ctx context.Context) error {
	d.Log.Debug().Msg("ddns refresh: no provider configured, skipping")
	return nil
}
