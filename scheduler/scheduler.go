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

// Package scheduler is a thin wrapper over robfig/cron/v3, adapted from
// aristath-sentinel/trader-go/internal/scheduler/scheduler.go: a Job
// interface, a try/log shim installed in AddJob so one failing job never
// crashes the process, and second-precision cron expressions.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is one registered unit of scheduled work. Run receives a fresh
// context per tick; implementations are responsible for their own
// internal timeout/cancellation.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler owns the cron loop.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

// New creates a Scheduler with second-precision cron parsing.
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// Start begins executing registered jobs on their schedules.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop waits for running jobs to finish and halts the cron loop.
func (s *Scheduler) Stop() {
	done := s.cron.Stop()
	<-done.Done()
	s.log.Info().Msg("scheduler stopped")
}

// AddJob registers job on the given 6-field (second-precision) cron
// expression. Every job body is wrapped so a panic or error is logged
// rather than propagated.
func (s *Scheduler) AddJob(expr string, job Job) error {
	_, err := s.cron.AddFunc(expr, func() {
		start := time.Now()
		name := job.Name()
		defer func() {
			if r := recover(); r != nil {
				s.log.Error().Interface("panic", r).Str("job", name).Msg("job panicked")
			}
		}()
		s.log.Debug().Str("job", name).Msg("job starting")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		if err := job.Run(ctx); err != nil {
			s.log.Error().Err(err).Str("job", name).Dur("elapsed", time.Since(start)).Msg("job failed")
			return
		}
		s.log.Debug().Str("job", name).Dur("elapsed", time.Since(start)).Msg("job completed")
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("schedule", expr).Str("job", job.Name()).Msg("job registered")
	return nil
}

// RunNow executes job immediately, outside of its schedule.
func (s *Scheduler) RunNow(ctx context.Context, job Job) error {
	s.log.Info().Str("job", job.Name()).Msg("running job immediately")
	return job.Run(ctx)
}
