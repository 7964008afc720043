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
package model

import "time"

const configDateLayout = "2006-01-02"

// Config is a generic string key-value setting, used for "last processed
// date" watermarks with monotonic-update semantics.
type Config struct {
	Key   string
	Value string
}

// ParseDate parses Value as a naive date using the watermark layout. It
// returns the zero time if Value is empty or malformed.
func (c *Config) ParseDate() time.Time {
	if c.Value == "" {
		return time.Time{}
	}
	t, err := time.Parse(configDateLayout, c.Value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ShouldSetDate implements the monotonic-update rule: set_val_as_naive_date
// is a no-op iff newDate <= the currently stored date.
func (c *Config) ShouldSetDate(newDate time.Time) bool {
	current := c.ParseDate()
	if current.IsZero() {
		return true
	}
	return newDate.After(current)
}

// FormatDate renders a date using the watermark layout.
func FormatDate(t time.Time) string {
	return t.Format(configDateLayout)
}
