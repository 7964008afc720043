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
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// rotatingFile is an io.Writer backed by one file per calendar day (named
// "YYYY-MM-DD_{level}.log"), rolling over either at midnight or once the
// current file exceeds maxBytes, and pruning files older than maxAge.
//
// No dependency in the example pack offers file rotation with both a size
// cap and an age-based cleanup policy in one package (see DESIGN.md), so
// this is hand-rolled over os.File rather than imported.
type rotatingFile struct {
	mu       sync.Mutex
	dir      string
	level    string
	maxBytes int64
	maxAge   time.Duration
	now      func() time.Time

	file    *os.File
	day     string
	written int64
}

func newRotatingFile(dir, level string, maxBytes int64, maxAge time.Duration) *rotatingFile {
	return &rotatingFile{dir: dir, level: level, maxBytes: maxBytes, maxAge: maxAge, now: time.Now}
}

func (r *rotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	today := r.now().Format("2006-01-02")
	if r.file == nil || r.day != today || r.written+int64(len(p)) > r.maxBytes {
		if err := r.rotate(today); err != nil {
			return 0, err
		}
	}

	n, err := r.file.Write(p)
	r.written += int64(n)
	return n, err
}

func (r *rotatingFile) rotate(day string) error {
	if r.file != nil {
		r.file.Close()
	}

	suffix := 0
	var path string
	for {
		name := fmt.Sprintf("%s_%s.log", day, r.level)
		if suffix > 0 {
			name = fmt.Sprintf("%s_%s.%d.log", day, r.level, suffix)
		}
		path = filepath.Join(r.dir, name)
		fi, err := os.Stat(path)
		if err != nil || fi.Size() < r.maxBytes {
			break
		}
		suffix++
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("logging: open %s: %w", path, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("logging: stat %s: %w", path, err)
	}

	r.file = f
	r.day = day
	r.written = fi.Size()
	r.cleanup()
	return nil
}

// cleanup removes files in dir for this level older than maxAge. Best
// effort: errors are swallowed since a failed sweep should never block
// logging.
func (r *rotatingFile) cleanup() {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return
	}

	cutoff := r.now().Add(-r.maxAge)
	suffix := "_" + r.level + "."
	for _, e := range entries {
		if e.IsDir() || !strings.Contains(e.Name(), suffix) {
			continue
		}
		datePart := e.Name()[:10]
		day, err := time.Parse("2006-01-02", datePart)
		if err != nil || !day.Before(cutoff) {
			continue
		}
		os.Remove(filepath.Join(r.dir, e.Name()))
	}
}
