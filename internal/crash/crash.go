/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash /*
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"comicsviewer/internal/config"
	applog "comicsviewer/internal/log"
	"comicsviewer/internal/telemetry"
	"comicsviewer/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// Dump is the viewer state worth preserving across a panic: which comic and
// page were open, and the unsaved annotations document if the page was dirty.
type Dump struct {
	Comic       string
	Page        int
	Annotations []byte
}

// Recover captures a panic, logs an error with stacktrace, writes an error
// report file, and drops the unsaved annotations next to it so the work is
// not lost.
//
// Usage: defer func(){ crash.Recover(dump) }()
func Recover(d *Dump) {
	if r := recover(); r != nil {
		l := applog.WithComponent("crash")
		stack := debug.Stack()
		l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

		reportPath, _ := writeReport(d, r, stack)
		if d != nil && len(d.Annotations) > 0 {
			if path, err := writeAnnotations(d); err != nil {
				l.Error("annotation rescue failed", slog.Any("err", err))
			} else {
				l.Info("unsaved annotations written", slog.String("path", path))
			}
		}

		if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
			l.Error("failed to write crash message to stderr", slog.Any("err", err))
		}
		if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
			l.Error("failed to write version info to stderr", slog.Any("err", err))
		}
		// Exit with a non-zero code to indicate failure in CLI context.
		exitFn(2)
	}
}

// reportDir resolves where crash artifacts go: the per-user config directory
// when available, the system temp directory otherwise.
func reportDir() string {
	if p, err := config.ConfigPath(); err == nil {
		dir := filepath.Join(filepath.Dir(p), "crash")
		if err := os.MkdirAll(dir, 0o755); err == nil {
			return dir
		}
	}
	return os.TempDir()
}

func writeReport(d *Dump, panicVal any, stack []byte) (string, error) {
	dir := reportDir()
	stamp := time.Now().Format("20060102-150405")
	fname := fmt.Sprintf("crash-%s.log", stamp)
	path := filepath.Join(dir, fname)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return path, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			applog.WithComponent("crash").Error("failed to close crash report file", slog.Any("err", err), slog.String("path", path))
		}
	}()

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "Comics Viewer Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if d != nil {
		_, _ = fmt.Fprintf(&buf, "Comic: %s\n", d.Comic)
		_, _ = fmt.Fprintf(&buf, "Page: %d\n", d.Page)
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	// write to file
	if _, err := f.Write(buf.Bytes()); err != nil {
		return path, err
	}
	_ = f.Sync()

	// optionally upload anonymized crash report (opt-in via env)
	telemetry.UploadCrash(buf.Bytes())
	return path, nil
}

// writeAnnotations rescues the unsaved annotations document to a timestamped
// file the user can re-import.
func writeAnnotations(d *Dump) (string, error) {
	dir := reportDir()
	stamp := time.Now().Format("20060102-150405")
	fname := fmt.Sprintf("annotations-%s-page%d.json", stamp, d.Page)
	path := filepath.Join(dir, fname)
	if err := os.WriteFile(path, d.Annotations, 0o644); err != nil {
		return path, err
	}
	return path, nil
}
