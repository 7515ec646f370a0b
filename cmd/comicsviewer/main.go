/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"comicsviewer/internal/annotations"
	"comicsviewer/internal/crash"
	applog "comicsviewer/internal/log"
	"comicsviewer/internal/ui"
	"comicsviewer/internal/version"
)

func usage() {
	fmt.Println("Comics Viewer")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  comicsviewer version|-v|--version   Show version")
	fmt.Println("  comicsviewer ui [<dir>]             Launch the viewer (build with -tags fyne for full UI)")
	fmt.Println("  comicsviewer inspect <dir>          Summarize a comic directory and its annotations")
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	defer func() { crash.Recover(nil) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("Comics Viewer")
			fmt.Println(version.String())
			return
		case "inspect":
			if len(args) < 3 {
				fmt.Println("inspect requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("inspect comic", slog.String("dir", abs))
			if err := inspect(abs); err != nil {
				l.Error("inspect failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "ui":
			var dir string
			if len(args) >= 3 {
				dir = args[2]
			}
			if err := ui.Run(dir); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}

// inspect prints the page images of a comic directory and, for pages with an
// annotations sidecar, the tile count.
func inspect(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var pages []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg", ".gif":
			pages = append(pages, e.Name())
		}
	}
	if len(pages) == 0 {
		return fmt.Errorf("no page images in %s", dir)
	}
	sort.Strings(pages)
	fmt.Printf("Comic: %s (%d pages)\n", filepath.Base(dir), len(pages))
	for i, name := range pages {
		line := fmt.Sprintf("  page %3d  %s", i+1, name)
		doc, err := os.ReadFile(filepath.Join(dir, name+".tiles.json"))
		if err == nil {
			polys, derr := annotations.Decode(doc)
			if derr != nil {
				line += fmt.Sprintf("  [annotations unreadable: %v]", derr)
			} else {
				line += fmt.Sprintf("  [%d tiles]", len(polys))
			}
		}
		fmt.Println(line)
	}
	return nil
}
