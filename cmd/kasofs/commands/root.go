// Copyright 2024 LibKasoFS Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package commands wires the cobra command tree for the kasofs demo
// CLI: a playground that builds an in-memory Vfs, populates it with
// the ramfs/synthfs sample drivers, and renders it back out. There is
// nothing to persist between invocations (spec.md §6), so every
// invocation starts from a fresh Vfs.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "kasofs",
	Short: "Playground CLI for the libkasofs in-process virtual filesystem",
	Long: "kasofs is a demonstration harness for github.com/abbyssoul/libkasofs.\n" +
		"It builds a fresh in-memory Vfs, registers the sample ramfs and synthfs\n" +
		"drivers, and exercises the core operations (mknode, walk, open,\n" +
		"enumerate). The Vfs holds no state across invocations.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (root owner/perms, driver list)")
	rootCmd.AddCommand(demoCmd)
}

// SetVersion sets the version info for --version output.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (%s, commit %s)", version, date, commit)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
