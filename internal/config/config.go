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

// Package config loads the kasofs demo CLI's playground configuration:
// the root owner/permissions a Vfs is constructed with, plus a list of
// sample driver names. The demo command registers ramfs and synthfs
// whether or not they appear in that list. It carries no settings for the
// library itself, which takes its configuration entirely through
// kasofs.NewVfs's arguments.
package config

import (
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// RootConfig describes the owner and mode of the Vfs root directory.
type RootConfig struct {
	Uid   uint32 `yaml:"uid" env:"KASOFS_ROOT_UID" env-default:"0"`
	Gid   uint32 `yaml:"gid" env:"KASOFS_ROOT_GID" env-default:"0"`
	Perms uint16 `yaml:"perms" env:"KASOFS_ROOT_PERMS" env-default:"493"` // 0o755
}

// Config is the demo CLI's playground configuration.
type Config struct {
	Root    RootConfig `yaml:"root"`
	Drivers []string   `yaml:"drivers" env:"KASOFS_DRIVERS" env-separator:","`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	return &Config{
		Root:    RootConfig{Uid: 0, Gid: 0, Perms: 0o755},
		Drivers: []string{"ramfs", "synthfs"},
	}
}

// MustLoad reads and parses configPath, panicking on any failure — the
// demo CLI is a playground, not a long-running service, so there is no
// caller above main able to recover from a bad config path.
func MustLoad(configPath string) *Config {
	if configPath == "" {
		return Default()
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	cfg := Default()
	if err := cleanenv.ReadConfig(configPath, cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}
	return cfg
}
