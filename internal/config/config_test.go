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

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, uint32(0), cfg.Root.Uid)
	assert.Equal(t, uint16(0o755), cfg.Root.Perms)
	assert.Contains(t, cfg.Drivers, "ramfs")
	assert.Contains(t, cfg.Drivers, "synthfs")
}

func TestMustLoadWithEmptyPathReturnsDefault(t *testing.T) {
	t.Parallel()

	cfg := MustLoad("")
	assert.Equal(t, Default(), cfg)
}

func TestMustLoadPanicsOnMissingFile(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		MustLoad("/nonexistent/kasofs-config.yaml")
	})
}
