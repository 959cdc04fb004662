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

package kasofs

import "time"

// Clock abstracts the wall-clock epoch source used to stamp atime/mtime
// on inodes, so callers can inject determinism into tests instead of
// depending on real time.
type Clock interface {
	Now() time.Time
}

// systemClock is the default Clock backed by the real wall clock.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the Clock used when NewVfs is given a nil clock.
var SystemClock Clock = systemClock{}

// epochSeconds truncates a Clock reading to the u32 epoch-seconds form
// INode.Atime/Mtime are stored in.
func epochSeconds(c Clock) uint32 {
	if c == nil {
		c = SystemClock
	}
	return uint32(c.Now().Unix())
}

// FixedClock is a Clock that always returns the same instant, useful in
// tests that assert exact atime/mtime values.
type FixedClock struct {
	At time.Time
}

func (f FixedClock) Now() time.Time { return f.At }
