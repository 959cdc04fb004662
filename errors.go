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

import (
	"errors"
	"fmt"
)

// Sentinel errors for the kasofs error taxonomy. Callers should match
// against these with errors.Is; the VFS always wraps them with the
// operation name via wrapErr so messages stay useful without losing
// the underlying kind.
var (
	ErrBadF           = errors.New("bad node handle")
	ErrNoEnt          = errors.New("no such entry")
	ErrNotDir         = errors.New("not a directory")
	ErrIsDir          = errors.New("is a directory")
	ErrPerm           = errors.New("permission denied")
	ErrExist          = errors.New("entry already exists")
	ErrNotEmpty       = errors.New("directory not empty")
	ErrNxIo           = errors.New("filesystem consistency violation")
	ErrOverflow       = errors.New("offset beyond end of data")
	ErrProtoNoSupport = errors.New("driver not registered")
	ErrBusy           = errors.New("driver has live nodes")
	ErrWrongKind      = errors.New("node kind not supported by driver")
)

// wrapErr attaches the operation name to a sentinel error the way the
// rest of the pack does it: fmt.Errorf("%s: %w", op, err).
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
