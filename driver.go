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

// OpenToken is a driver-local identifier for an in-progress open
// session. The VFS treats it as opaque and merely routes it back to
// the same driver on every subsequent Read/Write/Seek/Close call.
type OpenToken uint64

// Whence selects the reference point for Driver.Seek, mirroring the
// io.Seeker conventions minus SeekEnd (drivers that want "from end"
// semantics compute the offset from Size themselves).
type Whence int

const (
	// FromStart seeks relative to offset zero.
	FromStart Whence = iota
	// FromCurrent is passed to the driver as given. Driver.Seek is not
	// given the handle's current offset, and the drivers in this module
	// treat a FromCurrent offset as an absolute one.
	FromCurrent
)

// Driver is the contract every storage back-end for non-directory
// nodes implements. The directory driver satisfies this interface too
// (its Read/Write/Seek simply return ErrIsDir) but is wired into the
// Vfs as a dedicated field rather than through the driver registry.
type Driver interface {
	// DefaultPermissions returns the driver's permission-base mask used
	// for inheritance when a node of this kind is created under a
	// parent directory. Pure, never mutates driver state.
	DefaultPermissions(kind NodeKind) FilePermissions

	// CreateNode allocates driver-private storage for a new node and
	// returns a partially filled INode (DriverData and Size set; the
	// VFS fills DriverId). Returns ErrWrongKind if kind is not one this
	// driver produces.
	CreateNode(kind NodeKind, owner User, perms FilePermissions) (INode, error)

	// DestroyNode releases the driver storage backing node. Must
	// tolerate being called on any node this driver produced, even if
	// already-open handles still reference it.
	DestroyNode(node *INode) error

	// Open returns a driver-local token used for subsequent I/O. May
	// mutate node (e.g. touch Atime). Must reject kinds it does not own.
	Open(node *INode, perms Permissions) (OpenToken, error)

	// Read copies up to len(dst) bytes starting at offset into dst and
	// returns the number of bytes copied. offset > node.Size yields
	// ErrOverflow; offset == node.Size yields (0, nil).
	Read(token OpenToken, node *INode, offset uint64, dst []byte) (int, error)

	// Write writes src at offset, extending storage as necessary, and
	// updates node.Size/Mtime to reflect the result.
	Write(token OpenToken, node *INode, offset uint64, src []byte) (int, error)

	// Seek returns the resulting absolute offset for the given
	// directive; it does not perform I/O.
	Seek(token OpenToken, node *INode, offset int64, whence Whence) (uint64, error)

	// Close releases token. Called at most once per successful Open.
	Close(token OpenToken, node *INode) error
}
