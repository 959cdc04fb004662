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

// DriverId names a registered storage back-end. 0 is reserved for the
// built-in directory driver and is never assigned to a registered one.
type DriverId uint32

// DirectoryDriverId is the reserved DriverId of the built-in directory
// driver, present in every Vfs from construction.
const DirectoryDriverId DriverId = 0

// NodeKind is a driver-private tag distinguishing the variants a single
// driver can produce (e.g. "regular file" vs "pipe"). Opaque to the VFS
// core; only the owning driver interprets it.
type NodeKind uint16

// NodeId is a generation-guarded handle to a node: a slot index paired
// with the generation the slot had when this id was minted. Two ids
// compare equal iff both fields match. A stale generation makes
// use-after-free surface as a clean "not found" instead of aliasing
// onto whatever now occupies the slot.
type NodeId struct {
	Index      uint32
	Generation uint32
}

// RootId is the fixed identifier of the VFS root directory.
var RootId = NodeId{Index: 0, Generation: 0}

// INode is the value-type record the VFS keeps per node. Drivers never
// see more than the fields relevant to them; the VFS owns the whole
// record and persists driver mutations back via Vfs.UpdateNode.
type INode struct {
	DriverId DriverId
	Kind     NodeKind
	Owner    User
	Perms    FilePermissions

	Atime uint32
	Mtime uint32

	NLinks  uint32
	Version uint32

	// DriverData is a driver-private payload handle, typically an index
	// into the driver's own storage. The VFS never dereferences it.
	DriverData uint64

	// Size is the cached data length, maintained by the driver on every
	// write/truncate that changes it.
	Size uint64
}

// sameShape reports whether two inodes agree on the fields that are
// immutable post-creation: driver and kind. Vfs.UpdateNode uses this to
// reject a caller trying to smuggle a driver/kind change through a
// cached-snapshot write-back.
func (n INode) sameShape(other INode) bool {
	return n.DriverId == other.DriverId && n.Kind == other.Kind
}
