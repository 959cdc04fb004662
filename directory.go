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

// Entry is one directory adjacency edge: a name and the node it names.
type Entry struct {
	Name   string
	NodeId NodeId
}

// directoryDefaultBase is the permission-base mask the directory
// driver declares for inheritance: everything. Any bit a parent
// directory withholds is therefore free to restrict a freshly created
// subdirectory.
const directoryDefaultBase FilePermissions = 0o777

// directoryDriver is the built-in, privileged driver whose nodes are
// directories. Unlike a registered Driver, it is wired into the Vfs as
// a direct field (see design notes in SPEC_FULL.md) both for
// performance and to break the chicken-and-egg of root construction
// needing a driver before any driver registry exists.
//
// Per-directory adjacency is keyed by the node's DriverData, which
// this driver hands out sequentially on CreateNode.
type directoryDriver struct {
	adjacency map[uint64]map[string]NodeId
	nextData  uint64
}

func newDirectoryDriver() *directoryDriver {
	return &directoryDriver{
		adjacency: make(map[uint64]map[string]NodeId),
	}
}

func (d *directoryDriver) DefaultPermissions(NodeKind) FilePermissions {
	return directoryDefaultBase
}

func (d *directoryDriver) CreateNode(kind NodeKind, owner User, perms FilePermissions) (INode, error) {
	if kind != 0 {
		return INode{}, ErrWrongKind
	}
	data := d.nextData
	d.nextData++
	d.adjacency[data] = make(map[string]NodeId)

	return INode{
		Kind:       kind,
		Owner:      owner,
		Perms:      perms,
		DriverData: data,
		NLinks:     0,
	}, nil
}

func (d *directoryDriver) DestroyNode(node *INode) error {
	delete(d.adjacency, node.DriverData)
	return nil
}

func (d *directoryDriver) Open(node *INode, _ Permissions) (OpenToken, error) {
	return 0, ErrIsDir
}

func (d *directoryDriver) Read(OpenToken, *INode, uint64, []byte) (int, error) {
	return 0, ErrIsDir
}

func (d *directoryDriver) Write(OpenToken, *INode, uint64, []byte) (int, error) {
	return 0, ErrIsDir
}

func (d *directoryDriver) Seek(OpenToken, *INode, int64, Whence) (uint64, error) {
	return 0, ErrIsDir
}

func (d *directoryDriver) Close(OpenToken, *INode) error {
	return nil
}

// AddEntry links name to target within dirNode's adjacency. NotDir if
// dirNode is not a directory node; NoEnt if its adjacency record is
// somehow missing (consistency bug); Exist if name is already taken.
func (d *directoryDriver) AddEntry(dirNode INode, name string, target NodeId) error {
	if dirNode.DriverId != DirectoryDriverId {
		return ErrNotDir
	}
	entries, ok := d.adjacency[dirNode.DriverData]
	if !ok {
		return ErrNoEnt
	}
	if _, exists := entries[name]; exists {
		return ErrExist
	}
	entries[name] = target
	return nil
}

// RemoveEntry removes name from dirNode's adjacency, returning the
// removed target. Absent name is a successful no-op (ok is false, err
// is nil).
func (d *directoryDriver) RemoveEntry(dirNode INode, name string) (target NodeId, ok bool, err error) {
	entries, exists := d.adjacency[dirNode.DriverData]
	if !exists {
		return NodeId{}, false, ErrNoEnt
	}
	target, ok = entries[name]
	if !ok {
		return NodeId{}, false, nil
	}
	delete(entries, name)
	return target, true, nil
}

// Lookup returns the entry named name in dirNode, or false if absent.
// A node that isn't a directory (its DriverId is not the directory
// driver's) has no entries here, so lookup on it also returns false —
// callers that need to distinguish "not a directory" from "not found"
// check the node's DriverId themselves before calling in.
func (d *directoryDriver) Lookup(dirNode INode, name string) (Entry, bool) {
	if dirNode.DriverId != DirectoryDriverId {
		return Entry{}, false
	}
	entries, ok := d.adjacency[dirNode.DriverData]
	if !ok {
		return Entry{}, false
	}
	id, ok := entries[name]
	if !ok {
		return Entry{}, false
	}
	return Entry{Name: name, NodeId: id}, true
}

// CountEntries returns the number of names present in dirNode.
func (d *directoryDriver) CountEntries(dirNode INode) int {
	return len(d.adjacency[dirNode.DriverData])
}

// snapshotEntries copies the current name->id pairs for dirNode. Used
// by the enumerator, which iterates a point-in-time snapshot rather
// than the live map (see enumerator.go).
func (d *directoryDriver) snapshotEntries(dirNode INode) []Entry {
	entries := d.adjacency[dirNode.DriverData]
	out := make([]Entry, 0, len(entries))
	for name, id := range entries {
		out = append(out, Entry{Name: name, NodeId: id})
	}
	return out
}
