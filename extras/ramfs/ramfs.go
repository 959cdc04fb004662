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

// Package ramfs is an example kasofs.Driver that stores node data as
// plain in-process byte buffers. It exists to give the driver
// interface a concrete implementation to test against; spec.md names
// it explicitly as out of scope for the core but specified only by the
// contract it implements.
package ramfs

import (
	"github.com/abbyssoul/libkasofs"
)

// NodeKind is the only node kind this driver produces: a regular,
// resizable byte buffer.
const NodeKind kasofs.NodeKind = 1

// defaultPermissions mirrors the original ramfsDriver's 0644 default.
const defaultPermissions kasofs.FilePermissions = 0o644

// Driver is an in-memory regular-file driver. Buffers are keyed by the
// DriverData handle the VFS hands back on every call.
type Driver struct {
	clock   kasofs.Clock
	nextID  uint64
	buffers map[uint64][]byte
}

// New constructs a ramfs.Driver. A nil clock defaults to
// kasofs.SystemClock.
func New(clock kasofs.Clock) *Driver {
	if clock == nil {
		clock = kasofs.SystemClock
	}
	return &Driver{
		clock:   clock,
		buffers: make(map[uint64][]byte),
	}
}

func (d *Driver) now() uint32 {
	return uint32(d.clock.Now().Unix())
}

func (d *Driver) DefaultPermissions(kasofs.NodeKind) kasofs.FilePermissions {
	return defaultPermissions
}

func (d *Driver) CreateNode(kind kasofs.NodeKind, owner kasofs.User, perms kasofs.FilePermissions) (kasofs.INode, error) {
	if kind != NodeKind {
		return kasofs.INode{}, kasofs.ErrWrongKind
	}

	id := d.nextID
	d.nextID++
	d.buffers[id] = nil

	now := d.now()
	return kasofs.INode{
		Kind:       kind,
		Owner:      owner,
		Perms:      perms,
		DriverData: id,
		Atime:      now,
		Mtime:      now,
	}, nil
}

func (d *Driver) DestroyNode(node *kasofs.INode) error {
	delete(d.buffers, node.DriverData)
	return nil
}

func (d *Driver) Open(node *kasofs.INode, _ kasofs.Permissions) (kasofs.OpenToken, error) {
	if node.Kind != NodeKind {
		return 0, kasofs.ErrWrongKind
	}
	node.Atime = d.now()
	return 0, nil
}

func (d *Driver) Read(_ kasofs.OpenToken, node *kasofs.INode, offset uint64, dst []byte) (int, error) {
	buf, ok := d.buffers[node.DriverData]
	if !ok {
		return 0, kasofs.ErrBadF
	}
	if offset > uint64(len(buf)) {
		return 0, kasofs.ErrOverflow
	}
	n := copy(dst, buf[offset:])
	return n, nil
}

func (d *Driver) Write(_ kasofs.OpenToken, node *kasofs.INode, offset uint64, src []byte) (int, error) {
	buf, ok := d.buffers[node.DriverData]
	if !ok {
		return 0, kasofs.ErrBadF
	}
	if offset > uint64(len(buf)) {
		return 0, kasofs.ErrOverflow
	}

	newSize := offset + uint64(len(src))
	if uint64(len(buf)) < newSize {
		grown := make([]byte, newSize)
		copy(grown, buf)
		buf = grown
	}
	copy(buf[offset:], src)

	d.buffers[node.DriverData] = buf
	node.Size = uint64(len(buf))
	node.Mtime = d.now()

	return len(src), nil
}

func (d *Driver) Seek(_ kasofs.OpenToken, _ *kasofs.INode, offset int64, whence kasofs.Whence) (uint64, error) {
	switch whence {
	case kasofs.FromStart:
		if offset < 0 {
			return 0, kasofs.ErrOverflow
		}
		return uint64(offset), nil
	case kasofs.FromCurrent:
		return uint64(offset), nil
	default:
		return uint64(offset), nil
	}
}

func (d *Driver) Close(kasofs.OpenToken, *kasofs.INode) error {
	return nil
}
