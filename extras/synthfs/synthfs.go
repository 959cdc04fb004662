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

// Package synthfs is an example kasofs.Driver whose node bytes are
// produced and consumed by a callback rather than stored, the way a
// synthetic /proc-style endpoint works. Named in spec.md §1 as an
// out-of-scope sample driver, specified only by the Driver interface
// it implements.
package synthfs

import (
	"github.com/abbyssoul/libkasofs"
)

// ReadFunc produces up to len(dst) bytes for a synthetic node starting
// at offset.
type ReadFunc func(dst []byte, offset uint64) (int, error)

// WriteFunc consumes src written to a synthetic node at offset.
type WriteFunc func(src []byte, offset uint64) (int, error)

type endpoint struct {
	read  ReadFunc
	write WriteFunc
	perms kasofs.FilePermissions
}

// Driver hosts a fixed set of synthetic endpoints, each identified by
// its own kasofs.NodeKind. Unlike ramfs, no bytes are stored by the
// driver itself: every node of a given kind shares that kind's
// read/write callbacks, and any state those callbacks need to keep
// lives in the closures registered with DefineEndpoint.
type Driver struct {
	clock     kasofs.Clock
	nextKind  kasofs.NodeKind
	endpoints map[kasofs.NodeKind]*endpoint
}

// New constructs a synthfs.Driver. A nil clock defaults to
// kasofs.SystemClock.
func New(clock kasofs.Clock) *Driver {
	if clock == nil {
		clock = kasofs.SystemClock
	}
	return &Driver{
		clock:     clock,
		endpoints: make(map[kasofs.NodeKind]*endpoint),
	}
}

// DefineEndpoint registers a new synthetic endpoint kind backed by
// read/write, readable/writable according to perms' default ACL. Pass
// a nil ReadFunc/WriteFunc for an endpoint that never supports that
// direction (calling it returns ErrWrongKind). The returned NodeKind
// is then passed to Vfs.Mknode to create nodes of this endpoint.
func (d *Driver) DefineEndpoint(perms kasofs.FilePermissions, read ReadFunc, write WriteFunc) kasofs.NodeKind {
	kind := d.nextKind
	d.nextKind++
	d.endpoints[kind] = &endpoint{read: read, write: write, perms: perms}
	return kind
}

func (d *Driver) now() uint32 {
	return uint32(d.clock.Now().Unix())
}

func (d *Driver) DefaultPermissions(kind kasofs.NodeKind) kasofs.FilePermissions {
	ep, ok := d.endpoints[kind]
	if !ok {
		return 0
	}
	return ep.perms
}

func (d *Driver) CreateNode(kind kasofs.NodeKind, owner kasofs.User, perms kasofs.FilePermissions) (kasofs.INode, error) {
	if _, ok := d.endpoints[kind]; !ok {
		return kasofs.INode{}, kasofs.ErrWrongKind
	}
	now := d.now()
	return kasofs.INode{
		Kind:       kind,
		Owner:      owner,
		Perms:      perms,
		DriverData: uint64(kind),
		Atime:      now,
		Mtime:      now,
	}, nil
}

func (d *Driver) DestroyNode(*kasofs.INode) error {
	// No per-node storage to release: the endpoint outlives any single
	// node created against it.
	return nil
}

func (d *Driver) Open(node *kasofs.INode, _ kasofs.Permissions) (kasofs.OpenToken, error) {
	if _, ok := d.endpoints[node.Kind]; !ok {
		return 0, kasofs.ErrWrongKind
	}
	node.Atime = d.now()
	return 0, nil
}

func (d *Driver) Read(_ kasofs.OpenToken, node *kasofs.INode, offset uint64, dst []byte) (int, error) {
	ep, ok := d.endpoints[node.Kind]
	if !ok || ep.read == nil {
		return 0, kasofs.ErrWrongKind
	}
	return ep.read(dst, offset)
}

func (d *Driver) Write(_ kasofs.OpenToken, node *kasofs.INode, offset uint64, src []byte) (int, error) {
	ep, ok := d.endpoints[node.Kind]
	if !ok || ep.write == nil {
		return 0, kasofs.ErrWrongKind
	}
	n, err := ep.write(src, offset)
	if err == nil {
		node.Mtime = d.now()
	}
	return n, err
}

func (d *Driver) Seek(_ kasofs.OpenToken, _ *kasofs.INode, offset int64, whence kasofs.Whence) (uint64, error) {
	if offset < 0 {
		return 0, kasofs.ErrOverflow
	}
	return uint64(offset), nil
}

func (d *Driver) Close(kasofs.OpenToken, *kasofs.INode) error {
	return nil
}
