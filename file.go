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

// File is an open-handle object mediating buffered offsets against a
// driver. It caches its node id, driver id, the driver's open token,
// and a snapshot of the inode; read and write maintain independent
// offsets so interleaved reads and writes never collide in offset
// state. A File is not safe for concurrent use, matching the rest of
// this library's single-threaded cooperative model.
type File struct {
	vfs      *Vfs
	nodeId   NodeId
	driverId DriverId
	node     INode
	token    OpenToken

	readOffset  uint64
	writeOffset uint64

	closed bool
}

func newFile(vfs *Vfs, nodeId NodeId, node INode, token OpenToken) *File {
	return &File{
		vfs:      vfs,
		nodeId:   nodeId,
		driverId: node.DriverId,
		node:     node,
		token:    token,
	}
}

func (f *File) driver() (Driver, error) {
	return f.vfs.driverFor(f.driverId)
}

// persist writes the cached inode back to the index. Per spec.md §4.6,
// a node unlinked while this handle stayed open tombstones its slot
// immediately, so UpdateNode failing here is expected, not an error —
// the handle keeps operating against the driver's own buffer.
func (f *File) persist() {
	_ = f.vfs.index.update(f.nodeId, f.node)
}

// Read reads into dst starting at the handle's independent read
// offset, advancing it by the number of bytes read.
func (f *File) Read(dst []byte) (int, error) {
	driver, err := f.driver()
	if err != nil {
		return 0, wrapErr("read", err)
	}
	n, err := driver.Read(f.token, &f.node, f.readOffset, dst)
	f.readOffset += uint64(n)
	f.persist()
	if err != nil {
		return n, wrapErr("read", err)
	}
	return n, nil
}

// Write writes src starting at the handle's independent write offset,
// advancing it by the number of bytes written.
func (f *File) Write(src []byte) (int, error) {
	driver, err := f.driver()
	if err != nil {
		return 0, wrapErr("write", err)
	}
	n, err := driver.Write(f.token, &f.node, f.writeOffset, src)
	f.writeOffset += uint64(n)
	f.persist()
	if err != nil {
		return n, wrapErr("write", err)
	}
	return n, nil
}

// SeekRead repositions the read offset and returns its new absolute
// value.
func (f *File) SeekRead(offset int64, whence Whence) (uint64, error) {
	driver, err := f.driver()
	if err != nil {
		return 0, wrapErr("seek_read", err)
	}
	abs, err := driver.Seek(f.token, &f.node, offset, whence)
	if err != nil {
		return 0, wrapErr("seek_read", err)
	}
	f.readOffset = abs
	return abs, nil
}

// SeekWrite repositions the write offset and returns its new absolute
// value.
func (f *File) SeekWrite(offset int64, whence Whence) (uint64, error) {
	driver, err := f.driver()
	if err != nil {
		return 0, wrapErr("seek_write", err)
	}
	abs, err := driver.Seek(f.token, &f.node, offset, whence)
	if err != nil {
		return 0, wrapErr("seek_write", err)
	}
	f.writeOffset = abs
	return abs, nil
}

// Stat returns the handle's cached inode snapshot.
func (f *File) Stat() INode {
	return f.node
}

// Size returns the cached inode's data length.
func (f *File) Size() uint64 {
	return f.node.Size
}

// Flush re-persists the cached inode to the index.
func (f *File) Flush() error {
	f.persist()
	return nil
}

// Close calls the driver's Close with the stored token and persists
// the inode one last time. Safe to call more than once; only the
// first call has effect.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	driver, err := f.driver()
	if err != nil {
		return wrapErr("close", err)
	}
	closeErr := driver.Close(f.token, &f.node)
	f.persist()
	if closeErr != nil {
		return wrapErr("close", closeErr)
	}
	return nil
}
