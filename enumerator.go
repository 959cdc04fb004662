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

// Enumerator iterates a directory's entries. Constructing one pins the
// directory's node alive (NLinks +1) for the enumerator's lifetime, so
// the directory — and the entries captured from it — survives even if
// every other edge to it is unlinked mid-iteration. Close releases the
// pin and must be called when the caller is done; a typical caller
// defers it right after EnumerateDirectory succeeds.
type Enumerator struct {
	vfs     *Vfs
	dirId   NodeId
	entries []Entry
	pos     int
	closed  bool
}

func newEnumerator(vfs *Vfs, dirId NodeId, entries []Entry) *Enumerator {
	return &Enumerator{vfs: vfs, dirId: dirId, entries: entries}
}

// Next returns the next entry and true, or a zero Entry and false once
// iteration is exhausted. Order is unspecified. The enumerator iterates
// the snapshot taken at construction time; it is not guaranteed to
// observe modifications made through the VFS afterwards.
func (e *Enumerator) Next() (Entry, bool) {
	if e.pos >= len(e.entries) {
		return Entry{}, false
	}
	entry := e.entries[e.pos]
	e.pos++
	return entry, true
}

// Len returns the number of entries the enumerator was constructed
// with, regardless of iteration progress.
func (e *Enumerator) Len() int {
	return len(e.entries)
}

// Close releases the pin this enumerator holds on its directory. Safe
// to call more than once; only the first call has effect.
func (e *Enumerator) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	removed, destroyed, err := e.vfs.index.release(e.dirId)
	if err != nil {
		return nil
	}
	if destroyed {
		_ = e.vfs.dirDriver.DestroyNode(&removed)
	}
	return nil
}
