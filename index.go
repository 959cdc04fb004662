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

// slot is one entry of the node index: a generation counter and the
// inode it currently holds. live is false for both never-allocated and
// tombstoned slots; get/update treat a generation mismatch and a dead
// slot identically (not found).
type slot struct {
	generation uint32
	inode      INode
	live       bool
}

// nodeIndex is the dense slot array behind every NodeId. It never
// compacts: a freed slot is tombstoned in place (generation bumped,
// payload cleared) and queued on a free-list so later allocations can
// reuse the index without ever reusing a generation. This is the fix
// for the source's erase(begin+index), which invalidated every later
// NodeId by shifting the backing vector.
type nodeIndex struct {
	slots          []slot
	freeList       []uint32
	nextGeneration uint32
}

func newNodeIndex() *nodeIndex {
	return &nodeIndex{}
}

// allocate reserves a slot for inode and returns its freshly minted id.
// Generations are handed out from a VFS-wide monotonic counter, never
// derived from the slot itself, so ABA across the life of the index is
// impossible even when slots are recycled.
func (ix *nodeIndex) allocate(inode INode) NodeId {
	gen := ix.nextGeneration
	ix.nextGeneration++

	if n := len(ix.freeList); n > 0 {
		idx := ix.freeList[n-1]
		ix.freeList = ix.freeList[:n-1]
		ix.slots[idx] = slot{generation: gen, inode: inode, live: true}
		return NodeId{Index: idx, Generation: gen}
	}

	idx := uint32(len(ix.slots))
	ix.slots = append(ix.slots, slot{generation: gen, inode: inode, live: true})
	return NodeId{Index: idx, Generation: gen}
}

// get returns the inode for id, or false if id is out of range, dead,
// or stale (generation mismatch).
func (ix *nodeIndex) get(id NodeId) (INode, bool) {
	s, ok := ix.liveSlot(id)
	if !ok {
		return INode{}, false
	}
	return s.inode, true
}

func (ix *nodeIndex) liveSlot(id NodeId) (*slot, bool) {
	if int(id.Index) >= len(ix.slots) {
		return nil, false
	}
	s := &ix.slots[id.Index]
	if !s.live || s.generation != id.Generation {
		return nil, false
	}
	return s, true
}

// update overwrites a live slot's inode, rejecting BadF if the slot is
// dead, the generation is stale, or the incoming inode disagrees with
// the stored one on driver/kind — those are immutable post-creation.
func (ix *nodeIndex) update(id NodeId, inode INode) error {
	s, ok := ix.liveSlot(id)
	if !ok {
		return ErrBadF
	}
	if !s.inode.sameShape(inode) {
		return ErrBadF
	}
	s.inode = inode
	return nil
}

// addLink increments a live node's NLinks.
func (ix *nodeIndex) addLink(id NodeId) error {
	s, ok := ix.liveSlot(id)
	if !ok {
		return ErrBadF
	}
	s.inode.NLinks++
	return nil
}

// release decrements a live node's NLinks. When the count reaches
// zero, the slot is tombstoned (generation advanced, payload cleared,
// index queued for reuse) and the inode as it stood immediately before
// tombstoning is returned so the caller can hand it to the owning
// driver's DestroyNode.
func (ix *nodeIndex) release(id NodeId) (INode, bool, error) {
	s, ok := ix.liveSlot(id)
	if !ok {
		return INode{}, false, ErrBadF
	}
	if s.inode.NLinks > 0 {
		s.inode.NLinks--
	}
	if s.inode.NLinks > 0 {
		return s.inode, false, nil
	}

	removed := s.inode
	s.live = false
	s.inode = INode{}
	s.generation++
	ix.freeList = append(ix.freeList, id.Index)
	return removed, true, nil
}
