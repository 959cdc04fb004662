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
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Vfs is the public facade: a named directed graph of typed nodes with
// Unix-style ownership/permission semantics and pluggable storage
// drivers for non-directory nodes. Not internally synchronized — §5 of
// the design puts this core on a single-threaded cooperative model; a
// caller sharing one Vfs across goroutines wraps it in an external
// mutex.
type Vfs struct {
	index     *nodeIndex
	dirDriver *directoryDriver
	drivers   map[DriverId]Driver

	nextDriverId DriverId

	clock Clock
	log   *logrus.Logger

	instanceID uuid.UUID
}

// NewVfs constructs a Vfs with a freshly created root directory owned
// by rootOwner with mode rootPerms. A nil clock defaults to
// SystemClock; a nil logger defaults to a Logger with output
// discarded, so every mutating call below can log unconditionally.
func NewVfs(clock Clock, rootOwner User, rootPerms FilePermissions, logger *logrus.Logger) *Vfs {
	if clock == nil {
		clock = SystemClock
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(discardWriter{})
	}

	v := &Vfs{
		index:        newNodeIndex(),
		dirDriver:    newDirectoryDriver(),
		drivers:      make(map[DriverId]Driver),
		nextDriverId: DirectoryDriverId + 1,
		clock:        clock,
		log:          logger,
		instanceID:   uuid.New(),
	}

	rootInode, err := v.dirDriver.CreateNode(0, rootOwner, rootPerms)
	if err != nil {
		// The directory driver's CreateNode cannot fail for kind 0;
		// a failure here means the driver contract itself is broken.
		panic("kasofs: root directory creation failed: " + err.Error())
	}
	rootInode.DriverId = DirectoryDriverId
	rootInode.Atime = epochSeconds(clock)
	rootInode.Mtime = rootInode.Atime
	rootInode.NLinks = 1

	id := v.index.allocate(rootInode)
	if id != RootId {
		panic("kasofs: root node did not land at slot (0,0)")
	}

	return v
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// InstanceID returns a stable identifier for this Vfs instance, stamped
// into every log entry so multi-instance deployments can correlate
// traces back to the owning Vfs.
func (v *Vfs) InstanceID() uuid.UUID {
	return v.instanceID
}

// RootId returns the identifier of the VFS root directory.
func (v *Vfs) RootId() NodeId {
	return RootId
}

func (v *Vfs) logFields(op string, actor User) *logrus.Entry {
	return v.log.WithFields(logrus.Fields{
		"op":       op,
		"instance": v.instanceID,
		"uid":      actor.Uid,
		"gid":      actor.Gid,
	})
}

// driverFor resolves the Driver responsible for node, dispatching to
// the directory driver for driver id 0 and to the registry otherwise.
func (v *Vfs) driverFor(driverId DriverId) (Driver, error) {
	if driverId == DirectoryDriverId {
		return v.dirDriver, nil
	}
	d, ok := v.drivers[driverId]
	if !ok {
		return nil, ErrProtoNoSupport
	}
	return d, nil
}

func isDirNode(n INode) bool {
	return n.DriverId == DirectoryDriverId
}

// RegisterDriver adds driver to the registry and returns the id it was
// assigned. Ids are never reused within a Vfs's lifetime.
func (v *Vfs) RegisterDriver(driver Driver) DriverId {
	id := v.nextDriverId
	v.nextDriverId++
	v.drivers[id] = driver
	v.log.WithFields(logrus.Fields{"op": "register_driver", "instance": v.instanceID, "driver": id}).Debug("driver registered")
	return id
}

// UnregisterDriver removes a previously registered driver. Fails BadF
// for the directory driver or an unknown id; Busy if any live node
// still belongs to it — the conservative default spec.md §9 settles on
// for the source's unresolved "// FIXME: Check if fs is busy".
func (v *Vfs) UnregisterDriver(id DriverId) error {
	const op = "unregister_driver"
	if id == DirectoryDriverId {
		return wrapErr(op, ErrBadF)
	}
	if _, ok := v.drivers[id]; !ok {
		return wrapErr(op, ErrBadF)
	}
	for _, s := range v.index.slots {
		if s.live && s.inode.DriverId == id {
			return wrapErr(op, ErrBusy)
		}
	}
	delete(v.drivers, id)
	return nil
}

// NodeByID returns a snapshot of the node identified by id, or false if
// id is stale or unknown. Callers mutate a node's metadata through
// UpdateNode, never by retaining this snapshot.
func (v *Vfs) NodeByID(id NodeId) (INode, bool) {
	return v.index.get(id)
}

// UpdateNode overwrites the stored inode for id. Drivers and kinds are
// immutable post-creation; an inode whose DriverId/Kind disagree with
// what's stored is rejected with BadF.
func (v *Vfs) UpdateNode(id NodeId, inode INode) error {
	if err := v.index.update(id, inode); err != nil {
		return wrapErr("update_node", err)
	}
	return nil
}

// effectivePermissions computes the inherited mode for a freshly
// created node per spec.md §3: the parent's mode only restricts the
// bits the driver declares as its default base.
func effectivePermissions(requested, parentPerms, driverBase FilePermissions) FilePermissions {
	return requested & (^driverBase | (parentPerms & driverBase))
}

// Mknode creates a node of kind via driverId, links it into parent
// under name, and returns its id. On any failure after the driver has
// allocated storage, the node is destroyed so nothing leaks.
func (v *Vfs) Mknode(actor User, parent NodeId, name string, driverId DriverId, kind NodeKind, owner User, perms FilePermissions) (NodeId, error) {
	const op = "mknode"
	logger := v.logFields(op, actor)

	parentNode, ok := v.index.get(parent)
	if !ok {
		return NodeId{}, wrapErr(op, ErrNoEnt)
	}
	if !isDirNode(parentNode) {
		return NodeId{}, wrapErr(op, ErrNotDir)
	}
	if !CanUserPerformAction(parentNode.Owner, parentNode.Perms, actor, Write) {
		return NodeId{}, wrapErr(op, ErrPerm)
	}

	driver, err := v.driverFor(driverId)
	if err != nil {
		return NodeId{}, wrapErr(op, err)
	}

	base := driver.DefaultPermissions(kind)
	effPerms := effectivePermissions(perms, parentNode.Perms, base)

	node, err := driver.CreateNode(kind, owner, effPerms)
	if err != nil {
		return NodeId{}, wrapErr(op, err)
	}
	node.DriverId = driverId
	now := epochSeconds(v.clock)
	node.Atime = now
	node.Mtime = now
	node.NLinks = 0

	id := v.index.allocate(node)

	if err := v.dirDriver.AddEntry(parentNode, name, id); err != nil {
		// Linking failed: release the slot we just allocated and tell
		// the driver to give up the storage it already committed to.
		removed, _, relErr := v.index.release(id)
		if relErr == nil {
			_ = driver.DestroyNode(&removed)
		}
		return NodeId{}, wrapErr(op, err)
	}
	if err := v.index.addLink(id); err != nil {
		return NodeId{}, wrapErr(op, err)
	}

	logger.WithField("node", id).Trace("node created")
	return id, nil
}

// CreateDirectory is Mknode specialized to the directory driver.
func (v *Vfs) CreateDirectory(actor User, parent NodeId, name string, owner User, perms FilePermissions) (NodeId, error) {
	return v.Mknode(actor, parent, name, DirectoryDriverId, 0, owner, perms)
}

// Link creates a named edge from directory from to node to. The target
// is not required to be fresh: multiple names may point at the same
// node, and linking does not alter its ownership or permissions.
func (v *Vfs) Link(actor User, name string, from, to NodeId) error {
	const op = "link"
	if from == to {
		return wrapErr(op, ErrBadF)
	}

	fromNode, ok := v.index.get(from)
	if !ok {
		return wrapErr(op, ErrNoEnt)
	}
	if _, ok := v.index.get(to); !ok {
		return wrapErr(op, ErrNoEnt)
	}
	if !isDirNode(fromNode) {
		return wrapErr(op, ErrNotDir)
	}
	if !CanUserPerformAction(fromNode.Owner, fromNode.Perms, actor, Write) {
		return wrapErr(op, ErrPerm)
	}

	if err := v.dirDriver.AddEntry(fromNode, name, to); err != nil {
		return wrapErr(op, err)
	}
	if err := v.index.addLink(to); err != nil {
		return wrapErr(op, err)
	}
	return nil
}

// Unlink removes name from directory from and drops that edge's link on
// the target. When the target's link count reaches zero its index slot
// is tombstoned, so its id no longer resolves; Unlink does not call the
// driver's DestroyNode, so the driver keeps the node's storage.
// Unlinking an absent name is a successful no-op. Unlinking a non-empty
// directory fails NotEmpty.
func (v *Vfs) Unlink(actor User, from NodeId, name string) error {
	const op = "unlink"
	fromNode, ok := v.index.get(from)
	if !ok {
		return wrapErr(op, ErrBadF)
	}
	if !isDirNode(fromNode) {
		return wrapErr(op, ErrNotDir)
	}
	if !CanUserPerformAction(fromNode.Owner, fromNode.Perms, actor, Write) {
		return wrapErr(op, ErrPerm)
	}

	entry, found := v.dirDriver.Lookup(fromNode, name)
	if !found {
		return nil
	}

	if targetNode, ok := v.index.get(entry.NodeId); ok && isDirNode(targetNode) {
		if v.dirDriver.CountEntries(targetNode) > 0 {
			return wrapErr(op, ErrNotEmpty)
		}
	}

	if _, _, err := v.dirDriver.RemoveEntry(fromNode, name); err != nil {
		return wrapErr(op, err)
	}

	// release drops the directory edge's pin on the target. Its storage
	// stays with the driver until the driver's own destroy_node is
	// invoked elsewhere (creation-failure rollback in Mknode, or a
	// driver-specific reclamation path); unlink only ever erases the
	// index entry, never the driver's underlying buffer, so I/O already
	// in flight against an unlinked node keeps working.
	_, _, _ = v.index.release(entry.NodeId)
	return nil
}

// Walk resolves path, a '/'-separated sequence of segment names,
// starting at start. visit, if non-nil, is invoked after each
// successful step with the entry just resolved and its node. '.' is a
// no-op segment; any other unresolved segment ends the walk with
// NoEnt. The returned Entry is the final resolved position, or
// {".", start} when path is empty.
func (v *Vfs) Walk(actor User, start NodeId, path string, visit func(Entry, INode) error) (Entry, error) {
	const op = "walk"

	if _, ok := v.index.get(start); !ok {
		return Entry{}, wrapErr(op, ErrBadF)
	}

	current := Entry{Name: ".", NodeId: start}
	segments := splitPath(path)

	for _, seg := range segments {
		node, ok := v.index.get(current.NodeId)
		if !ok {
			return Entry{}, wrapErr(op, ErrNxIo)
		}
		if !CanUserPerformAction(node.Owner, node.Perms, actor, Read) {
			return Entry{}, wrapErr(op, ErrPerm)
		}

		if seg == "." {
			continue
		}

		entry, found := v.dirDriver.Lookup(node, seg)
		if !found {
			return Entry{}, wrapErr(op, ErrNoEnt)
		}

		nextNode, ok := v.index.get(entry.NodeId)
		if !ok {
			return Entry{}, wrapErr(op, ErrNxIo)
		}

		current = entry
		if visit != nil {
			if err := visit(entry, nextNode); err != nil {
				return Entry{}, err
			}
		}
	}

	return current, nil
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// Open opens node id for requestedPerms, dispatching to the owning
// driver and returning a File that mediates buffered offsets against
// it.
func (v *Vfs) Open(actor User, id NodeId, requestedPerms Permissions) (*File, error) {
	const op = "open"
	node, ok := v.index.get(id)
	if !ok {
		return nil, wrapErr(op, ErrBadF)
	}
	if !CanUserPerformAction(node.Owner, node.Perms, actor, requestedPerms) {
		return nil, wrapErr(op, ErrPerm)
	}

	driver, err := v.driverFor(node.DriverId)
	if err != nil {
		return nil, wrapErr(op, err)
	}

	token, err := driver.Open(&node, requestedPerms)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	_ = v.index.update(id, node)

	return newFile(v, id, node, token), nil
}

// EnumerateDirectory returns an Enumerator over dirId's entries,
// pinning the directory alive for the enumerator's lifetime.
func (v *Vfs) EnumerateDirectory(actor User, dirId NodeId) (*Enumerator, error) {
	const op = "enumerate_directory"
	node, ok := v.index.get(dirId)
	if !ok {
		return nil, wrapErr(op, ErrBadF)
	}
	if !isDirNode(node) {
		return nil, wrapErr(op, ErrNotDir)
	}
	if !CanUserPerformAction(node.Owner, node.Perms, actor, Read) {
		return nil, wrapErr(op, ErrPerm)
	}

	if err := v.index.addLink(dirId); err != nil {
		return nil, wrapErr(op, err)
	}

	entries := v.dirDriver.snapshotEntries(node)
	return newEnumerator(v, dirId, entries), nil
}
