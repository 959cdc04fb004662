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

package synthfs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abbyssoul/libkasofs"
)

func TestSynthfsReadOnlyEndpoint(t *testing.T) {
	t.Parallel()

	owner := kasofs.User{Uid: 1, Gid: 1}
	vfs := kasofs.NewVfs(kasofs.FixedClock{At: time.Unix(1700000000, 0)}, owner, 0o755, nil)

	d := New(nil)
	message := []byte("synthetic bytes\n")
	kind := d.DefineEndpoint(0o444, func(dst []byte, offset uint64) (int, error) {
		if offset > uint64(len(message)) {
			return 0, kasofs.ErrOverflow
		}
		return copy(dst, message[offset:]), nil
	}, nil)
	driverId := vfs.RegisterDriver(d)

	id, err := vfs.Mknode(owner, vfs.RootId(), "version", driverId, kind, owner, 0o444)
	require.NoError(t, err)

	f, err := vfs.Open(owner, id, kasofs.Read)
	require.NoError(t, err)
	defer f.Close()

	buf := make([]byte, len(message))
	n, err := f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, string(message), string(buf[:n]))

	_, err = f.Write([]byte("nope"))
	assert.ErrorIs(t, err, kasofs.ErrWrongKind)
}

func TestSynthfsWriteOnlyEndpointFeedsCallback(t *testing.T) {
	t.Parallel()

	owner := kasofs.User{Uid: 1, Gid: 1}
	vfs := kasofs.NewVfs(kasofs.FixedClock{At: time.Unix(1700000000, 0)}, owner, 0o755, nil)

	d := New(nil)
	var captured []byte
	kind := d.DefineEndpoint(0o222, nil, func(src []byte, offset uint64) (int, error) {
		captured = append(captured[:offset], src...)
		return len(src), nil
	})
	driverId := vfs.RegisterDriver(d)

	id, err := vfs.Mknode(owner, vfs.RootId(), "sink", driverId, kind, owner, 0o222)
	require.NoError(t, err)

	f, err := vfs.Open(owner, id, kasofs.Write)
	require.NoError(t, err)
	defer f.Close()

	n, err := f.Write([]byte("fed"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "fed", string(captured))
}

func TestSynthfsUnknownKindRejected(t *testing.T) {
	t.Parallel()

	d := New(nil)
	_, err := d.CreateNode(42, kasofs.User{}, 0)
	assert.ErrorIs(t, err, kasofs.ErrWrongKind)
}
