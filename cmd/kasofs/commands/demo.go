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

package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abbyssoul/libkasofs"
	"github.com/abbyssoul/libkasofs/extras/ramfs"
	"github.com/abbyssoul/libkasofs/extras/synthfs"
	"github.com/abbyssoul/libkasofs/internal/config"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Build a sample tree in a fresh Vfs and print it",
	RunE:  runDemo,
}

func runDemo(cmd *cobra.Command, _ []string) error {
	cfg := config.MustLoad(configPath)

	root := kasofs.User{Uid: cfg.Root.Uid, Gid: cfg.Root.Gid}
	vfs := kasofs.NewVfs(kasofs.SystemClock, root, kasofs.FilePermissions(cfg.Root.Perms), nil)

	ram := ramfs.New(kasofs.SystemClock)
	ramId := vfs.RegisterDriver(ram)

	synth := synthfs.New(kasofs.SystemClock)
	versionKind := synth.DefineEndpoint(0o444, func(dst []byte, offset uint64) (int, error) {
		msg := []byte(fmt.Sprintf("kasofs demo %s (%s)\n", version, date))
		if offset > uint64(len(msg)) {
			return 0, kasofs.ErrOverflow
		}
		return copy(dst, msg[offset:]), nil
	}, nil)
	synthId := vfs.RegisterDriver(synth)

	if _, err := vfs.CreateDirectory(root, vfs.RootId(), "data", root, 0o755); err != nil {
		return err
	}
	dataEntry, err := vfs.Walk(root, vfs.RootId(), "data", nil)
	if err != nil {
		return err
	}

	fileId, err := vfs.Mknode(root, dataEntry.NodeId, "hello.txt", ramId, ramfs.NodeKind, root, 0o644)
	if err != nil {
		return err
	}
	if err := writeAll(vfs, root, fileId, []byte("hello from kasofs\n")); err != nil {
		return err
	}

	if _, err := vfs.CreateDirectory(root, vfs.RootId(), "proc", root, 0o755); err != nil {
		return err
	}
	procEntry, err := vfs.Walk(root, vfs.RootId(), "proc", nil)
	if err != nil {
		return err
	}
	if _, err := vfs.Mknode(root, procEntry.NodeId, "version", synthId, versionKind, root, 0o444); err != nil {
		return err
	}

	printTree(vfs, root, vfs.RootId(), "/", 0)
	return nil
}

func writeAll(vfs *kasofs.Vfs, actor kasofs.User, id kasofs.NodeId, data []byte) error {
	f, err := vfs.Open(actor, id, kasofs.Write)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(data)
	return err
}

func printTree(vfs *kasofs.Vfs, actor kasofs.User, dirId kasofs.NodeId, name string, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}

	node, ok := vfs.NodeByID(dirId)
	if !ok {
		return
	}

	if node.DriverId == kasofs.DirectoryDriverId {
		fmt.Println(indent + color.BlueString(name+"/"))
	} else {
		fmt.Println(indent + name)
	}

	if node.DriverId != kasofs.DirectoryDriverId {
		return
	}

	enum, err := vfs.EnumerateDirectory(actor, dirId)
	if err != nil {
		return
	}
	defer enum.Close()

	for {
		entry, ok := enum.Next()
		if !ok {
			break
		}
		printTree(vfs, actor, entry.NodeId, entry.Name, depth+1)
	}
}
