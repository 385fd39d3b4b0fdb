// Copyright (c) 2024, just-bash contributors
// See LICENSE for licensing information

package find_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/defrex/just-bash/find"
	"github.com/defrex/just-bash/vfs"
)

func testFS() *vfs.MemFS {
	return vfs.NewMemFS(map[string]string{
		"/root/a.go":     "",
		"/root/b.txt":    "",
		"/root/sub/c.go": "",
	})
}

func TestRunPreOrderSorted(t *testing.T) {
	c := qt.New(t)
	fs := testFS()
	node, depth, err := find.Parse(nil)
	c.Assert(err, qt.IsNil)
	got, err := find.Run(fs, "/root", node, depth, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{
		"/root", "/root/a.go", "/root/b.txt", "/root/sub", "/root/sub/c.go",
	})
}

func TestRunNameFilter(t *testing.T) {
	c := qt.New(t)
	fs := testFS()
	node, depth, err := find.Parse([]string{"-name", "*.go"})
	c.Assert(err, qt.IsNil)
	got, err := find.Run(fs, "/root", node, depth, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"/root/a.go", "/root/sub/c.go"})
}

func TestRunMaxDepth(t *testing.T) {
	c := qt.New(t)
	fs := testFS()
	node, depth, err := find.Parse([]string{"-maxdepth", "1", "-name", "*.go"})
	c.Assert(err, qt.IsNil)
	c.Assert(depth, qt.Equals, 1)
	got, err := find.Run(fs, "/root", node, depth, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"/root/a.go"})
}

func TestRunOrShortCircuit(t *testing.T) {
	c := qt.New(t)
	fs := testFS()
	node, depth, err := find.Parse([]string{"-name", "*.txt", "-o", "-type", "d"})
	c.Assert(err, qt.IsNil)
	got, err := find.Run(fs, "/root", node, depth, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"/root", "/root/b.txt", "/root/sub"})
}

func TestRunNotAndGrouping(t *testing.T) {
	c := qt.New(t)
	fs := testFS()
	node, depth, err := find.Parse([]string{"!", "(", "-type", "d", ")", "-a", "-name", "*.go"})
	c.Assert(err, qt.IsNil)
	got, err := find.Run(fs, "/root", node, depth, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"/root/a.go", "/root/sub/c.go"})
}

func TestRunExecUsesRealExitCode(t *testing.T) {
	c := qt.New(t)
	fs := testFS()
	node, depth, err := find.Parse([]string{"-name", "*.go", "-exec", "false", ";"})
	c.Assert(err, qt.IsNil)
	exec := func(argv []string) (int, error) {
		if argv[0] == "false" {
			return 1, nil
		}
		return 0, nil
	}
	got, err := find.Run(fs, "/root", node, depth, exec)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.HasLen, 0) // POSIX semantics: nonzero exit makes the predicate false
}

func TestRunNonexistentRoot(t *testing.T) {
	c := qt.New(t)
	fs := testFS()
	node, depth, err := find.Parse(nil)
	c.Assert(err, qt.IsNil)
	_, err = find.Run(fs, "/nope", node, depth, nil)
	c.Assert(err, qt.Equals, vfs.ErrNotExist)
}
