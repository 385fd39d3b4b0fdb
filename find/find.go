// Copyright (c) 2024, just-bash contributors
// See LICENSE for licensing information

package find

import (
	"github.com/defrex/just-bash/vfs"
)

// Run walks root (already an absolute, resolved path) pre-order with
// lexicographically sorted siblings at each level, evaluating the parsed
// predicate at every visited entry and collecting the paths it accepts.
// maxDepth < 0 means unbounded.
func Run(fs vfs.FS, root string, node Node, maxDepth int, exec ExecFunc) ([]string, error) {
	rootInfo, err := fs.Stat(root)
	if err != nil {
		return nil, err
	}
	var out []string
	err = walk(fs, root, rootName(root), rootInfo, 0, maxDepth, node, exec, &out)
	return out, err
}

func rootName(root string) string {
	_, base := vfs.SplitParent(root)
	return base
}

func walk(fs vfs.FS, path, name string, info vfs.Info, depth, maxDepth int, node Node, exec ExecFunc, out *[]string) error {
	e := Entry{Path: path, Name: name, Info: info, Depth: depth}
	ok, err := node.Eval(e, exec)
	if err != nil {
		return err
	}
	if ok {
		*out = append(*out, path)
	}
	if !info.IsDir {
		return nil
	}
	if maxDepth >= 0 && depth >= maxDepth {
		return nil
	}
	children, err := fs.List(path)
	if err != nil {
		return err
	}
	for _, child := range vfs.SortedCopy(children) {
		childPath := path
		if childPath == "/" {
			childPath = "/" + child
		} else {
			childPath = childPath + "/" + child
		}
		childInfo, err := fs.Stat(childPath)
		if err != nil {
			continue
		}
		if err := walk(fs, childPath, child, childInfo, depth+1, maxDepth, node, exec, out); err != nil {
			return err
		}
	}
	return nil
}
