// Copyright (c) 2024, just-bash contributors
// See LICENSE for licensing information

// Package find implements the predicate language behind the "find"
// command: a small boolean-expression grammar over per-path tests (-name,
// -type, -exec) combined with "-a"/"-and" (implicit on adjacency), "-o"/
// "-or", "!"/"-not" and parenthesized grouping, evaluated short-circuit
// against a pre-order, lexicographically sorted directory walk.
package find

import "github.com/defrex/just-bash/vfs"

// Entry is one visited path, passed to every node's Eval.
type Entry struct {
	Path  string // absolute path
	Name  string // basename
	Info  vfs.Info
	Depth int // 0 for the search root itself
}

// ExecFunc runs argv (with "{}" already substituted) the way the shell
// would run any other command, returning its exit code. Eval treats exit
// code 0 as predicate-true, matching real find's "-exec" semantics.
type ExecFunc func(argv []string) (exitCode int, err error)

// Node is one evaluated term of a find expression.
type Node interface {
	Eval(e Entry, exec ExecFunc) (bool, error)
}

type trueNode struct{}

func (trueNode) Eval(Entry, ExecFunc) (bool, error) { return true, nil }

type notNode struct{ x Node }

func (n *notNode) Eval(e Entry, exec ExecFunc) (bool, error) {
	v, err := n.x.Eval(e, exec)
	if err != nil {
		return false, err
	}
	return !v, nil
}

// andNode short-circuits: Right is never evaluated once Left is false,
// same as "-exec" never running for a path "-name" already rejected.
type andNode struct{ left, right Node }

func (n *andNode) Eval(e Entry, exec ExecFunc) (bool, error) {
	v, err := n.left.Eval(e, exec)
	if err != nil || !v {
		return false, err
	}
	return n.right.Eval(e, exec)
}

// orNode short-circuits the same way in the other direction.
type orNode struct{ left, right Node }

func (n *orNode) Eval(e Entry, exec ExecFunc) (bool, error) {
	v, err := n.left.Eval(e, exec)
	if err != nil || v {
		return v, err
	}
	return n.right.Eval(e, exec)
}

type nameNode struct{ pattern string }

func (n *nameNode) Eval(e Entry, _ ExecFunc) (bool, error) {
	return matchName(n.pattern, e.Name), nil
}

type typeNode struct{ wantDir bool }

func (n *typeNode) Eval(e Entry, _ ExecFunc) (bool, error) {
	return e.Info.IsDir == n.wantDir, nil
}

// execNode runs argv once per matching path and folds the real exit code
// into the predicate's truth value — the POSIX behavior, chosen over the
// "always true" GNU-find convenience reading.
type execNode struct{ argv []string }

func (n *execNode) Eval(e Entry, exec ExecFunc) (bool, error) {
	argv := make([]string, len(n.argv))
	for i, a := range n.argv {
		if a == "{}" {
			argv[i] = e.Path
		} else {
			argv[i] = a
		}
	}
	if exec == nil {
		return false, nil
	}
	code, err := exec(argv)
	if err != nil {
		return false, err
	}
	return code == 0, nil
}
