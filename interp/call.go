// Copyright (c) 2024, just-bash contributors
// See LICENSE for licensing information

package interp

import (
	"strings"

	"github.com/defrex/just-bash/syntax"
	"github.com/defrex/just-bash/token"
)

type savedVar struct {
	name    string
	had     bool
	prior   Variable
}

// tempSet assigns name=value in r's table, remembering whatever was there
// before so execCall can put it back once the command finishes — bash's
// "FOO=bar cmd" applies FOO only for cmd's duration.
func (r *Runner) tempSet(name, value string) savedVar {
	sv := savedVar{name: name}
	if v, ok := r.Vars[name]; ok {
		sv.had = true
		sv.prior = *v
		v.Value = value
	} else {
		r.Vars[name] = &Variable{Value: value}
	}
	return sv
}

func (r *Runner) restoreAll(saved []savedVar) {
	for _, sv := range saved {
		if sv.had {
			prior := sv.prior
			r.Vars[sv.name] = &prior
		} else {
			delete(r.Vars, sv.name)
		}
	}
}

func (r *Runner) execCall(c *syntax.CallExpr) (int, error) {
	if len(c.Args) == 0 {
		code := 0
		for _, a := range c.Assigns {
			val, err := r.literal(a.Value)
			if err != nil {
				r.Stderr.WriteString(err.Error() + "\n")
				return 1, nil
			}
			if err := r.Set(a.Name, val); err != nil {
				r.Stderr.WriteString(err.Error() + "\n")
				code = 1
			}
		}
		return code, nil
	}

	var saved []savedVar
	for _, a := range c.Assigns {
		val, err := r.literal(a.Value)
		if err != nil {
			return 1, nil
		}
		saved = append(saved, r.tempSet(a.Name, val))
	}
	defer r.restoreAll(saved)

	var args []string
	for _, w := range c.Args {
		fs, err := r.fields(w)
		if err != nil {
			return 1, nil
		}
		args = append(args, fs...)
	}
	if len(args) == 0 {
		return 0, nil
	}
	r.trace(args)

	if len(c.Redirs) == 0 {
		return r.dispatch(args[0], args[1:])
	}
	return r.execWithRedirs(c, args)
}

// execWithRedirs runs the command with a private Stdout/Stderr buffer so
// redirected fds can be routed to the filesystem instead of the shell's
// real output, then restores the runner's original buffers.
func (r *Runner) execWithRedirs(c *syntax.CallExpr, args []string) (int, error) {
	var toFile = map[int]struct {
		path   string
		append bool
	}{}
	var hereInput string
	haveHereInput := false
	var rdrAllTarget string
	haveRdrAll := false

	for _, rd := range c.Redirs {
		fd := rd.Fd
		switch rd.Op {
		case token.GTR:
			if fd == -1 {
				fd = 1
			}
			target, err := r.literal(rd.Target)
			if err != nil {
				return 1, nil
			}
			toFile[fd] = struct {
				path   string
				append bool
			}{path: target}
		case token.SHR:
			if fd == -1 {
				fd = 1
			}
			target, err := r.literal(rd.Target)
			if err != nil {
				return 1, nil
			}
			toFile[fd] = struct {
				path   string
				append bool
			}{path: target, append: true}
		case token.DLESS:
			text, err := r.literal(rd.Target)
			if err != nil {
				return 1, nil
			}
			hereInput = text
			haveHereInput = true
		case token.RDRALL:
			// "&>" diverts both stdout and stderr into the same file; routed
			// as one combined write below so the second stream's redirect
			// never truncates over the first's content.
			target, err := r.literal(rd.Target)
			if err != nil {
				return 1, nil
			}
			rdrAllTarget = target
			haveRdrAll = true
		default:
			// "<" reads the target file into the command's stdin; only
			// "cat"-style builtins consult it via Runner.stdin, set below. A
			// heredoc ("<<") is accepted but supplies no input.
			if rd.Op == token.LSS {
				target, err := r.literal(rd.Target)
				if err != nil {
					return 1, nil
				}
				if data, err := r.FS.Read(r.FS.ResolvePath(r.Cwd, target)); err == nil {
					hereInput = data
					haveHereInput = true
				}
			}
		}
	}

	savedOut, savedErr := r.Stdout, r.Stderr
	r.Stdout = strings.Builder{}
	r.Stderr = strings.Builder{}
	if haveHereInput {
		r.stdin = hereInput
	}

	code, err := r.dispatch(args[0], args[1:])

	out, errOut := r.Stdout.String(), r.Stderr.String()
	r.Stdout, r.Stderr = savedOut, savedErr
	r.stdin = ""

	if haveRdrAll {
		r.writeRedirect(rdrAllTarget, out+errOut, false)
		return code, err
	}
	if f, ok := toFile[1]; ok {
		r.writeRedirect(f.path, out, f.append)
	} else {
		r.Stdout.WriteString(out)
	}
	if f, ok := toFile[2]; ok {
		r.writeRedirect(f.path, errOut, f.append)
	} else {
		r.Stderr.WriteString(errOut)
	}
	return code, err
}

func (r *Runner) writeRedirect(path, content string, appendMode bool) {
	abs := r.FS.ResolvePath(r.Cwd, path)
	if appendMode {
		if existing, err := r.FS.Read(abs); err == nil {
			content = existing + content
		}
	}
	r.FS.Write(abs, content)
}

func (r *Runner) dispatch(name string, args []string) (int, error) {
	switch name {
	case "break":
		return 0, &breakSignal{n: argOrOne(args)}
	case "continue":
		return 0, &continueSignal{n: argOrOne(args)}
	case "return":
		code := r.LastExit
		if len(args) > 0 {
			code = atoiArg(args[0])
		}
		return code, &returnSignal{code: code}
	case "exit":
		code := r.LastExit
		if len(args) > 0 {
			code = atoiArg(args[0])
		}
		return code, &exitSignal{code: code}
	}
	if fn, ok := r.Funcs[name]; ok {
		return r.callFunc(fn, args)
	}
	if bi, ok := builtins[name]; ok {
		return bi(r, args), nil
	}
	if path, ok := r.pathLookup(name); ok {
		return r.runScriptFile(name, path, args)
	}
	r.Stderr.WriteString(name + ": command not found\n")
	return 127, nil
}

// pathDirs are the virtual-filesystem directories dispatch searches, in
// order, for a same-named script once no function or built-in matches —
// spec.md §4.4's step 4, "PATH search in the virtual filesystem".
var pathDirs = []string{"/usr/bin", "/bin"}

// pathLookup resolves a bare command name (never one already containing a
// "/", which always goes straight through the filesystem rather than PATH)
// against pathDirs, returning the first existing regular file.
func (r *Runner) pathLookup(name string) (string, bool) {
	if strings.Contains(name, "/") {
		return "", false
	}
	for _, dir := range pathDirs {
		candidate := dir + "/" + name
		info, err := r.FS.Stat(candidate)
		if err == nil && !info.IsDir {
			return candidate, true
		}
	}
	return "", false
}

// runScriptFile parses path as a shell script and runs it in a cloned
// runner with args as its positional parameters, the same isolation a
// subshell gets: its own Vars/Funcs, but output and the command-count
// budget fold back into r once it finishes.
func (r *Runner) runScriptFile(name, path string, args []string) (int, error) {
	data, err := r.FS.Read(path)
	if err != nil {
		r.Stderr.WriteString(name + ": " + fsErrMsg(err) + "\n")
		return 126, nil
	}
	file, err := syntax.ParseProgram(data)
	if err != nil {
		r.Stderr.WriteString(name + ": " + err.Error() + "\n")
		return 126, nil
	}
	sub := r.clone()
	sub.Params = args
	code, err := sub.execStmts(file.Stmts)
	r.commandCount = sub.commandCount
	r.Stdout.WriteString(sub.Stdout.String())
	r.Stderr.WriteString(sub.Stderr.String())
	if err != nil {
		switch e := err.(type) {
		case *exitSignal:
			return e.code, nil
		case *BudgetExceededError:
			return code, err
		}
	}
	return code, nil
}

func argOrOne(args []string) int {
	if len(args) == 0 {
		return 1
	}
	n := atoiArg(args[0])
	if n < 1 {
		return 1
	}
	return n
}

func (r *Runner) callFunc(fn *syntax.FuncDecl, args []string) (int, error) {
	r.depth++
	defer func() { r.depth-- }()
	if r.depth > MaxRecursionDepth {
		return 1, &BudgetExceededError{msg: fn.Name + ": maximum recursion depth exceeded"}
	}
	savedParams := r.Params
	r.Params = args
	defer func() { r.Params = savedParams }()

	code, err := r.execStmt(fn.Body)
	if err != nil {
		if ret, ok := err.(*returnSignal); ok {
			return ret.code, nil
		}
		return code, err
	}
	return code, nil
}
