// Copyright (c) 2024, just-bash contributors
// See LICENSE for licensing information

package interp

import (
	"strconv"
	"strings"

	"github.com/defrex/just-bash/find"
	"github.com/defrex/just-bash/vfs"
)

// builtinFunc is a built-in command: it reads r.stdin, writes r.Stdout /
// r.Stderr, and returns an exit code. Built-ins never produce a control
// signal directly — break/continue/return/exit are handled by dispatch
// before this table is ever consulted.
type builtinFunc func(r *Runner, args []string) int

var builtins = map[string]builtinFunc{
	"echo":     biEcho,
	"printf":   biPrintf,
	"cat":      biCat,
	"wc":       biWc,
	"grep":     biGrep,
	"ls":       biLs,
	"stat":     biStat,
	"pwd":      biPwd,
	"cd":       biCd,
	"export":   biExport,
	"unset":    biUnset,
	"readonly": biReadonly,
	"local":    biLocal,
	"set":      biSet,
	":":        biTrue,
	"true":     biTrue,
	"false":    biFalse,
	"test":     biTest,
	"[":        biBracketTest,
	"read":     biRead,
}

// find is registered separately: biFind reaches this table again through
// dispatch, which the map literal's initializer cannot refer back to.
func init() { builtins["find"] = biFind }

// biBracketTest is "test" invoked as "[ ... ]": the final argument must be
// a literal "]", stripped before the shared evaluator runs.
func biBracketTest(r *Runner, args []string) int {
	if len(args) == 0 || args[len(args)-1] != "]" {
		r.Stderr.WriteString("[: missing closing ']'\n")
		return 2
	}
	return biTest(r, args[:len(args)-1])
}

// biTest implements the subset of POSIX test scripts actually reach for:
// a lone string's emptiness, "=" / "!=" string comparison, the six "-eq"
// style numeric comparisons, and the "-z"/"-n"/"-f"/"-d"/"-e" unary tests.
func biTest(r *Runner, args []string) int {
	switch len(args) {
	case 0:
		return 1
	case 1:
		return boolExit(args[0] != "")
	case 2:
		return testUnary(r, args[0], args[1])
	case 3:
		return testBinary(r, args[0], args[1], args[2])
	default:
		r.Stderr.WriteString("test: too many arguments\n")
		return 2
	}
}

func testUnary(r *Runner, op, operand string) int {
	switch op {
	case "-z":
		return boolExit(operand == "")
	case "-n":
		return boolExit(operand != "")
	case "-f", "-d", "-e":
		abs := r.FS.ResolvePath(r.Cwd, operand)
		info, err := r.FS.Stat(abs)
		if err != nil {
			return 1
		}
		switch op {
		case "-f":
			return boolExit(!info.IsDir)
		case "-d":
			return boolExit(info.IsDir)
		default:
			return 0
		}
	case "!":
		return boolExit(operand == "")
	default:
		r.Stderr.WriteString("test: unknown unary operator " + op + "\n")
		return 2
	}
}

func testBinary(r *Runner, lhs, op, rhs string) int {
	switch op {
	case "=", "==":
		return boolExit(lhs == rhs)
	case "!=":
		return boolExit(lhs != rhs)
	case "-eq":
		return boolExit(atoiArg(lhs) == atoiArg(rhs))
	case "-ne":
		return boolExit(atoiArg(lhs) != atoiArg(rhs))
	case "-lt":
		return boolExit(atoiArg(lhs) < atoiArg(rhs))
	case "-le":
		return boolExit(atoiArg(lhs) <= atoiArg(rhs))
	case "-gt":
		return boolExit(atoiArg(lhs) > atoiArg(rhs))
	case "-ge":
		return boolExit(atoiArg(lhs) >= atoiArg(rhs))
	default:
		r.Stderr.WriteString("test: unknown binary operator " + op + "\n")
		return 2
	}
}

// biRead takes one line off the command's stdin (wired up by a pipeline or
// "<" redirection) and assigns it to the named variable, or "REPLY" if
// none was given. Remaining stdin stays available for a later "read" in
// the same command's scope.
func biRead(r *Runner, args []string) int {
	name := "REPLY"
	if len(args) > 0 {
		name = args[0]
	}
	if r.stdin == "" {
		return 1
	}
	line := r.stdin
	rest := ""
	if i := strings.IndexByte(r.stdin, '\n'); i >= 0 {
		line = r.stdin[:i]
		rest = r.stdin[i+1:]
	} else {
		rest = ""
	}
	r.stdin = rest
	r.Vars[name] = &Variable{Value: line}
	return 0
}

// biFind implements the find command: the first argument is the search
// root, everything after it is the predicate expression. "-exec" runs its
// command through the same dispatch table as any other command, so
// built-ins and shell functions both work as "-exec" targets. As with
// POSIX find, an expression containing "-exec" turns off the default
// printing of matching paths.
func biFind(r *Runner, args []string) int {
	if len(args) == 0 {
		r.Stderr.WriteString("find: usage: find path [expression]\n")
		return 1
	}
	root := r.FS.ResolvePath(r.Cwd, args[0])
	node, maxDepth, err := find.Parse(args[1:])
	if err != nil {
		// find.Parse's errors already carry a "find: " prefix.
		r.Stderr.WriteString(err.Error() + "\n")
		return 1
	}
	exec := func(argv []string) (int, error) {
		if len(argv) == 0 {
			return 1, nil
		}
		code, err := r.dispatch(argv[0], argv[1:])
		if err != nil {
			return code, nil
		}
		return code, nil
	}
	matches, err := find.Run(r.FS, root, node, maxDepth, exec)
	if err != nil {
		r.Stderr.WriteString("find: " + args[0] + ": " + fsErrMsg(err) + "\n")
		return 1
	}
	for _, a := range args[1:] {
		if a == "-exec" {
			return 0
		}
	}
	for _, m := range matches {
		r.Stdout.WriteString(m + "\n")
	}
	return 0
}

func atoiArg(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func biTrue(r *Runner, args []string) int  { return 0 }
func biFalse(r *Runner, args []string) int { return 1 }

func biEcho(r *Runner, args []string) int {
	noNewline := false
	if len(args) > 0 && args[0] == "-n" {
		noNewline = true
		args = args[1:]
	}
	r.Stdout.WriteString(strings.Join(args, " "))
	if !noNewline {
		r.Stdout.WriteString("\n")
	}
	return 0
}

// biPrintf supports the handful of conversions scripts actually use: %s,
// %d, %% and a literal passthrough for anything else, with "\n"/"\t"
// escapes in the format string itself.
func biPrintf(r *Runner, args []string) int {
	if len(args) == 0 {
		r.Stderr.WriteString("printf: usage: printf format [arguments]\n")
		return 1
	}
	format := unescapeC(args[0])
	rest := args[1:]
	var sb strings.Builder
	ai := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i == len(format)-1 {
			sb.WriteByte(c)
			continue
		}
		i++
		switch format[i] {
		case 's':
			if ai < len(rest) {
				sb.WriteString(rest[ai])
				ai++
			}
		case 'd':
			if ai < len(rest) {
				sb.WriteString(strconv.Itoa(atoiArg(rest[ai])))
				ai++
			}
		case '%':
			sb.WriteByte('%')
		default:
			sb.WriteByte('%')
			sb.WriteByte(format[i])
		}
	}
	r.Stdout.WriteString(sb.String())
	return 0
}

func unescapeC(s string) string {
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\t`, "\t")
	return s
}

func biCat(r *Runner, args []string) int {
	if len(args) == 0 {
		r.Stdout.WriteString(r.stdin)
		return 0
	}
	code := 0
	for _, a := range args {
		abs := r.FS.ResolvePath(r.Cwd, a)
		data, err := r.FS.Read(abs)
		if err != nil {
			r.Stderr.WriteString("cat: " + a + ": " + fsErrMsg(err) + "\n")
			code = 1
			continue
		}
		r.Stdout.WriteString(data)
	}
	return code
}

func biWc(r *Runner, args []string) int {
	var linesOnly, wordsOnly, bytesOnly bool
	var files []string
	for _, a := range args {
		switch a {
		case "-l":
			linesOnly = true
		case "-w":
			wordsOnly = true
		case "-c":
			bytesOnly = true
		default:
			files = append(files, a)
		}
	}
	report := func(name, data string) {
		lines := strings.Count(data, "\n")
		words := len(strings.Fields(data))
		bytes := len(data)
		switch {
		case linesOnly:
			r.Stdout.WriteString(strconv.Itoa(lines))
		case wordsOnly:
			r.Stdout.WriteString(strconv.Itoa(words))
		case bytesOnly:
			r.Stdout.WriteString(strconv.Itoa(bytes))
		default:
			r.Stdout.WriteString(strconv.Itoa(lines) + " " + strconv.Itoa(words) + " " + strconv.Itoa(bytes))
		}
		if name != "" {
			r.Stdout.WriteString(" " + name)
		}
		r.Stdout.WriteString("\n")
	}
	if len(files) == 0 {
		report("", r.stdin)
		return 0
	}
	code := 0
	for _, f := range files {
		abs := r.FS.ResolvePath(r.Cwd, f)
		data, err := r.FS.Read(abs)
		if err != nil {
			r.Stderr.WriteString("wc: " + f + ": " + fsErrMsg(err) + "\n")
			code = 1
			continue
		}
		report(f, data)
	}
	return code
}

func biGrep(r *Runner, args []string) int {
	invert := false
	ignoreCase := false
	var pat string
	var files []string
	for _, a := range args {
		switch {
		case a == "-v":
			invert = true
		case a == "-i":
			ignoreCase = true
		case pat == "":
			pat = a
		default:
			files = append(files, a)
		}
	}
	if pat == "" {
		r.Stderr.WriteString("grep: usage: grep [-v] [-i] pattern [file...]\n")
		return 2
	}
	needle := pat
	fold := func(s string) string {
		if ignoreCase {
			return strings.ToLower(s)
		}
		return s
	}
	needle = fold(needle)

	matched := false
	scan := func(label, data string) {
		lines := strings.Split(data, "\n")
		for i, line := range lines {
			if i == len(lines)-1 && line == "" {
				continue
			}
			hit := strings.Contains(fold(line), needle)
			if hit != invert {
				matched = true
				if label != "" {
					r.Stdout.WriteString(label + ":")
				}
				r.Stdout.WriteString(line + "\n")
			}
		}
	}
	if len(files) == 0 {
		scan("", r.stdin)
	} else {
		for _, f := range files {
			abs := r.FS.ResolvePath(r.Cwd, f)
			data, err := r.FS.Read(abs)
			if err != nil {
				r.Stderr.WriteString("grep: " + f + ": " + fsErrMsg(err) + "\n")
				continue
			}
			label := ""
			if len(files) > 1 {
				label = f
			}
			scan(label, data)
		}
	}
	if !matched {
		return 1
	}
	return 0
}

func biLs(r *Runner, args []string) int {
	dirs := args
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	code := 0
	for _, d := range dirs {
		abs := r.FS.ResolvePath(r.Cwd, d)
		entries, err := r.FS.List(abs)
		if err != nil {
			r.Stderr.WriteString("ls: " + d + ": " + fsErrMsg(err) + "\n")
			code = 1
			continue
		}
		sorted := vfs.SortedCopy(entries)
		for _, e := range sorted {
			r.Stdout.WriteString(e + "\n")
		}
	}
	return code
}

func biStat(r *Runner, args []string) int {
	if len(args) == 0 {
		r.Stderr.WriteString("stat: usage: stat file\n")
		return 1
	}
	code := 0
	for _, a := range args {
		abs := r.FS.ResolvePath(r.Cwd, a)
		info, err := r.FS.Stat(abs)
		if err != nil {
			r.Stderr.WriteString("stat: " + a + ": " + fsErrMsg(err) + "\n")
			code = 1
			continue
		}
		kind := "regular file"
		if info.IsDir {
			kind = "directory"
		}
		r.Stdout.WriteString(a + ": " + kind + ", size " + strconv.FormatInt(info.Size, 10) + "\n")
	}
	return code
}

func biPwd(r *Runner, args []string) int {
	r.Stdout.WriteString(r.Cwd + "\n")
	return 0
}

func biCd(r *Runner, args []string) int {
	target := r.Cwd
	if len(args) > 0 {
		target = args[0]
	} else if home, ok := r.Vars["HOME"]; ok {
		target = home.Value
	}
	abs := r.FS.ResolvePath(r.Cwd, target)
	info, err := r.FS.Stat(abs)
	if err != nil || !info.IsDir {
		r.Stderr.WriteString("cd: " + target + ": no such directory\n")
		return 1
	}
	r.Cwd = abs
	return 0
}

func biExport(r *Runner, args []string) int {
	for _, a := range args {
		name, value, hasValue := cutAssign(a)
		v, ok := r.Vars[name]
		if !ok {
			v = &Variable{}
			r.Vars[name] = v
		}
		if hasValue {
			v.Value = value
		}
		v.Exported = true
	}
	return 0
}

func biReadonly(r *Runner, args []string) int {
	for _, a := range args {
		name, value, hasValue := cutAssign(a)
		v, ok := r.Vars[name]
		if !ok {
			v = &Variable{}
			r.Vars[name] = v
		}
		if hasValue {
			v.Value = value
		}
		v.ReadOnly = true
	}
	return 0
}

// biLocal is a function-scope-unaware approximation: it behaves like a
// plain assignment within the current (possibly cloned, for a subshell)
// variable table, since functions share their caller's Vars map rather
// than pushing their own scope.
func biLocal(r *Runner, args []string) int {
	for _, a := range args {
		name, value, hasValue := cutAssign(a)
		if !hasValue {
			value = ""
		}
		r.Vars[name] = &Variable{Value: value}
	}
	return 0
}

func cutAssign(s string) (name, value string, hasValue bool) {
	if i := strings.IndexByte(s, '='); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return s, "", false
}

// biSet implements the handful of "set" uses scripts written against this
// shell rely on: "set --" followed by new positional parameters, and flag
// arguments are accepted and mostly ignored — "errexit" stays out of scope
// — except "-x"/"+x", which toggle the runner's xtrace tracer (trace.go).
func biSet(r *Runner, args []string) int {
	i := 0
	for i < len(args) && (strings.HasPrefix(args[i], "-") || strings.HasPrefix(args[i], "+")) {
		switch args[i] {
		case "-x":
			r.xtrace = true
		case "+x":
			r.xtrace = false
		}
		i++
	}
	if i < len(args) && args[i] == "--" {
		i++
	}
	if i < len(args) || (len(args) > 0 && args[len(args)-1] == "--") {
		r.Params = append([]string(nil), args[i:]...)
	}
	return 0
}

func biUnset(r *Runner, args []string) int {
	for _, a := range args {
		delete(r.Vars, a)
	}
	return 0
}

func fsErrMsg(err error) string {
	switch err {
	case vfs.ErrNotExist:
		return "No such file or directory"
	case vfs.ErrNotDir:
		return "Not a directory"
	case vfs.ErrIsDir:
		return "Is a directory"
	default:
		return err.Error()
	}
}
