// Copyright (c) 2024, just-bash contributors
// See LICENSE for licensing information

package interp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/defrex/just-bash/interp"
	"github.com/defrex/just-bash/syntax"
	"github.com/defrex/just-bash/vfs"
)

func newRunner() *interp.Runner {
	return interp.New(vfs.NewMemFS(nil), "/", nil)
}

func run(t *testing.T, r *interp.Runner, src string) (string, string, int) {
	t.Helper()
	f, err := syntax.ParseProgram(src)
	require.NoError(t, err)
	code := r.Run(f.Stmts)
	return r.Stdout.String(), r.Stderr.String(), code
}

func TestReadonlyVariableRejectsAssignment(t *testing.T) {
	r := newRunner()
	out, _, code := run(t, r, "readonly X=1; X=2; echo $X")
	assert.Equal(t, 0, code)
	assert.Equal(t, "1\n", out)
}

func TestReadBuiltinConsumesStdin(t *testing.T) {
	r := newRunner()
	out, _, code := run(t, r, "echo hi | read line; echo got:$line")
	assert.Equal(t, 0, code)
	assert.Equal(t, "got:hi\n", out)
}

func TestLocalAssignsIntoCurrentScope(t *testing.T) {
	r := newRunner()
	out, _, code := run(t, r, "f() { local y=inner; echo $y; }; f")
	assert.Equal(t, 0, code)
	assert.Equal(t, "inner\n", out)
}

func TestCommandNotFoundExitCode127(t *testing.T) {
	r := newRunner()
	_, stderr, code := run(t, r, "nonexistentcmd")
	assert.Equal(t, 127, code)
	assert.Contains(t, stderr, "not found")
}

func TestRedirectionToFile(t *testing.T) {
	r := newRunner()
	_, _, code := run(t, r, "echo hello > /out.txt")
	assert.Equal(t, 0, code)
	data, err := r.FS.Read("/out.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", data)
}

func TestAppendRedirection(t *testing.T) {
	r := newRunner()
	_, _, code := run(t, r, "echo one > /out.txt; echo two >> /out.txt")
	assert.Equal(t, 0, code)
	data, err := r.FS.Read("/out.txt")
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", data)
}
