// Copyright (c) 2024, just-bash contributors
// See LICENSE for licensing information

package justbash_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	justbash "github.com/defrex/just-bash"
)

func TestExecEchoAndExitCode(t *testing.T) {
	sh := justbash.New(justbash.Options{})
	res := sh.Exec("echo hello world")
	assert.Equal(t, "hello world\n", res.Stdout)
	assert.Equal(t, 0, res.ExitCode)
}

func TestExecSyntaxErrorNeverEvaluates(t *testing.T) {
	sh := justbash.New(justbash.Options{})
	res := sh.Exec("if true; then")
	assert.Equal(t, 2, res.ExitCode)
	assert.Empty(t, res.Stdout)
	assert.NotEmpty(t, res.Stderr)
}

func TestExecAndOrShortCircuit(t *testing.T) {
	sh := justbash.New(justbash.Options{})
	res := sh.Exec("false && echo nope; true || echo nope")
	assert.Equal(t, "", res.Stdout)
}

func TestExecPipeline(t *testing.T) {
	sh := justbash.New(justbash.Options{Files: map[string]string{
		"/data.txt": "apple\nbanana\navocado\n",
	}})
	res := sh.Exec("cat /data.txt | grep a")
	assert.Equal(t, "apple\nbanana\navocado\n", res.Stdout)

	res = sh.Exec("cat /data.txt | grep ban | wc -l")
	assert.Equal(t, "1\n", res.Stdout)
}

func TestExecSubshellVariableIsolation(t *testing.T) {
	sh := justbash.New(justbash.Options{})
	res := sh.Exec("x=outer; (x=inner; echo $x); echo $x")
	assert.Equal(t, "inner\nouter\n", res.Stdout)
}

func TestExecExportSurvivesSubshellReadOnly(t *testing.T) {
	sh := justbash.New(justbash.Options{})
	res := sh.Exec("export X=1; (echo $X; X=2); echo $X")
	assert.Equal(t, "1\n1\n", res.Stdout)
}

func TestExecWhileLoopBudgetAborts(t *testing.T) {
	sh := justbash.New(justbash.Options{})
	res := sh.Exec("while true; do :; done")
	assert.NotEqual(t, 0, res.ExitCode)
	assert.Contains(t, res.Stderr, "too many iterations")
}

func TestExecRecursionBudgetAborts(t *testing.T) {
	sh := justbash.New(justbash.Options{})
	res := sh.Exec("f() { f; }; f")
	assert.Contains(t, res.Stderr, "f: maximum recursion depth exceeded")
}

func TestExecIfElifElse(t *testing.T) {
	sh := justbash.New(justbash.Options{})
	res := sh.Exec(`
x=2
if [ "$x" = 1 ]; then
  echo one
elif [ "$x" = 2 ]; then
  echo two
else
  echo other
fi
`)
	assert.Equal(t, "two\n", res.Stdout)
}

func TestExecForLoop(t *testing.T) {
	sh := justbash.New(justbash.Options{})
	res := sh.Exec("for x in a b c; do echo $x; done")
	assert.Equal(t, "a\nb\nc\n", res.Stdout)
}

func TestExecForLoopBreakContinue(t *testing.T) {
	sh := justbash.New(justbash.Options{})
	res := sh.Exec("for x in a b c d; do if [ $x = c ]; then break; fi; echo $x; done")
	assert.Equal(t, "a\nb\n", res.Stdout)

	res = sh.Exec("for x in a b c; do if [ $x = b ]; then continue; fi; echo $x; done")
	assert.Equal(t, "a\nc\n", res.Stdout)
}

func TestExecCaseClause(t *testing.T) {
	sh := justbash.New(justbash.Options{})
	res := sh.Exec(`
for x in foo.go foo.txt; do
  case $x in
    *.go) echo go ;;
    *) echo other ;;
  esac
done
`)
	assert.Equal(t, "go\nother\n", res.Stdout)
}

func TestExecFunctionReturn(t *testing.T) {
	sh := justbash.New(justbash.Options{})
	res := sh.Exec("greet() { echo hi $1; return 3; }; greet world; echo $?")
	assert.Equal(t, "hi world\n3\n", res.Stdout)
}

func TestExecArithmeticExpansion(t *testing.T) {
	sh := justbash.New(justbash.Options{})
	res := sh.Exec("echo $((2 + 3 * 4))")
	assert.Equal(t, "14\n", res.Stdout)
}

func TestExecParameterExpansionDefault(t *testing.T) {
	sh := justbash.New(justbash.Options{})
	res := sh.Exec(`echo ${missing:-fallback}`)
	assert.Equal(t, "fallback\n", res.Stdout)
}

func TestExecCommandSubstitution(t *testing.T) {
	sh := justbash.New(justbash.Options{})
	res := sh.Exec(`echo result:$(echo inner)`)
	assert.Equal(t, "result:inner\n", res.Stdout)
}

func TestExecBraceExpansion(t *testing.T) {
	sh := justbash.New(justbash.Options{})
	res := sh.Exec("echo file{1,2,3}.txt")
	assert.Equal(t, "file1.txt file2.txt file3.txt\n", res.Stdout)
}

func TestExecGlobExpansion(t *testing.T) {
	sh := justbash.New(justbash.Options{Files: map[string]string{
		"/src/a.go":   "",
		"/src/b.go":   "",
		"/src/c.txt":  "",
	}})
	res := sh.Exec("cd /src; echo *.go")
	assert.Equal(t, "a.go b.go\n", res.Stdout)
}

func TestExecFindListing(t *testing.T) {
	sh := justbash.New(justbash.Options{Files: map[string]string{
		"/root/a.go":     "",
		"/root/b.txt":    "",
		"/root/sub/c.go": "",
	}})
	res := sh.Exec("find /root -name '*.go'")
	assert.Equal(t, "/root/a.go\n/root/sub/c.go\n", res.Stdout)
}

func TestExecFindNonexistentPath(t *testing.T) {
	sh := justbash.New(justbash.Options{})
	res := sh.Exec("find /nonexistent -name '*.go'")
	assert.NotEqual(t, 0, res.ExitCode)
}

func TestExecFindTypeAndOr(t *testing.T) {
	sh := justbash.New(justbash.Options{Files: map[string]string{
		"/root/a.go":  "",
		"/root/b.txt": "",
	}})
	res := sh.Exec(`find /root -type d -o -name "*.txt"`)
	require.Equal(t, 0, res.ExitCode)
	assert.Contains(t, res.Stdout, "/root/b.txt")
}

func TestExecFindExec(t *testing.T) {
	sh := justbash.New(justbash.Options{Files: map[string]string{
		"/root/a.go": "hello\n",
	}})
	res := sh.Exec(`find /root -name "*.go" -exec cat {} \;`)
	assert.Equal(t, "hello\n", res.Stdout)
}

func TestExecFindUnknownPredicateMessage(t *testing.T) {
	sh := justbash.New(justbash.Options{})
	res := sh.Exec("find / -bogus")
	assert.Equal(t, "find: unknown predicate '-bogus'\n", res.Stderr)
}

func TestExecFindBadTypeArgumentMessage(t *testing.T) {
	sh := justbash.New(justbash.Options{})
	res := sh.Exec("find / -type x")
	assert.Equal(t, "find: Unknown argument to -type: x\n", res.Stderr)
}

func TestExecSubshellOutputReachesParent(t *testing.T) {
	sh := justbash.New(justbash.Options{})
	res := sh.Exec("(echo inside); echo outside")
	assert.Equal(t, "inside\noutside\n", res.Stdout)
}

func TestExecRedirectAllStreams(t *testing.T) {
	sh := justbash.New(justbash.Options{})
	res := sh.Exec("echo hi &> /out.txt; cat /out.txt")
	assert.Equal(t, "hi\n", res.Stdout)
	data, err := sh.FS().Read("/out.txt")
	require.NoError(t, err)
	assert.Equal(t, "hi\n", data)
}

func TestExecScriptFoundViaPath(t *testing.T) {
	sh := justbash.New(justbash.Options{Files: map[string]string{
		"/usr/bin/greet": "echo hi $1\n",
	}})
	res := sh.Exec("greet world")
	assert.Equal(t, "hi world\n", res.Stdout)
	assert.Equal(t, 0, res.ExitCode)
}

func TestExecXtraceWritesCommandLines(t *testing.T) {
	sh := justbash.New(justbash.Options{})
	res := sh.Exec("set -x; echo hi; set +x; echo bye")
	assert.Contains(t, res.Stderr, "+ echo hi\n")
	assert.NotContains(t, res.Stderr, "+ echo bye")
	assert.Equal(t, "hi\nbye\n", res.Stdout)
}
