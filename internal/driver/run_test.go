package driver

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"shroud/internal/vm"
)

func TestParseArg(t *testing.T) {
	cases := []struct {
		raw  string
		want vm.Value
	}{
		{"42", vm.MakeInt(42)},
		{"-7", vm.MakeInt(-7)},
		{`"hi"`, vm.MakeStr("hi")},
		{`b"\x01"`, vm.MakeBytes([]byte{1})},
		{"true", vm.MakeBool(true)},
		{"none", vm.None()},
		{"[1, 2]", vm.MakeList(vm.MakeInt(1), vm.MakeInt(2))},
	}
	for _, tc := range cases {
		got, err := ParseArg(tc.raw)
		require.NoError(t, err, tc.raw)
		require.True(t, got.Equal(tc.want), "%s: got %s", tc.raw, got.Repr())
	}

	for _, raw := range []string{"f()", "x", "1 +", ""} {
		_, err := ParseArg(raw)
		require.Error(t, err, raw)
	}
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "prog.shr", sample+"\nprint(add(1, 2));\n")

	var out bytes.Buffer
	res, err := RunFile(context.Background(), path, RunOptions{Stdout: &out})
	require.NoError(t, err)
	require.False(t, res.Called)
	require.Equal(t, "3\n", out.String())

	out.Reset()
	res, err = RunFile(context.Background(), path, RunOptions{Stdout: &out, Call: "greet", Args: []string{`"ann"`}})
	require.NoError(t, err)
	require.True(t, res.Called)
	require.True(t, res.Value.Equal(vm.MakeStr("hi ann")))

	_, err = RunFile(context.Background(), path, RunOptions{Call: "add", Args: []string{"1", "x"}})
	require.Error(t, err)

	_, err = RunFile(context.Background(), filepath.Join(dir, "nope.shr"), RunOptions{})
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	require.Equal(t, StageLoad, stageErr.Stage)
}

func TestFormatPathsCheck(t *testing.T) {
	dir := t.TempDir()
	messy := writeFile(t, dir, "messy.shr", "fn f(a: int) -> int {   return a+1; }\n")

	results, err := FormatPaths(context.Background(), []string{messy}, FormatOptions{Check: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	require.True(t, results[0].Changed)

	results, err = FormatPaths(context.Background(), []string{messy}, FormatOptions{})
	require.NoError(t, err)
	require.True(t, results[0].Changed)

	results, err = FormatPaths(context.Background(), []string{messy}, FormatOptions{Check: true})
	require.NoError(t, err)
	require.False(t, results[0].Changed, "formatting is idempotent")
}
