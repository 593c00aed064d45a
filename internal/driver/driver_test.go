package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"shroud/internal/diag"
	"shroud/internal/parser"
	"shroud/internal/pipeline"
	"shroud/internal/testkit"
	"shroud/internal/vm"
)

const sample = `import math;

fn add(a: int, b: int) -> int {
    return a + b;
}

fn greet(name: str) -> str {
    return "hi " + name;
}
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func noMaskRequest(seed int64) pipeline.Request {
	req := pipeline.DefaultRequest()
	req.Seed = seed
	req.Passes = pipeline.AllPasses &^ pipeline.PassSet(pipeline.PassMask)
	return req
}

func TestOutputPath(t *testing.T) {
	cases := []struct {
		in, suffix, dir, want string
	}{
		{"prog.shr", "", "", "prog_obfuscated.shr"},
		{"a/b/prog.shr", "", "", filepath.Join("a", "b", "prog_obfuscated.shr")},
		{"a/prog.shr", "_x", "out", filepath.Join("out", "prog_x.shr")},
		{"noext", "", "", "noext_obfuscated"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, OutputPath(tc.in, tc.suffix, tc.dir), tc.in)
	}
}

func TestObfuscateFilesWritesEquivalentOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "prog.shr", sample)

	report, err := ObfuscateFiles(context.Background(), []string{in}, Options{Request: noMaskRequest(11)})
	require.NoError(t, err)
	require.Equal(t, 0, report.Failed())
	res := report.Results[0]
	require.Equal(t, filepath.Join(dir, "prog_obfuscated.shr"), res.Output)
	require.Equal(t, int64(11), res.Seed)
	require.Len(t, res.Funcs, 2)
	require.NotEmpty(t, res.Helpers)

	orig, err := os.ReadFile(in)
	require.NoError(t, err)
	require.Equal(t, sample, string(orig), "input is never modified")

	written, err := os.ReadFile(res.Output)
	require.NoError(t, err)
	require.Equal(t, string(res.Text), string(written))

	before := testkit.MustParse(t, sample)
	after, err := parser.ParseString(res.Output, string(written))
	require.NoError(t, err)
	testkit.Equivalent(t, before, after, "add", testkit.Ints([]int64{3, 4}, []int64{-5, 10}, []int64{0, 0})...)
	testkit.Equivalent(t, before, after, "greet", []vm.Value{vm.MakeStr("bob")}, []vm.Value{vm.MakeStr("x")})
}

func TestObfuscateFilesIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.shr", sample)
	bad := writeFile(t, dir, "bad.shr", "fn broken( { return 1; }\n")
	missing := filepath.Join(dir, "missing.shr")

	var mu sync.Mutex
	final := map[string]Status{}
	sink := SinkFunc(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		if ev.File != "" && (ev.Status == StatusDone || ev.Status == StatusError) {
			final[ev.File] = ev.Status
		}
	})

	report, err := ObfuscateFiles(context.Background(), []string{good, bad, missing}, Options{
		Request:  noMaskRequest(3),
		Jobs:     2,
		Progress: sink,
	})
	require.NoError(t, err)
	require.Equal(t, 2, report.Failed())
	require.True(t, report.Results[0].OK())

	var stageErr *StageError
	require.ErrorAs(t, report.Results[1].Err, &stageErr)
	require.Equal(t, StageParse, stageErr.Stage)
	var perr *parser.ParseError
	require.ErrorAs(t, report.Results[1].Err, &perr)
	require.True(t, report.Results[1].Bag.HasErrors())

	require.ErrorAs(t, report.Results[2].Err, &stageErr)
	require.Equal(t, StageLoad, stageErr.Stage)
	require.Equal(t, diag.IOLoadFileError, report.Results[2].Bag.Items()[0].Code)

	_, statErr := os.Stat(OutputPath(bad, "", ""))
	require.True(t, errors.Is(statErr, os.ErrNotExist), "no output for a broken input")

	require.Equal(t, map[string]Status{good: StatusDone, bad: StatusError, missing: StatusError}, final)
	require.True(t, report.Diagnostics().HasErrors())
}

func TestMissingTargetIsReported(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "prog.shr", sample)
	req := noMaskRequest(5)
	req.Functions = []string{"add", "nope", "gone"}

	report, err := ObfuscateFiles(context.Background(), []string{in}, Options{Request: req})
	require.NoError(t, err)
	res := report.Results[0]
	var tnf *pipeline.TargetNotFoundError
	require.ErrorAs(t, res.Err, &tnf)
	require.Equal(t, []string{"nope", "gone"}, tnf.Missing)
	first, ok := res.Bag.FirstError()
	require.True(t, ok)
	require.Equal(t, diag.ObfTargetNotFound, first.Code)
	require.Len(t, first.Notes, 2)

	_, statErr := os.Stat(res.Output)
	require.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestStrictUnsupportedIsReportedAtTheLoop(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "loop.shr", "fn count(n: int) -> int {\n    i = 0;\n    while i < n {\n        i = i + 1;\n    }\n    return i;\n}\n")
	req := noMaskRequest(5)
	req.Strict = true

	report, err := ObfuscateFiles(context.Background(), []string{in}, Options{Request: req, DryRun: true})
	require.NoError(t, err)
	first, ok := report.Results[0].Bag.FirstError()
	require.True(t, ok)
	require.Equal(t, diag.ObfUnsupported, first.Code)
	require.False(t, first.Primary.IsSynthetic())

	req.Strict = false
	report, err = ObfuscateFiles(context.Background(), []string{in}, Options{Request: req, DryRun: true})
	require.NoError(t, err)
	require.True(t, report.Results[0].OK())
	items := report.Results[0].Bag.Items()
	require.NotEmpty(t, items)
	require.Equal(t, diag.ObfFlattenPassthru, items[0].Code)
}

func TestExplicitOutputNeedsOneInput(t *testing.T) {
	_, err := ObfuscateFiles(context.Background(), []string{"a.shr", "b.shr"}, Options{Output: "out.shr"})
	require.Error(t, err)
	_, err = ObfuscateFiles(context.Background(), nil, Options{})
	require.ErrorIs(t, err, ErrNoInputs)
}

func TestExplicitOutputAndDryRun(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "prog.shr", sample)
	out := filepath.Join(dir, "nested", "result.shr")

	report, err := ObfuscateFiles(context.Background(), []string{in}, Options{Request: noMaskRequest(1), Output: out, DryRun: true})
	require.NoError(t, err)
	require.Equal(t, out, report.Results[0].Output)
	require.NotEmpty(t, report.Results[0].Text)
	_, statErr := os.Stat(out)
	require.True(t, errors.Is(statErr, os.ErrNotExist))

	_, err = ObfuscateFiles(context.Background(), []string{in}, Options{Request: noMaskRequest(1), Output: out})
	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, report.Results[0].Text, data, "same seed, same text")
}

func TestCacheServesRepeatedRuns(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "prog.shr", sample)
	cache, err := OpenDiskCacheAt(filepath.Join(dir, "cache"))
	require.NoError(t, err)

	opts := Options{Request: pipeline.DefaultRequest(), Cache: cache, DryRun: true}
	opts.Request.Seed = 99
	first, err := ObfuscateFiles(context.Background(), []string{in}, opts)
	require.NoError(t, err)
	require.False(t, first.Results[0].Cached)

	second, err := ObfuscateFiles(context.Background(), []string{in}, opts)
	require.NoError(t, err)
	require.True(t, second.Results[0].Cached)
	require.Equal(t, first.Results[0].Text, second.Results[0].Text)
	require.Equal(t, first.Results[0].Masks, second.Results[0].Masks)
	require.Equal(t, len(first.Results[0].Funcs), len(second.Results[0].Funcs))

	// другой seed, другой ключ
	opts.Request.Seed = 100
	third, err := ObfuscateFiles(context.Background(), []string{in}, opts)
	require.NoError(t, err)
	require.False(t, third.Results[0].Cached)

	// случайный seed не кэшируется
	opts.Request.Seed = 0
	for range 2 {
		r, err := ObfuscateFiles(context.Background(), []string{in}, opts)
		require.NoError(t, err)
		require.False(t, r.Results[0].Cached)
		require.NotZero(t, r.Results[0].Seed)
	}

	require.NoError(t, cache.DropAll())
	opts.Request.Seed = 99
	again, err := ObfuscateFiles(context.Background(), []string{in}, opts)
	require.NoError(t, err)
	require.False(t, again.Results[0].Cached)
}

func TestCacheKeyIgnoresJobs(t *testing.T) {
	req := pipeline.DefaultRequest()
	req.Seed = 7
	a, ok := cacheKey([]byte("x = 1;"), req)
	require.True(t, ok)
	req.Jobs = 8
	b, _ := cacheKey([]byte("x = 1;"), req)
	require.Equal(t, a, b)
	req.MBA.Depth = 1
	c, _ := cacheKey([]byte("x = 1;"), req)
	require.NotEqual(t, a, c)
	d, _ := cacheKey([]byte("x = 2;"), req)
	require.NotEqual(t, c, d)
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	require.NoError(t, err)
	var key Digest
	key[0] = 1

	var out DiskPayload
	ok, err := cache.Get(key, &out)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, cache.Put(key, &DiskPayload{Path: "p.shr", Output: []byte("x = 1;\n"), Seed: 4}))
	ok, err = cache.Get(key, &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "x = 1;\n", string(out.Output))
	require.Equal(t, int64(4), out.Seed)

	entries, err := os.ReadDir(filepath.Join(cache.Dir(), "outputs"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files are cleaned up")

	var nilCache *DiskCache
	require.NoError(t, nilCache.Put(key, &out))
	ok, err = nilCache.Get(key, &out)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTimingsDiagnostic(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "prog.shr", sample)
	report, err := ObfuscateFiles(context.Background(), []string{in}, Options{Request: noMaskRequest(2), Timings: true, DryRun: true})
	require.NoError(t, err)
	var found bool
	for _, d := range report.Results[0].Bag.Items() {
		if d.Code == diag.ObfTimings {
			found = true
			require.Len(t, d.Notes, 1)
			require.Contains(t, d.Notes[0].Msg, `"kind":"file"`)
			require.Contains(t, d.Notes[0].Msg, `"name":"add"`)
		}
	}
	require.True(t, found)
	require.True(t, report.Results[0].Timings.Has(StageObfuscate))
	require.False(t, report.Results[0].Timings.Has(StageWrite))
}

func TestCancelledContext(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "prog.shr", sample)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ObfuscateFiles(ctx, []string{in}, Options{Request: noMaskRequest(2), DryRun: true})
	require.ErrorIs(t, err, context.Canceled)
}

func TestCollectSourceFilesSkipsOutputs(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.shr", "x = 1;\n")
	writeFile(t, dir, "a_obfuscated.shr", "x = 1;\n")
	writeFile(t, dir, "notes.txt", "")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	b := writeFile(t, filepath.Join(dir, "sub"), "b.shr", "y = 2;\n")

	files, err := CollectSourceFiles(context.Background(), []string{dir}, DefaultSuffix)
	require.NoError(t, err)
	require.Equal(t, []string{a, b}, files)

	explicit := filepath.Join(dir, "a_obfuscated.shr")
	files, err = CollectSourceFiles(context.Background(), []string{explicit, a, a}, DefaultSuffix)
	require.NoError(t, err)
	require.Equal(t, []string{a, explicit}, files)

	missing := filepath.Join(dir, "gone.shr")
	files, err = CollectSourceFiles(context.Background(), []string{missing}, DefaultSuffix)
	require.NoError(t, err)
	require.Equal(t, []string{missing}, files)
}

func TestReboundBuiltinWarnsAndSkipsEncode(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "len.shr", "fn len(x) {\n    return 99;\n}\n\nfn greet(s: str) -> str {\n    return \"hi \" + s;\n}\n")

	report, err := ObfuscateFiles(context.Background(), []string{in}, Options{Request: noMaskRequest(3), DryRun: true})
	require.NoError(t, err)
	res := report.Results[0]
	require.True(t, res.OK())
	require.Empty(t, res.Helpers)
	require.Equal(t, []string{"len"}, res.Shadowed)

	var warned bool
	for _, d := range res.Bag.Items() {
		if d.Code == diag.ObfEncodeSkipped {
			warned = true
			require.Equal(t, diag.SevWarning, d.Severity)
			require.Contains(t, d.Message, "len")
		}
	}
	require.True(t, warned)

	rewritten := testkit.MustParse(t, string(res.Text))
	got := testkit.Invoke(rewritten, "greet", vm.MakeStr("yo"))
	require.NoError(t, got.Err)
	require.True(t, got.Value.Equal(vm.MakeStr("hi yo")), got.String())
}
