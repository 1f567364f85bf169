package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"lrucache/internal/cache"
	"lrucache/internal/replay"
)

func run(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	app := newApp()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &out
	app.ErrWriter = &errOut
	app.ExitErrHandler = func(*cli.Context, error) {}

	err = app.Run(append([]string{"lrucache"}, args...))
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	// viper ignores empty variables, so this masks anything set by the caller.
	t.Setenv("LRUCACHE_CAPACITY", "")
	t.Setenv("LRUCACHE_REPORT_INTERVAL", "")
	t.Setenv("LRUCACHE_VERBOSE", "")
}

func TestConfigDefaults(t *testing.T) {
	clearEnv(t)

	out, _, err := run(t, "", "config")
	require.NoError(t, err)
	assert.Equal(t, "capacity=2 report_interval=0s verbose=false\n", out)
}

func TestConfigPrecedence(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "lrucache.yaml", "capacity: 5\nreport_interval: 1s\n")

	out, _, err := run(t, "", "--config", path, "config")
	require.NoError(t, err)
	assert.Equal(t, "capacity=5 report_interval=1s verbose=false\n", out, "file overrides defaults")

	t.Setenv("LRUCACHE_CAPACITY", "3")
	out, _, err = run(t, "", "--config", path, "config")
	require.NoError(t, err)
	assert.Equal(t, "capacity=3 report_interval=1s verbose=false\n", out, "env overrides file")

	out, _, err = run(t, "", "--config", path, "--capacity", "7", "--verbose", "config")
	require.NoError(t, err)
	assert.Equal(t, "capacity=7 report_interval=1s verbose=true\n", out, "flags override env")
}

func TestConfigMissingFile(t *testing.T) {
	clearEnv(t)

	_, _, err := run(t, "", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "config")
	assert.ErrorContains(t, err, "read config")
}

func TestReplayFromFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "scenario.txt", `
put 1 1
put 2 2
get 1 1
put 3 3
get 2 -
put 4 4
get 1 -
get 3 3
get 4 4
`)

	out, _, err := run(t, "", "--capacity", "2", "replay", path)
	require.NoError(t, err)
	assert.Contains(t, out, "get 2 -> -\n")
	assert.Contains(t, out, "get 4 -> 4\n")
	assert.Contains(t, out, "ok: puts=4 gets=5 hits=3 misses=2 asserts=5\n")
}

func TestReplayFromStdinWithMetrics(t *testing.T) {
	clearEnv(t)

	out, _, err := run(t, "put a 1\nget a\nget b\n", "replay", "--metrics", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "get a -> 1\n")
	assert.Contains(t, out, "lrucache_cache_hits_total 1\n")
	assert.Contains(t, out, "lrucache_cache_misses_total 1\n")
	assert.Contains(t, out, "lrucache_cache_capacity 2\n")
}

func TestReplayFailures(t *testing.T) {
	clearEnv(t)

	_, _, err := run(t, "put a 1\nput b 2\nget a 1\n", "--capacity", "1", "replay")
	require.ErrorIs(t, err, replay.ErrMismatch)

	_, _, err = run(t, "drop a\n", "replay")
	require.ErrorIs(t, err, replay.ErrSyntax)

	_, _, err = run(t, "put a 1\n", "--capacity", "0", "replay")
	require.ErrorIs(t, err, cache.ErrInvalidCapacity)

	_, _, err = run(t, "", "replay", filepath.Join(t.TempDir(), "missing.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDemo(t *testing.T) {
	clearEnv(t)

	out, errOut, err := run(t, "", "--verbose", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "GET 1 = 1 (touches 1 -> MRU)")
	assert.Contains(t, out, "GET 2: missing (evicted as LRU)")
	assert.Contains(t, out, "keys (MRU->LRU): [4 3]")
	assert.Contains(t, out, "next eviction: 3")
	assert.Contains(t, out, "stats: hits=1 misses=2 puts=4 evictions=2")
	assert.Contains(t, errOut, "evicted 2 (LRU)")
	assert.Contains(t, errOut, "evicted 1 (LRU)")
}
