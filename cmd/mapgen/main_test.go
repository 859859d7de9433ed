package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blytheSchen/SketchTiler-sub000/internal/tileset"
)

// testEnv writes a config pointing at a temporary SQLite database.
func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := fmt.Sprintf(`
logging:
  level: ERROR
generator:
  width: 5
  height: 3
  max_attempts: 3
  seed: 11
database:
  driver: sqlite
  sqlite_path: %s
`, filepath.Join(dir, "mapgen.db"))
	path := filepath.Join(dir, "mapgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runWithStderr(t, args...)
	return out, err
}

func runWithStderr(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd, a := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := execute(context.Background(), cmd, a)
	return out.String(), errOut.String(), err
}

func TestLearn(t *testing.T) {
	cfg := testEnv(t)

	out, err := run(t, "--config", cfg, "learn", "--tileset", "testdata/checker.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "tileset:      checker")
	assert.Contains(t, out, "pattern size: 2")
	assert.Contains(t, out, "patterns:     2")
	assert.Contains(t, out, "tiles:        [0 1]")
}

func TestLearn_RequiresTileset(t *testing.T) {
	_, err := run(t, "--config", testEnv(t), "learn")
	require.Error(t, err)
}

func TestGenerate_PinnedCheckerboard(t *testing.T) {
	cfg := testEnv(t)
	outFile := filepath.Join(t.TempDir(), "maps", "board.yaml")

	out, err := run(t, "--config", cfg, "generate",
		"--tileset", "testdata/checker.yaml",
		"--pin", "0,0=light",
		"--out", outFile,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "#.#.#\n.#.#.\n#.#.#\n")
	assert.Contains(t, out, "attempts=1")

	f, err := os.Open(outFile)
	require.NoError(t, err)
	defer f.Close()
	doc, err := tileset.ReadMap(f)
	require.NoError(t, err)
	assert.Equal(t, "checker", doc.Tileset)
	assert.Equal(t, 5, doc.Width)
	assert.Equal(t, 3, doc.Height)
	assert.Equal(t, int64(11), doc.Seed)
}

func TestGenerate_PinContradiction(t *testing.T) {
	_, err := run(t, "--config", testEnv(t), "generate",
		"--tileset", "testdata/checker.yaml",
		"--pin", "0,0=light",
		"--pin", "1,0=light",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contradict")
}

func TestGenerate_TraceFlushedOnFailure(t *testing.T) {
	_, stderr, err := runWithStderr(t, "--config", testEnv(t), "--trace", "generate",
		"--tileset", "testdata/checker.yaml",
		"--pin", "0,0=light",
		"--pin", "1,0=light",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contradict")
	assert.Contains(t, stderr, "wfc.Solve")
}

func TestGenerate_TraceOnSuccess(t *testing.T) {
	_, stderr, err := runWithStderr(t, "--config", testEnv(t), "--trace", "generate",
		"--tileset", "testdata/checker.yaml",
		"--pin", "0,0=light",
	)
	require.NoError(t, err)
	assert.Contains(t, stderr, "wfc.Solve")
}

func TestGenerate_InvalidFlags(t *testing.T) {
	cfg := testEnv(t)

	_, err := run(t, "--config", cfg, "generate", "--tileset", "testdata/checker.yaml", "--heuristic", "random")
	assert.Error(t, err)

	_, err = run(t, "--config", cfg, "generate", "--tileset", "testdata/checker.yaml", "--count", "0")
	assert.Error(t, err)

	_, err = run(t, "--config", cfg, "generate", "--tileset", "testdata/checker.yaml", "--pin", "0,0=lava")
	assert.Error(t, err)

	_, err = run(t, "--config", cfg, "generate", "--tileset", "testdata/missing.yaml")
	assert.Error(t, err)
}

func TestGenerate_Count(t *testing.T) {
	cfg := testEnv(t)
	outFile := filepath.Join(t.TempDir(), "board.yaml")

	out, err := run(t, "--config", cfg, "generate",
		"--tileset", "testdata/checker.yaml",
		"--count", "3",
		"--width", "4",
		"--height", "2",
		"--out", outFile,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "# map 3/3")

	for i := 1; i <= 3; i++ {
		_, err := os.Stat(strings.TrimSuffix(outFile, ".yaml") + fmt.Sprintf("-%d.yaml", i))
		assert.NoError(t, err, "map %d", i)
	}
}

var savedID = regexp.MustCompile(`saved map ([0-9a-f-]{36})`)

func TestMapsLifecycle(t *testing.T) {
	cfg := testEnv(t)

	out, err := run(t, "--config", cfg, "generate",
		"--tileset", "testdata/checker.yaml",
		"--pin", "0,0=dark",
		"--save",
	)
	require.NoError(t, err)
	match := savedID.FindStringSubmatch(out)
	require.Len(t, match, 2, "output: %s", out)
	id := match[1]

	out, err = run(t, "--config", cfg, "maps", "list")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "5x3")

	out, err = run(t, "--config", cfg, "maps", "show", id, "--tileset", "testdata/checker.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, ".#.#.\n#.#.#\n.#.#.\n")

	out, err = run(t, "--config", cfg, "maps", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "01010\n10101\n01010\n")

	out, err = run(t, "--config", cfg, "maps", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted map "+id)

	_, err = run(t, "--config", cfg, "maps", "show", id)
	assert.Error(t, err)
}

func TestLearn_Save(t *testing.T) {
	cfg := testEnv(t)

	out, err := run(t, "--config", cfg, "learn", "--tileset", "testdata/checker.yaml", "--save")
	require.NoError(t, err)
	assert.Contains(t, out, "saved model ")

	// Saving again is idempotent.
	_, err = run(t, "--config", cfg, "learn", "--tileset", "testdata/checker.yaml", "--save")
	require.NoError(t, err)
}

func TestMapPath(t *testing.T) {
	assert.Equal(t, "out/map.yaml", mapPath("out/map.yaml", 0, 1))
	assert.Equal(t, "out/map-2.yaml", mapPath("out/map.yaml", 1, 3))
	assert.Equal(t, "map-1", mapPath("map", 0, 2))
}

func TestDBCopy(t *testing.T) {
	src := testEnv(t)
	_, err := run(t, "--config", src, "generate",
		"--tileset", "testdata/checker.yaml",
		"--pin", "0,0=light",
		"--save",
	)
	require.NoError(t, err)
	srcDB := filepath.Join(filepath.Dir(src), "mapgen.db")

	dst := testEnv(t)
	out, err := run(t, "--config", dst, "db", "copy", "--from", srcDB, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "would copy 1 models, 1 maps")

	out, err = run(t, "--config", dst, "db", "copy", "--from", srcDB)
	require.NoError(t, err)
	assert.Contains(t, out, "copied 1 models, 1 maps")

	out, err = run(t, "--config", dst, "maps", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "5x3")

	_, err = run(t, "--config", src, "db", "copy", "--from", srcDB)
	assert.Error(t, err)
}
