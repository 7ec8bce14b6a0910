package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"complexify/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0644))
	}
}

func TestCollectSourceFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"app.py",
		"README.md",
		"pkg/util.py",
		"pkg/test_util.py",
		"pkg/util_test.py",
		"venv/lib/site.py",
		".hidden/secret.py",
		"__pycache__/app.py",
		"gen/schema_pb2.py",
	)

	cfg := config.DefaultConfig()
	cfg.Files.Exclude = append(cfg.Files.Exclude, "*_pb2.py")

	files, err := collectSourceFiles(cfg, root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "app.py"),
		filepath.Join(root, "pkg/util.py"),
	}, files)

	cfg.Files.IncludeTests = true
	files, err = collectSourceFiles(cfg, root)
	require.NoError(t, err)
	assert.Len(t, files, 4)
}

func TestCollectSourceFilesDoubleStarExcludes(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"src/app.py",
		"src/api/v1/service_pb2.py",
		"build/gen/models.py",
		"tools/build/gen/helper.py",
	)

	cfg := config.DefaultConfig()
	cfg.Files.Exclude = []string{"src/**/*_pb2.py", "build/gen/**"}

	files, err := collectSourceFiles(cfg, root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "src/app.py")}, files)
}

func TestCollectSourceFilesExplicitFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "test_thing.py")
	path := filepath.Join(root, "test_thing.py")

	files, err := collectSourceFiles(config.DefaultConfig(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)

	_, err = collectSourceFiles(config.DefaultConfig(), filepath.Join(root, "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatchRoots(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.py", "b.py", "sub/c.py")

	roots := watchRoots([]string{
		filepath.Join(root, "a.py"),
		filepath.Join(root, "b.py"),
		filepath.Join(root, "sub"),
	})
	assert.Equal(t, []string{root, filepath.Join(root, "sub")}, roots)
}

func TestExtractFeatures(t *testing.T) {
	cfg := config.DefaultConfig()
	rows, err := extractFeatures(cfg, []string{
		"../testdata/python/matrix.py",
		"../testdata/python/broken.py",
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 3, rows[0].Features.ForLoops)
	assert.Equal(t, 3, rows[0].Features.LoopDepth)
	assert.Empty(t, rows[0].ParseError)

	assert.NotEmpty(t, rows[1].ParseError)
	assert.Zero(t, rows[1].Features.FunctionDefs)
	assert.Positive(t, rows[1].Features.NormalizedLength)

	_, err = extractFeatures(cfg, []string{"../testdata/python/nope.py"})
	assert.Error(t, err)
}
