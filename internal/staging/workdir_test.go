package staging

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestWorkdirPaths(t *testing.T) {
	wd := New("/tmp")

	assert.Equal(t, "/tmp", wd.Root())
	assert.Equal(t, filepath.Join("/tmp", "site-packages"), wd.ScratchDir())
	assert.Equal(t, filepath.Join("/tmp", "python"), wd.LayerDir())
	assert.Equal(t, filepath.Join("/tmp", "python", "lib", "python3.13", "site-packages"), wd.SitePackagesDir("python3.13"))
	assert.Equal(t, filepath.Join("/tmp", "boto3-python3.13-1.36.2.zip"), wd.ArchivePath("boto3", "python3.13", "1.36.2"))
}

func TestNewDefaultsToTempDir(t *testing.T) {
	assert.Equal(t, os.TempDir(), New("").Root())
}

func TestPreCleanRemovesStaleState(t *testing.T) {
	root := t.TempDir()
	wd := New(root)

	// Leftovers from a previous invocation that died mid-run, including an
	// archive named for a different version.
	touch(t, filepath.Join(wd.ScratchDir(), "boto3", "__init__.py"))
	touch(t, filepath.Join(wd.LayerDir(), "lib", "python3.12", "site-packages", "old.py"))
	touch(t, filepath.Join(root, "boto3-python3.12-1.0.0.zip"))
	touch(t, filepath.Join(root, "unrelated.txt"))

	require.NoError(t, wd.PreClean(context.Background()))

	assert.NoDirExists(t, wd.ScratchDir())
	assert.NoDirExists(t, wd.LayerDir())
	assert.NoFileExists(t, filepath.Join(root, "boto3-python3.12-1.0.0.zip"))
	// Non-archive files in the shared root are not ours to delete.
	assert.FileExists(t, filepath.Join(root, "unrelated.txt"))
}

func TestPreCleanOnEmptyRoot(t *testing.T) {
	wd := New(t.TempDir())
	require.NoError(t, wd.PreClean(context.Background()))
}

func TestPromoteMovesScratchIntoLayout(t *testing.T) {
	wd := New(t.TempDir())
	touch(t, filepath.Join(wd.ScratchDir(), "boto3", "__init__.py"))

	require.NoError(t, wd.Promote("python3.13"))

	assert.NoDirExists(t, wd.ScratchDir())
	assert.FileExists(t, filepath.Join(wd.SitePackagesDir("python3.13"), "boto3", "__init__.py"))
}

func TestPromoteWithoutScratchFails(t *testing.T) {
	wd := New(t.TempDir())
	err := wd.Promote("python3.13")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to move installed package")
}

func TestCleanupRemovesBothSubtrees(t *testing.T) {
	wd := New(t.TempDir())
	touch(t, filepath.Join(wd.ScratchDir(), "a.py"))
	touch(t, filepath.Join(wd.LayerDir(), "lib", "python3.13", "site-packages", "b.py"))

	wd.Cleanup(context.Background())

	assert.NoDirExists(t, wd.ScratchDir())
	assert.NoDirExists(t, wd.LayerDir())
}

func TestCleanupIsIdempotent(t *testing.T) {
	wd := New(t.TempDir())
	wd.Cleanup(context.Background())
	wd.Cleanup(context.Background())
}
