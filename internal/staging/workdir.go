// Package staging manages the per-invocation scratch filesystem: a flat
// install target, the canonical layer-shaped tree, and the local archive
// path. The sandbox an invocation runs in may be reused by a later one, so
// nothing here assumes a clean slate and everything is removed on every exit
// path.
package staging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/ctxlog"
	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/model"
)

// LayerFolder is the top-level folder name inside the archive. The Lambda
// layer mechanism requires this exact name for Python runtimes.
const LayerFolder = "python"

// scratchFolder is where pip installs before the tree is promoted into the
// runtime-shaped layout.
const scratchFolder = "site-packages"

// Workdir is a scoped handle on the ephemeral root. Acquire one per
// invocation and always pair it with Cleanup.
type Workdir struct {
	root string
}

// New returns a Workdir rooted at root, defaulting to the system temp
// directory (which is the invocation sandbox's /tmp on Lambda).
func New(root string) *Workdir {
	if root == "" {
		root = os.TempDir()
	}
	return &Workdir{root: root}
}

// Root returns the ephemeral root directory.
func (w *Workdir) Root() string { return w.root }

// ScratchDir is the flat pip install target.
func (w *Workdir) ScratchDir() string { return filepath.Join(w.root, scratchFolder) }

// LayerDir is the canonical runtime-shaped tree that gets archived.
func (w *Workdir) LayerDir() string { return filepath.Join(w.root, LayerFolder) }

// SitePackagesDir is the final location of the installed package inside the
// layer tree, e.g. <root>/python/lib/python3.13/site-packages.
func (w *Workdir) SitePackagesDir(runtime string) string {
	return filepath.Join(w.LayerDir(), "lib", runtime, scratchFolder)
}

// ArchivePath is the local path of the layer zip for the given identity.
func (w *Workdir) ArchivePath(packageName, runtime, version string) string {
	return filepath.Join(w.root, model.ArchiveName(packageName, runtime, version))
}

// PreClean removes staging subtrees and archive files left behind by a
// previous invocation that shared this sandbox and failed before its own
// cleanup. Stale archives may carry a different version in their name, so
// every zip under the root goes.
func (w *Workdir) PreClean(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	for _, dir := range []string{w.ScratchDir(), w.LayerDir()} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to remove stale staging dir %s: %w", dir, err)
		}
	}

	staleZips, err := filepath.Glob(filepath.Join(w.root, "*.zip"))
	if err != nil {
		return fmt.Errorf("failed to scan for stale archives: %w", err)
	}
	for _, zip := range staleZips {
		logger.Info("Removing stale archive.", "path", zip)
		if err := os.Remove(zip); err != nil {
			return fmt.Errorf("failed to remove stale archive %s: %w", zip, err)
		}
	}
	return nil
}

// Promote moves the populated scratch tree into the runtime-shaped layout.
// It must only be called after a successful install.
func (w *Workdir) Promote(runtime string) error {
	libDir := filepath.Join(w.LayerDir(), "lib", runtime)
	if err := os.MkdirAll(libDir, 0o755); err != nil {
		return fmt.Errorf("failed to create layer directory %s: %w", libDir, err)
	}
	target := filepath.Join(libDir, scratchFolder)
	if err := os.Rename(w.ScratchDir(), target); err != nil {
		return fmt.Errorf("failed to move installed package into layer layout: %w", err)
	}
	return nil
}

// Cleanup removes both staging subtrees. It is best-effort and safe to call
// on any exit path, including when staging never started.
func (w *Workdir) Cleanup(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	for _, dir := range []string{w.ScratchDir(), w.LayerDir()} {
		if err := os.RemoveAll(dir); err != nil {
			logger.Error("Failed to clean staging directory.", "path", dir, "error", err)
		}
	}
}
