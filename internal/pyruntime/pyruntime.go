// Package pyruntime observes the Python side of the execution sandbox: which
// interpreter version is present, which architecture the process runs on,
// and whether a module from the attached layer can actually be imported.
package pyruntime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/ctxlog"
)

// VersionNotFound is reported when a module imports cleanly but exposes no
// __version__ attribute. It is a reportable value, not an error.
const VersionNotFound = "Version Not Found"

// Identity is the sandbox's observed runtime/architecture tuple.
type Identity struct {
	Runtime      string
	Architecture string
}

// LoadResult is the outcome of attempting to import a module. "Not
// installed" is a normal value here; the verdict computation treats it as
// one of the comparable dimensions, not as a fault.
type LoadResult struct {
	Loaded  bool
	Version string
}

// Introspector reports the ambient identity.
type Introspector interface {
	Identity(ctx context.Context) (Identity, error)
}

// Loader attempts to import a module by its import name. A module that is
// simply absent yields a zero LoadResult and no error; an interpreter fault
// or an exception raised during import is an error.
type Loader interface {
	Load(ctx context.Context, importName string) (LoadResult, error)
}

// PythonRuntime implements Introspector and Loader against a real Python
// interpreter with the layer content mounted under LayerRoot.
type PythonRuntime struct {
	// Interpreter is the Python executable. Empty means "python3".
	Interpreter string

	// LayerRoot is where the layer archive is extracted. Empty means
	// "/opt", the Lambda layer mount point.
	LayerRoot string

	// ArchAliases maps platform architecture spellings to canonical labels.
	ArchAliases map[string]string
}

func (r *PythonRuntime) interpreter() string {
	if r.Interpreter == "" {
		return "python3"
	}
	return r.Interpreter
}

func (r *PythonRuntime) layerRoot() string {
	if r.LayerRoot == "" {
		return "/opt"
	}
	return r.LayerRoot
}

// Identity implements Introspector. The runtime identifier comes from the
// interpreter itself ("python3.13"); the architecture is the process's,
// normalized through the alias map.
func (r *PythonRuntime) Identity(ctx context.Context) (Identity, error) {
	out, err := exec.CommandContext(ctx, r.interpreter(), "-c",
		`import sys; print("python%d.%d" % sys.version_info[:2])`).Output()
	if err != nil {
		return Identity{}, fmt.Errorf("failed to determine interpreter version: %w", err)
	}

	arch := runtime.GOARCH
	if canonical, ok := r.ArchAliases[arch]; ok {
		arch = canonical
	}

	return Identity{
		Runtime:      strings.TrimSpace(string(out)),
		Architecture: arch,
	}, nil
}

// notImportableExit is the exit code the import probe reserves for a module
// that cannot be found, as opposed to one that crashes while importing.
const notImportableExit = 43

// Load implements Loader. The module is imported in a fresh interpreter with
// the layer's directories on PYTHONPATH. A missing module is the "not
// installed" value; any other exception raised during import is reported as
// an error carrying the exception text.
func (r *PythonRuntime) Load(ctx context.Context, importName string) (LoadResult, error) {
	logger := ctxlog.FromContext(ctx)

	// The name is interpolated into a -c program, so it must at least be a
	// well-formed import path; anything else cannot import anyway.
	if !validImportName(importName) {
		logger.Info("Import name is not a valid module path.", "import_name", importName)
		return LoadResult{}, nil
	}

	program := fmt.Sprintf(
		"try:\n"+
			"    import %s as m\n"+
			"except ImportError:\n"+
			"    raise SystemExit(%d)\n"+
			"print(getattr(m, '__version__', %q))",
		importName, notImportableExit, VersionNotFound,
	)
	cmd := exec.CommandContext(ctx, r.interpreter(), "-c", program)
	cmd.Env = append(os.Environ(), "PYTHONPATH="+strings.Join(r.searchPaths(), string(os.PathListSeparator)))

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.ExitCode() == notImportableExit {
				logger.Info("Module is not importable.", "import_name", importName)
				return LoadResult{}, nil
			}
			if detail := exceptionLine(exitErr.Stderr); detail != "" {
				return LoadResult{}, fmt.Errorf("failed to import %s: %s", importName, detail)
			}
		}
		return LoadResult{}, fmt.Errorf("failed to import %s: %w", importName, err)
	}

	version := strings.TrimSpace(string(out))
	if version == "" {
		version = VersionNotFound
	}
	return LoadResult{Loaded: true, Version: version}, nil
}

// exceptionLine extracts the last non-blank line of an interpreter's stderr,
// which for a traceback is the exception type and message.
func exceptionLine(stderr []byte) string {
	lines := strings.Split(strings.TrimSpace(string(stderr)), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

// searchPaths lists the layer directories a Python runtime would have on
// sys.path: the top-level python folder plus every runtime-versioned
// site-packages beneath it.
func (r *PythonRuntime) searchPaths() []string {
	root := filepath.Join(r.layerRoot(), "python")
	paths := []string{root}
	if matches, err := filepath.Glob(filepath.Join(root, "lib", "*", "site-packages")); err == nil {
		paths = append(paths, matches...)
	}
	return paths
}

// validImportName accepts dotted sequences of Python identifiers.
func validImportName(name string) bool {
	if name == "" {
		return false
	}
	for _, part := range strings.Split(name, ".") {
		if part == "" {
			return false
		}
		for i, ch := range part {
			switch {
			case ch == '_', ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
			case ch >= '0' && ch <= '9':
				if i == 0 {
					return false
				}
			default:
				return false
			}
		}
	}
	return true
}
