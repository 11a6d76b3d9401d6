// Package pip installs an exact package version into a target directory by
// invoking the Python package manager.
package pip

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/ctxlog"
)

// Installer is the narrow capability the builder stages packages with,
// substitutable with a fake in tests.
type Installer interface {
	Install(ctx context.Context, name, version, targetDir string) error
}

// CommandInstaller runs pip through a Python interpreter.
type CommandInstaller struct {
	// Interpreter is the Python executable to run pip under. Empty means
	// "python3".
	Interpreter string
}

// commandArgs builds the pip argument list: quiet, pinned to the exact
// version, no cache, no version negotiation.
func commandArgs(name, version, targetDir string) []string {
	return []string{
		"-m", "pip", "install", "-q",
		fmt.Sprintf("%s==%s", name, version),
		"--target", targetDir,
		"--no-cache-dir",
		"--disable-pip-version-check",
	}
}

// Install implements Installer. A non-zero pip exit is returned with the tail
// of pip's combined output so the failure is diagnosable from the callback
// reason alone.
func (i *CommandInstaller) Install(ctx context.Context, name, version, targetDir string) error {
	logger := ctxlog.FromContext(ctx)

	interpreter := i.Interpreter
	if interpreter == "" {
		interpreter = "python3"
	}

	args := commandArgs(name, version, targetDir)
	logger.Info("Installing package.", "package", name, "version", version, "target", targetDir)

	cmd := exec.CommandContext(ctx, interpreter, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("pip install %s==%s failed: %v: %s", name, version, err, outputTail(out))
	}
	return nil
}

// outputTail keeps error messages bounded; pip can be very chatty even in
// quiet mode when resolution fails.
func outputTail(out []byte) string {
	const limit = 512
	text := strings.TrimSpace(string(out))
	if len(text) <= limit {
		return text
	}
	return "..." + text[len(text)-limit:]
}
