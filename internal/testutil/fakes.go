// Package testutil provides in-memory fakes for the handlers' collaborators
// so pipeline behavior can be tested without a registry, a package manager,
// an object store, or a CloudFormation stack.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/cfnres"
	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/pyruntime"
)

// FakeResolver returns a canned version or error.
type FakeResolver struct {
	Version string
	Err     error
	Calls   int
}

func (r *FakeResolver) LatestVersion(_ context.Context, name string) (string, error) {
	r.Calls++
	if r.Err != nil {
		return "", fmt.Errorf("failed to get latest version for %s: %w", name, r.Err)
	}
	return r.Version, nil
}

// InstallCall records one Install invocation.
type InstallCall struct {
	Name, Version, Target string
}

// FakeInstaller materializes a minimal installed-package tree under the
// target directory, the way pip would, or fails with Err.
type FakeInstaller struct {
	Err   error
	Calls []InstallCall
}

func (i *FakeInstaller) Install(_ context.Context, name, version, targetDir string) error {
	i.Calls = append(i.Calls, InstallCall{Name: name, Version: version, Target: targetDir})
	if i.Err != nil {
		return i.Err
	}
	pkgDir := filepath.Join(targetDir, strings.ReplaceAll(name, "-", "_"))
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		return err
	}
	init := fmt.Sprintf("__version__ = %q\n", version)
	return os.WriteFile(filepath.Join(pkgDir, "__init__.py"), []byte(init), 0o644)
}

// UploadCall records one Upload invocation, including whether the archive
// file actually existed at upload time.
type UploadCall struct {
	Bucket, Key, Path string
	FileExisted       bool
}

// FakeStore records uploads and can be made to fail.
type FakeStore struct {
	Err     error
	Uploads []UploadCall
}

func (s *FakeStore) Upload(_ context.Context, bucket, key, path string) error {
	_, statErr := os.Stat(path)
	s.Uploads = append(s.Uploads, UploadCall{
		Bucket: bucket, Key: key, Path: path,
		FileExisted: statErr == nil,
	})
	return s.Err
}

// SentCallback records one terminal callback.
type SentCallback struct {
	Event  cfnres.Event
	Status cfnres.Status
	Data   map[string]string
	Reason string
}

// RecordingSender captures callbacks instead of delivering them.
type RecordingSender struct {
	Err   error
	Sends []SentCallback
}

func (s *RecordingSender) Send(_ context.Context, event cfnres.Event, status cfnres.Status, data map[string]string, reason string) error {
	s.Sends = append(s.Sends, SentCallback{Event: event, Status: status, Data: data, Reason: reason})
	return s.Err
}

// Only returns the single recorded callback, failing loudly when the
// one-callback-per-request discipline was violated.
func (s *RecordingSender) Only() (SentCallback, error) {
	if len(s.Sends) != 1 {
		return SentCallback{}, fmt.Errorf("expected exactly 1 callback, got %d", len(s.Sends))
	}
	return s.Sends[0], nil
}

// StaticIntrospector reports a fixed ambient identity.
type StaticIntrospector struct {
	Ambient pyruntime.Identity
	Err     error
}

func (p *StaticIntrospector) Identity(context.Context) (pyruntime.Identity, error) {
	return p.Ambient, p.Err
}

// StaticLoader reports a fixed load result or error.
type StaticLoader struct {
	Result pyruntime.LoadResult
	Err    error
	Calls  int
}

func (l *StaticLoader) Load(context.Context, string) (pyruntime.LoadResult, error) {
	l.Calls++
	return l.Result, l.Err
}
