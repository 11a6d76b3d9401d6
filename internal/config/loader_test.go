package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBytesFullConfig(t *testing.T) {
	src := []byte(`
packages      = ["boto3", "requests"]
runtimes      = ["python3.13"]
architectures = ["arm64"]

architecture_aliases = {
  aarch64 = "arm64"
}
`)
	model, err := LoadBytes(src, "layers.hcl")
	require.NoError(t, err)

	assert.Equal(t, []string{"boto3", "requests"}, model.Packages)
	assert.Equal(t, []string{"python3.13"}, model.Runtimes)
	assert.Equal(t, []string{"arm64"}, model.Architectures)
	assert.Equal(t, map[string]string{"aarch64": "arm64"}, model.ArchAliases)
}

func TestLoadBytesMinimalConfigKeepsDefaults(t *testing.T) {
	model, err := LoadBytes([]byte(`packages = ["boto3"]`), "layers.hcl")
	require.NoError(t, err)

	assert.Equal(t, []string{"boto3"}, model.Packages)
	assert.Equal(t, Default().Runtimes, model.Runtimes)
	assert.Equal(t, Default().Architectures, model.Architectures)
	assert.Equal(t, Default().ArchAliases, model.ArchAliases)
}

func TestLoadBytesRejectsEmptyPackageList(t *testing.T) {
	_, err := LoadBytes([]byte(`packages = []`), "layers.hcl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one supported package")
}

func TestLoadBytesRejectsInvalidSyntax(t *testing.T) {
	_, err := LoadBytes([]byte(`packages = [`), "layers.hcl")
	require.Error(t, err)
}

func TestLoadBytesRejectsUnknownAttribute(t *testing.T) {
	_, err := LoadBytes([]byte(`
packages = ["boto3"]
region   = "eu-west-1"
`), "layers.hcl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "region")
}

func TestLoadBytesRejectsNonStringAliases(t *testing.T) {
	_, err := LoadBytes([]byte(`
packages = ["boto3"]
architecture_aliases = { aarch64 = 7 }
`), "layers.hcl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "architecture_aliases")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layers.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`packages = ["urllib3"]`), 0o644))

	model, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, model.SupportsPackage("urllib3"))
	assert.False(t, model.SupportsPackage("boto3"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.hcl"))
	require.Error(t, err)
}

func TestSupportedPackagesIsSorted(t *testing.T) {
	model := &Model{Packages: []string{"urllib3", "boto3", "requests"}}
	assert.Equal(t, "boto3, requests, urllib3", model.SupportedPackages())
}

func TestCanonicalArch(t *testing.T) {
	model := Default()
	assert.Equal(t, "arm64", model.CanonicalArch("aarch64"))
	assert.Equal(t, "x86_64", model.CanonicalArch("amd64"))
	assert.Equal(t, "arm64", model.CanonicalArch("arm64"))
	assert.Equal(t, "riscv64", model.CanonicalArch("riscv64"))
}
