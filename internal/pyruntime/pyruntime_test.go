package pyruntime

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidImportName(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		valid bool
	}{
		{name: "simple", input: "boto3", valid: true},
		{name: "underscored", input: "aws_lambda_powertools", valid: true},
		{name: "dotted", input: "concurrent.futures", valid: true},
		{name: "empty", input: "", valid: false},
		{name: "hyphenated", input: "aws-xray-sdk", valid: false},
		{name: "leading digit", input: "3boto", valid: false},
		{name: "embedded code", input: "os; import sys", valid: false},
		{name: "trailing dot", input: "boto3.", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, validImportName(tc.input))
		})
	}
}

func TestLoadRejectsMalformedImportName(t *testing.T) {
	r := &PythonRuntime{}
	result, err := r.Load(context.Background(), "not a module")
	require.NoError(t, err)
	assert.False(t, result.Loaded)
	assert.Empty(t, result.Version)
}

func TestExceptionLine(t *testing.T) {
	stderr := "Traceback (most recent call last):\n" +
		"  File \"<string>\", line 2, in <module>\n" +
		"RuntimeError: broken install\n"
	assert.Equal(t, "RuntimeError: broken install", exceptionLine([]byte(stderr)))
	assert.Equal(t, "", exceptionLine(nil))
}

func TestSearchPathsIncludeRuntimeSitePackages(t *testing.T) {
	root := t.TempDir()
	site := filepath.Join(root, "python", "lib", "python3.13", "site-packages")
	require.NoError(t, os.MkdirAll(site, 0o755))

	r := &PythonRuntime{LayerRoot: root}
	paths := r.searchPaths()

	assert.Contains(t, paths, filepath.Join(root, "python"))
	assert.Contains(t, paths, site)
}

func TestSearchPathsWithoutLayerStillListsRoot(t *testing.T) {
	root := t.TempDir()
	r := &PythonRuntime{LayerRoot: root}
	assert.Equal(t, []string{filepath.Join(root, "python")}, r.searchPaths())
}

func TestDefaults(t *testing.T) {
	r := &PythonRuntime{}
	assert.Equal(t, "python3", r.interpreter())
	assert.Equal(t, "/opt", r.layerRoot())
}
