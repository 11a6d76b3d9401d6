package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBuildCommand(t *testing.T) {
	var out bytes.Buffer
	invocation, exit, err := Parse([]string{
		"build", "-bucket", "layers-bucket", "-package", "boto3",
		"-runtime", "python3.13", "-arch", "arm64",
	}, &out)

	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, "build", invocation.Action)
	assert.Equal(t, map[string]string{
		"BucketName":   "layers-bucket",
		"PackageName":  "boto3",
		"Runtime":      "python3.13",
		"Architecture": "arm64",
	}, invocation.Properties)
}

func TestParseVerifyCommand(t *testing.T) {
	var out bytes.Buffer
	invocation, exit, err := Parse([]string{
		"verify", "-package", "aws-lambda-powertools",
		"-import-name", "aws_lambda_powertools", "-version", "3.4.0",
	}, &out)

	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, "verify", invocation.Action)
	assert.Equal(t, "aws_lambda_powertools", invocation.Properties["PackageImportName"])
	assert.Equal(t, "3.4.0", invocation.Properties["PackageVersion"])
	// Absent flags stay absent; the verifier defaults them itself.
	assert.NotContains(t, invocation.Properties, "Runtime")
}

func TestParseNoArgsPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	invocation, exit, err := Parse(nil, &out)

	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, invocation)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParseUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"destroy"}, &out)

	require.Error(t, err)
	exitErr, ok := err.(*ExitError)
	require.True(t, ok)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParseInvalidLogLevel(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"build", "-log-level", "loud"}, &out)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log-level")
}
