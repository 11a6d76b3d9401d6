package pip

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandArgsPinsExactVersion(t *testing.T) {
	args := commandArgs("boto3", "1.36.2", "/tmp/site-packages")

	assert.Equal(t, []string{
		"-m", "pip", "install", "-q",
		"boto3==1.36.2",
		"--target", "/tmp/site-packages",
		"--no-cache-dir",
		"--disable-pip-version-check",
	}, args)
}

func TestOutputTailBoundsLongOutput(t *testing.T) {
	long := strings.Repeat("resolution error line\n", 200)
	tail := outputTail([]byte(long))

	assert.LessOrEqual(t, len(tail), 515)
	assert.True(t, strings.HasPrefix(tail, "..."))
}

func TestOutputTailKeepsShortOutput(t *testing.T) {
	assert.Equal(t, "ERROR: no matching distribution", outputTail([]byte("ERROR: no matching distribution\n")))
}
