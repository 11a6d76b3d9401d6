package model

import (
	"fmt"
	"strings"
)

// ImportName derives a package's Python import name from its distribution
// name by replacing hyphens with underscores (PEP 8 convention, e.g.
// "aws-lambda-powertools" imports as "aws_lambda_powertools"). Packages whose
// real top-level module does not follow this rule are not supported.
func ImportName(packageName string) string {
	return strings.ReplaceAll(packageName, "-", "_")
}

// LayerKey builds the S3 object key for a layer archive, e.g.
// "python313-arm64-boto3.zip". The key deliberately excludes the package
// version so repeated builds overwrite the same object instead of
// accumulating keys; S3 bucket versioning retains prior uploads.
func LayerKey(runtime, architecture, packageName string) string {
	name := strings.ToLower(strings.ReplaceAll(runtime, ".", ""))
	return fmt.Sprintf("%s-%s-%s.zip", name, architecture, packageName)
}

// ArchiveName builds the local, pre-upload archive filename, e.g.
// "boto3-python3.13-1.36.2.zip". Unlike LayerKey it carries the resolved
// version, which makes a stray file under /tmp identifiable at a glance.
func ArchiveName(packageName, runtime, version string) string {
	return fmt.Sprintf("%s-%s-%s.zip", packageName, runtime, version)
}

// ListString renders a single value in Python's single-quoted list notation,
// e.g. "['python3.13']". The custom resource protocol only carries strings,
// and the consuming template expects this exact rendering for the
// compatibility fields.
func ListString(value string) string {
	return fmt.Sprintf("['%s']", value)
}
