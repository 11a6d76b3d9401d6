package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImportName(t *testing.T) {
	testCases := []struct {
		name     string
		pkg      string
		expected string
	}{
		{name: "hyphenated package", pkg: "aws-lambda-powertools", expected: "aws_lambda_powertools"},
		{name: "single word package", pkg: "boto3", expected: "boto3"},
		{name: "multiple hyphens", pkg: "aws-xray-sdk", expected: "aws_xray_sdk"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ImportName(tc.pkg))
		})
	}
}

func TestLayerKey(t *testing.T) {
	key := LayerKey("python3.13", "arm64", "boto3")
	assert.Equal(t, "python313-arm64-boto3.zip", key)

	// The key is version-independent: two builds resolving different
	// versions still overwrite the same object.
	assert.Equal(t, LayerKey("python3.13", "arm64", "boto3"), key)
}

func TestArchiveNameCarriesVersion(t *testing.T) {
	a := ArchiveName("boto3", "python3.13", "1.36.2")
	b := ArchiveName("boto3", "python3.13", "1.36.3")

	assert.Equal(t, "boto3-python3.13-1.36.2.zip", a)
	assert.NotEqual(t, a, b)
}

func TestListString(t *testing.T) {
	assert.Equal(t, "['python3.13']", ListString("python3.13"))
	assert.Equal(t, "['arm64']", ListString("arm64"))
}

func TestIdentityRecordResponseData(t *testing.T) {
	record := IdentityRecord{
		PackageName:  "aws-lambda-powertools",
		ImportName:   "aws_lambda_powertools",
		Version:      "3.4.0",
		Runtime:      "python3.13",
		Architecture: "arm64",
		Bucket:       "layers-bucket",
		Key:          "python313-arm64-aws-lambda-powertools.zip",
		Location:     "s3://layers-bucket/python313-arm64-aws-lambda-powertools.zip",
	}

	data := record.ResponseData()
	assert.Equal(t, "s3://layers-bucket/python313-arm64-aws-lambda-powertools.zip", data["S3Location"])
	assert.Equal(t, "['python3.13']", data["CompatibleRuntimes"])
	assert.Equal(t, "['arm64']", data["CompatibleArchitectures"])
	assert.Equal(t, "aws_lambda_powertools", data["PackageImportName"])
}

func TestEmptyDataShapes(t *testing.T) {
	builderData := EmptyBuilderData()
	assert.Len(t, builderData, 8)
	for field, value := range builderData {
		assert.Empty(t, value, "field %s should be blank", field)
	}

	verifierData := EmptyVerifierData()
	assert.Len(t, verifierData, 6)
	for field, value := range verifierData {
		assert.Empty(t, value, "field %s should be blank", field)
	}
}
