package model

// PackageRequest is the validated input to the builder: which package to
// bundle, for which runtime and processor architecture, and where the
// resulting archive should be stored.
type PackageRequest struct {
	BucketName   string
	PackageName  string
	Runtime      string
	Architecture string
}

// IdentityRecord describes a successfully published layer. It is the single
// result object the builder reports to CloudFormation, and its identity
// fields are what the verifier later checks the live sandbox against.
type IdentityRecord struct {
	PackageName  string
	ImportName   string
	Version      string
	Runtime      string
	Architecture string
	Bucket       string
	Key          string
	Location     string
}

// ResponseData renders the record as the flat string map CloudFormation
// expects in the custom resource response. The compatibility fields are
// single-element lists rendered in Python's list notation; the downstream
// template consumes them in that exact shape.
func (r IdentityRecord) ResponseData() map[string]string {
	return map[string]string{
		"S3Location":              r.Location,
		"S3Bucket":                r.Bucket,
		"S3Key":                   r.Key,
		"PackageName":             r.PackageName,
		"PackageVersion":          r.Version,
		"PackageImportName":       r.ImportName,
		"CompatibleRuntimes":      ListString(r.Runtime),
		"CompatibleArchitectures": ListString(r.Architecture),
	}
}

// EmptyBuilderData returns the builder response map with every field present
// but blank. Delete requests and failed runs report this shape.
func EmptyBuilderData() map[string]string {
	return map[string]string{
		"S3Location": "", "S3Bucket": "", "S3Key": "",
		"PackageName": "", "PackageVersion": "", "PackageImportName": "",
		"CompatibleRuntimes": "", "CompatibleArchitectures": "",
	}
}

// Verdict is the verifier's terminal result: an overall pass/fail, a message
// spelling out every compared dimension, and the observed identity echoed
// back for diagnostics.
type Verdict struct {
	Status       string // VerdictSuccess or VerdictFailed
	Message      string
	Package      string
	Version      string
	Runtime      string
	Architecture string
}

// Verdict status values. They double as the CloudFormation response status.
const (
	VerdictSuccess = "SUCCESS"
	VerdictFailed  = "FAILED"
)

// ResponseData renders the verdict as the verifier's response map.
func (v Verdict) ResponseData() map[string]string {
	return map[string]string{
		"Status":             v.Status,
		"Message":            v.Message,
		"TestPackage":        v.Package,
		"TestPackageVersion": v.Version,
		"TestRuntime":        v.Runtime,
		"TestArchitecture":   v.Architecture,
	}
}

// EmptyVerifierData returns the verifier response map with every field blank.
func EmptyVerifierData() map[string]string {
	return map[string]string{
		"Status": "", "Message": "", "TestPackage": "",
		"TestPackageVersion": "", "TestRuntime": "", "TestArchitecture": "",
	}
}
