// Package builder implements the layer creation handler: resolve the
// package's latest version, stage it into the layer directory shape, archive
// it, publish it to S3, and report the resulting identity to CloudFormation.
//
// Every invocation delivers exactly one terminal callback. Any failure after
// the delete short-circuit is caught at a single outer boundary and turned
// into a FAILED callback; staging directories and the local archive are
// removed on every exit path.
package builder
