// Package model defines the data shapes shared by the builder and verifier
// handlers: the validated package request, the identity record threaded back
// to CloudFormation, the verifier's verdict, and the pure naming rules for
// import names, layer keys, and archive files.
package model
