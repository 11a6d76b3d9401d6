// Package cli parses layerctl's command line. layerctl drives the same
// build/verify pipelines the Lambda handlers run, but prints the callback
// document to stdout instead of delivering it to CloudFormation.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Invocation is the parsed command: which pipeline to run and the resource
// properties to feed it, exactly as a template would declare them.
type Invocation struct {
	Action     string // "build" or "verify"
	Properties map[string]string

	ConfigPath  string
	WorkRoot    string
	RegistryURL string
	LogFormat   string
	LogLevel    string
}

const usageText = `layerctl - run the Lambda layer build/verify pipelines locally.

Usage:
  layerctl build  -bucket BUCKET -package NAME -runtime RUNTIME -arch ARCH [options]
  layerctl verify -package NAME [-import-name NAME] [-version V] [-runtime RUNTIME] [-arch ARCH] [options]

The terminal callback that would go to CloudFormation is printed to stdout.

Options:
`

// Parse processes command-line arguments. It returns a populated Invocation,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*Invocation, bool, error) {
	if len(args) == 0 {
		fmt.Fprint(output, usageText)
		return nil, true, nil
	}

	action := args[0]
	if action != "build" && action != "verify" {
		if action == "-h" || action == "--help" || action == "help" {
			fmt.Fprint(output, usageText)
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q: expected 'build' or 'verify'", action)}
	}

	flagSet := flag.NewFlagSet("layerctl "+action, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, usageText)
		flagSet.PrintDefaults()
	}

	bucketFlag := flagSet.String("bucket", "", "Destination S3 bucket (build only).")
	packageFlag := flagSet.String("package", "", "Package name.")
	runtimeFlag := flagSet.String("runtime", "", "Runtime identifier, e.g. python3.13.")
	archFlag := flagSet.String("arch", "", "Processor architecture, e.g. arm64.")
	importFlag := flagSet.String("import-name", "", "Expected import name (verify only).")
	versionFlag := flagSet.String("version", "", "Expected package version (verify only).")
	configFlag := flagSet.String("config", "", "Path to an HCL enumeration config file.")
	workRootFlag := flagSet.String("work-root", "", "Staging root directory (defaults to the system temp dir).")
	registryFlag := flagSet.String("registry-url", "", "Package registry base URL (defaults to PyPI).")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	props := map[string]string{}
	set := func(key, value string) {
		if value != "" {
			props[key] = value
		}
	}
	set("BucketName", *bucketFlag)
	set("PackageName", *packageFlag)
	set("Runtime", *runtimeFlag)
	set("Architecture", *archFlag)
	if action == "verify" {
		set("PackageImportName", *importFlag)
		set("PackageVersion", *versionFlag)
	}

	return &Invocation{
		Action:      action,
		Properties:  props,
		ConfigPath:  *configFlag,
		WorkRoot:    *workRootFlag,
		RegistryURL: *registryFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	}, false, nil
}
