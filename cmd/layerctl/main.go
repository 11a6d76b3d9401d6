// Command layerctl runs the build and verify pipelines outside a
// CloudFormation stack, printing the would-be callback to stdout.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/app"
	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/cfnres"
	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/cli"
	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/ctxlog"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling.
func run(args []string) error {
	invocation, shouldExit, err := cli.Parse(args, os.Stdout)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := app.NewLogger(invocation.LogLevel, invocation.LogFormat, os.Stderr)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	opts := app.Options{
		ConfigPath:  invocation.ConfigPath,
		WorkRoot:    invocation.WorkRoot,
		RegistryURL: invocation.RegistryURL,
		Sender:      &cfnres.WriterSender{W: os.Stdout},
	}

	// A synthetic create request; the callback goes to stdout, so no
	// ResponseURL is involved.
	event := cfnres.Event{
		RequestType:        cfnres.RequestCreate,
		LogicalResourceID:  "layerctl",
		RequestID:          "local",
		ResourceProperties: invocation.Properties,
	}

	switch invocation.Action {
	case "build":
		handler, err := app.NewBuilderHandler(ctx, opts)
		if err != nil {
			return err
		}
		return handler.Handle(ctx, event)
	case "verify":
		handler, err := app.NewVerifierHandler(ctx, opts)
		if err != nil {
			return err
		}
		return handler.Handle(ctx, event)
	default:
		return &cli.ExitError{Code: 2, Message: "unknown command: " + invocation.Action}
	}
}
