// Command layer-builder is the Lambda entrypoint for the layer creation
// custom resource handler.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/app"
	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/cfnres"
	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/ctxlog"
)

func main() {
	logger := app.NewLoggerFromEnv(os.Stderr)
	slog.SetDefault(logger)

	ctx := ctxlog.WithLogger(context.Background(), logger)
	handler, err := app.NewBuilderHandler(ctx, app.Options{})
	if err != nil {
		logger.Error("Builder startup failed.", "error", err)
		os.Exit(1)
	}

	lambda.Start(func(ctx context.Context, event cfnres.Event) error {
		return handler.Handle(ctxlog.WithLogger(ctx, logger), event)
	})
}
